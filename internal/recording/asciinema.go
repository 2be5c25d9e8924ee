// Package recording implements the asciinema v2 cast format used to
// capture a session's output stream for later playback (spec §6,
// "terminal start --record").
package recording

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// Header is the asciinema v2 file header, written as the first line of a
// cast file.
type Header struct {
	Version   int            `json:"version"`
	Width     int            `json:"width"`
	Height    int            `json:"height"`
	Timestamp int64          `json:"timestamp,omitempty"`
	Command   string         `json:"command,omitempty"`
	Title     string         `json:"title,omitempty"`
	Env       map[string]string `json:"env,omitempty"`
}

// Recorder encodes a live session into an asciinema v2 stream. Writes
// are serialized with a mutex since output and resize events can arrive
// from different goroutines (the PTY reader and the input router).
type Recorder struct {
	mu  sync.Mutex
	w   io.Writer
	enc *json.Encoder
}

// New writes the header line and returns a Recorder ready for events.
// now is the session start time in seconds since the epoch, supplied by
// the caller so this package never calls time.Now itself.
func New(w io.Writer, width, height int, command string, now int64) (*Recorder, error) {
	h := Header{Version: 2, Width: width, Height: height, Timestamp: now, Command: command}
	enc := json.NewEncoder(w)
	if err := enc.Encode(h); err != nil {
		return nil, fmt.Errorf("recording: write header: %w", err)
	}
	return &Recorder{w: w, enc: enc}, nil
}

// Output appends an "o" (output) event at elapsedSeconds since the
// header timestamp.
func (r *Recorder) Output(elapsedSeconds float64, data string) error {
	return r.event(elapsedSeconds, "o", data)
}

// Input appends an "i" (input) event.
func (r *Recorder) Input(elapsedSeconds float64, data string) error {
	return r.event(elapsedSeconds, "i", data)
}

// Resize appends an "r" (resize) event with a "WIDTHxHEIGHT" payload,
// the format asciinema players expect.
func (r *Recorder) Resize(elapsedSeconds float64, width, height int) error {
	return r.event(elapsedSeconds, "r", fmt.Sprintf("%dx%d", width, height))
}

func (r *Recorder) event(elapsedSeconds float64, kind, data string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Events are 3-element JSON arrays: [time, type, data]. encoding/json
	// has no tuple type, so this is encoded via an untyped slice.
	return r.enc.Encode([]interface{}{elapsedSeconds, kind, data})
}
