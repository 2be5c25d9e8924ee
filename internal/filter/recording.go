package filter

import (
	"github.com/hex1b/hex1b/internal/emu"
	"github.com/hex1b/hex1b/internal/recording"
	"github.com/hex1b/hex1b/internal/token"
)

// Clock supplies elapsed-seconds-since-session-start for recording
// timestamps, so this package never calls time.Now itself.
type Clock func() float64

// RecordingFilter writes every byte that reaches the real terminal (and,
// optionally, every byte of input) to an asciinema recorder, without
// altering the stream it passes downstream.
type RecordingFilter struct {
	BaseFilter
	rec        *recording.Recorder
	now        Clock
	recordInput bool
}

// NewRecordingFilter wraps rec, timestamping events with now().
func NewRecordingFilter(rec *recording.Recorder, now Clock, recordInput bool) *RecordingFilter {
	return &RecordingFilter{rec: rec, now: now, recordInput: recordInput}
}

func (f *RecordingFilter) OnOutput(applied []emu.AppliedToken) []emu.AppliedToken {
	for _, a := range applied {
		if a.Token.Kind == token.KindFrameBegin || a.Token.Kind == token.KindFrameEnd {
			continue
		}
		data := token.SerializeToken(a.Token)
		if data == "" {
			continue
		}
		_ = f.rec.Output(f.now(), data)
	}
	return applied
}

func (f *RecordingFilter) OnInput(data []byte) []byte {
	if f.recordInput && len(data) > 0 {
		_ = f.rec.Input(f.now(), string(data))
	}
	return data
}

func (f *RecordingFilter) OnResize(w, h int) {
	_ = f.rec.Resize(f.now(), w, h)
}
