// Package harness provides a deterministic, in-process terminal for
// testing applications built on this module: an emulator and render
// engine wired together without a real PTY, plus helpers for feeding
// raw bytes, driving input, and asserting on the resulting screen.
package harness

import (
	"strings"
	"time"

	"github.com/hex1b/hex1b/internal/emu"
	"github.com/hex1b/hex1b/internal/input"
	"github.com/hex1b/hex1b/internal/render"
	"github.com/hex1b/hex1b/internal/token"
	"github.com/hex1b/hex1b/internal/widget"
)

// Harness bundles an Emulator, render Engine, and input Router so a test
// can drive a whole hex1b application without a real terminal attached.
type Harness struct {
	Emulator *emu.Emulator
	Engine   *render.Engine
	Router   *input.Router
}

// New constructs a Harness sized width x height, with the given theme
// (pass a zero-value theme implementation if color output isn't under
// test).
func New(width, height int, theme widget.Theme) *Harness {
	e := emu.NewEmulator(width, height)
	return &Harness{
		Emulator: e,
		Engine:   render.New(e, theme),
		Router:   input.NewRouter(),
	}
}

// Frame runs one render cycle and updates the router's view of the tree.
func (h *Harness) Frame(build render.BuildFunc) []emu.AppliedToken {
	applied := h.Engine.RenderFrame(build)
	h.Router.SetRoot(h.Engine.Root())
	return applied
}

// Feed tokenizes and applies raw bytes directly to the emulator, as if
// they had arrived from a child process's stdout.
func (h *Harness) Feed(data []byte) {
	for _, tok := range token.Tokenize(data) {
		h.Emulator.Apply(tok)
	}
}

// SendKey routes a named key event (see input.KeyEvent) through the
// router, returning whether anything handled it.
func (h *Harness) SendKey(name string) bool {
	return h.Router.DispatchKey(input.KeyEvent{Name: name})
}

// Type sends each rune of s as an individual printable key event.
func (h *Harness) Type(s string) {
	for _, r := range s {
		h.Router.DispatchKey(input.KeyEvent{Name: string(r), Printable: string(r)})
	}
}

// Click sends a left mouse-down event at the given grid coordinates.
func (h *Harness) Click(x, y int) bool {
	return h.Router.DispatchMouse(input.MouseEvent{X: x, Y: y, Button: "left", Action: "down"})
}

// Snapshot renders the emulator's current grid as plain text, one line
// per row with trailing spaces preserved, for golden-style assertions.
func (h *Harness) Snapshot() string {
	var b strings.Builder
	w, hgt := h.Emulator.Grid.Width(), h.Emulator.Grid.Height()
	for y := 0; y < hgt; y++ {
		for x := 0; x < w; x++ {
			c := h.Emulator.Grid.Cell(x, y)
			if c.Grapheme == "" {
				continue // wide-character continuation cell
			}
			b.WriteString(c.Grapheme)
		}
		if y < hgt-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// WaitUntil polls cond every interval until it returns true or timeout
// elapses, returning whether cond was eventually satisfied. Intended for
// harness-driven integration tests against a real child process, where
// the test cannot just call Frame synchronously.
func WaitUntil(timeout, interval time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for {
		if cond() {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(interval)
	}
}
