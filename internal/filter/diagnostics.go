package filter

import (
	"github.com/hex1b/hex1b/internal/diagnostics"
	"github.com/hex1b/hex1b/internal/emu"
	"github.com/hex1b/hex1b/internal/token"
)

// Broadcaster is the subset of diagnostics.Hub this filter needs, kept
// as an interface so tests can substitute a fake.
type Broadcaster interface {
	Broadcast(diagnostics.Message)
}

// DiagnosticsFilter mirrors the output, input, and resize events an
// attached session passes through to every diagnostics client, without
// altering the stream itself (spec §6).
type DiagnosticsFilter struct {
	BaseFilter
	hub Broadcaster
}

// NewDiagnosticsFilter wraps hub.
func NewDiagnosticsFilter(hub Broadcaster) *DiagnosticsFilter {
	return &DiagnosticsFilter{hub: hub}
}

func (f *DiagnosticsFilter) OnOutput(applied []emu.AppliedToken) []emu.AppliedToken {
	for _, a := range applied {
		if a.Token.Kind == token.KindFrameBegin || a.Token.Kind == token.KindFrameEnd {
			continue
		}
		if data := token.SerializeToken(a.Token); data != "" {
			f.hub.Broadcast(diagnostics.Message{Type: diagnostics.TypeOutput, Data: data})
		}
	}
	return applied
}

func (f *DiagnosticsFilter) OnInput(data []byte) []byte {
	if len(data) > 0 {
		f.hub.Broadcast(diagnostics.Message{Type: diagnostics.TypeInput, Data: string(data)})
	}
	return data
}

func (f *DiagnosticsFilter) OnResize(w, h int) {
	f.hub.Broadcast(diagnostics.Message{Type: diagnostics.TypeResize, Width: w, Height: h})
}

func (f *DiagnosticsFilter) OnSessionEnd() {
	f.hub.Broadcast(diagnostics.Message{Type: diagnostics.TypeExit})
}
