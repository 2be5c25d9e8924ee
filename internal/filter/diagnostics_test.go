package filter_test

import (
	"testing"

	"github.com/hex1b/hex1b/internal/diagnostics"
	"github.com/hex1b/hex1b/internal/emu"
	"github.com/hex1b/hex1b/internal/filter"
	"github.com/hex1b/hex1b/internal/token"
)

type fakeBroadcaster struct {
	messages []diagnostics.Message
}

func (f *fakeBroadcaster) Broadcast(m diagnostics.Message) { f.messages = append(f.messages, m) }

func TestDiagnosticsFilterBroadcastsOutput(t *testing.T) {
	fb := &fakeBroadcaster{}
	df := filter.NewDiagnosticsFilter(fb)

	out := df.OnOutput([]emu.AppliedToken{{Token: token.Text("hi")}})
	if len(out) != 1 {
		t.Fatalf("expected OnOutput to pass the stream through unchanged")
	}
	if len(fb.messages) != 1 || fb.messages[0].Type != diagnostics.TypeOutput {
		t.Fatalf("expected one output broadcast, got %+v", fb.messages)
	}
}

func TestDiagnosticsFilterBroadcastsResize(t *testing.T) {
	fb := &fakeBroadcaster{}
	df := filter.NewDiagnosticsFilter(fb)
	df.OnResize(100, 40)
	if len(fb.messages) != 1 || fb.messages[0].Width != 100 || fb.messages[0].Height != 40 {
		t.Fatalf("unexpected resize broadcast: %+v", fb.messages)
	}
}
