package render_test

import (
	"strings"
	"testing"

	"github.com/hex1b/hex1b/internal/emu"
	"github.com/hex1b/hex1b/internal/render"
	"github.com/hex1b/hex1b/internal/token"
	"github.com/hex1b/hex1b/internal/widget"
)

type noopTheme struct{}

func (noopTheme) Foreground(string) *widget.TokenColor { return nil }
func (noopTheme) Background(string) *widget.TokenColor { return nil }

func TestRenderFrameFirstCyclePaintsEverything(t *testing.T) {
	e := emu.NewEmulator(20, 3)
	eng := render.New(e, noopTheme{})

	applied := eng.RenderFrame(func() widget.Description {
		return widget.LabelDesc{Text: "hi"}
	})

	foundBegin, foundText := false, false
	for _, a := range applied {
		if a.Token.Kind == token.KindFrameBegin {
			foundBegin = true
		}
		if a.Token.Kind == token.KindText && strings.Contains(a.Token.Text, "hi") {
			foundText = true
		}
	}
	if !foundBegin {
		t.Errorf("expected a FrameBegin marker in the applied stream")
	}
	if !foundText {
		t.Errorf("expected label text rendered in the applied stream")
	}
	if e.Grid.Cell(0, 0).Grapheme != "h" {
		t.Errorf("cell (0,0) = %q, want h", e.Grid.Cell(0, 0).Grapheme)
	}
}

func TestRenderFrameSecondCycleSkipsUnchangedNodes(t *testing.T) {
	e := emu.NewEmulator(20, 3)
	eng := render.New(e, noopTheme{})
	build := func() widget.Description { return widget.LabelDesc{Text: "steady"} }

	eng.RenderFrame(build)
	applied := eng.RenderFrame(build)

	for _, a := range applied {
		if a.Token.Kind == token.KindText {
			t.Fatalf("expected no text tokens on an unchanged second frame, got %q", a.Token.Text)
		}
	}
}

func TestRenderFrameResizeForcesRepaint(t *testing.T) {
	e := emu.NewEmulator(20, 3)
	eng := render.New(e, noopTheme{})
	build := func() widget.Description { return widget.LabelDesc{Text: "steady"} }

	eng.RenderFrame(build)
	e.Grid.Resize(30, 5)
	applied := eng.RenderFrame(build)

	found := false
	for _, a := range applied {
		if a.Token.Kind == token.KindText {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected repaint after resize")
	}
}
