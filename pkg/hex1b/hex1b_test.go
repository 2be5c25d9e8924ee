package hex1b_test

import (
	"strings"
	"testing"

	"github.com/hex1b/hex1b/internal/widget"
	"github.com/hex1b/hex1b/pkg/hex1b"
)

func TestFeedUpdatesEmulatorGrid(t *testing.T) {
	app := hex1b.New(10, 2)
	app.Feed([]byte("hi"))
	cell := app.Emulator().Grid.Cell(0, 0)
	if cell.Grapheme != "h" {
		t.Fatalf("cell(0,0) = %q, want 'h'", cell.Grapheme)
	}
}

func TestRenderFrameAppliesWidgetTree(t *testing.T) {
	app := hex1b.New(10, 1)
	applied := app.RenderFrame(func() hex1b.Description {
		return widget.LabelDesc{Text: "hi"}
	})
	found := false
	for _, a := range applied {
		if strings.Contains(a.Token.Text, "hi") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a rendered token containing 'hi', got %+v", applied)
	}
}

func TestSendKeyReachesFocusedTextField(t *testing.T) {
	app := hex1b.New(10, 1)
	var got string
	app.RenderFrame(func() hex1b.Description {
		return widget.TextFieldDesc{Value: "", OnChange: func(s string) { got = s }}
	})
	app.SendKey("x", "x")
	if _, ok := app.Router().Focused().(interface{ InsertText(string) }); !ok {
		t.Fatalf("expected focused node to be a text input")
	}
	if got != "x" {
		t.Fatalf("text field value = %q, want %q", got, "x")
	}
}
