package emu_test

import (
	"testing"

	"github.com/hex1b/hex1b/internal/emu"
	"github.com/hex1b/hex1b/internal/token"
)

func apply(t *testing.T, e *emu.Emulator, s string) {
	t.Helper()
	for _, tok := range token.Tokenize([]byte(s)) {
		e.Apply(tok)
	}
}

func TestBasicText(t *testing.T) {
	e := emu.NewEmulator(80, 24)
	apply(t, e, "Hello")
	want := "Hello"
	for i, r := range want {
		c := e.Grid.Cell(i, 0)
		if c.Grapheme != string(r) {
			t.Errorf("cell %d: got %q want %q", i, c.Grapheme, string(r))
		}
	}
	if e.Grid.CursorCol() != 5 || e.Grid.CursorRow() != 0 {
		t.Errorf("unexpected cursor: (%d,%d)", e.Grid.CursorCol(), e.Grid.CursorRow())
	}
}

func TestWrap(t *testing.T) {
	e := emu.NewEmulator(10, 2)
	apply(t, e, "0123456789ABC")
	row0 := ""
	for x := 0; x < 10; x++ {
		row0 += e.Grid.Cell(x, 0).Grapheme
	}
	if row0 != "0123456789" {
		t.Fatalf("row0 = %q", row0)
	}
	row1 := ""
	for x := 0; x < 3; x++ {
		row1 += e.Grid.Cell(x, 1).Grapheme
	}
	if row1 != "ABC" {
		t.Fatalf("row1 = %q", row1)
	}
	if e.Grid.CursorCol() != 3 || e.Grid.CursorRow() != 1 {
		t.Errorf("unexpected cursor: (%d,%d)", e.Grid.CursorCol(), e.Grid.CursorRow())
	}
}

func TestClearUsesCurrentBackground(t *testing.T) {
	e := emu.NewEmulator(5, 3)
	apply(t, e, "\x1b[48;2;30;30;60m\x1b[2J")
	for y := 0; y < 3; y++ {
		for x := 0; x < 5; x++ {
			c := e.Grid.Cell(x, y)
			if c.Bg == nil || *c.Bg != (emu.RGB{R: 30, G: 30, B: 60}) {
				t.Fatalf("cell (%d,%d) bg = %+v, want {30 30 60}", x, y, c.Bg)
			}
			if c.Grapheme != " " {
				t.Fatalf("cell (%d,%d) grapheme = %q, want space", x, y, c.Grapheme)
			}
		}
	}
}

func TestAlternateScreenSaveRestore(t *testing.T) {
	e := emu.NewEmulator(10, 5)
	apply(t, e, "A")
	apply(t, e, "\x1b[?1049h")
	apply(t, e, "B")
	apply(t, e, "\x1b[?1049l")
	if e.Grid.Cell(0, 0).Grapheme != "A" {
		t.Fatalf("primary cell (0,0) = %q, want A", e.Grid.Cell(0, 0).Grapheme)
	}
	if e.Grid.CursorCol() != 1 || e.Grid.CursorRow() != 0 {
		t.Fatalf("unexpected cursor after restore: (%d,%d)", e.Grid.CursorCol(), e.Grid.CursorRow())
	}
	if e.Grid.AlternateActive() {
		t.Fatalf("alternate screen still active")
	}
}

func TestResizeGrowsGrid(t *testing.T) {
	e := emu.NewEmulator(80, 24)
	apply(t, e, "Hi")
	e.Grid.Resize(120, 40)
	if e.Grid.Width() != 120 || e.Grid.Height() != 40 {
		t.Fatalf("unexpected size after resize: %dx%d", e.Grid.Width(), e.Grid.Height())
	}
	if e.Grid.Cell(0, 0).Grapheme != "H" || e.Grid.Cell(1, 0).Grapheme != "i" {
		t.Fatalf("content not preserved after resize")
	}
}

func TestCursorBoundsInvariant(t *testing.T) {
	e := emu.NewEmulator(10, 5)
	apply(t, e, "\x1b[999;999H")
	if e.Grid.CursorRow() < 0 || e.Grid.CursorRow() >= e.Grid.Height() {
		t.Fatalf("cursor row out of bounds: %d", e.Grid.CursorRow())
	}
	if e.Grid.CursorCol() < 0 || e.Grid.CursorCol() > e.Grid.Width() {
		t.Fatalf("cursor col out of bounds: %d", e.Grid.CursorCol())
	}
}

func TestScrollRegionIntegrity(t *testing.T) {
	e := emu.NewEmulator(10, 10)
	apply(t, e, "\x1b[3;6r") // region rows 3..6 (1-based) => 2..5 0-based
	apply(t, e, "\x1b[1;1Htop")
	apply(t, e, "\x1b[10;1Hbottom")
	apply(t, e, "\x1b[3;1H")
	for i := 0; i < 5; i++ {
		apply(t, e, "\n")
	}
	if e.Grid.Cell(0, 0).Grapheme != "t" {
		t.Fatalf("row outside scroll region (top banner) was mutated: %q", e.Grid.Cell(0, 0).Grapheme)
	}
	if e.Grid.Cell(0, 9).Grapheme != "b" {
		t.Fatalf("row outside scroll region (bottom banner) was mutated: %q", e.Grid.Cell(0, 9).Grapheme)
	}
}

func TestMonotonicWriteSequence(t *testing.T) {
	e := emu.NewEmulator(10, 5)
	apply(t, e, "a")
	first := e.Grid.Cell(0, 0).Seq
	apply(t, e, "\x1b[1;1Hb")
	second := e.Grid.Cell(0, 0).Seq
	if second <= first {
		t.Fatalf("write sequence not monotonic: %d -> %d", first, second)
	}
}
