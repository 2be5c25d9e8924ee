package filter_test

import (
	"testing"

	"github.com/hex1b/hex1b/internal/emu"
	"github.com/hex1b/hex1b/internal/filter"
	"github.com/hex1b/hex1b/internal/token"
)

func frame(impacted []emu.CellImpact, text string) []emu.AppliedToken {
	return []emu.AppliedToken{
		{Token: token.FrameBegin()},
		{Token: token.Text(text), CellImpacts: impacted},
		{Token: token.FrameEnd()},
	}
}

func TestRenderOptimizerDropsRepeatedIdenticalCells(t *testing.T) {
	opt := filter.NewRenderOptimizer()
	cell := emu.Cell{Grapheme: "h"}
	impacts := []emu.CellImpact{{X: 0, Y: 0, Cell: cell}}

	first := opt.OnOutput(frame(impacts, "h"))
	if len(first) != 1 {
		t.Fatalf("expected first frame to forward the paint token, got %d tokens", len(first))
	}

	second := opt.OnOutput(frame(impacts, "h"))
	if len(second) != 0 {
		t.Fatalf("expected identical second frame to be fully suppressed, got %+v", second)
	}
}

func TestRenderOptimizerForwardsChangedCells(t *testing.T) {
	opt := filter.NewRenderOptimizer()
	first := []emu.CellImpact{{X: 0, Y: 0, Cell: emu.Cell{Grapheme: "h"}}}
	second := []emu.CellImpact{{X: 0, Y: 0, Cell: emu.Cell{Grapheme: "x"}}}

	opt.OnOutput(frame(first, "h"))
	out := opt.OnOutput(frame(second, "x"))
	if len(out) != 1 {
		t.Fatalf("expected changed cell to be forwarded, got %d tokens", len(out))
	}
}

func TestRenderOptimizerPassesThroughOutsideFrameBrackets(t *testing.T) {
	opt := filter.NewRenderOptimizer()
	applied := []emu.AppliedToken{{Token: token.Control('\r')}}
	out := opt.OnOutput(applied)
	if len(out) != 1 {
		t.Fatalf("expected tokens outside frame brackets to pass through untouched, got %d", len(out))
	}
}
