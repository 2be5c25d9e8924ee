package filter

import (
	"github.com/hex1b/hex1b/internal/emu"
	"github.com/hex1b/hex1b/internal/token"
)

type cellKey struct{ x, y int }

// RenderOptimizer buffers one frame's AppliedTokens between the
// FrameBegin/FrameEnd markers and drops any token whose entire set of
// cell impacts is already identical to what was last emitted for those
// coordinates, so a rebuild that reconciles to the same visible output
// writes no cells (spec §4.7, render-optimisation filter). The frame
// markers themselves are dropped; buffered tokens with no cell impacts
// (cursor moves, SGR) are always forwarded.
//
// This only collapses whole-token no-ops rather than splitting a
// partially-redundant run into the still-changed sub-span.
type RenderOptimizer struct {
	BaseFilter
	committed map[cellKey]emu.Cell
	inFrame   bool
	buffered  []emu.AppliedToken
}

// NewRenderOptimizer returns a ready-to-use RenderOptimizer.
func NewRenderOptimizer() *RenderOptimizer {
	return &RenderOptimizer{committed: make(map[cellKey]emu.Cell)}
}

func (r *RenderOptimizer) OnOutput(applied []emu.AppliedToken) []emu.AppliedToken {
	var out []emu.AppliedToken
	for _, a := range applied {
		switch {
		case isFrameBegin(a):
			r.inFrame = true
			r.buffered = r.buffered[:0]
			continue
		case isFrameEnd(a):
			r.inFrame = false
			out = append(out, r.flush()...)
			continue
		}
		if r.inFrame {
			r.buffered = append(r.buffered, a)
		} else {
			out = append(out, a)
		}
	}
	return out
}

func (r *RenderOptimizer) flush() []emu.AppliedToken {
	var out []emu.AppliedToken
	for _, a := range r.buffered {
		if len(a.CellImpacts) == 0 {
			out = append(out, a)
			continue
		}
		changed := false
		for _, impact := range a.CellImpacts {
			key := cellKey{impact.X, impact.Y}
			if prev, ok := r.committed[key]; !ok || !cellEqual(prev, impact.Cell) {
				changed = true
			}
			r.committed[key] = impact.Cell
		}
		if changed {
			out = append(out, a)
		}
	}
	r.buffered = r.buffered[:0]
	return out
}

// cellEqual compares the visible content of two cells, ignoring the
// write-sequence and timestamp bookkeeping fields that always differ
// between frames regardless of visible change.
func cellEqual(a, b emu.Cell) bool {
	if a.Grapheme != b.Grapheme || a.Attrs != b.Attrs {
		return false
	}
	if !rgbEqual(a.Fg, b.Fg) || !rgbEqual(a.Bg, b.Bg) {
		return false
	}
	if (a.Graphics == nil) != (b.Graphics == nil) {
		return false
	}
	if a.Graphics != nil && (*a.Graphics != *b.Graphics) {
		return false
	}
	return true
}

func rgbEqual(a, b *emu.RGB) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func isFrameBegin(a emu.AppliedToken) bool { return a.Token.Kind == token.KindFrameBegin }
func isFrameEnd(a emu.AppliedToken) bool   { return a.Token.Kind == token.KindFrameEnd }
