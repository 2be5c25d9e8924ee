// Package render drives the frame loop: build a Description tree,
// reconcile it against the previous cycle's Node tree, measure and
// arrange it against the current terminal size, then render only the
// nodes that came out dirty, wrapped in frame-bracket markers so a
// downstream filter can commit or discard an entire cycle atomically
// (spec §4.6).
package render

import (
	"github.com/hex1b/hex1b/internal/emu"
	"github.com/hex1b/hex1b/internal/layout"
	"github.com/hex1b/hex1b/internal/token"
	"github.com/hex1b/hex1b/internal/widget"
)

// BuildFunc produces the root Description for one frame. Applications
// supply this; it should be pure given its closed-over state.
type BuildFunc func() widget.Description

// Engine owns the previous cycle's Node tree and the emulator whose
// CellGrid receives the tokens each frame emits.
type Engine struct {
	root      widget.Node
	emulator  *emu.Emulator
	theme     widget.Theme
	lastWidth int
	lastHeight int
}

// New constructs an Engine rendering into em, using theme to resolve
// colors during Render.
func New(em *emu.Emulator, theme widget.Theme) *Engine {
	return &Engine{emulator: em, theme: theme}
}

// SetTheme replaces the theme used for subsequent frames.
func (e *Engine) SetTheme(theme widget.Theme) { e.theme = theme }

// Root returns the current Node tree, primarily for the input router to
// walk for focus traversal and hit testing.
func (e *Engine) Root() widget.Node { return e.root }

// RenderFrame builds, reconciles, measures, arranges and renders one
// frame, returning the AppliedToken stream the emulator produced. The
// stream always starts with FrameBegin and ends with FrameEnd; a stream
// holding only that pair (no dirty nodes) means nothing was rendered this
// cycle.
func (e *Engine) RenderFrame(build BuildFunc) []emu.AppliedToken {
	desc := build()
	e.root = widget.Reconcile(e.root, desc)

	w, h := e.emulator.Grid.Width(), e.emulator.Grid.Height()
	if w != e.lastWidth || h != e.lastHeight {
		e.root.MarkDirty()
		e.lastWidth, e.lastHeight = w, h
	}

	e.root.Measure(layout.Tight(layout.Size{Width: w, Height: h}))
	e.root.Arrange(layout.Rect{X: 0, Y: 0, Width: w, Height: h})

	ctx := &widget.RenderContext{Theme: e.theme}

	var toks []token.AnsiToken
	toks = append(toks, token.FrameBegin())
	toks = append(toks, collectDirty(e.root, ctx)...)
	toks = append(toks, token.FrameEnd())

	applied := make([]emu.AppliedToken, 0, len(toks))
	for _, t := range toks {
		applied = append(applied, e.emulator.Apply(t))
	}

	clearDirty(e.root)
	return applied
}

func collectDirty(n widget.Node, ctx *widget.RenderContext) []token.AnsiToken {
	if n == nil {
		return nil
	}
	var out []token.AnsiToken
	if n.Dirty() && !n.Rect().Empty() {
		out = append(out, n.Render(ctx)...)
	}
	for _, c := range n.Children() {
		out = append(out, collectDirty(c, ctx)...)
	}
	return out
}

func clearDirty(n widget.Node) {
	if n == nil {
		return
	}
	n.ClearDirty()
	for _, c := range n.Children() {
		clearDirty(c)
	}
}
