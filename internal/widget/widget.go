// Package widget implements the declarative description/node split that
// the render engine reconciles and renders (spec §3, §4.5): immutable
// descriptions produced by a builder on every cycle, and mutable nodes
// that own measured size, arranged rect, dirty/focus state, and
// subclass-specific data across cycles.
package widget

import (
	"github.com/hex1b/hex1b/internal/layout"
	"github.com/hex1b/hex1b/internal/token"
)

// Trigger matches a key or mouse condition for a Binding.
type Trigger struct {
	// Key triggers: Key is non-empty, e.g. "tab", "ctrl+c", "enter".
	Key string

	// Mouse triggers: Mouse is true and Button names the SGR mouse button
	// this binding reacts to ("left", "right", "wheelup", ...). An empty
	// Button matches any button for mouse-move conditions.
	Mouse  bool
	Button string
}

// Action is invoked when a Binding's trigger matches. It returns whether
// the event was handled (spec §4.8 routing: the first matching binding
// consumes the event).
type Action func(ctx *EventContext) bool

// Binding is the {trigger, action, description} triple from spec §4.8.
// Later bindings on the same node override earlier ones for the same
// trigger (spec §4.8, Binding vocabulary).
type Binding struct {
	Trigger     Trigger
	Action      Action
	Description string
}

// EventContext is passed to a Binding's Action.
type EventContext struct {
	Node   Node
	Router FocusRequester
}

// FocusRequester is the minimal surface a binding needs to move focus,
// implemented by the input router (kept here, not in package input, to
// avoid a dependency cycle between widget and input).
type FocusRequester interface {
	RequestFocus(n Node)
	Quit()
}

// Description is an immutable, value-like node specification. Two
// descriptions are equal iff their kind and configuration are equal
// (spec §3).
type Description interface {
	Kind() string
	Equal(Description) bool
	Children() []Description
	Bindings() []Binding
	// NewNode constructs the mutable Node this description configures,
	// used by the reconciler when no compatible node exists yet.
	NewNode() Node
	// Configure applies this description's configuration to n. n is
	// guaranteed by the reconciler to be of the type NewNode produces.
	Configure(n Node)
}

// RenderContext carries the immutable, scoped configuration available to
// a node during Render — theme resolution and similar global state
// should flow through here rather than process-wide state (Design Notes
// §9).
type RenderContext struct {
	Theme   Theme
	Elapsed int64 // nanoseconds since session start, for animation hooks
}

// Theme is an immutable, scoped color/style lookup. internal/theme.Theme
// implements it against the active palette; internal/render passes the
// configured Theme to every node through RenderContext.
type Theme interface {
	Foreground(role string) *TokenColor
	Background(role string) *TokenColor
}

// TokenColor is the RGB color carried through the render context; kept
// distinct from emu.RGB so widget does not depend on the emulator
// package, only on the token vocabulary it emits.
type TokenColor struct{ R, G, B uint8 }

// TextInput is implemented by focusable nodes that consume printable
// characters directly (TextField) rather than only through the
// declarative Binding vocabulary, which has no practical way to
// enumerate "every grapheme the user might type" as triggers.
type TextInput interface {
	InsertText(s string)
	DeleteBackward()
	MoveCursor(delta int)
}

// Node is the mutable, heap-allocated counterpart to a Description. A
// node surviving reconciliation retains its subclass-specific state
// (cursor position, scroll offset, ...), which is what makes focus and
// scroll position "stick" across rebuilds (spec §4.5).
type Node interface {
	// Description returns the description that last configured this node.
	Description() Description

	// Measure returns this node's preferred size under the given
	// constraints (spec §4.4).
	Measure(c layout.Constraints) layout.Size
	// Arrange assigns this node's final rect and, for containers,
	// recursively arranges children.
	Arrange(r layout.Rect)
	Rect() layout.Rect
	Size() layout.Size

	// Dirty reports whether this node must be re-rendered: a changed
	// property, a changed child set, or a changed Rect (spec §4.6).
	Dirty() bool
	MarkDirty()
	ClearDirty()

	IsFocusable() bool
	Focused() bool
	SetFocused(bool)

	Children() []Node
	SetChildren([]Node)

	Bindings() []Binding

	// Render emits the cursor-positioning + SGR + text tokens needed to
	// paint this node's own content within its arranged rect. Containers
	// render only their own decoration (e.g. a border); the render engine
	// is responsible for walking children.
	Render(ctx *RenderContext) []token.AnsiToken
}

// BaseNode provides the bookkeeping every concrete node needs
// (description, rect, size, dirty/focus flags, children), so concrete
// widgets only implement Measure/Arrange/Render/IsFocusable.
type BaseNode struct {
	desc     Description
	rect     layout.Rect
	size     layout.Size
	dirty    bool
	focused  bool
	children []Node
}

func (b *BaseNode) Description() Description    { return b.desc }
func (b *BaseNode) SetDescription(d Description) { b.desc = d }
func (b *BaseNode) Rect() layout.Rect           { return b.rect }
func (b *BaseNode) SetRect(r layout.Rect) {
	if r != b.rect {
		b.dirty = true
	}
	b.rect = r
}
func (b *BaseNode) Size() layout.Size      { return b.size }
func (b *BaseNode) SetSize(s layout.Size)  { b.size = s }
func (b *BaseNode) Dirty() bool            { return b.dirty }
func (b *BaseNode) MarkDirty()             { b.dirty = true }
func (b *BaseNode) ClearDirty()            { b.dirty = false }
func (b *BaseNode) Focused() bool          { return b.focused }
func (b *BaseNode) SetFocused(f bool) {
	if f != b.focused {
		b.dirty = true
	}
	b.focused = f
}
func (b *BaseNode) Children() []Node         { return b.children }
func (b *BaseNode) SetChildren(c []Node)     { b.children = c }
func (b *BaseNode) Bindings() []Binding {
	if b.desc == nil {
		return nil
	}
	return b.desc.Bindings()
}
