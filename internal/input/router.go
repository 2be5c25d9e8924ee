// Package input implements the declarative input-routing and focus
// model (spec §4.8): keyboard events bubble from the focused node up
// through its ancestors looking for a matching Binding, mouse events
// hit-test down to the deepest node containing the point, and Tab/
// Shift+Tab walk a depth-first focus order with wraparound.
package input

import (
	"github.com/hex1b/hex1b/internal/widget"
)

// KeyEvent is a decoded keyboard event. Name follows the same spelling
// Binding.Trigger.Key expects ("tab", "ctrl+c", "enter", or a single
// printable grapheme).
type KeyEvent struct {
	Name      string
	Printable string // non-empty for a plain character keystroke
}

// MouseEvent is a decoded mouse event at absolute grid coordinates.
type MouseEvent struct {
	X, Y   int
	Button string // "left", "right", "wheelup", "wheeldown", ...
	Action string // "down", "up", "drag", "move"
}

// Router owns focus state over a widget.Node tree and dispatches
// keyboard and mouse events against it.
type Router struct {
	root    widget.Node
	focused widget.Node
	quit    bool
}

// NewRouter returns a Router with no tree attached yet; call SetRoot
// after each render cycle.
func NewRouter() *Router { return &Router{} }

// SetRoot updates the tree the router dispatches against, called once
// per frame after the render engine reconciles and arranges it. If the
// previously focused node is no longer present in the tree, focus moves
// to the first focusable node.
func (r *Router) SetRoot(root widget.Node) {
	r.root = root
	if r.focused == nil || !contains(root, r.focused) {
		r.focused = firstFocusable(root)
	}
}

// RequestFocus implements widget.FocusRequester.
func (r *Router) RequestFocus(n widget.Node) { r.focused = n }

// Quit implements widget.FocusRequester.
func (r *Router) Quit() { r.quit = true }

// Quitting reports whether a binding action called Quit.
func (r *Router) Quitting() bool { return r.quit }

// Focused returns the currently focused node, or nil.
func (r *Router) Focused() widget.Node { return r.focused }

// DispatchKey routes a keyboard event. A focused TextInput node consumes
// any event without a matching binding as a plain keystroke (insert,
// backspace, or cursor move); otherwise the event bubbles through the
// binding chain from the focused node up to the root (spec §4.8:
// "bindings closer to the focused node take precedence").
func (r *Router) DispatchKey(ev KeyEvent) bool {
	if ev.Name == "tab" {
		r.advanceFocus(1)
		return true
	}
	if ev.Name == "shift+tab" {
		r.advanceFocus(-1)
		return true
	}

	chain := ancestorChain(r.root, r.focused)
	for _, n := range chain {
		// Scan each node's bindings last-first so a later binding for the
		// same trigger overrides an earlier one.
		bs := n.Bindings()
		for i := len(bs) - 1; i >= 0; i-- {
			b := bs[i]
			if b.Trigger.Key == ev.Name {
				return b.Action(&widget.EventContext{Node: n, Router: r})
			}
		}
	}

	if r.focused != nil {
		if ti, ok := r.focused.(widget.TextInput); ok {
			switch ev.Name {
			case "backspace":
				ti.DeleteBackward()
				return true
			case "left":
				ti.MoveCursor(-1)
				return true
			case "right":
				ti.MoveCursor(1)
				return true
			default:
				if ev.Printable != "" {
					ti.InsertText(ev.Printable)
					return true
				}
			}
		}
	}
	return false
}

// DispatchMouse hit-tests ev against the tree (deepest child wins, spec
// §4.8) and invokes the first matching Binding on the hit node or any of
// its ancestors.
func (r *Router) DispatchMouse(ev MouseEvent) bool {
	hit := hitTest(r.root, ev.X, ev.Y)
	if hit == nil {
		return false
	}
	if hit.IsFocusable() {
		r.focused = hit
	}
	for _, n := range ancestorChain(r.root, hit) {
		bs := n.Bindings()
		for i := len(bs) - 1; i >= 0; i-- {
			b := bs[i]
			if b.Trigger.Mouse && (b.Trigger.Button == "" || b.Trigger.Button == ev.Button) {
				return b.Action(&widget.EventContext{Node: n, Router: r})
			}
		}
	}
	return false
}

func (r *Router) advanceFocus(dir int) {
	order := focusOrder(r.root)
	if len(order) == 0 {
		return
	}
	idx := indexOf(order, r.focused)
	if idx < 0 {
		if dir > 0 {
			r.focused = order[0]
		} else {
			r.focused = order[len(order)-1]
		}
		return
	}
	idx = (idx + dir + len(order)) % len(order)
	r.focused = order[idx]
}

func indexOf(nodes []widget.Node, n widget.Node) int {
	for i, c := range nodes {
		if c == n {
			return i
		}
	}
	return -1
}

// focusOrder returns every focusable node in depth-first order.
func focusOrder(n widget.Node) []widget.Node {
	if n == nil {
		return nil
	}
	var out []widget.Node
	if n.IsFocusable() {
		out = append(out, n)
	}
	for _, c := range n.Children() {
		out = append(out, focusOrder(c)...)
	}
	return out
}

func firstFocusable(n widget.Node) widget.Node {
	order := focusOrder(n)
	if len(order) == 0 {
		return nil
	}
	return order[0]
}

func contains(root, target widget.Node) bool {
	if root == nil {
		return false
	}
	if root == target {
		return true
	}
	for _, c := range root.Children() {
		if contains(c, target) {
			return true
		}
	}
	return false
}

// ancestorChain returns the path from target up to root (target first,
// root last), or nil if target is not in the tree rooted at root.
func ancestorChain(root, target widget.Node) []widget.Node {
	if root == nil || target == nil {
		return nil
	}
	path := findPath(root, target, nil)
	if path == nil {
		return nil
	}
	reversed := make([]widget.Node, len(path))
	for i, n := range path {
		reversed[len(path)-1-i] = n
	}
	return reversed
}

func findPath(n, target widget.Node, ancestors []widget.Node) []widget.Node {
	ancestors = append(ancestors, n)
	if n == target {
		return ancestors
	}
	for _, c := range n.Children() {
		if path := findPath(c, target, ancestors); path != nil {
			return path
		}
	}
	return nil
}

// hitTest returns the deepest node whose arranged rect contains (x, y).
func hitTest(n widget.Node, x, y int) widget.Node {
	if n == nil || !n.Rect().Contains(x, y) {
		return nil
	}
	for _, c := range n.Children() {
		if hit := hitTest(c, x, y); hit != nil {
			return hit
		}
	}
	return n
}
