package widget

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/hex1b/hex1b/internal/layout"
	"github.com/hex1b/hex1b/internal/token"
)

// --- Label -----------------------------------------------------------

// LabelDesc describes a single line of static text.
type LabelDesc struct {
	Text        string
	Fg, Bg      *TokenColor
	BindingList []Binding
}

func (d LabelDesc) Kind() string { return "label" }
func (d LabelDesc) Equal(o Description) bool {
	od, ok := o.(LabelDesc)
	return ok && od.Text == d.Text && colorEqual(od.Fg, d.Fg) && colorEqual(od.Bg, d.Bg)
}
func (d LabelDesc) Children() []Description { return nil }
func (d LabelDesc) Bindings() []Binding     { return d.BindingList }
func (d LabelDesc) NewNode() Node           { return &labelNode{} }
func (d LabelDesc) Configure(n Node) {
	ln := n.(*labelNode)
	ln.text, ln.fg, ln.bg = d.Text, d.Fg, d.Bg
}

type labelNode struct {
	BaseNode
	text   string
	fg, bg *TokenColor
}

func (n *labelNode) Measure(c layout.Constraints) layout.Size {
	s := layout.Size{Width: runewidth.StringWidth(n.text), Height: 1}
	n.SetSize(c.Constrain(s))
	return n.Size()
}
func (n *labelNode) Arrange(r layout.Rect)  { n.SetRect(r) }
func (n *labelNode) IsFocusable() bool      { return false }
func (n *labelNode) Render(ctx *RenderContext) []token.AnsiToken {
	r := n.Rect()
	if r.Empty() {
		return nil
	}
	text := padTruncate(n.text, r.Width)
	out := []token.AnsiToken{token.CursorPosition(r.Y, r.X)}
	if sgr, ok := sgrFor(n.fg, n.bg, ctx); ok {
		out = append(out, token.Sgr(sgr))
	}
	out = append(out, token.Text(text))
	return out
}

// --- TextField ---------------------------------------------------------

// TextFieldDesc describes a single-line editable field. Value seeds the
// node's buffer only the first time a node is created for this
// position; afterwards the node owns the buffer (an uncontrolled
// component), which is what lets the cursor and in-flight edit survive
// a rebuild (spec §8 scenario 6).
type TextFieldDesc struct {
	Value       string
	Placeholder string
	OnChange    func(string)
	BindingList []Binding
}

func (d TextFieldDesc) Kind() string { return "textfield" }
func (d TextFieldDesc) Equal(o Description) bool {
	od, ok := o.(TextFieldDesc)
	return ok && od.Placeholder == d.Placeholder
}
func (d TextFieldDesc) Children() []Description { return nil }
func (d TextFieldDesc) Bindings() []Binding     { return d.BindingList }
func (d TextFieldDesc) NewNode() Node           { return &textFieldNode{} }
func (d TextFieldDesc) Configure(n Node) {
	tf := n.(*textFieldNode)
	tf.placeholder = d.Placeholder
	tf.onChange = d.OnChange
	if !tf.seeded {
		tf.buf = []rune(d.Value)
		tf.cursor = len(tf.buf)
		tf.seeded = true
	}
}

type textFieldNode struct {
	BaseNode
	buf         []rune
	cursor      int
	seeded      bool
	placeholder string
	onChange    func(string)
}

func (n *textFieldNode) Measure(c layout.Constraints) layout.Size {
	s := layout.Size{Width: c.MaxWidth, Height: 1}
	if s.Width == layout.Unbounded {
		s.Width = runewidth.StringWidth(string(n.buf)) + 1
	}
	n.SetSize(c.Constrain(s))
	return n.Size()
}
func (n *textFieldNode) Arrange(r layout.Rect) { n.SetRect(r) }
func (n *textFieldNode) IsFocusable() bool     { return true }

func (n *textFieldNode) Render(ctx *RenderContext) []token.AnsiToken {
	r := n.Rect()
	if r.Empty() {
		return nil
	}
	display := string(n.buf)
	if display == "" {
		display = n.placeholder
	}
	out := []token.AnsiToken{
		token.CursorPosition(r.Y, r.X),
		token.Text(padTruncate(display, r.Width)),
	}
	if n.Focused() {
		out = append(out, token.CursorPosition(r.Y, r.X+n.cursor))
	}
	return out
}

// InsertText implements widget.TextInput.
func (n *textFieldNode) InsertText(s string) {
	for _, r := range s {
		n.buf = append(n.buf[:n.cursor], append([]rune{r}, n.buf[n.cursor:]...)...)
		n.cursor++
	}
	n.MarkDirty()
	n.notify()
}

// DeleteBackward implements widget.TextInput.
func (n *textFieldNode) DeleteBackward() {
	if n.cursor == 0 {
		return
	}
	n.buf = append(n.buf[:n.cursor-1], n.buf[n.cursor:]...)
	n.cursor--
	n.MarkDirty()
	n.notify()
}

// MoveCursor implements widget.TextInput.
func (n *textFieldNode) MoveCursor(delta int) {
	c := n.cursor + delta
	if c < 0 {
		c = 0
	}
	if c > len(n.buf) {
		c = len(n.buf)
	}
	if c != n.cursor {
		n.cursor = c
		n.MarkDirty()
	}
}

func (n *textFieldNode) notify() {
	if n.onChange != nil {
		n.onChange(string(n.buf))
	}
}

// --- VStack / HStack ---------------------------------------------------

// VStackDesc lays out children top to bottom, each taking its preferred
// height and the stack's full width (spec §4.4 example).
type VStackDesc struct {
	Items       []Description
	BindingList []Binding
}

func (d VStackDesc) Kind() string           { return "vstack" }
func (d VStackDesc) Children() []Description { return d.Items }
func (d VStackDesc) Bindings() []Binding     { return d.BindingList }
func (d VStackDesc) NewNode() Node           { return &stackNode{vertical: true} }
func (d VStackDesc) Configure(n Node)        {}
func (d VStackDesc) Equal(o Description) bool {
	od, ok := o.(VStackDesc)
	return ok && len(od.Items) == len(d.Items)
}

// HStackDesc lays out children left to right, each taking its preferred
// width and the stack's full height.
type HStackDesc struct {
	Items       []Description
	BindingList []Binding
}

func (d HStackDesc) Kind() string           { return "hstack" }
func (d HStackDesc) Children() []Description { return d.Items }
func (d HStackDesc) Bindings() []Binding     { return d.BindingList }
func (d HStackDesc) NewNode() Node           { return &stackNode{vertical: false} }
func (d HStackDesc) Configure(n Node)        {}
func (d HStackDesc) Equal(o Description) bool {
	od, ok := o.(HStackDesc)
	return ok && len(od.Items) == len(d.Items)
}

type stackNode struct {
	BaseNode
	vertical bool
}

func (n *stackNode) Measure(c layout.Constraints) layout.Size {
	total := layout.Size{}
	budget := c
	for _, child := range n.Children() {
		cs := child.Measure(budget)
		if n.vertical {
			total.Height += cs.Height
			if cs.Width > total.Width {
				total.Width = cs.Width
			}
			budget = budget.Shrink(0, cs.Height)
		} else {
			total.Width += cs.Width
			if cs.Height > total.Height {
				total.Height = cs.Height
			}
			budget = budget.Shrink(cs.Width, 0)
		}
	}
	n.SetSize(c.Constrain(total))
	return n.Size()
}

func (n *stackNode) Arrange(r layout.Rect) {
	n.SetRect(r)
	offset := 0
	for _, child := range n.Children() {
		cs := child.Size()
		var cr layout.Rect
		if n.vertical {
			cr = layout.Rect{X: r.X, Y: r.Y + offset, Width: r.Width, Height: cs.Height}
			offset += cs.Height
		} else {
			cr = layout.Rect{X: r.X + offset, Y: r.Y, Width: cs.Width, Height: r.Height}
			offset += cs.Width
		}
		child.Arrange(cr)
	}
}

func (n *stackNode) IsFocusable() bool { return false }
func (n *stackNode) Render(ctx *RenderContext) []token.AnsiToken { return nil }

// --- Splitter ------------------------------------------------------------

// SplitterDesc divides its rect between two children along a draggable
// divider. Position is a 0..100 percentage of the primary axis given to
// the first child; the node keeps its own live position once dragged so
// a rebuild mid-drag does not snap the divider back (spec §8 scenario 7).
type SplitterDesc struct {
	Vertical    bool
	Position    int
	First       Description
	Second      Description
	BindingList []Binding
}

func (d SplitterDesc) Kind() string { return "splitter" }
func (d SplitterDesc) Children() []Description {
	return []Description{d.First, d.Second}
}
func (d SplitterDesc) Bindings() []Binding { return d.BindingList }
func (d SplitterDesc) NewNode() Node       { return &splitterNode{} }
func (d SplitterDesc) Configure(n Node) {
	sp := n.(*splitterNode)
	sp.vertical = d.Vertical
	if !sp.seeded {
		sp.position = d.Position
		sp.seeded = true
	}
}
func (d SplitterDesc) Equal(o Description) bool {
	od, ok := o.(SplitterDesc)
	return ok && od.Vertical == d.Vertical
}

type splitterNode struct {
	BaseNode
	vertical bool
	position int
	seeded   bool
}

func (n *splitterNode) Measure(c layout.Constraints) layout.Size {
	for _, child := range n.Children() {
		child.Measure(c)
	}
	s := layout.Size{Width: c.MaxWidth, Height: c.MaxHeight}
	n.SetSize(c.Constrain(s))
	return n.Size()
}

func (n *splitterNode) Arrange(r layout.Rect) {
	n.SetRect(r)
	children := n.Children()
	if len(children) != 2 {
		return
	}
	pos := n.position
	if pos < 0 {
		pos = 0
	}
	if pos > 100 {
		pos = 100
	}
	if n.vertical {
		split := r.Width * pos / 100
		children[0].Arrange(layout.Rect{X: r.X, Y: r.Y, Width: split, Height: r.Height})
		children[1].Arrange(layout.Rect{X: r.X + split, Y: r.Y, Width: r.Width - split, Height: r.Height})
		return
	}
	split := r.Height * pos / 100
	children[0].Arrange(layout.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: split})
	children[1].Arrange(layout.Rect{X: r.X, Y: r.Y + split, Width: r.Width, Height: r.Height - split})
}

func (n *splitterNode) IsFocusable() bool { return false }
func (n *splitterNode) Render(ctx *RenderContext) []token.AnsiToken { return nil }

// DragTo moves the divider to an absolute percentage, called by the
// input router in response to a mouse-drag binding.
func (n *splitterNode) DragTo(pct int) {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	if pct != n.position {
		n.position = pct
		n.MarkDirty()
	}
}

// --- shared helpers ------------------------------------------------------

func colorEqual(a, b *TokenColor) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func sgrFor(fg, bg *TokenColor, ctx *RenderContext) (string, bool) {
	var parts []string
	if fg != nil {
		parts = append(parts, sgrRGB(38, *fg))
	}
	if bg != nil {
		parts = append(parts, sgrRGB(48, *bg))
	}
	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, ";"), true
}

func sgrRGB(prefix int, c TokenColor) string {
	return strconv.Itoa(prefix) + ";2;" + strconv.Itoa(int(c.R)) + ";" + strconv.Itoa(int(c.G)) + ";" + strconv.Itoa(int(c.B))
}

func padTruncate(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return runewidth.Truncate(s, width, "")
	}
	return s + strings.Repeat(" ", width-w)
}
