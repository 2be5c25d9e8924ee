// Package layout provides the plain value types shared by the widget
// tree's measure/arrange contract (spec §4.4): Size, Rect, and
// Constraints, all in column/row terminal-cell units.
package layout

import "math"

// Unbounded is a sentinel constraint value: a large finite constant at
// least as big as any plausible terminal size.
const Unbounded = math.MaxInt32 / 2

// Size is a measured width/height in terminal cells.
type Size struct {
	Width, Height int
}

// Rect is an absolute, arranged rectangle in terminal cells.
type Rect struct {
	X, Y, Width, Height int
}

// Right and Bottom return the exclusive right/bottom edges of the rect.
func (r Rect) Right() int  { return r.X + r.Width }
func (r Rect) Bottom() int { return r.Y + r.Height }

// Contains reports whether the point (x, y) falls within the rect.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Intersect returns the overlapping region of two rects, or the zero Rect
// if they do not overlap. Used to derive clip rectangles for nested
// widgets (spec §4.4: "Clip rectangles are carried implicitly").
func (r Rect) Intersect(o Rect) Rect {
	x0, y0 := max(r.X, o.X), max(r.Y, o.Y)
	x1, y1 := min(r.Right(), o.Right()), min(r.Bottom(), o.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Empty reports whether the rect covers zero area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Constraints bounds the size a widget may report during measurement.
type Constraints struct {
	MinWidth, MaxWidth   int
	MinHeight, MaxHeight int
}

// UnboundedConstraints yields a Constraints with no effective upper bound.
func UnboundedConstraints() Constraints {
	return Constraints{MaxWidth: Unbounded, MaxHeight: Unbounded}
}

// Tight returns a Constraints that forces exactly the given size.
func Tight(size Size) Constraints {
	return Constraints{
		MinWidth: size.Width, MaxWidth: size.Width,
		MinHeight: size.Height, MaxHeight: size.Height,
	}
}

// Constrain clamps size to satisfy the constraints on both axes.
func (c Constraints) Constrain(size Size) Size {
	return Size{
		Width:  clamp(size.Width, c.MinWidth, c.MaxWidth),
		Height: clamp(size.Height, c.MinHeight, c.MaxHeight),
	}
}

// Shrink reduces the max bounds by the given amount, never going below
// min, used by containers handing children a reduced budget (spec §4.4:
// "a VStack gives each child... a height budget reduced by prior
// children").
func (c Constraints) Shrink(dw, dh int) Constraints {
	c.MaxWidth = clamp(c.MaxWidth-dw, c.MinWidth, Unbounded)
	c.MaxHeight = clamp(c.MaxHeight-dh, c.MinHeight, Unbounded)
	return c
}

// WithMax overrides the max bounds, keeping min bounds intact.
func (c Constraints) WithMax(w, h int) Constraints {
	c.MaxWidth, c.MaxHeight = w, h
	if c.MinWidth > c.MaxWidth {
		c.MinWidth = c.MaxWidth
	}
	if c.MinHeight > c.MaxHeight {
		c.MinHeight = c.MaxHeight
	}
	return c
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
