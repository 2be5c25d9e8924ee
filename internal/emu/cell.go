// Package emu implements the terminal emulator buffer described by spec
// §4.3: a 2-D grid of styled cells that applies tokens to produce a
// visible screen.
package emu

// Attr is a bitmask of SGR text attributes.
type Attr uint16

const (
	AttrBold Attr = 1 << iota
	AttrDim
	AttrItalic
	AttrUnderline
	AttrBlink
	AttrReverse
	AttrHidden
	AttrStrikethrough
	AttrOverline
)

// RGB is a 24-bit color. A cell's foreground/background is optional; the
// zero value of *RGB (nil) means "use the terminal default".
type RGB struct {
	R, G, B uint8
}

// GraphicsDescriptor marks a cell as covered by a bracketed graphics
// payload (Sixel/Kitty) that this engine preserves but does not rasterise,
// per spec §1's non-goal on image rendering beyond pass-through.
type GraphicsDescriptor struct {
	ID      uint64
	Payload string
}

// Cell is a single styled terminal cell.
type Cell struct {
	Grapheme string // empty marks the second cell of a wide character
	Fg, Bg   *RGB
	Attrs    Attr
	Seq      uint64 // monotonic write-sequence number
	TimeNS   int64  // wall-clock timestamp of the write, in nanoseconds

	Graphics *GraphicsDescriptor
}

// Blank returns a cell carrying only the given background, as used to fill
// newly-exposed rows/columns and clear operations (spec §4.3: "clear
// operations... use the current background colour as the fill").
func Blank(bg *RGB) Cell {
	return Cell{Grapheme: " ", Bg: bg}
}

func (c Cell) IsWideContinuation() bool { return c.Grapheme == "" }

// Has reports whether the given attribute is set.
func (a Attr) Has(f Attr) bool { return a&f != 0 }
