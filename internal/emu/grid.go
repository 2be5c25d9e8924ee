package emu

// screenState is the portion of terminal state that is swapped atomically
// when toggling the alternate screen (spec §4.3 Alternate screen): the
// cell buffer, cursor position, current SGR attributes, and the scroll
// region/margins.
type screenState struct {
	cells  [][]Cell
	width  int
	height int

	cursorCol, cursorRow int
	pendingWrap          bool

	fg, bg *RGB
	attrs  Attr

	scrollTop, scrollBottom int
	marginLeft, marginRight int
}

func newScreenState(w, h int) *screenState {
	s := &screenState{
		width: w, height: h,
		scrollTop: 0, scrollBottom: h - 1,
		marginLeft: 0, marginRight: w - 1,
	}
	s.cells = make([][]Cell, h)
	for y := range s.cells {
		s.cells[y] = make([]Cell, w)
		for x := range s.cells[y] {
			s.cells[y][x] = Cell{Grapheme: " "}
		}
	}
	return s
}

func (s *screenState) resize(w, h int, seq *uint64, now func() int64) {
	ns := newScreenState(w, h)
	copyH := h
	if s.height < copyH {
		copyH = s.height
	}
	copyW := w
	if s.width < copyW {
		copyW = s.width
	}
	for y := 0; y < copyH; y++ {
		copy(ns.cells[y][:copyW], s.cells[y][:copyW])
	}
	for y := 0; y < copyH; y++ {
		for x := copyW; x < w; x++ {
			ns.cells[y][x] = Blank(s.bg)
			ns.cells[y][x].Seq = *seq
			ns.cells[y][x].TimeNS = now()
			*seq++
		}
	}
	for y := copyH; y < h; y++ {
		for x := 0; x < w; x++ {
			ns.cells[y][x] = Blank(s.bg)
			ns.cells[y][x].Seq = *seq
			ns.cells[y][x].TimeNS = now()
			*seq++
		}
	}
	ns.fg, ns.bg, ns.attrs = s.fg, s.bg, s.attrs
	ns.cursorCol, ns.cursorRow = s.cursorCol, s.cursorRow
	if ns.cursorRow >= h {
		ns.cursorRow = h - 1
	}
	if ns.cursorRow < 0 {
		ns.cursorRow = 0
	}
	if ns.cursorCol > w {
		ns.cursorCol = w
	}
	*s = *ns
}

type cursorSnapshot struct {
	col, row int
	fg, bg   *RGB
	attrs    Attr
	valid    bool
}

// CellImpact records a single-cell mutation produced by applying a token.
type CellImpact struct {
	X, Y int
	Cell Cell
}

// CellGrid is the width×height array of styled cells plus cursor, scroll
// region, margin, and mode state described by spec §3.
type CellGrid struct {
	primary, alternate *screenState
	active             *screenState
	altActive           bool

	savedAnsi cursorSnapshot
	savedDec  cursorSnapshot

	AppKeypad        bool
	BracketedPaste   bool
	MouseReportMode  int // 0 = off, else the DEC mode number enabled (1000/1002/1003/1006...)
	OriginMode       bool
	AutoWrap         bool
	CursorVisible    bool
	MarginMode       bool

	g0, g1 rune

	writeSeq uint64

	// Now returns the current time in nanoseconds; overridable for
	// deterministic tests (spec component 10, Testing Harness).
	Now func() int64
}

// NewCellGrid creates a grid of the given size with default mode state.
func NewCellGrid(width, height int) *CellGrid {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	g := &CellGrid{
		primary:   newScreenState(width, height),
		alternate: newScreenState(width, height),
		AutoWrap:  true,
		CursorVisible: true,
		g0:        'B',
		g1:        'B',
		Now:       func() int64 { return 0 },
	}
	g.active = g.primary
	return g
}

func (g *CellGrid) Width() int  { return g.active.width }
func (g *CellGrid) Height() int { return g.active.height }

// CursorCol and CursorRow report the 0-based cursor position.
func (g *CellGrid) CursorCol() int { return g.active.cursorCol }
func (g *CellGrid) CursorRow() int { return g.active.cursorRow }

// PendingWrap reports whether the cursor is logically at the wrap column.
func (g *CellGrid) PendingWrap() bool { return g.active.pendingWrap }

// Cell returns a copy of the cell at (x, y). Out-of-range coordinates
// return the zero Cell.
func (g *CellGrid) Cell(x, y int) Cell {
	if x < 0 || y < 0 || y >= g.active.height || x >= g.active.width {
		return Cell{}
	}
	return g.active.cells[y][x]
}

// AlternateActive reports whether the alternate screen buffer is current.
func (g *CellGrid) AlternateActive() bool { return g.altActive }

func (g *CellGrid) nextSeq() uint64 {
	s := g.writeSeq
	g.writeSeq++
	return s
}

func (g *CellGrid) setCell(x, y int, c Cell) CellImpact {
	c.Seq = g.nextSeq()
	c.TimeNS = g.Now()
	g.active.cells[y][x] = c
	return CellImpact{X: x, Y: y, Cell: c}
}

// clampCursor enforces spec §3's invariant: row in [0, height), column in
// [0, width].
func (g *CellGrid) clampCursor() {
	a := g.active
	if a.cursorRow < 0 {
		a.cursorRow = 0
	}
	if a.cursorRow >= a.height {
		a.cursorRow = a.height - 1
	}
	if a.cursorCol < 0 {
		a.cursorCol = 0
	}
	if a.cursorCol > a.width {
		a.cursorCol = a.width
	}
}

// Resize grows or truncates the grid. Enlarging preserves existing cell
// contents at their old positions and fills new cells with blanks using
// the current background; shrinking truncates. The cursor is clamped. A
// resize always marks the whole grid dirty — the caller (render engine)
// observes this via its own full-frame redraw after a resize, since
// CellGrid itself has no dirty bitmap.
func (g *CellGrid) Resize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	g.primary.resize(width, height, &g.writeSeq, g.Now)
	g.alternate.resize(width, height, &g.writeSeq, g.Now)
	if g.altActive {
		g.active = g.alternate
	} else {
		g.active = g.primary
	}
}

// scrollRegionBounds returns the effective [top, bottom] rows, defaulting
// to the whole screen when no explicit region is set narrower than that.
func (g *CellGrid) scrollRegionBounds() (top, bottom int) {
	a := g.active
	top, bottom = a.scrollTop, a.scrollBottom
	if top < 0 {
		top = 0
	}
	if bottom >= a.height {
		bottom = a.height - 1
	}
	if top > bottom {
		top, bottom = 0, a.height-1
	}
	return
}

func (g *CellGrid) marginBounds() (left, right int) {
	a := g.active
	if !g.MarginMode {
		return 0, a.width - 1
	}
	left, right = a.marginLeft, a.marginRight
	if left < 0 || right >= a.width || left > right {
		return 0, a.width - 1
	}
	return
}

// ScrollUpRegion discards the top n lines of [top,bottom] and blanks the
// bottom n lines with the current background.
func (g *CellGrid) ScrollUpRegion(top, bottom, n int) []CellImpact {
	a := g.active
	var impacts []CellImpact
	if n <= 0 {
		return nil
	}
	if n > bottom-top+1 {
		n = bottom - top + 1
	}
	for y := top; y <= bottom-n; y++ {
		copy(a.cells[y], a.cells[y+n])
	}
	for y := bottom - n + 1; y <= bottom; y++ {
		if y < top {
			continue
		}
		for x := 0; x < a.width; x++ {
			impacts = append(impacts, g.setCell(x, y, Blank(a.bg)))
		}
	}
	return impacts
}

// ScrollDownRegion is the dual of ScrollUpRegion.
func (g *CellGrid) ScrollDownRegion(top, bottom, n int) []CellImpact {
	a := g.active
	var impacts []CellImpact
	if n <= 0 {
		return nil
	}
	if n > bottom-top+1 {
		n = bottom - top + 1
	}
	for y := bottom; y >= top+n; y-- {
		copy(a.cells[y], a.cells[y-n])
	}
	for y := top; y < top+n && y <= bottom; y++ {
		for x := 0; x < a.width; x++ {
			impacts = append(impacts, g.setCell(x, y, Blank(a.bg)))
		}
	}
	return impacts
}

// ClearMode mirrors token.ClearMode without importing the token package,
// keeping emu decoupled from the token taxonomy's internals.
type ClearMode int

const (
	ClearToEnd ClearMode = iota
	ClearToStart
	ClearAll
	ClearAllAndScrollback
)

// ClearLine clears part or all of row y using the current background.
func (g *CellGrid) ClearLine(y int, mode ClearMode) []CellImpact {
	a := g.active
	from, to := 0, a.width-1
	switch mode {
	case ClearToEnd:
		from = a.cursorCol
	case ClearToStart:
		to = a.cursorCol
	}
	var impacts []CellImpact
	for x := from; x <= to && x < a.width; x++ {
		if x < 0 {
			continue
		}
		impacts = append(impacts, g.setCell(x, y, Blank(a.bg)))
	}
	return impacts
}

// ClearScreen clears part or all of the screen using the current
// background, per spec §4.3 ("All clears use the current background
// colour as the fill"). ClearAllAndScrollback additionally signals the
// caller (Emulator) to discard any scrollback it maintains; CellGrid
// itself owns no scrollback.
func (g *CellGrid) ClearScreen(mode ClearMode) []CellImpact {
	a := g.active
	var impacts []CellImpact
	switch mode {
	case ClearToEnd:
		impacts = append(impacts, g.ClearLine(a.cursorRow, ClearToEnd)...)
		for y := a.cursorRow + 1; y < a.height; y++ {
			impacts = append(impacts, g.ClearLine(y, ClearAll)...)
		}
	case ClearToStart:
		impacts = append(impacts, g.ClearLine(a.cursorRow, ClearToStart)...)
		for y := 0; y < a.cursorRow; y++ {
			impacts = append(impacts, g.ClearLine(y, ClearAll)...)
		}
	case ClearAll, ClearAllAndScrollback:
		for y := 0; y < a.height; y++ {
			impacts = append(impacts, g.ClearLine(y, ClearAll)...)
		}
	}
	return impacts
}

// InsertLines shifts lines [y, bottom] down by n within the scroll
// region, discarding lines pushed past bottom.
func (g *CellGrid) InsertLines(y, n int) []CellImpact {
	_, bottom := g.scrollRegionBounds()
	if y > bottom {
		return nil
	}
	return g.ScrollDownRegion(y, bottom, n)
}

// DeleteLines shifts lines [y, bottom] up by n within the scroll region.
func (g *CellGrid) DeleteLines(y, n int) []CellImpact {
	_, bottom := g.scrollRegionBounds()
	if y > bottom {
		return nil
	}
	return g.ScrollUpRegion(y, bottom, n)
}

// InsertCharacter shifts cells [x, width) right by n on row y.
func (g *CellGrid) InsertCharacter(x, y, n int) []CellImpact {
	a := g.active
	if n <= 0 {
		return nil
	}
	var impacts []CellImpact
	for i := a.width - 1; i >= x+n; i-- {
		a.cells[y][i] = a.cells[y][i-n]
	}
	for i := x; i < x+n && i < a.width; i++ {
		impacts = append(impacts, g.setCell(i, y, Blank(a.bg)))
	}
	return impacts
}

// DeleteCharacter shifts cells (x, width) left by n on row y.
func (g *CellGrid) DeleteCharacter(x, y, n int) []CellImpact {
	a := g.active
	if n <= 0 {
		return nil
	}
	var impacts []CellImpact
	for i := x; i < a.width-n; i++ {
		a.cells[y][i] = a.cells[y][i+n]
	}
	for i := a.width - n; i < a.width; i++ {
		if i < x {
			continue
		}
		impacts = append(impacts, g.setCell(i, y, Blank(a.bg)))
	}
	return impacts
}

// EraseCharacter blanks n cells starting at (x, y) without shifting.
func (g *CellGrid) EraseCharacter(x, y, n int) []CellImpact {
	a := g.active
	var impacts []CellImpact
	for i := x; i < x+n && i < a.width; i++ {
		impacts = append(impacts, g.setCell(i, y, Blank(a.bg)))
	}
	return impacts
}

// SetScrollRegion sets [top, bottom] (0-based, inclusive). top=0,
// bottom=height-1 is the reset form.
func (g *CellGrid) SetScrollRegion(top, bottom int) {
	a := g.active
	if bottom >= a.height {
		bottom = a.height - 1
	}
	if top < 0 || top > bottom {
		top, bottom = 0, a.height-1
	}
	a.scrollTop, a.scrollBottom = top, bottom
}

// SetMargins sets the left/right margins (0-based, inclusive).
func (g *CellGrid) SetMargins(left, right int) {
	a := g.active
	if right >= a.width {
		right = a.width - 1
	}
	if left < 0 || left > right {
		left, right = 0, a.width-1
	}
	a.marginLeft, a.marginRight = left, right
}

// SetCursor moves the cursor to a 0-based position, clamping to bounds.
func (g *CellGrid) SetCursor(col, row int) {
	g.active.cursorCol, g.active.cursorRow = col, row
	g.active.pendingWrap = false
	g.clampCursor()
}

// MoveCursor moves the cursor relative to its current position.
func (g *CellGrid) MoveCursor(dcol, drow int) {
	g.active.cursorCol += dcol
	g.active.cursorRow += drow
	g.active.pendingWrap = false
	g.clampCursor()
}

// SetPendingWrap sets or clears the pending-wrap flag.
func (g *CellGrid) SetPendingWrap(v bool) { g.active.pendingWrap = v }

// CurrentAttrs returns the fg/bg/attribute mask that new writes will use.
func (g *CellGrid) CurrentAttrs() (*RGB, *RGB, Attr) {
	return g.active.fg, g.active.bg, g.active.attrs
}

// SetAttrs replaces the fg/bg/attribute state used for subsequent writes.
func (g *CellGrid) SetAttrs(fg, bg *RGB, attrs Attr) {
	g.active.fg, g.active.bg, g.active.attrs = fg, bg, attrs
}

// SaveCursor stores the cursor and SGR state into the ANSI.SYS or DEC slot.
func (g *CellGrid) SaveCursor(useDec bool) {
	snap := cursorSnapshot{
		col: g.active.cursorCol, row: g.active.cursorRow,
		fg: g.active.fg, bg: g.active.bg, attrs: g.active.attrs,
		valid: true,
	}
	if useDec {
		g.savedDec = snap
	} else {
		g.savedAnsi = snap
	}
}

// RestoreCursor restores the cursor and SGR state from the given slot. A
// restore with no prior save is a no-op, per spec §7 (out-of-range
// operations are clamped, never fatal).
func (g *CellGrid) RestoreCursor(useDec bool) {
	snap := g.savedAnsi
	if useDec {
		snap = g.savedDec
	}
	if !snap.valid {
		return
	}
	g.active.cursorCol, g.active.cursorRow = snap.col, snap.row
	g.active.fg, g.active.bg, g.active.attrs = snap.fg, snap.bg, snap.attrs
	g.active.pendingWrap = false
	g.clampCursor()
}

// EnterAltScreen saves the primary screen and installs a freshly cleared
// alternate buffer, atomically swapping grid, cursor, and SGR state.
func (g *CellGrid) EnterAltScreen() {
	if g.altActive {
		return
	}
	g.alternate = newScreenState(g.primary.width, g.primary.height)
	g.active = g.alternate
	g.altActive = true
}

// ExitAltScreen restores the primary screen. The alternate screen's
// content is discarded; nothing it held leaks into the primary buffer.
func (g *CellGrid) ExitAltScreen() {
	if !g.altActive {
		return
	}
	g.active = g.primary
	g.altActive = false
}

// SetCharset designates a character set for G0 or G1.
func (g *CellGrid) SetCharset(g0 bool, ch rune) {
	if g0 {
		g.g0 = ch
	} else {
		g.g1 = ch
	}
}
