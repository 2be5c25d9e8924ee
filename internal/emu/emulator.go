package emu

import (
	"github.com/hex1b/hex1b/internal/token"
	"github.com/rivo/uniseg"
)

// Logger is the minimal logging interface the emulator needs, satisfied
// by e.g. *charmbracelet/log.Logger or the standard library's *log.Logger.
type Logger interface {
	Printf(format string, v ...any)
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}

// CursorPos is a 0-based cursor coordinate.
type CursorPos struct{ Col, Row int }

// AppliedToken bundles a token with the observable effects of applying it,
// per spec §4.3.
type AppliedToken struct {
	Token        token.AnsiToken
	CellImpacts  []CellImpact
	CursorBefore CursorPos
	CursorAfter  CursorPos
}

// Emulator applies AnsiTokens to a CellGrid, tracking cursor, attributes,
// scroll region, and alternate-screen state. It is the only stateful
// component on the output path (spec §5).
type Emulator struct {
	Grid   *CellGrid
	Logger Logger

	// ScrollbackDiscarded is invoked when a ClearAllAndScrollback clear is
	// applied; CellGrid itself owns no scrollback, so this lets a host
	// (e.g. internal/harness, or a future scrollback collaborator) react.
	ScrollbackDiscarded func()

	lastGrapheme string // last written grapheme, used by RepeatCharacter
}

// NewEmulator creates an emulator over a freshly allocated grid.
func NewEmulator(width, height int) *Emulator {
	return &Emulator{Grid: NewCellGrid(width, height), Logger: nopLogger{}}
}

func (e *Emulator) logf(format string, v ...any) {
	if e.Logger != nil {
		e.Logger.Printf(format, v...)
	}
}

func (e *Emulator) cursorPos() CursorPos {
	return CursorPos{Col: e.Grid.CursorCol(), Row: e.Grid.CursorRow()}
}

// Apply mutates the grid according to tok and returns the observable
// impact. It never fails: malformed or out-of-range operations are
// clamped rather than propagated as errors (spec §7).
func (e *Emulator) Apply(tok token.AnsiToken) AppliedToken {
	before := e.cursorPos()
	var impacts []CellImpact

	switch tok.Kind {
	case token.KindText:
		impacts = e.writeText(tok.Text)
	case token.KindControl:
		impacts = e.applyControl(tok.Control)
	case token.KindSgr:
		fg, bg, attrs := e.Grid.CurrentAttrs()
		fg, bg, attrs = applySgr(tok.Sgr, fg, bg, attrs)
		e.Grid.SetAttrs(fg, bg, attrs)
	case token.KindCursorPosition:
		e.setCursorFromOneBased(tok.Column, tok.Row)
	case token.KindCursorMove:
		e.applyCursorMove(tok.Direction, tok.Count)
	case token.KindCursorColumn:
		e.Grid.SetCursor(clampInt(tok.Column-1, 0, e.Grid.Width()), e.Grid.CursorRow())
	case token.KindCursorRow:
		e.Grid.SetCursor(e.Grid.CursorCol(), clampInt(tok.Row-1, 0, e.Grid.Height()-1))
	case token.KindCursorShape:
		// Shape is a presentation hint with no cell impact; consumers that
		// render a cursor glyph read it back via Grid state if needed.
	case token.KindClearScreen:
		mode := clearModeFromToken(tok.Clear)
		impacts = e.Grid.ClearScreen(mode)
		if mode == ClearAllAndScrollback && e.ScrollbackDiscarded != nil {
			e.ScrollbackDiscarded()
		}
	case token.KindClearLine:
		impacts = e.Grid.ClearLine(e.Grid.CursorRow(), clearModeFromToken(tok.Clear))
	case token.KindScrollRegion:
		top, bottom := tok.Top-1, tok.Bottom-1
		if tok.Top == 1 && tok.Bottom == 0 {
			top, bottom = 0, e.Grid.Height()-1
		}
		e.Grid.SetScrollRegion(top, bottom)
		e.Grid.SetCursor(0, 0)
	case token.KindScrollUp:
		top, bottom := regionBounds(e.Grid)
		impacts = e.Grid.ScrollUpRegion(top, bottom, tok.Count)
	case token.KindScrollDown:
		top, bottom := regionBounds(e.Grid)
		impacts = e.Grid.ScrollDownRegion(top, bottom, tok.Count)
	case token.KindInsertLines:
		impacts = e.Grid.InsertLines(e.Grid.CursorRow(), tok.Count)
	case token.KindDeleteLines:
		impacts = e.Grid.DeleteLines(e.Grid.CursorRow(), tok.Count)
	case token.KindInsertCharacter:
		impacts = e.Grid.InsertCharacter(e.Grid.CursorCol(), e.Grid.CursorRow(), tok.Count)
	case token.KindDeleteCharacter:
		impacts = e.Grid.DeleteCharacter(e.Grid.CursorCol(), e.Grid.CursorRow(), tok.Count)
	case token.KindEraseCharacter:
		impacts = e.Grid.EraseCharacter(e.Grid.CursorCol(), e.Grid.CursorRow(), tok.Count)
	case token.KindRepeatCharacter:
		impacts = e.repeatLastGrapheme(tok.Count)
	case token.KindLeftRightMargin:
		e.Grid.SetMargins(tok.Left-1, tok.Right-1)
	case token.KindIndex:
		impacts = e.index()
	case token.KindReverseIndex:
		impacts = e.reverseIndex()
	case token.KindCharacterSet:
		e.Grid.SetCharset(tok.Target == token.G0, tok.Control)
	case token.KindKeypadMode:
		e.Grid.AppKeypad = tok.Bool
	case token.KindSaveCursor:
		e.Grid.SaveCursor(tok.Bool)
	case token.KindRestoreCursor:
		e.Grid.RestoreCursor(tok.Bool)
	case token.KindPrivateMode:
		e.applyPrivateMode(tok.ModeNumber, tok.Bool)
	case token.KindOsc, token.KindDcs, token.KindSs3, token.KindSgrMouse,
		token.KindSpecialKey, token.KindDeviceStatusReport, token.KindUnrecognised,
		token.KindFrameBegin, token.KindFrameEnd:
		// No cell impact: these are consumed by other layers (presentation
		// filters, input router, render engine frame bracketing).
	default:
		e.logf("emu: unhandled token kind %v", tok.Kind)
	}

	return AppliedToken{
		Token:        tok,
		CellImpacts:  impacts,
		CursorBefore: before,
		CursorAfter:  e.cursorPos(),
	}
}

func regionBounds(g *CellGrid) (int, int) {
	// exported via a tiny shim since scrollRegionBounds is unexported.
	return g.ScrollRegion()
}

// ScrollRegion exposes the effective [top, bottom] scroll region.
func (g *CellGrid) ScrollRegion() (int, int) { return g.scrollRegionBounds() }

func clearModeFromToken(m token.ClearMode) ClearMode {
	switch m {
	case token.ClearToEnd:
		return ClearToEnd
	case token.ClearToStart:
		return ClearToStart
	case token.ClearAll:
		return ClearAll
	case token.ClearAllAndScrollback:
		return ClearAllAndScrollback
	default:
		return ClearToEnd
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (e *Emulator) setCursorFromOneBased(col, row int) {
	c := clampInt(col-1, 0, e.Grid.Width())
	r := clampInt(row-1, 0, e.Grid.Height()-1)
	if e.Grid.OriginMode {
		top, bottom := e.Grid.ScrollRegion()
		r = clampInt(top+row-1, top, bottom)
	}
	e.Grid.SetCursor(c, r)
}

func (e *Emulator) applyCursorMove(dir token.Direction, count int) {
	if count <= 0 {
		count = 1
	}
	switch dir {
	case token.DirUp:
		e.Grid.MoveCursor(0, -count)
	case token.DirDown:
		e.Grid.MoveCursor(0, count)
	case token.DirForward:
		e.Grid.MoveCursor(count, 0)
	case token.DirBack:
		e.Grid.MoveCursor(-count, 0)
	case token.DirNextLine:
		e.Grid.SetCursor(0, e.Grid.CursorRow()+count)
	case token.DirPreviousLine:
		e.Grid.SetCursor(0, e.Grid.CursorRow()-count)
	}
}

func (e *Emulator) applyControl(c rune) []CellImpact {
	switch c {
	case '\r':
		e.Grid.SetCursor(0, e.Grid.CursorRow())
	case '\n':
		return e.lineFeed()
	case '\t':
		next := (e.Grid.CursorCol()/8 + 1) * 8
		if next > e.Grid.Width()-1 {
			next = e.Grid.Width() - 1
		}
		e.Grid.SetCursor(next, e.Grid.CursorRow())
	}
	return nil
}

func (e *Emulator) lineFeed() []CellImpact {
	top, bottom := e.Grid.ScrollRegion()
	if e.Grid.CursorRow() == bottom {
		impacts := e.Grid.ScrollUpRegion(top, bottom, 1)
		e.Grid.SetPendingWrap(false)
		return impacts
	}
	e.Grid.MoveCursor(0, 1)
	return nil
}

func (e *Emulator) index() []CellImpact {
	return e.lineFeed()
}

func (e *Emulator) reverseIndex() []CellImpact {
	top, bottom := e.Grid.ScrollRegion()
	if e.Grid.CursorRow() == top {
		return e.Grid.ScrollDownRegion(top, bottom, 1)
	}
	e.Grid.MoveCursor(0, -1)
	return nil
}

func (e *Emulator) applyPrivateMode(mode int, enable bool) {
	switch mode {
	case 1049:
		if enable {
			e.Grid.SaveCursor(true)
			e.Grid.EnterAltScreen()
		} else {
			e.Grid.ExitAltScreen()
			e.Grid.RestoreCursor(true)
		}
	case 1047:
		if enable {
			e.Grid.EnterAltScreen()
		} else {
			e.Grid.ExitAltScreen()
		}
	case 1048:
		if enable {
			e.Grid.SaveCursor(true)
		} else {
			e.Grid.RestoreCursor(true)
		}
	case 6:
		e.Grid.OriginMode = enable
	case 7:
		e.Grid.AutoWrap = enable
	case 25:
		e.Grid.CursorVisible = enable
	case 69:
		e.Grid.MarginMode = enable
	case 2004:
		e.Grid.BracketedPaste = enable
	case 1000, 1002, 1003, 1006:
		if enable {
			e.Grid.MouseReportMode = mode
		} else if e.Grid.MouseReportMode == mode {
			e.Grid.MouseReportMode = 0
		}
	}
}

// writeText implements spec §4.3's text write algorithm.
func (e *Emulator) writeText(s string) []CellImpact {
	var impacts []CellImpact
	state := -1
	for len(s) > 0 {
		cluster, rest, width, newState := uniseg.FirstGraphemeClusterInString(s, state)
		if cluster == "" {
			break
		}
		s, state = rest, newState

		if e.Grid.PendingWrap() {
			impacts = append(impacts, e.wrapToNextLine()...)
		}

		if width <= 0 {
			width = 1
		}
		if width >= 2 && e.Grid.CursorCol() == e.Grid.Width()-1 {
			_, bg, _ := e.Grid.CurrentAttrs()
			impacts = append(impacts, e.padLastColumn(bg)...)
			impacts = append(impacts, e.wrapToNextLine()...)
		}

		x, y := e.Grid.CursorCol(), e.Grid.CursorRow()
		fg, bg, attrs := e.Grid.CurrentAttrs()
		impacts = append(impacts, e.setGridCell(x, y, Cell{Grapheme: cluster, Fg: fg, Bg: bg, Attrs: attrs}))
		e.lastGrapheme = cluster

		if width >= 2 && x+1 < e.Grid.Width() {
			impacts = append(impacts, e.setGridCell(x+1, y, Cell{Grapheme: "", Fg: fg, Bg: bg, Attrs: attrs}))
			e.Grid.MoveCursor(2, 0)
		} else {
			e.Grid.MoveCursor(1, 0)
		}

		if e.Grid.CursorCol() == e.Grid.Width() {
			e.Grid.MoveCursor(-1, 0)
			if e.Grid.AutoWrap {
				e.Grid.SetPendingWrap(true)
			}
		}
	}
	return impacts
}

func (e *Emulator) setGridCell(x, y int, c Cell) CellImpact {
	return e.Grid.setCell(x, y, c)
}

func (e *Emulator) padLastColumn(bg *RGB) []CellImpact {
	x, y := e.Grid.CursorCol(), e.Grid.CursorRow()
	impact := e.setGridCell(x, y, Blank(bg))
	return []CellImpact{impact}
}

func (e *Emulator) wrapToNextLine() []CellImpact {
	e.Grid.SetPendingWrap(false)
	top, bottom := e.Grid.ScrollRegion()
	if e.Grid.CursorRow() == bottom {
		impacts := e.Grid.ScrollUpRegion(top, bottom, 1)
		e.Grid.SetCursor(0, e.Grid.CursorRow())
		return impacts
	}
	e.Grid.SetCursor(0, e.Grid.CursorRow()+1)
	return nil
}

func (e *Emulator) repeatLastGrapheme(n int) []CellImpact {
	if e.lastGrapheme == "" || n <= 0 {
		return nil
	}
	var repeated string
	for i := 0; i < n; i++ {
		repeated += e.lastGrapheme
	}
	return e.writeText(repeated)
}
