package token

import (
	"bytes"
	"strconv"
	"strings"
)

// byteStringWriter is satisfied by both strings.Builder and bytes.Buffer,
// letting Serialize and SerializeBytes share one encoding path while
// remaining genuinely separate back-ends (spec §4.2: property tests must
// verify the two agree byte-for-byte).
type byteStringWriter interface {
	WriteString(string) (int, error)
	WriteByte(byte) error
}

// Serialize renders a token sequence back to its string wire form.
func Serialize(tokens []AnsiToken) string {
	var b strings.Builder
	for _, t := range tokens {
		writeToken(&b, t)
	}
	return b.String()
}

// SerializeBytes renders a token sequence back to its byte wire form via
// the byte-writer back-end.
func SerializeBytes(tokens []AnsiToken) []byte {
	var b bytes.Buffer
	for _, t := range tokens {
		writeToken(&b, t)
	}
	return b.Bytes()
}

// SerializeToken renders a single token to its string wire form.
func SerializeToken(t AnsiToken) string {
	var b strings.Builder
	writeToken(&b, t)
	return b.String()
}

// SerializeTokenBytes renders a single token to its byte wire form.
func SerializeTokenBytes(t AnsiToken) []byte {
	var b bytes.Buffer
	writeToken(&b, t)
	return b.Bytes()
}

func writeToken(b byteStringWriter, t AnsiToken) {
	switch t.Kind {
	case KindText:
		b.WriteString(t.Text)
	case KindControl:
		b.WriteByte(byte(t.Control))
	case KindSgr:
		b.WriteString("\x1b[")
		b.WriteString(t.Sgr)
		b.WriteByte('m')
	case KindCursorPosition:
		b.WriteString("\x1b[")
		if t.HasOriginal {
			b.WriteString(t.OriginalParams)
		} else if t.Row == 1 && t.Column == 1 {
			// omitted: defaults to 1;1
		} else {
			writeInt(b, t.Row)
			b.WriteByte(';')
			writeInt(b, t.Column)
		}
		b.WriteByte('H')
	case KindCursorMove:
		b.WriteString("\x1b[")
		writeOmittable(b, t.Count, 1)
		b.WriteByte(directionFinal(t.Direction))
	case KindCursorColumn:
		b.WriteString("\x1b[")
		writeOmittable(b, t.Column, 1)
		b.WriteByte('G')
	case KindCursorRow:
		b.WriteString("\x1b[")
		writeOmittable(b, t.Row, 1)
		b.WriteByte('d')
	case KindCursorShape:
		b.WriteString("\x1b[")
		writeInt(b, t.Shape)
		b.WriteString(" q")
	case KindClearScreen:
		b.WriteString("\x1b[")
		writeOmittable(b, int(t.Clear), int(ClearToEnd))
		b.WriteByte('J')
	case KindClearLine:
		b.WriteString("\x1b[")
		writeOmittable(b, int(t.Clear), int(ClearToEnd))
		b.WriteByte('K')
	case KindScrollRegion:
		if t.Top == 1 && t.Bottom == 0 {
			b.WriteString("\x1b[r")
			return
		}
		b.WriteString("\x1b[")
		writeInt(b, t.Top)
		b.WriteByte(';')
		writeInt(b, t.Bottom)
		b.WriteByte('r')
	case KindScrollUp:
		b.WriteString("\x1b[")
		writeOmittable(b, t.Count, 1)
		b.WriteByte('S')
	case KindScrollDown:
		b.WriteString("\x1b[")
		writeOmittable(b, t.Count, 1)
		b.WriteByte('T')
	case KindInsertLines:
		b.WriteString("\x1b[")
		writeOmittable(b, t.Count, 1)
		b.WriteByte('L')
	case KindDeleteLines:
		b.WriteString("\x1b[")
		writeOmittable(b, t.Count, 1)
		b.WriteByte('M')
	case KindInsertCharacter:
		b.WriteString("\x1b[")
		writeOmittable(b, t.Count, 1)
		b.WriteByte('@')
	case KindDeleteCharacter:
		b.WriteString("\x1b[")
		writeOmittable(b, t.Count, 1)
		b.WriteByte('P')
	case KindEraseCharacter:
		b.WriteString("\x1b[")
		writeOmittable(b, t.Count, 1)
		b.WriteByte('X')
	case KindRepeatCharacter:
		b.WriteString("\x1b[")
		writeOmittable(b, t.Count, 1)
		b.WriteByte('b')
	case KindLeftRightMargin:
		b.WriteString("\x1b[")
		writeInt(b, t.Left)
		b.WriteByte(';')
		writeInt(b, t.Right)
		b.WriteByte('s')
	case KindIndex:
		b.WriteString("\x1bD")
	case KindReverseIndex:
		b.WriteString("\x1bM")
	case KindCharacterSet:
		b.WriteByte(esc)
		if t.Target == G0 {
			b.WriteByte('(')
		} else {
			b.WriteByte(')')
		}
		b.WriteByte(byte(t.Control))
	case KindKeypadMode:
		b.WriteByte(esc)
		if t.Bool {
			b.WriteByte('=')
		} else {
			b.WriteByte('>')
		}
	case KindSaveCursor:
		if t.Bool {
			b.WriteString("\x1b7")
		} else {
			b.WriteString("\x1b[s")
		}
	case KindRestoreCursor:
		if t.Bool {
			b.WriteString("\x1b8")
		} else {
			b.WriteString("\x1b[u")
		}
	case KindPrivateMode:
		b.WriteString("\x1b[?")
		writeInt(b, t.ModeNumber)
		if t.Bool {
			b.WriteByte('h')
		} else {
			b.WriteByte('l')
		}
	case KindOsc:
		b.WriteString("\x1b]")
		writeInt(b, t.OscCommand)
		if len(t.OscParams) > 0 {
			b.WriteByte(';')
			b.WriteString(strings.Join(t.OscParams, ";"))
		}
		if t.OscPayloadSet {
			b.WriteByte(';')
			b.WriteString(t.OscPayload)
		}
		writeStringTerminator(b, t.OscEscTerminated)
	case KindDcs:
		b.WriteString("\x1bP")
		b.WriteString(t.Text)
		writeStringTerminator(b, t.EscTerminated)
	case KindFrameBegin:
		b.WriteString("\x1b_")
		b.WriteString(FrameBeginPayload)
		b.WriteString("\x1b\\")
	case KindFrameEnd:
		b.WriteString("\x1b_")
		b.WriteString(FrameEndPayload)
		b.WriteString("\x1b\\")
	case KindSs3:
		b.WriteString("\x1bO")
		b.WriteByte(byte(t.Control))
	case KindSgrMouse:
		code := t.MouseRawButton
		b.WriteString("\x1b[<")
		writeInt(b, code)
		b.WriteByte(';')
		writeInt(b, t.MouseX)
		b.WriteByte(';')
		writeInt(b, t.MouseY)
		if t.MouseAction == MouseUp {
			b.WriteByte('m')
		} else {
			b.WriteByte('M')
		}
	case KindSpecialKey:
		b.WriteString("\x1b[")
		writeInt(b, t.KeyCode)
		if t.KeyMods != 0 {
			b.WriteByte(';')
			writeInt(b, t.KeyMods)
		}
		b.WriteByte('~')
	case KindDeviceStatusReport:
		b.WriteString("\x1b[")
		writeInt(b, t.ReportType)
		b.WriteByte('n')
	case KindUnrecognised:
		b.WriteString(t.Raw)
	}
}

func writeStringTerminator(b byteStringWriter, escBackslash bool) {
	if escBackslash {
		b.WriteString("\x1b\\")
	} else {
		b.WriteByte(bel)
	}
}

func writeInt(b byteStringWriter, n int) {
	b.WriteString(strconv.Itoa(n))
}

func writeOmittable(b byteStringWriter, n, def int) {
	if n == def {
		return
	}
	writeInt(b, n)
}

func directionFinal(d Direction) byte {
	switch d {
	case DirUp:
		return 'A'
	case DirDown:
		return 'B'
	case DirForward:
		return 'C'
	case DirBack:
		return 'D'
	case DirNextLine:
		return 'E'
	case DirPreviousLine:
		return 'F'
	default:
		return 'A'
	}
}
