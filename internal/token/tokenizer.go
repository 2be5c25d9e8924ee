package token

import (
	"strconv"
	"strings"

	"github.com/rivo/uniseg"
)

const (
	esc = 0x1b
	bel = 0x07
	c1OscStart = 0x9d
	c1DcsStart = 0x90
	c1ApcStart = 0x9f
	c1St       = 0x9c
)

// Tokenize parses an arbitrary byte stream, including ill-formed sequences,
// into a finite sequence of tokens. It never fails: unrecognised input
// becomes an Unrecognised or Text token so the original bytes can always be
// reconstituted by serialising the result (spec §4.1, Tokenizer closure).
func Tokenize(data []byte) []AnsiToken {
	t := &tokenizer{s: string(data)}
	return t.run()
}

type tokenizer struct {
	s   string
	pos int
	out []AnsiToken
}

func (t *tokenizer) rest() string { return t.s[t.pos:] }
func (t *tokenizer) eof() bool    { return t.pos >= len(t.s) }

func (t *tokenizer) run() []AnsiToken {
	for !t.eof() {
		c := t.s[t.pos]
		switch {
		case c == esc:
			t.consumeEscape()
		case c == '\n' || c == '\r' || c == '\t':
			t.emit(AnsiToken{Kind: KindControl, Control: rune(c), Raw: string(c)})
			t.pos++
		case c == c1OscStart:
			t.consumeOsc(t.pos, t.pos+1)
		case c == c1DcsStart:
			t.consumeDcs(t.pos, t.pos+1)
		case c == c1ApcStart:
			t.consumeApc(t.pos, t.pos+1)
		case c < 0x20:
			// Other C0 controls have no defined token; preserve the byte.
			t.emit(AnsiToken{Kind: KindUnrecognised, Raw: string(c)})
			t.pos++
		default:
			t.consumeText()
		}
	}
	return t.out
}

func (t *tokenizer) emit(tok AnsiToken) { t.out = append(t.out, tok) }

// consumeText coalesces consecutive printable graphemes into a single Text
// token, per spec §4.1 adjacent-text coalescing.
func (t *tokenizer) consumeText() {
	start := t.pos
	state := -1
	var b strings.Builder
	for !t.eof() {
		c := t.s[t.pos]
		if c == esc || c == '\n' || c == '\r' || c == '\t' || c < 0x20 ||
			c == c1OscStart || c == c1DcsStart || c == c1ApcStart || c == c1St {
			break
		}
		cluster, rest, _, newState := uniseg.FirstGraphemeClusterInString(t.rest(), state)
		if cluster == "" {
			break
		}
		b.WriteString(cluster)
		t.pos += len(t.rest()) - len(rest)
		state = newState
	}
	if b.Len() == 0 {
		// Should not happen, but guarantees forward progress.
		t.emit(AnsiToken{Kind: KindUnrecognised, Raw: t.s[start : start+1]})
		t.pos = start + 1
		return
	}
	t.emit(AnsiToken{Kind: KindText, Text: b.String(), Raw: t.s[start:t.pos]})
}

// consumeEscape dispatches on the byte following ESC.
func (t *tokenizer) consumeEscape() {
	start := t.pos
	if t.pos+1 >= len(t.s) {
		t.emit(AnsiToken{Kind: KindUnrecognised, Raw: t.s[start:]})
		t.pos = len(t.s)
		return
	}
	switch t.s[t.pos+1] {
	case '[':
		t.consumeCsi()
	case ']':
		t.consumeOsc(start, t.pos+2)
	case 'P':
		t.consumeDcs(start, t.pos+2)
	case '_':
		t.consumeApc(start, t.pos+2)
	case 'O':
		if t.pos+2 >= len(t.s) {
			t.emit(AnsiToken{Kind: KindUnrecognised, Raw: t.s[start:]})
			t.pos = len(t.s)
			return
		}
		c := rune(t.s[t.pos+2])
		t.emit(AnsiToken{Kind: KindSs3, Control: c, Raw: t.s[start : t.pos+3]})
		t.pos += 3
	case '7':
		t.emit(AnsiToken{Kind: KindSaveCursor, Bool: true, Raw: t.s[start : t.pos+2]})
		t.pos += 2
	case '8':
		t.emit(AnsiToken{Kind: KindRestoreCursor, Bool: true, Raw: t.s[start : t.pos+2]})
		t.pos += 2
	case 'D':
		t.emit(AnsiToken{Kind: KindIndex, Raw: t.s[start : t.pos+2]})
		t.pos += 2
	case 'M':
		t.emit(AnsiToken{Kind: KindReverseIndex, Raw: t.s[start : t.pos+2]})
		t.pos += 2
	case '=':
		t.emit(AnsiToken{Kind: KindKeypadMode, Bool: true, Raw: t.s[start : t.pos+2]})
		t.pos += 2
	case '>':
		t.emit(AnsiToken{Kind: KindKeypadMode, Bool: false, Raw: t.s[start : t.pos+2]})
		t.pos += 2
	case '(', ')':
		target := G0
		if t.s[t.pos+1] == ')' {
			target = G1
		}
		if t.pos+2 >= len(t.s) {
			t.emit(AnsiToken{Kind: KindUnrecognised, Raw: t.s[start:]})
			t.pos = len(t.s)
			return
		}
		t.emit(AnsiToken{Kind: KindCharacterSet, Target: target, Control: rune(t.s[t.pos+2]), Raw: t.s[start : t.pos+3]})
		t.pos += 3
	default:
		// Unknown single-character escape: consume ESC + one byte.
		end := t.pos + 2
		if end > len(t.s) {
			end = len(t.s)
		}
		t.emit(AnsiToken{Kind: KindUnrecognised, Raw: t.s[start:end]})
		t.pos = end
	}
}

// consumeCsi parses "ESC [ prefix? params intermediates final".
func (t *tokenizer) consumeCsi() {
	start := t.pos
	p := t.pos + 2
	var prefix byte
	if p < len(t.s) && (t.s[p] == '?' || t.s[p] == '<' || t.s[p] == '>' || t.s[p] == '=') {
		prefix = t.s[p]
		p++
	}
	paramsStart := p
	for p < len(t.s) && (isParamByte(t.s[p])) {
		p++
	}
	paramsRaw := t.s[paramsStart:p]
	intermStart := p
	for p < len(t.s) && t.s[p] >= 0x20 && t.s[p] <= 0x2f {
		p++
	}
	interm := t.s[intermStart:p]
	if p >= len(t.s) || t.s[p] < '@' || t.s[p] > '~' {
		// Incomplete or malformed CSI.
		end := p
		if end > len(t.s) {
			end = len(t.s)
		}
		if end < len(t.s) {
			end++ // include whatever invalid byte triggered the stop
		}
		t.emit(AnsiToken{Kind: KindUnrecognised, Raw: t.s[start:end]})
		t.pos = end
		return
	}
	final := t.s[p]
	raw := t.s[start : p+1]
	t.pos = p + 1
	t.dispatchCsi(prefix, paramsRaw, interm, final, raw)
}

func isParamByte(c byte) bool {
	return (c >= '0' && c <= '9') || c == ';' || c == ':'
}

func parseParams(s string) []int {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ";")
	out := make([]int, len(parts))
	for i, p := range parts {
		// Sub-parameters separated by ':' collapse to their first value.
		if idx := strings.IndexByte(p, ':'); idx >= 0 {
			p = p[:idx]
		}
		if p == "" {
			out[i] = -1
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			out[i] = -1
			continue
		}
		out[i] = n
	}
	return out
}

func paramOr(params []int, idx, def int) int {
	if idx >= len(params) || params[idx] < 0 {
		return def
	}
	return params[idx]
}

func (t *tokenizer) dispatchCsi(prefix byte, paramsRaw, interm string, final byte, raw string) {
	params := parseParams(paramsRaw)
	switch {
	case final == 'm' && prefix == 0:
		t.emit(AnsiToken{Kind: KindSgr, Sgr: paramsRaw, Raw: raw})
		return
	case (final == 'M' || final == 'm') && prefix == '<':
		t.dispatchSgrMouse(params, final, raw)
		return
	case (final == 'h' || final == 'l') && prefix == '?':
		if len(params) == 0 {
			t.emit(AnsiToken{Kind: KindUnrecognised, Raw: raw})
			return
		}
		src := raw
		for _, m := range params {
			if m < 0 {
				continue
			}
			// Only the first token carries the sequence as its source, so
			// the sources still concatenate back to the input.
			t.emit(AnsiToken{Kind: KindPrivateMode, ModeNumber: m, Bool: final == 'h', Raw: src})
			src = ""
		}
		if src != "" {
			t.emit(AnsiToken{Kind: KindUnrecognised, Raw: raw})
		}
		return
	}
	if prefix != 0 {
		t.emit(AnsiToken{Kind: KindUnrecognised, Raw: raw})
		return
	}
	switch final {
	case 'H', 'f':
		row, col := paramOr(params, 0, 1), paramOr(params, 1, 1)
		t.emit(AnsiToken{Kind: KindCursorPosition, Row: row, Column: col, OriginalParams: paramsRaw, HasOriginal: true, Raw: raw})
	case 'A':
		t.emit(AnsiToken{Kind: KindCursorMove, Direction: DirUp, Count: paramOr(params, 0, 1), Raw: raw})
	case 'B':
		t.emit(AnsiToken{Kind: KindCursorMove, Direction: DirDown, Count: paramOr(params, 0, 1), Raw: raw})
	case 'C':
		t.emit(AnsiToken{Kind: KindCursorMove, Direction: DirForward, Count: paramOr(params, 0, 1), Raw: raw})
	case 'D':
		t.emit(AnsiToken{Kind: KindCursorMove, Direction: DirBack, Count: paramOr(params, 0, 1), Raw: raw})
	case 'E':
		t.emit(AnsiToken{Kind: KindCursorMove, Direction: DirNextLine, Count: paramOr(params, 0, 1), Raw: raw})
	case 'F':
		t.emit(AnsiToken{Kind: KindCursorMove, Direction: DirPreviousLine, Count: paramOr(params, 0, 1), Raw: raw})
	case 'G':
		t.emit(AnsiToken{Kind: KindCursorColumn, Column: paramOr(params, 0, 1), Raw: raw})
	case 'd':
		t.emit(AnsiToken{Kind: KindCursorRow, Row: paramOr(params, 0, 1), Raw: raw})
	case 'J':
		t.emit(AnsiToken{Kind: KindClearScreen, Clear: clearModeFrom(paramOr(params, 0, 0), true), Raw: raw})
	case 'K':
		t.emit(AnsiToken{Kind: KindClearLine, Clear: clearModeFrom(paramOr(params, 0, 0), false), Raw: raw})
	case 'r':
		top, bottom := paramOr(params, 0, 1), paramOr(params, 1, 0)
		t.emit(AnsiToken{Kind: KindScrollRegion, Top: top, Bottom: bottom, Raw: raw})
	case 's':
		if len(params) == 0 {
			t.emit(AnsiToken{Kind: KindSaveCursor, Bool: false, Raw: raw})
		} else {
			t.emit(AnsiToken{Kind: KindLeftRightMargin, Left: paramOr(params, 0, 1), Right: paramOr(params, 1, 0), Raw: raw})
		}
	case 'u':
		t.emit(AnsiToken{Kind: KindRestoreCursor, Bool: false, Raw: raw})
	case 'q':
		if strings.Contains(interm, " ") {
			t.emit(AnsiToken{Kind: KindCursorShape, Shape: paramOr(params, 0, 0), Raw: raw})
		} else {
			t.emit(AnsiToken{Kind: KindUnrecognised, Raw: raw})
		}
	case 'S':
		t.emit(AnsiToken{Kind: KindScrollUp, Count: paramOr(params, 0, 1), Raw: raw})
	case 'T':
		t.emit(AnsiToken{Kind: KindScrollDown, Count: paramOr(params, 0, 1), Raw: raw})
	case 'L':
		t.emit(AnsiToken{Kind: KindInsertLines, Count: paramOr(params, 0, 1), Raw: raw})
	case 'M':
		t.emit(AnsiToken{Kind: KindDeleteLines, Count: paramOr(params, 0, 1), Raw: raw})
	case '@':
		t.emit(AnsiToken{Kind: KindInsertCharacter, Count: paramOr(params, 0, 1), Raw: raw})
	case 'P':
		t.emit(AnsiToken{Kind: KindDeleteCharacter, Count: paramOr(params, 0, 1), Raw: raw})
	case 'X':
		t.emit(AnsiToken{Kind: KindEraseCharacter, Count: paramOr(params, 0, 1), Raw: raw})
	case 'b':
		t.emit(AnsiToken{Kind: KindRepeatCharacter, Count: paramOr(params, 0, 1), Raw: raw})
	case '~':
		t.emit(AnsiToken{Kind: KindSpecialKey, KeyCode: paramOr(params, 0, 0), KeyMods: paramOr(params, 1, 0), Raw: raw})
	case 'n':
		t.emit(AnsiToken{Kind: KindDeviceStatusReport, ReportType: paramOr(params, 0, 0), Raw: raw})
	default:
		t.emit(AnsiToken{Kind: KindUnrecognised, Raw: raw})
	}
}

func clearModeFrom(n int, screen bool) ClearMode {
	switch n {
	case 0:
		return ClearToEnd
	case 1:
		return ClearToStart
	case 2:
		return ClearAll
	case 3:
		if screen {
			return ClearAllAndScrollback
		}
		return ClearAll
	default:
		return ClearToEnd
	}
}

func (t *tokenizer) dispatchSgrMouse(params []int, final byte, raw string) {
	if len(params) < 3 {
		t.emit(AnsiToken{Kind: KindUnrecognised, Raw: raw})
		return
	}
	code := params[0]
	x, y := params[1], params[2]
	btn := code & 0x03
	mods := code & 0x1c
	action := MouseDown
	switch {
	case code&0x20 != 0:
		action = MouseDrag
	case final == 'm':
		action = MouseUp
	}
	if code&0x40 != 0 {
		// Wheel events are encoded with bit 64 (0x40) set; the low bit
		// selects button 4 (up) or 5 (down).
		btn = 4 + (code & 0x01)
		action = MouseDown
	}
	t.emit(AnsiToken{
		Kind:           KindSgrMouse,
		MouseButton:    btn,
		MouseAction:    action,
		MouseX:         x,
		MouseY:         y,
		MouseMods:      mods >> 2,
		MouseRawButton: code,
		Raw:            raw,
	})
}

// consumeOsc parses the OSC body starting at bodyStart (after the
// introducer, whose bytes begin at introStart) up to its terminator.
func (t *tokenizer) consumeOsc(introStart, bodyStart int) (ok bool) {
	end, escBS := t.findStringTerminator(bodyStart)
	if end < 0 {
		t.emit(AnsiToken{Kind: KindUnrecognised, Raw: t.s[introStart:]})
		t.pos = len(t.s)
		return false
	}
	body := t.s[bodyStart:end]
	parts := strings.Split(body, ";")
	cmd, _ := strconv.Atoi(parts[0])
	var params []string
	payload := ""
	payloadSet := false
	switch {
	case len(parts) == 2:
		payload = parts[1]
		payloadSet = true
	case len(parts) > 2:
		params = parts[1 : len(parts)-1]
		payload = parts[len(parts)-1]
		payloadSet = true
	}
	termLen := 1
	if escBS {
		termLen = 2
	}
	raw := t.s[introStart : end+termLen]
	t.emit(AnsiToken{
		Kind:             KindOsc,
		OscCommand:       cmd,
		OscParams:        params,
		OscPayload:       payload,
		OscPayloadSet:    payloadSet,
		OscEscTerminated: escBS,
		Raw:              raw,
	})
	t.pos = end + termLen
	return true
}

// consumeDcs parses a device control string body verbatim (may contain
// Sixel data) up to its terminator.
func (t *tokenizer) consumeDcs(introStart, bodyStart int) {
	end, escBS := t.findStringTerminator(bodyStart)
	if end < 0 {
		t.emit(AnsiToken{Kind: KindUnrecognised, Raw: t.s[introStart:]})
		t.pos = len(t.s)
		return
	}
	termLen := 1
	if escBS {
		termLen = 2
	}
	t.emit(AnsiToken{Kind: KindDcs, Text: t.s[bodyStart:end], EscTerminated: escBS, Raw: t.s[introStart : end+termLen]})
	t.pos = end + termLen
}

// consumeApc parses an application-program-command body and recognises the
// internal frame-bracket markers described by spec §4.7.
func (t *tokenizer) consumeApc(introStart, bodyStart int) {
	end, escBS := t.findStringTerminator(bodyStart)
	if end < 0 {
		t.emit(AnsiToken{Kind: KindUnrecognised, Raw: t.s[introStart:]})
		t.pos = len(t.s)
		return
	}
	termLen := 1
	if escBS {
		termLen = 2
	}
	body := t.s[bodyStart:end]
	raw := t.s[introStart : end+termLen]
	switch body {
	case FrameBeginPayload:
		t.emit(AnsiToken{Kind: KindFrameBegin, Raw: raw})
	case FrameEndPayload:
		t.emit(AnsiToken{Kind: KindFrameEnd, Raw: raw})
	default:
		t.emit(AnsiToken{Kind: KindUnrecognised, Raw: raw})
	}
	t.pos = end + termLen
}

// findStringTerminator scans forward from start for BEL, ESC \, or the C1
// ST byte, returning the index of the terminator's first byte and whether
// it was the two-byte ESC \ form. Returns -1 if the input ends first.
func (t *tokenizer) findStringTerminator(start int) (idx int, escBackslash bool) {
	for i := start; i < len(t.s); i++ {
		switch t.s[i] {
		case bel:
			return i, false
		case c1St:
			return i, false
		case esc:
			if i+1 < len(t.s) && t.s[i+1] == '\\' {
				return i, true
			}
		}
	}
	return -1, false
}
