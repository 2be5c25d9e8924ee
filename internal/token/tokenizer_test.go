package token_test

import (
	"testing"

	"github.com/hex1b/hex1b/internal/token"
)

func concatSources(toks []token.AnsiToken) string {
	s := ""
	for _, t := range toks {
		s += t.Raw
	}
	return s
}

func TestTokenizerClosure(t *testing.T) {
	inputs := []string{
		"Hello, world!",
		"\x1b[1;31mX\x1b[0m",
		"\x1b[?1049h\x1b[2J",
		"\x1b]0;title\x07",
		"\x1b",       // truncated escape
		"\x1b[",      // truncated CSI
		"\x1b[38;2;1;2;3m", // unterminated OSC-like garbage isn't here but SGR ok
		"line1\r\nline2\ttabbed",
		"\x1bP1$q\x1b\\",
		string([]byte{0x01, 0x02}), // raw C0 controls
	}
	for _, in := range inputs {
		toks := token.Tokenize([]byte(in))
		got := concatSources(toks)
		if got != in {
			t.Errorf("closure failed for %q: got sources %q", in, got)
		}
	}
}

func TestTokenizeBasicText(t *testing.T) {
	toks := token.Tokenize([]byte("Hello"))
	if len(toks) != 1 || toks[0].Kind != token.KindText || toks[0].Text != "Hello" {
		t.Fatalf("unexpected tokens: %+v", toks)
	}
}

func TestTokenizeSgrRoundTrip(t *testing.T) {
	in := "\x1b[1;31mX\x1b[0m"
	toks := token.Tokenize([]byte(in))
	out := token.Serialize(toks)
	if out != in {
		t.Fatalf("round trip mismatch: got %q want %q", out, in)
	}
}

func TestTokenizeCursorPosition(t *testing.T) {
	toks := token.Tokenize([]byte("\x1b[5;10H"))
	if len(toks) != 1 {
		t.Fatalf("expected 1 token, got %d: %+v", len(toks), toks)
	}
	tk := toks[0]
	if tk.Kind != token.KindCursorPosition || tk.Row != 5 || tk.Column != 10 {
		t.Fatalf("unexpected token: %+v", tk)
	}
	if token.Serialize(toks) != "\x1b[5;10H" {
		t.Fatalf("serialize mismatch: %q", token.Serialize(toks))
	}
}

func TestTokenizePrivateModeMulti(t *testing.T) {
	toks := token.Tokenize([]byte("\x1b[?1049;25h"))
	if len(toks) != 2 {
		t.Fatalf("expected 2 PrivateMode tokens, got %d: %+v", len(toks), toks)
	}
	if toks[0].ModeNumber != 1049 || !toks[0].Bool {
		t.Fatalf("unexpected first mode: %+v", toks[0])
	}
	if toks[1].ModeNumber != 25 || !toks[1].Bool {
		t.Fatalf("unexpected second mode: %+v", toks[1])
	}
}

func TestTokenizeOscTitle(t *testing.T) {
	toks := token.Tokenize([]byte("\x1b]0;my title\x07"))
	if len(toks) != 1 || toks[0].Kind != token.KindOsc {
		t.Fatalf("unexpected tokens: %+v", toks)
	}
	if toks[0].OscCommand != 0 || toks[0].OscPayload != "my title" {
		t.Fatalf("unexpected osc: %+v", toks[0])
	}
	if toks[0].OscEscTerminated {
		t.Fatalf("expected BEL terminator")
	}
}

func TestTokenizeOscEscTerminator(t *testing.T) {
	toks := token.Tokenize([]byte("\x1b]0;my title\x1b\\"))
	if len(toks) != 1 || !toks[0].OscEscTerminated {
		t.Fatalf("expected ESC \\ terminator: %+v", toks)
	}
	if token.Serialize(toks) != "\x1b]0;my title\x1b\\" {
		t.Fatalf("round trip mismatch: %q", token.Serialize(toks))
	}
}

func TestTokenizeFrameMarkers(t *testing.T) {
	in := "\x1b_" + token.FrameBeginPayload + "\x1b\\"
	toks := token.Tokenize([]byte(in))
	if len(toks) != 1 || toks[0].Kind != token.KindFrameBegin {
		t.Fatalf("expected FrameBegin, got %+v", toks)
	}
}

func TestTokenizeUnknownApc(t *testing.T) {
	toks := token.Tokenize([]byte("\x1b_not a frame marker\x1b\\"))
	if len(toks) != 1 || toks[0].Kind != token.KindUnrecognised {
		t.Fatalf("expected Unrecognised, got %+v", toks)
	}
}

func TestTokenizeGraphemeCoalescing(t *testing.T) {
	// Family emoji ZWJ sequence should remain a single grapheme inside one Text token.
	family := "\U0001F468‍\U0001F469‍\U0001F467"
	toks := token.Tokenize([]byte("a" + family + "b"))
	if len(toks) != 1 || toks[0].Kind != token.KindText {
		t.Fatalf("expected single coalesced Text token, got %+v", toks)
	}
	if toks[0].Text != "a"+family+"b" {
		t.Fatalf("unexpected text: %q", toks[0].Text)
	}
}

func TestTokenizeScrollRegionReset(t *testing.T) {
	toks := token.Tokenize([]byte("\x1b[r"))
	if len(toks) != 1 || toks[0].Top != 1 || toks[0].Bottom != 0 {
		t.Fatalf("unexpected scroll region reset: %+v", toks)
	}
	if token.Serialize(toks) != "\x1b[r" {
		t.Fatalf("serialize mismatch: %q", token.Serialize(toks))
	}
}

func TestTokenizeIncompleteEscapeAtEOF(t *testing.T) {
	toks := token.Tokenize([]byte("abc\x1b["))
	if len(toks) != 2 {
		t.Fatalf("expected Text + Unrecognised, got %+v", toks)
	}
	if toks[1].Kind != token.KindUnrecognised || toks[1].Raw != "\x1b[" {
		t.Fatalf("unexpected trailing token: %+v", toks[1])
	}
}

func TestTokenizeSgrMouse(t *testing.T) {
	toks := token.Tokenize([]byte("\x1b[<0;21;6M"))
	if len(toks) != 1 || toks[0].Kind != token.KindSgrMouse {
		t.Fatalf("unexpected tokens: %+v", toks)
	}
	m := toks[0]
	if m.MouseX != 21 || m.MouseY != 6 || m.MouseAction != token.MouseDown {
		t.Fatalf("unexpected mouse token: %+v", m)
	}
}
