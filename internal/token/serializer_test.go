package token_test

import (
	"testing"

	"github.com/hex1b/hex1b/internal/token"
)

func TestSerializerParity(t *testing.T) {
	samples := []token.AnsiToken{
		token.Text("hello"),
		token.Sgr("1;31"),
		token.CursorPosition(3, 4),
		token.CursorMove(token.DirForward, 5),
		{Kind: token.KindClearScreen, Clear: token.ClearAll},
		{Kind: token.KindScrollRegion, Top: 2, Bottom: 20},
		{Kind: token.KindPrivateMode, ModeNumber: 1049, Bool: true},
		{Kind: token.KindOsc, OscCommand: 0, OscPayload: "title", OscPayloadSet: true},
		{Kind: token.KindDcs, Text: "sixeldata"},
		token.FrameBegin(),
		token.FrameEnd(),
		{Kind: token.KindSs3, Control: 'A'},
		{Kind: token.KindSgrMouse, MouseX: 1, MouseY: 2, MouseRawButton: 0, MouseAction: token.MouseDown},
		token.Unrecognised("\x1bZ"),
	}
	for _, tok := range samples {
		s := token.SerializeToken(tok)
		b := token.SerializeTokenBytes(tok)
		if s != string(b) {
			t.Errorf("parity mismatch for %+v: string=%q bytes=%q", tok, s, b)
		}
	}
}

func TestSerializeTokenizeRoundTrip(t *testing.T) {
	samples := []token.AnsiToken{
		token.CursorMove(token.DirUp, 1),
		token.CursorMove(token.DirDown, 7),
		{Kind: token.KindCursorColumn, Column: 1},
		{Kind: token.KindCursorColumn, Column: 40},
		{Kind: token.KindClearLine, Clear: token.ClearToEnd},
		{Kind: token.KindClearLine, Clear: token.ClearAll},
		{Kind: token.KindScrollUp, Count: 1},
		{Kind: token.KindScrollUp, Count: 3},
		{Kind: token.KindIndex},
		{Kind: token.KindReverseIndex},
		{Kind: token.KindSaveCursor, Bool: true},
		{Kind: token.KindSaveCursor, Bool: false},
		{Kind: token.KindRestoreCursor, Bool: true},
		{Kind: token.KindRestoreCursor, Bool: false},
		{Kind: token.KindKeypadMode, Bool: true},
		{Kind: token.KindKeypadMode, Bool: false},
		{Kind: token.KindCharacterSet, Target: token.G0, Control: 'B'},
		{Kind: token.KindCharacterSet, Target: token.G1, Control: '0'},
	}
	for _, tok := range samples {
		wire := token.SerializeToken(tok)
		toks := token.Tokenize([]byte(wire))
		if len(toks) != 1 {
			t.Fatalf("expected 1 token from %q, got %d: %+v", wire, len(toks), toks)
		}
		if !tok.Equal(toks[0]) {
			t.Errorf("round trip mismatch for %+v: got %+v (wire %q)", tok, toks[0], wire)
		}
	}
}
