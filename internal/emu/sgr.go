package emu

import "strconv"

// applySgr parses the raw parameter body of an SGR command (preserved
// verbatim on the token per spec §9's open question on SGR parameter
// semantics) and returns fg/bg/attrs with the command applied.
func applySgr(params string, fg, bg *RGB, attrs Attr) (*RGB, *RGB, Attr) {
	nums := splitSgrParams(params)
	if len(nums) == 0 {
		nums = []int{0}
	}
	for i := 0; i < len(nums); i++ {
		n := nums[i]
		switch {
		case n == 0:
			fg, bg, attrs = nil, nil, 0
		case n == 1:
			attrs |= AttrBold
		case n == 2:
			attrs |= AttrDim
		case n == 3:
			attrs |= AttrItalic
		case n == 4:
			attrs |= AttrUnderline
		case n == 5:
			attrs |= AttrBlink
		case n == 7:
			attrs |= AttrReverse
		case n == 8:
			attrs |= AttrHidden
		case n == 9:
			attrs |= AttrStrikethrough
		case n == 21:
			attrs &^= AttrBold
		case n == 22:
			attrs &^= (AttrBold | AttrDim)
		case n == 23:
			attrs &^= AttrItalic
		case n == 24:
			attrs &^= AttrUnderline
		case n == 25:
			attrs &^= AttrBlink
		case n == 27:
			attrs &^= AttrReverse
		case n == 28:
			attrs &^= AttrHidden
		case n == 29:
			attrs &^= AttrStrikethrough
		case n == 53:
			attrs |= AttrOverline
		case n == 55:
			attrs &^= AttrOverline
		case n >= 30 && n <= 37:
			c := basic16[n-30]
			fg = &c
		case n == 38:
			c, consumed := parseExtendedColor(nums[i+1:])
			if c != nil {
				fg = c
			}
			i += consumed
		case n == 39:
			fg = nil
		case n >= 40 && n <= 47:
			c := basic16[n-40]
			bg = &c
		case n == 48:
			c, consumed := parseExtendedColor(nums[i+1:])
			if c != nil {
				bg = c
			}
			i += consumed
		case n == 49:
			bg = nil
		case n >= 90 && n <= 97:
			c := basic16[8+n-90]
			fg = &c
		case n >= 100 && n <= 107:
			c := basic16[8+n-100]
			bg = &c
		}
	}
	return fg, bg, attrs
}

// parseExtendedColor parses the tail of a 38/48 sequence: either
// "5;n" (256-color palette) or "2;r;g;b" (direct RGB). It returns the
// number of extra parameters consumed beyond the mode selector.
func parseExtendedColor(rest []int) (*RGB, int) {
	if len(rest) == 0 {
		return nil, 0
	}
	switch rest[0] {
	case 5:
		if len(rest) < 2 {
			return nil, 1
		}
		c := ansi256ToRGB(rest[1])
		return &c, 2
	case 2:
		if len(rest) < 4 {
			return nil, len(rest)
		}
		c := RGB{uint8(clampByte(rest[1])), uint8(clampByte(rest[2])), uint8(clampByte(rest[3]))}
		return &c, 4
	default:
		return nil, 1
	}
}

func clampByte(n int) int {
	if n < 0 {
		return 0
	}
	if n > 255 {
		return 255
	}
	return n
}

func splitSgrParams(s string) []int {
	if s == "" {
		return nil
	}
	var out []int
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ';' {
			part := s[start:i]
			// Sub-parameters (colon-separated, used by some 38:2:...
			// spellings) are cut at the first colon: only the value before
			// it is kept and the rest of that parameter is discarded;
			// parseExtendedColor only ever sees semicolon-separated
			// parameters in practice for the sequences this engine emits.
			if idx := indexByte(part, ':'); idx >= 0 {
				part = part[:idx]
			}
			if part == "" {
				out = append(out, 0)
			} else if n, err := strconv.Atoi(part); err == nil {
				out = append(out, n)
			} else {
				out = append(out, 0)
			}
			start = i + 1
		}
	}
	return out
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}
