// Package theme resolves named colors for the render engine from a
// bubbletint palette, and loads user-supplied custom themes from the
// on-disk themes directory.
package theme

import (
	"fmt"
	"image/color"
	"log"

	"charm.land/lipgloss/v2"
	tint "github.com/lrstanley/bubbletint/v2"

	"github.com/hex1b/hex1b/internal/widget"
)

var enabled bool

// Initialize sets up the theme registry with the named theme. An empty
// name disables theming; callers then get the fallback colors baked
// into each accessor below.
func Initialize(themeName string) error {
	if themeName == "" {
		enabled = false
		return nil
	}
	enabled = true
	tint.NewDefaultRegistry()

	if themesDir, err := GetThemesDir(); err == nil {
		if _, err := LoadCustomThemes(themesDir); err != nil {
			log.Printf("warning: error loading custom themes: %v", err)
		}
	}

	if ok := tint.SetTintID(themeName); !ok {
		tint.SetTintID("default")
	}
	return nil
}

// IsEnabled reports whether a theme has been selected.
func IsEnabled() bool { return enabled }

// Current returns the active tint, or nil if theming is disabled.
func Current() *tint.Tint {
	if !enabled {
		return nil
	}
	return tint.Current()
}

// GetANSIPalette returns the 16 ANSI colors (0-15) from the active theme,
// the xterm defaults if theming is disabled.
func GetANSIPalette() [16]color.Color {
	t := Current()
	if t == nil {
		return [16]color.Color{
			lipgloss.Color("#000000"), lipgloss.Color("#cd0000"), lipgloss.Color("#00cd00"), lipgloss.Color("#cdcd00"),
			lipgloss.Color("#0000ee"), lipgloss.Color("#cd00cd"), lipgloss.Color("#00cdcd"), lipgloss.Color("#e5e5e5"),
			lipgloss.Color("#7f7f7f"), lipgloss.Color("#ff0000"), lipgloss.Color("#00ff00"), lipgloss.Color("#ffff00"),
			lipgloss.Color("#5c5cff"), lipgloss.Color("#ff00ff"), lipgloss.Color("#00ffff"), lipgloss.Color("#ffffff"),
		}
	}
	return [16]color.Color{
		t.Black, t.Red, t.Green, t.Yellow,
		t.Blue, t.Purple, t.Cyan, t.White,
		t.BrightBlack, t.BrightRed, t.BrightGreen, t.BrightYellow,
		t.BrightBlue, t.BrightPurple, t.BrightCyan, t.BrightWhite,
	}
}

// roleColor resolves one of the render engine's fixed role names to a
// color, falling back to xterm-ish defaults when no theme is active or
// the role is unrecognised.
func roleColor(role string) color.Color {
	t := Current()
	fallback := func(hex string) color.Color { return lipgloss.Color(hex) }
	switch role {
	case "foreground":
		if t == nil {
			return fallback("#e5e5e5")
		}
		return t.Fg
	case "background":
		if t == nil {
			return fallback("#000000")
		}
		return t.Bg
	case "cursor":
		if t == nil {
			return fallback("#00ff00")
		}
		return t.Cursor
	case "accent":
		if t == nil {
			return fallback("#5c5cff")
		}
		return t.BrightBlue
	case "error":
		if t == nil {
			return fallback("#cd0000")
		}
		return t.Red
	case "warning":
		if t == nil {
			return fallback("#cdcd00")
		}
		return t.Yellow
	case "success":
		if t == nil {
			return fallback("#00cd00")
		}
		return t.Green
	case "info":
		if t == nil {
			return fallback("#0000ee")
		}
		return t.Blue
	default:
		return fallback("#e5e5e5")
	}
}

// Theme adapts the active tint palette to widget.Theme, the lookup
// surface the render engine passes to every node during Render.
type Theme struct{}

// Default returns the Theme backed by whatever tint Initialize selected.
func Default() Theme { return Theme{} }

func (Theme) Foreground(role string) *widget.TokenColor { return tokenColor(roleColor(role)) }
func (Theme) Background(role string) *widget.TokenColor { return tokenColor(roleColor(role)) }

func tokenColor(c color.Color) *widget.TokenColor {
	if c == nil {
		return nil
	}
	r, g, b, _ := c.RGBA()
	return &widget.TokenColor{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
}

// ColorToString renders a color.Color as a "#rrggbb" hex string; a nil
// color renders as "#000000".
func ColorToString(c color.Color) string {
	if c == nil {
		return "#000000"
	}
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", uint8(r>>8), uint8(g>>8), uint8(b>>8))
}
