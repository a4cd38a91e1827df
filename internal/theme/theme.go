// Package theme provides the colors of the window chrome and overlays.
package theme

import (
	"fmt"
	"image/color"

	"charm.land/lipgloss/v2"
	tint "github.com/lrstanley/bubbletint/v2"
)

var enabled bool

// Initialize selects the theme called themeName. An empty name disables
// theming and the terminal's standard colors are used. Unknown names fall
// back to the default tint.
func Initialize(themeName string) {
	if themeName == "" {
		enabled = false
		return
	}

	enabled = true
	tint.NewDefaultRegistry()
	if !tint.SetTintID(themeName) {
		tint.SetTintID("default")
	}
}

// IsEnabled reports whether a theme is active.
func IsEnabled() bool {
	return enabled
}

// Current returns the active theme, or nil when theming is disabled.
func Current() *tint.Tint {
	if !enabled {
		return nil
	}
	return tint.Current()
}

// pick returns the theme color chosen by fn, or fallback without a theme.
func pick(fn func(*tint.Tint) color.Color, fallback string) color.Color {
	if t := Current(); t != nil {
		return fn(t)
	}
	return lipgloss.Color(fallback)
}

// Window border colors
func BorderUnfocused() color.Color {
	return pick(func(t *tint.Tint) color.Color { return t.BrightBlack }, "#767676")
}

func BorderFocused() color.Color {
	return pick(func(t *tint.Tint) color.Color { return t.BrightCyan }, "#AFFFFF")
}

// BorderDisabled marks a window waiting on a dialog.
func BorderDisabled() color.Color {
	return pick(func(t *tint.Tint) color.Color { return t.Yellow }, "#D7AF5F")
}

// BorderDragging is used while a window is moved or resized.
func BorderDragging() color.Color {
	return pick(func(t *tint.Tint) color.Color { return t.BrightGreen }, "#AAFFAA")
}

// Titlebar button colors
func ButtonFg() color.Color {
	return pick(func(t *tint.Tint) color.Color { return t.Black }, "#000000")
}

func ButtonClose() color.Color {
	return pick(func(t *tint.Tint) color.Color { return t.Red }, "#FF5F5F")
}

func TitleFg() color.Color {
	return pick(func(t *tint.Tint) color.Color { return t.Fg }, "#E5E5E5")
}

// Status bar colors
func StatusBg() color.Color {
	return lipgloss.Color("#2a2a3e")
}

func StatusFg() color.Color {
	return lipgloss.Color("#a0a0a8")
}

func StatusHighlight() color.Color {
	return pick(func(t *tint.Tint) color.Color { return t.BrightGreen }, "#00ff00")
}

func StatusDimmed() color.Color {
	return lipgloss.Color("#808090")
}

// Log viewer colors
func LogViewerTitle() color.Color {
	return lipgloss.Color("14")
}

func LogViewerError() color.Color {
	return lipgloss.Color("9")
}

func LogViewerWarn() color.Color {
	return lipgloss.Color("11")
}

func LogViewerInfo() color.Color {
	return lipgloss.Color("10")
}

func LogViewerDebug() color.Color {
	return lipgloss.Color("8")
}

// Help overlay colors
func HelpKeyBadge() color.Color {
	return lipgloss.Color("5")
}

func HelpGray() color.Color {
	return lipgloss.Color("8")
}

func HelpBorder() color.Color {
	return lipgloss.Color("14")
}

// CLI table colors
func CLITableHeader() color.Color {
	return lipgloss.Color("12")
}

func CLITableBorder() color.Color {
	return lipgloss.Color("14")
}

func CLITableKey() color.Color {
	return lipgloss.Color("11")
}

func CLITableDim() color.Color {
	return lipgloss.Color("8")
}

// ColorToString formats c as a #rrggbb hex string.
func ColorToString(c color.Color) string {
	if c == nil {
		return "#000000"
	}
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", uint8(r>>8), uint8(g>>8), uint8(b>>8))
}
