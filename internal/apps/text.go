package apps

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

var (
	accentStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#767676"))
	selStyle    = lipgloss.NewStyle().Reverse(true)
)

// lineInput is a single line text field.
type lineInput struct {
	value []rune
}

// key applies an editing key and reports whether it was one.
func (in *lineInput) key(key, text string) bool {
	switch key {
	case "backspace":
		if len(in.value) > 0 {
			in.value = in.value[:len(in.value)-1]
		}
		return true
	case "ctrl+u":
		in.value = in.value[:0]
		return true
	case "space":
		in.value = append(in.value, ' ')
		return true
	}
	if text != "" {
		in.value = append(in.value, []rune(text)...)
		return true
	}
	return false
}

func (in *lineInput) String() string { return string(in.value) }

func (in *lineInput) reset() { in.value = in.value[:0] }

// view renders the field with a cursor, keeping the tail visible.
func (in *lineInput) view(width int) string {
	s := string(in.value) + "█"
	if width > 0 && ansi.StringWidth(s) > width {
		s = ansi.TruncateLeft(s, ansi.StringWidth(s)-width, "")
	}
	return s
}

// fit cuts lines to width and pads the block to height lines.
func fit(lines []string, width, height int) string {
	if height <= 0 || width <= 0 {
		return ""
	}
	if len(lines) > height {
		lines = lines[len(lines)-height:]
	}
	out := make([]string, height)
	for i := range out {
		if i < len(lines) {
			out[i] = truncate(lines[i], width)
		}
	}
	return strings.Join(out, "\n")
}

func truncate(s string, width int) string { return ansi.Truncate(s, width, "") }

// size returns the natural size of a block of lines.
func size(lines []string) (width, height int) {
	for _, l := range lines {
		width = max(width, lipgloss.Width(l))
	}
	return width, len(lines)
}
