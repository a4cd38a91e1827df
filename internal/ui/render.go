package ui

import (
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/Gaurav-Gosain/winshell/internal/pool"
	"github.com/Gaurav-Gosain/winshell/internal/theme"
	"github.com/Gaurav-Gosain/winshell/internal/wm"
	"github.com/charmbracelet/x/ansi"
)

// Layer depths above every window.
const (
	zStatus  = 1 << 20
	zOverlay = zStatus + 1
)

// Frame glyphs.
const (
	borderTopLeft     = "╭"
	borderTopRight    = "╮"
	borderBottomLeft  = "╰"
	borderBottomRight = "╯"
	borderHorizontal  = "─"
	borderVertical    = "│"
)

var (
	buttonMinimize = " _ "
	buttonMaximize = " □ "
	buttonRestore  = " ❐ "
	buttonClose    = " × "
)

// View implements tea.Model.
func (md *Model) View() tea.View {
	var view tea.View
	view.SetContent(lipgloss.Sprint(md.Render()))
	view.AltScreen = true
	view.MouseMode = tea.MouseModeAllMotion
	view.WindowTitle = md.windowTitle()
	return view
}

func (md *Model) windowTitle() string {
	if w := md.m.Focused(); w != nil && w.Title != "" {
		return "winshell: " + w.Title
	}
	return "winshell"
}

// Render draws the whole screen.
func (md *Model) Render() string {
	if md.width <= 0 || md.height <= 0 {
		return ""
	}
	return md.GetCanvas().Render()
}

// GetCanvas composes every visible window and overlay.
func (md *Model) GetCanvas() *lipgloss.Canvas {
	canvas := lipgloss.NewCanvas(md.width, md.height)
	dw, dh := md.Size()

	layers := pool.GetLayerSlice()
	defer pool.PutLayerSlice(layers)
	for _, w := range md.m.Windows() {
		if w.Minimized() {
			continue
		}
		content, x, y := clipWindowContent(md.renderWindow(w), w.Rect.Left, w.Rect.Top, dw, dh)
		if content == "" {
			continue
		}
		*layers = append(*layers, lipgloss.NewLayer(content).X(x).Y(y).Z(w.Z).ID(w.ID))
	}
	*layers = append(*layers, md.renderOverlays()...)
	return canvas.Compose(lipgloss.NewCompositor(*layers...))
}

// borderColor reflects focus, modal and interaction state.
func (md *Model) borderColor(w *wm.Window) color.Color {
	if kind, active := md.m.Interaction(); kind != wm.Idle && active == w {
		return theme.BorderDragging()
	}
	switch {
	case w.Disabled:
		return theme.BorderDisabled()
	case w.Focused():
		return theme.BorderFocused()
	default:
		return theme.BorderUnfocused()
	}
}

// renderWindow draws w with its chrome at its full size.
func (md *Model) renderWindow(w *wm.Window) string {
	c := md.borderColor(w)
	width, height := max(w.Rect.Width-2, 0), max(w.Rect.Height-2, 0)
	body := md.windowContent(w, width, height)
	return titleBar(w, c) + "\n" + frameBody(body, width, height, c)
}

// contentView is content that draws itself.
type contentView interface {
	View(width, height int) string
}

func (md *Model) windowContent(w *wm.Window, width, height int) string {
	switch ch := w.Channel().(type) {
	case remoteState:
		// Remote content draws on its own side of the connection.
		st, err := ch.State()
		text := fmt.Sprintf("%s %s", st, w.URL)
		if err != nil {
			text += "\n" + err.Error()
		}
		return lipgloss.NewStyle().Foreground(theme.StatusDimmed()).Render(text)
	case contentView:
		if w.Loaded() {
			return ch.View(width, height)
		}
	}
	if !w.Loaded() {
		return lipgloss.NewStyle().Foreground(theme.StatusDimmed()).Render("loading " + w.URL)
	}
	return ""
}

// titleBar draws the top border with the icon, the title and the buttons.
// Button columns follow wm.ButtonSpan so that clicks land where they are
// drawn.
func titleBar(w *wm.Window, c color.Color) string {
	width := w.Rect.Width
	border := lipgloss.NewStyle().Foreground(c)
	if width < 2 {
		return border.Render(strings.Repeat(borderHorizontal, max(width, 0)))
	}

	frame := wm.Rect{Width: width}
	first, _, _ := wm.ButtonSpan(frame, wm.HandleMinimize)
	_, last, _ := wm.ButtonSpan(frame, wm.HandleClose)
	if first < 1 {
		return border.Render(borderTopLeft + strings.Repeat(borderHorizontal, width-2) + borderTopRight)
	}

	buttonStyle := lipgloss.NewStyle().Foreground(theme.ButtonFg()).Background(c)
	closeStyle := buttonStyle.Background(theme.ButtonClose())
	maxGlyph := buttonMaximize
	if w.Maximized() {
		maxGlyph = buttonRestore
	}
	buttons := buttonStyle.Render(buttonMinimize) + buttonStyle.Render(maxGlyph) + closeStyle.Render(buttonClose)

	space := first - 1
	label := ""
	if w.Icon != "" {
		label = w.Icon + " "
	}
	label += w.Title
	if label != "" && space > 2 {
		label = ansi.Truncate(" "+label+" ", space, "…")
	} else {
		label = ""
	}
	fill := space - ansi.StringWidth(label)

	return border.Render(borderTopLeft) +
		lipgloss.NewStyle().Foreground(theme.TitleFg()).Bold(w.Focused()).Render(label) +
		border.Render(strings.Repeat(borderHorizontal, fill)) +
		buttons +
		border.Render(strings.Repeat(borderHorizontal, width-2-last)+borderTopRight)
}

// frameBody draws the side and bottom borders around content, clipped and
// padded to width x height.
func frameBody(content string, width, height int, c color.Color) string {
	border := lipgloss.NewStyle().Foreground(c)
	side := border.Render(borderVertical)

	lines := strings.Split(content, "\n")
	sb := pool.GetBuffer()
	defer pool.PutBuffer(sb)
	for i := range height {
		line := ""
		if i < len(lines) {
			line = ansi.Truncate(lines[i], width, "")
		}
		sb.WriteString(side)
		sb.WriteString(line)
		sb.WriteString(strings.Repeat(" ", width-ansi.StringWidth(line)))
		sb.WriteString(side)
		sb.WriteByte('\n')
	}
	sb.WriteString(border.Render(borderBottomLeft + strings.Repeat(borderHorizontal, width) + borderBottomRight))
	return sb.String()
}

// clipWindowContent cuts rendered window content to the viewport and returns
// it with its adjusted position. It returns an empty string when nothing is
// visible.
func clipWindowContent(content string, x, y, viewportWidth, viewportHeight int) (string, int, int) {
	if x >= viewportWidth || y >= viewportHeight {
		return "", 0, 0
	}
	lines := strings.Split(content, "\n")

	if y < 0 {
		if -y >= len(lines) {
			return "", 0, 0
		}
		lines = lines[-y:]
		y = 0
	}
	if y+len(lines) > viewportHeight {
		lines = lines[:viewportHeight-y]
	}

	left := 0
	if x < 0 {
		left = -x
		x = 0
	}
	right := left + viewportWidth - x
	visible := false
	for i, line := range lines {
		lines[i] = ansi.Cut(line, left, right)
		if lines[i] != "" {
			visible = true
		}
	}
	if !visible {
		return "", 0, 0
	}
	return strings.Join(lines, "\n"), x, y
}
