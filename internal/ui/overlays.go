package ui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/Gaurav-Gosain/winshell/internal/config"
	"github.com/Gaurav-Gosain/winshell/internal/theme"
	"github.com/charmbracelet/x/ansi"
)

func (md *Model) renderOverlays() []*lipgloss.Layer {
	layers := []*lipgloss.Layer{
		lipgloss.NewLayer(md.renderStatusBar()).X(0).Y(md.height - 1).Z(zStatus).ID("status"),
	}

	switch {
	case md.showHelp:
		layers = append(layers, lipgloss.NewLayer(md.renderHelp()).X(0).Y(0).Z(zOverlay).ID("help"))
	case md.showLogs:
		layers = append(layers, lipgloss.NewLayer(md.renderLogViewer()).X(0).Y(0).Z(zOverlay).ID("logs"))
	}
	return layers
}

// renderStatusBar draws the bottom row: focused window and minimized count
// on the left, the maximized marker and the clock on the right.
func (md *Model) renderStatusBar() string {
	base := lipgloss.NewStyle().Background(theme.StatusBg()).Foreground(theme.StatusFg())
	highlight := base.Foreground(theme.StatusHighlight()).Bold(true)
	dimmed := base.Foreground(theme.StatusDimmed())

	left := highlight.Render(" winshell ")
	if w := md.m.Focused(); w != nil {
		left += base.Render(" " + strings.TrimSpace(w.Icon+" "+w.Title) + " ")
	}
	minimized := 0
	for _, w := range md.m.Windows() {
		if w.Minimized() {
			minimized++
		}
	}
	if minimized > 0 {
		left += dimmed.Render(fmt.Sprintf(" %d minimized ", minimized))
	}

	var right string
	if md.hasMaximized {
		right += highlight.Render(" ▣ ")
	}
	if keys := md.keys.GetKeysForDisplay("toggle_help"); keys != "" {
		right += dimmed.Render(" " + keys + " help ")
	}
	if md.showClock {
		right += base.Render(" " + md.now().Format("15:04:05") + " ")
	}

	gap := md.width - ansi.StringWidth(left) - ansi.StringWidth(right)
	if gap < 0 {
		return ansi.Truncate(left+right, md.width, "")
	}
	return left + base.Render(strings.Repeat(" ", gap)) + right
}

// renderHelp draws the keybinding reference centered on the screen.
func (md *Model) renderHelp() string {
	keyStyle := lipgloss.NewStyle().Foreground(theme.HelpKeyBadge()).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(theme.HelpGray())
	titleStyle := lipgloss.NewStyle().Foreground(theme.StatusHighlight()).Bold(true)

	sections := config.GetKeybindings(md.keys)
	keyWidth := 0
	for _, s := range sections {
		for _, b := range s.Bindings {
			keyWidth = max(keyWidth, ansi.StringWidth(b.Key))
		}
	}

	var lines []string
	for i, s := range sections {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, titleStyle.Render(s.Title))
		for _, b := range s.Bindings {
			pad := strings.Repeat(" ", keyWidth-ansi.StringWidth(b.Key))
			lines = append(lines, keyStyle.Render(b.Key)+pad+"  "+descStyle.Render(b.Description))
		}
	}
	lines = append(lines, "", descStyle.Render("esc to close"))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.HelpBorder()).
		Padding(0, 2).
		Render(strings.Join(lines, "\n"))
	return lipgloss.Place(md.width, md.height-1, lipgloss.Center, lipgloss.Center, box)
}

// logPage is the number of log lines the viewer shows.
func (md *Model) logPage() int {
	return max(md.height-8, 3)
}

// scrollLogs moves the viewer delta lines. Negative deltas go back in time.
func (md *Model) scrollLogs(delta int) {
	maxScroll := max(len(md.logs.Messages())-md.logPage(), 0)
	md.logScroll = min(max(md.logScroll-delta, 0), maxScroll)
}

// renderLogViewer shows the most recent log entries; logScroll counts lines
// back from the newest.
func (md *Model) renderLogViewer() string {
	messages := md.logs.Messages()
	page := md.logPage()
	end := max(len(messages)-md.logScroll, 0)
	start := max(end-page, 0)

	width := max(md.width-8, 20)
	var lines []string
	lines = append(lines, lipgloss.NewStyle().Foreground(theme.LogViewerTitle()).Bold(true).Render("Logs"), "")
	if len(messages) == 0 {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.LogViewerDebug()).Render("no log messages"))
	}
	for _, msg := range messages[start:end] {
		levelColor := theme.LogViewerInfo()
		switch msg.Level {
		case "ERROR", "FATAL":
			levelColor = theme.LogViewerError()
		case "WARN":
			levelColor = theme.LogViewerWarn()
		case "DEBUG":
			levelColor = theme.LogViewerDebug()
		}
		level := lipgloss.NewStyle().Foreground(levelColor).Bold(true).Render(fmt.Sprintf("%-5s", msg.Level))
		line := fmt.Sprintf("%s %s %s", msg.Time.Format("15:04:05"), level, msg.Message)
		lines = append(lines, ansi.Truncate(line, width, "…"))
	}
	hint := "↑/↓ scroll · esc close"
	if md.logScroll > 0 {
		hint = fmt.Sprintf("%d newer · %s", md.logScroll, hint)
	}
	lines = append(lines, "", lipgloss.NewStyle().Foreground(theme.HelpGray()).Render(hint))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.HelpBorder()).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
	return lipgloss.Place(md.width, md.height-1, lipgloss.Center, lipgloss.Center, box)
}
