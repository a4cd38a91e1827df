package ui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/Gaurav-Gosain/winshell/internal/apps"
	"github.com/Gaurav-Gosain/winshell/internal/config"
	"github.com/Gaurav-Gosain/winshell/internal/theme"
	"github.com/Gaurav-Gosain/winshell/internal/wm"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/x/ansi"
)

var fixedNow = time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)

func newModel(t *testing.T) *Model {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	cfg := config.DefaultConfig()
	md := New(ctx, wm.NewLoop(), apps.NewLauncher(apps.Default(), nil), cfg,
		WithClock(func() time.Time { return fixedNow }),
	)
	md.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return md
}

// settle feeds posted manager work through Update until cond holds.
func settle(t *testing.T, md *Model, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not reached")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		batch, err := md.loop.Wait(ctx)
		cancel()
		if err == nil {
			md.Update(workMsg(batch))
		}
	}
}

func (md *Model) open(t *testing.T, name string) *wm.Window {
	t.Helper()
	w := md.m.AddWindow(apps.URL(name), nil)
	settle(t, md, w.Loaded)
	return w
}

func screenText(md *Model) string {
	return ansi.Strip(md.Render())
}

func press(key rune, mod tea.KeyMod) tea.KeyPressMsg {
	msg := tea.KeyPressMsg{Code: key, Mod: mod}
	if mod == 0 {
		msg.Text = string(key)
	}
	return msg
}

// =============================================================================
// Chrome Tests
// =============================================================================

func TestTitleBarButtonsMatchHitTest(t *testing.T) {
	w := &wm.Window{Title: "Notes", Icon: "✎", Rect: wm.Rect{Left: 0, Top: 0, Width: 30, Height: 10}}
	row := []rune(ansi.Strip(titleBar(w, theme.BorderUnfocused())))
	if len(row) != 30 {
		t.Fatalf("title bar is %d columns, want 30: %q", len(row), string(row))
	}

	tests := []struct {
		handle wm.Handle
		want   string
	}{
		{wm.HandleMinimize, buttonMinimize},
		{wm.HandleMaximize, buttonMaximize},
		{wm.HandleClose, buttonClose},
	}
	for _, tt := range tests {
		from, to, ok := wm.ButtonSpan(w.Rect, tt.handle)
		if !ok {
			t.Fatalf("no span for %v", tt.handle)
		}
		if got := string(row[from : to+1]); got != tt.want {
			t.Errorf("%v columns %d-%d = %q, want %q", tt.handle, from, to, got, tt.want)
		}
	}
	if !strings.Contains(string(row), "✎ Notes") {
		t.Errorf("title bar %q lacks the label", string(row))
	}
}

func TestTitleBarTruncatesLongTitles(t *testing.T) {
	w := &wm.Window{Title: strings.Repeat("x", 80), Rect: wm.Rect{Width: 20, Height: 5}}
	if got := ansi.StringWidth(titleBar(w, theme.BorderUnfocused())); got != 20 {
		t.Errorf("width = %d, want 20", got)
	}
}

func TestFrameBody(t *testing.T) {
	body := ansi.Strip(frameBody("hello world\nsecond", 5, 3, theme.BorderUnfocused()))
	want := "│hello│\n│secon│\n│     │\n╰─────╯"
	if body != want {
		t.Errorf("frame =\n%s\nwant\n%s", body, want)
	}
}

func TestClipWindowContent(t *testing.T) {
	content := "abcd\nefgh\nijkl"
	tests := []struct {
		name         string
		x, y         int
		want         string
		wantX, wantY int
	}{
		{"inside", 1, 1, "abcd\nefgh\nijkl", 1, 1},
		{"left edge", -2, 0, "cd\ngh\nkl", 0, 0},
		{"top edge", 0, -1, "efgh\nijkl", 0, 0},
		{"right edge", 8, 0, "ab\nef\nij", 8, 0},
		{"bottom edge", 0, 4, "abcd", 0, 4},
		{"off right", 10, 0, "", 0, 0},
		{"off top", 0, -3, "", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, x, y := clipWindowContent(content, tt.x, tt.y, 10, 5)
			if got != tt.want || (got != "" && (x != tt.wantX || y != tt.wantY)) {
				t.Errorf("clip = %q at %d,%d; want %q at %d,%d", got, x, y, tt.want, tt.wantX, tt.wantY)
			}
		})
	}
}

// =============================================================================
// Model Tests
// =============================================================================

func TestDisplaySizeReservesStatusBar(t *testing.T) {
	md := newModel(t)
	w := md.open(t, "about")
	md.m.MaximizeWindow(w)
	if w.Rect != (wm.Rect{Left: 0, Top: 0, Width: 100, Height: 29}) {
		t.Errorf("maximized rect = %+v", w.Rect)
	}

	md.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	if w.Rect != (wm.Rect{Left: 0, Top: 0, Width: 60, Height: 19}) {
		t.Errorf("rect after resize = %+v", w.Rect)
	}
	if !md.hasMaximized {
		t.Error("status bar did not get the maximized marker")
	}
}

func TestRenderWindowsAndStatusBar(t *testing.T) {
	md := newModel(t)
	md.open(t, "about")

	text := screenText(md)
	for _, want := range []string{"About", "winshell", "15:04:05"} {
		if !strings.Contains(text, want) {
			t.Errorf("screen lacks %q:\n%s", want, text)
		}
	}
	if lines := strings.Split(text, "\n"); len(lines) != 30 {
		t.Errorf("screen has %d rows, want 30", len(lines))
	}
}

func TestMinimizedWindowsAreHidden(t *testing.T) {
	md := newModel(t)
	w := md.open(t, "about")
	md.m.MinimizeWindow(w)

	text := screenText(md)
	if strings.Contains(text, "About") {
		t.Error("minimized window is still drawn")
	}
	if !strings.Contains(text, "1 minimized") {
		t.Errorf("status bar lacks the minimized count:\n%s", text)
	}
}

func TestKeyActions(t *testing.T) {
	md := newModel(t)

	md.Update(press('n', tea.ModAlt))
	if got := len(md.m.Windows()); got != 1 || md.m.Windows()[0].URL != apps.URL("launcher") {
		t.Fatalf("alt+n opened %d windows", got)
	}
	w := md.m.Windows()[0]

	md.Update(press('f', tea.ModAlt))
	if !w.Maximized() {
		t.Error("alt+f did not maximize the focused window")
	}

	md.Update(press('g', tea.ModAlt))
	if !md.showLogs || !strings.Contains(screenText(md), "Logs") {
		t.Error("alt+g did not open the log viewer")
	}
	md.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if md.showLogs {
		t.Error("esc did not close the log viewer")
	}

	_, cmd := md.Update(press('q', tea.ModCtrl))
	if cmd == nil {
		t.Fatal("ctrl+q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+q did not quit")
	}
}

func TestKeysReachFocusedWindow(t *testing.T) {
	md := newModel(t)
	md.open(t, "notes")

	for _, r := range "hi" {
		md.Update(press(r, 0))
	}
	md.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	if !strings.Contains(screenText(md), "│hi") {
		t.Errorf("typed text not shown:\n%s", screenText(md))
	}
}

func TestMouseCloseButton(t *testing.T) {
	md := newModel(t)
	w := md.open(t, "about")

	from, _, _ := wm.ButtonSpan(w.Rect, wm.HandleClose)
	md.Update(tea.MouseClickMsg{X: from + 1, Y: w.Rect.Top, Button: tea.MouseLeft})
	md.Update(tea.MouseReleaseMsg{X: from + 1, Y: w.Rect.Top, Button: tea.MouseLeft})

	if md.m.Managed(w) {
		t.Error("clicking the close button left the window open")
	}
}

func TestMouseDrag(t *testing.T) {
	md := newModel(t)
	w := md.open(t, "about")
	start := w.Rect

	md.Update(tea.MouseClickMsg{X: start.Left + 1, Y: start.Top, Button: tea.MouseLeft})
	md.Update(tea.MouseMotionMsg{X: start.Left + 6, Y: start.Top + 3, Button: tea.MouseLeft})
	if kind, _ := md.m.Interaction(); kind != wm.Dragging {
		t.Fatalf("interaction = %v, want dragging", kind)
	}
	md.Update(tea.MouseReleaseMsg{X: start.Left + 6, Y: start.Top + 3})

	if w.Rect.Left != start.Left+5 || w.Rect.Top != start.Top+3 {
		t.Errorf("window at %d,%d, want %d,%d", w.Rect.Left, w.Rect.Top, start.Left+5, start.Top+3)
	}
}

func TestWorkPump(t *testing.T) {
	md := newModel(t)
	ran := false
	md.loop.Post(func() { ran = true })

	msg := md.waitWork()()
	if _, ok := msg.(workMsg); !ok {
		t.Fatalf("waitWork returned %T", msg)
	}
	if _, cmd := md.Update(msg); cmd == nil || !ran {
		t.Errorf("work ran = %v, next wait = %v", ran, cmd != nil)
	}
}

func TestSetConfig(t *testing.T) {
	md := newModel(t)
	cfg := config.DefaultConfig()
	cfg.Appearance.ShowClock = false
	cfg.Keybindings["new_window"] = []string{"alt+o"}
	md.SetConfig(cfg)

	if strings.Contains(screenText(md), "15:04:05") {
		t.Error("clock still shown")
	}
	md.Update(press('o', tea.ModAlt))
	if len(md.m.Windows()) != 1 {
		t.Error("rebound key did not open a window")
	}
}

func TestConfiguredWindowLimits(t *testing.T) {
	md := newModel(t)
	cfg := config.DefaultConfig()
	cfg.Limits.Windows = map[string]config.WindowLimits{
		apps.URL("notes"): {MinW: 30, MaxW: 45},
	}
	md.SetConfig(cfg)

	notes := md.open(t, "notes")
	about := md.open(t, "about")
	if want := (wm.Limits{MinW: 30, MaxW: 45}); notes.Limits != want {
		t.Errorf("notes limits = %+v, want %+v", notes.Limits, want)
	}
	if about.Limits != (wm.Limits{}) {
		t.Errorf("about limits = %+v, want none", about.Limits)
	}

	p := wm.Point{X: notes.Rect.Right() - 1, Y: notes.Rect.Bottom() - 1}
	md.m.PointerDown(notes, wm.HandleResize, p)
	md.m.PointerMove(wm.Point{X: p.X + 60, Y: p.Y})
	md.m.PointerUp()
	if notes.Rect.Width != 45 {
		t.Errorf("notes width = %d after growing, want the configured 45", notes.Rect.Width)
	}
}

// =============================================================================
// Log Buffer Tests
// =============================================================================

func TestLogBuffer(t *testing.T) {
	b := NewLogBuffer()
	logger := b.Logger("wm", log.DebugLevel)
	logger.Warn("window lost", "id", "w1", "z", 3)
	logger.Debug("noise")

	got := b.Messages()
	if len(got) != 2 {
		t.Fatalf("captured %d messages, want 2", len(got))
	}
	if got[0].Level != "WARN" || got[0].Message != "wm: window lost id=w1 z=3" {
		t.Errorf("first message = %+v", got[0])
	}
	if got[1].Level != "DEBUG" {
		t.Errorf("second level = %q", got[1].Level)
	}
}

func TestLogBufferKeepsTail(t *testing.T) {
	b := NewLogBuffer()
	for range MaxLogMessages + 10 {
		_, _ = b.Write([]byte("plain line\n"))
	}
	if got := len(b.Messages()); got != MaxLogMessages {
		t.Errorf("kept %d messages, want %d", got, MaxLogMessages)
	}
}
