package input

import (
	"context"
	"io"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/Gaurav-Gosain/winshell/internal/channel"
	"github.com/Gaurav-Gosain/winshell/internal/config"
	"github.com/Gaurav-Gosain/winshell/internal/wm"
	"github.com/charmbracelet/log"
)

type stubDisplay struct{}

func (stubDisplay) Size() (int, int)            { return 80, 24 }
func (stubDisplay) Insets() (int, int)          { return 2, 2 }
func (stubDisplay) Attach(*wm.Window) wm.Limits { return wm.Limits{} }
func (stubDisplay) Detach(*wm.Window)           {}
func (stubDisplay) Update(*wm.Window)           {}
func (stubDisplay) SetHasMaximized(bool)        {}

type pipeLauncher struct{}

func (pipeLauncher) Launch(_ context.Context, _ string, loaded func()) (channel.Channel, error) {
	host, _ := channel.NewPipe()
	loaded()
	return host, nil
}

func newManager(t *testing.T) *wm.Manager {
	t.Helper()
	return wm.New(stubDisplay{}, pipeLauncher{}, wm.WithLogger(log.New(io.Discard)))
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

// =============================================================================
// Adapter Source Tests
// =============================================================================

func TestFromMouse(t *testing.T) {
	tests := []struct {
		name   string
		msg    tea.Msg
		want   Event
		wantOK bool
	}{
		{"left press", tea.MouseClickMsg{X: 3, Y: 4, Button: tea.MouseLeft}, Event{Kind: Press, X: 3, Y: 4}, true},
		{"right press", tea.MouseClickMsg{X: 3, Y: 4, Button: tea.MouseRight}, Event{}, false},
		{"motion", tea.MouseMotionMsg{X: 5, Y: 6}, Event{Kind: Move, X: 5, Y: 6}, true},
		{"release without button", tea.MouseReleaseMsg{X: 7, Y: 8}, Event{Kind: Release, X: 7, Y: 8}, true},
		{"release left", tea.MouseReleaseMsg{X: 7, Y: 8, Button: tea.MouseLeft}, Event{Kind: Release, X: 7, Y: 8}, true},
		{"release middle", tea.MouseReleaseMsg{Button: tea.MouseMiddle}, Event{}, false},
		{"key", tea.KeyPressMsg{Code: 'a', Text: "a"}, Event{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FromMouse(tt.msg)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("FromMouse() = %+v, %v; want %+v, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestFromTouch(t *testing.T) {
	first := []Touch{{ID: 1, X: 10, Y: 2}, {ID: 2, X: 50, Y: 9}}
	tests := []struct {
		name   string
		ev     TouchEvent
		want   Event
		wantOK bool
	}{
		{"start", TouchEvent{Phase: TouchStart, Touches: first}, Event{Kind: Press, X: 10, Y: 2}, true},
		{"move", TouchEvent{Phase: TouchMove, Touches: first}, Event{Kind: Move, X: 10, Y: 2}, true},
		{"end", TouchEvent{Phase: TouchEnd, Touches: first}, Event{Kind: Release, X: 10, Y: 2}, true},
		{"cancel", TouchEvent{Phase: TouchCancel, Touches: first}, Event{Kind: Release, X: 10, Y: 2}, true},
		{"no touches", TouchEvent{Phase: TouchStart}, Event{}, false},
		{"unknown phase", TouchEvent{Phase: "hover", Touches: first}, Event{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FromTouch(tt.ev)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("FromTouch() = %+v, %v; want %+v, %v", got, ok, tt.want, tt.wantOK)
			}
			if err := tt.ev.Validate(); (err == nil) != tt.wantOK {
				t.Errorf("Validate() = %v, want ok=%v", err, tt.wantOK)
			}
		})
	}
}

// =============================================================================
// Adapter Tests
// =============================================================================

func TestAdapterDrag(t *testing.T) {
	m := newManager(t)
	w := m.AddWindow("app:about", nil) // (2,1) 40x12
	a := NewAdapter(m)

	if !a.Handle(Event{Kind: Press, X: 10, Y: 1}) {
		t.Fatal("titlebar press should be consumed")
	}
	if k, _ := m.Interaction(); k != wm.Dragging {
		t.Fatalf("interaction = %v, want dragging", k)
	}
	if !a.Handle(Event{Kind: Move, X: 15, Y: 3}) {
		t.Error("move during a drag should be consumed")
	}
	if w.Rect.Left != 7 || w.Rect.Top != 3 {
		t.Errorf("position = (%d,%d), want (7,3)", w.Rect.Left, w.Rect.Top)
	}
	if !a.Handle(Event{Kind: Release, X: 15, Y: 3}) {
		t.Error("release ending a drag should be consumed")
	}
	if a.Handle(Event{Kind: Move, X: 20, Y: 3}) {
		t.Error("move while idle belongs to the content")
	}
	if a.Handle(Event{Kind: Release, X: 20, Y: 3}) {
		t.Error("release while idle belongs to the content")
	}
}

func TestAdapterPassesContentAndEmptyPresses(t *testing.T) {
	m := newManager(t)
	a := m.AddWindow("app:a", nil) // (2,1)
	m.AddWindow("app:b", nil)      // (6,3)
	ad := NewAdapter(m)

	if ad.Handle(Event{Kind: Press, X: 70, Y: 20}) {
		t.Error("press on the empty display is not consumed")
	}
	if ad.Handle(Event{Kind: Press, X: 4, Y: 2}) {
		t.Error("content press is not consumed")
	}
	if m.Focused() != a {
		t.Error("content press still focuses its window")
	}
}

func TestAdapterDoubleClickTogglesMaximize(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	m := newManager(t)
	w := m.AddWindow("app:a", nil)
	a := NewAdapter(m, WithClock(clock.now))

	// The titlebar moves to the top row while maximized.
	click := func() {
		y := w.Rect.Top
		a.Handle(Event{Kind: Press, X: 10, Y: y})
		a.Handle(Event{Kind: Release, X: 10, Y: y})
	}

	click()
	clock.advance(100 * time.Millisecond)
	click()
	if !w.Maximized() {
		t.Fatal("double click should maximize")
	}

	clock.advance(time.Second)
	click()
	if !w.Maximized() {
		t.Fatal("a single click keeps the window maximized")
	}
	clock.advance(100 * time.Millisecond)
	click()
	if w.Maximized() {
		t.Error("double click should restore")
	}

	clock.advance(time.Second)
	click()
	clock.advance(time.Duration(config.DefaultConfig().Behavior.DoubleClickMS+1) * time.Millisecond)
	click()
	if w.Maximized() {
		t.Error("clicks further apart than the interval are not a double click")
	}
}

// =============================================================================
// Action Tests
// =============================================================================

func TestHandleKey(t *testing.T) {
	m := newManager(t)
	a := m.AddWindow("app:a", nil)
	b := m.AddWindow("app:b", nil)
	reg := config.NewKeybindRegistry(config.DefaultConfig())
	d := NewActionDispatcher()

	action, handled := HandleKey(tea.KeyPressMsg{Code: 'f', Mod: tea.ModAlt}, reg, d, m)
	if action != "toggle_maximize" || !handled || !b.Maximized() {
		t.Errorf("alt+f = %q/%v, maximized=%v", action, handled, b.Maximized())
	}

	action, handled = HandleKey(tea.KeyPressMsg{Code: 'j', Mod: tea.ModAlt}, reg, d, m)
	if action != "next_window" || !handled || m.Focused() != a {
		t.Errorf("alt+j = %q/%v, focused=%v", action, handled, m.Focused())
	}

	action, handled = HandleKey(tea.KeyPressMsg{Code: '?', Mod: tea.ModAlt}, reg, d, m)
	if action != "toggle_help" || handled {
		t.Errorf("alt+? = %q/%v, want toggle_help left to the display", action, handled)
	}

	if action, handled = HandleKey(tea.KeyPressMsg{Code: 'z', Text: "z"}, reg, d, m); action != "" || handled {
		t.Errorf("unbound key = %q/%v", action, handled)
	}
}

func TestActionsWithoutFocus(t *testing.T) {
	m := newManager(t)
	d := NewActionDispatcher()
	for _, action := range []string{"close_window", "force_close", "minimize_window", "toggle_maximize", "snap_left", "snap_right", "restore_all", "next_window", "prev_window"} {
		if !d.Dispatch(action, m) {
			t.Errorf("%s has no handler", action)
		}
	}
}
