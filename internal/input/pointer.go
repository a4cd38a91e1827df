// Package input turns mouse, touch and key input into window manager
// operations.
package input

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/Gaurav-Gosain/winshell/internal/wm"
)

// Kind is the phase of a pointer event.
type Kind int

const (
	Press Kind = iota
	Move
	Release
)

func (k Kind) String() string {
	switch k {
	case Press:
		return "press"
	case Move:
		return "move"
	case Release:
		return "release"
	}
	return "unknown"
}

// Event is a device independent pointer event in display coordinates.
type Event struct {
	Kind Kind
	X, Y int
}

// Point returns the event position.
func (e Event) Point() wm.Point { return wm.Point{X: e.X, Y: e.Y} }

// FromMouse adapts a bubbletea mouse message. Only the primary button
// presses and releases; ok is false for everything else.
func FromMouse(msg tea.Msg) (ev Event, ok bool) {
	switch msg := msg.(type) {
	case tea.MouseClickMsg:
		m := msg.Mouse()
		if m.Button != tea.MouseLeft {
			return Event{}, false
		}
		return Event{Kind: Press, X: m.X, Y: m.Y}, true
	case tea.MouseMotionMsg:
		m := msg.Mouse()
		return Event{Kind: Move, X: m.X, Y: m.Y}, true
	case tea.MouseReleaseMsg:
		// Many terminals do not report which button was released.
		m := msg.Mouse()
		if m.Button != tea.MouseLeft && m.Button != tea.MouseNone {
			return Event{}, false
		}
		return Event{Kind: Release, X: m.X, Y: m.Y}, true
	}
	return Event{}, false
}

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithClock replaces time.Now for double click detection.
func WithClock(now func() time.Time) AdapterOption {
	return func(a *Adapter) { a.now = now }
}

// Adapter feeds pointer events to a window manager: it hit tests presses,
// drives the interaction state machine and turns a titlebar double click
// into a maximize toggle.
type Adapter struct {
	m   *wm.Manager
	now func() time.Time

	lastClick    time.Time
	lastClickWin *wm.Window
}

// NewAdapter returns an adapter for m.
func NewAdapter(m *wm.Manager, opts ...AdapterOption) *Adapter {
	a := &Adapter{m: m, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Handle applies ev. It reports whether the window manager consumed the
// event; false means it belongs to the content under the pointer, or to
// nothing at all.
func (a *Adapter) Handle(ev Event) bool {
	p := ev.Point()
	switch ev.Kind {
	case Press:
		w, h := a.m.HitTest(p)
		if w == nil {
			return false
		}
		if h == wm.HandleDrag && a.doubleClick(w) {
			a.m.FocusWindow(w)
			a.m.ToggleMaximize(w)
			return true
		}
		a.m.PointerDown(w, h, p)
		return h != wm.HandleContent

	case Move:
		if k, _ := a.m.Interaction(); k == wm.Idle {
			return false
		}
		a.m.PointerMove(p)
		return true

	case Release:
		if k, _ := a.m.Interaction(); k == wm.Idle {
			return false
		}
		a.m.PointerUp()
		return true
	}
	return false
}

// doubleClick records a titlebar press on w and reports whether it completes
// a double click.
func (a *Adapter) doubleClick(w *wm.Window) bool {
	now := a.now()
	interval := time.Duration(a.m.Config().Behavior.DoubleClickMS) * time.Millisecond
	if a.lastClickWin == w && now.Sub(a.lastClick) <= interval {
		a.lastClickWin = nil
		return true
	}
	a.lastClick = now
	a.lastClickWin = w
	return false
}
