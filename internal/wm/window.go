package wm

import (
	"encoding/json"
	"fmt"

	"github.com/Gaurav-Gosain/winshell/internal/channel"
)

// Mode is the placement mode of a window.
type Mode int

const (
	ModeNormal Mode = iota
	ModeMaximized
	ModeSnappedLeft
	ModeSnappedRight
)

// Maximized reports whether the mode fills (part of) the display. Snapped
// windows are maximized windows pinned to one half.
func (m Mode) Maximized() bool { return m != ModeNormal }

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeMaximized:
		return "maximized"
	case ModeSnappedLeft:
		return "snapped-left"
	case ModeSnappedRight:
		return "snapped-right"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Window is a managed frame hosting one child surface.
//
// Exported fields are owned by the Manager. Displays and event handlers may
// read them but must go through the Manager to change them.
type Window struct {
	ID    string
	URL   string
	Title string
	Icon  string
	Rect  Rect
	// Z is the paint order, derived from the position in the window list.
	Z int
	// Limits are the size overrides reported by the display on attach.
	Limits Limits

	FixedPosition bool
	FixedSize     bool
	CloseConfirm  bool
	Disabled      bool

	mode          Mode
	restore       Rect
	minimized     bool
	focused       bool
	pointerRouted bool
	loaded        bool

	parent *Window
	depth  int
	arg    json.RawMessage
	ch     channel.Channel
}

// Mode returns the placement mode.
func (w *Window) Mode() Mode { return w.mode }

// Maximized reports whether the window is maximized or snapped.
func (w *Window) Maximized() bool { return w.mode.Maximized() }

// RestoreRect returns the geometry the window returns to on restore. ok is
// false while the window is in normal mode.
func (w *Window) RestoreRect() (Rect, bool) {
	if w.mode == ModeNormal {
		return Rect{}, false
	}
	return w.restore, true
}

// Minimized reports whether the window is hidden.
func (w *Window) Minimized() bool { return w.minimized }

// Focused reports whether the window holds focus.
func (w *Window) Focused() bool { return w.focused }

// Visible reports whether the window is shown.
func (w *Window) Visible() bool { return !w.minimized }

// PointerRouted reports whether the content surface receives pointer input.
func (w *Window) PointerRouted() bool { return w.pointerRouted }

// Loaded reports whether the content finished loading.
func (w *Window) Loaded() bool { return w.loaded }

// Parent returns the window that requested this one, if any.
func (w *Window) Parent() *Window { return w.parent }

// Depth returns the dialog nesting depth. Top-level windows have depth 0.
func (w *Window) Depth() int { return w.depth }

// Arg returns the launch argument.
func (w *Window) Arg() json.RawMessage { return w.arg }

// Channel returns the content channel.
func (w *Window) Channel() channel.Channel { return w.ch }

// canMaximize reports whether the capability flags allow maximizing.
func (w *Window) canMaximize() bool { return !w.FixedSize && !w.FixedPosition }

func (w *Window) String() string {
	if len(w.ID) > 8 {
		return w.ID[:8]
	}
	return w.ID
}
