package wm

import (
	"slices"

	"github.com/Gaurav-Gosain/winshell/internal/protocol"
)

// Side selects a display half for snapping.
type Side int

const (
	SideLeft Side = iota
	SideRight
)

// FocusWindow raises w and gives it focus. A nil w focuses the topmost
// visible window. Minimized windows never take focus.
func (m *Manager) FocusWindow(w *Window) {
	if w == nil {
		w = m.topmostVisible()
	}
	if w == nil || !m.Managed(w) || w.minimized || w.focused {
		return
	}
	m.log.Debug("focus window", "window", w)

	for _, o := range m.windows {
		o.focused = false
		o.pointerRouted = false
	}
	w.focused = true
	w.pointerRouted = m.state == nil
	m.focused = w

	i := slices.Index(m.windows, w)
	m.windows = append(slices.Delete(m.windows, i, i+1), w)
	m.restack()

	m.events.Emit(WindowFocused{Window: w})
}

// FocusNext raises the bottom-most visible window, cycling through all
// visible windows on repeated calls.
func (m *Manager) FocusNext() {
	for _, w := range m.windows {
		if !w.minimized && !w.focused {
			m.FocusWindow(w)
			return
		}
	}
}

// FocusPrev lowers the focused window to the bottom and focuses the window
// that was below it.
func (m *Manager) FocusPrev() {
	cur := m.focused
	if cur == nil {
		m.FocusWindow(nil)
		return
	}
	var below *Window
	for i := len(m.windows) - 1; i >= 0; i-- {
		if w := m.windows[i]; w != cur && !w.minimized {
			below = w
			break
		}
	}
	if below == nil {
		return
	}
	i := slices.Index(m.windows, cur)
	m.windows = append([]*Window{cur}, slices.Delete(m.windows, i, i+1)...)
	m.FocusWindow(below)
}

// MinimizeWindow hides w. If w held focus, the topmost visible window takes
// it over.
func (m *Manager) MinimizeWindow(w *Window) {
	if !m.Managed(w) || w.minimized {
		return
	}
	m.log.Debug("minimize window", "window", w)

	m.cancelInteraction(w)
	wasFocused := w.focused
	w.minimized = true
	w.focused = false
	w.pointerRouted = false
	if m.focused == w {
		m.focused = nil
	}
	m.display.Update(w)

	if wasFocused {
		m.FocusWindow(nil)
	}
	m.updateHasMaximized()
	m.events.Emit(WindowMinimized{Window: w})
}

// UnminimizeWindow shows w again in the placement it had and focuses it.
func (m *Manager) UnminimizeWindow(w *Window) {
	if !m.Managed(w) || !w.minimized {
		return
	}
	m.log.Debug("unminimize window", "window", w)

	w.minimized = false
	m.display.Update(w)
	m.FocusWindow(w)
	m.updateHasMaximized()
	m.events.Emit(WindowUnminimized{Window: w})
}

// UnminimizeAll shows every minimized window, bottom first.
func (m *Manager) UnminimizeAll() {
	for _, w := range m.Windows() {
		if w.minimized {
			m.UnminimizeWindow(w)
		}
	}
}

// MaximizeWindow makes w fill the display. It is a no-op for windows with a
// fixed size or position and for windows that are already maximized.
func (m *Manager) MaximizeWindow(w *Window) {
	m.maximize(w, ModeMaximized)
}

func (m *Manager) maximize(w *Window, mode Mode) bool {
	if !m.Managed(w) || !w.canMaximize() || w.mode.Maximized() {
		return false
	}
	m.log.Debug("maximize window", "window", w, "mode", mode)
	m.cancelInteraction(w)

	dw, _ := m.display.Size()
	w.restore = w.Rect
	w.mode = mode
	w.Rect = m.modeRect(mode)

	switch mode {
	case ModeSnappedLeft:
		w.restore.Left = 0
	case ModeSnappedRight:
		w.restore.Left = dw - w.restore.Width
	}

	m.display.Update(w)
	m.updateHasMaximized()
	m.events.Emit(WindowMaximized{Window: w})
	return true
}

// modeRect is the frame of a window in a maximized mode.
func (m *Manager) modeRect(mode Mode) Rect {
	dw, dh := m.display.Size()
	r := Rect{Left: 0, Top: 0, Width: dw, Height: dh}
	switch mode {
	case ModeSnappedLeft:
		r.Width = dw / 2
	case ModeSnappedRight:
		r.Left = dw / 2
		r.Width = dw - dw/2
	}
	return r
}

// Relayout refits maximized and snapped windows after the display changed
// size. Normal windows keep their frames.
func (m *Manager) Relayout() {
	for _, w := range m.windows {
		if !w.mode.Maximized() {
			continue
		}
		r := m.modeRect(w.mode)
		if r == w.Rect {
			continue
		}
		delta := Point{r.Width - w.Rect.Width, r.Height - w.Rect.Height}
		w.Rect = r
		m.display.Update(w)
		m.events.Emit(WindowResized{Window: w, Delta: delta})
	}
}

// RestoreWindow returns a maximized or snapped window to its saved geometry.
func (m *Manager) RestoreWindow(w *Window) {
	if !m.Managed(w) || !w.mode.Maximized() {
		return
	}
	m.log.Debug("restore window", "window", w)
	m.cancelInteraction(w)

	w.Rect = w.restore
	w.restore = Rect{}
	w.mode = ModeNormal

	m.display.Update(w)
	m.updateHasMaximized()
	m.events.Emit(WindowRestored{Window: w})
}

// ToggleMaximize restores a maximized window and maximizes any other.
func (m *Manager) ToggleMaximize(w *Window) {
	if w == nil {
		return
	}
	if w.mode.Maximized() {
		m.RestoreWindow(w)
	} else {
		m.MaximizeWindow(w)
	}
}

// SnapWindow pins w to one half of the display. Snapping to the side w is
// already on restores it.
func (m *Manager) SnapWindow(w *Window, side Side) {
	if !m.Managed(w) || !w.canMaximize() {
		return
	}
	mode := ModeSnappedLeft
	if side == SideRight {
		mode = ModeSnappedRight
	}
	if w.mode == mode {
		m.RestoreWindow(w)
		return
	}
	m.RestoreWindow(w)
	m.maximize(w, mode)
}

// RemoveWindow closes w. A window that asked for close confirmation is only
// sent a close_confirm request unless force is set.
func (m *Manager) RemoveWindow(w *Window, force bool) {
	if !m.Managed(w) {
		return
	}
	if w.CloseConfirm && !force {
		m.log.Debug("requesting close confirmation", "window", w)
		m.send(w, protocol.CloseConfirm())
		return
	}
	m.log.Debug("remove window", "window", w, "force", force)

	m.cancelInteraction(w)
	i := slices.Index(m.windows, w)
	m.windows = slices.Delete(m.windows, i, i+1)
	delete(m.byChannel, w.ch)
	if err := w.ch.Close(); err != nil {
		m.log.Debug("closing channel", "window", w, "err", err)
	}
	m.display.Detach(w)

	// Dialogs opened by w can no longer return to it.
	for _, o := range m.windows {
		if o.parent == w {
			o.parent = nil
		}
	}

	wasFocused := w.focused
	w.focused = false
	w.pointerRouted = false
	if m.focused == w {
		m.focused = nil
	}
	m.restack()
	if wasFocused {
		m.FocusWindow(nil)
	}

	m.updateHasMaximized()
	m.events.Emit(WindowRemoved{Window: w})
}

// topmostVisible returns the last window that is not minimized.
func (m *Manager) topmostVisible() *Window {
	for i := len(m.windows) - 1; i >= 0; i-- {
		if !m.windows[i].minimized {
			return m.windows[i]
		}
	}
	return nil
}

// restack assigns paint order from list position and pushes it to the
// display.
func (m *Manager) restack() {
	for i, w := range m.windows {
		w.Z = zBase + i*zStep
		m.display.Update(w)
	}
}

// updateHasMaximized recomputes the display-wide maximized marker and reports
// edges only. Snapped windows do not count.
func (m *Manager) updateHasMaximized() {
	has := false
	for _, w := range m.windows {
		if w.mode == ModeMaximized && !w.minimized {
			has = true
			break
		}
	}
	if has == m.hasMaximized {
		return
	}
	m.hasMaximized = has
	m.display.SetHasMaximized(has)
	m.events.Emit(HasMaximizedChanged{HasMaximized: has})
}
