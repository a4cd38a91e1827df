package input

import (
	tea "charm.land/bubbletea/v2"
	"github.com/Gaurav-Gosain/winshell/internal/config"
	"github.com/Gaurav-Gosain/winshell/internal/wm"
)

// ActionHandler runs a keybinding action against the window manager.
type ActionHandler func(m *wm.Manager)

// ActionDispatcher maps action names to handler functions. Actions without a
// handler (new_window, toggle_help, toggle_log, quit) belong to the display.
type ActionDispatcher struct {
	handlers map[string]ActionHandler
}

// NewActionDispatcher creates a dispatcher with all window actions
// registered.
func NewActionDispatcher() *ActionDispatcher {
	d := &ActionDispatcher{
		handlers: make(map[string]ActionHandler),
	}
	d.registerHandlers()
	return d
}

func (d *ActionDispatcher) registerHandlers() {
	d.Register("close_window", onFocused(func(m *wm.Manager, w *wm.Window) { m.RemoveWindow(w, false) }))
	d.Register("force_close", onFocused(func(m *wm.Manager, w *wm.Window) { m.RemoveWindow(w, true) }))
	d.Register("minimize_window", onFocused((*wm.Manager).MinimizeWindow))
	d.Register("toggle_maximize", onFocused((*wm.Manager).ToggleMaximize))
	d.Register("snap_left", onFocused(func(m *wm.Manager, w *wm.Window) { m.SnapWindow(w, wm.SideLeft) }))
	d.Register("snap_right", onFocused(func(m *wm.Manager, w *wm.Window) { m.SnapWindow(w, wm.SideRight) }))
	d.Register("restore_all", (*wm.Manager).UnminimizeAll)
	d.Register("next_window", (*wm.Manager).FocusNext)
	d.Register("prev_window", (*wm.Manager).FocusPrev)
}

// onFocused adapts an operation on one window to the focused window. It does
// nothing when no window has focus.
func onFocused(op func(*wm.Manager, *wm.Window)) ActionHandler {
	return func(m *wm.Manager) {
		if w := m.Focused(); w != nil {
			op(m, w)
		}
	}
}

// Register registers a handler for an action.
func (d *ActionDispatcher) Register(action string, h ActionHandler) {
	d.handlers[action] = h
}

// Dispatch runs the handler for action and reports whether there was one.
func (d *ActionDispatcher) Dispatch(action string, m *wm.Manager) bool {
	h, ok := d.handlers[action]
	if !ok {
		return false
	}
	h(m)
	return true
}

// HandleKey resolves a key press through the keybinding registry and runs
// the bound window action. It returns the action name, if any, and whether
// it was handled here.
func HandleKey(msg tea.KeyPressMsg, reg *config.KeybindRegistry, d *ActionDispatcher, m *wm.Manager) (string, bool) {
	action := reg.GetAction(msg.String())
	if action == "" {
		return "", false
	}
	return action, d.Dispatch(action, m)
}
