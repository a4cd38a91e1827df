package wm

import (
	"github.com/Gaurav-Gosain/winshell/internal/channel"
	"github.com/Gaurav-Gosain/winshell/internal/protocol"
)

// HandleMessage dispatches a message a child sent on from. Messages from
// unknown channels and unknown commands are logged and dropped.
func (m *Manager) HandleMessage(from channel.Channel, msg protocol.Message) {
	w, ok := m.byChannel[from]
	if !ok {
		m.log.Warn("message from unknown sender", "command", msg.Command)
		m.events.Emit(ProtocolError{Command: msg.Command, Reason: ReasonUnknownSender})
		return
	}

	if m.events.Emit(MessageReceived{Window: w, Message: msg}) {
		return
	}
	m.log.Debug("message", "window", w, "command", msg.Command)

	switch msg.Command {
	case protocol.CmdClose:
		m.RemoveWindow(w, msg.Confirm.Bool())

	case protocol.CmdDialogReturn:
		m.returnDialog(w, msg)

	case protocol.CmdMinimize:
		m.MinimizeWindow(w)

	case protocol.CmdUnminimize:
		m.UnminimizeWindow(w)

	case protocol.CmdFocus:
		m.FocusWindow(w)

	case protocol.CmdMaximize:
		m.MaximizeWindow(w)

	case protocol.CmdRestore:
		m.RestoreWindow(w)

	case protocol.CmdSetEnabled:
		w.Disabled = !msg.Enabled.Bool()
		m.display.Update(w)

	case protocol.CmdSetFixedPosition:
		w.FixedPosition = msg.Fixed.Bool()
		m.display.Update(w)

	case protocol.CmdSetFixedSize:
		w.FixedSize = msg.Fixed.Bool()
		m.display.Update(w)

	case protocol.CmdSetConfirm:
		w.CloseConfirm = msg.RequiresConfirm.Bool()
		m.display.Update(w)

	case protocol.CmdAddWindow:
		m.openChild(w, msg)

	case protocol.CmdSetSize:
		m.setSize(w, msg.W, msg.H)

	case protocol.CmdSetPosition:
		m.setPosition(w, msg.X, msg.Y)

	case protocol.CmdSetTitle:
		w.Title = msg.Title
		m.display.Update(w)

	case protocol.CmdSetIcon:
		w.Icon = msg.Icon
		m.display.Update(w)

	case protocol.CmdBroadcast:
		m.broadcast(msg)

	default:
		m.log.Warn("unhandled message", "window", w, "command", msg.Command)
		m.events.Emit(ProtocolError{Window: w, Command: msg.Command, Reason: ReasonUnknownCommand})
	}
}

// returnDialog forwards a dialog result to the window that opened w.
func (m *Manager) returnDialog(w *Window, msg protocol.Message) {
	parent := w.parent
	if parent == nil || !m.Managed(parent) {
		m.log.Warn("dialog return without parent", "window", w)
		m.events.Emit(ProtocolError{Window: w, Command: msg.Command, Reason: ReasonNoParent})
		return
	}
	m.send(parent, protocol.DialogReturn(msg.Arg))
}

// openChild opens a window on behalf of w, refusing chains deeper than the
// configured dialog depth. A refused requester gets an empty dialog return
// so it does not stay disabled.
func (m *Manager) openChild(w *Window, msg protocol.Message) {
	if w.depth+1 > m.cfg.Dialogs.MaxDepth {
		m.log.Warn("dialog chain too deep", "window", w, "depth", w.depth+1, "max", m.cfg.Dialogs.MaxDepth, "url", msg.URL)
		m.events.Emit(ProtocolError{Window: w, Command: msg.Command, Reason: ReasonDialogDepth})
		m.send(w, protocol.DialogReturn(nil))
		return
	}
	m.addWindow(msg.URL, msg.Arg, w)
}

// setSize applies a child-requested size, bounded by the window limits. A
// maximized window keeps its extent and updates the size it restores to.
func (m *Manager) setSize(w *Window, width, height int) {
	lim := w.Limits.resolve(m.defaultLimits())
	width, height = lim.clampSize(width, height)
	if w.mode.Maximized() {
		w.restore.Width, w.restore.Height = width, height
		return
	}
	w.Rect.Width, w.Rect.Height = width, height
	m.display.Update(w)
}

// setPosition applies a child-requested position. A maximized window updates
// the position it restores to.
func (m *Manager) setPosition(w *Window, x, y int) {
	if w.mode.Maximized() {
		w.restore.Left, w.restore.Top = x, y
		return
	}
	w.Rect.Left, w.Rect.Top = x, y
	m.display.Update(w)
}

// broadcast relays arg to every window, the sender included.
func (m *Manager) broadcast(msg protocol.Message) {
	out := protocol.Broadcast(msg.Arg)
	for _, w := range m.Windows() {
		m.send(w, out)
	}
}
