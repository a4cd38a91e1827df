package wm

import (
	"github.com/Gaurav-Gosain/winshell/internal/protocol"
)

// EventKind identifies an event variant.
type EventKind int

const (
	KindWindowAdded EventKind = iota
	KindWindowRemoved
	KindWindowFocused
	KindWindowMinimized
	KindWindowUnminimized
	KindWindowMaximized
	KindWindowRestored
	KindWindowMoved
	KindWindowResized
	KindWindowLoaded
	KindMessageReceived
	KindHasMaximizedChanged
	KindProtocolError
	numEventKinds
)

var eventKindNames = [...]string{
	KindWindowAdded:         "win_add",
	KindWindowRemoved:       "win_remove",
	KindWindowFocused:       "win_focus",
	KindWindowMinimized:     "win_minimize",
	KindWindowUnminimized:   "win_unminimize",
	KindWindowMaximized:     "win_maximize",
	KindWindowRestored:      "win_restore",
	KindWindowMoved:         "win_move",
	KindWindowResized:       "win_resize",
	KindWindowLoaded:        "win_onload",
	KindMessageReceived:     "win_message",
	KindHasMaximizedChanged: "wm_has_maximized",
	KindProtocolError:       "protocol_error",
}

func (k EventKind) String() string {
	if k >= 0 && k < numEventKinds {
		return eventKindNames[k]
	}
	return "unknown"
}

// Event is implemented by every event variant.
type Event interface {
	Kind() EventKind
}

type (
	WindowAdded       struct{ Window *Window }
	WindowRemoved     struct{ Window *Window }
	WindowFocused     struct{ Window *Window }
	WindowMinimized   struct{ Window *Window }
	WindowUnminimized struct{ Window *Window }
	WindowMaximized   struct{ Window *Window }
	WindowRestored    struct{ Window *Window }
	WindowLoaded      struct{ Window *Window }
)

// WindowMoved is emitted for every drag step.
type WindowMoved struct {
	Window *Window
	Delta  Point
}

// WindowResized is emitted for every resize step.
type WindowResized struct {
	Window *Window
	Delta  Point
}

// MessageReceived is emitted before a child message is dispatched. A handler
// returning true consumes the message.
type MessageReceived struct {
	Window  *Window
	Message protocol.Message
}

// HasMaximizedChanged is emitted when the presence of a visible maximized
// window flips.
type HasMaximizedChanged struct {
	HasMaximized bool
}

// Reason classifies a dropped message or failed operation.
type Reason string

const (
	ReasonUnknownSender  Reason = "unknown_sender"
	ReasonUnknownCommand Reason = "unknown_command"
	ReasonNoParent       Reason = "no_parent"
	ReasonDialogDepth    Reason = "dialog_depth"
	ReasonLaunchFailed   Reason = "launch_failed"
	ReasonSendFailed     Reason = "send_failed"
)

// ProtocolError is emitted whenever a message is dropped or cannot be
// delivered. Window is nil for unknown senders.
type ProtocolError struct {
	Window  *Window
	Command protocol.Command
	Reason  Reason
	Err     error
}

func (WindowAdded) Kind() EventKind         { return KindWindowAdded }
func (WindowRemoved) Kind() EventKind       { return KindWindowRemoved }
func (WindowFocused) Kind() EventKind       { return KindWindowFocused }
func (WindowMinimized) Kind() EventKind     { return KindWindowMinimized }
func (WindowUnminimized) Kind() EventKind   { return KindWindowUnminimized }
func (WindowMaximized) Kind() EventKind     { return KindWindowMaximized }
func (WindowRestored) Kind() EventKind      { return KindWindowRestored }
func (WindowLoaded) Kind() EventKind        { return KindWindowLoaded }
func (WindowMoved) Kind() EventKind         { return KindWindowMoved }
func (WindowResized) Kind() EventKind       { return KindWindowResized }
func (MessageReceived) Kind() EventKind     { return KindMessageReceived }
func (HasMaximizedChanged) Kind() EventKind { return KindHasMaximizedChanged }
func (ProtocolError) Kind() EventKind       { return KindProtocolError }

// Handler observes events. The return value only matters for
// MessageReceived, where true stops the default handling.
type Handler func(Event) bool

// Registry dispatches events to handlers in registration order.
type Registry struct {
	byKind [numEventKinds][]Handler
	any    []Handler
}

// On registers h for one kind of event.
func (r *Registry) On(kind EventKind, h Handler) {
	if kind < 0 || kind >= numEventKinds || h == nil {
		return
	}
	r.byKind[kind] = append(r.byKind[kind], h)
}

// OnAny registers h for every event.
func (r *Registry) OnAny(h Handler) {
	if h != nil {
		r.any = append(r.any, h)
	}
}

// Emit delivers ev and reports whether any handler consumed it. Every
// handler runs even after one returns true.
func (r *Registry) Emit(ev Event) bool {
	handled := false
	for _, h := range r.any {
		if h(ev) {
			handled = true
		}
	}
	for _, h := range r.byKind[ev.Kind()] {
		if h(ev) {
			handled = true
		}
	}
	return handled
}
