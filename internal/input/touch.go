package input

import "fmt"

// TouchPhase is the phase of a touch event.
type TouchPhase string

const (
	TouchStart  TouchPhase = "start"
	TouchMove   TouchPhase = "move"
	TouchEnd    TouchPhase = "end"
	TouchCancel TouchPhase = "cancel"
)

// Touch is one contact point.
type Touch struct {
	ID int `json:"id"`
	X  int `json:"x"`
	Y  int `json:"y"`
}

// TouchEvent carries the touches that changed in one phase.
type TouchEvent struct {
	Phase   TouchPhase `json:"phase"`
	Touches []Touch    `json:"touches"`
}

// FromTouch adapts the first changed touch of ev. Ending or cancelling a
// touch releases the primary button.
func FromTouch(ev TouchEvent) (Event, bool) {
	if len(ev.Touches) == 0 {
		return Event{}, false
	}
	t := ev.Touches[0]
	switch ev.Phase {
	case TouchStart:
		return Event{Kind: Press, X: t.X, Y: t.Y}, true
	case TouchMove:
		return Event{Kind: Move, X: t.X, Y: t.Y}, true
	case TouchEnd, TouchCancel:
		return Event{Kind: Release, X: t.X, Y: t.Y}, true
	}
	return Event{}, false
}

// Validate reports a malformed touch event.
func (ev TouchEvent) Validate() error {
	switch ev.Phase {
	case TouchStart, TouchMove, TouchEnd, TouchCancel:
	default:
		return fmt.Errorf("input: unknown touch phase %q", ev.Phase)
	}
	if len(ev.Touches) == 0 {
		return fmt.Errorf("input: %s event without touches", ev.Phase)
	}
	return nil
}
