package channel

import (
	"sync/atomic"

	"github.com/Gaurav-Gosain/winshell/internal/protocol"
)

// Endpoint is one side of an in-memory pipe.
type Endpoint struct {
	name   string
	peer   *Endpoint
	inbox  *queue
	closed atomic.Bool
}

// NewPipe returns the two connected ends of an in-memory channel.
func NewPipe() (host, child *Endpoint) {
	host = &Endpoint{name: "host"}
	child = &Endpoint{name: "child"}
	host.peer, child.peer = child, host
	host.inbox = newQueue(nil)
	child.inbox = newQueue(nil)
	return host, child
}

// Send implements Channel.
func (e *Endpoint) Send(msg protocol.Message) error {
	if e.closed.Load() || e.peer.closed.Load() {
		return ErrClosed
	}
	return e.peer.inbox.push(msg)
}

// Listen implements Channel.
func (e *Endpoint) Listen(h Handler) {
	if h == nil {
		e.inbox.setDeliver(nil)
		return
	}
	e.inbox.setDeliver(func(msg protocol.Message) { h(e, msg) })
}

// Close implements Channel. Closing either end makes both unusable for
// sending.
func (e *Endpoint) Close() error {
	if e.closed.Swap(true) {
		return nil
	}
	e.inbox.close()
	return nil
}

// Closed reports whether this end, or its peer, was closed.
func (e *Endpoint) Closed() bool {
	return e.closed.Load() || e.peer.closed.Load()
}

func (e *Endpoint) String() string { return "pipe:" + e.name }
