package launch

import (
	"sync"

	"github.com/Gaurav-Gosain/winshell/internal/channel"
	"github.com/Gaurav-Gosain/winshell/internal/protocol"
)

// State is the connection state of a remote child.
type State int

const (
	StateConnecting State = iota
	StateConnected
	StateFailed
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateFailed:
		return "failed"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// Remote is the channel of a window whose content lives in another process.
// It stands in for the transport until the connection is up, queueing what
// the host sends meanwhile.
type Remote struct {
	url string

	mu      sync.Mutex
	state   State
	ch      channel.Channel
	pending []protocol.Message
	handler channel.Handler
	err     error
}

func newRemote(url string) *Remote {
	return &Remote{url: url}
}

// Send implements channel.Channel.
func (r *Remote) Send(msg protocol.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch r.state {
	case StateConnecting:
		r.pending = append(r.pending, msg)
		return nil
	case StateConnected:
		return r.ch.Send(msg)
	case StateFailed:
		return r.err
	}
	return channel.ErrClosed
}

// Listen implements channel.Channel. The handler sees the Remote as the
// receiving end.
func (r *Remote) Listen(h channel.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handler = h
	if r.ch != nil {
		r.ch.Listen(r.wrap(h))
	}
}

func (r *Remote) wrap(h channel.Handler) channel.Handler {
	if h == nil {
		return nil
	}
	return func(_ channel.Channel, msg protocol.Message) { h(r, msg) }
}

// Close implements channel.Channel.
func (r *Remote) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev := r.state
	r.state = StateClosed
	r.pending = nil
	if prev == StateConnected {
		return r.ch.Close()
	}
	return nil
}

// State returns the connection state and, after a failure, its cause.
func (r *Remote) State() (State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state, r.err
}

func (r *Remote) String() string { return r.url }

// connect installs the established transport and flushes the queue. It
// reports false, closing ch, when the window went away meanwhile.
func (r *Remote) connect(ch channel.Channel) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateConnecting {
		ch.Close()
		return false
	}
	r.ch = ch
	r.state = StateConnected
	if r.handler != nil {
		ch.Listen(r.wrap(r.handler))
	}

	for _, msg := range r.pending {
		if err := ch.Send(msg); err != nil {
			break
		}
	}
	r.pending = nil
	return true
}

func (r *Remote) fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateConnecting {
		return
	}
	r.state = StateFailed
	r.err = err
	r.pending = nil
}
