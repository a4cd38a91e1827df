package channel

import (
	"fmt"
	"sync"

	"github.com/Gaurav-Gosain/winshell/internal/protocol"
	"github.com/nats-io/nats.go"
)

// Side selects which half of a NATS channel an endpoint plays.
type Side int

const (
	SideHost Side = iota
	SideChild
)

func (s Side) String() string {
	if s == SideChild {
		return "child"
	}
	return "host"
}

// NATS carries protocol messages over a pair of subjects derived from a base
// subject: the host publishes on <subject>.child and the child publishes on
// <subject>.host.
type NATS struct {
	nc       *nats.Conn
	subject  string
	side     Side
	sub      *nats.Subscription
	inbox    *queue
	ownsConn bool
	mu       sync.Mutex
	closed   bool
}

// DialNATS connects to a server and opens one side of the channel. The
// connection is closed together with the channel.
func DialNATS(url, subject string, side Side) (*NATS, error) {
	nc, err := nats.Connect(url, nats.Name("winshell-"+side.String()))
	if err != nil {
		return nil, fmt.Errorf("connect to nats %s: %w", url, err)
	}
	ch, err := NewNATS(nc, subject, side)
	if err != nil {
		nc.Close()
		return nil, err
	}
	ch.ownsConn = true
	return ch, nil
}

// NewNATS opens one side of the channel on an existing connection.
func NewNATS(nc *nats.Conn, subject string, side Side) (*NATS, error) {
	ch := &NATS{
		nc:      nc,
		subject: subject,
		side:    side,
		inbox:   newQueue(nil),
	}

	sub, err := nc.Subscribe(ch.inSubject(), func(m *nats.Msg) {
		msg, err := protocol.Decode(m.Data)
		if err != nil {
			logger.Warn("dropping malformed message", "subject", m.Subject, "err", err)
			return
		}
		_ = ch.inbox.push(msg)
	})
	if err != nil {
		ch.inbox.close()
		return nil, fmt.Errorf("subscribe %s: %w", ch.inSubject(), err)
	}
	ch.sub = sub
	// Make sure the server knows the subscription before the peer publishes.
	if err := nc.Flush(); err != nil {
		_ = sub.Unsubscribe()
		ch.inbox.close()
		return nil, fmt.Errorf("flush %s: %w", ch.inSubject(), err)
	}
	return ch, nil
}

func (ch *NATS) inSubject() string {
	if ch.side == SideHost {
		return ch.subject + ".host"
	}
	return ch.subject + ".child"
}

func (ch *NATS) outSubject() string {
	if ch.side == SideHost {
		return ch.subject + ".child"
	}
	return ch.subject + ".host"
}

// Send implements Channel. NATS buffers publishes per connection, so this
// does not wait for the peer.
func (ch *NATS) Send(msg protocol.Message) error {
	ch.mu.Lock()
	closed := ch.closed
	ch.mu.Unlock()
	if closed {
		return ErrClosed
	}

	data, err := protocol.Encode(msg)
	if err != nil {
		return err
	}
	if err := ch.nc.Publish(ch.outSubject(), data); err != nil {
		return fmt.Errorf("publish %s: %w", ch.outSubject(), err)
	}
	return nil
}

// Listen implements Channel.
func (ch *NATS) Listen(h Handler) {
	if h == nil {
		ch.inbox.setDeliver(nil)
		return
	}
	ch.inbox.setDeliver(func(msg protocol.Message) { h(ch, msg) })
}

// Close implements Channel.
func (ch *NATS) Close() error {
	ch.mu.Lock()
	if ch.closed {
		ch.mu.Unlock()
		return nil
	}
	ch.closed = true
	ch.mu.Unlock()

	err := ch.sub.Unsubscribe()
	ch.inbox.close()
	if ch.ownsConn {
		if derr := ch.nc.Drain(); derr != nil && err == nil {
			err = derr
		}
	}
	return err
}

func (ch *NATS) String() string { return "nats:" + ch.subject + ":" + ch.side.String() }
