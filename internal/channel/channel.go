// Package channel provides the message channel between the host and a child
// surface, plus the transports that implement it.
//
// A channel is bidirectional, ordered and asynchronous: Send never waits for
// the peer to process a message and never reorders, and inbound messages are
// handed to a single Handler in the order they were sent. Messages that arrive
// before a handler is attached are queued.
package channel

import (
	"errors"
	"os"
	"sync"

	"github.com/Gaurav-Gosain/winshell/internal/protocol"
	"github.com/charmbracelet/log"
)

// ErrClosed is returned by Send after the channel was closed.
var ErrClosed = errors.New("channel: closed")

// Handler receives inbound messages. from is the receiving endpoint, so a
// host can map it back to the window that owns it.
type Handler func(from Channel, msg protocol.Message)

// Channel is one end of a host/child connection.
type Channel interface {
	// Send queues msg for delivery to the peer.
	Send(msg protocol.Message) error
	// Listen sets the inbound handler, replacing any previous one.
	Listen(h Handler)
	// Close releases the endpoint. Pending inbound messages are dropped.
	Close() error
}

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	Prefix:          "channel",
})

// SetLogger replaces the package logger.
func SetLogger(l *log.Logger) {
	if l != nil {
		logger = l
	}
}

// queue is an unbounded FIFO drained by its own goroutine. It backs both
// inbound delivery and outbound writes of the transports.
type queue struct {
	mu      sync.Mutex
	items   []protocol.Message
	deliver func(protocol.Message)
	wake    chan struct{}
	done    chan struct{}
	once    sync.Once
}

func newQueue(deliver func(protocol.Message)) *queue {
	q := &queue{
		deliver: deliver,
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go q.run()
	return q
}

func (q *queue) setDeliver(fn func(protocol.Message)) {
	q.mu.Lock()
	q.deliver = fn
	q.mu.Unlock()
	q.signal()
}

func (q *queue) push(msg protocol.Message) error {
	q.mu.Lock()
	select {
	case <-q.done:
		q.mu.Unlock()
		return ErrClosed
	default:
	}
	q.items = append(q.items, msg)
	q.mu.Unlock()
	q.signal()
	return nil
}

func (q *queue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *queue) close() {
	q.once.Do(func() {
		q.mu.Lock()
		close(q.done)
		q.items = nil
		q.mu.Unlock()
	})
}

func (q *queue) closed() bool {
	select {
	case <-q.done:
		return true
	default:
		return false
	}
}

func (q *queue) run() {
	for {
		select {
		case <-q.done:
			return
		case <-q.wake:
		}

		for {
			q.mu.Lock()
			if q.deliver == nil || len(q.items) == 0 {
				q.mu.Unlock()
				break
			}
			batch := q.items
			q.items = nil
			fn := q.deliver
			q.mu.Unlock()

			for _, msg := range batch {
				if q.closed() {
					return
				}
				fn(msg)
			}
		}
	}
}
