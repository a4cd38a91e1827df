// Package client is the child side of the window protocol. A Client wraps the
// channel a child got from its host: outbound calls become protocol messages
// and host messages are dispatched to registered callbacks.
package client

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/Gaurav-Gosain/winshell/internal/channel"
	"github.com/Gaurav-Gosain/winshell/internal/protocol"
	"github.com/charmbracelet/log"
)

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// Client is the facade a child uses to talk to its window manager.
type Client struct {
	ch  channel.Channel
	log *log.Logger

	mu             sync.Mutex
	listening      bool
	windowArg      json.RawMessage
	onMessage      func(protocol.Message) bool
	onWindowArg    func(json.RawMessage)
	onDialogReturn func(json.RawMessage)
	onCloseConfirm func() bool
	onBroadcast    func(json.RawMessage)
	onEvent        map[string]func(json.RawMessage)
}

// New wraps ch. Call Listen to start receiving host messages.
func New(ch channel.Channel, opts ...Option) *Client {
	c := &Client{
		ch:      ch,
		onEvent: make(map[string]func(json.RawMessage)),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "client",
		})
	}
	return c
}

// Listen installs the inbound dispatcher on the channel. Only the first call
// has an effect.
func (c *Client) Listen() {
	c.mu.Lock()
	if c.listening {
		c.mu.Unlock()
		c.log.Warn("listener already registered")
		return
	}
	c.listening = true
	c.mu.Unlock()

	c.ch.Listen(func(_ channel.Channel, msg protocol.Message) {
		c.Dispatch(msg)
	})
}

// WindowArg returns the argument the window was created with, or nil before
// the host delivered it.
func (c *Client) WindowArg() json.RawMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.windowArg
}

// UnmarshalWindowArg decodes the window argument into v.
func (c *Client) UnmarshalWindowArg(v any) error {
	return protocol.UnmarshalArg(c.WindowArg(), v)
}

// Dispatch handles one host message.
func (c *Client) Dispatch(msg protocol.Message) {
	c.mu.Lock()
	onMessage := c.onMessage
	c.mu.Unlock()
	if onMessage != nil && onMessage(msg) {
		return
	}

	switch msg.Command {
	case protocol.CmdSetWindowArg:
		c.mu.Lock()
		c.windowArg = msg.Arg
		fn := c.onWindowArg
		c.mu.Unlock()
		if fn != nil {
			fn(msg.Arg)
		}

	case protocol.CmdDialogReturn:
		c.logSendErr(c.SetEnabled(true), msg.Command)
		c.mu.Lock()
		fn := c.onDialogReturn
		c.mu.Unlock()
		if fn != nil {
			fn(msg.Arg)
		}

	case protocol.CmdCloseConfirm:
		c.mu.Lock()
		fn := c.onCloseConfirm
		c.mu.Unlock()
		if fn == nil || !fn() {
			c.logSendErr(c.Close(true), msg.Command)
		}

	case protocol.CmdBroadcast:
		c.mu.Lock()
		fn := c.onBroadcast
		c.mu.Unlock()
		if fn != nil {
			fn(msg.Arg)
		}
		c.dispatchEvent(msg.Arg)

	default:
		c.log.Warn("unknown message", "command", msg.Command)
	}
}

// broadcastEvent is the envelope BroadcastEvent sends.
type broadcastEvent struct {
	Event string          `json:"event"`
	Arg   json.RawMessage `json:"arg,omitempty"`
}

func (c *Client) dispatchEvent(arg json.RawMessage) {
	var ev broadcastEvent
	if err := json.Unmarshal(arg, &ev); err != nil || ev.Event == "" {
		return
	}
	c.mu.Lock()
	fn := c.onEvent[ev.Event]
	c.mu.Unlock()
	if fn != nil {
		c.log.Debug("broadcast event", "event", ev.Event)
		fn(ev.Arg)
	}
}

func (c *Client) logSendErr(err error, cause protocol.Command) {
	if err != nil {
		c.log.Warn("reply failed", "cause", cause, "err", err)
	}
}
