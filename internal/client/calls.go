package client

import (
	"encoding/json"
	"fmt"

	"github.com/Gaurav-Gosain/winshell/internal/protocol"
)

// Outbound calls. They return only transport errors: the host answers, if at
// all, through the callbacks.

func (c *Client) AddWindow(url string, arg json.RawMessage) error {
	return c.ch.Send(protocol.AddWindow(url, arg))
}

func (c *Client) Close(confirm bool) error   { return c.ch.Send(protocol.Close(confirm)) }
func (c *Client) Focus() error               { return c.ch.Send(protocol.Focus()) }
func (c *Client) Maximize() error            { return c.ch.Send(protocol.Maximize()) }
func (c *Client) Minimize() error            { return c.ch.Send(protocol.Minimize()) }
func (c *Client) Unminimize() error          { return c.ch.Send(protocol.Unminimize()) }
func (c *Client) Restore() error             { return c.ch.Send(protocol.Restore()) }
func (c *Client) SetEnabled(on bool) error   { return c.ch.Send(protocol.SetEnabled(on)) }
func (c *Client) SetConfirm(on bool) error   { return c.ch.Send(protocol.SetConfirm(on)) }
func (c *Client) SetSize(w, h int) error     { return c.ch.Send(protocol.SetSize(w, h)) }
func (c *Client) SetPosition(x, y int) error { return c.ch.Send(protocol.SetPosition(x, y)) }
func (c *Client) SetTitle(t string) error    { return c.ch.Send(protocol.SetTitle(t)) }
func (c *Client) SetIcon(i string) error     { return c.ch.Send(protocol.SetIcon(i)) }

func (c *Client) SetFixedPosition(fixed bool) error {
	return c.ch.Send(protocol.SetFixedPosition(fixed))
}

func (c *Client) SetFixedSize(fixed bool) error {
	return c.ch.Send(protocol.SetFixedSize(fixed))
}

// ReturnDialog hands arg to the window that opened this one.
func (c *Client) ReturnDialog(arg json.RawMessage) error {
	return c.ch.Send(protocol.DialogReturn(arg))
}

// Broadcast sends arg to every window, this one included.
func (c *Client) Broadcast(arg json.RawMessage) error {
	return c.ch.Send(protocol.Broadcast(arg))
}

// BroadcastEvent broadcasts a named event. Receivers route it to the handler
// registered with OnBroadcastEvent.
func (c *Client) BroadcastEvent(name string, arg any) error {
	raw, err := protocol.MarshalArg(arg)
	if err != nil {
		return fmt.Errorf("client: broadcast %s: %w", name, err)
	}
	data, err := json.Marshal(broadcastEvent{Event: name, Arg: raw})
	if err != nil {
		return fmt.Errorf("client: broadcast %s: %w", name, err)
	}
	return c.Broadcast(data)
}

// AddDialog opens url as a dialog of this window. The window disables itself
// until the dialog returns; onReturn, if set, replaces the dialog return
// callback.
func (c *Client) AddDialog(url string, arg json.RawMessage, onReturn func(json.RawMessage)) error {
	if onReturn != nil {
		c.OnDialogReturn(onReturn)
	}
	if err := c.SetEnabled(false); err != nil {
		return err
	}
	return c.AddWindow(url, arg)
}

// Callback registration. Each setter replaces the previous callback.

// OnMessage sees every host message first. Returning true stops the built-in
// handling.
func (c *Client) OnMessage(fn func(protocol.Message) bool) {
	c.mu.Lock()
	c.onMessage = fn
	c.mu.Unlock()
}

func (c *Client) OnWindowArg(fn func(json.RawMessage)) {
	c.mu.Lock()
	c.onWindowArg = fn
	c.mu.Unlock()
}

func (c *Client) OnDialogReturn(fn func(json.RawMessage)) {
	c.mu.Lock()
	c.onDialogReturn = fn
	c.mu.Unlock()
}

// OnCloseConfirm is asked when the user closes a window that requires
// confirmation. Returning false, or registering nothing, closes the window.
func (c *Client) OnCloseConfirm(fn func() bool) {
	c.mu.Lock()
	c.onCloseConfirm = fn
	c.mu.Unlock()
}

func (c *Client) OnBroadcast(fn func(json.RawMessage)) {
	c.mu.Lock()
	c.onBroadcast = fn
	c.mu.Unlock()
}

// OnBroadcastEvent handles broadcasts sent with BroadcastEvent(name, ...).
// A nil fn removes the handler.
func (c *Client) OnBroadcastEvent(name string, fn func(json.RawMessage)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if fn == nil {
		delete(c.onEvent, name)
		return
	}
	c.onEvent[name] = fn
}
