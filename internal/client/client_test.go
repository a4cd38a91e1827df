package client

import (
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/Gaurav-Gosain/winshell/internal/channel"
	"github.com/Gaurav-Gosain/winshell/internal/protocol"
	"github.com/charmbracelet/log"
)

// pair returns a listening client on the child end of a pipe and a stream of
// what arrives at the host end.
func pair(t *testing.T) (*Client, *channel.Endpoint, <-chan protocol.Message) {
	t.Helper()
	host, child := channel.NewPipe()
	t.Cleanup(func() {
		host.Close()
		child.Close()
	})
	got := make(chan protocol.Message, 64)
	host.Listen(func(_ channel.Channel, msg protocol.Message) { got <- msg })

	c := New(child, WithLogger(log.New(io.Discard)))
	c.Listen()
	return c, host, got
}

func next(t *testing.T, got <-chan protocol.Message) protocol.Message {
	t.Helper()
	select {
	case msg := <-got:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a message")
	}
	return protocol.Message{}
}

func wait[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a callback")
	}
	var zero T
	return zero
}

// =============================================================================
// Outbound Tests
// =============================================================================

func TestOutboundCalls(t *testing.T) {
	c, _, got := pair(t)

	calls := []struct {
		call func() error
		want protocol.Message
	}{
		{func() error { return c.AddWindow("app:about", json.RawMessage(`1`)) }, protocol.AddWindow("app:about", json.RawMessage(`1`))},
		{func() error { return c.Close(true) }, protocol.Close(true)},
		{c.Focus, protocol.Focus()},
		{c.Maximize, protocol.Maximize()},
		{c.Minimize, protocol.Minimize()},
		{c.Unminimize, protocol.Unminimize()},
		{c.Restore, protocol.Restore()},
		{func() error { return c.SetFixedPosition(true) }, protocol.SetFixedPosition(true)},
		{func() error { return c.SetFixedSize(true) }, protocol.SetFixedSize(true)},
		{func() error { return c.SetEnabled(false) }, protocol.SetEnabled(false)},
		{func() error { return c.SetConfirm(true) }, protocol.SetConfirm(true)},
		{func() error { return c.SetSize(50, 20) }, protocol.SetSize(50, 20)},
		{func() error { return c.SetPosition(4, 5) }, protocol.SetPosition(4, 5)},
		{func() error { return c.SetTitle("t") }, protocol.SetTitle("t")},
		{func() error { return c.SetIcon("i") }, protocol.SetIcon("i")},
		{func() error { return c.ReturnDialog(json.RawMessage(`"x"`)) }, protocol.DialogReturn(json.RawMessage(`"x"`))},
		{func() error { return c.Broadcast(json.RawMessage(`{}`)) }, protocol.Broadcast(json.RawMessage(`{}`))},
	}

	for _, tt := range calls {
		if err := tt.call(); err != nil {
			t.Fatalf("%s: %v", tt.want.Command, err)
		}
	}
	// Order is preserved end to end.
	for _, tt := range calls {
		gotData, _ := protocol.Encode(next(t, got))
		wantData, _ := protocol.Encode(tt.want)
		if string(gotData) != string(wantData) {
			t.Errorf("got %s, want %s", gotData, wantData)
		}
	}
}

func TestBroadcastEventEnvelope(t *testing.T) {
	c, _, got := pair(t)

	if err := c.BroadcastEvent("theme", map[string]string{"name": "dark"}); err != nil {
		t.Fatal(err)
	}
	msg := next(t, got)
	if msg.Command != protocol.CmdBroadcast {
		t.Fatalf("command = %s", msg.Command)
	}
	var env struct {
		Event string            `json:"event"`
		Arg   map[string]string `json:"arg"`
	}
	if err := json.Unmarshal(msg.Arg, &env); err != nil {
		t.Fatal(err)
	}
	if env.Event != "theme" || env.Arg["name"] != "dark" {
		t.Errorf("envelope = %+v", env)
	}
}

func TestAddDialogOrder(t *testing.T) {
	c, _, got := pair(t)

	if err := c.AddDialog("app:prompt", json.RawMessage(`"q"`), func(json.RawMessage) {}); err != nil {
		t.Fatal(err)
	}
	if msg := next(t, got); msg.Command != protocol.CmdSetEnabled || msg.Enabled.Bool() {
		t.Errorf("first = %s, want set_enabled(false)", msg)
	}
	if msg := next(t, got); msg.Command != protocol.CmdAddWindow || msg.URL != "app:prompt" {
		t.Errorf("second = %s, want add_window", msg)
	}
}

func TestSendAfterClose(t *testing.T) {
	host, child := channel.NewPipe()
	defer host.Close()
	c := New(child, WithLogger(log.New(io.Discard)))
	child.Close()
	if err := c.Focus(); err != channel.ErrClosed {
		t.Errorf("Focus after close = %v, want ErrClosed", err)
	}
}

// =============================================================================
// Inbound Tests
// =============================================================================

func TestWindowArg(t *testing.T) {
	c, host, _ := pair(t)
	args := make(chan json.RawMessage, 1)
	c.OnWindowArg(func(arg json.RawMessage) { args <- arg })

	host.Send(protocol.SetWindowArg(json.RawMessage(`{"n":3}`)))
	if arg := wait(t, args); string(arg) != `{"n":3}` {
		t.Errorf("callback arg = %s", arg)
	}
	var v struct{ N int }
	if err := c.UnmarshalWindowArg(&v); err != nil || v.N != 3 {
		t.Errorf("UnmarshalWindowArg = %+v, %v", v, err)
	}
}

func TestDialogReturnReenables(t *testing.T) {
	c, host, got := pair(t)
	results := make(chan json.RawMessage, 1)
	if err := c.AddDialog("app:prompt", nil, func(arg json.RawMessage) { results <- arg }); err != nil {
		t.Fatal(err)
	}
	next(t, got) // set_enabled(false)
	next(t, got) // add_window

	host.Send(protocol.DialogReturn(json.RawMessage(`"bob"`)))
	if msg := next(t, got); msg.Command != protocol.CmdSetEnabled || !msg.Enabled.Bool() {
		t.Errorf("reply = %s, want set_enabled(true)", msg)
	}
	if arg := wait(t, results); string(arg) != `"bob"` {
		t.Errorf("dialog result = %s", arg)
	}
}

func TestCloseConfirm(t *testing.T) {
	tests := []struct {
		name      string
		register  bool
		keep      bool
		wantClose bool
	}{
		{name: "no callback closes", wantClose: true},
		{name: "callback declines closes", register: true, keep: false, wantClose: true},
		{name: "callback keeps the window", register: true, keep: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, host, got := pair(t)
			asked := make(chan struct{}, 1)
			if tt.register {
				c.OnCloseConfirm(func() bool {
					asked <- struct{}{}
					return tt.keep
				})
			}

			host.Send(protocol.CloseConfirm())
			if tt.register {
				wait(t, asked)
			}
			if !tt.wantClose {
				select {
				case msg := <-got:
					t.Errorf("unexpected reply %s", msg)
				case <-time.After(50 * time.Millisecond):
				}
				return
			}
			if msg := next(t, got); msg.Command != protocol.CmdClose || !msg.Confirm.Bool() {
				t.Errorf("reply = %s, want close(true)", msg)
			}
		})
	}
}

func TestBroadcastEvents(t *testing.T) {
	c, host, _ := pair(t)
	all := make(chan json.RawMessage, 4)
	pings := make(chan json.RawMessage, 4)
	c.OnBroadcast(func(arg json.RawMessage) { all <- arg })
	c.OnBroadcastEvent("ping", func(arg json.RawMessage) { pings <- arg })

	host.Send(protocol.Broadcast(json.RawMessage(`{"event":"ping","arg":7}`)))
	host.Send(protocol.Broadcast(json.RawMessage(`{"event":"pong","arg":8}`)))
	host.Send(protocol.Broadcast(json.RawMessage(`[1,2]`)))

	for range 3 {
		wait(t, all)
	}
	if arg := wait(t, pings); string(arg) != `7` {
		t.Errorf("ping arg = %s", arg)
	}
	select {
	case arg := <-pings:
		t.Errorf("unexpected ping %s", arg)
	default:
	}
}

func TestOnMessageIntercepts(t *testing.T) {
	c, host, _ := pair(t)
	seen := make(chan protocol.Command, 4)
	c.OnMessage(func(msg protocol.Message) bool {
		seen <- msg.Command
		return msg.Command == protocol.CmdSetWindowArg
	})
	args := make(chan json.RawMessage, 1)
	c.OnBroadcast(func(arg json.RawMessage) { args <- arg })

	host.Send(protocol.SetWindowArg(json.RawMessage(`1`)))
	host.Send(protocol.Broadcast(json.RawMessage(`2`)))

	if cmd := wait(t, seen); cmd != protocol.CmdSetWindowArg {
		t.Errorf("first seen = %s", cmd)
	}
	if arg := wait(t, args); string(arg) != `2` {
		t.Errorf("broadcast = %s", arg)
	}
	if c.WindowArg() != nil {
		t.Error("an intercepted set_window_arg must not be stored")
	}
}

func TestListenIsIdempotent(t *testing.T) {
	c, host, _ := pair(t)
	calls := make(chan struct{}, 4)
	c.OnBroadcast(func(json.RawMessage) { calls <- struct{}{} })
	c.Listen()

	host.Send(protocol.Broadcast(nil))
	wait(t, calls)
	select {
	case <-calls:
		t.Error("a second Listen must not register a second dispatcher")
	case <-time.After(50 * time.Millisecond):
	}
}
