package wm

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/Gaurav-Gosain/winshell/internal/channel"
	"github.com/Gaurav-Gosain/winshell/internal/config"
	"github.com/Gaurav-Gosain/winshell/internal/protocol"
	"github.com/charmbracelet/log"
)

// recChannel records what the host sends to a child.
type recChannel struct {
	url    string
	sent   []protocol.Message
	closed bool
}

func (c *recChannel) Send(msg protocol.Message) error {
	if c.closed {
		return channel.ErrClosed
	}
	c.sent = append(c.sent, msg)
	return nil
}

func (c *recChannel) Listen(channel.Handler) {}

func (c *recChannel) Close() error {
	c.closed = true
	return nil
}

func (c *recChannel) commands() []protocol.Command {
	out := make([]protocol.Command, len(c.sent))
	for i, m := range c.sent {
		out[i] = m.Command
	}
	return out
}

func (c *recChannel) last() protocol.Message {
	if len(c.sent) == 0 {
		return protocol.Message{}
	}
	return c.sent[len(c.sent)-1]
}

// introChannel is a recChannel whose content can be inspected.
type introChannel struct {
	*recChannel
	info ContentInfo
	err  error
}

func (c *introChannel) Introspect() (ContentInfo, error) { return c.info, c.err }

type fakeDisplay struct {
	width, height   int
	insetW, insetH  int
	limits          map[string]Limits
	attached        int
	detached        []*Window
	hasMaximizedLog []bool
}

func (d *fakeDisplay) Size() (int, int)   { return d.width, d.height }
func (d *fakeDisplay) Insets() (int, int) { return d.insetW, d.insetH }
func (d *fakeDisplay) Attach(w *Window) Limits {
	d.attached++
	return d.limits[w.URL]
}
func (d *fakeDisplay) Detach(w *Window)        { d.detached = append(d.detached, w) }
func (d *fakeDisplay) Update(*Window)          {}
func (d *fakeDisplay) SetHasMaximized(on bool) { d.hasMaximizedLog = append(d.hasMaximizedLog, on) }

type fakeLauncher struct {
	// manual holds loaded callbacks by url when set, instead of firing them
	// during Launch.
	manual   bool
	pending  map[string]func()
	channels map[string]channel.Channel
	info     map[string]ContentInfo
	infoErr  map[string]error
	fail     map[string]error
}

func newFakeLauncher() *fakeLauncher {
	return &fakeLauncher{
		pending:  make(map[string]func()),
		channels: make(map[string]channel.Channel),
		info:     make(map[string]ContentInfo),
		infoErr:  make(map[string]error),
		fail:     make(map[string]error),
	}
}

func (l *fakeLauncher) Launch(_ context.Context, url string, loaded func()) (channel.Channel, error) {
	if err := l.fail[url]; err != nil {
		return nil, err
	}
	rec := &recChannel{url: url}
	var ch channel.Channel = rec
	info, hasInfo := l.info[url]
	infoErr := l.infoErr[url]
	if hasInfo || infoErr != nil {
		ch = &introChannel{recChannel: rec, info: info, err: infoErr}
	}
	l.channels[url] = ch

	if l.manual {
		l.pending[url] = loaded
	} else {
		loaded()
	}
	return ch, nil
}

func rec(w *Window) *recChannel {
	switch c := w.Channel().(type) {
	case *recChannel:
		return c
	case *introChannel:
		return c.recChannel
	}
	return nil
}

var errBoom = errors.New("boom")

type fixture struct {
	m        *Manager
	display  *fakeDisplay
	launcher *fakeLauncher
	events   []Event
}

func newFixture(t *testing.T, mutate ...func(*config.Config)) *fixture {
	t.Helper()
	cfg := config.DefaultConfig()
	for _, fn := range mutate {
		fn(cfg)
	}
	f := &fixture{
		display:  &fakeDisplay{width: 120, height: 40, insetW: 2, insetH: 2, limits: map[string]Limits{}},
		launcher: newFakeLauncher(),
	}
	f.m = New(f.display, f.launcher,
		WithConfig(cfg),
		WithLogger(log.New(io.Discard)),
	)
	f.m.Events().OnAny(func(ev Event) bool {
		f.events = append(f.events, ev)
		return false
	})
	return f
}

func (f *fixture) count(kind EventKind) int {
	n := 0
	for _, ev := range f.events {
		if ev.Kind() == kind {
			n++
		}
	}
	return n
}

func (f *fixture) protocolErrors() []ProtocolError {
	var out []ProtocolError
	for _, ev := range f.events {
		if pe, ok := ev.(ProtocolError); ok {
			out = append(out, pe)
		}
	}
	return out
}

func ids(ws []*Window) []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.URL
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
