package apps

import (
	"context"
	"fmt"

	"github.com/Gaurav-Gosain/winshell/internal/channel"
	"github.com/Gaurav-Gosain/winshell/internal/client"
	"github.com/Gaurav-Gosain/winshell/internal/protocol"
	"github.com/Gaurav-Gosain/winshell/internal/wm"
	"github.com/charmbracelet/log"
)

// Launcher starts registered apps over in-memory pipes.
type Launcher struct {
	reg *Registry
	log *log.Logger
}

// NewLauncher returns a launcher for the apps in reg. Clients log through
// logger when it is set.
func NewLauncher(reg *Registry, logger *log.Logger) *Launcher {
	return &Launcher{reg: reg, log: logger}
}

// Launch implements wm.Launcher. In-process content is ready immediately, so
// loaded fires before Launch returns.
func (l *Launcher) Launch(_ context.Context, url string, loaded func()) (channel.Channel, error) {
	name, ok := ParseURL(url)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownApp, url)
	}
	e, ok := l.reg.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownApp, name)
	}

	hostEnd, childEnd := channel.NewPipe()
	app := e.Factory()
	var opts []client.Option
	if l.log != nil {
		opts = append(opts, client.WithLogger(l.log.WithPrefix("app:"+name)))
	}
	c := client.New(childEnd, opts...)
	app.Start(c)
	c.Listen()

	loaded()
	return &Host{Endpoint: hostEnd, child: childEnd, app: app, name: name}, nil
}

// Host is the host end of an in-process app. Besides being the window's
// channel it exposes the app to the display.
type Host struct {
	*channel.Endpoint
	child *channel.Endpoint
	app   App
	name  string
}

// Listen reports messages with the Host itself as the sender, so the window
// manager can map them back to the window.
func (h *Host) Listen(fn channel.Handler) {
	if fn == nil {
		h.Endpoint.Listen(nil)
		return
	}
	h.Endpoint.Listen(func(_ channel.Channel, msg protocol.Message) { fn(h, msg) })
}

// Close shuts both ends of the pipe.
func (h *Host) Close() error {
	h.child.Close()
	return h.Endpoint.Close()
}

// Introspect implements wm.Introspector.
func (h *Host) Introspect() (wm.ContentInfo, error) {
	if h.Closed() {
		return wm.ContentInfo{}, channel.ErrClosed
	}
	info := h.app.Info()
	return wm.ContentInfo{
		Title:           info.Title,
		Icon:            info.Icon,
		Width:           info.Width,
		Height:          info.Height,
		PreferredWidth:  info.PreferredWidth,
		PreferredHeight: info.PreferredHeight,
	}, nil
}

// Key forwards a key to the app.
func (h *Host) Key(key, text string) { h.app.Key(key, text) }

// View renders the app.
func (h *Host) View(width, height int) string { return h.app.View(width, height) }

// Name returns the app name.
func (h *Host) Name() string { return h.name }

func (h *Host) String() string { return URL(h.name) }
