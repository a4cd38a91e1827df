// Package launch routes window URLs to the transport that hosts their
// content: in-process apps, children listening on a WebSocket, or children
// on a NATS subject.
package launch

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/Gaurav-Gosain/winshell/internal/channel"
	"github.com/Gaurav-Gosain/winshell/internal/wm"
	"github.com/charmbracelet/log"
)

// ErrUnsupportedScheme is returned for URLs no transport handles.
var ErrUnsupportedScheme = errors.New("launch: unsupported scheme")

// DefaultDialTimeout bounds connecting to a remote child.
const DefaultDialTimeout = 10 * time.Second

// Option configures a Mux.
type Option func(*Mux)

// WithApps sets the launcher for "app:" URLs.
func WithApps(l wm.Launcher) Option {
	return func(m *Mux) { m.apps = l }
}

// WithNATS sets the server used by "nats:<subject>" URLs that name no host.
func WithNATS(serverURL string) Option {
	return func(m *Mux) { m.natsURL = serverURL }
}

// WithDialTimeout bounds remote connection attempts.
func WithDialTimeout(d time.Duration) Option {
	return func(m *Mux) {
		if d > 0 {
			m.dialTimeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(m *Mux) {
		if l != nil {
			m.log = l
		}
	}
}

// Mux implements wm.Launcher by URL scheme.
type Mux struct {
	apps        wm.Launcher
	natsURL     string
	dialTimeout time.Duration
	log         *log.Logger
}

// New returns a launcher multiplexer.
func New(opts ...Option) *Mux {
	m := &Mux{dialTimeout: DefaultDialTimeout}
	for _, opt := range opts {
		opt(m)
	}
	if m.log == nil {
		m.log = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "launch",
		})
	}
	return m
}

// Launch implements wm.Launcher. Remote children are connected in the
// background; the returned channel queues messages until then and loaded
// fires once the connection is up.
func (m *Mux) Launch(ctx context.Context, rawURL string, loaded func()) (channel.Channel, error) {
	scheme, _, ok := strings.Cut(rawURL, ":")
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, rawURL)
	}

	switch strings.ToLower(scheme) {
	case "app":
		if m.apps == nil {
			return nil, fmt.Errorf("%w: no app launcher for %q", ErrUnsupportedScheme, rawURL)
		}
		return m.apps.Launch(ctx, rawURL, loaded)

	case "ws", "wss":
		return m.remote(ctx, rawURL, loaded, func(ctx context.Context) (channel.Channel, error) {
			return channel.DialWebSocket(ctx, rawURL)
		}), nil

	case "nats":
		server, subject, err := ParseNATS(rawURL, m.natsURL)
		if err != nil {
			return nil, err
		}
		return m.remote(ctx, rawURL, loaded, func(context.Context) (channel.Channel, error) {
			return channel.DialNATS(server, subject, channel.SideHost)
		}), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, rawURL)
}

func (m *Mux) remote(ctx context.Context, rawURL string, loaded func(), dial func(context.Context) (channel.Channel, error)) *Remote {
	r := newRemote(rawURL)
	go func() {
		dctx, cancel := context.WithTimeout(ctx, m.dialTimeout)
		defer cancel()

		start := time.Now()
		ch, err := dial(dctx)
		if err != nil {
			m.log.Warn("connect failed", "url", rawURL, "err", err)
			r.fail(err)
			return
		}
		m.log.Debug("connected", "url", rawURL, "took", time.Since(start))
		if r.connect(ch) {
			loaded()
		}
	}()
	return r
}

// ParseNATS splits a "nats://host:port/subject" URL into the server URL and
// the base subject. "nats:subject" uses fallback as the server.
func ParseNATS(rawURL, fallback string) (server, subject string, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", fmt.Errorf("parse %q: %w", rawURL, err)
	}
	switch {
	case u.Opaque != "":
		server, subject = fallback, u.Opaque
	case u.Host != "":
		server = "nats://" + u.Host
		if u.User != nil {
			server = "nats://" + u.User.String() + "@" + u.Host
		}
		subject = strings.Trim(u.Path, "/")
	}
	subject = strings.ReplaceAll(subject, "/", ".")
	if subject == "" {
		return "", "", fmt.Errorf("%w: %q names no subject", ErrUnsupportedScheme, rawURL)
	}
	if server == "" {
		return "", "", fmt.Errorf("%w: %q names no server and none is configured", ErrUnsupportedScheme, rawURL)
	}
	return server, subject, nil
}
