// Package wm implements the window manager core: the ordered window list,
// focus and z-order, maximize/snap/minimize state, the pointer interaction
// state machine and the host side of the child message protocol.
//
// A Manager is not safe for concurrent use. All of its methods must run on
// one goroutine; transports hand their messages over through the scheduler
// set with WithScheduler.
package wm

import (
	"context"
	"encoding/json"
	"os"
	"slices"

	"github.com/Gaurav-Gosain/winshell/internal/channel"
	"github.com/Gaurav-Gosain/winshell/internal/config"
	"github.com/Gaurav-Gosain/winshell/internal/protocol"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

const (
	zBase = 100
	zStep = 10
)

// Display is the surface windows are shown on.
type Display interface {
	// Size returns the display extent.
	Size() (width, height int)
	// Insets returns the horizontal and vertical size of the window chrome.
	Insets() (horizontal, vertical int)
	// Attach creates the chrome for w and returns its size overrides.
	Attach(w *Window) Limits
	// Detach removes the chrome of w.
	Detach(w *Window)
	// Update reflects the current state of w.
	Update(w *Window)
	// SetHasMaximized toggles the display-wide maximized marker.
	SetHasMaximized(on bool)
}

// Launcher starts the content behind a window. loaded must be called exactly
// once, from any goroutine, when the content finished loading.
type Launcher interface {
	Launch(ctx context.Context, url string, loaded func()) (channel.Channel, error)
}

// ContentInfo describes loaded content.
type ContentInfo struct {
	Title string
	Icon  string
	// Width and Height are the natural content size. Zero means unknown.
	Width, Height int
	// PreferredWidth and PreferredHeight override the computed size.
	PreferredWidth, PreferredHeight int
}

// Introspector is implemented by channels whose content can be inspected
// after load.
type Introspector interface {
	Introspect() (ContentInfo, error)
}

// Option configures a Manager.
type Option func(*Manager)

// WithConfig sets the configuration. The default is config.DefaultConfig().
func WithConfig(cfg *config.Config) Option {
	return func(m *Manager) {
		if cfg != nil {
			m.cfg = cfg
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// WithScheduler sets the function used to move work from transport
// goroutines onto the manager goroutine. The default runs work inline, which
// is only correct when everything already runs on one goroutine.
func WithScheduler(post func(func())) Option {
	return func(m *Manager) {
		if post != nil {
			m.post = post
		}
	}
}

// WithContext sets the context passed to the launcher.
func WithContext(ctx context.Context) Option {
	return func(m *Manager) {
		if ctx != nil {
			m.ctx = ctx
		}
	}
}

// Manager owns the windows of one display.
type Manager struct {
	cfg      *config.Config
	display  Display
	launcher Launcher
	log      *log.Logger
	post     func(func())
	ctx      context.Context
	events   Registry

	windows      []*Window
	byChannel    map[channel.Channel]*Window
	focused      *Window
	cursor       Point
	state        interaction
	hasMaximized bool
}

// New creates a manager drawing on display and launching content through
// launcher.
func New(display Display, launcher Launcher, opts ...Option) *Manager {
	m := &Manager{
		cfg:       config.DefaultConfig(),
		display:   display,
		launcher:  launcher,
		post:      func(f func()) { f() },
		ctx:       context.Background(),
		byChannel: make(map[channel.Channel]*Window),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.log == nil {
		m.log = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "wm",
			Level:           m.cfg.LogLevel(),
		})
	}
	m.cursor = Point{m.cfg.Placement.StartX, m.cfg.Placement.StartY}
	return m
}

// Events returns the event registry.
func (m *Manager) Events() *Registry { return &m.events }

// Config returns the active configuration.
func (m *Manager) Config() *config.Config { return m.cfg }

// SetConfig swaps the configuration. Existing windows keep their geometry.
func (m *Manager) SetConfig(cfg *config.Config) {
	if cfg != nil {
		m.cfg = cfg
		m.log.SetLevel(cfg.LogLevel())
	}
}

// Windows returns the windows in paint order, bottom first.
func (m *Manager) Windows() []*Window { return slices.Clone(m.windows) }

// Focused returns the focused window, or nil.
func (m *Manager) Focused() *Window { return m.focused }

// HasMaximized reports whether a visible window is maximized.
func (m *Manager) HasMaximized() bool { return m.hasMaximized }

// Window looks a window up by id.
func (m *Manager) Window(id string) *Window {
	for _, w := range m.windows {
		if w.ID == id {
			return w
		}
	}
	return nil
}

// Managed reports whether w is still in the window list.
func (m *Manager) Managed(w *Window) bool {
	return w != nil && slices.Contains(m.windows, w)
}

// AddWindow creates a window for url, launches its content and focuses it.
// arg is delivered to the content once it has loaded.
func (m *Manager) AddWindow(url string, arg json.RawMessage) *Window {
	return m.addWindow(url, arg, nil)
}

func (m *Manager) addWindow(url string, arg json.RawMessage, parent *Window) *Window {
	pos := m.nextPlacement()
	w := &Window{
		ID:    uuid.New().String(),
		URL:   url,
		Title: url,
		Rect: Rect{
			Left:   pos.X,
			Top:    pos.Y,
			Width:  m.cfg.Limits.CreateMinW,
			Height: m.cfg.Limits.CreateMinH,
		},
		arg:    arg,
		parent: parent,
	}
	if parent != nil {
		w.depth = parent.depth + 1
	}
	w.Limits = m.display.Attach(w)

	// The launcher may report the load before Launch returns. Defer it until
	// the window is fully registered.
	launching := true
	loadedEarly := false
	loaded := func() {
		m.post(func() {
			if launching {
				loadedEarly = true
				return
			}
			m.contentLoaded(w)
		})
	}

	ch, err := m.launcher.Launch(m.ctx, url, loaded)
	if err != nil {
		m.log.Warn("launch failed", "window", w, "url", url, "err", err)
		m.events.Emit(ProtocolError{Window: w, Reason: ReasonLaunchFailed, Err: err})
		ch = &deadChannel{url: url}
	}
	w.ch = ch
	m.byChannel[ch] = w
	ch.Listen(m.receive)

	m.windows = append(m.windows, w)
	m.log.Debug("add window", "window", w, "url", url, "rect", w.Rect)
	m.events.Emit(WindowAdded{Window: w})
	m.FocusWindow(w)
	m.updateHasMaximized()

	launching = false
	if loadedEarly {
		m.contentLoaded(w)
	}
	return w
}

// nextPlacement returns the current cursor and advances it, wrapping inside
// the area where a minimum-size window still fits. The configured start is
// wrapped the same way.
func (m *Manager) nextPlacement() Point {
	dw, dh := m.display.Size()
	spanX := dw - m.cfg.Limits.CreateMinW
	spanY := dh - m.cfg.Limits.CreateMinH

	pos := Point{wrapSpan(m.cursor.X, spanX), wrapSpan(m.cursor.Y, spanY)}
	m.cursor = Point{
		wrapSpan(pos.X+m.cfg.Placement.StepX, spanX),
		wrapSpan(pos.Y+m.cfg.Placement.StepY, spanY),
	}
	return pos
}

func wrapSpan(v, span int) int {
	if span <= 0 {
		return 0
	}
	v %= span
	if v < 0 {
		v += span
	}
	return v
}

func (m *Manager) contentLoaded(w *Window) {
	if !m.Managed(w) || w.loaded {
		return
	}
	w.loaded = true
	m.send(w, protocol.SetWindowArg(w.arg))

	if in, ok := w.ch.(Introspector); ok {
		info, err := in.Introspect()
		if err != nil {
			m.log.Debug("introspection failed", "window", w, "err", err)
		} else {
			m.applyContentInfo(w, info)
		}
	}

	m.log.Debug("window loaded", "window", w, "title", w.Title)
	m.events.Emit(WindowLoaded{Window: w})
}

func (m *Manager) applyContentInfo(w *Window, info ContentInfo) {
	if info.Title != "" {
		w.Title = info.Title
	}
	if info.Icon != "" {
		w.Icon = info.Icon
	}

	width, height := w.Rect.Width, w.Rect.Height
	if info.Width > 0 || info.Height > 0 {
		dw, dh := m.display.Size()
		bw, bh := m.display.Insets()
		lim := m.cfg.Limits
		maxW := int(float64(dw) * lim.CreateMaxRatio)
		maxH := int(float64(dh) * lim.CreateMaxRatio)
		width = max(min(info.Width+bw+lim.ContentPadding, maxW), lim.CreateMinW)
		height = max(min(info.Height+bh+lim.ContentPadding, maxH), lim.CreateMinH)
	}
	if info.PreferredWidth > 0 {
		width = info.PreferredWidth
	}
	if info.PreferredHeight > 0 {
		height = info.PreferredHeight
	}

	if w.mode.Maximized() {
		w.restore.Width, w.restore.Height = width, height
	} else {
		w.Rect.Width, w.Rect.Height = width, height
	}
	m.display.Update(w)
}

// receive is the inbound handler installed on every content channel.
func (m *Manager) receive(from channel.Channel, msg protocol.Message) {
	m.post(func() { m.HandleMessage(from, msg) })
}

// send delivers msg to w, reporting failures as protocol errors.
func (m *Manager) send(w *Window, msg protocol.Message) {
	if err := w.ch.Send(msg); err != nil {
		m.log.Warn("send failed", "window", w, "command", msg.Command, "err", err)
		m.events.Emit(ProtocolError{Window: w, Command: msg.Command, Reason: ReasonSendFailed, Err: err})
	}
}

// deadChannel stands in for content that failed to launch.
type deadChannel struct{ url string }

func (*deadChannel) Send(protocol.Message) error { return channel.ErrClosed }
func (*deadChannel) Listen(channel.Handler)      {}
func (*deadChannel) Close() error                { return nil }
