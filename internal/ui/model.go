// Package ui is the terminal display: a bubbletea model that draws the
// windows of a wm.Manager with lipgloss and feeds it mouse and key input.
package ui

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/Gaurav-Gosain/winshell/internal/apps"
	"github.com/Gaurav-Gosain/winshell/internal/config"
	"github.com/Gaurav-Gosain/winshell/internal/input"
	"github.com/Gaurav-Gosain/winshell/internal/launch"
	"github.com/Gaurav-Gosain/winshell/internal/theme"
	"github.com/Gaurav-Gosain/winshell/internal/wm"
)

// Default terminal size until the first resize message arrives.
const (
	defaultWidth  = 80
	defaultHeight = 24
)

// workMsg carries manager work posted from other goroutines.
type workMsg []func()

// TickerMsg refreshes the clock.
type TickerMsg time.Time

// Option configures a Model.
type Option func(*Model)

// WithLogBuffer shares a log buffer with other components. The manager logs
// into it and the log viewer shows it.
func WithLogBuffer(b *LogBuffer) Option {
	return func(md *Model) {
		if b != nil {
			md.logs = b
		}
	}
}

// WithClock replaces time.Now for the status bar and double click detection.
func WithClock(now func() time.Time) Option {
	return func(md *Model) { md.now = now }
}

// WithNewWindowURL sets the URL the new_window action opens.
func WithNewWindowURL(url string) Option {
	return func(md *Model) { md.newWindowURL = url }
}

// screen is the wm.Display side of the model.
type screen struct {
	width, height int
	hasMaximized  bool
	limits        map[string]config.WindowLimits
}

// Size reserves the bottom row for the status bar.
func (s *screen) Size() (int, int)              { return s.width, max(s.height-1, 1) }
func (s *screen) Insets() (int, int)            { return 2, 2 }
func (s *screen) Attach(w *wm.Window) wm.Limits { return wm.URLLimits(s.limits, w.URL) }
func (s *screen) Detach(*wm.Window)             {}
func (s *screen) Update(*wm.Window)             {}
func (s *screen) SetHasMaximized(on bool)       { s.hasMaximized = on }

// Model is the bubbletea model of the terminal display. The manager runs on
// the bubbletea goroutine: work posted to the loop is picked up by Update.
type Model struct {
	screen

	ctx     context.Context
	loop    *wm.Loop
	m       *wm.Manager
	keys    *config.KeybindRegistry
	actions *input.ActionDispatcher
	pointer *input.Adapter
	logs    *LogBuffer
	now     func() time.Time

	newWindowURL string
	showClock    bool
	showHelp     bool
	showLogs     bool
	logScroll    int
}

// New creates the display and its manager. Work posted to loop runs inside
// Update, so loop must not be Run by anyone else.
func New(ctx context.Context, loop *wm.Loop, launcher wm.Launcher, cfg *config.Config, opts ...Option) *Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	md := &Model{
		ctx:          ctx,
		loop:         loop,
		actions:      input.NewActionDispatcher(),
		logs:         NewLogBuffer(),
		now:          time.Now,
		newWindowURL: apps.URL("launcher"),
		screen:       screen{width: defaultWidth, height: defaultHeight},
	}
	for _, opt := range opts {
		opt(md)
	}

	md.m = wm.New(&md.screen, launcher,
		wm.WithConfig(cfg),
		wm.WithLogger(md.logs.Logger("wm", cfg.LogLevel())),
		wm.WithScheduler(loop.Post),
		wm.WithContext(ctx),
	)
	md.pointer = input.NewAdapter(md.m, input.WithClock(md.now))
	md.applyConfig(cfg)
	return md
}

// FilterMouseMotion is a tea.WithFilter filter that drops pointer motion
// unless a drag or resize is running.
func FilterMouseMotion(model tea.Model, msg tea.Msg) tea.Msg {
	if _, ok := msg.(tea.MouseMotionMsg); !ok {
		return msg
	}
	md, ok := model.(*Model)
	if !ok {
		return msg
	}
	if kind, _ := md.m.Interaction(); kind != wm.Idle {
		return msg
	}
	return nil
}

// Manager returns the window manager. Call its methods from Update or
// through the loop.
func (md *Model) Manager() *wm.Manager { return md.m }

// Logs returns the log buffer behind the log viewer.
func (md *Model) Logs() *LogBuffer { return md.logs }

// SetConfig applies a reloaded configuration. It must run on the manager
// goroutine; post it to the loop.
func (md *Model) SetConfig(cfg *config.Config) {
	md.m.SetConfig(cfg)
	md.applyConfig(cfg)
	md.m.Relayout()
}

func (md *Model) applyConfig(cfg *config.Config) {
	md.keys = config.NewKeybindRegistry(cfg)
	md.showClock = cfg.Appearance.ShowClock
	md.limits = cfg.Limits.Windows
	theme.Initialize(cfg.Appearance.Theme)
}

// bubbletea

// Init starts the work pump and the clock.
func (md *Model) Init() tea.Cmd {
	return tea.Batch(md.waitWork(), TickCmd())
}

// waitWork blocks until manager work is posted.
func (md *Model) waitWork() tea.Cmd {
	return func() tea.Msg {
		batch, err := md.loop.Wait(md.ctx)
		if err != nil {
			return tea.Quit()
		}
		return workMsg(batch)
	}
}

// TickCmd fires a TickerMsg every second.
func TickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickerMsg(t)
	})
}

// Update implements tea.Model.
func (md *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return md, md.step(msg)
}

func (md *Model) step(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case workMsg:
		for _, f := range msg {
			f()
		}
		return md.waitWork()

	case TickerMsg:
		return TickCmd()

	case tea.WindowSizeMsg:
		md.width, md.height = msg.Width, msg.Height
		md.m.Relayout()
		return nil

	case tea.KeyPressMsg:
		return md.handleKey(msg)

	case tea.MouseWheelMsg:
		if md.showLogs {
			switch msg.Mouse().Button {
			case tea.MouseWheelUp:
				md.scrollLogs(-1)
			case tea.MouseWheelDown:
				md.scrollLogs(1)
			}
		}
		return nil

	case tea.MouseClickMsg, tea.MouseMotionMsg, tea.MouseReleaseMsg:
		md.handleMouse(msg)
		return nil
	}
	return nil
}

func (md *Model) handleMouse(msg tea.Msg) {
	ev, ok := input.FromMouse(msg)
	if !ok {
		return
	}
	if md.showHelp || md.showLogs {
		if ev.Kind == input.Press {
			md.closeOverlays()
		}
		return
	}
	md.pointer.Handle(ev)
}

func (md *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	if md.showHelp || md.showLogs {
		if md.handleOverlayKey(msg.String()) {
			return nil
		}
	}

	action, handled := input.HandleKey(msg, md.keys, md.actions, md.m)
	if handled {
		return nil
	}
	switch action {
	case "new_window":
		md.m.AddWindow(md.newWindowURL, nil)
	case "toggle_help":
		md.showHelp = !md.showHelp
		md.showLogs = false
	case "toggle_log":
		md.showLogs = !md.showLogs
		md.showHelp = false
		md.logScroll = 0
	case "quit":
		return tea.Quit
	case "":
		md.forwardKey(msg)
	}
	return nil
}

func (md *Model) handleOverlayKey(key string) bool {
	switch key {
	case "esc", "q":
		md.closeOverlays()
		return true
	case "up", "k":
		if md.showLogs {
			md.scrollLogs(-1)
			return true
		}
	case "down", "j":
		if md.showLogs {
			md.scrollLogs(1)
			return true
		}
	}
	return false
}

func (md *Model) closeOverlays() {
	md.showHelp = false
	md.showLogs = false
}

// keyReceiver is content that takes keyboard input.
type keyReceiver interface {
	Key(key, text string)
}

// forwardKey hands an unbound key to the focused window.
func (md *Model) forwardKey(msg tea.KeyPressMsg) {
	w := md.m.Focused()
	if w == nil || w.Disabled || !w.Loaded() {
		return
	}
	if kr, ok := w.Channel().(keyReceiver); ok {
		kr.Key(msg.String(), msg.Text)
	}
}

// remoteState is implemented by content that connects in the background.
type remoteState interface {
	State() (launch.State, error)
}
