// Package server serves the terminal display over SSH. Every session runs
// its own window manager on a display sized to the client's terminal.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/wish/v2"
	"charm.land/wish/v2/bubbletea"
	"charm.land/wish/v2/logging"
	"github.com/Gaurav-Gosain/winshell/internal/config"
	"github.com/Gaurav-Gosain/winshell/internal/ui"
	"github.com/Gaurav-Gosain/winshell/internal/wm"
	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
)

var logger *log.Logger

func init() {
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "ssh",
	})
}

// SetLogger replaces the package logger.
func SetLogger(l *log.Logger) {
	if l != nil {
		logger = l
	}
}

// LauncherFunc builds the launcher of one session. Apps log into logs, the
// buffer behind the session's log viewer.
type LauncherFunc func(cfg *config.Config, logs *ui.LogBuffer) wm.Launcher

// Server hands out one display per SSH session.
type Server struct {
	cfg         atomic.Pointer[config.Config]
	newLauncher LauncherFunc
	urls        []string
	sessions    atomic.Int64
}

// New creates a server. urls are opened in every new session.
func New(cfg *config.Config, newLauncher LauncherFunc, urls ...string) *Server {
	s := &Server{newLauncher: newLauncher, urls: urls}
	s.cfg.Store(cfg)
	return s
}

// SetConfig swaps the configuration used by sessions started from now on.
func (s *Server) SetConfig(cfg *config.Config) { s.cfg.Store(cfg) }

// Sessions returns the number of open sessions.
func (s *Server) Sessions() int { return int(s.sessions.Load()) }

// HostKeyPath returns configured, or ssh_host_key in the XDG data dir when
// it is empty.
func HostKeyPath(configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	path, err := xdg.DataFile(filepath.Join("winshell", "ssh_host_key"))
	if err != nil {
		return "", fmt.Errorf("host key path: %w", err)
	}
	return path, nil
}

// Start serves SSH on the configured address until ctx is done. A missing
// host key is generated.
func (s *Server) Start(ctx context.Context) error {
	sc := s.cfg.Load().SSH
	keyPath, err := HostKeyPath(sc.HostKey)
	if err != nil {
		return err
	}

	srv, err := wish.NewServer(
		wish.WithAddress(net.JoinHostPort(sc.Host, sc.Port)),
		wish.WithHostKeyPath(keyPath),
		wish.WithMiddleware(
			bubbletea.Middleware(s.teaHandler),
			logging.Middleware(),
		),
	)
	if err != nil {
		return fmt.Errorf("create ssh server: %w", err)
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("starting ssh server", "addr", srv.Addr, "host_key", keyPath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down ssh server", "sessions", s.Sessions())
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errChan:
		return fmt.Errorf("ssh server: %w", err)
	}
}

func (s *Server) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, active := sess.Pty()
	if !active {
		logger.Warn("session without a terminal", "user", sess.User(), "remote", sess.RemoteAddr())
		return nil, nil
	}

	n := s.sessions.Add(1)
	logger.Info("session opened", "user", sess.User(), "remote", sess.RemoteAddr(),
		"size", fmt.Sprintf("%dx%d", pty.Window.Width, pty.Window.Height), "sessions", n)
	go func() {
		<-sess.Context().Done()
		logger.Info("session closed", "user", sess.User(), "sessions", s.sessions.Add(-1))
	}()

	md, _ := s.newSession(sess.Context(), pty.Window.Width, pty.Window.Height)
	return md, []tea.ProgramOption{tea.WithFilter(ui.FilterMouseMotion)}
}

// newSession builds the display of one session and queues its start URLs
// on the returned loop. The manager lives until ctx is done.
func (s *Server) newSession(ctx context.Context, width, height int) (*ui.Model, *wm.Loop) {
	cfg := s.cfg.Load()
	logs := ui.NewLogBuffer()
	loop := wm.NewLoop()
	md := ui.New(ctx, loop, s.newLauncher(cfg, logs), cfg, ui.WithLogBuffer(logs))
	md.Update(tea.WindowSizeMsg{Width: width, Height: height})

	m := md.Manager()
	for _, url := range s.urls {
		loop.Post(func() { m.AddWindow(url, nil) })
	}
	return md, loop
}
