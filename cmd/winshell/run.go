package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/Gaurav-Gosain/winshell/internal/apps"
	"github.com/Gaurav-Gosain/winshell/internal/channel"
	"github.com/Gaurav-Gosain/winshell/internal/config"
	"github.com/Gaurav-Gosain/winshell/internal/launch"
	"github.com/Gaurav-Gosain/winshell/internal/metrics"
	"github.com/Gaurav-Gosain/winshell/internal/ui"
	"github.com/Gaurav-Gosain/winshell/internal/web"
	"github.com/Gaurav-Gosain/winshell/internal/wm"
	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// Flags of the serve command.
var (
	serveHost   string
	servePort   string
	natsURL     string
	serveWidth  int
	serveHeight int
	serveTLS    bool
)

type runOptions struct {
	serve     bool
	ascii     bool
	overrides config.Overrides
}

func runLocal(ctx context.Context, cfg *config.Config, urls []string, opts runOptions) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The terminal belongs to the display, so everything logs into the
	// log viewer.
	logs := ui.NewLogBuffer()
	level := cfg.LogLevel()
	channel.SetLogger(logs.Logger("channel", level))
	config.SetLogger(logs.Logger("config", level))
	web.SetLogger(logs.Logger("web", level))

	launcher := newLauncher(cfg, logs.Logger("apps", level), logs.Logger("launch", level))
	loop := wm.NewLoop()
	model := ui.New(ctx, loop, launcher, cfg, ui.WithLogBuffer(logs))
	m := model.Manager()

	if len(urls) == 0 {
		urls = []string{apps.URL("launcher")}
	}
	for _, url := range urls {
		loop.Post(func() { m.AddWindow(url, nil) })
	}

	g, ctx := errgroup.WithContext(ctx)
	if !noWatch {
		watchConfig(ctx, g, opts.overrides, func(c *config.Config) {
			loop.Post(func() { model.SetConfig(c) })
		})
	}
	if opts.serve {
		collector := metrics.New()
		loop.Post(func() { collector.Attach(m.Events()) })
		srv := web.NewServer(web.FromServerConfig(cfg.Server), m, loop, collector)
		g.Go(func() error { return srv.Start(ctx) })
	}

	programOpts := []tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithFilter(ui.FilterMouseMotion),
	}
	if opts.ascii {
		programOpts = append(programOpts, tea.WithColorProfile(colorprofile.Ascii))
	}
	p := tea.NewProgram(model, programOpts...)

	g.Go(func() error {
		defer cancel()
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) && !errors.Is(err, tea.ErrInterrupted) {
			return fmt.Errorf("program error: %w", err)
		}
		return nil
	})
	return ignoreCanceled(g.Wait())
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [url...]",
		Short: "Run the window manager headless over HTTP",
		Long: `Run the window manager without a terminal display

Windows live on a virtual display of --width x --height units. Clients list
and control them through the HTTP API and send pointer input as touch
events. Prometheus metrics are served on /metrics.`,
		Example: `  # Serve on the configured address
  winshell serve

  # Open a chat window at start and bind all interfaces
  winshell serve app:chat --host 0.0.0.0 --port 8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg, args, overridesFrom(cmd))
		},
	}

	cmd.Flags().StringVar(&serveHost, "host", "localhost", "Host to bind to")
	cmd.Flags().StringVar(&servePort, "port", "7690", "Port to listen on")
	cmd.Flags().StringVar(&natsURL, "nats", "", "NATS server for nats:<subject> windows")
	cmd.Flags().IntVar(&serveWidth, "width", 1280, "Virtual display width")
	cmd.Flags().IntVar(&serveHeight, "height", 800, "Virtual display height")
	cmd.Flags().BoolVar(&serveTLS, "tls", false, "Serve HTTPS with a self-signed certificate")
	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, urls []string, o config.Overrides) error {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "winshell",
		Level:           cfg.LogLevel(),
	})
	web.SetLogLevel(cfg.LogLevel())
	channel.SetLogger(logger.WithPrefix("channel"))
	config.SetLogger(logger.WithPrefix("config"))

	loop := wm.NewLoop()
	display := web.NewDisplay(cfg.Server.Width, cfg.Server.Height, 2, 2)
	display.SetWindowLimits(cfg.Limits.Windows)
	m := wm.New(display, newLauncher(cfg, logger.WithPrefix("apps"), logger.WithPrefix("launch")),
		wm.WithConfig(cfg),
		wm.WithLogger(logger.WithPrefix("wm")),
		wm.WithScheduler(loop.Post),
		wm.WithContext(ctx),
	)
	collector := metrics.New()
	collector.Attach(m.Events())
	for _, url := range urls {
		loop.Post(func() { m.AddWindow(url, nil) })
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return loop.Run(ctx) })
	g.Go(func() error {
		return web.NewServer(web.FromServerConfig(cfg.Server), m, loop, collector).Start(ctx)
	})
	if !noWatch {
		watchConfig(ctx, g, o, func(c *config.Config) {
			loop.Post(func() {
				display.SetWindowLimits(c.Limits.Windows)
				m.SetConfig(c)
			})
		})
	}

	logger.Info("serving", "addr", cfg.Server.Host+":"+cfg.Server.Port, "display", fmt.Sprintf("%dx%d", cfg.Server.Width, cfg.Server.Height))
	return ignoreCanceled(g.Wait())
}

// newLauncher routes app, WebSocket and NATS URLs.
func newLauncher(cfg *config.Config, appLog, launchLog *log.Logger) *launch.Mux {
	return launch.New(
		launch.WithApps(apps.NewLauncher(apps.Default(), appLog)),
		launch.WithNATS(cfg.Server.NATSURL),
		launch.WithLogger(launchLog),
	)
}

// watchConfig reloads the configuration file in g and hands every valid
// result, with the command line overrides reapplied, to apply.
func watchConfig(ctx context.Context, g *errgroup.Group, o config.Overrides, apply func(*config.Config)) {
	path, err := resolveConfigPath()
	if err != nil {
		return
	}
	g.Go(func() error {
		return config.Watch(ctx, path, func(c *config.Config) {
			c, err := config.ApplyOverrides(c, o)
			if err != nil {
				return
			}
			apply(c)
		})
	})
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
