package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/Gaurav-Gosain/winshell/internal/apps"
	"github.com/Gaurav-Gosain/winshell/internal/channel"
	"github.com/Gaurav-Gosain/winshell/internal/client"
	"github.com/Gaurav-Gosain/winshell/internal/launch"
	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
)

// Flags of the child command.
var (
	childListen  string
	childOrigins []string
	childNATS    string
)

func newChildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "child <app>",
		Short: "Serve a built-in app to a remote host",
		Long: `Run one built-in app as the child of a remote window

With --listen, every WebSocket connection gets a fresh instance of the app;
open it from a host with a ws://host:port/ URL. With --nats, the app joins
the channel of a nats://server/subject URL and serves one window.`,
		Example: `  # Serve notes over WebSocket
  winshell child notes --listen :7700
  winshell ws://localhost:7700/

  # Serve chat over NATS
  winshell child chat --nats nats://localhost:4222/desk.chat
  winshell nats://localhost:4222/desk.chat`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			entry, ok := apps.Default().Lookup(args[0])
			if !ok {
				return fmt.Errorf("%w: %q", apps.ErrUnknownApp, args[0])
			}

			logger := log.NewWithOptions(os.Stderr, log.Options{
				ReportTimestamp: true,
				Prefix:          "child",
				Level:           cfg.LogLevel(),
			})
			channel.SetLogger(logger.WithPrefix("channel"))

			switch {
			case childNATS != "":
				return serveChildNATS(cmd.Context(), entry, childNATS, cfg.Server.NATSURL, logger)
			case childListen != "":
				return serveChildWebSocket(cmd.Context(), entry, childListen, childOrigins, logger)
			default:
				return errors.New("one of --listen or --nats is required")
			}
		},
	}

	cmd.Flags().StringVar(&childListen, "listen", "", "Address to accept WebSocket hosts on")
	cmd.Flags().StringSliceVar(&childOrigins, "origin", nil, "Origin patterns accepted besides same origin")
	cmd.Flags().StringVar(&childNATS, "nats", "", "NATS window URL to serve")
	cmd.MarkFlagsMutuallyExclusive("listen", "nats")
	return cmd
}

// startApp wires a fresh instance of e to ch.
func startApp(e apps.Entry, ch channel.Channel, logger *log.Logger) {
	c := client.New(ch, client.WithLogger(logger.WithPrefix("app:"+e.Name)))
	e.Factory().Start(c)
	c.Listen()
}

func serveChildWebSocket(ctx context.Context, e apps.Entry, addr string, origins []string, logger *log.Logger) error {
	r := chi.NewRouter()
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		ws, err := channel.AcceptWebSocket(w, r, origins)
		if err != nil {
			logger.Warn("rejected host", "remote", r.RemoteAddr, "err", err)
			return
		}
		logger.Info("host connected", "remote", r.RemoteAddr)
		startApp(e, ws, logger)

		select {
		case <-ws.Done():
		case <-ctx.Done():
			_ = ws.Close()
		}
		logger.Info("host disconnected", "remote", r.RemoteAddr)
	})

	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	errChan := make(chan error, 1)
	go func() {
		logger.Info("serving app", "app", e.Name, "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("listen %s: %w", addr, err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errChan:
		return err
	}
}

func serveChildNATS(ctx context.Context, e apps.Entry, rawURL, fallback string, logger *log.Logger) error {
	server, subject, err := launch.ParseNATS(rawURL, fallback)
	if err != nil {
		return err
	}
	ch, err := channel.DialNATS(server, subject, channel.SideChild)
	if err != nil {
		return err
	}
	defer ch.Close()

	logger.Info("serving app", "app", e.Name, "server", server, "subject", subject)
	startApp(e, ch, logger)
	<-ctx.Done()
	return nil
}
