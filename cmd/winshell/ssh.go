package main

import (
	"context"
	"os"

	"github.com/Gaurav-Gosain/winshell/internal/apps"
	"github.com/Gaurav-Gosain/winshell/internal/channel"
	"github.com/Gaurav-Gosain/winshell/internal/config"
	"github.com/Gaurav-Gosain/winshell/internal/server"
	"github.com/Gaurav-Gosain/winshell/internal/ui"
	"github.com/Gaurav-Gosain/winshell/internal/wm"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// Flags of the ssh command.
var (
	sshHost    string
	sshPort    string
	sshKeyPath string
)

func newSSHCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ssh [url...]",
		Short: "Serve the terminal desktop over SSH",
		Long: `Run winshell as an SSH server

Every SSH session gets its own desktop sized to the client's terminal. The
URLs, or the launcher when none are given, open in each new session. A host
key is generated on first start unless --key-path points to one.`,
		Example: `  # Start on the configured port
  winshell ssh

  # Open notes in every session
  winshell ssh app:notes --port 2222

  # Connect
  ssh -p 2222 localhost`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runSSH(cmd.Context(), cfg, args, overridesFrom(cmd))
		},
	}

	cmd.Flags().StringVar(&sshHost, "host", "localhost", "SSH server host")
	cmd.Flags().StringVar(&sshPort, "port", "2222", "SSH server port")
	cmd.Flags().StringVar(&sshKeyPath, "key-path", "", "Path to SSH host key (generated if missing)")
	return cmd
}

func runSSH(ctx context.Context, cfg *config.Config, urls []string, o config.Overrides) error {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "winshell",
		Level:           cfg.LogLevel(),
	})
	server.SetLogger(logger.WithPrefix("ssh"))
	channel.SetLogger(logger.WithPrefix("channel"))
	config.SetLogger(logger.WithPrefix("config"))

	if len(urls) == 0 {
		urls = []string{apps.URL("launcher")}
	}
	srv := server.New(cfg, func(c *config.Config, logs *ui.LogBuffer) wm.Launcher {
		level := c.LogLevel()
		return newLauncher(c, logs.Logger("apps", level), logs.Logger("launch", level))
	}, urls...)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Start(ctx) })
	if !noWatch {
		watchConfig(ctx, g, o, srv.SetConfig)
	}
	return ignoreCanceled(g.Wait())
}
