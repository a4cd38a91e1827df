// Package main implements winshell, a windowing shell: a terminal desktop of
// app windows that can also be served per SSH session, a headless HTTP host
// for the same window manager, and a child runner that serves an app to a
// remote host.
package main

import (
	"context"
	"fmt"
	"os"
	"syscall"

	"github.com/Gaurav-Gosain/winshell/internal/config"
	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

// Global flags
var (
	configPath  string
	logLevel    string
	themeName   string
	keepVisible bool
	snapping    bool
	snapRange   int
	noWatch     bool
	serveWithUI bool
	asciiOnly   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "winshell [url...]",
		Short: "Windowing shell for the terminal",
		Long: `winshell - a windowing shell

Opens a desktop of draggable, resizable windows in the terminal. Windows host
built-in apps (app:notes), or children connected over WebSocket (ws://...) or
NATS (nats://host/subject).`,
		Example: `  # Open the launcher
  winshell

  # Open two apps at start
  winshell app:notes app:chat

  # Also expose the window API on :7690
  winshell --serve

  # Run headless
  winshell serve --port 7690

  # Serve a desktop per SSH session
  winshell ssh --port 2222

  # Serve the chat app to a remote host
  winshell child chat --listen :7700`,
		Version:      version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runLocal(cmd.Context(), cfg, args, runOptions{
				serve:     serveWithUI,
				ascii:     asciiOnly,
				overrides: overridesFrom(cmd),
			})
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Configuration file (default: XDG config dir)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&themeName, "theme", "", "Color theme (bubbletint id)")
	rootCmd.PersistentFlags().BoolVar(&keepVisible, "keep-visible", true, "Keep dragged windows on screen")
	rootCmd.PersistentFlags().BoolVar(&snapping, "snap", true, "Snap windows dragged to a screen edge")
	rootCmd.PersistentFlags().IntVar(&snapRange, "snap-range", 1, "Distance from an edge that snaps")
	rootCmd.PersistentFlags().BoolVar(&noWatch, "no-watch", false, "Do not reload the configuration file on change")

	rootCmd.Flags().BoolVar(&serveWithUI, "serve", false, "Also serve the window API over HTTP")
	rootCmd.Flags().BoolVar(&asciiOnly, "ascii", false, "Render without colors")

	rootCmd.AddCommand(
		newServeCmd(),
		newSSHCmd(),
		newChildCmd(),
		newConfigCmd(),
		newKeybindsCmd(),
		newAppsCmd(),
	)

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(fmt.Sprintf("%s\nCommit: %s\nBuilt: %s\nBy: %s", version, commit, date, builtBy)),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	); err != nil {
		os.Exit(1)
	}
}

// resolveConfigPath returns --config or the default location.
func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.GetConfigPath()
}

// loadConfig reads the configuration file and applies the flags the user
// set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFrom(configPath)
	} else {
		cfg, err = config.LoadUserConfig()
	}
	if err != nil {
		return nil, err
	}
	return config.ApplyOverrides(cfg, overridesFrom(cmd))
}

// overridesFrom collects the flags set on the command line. Flags a command
// does not define are never changed.
func overridesFrom(cmd *cobra.Command) config.Overrides {
	var o config.Overrides
	flags := cmd.Flags()
	if flags.Changed("keep-visible") {
		o.KeepVisible = &keepVisible
	}
	if flags.Changed("snap") {
		o.Snapping = &snapping
	}
	if flags.Changed("snap-range") {
		o.SnapRange = &snapRange
	}
	if flags.Changed("log-level") {
		o.LogLevel = &logLevel
	}
	if flags.Changed("theme") {
		o.Theme = &themeName
	}
	if cmd.Name() == "ssh" {
		if flags.Changed("host") {
			o.SSHHost = &sshHost
		}
		if flags.Changed("port") {
			o.SSHPort = &sshPort
		}
		if flags.Changed("key-path") {
			o.SSHHostKey = &sshKeyPath
		}
		return o
	}
	if flags.Changed("host") {
		o.Host = &serveHost
	}
	if flags.Changed("port") {
		o.Port = &servePort
	}
	if flags.Changed("nats") {
		o.NATSURL = &natsURL
	}
	if flags.Changed("width") {
		o.Width = &serveWidth
	}
	if flags.Changed("height") {
		o.Height = &serveHeight
	}
	if flags.Changed("tls") {
		o.TLS = &serveTLS
	}
	return o
}
