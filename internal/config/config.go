// Package config holds the winshell configuration: window manager behavior,
// placement and size limits, dialog policy, the headless server and logging.
//
// Geometry values are in display units. The defaults are tuned for the
// terminal display, where one unit is one cell.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config is the root of the configuration file.
type Config struct {
	Behavior    BehaviorConfig      `toml:"behavior"`
	Placement   PlacementConfig     `toml:"placement"`
	Limits      LimitsConfig        `toml:"limits"`
	Dialogs     DialogConfig        `toml:"dialogs"`
	Server      ServerConfig        `toml:"server"`
	SSH         SSHConfig           `toml:"ssh"`
	Appearance  AppearanceConfig    `toml:"appearance"`
	Logging     LoggingConfig       `toml:"logging"`
	Keybindings map[string][]string `toml:"keybindings"`
}

// BehaviorConfig controls pointer interaction.
type BehaviorConfig struct {
	// KeepVisible stops a dragged window from leaving the display.
	KeepVisible bool `toml:"keep_visible"`
	// Snapping enables edge snapping while dragging.
	Snapping bool `toml:"snapping"`
	// SnapRange is the distance from an edge that triggers a snap.
	SnapRange int `toml:"snap_range"`
	// UnmaximizeThreshold is how far a maximized window must be pulled before
	// it is restored and torn off.
	UnmaximizeThreshold int `toml:"unmaximize_threshold"`
	// VisibleFraction is the share of a window's width that KeepVisible
	// keeps on screen.
	VisibleFraction float64 `toml:"visible_fraction"`
	TitlebarHeight  int     `toml:"titlebar_height"`
	// ResizeHandleSize is the size of the bottom-right resize grip.
	ResizeHandleSize int `toml:"resize_handle_size"`
	// DoubleClickMS is the window for a titlebar double click.
	DoubleClickMS int `toml:"double_click_ms"`
}

// PlacementConfig drives the cascading placement cursor.
type PlacementConfig struct {
	StartX int `toml:"start_x"`
	StartY int `toml:"start_y"`
	StepX  int `toml:"step_x"`
	StepY  int `toml:"step_y"`
}

// LimitsConfig holds the global size limits. Windows may override them.
type LimitsConfig struct {
	ResizeMinW int `toml:"resize_min_w"`
	ResizeMinH int `toml:"resize_min_h"`
	// ResizeMaxW and ResizeMaxH of zero mean unbounded.
	ResizeMaxW int `toml:"resize_max_w"`
	ResizeMaxH int `toml:"resize_max_h"`
	CreateMinW int `toml:"create_min_w"`
	CreateMinH int `toml:"create_min_h"`
	// CreateMaxRatio caps the load-time size as a share of the display.
	CreateMaxRatio float64 `toml:"create_max_ratio"`
	// ContentPadding is added to the measured content size at load time.
	ContentPadding int `toml:"content_padding"`
	// Windows overrides the resize bounds per window URL.
	Windows map[string]WindowLimits `toml:"windows,omitempty"`
}

// WindowLimits bounds the size of the windows opened on one URL. Zero
// fields keep the global value.
type WindowLimits struct {
	MinW int `toml:"min_w,omitempty"`
	MaxW int `toml:"max_w,omitempty"`
	MinH int `toml:"min_h,omitempty"`
	MaxH int `toml:"max_h,omitempty"`
}

// DialogConfig bounds dialog chains.
type DialogConfig struct {
	MaxDepth int `toml:"max_depth"`
}

// ServerConfig configures the headless host.
type ServerConfig struct {
	Host         string   `toml:"host"`
	Port         string   `toml:"port"`
	AllowOrigins []string `toml:"allow_origins"`
	// TLS serves HTTPS with a certificate generated at start.
	TLS          bool     `toml:"tls"`
	NATSURL      string   `toml:"nats_url"`
	Width        int      `toml:"width"`
	Height       int      `toml:"height"`
}

// SSHConfig configures the SSH front end. Every session gets its own
// display and window manager.
type SSHConfig struct {
	Host string `toml:"host"`
	Port string `toml:"port"`
	// HostKey is the host key file, generated when missing. Empty means
	// ssh_host_key in the XDG data dir.
	HostKey string `toml:"host_key"`
}

// AppearanceConfig styles the terminal display.
type AppearanceConfig struct {
	// Theme is a bubbletint theme id. Empty keeps the terminal's own colors.
	Theme string `toml:"theme"`
	// ShowClock draws the time in the status bar.
	ShowClock bool `toml:"show_clock"`
}

// LoggingConfig selects the log level.
type LoggingConfig struct {
	Level string `toml:"level"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Behavior: BehaviorConfig{
			KeepVisible:         true,
			Snapping:            true,
			SnapRange:           1,
			UnmaximizeThreshold: 3,
			VisibleFraction:     0.2,
			TitlebarHeight:      1,
			ResizeHandleSize:    1,
			DoubleClickMS:       400,
		},
		Placement: PlacementConfig{
			StartX: 2,
			StartY: 1,
			StepX:  4,
			StepY:  2,
		},
		Limits: LimitsConfig{
			ResizeMinW:     20,
			ResizeMinH:     6,
			CreateMinW:     40,
			CreateMinH:     12,
			CreateMaxRatio: 0.8,
			ContentPadding: 2,
		},
		Dialogs: DialogConfig{
			MaxDepth: 8,
		},
		Server: ServerConfig{
			Host:   "localhost",
			Port:   "7690",
			Width:  1280,
			Height: 800,
		},
		SSH: SSHConfig{
			Host: "localhost",
			Port: "2222",
		},
		Appearance: AppearanceConfig{
			ShowClock: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Keybindings: DefaultKeybindings(),
	}
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	b := c.Behavior
	check(b.SnapRange >= 0, "behavior.snap_range must be >= 0, got %d", b.SnapRange)
	check(b.UnmaximizeThreshold >= 0, "behavior.unmaximize_threshold must be >= 0, got %d", b.UnmaximizeThreshold)
	check(b.VisibleFraction > 0 && b.VisibleFraction <= 1, "behavior.visible_fraction must be in (0, 1], got %g", b.VisibleFraction)
	check(b.TitlebarHeight >= 0, "behavior.titlebar_height must be >= 0, got %d", b.TitlebarHeight)
	check(b.ResizeHandleSize >= 0, "behavior.resize_handle_size must be >= 0, got %d", b.ResizeHandleSize)

	p := c.Placement
	check(p.StepX >= 0 && p.StepY >= 0, "placement step must be >= 0, got %dx%d", p.StepX, p.StepY)

	l := c.Limits
	check(l.ResizeMinW > 0 && l.ResizeMinH > 0, "limits.resize_min must be positive, got %dx%d", l.ResizeMinW, l.ResizeMinH)
	check(l.ResizeMaxW == 0 || l.ResizeMaxW >= l.ResizeMinW, "limits.resize_max_w %d is below resize_min_w %d", l.ResizeMaxW, l.ResizeMinW)
	check(l.ResizeMaxH == 0 || l.ResizeMaxH >= l.ResizeMinH, "limits.resize_max_h %d is below resize_min_h %d", l.ResizeMaxH, l.ResizeMinH)
	check(l.CreateMinW > 0 && l.CreateMinH > 0, "limits.create_min must be positive, got %dx%d", l.CreateMinW, l.CreateMinH)
	check(l.CreateMaxRatio > 0 && l.CreateMaxRatio <= 1, "limits.create_max_ratio must be in (0, 1], got %g", l.CreateMaxRatio)
	check(l.ContentPadding >= 0, "limits.content_padding must be >= 0, got %d", l.ContentPadding)
	for url, w := range l.Windows {
		check(w.MinW >= 0 && w.MinH >= 0 && w.MaxW >= 0 && w.MaxH >= 0, "limits.windows.%q: bounds must be >= 0", url)
		check(w.MaxW == 0 || w.MaxW >= w.MinW, "limits.windows.%q: max_w %d is below min_w %d", url, w.MaxW, w.MinW)
		check(w.MaxH == 0 || w.MaxH >= w.MinH, "limits.windows.%q: max_h %d is below min_h %d", url, w.MaxH, w.MinH)
	}

	check(c.SSH.Port != "", "ssh.port must not be empty")

	check(c.Dialogs.MaxDepth >= 1, "dialogs.max_depth must be >= 1, got %d", c.Dialogs.MaxDepth)

	_, err := log.ParseLevel(c.Logging.Level)
	check(err == nil, "logging.level %q is not a log level", c.Logging.Level)

	for action := range c.Keybindings {
		_, known := ActionDescriptions[action]
		check(known, "keybindings: unknown action %q", action)
	}

	return errors.Join(errs...)
}

// LogLevel returns the configured level, falling back to info.
func (c *Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(strings.ToLower(c.Logging.Level))
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
