package config

// Overrides carries command line values that take precedence over the file.
// Nil fields leave the configuration untouched.
type Overrides struct {
	KeepVisible *bool
	Snapping    *bool
	SnapRange   *int
	LogLevel    *string
	Host        *string
	Port        *string
	NATSURL     *string
	Width       *int
	Height      *int
	Theme       *string
	TLS         *bool
	SSHHost     *string
	SSHPort     *string
	SSHHostKey  *string
}

// ApplyOverrides returns a copy of cfg with o applied and validated.
func ApplyOverrides(cfg *Config, o Overrides) (*Config, error) {
	out := *cfg
	out.Keybindings = mergeKeybindings(cfg.Keybindings, nil)
	out.Server.AllowOrigins = append([]string(nil), cfg.Server.AllowOrigins...)

	if o.KeepVisible != nil {
		out.Behavior.KeepVisible = *o.KeepVisible
	}
	if o.Snapping != nil {
		out.Behavior.Snapping = *o.Snapping
	}
	if o.SnapRange != nil {
		out.Behavior.SnapRange = *o.SnapRange
	}
	if o.LogLevel != nil {
		out.Logging.Level = *o.LogLevel
	}
	if o.Host != nil {
		out.Server.Host = *o.Host
	}
	if o.Port != nil {
		out.Server.Port = *o.Port
	}
	if o.NATSURL != nil {
		out.Server.NATSURL = *o.NATSURL
	}
	if o.Width != nil {
		out.Server.Width = *o.Width
	}
	if o.Height != nil {
		out.Server.Height = *o.Height
	}
	if o.TLS != nil {
		out.Server.TLS = *o.TLS
	}

	if o.SSHHost != nil {
		out.SSH.Host = *o.SSHHost
	}
	if o.SSHPort != nil {
		out.SSH.Port = *o.SSHPort
	}
	if o.SSHHostKey != nil {
		out.SSH.HostKey = *o.SSHHostKey
	}

	if o.Theme != nil {
		out.Appearance.Theme = *o.Theme
	}

	if err := out.Validate(); err != nil {
		return nil, err
	}
	return &out, nil
}
