package appconfig

import (
	"os"
	"path/filepath"

	"github.com/nolindnaidoo/termfolio/internal/probe"
	"github.com/nolindnaidoo/termfolio/schema"
)

// Config is the top-level application configuration.
type Config struct {
	ConfigVersion int            `mapstructure:"config_version" yaml:"config_version"`
	ProfilePath   string         `mapstructure:"profile_path" yaml:"profile_path"`
	Terminal      TerminalConfig `mapstructure:"terminal" yaml:"terminal"`
	HTTP          HTTPConfig     `mapstructure:"http" yaml:"http"`
	SSH           SSHConfig      `mapstructure:"ssh" yaml:"ssh"`
	Logging       LoggingConfig  `mapstructure:"logging" yaml:"logging"`
}

// CurrentConfigVersion marks the supported config version.
const CurrentConfigVersion = 1

// TerminalConfig controls session pacing and the IP lookup.
type TerminalConfig struct {
	ProcessingDelayMS int    `mapstructure:"processing_delay_ms" yaml:"processing_delay_ms"`
	BootLineDelayMS   int    `mapstructure:"boot_line_delay_ms" yaml:"boot_line_delay_ms"`
	BufferMaxLines    int    `mapstructure:"buffer_max_lines" yaml:"buffer_max_lines"`
	LookupEndpoint    string `mapstructure:"lookup_endpoint" yaml:"lookup_endpoint"`
	LookupTimeoutMS   int    `mapstructure:"lookup_timeout_ms" yaml:"lookup_timeout_ms"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Addr            string `mapstructure:"addr" yaml:"addr"`
	SessionCookie   string `mapstructure:"session_cookie" yaml:"session_cookie"`
	SessionTTLHours int    `mapstructure:"session_ttl_hours" yaml:"session_ttl_hours"`
	BaseURL         string `mapstructure:"base_url" yaml:"base_url"`
	BasePath        string `mapstructure:"base_path" yaml:"base_path"`
	HubHistory      int    `mapstructure:"hub_history" yaml:"hub_history"`
}

// SSHConfig configures the SSH server.
type SSHConfig struct {
	Addr        string `mapstructure:"addr" yaml:"addr"`
	HostKeyPath string `mapstructure:"host_key_path" yaml:"host_key_path"`
	Theme       string `mapstructure:"theme" yaml:"theme"`
	QR          bool   `mapstructure:"qr" yaml:"qr"`
}

// LoggingConfig controls audit records and the optional rotated log file.
type LoggingConfig struct {
	DisableAuditTrails bool   `mapstructure:"disable_audit_trails" yaml:"disable_audit_trails"`
	File               string `mapstructure:"file" yaml:"file"`
	MaxSizeMB          int    `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups         int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAgeDays         int    `mapstructure:"max_age_days" yaml:"max_age_days"`
	Compress           bool   `mapstructure:"compress" yaml:"compress"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, err
	}
	terminal := schema.DefaultTerminalConfig()
	return Config{
		ConfigVersion: CurrentConfigVersion,
		ProfilePath:   "",
		Terminal: TerminalConfig{
			ProcessingDelayMS: int(terminal.ProcessingDelay.Milliseconds()),
			BootLineDelayMS:   int(terminal.BootLineDelay.Milliseconds()),
			BufferMaxLines:    terminal.BufferMaxLines,
			LookupEndpoint:    probe.DefaultEndpoint,
			LookupTimeoutMS:   int(terminal.ProbeTimeout.Milliseconds()),
		},
		HTTP: HTTPConfig{
			Addr:            ":8080",
			SessionCookie:   "termfolio_session",
			SessionTTLHours: 24,
			BaseURL:         "",
			BasePath:        "",
			HubHistory:      500,
		},
		SSH: SSHConfig{
			Addr:        ":2222",
			HostKeyPath: filepath.Join(home, ".termfolio", "ssh_host_key"),
			Theme:       string(schema.DefaultTheme),
			QR:          true,
		},
		Logging: LoggingConfig{
			DisableAuditTrails: false,
			File:               "",
			MaxSizeMB:          10,
			MaxBackups:         3,
			MaxAgeDays:         28,
			Compress:           true,
		},
	}, nil
}

// DefaultConfigPath returns the standard config path.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".termfolio", "config.yaml"), nil
}
