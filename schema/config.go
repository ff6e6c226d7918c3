package schema

import (
	"errors"
	"time"
)

// TerminalConfig defines pacing and limits for terminal sessions.
type TerminalConfig struct {
	// ProcessingDelay is the pause between a command echo and its output.
	ProcessingDelay time.Duration
	// BootLineDelay is the pause between consecutive boot lines.
	BootLineDelay time.Duration
	// BufferMaxLines trims the oldest lines when > 0. Zero keeps every line.
	BufferMaxLines int
	// ProbeTimeout bounds the IP lookup performed during boot.
	ProbeTimeout time.Duration
	// DisableAuditLogging disables debug records for executed commands.
	DisableAuditLogging bool
}

// Default pacing, matching the typing cadence of the boot banner.
const (
	DefaultProcessingDelay = 100 * time.Millisecond
	DefaultBootLineDelay   = 100 * time.Millisecond
	DefaultProbeTimeout    = 2 * time.Second
)

// NormalizeTerminalConfig applies defaults and validates the config.
// Negative delays are rejected; zero delays are kept so tests can run without pacing.
func NormalizeTerminalConfig(cfg TerminalConfig) (TerminalConfig, error) {
	if cfg.ProcessingDelay < 0 || cfg.BootLineDelay < 0 {
		return TerminalConfig{}, errors.New("terminal delays must not be negative")
	}
	if cfg.BufferMaxLines < 0 {
		return TerminalConfig{}, errors.New("buffer max lines must not be negative")
	}
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = DefaultProbeTimeout
	}
	return cfg, nil
}

// DefaultTerminalConfig returns the production pacing.
func DefaultTerminalConfig() TerminalConfig {
	return TerminalConfig{
		ProcessingDelay: DefaultProcessingDelay,
		BootLineDelay:   DefaultBootLineDelay,
		ProbeTimeout:    DefaultProbeTimeout,
	}
}
