package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"pkt.systems/pslog"

	"github.com/nolindnaidoo/termfolio/internal/appconfig"
)

// openLogFile returns a size-rotated writer for cfg.File, or nil when no
// file is configured.
func openLogFile(cfg appconfig.LoggingConfig) (*lumberjack.Logger, error) {
	path := strings.TrimSpace(cfg.File)
	if path == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}, nil
}

// withLogFile swaps the context logger for one that also writes structured
// records to the configured log file. When console is nil the file is the
// only destination, and with no file configured nothing is logged at all.
func withLogFile(ctx context.Context, cfg appconfig.LoggingConfig, console io.Writer) (context.Context, func() error, error) {
	file, err := openLogFile(cfg)
	if err != nil {
		return ctx, nil, err
	}
	closeFn := func() error { return nil }
	var out io.Writer
	switch {
	case file != nil && console != nil:
		out = io.MultiWriter(console, file)
		closeFn = file.Close
	case file != nil:
		out = file
		closeFn = file.Close
	case console != nil:
		return ctx, closeFn, nil
	default:
		out = io.Discard
	}
	logger := pslog.NewWithOptions(out, pslog.Options{
		Mode:     pslog.ModeStructured,
		NoColor:  true,
		MinLevel: pslog.InfoLevel,
	})
	return pslog.ContextWithLogger(ctx, logger), closeFn, nil
}
