package log

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ezoic/lifeexp/pkg/errors"
)

// Options configures the global logger.
type Options struct {
	// Level is a zerolog level name ("debug", "info", ...).
	Level string
	// Format is "console" (default) or "json".
	Format string
	// File, when set, receives JSON logs rotated by size in addition to stderr.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Configure installs a global provider built from opts and points the
// zerolog global logger at the same output.
func Configure(opts Options) error {
	switch opts.Format {
	case "", "console", "json":
	default:
		return errors.NewValidationError("log.format", "must be console or json", opts.Format)
	}

	var console io.Writer = os.Stderr
	if opts.Format != "json" {
		console = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	}

	w := console
	if opts.File != "" {
		w = zerolog.MultiLevelWriter(console, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
		})
	}

	level := ToLogLevel(opts.Level)
	p := NewZerologProviderWithWriter(w, level)
	SetProvider(p)
	zlog.Logger = p.base
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	return nil
}
