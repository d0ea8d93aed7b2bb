// Package logging provides zerolog-based structured logging for ampcalc.
//
// Loggers are propagated through context.Context; components retrieve the
// ambient logger with FromContext and tag their events with a component
// field via ComponentLogger.
package logging

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Format names accepted in configuration.
const (
	// FormatConsole renders human-readable console output.
	FormatConsole = "console"

	// FormatJSON renders newline-delimited JSON events.
	FormatJSON = "json"
)

// Config controls logger construction.
type Config struct {
	// Level is the minimum level to emit: trace, debug, info, warn, error.
	Level string

	// Format selects console or json output.
	Format string

	// Output is the destination writer. Defaults to os.Stderr when nil.
	Output io.Writer
}

// NewLogger builds a zerolog.Logger from the given configuration.
// Unknown levels fall back to info; unknown formats fall back to console.
func NewLogger(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	if cfg.Format != FormatJSON {
		out = zerolog.ConsoleWriter{Out: out}
	}

	level := parseLevel(cfg.Level)
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// parseLevel maps a level string to a zerolog level, defaulting to info.
func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// ComponentLogger returns a child logger tagged with a component name.
func ComponentLogger(logger zerolog.Logger, component string) zerolog.Logger {
	return logger.With().Str("component", component).Logger()
}

// FromContext returns the logger stored in ctx, or a disabled logger when
// none is present. Never returns nil semantics; safe to call on any context.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// WithContext stores the logger in the context for later FromContext calls.
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return logger.WithContext(ctx)
}
