package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

const serviceName = "notion-content-api"

// Options selects the level and output format of the service logger.
// Format "pretty" switches to console output; anything else is JSON.
type Options struct {
	Level  string
	Format string
}

// New creates a new zerolog logger with structured output, configured from
// the environment. Use it before the configuration is loaded.
func New() zerolog.Logger {
	return NewWithWriter(os.Stdout)
}

// NewWithWriter builds the environment-configured logger on top of w.
func NewWithWriter(w io.Writer) zerolog.Logger {
	return NewWithOptions(w, OptionsFromEnv())
}

// OptionsFromEnv reads LOG_LEVEL and LOG_FORMAT. ENV=development implies the
// pretty format unless LOG_FORMAT says otherwise.
func OptionsFromEnv() Options {
	format := os.Getenv("LOG_FORMAT")
	if format == "" && os.Getenv("ENV") == "development" {
		format = "pretty"
	}
	return Options{Level: os.Getenv("LOG_LEVEL"), Format: format}
}

// NewWithOptions builds the service logger on top of w
func NewWithOptions(w io.Writer, opts Options) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	logLevel := parseLevel(opts.Level)

	// Use pretty console output in development
	if opts.Format == "pretty" {
		return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
			Level(logLevel).
			With().
			Timestamp().
			Caller().
			Str("service", serviceName).
			Logger()
	}

	// JSON output for production
	return zerolog.New(w).
		Level(logLevel).
		With().
		Timestamp().
		Str("service", serviceName).
		Logger()
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
