package server

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-jsonform/internal/config"
)

// NewLogger builds the root logger. A nil out writes to stdout.
func NewLogger(cfg config.LoggingConfig, out io.Writer) zerolog.Logger {
	if out == nil {
		out = os.Stdout
	}
	if cfg.Format == "console" {
		return zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}).
			With().Timestamp().Logger().Level(cfg.ParsedLevel())
	}
	return zerolog.New(out).With().Timestamp().Logger().Level(cfg.ParsedLevel())
}
