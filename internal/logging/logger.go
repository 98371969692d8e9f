// Package logging builds the zerolog logger used by the CLI.
package logging

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
)

// New returns a logger writing to w. Format "console" gives human-readable
// lines; anything else gives JSON with timestamps and callers.
func New(w io.Writer, level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("log level %q: %w", level, err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	if format == "console" {
		return zerolog.New(zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		}).Level(lvl).With().
			Timestamp().
			Str("service", "clinicstats").
			Logger(), nil
	}
	return zerolog.New(w).Level(lvl).
		With().
		Timestamp().
		Caller().
		Str("service", "clinicstats").
		Logger(), nil
}
