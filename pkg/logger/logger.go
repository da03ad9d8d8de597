// Package logger builds the *slog.Logger every artomo command and service
// logs through.
package logger

import (
	"io"
	"log/slog"
	"os"

	charmlog "github.com/charmbracelet/log"
)

type config struct {
	level   slog.Level
	pretty  bool
	json    bool
	service string
	writers []io.Writer
}

// New builds a *slog.Logger. Without options it writes Info level text to
// os.Stderr, leaving stdout for command output.
func New(opts ...Option) *slog.Logger {
	c := &config{level: slog.LevelInfo}
	for _, opt := range opts {
		opt(c)
	}

	var w io.Writer = os.Stderr
	if len(c.writers) == 1 {
		w = c.writers[0]
	} else if len(c.writers) > 1 {
		w = io.MultiWriter(c.writers...)
	}

	var handler slog.Handler
	switch {
	case c.json:
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: c.level})
	case c.pretty:
		handler = charmlog.NewWithOptions(w, charmlog.Options{
			Level:           charmlog.Level(c.level),
			ReportTimestamp: true,
			Prefix:          c.service,
		})
	default:
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.level})
	}

	l := slog.New(handler)
	if c.service != "" && !c.pretty {
		l = l.With("service", c.service)
	}
	return l
}

// Nop returns a logger that discards everything.
func Nop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
