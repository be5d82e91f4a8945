// Package logger owns the process-wide zerolog instance. Components log
// through GetLogger; cmd/server reconfigures it from LOG_LEVEL and
// LOG_FORMAT once config is loaded.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	global zerolog.Logger
	once   sync.Once
)

// GetLogger returns the process logger. Before New runs it defaults to
// console output at info level so early startup diagnostics are readable.
func GetLogger() zerolog.Logger {
	once.Do(func() {
		global = build(zerolog.InfoLevel, "console")
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	})
	return global
}

// New reconfigures the process logger from config values and returns it.
func New(level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("parse log level: %w", err)
	}

	format = strings.ToLower(format)
	switch format {
	case "console", "json":
	default:
		return zerolog.Logger{}, fmt.Errorf("unsupported log format %q", format)
	}

	zerolog.SetGlobalLevel(lvl)
	global = build(lvl, format)
	return global, nil
}

func build(lvl zerolog.Level, format string) zerolog.Logger {
	var out io.Writer = os.Stdout
	if format == "console" {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).With().Timestamp().Logger().Level(lvl)
}
