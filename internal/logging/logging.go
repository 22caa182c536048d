// Package logging holds the process-wide zerolog logger. The CLI writes
// human-readable console output to stderr; LOG_LEVEL and LOG_FORMAT=json
// switch verbosity and machine-readable output.
package logging

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var log zerolog.Logger

func init() {
	Init(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
}

// Init configures the global logger. Empty arguments select the defaults
// (info level, console format).
func Init(level, format string) {
	lvl := zerolog.InfoLevel
	if level != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(level)); err == nil {
			lvl = parsed
		}
	}

	var logger zerolog.Logger
	if strings.EqualFold(format, "json") {
		logger = zerolog.New(os.Stderr)
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	log = logger.Level(lvl).With().Timestamp().Logger()
}

// L returns the global logger.
func L() *zerolog.Logger {
	return &log
}

func Debug() *zerolog.Event { return log.Debug() }
func Info() *zerolog.Event  { return log.Info() }
func Warn() *zerolog.Event  { return log.Warn() }
func Error() *zerolog.Event { return log.Error() }
