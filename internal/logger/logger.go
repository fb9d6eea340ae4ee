// ===============================
// internal/logger/logger.go - Structured Logging
// ===============================

package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New creates a logger with the given level. Debug mode writes human readable
// console output, everything else writes JSON lines.
func New(level, environment string) zerolog.Logger {
	zerolog.SetGlobalLevel(parseLogLevel(level))
	zerolog.TimeFieldFormat = time.RFC3339

	var out io.Writer = os.Stdout
	if environment == "debug" {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	}

	return zerolog.New(out).
		With().
		Timestamp().
		Str("app", "videotube").
		Logger()
}

// Nop returns a disabled logger, used by tests and optional components
func Nop() zerolog.Logger {
	return zerolog.Nop()
}

// parseLogLevel parses log level string to zerolog.Level
func parseLogLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}
