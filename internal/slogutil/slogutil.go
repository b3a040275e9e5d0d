package slogutil

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// LevelSilent is above every standard level.
const LevelSilent = slog.Level(100)

// Format selects the handler used by New.
type Format string

const (
	FormatHuman Format = "human"
	FormatJSON  Format = "json"
)

// New creates a logger for the given format. Unknown formats fall back to human.
func New(w io.Writer, format Format, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == FormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(NewLineHandler(w, opts))
}

// NewLogger creates a human-format logger.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return New(w, FormatHuman, level)
}

// NewFileLogger creates a logger that appends to path, creating it if needed.
// The caller owns the returned file.
func NewFileLogger(path string, format Format, level slog.Level) (*slog.Logger, *os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}
	return New(f, format, level), f, nil
}

// NewDiscardLogger creates a logger that discards all output.
func NewDiscardLogger() *slog.Logger {
	return slog.New(NewLineHandler(io.Discard, &slog.HandlerOptions{Level: LevelSilent}))
}

// LevelFromString converts debug, info, warn or error (any case) to a level.
// Unrecognized strings map to info.
func LevelFromString(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "silent", "off":
		return LevelSilent
	default:
		return slog.LevelInfo
	}
}

// LevelFromVerbosity converts CLI flags to a level:
// quiet silences everything, 0 is warn, 1 is info, 2 and above is debug.
func LevelFromVerbosity(verbosity int, quiet bool) slog.Level {
	if quiet {
		return LevelSilent
	}
	switch verbosity {
	case 0:
		return slog.LevelWarn
	case 1:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}
