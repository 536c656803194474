// Package logger installs the process-wide slog logger.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// LevelFromString parses a level name. Unknown names yield info and false.
func LevelFromString(s string) (l slog.Level, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "dbg":
		return slog.LevelDebug, true
	case "info", "inf", "":
		return slog.LevelInfo, true
	case "warn", "wrn", "warning":
		return slog.LevelWarn, true
	case "error", "err":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// New returns a text logger writing to w at the given level
func New(w io.Writer, level string) *slog.Logger {
	loglevel, _ := LevelFromString(level)
	// slog defaults to logging in the order of time, level, msg, and other attributes.
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: loglevel}))
}

// Init installs the default logger. With an empty path it logs to stderr;
// otherwise it appends to the file, creating its directory. The returned
// closer releases the file and is never nil.
func Init(path, level string) (io.Closer, error) {
	if path == "" {
		slog.SetDefault(New(os.Stderr, level))
		return nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nopCloser{}, fmt.Errorf("failed to create log directory: %w", err)
	}

	logFile, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nopCloser{}, fmt.Errorf("failed to open log file: %w", err)
	}

	slog.SetDefault(New(logFile, level))
	return logFile, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
