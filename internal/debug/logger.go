// Package debug provides debug logging functionality using log/slog
package debug

import (
	"io"
	"log/slog"
	"os"
	"sync"
	"time"
)

var (
	logger  *slog.Logger
	enabled bool
	mu      sync.RWMutex
)

func init() {
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Init enables or silences debug logging on os.Stderr
func Init(enable bool) {
	SetOutput(os.Stderr, enable)
}

// SetOutput routes debug logs to w. When enable is false every record is
// dropped regardless of level.
func SetOutput(w io.Writer, enable bool) {
	mu.Lock()
	defer mu.Unlock()

	enabled = enable
	level := slog.Level(slog.LevelError + 1)
	if enable {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Enabled returns whether debug logging is enabled
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Debug logs a debug message
func Debug(msg string, args ...any) { current().Debug(msg, args...) }

// Info logs an info message
func Info(msg string, args ...any) { current().Info(msg, args...) }

// Warn logs a warning message
func Warn(msg string, args ...any) { current().Warn(msg, args...) }

// Error logs an error message
func Error(msg string, args ...any) { current().Error(msg, args...) }

// With returns a logger with the given attributes
func With(args ...any) *slog.Logger { return current().With(args...) }

// Statement logs one executed statement. Failures are logged at warn level.
func Statement(op, sql string, args []interface{}, took time.Duration, err error) {
	l := current()
	if err != nil {
		l.Warn("statement failed", "op", op, "sql", sql, "args", len(args), "took", took, "error", err)
		return
	}
	l.Debug("statement", "op", op, "sql", sql, "args", len(args), "took", took)
}
