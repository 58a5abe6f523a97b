// Package logger provides a simple leveled logger for the application.
// It supports three levels: off (no output), normal (info/warn/error),
// and verbose (includes debug). Output goes through log/slog with a tint
// handler for terminals, or a JSON/text handler when requested. The
// logger is safe for concurrent use.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// Level controls the verbosity of the logger.
type Level int

const (
	// LevelOff disables all log output.
	LevelOff Level = iota
	// LevelNormal enables info, warn, and error output.
	LevelNormal
	// LevelVerbose enables all output including debug.
	LevelVerbose
)

// ParseLevel converts "off", "normal" or "verbose" to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "quiet":
		return LevelOff, nil
	case "", "normal", "info":
		return LevelNormal, nil
	case "verbose", "debug":
		return LevelVerbose, nil
	default:
		return LevelNormal, fmt.Errorf("unknown log level %q", s)
	}
}

// Output formats.
const (
	FormatTint = "tint"
	FormatJSON = "json"
	FormatText = "text"
)

// Option configures the logger.
type Option func(*options)

type options struct {
	format string
}

// WithFormat selects the slog handler: "tint" (default), "json" or "text".
func WithFormat(format string) Option {
	return func(o *options) {
		o.format = format
	}
}

// Logger is a leveled logger. All methods are safe for concurrent use.
type Logger struct {
	mu    sync.RWMutex
	level Level
	slog  *slog.Logger
}

// New creates a logger with the given level, writing to the given output.
// If out is nil, os.Stderr is used.
func New(level Level, out io.Writer, opts ...Option) *Logger {
	if out == nil {
		out = os.Stderr
	}
	o := options{format: FormatTint}
	for _, opt := range opts {
		opt(&o)
	}

	// The handler lets everything through; Logger gates on its own level
	// so SetLevel works without rebuilding the handler.
	var h slog.Handler
	switch o.format {
	case FormatJSON:
		h = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug})
	case FormatText:
		h = slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug})
	default:
		h = tint.NewHandler(out, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.TimeOnly,
			NoColor:    !isTerminal(out),
		})
	}

	return &Logger{level: level, slog: slog.New(h)}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// SetLevel changes the log level at runtime.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// GetLevel returns the current log level.
func (l *Logger) GetLevel() Level {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

func (l *Logger) log(min Level, lvl slog.Level, format string, args ...any) {
	l.mu.RLock()
	enabled := l.level >= min
	l.mu.RUnlock()
	if !enabled {
		return
	}
	l.slog.Log(context.Background(), lvl, fmt.Sprintf(format, args...))
}

// Debug logs a message at debug level (only visible in verbose mode).
func (l *Logger) Debug(format string, args ...any) {
	l.log(LevelVerbose, slog.LevelDebug, format, args...)
}

// Info logs a message at info level.
func (l *Logger) Info(format string, args ...any) {
	l.log(LevelNormal, slog.LevelInfo, format, args...)
}

// Warn logs a message at warn level.
func (l *Logger) Warn(format string, args ...any) {
	l.log(LevelNormal, slog.LevelWarn, format, args...)
}

// Error logs a message at error level.
func (l *Logger) Error(format string, args ...any) {
	l.log(LevelNormal, slog.LevelError, format, args...)
}
