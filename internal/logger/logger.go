// Package logger wraps zerolog.Logger with the constructors clientdeck
// needs. The terminal UI owns stdout, so interactive runs log to a file.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog"
)

// Logger embeds zerolog.Logger so the full zerolog API is available.
type Logger struct {
	zerolog.Logger
}

func init() {
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return runtime.FuncForPC(pc).Name()
	}
	zerolog.CallerFieldName = "func"
}

// New returns a JSON logger writing to w at the given level name.
// An unknown level falls back to info.
func New(w io.Writer, level string) *Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	l := zerolog.New(w).Level(lvl).With().
		Str("app", "clientdeck").
		Timestamp().
		Caller().
		Logger()

	return &Logger{l}
}

// NewFileLogger appends JSON log lines to path, creating its directory.
// The returned closer releases the file.
func NewFileLogger(path, level string) (*Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file %s: %w", path, err)
	}
	return New(f, level), f, nil
}

// Nop returns a *Logger that discards all output. Used by tests and as
// the default for components built without a logger.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// Component returns a child logger carrying name as the component field.
func (l *Logger) Component(name string) *Logger {
	return &Logger{l.Logger.With().Str("component", name).Logger()}
}
