// File: logger/logger.go
// Package logger is the thin glue between the lifecycle coordinator and the
// leveled, structured logging core from github.com/joeycumines/logiface,
// backed by the zero-allocation-oriented github.com/joeycumines/stumpy
// writer. It carries the identifier and level state the rest of the
// framework logs through: Init(ident, daemon), SetLevel(level),
// Started(), plus one emit function per level.
// Author: trema-go
// License: Apache-2.0
package logger

import (
	"fmt"
	"os"
	"sync"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Level names accepted by SetLevel, matching the --logging_level CLI values.
const (
	LevelCritical = "critical"
	LevelError    = "error"
	LevelWarn     = "warn"
	LevelNotice   = "notice"
	LevelInfo     = "info"
	LevelDebug    = "debug"
)

var levelByName = map[string]logiface.Level{
	LevelCritical: logiface.LevelCritical,
	LevelError:    logiface.LevelError,
	LevelWarn:     logiface.LevelWarning,
	LevelNotice:   logiface.LevelNotice,
	LevelInfo:     logiface.LevelInformational,
	LevelDebug:    logiface.LevelDebug,
}

// Logger wraps a logiface.Logger configured with the stumpy backend. It is
// not safe to mutate concurrently with emitting; re-running Init is expected
// to happen only under the lifecycle coordinator's process-wide lock.
type Logger struct {
	mu      sync.Mutex
	ident   string
	daemon  bool
	started bool
	inner   *logiface.Logger[*stumpy.Event]
}

// New constructs a Logger that has not yet been started. Use Init to start
// it, matching the source's two-phase "construct, then init_log" idiom as
// seen through the lifecycle coordinator.
func New() *Logger {
	return &Logger{}
}

// Init (re)configures and starts logging for ident. When daemon is true,
// output goes to stderr same as foreground mode: daemonising only detaches
// the process, it never silences the log (callers that redirect stderr to
// a file when daemonising should do so before calling Init, mirroring the
// source's daemon.c behaviour).
func (l *Logger) Init(ident string, daemon bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.ident = ident
	l.daemon = daemon
	l.inner = stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(os.Stderr)),
		stumpy.L.WithLevel(logiface.LevelInformational),
	)
	l.started = true
	return nil
}

// Started reports whether Init has been called at least once.
func (l *Logger) Started() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.started
}

// Ident returns the identifier logging was last initialised with.
func (l *Logger) Ident() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ident
}

// SetLevel changes the minimum emitted level. level must be one of the
// LevelXxx constants; any other value is rejected with an error.
func (l *Logger) SetLevel(level string) error {
	lv, ok := levelByName[level]
	if !ok {
		return fmt.Errorf("logger: unknown logging level %q", level)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.inner == nil {
		return fmt.Errorf("logger: not initialised")
	}
	l.inner = stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(os.Stderr)),
		stumpy.L.WithLevel(lv),
	)
	return nil
}

func (l *Logger) emit(build func(*logiface.Logger[*stumpy.Event]) *logiface.Builder[*stumpy.Event], format string, args ...any) {
	l.mu.Lock()
	inner := l.inner
	l.mu.Unlock()
	if inner == nil {
		return
	}
	build(inner).Log(fmt.Sprintf(format, args...))
}

// Critical logs at critical severity.
func (l *Logger) Critical(format string, args ...any) {
	l.emit(func(lg *logiface.Logger[*stumpy.Event]) *logiface.Builder[*stumpy.Event] { return lg.Crit() }, format, args...)
}

// Error logs at error severity.
func (l *Logger) Error(format string, args ...any) {
	l.emit(func(lg *logiface.Logger[*stumpy.Event]) *logiface.Builder[*stumpy.Event] { return lg.Err() }, format, args...)
}

// Warn logs at warning severity.
func (l *Logger) Warn(format string, args ...any) {
	l.emit(func(lg *logiface.Logger[*stumpy.Event]) *logiface.Builder[*stumpy.Event] { return lg.Warning() }, format, args...)
}

// Notice logs at notice severity.
func (l *Logger) Notice(format string, args ...any) {
	l.emit(func(lg *logiface.Logger[*stumpy.Event]) *logiface.Builder[*stumpy.Event] { return lg.Notice() }, format, args...)
}

// Info logs at informational severity.
func (l *Logger) Info(format string, args ...any) {
	l.emit(func(lg *logiface.Logger[*stumpy.Event]) *logiface.Builder[*stumpy.Event] { return lg.Info() }, format, args...)
}

// Debug logs at debug severity.
func (l *Logger) Debug(format string, args ...any) {
	l.emit(func(lg *logiface.Logger[*stumpy.Event]) *logiface.Builder[*stumpy.Event] { return lg.Debug() }, format, args...)
}
