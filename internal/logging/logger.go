// Package logging provides the zap-backed logger shared by the Wails host and
// the application code.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	wailsLogger "github.com/wailsapp/wails/v2/pkg/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures New.
type Options struct {
	// Level is one of "trace", "debug", "info", "warning", "error".
	Level string
	// File receives JSON log lines when set. The directory is created.
	File string
	// Console writes human-readable lines to stderr.
	Console bool
}

// Logger implements the Wails logger.Logger interface on top of zap.
type Logger struct {
	z     *zap.Logger
	level zap.AtomicLevel
	trace bool
}

var _ wailsLogger.Logger = (*Logger)(nil)

// New builds a logger writing to the console and/or a file.
func New(opts Options) (*Logger, error) {
	zl, trace := ParseLevel(opts.Level)
	level := zap.NewAtomicLevelAt(zl)

	var cores []zapcore.Core
	if opts.Console {
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stderr), level))
	}
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		encCfg := zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(f), level))
	}

	return &Logger{
		z:     zap.New(zapcore.NewTee(cores...)),
		level: level,
		trace: trace,
	}, nil
}

// NewWithCore wraps an existing zap core. Used by tests with zaptest/observer.
func NewWithCore(core zapcore.Core) *Logger {
	return &Logger{
		z:     zap.New(core),
		level: zap.NewAtomicLevelAt(zapcore.DebugLevel),
	}
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{z: zap.NewNop(), level: zap.NewAtomicLevelAt(zapcore.InfoLevel)}
}

// ParseLevel maps a Wails-style level name to a zap level.
// Trace has no zap equivalent; it maps to debug and reports true.
func ParseLevel(level string) (zapcore.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zapcore.DebugLevel, true
	case "debug":
		return zapcore.DebugLevel, false
	case "warning", "warn":
		return zapcore.WarnLevel, false
	case "error":
		return zapcore.ErrorLevel, false
	default:
		return zapcore.InfoLevel, false
	}
}

// WailsLevel returns the level to hand to the Wails runtime.
func (l *Logger) WailsLevel() wailsLogger.LogLevel {
	if l.trace {
		return wailsLogger.TRACE
	}
	switch l.level.Level() {
	case zapcore.DebugLevel:
		return wailsLogger.DEBUG
	case zapcore.WarnLevel:
		return wailsLogger.WARNING
	case zapcore.ErrorLevel, zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		return wailsLogger.ERROR
	default:
		return wailsLogger.INFO
	}
}

// With returns a child logger carrying the given fields.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{z: l.z.With(fields...), level: l.level, trace: l.trace}
}

// Named returns a child logger for a component.
func (l *Logger) Named(name string) *Logger {
	return &Logger{z: l.z.Named(name), level: l.level, trace: l.trace}
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.z.Sync()
}

func (l *Logger) Print(message string) {
	l.z.Info(message)
}

func (l *Logger) Trace(message string) {
	if l.trace {
		l.z.Debug(message, zap.Bool("trace", true))
	}
}

func (l *Logger) Debug(message string) {
	l.z.Debug(message)
}

func (l *Logger) Info(message string) {
	l.z.Info(message)
}

func (l *Logger) Warning(message string) {
	l.z.Warn(message)
}

func (l *Logger) Error(message string) {
	l.z.Error(message)
}

// Fatal logs at fatal level and exits the process.
func (l *Logger) Fatal(message string) {
	l.z.Fatal(message)
}
