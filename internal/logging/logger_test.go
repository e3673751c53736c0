package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	wailsLogger "github.com/wailsapp/wails/v2/pkg/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input     string
		want      zapcore.Level
		wantTrace bool
	}{
		{"trace", zapcore.DebugLevel, true},
		{"debug", zapcore.DebugLevel, false},
		{"info", zapcore.InfoLevel, false},
		{"warning", zapcore.WarnLevel, false},
		{"WARN", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"", zapcore.InfoLevel, false},
		{"bogus", zapcore.InfoLevel, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, trace := ParseLevel(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantTrace, trace)
		})
	}
}

func TestWailsLevel(t *testing.T) {
	tests := []struct {
		level string
		want  wailsLogger.LogLevel
	}{
		{"trace", wailsLogger.TRACE},
		{"debug", wailsLogger.DEBUG},
		{"info", wailsLogger.INFO},
		{"warning", wailsLogger.WARNING},
		{"error", wailsLogger.ERROR},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			l, err := New(Options{Level: tt.level})
			require.NoError(t, err)
			assert.Equal(t, tt.want, l.WailsLevel())
		})
	}
}

func TestLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "desktop.log")

	l, err := New(Options{Level: "info", File: path})
	require.NoError(t, err)

	l.Debug("hidden")
	l.With(zap.String("plugin", "store")).Warning("store file corrupt")
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "store file corrupt")
	assert.Contains(t, content, `"plugin":"store"`)
	assert.False(t, strings.Contains(content, "hidden"), "debug entries should be filtered at info level")
}

func TestLoggerLevelsMapToZap(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewWithCore(core)

	l.Print("print")
	l.Trace("trace is dropped without trace level")
	l.Debug("debug")
	l.Info("info")
	l.Warning("warning")
	l.Error("error")

	entries := logs.AllUntimed()
	require.Len(t, entries, 5)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, zapcore.DebugLevel, entries[1].Level)
	assert.Equal(t, zapcore.InfoLevel, entries[2].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[3].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[4].Level)
}

func TestNamedLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := NewWithCore(core).Named("shell")

	l.Info("spawned")

	entries := logs.AllUntimed()
	require.Len(t, entries, 1)
	assert.Equal(t, "shell", entries[0].LoggerName)
}
