package logger

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// newObserved returns an adapter whose entries are captured at level.
func newObserved(level zapcore.Level) (*ZapAdapter, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return NewZapAdapter(zap.New(core)), logs
}

func TestNewZapAdapter(t *testing.T) {
	adapter := NewZapAdapter(zap.NewNop())

	assert.NotNil(t, adapter)
}

func TestZapAdapter_Info(t *testing.T) {
	adapter, logs := newObserved(zapcore.DebugLevel)
	ctx := context.Background()

	adapter.Info(ctx, "test message", map[string]any{"key": "value"})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.InfoLevel, entry.Level)
	assert.Equal(t, "test message", entry.Message)
	assert.Equal(t, map[string]interface{}{"key": "value"}, entry.ContextMap())
}

func TestZapAdapter_Debug(t *testing.T) {
	adapter, logs := newObserved(zapcore.DebugLevel)
	ctx := context.Background()

	adapter.Debug(ctx, "debug message", map[string]any{"debug": true})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.DebugLevel, entry.Level)
	assert.Equal(t, "debug message", entry.Message)
	assert.Equal(t, map[string]interface{}{"debug": true}, entry.ContextMap())
}

func TestZapAdapter_Warn(t *testing.T) {
	adapter, logs := newObserved(zapcore.DebugLevel)
	ctx := context.Background()

	adapter.Warn(ctx, "warn message", nil)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.WarnLevel, logs.All()[0].Level)
	assert.Empty(t, logs.All()[0].Context)
}

func TestZapAdapter_Error(t *testing.T) {
	adapter, logs := newObserved(zapcore.DebugLevel)
	ctx := context.Background()

	adapter.Error(ctx, "error message", assert.AnError, map[string]any{"error_context": "test"})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	assert.Equal(t, "error message", entry.Message)
	assert.Equal(t, map[string]interface{}{
		"error_context": "test",
		"error":         assert.AnError.Error(),
	}, entry.ContextMap())
}

func TestZapAdapter_ErrorWithoutErr(t *testing.T) {
	adapter, logs := newObserved(zapcore.DebugLevel)

	adapter.Error(context.Background(), "fatal: boom", nil, nil)

	require.Equal(t, 1, logs.Len())
	assert.Empty(t, logs.All()[0].Context)
}

func TestZapAdapter_LevelFiltering(t *testing.T) {
	adapter, logs := newObserved(zapcore.ErrorLevel)
	ctx := context.Background()

	adapter.Debug(ctx, "hidden", nil)
	adapter.Info(ctx, "hidden", nil)
	adapter.Warn(ctx, "hidden", nil)
	adapter.Error(ctx, "shown", nil, nil)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "shown", logs.All()[0].Message)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{level: "debug", want: zapcore.DebugLevel},
		{level: "DEBUG", want: zapcore.DebugLevel},
		{level: "info", want: zapcore.InfoLevel},
		{level: "warn", want: zapcore.WarnLevel},
		{level: "warning", want: zapcore.WarnLevel},
		{level: "error", want: zapcore.ErrorLevel},
		{level: "", want: zapcore.ErrorLevel},
		{level: "verbose", want: zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.level))
		})
	}
}

func TestNew(t *testing.T) {
	for _, format := range []string{FormatConsole, FormatJSON} {
		t.Run(format, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "log.txt")

			adapter, err := New(Options{
				Level:       "info",
				Format:      format,
				Name:        "plox-version",
				OutputPaths: []string{out},
			})
			require.NoError(t, err)

			adapter.Info(context.Background(), "hello", map[string]any{"path": "."})
			require.NoError(t, adapter.Sync())

			assert.FileExists(t, out)
		})
	}
}

func TestNew_NoStacktrace(t *testing.T) {
	for _, format := range []string{FormatConsole, FormatJSON} {
		t.Run(format, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "log.txt")

			adapter, err := New(Options{
				Level:       "debug",
				Format:      format,
				OutputPaths: []string{out},
			})
			require.NoError(t, err)

			adapter.Warn(context.Background(), "git stderr", nil)
			adapter.Error(context.Background(), "failed to resolve version", errors.New("boom"), nil)
			require.NoError(t, adapter.Sync())

			content, err := os.ReadFile(out)
			require.NoError(t, err)
			lines := strings.Split(strings.TrimSpace(string(content)), "\n")
			assert.Len(t, lines, 2)
			assert.NotContains(t, string(content), "stacktrace")
		})
	}
}
