package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	t.Run("creates a logger from the default config", func(t *testing.T) {
		log, err := New(DefaultConfig())

		require.NoError(t, err)
		require.NotNil(t, log)
		log.Info("test message")
	})

	t.Run("creates a json logger", func(t *testing.T) {
		log, err := New(&Config{Level: "debug", Format: "json", Output: "stderr"})

		require.NoError(t, err)
		assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"WARN", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"unknown", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.input))
		})
	}
}

func TestSync(t *testing.T) {
	log, err := New(&Config{Level: "info", Format: "json", Output: "stderr"})
	require.NoError(t, err)

	// Sync on stderr may return an error on some platforms; it must not panic.
	_ = Sync(log)
}
