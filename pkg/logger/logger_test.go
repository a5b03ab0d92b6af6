package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zap.DebugLevel},
		{"DEBUG", zap.DebugLevel},
		{"warn", zap.WarnLevel},
		{"warning", zap.WarnLevel},
		{" error ", zap.ErrorLevel},
		{"", zap.InfoLevel},
		{"verbose", zap.InfoLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), tt.in)
	}
}

func TestNewLogger(t *testing.T) {
	l, err := NewLogger("production", "warn")
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zap.InfoLevel))
	assert.True(t, l.Core().Enabled(zap.WarnLevel))

	l, err = NewLogger("development", "debug")
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zap.DebugLevel))
}
