package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"debug", zapcore.DebugLevel, false},
		{"info", zapcore.InfoLevel, false},
		{"WARN", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"loud", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(Config{Level: "chatty"})
	assert.Error(t, err)
}

func TestSetLevel(t *testing.T) {
	logger, err := New(Config{Level: "info", OutputPaths: []string{"stderr"}})
	require.NoError(t, err)

	assert.Equal(t, zapcore.InfoLevel, logger.Level())
	require.NoError(t, logger.SetLevel("debug"))
	assert.Equal(t, zapcore.DebugLevel, logger.Level())
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
	assert.Error(t, logger.SetLevel("nope"))
}

func TestIsProduction(t *testing.T) {
	t.Setenv("ENV", "production")
	assert.True(t, IsProduction())

	t.Setenv("ENV", "dev")
	assert.False(t, IsProduction())
}

func TestNopLogger(t *testing.T) {
	logger := NewNop()
	assert.NotPanics(t, func() {
		logger.Component("tabs").Info("ignored")
	})
}
