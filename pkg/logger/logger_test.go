package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		development bool
		expectError bool
		enabled     zapcore.Level
	}{
		{name: "success: default level", enabled: zapcore.InfoLevel},
		{name: "success: debug development", level: "debug", development: true, enabled: zapcore.DebugLevel},
		{name: "failure: unknown level", level: "loud", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewLogger(tt.level, tt.development)
			if tt.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, l.Core().Enabled(tt.enabled))
		})
	}
}

func TestFromContext(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))

	l := zap.NewExample()
	ctx := WithLogger(context.Background(), l)
	assert.Same(t, l, FromContext(ctx))
}
