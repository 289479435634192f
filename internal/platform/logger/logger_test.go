package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"WARN", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}

	for _, tc := range tests {
		level, err := ParseLevel(tc.input)
		if tc.wantErr {
			assert.Error(t, err, "input %q", tc.input)
			continue
		}
		require.NoError(t, err, "input %q", tc.input)
		assert.Equal(t, tc.want, level, "input %q", tc.input)
	}
}

func TestContextCarriage(t *testing.T) {
	t.Parallel()

	base := context.Background()

	_, ok := FromContext(base)
	assert.False(t, ok)
	assert.NotNil(t, FromContextOrDefault(base))

	log := slog.Default().With("component", "test")
	ctx := WithLogger(base, log)

	got, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Same(t, log, got)
	assert.Same(t, log, FromContextOrDefault(ctx))
}
