package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{" WARN ", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"info", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.in), tt.in)
	}
}

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		l, err := NewLogger("debug", format)
		require.NoError(t, err, format)
		require.NotNil(t, l)
	}
}

func TestLoggerStructuredFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewLoggerFromCore(core).Named("loader").With("snapshot_id", "abc")

	l.Info("loaded %d rows", 3)
	l.Warnw("slow load", "table", "ranking")

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, "loaded 3 rows", entries[0].Message)
	assert.Equal(t, "loader", entries[0].LoggerName)
	assert.Equal(t, "abc", entries[0].ContextMap()["snapshot_id"])

	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "ranking", entries[1].ContextMap()["table"])
}
