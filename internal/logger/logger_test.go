package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in       string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.in))
		})
	}
}

func TestAPIResult(t *testing.T) {
	var buf bytes.Buffer
	InitializeWithWriter("debug", "json", &buf)
	ctx := context.Background()

	t.Run("Failure logs at error level", func(t *testing.T) {
		buf.Reset()
		APIResult(ctx, "login", 401, 5*time.Millisecond, errors.New("Login failed"), "req-1")

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "ERROR", line["level"])
		assert.Equal(t, "login", line["op"])
		assert.Equal(t, "Login failed", line["error"])
		assert.Equal(t, "req-1", line["request_id"])
	})

	t.Run("Success logs at debug level", func(t *testing.T) {
		buf.Reset()
		APIResult(ctx, "list_cars", 200, time.Millisecond, nil, "req-2")

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "DEBUG", line["level"])
		assert.Equal(t, float64(200), line["status"])
	})

	t.Run("Debug suppressed at info level", func(t *testing.T) {
		InitializeWithWriter("info", "text", &buf)
		buf.Reset()
		APICall(ctx, "list_cars", "GET", "/car/get-available-cars", "req-3")
		assert.Empty(t, buf.String())
	})
}
