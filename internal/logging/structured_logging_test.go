package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStructuredLogger(t *testing.T) {
	t.Run("creates JSON logger with correct level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		logger.Info("test message", slog.String("key", "value"))
		logger.Debug("debug message")

		output := buf.String()
		assert.Contains(t, output, `"msg":"test message"`)
		assert.Contains(t, output, `"key":"value"`)
		assert.NotContains(t, output, "debug message")
	})
}

func TestLoggerHelpers(t *testing.T) {
	t.Run("LogError includes error and attributes", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelDebug)

		LogError(logger, "operation failed", errors.New("boom"),
			slog.String("stage", "build"))

		output := buf.String()
		assert.Contains(t, output, `"level":"ERROR"`)
		assert.Contains(t, output, `"msg":"operation failed"`)
		assert.Contains(t, output, `"error":"boom"`)
		assert.Contains(t, output, `"stage":"build"`)
	})

	t.Run("LogError tolerates nil logger", func(t *testing.T) {
		assert.NotPanics(t, func() {
			LogError(nil, "operation failed", errors.New("boom"))
		})
	})

	t.Run("LogOperation skips zero durations", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelDebug)

		LogOperation(logger, "panel written",
			slog.Duration("duration", 0),
			slog.Int("rows", 12720))

		output := buf.String()
		assert.Contains(t, output, `"msg":"panel written"`)
		assert.Contains(t, output, `"rows":12720`)
		assert.NotContains(t, output, "duration")
	})

	t.Run("LogOperation keeps non-zero durations", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelDebug)

		LogOperation(logger, "panel written",
			slog.Duration("duration", 250*time.Millisecond))

		assert.Contains(t, buf.String(), "duration")
	})

	t.Run("LogDataset records name and row count", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelDebug)

		LogDataset(logger, "district lookup", 318,
			slog.String("source", "lookup.csv"))

		output := buf.String()
		assert.Contains(t, output, `"msg":"dataset"`)
		assert.Contains(t, output, `"dataset":"district lookup"`)
		assert.Contains(t, output, `"rows":318`)
		assert.Contains(t, output, `"source":"lookup.csv"`)
	})

	t.Run("LogDataset tolerates nil logger", func(t *testing.T) {
		assert.NotPanics(t, func() {
			LogDataset(nil, "district lookup", 318)
		})
	})
}
