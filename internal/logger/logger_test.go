package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoopLogger(t *testing.T) {
	logger := &NoopLogger{}

	// Should not panic
	logger.Debug("test")
	logger.Info("test")
	logger.Warn("test")
	logger.Error("test")

	// With arguments
	logger.Debug("test", "key", "value")
	logger.Info("test", "key", "value")
	logger.Warn("test", "key", "value")
	logger.Error("test", "key", "value")
}

func TestSlogAdapter(t *testing.T) {
	tests := []struct {
		name      string
		logFunc   func(Logger, string, ...any)
		message   string
		args      []any
		wantLevel string
	}{
		{
			name:      "Debug level",
			logFunc:   func(l Logger, msg string, args ...any) { l.Debug(msg, args...) },
			message:   "criteria translated",
			args:      []any{"alias", "user"},
			wantLevel: "DEBUG",
		},
		{
			name:      "Info level",
			logFunc:   func(l Logger, msg string, args ...any) { l.Info(msg, args...) },
			message:   "schema loaded",
			args:      []any{"relations", "12"},
			wantLevel: "INFO",
		},
		{
			name:      "Warn level",
			logFunc:   func(l Logger, msg string, args ...any) { l.Warn(msg, args...) },
			message:   "alias collision",
			args:      []any{"alias", "publisher_1"},
			wantLevel: "WARN",
		},
		{
			name:      "Error level",
			logFunc:   func(l Logger, msg string, args ...any) { l.Error(msg, args...) },
			message:   "criteria translation failed",
			args:      []any{"error", "malformed payload"},
			wantLevel: "ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			})
			logger := NewSlogAdapter(slog.New(handler))

			tt.logFunc(logger, tt.message, tt.args...)

			output := buf.String()
			assert.Contains(t, output, tt.wantLevel)
			assert.Contains(t, output, tt.message)
			// slog quotes string values, so check key and value separately
			assert.Contains(t, output, tt.args[0].(string)+"=")
			assert.Contains(t, output, tt.args[1].(string))
		})
	}
}

func TestSlogAdapterJSONHandler(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	logger := NewSlogAdapter(slog.New(handler))

	logger.Debug("criteria translated",
		"alias", "user",
		"joins", 2,
		"parameters", 5)

	output := buf.String()
	assert.Contains(t, output, `"msg":"criteria translated"`)
	assert.Contains(t, output, `"alias":"user"`)
	assert.Contains(t, output, `"joins":2`)
	assert.Contains(t, output, `"parameters":5`)
}
