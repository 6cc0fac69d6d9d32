package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(level slog.Level) *bytes.Buffer {
	var buf bytes.Buffer
	log = New(NewJSONHandler(&buf, &slog.HandlerOptions{Level: level}))
	return &buf
}

func TestInit(t *testing.T) {
	Init()
	assert.NotNil(t, log)
}

func TestInfoWithAttributes(t *testing.T) {
	buf := capture(slog.LevelInfo)

	Info("booking created", "booking_id", 42, "status", "confirmed")

	output := buf.String()
	assert.Contains(t, output, "booking created")
	assert.Contains(t, output, `"booking_id":42`)
	assert.Contains(t, output, `"status":"confirmed"`)
}

func TestError(t *testing.T) {
	buf := capture(slog.LevelInfo)

	Error("test error")

	assert.Contains(t, buf.String(), `"level":"ERROR"`)
}

func TestDebugRespectsLevel(t *testing.T) {
	buf := capture(slog.LevelInfo)
	Debug("hidden")
	assert.Empty(t, buf.String())

	buf = capture(slog.LevelDebug)
	Debugf("visible %d", 1)
	assert.Contains(t, buf.String(), "visible 1")
}

func TestFormatted(t *testing.T) {
	buf := capture(slog.LevelInfo)

	Infof("checked in at gym %d", 7)
	Warnf("queue length %d", 3)
	Errorf("promotion failed for schedule %d", 9)

	output := buf.String()
	assert.Contains(t, output, "checked in at gym 7")
	assert.Contains(t, output, "queue length 3")
	assert.Contains(t, output, "promotion failed for schedule 9")
}

func TestWithError(t *testing.T) {
	buf := capture(slog.LevelInfo)

	WithError(errors.New("connection refused")).Info("publish failed")

	output := buf.String()
	assert.Contains(t, output, "publish failed")
	assert.Contains(t, output, "connection refused")
}

func TestWithFields(t *testing.T) {
	buf := capture(slog.LevelInfo)

	WithFields(map[string]interface{}{"key1": "value1", "key2": 123}).Info("test with fields")

	output := buf.String()
	assert.Contains(t, output, "test with fields")
	assert.Contains(t, output, `"key1":"value1"`)
	assert.Contains(t, output, `"key2":123`)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
}
