package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func reset() {
	SetVerbose(false)
	SetFormat(FormatConsole)
	SetOutput(os.Stderr)
}

func TestSetVerbose(t *testing.T) {
	defer reset()

	SetVerbose(false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestDebug_WhenVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Debug("test message %s", "arg")

	assert.Contains(t, buf.String(), "DEBUG")
	assert.Contains(t, buf.String(), "test message arg")
}

func TestDebug_WhenNotVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Debug("hidden %d", 1)
	Section("hidden section")

	assert.Empty(t, buf.String())
}

func TestInfo_AlwaysWritten(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)

	Info("MENU HANDLING | Unique Menu Extraction - SUCCESS (menus=%d)", 3)

	assert.Contains(t, buf.String(), "INFO")
	assert.Contains(t, buf.String(), "(menus=3)")
}

func TestWarnAndError(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)

	Warn("careful")
	Error("broken: %v", "boom")

	out := buf.String()
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "careful")
	assert.Contains(t, out, "ERROR")
	assert.Contains(t, out, "broken: boom")
}

func TestSetFormat_JSON(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetFormat(FormatJSON)

	With(zap.String("batch_id", "b-1")).Info("file received")

	line := strings.TrimSpace(buf.String())
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "file received", entry["msg"])
	assert.Equal(t, "b-1", entry["batch_id"])
	assert.Equal(t, "info", entry["level"])
}

func TestSetFormat_UnknownFallsBackToConsole(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetFormat("xml")

	Info("plain")

	assert.False(t, strings.HasPrefix(strings.TrimSpace(buf.String()), "{"))
}
