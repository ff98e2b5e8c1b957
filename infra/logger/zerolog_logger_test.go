package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologLoggerWritesComponent(t *testing.T) {
	var buf bytes.Buffer
	l := NewZerologLoggerTo(&buf, "optimizer")
	l.Infof("run %d finished", 7)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "optimizer", entry["component"])
	assert.Equal(t, "run 7 finished", entry["message"])
	assert.Equal(t, "info", entry["level"])
	assert.Contains(t, entry, "time")
}

func TestZerologLoggerStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewZerologLoggerTo(&buf, "test")
	l.Debugw("shifted", map[string]any{"train": "T1", "headway": 5})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "T1", entry["train"])
	assert.Equal(t, float64(5), entry["headway"])
}

func TestZerologLoggerConsoleMode(t *testing.T) {
	require.NoError(t, os.Setenv("APP_ENV", "dev"))
	defer func() { assert.NoError(t, os.Unsetenv("APP_ENV")) }()

	var buf bytes.Buffer
	l := NewZerologLoggerTo(&buf, "test")
	l.Warnf("warn %s", "msg")
	// Console output is not JSON.
	var entry map[string]any
	assert.Error(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Contains(t, buf.String(), "warn msg")
}

func TestNopLogger(t *testing.T) {
	l := NopLogger{}
	l.Debugf("d")
	l.Debugw("d", nil)
	l.Infof("i")
	l.Warnf("w")
	l.Errorf("e")
}
