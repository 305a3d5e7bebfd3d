package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_LevelAndFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "warn", Format: "json", Writer: &buf})

	log.Info("dropped")
	log.WithFields(map[string]interface{}{"alert_id": "a-1"}).Warn("kept")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "a-1", entry["alert_id"])
	assert.Equal(t, "warn", entry["level"])
}

func TestLogger_ErrorWithErr(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "debug", Writer: &buf})

	log.With("flow", "manual").ErrorWithErr(errors.New("boom"), "step failed")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "manual", entry["flow"])
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop().WithError(errors.New("x")).Error("nothing")
	})
}

func TestForFlowAndWithKV(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "info", Writer: &buf})

	log.ForFlow("auto_probe", "").WithKV("entry", 3, "dangling").Info("tick")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "auto_probe", entry["flow"])
	assert.NotContains(t, entry, "alert_id")
	assert.Equal(t, float64(3), entry["entry"])
	assert.Contains(t, entry, "dangling")
	assert.Nil(t, entry["dangling"])

	buf.Reset()
	log.ForFlow("manual", "a-1").Info("step")
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "a-1", entry["alert_id"])
}

func TestNew_OutputPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "probe.log")
	New(Config{Level: "info", OutputPath: path}).Info("to file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}
