package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "debug").Component("board")

	l.Debug().Int64("client_id", 7).Msg("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "clientdeck", line["app"])
	assert.Equal(t, "board", line["component"])
	assert.Equal(t, "hello", line["message"])
	assert.Equal(t, float64(7), line["client_id"])
	assert.Contains(t, line, "func")
}

func TestNewUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "loud")

	l.Debug().Msg("hidden")
	assert.Zero(t, buf.Len())

	l.Info().Msg("shown")
	assert.NotZero(t, buf.Len())
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "clientdeck.log")

	l, closer, err := NewFileLogger(path, "info")
	require.NoError(t, err)
	l.Info().Msg("to file")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"to file"`)
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop().Component("x").Error().Msg("dropped")
	})
}
