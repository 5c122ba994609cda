package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerWritesChannelFiles(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer

	log := NewLogger(Options{Dir: dir, Level: "debug", Console: &console})
	log.WS.Info().Uint("userId", 7).Msg("connection accepted")
	log.Http.Debug().Msg("request served")

	assert.Contains(t, console.String(), "connection accepted")
	assert.Contains(t, console.String(), "request served")

	data, err := os.ReadFile(filepath.Join(dir, "ws.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "connection accepted")
	assert.Contains(t, string(data), "userId=7")
}

func TestNewLoggerRespectsLevel(t *testing.T) {
	var console bytes.Buffer

	log := NewLogger(Options{Dir: t.TempDir(), Level: "warn", Console: &console})
	log.WS.Info().Msg("hidden")
	log.WS.Warn().Msg("shown")

	assert.NotContains(t, console.String(), "hidden")
	assert.Contains(t, console.String(), "shown")
}
