package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetLevel(t *testing.T) {
	original := Logger.GetLevel()
	defer Logger.SetLevel(original)

	tests := []struct {
		input    string
		ok       bool
		expected log.Level
	}{
		{input: "debug", ok: true, expected: log.DebugLevel},
		{input: "INFO", ok: true, expected: log.InfoLevel},
		{input: "warning", ok: true, expected: log.WarnLevel},
		{input: "Error", ok: true, expected: log.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.ok, SetLevel(tt.input))
			assert.Equal(t, tt.expected, Logger.GetLevel())
		})
	}

	t.Run("unknown keeps level", func(t *testing.T) {
		SetLevel("warn")
		assert.False(t, SetLevel("verbose"))
		assert.False(t, SetLevel(""))
		assert.Equal(t, log.WarnLevel, Logger.GetLevel())
	})
}

func TestSetOutput(t *testing.T) {
	defer SetOutput(os.Stderr)

	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel("info")
	Info("window mapped", "id", "0.1")

	assert.Contains(t, buf.String(), "window mapped")
	assert.Contains(t, buf.String(), "id=0.1")
}

func TestSetupFileLogging(t *testing.T) {
	defer SetOutput(os.Stderr)
	defer Logger.SetPrefix("")

	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)
	assert.Equal(t, filepath.Join(dir, "waydock"), LogDir())

	f, err := SetupFileLogging("RUN")
	require.NoError(t, err)
	defer f.Close()

	SetLevel("info")
	Info("hello file")

	data, err := os.ReadFile(filepath.Join(dir, "waydock", "waydock.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello file")
	assert.Contains(t, string(data), "RUN")
}
