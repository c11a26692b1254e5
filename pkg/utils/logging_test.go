package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger_Level(t *testing.T) {
	l := newLogger("warn", "", zapcore.AddSync(&bytes.Buffer{}))
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))

	l = newLogger("bogus", "", zapcore.AddSync(&bytes.Buffer{}))
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestNewLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	var console bytes.Buffer
	l := newLogger("", path, zapcore.AddSync(&console))
	l.Info("hello")
	require.NoError(t, l.Sync())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"hello"`)
	assert.Contains(t, console.String(), `"msg":"hello"`)
}

func TestNewLogger_Console(t *testing.T) {
	var console bytes.Buffer
	l := newLogger("info", "", zapcore.AddSync(&console))
	l.Debug("hidden")
	l.Warn("shown", zap.Int("n", 3))

	out := console.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, `"n":3`)
}

func TestLogger_Singleton(t *testing.T) {
	assert.Same(t, Logger(), Logger())
}
