package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/gifmaster/internal/config"
)

func TestNewLogger_NoFile(t *testing.T) {
	opts := config.DefaultOptions()
	var buf bytes.Buffer
	l, err := newLogger(&opts, &buf, hclog.ColorOff)
	require.NoError(t, err)
	defer l.Close()

	l.Info("test message", "input", "clip.mp4")
	l.Debug("hidden at INFO")

	out := buf.String()
	assert.Contains(t, out, "[INFO]")
	assert.Contains(t, out, "gifmaster: test message")
	assert.Contains(t, out, "input=clip.mp4")
	assert.NotContains(t, out, "hidden at INFO")
}

func TestNewLogger_TraceLevel(t *testing.T) {
	opts := config.DefaultOptions()
	opts.LogLevel = "TRACE"
	var buf bytes.Buffer
	l, err := newLogger(&opts, &buf, hclog.ColorOff)
	require.NoError(t, err)

	l.Trace("options parsed")
	assert.True(t, l.IsTrace())
	assert.Contains(t, buf.String(), "[TRACE] gifmaster: options parsed")
}

func TestNewLogger_WithFile(t *testing.T) {
	opts := config.DefaultOptions()
	opts.LogFile = filepath.Join(t.TempDir(), "logs", "gifmaster.log")
	var buf bytes.Buffer
	l, err := newLogger(&opts, &buf, hclog.ColorOff)
	require.NoError(t, err)

	l.Info("to file")
	require.NoError(t, l.Close())
	l.Info("after close")

	b, err := os.ReadFile(opts.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(b), "[INFO]")
	assert.Contains(t, string(b), "to file")
	assert.NotContains(t, string(b), "after close")
	assert.Contains(t, buf.String(), "after close")
}

func TestNewLogger_JSON(t *testing.T) {
	opts := config.DefaultOptions()
	opts.LogJSON = true
	var buf bytes.Buffer
	l, err := newLogger(&opts, &buf, hclog.ColorOff)
	require.NoError(t, err)

	l.Warn("skipping", "output", "out.gif")
	assert.Contains(t, buf.String(), `"@message":"skipping"`)
	assert.Contains(t, buf.String(), `"output":"out.gif"`)
}

func TestClose_Idempotent(t *testing.T) {
	opts := config.DefaultOptions()
	l, err := newLogger(&opts, &bytes.Buffer{}, hclog.ColorOff)
	require.NoError(t, err)
	assert.NoError(t, l.Close())
	assert.NoError(t, l.Close())
}
