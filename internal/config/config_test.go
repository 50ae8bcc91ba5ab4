package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:4000/api", c.API.BaseURL)
	assert.Equal(t, 2*time.Second, c.Autosave.Interval)
	assert.Equal(t, 8*time.Second, c.Typewriter.Target)
	assert.Equal(t, 10*time.Millisecond, c.Typewriter.MinDelay)
	assert.Equal(t, 50*time.Millisecond, c.Typewriter.MaxDelay)
	assert.Equal(t, 3*time.Second, c.Toast.Duration)
	assert.Equal(t, 30*time.Second, c.OTP.ResendAfter)
	assert.Equal(t, "template", c.Model.Provider)
	assert.Same(t, c, Get())
}

func TestLoadFileOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
api:
  base_url: http://backend.test/api
autosave:
  interval: 500ms
log:
  level: debug
  format: json
storage:
  type: disk
  data_dir: /tmp/nexus
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://backend.test/api", c.API.BaseURL)
	assert.Equal(t, 500*time.Millisecond, c.Autosave.Interval)
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, "json", c.Log.Format)
	assert.Equal(t, "disk", c.Storage.Type)
	// untouched sections keep their defaults
	assert.Equal(t, 50*time.Millisecond, c.Typewriter.MaxDelay)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
