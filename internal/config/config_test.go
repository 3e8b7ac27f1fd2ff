package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.APIURL)
	assert.Equal(t, 5*time.Second, cfg.Storefront.PollInterval)
	assert.Equal(t, 3*time.Second, cfg.Kitchen.ReconnectDelay)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoadReadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api_url: https://api.example.com
state_dir: /tmp/omni-test
storefront:
  poll_interval: 2s
kitchen:
  reconnect_delay: 500ms
metrics:
  enabled: true
  addr: ":9191"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.APIURL)
	assert.Equal(t, "/tmp/omni-test", cfg.StateDir)
	assert.Equal(t, 2*time.Second, cfg.Storefront.PollInterval)
	assert.Equal(t, 500*time.Millisecond, cfg.Kitchen.ReconnectDelay)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, ":9191", cfg.Metrics.Addr)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_url: https://file.example.com\n"), 0o644))

	t.Setenv("OMNI_API_URL", "https://env.example.com")
	t.Setenv("OMNI_POLL_INTERVAL", "1s")
	t.Setenv("OMNI_METRICS_ADDR", ":7070")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://env.example.com", cfg.APIURL)
	assert.Equal(t, time.Second, cfg.Storefront.PollInterval)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, ":7070", cfg.Metrics.Addr)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_url: [broken\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateRejectsNonPositiveIntervals(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storefront:\n  poll_interval: -1s\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
