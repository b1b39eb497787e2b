package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "cfg.yaml")
	require.NoError(t, os.WriteFile(p, []byte(`
tracker:
  base_url: "http://tracker.local:9080"
  ping_timeout_seconds: 2
  data_timeout_seconds: 15
storage:
  queue_path: "/var/lib/scanpost/queue.json"
  session_path: "/var/lib/scanpost/session.json"
scanpost:
  drain_interval_seconds: 45
  export_dir: "/tmp/reports"
emulator:
  http_addr: ":9099"
  secret: "s3cret"
`), 0o600))

	cfg, err := LoadConfig(p)
	require.NoError(t, err)
	require.Equal(t, "http://tracker.local:9080", cfg.Tracker.BaseURL)
	require.Equal(t, 2, cfg.Tracker.PingTimeoutSeconds)
	require.Equal(t, "/var/lib/scanpost/queue.json", cfg.Storage.QueuePath)
	require.Equal(t, 45, cfg.ScanPost.DrainIntervalSeconds)
	require.Equal(t, ":9099", cfg.Emulator.HTTPAddr)
	require.Equal(t, "s3cret", cfg.Emulator.Secret)
}

func TestLoadConfig_defaults(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "cfg.yaml")
	require.NoError(t, os.WriteFile(p, []byte("tracker:\n  base_url: \"\"\n"), 0o600))

	cfg, err := LoadConfig(p)
	require.NoError(t, err)
	require.Equal(t, "http://localhost:9080", cfg.Tracker.BaseURL)
	require.Equal(t, 3, cfg.Tracker.PingTimeoutSeconds)
	require.Equal(t, 10, cfg.Tracker.DataTimeoutSeconds)
	require.Equal(t, 30, cfg.ScanPost.DrainIntervalSeconds)
	require.NotEmpty(t, cfg.Storage.QueuePath)
	require.NotEmpty(t, cfg.Storage.SessionPath)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.Equal(t, "http://localhost:9080", cfg.Tracker.BaseURL)
	require.Equal(t, ":9080", cfg.Emulator.HTTPAddr)
}
