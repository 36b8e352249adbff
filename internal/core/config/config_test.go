package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	dataDir := t.TempDir()

	cfg, err := Load(filepath.Join(dataDir, "nope.yaml"), dataDir)
	require.NoError(t, err)

	want := DefaultConfig()
	want.DataDir = dataDir
	assert.Equal(t, want, *cfg)
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("", "/tmp/storefront")
	require.NoError(t, err)
	assert.Equal(t, DriverFile, cfg.Storage.Driver)
	assert.Equal(t, "/tmp/storefront", cfg.DataDir)
}

func TestLoad_OverridesAndFillsDefaults(t *testing.T) {
	path := writeConfig(t, `
catalog:
  dummyjson_url: http://localhost:9000
  timeout: 2s
store:
  toast_ttl: 1500ms
storage:
  driver: sqlite
  watch: false
server:
  addr: ":9999"
`)

	cfg, err := Load(path, "/data")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000", cfg.Catalog.DummyJSONURL)
	assert.Equal(t, "https://fakestoreapi.com", cfg.Catalog.FakeStoreURL)
	assert.Equal(t, 2*time.Second, cfg.Catalog.Timeout)
	assert.Equal(t, 4, cfg.Catalog.MaxConcurrency)
	assert.Equal(t, 1500*time.Millisecond, cfg.Store.ToastTTL)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.False(t, cfg.Storage.WatchEnabled())
	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.Equal(t, "/data", cfg.DataDir, "data dir comes from the caller")
}

func TestLoad_ParseError(t *testing.T) {
	path := writeConfig(t, "catalog: [not, a, map")

	_, err := Load(path, "/data")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}

func TestLoad_InvalidDriver(t *testing.T) {
	path := writeConfig(t, "storage:\n  driver: redis\n")

	_, err := Load(path, "/data")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage.driver")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:   "defaults",
			mutate: func(*Config) {},
		},
		{
			name:    "empty data dir",
			mutate:  func(c *Config) { c.DataDir = "" },
			wantErr: "data directory",
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.Catalog.Timeout = -time.Second },
			wantErr: "catalog.timeout",
		},
		{
			name:    "zero concurrency",
			mutate:  func(c *Config) { c.Catalog.MaxConcurrency = 0 },
			wantErr: "catalog.max_concurrency",
		},
		{
			name:    "negative toast ttl",
			mutate:  func(c *Config) { c.Store.ToastTTL = -1 },
			wantErr: "store.toast_ttl",
		},
		{
			name:    "unknown driver",
			mutate:  func(c *Config) { c.Storage.Driver = "s3" },
			wantErr: "storage.driver",
		},
		{
			name:    "idle above open",
			mutate:  func(c *Config) { c.Database.MaxIdleConns = 50 },
			wantErr: "max_idle_conns",
		},
		{
			name:    "unknown theme",
			mutate:  func(c *Config) { c.TUI.Theme = "solarized-ultra" },
			wantErr: "tui.theme",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.DataDir = "/data"
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestStorageConfig_WatchEnabled(t *testing.T) {
	on, off := true, false

	assert.True(t, StorageConfig{}.WatchEnabled())
	assert.True(t, StorageConfig{Watch: &on}.WatchEnabled())
	assert.False(t, StorageConfig{Watch: &off}.WatchEnabled())
}

func TestConfigPaths(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = "/data"

	assert.Equal(t, filepath.Join("/data", "storage"), cfg.StorageDir())
	assert.Equal(t, filepath.Join("/data", "storefront.log"), cfg.LogFile())
}
