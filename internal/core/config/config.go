// Package config handles configuration loading and validation for storefront.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/storefront/internal/core/styles"
)

// Storage drivers.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Config holds the application configuration.
type Config struct {
	Catalog  CatalogConfig  `yaml:"catalog"`
	Store    StoreConfig    `yaml:"store"`
	Storage  StorageConfig  `yaml:"storage"`
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	TUI      TUIConfig      `yaml:"tui"`
	DataDir  string         `yaml:"-"` // set by caller, not from config file
}

// CatalogConfig configures the upstream product APIs.
type CatalogConfig struct {
	DummyJSONURL     string        `yaml:"dummyjson_url"`
	FakeStoreURL     string        `yaml:"fakestore_url"`
	Timeout          time.Duration `yaml:"timeout"`
	MaxConcurrency   int           `yaml:"max_concurrency"`   // categories fetched at once by LoadAllProducts
	PlaceholderImage string        `yaml:"placeholder_image"` // used when a product has no images
}

// StoreConfig configures the state store.
type StoreConfig struct {
	ToastTTL time.Duration `yaml:"toast_ttl"`
}

// StorageConfig selects the durable storage backend.
type StorageConfig struct {
	Driver string `yaml:"driver"` // file, sqlite, memory
	Watch  *bool  `yaml:"watch"`  // reload state when another process writes (file driver only)
}

// WatchEnabled reports whether storage changes made by other processes should
// be reloaded. Defaults to true.
func (s StorageConfig) WatchEnabled() bool {
	return s.Watch == nil || *s.Watch
}

// DatabaseConfig holds sqlite connection settings for the sqlite driver.
type DatabaseConfig struct {
	MaxOpenConns int           `yaml:"max_open_conns"`
	MaxIdleConns int           `yaml:"max_idle_conns"`
	BusyTimeout  time.Duration `yaml:"busy_timeout"`
}

// ServerConfig configures the local HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// TUIConfig configures the terminal UI and styled CLI output.
type TUIConfig struct {
	Theme string `yaml:"theme"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Catalog: CatalogConfig{
			DummyJSONURL:     "https://dummyjson.com",
			FakeStoreURL:     "https://fakestoreapi.com",
			Timeout:          10 * time.Second,
			MaxConcurrency:   4,
			PlaceholderImage: "https://via.placeholder.com/400",
		},
		Store: StoreConfig{
			ToastTTL: 3 * time.Second,
		},
		Storage: StorageConfig{
			Driver: DriverFile,
		},
		Database: DatabaseConfig{
			MaxOpenConns: 10,
			MaxIdleConns: 5,
			BusyTimeout:  5 * time.Second,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8420",
		},
		TUI: TUIConfig{
			Theme: styles.DefaultTheme,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Catalog.DummyJSONURL == "" {
		c.Catalog.DummyJSONURL = defaults.Catalog.DummyJSONURL
	}
	if c.Catalog.FakeStoreURL == "" {
		c.Catalog.FakeStoreURL = defaults.Catalog.FakeStoreURL
	}
	if c.Catalog.Timeout == 0 {
		c.Catalog.Timeout = defaults.Catalog.Timeout
	}
	if c.Catalog.MaxConcurrency == 0 {
		c.Catalog.MaxConcurrency = defaults.Catalog.MaxConcurrency
	}
	if c.Catalog.PlaceholderImage == "" {
		c.Catalog.PlaceholderImage = defaults.Catalog.PlaceholderImage
	}
	if c.Store.ToastTTL == 0 {
		c.Store.ToastTTL = defaults.Store.ToastTTL
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = defaults.Storage.Driver
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = defaults.Database.MaxOpenConns
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = defaults.Database.MaxIdleConns
	}
	if c.Database.BusyTimeout == 0 {
		c.Database.BusyTimeout = defaults.Database.BusyTimeout
	}
	if c.Server.Addr == "" {
		c.Server.Addr = defaults.Server.Addr
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	if c.Catalog.Timeout < 0 {
		return fmt.Errorf("catalog.timeout cannot be negative")
	}

	if c.Catalog.MaxConcurrency < 1 {
		return fmt.Errorf("catalog.max_concurrency must be at least 1")
	}

	if c.Store.ToastTTL < 0 {
		return fmt.Errorf("store.toast_ttl cannot be negative")
	}

	if !isValidDriver(c.Storage.Driver) {
		return fmt.Errorf("storage.driver %q is invalid (must be %s, %s or %s)",
			c.Storage.Driver, DriverFile, DriverSQLite, DriverMemory)
	}

	if c.Database.MaxOpenConns < 1 {
		return fmt.Errorf("database.max_open_conns must be at least 1")
	}

	if c.Database.MaxIdleConns < 0 || c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns must be between 0 and max_open_conns")
	}

	if _, ok := styles.GetPalette(c.TUI.Theme); !ok {
		return fmt.Errorf("tui.theme %q is invalid (available: %s)", c.TUI.Theme, strings.Join(styles.ThemeNames(), ", "))
	}

	return nil
}

// StorageDir returns the directory holding the file storage backend's keys.
func (c *Config) StorageDir() string {
	return filepath.Join(c.DataDir, "storage")
}

// LogFile returns the default log file path.
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir, "storefront.log")
}

func isValidDriver(driver string) bool {
	switch driver {
	case DriverFile, DriverSQLite, DriverMemory:
		return true
	default:
		return false
	}
}
