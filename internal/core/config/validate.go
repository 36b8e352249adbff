package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"time"

	"github.com/hay-kot/criterio"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep performs comprehensive validation of the configuration including
// upstream URLs, the server address, and file accessibility. The configPath
// argument specifies the config file location to validate (empty string skips
// config file check). This calls Validate() first for basic structural
// validation, then adds I/O checks.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		c.validateFileAccess(configPath),
		c.validateEndpoints(),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if c.Storage.Driver == DriverMemory {
		warnings = append(warnings, ValidationWarning{
			Category: "Storage",
			Item:     "driver",
			Message:  "memory storage discards cart, wishlist and orders on exit",
		})
	}

	if c.Storage.Watch != nil && *c.Storage.Watch && c.Storage.Driver != DriverFile {
		warnings = append(warnings, ValidationWarning{
			Category: "Storage",
			Item:     "watch",
			Message:  fmt.Sprintf("watch has no effect with the %s driver", c.Storage.Driver),
		})
	}

	if c.Store.ToastTTL > 0 && c.Store.ToastTTL < 500*time.Millisecond {
		warnings = append(warnings, ValidationWarning{
			Category: "Store",
			Item:     "toast_ttl",
			Message:  "toasts shorter than 500ms are hard to read",
		})
	}

	return warnings
}

// validateFileAccess checks config file and data directory.
func (c *Config) validateFileAccess(configPath string) error {
	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
	)
}

func (c *Config) validateEndpoints() error {
	return criterio.ValidateStruct(
		criterio.Run("catalog.dummyjson_url", c.Catalog.DummyJSONURL, isHTTPURL),
		criterio.Run("catalog.fakestore_url", c.Catalog.FakeStoreURL, isHTTPURL),
		criterio.Run("catalog.placeholder_image", c.Catalog.PlaceholderImage, isHTTPURL),
		criterio.Run("server.addr", c.Server.Addr, isHostPort),
	)
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}

// isHTTPURL validates an absolute http or https URL.
func isHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url %q must use http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("url %q has no host", raw)
	}
	return nil
}

// isHostPort validates a listen address such as "127.0.0.1:8420" or ":8420".
func isHostPort(addr string) error {
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return fmt.Errorf("invalid address %q: %w", addr, err)
	}
	return nil
}
