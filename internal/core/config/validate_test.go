package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig(t *testing.T) Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.DataDir = t.TempDir()
	return cfg
}

// requireFields asserts err is a criterio.FieldErrors naming exactly the
// given fields.
func requireFields(t *testing.T, err error, fields ...string) {
	t.Helper()
	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	require.Len(t, fieldErrs, len(fields))

	for _, want := range fields {
		found := false
		for _, fe := range fieldErrs {
			if strings.Contains(fe.Field, want) {
				found = true
				break
			}
		}
		assert.True(t, found, "no field error for %q in %v", want, fieldErrs)
	}
}

func TestValidateDeep_Defaults(t *testing.T) {
	cfg := validConfig(t)
	assert.NoError(t, cfg.ValidateDeep(""))
}

func TestValidateDeep_StructuralErrorFirst(t *testing.T) {
	cfg := validConfig(t)
	cfg.Storage.Driver = "bogus"

	err := cfg.ValidateDeep("")
	require.Error(t, err)

	var fieldErrs criterio.FieldErrors
	assert.False(t, errors.As(err, &fieldErrs), "structural errors are plain errors")
}

func TestValidateDeep_BadURLs(t *testing.T) {
	cfg := validConfig(t)
	cfg.Catalog.DummyJSONURL = "ftp://dummyjson.com"
	cfg.Catalog.FakeStoreURL = "not a url"

	err := cfg.ValidateDeep("")
	require.Error(t, err)

	requireFields(t, err, "catalog.dummyjson_url", "catalog.fakestore_url")
}

func TestValidateDeep_BadServerAddr(t *testing.T) {
	cfg := validConfig(t)
	cfg.Server.Addr = "localhost"

	err := cfg.ValidateDeep("")
	requireFields(t, err, "server.addr")
}

func TestValidateDeep_DataDirIsFile(t *testing.T) {
	cfg := validConfig(t)
	file := filepath.Join(cfg.DataDir, "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	cfg.DataDir = file

	err := cfg.ValidateDeep("")
	requireFields(t, err, "data_dir")
}

func TestValidateDeep_ConfigPathIsDirectory(t *testing.T) {
	cfg := validConfig(t)

	err := cfg.ValidateDeep(t.TempDir())
	requireFields(t, err, "config_file")
}

func TestValidateDeep_MissingConfigFileIsFine(t *testing.T) {
	cfg := validConfig(t)
	assert.NoError(t, cfg.ValidateDeep(filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestWarnings(t *testing.T) {
	on := true

	cfg := validConfig(t)
	assert.Empty(t, cfg.Warnings())

	cfg.Storage.Driver = DriverMemory
	cfg.Storage.Watch = &on
	cfg.Store.ToastTTL = 100 * time.Millisecond

	warnings := cfg.Warnings()
	require.Len(t, warnings, 3)
	assert.Equal(t, "driver", warnings[0].Item)
	assert.Equal(t, "watch", warnings[1].Item)
	assert.Equal(t, "toast_ttl", warnings[2].Item)
}

func TestIsHTTPURL(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"https://dummyjson.com", false},
		{"http://127.0.0.1:8080", false},
		{"dummyjson.com", true},
		{"https://", true},
		{"ftp://x.com", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			err := isHTTPURL(tt.in)
			assert.Equal(t, tt.wantErr, err != nil, "isHTTPURL(%q) = %v", tt.in, err)
		})
	}
}
