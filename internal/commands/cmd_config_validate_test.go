package commands

import (
	"bytes"
	"errors"
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/storefront/internal/core/config"
	"github.com/colonyops/storefront/internal/printer"
)

func TestBuildReport(t *testing.T) {
	warnings := []config.ValidationWarning{{Category: "Storage", Item: "driver", Message: "memory"}}

	t.Run("valid", func(t *testing.T) {
		report := buildReport(nil, warnings)
		assert.True(t, report.Valid)
		assert.Empty(t, report.Errors)
		assert.Equal(t, warnings, report.Warnings)
	})

	t.Run("field errors", func(t *testing.T) {
		err := criterio.NewFieldErrors("server.addr", errors.New("invalid address"))
		report := buildReport(err, nil)
		assert.False(t, report.Valid)
		require.Len(t, report.Errors, 1)
		assert.Equal(t, validationIssue{Field: "server.addr", Message: "invalid address"}, report.Errors[0])
	})

	t.Run("plain error", func(t *testing.T) {
		report := buildReport(errors.New("data directory cannot be empty"), nil)
		assert.False(t, report.Valid)
		require.Len(t, report.Errors, 1)
		assert.Equal(t, "config", report.Errors[0].Field)
	})
}

func TestOutputReport(t *testing.T) {
	var buf bytes.Buffer
	p := printer.New(&buf, false)

	require.NoError(t, outputReport(p, validationReport{Valid: true}))
	assert.Contains(t, buf.String(), "Configuration is valid")

	buf.Reset()
	err := outputReport(p, validationReport{
		Errors: []validationIssue{{Field: "catalog.timeout", Message: "cannot be negative"}},
	})
	require.Error(t, err)
	assert.Contains(t, buf.String(), "catalog.timeout: cannot be negative")
	assert.Contains(t, buf.String(), "1 error(s) found")
}
