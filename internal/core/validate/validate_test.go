package validate

import (
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequired(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "Ada Lovelace", false},
		{"empty string", "", true},
		{"only spaces", "   ", true},
		{"only tabs", "\t\t", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Required(tt.input)
			assert.Equal(t, tt.wantErr, err != nil, "Required(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		})
	}
}

func TestEmail(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "ada@example.com", false},
		{"surrounding spaces trimmed", "  ada@example.com ", false},
		{"empty", "", true},
		{"missing at", "ada.example.com", true},
		{"missing local part", "@example.com", true},
		{"missing domain", "ada@", true},
		{"inner whitespace", "ada @example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Email(tt.input)
			assert.Equal(t, tt.wantErr, err != nil, "Email(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		})
	}
}

func TestCustomer(t *testing.T) {
	assert.NoError(t, Customer("Ada", "ada@example.com", "1 Analytical Way"))

	err := Customer("", "nope", " ")
	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"name", "email", "address"}, fields)
}

func TestEmailField(t *testing.T) {
	assert.NoError(t, EmailField("email", "a@b"))

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, EmailField("contact", "ab"), &fieldErrs)
	assert.Equal(t, "contact", fieldErrs[0].Field)
}
