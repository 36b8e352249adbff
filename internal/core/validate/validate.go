// Package validate provides shared validation functions.
package validate

import (
	"fmt"
	"strings"

	"github.com/hay-kot/criterio"
)

// Required validates a value is non-empty after trimming whitespace.
func Required(value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("is required")
	}
	return nil
}

// Email validates an email address. Only the presence of a local part, an
// "@" and a domain is checked.
func Email(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("is required")
	}

	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" || domain == "" {
		return fmt.Errorf("%q is not a valid email address", email)
	}
	if strings.ContainsAny(email, " \t\n") {
		return fmt.Errorf("%q must not contain whitespace", email)
	}
	return nil
}

// Customer validates checkout contact details and returns a
// criterio.FieldErrors naming every invalid field.
func Customer(name, email, address string) error {
	return criterio.ValidateStruct(
		criterio.Run("name", name, Required),
		criterio.Run("email", email, Email),
		criterio.Run("address", address, Required),
	)
}

// EmailField returns a criterio validator for email addresses.
func EmailField(field, email string) error {
	return criterio.Run(field, email, Email)
}
