package tui

import (
	"github.com/charmbracelet/huh"

	"github.com/colonyops/storefront/internal/core/store"
	"github.com/colonyops/storefront/internal/core/styles"
	"github.com/colonyops/storefront/internal/core/validate"
)

// checkoutForm collects the customer details. Fields bind to the heap
// allocated customer so the form survives Model copies.
type checkoutForm struct {
	form     *huh.Form
	customer *store.Customer
}

// newCheckoutForm builds the form, prefilled with prefill.
func newCheckoutForm(prefill store.Customer, width int) *checkoutForm {
	customer := prefill
	cf := &checkoutForm{customer: &customer}

	cf.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&cf.customer.Name).
				Validate(validate.Required),
			huh.NewInput().
				Title("Email").
				Value(&cf.customer.Email).
				Validate(validate.Email),
			huh.NewText().
				Title("Shipping address").
				Lines(3).
				Value(&cf.customer.Address).
				Validate(validate.Required),
		),
	).
		WithTheme(styles.FormTheme()).
		WithShowHelp(true)

	if width > 0 {
		cf.form = cf.form.WithWidth(width)
	}
	return cf
}

// Customer returns a copy of the entered details.
func (cf *checkoutForm) Customer() store.Customer {
	return *cf.customer
}
