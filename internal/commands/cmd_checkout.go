package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/storefront/internal/core/store"
	"github.com/colonyops/storefront/internal/core/styles"
	"github.com/colonyops/storefront/internal/core/validate"
	"github.com/colonyops/storefront/internal/printer"
	"github.com/colonyops/storefront/internal/storefront"
	"github.com/colonyops/storefront/pkg/iojson"
)

type CheckoutCmd struct {
	flags *Flags

	// flags
	customer   store.Customer
	input      iojson.FileReader[store.Customer]
	jsonOutput bool
}

// NewCheckoutCmd creates a new checkout command
func NewCheckoutCmd(flags *Flags) *CheckoutCmd {
	return &CheckoutCmd{flags: flags}
}

// Register adds the checkout command to the application
func (cmd *CheckoutCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "checkout",
		Usage:     "Place an order for the cart",
		UsageText: "storefront checkout [--name n --email e --address a] [-f customer.json]",
		Description: `Turns the cart into an order and empties the cart.

Customer details come from flags, from a JSON file or piped stdin
({"name","email","address"}), or, on a terminal, from an interactive form
for whatever is still missing.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "name",
				Usage:       "customer name",
				Destination: &cmd.customer.Name,
			},
			&cli.StringFlag{
				Name:        "email",
				Usage:       "customer email",
				Destination: &cmd.customer.Email,
			},
			&cli.StringFlag{
				Name:        "address",
				Usage:       "shipping address",
				Destination: &cmd.customer.Address,
			},
			cmd.input.Flag(),
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output the order as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *CheckoutCmd) run(ctx context.Context, c *cli.Command) error {
	app := cmd.flags.App
	out := c.Root().Writer
	p := printer.ForWriter(out)

	if len(app.Store.State().Cart) == 0 {
		return storefront.ErrEmptyCart
	}

	customer := cmd.customer
	if !complete(customer) {
		fromInput, ok, err := cmd.input.Read()
		if err != nil {
			return err
		}
		if ok {
			customer = merge(customer, fromInput)
		}
	}

	if !complete(customer) && printer.IsTerminal(out) {
		totals := app.Checkout.Totals()
		p.Section(fmt.Sprintf("Checkout · %d items · %s", totals.Items, storefront.FormatAmount(totals.Total)))

		if err := runCustomerForm(ctx, &customer); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return fmt.Errorf("form: %w", err)
		}
	}

	order, err := app.Checkout.PlaceOrder(ctx, customer)
	if err != nil {
		var fieldErrs criterio.FieldErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				p.Errorf("%s: %v", fe.Field, fe.Err)
			}
			return cli.Exit("", 1)
		}
		return err
	}

	if cmd.jsonOutput {
		return iojson.Write(out, order)
	}

	p.Toast(app.Store.State().Toast)
	p.Printf("Order %s · %d items · %s", order.ID, order.ItemCount(), p.Price(storefront.FormatPrice(order.Total)))
	return nil
}

func runCustomerForm(ctx context.Context, customer *store.Customer) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Validate(validate.Required).
				Value(&customer.Name),
			huh.NewInput().
				Title("Email").
				Validate(validate.Email).
				Value(&customer.Email),
			huh.NewText().
				Title("Shipping address").
				Validate(validate.Required).
				Value(&customer.Address),
		),
	).WithTheme(styles.FormTheme()).RunWithContext(ctx)
}

func complete(c store.Customer) bool {
	return c.Name != "" && c.Email != "" && c.Address != ""
}

// merge fills the empty fields of base from other.
func merge(base, other store.Customer) store.Customer {
	if base.Name == "" {
		base.Name = other.Name
	}
	if base.Email == "" {
		base.Email = other.Email
	}
	if base.Address == "" {
		base.Address = other.Address
	}
	return base
}
