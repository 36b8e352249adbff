package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/storefront/internal/printer"
	"github.com/colonyops/storefront/internal/storefront"
	"github.com/colonyops/storefront/pkg/iojson"
)

type CartCmd struct {
	flags *Flags

	// flags
	jsonOutput bool
}

// NewCartCmd creates a new cart command
func NewCartCmd(flags *Flags) *CartCmd {
	return &CartCmd{flags: flags}
}

// Register adds the cart command to the application
func (cmd *CartCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "cart",
		Usage:     "Manage the shopping cart",
		UsageText: "storefront cart [ls|add|rm|qty|clear]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON (inherited by ls)",
				Destination: &cmd.jsonOutput,
			},
		},
		Action:    cmd.runList,
		Commands: []*cli.Command{
			{
				Name:   "ls",
				Usage:  "List cart items and totals",
				Action: cmd.runList,
			},
			{
				Name:      "add",
				Usage:     "Add one unit of a product",
				UsageText: "storefront cart add <id>",
				Action:    cmd.runAdd,
			},
			{
				Name:          "rm",
				Usage:         "Remove a product from the cart",
				UsageText:     "storefront cart rm <id>",
				ShellComplete: CartIDCompleter(cmd.flags),
				Action:        cmd.runRemove,
			},
			{
				Name:          "qty",
				Usage:         "Set the quantity of a cart item",
				UsageText:     "storefront cart qty <id> <n>",
				ShellComplete: CartIDCompleter(cmd.flags),
				Action:        cmd.runQuantity,
			},
			{
				Name:   "clear",
				Usage:  "Empty the cart",
				Action: cmd.runClear,
			},
		},
	})

	return app
}

func (cmd *CartCmd) runList(_ context.Context, c *cli.Command) error {
	totals := cmd.flags.App.Checkout.Totals()
	out := c.Root().Writer

	if cmd.jsonOutput {
		return iojson.Write(out, totals)
	}

	if len(totals.Lines) == 0 {
		fmt.Fprintln(os.Stderr, "Your cart is empty")
		return nil
	}

	p := printer.ForWriter(out)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tTITLE\tQTY\tPRICE\tTOTAL")
	for _, line := range totals.Lines {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			line.ID, line.Title, line.Quantity,
			storefront.FormatAmount(line.Price), storefront.FormatAmount(line.Total))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	p.Printf("")
	p.Printf("%s %s (%d items)", p.Muted("Total:"), p.Price(storefront.FormatAmount(totals.Total)), totals.Items)
	return nil
}

func (cmd *CartCmd) runAdd(ctx context.Context, c *cli.Command) error {
	id, err := oneArg(c, "storefront cart add <id>")
	if err != nil {
		return err
	}

	if _, err := cmd.flags.App.Shop.AddToCart(ctx, id); err != nil {
		return err
	}
	cmd.printToast(c)
	return nil
}

func (cmd *CartCmd) runRemove(_ context.Context, c *cli.Command) error {
	id, err := oneArg(c, "storefront cart rm <id>")
	if err != nil {
		return err
	}

	if err := cmd.flags.App.Shop.RemoveFromCart(id); err != nil {
		return err
	}
	cmd.printToast(c)
	return nil
}

func (cmd *CartCmd) runQuantity(_ context.Context, c *cli.Command) error {
	if c.Args().Len() != 2 {
		return fmt.Errorf("usage: storefront cart qty <id> <n>")
	}

	n, err := strconv.Atoi(c.Args().Get(1))
	if err != nil {
		return fmt.Errorf("invalid quantity %q", c.Args().Get(1))
	}

	if err := cmd.flags.App.Shop.SetQuantity(c.Args().First(), n); err != nil {
		return err
	}
	cmd.printToast(c)
	return nil
}

func (cmd *CartCmd) runClear(_ context.Context, c *cli.Command) error {
	cmd.flags.App.Shop.ClearCart()
	cmd.printToast(c)
	return nil
}

func (cmd *CartCmd) printToast(c *cli.Command) {
	printer.ForWriter(c.Root().Writer).Toast(cmd.flags.App.Store.State().Toast)
}

func oneArg(c *cli.Command, usage string) (string, error) {
	if c.Args().Len() != 1 {
		return "", fmt.Errorf("usage: %s", usage)
	}
	return c.Args().First(), nil
}
