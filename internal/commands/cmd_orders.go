package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/storefront/internal/storefront"
	"github.com/colonyops/storefront/pkg/iojson"
)

type OrdersCmd struct {
	flags *Flags

	// flags
	jsonOutput bool
}

// NewOrdersCmd creates a new orders command
func NewOrdersCmd(flags *Flags) *OrdersCmd {
	return &OrdersCmd{flags: flags}
}

// Register adds the orders command to the application
func (cmd *OrdersCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "orders",
		Usage:     "List placed orders, newest first",
		UsageText: "storefront orders [--json]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *OrdersCmd) run(_ context.Context, c *cli.Command) error {
	orders := cmd.flags.App.Store.State().Orders
	out := c.Root().Writer

	if cmd.jsonOutput {
		return iojson.Write(out, orders)
	}

	if len(orders) == 0 {
		fmt.Fprintln(os.Stderr, "No orders yet")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tDATE\tITEMS\tTOTAL\tCUSTOMER")
	for _, o := range orders {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			o.ID, o.Date.Local().Format(time.DateTime), o.ItemCount(),
			storefront.FormatPrice(o.Total), o.Customer.Name)
	}
	return w.Flush()
}
