package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/storefront/internal/printer"
	"github.com/colonyops/storefront/internal/storefront"
	"github.com/colonyops/storefront/pkg/iojson"
)

type WishlistCmd struct {
	flags *Flags

	// flags
	jsonOutput bool
}

// NewWishlistCmd creates a new wishlist command
func NewWishlistCmd(flags *Flags) *WishlistCmd {
	return &WishlistCmd{flags: flags}
}

// Register adds the wishlist command to the application
func (cmd *WishlistCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "wishlist",
		Usage:     "Manage the wishlist",
		UsageText: "storefront wishlist [ls|add|rm|move]",
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
				Usage:  "List wishlisted products",
				Action: cmd.runList,
			},
			{
				Name:      "add",
				Usage:     "Add a product to the wishlist",
				UsageText: "storefront wishlist add <id>",
				Action:    cmd.runAdd,
			},
			{
				Name:          "rm",
				Usage:         "Remove a product from the wishlist",
				UsageText:     "storefront wishlist rm <id>",
				ShellComplete: WishlistIDCompleter(cmd.flags),
				Action:        cmd.runRemove,
			},
			{
				Name:          "move",
				Usage:         "Move a wishlisted product into the cart",
				UsageText:     "storefront wishlist move <id>",
				ShellComplete: WishlistIDCompleter(cmd.flags),
				Action:        cmd.runMove,
			},
		},
	})

	return app
}

func (cmd *WishlistCmd) runList(_ context.Context, c *cli.Command) error {
	items := cmd.flags.App.Store.State().Wishlist
	out := c.Root().Writer

	if cmd.jsonOutput {
		return iojson.Write(out, items)
	}

	if len(items) == 0 {
		fmt.Fprintln(os.Stderr, "Your wishlist is empty")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tTITLE\tPRICE\tCATEGORY")
	for _, p := range items {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID, p.Title, storefront.FormatPrice(p.Price), p.Category.Name)
	}
	return w.Flush()
}

func (cmd *WishlistCmd) runAdd(ctx context.Context, c *cli.Command) error {
	id, err := oneArg(c, "storefront wishlist add <id>")
	if err != nil {
		return err
	}

	if _, err := cmd.flags.App.Shop.AddToWishlist(ctx, id); err != nil {
		return err
	}
	cmd.printToast(c)
	return nil
}

func (cmd *WishlistCmd) runRemove(_ context.Context, c *cli.Command) error {
	id, err := oneArg(c, "storefront wishlist rm <id>")
	if err != nil {
		return err
	}

	if err := cmd.flags.App.Shop.RemoveFromWishlist(id); err != nil {
		return err
	}
	cmd.printToast(c)
	return nil
}

func (cmd *WishlistCmd) runMove(_ context.Context, c *cli.Command) error {
	id, err := oneArg(c, "storefront wishlist move <id>")
	if err != nil {
		return err
	}

	if err := cmd.flags.App.Shop.MoveToCart(id); err != nil {
		return err
	}
	cmd.printToast(c)
	return nil
}

func (cmd *WishlistCmd) printToast(c *cli.Command) {
	printer.ForWriter(c.Root().Writer).Toast(cmd.flags.App.Store.State().Toast)
}
