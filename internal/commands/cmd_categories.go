package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/storefront/pkg/iojson"
)

type CategoriesCmd struct {
	flags *Flags

	// flags
	jsonOutput bool
}

// NewCategoriesCmd creates a new categories command
func NewCategoriesCmd(flags *Flags) *CategoriesCmd {
	return &CategoriesCmd{flags: flags}
}

// Register adds the categories command to the application
func (cmd *CategoriesCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "categories",
		Usage:     "List product categories",
		UsageText: "storefront categories [--json]",
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

func (cmd *CategoriesCmd) run(_ context.Context, c *cli.Command) error {
	categories := cmd.flags.App.Catalog.ListCategories()
	out := c.Root().Writer

	if cmd.jsonOutput {
		return iojson.Write(out, categories)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "SLUG\tNAME\tDESCRIPTION")
	for _, cat := range categories {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", cat.Slug, cat.Name, cat.Description)
	}
	return w.Flush()
}
