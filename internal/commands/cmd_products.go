package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/storefront/internal/core/catalog"
	"github.com/colonyops/storefront/internal/core/styles"
	"github.com/colonyops/storefront/internal/printer"
	"github.com/colonyops/storefront/internal/storefront"
	"github.com/colonyops/storefront/pkg/iojson"
)

type ProductsCmd struct {
	flags *Flags

	// flags
	category   string
	search     string
	minPrice   float64
	maxPrice   float64
	sort       string
	match      string
	jsonOutput bool
}

// NewProductsCmd creates a new products command
func NewProductsCmd(flags *Flags) *ProductsCmd {
	return &ProductsCmd{flags: flags}
}

// Register adds the products and product commands to the application
func (cmd *ProductsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands,
		&cli.Command{
			Name:      "products",
			Usage:     "List and filter products",
			UsageText: "storefront products [--category slug] [--search text] [--min-price n] [--max-price n] [--sort order] [--match glob] [--json]",
			Description: `Loads products from the upstream catalog and filters them.

Without --category every category is loaded. --match takes a glob matched
against product IDs, e.g. 'electronics-*'.`,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:        "category",
					Usage:       "category slug (clothes, electronics, furniture, miscellaneous)",
					Destination: &cmd.category,
				},
				&cli.StringFlag{
					Name:        "search",
					Aliases:     []string{"q"},
					Usage:       "case-insensitive title substring",
					Destination: &cmd.search,
				},
				&cli.FloatFlag{
					Name:        "min-price",
					Usage:       "minimum price, inclusive",
					Destination: &cmd.minPrice,
				},
				&cli.FloatFlag{
					Name:        "max-price",
					Usage:       "maximum price, inclusive",
					Destination: &cmd.maxPrice,
				},
				&cli.StringFlag{
					Name:        "sort",
					Usage:       "newest, price-low, price-high or rating",
					Destination: &cmd.sort,
				},
				&cli.StringFlag{
					Name:        "match",
					Usage:       "glob matched against product IDs",
					Destination: &cmd.match,
				},
				&cli.BoolFlag{
					Name:        "json",
					Usage:       "output as JSON",
					Destination: &cmd.jsonOutput,
				},
			},
			Action: cmd.runList,
		},
		&cli.Command{
			Name:      "product",
			Usage:     "Show one product",
			UsageText: "storefront product <id> [--json]",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:        "json",
					Usage:       "output as JSON",
					Destination: &cmd.jsonOutput,
				},
			},
			Action: cmd.runShow,
		},
	)

	return app
}

func (cmd *ProductsCmd) query(c *cli.Command) (catalog.Query, error) {
	sort, err := catalog.ParseSort(cmd.sort)
	if err != nil {
		return catalog.Query{}, err
	}

	q := catalog.Query{
		Search:   cmd.search,
		Category: cmd.category,
		Pattern:  cmd.match,
		Sort:     sort,
	}
	if c.IsSet("min-price") {
		q.MinPrice = &cmd.minPrice
	}
	if c.IsSet("max-price") {
		q.MaxPrice = &cmd.maxPrice
	}

	if q.Category != "" && q.Category != catalog.AllCategories {
		if _, ok := cmd.flags.App.Catalog.Category(q.Category); !ok {
			return catalog.Query{}, fmt.Errorf("unknown category %q", q.Category)
		}
	}

	return q, nil
}

func (cmd *ProductsCmd) runList(ctx context.Context, c *cli.Command) error {
	q, err := cmd.query(c)
	if err != nil {
		return err
	}

	products, err := cmd.flags.App.Catalog.Search(ctx, q)
	if err != nil {
		return err
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		return iojson.Write(out, products)
	}

	if len(products) == 0 {
		fmt.Fprintln(os.Stderr, "No products found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tTITLE\tPRICE\tRATING\tCATEGORY")
	for _, p := range products {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Title, storefront.FormatPrice(p.Price), storefront.FormatRating(p), p.Category.Name)
	}
	return w.Flush()
}

func (cmd *ProductsCmd) runShow(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("usage: storefront product <id>")
	}
	id := c.Args().First()

	p, ok := cmd.flags.App.Catalog.FindProductByID(ctx, id)
	if !ok {
		return fmt.Errorf("%w: %q", storefront.ErrProductNotFound, id)
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		return iojson.Write(out, p)
	}

	doc := storefront.ProductMarkdown(p)
	if !printer.IsTerminal(out) {
		_, err := fmt.Fprint(out, doc)
		return err
	}

	rendered, err := styles.RenderMarkdown(doc, 80)
	if err != nil {
		return fmt.Errorf("render product: %w", err)
	}
	_, err = fmt.Fprint(out, rendered)
	return err
}
