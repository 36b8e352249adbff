package storefront

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/colonyops/storefront/internal/core/catalog"
)

// FormatRating renders a product rating with one decimal, or "-" when the
// product has none.
func FormatRating(p catalog.Product) string {
	if p.Rating == nil {
		return "-"
	}
	return strconv.FormatFloat(*p.Rating, 'f', 1, 64)
}

// ProductMarkdown renders the product detail page as markdown.
func ProductMarkdown(p catalog.Product) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", p.Title)
	fmt.Fprintf(&b, "**%s** · %s · `%s`\n\n", FormatPrice(p.Price), p.Category.Name, p.ID)
	if p.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", p.Description)
	}

	b.WriteString("| Detail | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Rating | %s |\n", FormatRating(p))
	if p.Stock != nil {
		fmt.Fprintf(&b, "| Stock | %d |\n", *p.Stock)
	}
	if p.Source != "" {
		fmt.Fprintf(&b, "| Source | %s |\n", p.Source)
	}
	fmt.Fprintf(&b, "| Image | %s |\n", p.Thumbnail())

	return b.String()
}
