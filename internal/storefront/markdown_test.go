package storefront

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/colonyops/storefront/internal/core/catalog"
)

func TestFormatRating(t *testing.T) {
	r := 4.5
	assert.Equal(t, "-", FormatRating(catalog.Product{}))
	assert.Equal(t, "4.5", FormatRating(catalog.Product{Rating: &r}))
}

func TestProductMarkdown(t *testing.T) {
	stock := 3
	p := catalog.Product{
		ID:          "furniture-31",
		Title:       "Sofa",
		Description: "Deep seats.",
		Price:       899,
		Images:      []string{"https://img/sofa.png"},
		Category:    catalog.CategoryRef{Slug: "furniture", Name: "Furniture"},
		Stock:       &stock,
		Source:      "Furniture",
	}

	doc := ProductMarkdown(p)
	assert.Contains(t, doc, "# Sofa")
	assert.Contains(t, doc, "**$899.00** · Furniture · `furniture-31`")
	assert.Contains(t, doc, "Deep seats.")
	assert.Contains(t, doc, "| Rating | - |")
	assert.Contains(t, doc, "| Stock | 3 |")
	assert.Contains(t, doc, "| Image | https://img/sofa.png |")

	p.Stock = nil
	p.Source = ""
	doc = ProductMarkdown(p)
	assert.NotContains(t, doc, "| Stock")
	assert.NotContains(t, doc, "| Source")
}
