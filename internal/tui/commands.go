package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/colonyops/storefront/internal/core/catalog"
	"github.com/colonyops/storefront/internal/core/store"
	"github.com/colonyops/storefront/internal/core/styles"
	"github.com/colonyops/storefront/internal/storefront"
)

func loadCategory(ctx context.Context, svc *storefront.CatalogService, slug string) tea.Cmd {
	return func() tea.Msg {
		return productsLoadedMsg{slug: slug, products: svc.LoadCategory(ctx, slug)}
	}
}

func renderDetail(p catalog.Product, width int) tea.Cmd {
	return func() tea.Msg {
		out, err := styles.RenderMarkdown(storefront.ProductMarkdown(p), width)
		return detailRenderedMsg{id: p.ID, content: out, err: err}
	}
}

func placeOrder(ctx context.Context, svc *storefront.CheckoutService, customer store.Customer) tea.Cmd {
	return func() tea.Msg {
		order, err := svc.PlaceOrder(ctx, customer)
		return orderPlacedMsg{order: order, err: err}
	}
}
