package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/colonyops/storefront/internal/core/catalog"
	"github.com/colonyops/storefront/internal/core/store"
)

// productsLoadedMsg delivers the normalized products of a category.
type productsLoadedMsg struct {
	slug     string
	products []catalog.Product
}

// detailRenderedMsg delivers the rendered markdown of a product.
type detailRenderedMsg struct {
	id      string
	content string
	err     error
}

// orderPlacedMsg reports the outcome of a checkout submission.
type orderPlacedMsg struct {
	order store.Order
	err   error
}

type toastTickMsg struct{}

func toastTick() tea.Cmd {
	return tea.Tick(toastTickInterval, func(time.Time) tea.Msg {
		return toastTickMsg{}
	})
}
