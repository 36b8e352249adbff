// Package tui implements the Bubble Tea terminal storefront.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/colonyops/storefront/internal/core/catalog"
	"github.com/colonyops/storefront/internal/core/store"
	"github.com/colonyops/storefront/internal/core/styles"
	"github.com/colonyops/storefront/internal/storefront"
)

type tab int

const (
	tabCategories tab = iota
	tabProducts
	tabCart
	tabWishlist
	tabOrders
	tabCount
)

var tabNames = [tabCount]string{"Categories", "Products", "Cart", "Wishlist", "Orders"}

// UIState represents what the key handler is currently driving.
type UIState int

const (
	stateBrowsing UIState = iota
	stateSearching
	stateDetail
	stateCheckout
)

// sortCycle is the order the sort key steps through.
var sortCycle = []catalog.Sort{
	catalog.SortNone,
	catalog.SortPriceLow,
	catalog.SortPriceHigh,
	catalog.SortRating,
	catalog.SortNewest,
}

// Options configures the TUI.
type Options struct {
	Logger zerolog.Logger
	// Warnings are shown as toasts on startup.
	Warnings []string
}

// Model is the root Bubble Tea model.
type Model struct {
	ctx  context.Context
	app  *storefront.App
	log  zerolog.Logger
	opts Options

	keys    keyMap
	help    help.Model
	spinner spinner.Model
	search  textinput.Model
	detail  viewport.Model

	events   *eventPump
	toasts   *ToastController
	checkout *checkoutForm

	state   UIState
	tab     tab
	width   int
	height  int
	cursors [tabCount]int

	categories []catalog.Category
	category   catalog.Category
	products   []catalog.Product
	loading    bool
	sort       int
	detailID   string

	snapshot  store.State
	lastOrder string
}

// New creates the model. The caller starts the app so store changes reach
// the bus.
func New(ctx context.Context, app *storefront.App, opts Options) Model {
	search := textinput.New()
	search.Placeholder = "search titles"
	search.Prompt = styles.IconSearch + " "
	search.CharLimit = 64

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = styles.SelectedStyle

	m := Model{
		ctx:        ctx,
		app:        app,
		log:        opts.Logger,
		opts:       opts,
		keys:       defaultKeyMap(),
		help:       help.New(),
		spinner:    sp,
		search:     search,
		detail:     viewport.New(80, 20),
		events:     newEventPump(app.Bus, opts.Logger),
		toasts:     NewToastController(),
		categories: app.Catalog.ListCategories(),
	}
	m.syncState()
	for _, w := range opts.Warnings {
		m.toasts.Push(warning(w))
	}
	return m
}

// Init starts listening for bus events.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.events.wait()}
	if m.toasts.HasLocal() {
		m.toasts.SetTicking(true)
		cmds = append(cmds, toastTick())
	}
	return tea.Batch(cmds...)
}

// Close detaches the model from the event bus.
func (m Model) Close() {
	m.events.close()
}

// syncState refreshes the store snapshot and mirrors its toast.
func (m *Model) syncState() {
	m.snapshot = m.app.Store.State()
	m.toasts.Mirror(m.snapshot.Toast)
	m.clampCursors()
}

// visibleProducts applies the search box and sort order to the loaded
// category.
func (m Model) visibleProducts() []catalog.Product {
	return catalog.Filter(m.products, catalog.Query{
		Search: m.search.Value(),
		Sort:   sortCycle[m.sort],
	})
}

func (m Model) listLen(t tab) int {
	switch t {
	case tabCategories:
		return len(m.categories)
	case tabProducts:
		return len(m.visibleProducts())
	case tabCart:
		return len(m.snapshot.Cart)
	case tabWishlist:
		return len(m.snapshot.Wishlist)
	case tabOrders:
		return len(m.snapshot.Orders)
	default:
		return 0
	}
}

func (m *Model) clampCursors() {
	for t := tab(0); t < tabCount; t++ {
		n := m.listLen(t)
		switch {
		case n == 0:
			m.cursors[t] = 0
		case m.cursors[t] >= n:
			m.cursors[t] = n - 1
		case m.cursors[t] < 0:
			m.cursors[t] = 0
		}
	}
}

// selectedProduct returns the product under the cursor on the products tab.
func (m Model) selectedProduct() (catalog.Product, bool) {
	products := m.visibleProducts()
	i := m.cursors[tabProducts]
	if i < 0 || i >= len(products) {
		return catalog.Product{}, false
	}
	return products[i], true
}

func (m Model) selectedCartItem() (store.CartItem, bool) {
	i := m.cursors[tabCart]
	if i < 0 || i >= len(m.snapshot.Cart) {
		return store.CartItem{}, false
	}
	return m.snapshot.Cart[i], true
}

func (m Model) selectedWishlistItem() (catalog.Product, bool) {
	i := m.cursors[tabWishlist]
	if i < 0 || i >= len(m.snapshot.Wishlist) {
		return catalog.Product{}, false
	}
	return m.snapshot.Wishlist[i], true
}

// activeKeys returns the bindings for the current tab and state.
func (m Model) activeKeys() keyMap {
	if m.state == stateDetail {
		return m.keys.forDetail()
	}
	return m.keys.forTab(m.tab)
}
