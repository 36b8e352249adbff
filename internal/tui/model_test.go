package tui

import (
	"context"
	"errors"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/storefront/internal/core/catalog"
	"github.com/colonyops/storefront/internal/core/config"
	"github.com/colonyops/storefront/internal/core/kv"
	"github.com/colonyops/storefront/internal/core/notify"
	"github.com/colonyops/storefront/internal/core/store"
	"github.com/colonyops/storefront/internal/storefront"
	"github.com/colonyops/storefront/internal/storefront/upstream"
	"github.com/colonyops/storefront/pkg/tuitest"
)

// stubFetcher serves canned products keyed by the first loader segment.
type stubFetcher map[string][]catalog.RawProduct

func (f stubFetcher) Fetch(_ context.Context, spec upstream.LoaderSpec) ([]catalog.RawProduct, error) {
	return f[spec.Segments[0]], nil
}

func newTestApp(t *testing.T) *storefront.App {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.Storage.Driver = config.DriverMemory

	app, err := storefront.NewApp(context.Background(), &cfg, storefront.AppOptions{
		Fetcher: stubFetcher{
			"smartphones": {
				{"id": 1, "title": "Phone", "price": 549, "rating": 4.5},
				{"id": 2, "title": "Tablet", "price": 299, "rating": 4.1},
			},
			"furniture": {{"id": 31, "title": "Sofa", "price": 899}},
		},
		Storage: kv.NewMemory(),
		Logger:  zerolog.Nop(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func newTestModel(t *testing.T, app *storefront.App) Model {
	t.Helper()
	m := New(context.Background(), app, Options{Logger: zerolog.Nop()})
	t.Cleanup(m.Close)
	return update(t, m, tuitest.WindowSize(120, 40))
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model
}

func press(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

// run executes cmd and feeds its messages back into m. Spinner ticks are
// skipped.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}

	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		batch = tea.BatchMsg{func() tea.Msg { return msg }}
	}

	for _, c := range batch {
		if c == nil {
			continue
		}
		sub := c()
		if _, skip := sub.(spinner.TickMsg); skip || sub == nil {
			continue
		}
		m = update(t, m, sub)
	}
	return m
}

func view(m Model) string {
	return tuitest.StripANSI(m.View())
}

// openElectronics selects the electronics category and loads it.
func openElectronics(t *testing.T, m Model) Model {
	t.Helper()
	m, _ = press(t, m, tuitest.KeyDown())
	m, cmd := press(t, m, tuitest.KeyEnter())
	require.Equal(t, tabProducts, m.tab)
	require.True(t, m.loading)
	assert.Contains(t, view(m), "Loading products")

	m = run(t, m, cmd)
	require.False(t, m.loading)
	return m
}

func TestModel_ListsCategories(t *testing.T) {
	m := newTestModel(t, newTestApp(t))

	out := view(m)
	for _, name := range []string{"Clothes", "Electronics", "Furniture", "Miscellaneous"} {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "Categories")
}

func TestModel_BrowseAndAddToCart(t *testing.T) {
	app := newTestApp(t)
	m := openElectronics(t, newTestModel(t, app))

	out := view(m)
	assert.Contains(t, out, "Phone")
	assert.Contains(t, out, "Tablet")
	assert.Contains(t, out, "$549.00")

	m, _ = press(t, m, tuitest.KeyPress('a'))
	item, ok := app.Store.State().CartItem("electronics-1")
	require.True(t, ok)
	assert.Equal(t, 1, item.Quantity)
	assert.Contains(t, view(m), store.MsgAddedToCart)
	assert.Contains(t, view(m), "Cart (1)")

	m, _ = press(t, m, tuitest.KeyDown(), tuitest.KeyPress('w'))
	assert.True(t, app.Store.State().InWishlist("electronics-2"))
	assert.Contains(t, view(m), "Wishlist (1)")
}

func TestModel_SortAndSearch(t *testing.T) {
	m := openElectronics(t, newTestModel(t, newTestApp(t)))

	m, _ = press(t, m, tuitest.KeyPress('s'))
	require.Equal(t, catalog.SortPriceLow, sortCycle[m.sort])
	p, ok := m.selectedProduct()
	require.True(t, ok)
	assert.Equal(t, "Tablet", p.Title)

	m, _ = press(t, m, tuitest.KeyPress('/'))
	require.Equal(t, stateSearching, m.state)
	m, _ = press(t, m, tuitest.KeyPressString("ph")...)
	m, _ = press(t, m, tuitest.KeyEnter())

	assert.Equal(t, stateBrowsing, m.state)
	products := m.visibleProducts()
	require.Len(t, products, 1)
	assert.Equal(t, "Phone", products[0].Title)

	m, _ = press(t, m, tuitest.KeyPress('/'), tuitest.KeyEsc())
	assert.Empty(t, m.search.Value())
	assert.Len(t, m.visibleProducts(), 2)
}

func TestModel_ProductDetail(t *testing.T) {
	app := newTestApp(t)
	m := openElectronics(t, newTestModel(t, app))

	m, cmd := press(t, m, tuitest.KeyEnter())
	require.Equal(t, stateDetail, m.state)
	m = run(t, m, cmd)
	assert.Contains(t, view(m), "Phone")

	m, _ = press(t, m, tuitest.KeyPress('a'))
	assert.Equal(t, 1, app.Store.State().CartCount())

	m, _ = press(t, m, tuitest.KeyEsc())
	assert.Equal(t, stateBrowsing, m.state)
}

func TestModel_StaleProductsIgnored(t *testing.T) {
	m := newTestModel(t, newTestApp(t))
	m.category = catalog.Category{Slug: "furniture"}

	m = update(t, m, productsLoadedMsg{slug: "electronics", products: []catalog.Product{{ID: "electronics-1"}}})
	assert.Empty(t, m.products)
}

func seedCart(t *testing.T, app *storefront.App, id string) {
	t.Helper()
	_, err := app.Shop.AddToCart(context.Background(), id)
	require.NoError(t, err)
}

func TestModel_CartQuantity(t *testing.T) {
	app := newTestApp(t)
	seedCart(t, app, "furniture-31")
	m := newTestModel(t, app)

	m, _ = press(t, m, tuitest.KeyPress('3'))
	require.Equal(t, tabCart, m.tab)
	assert.Contains(t, view(m), "Sofa")
	assert.Contains(t, view(m), "$899.00")

	m, _ = press(t, m, tuitest.KeyPress('+'))
	item, _ := app.Store.State().CartItem("furniture-31")
	assert.Equal(t, 2, item.Quantity)
	assert.Contains(t, view(m), "$1798.00")

	m, _ = press(t, m, tuitest.KeyPress('-'), tuitest.KeyPress('-'))
	item, _ = app.Store.State().CartItem("furniture-31")
	assert.Equal(t, 1, item.Quantity, "quantity never drops below one")

	m, _ = press(t, m, tuitest.KeyPress('d'))
	assert.Empty(t, app.Store.State().Cart)
	assert.Contains(t, view(m), "Your cart is empty.")
}

func TestModel_ClearCart(t *testing.T) {
	app := newTestApp(t)
	seedCart(t, app, "furniture-31")
	seedCart(t, app, "electronics-1")
	m := newTestModel(t, app)

	m, _ = press(t, m, tuitest.KeyPress('3'), tuitest.KeyPress('X'))
	assert.Empty(t, app.Store.State().Cart)
	assert.Equal(t, 0, m.snapshot.CartCount())
}

func TestModel_WishlistMoveToCart(t *testing.T) {
	app := newTestApp(t)
	_, err := app.Shop.AddToWishlist(context.Background(), "electronics-2")
	require.NoError(t, err)
	m := newTestModel(t, app)

	m, _ = press(t, m, tuitest.KeyPress('4'))
	assert.Contains(t, view(m), "Tablet")

	m, _ = press(t, m, tuitest.KeyPress('m'))
	state := app.Store.State()
	assert.Empty(t, state.Wishlist)
	_, ok := state.CartItem("electronics-2")
	assert.True(t, ok)
	assert.Contains(t, view(m), "Your wishlist is empty.")
}

func TestModel_CheckoutEmptyCartWarns(t *testing.T) {
	m := newTestModel(t, newTestApp(t))

	m, cmd := press(t, m, tuitest.KeyPress('3'), tuitest.KeyPress('c'))
	assert.Equal(t, stateBrowsing, m.state)
	assert.NotNil(t, cmd, "local toast starts ticking")
	assert.Contains(t, view(m), "Your cart is empty")
}

func TestModel_CheckoutFormOpensAndCancels(t *testing.T) {
	app := newTestApp(t)
	seedCart(t, app, "furniture-31")
	m := newTestModel(t, app)

	m, _ = press(t, m, tuitest.KeyPress('3'), tuitest.KeyPress('c'))
	require.Equal(t, stateCheckout, m.state)
	require.NotNil(t, m.checkout)
	assert.Contains(t, view(m), "Checkout")
	assert.Contains(t, view(m), "$899.00")

	m, _ = press(t, m, tuitest.KeyEsc())
	assert.Equal(t, stateBrowsing, m.state)
	assert.Nil(t, m.checkout)
	assert.Len(t, app.Store.State().Cart, 1)
}

func TestModel_OrderPlaced(t *testing.T) {
	app := newTestApp(t)
	seedCart(t, app, "furniture-31")
	m := newTestModel(t, app)

	customer := store.Customer{Name: "Ada", Email: "ada@example.com", Address: "1 Loop Rd"}
	m = run(t, m, placeOrder(context.Background(), app.Checkout, customer))

	assert.Equal(t, tabOrders, m.tab)
	state := app.Store.State()
	require.Len(t, state.Orders, 1)
	assert.Empty(t, state.Cart)
	assert.Equal(t, state.Orders[0].ID, m.lastOrder)

	out := view(m)
	assert.Contains(t, out, "$899.00")
	assert.Contains(t, out, "new")
	assert.Contains(t, out, store.MsgOrderPlaced)
}

func TestModel_OrderFailedShowsToast(t *testing.T) {
	m := newTestModel(t, newTestApp(t))

	err := criterio.NewFieldErrors("email", errors.New("is required"))
	next, cmd := m.Update(orderPlacedMsg{err: err})
	m = next.(Model)

	assert.NotNil(t, cmd)
	current := m.toasts.Current()
	require.NotNil(t, current)
	assert.Equal(t, notify.LevelError, current.Level)
	assert.Equal(t, "email: is required", current.Message)
}

func TestModel_BusEventSyncsState(t *testing.T) {
	app := newTestApp(t)
	m := newTestModel(t, app)

	seedCart(t, app, "furniture-31")
	assert.Equal(t, 0, m.snapshot.CartCount(), "snapshot is stale until an event arrives")

	m = update(t, m, busEventMsg{event: "cart.changed"})
	assert.Equal(t, 1, m.snapshot.CartCount())
	require.NotNil(t, m.toasts.Current())
	assert.Equal(t, store.MsgAddedToCart, m.toasts.Current().Message)
}

func TestModel_TabNavigation(t *testing.T) {
	m := newTestModel(t, newTestApp(t))

	m, _ = press(t, m, tuitest.KeyTab())
	assert.Equal(t, tabProducts, m.tab)
	assert.Contains(t, view(m), "Pick a category")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab}, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, tabOrders, m.tab)
	assert.Contains(t, view(m), "No orders yet.")

	_, cmd := press(t, m, tuitest.KeyPress('q'))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_WarningsShownOnStart(t *testing.T) {
	app := newTestApp(t)
	m := New(context.Background(), app, Options{Logger: zerolog.Nop(), Warnings: []string{"storage was reset"}})
	t.Cleanup(m.Close)

	require.NotNil(t, m.toasts.Current())
	assert.Equal(t, "storage was reset", m.toasts.Current().Message)
	assert.True(t, m.toasts.HasLocal())
}

func TestTabFromKey(t *testing.T) {
	assert.Equal(t, tabCategories, tabFromKey("1"))
	assert.Equal(t, tabOrders, tabFromKey("5"))
	assert.Equal(t, tab(-1), tabFromKey("6"))
	assert.Equal(t, tab(-1), tabFromKey("a"))
	assert.Equal(t, tab(-1), tabFromKey("10"))
}

func TestWindow(t *testing.T) {
	tests := []struct {
		name                string
		cursor, n, rows     int
		wantStart, wantEnd int
	}{
		{"fits", 2, 5, 10, 0, 5},
		{"top", 0, 50, 10, 0, 10},
		{"middle", 25, 50, 10, 20, 30},
		{"bottom", 49, 50, 10, 40, 50},
		{"no rows", 3, 5, 0, 0, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := window(tt.cursor, tt.n, tt.rows)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
