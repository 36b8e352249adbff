package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/hay-kot/criterio"

	"github.com/colonyops/storefront/internal/core/notify"
	"github.com/colonyops/storefront/internal/core/store"
	"github.com/colonyops/storefront/internal/storefront"
)

func warning(msg string) notify.Toast {
	return notify.Toast{Message: msg, Level: notify.LevelWarning}
}

func failure(msg string) notify.Toast {
	return notify.Toast{Message: msg, Level: notify.LevelError}
}

// Update handles every message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg), nil

	case busEventMsg:
		m.syncState()
		m.log.Debug().Str("event", string(msg.event)).Msg("store event")
		return m, m.events.wait()

	case productsLoadedMsg:
		if msg.slug != m.category.Slug {
			return m, nil
		}
		m.products = msg.products
		m.loading = false
		m.clampCursors()
		return m, nil

	case detailRenderedMsg:
		if msg.id != m.detailID {
			return m, nil
		}
		if msg.err != nil {
			m.log.Error().Err(msg.err).Str("product", msg.id).Msg("render product")
			m.detail.SetContent(msg.err.Error())
			return m, nil
		}
		m.detail.SetContent(msg.content)
		m.detail.GotoTop()
		return m, nil

	case orderPlacedMsg:
		return m.handleOrderPlaced(msg)

	case toastTickMsg:
		m.toasts.Tick(toastTickInterval)
		if m.toasts.HasLocal() {
			return m, toastTick()
		}
		m.toasts.SetTicking(false)
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.state == stateCheckout {
		return m.updateCheckout(msg)
	}
	return m, nil
}

func (m Model) handleResize(msg tea.WindowSizeMsg) Model {
	m.width, m.height = msg.Width, msg.Height
	m.help.Width = msg.Width
	m.detail.Width = msg.Width
	m.detail.Height = max(m.bodyHeight(), 1)
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.state {
	case stateCheckout:
		return m.updateCheckout(msg)
	case stateSearching:
		return m.handleSearchKey(msg)
	case stateDetail:
		return m.handleDetailKey(msg)
	}

	keys := m.activeKeys()
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, keys.NextTab):
		m.tab = (m.tab + 1) % tabCount
		return m, nil
	case key.Matches(msg, keys.PrevTab):
		m.tab = (m.tab + tabCount - 1) % tabCount
		return m, nil
	case key.Matches(msg, keys.Up):
		m.moveCursor(-1)
		return m, nil
	case key.Matches(msg, keys.Down):
		m.moveCursor(1)
		return m, nil
	}

	if n := tabFromKey(msg.String()); n >= 0 {
		m.tab = n
		return m, nil
	}

	switch m.tab {
	case tabCategories:
		if key.Matches(msg, keys.Open) {
			return m.openCategory(m.cursors[tabCategories])
		}
	case tabProducts:
		return m.handleProductsKey(msg, keys)
	case tabCart:
		return m.handleCartKey(msg, keys)
	case tabWishlist:
		return m.handleWishlistKey(msg, keys)
	}
	return m, nil
}

// tabFromKey maps the digits 1-5 to tabs, or -1.
func tabFromKey(s string) tab {
	if len(s) != 1 || s[0] < '1' || s[0] > '0'+byte(tabCount) {
		return -1
	}
	return tab(s[0] - '1')
}

func (m *Model) moveCursor(delta int) {
	n := m.listLen(m.tab)
	if n == 0 {
		return
	}
	m.cursors[m.tab] = min(max(m.cursors[m.tab]+delta, 0), n-1)
}

func (m Model) openCategory(i int) (tea.Model, tea.Cmd) {
	if i < 0 || i >= len(m.categories) {
		return m, nil
	}

	m.category = m.categories[i]
	m.tab = tabProducts
	m.cursors[tabProducts] = 0
	m.products = nil
	m.loading = true

	return m, tea.Batch(
		loadCategory(m.ctx, m.app.Catalog, m.category.Slug),
		m.spinner.Tick,
	)
}

func (m Model) handleProductsKey(msg tea.KeyMsg, keys keyMap) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Search):
		m.state = stateSearching
		return m, m.search.Focus()
	case key.Matches(msg, keys.Sort):
		m.sort = (m.sort + 1) % len(sortCycle)
		m.clampCursors()
		return m, nil
	case key.Matches(msg, keys.Refresh):
		if m.category.Slug == "" {
			return m, nil
		}
		m.app.Catalog.Refresh(m.category.Slug)
		m.loading = true
		return m, tea.Batch(
			loadCategory(m.ctx, m.app.Catalog, m.category.Slug),
			m.spinner.Tick,
		)
	}

	p, ok := m.selectedProduct()
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Open):
		m.state = stateDetail
		m.detailID = p.ID
		m.detail.SetContent("")
		return m, renderDetail(p, m.detail.Width)
	case key.Matches(msg, keys.AddCart):
		m.app.Shop.Dispatch(store.AddToCart{Product: p})
		m.syncState()
	case key.Matches(msg, keys.Wishlist):
		m.app.Shop.Dispatch(store.AddToWishlist{Product: p})
		m.syncState()
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.state = stateBrowsing
		m.search.Blur()
		return m, nil
	case "esc":
		m.state = stateBrowsing
		m.search.Blur()
		m.search.SetValue("")
		m.clampCursors()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.cursors[tabProducts] = 0
	return m, cmd
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.activeKeys()
	switch {
	case key.Matches(msg, keys.Back), key.Matches(msg, keys.Quit):
		m.state = stateBrowsing
		m.detailID = ""
		return m, nil
	case key.Matches(msg, keys.AddCart), key.Matches(msg, keys.Wishlist):
		p, ok := m.selectedProduct()
		if !ok {
			return m, nil
		}
		if key.Matches(msg, keys.AddCart) {
			m.app.Shop.Dispatch(store.AddToCart{Product: p})
		} else {
			m.app.Shop.Dispatch(store.AddToWishlist{Product: p})
		}
		m.syncState()
		return m, nil
	}

	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

func (m Model) handleCartKey(msg tea.KeyMsg, keys keyMap) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Checkout) {
		return m.startCheckout()
	}
	if key.Matches(msg, keys.ClearCart) {
		m.app.Shop.ClearCart()
		m.syncState()
		return m, nil
	}

	item, ok := m.selectedCartItem()
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Increment):
		m.app.Shop.Dispatch(store.UpdateCartQuantity{ID: item.ID, Quantity: item.Quantity + 1})
	case key.Matches(msg, keys.Decrement):
		m.app.Shop.Dispatch(store.UpdateCartQuantity{ID: item.ID, Quantity: item.Quantity - 1})
	case key.Matches(msg, keys.Remove):
		m.app.Shop.Dispatch(store.RemoveFromCart{ID: item.ID})
	default:
		return m, nil
	}
	m.syncState()
	return m, nil
}

func (m Model) handleWishlistKey(msg tea.KeyMsg, keys keyMap) (tea.Model, tea.Cmd) {
	p, ok := m.selectedWishlistItem()
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Move):
		if err := m.app.Shop.MoveToCart(p.ID); err != nil {
			return m.pushToast(failure(err.Error()))
		}
	case key.Matches(msg, keys.Remove):
		m.app.Shop.Dispatch(store.RemoveFromWishlist{ID: p.ID})
	default:
		return m, nil
	}
	m.syncState()
	return m, nil
}

func (m Model) startCheckout() (tea.Model, tea.Cmd) {
	if len(m.snapshot.Cart) == 0 {
		return m.pushToast(warning("Your cart is empty"))
	}

	var prefill store.Customer
	if len(m.snapshot.Orders) > 0 {
		prefill = m.snapshot.Orders[0].Customer
	}

	m.checkout = newCheckoutForm(prefill, min(m.width, 72))
	m.state = stateCheckout
	return m, m.checkout.form.Init()
}

func (m Model) updateCheckout(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.checkout == nil {
		m.state = stateBrowsing
		return m, nil
	}

	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "esc" {
		m.checkout = nil
		m.state = stateBrowsing
		return m, nil
	}

	model, cmd := m.checkout.form.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		m.checkout.form = f
	}

	switch m.checkout.form.State {
	case huh.StateAborted:
		m.checkout = nil
		m.state = stateBrowsing
		return m, nil
	case huh.StateCompleted:
		customer := m.checkout.Customer()
		m.checkout = nil
		m.state = stateBrowsing
		return m, placeOrder(m.ctx, m.app.Checkout, customer)
	}
	return m, cmd
}

func (m Model) handleOrderPlaced(msg orderPlacedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.log.Warn().Err(msg.err).Msg("checkout failed")
		return m.pushToast(failure(checkoutError(msg.err)))
	}

	m.lastOrder = msg.order.ID
	m.tab = tabOrders
	m.cursors[tabOrders] = 0
	m.syncState()
	return m, nil
}

func checkoutError(err error) string {
	var fieldErrs criterio.FieldErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return fmt.Sprintf("%s: %s", fieldErrs[0].Field, fieldErrs[0].Err)
	}
	if errors.Is(err, storefront.ErrEmptyCart) {
		return "Your cart is empty"
	}
	return "Checkout failed: " + err.Error()
}

func (m Model) pushToast(t notify.Toast) (tea.Model, tea.Cmd) {
	m.toasts.Push(t)
	if m.toasts.Ticking() {
		return m, nil
	}
	m.toasts.SetTicking(true)
	return m, toastTick()
}
