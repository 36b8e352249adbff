package storefront

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/colonyops/storefront/internal/core/store"
	"github.com/colonyops/storefront/internal/core/validate"
)

// ErrEmptyCart is returned when checking out with nothing in the cart.
var ErrEmptyCart = errors.New("cart is empty")

// LineTotal is the cost of one cart entry.
type LineTotal struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Total    decimal.Decimal `json:"total"`
}

// Totals summarizes a cart. Total equals Subtotal: there is no tax or
// shipping.
type Totals struct {
	Lines    []LineTotal     `json:"lines"`
	Items    int             `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Total    decimal.Decimal `json:"total"`
}

// ComputeTotals prices every line of items and sums them. Amounts are exact;
// callers round for display with FormatAmount.
func ComputeTotals(items []store.CartItem) Totals {
	t := Totals{
		Lines:    make([]LineTotal, 0, len(items)),
		Subtotal: decimal.Zero,
	}

	for _, item := range items {
		price := decimal.NewFromFloat(item.Price)
		line := price.Mul(decimal.NewFromInt(int64(item.Quantity)))

		t.Lines = append(t.Lines, LineTotal{
			ID:       item.ID,
			Title:    item.Title,
			Quantity: item.Quantity,
			Price:    price,
			Total:    line,
		})
		t.Items += item.Quantity
		t.Subtotal = t.Subtotal.Add(line)
	}

	t.Total = t.Subtotal
	return t
}

// FormatAmount renders d as dollars with two decimals.
func FormatAmount(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// FormatPrice renders a product price as dollars with two decimals.
func FormatPrice(price float64) string {
	return FormatAmount(decimal.NewFromFloat(price))
}

// CheckoutService builds orders from the current cart.
type CheckoutService struct {
	store *store.Store
	now   func() time.Time
	newID func() (uuid.UUID, error)
	log   zerolog.Logger
}

// CheckoutOption configures a CheckoutService.
type CheckoutOption func(*CheckoutService)

// WithNow overrides the order timestamp source.
func WithNow(now func() time.Time) CheckoutOption {
	return func(c *CheckoutService) { c.now = now }
}

// WithIDGenerator overrides the order id source.
func WithIDGenerator(fn func() (uuid.UUID, error)) CheckoutOption {
	return func(c *CheckoutService) { c.newID = fn }
}

// WithCheckoutLogger sets the logger.
func WithCheckoutLogger(l zerolog.Logger) CheckoutOption {
	return func(c *CheckoutService) { c.log = l }
}

// NewCheckoutService creates a CheckoutService. Order ids are UUIDv7, so they
// sort by creation time.
func NewCheckoutService(st *store.Store, opts ...CheckoutOption) *CheckoutService {
	c := &CheckoutService{
		store: st,
		now:   time.Now,
		newID: uuid.NewV7,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Totals prices the current cart.
func (c *CheckoutService) Totals() Totals {
	return ComputeTotals(c.store.State().Cart)
}

// PlaceOrder validates customer, snapshots the cart into an order, and
// dispatches it. The snapshot and the dispatch happen in one store
// transition, which also empties the cart.
func (c *CheckoutService) PlaceOrder(ctx context.Context, customer store.Customer) (store.Order, error) {
	if err := ctx.Err(); err != nil {
		return store.Order{}, err
	}

	customer = store.Customer{
		Name:    strings.TrimSpace(customer.Name),
		Email:   strings.TrimSpace(customer.Email),
		Address: strings.TrimSpace(customer.Address),
	}
	if err := validate.Customer(customer.Name, customer.Email, customer.Address); err != nil {
		return store.Order{}, err
	}

	id, err := c.newID()
	if err != nil {
		return store.Order{}, fmt.Errorf("generate order id: %w", err)
	}

	var (
		order  store.Order
		totals Totals
	)
	c.store.DispatchFunc(func(st store.State) store.Action {
		if len(st.Cart) == 0 {
			return nil
		}
		totals = ComputeTotals(st.Cart)
		order = store.Order{
			ID:       id.String(),
			Date:     c.now().UTC(),
			Items:    st.Cart,
			Total:    totals.Total.InexactFloat64(),
			Customer: customer,
		}
		return store.AddOrder{Order: order}
	})
	if order.ID == "" {
		return store.Order{}, ErrEmptyCart
	}

	c.log.Info().
		Str("order_id", order.ID).
		Int("items", totals.Items).
		Str("total", totals.Total.StringFixed(2)).
		Msg("order placed")

	return order, nil
}
