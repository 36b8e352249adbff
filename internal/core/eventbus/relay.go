package eventbus

import (
	"github.com/colonyops/storefront/internal/core/catalog"
	"github.com/colonyops/storefront/internal/core/store"
)

// Relay publishes the events derived from every store transition and
// returns a function that stops relaying. Payloads are copies, so bus
// subscribers never share memory with store state.
func Relay(st *store.Store, bus *EventBus) (stop func()) {
	return st.Subscribe(func(c store.Change) {
		for _, ev := range Derive(c) {
			bus.send(ev.Event, ev.Payload)
		}
	})
}

// Derived is one event produced from a transition.
type Derived struct {
	Event   Event
	Payload any
}

// Derive returns the events a transition produces, in publish order.
func Derive(c store.Change) []Derived {
	var out []Derived

	if c.CartChanged() {
		items := make([]store.CartItem, 0, len(c.Next.Cart))
		for _, item := range c.Next.Cart {
			items = append(items, item.Clone())
		}
		out = append(out, Derived{EventCartChanged, CartChangedPayload{Items: items, Count: c.Next.CartCount()}})
	}

	if c.WishlistChanged() {
		items := make([]catalog.Product, 0, len(c.Next.Wishlist))
		for _, p := range c.Next.Wishlist {
			items = append(items, p.Clone())
		}
		out = append(out, Derived{EventWishlistChanged, WishlistChangedPayload{Items: items}})
	}

	if _, ok := c.Action.(store.AddOrder); ok && len(c.Next.Orders) > 0 {
		out = append(out, Derived{EventOrderPlaced, OrderPlacedPayload{Order: c.Next.Orders[0].Clone()}})
	}

	if c.ToastChanged() {
		if c.Next.Toast != nil {
			out = append(out, Derived{EventToastShown, ToastShownPayload{Toast: *c.Next.Toast}})
		} else {
			out = append(out, Derived{EventToastCleared, ToastClearedPayload{}})
		}
	}

	return out
}
