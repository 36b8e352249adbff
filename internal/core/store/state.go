// Package store holds the storefront's single mutable application state and
// the reducer that advances it.
//
// State changes only through Store.Dispatch. Reduce is the pure transition
// function; Store serializes dispatches, schedules toast expiry, and notifies
// subscribers after every transition.
package store

import (
	"time"

	"github.com/colonyops/storefront/internal/core/catalog"
	"github.com/colonyops/storefront/internal/core/notify"
)

// CartItem is a product in the cart. Quantity is always at least 1.
type CartItem struct {
	catalog.Product
	Quantity int `json:"quantity"`
}

// Clone returns a deep copy of the item.
func (c CartItem) Clone() CartItem {
	return CartItem{Product: c.Product.Clone(), Quantity: c.Quantity}
}

// Customer holds the contact details collected at checkout.
type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// Order is an immutable record of a checkout. Items is a snapshot of the cart
// taken at submission time.
type Order struct {
	ID       string     `json:"id"`
	Date     time.Time  `json:"date"`
	Items    []CartItem `json:"items"`
	Total    float64    `json:"total"`
	Customer Customer   `json:"customer"`
}

// Clone returns a deep copy of the order.
func (o Order) Clone() Order {
	out := o
	out.Items = cloneItems(o.Items)
	return out
}

// ItemCount returns the total quantity across all items.
func (o Order) ItemCount() int {
	return countItems(o.Items)
}

// State is the application state aggregate. Toast is nil when no
// notification is active.
type State struct {
	Cart     []CartItem        `json:"cart"`
	Wishlist []catalog.Product `json:"wishlist"`
	Orders   []Order           `json:"orders"`
	Toast    *notify.Toast     `json:"toast"`
}

// Initial returns the empty starting state.
func Initial() State {
	return State{
		Cart:     []CartItem{},
		Wishlist: []catalog.Product{},
		Orders:   []Order{},
	}
}

// Clone returns a deep copy of s that shares no memory with it.
func (s State) Clone() State {
	out := State{
		Cart:     cloneItems(s.Cart),
		Wishlist: make([]catalog.Product, 0, len(s.Wishlist)),
		Orders:   make([]Order, 0, len(s.Orders)),
	}
	for _, p := range s.Wishlist {
		out.Wishlist = append(out.Wishlist, p.Clone())
	}
	for _, o := range s.Orders {
		out.Orders = append(out.Orders, o.Clone())
	}
	if s.Toast != nil {
		t := *s.Toast
		out.Toast = &t
	}
	return out
}

// CartItem returns the cart entry for id.
func (s State) CartItem(id string) (CartItem, bool) {
	if i := cartIndex(s.Cart, id); i >= 0 {
		return s.Cart[i], true
	}
	return CartItem{}, false
}

// WishlistItem returns the wishlisted product for id.
func (s State) WishlistItem(id string) (catalog.Product, bool) {
	if i := wishlistIndex(s.Wishlist, id); i >= 0 {
		return s.Wishlist[i], true
	}
	return catalog.Product{}, false
}

// InWishlist reports whether id is on the wishlist.
func (s State) InWishlist(id string) bool {
	return wishlistIndex(s.Wishlist, id) >= 0
}

// CartCount returns the total quantity in the cart.
func (s State) CartCount() int {
	return countItems(s.Cart)
}

func countItems(items []CartItem) int {
	n := 0
	for _, item := range items {
		n += item.Quantity
	}
	return n
}

func cloneItems(items []CartItem) []CartItem {
	out := make([]CartItem, 0, len(items))
	for _, item := range items {
		out = append(out, item.Clone())
	}
	return out
}

func cartIndex(cart []CartItem, id string) int {
	for i, item := range cart {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func wishlistIndex(wishlist []catalog.Product, id string) int {
	for i, p := range wishlist {
		if p.ID == id {
			return i
		}
	}
	return -1
}
