package store

import (
	"slices"

	"github.com/colonyops/storefront/internal/core/catalog"
	"github.com/colonyops/storefront/internal/core/notify"
)

// Toast messages emitted by the reducer.
const (
	MsgAddedToCart         = "Added to cart"
	MsgQuantityUpdated     = "Item quantity updated"
	MsgRemovedFromCart     = "Removed from cart"
	MsgAddedToWishlist     = "Added to wishlist"
	MsgAlreadyInWishlist   = "Already in wishlist"
	MsgRemovedFromWishlist = "Removed from wishlist"
	MsgOrderPlaced         = "Order placed successfully!"
)

// Reduce returns the state that follows s after applying a. It never
// modifies s: every slice it changes is replaced by a new one. Unknown
// actions and ids that match nothing leave the state unchanged.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case LoadState:
		s.Cart = orEmpty(slices.Clone(a.Cart))
		s.Wishlist = orEmpty(slices.Clone(a.Wishlist))
		s.Orders = orEmpty(slices.Clone(a.Orders))
		return s

	case AddToCart:
		if i := cartIndex(s.Cart, a.Product.ID); i >= 0 {
			cart := slices.Clone(s.Cart)
			cart[i].Quantity++
			s.Cart = cart
			s.Toast = notify.Success(MsgQuantityUpdated)
			return s
		}
		s.Cart = append(slices.Clip(s.Cart), CartItem{Product: a.Product.Clone(), Quantity: 1})
		s.Toast = notify.Success(MsgAddedToCart)
		return s

	case RemoveFromCart:
		s.Cart = slices.DeleteFunc(slices.Clone(s.Cart), func(item CartItem) bool {
			return item.ID == a.ID
		})
		s.Toast = notify.Info(MsgRemovedFromCart)
		return s

	case UpdateCartQuantity:
		i := cartIndex(s.Cart, a.ID)
		if i < 0 {
			return s
		}
		cart := slices.Clone(s.Cart)
		cart[i].Quantity = max(1, a.Quantity)
		s.Cart = cart
		return s

	case ClearCart:
		s.Cart = []CartItem{}
		return s

	case AddToWishlist:
		if wishlistIndex(s.Wishlist, a.Product.ID) >= 0 {
			s.Toast = notify.Info(MsgAlreadyInWishlist)
			return s
		}
		s.Wishlist = append(slices.Clip(s.Wishlist), a.Product.Clone())
		s.Toast = notify.Success(MsgAddedToWishlist)
		return s

	case RemoveFromWishlist:
		s.Wishlist = slices.DeleteFunc(slices.Clone(s.Wishlist), func(p catalog.Product) bool {
			return p.ID == a.ID
		})
		s.Toast = notify.Info(MsgRemovedFromWishlist)
		return s

	case AddOrder:
		orders := make([]Order, 0, len(s.Orders)+1)
		orders = append(orders, a.Order.Clone())
		s.Orders = append(orders, s.Orders...)
		s.Cart = []CartItem{}
		s.Toast = notify.Success(MsgOrderPlaced)
		return s

	case ClearToast:
		s.Toast = nil
		return s

	default:
		return s
	}
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
