// Package eventbus provides a typed publish/subscribe event bus that relays
// store transitions to asynchronous consumers such as the event stream and
// the terminal UI.
package eventbus

import (
	"github.com/colonyops/storefront/internal/core/catalog"
	"github.com/colonyops/storefront/internal/core/notify"
	"github.com/colonyops/storefront/internal/core/store"
)

// Event names a kind of event.
type Event string

// Keep list sorted A-Z.
const (
	EventCartChanged     Event = "cart.changed"
	EventOrderPlaced     Event = "order.placed"
	EventToastCleared    Event = "toast.cleared"
	EventToastShown      Event = "toast.shown"
	EventWishlistChanged Event = "wishlist.changed"
)

// Events maps every event to its payload type.
var Events = map[Event]any{
	EventCartChanged:     CartChangedPayload{},
	EventOrderPlaced:     OrderPlacedPayload{},
	EventToastCleared:    ToastClearedPayload{},
	EventToastShown:      ToastShownPayload{},
	EventWishlistChanged: WishlistChangedPayload{},
}

// CartChangedPayload is emitted when the cart contents change.
type CartChangedPayload struct {
	Items []store.CartItem `json:"items"`
	Count int              `json:"count"`
}

// WishlistChangedPayload is emitted when the wishlist contents change.
type WishlistChangedPayload struct {
	Items []catalog.Product `json:"items"`
}

// OrderPlacedPayload is emitted when an order is recorded.
type OrderPlacedPayload struct {
	Order store.Order `json:"order"`
}

// ToastShownPayload is emitted when a toast becomes active.
type ToastShownPayload struct {
	Toast notify.Toast `json:"toast"`
}

// ToastClearedPayload is emitted when the active toast is dismissed.
type ToastClearedPayload struct{}
