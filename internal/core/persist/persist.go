// Package persist keeps the store's cart, wishlist, and orders in durable
// storage. Hydrate seeds the store once at startup; Attach writes each slice
// back whenever its serialized form changes.
package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"github.com/colonyops/storefront/internal/core/catalog"
	"github.com/colonyops/storefront/internal/core/kv"
	"github.com/colonyops/storefront/internal/core/store"
)

// Storage keys. Each slice is stored independently.
const (
	KeyCart     = "cart"
	KeyWishlist = "wishlist"
	KeyOrders   = "orders"
)

// Keys lists every key the bridge owns.
var Keys = []string{KeyCart, KeyWishlist, KeyOrders}

// Bridge moves state between a store.Store and a kv.Storage.
type Bridge struct {
	store  *store.Store
	logger zerolog.Logger

	cart     kv.Typed[[]store.CartItem]
	wishlist kv.Typed[[]catalog.Product]
	orders   kv.Typed[[]store.Order]

	storage     kv.Storage
	placeholder string

	mu   sync.Mutex
	last map[string][]byte
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithLogger sets the logger for storage warnings and write failures.
func WithLogger(l zerolog.Logger) Option {
	return func(b *Bridge) { b.logger = l }
}

// WithPlaceholder sets the image given to loaded products that have none.
func WithPlaceholder(url string) Option {
	return func(b *Bridge) {
		if url != "" {
			b.placeholder = url
		}
	}
}

// New returns a bridge between storage and st.
func New(storage kv.Storage, st *store.Store, opts ...Option) *Bridge {
	b := &Bridge{
		store:    st,
		storage:     storage,
		placeholder: catalog.PlaceholderImage,
		logger:      zerolog.Nop(),
		cart:     kv.Key[[]store.CartItem](storage, KeyCart),
		wishlist: kv.Key[[]catalog.Product](storage, KeyWishlist),
		orders:   kv.Key[[]store.Order](storage, KeyOrders),
		last:     make(map[string][]byte, len(Keys)),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Hydrate reads every key and dispatches exactly one LoadState. Absent,
// unreadable, null, or malformed values load as empty. It must run before
// any other dispatch.
func Hydrate(ctx context.Context, storage kv.Storage, st *store.Store, opts ...Option) store.LoadState {
	return New(storage, st, opts...).Hydrate(ctx)
}

// Attach writes changed slices to storage after every transition until the
// returned function is called.
func Attach(ctx context.Context, storage kv.Storage, st *store.Store, opts ...Option) (detach func()) {
	return New(storage, st, opts...).Attach(ctx)
}

// Hydrate reads every key and dispatches exactly one LoadState.
func (b *Bridge) Hydrate(ctx context.Context) store.LoadState {
	load := store.LoadState{
		Cart:     b.sanitizeCart(read(ctx, b, b.cart)),
		Wishlist: b.sanitizeWishlist(read(ctx, b, b.wishlist)),
		Orders:   b.sanitizeOrders(read(ctx, b, b.orders)),
	}

	b.remember(KeyCart, load.Cart)
	b.remember(KeyWishlist, load.Wishlist)
	b.remember(KeyOrders, load.Orders)

	b.store.Dispatch(load)

	b.logger.Debug().
		Int("cart", len(load.Cart)).
		Int("wishlist", len(load.Wishlist)).
		Int("orders", len(load.Orders)).
		Msg("hydrated")

	return load
}

// Attach subscribes to the store. Slices whose serialized form differs from
// what was last written or loaded are written under their key. Write
// failures are logged and retried on the next change.
func (b *Bridge) Attach(ctx context.Context) (detach func()) {
	current := b.store.State()
	b.seed(KeyCart, current.Cart)
	b.seed(KeyWishlist, current.Wishlist)
	b.seed(KeyOrders, current.Orders)

	return b.store.Subscribe(func(c store.Change) {
		if c.CartChanged() {
			b.write(ctx, KeyCart, c.Next.Cart)
		}
		if c.WishlistChanged() {
			b.write(ctx, KeyWishlist, c.Next.Wishlist)
		}
		if c.OrdersChanged() {
			b.write(ctx, KeyOrders, c.Next.Orders)
		}
	})
}

// Reload re-reads storage after an outside writer changed it and dispatches
// one LoadState when any slice differs from what this bridge last saw. Keys
// that fail to read keep their in-memory value. It reports whether a
// LoadState was dispatched.
func (b *Bridge) Reload(ctx context.Context) bool {
	current := b.store.State()

	cart, cartChanged := reload(ctx, b, b.cart, current.Cart)
	wishlist, wishlistChanged := reload(ctx, b, b.wishlist, current.Wishlist)
	orders, ordersChanged := reload(ctx, b, b.orders, current.Orders)

	if !cartChanged && !wishlistChanged && !ordersChanged {
		return false
	}

	b.store.Dispatch(store.LoadState{
		Cart:     b.sanitizeCart(cart),
		Wishlist: b.sanitizeWishlist(wishlist),
		Orders:   b.sanitizeOrders(orders),
	})

	b.logger.Info().
		Bool("cart", cartChanged).
		Bool("wishlist", wishlistChanged).
		Bool("orders", ordersChanged).
		Msg("reloaded from storage")

	return true
}

func read[T any](ctx context.Context, b *Bridge, key kv.Typed[[]T]) []T {
	v, ok, err := key.Get(ctx)
	switch {
	case err != nil:
		b.logger.Warn().Err(err).Str("key", key.Name()).Msg("ignoring unreadable storage value")
		return []T{}
	case !ok || v == nil:
		return []T{}
	default:
		return v
	}
}

func reload[T any](ctx context.Context, b *Bridge, key kv.Typed[[]T], current []T) ([]T, bool) {
	v, ok, err := key.Get(ctx)
	if err != nil {
		b.logger.Warn().Err(err).Str("key", key.Name()).Msg("ignoring unreadable storage value")
		return current, false
	}
	if !ok || v == nil {
		v = []T{}
	}

	data, err := json.Marshal(v)
	if err != nil {
		return current, false
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if bytes.Equal(b.last[key.Name()], data) {
		return current, false
	}
	b.last[key.Name()] = data
	return v, true
}

func (b *Bridge) write(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		b.logger.Error().Err(err).Str("key", key).Msg("encode storage value")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if bytes.Equal(b.last[key], data) {
		return
	}

	if err := b.storage.SetItem(ctx, key, data); err != nil {
		b.logger.Error().Err(err).Str("key", key).Msg("write storage value")
		return
	}
	b.last[key] = data
}

func (b *Bridge) remember(key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.last[key] = data
}

// seed records value as the last known form of key unless Hydrate already
// recorded one.
func (b *Bridge) seed(key string, value any) {
	b.mu.Lock()
	_, known := b.last[key]
	b.mu.Unlock()
	if !known {
		b.remember(key, value)
	}
}

// sanitizeCart drops entries without an id, merges entries sharing an id,
// and raises quantities below one.
func (b *Bridge) sanitizeCart(items []store.CartItem) []store.CartItem {
	out := make([]store.CartItem, 0, len(items))
	index := make(map[string]int, len(items))
	for _, item := range items {
		if item.ID == "" {
			continue
		}
		item.Quantity = max(1, item.Quantity)
		if i, ok := index[item.ID]; ok {
			out[i].Quantity += item.Quantity
			continue
		}
		item.Product = b.sanitizeProduct(item.Product)
		index[item.ID] = len(out)
		out = append(out, item)
	}
	return out
}

// sanitizeWishlist drops entries without an id and keeps the first entry
// for each id.
func (b *Bridge) sanitizeWishlist(items []catalog.Product) []catalog.Product {
	out := make([]catalog.Product, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, p := range items {
		if p.ID == "" || seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		out = append(out, b.sanitizeProduct(p))
	}
	return out
}

func (b *Bridge) sanitizeOrders(orders []store.Order) []store.Order {
	for i := range orders {
		items := make([]store.CartItem, len(orders[i].Items))
		for j, item := range orders[i].Items {
			item.Product = b.sanitizeProduct(item.Product)
			items[j] = item
		}
		orders[i].Items = items
	}
	return orders
}

func (b *Bridge) sanitizeProduct(p catalog.Product) catalog.Product {
	images := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		if img != "" {
			images = append(images, img)
		}
	}
	if len(images) == 0 {
		images = []string{b.placeholder}
	}
	p.Images = images
	return p
}
