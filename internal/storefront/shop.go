package storefront

import (
	"context"
	"errors"
	"fmt"

	"github.com/colonyops/storefront/internal/core/catalog"
	"github.com/colonyops/storefront/internal/core/store"
)

var (
	// ErrProductNotFound is returned when a product ID matches nothing in the
	// catalog.
	ErrProductNotFound = errors.New("product not found")
	// ErrNotInCart is returned when a cart operation names a product that is
	// not in the cart.
	ErrNotInCart = errors.New("product not in cart")
	// ErrNotInWishlist is returned when a wishlist operation names a product
	// that is not in the wishlist.
	ErrNotInWishlist = errors.New("product not in wishlist")
)

// ProductFinder resolves product IDs.
type ProductFinder interface {
	FindProductByID(ctx context.Context, id string) (catalog.Product, bool)
}

// ShopService turns product IDs into store actions for consumers that only
// know IDs (CLI arguments, HTTP paths).
type ShopService struct {
	catalog ProductFinder
	store   *store.Store
}

// NewShopService creates a ShopService.
func NewShopService(finder ProductFinder, st *store.Store) *ShopService {
	return &ShopService{catalog: finder, store: st}
}

// State returns a snapshot of the store state.
func (s *ShopService) State() store.State {
	return s.store.State()
}

// Dispatch forwards a to the store.
func (s *ShopService) Dispatch(a store.Action) {
	s.store.Dispatch(a)
}

func (s *ShopService) lookup(ctx context.Context, id string) (catalog.Product, error) {
	p, ok := s.catalog.FindProductByID(ctx, id)
	if !ok {
		return catalog.Product{}, fmt.Errorf("%w: %q", ErrProductNotFound, id)
	}
	return p, nil
}

// AddToCart adds one unit of the product to the cart.
func (s *ShopService) AddToCart(ctx context.Context, id string) (catalog.Product, error) {
	p, err := s.lookup(ctx, id)
	if err != nil {
		return catalog.Product{}, err
	}
	s.store.Dispatch(store.AddToCart{Product: p})
	return p, nil
}

// RemoveFromCart removes the product from the cart.
func (s *ShopService) RemoveFromCart(id string) error {
	if _, ok := s.store.State().CartItem(id); !ok {
		return fmt.Errorf("%w: %q", ErrNotInCart, id)
	}
	s.store.Dispatch(store.RemoveFromCart{ID: id})
	return nil
}

// SetQuantity sets the cart quantity of a product. Values below 1 become 1.
func (s *ShopService) SetQuantity(id string, quantity int) error {
	if _, ok := s.store.State().CartItem(id); !ok {
		return fmt.Errorf("%w: %q", ErrNotInCart, id)
	}
	s.store.Dispatch(store.UpdateCartQuantity{ID: id, Quantity: quantity})
	return nil
}

// ClearCart empties the cart.
func (s *ShopService) ClearCart() {
	s.store.Dispatch(store.ClearCart{})
}

// AddToWishlist adds the product to the wishlist.
func (s *ShopService) AddToWishlist(ctx context.Context, id string) (catalog.Product, error) {
	p, err := s.lookup(ctx, id)
	if err != nil {
		return catalog.Product{}, err
	}
	s.store.Dispatch(store.AddToWishlist{Product: p})
	return p, nil
}

// RemoveFromWishlist removes the product from the wishlist.
func (s *ShopService) RemoveFromWishlist(id string) error {
	if _, ok := s.store.State().WishlistItem(id); !ok {
		return fmt.Errorf("%w: %q", ErrNotInWishlist, id)
	}
	s.store.Dispatch(store.RemoveFromWishlist{ID: id})
	return nil
}

// MoveToCart adds a wishlisted product to the cart and removes it from the
// wishlist. The wishlisted copy is used, so no catalog lookup happens.
func (s *ShopService) MoveToCart(id string) error {
	p, ok := s.store.State().WishlistItem(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotInWishlist, id)
	}
	s.store.Dispatch(store.AddToCart{Product: p})
	s.store.Dispatch(store.RemoveFromWishlist{ID: id})
	return nil
}
