package storefront

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/storefront/internal/core/catalog"
	"github.com/colonyops/storefront/internal/core/store"
)

type mapFinder map[string]catalog.Product

func (m mapFinder) FindProductByID(_ context.Context, id string) (catalog.Product, bool) {
	p, ok := m[id]
	return p, ok
}

func newShop(t *testing.T) (*ShopService, *store.Store) {
	t.Helper()
	st := store.New()
	t.Cleanup(st.Close)

	finder := mapFinder{
		"electronics-1": cartProduct("electronics-1", 10),
		"furniture-2":   cartProduct("furniture-2", 250),
	}
	return NewShopService(finder, st), st
}

func TestShop_AddToCart(t *testing.T) {
	shop, st := newShop(t)
	ctx := context.Background()

	p, err := shop.AddToCart(ctx, "electronics-1")
	require.NoError(t, err)
	assert.Equal(t, "electronics-1", p.ID)

	_, err = shop.AddToCart(ctx, "electronics-1")
	require.NoError(t, err)

	item, ok := st.State().CartItem("electronics-1")
	require.True(t, ok)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, store.MsgQuantityUpdated, shop.State().Toast.Message)
}

func TestShop_UnknownProduct(t *testing.T) {
	shop, st := newShop(t)

	_, err := shop.AddToCart(context.Background(), "toys-9")
	require.ErrorIs(t, err, ErrProductNotFound)

	_, err = shop.AddToWishlist(context.Background(), "toys-9")
	require.ErrorIs(t, err, ErrProductNotFound)

	assert.Empty(t, st.State().Cart)
	assert.Nil(t, st.State().Toast, "failed lookups dispatch nothing")
}

func TestShop_CartOperationsRequireMembership(t *testing.T) {
	shop, st := newShop(t)

	assert.ErrorIs(t, shop.RemoveFromCart("electronics-1"), ErrNotInCart)
	assert.ErrorIs(t, shop.SetQuantity("electronics-1", 3), ErrNotInCart)
	assert.ErrorIs(t, shop.RemoveFromWishlist("electronics-1"), ErrNotInWishlist)
	assert.ErrorIs(t, shop.MoveToCart("electronics-1"), ErrNotInWishlist)
	assert.Nil(t, st.State().Toast, "rejected ids dispatch nothing")
}

func TestShop_SetQuantityAndRemove(t *testing.T) {
	shop, st := newShop(t)
	_, err := shop.AddToCart(context.Background(), "furniture-2")
	require.NoError(t, err)

	require.NoError(t, shop.SetQuantity("furniture-2", 0))
	item, _ := st.State().CartItem("furniture-2")
	assert.Equal(t, 1, item.Quantity)

	require.NoError(t, shop.SetQuantity("furniture-2", 4))
	item, _ = st.State().CartItem("furniture-2")
	assert.Equal(t, 4, item.Quantity)

	require.NoError(t, shop.RemoveFromCart("furniture-2"))
	assert.Empty(t, st.State().Cart)
}

func TestShop_ClearCart(t *testing.T) {
	shop, st := newShop(t)
	_, _ = shop.AddToCart(context.Background(), "furniture-2")
	_, _ = shop.AddToCart(context.Background(), "electronics-1")

	shop.ClearCart()
	assert.Empty(t, st.State().Cart)
}

func TestShop_WishlistAndMoveToCart(t *testing.T) {
	shop, st := newShop(t)
	ctx := context.Background()

	_, err := shop.AddToWishlist(ctx, "electronics-1")
	require.NoError(t, err)
	_, err = shop.AddToWishlist(ctx, "electronics-1")
	require.NoError(t, err)
	assert.Equal(t, store.MsgAlreadyInWishlist, st.State().Toast.Message)
	assert.Len(t, st.State().Wishlist, 1)

	require.NoError(t, shop.MoveToCart("electronics-1"))

	state := st.State()
	assert.Empty(t, state.Wishlist)
	require.Len(t, state.Cart, 1)
	assert.Equal(t, "electronics-1", state.Cart[0].ID)
	assert.Equal(t, store.MsgRemovedFromWishlist, state.Toast.Message)
}

func TestShop_Dispatch(t *testing.T) {
	shop, st := newShop(t)
	shop.Dispatch(store.AddToWishlist{Product: cartProduct("x-1", 1)})
	assert.True(t, st.State().InWishlist("x-1"))
}
