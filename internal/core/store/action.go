package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/colonyops/storefront/internal/core/catalog"
)

// Kind is the wire name of an action.
type Kind string

const (
	KindLoadState          Kind = "LOAD_STATE"
	KindAddToCart          Kind = "ADD_TO_CART"
	KindRemoveFromCart     Kind = "REMOVE_FROM_CART"
	KindUpdateCartQuantity Kind = "UPDATE_CART_QUANTITY"
	KindClearCart          Kind = "CLEAR_CART"
	KindAddToWishlist      Kind = "ADD_TO_WISHLIST"
	KindRemoveFromWishlist Kind = "REMOVE_FROM_WISHLIST"
	KindAddOrder           Kind = "ADD_ORDER"
	KindClearToast         Kind = "CLEAR_TOAST"
)

// ErrUnknownAction is returned when decoding an action kind the reducer does
// not declare.
var ErrUnknownAction = errors.New("unknown action")

// Action is a declared state transition request. The set of actions is
// closed: only the types in this file are handled by Reduce.
type Action interface {
	Kind() Kind
}

// LoadState seeds cart, wishlist, and orders from persisted data. Nil slices
// become empty.
type LoadState struct {
	Cart     []CartItem        `json:"cart"`
	Wishlist []catalog.Product `json:"wishlist"`
	Orders   []Order           `json:"orders"`
}

type AddToCart struct {
	Product catalog.Product
}

type RemoveFromCart struct {
	ID string
}

type UpdateCartQuantity struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

type ClearCart struct{}

type AddToWishlist struct {
	Product catalog.Product
}

type RemoveFromWishlist struct {
	ID string
}

type AddOrder struct {
	Order Order
}

type ClearToast struct{}

func (LoadState) Kind() Kind          { return KindLoadState }
func (AddToCart) Kind() Kind          { return KindAddToCart }
func (RemoveFromCart) Kind() Kind     { return KindRemoveFromCart }
func (UpdateCartQuantity) Kind() Kind { return KindUpdateCartQuantity }
func (ClearCart) Kind() Kind          { return KindClearCart }
func (AddToWishlist) Kind() Kind      { return KindAddToWishlist }
func (RemoveFromWishlist) Kind() Kind { return KindRemoveFromWishlist }
func (AddOrder) Kind() Kind           { return KindAddOrder }
func (ClearToast) Kind() Kind         { return KindClearToast }

// DecodeAction builds an action from its wire form. The payload shapes are:
// a product for ADD_TO_CART and ADD_TO_WISHLIST, an id string for the remove
// actions, {"id","quantity"} for UPDATE_CART_QUANTITY, an order for
// ADD_ORDER, {"cart","wishlist","orders"} for LOAD_STATE, and nothing for
// CLEAR_CART and CLEAR_TOAST.
func DecodeAction(kind Kind, payload json.RawMessage) (Action, error) {
	decode := func(dest any) error {
		if len(payload) == 0 {
			return fmt.Errorf("%s: missing payload", kind)
		}
		if err := json.Unmarshal(payload, dest); err != nil {
			return fmt.Errorf("%s: decode payload: %w", kind, err)
		}
		return nil
	}

	switch kind {
	case KindLoadState:
		var a LoadState
		if err := decode(&a); err != nil {
			return nil, err
		}
		return a, nil
	case KindAddToCart:
		var a AddToCart
		if err := decode(&a.Product); err != nil {
			return nil, err
		}
		return a, nil
	case KindRemoveFromCart:
		var a RemoveFromCart
		if err := decode(&a.ID); err != nil {
			return nil, err
		}
		return a, nil
	case KindUpdateCartQuantity:
		var a UpdateCartQuantity
		if err := decode(&a); err != nil {
			return nil, err
		}
		return a, nil
	case KindClearCart:
		return ClearCart{}, nil
	case KindAddToWishlist:
		var a AddToWishlist
		if err := decode(&a.Product); err != nil {
			return nil, err
		}
		return a, nil
	case KindRemoveFromWishlist:
		var a RemoveFromWishlist
		if err := decode(&a.ID); err != nil {
			return nil, err
		}
		return a, nil
	case KindAddOrder:
		var a AddOrder
		if err := decode(&a.Order); err != nil {
			return nil, err
		}
		return a, nil
	case KindClearToast:
		return ClearToast{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, kind)
	}
}
