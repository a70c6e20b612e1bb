package cart

import (
	"context"

	"retroshop/internal/domain"
)

type Repository interface {
	// GetOrCreate returns the user's cart, creating it on first use.
	GetOrCreate(ctx context.Context, userID string) (*domain.Cart, error)
	// GetWithItems returns the cart with product data joined onto each
	// line, or domain.ErrNotFound when the user has no cart.
	GetWithItems(ctx context.Context, userID string) (*domain.Cart, error)
	// GetItemForUser loads a line item only if its cart belongs to userID.
	GetItemForUser(ctx context.Context, userID, itemID string) (*domain.CartItem, error)
	// SetItemQuantity upserts the (cart, product) line to an exact quantity.
	SetItemQuantity(ctx context.Context, cartID, productID string, quantity int) error
	// UpdateItemQuantity sets an existing line to an exact quantity.
	UpdateItemQuantity(ctx context.Context, itemID string, quantity int) error
	DeleteItem(ctx context.Context, itemID string) error
	// ClearByUser deletes all line items for the user's cart. A missing
	// cart is treated as already empty.
	ClearByUser(ctx context.Context, userID string) error
	// CountByUser sums line quantities for the user's cart.
	CountByUser(ctx context.Context, userID string) (int, error)
}
