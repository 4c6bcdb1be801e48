package cart

import (
	"context"

	"wanderly/models"
)

// CartBackend is the authoritative, server-persisted cart.
type CartBackend interface {
	GetCart(ctx context.Context, token string) (*models.Cart, error)
	AddToCart(ctx context.Context, token string, req models.AddItemRequest) error
	UpdateCartItem(ctx context.Context, token, productItemID string, quantity int) error
	RemoveCartItem(ctx context.Context, token, productItemID string) error
	ClearCart(ctx context.Context, token string) error
}

// ProductItemFetcher reads the live status and stock of an inventory unit.
type ProductItemFetcher interface {
	GetProductItem(ctx context.Context, token, productItemID string) (*models.ProductItem, error)
}

// Principal identifies the end user an operation runs for. The token is
// forwarded to the backend unchanged.
type Principal struct {
	UserID string
	Token  string
}

// CartService is the single source of truth for cart state as observed by callers.
// Every mutating operation returns the re-fetched cart or a typed error.
type CartService interface {
	Cart(ctx context.Context, p Principal) (*models.Cart, error)
	AddItem(ctx context.Context, p Principal, req models.AddItemRequest) (*models.Cart, error)
	UpdateItem(ctx context.Context, p Principal, productItemID string, quantity int) (*models.Cart, error)
	RemoveItem(ctx context.Context, p Principal, productItemID string) (*models.Cart, error)
	Clear(ctx context.Context, p Principal) (*models.Cart, error)
	RefreshCart(p Principal)
	Invalidate(ctx context.Context, userID string) error
}
