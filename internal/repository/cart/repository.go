package cart

import (
	"context"

	"weetzen-shop/internal/domain"
)

// Store is the single cart-line contract shared by the member (postgres) and
// guest (in-memory) carts. Upsert sets the absolute quantity for the line;
// callers that want add-to-cart semantics read the existing line first and
// submit the incremented total, so both implementations behave identically.
type Store interface {
	Load(ctx context.Context, ownerID string) ([]domain.CartItem, error)
	Get(ctx context.Context, ownerID, productID string) (*domain.CartItem, error)
	Upsert(ctx context.Context, ownerID, productID string, quantity int, snapshot domain.ProductSnapshot) (*domain.CartItem, error)
	Remove(ctx context.Context, ownerID, productID string) error
	Clear(ctx context.Context, ownerID string) error
}
