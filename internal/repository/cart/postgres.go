package cart

import (
	"context"
	"errors"

	"weetzen-shop/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// postgresStore keeps member carts, one row per (user, product). The product
// snapshot is joined live rather than denormalized.
type postgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Store {
	return &postgresStore{pool: pool}
}

const itemColumns = `
ci.id::text, ci.product_id::text, ci.quantity, ci.created_at,
p.id::text, p.name, p.price_cents, p.image_url, p.stock_quantity`

func (s *postgresStore) Load(ctx context.Context, ownerID string) ([]domain.CartItem, error) {
	rows, err := s.pool.Query(ctx, `
SELECT `+itemColumns+`
FROM cart_items ci
JOIN products p ON p.id = ci.product_id
WHERE ci.user_id = $1
ORDER BY ci.created_at ASC
`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		var it domain.CartItem
		if err := rows.Scan(
			&it.ID, &it.ProductID, &it.Quantity, &it.CreatedAt,
			&it.Product.ID, &it.Product.Name, &it.Product.PriceCents, &it.Product.ImageURL, &it.Product.StockQuantity,
		); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *postgresStore) Get(ctx context.Context, ownerID, productID string) (*domain.CartItem, error) {
	var it domain.CartItem
	err := s.pool.QueryRow(ctx, `
SELECT `+itemColumns+`
FROM cart_items ci
JOIN products p ON p.id = ci.product_id
WHERE ci.user_id = $1 AND ci.product_id = $2
`, ownerID, productID).Scan(
		&it.ID, &it.ProductID, &it.Quantity, &it.CreatedAt,
		&it.Product.ID, &it.Product.Name, &it.Product.PriceCents, &it.Product.ImageURL, &it.Product.StockQuantity,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &it, nil
}

func (s *postgresStore) Upsert(ctx context.Context, ownerID, productID string, quantity int, snapshot domain.ProductSnapshot) (*domain.CartItem, error) {
	var id string
	err := s.pool.QueryRow(ctx, `
INSERT INTO cart_items (user_id, product_id, quantity)
VALUES ($1, $2, $3)
ON CONFLICT (user_id, product_id) DO UPDATE SET quantity = EXCLUDED.quantity
RETURNING id::text
`, ownerID, productID, quantity).Scan(&id)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, ownerID, productID)
}

func (s *postgresStore) Remove(ctx context.Context, ownerID, productID string) error {
	cmd, err := s.pool.Exec(ctx, `
DELETE FROM cart_items
WHERE user_id = $1 AND product_id = $2
`, ownerID, productID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *postgresStore) Clear(ctx context.Context, ownerID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, ownerID)
	return err
}
