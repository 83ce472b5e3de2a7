package product

import (
	"context"
	"errors"
	"io"
	"log"

	"weetzen-shop/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const productColumns = `id::text, category_id::text, name, COALESCE(description, ''), price_cents, image_url, stock_quantity, active, created_at`

func (r *postgresRepo) ListActive(ctx context.Context, categoryID *string) ([]domain.Product, error) {
	q := `
SELECT ` + productColumns + `
FROM products
WHERE active
`
	args := []interface{}{}
	if categoryID != nil {
		q += ` AND category_id = $1`
		args = append(args, *categoryID)
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Printf("product repo: list active error=%v", err)
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+productColumns+`
FROM products
ORDER BY created_at DESC
`)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	err := r.pool.QueryRow(ctx, `
SELECT `+productColumns+`
FROM products
WHERE id = $1
`, id).Scan(&p.ID, &p.CategoryID, &p.Name, &p.Description, &p.PriceCents, &p.ImageURL, &p.StockQuantity, &p.Active, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Printf("product repo: get id=%s not found", id)
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get id=%s error=%v", id, err)
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) Create(ctx context.Context, in CreateInput) (*domain.Product, error) {
	var p domain.Product
	err := r.pool.QueryRow(ctx, `
INSERT INTO products (category_id, name, description, price_cents, image_url, stock_quantity)
VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6)
RETURNING `+productColumns+`
`, in.CategoryID, in.Name, in.Description, in.PriceCents, in.ImageURL, in.StockQuantity).Scan(
		&p.ID, &p.CategoryID, &p.Name, &p.Description, &p.PriceCents, &p.ImageURL, &p.StockQuantity, &p.Active, &p.CreatedAt)
	if err != nil {
		r.logger.Printf("product repo: create name=%q error=%v", in.Name, err)
		return nil, err
	}
	r.logger.Printf("product repo: created id=%s name=%q", p.ID, p.Name)
	return &p, nil
}

func (r *postgresRepo) Update(ctx context.Context, id string, in UpdateInput) (*domain.Product, error) {
	var p domain.Product
	err := r.pool.QueryRow(ctx, `
UPDATE products
SET category_id = $2,
    name = $3,
    description = NULLIF($4, ''),
    price_cents = $5,
    image_url = $6,
    stock_quantity = $7,
    active = $8
WHERE id = $1
RETURNING `+productColumns+`
`, id, in.CategoryID, in.Name, in.Description, in.PriceCents, in.ImageURL, in.StockQuantity, in.Active).Scan(
		&p.ID, &p.CategoryID, &p.Name, &p.Description, &p.PriceCents, &p.ImageURL, &p.StockQuantity, &p.Active, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: update id=%s error=%v", id, err)
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) Deactivate(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE products SET active = FALSE WHERE id = $1`, id)
	if err != nil {
		r.logger.Printf("product repo: deactivate id=%s error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanProducts(rows pgx.Rows) ([]domain.Product, error) {
	var result []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.CategoryID, &p.Name, &p.Description, &p.PriceCents, &p.ImageURL, &p.StockQuantity, &p.Active, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
