package order

import (
	"context"
	"errors"
	"io"
	"log"

	"weetzen-shop/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
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

const orderColumns = `id::text, user_id::text, request_id, total_cents, status, payment_method, payment_status, payment_intent_id, customer_info, created_at`

// CreateWithItems inserts the order, its line items and the conditional stock
// decrements in one transaction. A line asking for more units than are on
// hand rolls everything back with domain.ErrInsufficientStock.
func (r *postgresRepo) CreateWithItems(ctx context.Context, in CreateInput) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var o domain.Order
	err = tx.QueryRow(ctx, `
INSERT INTO orders (user_id, request_id, total_cents, status, payment_method, payment_status, payment_intent_id, customer_info)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING `+orderColumns+`
`, in.UserID, in.RequestID, in.TotalCents, in.Status, in.PaymentMethod, in.PaymentStatus, in.PaymentIntentID, in.CustomerInfo).Scan(
		&o.ID, &o.UserID, &o.RequestID, &o.TotalCents, &o.Status, &o.PaymentMethod, &o.PaymentStatus, &o.PaymentIntentID, &o.CustomerInfo, &o.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("order repo: insert order error=%v", err)
		return nil, err
	}

	for _, item := range in.Items {
		var oi domain.OrderItem
		err := tx.QueryRow(ctx, `
INSERT INTO order_items (order_id, product_id, quantity, price_cents)
VALUES ($1, $2, $3, $4)
RETURNING id::text, order_id::text, product_id::text, quantity, price_cents
`, o.ID, item.ProductID, item.Quantity, item.PriceCents).Scan(&oi.ID, &oi.OrderID, &oi.ProductID, &oi.Quantity, &oi.PriceCents)
		if err != nil {
			r.logger.Printf("order repo: insert item order=%s product=%s error=%v", o.ID, item.ProductID, err)
			return nil, err
		}
		o.Items = append(o.Items, oi)

		if in.DecrementStock {
			cmd, err := tx.Exec(ctx, `
UPDATE products
SET stock_quantity = stock_quantity - $1
WHERE id = $2 AND stock_quantity >= $1
`, item.Quantity, item.ProductID)
			if err != nil {
				r.logger.Printf("order repo: stock decrement product=%s error=%v", item.ProductID, err)
				return nil, err
			}
			if cmd.RowsAffected() == 0 {
				r.logger.Printf("order repo: stock insufficient product=%s qty=%d", item.ProductID, item.Quantity)
				return nil, domain.ErrInsufficientStock
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Printf("order repo: created id=%s method=%s total_cents=%d items=%d", o.ID, o.PaymentMethod, o.TotalCents, len(o.Items))
	return &o, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	return r.fetchOrder(ctx, `
SELECT `+orderColumns+`
FROM orders
WHERE id = $1
`, id)
}

func (r *postgresRepo) GetByRequestID(ctx context.Context, requestID string) (*domain.Order, error) {
	return r.fetchOrder(ctx, `
SELECT `+orderColumns+`
FROM orders
WHERE request_id = $1
`, requestID)
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return r.listOrders(ctx, `
SELECT `+orderColumns+`
FROM orders
WHERE user_id = $1
ORDER BY created_at DESC
`, userID)
}

func (r *postgresRepo) ListAll(ctx context.Context) ([]domain.Order, error) {
	return r.listOrders(ctx, `
SELECT `+orderColumns+`
FROM orders
ORDER BY created_at DESC
`)
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id, status string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE orders SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		r.logger.Printf("order repo: update status id=%s error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) UpdatePaymentStatus(ctx context.Context, id, status string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE orders SET payment_status = $2 WHERE id = $1`, id, status)
	if err != nil {
		r.logger.Printf("order repo: update payment status id=%s error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) fetchOrder(ctx context.Context, q string, args ...interface{}) (*domain.Order, error) {
	var o domain.Order
	err := r.pool.QueryRow(ctx, q, args...).Scan(
		&o.ID, &o.UserID, &o.RequestID, &o.TotalCents, &o.Status, &o.PaymentMethod, &o.PaymentStatus, &o.PaymentIntentID, &o.CustomerInfo, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	items, err := r.fetchItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (r *postgresRepo) listOrders(ctx context.Context, q string, args ...interface{}) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(
			&o.ID, &o.UserID, &o.RequestID, &o.TotalCents, &o.Status, &o.PaymentMethod, &o.PaymentStatus, &o.PaymentIntentID, &o.CustomerInfo, &o.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := r.fetchItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

func (r *postgresRepo) fetchItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	rows, err := r.pool.Query(ctx, `
SELECT oi.id::text, oi.order_id::text, oi.product_id::text, p.name, oi.quantity, oi.price_cents
FROM order_items oi
JOIN products p ON p.id = oi.product_id
WHERE oi.order_id = $1
`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Quantity, &it.PriceCents); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
