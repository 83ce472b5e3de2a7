package order

import (
	"context"
	"errors"
	"os"
	"testing"

	"weetzen-shop/internal/domain"
	"weetzen-shop/internal/migrate"
	"github.com/jackc/pgx/v5/pgxpool"
)

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	for _, table := range []string{"order_items", "orders", "cart_items", "products", "users"} {
		if _, err := pool.Exec(ctx, "DELETE FROM "+table); err != nil {
			t.Fatalf("reset %s: %v", table, err)
		}
	}
	return pool
}

func insertProduct(t *testing.T, pool *pgxpool.Pool, name string, priceCents int64, stock int) string {
	t.Helper()
	var id string
	err := pool.QueryRow(context.Background(), `
INSERT INTO products (name, price_cents, stock_quantity)
VALUES ($1, $2, $3)
RETURNING id::text
`, name, priceCents, stock).Scan(&id)
	if err != nil {
		t.Fatalf("insert product: %v", err)
	}
	return id
}

func stockOf(t *testing.T, pool *pgxpool.Pool, productID string) int {
	t.Helper()
	var stock int
	if err := pool.QueryRow(context.Background(), `SELECT stock_quantity FROM products WHERE id = $1`, productID).Scan(&stock); err != nil {
		t.Fatalf("read stock: %v", err)
	}
	return stock
}

func TestCreateWithItemsDecrementsStock(t *testing.T) {
	pool := testPool(t)
	repo := NewPostgres(pool, nil)
	ctx := context.Background()

	productID := insertProduct(t, pool, "Rehrücken", 2490, 5)

	o, err := repo.CreateWithItems(ctx, CreateInput{
		TotalCents:     4980,
		Status:         domain.OrderStatusPending,
		PaymentMethod:  domain.PaymentMethodCash,
		PaymentStatus:  domain.PaymentStatusPending,
		CustomerInfo:   domain.CustomerInfo{FullName: "Max Jäger", Email: "max@example.de", Phone: "1"},
		Items:          []CreateItemInput{{ProductID: productID, Quantity: 2, PriceCents: 2490}},
		DecrementStock: true,
	})
	if err != nil {
		t.Fatalf("CreateWithItems: %v", err)
	}
	if len(o.Items) != 1 || o.Items[0].Quantity != 2 {
		t.Fatalf("unexpected items %+v", o.Items)
	}
	if got := stockOf(t, pool, productID); got != 3 {
		t.Fatalf("expected stock 3, got %d", got)
	}

	loaded, err := repo.GetByID(ctx, o.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if loaded.CustomerInfo.FullName != "Max Jäger" {
		t.Fatalf("unexpected customer info %+v", loaded.CustomerInfo)
	}
	if len(loaded.Items) != 1 || loaded.Items[0].ProductName != "Rehrücken" {
		t.Fatalf("expected joined product name, got %+v", loaded.Items)
	}
}

func TestCreateWithItemsInsufficientStockRollsBack(t *testing.T) {
	pool := testPool(t)
	repo := NewPostgres(pool, nil)
	ctx := context.Background()

	productID := insertProduct(t, pool, "Wildsalami", 890, 1)

	_, err := repo.CreateWithItems(ctx, CreateInput{
		TotalCents:     2670,
		Status:         domain.OrderStatusPending,
		PaymentMethod:  domain.PaymentMethodCash,
		PaymentStatus:  domain.PaymentStatusPending,
		CustomerInfo:   domain.CustomerInfo{FullName: "Max"},
		Items:          []CreateItemInput{{ProductID: productID, Quantity: 3, PriceCents: 890}},
		DecrementStock: true,
	})
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	if got := stockOf(t, pool, productID); got != 1 {
		t.Fatalf("expected untouched stock, got %d", got)
	}
	var count int
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM orders`).Scan(&count); err != nil {
		t.Fatalf("count orders: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected rollback to leave no order rows, got %d", count)
	}
}

func TestCreateWithItemsDuplicateRequestID(t *testing.T) {
	pool := testPool(t)
	repo := NewPostgres(pool, nil)
	ctx := context.Background()

	productID := insertProduct(t, pool, "Hirschgulasch", 1650, 20)
	requestID := "req-once"

	in := CreateInput{
		RequestID:     &requestID,
		TotalCents:    1650,
		Status:        domain.OrderStatusPending,
		PaymentMethod: domain.PaymentMethodCash,
		PaymentStatus: domain.PaymentStatusPending,
		CustomerInfo:  domain.CustomerInfo{FullName: "Max"},
		Items:         []CreateItemInput{{ProductID: productID, Quantity: 1, PriceCents: 1650}},
	}

	first, err := repo.CreateWithItems(ctx, in)
	if err != nil {
		t.Fatalf("first CreateWithItems: %v", err)
	}
	if _, err := repo.CreateWithItems(ctx, in); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	replayed, err := repo.GetByRequestID(ctx, requestID)
	if err != nil {
		t.Fatalf("GetByRequestID: %v", err)
	}
	if replayed.ID != first.ID {
		t.Fatalf("expected original order %q, got %q", first.ID, replayed.ID)
	}
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	pool := testPool(t)
	repo := NewPostgres(pool, nil)

	err := repo.UpdateStatus(context.Background(), "00000000-0000-0000-0000-000000000000", domain.OrderStatusConfirmed)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
