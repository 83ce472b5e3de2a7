package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type productSeed struct {
	Category      string
	Name          string
	Description   string
	PriceCents    int64
	StockQuantity int
}

// Apply inserts basic seed data for manual testing. It is idempotent: existing
// categories and products are left untouched.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	categories := map[string]string{
		"wildfleisch": "Wildfleisch",
		"wurstwaren":  "Wurstwaren",
	}
	categoryIDs := make(map[string]string, len(categories))
	for key, name := range categories {
		id, err := ensureCategory(ctx, pool, key, name)
		if err != nil {
			return fmt.Errorf("ensure category %s: %w", key, err)
		}
		categoryIDs[key] = id
	}

	products := []productSeed{
		{
			Category:      "wildfleisch",
			Name:          "Rehrücken",
			Description:   "Zarter Rehrücken aus heimischer Jagd, küchenfertig pariert",
			PriceCents:    2490,
			StockQuantity: 12,
		},
		{
			Category:      "wildfleisch",
			Name:          "Wildschweinbraten",
			Description:   "Kräftiger Braten aus der Keule, ideal für den Schmortopf",
			PriceCents:    1890,
			StockQuantity: 8,
		},
		{
			Category:      "wildfleisch",
			Name:          "Hirschgulasch",
			Description:   "Gewürfeltes Hirschfleisch, perfekt für Gulasch und Ragout",
			PriceCents:    1650,
			StockQuantity: 15,
		},
		{
			Category:      "wurstwaren",
			Name:          "Wildsalami",
			Description:   "Luftgetrocknete Salami vom Wildschwein",
			PriceCents:    890,
			StockQuantity: 30,
		},
		{
			Category:      "wurstwaren",
			Name:          "Rehleberwurst",
			Description:   "Feine Leberwurst vom Reh im Glas",
			PriceCents:    650,
			StockQuantity: 24,
		},
	}

	for _, p := range products {
		if err := ensureProduct(ctx, pool, categoryIDs[p.Category], p); err != nil {
			return fmt.Errorf("ensure product %s: %w", p.Name, err)
		}
	}

	return nil
}

func ensureCategory(ctx context.Context, pool *pgxpool.Pool, key, name string) (string, error) {
	const q = `
INSERT INTO categories (key, name)
VALUES ($1, $2)
ON CONFLICT (key) DO UPDATE SET name = EXCLUDED.name
RETURNING id::text
`
	var id string
	if err := pool.QueryRow(ctx, q, key, name).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func ensureProduct(ctx context.Context, pool *pgxpool.Pool, categoryID string, p productSeed) error {
	var exists bool
	if err := pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE name = $1)`, p.Name).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return nil
	}
	_, err := pool.Exec(ctx, `
INSERT INTO products (category_id, name, description, price_cents, stock_quantity)
VALUES ($1, $2, $3, $4, $5)
`, categoryID, p.Name, p.Description, p.PriceCents, p.StockQuantity)
	return err
}
