package domain

import "time"

type Product struct {
	ID            string    `json:"id"`
	CategoryID    *string   `json:"categoryId,omitempty"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	PriceCents    int64     `json:"priceCents"`
	ImageURL      string    `json:"imageUrl,omitempty"`
	StockQuantity int       `json:"stockQuantity"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"createdAt"`
}
