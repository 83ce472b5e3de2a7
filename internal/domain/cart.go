package domain

import "time"

// CartItem is one cart line. Guest and member carts share this shape; guest
// line ids are synthesized client-style ("guest-<product>-<nanos>") while
// member lines carry the database row id.
type CartItem struct {
	ID        string          `json:"id"`
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	Product   ProductSnapshot `json:"product"`
	CreatedAt time.Time       `json:"createdAt"`
}

// ProductSnapshot is the denormalized product view carried on a cart line so
// the cart renders without a join.
type ProductSnapshot struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	PriceCents    int64  `json:"priceCents"`
	ImageURL      string `json:"imageUrl,omitempty"`
	StockQuantity int    `json:"stockQuantity"`
}

// TotalCents folds price x quantity over the given lines.
func TotalCents(items []CartItem) int64 {
	var total int64
	for _, it := range items {
		total += it.Product.PriceCents * int64(it.Quantity)
	}
	return total
}

// TotalQuantity folds quantity over the given lines.
func TotalQuantity(items []CartItem) int {
	var total int
	for _, it := range items {
		total += it.Quantity
	}
	return total
}
