package httpserver

import (
	"math"
	"time"

	"weetzen-shop/internal/domain"
)

// Wire money is euros with two decimals; storage is integer cents.
func euros(cents int64) float64 {
	return float64(cents) / 100
}

func cents(euros float64) int64 {
	return int64(math.Round(euros * 100))
}

type productResponse struct {
	ID            string    `json:"id"`
	CategoryID    *string   `json:"category_id,omitempty"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Price         float64   `json:"price"`
	ImageURL      string    `json:"image_url,omitempty"`
	StockQuantity int       `json:"stock_quantity"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
}

func toProductResponse(p domain.Product) productResponse {
	return productResponse{
		ID:            p.ID,
		CategoryID:    p.CategoryID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         euros(p.PriceCents),
		ImageURL:      p.ImageURL,
		StockQuantity: p.StockQuantity,
		Active:        p.Active,
		CreatedAt:     p.CreatedAt,
	}
}

type cartItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Product   productSnapshot `json:"product"`
}

type productSnapshot struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	ImageURL      string  `json:"image_url,omitempty"`
	StockQuantity int     `json:"stock_quantity"`
}

type cartResponse struct {
	Items      []cartItemResponse `json:"items"`
	TotalPrice float64            `json:"total_price"`
	TotalItems int                `json:"total_items"`
}

func toCartResponse(items []domain.CartItem) cartResponse {
	out := cartResponse{
		Items:      make([]cartItemResponse, 0, len(items)),
		TotalPrice: euros(domain.TotalCents(items)),
		TotalItems: domain.TotalQuantity(items),
	}
	for _, it := range items {
		out.Items = append(out.Items, cartItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Product: productSnapshot{
				ID:            it.Product.ID,
				Name:          it.Product.Name,
				Price:         euros(it.Product.PriceCents),
				ImageURL:      it.Product.ImageURL,
				StockQuantity: it.Product.StockQuantity,
			},
		})
	}
	return out
}

type orderItemResponse struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name,omitempty"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

type orderResponse struct {
	ID            string              `json:"id"`
	UserID        *string             `json:"user_id,omitempty"`
	TotalAmount   float64             `json:"total_amount"`
	Status        string              `json:"status"`
	PaymentMethod string              `json:"payment_method"`
	PaymentStatus string              `json:"payment_status"`
	CustomerInfo  domain.CustomerInfo `json:"customer_info"`
	CreatedAt     time.Time           `json:"created_at"`
	Items         []orderItemResponse `json:"items"`
}

func toOrderResponse(o domain.Order) orderResponse {
	out := orderResponse{
		ID:            o.ID,
		UserID:        o.UserID,
		TotalAmount:   euros(o.TotalCents),
		Status:        o.Status,
		PaymentMethod: o.PaymentMethod,
		PaymentStatus: o.PaymentStatus,
		CustomerInfo:  o.CustomerInfo,
		CreatedAt:     o.CreatedAt,
		Items:         make([]orderItemResponse, 0, len(o.Items)),
	}
	for _, it := range o.Items {
		out.Items = append(out.Items, orderItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			Price:       euros(it.PriceCents),
		})
	}
	return out
}
