package product

import (
	"context"

	"weetzen-shop/internal/domain"
)

type CreateInput struct {
	CategoryID    *string
	Name          string
	Description   string
	PriceCents    int64
	ImageURL      string
	StockQuantity int
}

type UpdateInput struct {
	CategoryID    *string
	Name          string
	Description   string
	PriceCents    int64
	ImageURL      string
	StockQuantity int
	Active        bool
}

type Repository interface {
	ListActive(ctx context.Context, categoryID *string) ([]domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, in CreateInput) (*domain.Product, error)
	Update(ctx context.Context, id string, in UpdateInput) (*domain.Product, error)
	Deactivate(ctx context.Context, id string) error
}
