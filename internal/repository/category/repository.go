package category

import (
	"context"

	"weetzen-shop/internal/domain"
)

type Repository interface {
	List(ctx context.Context) ([]domain.Category, error)
	Create(ctx context.Context, key, name string) (*domain.Category, error)
}
