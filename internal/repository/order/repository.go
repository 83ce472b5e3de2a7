package order

import (
	"context"

	"weetzen-shop/internal/domain"
)

type CreateItemInput struct {
	ProductID  string
	Quantity   int
	PriceCents int64
}

type CreateInput struct {
	UserID          *string
	RequestID       *string
	TotalCents      int64
	Status          string
	PaymentMethod   string
	PaymentStatus   string
	PaymentIntentID string
	CustomerInfo    domain.CustomerInfo
	Items           []CreateItemInput
	// DecrementStock asks for a conditional stock decrement per line inside
	// the same transaction; insufficient stock fails the whole order.
	DecrementStock bool
}

type Repository interface {
	CreateWithItems(ctx context.Context, in CreateInput) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	GetByRequestID(ctx context.Context, requestID string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id, status string) error
	UpdatePaymentStatus(ctx context.Context, id, status string) error
}
