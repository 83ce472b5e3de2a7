package profile

import (
	"context"

	"weetzen-shop/internal/domain"
)

type UpdateInput struct {
	FullName string
	Email    string
	Phone    string
	Address  string
}

// PatchInput carries best-effort checkout sync fields; empty strings are
// skipped rather than overwriting.
type PatchInput struct {
	FullName string
	Phone    string
	Address  string
}

type Repository interface {
	// Ensure creates the profile row if absent and returns it.
	Ensure(ctx context.Context, userID, email string) (*domain.Profile, error)
	Get(ctx context.Context, userID string) (*domain.Profile, error)
	Update(ctx context.Context, userID string, in UpdateInput) (*domain.Profile, error)
	Patch(ctx context.Context, userID string, in PatchInput) error
	SetAdmin(ctx context.Context, userID string, isAdmin bool) error
}
