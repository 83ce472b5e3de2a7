package profile

import (
	"context"
	"errors"
	"io"
	"log"

	"weetzen-shop/internal/domain"
	"github.com/jackc/pgx/v5"
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

const profileColumns = `id::text, full_name, email, phone, address, is_admin, created_at`

func (r *postgresRepo) Ensure(ctx context.Context, userID, email string) (*domain.Profile, error) {
	_, err := r.pool.Exec(ctx, `
INSERT INTO profiles (id, email)
VALUES ($1, $2)
ON CONFLICT (id) DO NOTHING
`, userID, email)
	if err != nil {
		r.logger.Printf("profile repo: ensure id=%s error=%v", userID, err)
		return nil, err
	}
	return r.Get(ctx, userID)
}

func (r *postgresRepo) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	var p domain.Profile
	err := r.pool.QueryRow(ctx, `
SELECT `+profileColumns+`
FROM profiles
WHERE id = $1
`, userID).Scan(&p.ID, &p.FullName, &p.Email, &p.Phone, &p.Address, &p.IsAdmin, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) Update(ctx context.Context, userID string, in UpdateInput) (*domain.Profile, error) {
	var p domain.Profile
	err := r.pool.QueryRow(ctx, `
UPDATE profiles
SET full_name = $2, email = $3, phone = $4, address = $5
WHERE id = $1
RETURNING `+profileColumns+`
`, userID, in.FullName, in.Email, in.Phone, in.Address).Scan(
		&p.ID, &p.FullName, &p.Email, &p.Phone, &p.Address, &p.IsAdmin, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("profile repo: update id=%s error=%v", userID, err)
		return nil, err
	}
	return &p, nil
}

// Patch overwrites only the fields that arrived non-empty.
func (r *postgresRepo) Patch(ctx context.Context, userID string, in PatchInput) error {
	_, err := r.pool.Exec(ctx, `
UPDATE profiles
SET full_name = COALESCE(NULLIF($2, ''), full_name),
    phone = COALESCE(NULLIF($3, ''), phone),
    address = COALESCE(NULLIF($4, ''), address)
WHERE id = $1
`, userID, in.FullName, in.Phone, in.Address)
	if err != nil {
		r.logger.Printf("profile repo: patch id=%s error=%v", userID, err)
	}
	return err
}

func (r *postgresRepo) SetAdmin(ctx context.Context, userID string, isAdmin bool) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE profiles SET is_admin = $2 WHERE id = $1`, userID, isAdmin)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
