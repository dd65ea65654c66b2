package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/strengthlog/internal/domain"
)

// UsersRepo persists users.
type UsersRepo struct {
	pool *pgxpool.Pool
}

// NewUsersRepo constructs a UsersRepo.
func NewUsersRepo(pool *pgxpool.Pool) *UsersRepo {
	return &UsersRepo{pool: pool}
}

// Create inserts a user with a store-assigned id.
func (r *UsersRepo) Create(ctx context.Context) (domain.User, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return domain.User{}, err
	}
	defer conn.Release()

	var u domain.User
	if err := conn.QueryRow(ctx, `INSERT INTO users DEFAULT VALUES RETURNING id`).Scan(&u.ID); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

// Find looks up a user by id, returning domain.ErrUserNotFound when absent.
func (r *UsersRepo) Find(ctx context.Context, id int64) (domain.User, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return domain.User{}, err
	}
	defer conn.Release()

	var u domain.User
	if err := conn.QueryRow(ctx, `SELECT id FROM users WHERE id=$1`, id).Scan(&u.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, fmt.Errorf("user %d: %w", id, domain.ErrUserNotFound)
		}
		return domain.User{}, err
	}
	return u, nil
}
