package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/strengthlog/internal/domain"
)

// Maintenance exposes administrative operations. Not part of the normal
// request path.
type Maintenance struct {
	pool *pgxpool.Pool
}

// NewMaintenance constructs a Maintenance.
func NewMaintenance(pool *pgxpool.Pool) *Maintenance {
	return &Maintenance{pool: pool}
}

// Reset truncates all data and creates a single fresh user, which it
// returns. Identities restart at 1 so the stand-in user resolves again.
func (m *Maintenance) Reset(ctx context.Context) (domain.User, error) {
	tx, err := m.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.User{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, `TRUNCATE activity_events, activities, outbox, users RESTART IDENTITY CASCADE`); err != nil {
		return domain.User{}, err
	}

	var u domain.User
	if err = tx.QueryRow(ctx, `INSERT INTO users DEFAULT VALUES RETURNING id`).Scan(&u.ID); err != nil {
		return domain.User{}, err
	}

	if err = tx.Commit(ctx); err != nil {
		return domain.User{}, err
	}
	return u, nil
}
