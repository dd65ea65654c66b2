// Package postgres provides pgx-backed persistence for the strength log.
package postgres

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/strengthlog/internal/domain"
	"example.com/strengthlog/internal/events"
)

const uniqueViolation = "23505"

const selectActivity = `SELECT id, user_id, name, parent_id FROM activities`

// ActivitiesRepo persists activities. Idempotence of FindOrCreate under
// concurrent callers rests on the unique index over
// (user_id, coalesce(parent_id, 0), lower(btrim(name))).
type ActivitiesRepo struct {
	pool *pgxpool.Pool
}

// NewActivitiesRepo constructs an ActivitiesRepo.
func NewActivitiesRepo(pool *pgxpool.Pool) *ActivitiesRepo {
	return &ActivitiesRepo{pool: pool}
}

// FindOrCreate returns the existing activity matching the trimmed,
// case-folded name within the (user, parent) scope, inserting it when
// absent. A unique-violation on the insert means a concurrent caller won
// the race; the lookup is retried once instead of failing.
func (r *ActivitiesRepo) FindOrCreate(ctx context.Context, name string, parent *domain.Activity, user domain.User) (domain.Activity, error) {
	// Trim once here so the lookup, insert, and re-lookup all see the
	// same normalized name.
	trimmed := strings.TrimSpace(name)

	existing, err := r.findByScope(ctx, trimmed, parent, user)
	if err != nil {
		return domain.Activity{}, err
	}
	if existing != nil {
		return *existing, nil
	}

	created, err := r.insert(ctx, user.ID, trimmed, parentID(parent))
	if err == nil {
		return created, nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		existing, lookupErr := r.findByScope(ctx, trimmed, parent, user)
		if lookupErr != nil {
			return domain.Activity{}, lookupErr
		}
		if existing != nil {
			return *existing, nil
		}
	}
	return domain.Activity{}, err
}

// Create inserts unconditionally. Used on the explicit API path where no
// duplicate check is wanted.
func (r *ActivitiesRepo) Create(ctx context.Context, activity domain.NewActivity, parent *domain.Activity) (domain.Activity, error) {
	return r.insert(ctx, activity.UserID, strings.TrimSpace(activity.Name), parentID(parent))
}

// FetchFor returns all activities owned by the user in storage order.
func (r *ActivitiesRepo) FetchFor(ctx context.Context, user domain.User) ([]domain.Activity, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, selectActivity+` WHERE user_id=$1`, user.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	activities := make([]domain.Activity, 0)
	for rows.Next() {
		var a domain.Activity
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.ParentID); err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

// findByScope expects name already trimmed; stored names are trimmed at
// insert, so a plain case-fold is the whole comparison.
func (r *ActivitiesRepo) findByScope(ctx context.Context, name string, parent *domain.Activity, user domain.User) (*domain.Activity, error) {
	const query = selectActivity + `
        WHERE user_id=$1 AND parent_id IS NOT DISTINCT FROM $2 AND lower(name)=lower($3)`

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, query, user.ID, parentID(parent), name)
	var a domain.Activity
	if err := row.Scan(&a.ID, &a.UserID, &a.Name, &a.ParentID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// insert writes the activity row and its activity.created outbox record in
// a single transaction.
func (r *ActivitiesRepo) insert(ctx context.Context, userID int64, name string, parent *int64) (domain.Activity, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.Activity{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	const stmt = `INSERT INTO activities (user_id, name, parent_id) VALUES ($1,$2,$3)
        RETURNING id, user_id, name, parent_id`

	var a domain.Activity
	if err = tx.QueryRow(ctx, stmt, userID, name, parent).Scan(&a.ID, &a.UserID, &a.Name, &a.ParentID); err != nil {
		return domain.Activity{}, err
	}

	if err = insertOutbox(ctx, tx, "activity.created", topicActivities, strconv.FormatInt(userID, 10), events.ActivityCreated{
		ActivityID: a.ID,
		UserID:     a.UserID,
		Name:       a.Name,
		ParentID:   a.ParentID,
		OccurredAt: time.Now().UTC(),
	}); err != nil {
		return domain.Activity{}, err
	}

	if err = tx.Commit(ctx); err != nil {
		return domain.Activity{}, err
	}
	return a, nil
}

func parentID(parent *domain.Activity) *int64 {
	if parent == nil {
		return nil
	}
	return &parent.ID
}
