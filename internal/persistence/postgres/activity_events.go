package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/strengthlog/internal/domain"
)

// ActivityEventsRepo persists activity events. Events are append-only:
// inserted once, never updated or deleted.
type ActivityEventsRepo struct {
	pool *pgxpool.Pool
}

// NewActivityEventsRepo constructs an ActivityEventsRepo.
func NewActivityEventsRepo(pool *pgxpool.Pool) *ActivityEventsRepo {
	return &ActivityEventsRepo{pool: pool}
}

// Create inserts a new event under the activity, optionally nested under a
// parent event. No deduplication is performed.
func (r *ActivityEventsRepo) Create(ctx context.Context, activity domain.Activity, notes string, parent *domain.ActivityEvent) (domain.ActivityEvent, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return domain.ActivityEvent{}, err
	}
	defer conn.Release()

	const stmt = `INSERT INTO activity_events (activity_id, notes, parent_id) VALUES ($1,$2,$3)
        RETURNING id, activity_id, notes, parent_id`

	var parentID *int64
	if parent != nil {
		parentID = &parent.ID
	}

	var ev domain.ActivityEvent
	if err := conn.QueryRow(ctx, stmt, activity.ID, notes, parentID).Scan(&ev.ID, &ev.ActivityID, &ev.Notes, &ev.ParentID); err != nil {
		return domain.ActivityEvent{}, err
	}
	return ev, nil
}

// Fetch returns all events. Scoping by user happens transitively through
// activity ownership at the API layer.
func (r *ActivityEventsRepo) Fetch(ctx context.Context) ([]domain.ActivityEvent, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `SELECT id, activity_id, notes, parent_id FROM activity_events`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.ActivityEvent, 0)
	for rows.Next() {
		var ev domain.ActivityEvent
		if err := rows.Scan(&ev.ID, &ev.ActivityID, &ev.Notes, &ev.ParentID); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}
