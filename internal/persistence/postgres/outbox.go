package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Topics the outbox dispatcher publishes to.
const (
	topicActivities = "strengthlog.activities"
	topicImports    = "strengthlog.imports"
)

// insertOutbox records an event row inside the caller's transaction so the
// domain change and its event commit or roll back together.
func insertOutbox(ctx context.Context, tx pgx.Tx, eventType, topic, partitionKey string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	const stmt = `INSERT INTO outbox (event_type, topic, partition_key, payload) VALUES ($1,$2,$3,$4)`
	_, err = tx.Exec(ctx, stmt, eventType, topic, partitionKey, body)
	return err
}

// OutboxRecorder appends events to the outbox outside any surrounding
// domain transaction, for callers that only need the event itself.
type OutboxRecorder struct {
	pool *pgxpool.Pool
}

// NewOutboxRecorder constructs an OutboxRecorder.
func NewOutboxRecorder(pool *pgxpool.Pool) *OutboxRecorder {
	return &OutboxRecorder{pool: pool}
}

// RecordImportCompleted appends an import.completed event.
func (r *OutboxRecorder) RecordImportCompleted(ctx context.Context, partitionKey string, payload interface{}) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	if err = insertOutbox(ctx, tx, "import.completed", topicImports, partitionKey, payload); err != nil {
		return err
	}
	err = tx.Commit(ctx)
	return err
}
