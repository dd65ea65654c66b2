// Package events defines the payloads recorded in the outbox and published
// to Kafka.
package events

import "time"

// ActivityCreated is emitted whenever a new activity row is inserted,
// whether explicitly through the API or lazily by the import pipeline.
type ActivityCreated struct {
	ActivityID int64     `json:"activity_id"`
	UserID     int64     `json:"user_id"`
	Name       string    `json:"name"`
	ParentID   *int64    `json:"parent_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ImportCompleted is emitted after an import run finishes successfully.
type ImportCompleted struct {
	RunID         string    `json:"run_id"`
	UserID        int64     `json:"user_id"`
	Days          int       `json:"days"`
	EventsCreated int       `json:"events_created"`
	RowsSkipped   int       `json:"rows_skipped"`
	OccurredAt    time.Time `json:"occurred_at"`
}
