// Package domain defines the entities and persistence contracts for the
// strength log.
package domain

// User is the owning principal for activities. Rows are immutable after
// creation.
type User struct {
	ID int64 `json:"id"`
}

// Activity is a named category, optionally nested under a parent activity
// and owned by a user. Within a (user, parent) scope the name is unique
// under case-insensitive, whitespace-trimmed comparison.
type Activity struct {
	ID       int64  `json:"id"`
	UserID   int64  `json:"user_id"`
	Name     string `json:"name"`
	ParentID *int64 `json:"parent_id"`
}

// NewActivity is the payload for an explicit activity creation.
type NewActivity struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
}

// ActivityEvent is an occurrence tied to exactly one activity, optionally
// nested under a parent event. Events are append-only facts: created once,
// never mutated or merged.
type ActivityEvent struct {
	ID         int64  `json:"id"`
	ActivityID int64  `json:"activity_id"`
	Notes      string `json:"notes"`
	ParentID   *int64 `json:"parent_id"`
}
