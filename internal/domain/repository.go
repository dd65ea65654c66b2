package domain

import (
	"context"
	"errors"
)

// ErrUserNotFound is returned when a user lookup matches no row.
var ErrUserNotFound = errors.New("user not found")

// ActivitiesRepository captures persistence operations for activities.
type ActivitiesRepository interface {
	// FindOrCreate resolves the activity with the given name within the
	// (user, parent) scope, comparing case-insensitively after trimming
	// surrounding whitespace, and inserts it when absent. Repeated calls
	// with equivalent inputs converge to a single stored row.
	FindOrCreate(ctx context.Context, name string, parent *Activity, user User) (Activity, error)
	// Create inserts unconditionally, with no duplicate check.
	Create(ctx context.Context, activity NewActivity, parent *Activity) (Activity, error)
	// FetchFor returns all activities owned by the user.
	FetchFor(ctx context.Context, user User) ([]Activity, error)
}

// ActivityEventsRepository captures persistence operations for events.
type ActivityEventsRepository interface {
	// Create always inserts a new event; events are never deduplicated.
	Create(ctx context.Context, activity Activity, notes string, parent *ActivityEvent) (ActivityEvent, error)
	// Fetch returns all events.
	Fetch(ctx context.Context) ([]ActivityEvent, error)
}

// UsersRepository captures persistence operations for users.
type UsersRepository interface {
	Create(ctx context.Context) (User, error)
	// Find fails with ErrUserNotFound when the id does not exist.
	Find(ctx context.Context, id int64) (User, error)
}
