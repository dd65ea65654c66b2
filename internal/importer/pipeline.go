package importer

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"example.com/strengthlog/internal/domain"
	"example.com/strengthlog/internal/events"
)

// workoutActivity is the top-level activity every imported day hangs off.
const workoutActivity = "Workout"

// Recorder appends an import.completed event once a run finishes.
type Recorder interface {
	RecordImportCompleted(ctx context.Context, partitionKey string, payload interface{}) error
}

// Importer drives the repositories to materialize spreadsheet days as
// activity events. Creates are issued sequentially; the only races are
// with concurrent imports or API creates, which the storage-level unique
// index resolves.
type Importer struct {
	activities domain.ActivitiesRepository
	events     domain.ActivityEventsRepository
	recorder   Recorder
	logger     *log.Logger
}

// NewImporter constructs an Importer. recorder may be nil, in which case
// no completion event is recorded.
func NewImporter(activities domain.ActivitiesRepository, events domain.ActivityEventsRepository, recorder Recorder) *Importer {
	return &Importer{
		activities: activities,
		events:     events,
		recorder:   recorder,
		logger:     log.New(log.Writer(), "[import] ", log.LstdFlags),
	}
}

// Summary reports what a run did.
type Summary struct {
	RunID         string `json:"run_id"`
	Days          int    `json:"days"`
	EventsCreated int    `json:"events_created"`
	RowsSkipped   int    `json:"rows_skipped"`
}

// Run parses the already-fetched sheet text and reconciles it into the
// hierarchy for the user: per date, one anchor event under the "Workout"
// activity, plus one event per row under its exercise activity, parented
// under the anchor. Activities resolve idempotently; events append.
// Cancellation is honored between date groups. A store failure aborts the
// run, leaving earlier dates committed.
func (im *Importer) Run(ctx context.Context, user domain.User, sheet string) (Summary, error) {
	start := time.Now()

	records, skipped, err := ParseSheet(strings.NewReader(sheet))
	if err != nil {
		return Summary{}, fmt.Errorf("parse sheet: %w", err)
	}
	rowsSkipped.Add(float64(skipped))

	summary := Summary{RunID: uuid.NewString(), RowsSkipped: skipped}

	for date, rows := range GroupByDay(records) {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		workout, err := im.activities.FindOrCreate(ctx, workoutActivity, nil, user)
		if err != nil {
			return summary, err
		}

		anchor, err := im.events.Create(ctx, workout, fmt.Sprintf("Workout %s", date.Format(dateLayout)), nil)
		if err != nil {
			return summary, err
		}
		summary.EventsCreated++

		for _, row := range rows {
			exercise, err := im.activities.FindOrCreate(ctx, row.Exercise, &workout, user)
			if err != nil {
				return summary, err
			}
			if _, err := im.events.Create(ctx, exercise, row.Sets, &anchor); err != nil {
				return summary, err
			}
			summary.EventsCreated++
			rowsImported.Inc()
		}
		summary.Days++
	}

	runDuration.Observe(time.Since(start).Seconds())

	if im.recorder != nil {
		completed := events.ImportCompleted{
			RunID:         summary.RunID,
			UserID:        user.ID,
			Days:          summary.Days,
			EventsCreated: summary.EventsCreated,
			RowsSkipped:   summary.RowsSkipped,
			OccurredAt:    time.Now().UTC(),
		}
		if err := im.recorder.RecordImportCompleted(ctx, strconv.FormatInt(user.ID, 10), completed); err != nil {
			// The run itself is committed; only the telemetry event is lost.
			im.logger.Printf("record import.completed failed (run=%s): %v", summary.RunID, err)
		}
	}

	im.logger.Printf("run %s complete: days=%d events=%d skipped=%d", summary.RunID, summary.Days, summary.EventsCreated, summary.RowsSkipped)
	return summary, nil
}
