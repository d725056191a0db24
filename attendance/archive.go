/*
archive.go - Keeps finished reconciliation runs for later retrieval

PURPOSE:
  The engine itself is stateless. The HTTP and CLI surfaces may archive a
  run's output so reports can be fetched again without re-uploading events.
  The archive never feeds stored days back into a computation.

WRITE CONTRACT:
  - A run and all its days are written atomically (SaveRun)
  - A run holds at most one day per (worker, date); Record rejects
    violations with *generic.DuplicateDayError before touching the store
  - Runs are never updated after they are written

IMPLEMENTATIONS:
  - store/memory: In-memory, for tests and the CLI
  - store/sqlite: SQLite, for the server

SEE ALSO:
  - engine.go: Produces Result
  - store/sqlite/sqlite.go: Durable RunStore
*/
package attendance

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/warp/shift-reconciler/generic"
)

// Run describes one archived reconciliation.
type Run struct {
	ID        string
	RosterID  string
	CreatedAt time.Time
	Period    generic.Period
	Stats     RunStats
}

// RunStore persists runs and their resolved days.
type RunStore interface {
	// SaveRun writes the run and its days atomically.
	SaveRun(ctx context.Context, run Run, days []ResolvedDay) error

	// GetRun returns generic.ErrRunNotFound for unknown IDs.
	GetRun(ctx context.Context, id string) (*Run, error)

	// ListRuns returns runs newest first.
	ListRuns(ctx context.Context) ([]Run, error)

	// LoadDays returns a run's days ordered by worker, date.
	LoadDays(ctx context.Context, runID string) ([]ResolvedDay, error)
}

// Archive records reconciliation results in a RunStore.
type Archive struct {
	store RunStore
	now   func() time.Time
}

func NewArchive(store RunStore) *Archive {
	return &Archive{store: store, now: time.Now}
}

// Store exposes the underlying RunStore for read paths.
func (a *Archive) Store() RunStore { return a.store }

// Record assigns a run ID and writes result to the store.
func (a *Archive) Record(ctx context.Context, rosterID string, result *Result) (Run, error) {
	seen := make(map[ShiftKey]bool, len(result.Days))
	dates := make([]generic.TimePoint, 0, len(result.Days))
	for _, d := range result.Days {
		if seen[d.Key()] {
			return Run{}, &generic.DuplicateDayError{WorkerID: d.WorkerID, Date: d.Date}
		}
		seen[d.Key()] = true
		dates = append(dates, d.Date)
	}

	run := Run{
		ID:        uuid.NewString(),
		RosterID:  rosterID,
		CreatedAt: a.now().UTC(),
		Stats:     result.Stats,
	}
	if p, ok := generic.PeriodOf(dates); ok {
		run.Period = p
	}

	if err := a.store.SaveRun(ctx, run, result.Days); err != nil {
		return Run{}, err
	}
	return run, nil
}
