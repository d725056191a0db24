/*
engine.go - Batch reconciliation of clock events into resolved workdays

PURPOSE:
  Runs the full pipeline over one input table:

    events ──► overnight evidence (barrier)
           ──► shift key per event ──► groups by (worker, date)
           ──► per group: entry resolution ► exit inference ► hours
           ──► boundary day filter per worker
           ──► resolved days ordered by worker, date

CONCURRENCY:
  Groups are independent. They are resolved on an errgroup bounded by
  WithWorkers; each goroutine reads only its own slice of events plus the
  immutable catalog/rules and writes to its own result slot. The boundary
  filter runs after the group barrier because it needs each worker's
  complete sequence of days.

DETERMINISM:
  Groups are enumerated in (worker, date) order and events inside a group
  are sorted by time, so the output does not depend on input order or on
  goroutine scheduling.

SEE ALSO:
  - matcher.go, entry.go, exit.go, hours.go: Per-group stages
  - shiftkey.go: Grouping
  - boundary.go: Post-processing
*/
package attendance

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/warp/shift-reconciler/generic"
)

// Reconciler turns raw clock events into resolved workdays.
type Reconciler struct {
	catalog *Catalog
	rules   Rules
	matcher *Matcher
	logger  *zap.Logger
	workers int
}

type Option func(*Reconciler)

// WithLogger sets the logger used for run diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(r *Reconciler) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithWorkers bounds the number of groups resolved concurrently.
func WithWorkers(n int) Option {
	return func(r *Reconciler) {
		if n > 0 {
			r.workers = n
		}
	}
}

// NewReconciler validates rules and returns a reconciler bound to catalog.
func NewReconciler(catalog *Catalog, rules Rules, opts ...Option) (*Reconciler, error) {
	if catalog == nil {
		return nil, fmt.Errorf("%w: catalog is required", generic.ErrInvalidRoster)
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	r := &Reconciler{
		catalog: catalog,
		rules:   rules,
		matcher: NewMatcher(catalog, rules),
		logger:  zap.NewNop(),
		workers: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func (r *Reconciler) Catalog() *Catalog { return r.catalog }
func (r *Reconciler) Rules() Rules      { return r.rules }

// RunStats counts what happened to the input of one run.
type RunStats struct {
	Events          int `json:"events"`
	Groups          int `json:"groups"`
	Unmatched       int `json:"unmatched"`
	BoundaryDropped int `json:"boundary_dropped"`
	Resolved        int `json:"resolved"`
}

// Result is the output table of one run.
type Result struct {
	Days  []ResolvedDay
	Stats RunStats
}

// Reconcile resolves every (worker, date) group in events.
func (r *Reconciler) Reconcile(ctx context.Context, events []RawEvent) (*Result, error) {
	if err := validateEvents(events); err != nil {
		return nil, err
	}

	evidence := CollectOvernightEvidence(r.rules, events)
	keys, groups := r.group(events, evidence)

	resolved := make([]ResolvedDay, len(keys))
	ok := make([]bool, len(keys))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, key := range keys {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			resolved[i], ok[i] = r.ResolveGroup(key, groups[key])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := RunStats{Events: len(events), Groups: len(keys)}
	days := make([]ResolvedDay, 0, len(keys))
	for i, key := range keys {
		if !ok[i] {
			stats.Unmatched++
			r.logger.Debug("no shift matched",
				zap.String("worker_id", string(key.WorkerID)),
				zap.String("date", key.Date.String()),
				zap.Int("events", len(groups[key])),
			)
			continue
		}
		days = append(days, resolved[i])
	}

	kept := FilterBoundaryDays(r.rules, days)
	stats.BoundaryDropped = len(days) - len(kept)
	stats.Resolved = len(kept)

	r.logger.Info("reconciliation finished",
		zap.Int("events", stats.Events),
		zap.Int("groups", stats.Groups),
		zap.Int("unmatched", stats.Unmatched),
		zap.Int("boundary_dropped", stats.BoundaryDropped),
		zap.Int("resolved", stats.Resolved),
	)
	return &Result{Days: kept, Stats: stats}, nil
}

// ResolveGroup resolves the events of one (worker, date) group. The second
// result is false when no entry matched a shift; such groups yield no day.
func (r *Reconciler) ResolveGroup(key ShiftKey, events []RawEvent) (ResolvedDay, bool) {
	sorted := append([]RawEvent(nil), events...)
	sortEvents(sorted)

	var entries, exits []RawEvent
	for _, e := range sorted {
		if e.Direction == DirectionEntry {
			entries = append(entries, e)
		} else {
			exits = append(exits, e)
		}
	}

	win, found := ResolveEntry(r.matcher, r.rules, key.Date, entries)
	if !found {
		return ResolvedDay{}, false
	}

	shift := win.Match.Shift
	exit := InferExit(r.rules, win.Event.At, shift, exits)
	hours := ComputeHours(r.rules, win.Event.At, exit.At, shift)

	status := exit.Status
	if hours.Negative {
		status = StatusNegativeDuration
	}

	return ResolvedDay{
		WorkerID:        key.WorkerID,
		WorkerName:      workerName(sorted),
		Date:            key.Date,
		Class:           win.Class,
		Shift:           shift,
		Entry:           win.Event.At,
		EntryCheckpoint: win.Event.Checkpoint,
		Exit:            exit.At,
		ExitCheckpoint:  exit.Checkpoint,
		ExitObserved:    exit.Observed,
		NetHours:        hours.Net,
		OvertimeHours:   hours.Overtime,
		Late:            hours.Late,
		Overnight:       shift.Template.Overnight,
		Status:          status,
	}, true
}

// group builds the (worker, date) → events map in one pass and returns its
// keys in deterministic order.
func (r *Reconciler) group(events []RawEvent, evidence OvernightEvidence) ([]ShiftKey, map[ShiftKey][]RawEvent) {
	groups := make(map[ShiftKey][]RawEvent)
	for _, e := range events {
		k := AssignShiftKey(r.rules, evidence, e)
		groups[k] = append(groups[k], e)
	}

	keys := make([]ShiftKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].WorkerID != keys[j].WorkerID {
			return keys[i].WorkerID < keys[j].WorkerID
		}
		return keys[i].Date.Before(keys[j].Date)
	})
	return keys, groups
}

func workerName(events []RawEvent) string {
	for _, e := range events {
		if e.WorkerName != "" {
			return e.WorkerName
		}
	}
	return ""
}

func validateEvents(events []RawEvent) error {
	for i, e := range events {
		var reason string
		switch {
		case e.WorkerID == "":
			reason = "missing worker id"
		case e.At.IsZero():
			reason = "missing timestamp"
		case !e.Class.Valid():
			reason = fmt.Sprintf("unknown checkpoint class %q", e.Class)
		case !e.Direction.Valid():
			reason = fmt.Sprintf("unknown direction %q", e.Direction)
		}
		if reason != "" {
			return &generic.InvalidEventError{Index: i, WorkerID: e.WorkerID, Reason: reason}
		}
	}
	return nil
}
