/*
Package sqlite provides a SQLite-backed attendance.RunStore.

PURPOSE:
  Archives reconciliation runs and their resolved days so reports can be
  fetched again by run ID. The engine never reads from here; archived days
  are output only.

WRITE-ONCE ENFORCEMENT:
  - No UPDATE statements on either table
  - A run and its days are inserted in one SQL transaction
  - Re-running a reconciliation creates a new run

KEY TABLES:
  runs:          One row per archived reconciliation (stats, period)
  resolved_days: One row per (run, worker, shift date)

INDEXES:
  - idx_resolved_days_unique: Enforces one resolved day per worker and
    date within a run
  - idx_runs_created_at: Newest-first listing

CONCURRENCY:
  Uses sync.RWMutex for thread-safety; SQLite allows a single writer.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time

USAGE:
  store, err := sqlite.New("./data/runs.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  archive := attendance.NewArchive(store)

SEE ALSO:
  - attendance/archive.go: RunStore interface
  - store/memory/memory.go: In-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/warp/shift-reconciler/attendance"
	"github.com/warp/shift-reconciler/generic"
)

const (
	timeLayout    = time.RFC3339Nano
	// Fixed width so created_at sorts lexically.
	createdLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// Store implements attendance.RunStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Archived reconciliation runs (write-once)
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		roster_id TEXT NOT NULL,
		period_start TEXT,
		period_end TEXT,
		events INTEGER NOT NULL,
		groups_count INTEGER NOT NULL,
		unmatched INTEGER NOT NULL,
		boundary_dropped INTEGER NOT NULL,
		resolved INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created_at
		ON runs(created_at DESC);

	-- Resolved workdays of a run
	CREATE TABLE IF NOT EXISTS resolved_days (
		run_id TEXT NOT NULL REFERENCES runs(id),
		worker_id TEXT NOT NULL,
		worker_name TEXT NOT NULL,
		shift_date TEXT NOT NULL,
		class TEXT NOT NULL,
		shift_id TEXT NOT NULL,
		day_type TEXT NOT NULL,
		template_start TEXT NOT NULL,
		template_end TEXT NOT NULL,
		scheduled_hours TEXT NOT NULL,
		shift_start TEXT NOT NULL,
		shift_end TEXT NOT NULL,
		entry_at TEXT NOT NULL,
		entry_checkpoint TEXT NOT NULL,
		exit_at TEXT NOT NULL,
		exit_checkpoint TEXT NOT NULL,
		exit_observed BOOLEAN NOT NULL,
		net_hours TEXT NOT NULL,
		overtime_hours TEXT NOT NULL,
		late BOOLEAN NOT NULL,
		overnight BOOLEAN NOT NULL,
		status TEXT NOT NULL
	);

	-- CRITICAL: one resolved day per worker and date within a run
	CREATE UNIQUE INDEX IF NOT EXISTS idx_resolved_days_unique
		ON resolved_days(run_id, worker_id, shift_date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// RUN STORE (attendance.RunStore interface)
// =============================================================================

// SaveRun writes a run and all its days atomically.
func (s *Store) SaveRun(ctx context.Context, run attendance.Run, days []attendance.ResolvedDay) error {
	if err := run.Period.Validate(); err != nil {
		return fmt.Errorf("run %s: %w", run.ID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	var periodStart, periodEnd sql.NullString
	if !run.Period.Start.IsZero() {
		periodStart = nullString(run.Period.Start.String())
		periodEnd = nullString(run.Period.End.String())
	}

	_, err = sqlTx.ExecContext(ctx, `
		INSERT INTO runs
		(id, roster_id, period_start, period_end, events, groups_count, unmatched,
		 boundary_dropped, resolved, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID, run.RosterID, periodStart, periodEnd,
		run.Stats.Events, run.Stats.Groups, run.Stats.Unmatched,
		run.Stats.BoundaryDropped, run.Stats.Resolved,
		run.CreatedAt.UTC().Format(createdLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for _, d := range days {
		if err := insertDay(ctx, sqlTx, run.ID, d); err != nil {
			if isUniqueConstraintError(err) {
				return &generic.DuplicateDayError{WorkerID: d.WorkerID, Date: d.Date}
			}
			return fmt.Errorf("failed to insert resolved day: %w", err)
		}
	}

	return sqlTx.Commit()
}

func insertDay(ctx context.Context, tx *sql.Tx, runID string, d attendance.ResolvedDay) error {
	t := d.Shift.Template
	_, err := tx.ExecContext(ctx, `
		INSERT INTO resolved_days
		(run_id, worker_id, worker_name, shift_date, class, shift_id, day_type,
		 template_start, template_end, scheduled_hours, shift_start, shift_end,
		 entry_at, entry_checkpoint, exit_at, exit_checkpoint, exit_observed,
		 net_hours, overtime_hours, late, overnight, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		runID, d.WorkerID, d.WorkerName, d.Date.String(), d.Class,
		t.ID, t.DayType, t.Start.String(), t.End.String(), t.Duration.Value.String(),
		d.Shift.Start.Format(timeLayout), d.Shift.End.Format(timeLayout),
		d.Entry.Format(timeLayout), d.EntryCheckpoint,
		d.Exit.Format(timeLayout), d.ExitCheckpoint, d.ExitObserved,
		d.NetHours.Value.String(), d.OvertimeHours.Value.String(),
		d.Late, d.Overnight, d.Status,
	)
	return err
}

// GetRun returns a run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (*attendance.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, runColumns+` WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", generic.ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// ListRuns returns all runs newest first.
func (s *Store) ListRuns(ctx context.Context) ([]attendance.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, runColumns+` ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []attendance.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// LoadDays returns a run's days ordered by worker, date.
func (s *Store) LoadDays(ctx context.Context, runID string) ([]attendance.ResolvedDay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM runs WHERE id = ?", runID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to look up run: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: %s", generic.ErrRunNotFound, runID)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT worker_id, worker_name, shift_date, class, shift_id, day_type,
		       template_start, template_end, scheduled_hours, shift_start, shift_end,
		       entry_at, entry_checkpoint, exit_at, exit_checkpoint, exit_observed,
		       net_hours, overtime_hours, late, overnight, status
		FROM resolved_days
		WHERE run_id = ?
		ORDER BY worker_id ASC, shift_date ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query resolved days: %w", err)
	}
	defer rows.Close()

	var days []attendance.ResolvedDay
	for rows.Next() {
		d, err := scanDay(rows)
		if err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

// =============================================================================
// SCANNING
// =============================================================================

const runColumns = `
	SELECT id, roster_id, period_start, period_end, events, groups_count,
	       unmatched, boundary_dropped, resolved, created_at
	FROM runs`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (attendance.Run, error) {
	var (
		run         attendance.Run
		periodStart sql.NullString
		periodEnd   sql.NullString
		createdAt   string
	)
	err := row.Scan(
		&run.ID, &run.RosterID, &periodStart, &periodEnd,
		&run.Stats.Events, &run.Stats.Groups, &run.Stats.Unmatched,
		&run.Stats.BoundaryDropped, &run.Stats.Resolved, &createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return run, err
		}
		return run, fmt.Errorf("failed to scan run: %w", err)
	}

	if run.CreatedAt, err = time.Parse(createdLayout, createdAt); err != nil {
		return run, fmt.Errorf("failed to parse run created_at: %w", err)
	}
	if periodStart.Valid {
		if run.Period.Start, err = generic.ParseDate(periodStart.String); err != nil {
			return run, err
		}
		if run.Period.End, err = generic.ParseDate(periodEnd.String); err != nil {
			return run, err
		}
		if err := run.Period.Validate(); err != nil {
			return run, fmt.Errorf("stored run %s: %w", run.ID, err)
		}
	}
	return run, nil
}

func scanDay(rows *sql.Rows) (attendance.ResolvedDay, error) {
	var (
		d                        attendance.ResolvedDay
		workerID, date           string
		class, dayType, status   string
		tStart, tEnd, schedHours string
		shiftStart, shiftEnd     string
		entryAt, exitAt          string
		netHours, overtimeHours  string
	)
	err := rows.Scan(
		&workerID, &d.WorkerName, &date, &class, &d.Shift.Template.ID, &dayType,
		&tStart, &tEnd, &schedHours, &shiftStart, &shiftEnd,
		&entryAt, &d.EntryCheckpoint, &exitAt, &d.ExitCheckpoint, &d.ExitObserved,
		&netHours, &overtimeHours, &d.Late, &d.Overnight, &status,
	)
	if err != nil {
		return d, fmt.Errorf("failed to scan resolved day: %w", err)
	}

	d.WorkerID = generic.WorkerID(workerID)
	d.Class = attendance.CheckpointClass(class)
	d.Status = attendance.DayStatus(status)
	if d.NetHours, err = generic.ParseHours(netHours); err != nil {
		return d, fmt.Errorf("failed to parse stored net hours: %w", err)
	}
	if d.OvertimeHours, err = generic.ParseHours(overtimeHours); err != nil {
		return d, fmt.Errorf("failed to parse stored overtime hours: %w", err)
	}

	if d.Date, err = generic.ParseDate(date); err != nil {
		return d, err
	}

	tpl := &d.Shift.Template
	tpl.DayType = attendance.DayType(dayType)
	if tpl.Duration, err = generic.ParseHours(schedHours); err != nil {
		return d, fmt.Errorf("failed to parse stored scheduled hours: %w", err)
	}
	tpl.Overnight = d.Overnight
	if tpl.Start, err = generic.ParseClockTime(tStart); err != nil {
		return d, err
	}
	if tpl.End, err = generic.ParseClockTime(tEnd); err != nil {
		return d, err
	}
	d.Shift.Anchor = d.Date

	for _, f := range []struct {
		dst *time.Time
		src string
	}{
		{&d.Shift.Start, shiftStart},
		{&d.Shift.End, shiftEnd},
		{&d.Entry, entryAt},
		{&d.Exit, exitAt},
	} {
		if *f.dst, err = time.Parse(timeLayout, f.src); err != nil {
			return d, fmt.Errorf("failed to parse stored time %q: %w", f.src, err)
		}
	}
	return d, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func isUniqueConstraintError(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
