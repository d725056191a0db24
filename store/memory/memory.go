// Package memory provides an in-memory attendance.RunStore.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/warp/shift-reconciler/attendance"
	"github.com/warp/shift-reconciler/generic"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu    sync.RWMutex
	runs  map[string]attendance.Run
	days  map[string][]attendance.ResolvedDay
	order []string
}

func New() *Memory {
	return &Memory{
		runs: make(map[string]attendance.Run),
		days: make(map[string][]attendance.ResolvedDay),
	}
}

// SaveRun stores a run with its days. Nothing is written on error.
func (m *Memory) SaveRun(_ context.Context, run attendance.Run, days []attendance.ResolvedDay) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := run.Period.Validate(); err != nil {
		return fmt.Errorf("run %s: %w", run.ID, err)
	}
	if _, exists := m.runs[run.ID]; exists {
		return fmt.Errorf("run %s already stored", run.ID)
	}

	// Check day uniqueness first (atomic check)
	seen := make(map[attendance.ShiftKey]bool, len(days))
	for _, d := range days {
		if seen[d.Key()] {
			return &generic.DuplicateDayError{WorkerID: d.WorkerID, Date: d.Date}
		}
		seen[d.Key()] = true
	}

	stored := append([]attendance.ResolvedDay(nil), days...)
	sort.SliceStable(stored, func(i, j int) bool {
		if stored[i].WorkerID != stored[j].WorkerID {
			return stored[i].WorkerID < stored[j].WorkerID
		}
		return stored[i].Date.Before(stored[j].Date)
	})

	m.runs[run.ID] = run
	m.days[run.ID] = stored
	m.order = append(m.order, run.ID)
	return nil
}

func (m *Memory) GetRun(_ context.Context, id string) (*attendance.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	run, ok := m.runs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", generic.ErrRunNotFound, id)
	}
	return &run, nil
}

// ListRuns returns runs newest first. Runs created in the same instant keep
// reverse insertion order.
func (m *Memory) ListRuns(_ context.Context) ([]attendance.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]attendance.Run, 0, len(m.order))
	for i := len(m.order) - 1; i >= 0; i-- {
		result = append(result, m.runs[m.order[i]])
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *Memory) LoadDays(_ context.Context, runID string) ([]attendance.ResolvedDay, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	days, ok := m.days[runID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", generic.ErrRunNotFound, runID)
	}
	result := make([]attendance.ResolvedDay, len(days))
	copy(result, days)
	return result, nil
}
