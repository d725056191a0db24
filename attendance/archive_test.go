package attendance_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/shift-reconciler/attendance"
	"github.com/warp/shift-reconciler/generic"
	"github.com/warp/shift-reconciler/store/memory"
)

func TestArchive_RecordAndLoad(t *testing.T) {
	// GIVEN: A finished run
	ctx := context.Background()
	res, err := newReconciler(t).Reconcile(ctx, nightWeek("w4"))
	require.NoError(t, err)

	archive := attendance.NewArchive(memory.New())
	before := time.Now().UTC()

	// WHEN: Recording it
	run, err := archive.Record(ctx, "default", res)
	require.NoError(t, err)

	// THEN: The run is retrievable with its period and days
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, "default", run.RosterID)
	assert.False(t, run.CreatedAt.Before(before.Add(-time.Second)))
	assert.Equal(t, generic.Period{Start: date(3), End: date(5)}, run.Period)
	assert.Equal(t, res.Stats, run.Stats)

	stored, err := archive.Store().GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run, *stored)

	days, err := archive.Store().LoadDays(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Days, days)
}

func TestArchive_RejectsDuplicateDay(t *testing.T) {
	day := dayShift("w", 4)
	res := &attendance.Result{Days: []attendance.ResolvedDay{day, day}}

	_, err := attendance.NewArchive(memory.New()).Record(context.Background(), "default", res)

	var dup *generic.DuplicateDayError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, date(4), dup.Date)
	assert.ErrorIs(t, err, generic.ErrDuplicateDay)
}

func TestArchive_EmptyRunHasZeroPeriod(t *testing.T) {
	store := memory.New()
	run, err := attendance.NewArchive(store).Record(context.Background(), "default", &attendance.Result{})
	require.NoError(t, err)

	assert.True(t, run.Period.Start.IsZero())

	runs, err := store.ListRuns(context.Background())
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
