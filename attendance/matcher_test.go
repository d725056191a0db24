package attendance_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/shift-reconciler/attendance"
	"github.com/warp/shift-reconciler/generic"
)

func TestMatch_NearestShiftOfReportDate(t *testing.T) {
	// GIVEN: A workstation entry at 05:50 on Monday
	// WHEN: Matching against Monday
	res := newMatcher().Match(at(3, 5, 50), date(3))

	// THEN: Turno 1 LV, ten minutes away
	require.True(t, res.Matched)
	assert.Equal(t, "Turno 1 LV", res.Shift.Template.ID)
	assert.Equal(t, 10*time.Minute, res.Distance)
}

func TestMatch_EarlyProbeConsidersPreviousDate(t *testing.T) {
	// GIVEN: A probe at 00:30 Tuesday, before the 08:00 night cutoff
	// WHEN: Matching against Tuesday
	res := newMatcher().Match(at(4, 0, 30), date(4))

	// THEN: Monday's night shift (21:40) is the only candidate in range
	require.True(t, res.Matched)
	assert.Equal(t, "Turno 3 LV", res.Shift.Template.ID)
	assert.Equal(t, date(3), res.Shift.Anchor)
	assert.Equal(t, 2*time.Hour+50*time.Minute, res.Distance)
}

func TestMatch_WindowBoundsAreInclusive(t *testing.T) {
	m := newMatcher()

	// 180 minutes early
	res := m.Match(at(3, 2, 40), date(3))
	require.True(t, res.Matched)
	assert.Equal(t, 180*time.Minute, res.Distance)

	// 185 minutes late (180 + 5 grace)
	res = m.Match(at(3, 8, 45), date(3))
	require.True(t, res.Matched)
	assert.Equal(t, "Turno 1 LV", res.Shift.Template.ID)

	// One minute outside either bound
	assert.False(t, m.Match(at(3, 2, 39), date(3)).Matched)
	assert.False(t, m.Match(at(3, 8, 46), date(3)).Matched)
}

func TestMatch_NoCandidateReturnsSentinel(t *testing.T) {
	res := newMatcher().Match(at(3, 10, 0), date(3))

	assert.False(t, res.Matched)
	assert.Equal(t, attendance.NoMatchDistance, res.Distance)
	assert.Positive(t, int64(res.Distance), "distance is never negative")
}

func TestMatch_EqualDistancePrefersEarlierStart(t *testing.T) {
	// GIVEN: Two shifts whose starts are equidistant from 07:00
	cat, err := attendance.NewCatalog([]attendance.ShiftTemplate{
		{ID: "Late", DayType: attendance.DayWeekday, Start: generic.NewClockTime(8, 0), End: generic.NewClockTime(16, 0), Duration: generic.NewAmount(8, generic.UnitHours)},
		{ID: "Early", DayType: attendance.DayWeekday, Start: generic.NewClockTime(6, 0), End: generic.NewClockTime(14, 0), Duration: generic.NewAmount(8, generic.UnitHours)},
	})
	require.NoError(t, err)
	m := attendance.NewMatcher(cat, attendance.DefaultRules())

	// WHEN: Matching 07:00
	res := m.Match(at(3, 7, 0), date(3))

	// THEN: The earlier-starting shift wins regardless of roster order
	require.True(t, res.Matched)
	assert.Equal(t, "Early", res.Shift.Template.ID)
	assert.Equal(t, time.Hour, res.Distance)
}

func TestMatch_SameStartPrefersLexicalID(t *testing.T) {
	cat, err := attendance.NewCatalog([]attendance.ShiftTemplate{
		{ID: "Z-long", DayType: attendance.DayWeekday, Start: generic.NewClockTime(6, 0), End: generic.NewClockTime(16, 0), Duration: generic.NewAmount(10, generic.UnitHours)},
		{ID: "A-short", DayType: attendance.DayWeekday, Start: generic.NewClockTime(6, 0), End: generic.NewClockTime(12, 0), Duration: generic.NewAmount(6, generic.UnitHours)},
	})
	require.NoError(t, err)

	res := attendance.NewMatcher(cat, attendance.DefaultRules()).Match(at(3, 6, 10), date(3))

	require.True(t, res.Matched)
	assert.Equal(t, "A-short", res.Shift.Template.ID)
}
