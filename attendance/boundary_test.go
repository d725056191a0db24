package attendance_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/warp/shift-reconciler/attendance"
	"github.com/warp/shift-reconciler/generic"
)

func dayShift(worker string, day int) attendance.ResolvedDay {
	return attendance.ResolvedDay{
		WorkerID: generic.WorkerID(worker),
		Date:     date(day),
		Entry:    at(day, 5, 45),
		Exit:     at(day, 13, 45),
	}
}

func nightShift(worker string, day int, entry, exit time.Time) attendance.ResolvedDay {
	return attendance.ResolvedDay{
		WorkerID:  generic.WorkerID(worker),
		Date:      date(day),
		Entry:     entry,
		Exit:      exit,
		Overnight: true,
	}
}

func datesOf(days []attendance.ResolvedDay) []generic.TimePoint {
	out := make([]generic.TimePoint, len(days))
	for i, d := range days {
		out[i] = d.Date
	}
	return out
}

func TestFilterBoundaryDays_DropsDaytimeBoundaries(t *testing.T) {
	// GIVEN: Three day-shift records
	days := []attendance.ResolvedDay{dayShift("w", 5), dayShift("w", 3), dayShift("w", 4)}

	// WHEN: Filtering
	got := attendance.FilterBoundaryDays(attendance.DefaultRules(), days)

	// THEN: Only the middle day survives
	assert.Equal(t, []generic.TimePoint{date(4)}, datesOf(got))
}

func TestFilterBoundaryDays_KeepsOvernightCrossings(t *testing.T) {
	days := []attendance.ResolvedDay{
		nightShift("w", 3, at(3, 21, 50), at(4, 5, 50)),
		dayShift("w", 4),
		nightShift("w", 5, at(5, 21, 45), at(6, 6, 10)),
	}

	got := attendance.FilterBoundaryDays(attendance.DefaultRules(), days)

	assert.Equal(t, []generic.TimePoint{date(3), date(4), date(5)}, datesOf(got))
}

func TestFilterBoundaryDays_MiddleDayAlwaysKept(t *testing.T) {
	// Middle day carries no overnight flag and odd times; it stays anyway
	mid := dayShift("w", 4)
	mid.Entry = at(4, 13, 40)
	days := []attendance.ResolvedDay{dayShift("w", 3), mid, dayShift("w", 5)}

	got := attendance.FilterBoundaryDays(attendance.DefaultRules(), days)

	assert.Equal(t, []generic.TimePoint{date(4)}, datesOf(got))
}

func TestFilterBoundaryDays_LastDayNeedsEarlyMorningExit(t *testing.T) {
	days := []attendance.ResolvedDay{
		dayShift("w", 3),
		dayShift("w", 4),
		nightShift("w", 5, at(5, 21, 45), at(6, 8, 30)), // exit after 07:00
	}

	got := attendance.FilterBoundaryDays(attendance.DefaultRules(), days)

	assert.Equal(t, []generic.TimePoint{date(4)}, datesOf(got))
}

func TestFilterBoundaryDays_SingleDayMustPassBothRules(t *testing.T) {
	rules := attendance.DefaultRules()

	full := nightShift("w", 3, at(3, 21, 50), at(4, 5, 50))
	assert.Len(t, attendance.FilterBoundaryDays(rules, []attendance.ResolvedDay{full}), 1)

	lateExit := nightShift("w", 3, at(3, 21, 50), at(4, 7, 30))
	assert.Empty(t, attendance.FilterBoundaryDays(rules, []attendance.ResolvedDay{lateExit}))

	assert.Empty(t, attendance.FilterBoundaryDays(rules, []attendance.ResolvedDay{dayShift("w", 3)}))
}

func TestFilterBoundaryDays_WorkersAreIndependent(t *testing.T) {
	days := []attendance.ResolvedDay{
		dayShift("b", 3), dayShift("b", 4), dayShift("b", 5),
		dayShift("a", 4), dayShift("a", 5), dayShift("a", 6),
	}

	got := attendance.FilterBoundaryDays(attendance.DefaultRules(), days)

	if assert.Len(t, got, 2) {
		assert.Equal(t, generic.WorkerID("a"), got[0].WorkerID)
		assert.Equal(t, date(5), got[0].Date)
		assert.Equal(t, generic.WorkerID("b"), got[1].WorkerID)
		assert.Equal(t, date(4), got[1].Date)
	}
}
