package attendance_test

import (
	"testing"
	"time"
	_ "time/tzdata"

	"go.uber.org/goleak"

	"github.com/warp/shift-reconciler/attendance"
	"github.com/warp/shift-reconciler/generic"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// =============================================================================
// TEST INFRASTRUCTURE
// =============================================================================
// March 2025: the 3rd is a Monday, the 8th a Saturday, the 9th a Sunday.

func at(day, hour, minute int) time.Time {
	return time.Date(2025, time.March, day, hour, minute, 0, 0, time.UTC)
}

func date(day int) generic.TimePoint {
	return generic.NewTimePoint(2025, time.March, day)
}

func wsIn(worker string, t time.Time) attendance.RawEvent {
	return event(worker, t, attendance.ClassWorkstation, attendance.DirectionEntry, "LINEA-1")
}

func wsOut(worker string, t time.Time) attendance.RawEvent {
	return event(worker, t, attendance.ClassWorkstation, attendance.DirectionExit, "LINEA-1")
}

func gateIn(worker string, t time.Time) attendance.RawEvent {
	return event(worker, t, attendance.ClassGate, attendance.DirectionEntry, "PORTERIA")
}

func gateOut(worker string, t time.Time) attendance.RawEvent {
	return event(worker, t, attendance.ClassGate, attendance.DirectionExit, "PORTERIA")
}

func event(worker string, t time.Time, class attendance.CheckpointClass, dir attendance.Direction, checkpoint string) attendance.RawEvent {
	return attendance.RawEvent{
		WorkerID:   generic.WorkerID(worker),
		WorkerName: "Worker " + worker,
		At:         t,
		Checkpoint: checkpoint,
		Class:      class,
		Direction:  dir,
	}
}

func newMatcher() *attendance.Matcher {
	return attendance.NewMatcher(attendance.DefaultCatalog(), attendance.DefaultRules())
}

// shiftOn returns the default-roster instance of id anchored to day.
func shiftOn(t *testing.T, id string, day int) attendance.ShiftInstance {
	t.Helper()
	for _, c := range attendance.DefaultCatalog().Candidates(date(day), time.UTC) {
		if c.Template.ID == id {
			return c
		}
	}
	t.Fatalf("shift %q not scheduled on day %d", id, day)
	return attendance.ShiftInstance{}
}
