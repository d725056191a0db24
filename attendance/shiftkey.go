package attendance

import "github.com/warp/shift-reconciler/generic"

// OvernightEvidence is the set of (worker, date) pairs whose early-morning
// entries may belong to an overnight shift begun the previous evening.
// Build it once per run with CollectOvernightEvidence; it is read-only after.
type OvernightEvidence map[ShiftKey]struct{}

// CollectOvernightEvidence marks the day after every entry whose clock time
// falls in [NightEntryFrom, NightEntryTo].
func CollectOvernightEvidence(rules Rules, events []RawEvent) OvernightEvidence {
	ev := make(OvernightEvidence)
	for _, e := range events {
		if e.Direction != DirectionEntry {
			continue
		}
		if !generic.ClockOf(e.At).Within(rules.NightEntryFrom, rules.NightEntryTo) {
			continue
		}
		ev[ShiftKey{WorkerID: e.WorkerID, Date: generic.DateOf(e.At).AddDays(1)}] = struct{}{}
	}
	return ev
}

// Has reports whether worker had a night entry on the evening before date.
func (ev OvernightEvidence) Has(worker generic.WorkerID, date generic.TimePoint) bool {
	_, ok := ev[ShiftKey{WorkerID: worker, Date: date}]
	return ok
}

// AssignShiftKey maps an event to the workday it is accounted under.
//
//	entry before FirstShiftStart: previous date if the worker entered the
//	    night before, else the event's date
//	exit before NightCutoff: previous date
//	anything else: the event's date
func AssignShiftKey(rules Rules, ev OvernightEvidence, e RawEvent) ShiftKey {
	date := generic.DateOf(e.At)
	clock := generic.ClockOf(e.At)

	switch e.Direction {
	case DirectionEntry:
		if clock.Before(rules.FirstShiftStart) && ev.Has(e.WorkerID, date) {
			date = date.AddDays(-1)
		}
	case DirectionExit:
		if clock.Before(rules.NightCutoff) {
			date = date.AddDays(-1)
		}
	}
	return ShiftKey{WorkerID: e.WorkerID, Date: date}
}
