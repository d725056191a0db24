package attendance

import (
	"sort"

	"github.com/warp/shift-reconciler/generic"
)

// EntryDecision is the winning entry of one worker/day group.
type EntryDecision struct {
	Class CheckpointClass
	Event RawEvent
	Match MatchResult
}

type classBest struct {
	event RawEvent
	match MatchResult
}

// ResolveEntry picks the best workstation entry and the best gate entry for
// date, then applies the hybrid rule: workstation is authoritative unless
// the gate match is closer by strictly more than GateOverrideMargin.
// The second result is false when neither class matched a shift.
func ResolveEntry(m *Matcher, rules Rules, date generic.TimePoint, entries []RawEvent) (EntryDecision, bool) {
	ws := bestEntry(m, date, entries, ClassWorkstation)
	gate := bestEntry(m, date, entries, ClassGate)

	switch {
	case !ws.match.Matched && !gate.match.Matched:
		return EntryDecision{}, false
	case !ws.match.Matched:
		return decision(ClassGate, gate), true
	case !gate.match.Matched:
		return decision(ClassWorkstation, ws), true
	case gate.match.Distance < ws.match.Distance-rules.GateOverrideMargin:
		return decision(ClassGate, gate), true
	default:
		return decision(ClassWorkstation, ws), true
	}
}

func decision(class CheckpointClass, b classBest) EntryDecision {
	return EntryDecision{Class: class, Event: b.event, Match: b.match}
}

// bestEntry returns the class entry with the smallest match distance.
// Entries are scanned in time order so equal distances keep the earliest.
func bestEntry(m *Matcher, date generic.TimePoint, entries []RawEvent, class CheckpointClass) classBest {
	var candidates []RawEvent
	for _, e := range entries {
		if e.Direction == DirectionEntry && e.Class == class {
			candidates = append(candidates, e)
		}
	}
	sortEvents(candidates)

	best := classBest{match: noMatch()}
	for _, e := range candidates {
		res := m.Match(e.At, date)
		if res.Matched && res.Distance < best.match.Distance {
			best = classBest{event: e, match: res}
		}
	}
	return best
}

// sortEvents orders events by time, then checkpoint name.
func sortEvents(events []RawEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].At.Equal(events[j].At) {
			return events[i].At.Before(events[j].At)
		}
		return events[i].Checkpoint < events[j].Checkpoint
	})
}
