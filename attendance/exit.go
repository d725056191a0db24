package attendance

import "time"

// ExitDecision is the exit used for hours computation.
type ExitDecision struct {
	At         time.Time
	Checkpoint string
	Observed   bool
	Status     DayStatus
}

// InferExit selects the latest exit in (entry, shift end + ExitWindowAfterEnd].
// Without one, or when the resulting session is shorter than MinSession,
// the shift's scheduled end is assumed instead.
func InferExit(rules Rules, entry time.Time, shift ShiftInstance, exits []RawEvent) ExitDecision {
	limit := shift.End.Add(rules.ExitWindowAfterEnd)

	var (
		best  RawEvent
		found bool
	)
	for _, e := range exits {
		if e.Direction != DirectionExit {
			continue
		}
		if !e.At.After(entry) || e.At.After(limit) {
			continue
		}
		if !found || e.At.After(best.At) {
			best, found = e, true
		}
	}

	if !found {
		return assumedExit(shift, StatusAssumedMissingExit)
	}
	if best.At.Sub(entry) < rules.MinSession {
		return assumedExit(shift, StatusAssumedMicroSession)
	}
	return ExitDecision{At: best.At, Checkpoint: best.Checkpoint, Observed: true, Status: StatusCalculated}
}

func assumedExit(shift ShiftInstance, status DayStatus) ExitDecision {
	return ExitDecision{At: shift.End, Status: status}
}
