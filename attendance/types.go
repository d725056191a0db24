// Package attendance reconciles access-control clock events against a weekly
// shift roster. It is a pure batch computation: events in, resolved days out.
package attendance

import (
	"math"
	"time"

	"github.com/warp/shift-reconciler/generic"
)

// =============================================================================
// ENUMERATIONS
// =============================================================================

// DayType selects which set of shift templates applies to a calendar date.
type DayType string

const (
	DayWeekday  DayType = "weekday"
	DaySaturday DayType = "saturday"
	DaySunday   DayType = "sunday"
)

// DayTypeOf maps Monday–Friday to weekday.
func DayTypeOf(date generic.TimePoint) DayType {
	switch date.Weekday() {
	case time.Saturday:
		return DaySaturday
	case time.Sunday:
		return DaySunday
	default:
		return DayWeekday
	}
}

func (d DayType) Valid() bool {
	return d == DayWeekday || d == DaySaturday || d == DaySunday
}

// CheckpointClass categorizes a physical clock-in location.
type CheckpointClass string

const (
	ClassWorkstation CheckpointClass = "workstation"
	ClassGate        CheckpointClass = "gate"
)

func (c CheckpointClass) Valid() bool {
	return c == ClassWorkstation || c == ClassGate
}

type Direction string

const (
	DirectionEntry Direction = "entry"
	DirectionExit  Direction = "exit"
)

func (d Direction) Valid() bool {
	return d == DirectionEntry || d == DirectionExit
}

// DayStatus records whether a resolved day was computed from observed data
// or relied on a fallback.
type DayStatus string

const (
	StatusCalculated          DayStatus = "calculated"
	StatusAssumedMissingExit  DayStatus = "assumed_missing_exit"
	StatusAssumedMicroSession DayStatus = "assumed_micro_session"
	StatusNegativeDuration    DayStatus = "error_negative_duration"
)

// Description is the label shown to report readers.
func (s DayStatus) Description() string {
	switch s {
	case StatusCalculated:
		return "Calculated"
	case StatusAssumedMissingExit:
		return "assumed — missing/invalid exit"
	case StatusAssumedMicroSession:
		return "assumed — micro-session detected"
	case StatusNegativeDuration:
		return "error: negative effective duration"
	default:
		return string(s)
	}
}

// IsAssumed reports whether the exit was substituted with the shift end.
func (s DayStatus) IsAssumed() bool {
	return s == StatusAssumedMissingExit || s == StatusAssumedMicroSession
}

// =============================================================================
// SHIFTS
// =============================================================================

// ShiftTemplate is a recurring schedule definition for one day type.
type ShiftTemplate struct {
	ID        string
	DayType   DayType
	Start     generic.ClockTime
	End       generic.ClockTime
	Duration  generic.Amount // scheduled hours
	Overnight bool           // End falls on the following calendar date
}

// ShiftInstance is a template anchored to a concrete date.
type ShiftInstance struct {
	Template ShiftTemplate
	Start    time.Time
	End      time.Time
	Anchor   generic.TimePoint
}

// NoMatchDistance is the distance reported when no candidate qualifies.
const NoMatchDistance = time.Duration(math.MaxInt64)

// MatchResult is the outcome of matching a probe timestamp to a shift.
type MatchResult struct {
	Matched  bool
	Shift    ShiftInstance
	Distance time.Duration
}

func noMatch() MatchResult {
	return MatchResult{Distance: NoMatchDistance}
}

// =============================================================================
// EVENTS AND RESULTS
// =============================================================================

// RawEvent is one normalized clock event handed over by ingestion.
type RawEvent struct {
	WorkerID   generic.WorkerID
	WorkerName string
	At         time.Time
	Checkpoint string
	Class      CheckpointClass
	Direction  Direction
}

// ShiftKey groups the events resolved together as one workday.
type ShiftKey struct {
	WorkerID generic.WorkerID
	Date     generic.TimePoint
}

// ResolvedDay is the reconciled outcome for one worker and grouping date.
type ResolvedDay struct {
	WorkerID        generic.WorkerID
	WorkerName      string
	Date            generic.TimePoint
	Class           CheckpointClass
	Shift           ShiftInstance
	Entry           time.Time
	EntryCheckpoint string
	Exit            time.Time
	ExitCheckpoint  string
	ExitObserved    bool
	NetHours        generic.Amount
	OvertimeHours   generic.Amount
	Late            bool
	Overnight       bool
	Status          DayStatus
}

// Key returns the worker/date pair the day was resolved for.
func (d ResolvedDay) Key() ShiftKey {
	return ShiftKey{WorkerID: d.WorkerID, Date: d.Date}
}
