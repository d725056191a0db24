/*
rules.go - Tolerance rules applied by the reconciler

PURPOSE:
  Every minute threshold the engine relies on lives in one immutable value.
  Rules are built once (DefaultRules or the roster factory) and handed to
  NewReconciler; nothing mutates them afterwards.

DEFAULTS:
  Matching window:       start - 180m .. start + 180m + 5m grace
  Night cutoff:          08:00 (earlier probes also consider yesterday's shifts)
  First shift start:     05:40 (earlier entries may close last night's shift)
  Night entry evidence:  21:00 - 23:59
  Gate override margin:  60m
  Exit window:           shift end + 3h
  Micro-session:         sessions under 1h are badge noise
  Late tolerance:        40m
  Paid early arrival:    more than 30m before start
  Boundary exit window:  05:00 - 07:00

SEE ALSO:
  - factory/roster.go: Builds Rules from roster documents
  - engine.go: Consumes Rules
*/
package attendance

import (
	"fmt"
	"time"

	"github.com/warp/shift-reconciler/generic"
)

// Rules holds the tolerances of the reconciliation policy.
type Rules struct {
	MatchEarlyWindow time.Duration
	MatchLateWindow  time.Duration
	MatchLateGrace   time.Duration

	NightCutoff     generic.ClockTime
	FirstShiftStart generic.ClockTime
	NightEntryFrom  generic.ClockTime
	NightEntryTo    generic.ClockTime

	GateOverrideMargin time.Duration

	ExitWindowAfterEnd time.Duration
	MinSession         time.Duration

	LateTolerance      time.Duration
	EarlyPaidThreshold time.Duration

	BoundaryExitFrom generic.ClockTime
	BoundaryExitTo   generic.ClockTime

	HoursPrecision int32
}

// DefaultRules returns the plant's standard tolerances.
func DefaultRules() Rules {
	return Rules{
		MatchEarlyWindow:   180 * time.Minute,
		MatchLateWindow:    180 * time.Minute,
		MatchLateGrace:     5 * time.Minute,
		NightCutoff:        generic.NewClockTime(8, 0),
		FirstShiftStart:    generic.NewClockTime(5, 40),
		NightEntryFrom:     generic.NewClockTime(21, 0),
		NightEntryTo:       generic.NewClockTime(23, 59),
		GateOverrideMargin: 60 * time.Minute,
		ExitWindowAfterEnd: 3 * time.Hour,
		MinSession:         time.Hour,
		LateTolerance:      40 * time.Minute,
		EarlyPaidThreshold: 30 * time.Minute,
		BoundaryExitFrom:   generic.NewClockTime(5, 0),
		BoundaryExitTo:     generic.NewClockTime(7, 0),
		HoursPrecision:     2,
	}
}

// Validate rejects negative windows and inverted clock ranges.
func (r Rules) Validate() error {
	durations := map[string]time.Duration{
		"match_early_window":   r.MatchEarlyWindow,
		"match_late_window":    r.MatchLateWindow,
		"match_late_grace":     r.MatchLateGrace,
		"gate_override_margin": r.GateOverrideMargin,
		"exit_window":          r.ExitWindowAfterEnd,
		"min_session":          r.MinSession,
		"late_tolerance":       r.LateTolerance,
		"early_paid_threshold": r.EarlyPaidThreshold,
	}
	for name, d := range durations {
		if d < 0 {
			return fmt.Errorf("%w: %s is negative", generic.ErrInvalidRules, name)
		}
	}

	day := generic.NewClockTime(24, 0)
	clocks := map[string]generic.ClockTime{
		"night_cutoff":       r.NightCutoff,
		"first_shift_start":  r.FirstShiftStart,
		"night_entry_from":   r.NightEntryFrom,
		"night_entry_to":     r.NightEntryTo,
		"boundary_exit_from": r.BoundaryExitFrom,
		"boundary_exit_to":   r.BoundaryExitTo,
	}
	for name, c := range clocks {
		if c < 0 || c >= day {
			return fmt.Errorf("%w: %s %s is outside the day", generic.ErrInvalidRules, name, c)
		}
	}
	if r.NightEntryTo.Before(r.NightEntryFrom) {
		return fmt.Errorf("%w: night entry range %s-%s is inverted", generic.ErrInvalidRules, r.NightEntryFrom, r.NightEntryTo)
	}
	if r.BoundaryExitTo.Before(r.BoundaryExitFrom) {
		return fmt.Errorf("%w: boundary exit range %s-%s is inverted", generic.ErrInvalidRules, r.BoundaryExitFrom, r.BoundaryExitTo)
	}
	if r.HoursPrecision < 0 {
		return fmt.Errorf("%w: hours precision is negative", generic.ErrInvalidRules)
	}
	return nil
}
