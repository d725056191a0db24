package attendance

import (
	"time"

	"github.com/warp/shift-reconciler/generic"
)

// HoursResult is the outcome of the hours computation for one day.
type HoursResult struct {
	EffectiveStart time.Time
	Net            generic.Amount
	Overtime       generic.Amount
	Late           bool
	Negative       bool
}

// ComputeHours derives net and overtime hours.
//
// Effective start:
//   - entry more than LateTolerance after the scheduled start: the entry, flagged late
//   - entry more than EarlyPaidThreshold before the scheduled start: the entry
//   - otherwise: the scheduled start
//
// A negative net duration yields zero hours with Negative set.
func ComputeHours(rules Rules, entry, exit time.Time, shift ShiftInstance) HoursResult {
	res := HoursResult{EffectiveStart: shift.Start}

	switch {
	case entry.After(shift.Start.Add(rules.LateTolerance)):
		res.EffectiveStart = entry
		res.Late = true
	case entry.Before(shift.Start) && shift.Start.Sub(entry) > rules.EarlyPaidThreshold:
		res.EffectiveStart = entry
	}

	net := exit.Sub(res.EffectiveStart)
	if net < 0 {
		res.Negative = true
		res.Net = generic.ZeroHours()
		res.Overtime = generic.ZeroHours()
		return res
	}

	res.Net = generic.HoursFromDuration(net).Round(rules.HoursPrecision)
	res.Overtime = res.Net.Sub(shift.Template.Duration).Max(generic.ZeroHours()).Round(rules.HoursPrecision)
	return res
}
