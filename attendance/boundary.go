package attendance

import (
	"sort"

	"github.com/warp/shift-reconciler/generic"
)

// FilterBoundaryDays drops each worker's first and last day unless they show
// an overnight crossing. The first day needs an overnight record entered in
// [NightEntryFrom, NightEntryTo]; the last day needs an overnight record that
// exited in [BoundaryExitFrom, BoundaryExitTo]. When a worker has a single
// day it must pass both checks. Days in between are always kept.
//
// The result is ordered by worker, then date.
func FilterBoundaryDays(rules Rules, days []ResolvedDay) []ResolvedDay {
	byWorker := make(map[generic.WorkerID][]ResolvedDay)
	var workers []generic.WorkerID
	for _, d := range days {
		if _, ok := byWorker[d.WorkerID]; !ok {
			workers = append(workers, d.WorkerID)
		}
		byWorker[d.WorkerID] = append(byWorker[d.WorkerID], d)
	}
	sort.Slice(workers, func(i, j int) bool { return workers[i] < workers[j] })

	out := make([]ResolvedDay, 0, len(days))
	for _, w := range workers {
		out = append(out, filterWorkerDays(rules, byWorker[w])...)
	}
	return out
}

func filterWorkerDays(rules Rules, days []ResolvedDay) []ResolvedDay {
	sortDays(days)
	dates := make([]generic.TimePoint, len(days))
	for i, d := range days {
		dates[i] = d.Date
	}
	run, ok := generic.PeriodOf(dates)
	if !ok {
		return nil
	}

	keepFirst := hasOvernightEntry(rules, days, run.Start)
	keepLast := hasOvernightExit(rules, days, run.End)

	var out []ResolvedDay
	for _, d := range days {
		switch {
		case !run.IsBoundary(d.Date):
			out = append(out, d)
		case d.Date == run.Start && d.Date == run.End:
			if keepFirst && keepLast {
				out = append(out, d)
			}
		case d.Date == run.Start:
			if keepFirst {
				out = append(out, d)
			}
		default:
			if keepLast {
				out = append(out, d)
			}
		}
	}
	return out
}

func hasOvernightEntry(rules Rules, days []ResolvedDay, date generic.TimePoint) bool {
	for _, d := range days {
		if d.Date == date && d.Overnight && generic.ClockOf(d.Entry).Within(rules.NightEntryFrom, rules.NightEntryTo) {
			return true
		}
	}
	return false
}

func hasOvernightExit(rules Rules, days []ResolvedDay, date generic.TimePoint) bool {
	for _, d := range days {
		if d.Date == date && d.Overnight && generic.ClockOf(d.Exit).Within(rules.BoundaryExitFrom, rules.BoundaryExitTo) {
			return true
		}
	}
	return false
}

func sortDays(days []ResolvedDay) {
	sort.SliceStable(days, func(i, j int) bool {
		if days[i].WorkerID != days[j].WorkerID {
			return days[i].WorkerID < days[j].WorkerID
		}
		return days[i].Date.Before(days[j].Date)
	})
}
