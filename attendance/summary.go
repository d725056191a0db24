package attendance

import (
	"sort"

	"github.com/warp/shift-reconciler/generic"
)

// WorkerSummary totals a worker's resolved days for report footers.
type WorkerSummary struct {
	WorkerID      generic.WorkerID
	WorkerName    string
	Days          int
	NetHours      generic.Amount
	OvertimeHours generic.Amount
	LateDays      int
	AssumedExits  int
	ErrorDays     int
}

// Summarize aggregates days per worker, ordered by worker ID.
func Summarize(days []ResolvedDay) []WorkerSummary {
	index := make(map[generic.WorkerID]int)
	var out []WorkerSummary
	for _, d := range days {
		i, ok := index[d.WorkerID]
		if !ok {
			i = len(out)
			index[d.WorkerID] = i
			out = append(out, WorkerSummary{
				WorkerID:      d.WorkerID,
				WorkerName:    d.WorkerName,
				NetHours:      generic.ZeroHours(),
				OvertimeHours: generic.ZeroHours(),
			})
		}
		s := &out[i]
		s.Days++
		s.NetHours = s.NetHours.Add(d.NetHours)
		s.OvertimeHours = s.OvertimeHours.Add(d.OvertimeHours)
		if d.Late {
			s.LateDays++
		}
		if d.Status.IsAssumed() {
			s.AssumedExits++
		}
		if d.Status == StatusNegativeDuration {
			s.ErrorDays++
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WorkerID < out[j].WorkerID })
	return out
}
