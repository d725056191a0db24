package generic

// =============================================================================
// PERIOD - Inclusive range of calendar dates
// =============================================================================

// Period is the date range covered by a run of resolved days.
type Period struct {
	Start TimePoint
	End   TimePoint
}

// PeriodOf returns the smallest period containing every date.
// The second result is false when dates is empty.
func PeriodOf(dates []TimePoint) (Period, bool) {
	if len(dates) == 0 {
		return Period{}, false
	}
	p := Period{Start: dates[0], End: dates[0]}
	for _, d := range dates[1:] {
		if d.Before(p.Start) {
			p.Start = d
		}
		if d.After(p.End) {
			p.End = d
		}
	}
	return p, true
}

// IsBoundary reports whether t is the first or last day of the period.
func (p Period) IsBoundary(t TimePoint) bool {
	return t.Equal(p.Start) || t.Equal(p.End)
}

// Validate returns ErrInvalidPeriod when End precedes Start.
func (p Period) Validate() error {
	if p.End.Before(p.Start) {
		return ErrInvalidPeriod
	}
	return nil
}

// String returns a string representation of the period.
func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}
