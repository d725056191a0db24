package attendance

import (
	"time"

	"github.com/warp/shift-reconciler/generic"
)

// Matcher finds the scheduled shift closest to a probe timestamp.
type Matcher struct {
	catalog *Catalog
	rules   Rules
}

func NewMatcher(catalog *Catalog, rules Rules) *Matcher {
	return &Matcher{catalog: catalog, rules: rules}
}

// Match considers the shifts of reportDate and, for probes before the night
// cutoff, the shifts of the previous date. A candidate qualifies when the
// probe lies in [start - early, start + late + grace]. Among qualifying
// candidates the smallest |probe - start| wins; on equal distance the
// earliest-starting shift wins.
func (m *Matcher) Match(probe time.Time, reportDate generic.TimePoint) MatchResult {
	loc := probe.Location()
	cands := m.catalog.Candidates(reportDate, loc)
	if generic.ClockOf(probe).Before(m.rules.NightCutoff) {
		cands = append(cands, m.catalog.Candidates(reportDate.AddDays(-1), loc)...)
	}
	sortCandidates(cands)

	best := noMatch()
	for _, c := range cands {
		if !m.inWindow(probe, c) {
			continue
		}
		dist := generic.AbsDuration(probe.Sub(c.Start))
		if dist < best.Distance {
			best = MatchResult{Matched: true, Shift: c, Distance: dist}
		}
	}
	return best
}

func (m *Matcher) inWindow(probe time.Time, c ShiftInstance) bool {
	lo := c.Start.Add(-m.rules.MatchEarlyWindow)
	hi := c.Start.Add(m.rules.MatchLateWindow + m.rules.MatchLateGrace)
	return !probe.Before(lo) && !probe.After(hi)
}
