package attendance

import (
	"fmt"
	"sort"
	"time"

	"github.com/warp/shift-reconciler/generic"
)

// =============================================================================
// SHIFT CATALOG - Static roster of templates per day type
// =============================================================================

// Catalog is the immutable weekly roster. Templates keep their
// configuration order within each day type.
type Catalog struct {
	byDayType map[DayType][]ShiftTemplate
	order     []ShiftTemplate
}

// NewCatalog validates templates and indexes them by day type.
func NewCatalog(templates []ShiftTemplate) (*Catalog, error) {
	if len(templates) == 0 {
		return nil, fmt.Errorf("%w: no shift templates", generic.ErrInvalidRoster)
	}

	c := &Catalog{byDayType: make(map[DayType][]ShiftTemplate)}
	seen := make(map[string]bool)
	for _, t := range templates {
		if t.ID == "" {
			return nil, fmt.Errorf("%w: shift template without id", generic.ErrInvalidRoster)
		}
		if seen[t.ID] {
			return nil, fmt.Errorf("%w: duplicate shift id %q", generic.ErrInvalidRoster, t.ID)
		}
		if !t.DayType.Valid() {
			return nil, fmt.Errorf("%w: shift %q has unknown day type %q", generic.ErrInvalidRoster, t.ID, t.DayType)
		}
		if !t.Duration.IsPositive() {
			return nil, fmt.Errorf("%w: shift %q must have a positive duration", generic.ErrInvalidRoster, t.ID)
		}
		if !t.Overnight && !t.Start.Before(t.End) {
			return nil, fmt.Errorf("%w: shift %q ends at %s before it starts at %s without the overnight flag",
				generic.ErrInvalidRoster, t.ID, t.End, t.Start)
		}
		seen[t.ID] = true
		c.byDayType[t.DayType] = append(c.byDayType[t.DayType], t)
		c.order = append(c.order, t)
	}
	return c, nil
}

// Templates returns the templates of one day type.
func (c *Catalog) Templates(dt DayType) []ShiftTemplate {
	return append([]ShiftTemplate(nil), c.byDayType[dt]...)
}

// All returns every template in configuration order.
func (c *Catalog) All() []ShiftTemplate {
	return append([]ShiftTemplate(nil), c.order...)
}

// Lookup finds a template by ID.
func (c *Catalog) Lookup(id string) (ShiftTemplate, bool) {
	for _, t := range c.order {
		if t.ID == id {
			return t, true
		}
	}
	return ShiftTemplate{}, false
}

// =============================================================================
// CANDIDATE GENERATION
// =============================================================================

// Candidates anchors every template of date's day type to date in loc.
// Overnight shifts end on the following calendar date.
func (c *Catalog) Candidates(date generic.TimePoint, loc *time.Location) []ShiftInstance {
	templates := c.byDayType[DayTypeOf(date)]
	out := make([]ShiftInstance, 0, len(templates))
	for _, t := range templates {
		endDate := date
		if t.Overnight {
			endDate = date.AddDays(1)
		}
		out = append(out, ShiftInstance{
			Template: t,
			Start:    date.At(t.Start, loc),
			End:      endDate.At(t.End, loc),
			Anchor:   date,
		})
	}
	return out
}

// sortCandidates fixes the enumeration order used for tie-breaking:
// scheduled start, then template ID.
func sortCandidates(cands []ShiftInstance) {
	sort.SliceStable(cands, func(i, j int) bool {
		if !cands[i].Start.Equal(cands[j].Start) {
			return cands[i].Start.Before(cands[j].Start)
		}
		return cands[i].Template.ID < cands[j].Template.ID
	})
}

// =============================================================================
// DEFAULT ROSTER
// =============================================================================

func shift(id string, dt DayType, sh, sm, eh, em int, hours float64, overnight bool) ShiftTemplate {
	return ShiftTemplate{
		ID:        id,
		DayType:   dt,
		Start:     generic.NewClockTime(sh, sm),
		End:       generic.NewClockTime(eh, em),
		Duration:  generic.NewAmount(hours, generic.UnitHours),
		Overnight: overnight,
	}
}

// DefaultTemplates is the plant's three-shift roster.
func DefaultTemplates() []ShiftTemplate {
	return []ShiftTemplate{
		shift("Turno 1 LV", DayWeekday, 5, 40, 13, 40, 8, false),
		shift("Turno 2 LV", DayWeekday, 13, 40, 21, 40, 8, false),
		shift("Turno 3 LV", DayWeekday, 21, 40, 5, 40, 8, true),
		shift("Turno 1 S", DaySaturday, 5, 40, 11, 40, 6, false),
		shift("Turno 2 S", DaySaturday, 11, 40, 17, 40, 6, false),
		shift("Turno 3 S", DaySaturday, 21, 40, 5, 40, 8, true),
		shift("Turno 3 D", DaySunday, 21, 40, 5, 40, 8, true),
	}
}

// DefaultCatalog builds the catalog of DefaultTemplates.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultTemplates())
	if err != nil {
		panic(fmt.Sprintf("default roster is invalid: %v", err))
	}
	return c
}
