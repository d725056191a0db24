/*
Package factory provides roster document to Go conversion.

PURPOSE:
  Converts JSON or YAML roster documents into an attendance.Catalog and
  attendance.Rules pair. Plants change shift times and tolerances without
  code changes: operations edit the roster file, the factory builds the
  validated Go structs.

DOCUMENT SCHEMA (JSON shown, YAML uses the same keys):
  {
    "id": "plant-2025",
    "name": "Plant roster",
    "shifts": [
      {"id": "Turno 1 LV", "day_type": "weekday", "start": "05:40", "end": "13:40", "hours": 8},
      {"id": "Turno 3 LV", "day_type": "weekday", "start": "21:40", "end": "05:40"}
    ],
    "tolerances": {
      "late_tolerance_minutes": 40,
      "night_cutoff": "08:00"
    }
  }

DEFAULTS:
  - overnight: inferred when end <= start
  - hours: end - start (plus 24h when overnight)
  - tolerances: any omitted field keeps attendance.DefaultRules()

USAGE:
  f := factory.NewRosterFactory()
  roster, err := f.LoadFile("roster.yaml")
  rec, err := attendance.NewReconciler(roster.Catalog, roster.Rules)

SEE ALSO:
  - attendance/catalog.go: Catalog validation
  - attendance/rules.go: Tolerance fields
*/
package factory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/warp/shift-reconciler/attendance"
	"github.com/warp/shift-reconciler/generic"
)

// =============================================================================
// DOCUMENT SCHEMA TYPES
// =============================================================================

// RosterJSON is the document representation of a roster.
type RosterJSON struct {
	ID         string          `json:"id" yaml:"id"`
	Name       string          `json:"name" yaml:"name"`
	Shifts     []ShiftJSON     `json:"shifts" yaml:"shifts"`
	Tolerances *TolerancesJSON `json:"tolerances,omitempty" yaml:"tolerances,omitempty"`
}

// ShiftJSON represents one shift template.
type ShiftJSON struct {
	ID        string   `json:"id" yaml:"id"`
	DayType   string   `json:"day_type" yaml:"day_type"` // weekday, saturday, sunday
	Start     string   `json:"start" yaml:"start"`       // HH:MM
	End       string   `json:"end" yaml:"end"`           // HH:MM
	Hours     *float64 `json:"hours,omitempty" yaml:"hours,omitempty"`
	Overnight *bool    `json:"overnight,omitempty" yaml:"overnight,omitempty"`
}

// TolerancesJSON overrides attendance.Rules. Durations are in minutes,
// clock times are HH:MM.
type TolerancesJSON struct {
	MatchEarlyMinutes    *int   `json:"match_early_minutes,omitempty" yaml:"match_early_minutes,omitempty"`
	MatchLateMinutes     *int   `json:"match_late_minutes,omitempty" yaml:"match_late_minutes,omitempty"`
	MatchGraceMinutes    *int   `json:"match_grace_minutes,omitempty" yaml:"match_grace_minutes,omitempty"`
	NightCutoff          string `json:"night_cutoff,omitempty" yaml:"night_cutoff,omitempty"`
	FirstShiftStart      string `json:"first_shift_start,omitempty" yaml:"first_shift_start,omitempty"`
	NightEntryFrom       string `json:"night_entry_from,omitempty" yaml:"night_entry_from,omitempty"`
	NightEntryTo         string `json:"night_entry_to,omitempty" yaml:"night_entry_to,omitempty"`
	GateOverrideMinutes  *int   `json:"gate_override_minutes,omitempty" yaml:"gate_override_minutes,omitempty"`
	ExitWindowMinutes    *int   `json:"exit_window_minutes,omitempty" yaml:"exit_window_minutes,omitempty"`
	MinSessionMinutes    *int   `json:"min_session_minutes,omitempty" yaml:"min_session_minutes,omitempty"`
	LateToleranceMinutes *int   `json:"late_tolerance_minutes,omitempty" yaml:"late_tolerance_minutes,omitempty"`
	EarlyPaidMinutes     *int   `json:"early_paid_minutes,omitempty" yaml:"early_paid_minutes,omitempty"`
	BoundaryExitFrom     string `json:"boundary_exit_from,omitempty" yaml:"boundary_exit_from,omitempty"`
	BoundaryExitTo       string `json:"boundary_exit_to,omitempty" yaml:"boundary_exit_to,omitempty"`
	HoursPrecision       *int32 `json:"hours_precision,omitempty" yaml:"hours_precision,omitempty"`
}

// Format selects the document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension. Anything that is
// not .yaml or .yml is read as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Roster is a parsed, validated roster document.
type Roster struct {
	ID      string
	Name    string
	Catalog *attendance.Catalog
	Rules   attendance.Rules
}

// DefaultRoster wraps the built-in plant roster and default tolerances.
func DefaultRoster() *Roster {
	return &Roster{
		ID:      "default",
		Name:    "Plant roster",
		Catalog: attendance.DefaultCatalog(),
		Rules:   attendance.DefaultRules(),
	}
}

// =============================================================================
// ROSTER FACTORY
// =============================================================================

// RosterFactory converts roster documents to Go structs.
type RosterFactory struct{}

// NewRosterFactory creates a new roster factory.
func NewRosterFactory() *RosterFactory {
	return &RosterFactory{}
}

// LoadFile reads and parses a roster file.
func (f *RosterFactory) LoadFile(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster file: %w", err)
	}
	return f.Parse(data, FormatFromPath(path))
}

// Parse decodes data in the given format into a validated Roster.
func (f *RosterFactory) Parse(data []byte, format Format) (*Roster, error) {
	var rj RosterJSON
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &rj); err != nil {
			return nil, fmt.Errorf("%w: failed to parse roster YAML: %v", generic.ErrInvalidRoster, err)
		}
	default:
		if err := json.Unmarshal(data, &rj); err != nil {
			return nil, fmt.Errorf("%w: failed to parse roster JSON: %v", generic.ErrInvalidRoster, err)
		}
	}
	return f.FromJSON(rj)
}

// FromJSON converts a RosterJSON into a Roster.
func (f *RosterFactory) FromJSON(rj RosterJSON) (*Roster, error) {
	templates := make([]attendance.ShiftTemplate, 0, len(rj.Shifts))
	for _, sj := range rj.Shifts {
		t, err := parseShift(sj)
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}

	catalog, err := attendance.NewCatalog(templates)
	if err != nil {
		return nil, err
	}

	rules := attendance.DefaultRules()
	if rj.Tolerances != nil {
		if rules, err = applyTolerances(rules, *rj.Tolerances); err != nil {
			return nil, err
		}
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	id := rj.ID
	if id == "" {
		id = "custom"
	}
	return &Roster{ID: id, Name: rj.Name, Catalog: catalog, Rules: rules}, nil
}

// ToJSON converts a Roster back to its document form with every tolerance
// spelled out.
func (f *RosterFactory) ToJSON(r *Roster) RosterJSON {
	rj := RosterJSON{ID: r.ID, Name: r.Name}
	for _, t := range r.Catalog.All() {
		hours := t.Duration.Float64()
		overnight := t.Overnight
		rj.Shifts = append(rj.Shifts, ShiftJSON{
			ID:        t.ID,
			DayType:   string(t.DayType),
			Start:     t.Start.String(),
			End:       t.End.String(),
			Hours:     &hours,
			Overnight: &overnight,
		})
	}

	rules := r.Rules
	rj.Tolerances = &TolerancesJSON{
		MatchEarlyMinutes:    minutes(rules.MatchEarlyWindow),
		MatchLateMinutes:     minutes(rules.MatchLateWindow),
		MatchGraceMinutes:    minutes(rules.MatchLateGrace),
		NightCutoff:          rules.NightCutoff.String(),
		FirstShiftStart:      rules.FirstShiftStart.String(),
		NightEntryFrom:       rules.NightEntryFrom.String(),
		NightEntryTo:         rules.NightEntryTo.String(),
		GateOverrideMinutes:  minutes(rules.GateOverrideMargin),
		ExitWindowMinutes:    minutes(rules.ExitWindowAfterEnd),
		MinSessionMinutes:    minutes(rules.MinSession),
		LateToleranceMinutes: minutes(rules.LateTolerance),
		EarlyPaidMinutes:     minutes(rules.EarlyPaidThreshold),
		BoundaryExitFrom:     rules.BoundaryExitFrom.String(),
		BoundaryExitTo:       rules.BoundaryExitTo.String(),
		HoursPrecision:       &rules.HoursPrecision,
	}
	return rj
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

func parseShift(sj ShiftJSON) (attendance.ShiftTemplate, error) {
	start, err := generic.ParseClockTime(sj.Start)
	if err != nil {
		return attendance.ShiftTemplate{}, fmt.Errorf("%w: shift %q: %v", generic.ErrInvalidRoster, sj.ID, err)
	}
	end, err := generic.ParseClockTime(sj.End)
	if err != nil {
		return attendance.ShiftTemplate{}, fmt.Errorf("%w: shift %q: %v", generic.ErrInvalidRoster, sj.ID, err)
	}

	overnight := !start.Before(end)
	if sj.Overnight != nil {
		overnight = *sj.Overnight
	}

	var hours generic.Amount
	if sj.Hours != nil {
		hours = generic.NewAmount(*sj.Hours, generic.UnitHours)
	} else {
		span := time.Duration(end - start)
		if overnight {
			span += 24 * time.Hour
		}
		hours = generic.HoursFromDuration(span).Round(2)
	}

	return attendance.ShiftTemplate{
		ID:        sj.ID,
		DayType:   attendance.DayType(sj.DayType),
		Start:     start,
		End:       end,
		Duration:  hours,
		Overnight: overnight,
	}, nil
}

func applyTolerances(r attendance.Rules, tj TolerancesJSON) (attendance.Rules, error) {
	setMinutes(&r.MatchEarlyWindow, tj.MatchEarlyMinutes)
	setMinutes(&r.MatchLateWindow, tj.MatchLateMinutes)
	setMinutes(&r.MatchLateGrace, tj.MatchGraceMinutes)
	setMinutes(&r.GateOverrideMargin, tj.GateOverrideMinutes)
	setMinutes(&r.ExitWindowAfterEnd, tj.ExitWindowMinutes)
	setMinutes(&r.MinSession, tj.MinSessionMinutes)
	setMinutes(&r.LateTolerance, tj.LateToleranceMinutes)
	setMinutes(&r.EarlyPaidThreshold, tj.EarlyPaidMinutes)
	if tj.HoursPrecision != nil {
		r.HoursPrecision = *tj.HoursPrecision
	}

	clocks := []struct {
		name  string
		value string
		dst   *generic.ClockTime
	}{
		{"night_cutoff", tj.NightCutoff, &r.NightCutoff},
		{"first_shift_start", tj.FirstShiftStart, &r.FirstShiftStart},
		{"night_entry_from", tj.NightEntryFrom, &r.NightEntryFrom},
		{"night_entry_to", tj.NightEntryTo, &r.NightEntryTo},
		{"boundary_exit_from", tj.BoundaryExitFrom, &r.BoundaryExitFrom},
		{"boundary_exit_to", tj.BoundaryExitTo, &r.BoundaryExitTo},
	}
	for _, c := range clocks {
		if c.value == "" {
			continue
		}
		v, err := generic.ParseClockTime(c.value)
		if err != nil {
			return r, fmt.Errorf("%w: %s: %v", generic.ErrInvalidRules, c.name, err)
		}
		*c.dst = v
	}
	return r, nil
}

func setMinutes(dst *time.Duration, m *int) {
	if m != nil {
		*dst = time.Duration(*m) * time.Minute
	}
}

func minutes(d time.Duration) *int {
	m := int(d / time.Minute)
	return &m
}
