package factory_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/shift-reconciler/attendance"
	"github.com/warp/shift-reconciler/factory"
	"github.com/warp/shift-reconciler/generic"
)

const rosterJSON = `{
  "id": "plant-2025",
  "name": "Plant roster",
  "shifts": [
    {"id": "Morning", "day_type": "weekday", "start": "06:00", "end": "14:00", "hours": 7.5},
    {"id": "Night", "day_type": "weekday", "start": "22:00", "end": "06:00"}
  ],
  "tolerances": {"late_tolerance_minutes": 15, "night_cutoff": "07:30"}
}`

const rosterYAML = `
id: plant-yaml
name: Weekend roster
shifts:
  - id: Sat Morning
    day_type: saturday
    start: "05:40"
    end: "11:40"
  - id: Sun Night
    day_type: sunday
    start: "21:40"
    end: "05:40"
tolerances:
  gate_override_minutes: 30
  boundary_exit_to: "07:30"
`

func TestRosterFactory_ParseJSON(t *testing.T) {
	// GIVEN: A JSON roster with one explicit and one inferred duration
	f := factory.NewRosterFactory()

	// WHEN: Parsing
	roster, err := f.Parse([]byte(rosterJSON), factory.FormatJSON)
	require.NoError(t, err)

	// THEN: Templates and tolerance overrides are applied
	assert.Equal(t, "plant-2025", roster.ID)
	assert.Equal(t, "Plant roster", roster.Name)

	morning, ok := roster.Catalog.Lookup("Morning")
	require.True(t, ok)
	assert.Equal(t, "7.50", morning.Duration.String())
	assert.False(t, morning.Overnight)

	night, ok := roster.Catalog.Lookup("Night")
	require.True(t, ok)
	assert.True(t, night.Overnight, "end before start infers overnight")
	assert.Equal(t, "8.00", night.Duration.String())

	assert.Equal(t, 15*time.Minute, roster.Rules.LateTolerance)
	assert.Equal(t, generic.NewClockTime(7, 30), roster.Rules.NightCutoff)
	assert.Equal(t, attendance.DefaultRules().GateOverrideMargin, roster.Rules.GateOverrideMargin)
}

func TestRosterFactory_ParseYAML(t *testing.T) {
	roster, err := factory.NewRosterFactory().Parse([]byte(rosterYAML), factory.FormatYAML)
	require.NoError(t, err)

	assert.Len(t, roster.Catalog.Templates(attendance.DaySaturday), 1)
	assert.Len(t, roster.Catalog.Templates(attendance.DayWeekday), 0)
	sat, _ := roster.Catalog.Lookup("Sat Morning")
	assert.Equal(t, "6.00", sat.Duration.String())
	assert.Equal(t, 30*time.Minute, roster.Rules.GateOverrideMargin)
	assert.Equal(t, generic.NewClockTime(7, 30), roster.Rules.BoundaryExitTo)
}

func TestRosterFactory_LoadFilePicksFormatFromExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roster.yml")
	require.NoError(t, os.WriteFile(path, []byte(rosterYAML), 0o600))

	roster, err := factory.NewRosterFactory().LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "plant-yaml", roster.ID)

	_, err = factory.NewRosterFactory().LoadFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestRosterFactory_InvalidDocuments(t *testing.T) {
	f := factory.NewRosterFactory()

	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{"malformed json", `{"shifts": [`, generic.ErrInvalidRoster},
		{"no shifts", `{"id": "x", "shifts": []}`, generic.ErrInvalidRoster},
		{"bad clock", `{"shifts": [{"id": "a", "day_type": "weekday", "start": "25:00", "end": "06:00"}]}`, generic.ErrInvalidRoster},
		{"unknown day type", `{"shifts": [{"id": "a", "day_type": "holiday", "start": "05:00", "end": "06:00"}]}`, generic.ErrInvalidRoster},
		{"duplicate id", `{"shifts": [
			{"id": "a", "day_type": "weekday", "start": "05:00", "end": "06:00"},
			{"id": "a", "day_type": "sunday", "start": "05:00", "end": "06:00"}]}`, generic.ErrInvalidRoster},
		{"forced day shift ending before start", `{"shifts": [{"id": "a", "day_type": "weekday", "start": "22:00", "end": "06:00", "overnight": false}]}`, generic.ErrInvalidRoster},
		{"bad tolerance clock", `{"shifts": [{"id": "a", "day_type": "weekday", "start": "05:00", "end": "06:00"}], "tolerances": {"night_cutoff": "8am"}}`, generic.ErrInvalidRules},
		{"negative tolerance", `{"shifts": [{"id": "a", "day_type": "weekday", "start": "05:00", "end": "06:00"}], "tolerances": {"min_session_minutes": -5}}`, generic.ErrInvalidRules},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.Parse([]byte(tt.doc), factory.FormatJSON)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, generic.IsClientError(err))
		})
	}
}

func TestRosterFactory_DefaultRosterRoundTrip(t *testing.T) {
	f := factory.NewRosterFactory()
	def := factory.DefaultRoster()

	doc, err := json.Marshal(f.ToJSON(def))
	require.NoError(t, err)

	parsed, err := f.Parse(doc, factory.FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, def.ID, parsed.ID)
	assert.Equal(t, def.Rules, parsed.Rules)
	require.Len(t, parsed.Catalog.All(), 7)
	for i, want := range def.Catalog.All() {
		got := parsed.Catalog.All()[i]
		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, want.Start, got.Start)
		assert.Equal(t, want.End, got.End)
		assert.Equal(t, want.Overnight, got.Overnight)
		assert.True(t, want.Duration.Equal(got.Duration))
	}
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, factory.FormatYAML, factory.FormatFromPath("a/roster.YAML"))
	assert.Equal(t, factory.FormatYAML, factory.FormatFromPath("roster.yml"))
	assert.Equal(t, factory.FormatJSON, factory.FormatFromPath("roster.json"))
	assert.Equal(t, factory.FormatJSON, factory.FormatFromPath("roster"))
}
