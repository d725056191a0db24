package attendance_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/shift-reconciler/attendance"
)

func resolveEntry(entries ...attendance.RawEvent) (attendance.EntryDecision, bool) {
	return attendance.ResolveEntry(newMatcher(), attendance.DefaultRules(), date(4), entries)
}

func TestResolveEntry_GateWinsWithMateriallyBetterFit(t *testing.T) {
	// GIVEN: Gate at 05:35 (5 min from Turno 1) and workstation at 06:50 (70 min)
	// WHEN: Resolving the winning entry
	dec, ok := resolveEntry(gateIn("w", at(4, 5, 35)), wsIn("w", at(4, 6, 50)))

	// THEN: Gate is more than 60 minutes closer, so it overrides workstation
	require.True(t, ok)
	assert.Equal(t, attendance.ClassGate, dec.Class)
	assert.Equal(t, at(4, 5, 35), dec.Event.At)
	assert.Equal(t, 5*time.Minute, dec.Match.Distance)
}

func TestResolveEntry_ExactMarginKeepsWorkstation(t *testing.T) {
	// GIVEN: Gate 5 min away, workstation 65 min away: the gap is exactly 60
	dec, ok := resolveEntry(gateIn("w", at(4, 5, 45)), wsIn("w", at(4, 6, 45)))

	// THEN: Gate must be strictly more than 60 minutes better; workstation stays
	require.True(t, ok)
	assert.Equal(t, attendance.ClassWorkstation, dec.Class)
	assert.Equal(t, at(4, 6, 45), dec.Event.At)
}

func TestResolveEntry_SingleValidClassWins(t *testing.T) {
	// Only gate matched: workstation entry at 10:00 fits no shift
	dec, ok := resolveEntry(gateIn("w", at(4, 13, 30)), wsIn("w", at(4, 10, 0)))
	require.True(t, ok)
	assert.Equal(t, attendance.ClassGate, dec.Class)
	assert.Equal(t, "Turno 2 LV", dec.Match.Shift.Template.ID)

	// Only workstation present
	dec, ok = resolveEntry(wsIn("w", at(4, 5, 41)))
	require.True(t, ok)
	assert.Equal(t, attendance.ClassWorkstation, dec.Class)
}

func TestResolveEntry_NoValidMatchYieldsNothing(t *testing.T) {
	_, ok := resolveEntry(wsIn("w", at(4, 10, 0)), gateIn("w", at(4, 10, 5)))
	assert.False(t, ok)

	_, ok = resolveEntry()
	assert.False(t, ok)
}

func TestResolveEntry_PicksClosestWithinClass(t *testing.T) {
	dec, ok := resolveEntry(
		wsIn("w", at(4, 5, 20)),
		wsIn("w", at(4, 5, 50)),
		wsIn("w", at(4, 5, 44)),
	)
	require.True(t, ok)
	assert.Equal(t, at(4, 5, 44), dec.Event.At)
	assert.Equal(t, 4*time.Minute, dec.Match.Distance)
}

func TestResolveEntry_IgnoresExitsAndNeverBlendsClasses(t *testing.T) {
	dec, ok := resolveEntry(
		wsOut("w", at(4, 5, 40)),
		gateIn("w", at(4, 5, 30)),
		wsIn("w", at(4, 6, 0)),
	)
	require.True(t, ok)
	// Workstation (20 min) vs gate (10 min): not 60 minutes better
	assert.Equal(t, attendance.ClassWorkstation, dec.Class)
	assert.Equal(t, dec.Class, dec.Event.Class, "winning event comes from the winning class")
	assert.Equal(t, attendance.DirectionEntry, dec.Event.Direction)
}
