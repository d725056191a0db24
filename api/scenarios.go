/*
scenarios.go - Demo event sets for testing and demonstrations

PURPOSE:

	Provides pre-built clock event batches that exercise specific
	reconciliation rules. Running a scenario reconciles its events against
	the active roster and returns the same response as POST /api/reconcile.
	Scenario runs are never archived.

AVAILABLE SCENARIOS (week of Monday 2025-03-03):

	on-time:         Normal morning shift with a slightly late exit
	missing-exit:    Late arrival, no exit recorded
	gate-override:   Gate entry much closer to the shift than the workstation
	night-week:      Three consecutive overnight shifts
	rotation:        Two morning shifts followed by an overnight shift

FRAMING:

	Single-day cases sit on Tuesday between two ordinary morning shifts on
	Monday and Wednesday. Those framing days are a worker's first and last
	days, so the boundary filter drops them and only Tuesday is reported.

USAGE VIA API:

	GET  /api/scenarios
	POST /api/scenarios/gate-override/run

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description, expected outcome
 2. Write an event builder func(*time.Location) []attendance.RawEvent

SEE ALSO:
  - handlers.go: Reconcile handler
  - attendance/engine.go: Reconciler
*/
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/warp/shift-reconciler/attendance"
	"github.com/warp/shift-reconciler/generic"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

type scenario struct {
	ScenarioDTO
	events func(loc *time.Location) []attendance.RawEvent
}

var scenarios = []scenario{
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "on-time",
			Name:        "On Time",
			Description: "Workstation entry 05:50, exit 13:50 on Turno 1",
			Expected:    "Tuesday: 8.17 net hours, 0.17 overtime, calculated",
		},
		events: framed("w1", "Ana Torres", func(w demoWorker) []attendance.RawEvent {
			return []attendance.RawEvent{w.ws(4, 5, 50, attendance.DirectionEntry), w.ws(4, 13, 50, attendance.DirectionExit)}
		}),
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "missing-exit",
			Name:        "Missing Exit",
			Description: "Workstation entry 06:45, no exit recorded",
			Expected:    "Tuesday: exit assumed at 13:40, 6.92 net hours, late",
		},
		events: framed("w2", "Luis Pardo", func(w demoWorker) []attendance.RawEvent {
			return []attendance.RawEvent{w.ws(4, 6, 45, attendance.DirectionEntry)}
		}),
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "gate-override",
			Name:        "Gate Override",
			Description: "Gate entry 05:35, workstation entry 06:50, exit 13:45",
			Expected:    "Tuesday: gate entry wins, 8.08 net hours, not late",
		},
		events: framed("w3", "Marta Gil", func(w demoWorker) []attendance.RawEvent {
			return []attendance.RawEvent{
				w.gate(4, 5, 35, attendance.DirectionEntry),
				w.ws(4, 6, 50, attendance.DirectionEntry),
				w.ws(4, 13, 45, attendance.DirectionExit),
			}
		}),
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "night-week",
			Name:        "Night Week",
			Description: "Entries 21:50 Monday to Wednesday, exits 05:50 the next morning",
			Expected:    "Three Turno 3 days of 8.17 net hours, boundaries kept",
		},
		events: func(loc *time.Location) []attendance.RawEvent {
			w := demoWorker{id: "w4", name: "Jorge Rey", loc: loc}
			var events []attendance.RawEvent
			for day := 3; day <= 5; day++ {
				events = append(events,
					w.ws(day, 21, 50, attendance.DirectionEntry),
					w.ws(day+1, 5, 50, attendance.DirectionExit),
				)
			}
			return events
		},
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "rotation",
			Name:        "Mixed Rotation",
			Description: "Turno 1 Monday and Tuesday, Turno 3 Wednesday night",
			Expected:    "Monday dropped; Tuesday kept; Wednesday kept with 8.50 net hours",
		},
		events: func(loc *time.Location) []attendance.RawEvent {
			w := demoWorker{id: "w5", name: "Sara Vidal", loc: loc}
			return []attendance.RawEvent{
				w.ws(3, 5, 50, attendance.DirectionEntry), w.ws(3, 13, 50, attendance.DirectionExit),
				w.ws(4, 5, 45, attendance.DirectionEntry), w.ws(4, 13, 45, attendance.DirectionExit),
				w.ws(5, 21, 45, attendance.DirectionEntry), w.ws(6, 6, 10, attendance.DirectionExit),
			}
		},
	},
}

func findScenario(id string) (scenario, bool) {
	for _, s := range scenarios {
		if s.ID == id {
			return s, true
		}
	}
	return scenario{}, false
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	result := make([]ScenarioDTO, 0, len(scenarios))
	for _, s := range scenarios {
		result = append(result, s.ScenarioDTO)
	}
	writeJSON(w, http.StatusOK, result)
}

// RunScenario reconciles a scenario's events without archiving them.
func (h *Handler) RunScenario(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s, ok := findScenario(id)
	if !ok {
		writeError(w, http.StatusNotFound, "scenario not found", nil)
		return
	}

	resp, err := h.reconcile(r, s.events(h.Location), false)
	if err != nil {
		writeDomainError(w, "scenario failed", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// EVENT BUILDERS
// =============================================================================

type demoWorker struct {
	id   string
	name string
	loc  *time.Location
}

func (d demoWorker) event(day, hour, minute int, class attendance.CheckpointClass, dir attendance.Direction, checkpoint string) attendance.RawEvent {
	return attendance.RawEvent{
		WorkerID:   generic.WorkerID(d.id),
		WorkerName: d.name,
		At:         time.Date(2025, time.March, day, hour, minute, 0, 0, d.loc),
		Checkpoint: checkpoint,
		Class:      class,
		Direction:  dir,
	}
}

func (d demoWorker) ws(day, hour, minute int, dir attendance.Direction) attendance.RawEvent {
	return d.event(day, hour, minute, attendance.ClassWorkstation, dir, "LINEA-1")
}

func (d demoWorker) gate(day, hour, minute int, dir attendance.Direction) attendance.RawEvent {
	return d.event(day, hour, minute, attendance.ClassGate, dir, "PORTERIA")
}

// framed surrounds a Tuesday case with ordinary Monday and Wednesday
// morning shifts.
func framed(id, name string, tuesday func(demoWorker) []attendance.RawEvent) func(*time.Location) []attendance.RawEvent {
	return func(loc *time.Location) []attendance.RawEvent {
		w := demoWorker{id: id, name: name, loc: loc}
		events := []attendance.RawEvent{
			w.ws(3, 5, 45, attendance.DirectionEntry), w.ws(3, 13, 40, attendance.DirectionExit),
		}
		events = append(events, tuesday(w)...)
		return append(events,
			w.ws(5, 5, 45, attendance.DirectionEntry), w.ws(5, 13, 40, attendance.DirectionExit),
		)
	}
}
