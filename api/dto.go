/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract:
  - Hours are plain numbers rounded to two decimals
  - Times are RFC3339 in the plant's location
  - Dates are YYYY-MM-DD

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Reconcile:
    ReconcileRequest, EventDTO, ReconcileResponse

  Results:
    DayDTO, SummaryDTO, RunDTO, RunDaysResponse

  Scenarios:
    ScenarioDTO

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/roster.go: RosterJSON type (served as-is by GET /api/roster)
*/
package api

import (
	"time"

	"github.com/warp/shift-reconciler/attendance"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// EventDTO is one clock event as submitted by ingestion.
type EventDTO struct {
	WorkerID   string `json:"worker_id"`
	WorkerName string `json:"worker_name,omitempty"`
	Timestamp  string `json:"timestamp"`  // RFC3339, or "2006-01-02 15:04:05" in plant time
	Checkpoint string `json:"checkpoint"` // free-form device or door name
	Class      string `json:"class"`      // workstation, gate
	Direction  string `json:"direction"`  // entry, exit
}

// ReconcileRequest is the body of POST /api/reconcile.
type ReconcileRequest struct {
	Events  []EventDTO `json:"events"`
	Persist *bool      `json:"persist,omitempty"` // nil uses the server default
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// DayDTO is one resolved workday.
type DayDTO struct {
	WorkerID          string  `json:"worker_id"`
	WorkerName        string  `json:"worker_name"`
	Date              string  `json:"date"`
	ShiftID           string  `json:"shift_id"`
	ShiftStart        string  `json:"shift_start"`
	ShiftEnd          string  `json:"shift_end"`
	ScheduledHours    float64 `json:"scheduled_hours"`
	EntryClass        string  `json:"entry_class"`
	Entry             string  `json:"entry"`
	EntryCheckpoint   string  `json:"entry_checkpoint"`
	Exit              string  `json:"exit"`
	ExitCheckpoint    string  `json:"exit_checkpoint,omitempty"`
	ExitObserved      bool    `json:"exit_observed"`
	NetHours          float64 `json:"net_hours"`
	OvertimeHours     float64 `json:"overtime_hours"`
	Late              bool    `json:"late"`
	Overnight         bool    `json:"overnight"`
	Status            string  `json:"status"`
	StatusDescription string  `json:"status_description"`
}

// SummaryDTO totals one worker's days.
type SummaryDTO struct {
	WorkerID      string  `json:"worker_id"`
	WorkerName    string  `json:"worker_name"`
	Days          int     `json:"days"`
	NetHours      float64 `json:"net_hours"`
	OvertimeHours float64 `json:"overtime_hours"`
	LateDays      int     `json:"late_days"`
	AssumedExits  int     `json:"assumed_exits"`
	ErrorDays     int     `json:"error_days"`
}

// ReconcileResponse is returned by reconcile and scenario runs.
type ReconcileResponse struct {
	RunID     string              `json:"run_id,omitempty"`
	Stats     attendance.RunStats `json:"stats"`
	Days      []DayDTO            `json:"days"`
	Summaries []SummaryDTO        `json:"summaries"`
}

// RunDTO describes an archived run.
type RunDTO struct {
	ID          string              `json:"id"`
	RosterID    string              `json:"roster_id"`
	CreatedAt   string              `json:"created_at"`
	PeriodStart string              `json:"period_start,omitempty"`
	PeriodEnd   string              `json:"period_end,omitempty"`
	Stats       attendance.RunStats `json:"stats"`
}

// RunDaysResponse is returned by GET /api/runs/{id}/days.
type RunDaysResponse struct {
	Run       RunDTO       `json:"run"`
	Days      []DayDTO     `json:"days"`
	Summaries []SummaryDTO `json:"summaries"`
}

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Expected    string `json:"expected"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

// NewReconcileResponse renders a reconciler result in loc.
func NewReconcileResponse(res *attendance.Result, loc *time.Location) *ReconcileResponse {
	return &ReconcileResponse{
		Stats:     res.Stats,
		Days:      toDayDTOs(res.Days, loc),
		Summaries: toSummaryDTOs(res.Days),
	}
}

func toDayDTO(d attendance.ResolvedDay, loc *time.Location) DayDTO {
	return DayDTO{
		WorkerID:          string(d.WorkerID),
		WorkerName:        d.WorkerName,
		Date:              d.Date.String(),
		ShiftID:           d.Shift.Template.ID,
		ShiftStart:        formatTime(d.Shift.Start, loc),
		ShiftEnd:          formatTime(d.Shift.End, loc),
		ScheduledHours:    d.Shift.Template.Duration.Float64(),
		EntryClass:        string(d.Class),
		Entry:             formatTime(d.Entry, loc),
		EntryCheckpoint:   d.EntryCheckpoint,
		Exit:              formatTime(d.Exit, loc),
		ExitCheckpoint:    d.ExitCheckpoint,
		ExitObserved:      d.ExitObserved,
		NetHours:          d.NetHours.Float64(),
		OvertimeHours:     d.OvertimeHours.Float64(),
		Late:              d.Late,
		Overnight:         d.Overnight,
		Status:            string(d.Status),
		StatusDescription: d.Status.Description(),
	}
}

func toDayDTOs(days []attendance.ResolvedDay, loc *time.Location) []DayDTO {
	out := make([]DayDTO, 0, len(days))
	for _, d := range days {
		out = append(out, toDayDTO(d, loc))
	}
	return out
}

func toSummaryDTOs(days []attendance.ResolvedDay) []SummaryDTO {
	sums := attendance.Summarize(days)
	out := make([]SummaryDTO, 0, len(sums))
	for _, s := range sums {
		out = append(out, SummaryDTO{
			WorkerID:      string(s.WorkerID),
			WorkerName:    s.WorkerName,
			Days:          s.Days,
			NetHours:      s.NetHours.Float64(),
			OvertimeHours: s.OvertimeHours.Float64(),
			LateDays:      s.LateDays,
			AssumedExits:  s.AssumedExits,
			ErrorDays:     s.ErrorDays,
		})
	}
	return out
}

func toRunDTO(run attendance.Run) RunDTO {
	dto := RunDTO{
		ID:        run.ID,
		RosterID:  run.RosterID,
		CreatedAt: run.CreatedAt.Format(time.RFC3339),
		Stats:     run.Stats,
	}
	if !run.Period.Start.IsZero() {
		dto.PeriodStart = run.Period.Start.String()
		dto.PeriodEnd = run.Period.End.String()
	}
	return dto
}

func formatTime(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(time.RFC3339)
}
