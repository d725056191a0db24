/*
handlers.go - HTTP API handlers for shift reconciliation

PURPOSE:
  Exposes the reconciliation engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to the attendance
  package.

ENDPOINTS:
  Reconcile:
    POST   /api/reconcile              Reconcile a batch of clock events

  Roster:
    GET    /api/roster                 Active roster and tolerances

  Runs (archived results):
    GET    /api/runs                   List runs, newest first
    GET    /api/runs/{id}              Run metadata and stats
    GET    /api/runs/{id}/days         Resolved days and worker totals

  Scenarios:
    GET    /api/scenarios              List demo scenarios
    POST   /api/scenarios/{id}/run     Reconcile a demo event set

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Reconciler: Engine bound to the active roster
  - Archive: Optional run archive (nil disables persistence)
  - Location: Plant time zone for naive timestamps and output

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input
  3. Call domain logic (reconcile, archive)
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid events, roster or rules
  - 404: Unknown run or scenario
  - 409: Duplicate resolved day on archive
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo event sets
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/warp/shift-reconciler/attendance"
	"github.com/warp/shift-reconciler/factory"
	"github.com/warp/shift-reconciler/generic"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Reconciler    *attendance.Reconciler
	Roster        *factory.Roster
	RosterFactory *factory.RosterFactory
	Archive       *attendance.Archive
	Location      *time.Location
	Logger        *zap.Logger

	// persistByDefault applies when a request does not set "persist".
	persistByDefault bool
}

// HandlerConfig groups NewHandler's dependencies.
type HandlerConfig struct {
	Roster      *factory.Roster
	Store       attendance.RunStore // nil disables the run archive
	Location    *time.Location
	Logger      *zap.Logger
	Workers     int
	PersistRuns bool
}

// NewHandler builds the reconciler for cfg.Roster and wires the archive.
func NewHandler(cfg HandlerConfig) (*Handler, error) {
	if cfg.Roster == nil {
		cfg.Roster = factory.DefaultRoster()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	rec, err := attendance.NewReconciler(cfg.Roster.Catalog, cfg.Roster.Rules,
		attendance.WithLogger(cfg.Logger.Named("reconciler")),
		attendance.WithWorkers(cfg.Workers),
	)
	if err != nil {
		return nil, err
	}

	h := &Handler{
		Reconciler:       rec,
		Roster:           cfg.Roster,
		RosterFactory:    factory.NewRosterFactory(),
		Location:         cfg.Location,
		Logger:           cfg.Logger,
		persistByDefault: cfg.PersistRuns,
	}
	if cfg.Store != nil {
		h.Archive = attendance.NewArchive(cfg.Store)
	}
	return h, nil
}

// =============================================================================
// RECONCILE ENDPOINT
// =============================================================================

// Reconcile resolves a batch of events and optionally archives the result.
func (h *Handler) Reconcile(w http.ResponseWriter, r *http.Request) {
	var req ReconcileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	events, err := ParseEvents(req.Events, h.Location)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event", err)
		return
	}

	persist := h.persistByDefault
	if req.Persist != nil {
		persist = *req.Persist
	}

	resp, err := h.reconcile(r, events, persist)
	if err != nil {
		writeDomainError(w, "reconciliation failed", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) reconcile(r *http.Request, events []attendance.RawEvent, persist bool) (*ReconcileResponse, error) {
	res, err := h.Reconciler.Reconcile(r.Context(), events)
	if err != nil {
		return nil, err
	}

	resp := NewReconcileResponse(res, h.Location)

	if persist && h.Archive != nil {
		run, err := h.Archive.Record(r.Context(), h.Roster.ID, res)
		if err != nil {
			return nil, fmt.Errorf("failed to archive run: %w", err)
		}
		resp.RunID = run.ID
		h.Logger.Info("run archived",
			zap.String("run_id", run.ID),
			zap.String("request_id", requestID(r)),
			zap.Int("days", len(res.Days)),
		)
	}
	return resp, nil
}

// ParseEvents converts request events, reporting the first unparseable
// timestamp. Enum values are checked by the reconciler.
func ParseEvents(dtos []EventDTO, loc *time.Location) ([]attendance.RawEvent, error) {
	events := make([]attendance.RawEvent, 0, len(dtos))
	for i, e := range dtos {
		at, err := parseTimestamp(e.Timestamp, loc)
		if err != nil {
			return nil, &generic.InvalidEventError{Index: i, WorkerID: generic.WorkerID(e.WorkerID), Reason: err.Error()}
		}
		events = append(events, attendance.RawEvent{
			WorkerID:   generic.WorkerID(e.WorkerID),
			WorkerName: e.WorkerName,
			At:         at,
			Checkpoint: e.Checkpoint,
			Class:      attendance.CheckpointClass(e.Class),
			Direction:  attendance.Direction(e.Direction),
		})
	}
	return events, nil
}

var naiveLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
}

// parseTimestamp accepts RFC3339 (converted to loc) or a naive wall-clock
// time interpreted in loc.
func parseTimestamp(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
}

// =============================================================================
// ROSTER ENDPOINT
// =============================================================================

// GetRoster returns the active roster document.
func (h *Handler) GetRoster(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.RosterFactory.ToJSON(h.Roster))
}

// =============================================================================
// RUN ENDPOINTS
// =============================================================================

// ListRuns returns archived runs, newest first.
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	if h.Archive == nil {
		writeJSON(w, http.StatusOK, []RunDTO{})
		return
	}

	runs, err := h.Archive.Store().ListRuns(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list runs", err)
		return
	}

	result := make([]RunDTO, 0, len(runs))
	for _, run := range runs {
		result = append(result, toRunDTO(run))
	}
	writeJSON(w, http.StatusOK, result)
}

// GetRun returns one run's metadata.
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.loadRun(r)
	if err != nil {
		writeDomainError(w, "run not available", err)
		return
	}
	writeJSON(w, http.StatusOK, toRunDTO(*run))
}

// GetRunDays returns a run's resolved days with per-worker totals.
func (h *Handler) GetRunDays(w http.ResponseWriter, r *http.Request) {
	run, err := h.loadRun(r)
	if err != nil {
		writeDomainError(w, "run not available", err)
		return
	}

	days, err := h.Archive.Store().LoadDays(r.Context(), run.ID)
	if err != nil {
		writeDomainError(w, "failed to load days", err)
		return
	}

	writeJSON(w, http.StatusOK, RunDaysResponse{
		Run:       toRunDTO(*run),
		Days:      toDayDTOs(days, h.Location),
		Summaries: toSummaryDTOs(days),
	})
}

func (h *Handler) loadRun(r *http.Request) (*attendance.Run, error) {
	id := chi.URLParam(r, "id")
	if h.Archive == nil {
		return nil, fmt.Errorf("%w: %s (archive disabled)", generic.ErrRunNotFound, id)
	}
	return h.Archive.Store().GetRun(r.Context(), id)
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError picks the status from the error's category.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	writeError(w, statusFor(err), message, err)
}

func statusFor(err error) int {
	switch {
	case generic.IsClientError(err):
		return http.StatusBadRequest
	case generic.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, generic.ErrDuplicateDay):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func requestID(r *http.Request) string {
	return middleware.GetReqID(r.Context())
}
