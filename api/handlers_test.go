/*
handlers_test.go - HTTP tests for the reconcile, roster and run endpoints

Tests for:
- Reconcile request parsing and validation
- Archiving runs and reading them back
- Error status mapping
*/
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/shift-reconciler/factory"
	"github.com/warp/shift-reconciler/generic"
	"github.com/warp/shift-reconciler/store/memory"
)

func setupTestRouter(t *testing.T, persist bool) (http.Handler, *Handler) {
	t.Helper()
	h, err := NewHandler(HandlerConfig{
		Store:       memory.New(),
		Location:    time.UTC,
		Workers:     2,
		PersistRuns: persist,
	})
	require.NoError(t, err)
	return NewRouter(h, []string{"http://localhost:5173"}), h
}

func do(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// nightWeekRequest: three Turno 3 nights, mixing naive and RFC3339 stamps.
func nightWeekRequest() ReconcileRequest {
	ev := func(ts, dir string) EventDTO {
		return EventDTO{WorkerID: "w4", WorkerName: "Jorge Rey", Timestamp: ts, Checkpoint: "LINEA-2", Class: "workstation", Direction: dir}
	}
	return ReconcileRequest{Events: []EventDTO{
		ev("2025-03-03 21:50:00", "entry"), ev("2025-03-04T05:50:00Z", "exit"),
		ev("2025-03-04 21:50:00", "entry"), ev("2025-03-05 05:50:00", "exit"),
		ev("2025-03-05T21:50:00", "entry"), ev("2025-03-06 05:50", "exit"),
	}}
}

func TestReconcile_ReturnsDaysAndSummaries(t *testing.T) {
	// GIVEN: A server that does not persist by default
	router, _ := setupTestRouter(t, false)

	// WHEN: Posting a week of night shifts
	rec := do(t, router, http.MethodPost, "/api/reconcile", nightWeekRequest())

	// THEN: Three overnight days with totals, no run ID
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[ReconcileResponse](t, rec)

	assert.Empty(t, resp.RunID)
	assert.Equal(t, 3, resp.Stats.Resolved)
	require.Len(t, resp.Days, 3)

	day := resp.Days[0]
	assert.Equal(t, "2025-03-03", day.Date)
	assert.Equal(t, "Turno 3 LV", day.ShiftID)
	assert.Equal(t, "2025-03-03T21:40:00Z", day.ShiftStart)
	assert.Equal(t, "2025-03-04T05:50:00Z", day.Exit)
	assert.Equal(t, 8.17, day.NetHours)
	assert.Equal(t, 0.17, day.OvertimeHours)
	assert.True(t, day.Overnight)
	assert.Equal(t, "calculated", day.Status)
	assert.Equal(t, "Calculated", day.StatusDescription)

	require.Len(t, resp.Summaries, 1)
	assert.Equal(t, 3, resp.Summaries[0].Days)
	assert.Equal(t, 24.51, resp.Summaries[0].NetHours)
}

func TestReconcile_PersistedRunCanBeFetched(t *testing.T) {
	router, _ := setupTestRouter(t, false)

	req := nightWeekRequest()
	persist := true
	req.Persist = &persist

	rec := do(t, router, http.MethodPost, "/api/reconcile", req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[ReconcileResponse](t, rec)
	require.NotEmpty(t, resp.RunID)

	// Run metadata
	rec = do(t, router, http.MethodGet, "/api/runs/"+resp.RunID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	run := decode[RunDTO](t, rec)
	assert.Equal(t, "default", run.RosterID)
	assert.Equal(t, "2025-03-03", run.PeriodStart)
	assert.Equal(t, "2025-03-05", run.PeriodEnd)
	assert.Equal(t, resp.Stats, run.Stats)

	// Days
	rec = do(t, router, http.MethodGet, "/api/runs/"+resp.RunID+"/days", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	days := decode[RunDaysResponse](t, rec)
	assert.Equal(t, resp.Days, days.Days)
	assert.Equal(t, resp.Summaries, days.Summaries)

	// Listing
	rec = do(t, router, http.MethodGet, "/api/runs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	runs := decode[[]RunDTO](t, rec)
	require.Len(t, runs, 1)
	assert.Equal(t, resp.RunID, runs[0].ID)
}

func TestReconcile_PersistsByDefaultWhenConfigured(t *testing.T) {
	router, _ := setupTestRouter(t, true)

	rec := do(t, router, http.MethodPost, "/api/reconcile", nightWeekRequest())

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode[ReconcileResponse](t, rec).RunID)
}

func TestReconcile_BadInput(t *testing.T) {
	router, _ := setupTestRouter(t, false)

	tests := []struct {
		name   string
		events []EventDTO
	}{
		{"bad timestamp", []EventDTO{{WorkerID: "w", Timestamp: "yesterday", Class: "gate", Direction: "entry"}}},
		{"unknown class", []EventDTO{{WorkerID: "w", Timestamp: "2025-03-03 05:50:00", Class: "turnstile", Direction: "entry"}}},
		{"unknown direction", []EventDTO{{WorkerID: "w", Timestamp: "2025-03-03 05:50:00", Class: "gate", Direction: "in"}}},
		{"missing worker", []EventDTO{{Timestamp: "2025-03-03 05:50:00", Class: "gate", Direction: "entry"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, http.MethodPost, "/api/reconcile", ReconcileRequest{Events: tt.events})

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			errResp := decode[ErrorResponse](t, rec)
			assert.NotEmpty(t, errResp.Error)
			assert.Contains(t, errResp.Details, "invalid event #0")
		})
	}

	req := httptest.NewRequest(http.MethodPost, "/api/reconcile", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRuns_NotFound(t *testing.T) {
	router, _ := setupTestRouter(t, false)

	for _, path := range []string{"/api/runs/missing", "/api/runs/missing/days"} {
		rec := do(t, router, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestRuns_ArchiveDisabled(t *testing.T) {
	h, err := NewHandler(HandlerConfig{PersistRuns: true})
	require.NoError(t, err)
	router := NewRouter(h, nil)

	rec := do(t, router, http.MethodPost, "/api/reconcile", nightWeekRequest())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[ReconcileResponse](t, rec).RunID)

	rec = do(t, router, http.MethodGet, "/api/runs", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]RunDTO](t, rec))

	rec = do(t, router, http.MethodGet, "/api/runs/any", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetRoster(t *testing.T) {
	router, _ := setupTestRouter(t, false)

	rec := do(t, router, http.MethodGet, "/api/roster", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	roster := decode[factory.RosterJSON](t, rec)
	assert.Equal(t, "default", roster.ID)
	assert.Len(t, roster.Shifts, 7)
	require.NotNil(t, roster.Tolerances)
	assert.Equal(t, "08:00", roster.Tolerances.NightCutoff)
	assert.Equal(t, 40, *roster.Tolerances.LateToleranceMinutes)
}

func TestParseTimestamp_Location(t *testing.T) {
	bogota, err := time.LoadLocation("America/Bogota")
	require.NoError(t, err)

	naive, err := parseTimestamp("2025-03-03 05:50:00", bogota)
	require.NoError(t, err)
	assert.Equal(t, 5, naive.Hour())
	assert.Equal(t, bogota, naive.Location())

	// 10:50 UTC is 05:50 in Bogota
	zoned, err := parseTimestamp("2025-03-03T10:50:00Z", bogota)
	require.NoError(t, err)
	assert.Equal(t, 5, zoned.Hour())
	assert.True(t, naive.Equal(zoned))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(&generic.InvalidEventError{}))
	assert.Equal(t, http.StatusNotFound, statusFor(generic.ErrRunNotFound))
	assert.Equal(t, http.StatusConflict, statusFor(&generic.DuplicateDayError{}))
	assert.Equal(t, http.StatusInternalServerError, statusFor(assert.AnError))
}

func TestHealth(t *testing.T) {
	router, _ := setupTestRouter(t, false)
	rec := do(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
