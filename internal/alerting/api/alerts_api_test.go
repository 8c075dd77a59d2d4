package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/logiops/alertcenter/internal/alerting/model"
	"github.com/logiops/alertcenter/internal/alerting/service"
	"github.com/logiops/alertcenter/internal/alerting/store"
)

type alertEnvelope struct {
	Data model.Alert `json:"data"`
}

type listEnvelope struct {
	Data []model.Alert `json:"data"`
}

type errorEnvelope struct {
	Error string `json:"error"`
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	svc := service.New(store.NewMemStore(), nil, nil)
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	NewApi(router, svc)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return v
}

func createAlert(t *testing.T, router *gin.Engine, body map[string]any) model.Alert {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/alerts", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create returned %d: %s", w.Code, w.Body.String())
	}
	return decode[alertEnvelope](t, w).Data
}

func TestCreateRequiresTitle(t *testing.T) {
	router := newTestRouter(t)
	w := doJSON(t, router, http.MethodPost, "/api/alerts", map[string]any{"message": "no title"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestListStatusFilters(t *testing.T) {
	router := newTestRouter(t)
	a := createAlert(t, router, map[string]any{"title": "a"})
	createAlert(t, router, map[string]any{"title": "b"})
	createAlert(t, router, map[string]any{"title": "c"})

	w := doJSON(t, router, http.MethodPost, "/api/alerts/actions",
		map[string]any{"action": "resolve", "alertId": a.ID, "userId": "U1"})
	if w.Code != http.StatusOK {
		t.Fatalf("resolve returned %d: %s", w.Code, w.Body.String())
	}

	active := decode[listEnvelope](t, doJSON(t, router, http.MethodGet, "/api/alerts", nil))
	if len(active.Data) != 2 {
		t.Fatalf("default (active) listing returned %d records", len(active.Data))
	}
	for _, it := range active.Data {
		if it.ID == a.ID {
			t.Fatal("resolved record in active listing")
		}
	}

	all := decode[listEnvelope](t, doJSON(t, router, http.MethodGet, "/api/alerts?status=all", nil))
	if len(all.Data) != 3 {
		t.Fatalf("status=all listing returned %d records", len(all.Data))
	}

	resolved := decode[listEnvelope](t, doJSON(t, router, http.MethodGet, "/api/alerts?status=resolved", nil))
	if len(resolved.Data) != 1 || resolved.Data[0].ID != a.ID {
		t.Fatalf("status=resolved listing wrong: %+v", resolved.Data)
	}
}

func TestListSeverityAndTypeFilters(t *testing.T) {
	router := newTestRouter(t)
	createAlert(t, router, map[string]any{"title": "a", "severity": "high", "alert_type": "vehicle"})
	createAlert(t, router, map[string]any{"title": "b", "severity": "low", "alert_type": "vehicle"})
	createAlert(t, router, map[string]any{"title": "c", "severity": "high", "alert_type": "visit_delay"})

	high := decode[listEnvelope](t, doJSON(t, router, http.MethodGet, "/api/alerts?severity=high", nil))
	if len(high.Data) != 2 {
		t.Fatalf("severity filter returned %d records", len(high.Data))
	}

	vehicleHigh := decode[listEnvelope](t, doJSON(t, router, http.MethodGet, "/api/alerts?severity=high&alertType=vehicle", nil))
	if len(vehicleHigh.Data) != 1 || vehicleHigh.Data[0].Title != "a" {
		t.Fatalf("combined filter wrong: %+v", vehicleHigh.Data)
	}
}

func TestListLimitAndOrdering(t *testing.T) {
	router := newTestRouter(t)
	for i := 0; i < 10; i++ {
		createAlert(t, router, map[string]any{"title": fmt.Sprintf("alert-%d", i)})
	}

	w := doJSON(t, router, http.MethodGet, "/api/alerts?limit=3", nil)
	got := decode[listEnvelope](t, w)
	if len(got.Data) != 3 {
		t.Fatalf("limit=3 returned %d records", len(got.Data))
	}
	// newest first: the last created alerts come back first
	want := []string{"alert-9", "alert-8", "alert-7"}
	for i, it := range got.Data {
		if it.Title != want[i] {
			t.Fatalf("ordering wrong at %d: got %s want %s", i, it.Title, want[i])
		}
	}
}

func TestListRejectsBadLimit(t *testing.T) {
	router := newTestRouter(t)
	w := doJSON(t, router, http.MethodGet, "/api/alerts?limit=abc", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGetByID(t *testing.T) {
	router := newTestRouter(t)
	a := createAlert(t, router, map[string]any{"title": "lookup me"})

	w := doJSON(t, router, http.MethodGet, "/api/alerts/"+a.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get returned %d: %s", w.Code, w.Body.String())
	}
	if got := decode[alertEnvelope](t, w).Data; got.Title != "lookup me" {
		t.Fatalf("wrong record: %+v", got)
	}

	if w := doJSON(t, router, http.MethodGet, "/api/alerts/no-such-id", nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing id, got %d", w.Code)
	}
}

func TestUpdateAllowlisted(t *testing.T) {
	router := newTestRouter(t)
	a := createAlert(t, router, map[string]any{"title": "old title"})

	w := doJSON(t, router, http.MethodPut, "/api/alerts/"+a.ID,
		map[string]any{"title": "new title", "severity": "critical"})
	if w.Code != http.StatusOK {
		t.Fatalf("update returned %d: %s", w.Code, w.Body.String())
	}
	got := decode[alertEnvelope](t, w).Data
	if got.Title != "new title" || got.Severity != "critical" {
		t.Fatalf("update not applied: %+v", got)
	}
	if !got.UpdatedAt.After(a.UpdatedAt) {
		t.Fatal("updated_at did not advance")
	}
}

func TestUpdateRejectsUnknownFields(t *testing.T) {
	router := newTestRouter(t)
	a := createAlert(t, router, map[string]any{"title": "keep me"})

	w := doJSON(t, router, http.MethodPut, "/api/alerts/"+a.ID,
		map[string]any{"escalation_count": 99})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d: %s", w.Code, w.Body.String())
	}

	// record untouched
	got := decode[alertEnvelope](t, doJSON(t, router, http.MethodGet, "/api/alerts/"+a.ID, nil)).Data
	if got.EscalationCount != 0 {
		t.Fatalf("rejected update still mutated record: %+v", got)
	}
}

func TestDeleteAlert(t *testing.T) {
	router := newTestRouter(t)
	a := createAlert(t, router, map[string]any{"title": "short lived"})

	w := doJSON(t, router, http.MethodDelete, "/api/alerts/"+a.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete returned %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Success bool `json:"success"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || !resp.Success {
		t.Fatalf("expected success=true, got %s", w.Body.String())
	}

	if w := doJSON(t, router, http.MethodGet, "/api/alerts/"+a.ID, nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", w.Code)
	}
}

func TestDeleteMissingIsAnError(t *testing.T) {
	router := newTestRouter(t)
	w := doJSON(t, router, http.MethodDelete, "/api/alerts/no-such-id", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
	if resp := decode[errorEnvelope](t, w); resp.Error == "" {
		t.Fatalf("expected error body, got %s", w.Body.String())
	}
}

func TestActionInvalidName(t *testing.T) {
	router := newTestRouter(t)
	a := createAlert(t, router, map[string]any{"title": "stays put"})

	w := doJSON(t, router, http.MethodPost, "/api/alerts/actions",
		map[string]any{"action": "detonate", "alertId": a.ID, "userId": "U1"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if resp := decode[errorEnvelope](t, w); resp.Error != "Invalid action" {
		t.Fatalf("expected \"Invalid action\", got %q", resp.Error)
	}
}

func TestActionMissingAlert(t *testing.T) {
	router := newTestRouter(t)
	w := doJSON(t, router, http.MethodPost, "/api/alerts/actions",
		map[string]any{"action": "resolve", "alertId": "no-such-id", "userId": "U1"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestStoreUnavailableFailsClosed(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewApi(router, service.New(nil, nil, nil))

	for _, tc := range []struct {
		method, path string
		body         any
	}{
		{http.MethodGet, "/api/alerts", nil},
		{http.MethodPost, "/api/alerts", map[string]any{"title": "x"}},
		{http.MethodGet, "/api/alerts/some-id", nil},
		{http.MethodPut, "/api/alerts/some-id", map[string]any{"title": "x"}},
		{http.MethodDelete, "/api/alerts/some-id", nil},
		{http.MethodPost, "/api/alerts/actions", map[string]any{"action": "resolve", "alertId": "some-id", "userId": "U1"}},
	} {
		w := doJSON(t, router, tc.method, tc.path, tc.body)
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("%s %s: expected 500, got %d: %s", tc.method, tc.path, w.Code, w.Body.String())
		}
	}
}

// Full lifecycle: create with defaults, acknowledge, resolve, list visibility.
func TestAlertLifecycle(t *testing.T) {
	router := newTestRouter(t)

	a := createAlert(t, router, map[string]any{"title": "Pump failure"})
	if a.AlertType != "system" || a.Severity != "medium" || a.Status != "active" {
		t.Fatalf("defaults missing on create: %+v", a)
	}

	w := doJSON(t, router, http.MethodPost, "/api/alerts/actions",
		map[string]any{"action": "acknowledge", "alertId": a.ID, "userId": "U1"})
	if w.Code != http.StatusOK {
		t.Fatalf("acknowledge returned %d: %s", w.Code, w.Body.String())
	}
	acked := decode[alertEnvelope](t, w).Data
	if acked.AcknowledgedBy == nil || *acked.AcknowledgedBy != "U1" {
		t.Fatalf("acknowledged_by not set: %+v", acked)
	}
	if acked.IsResolved {
		t.Fatal("acknowledge resolved the alert")
	}

	w = doJSON(t, router, http.MethodPost, "/api/alerts/actions",
		map[string]any{"action": "resolve", "alertId": a.ID, "userId": "U1"})
	if w.Code != http.StatusOK {
		t.Fatalf("resolve returned %d: %s", w.Code, w.Body.String())
	}
	resolved := decode[alertEnvelope](t, w).Data
	if resolved.Status != "resolved" || !resolved.IsResolved {
		t.Fatalf("resolve did not close the alert: %+v", resolved)
	}

	active := decode[listEnvelope](t, doJSON(t, router, http.MethodGet, "/api/alerts?status=active", nil))
	for _, it := range active.Data {
		if it.ID == a.ID {
			t.Fatal("resolved alert still listed as active")
		}
	}

	all := decode[listEnvelope](t, doJSON(t, router, http.MethodGet, "/api/alerts?status=all", nil))
	found := false
	for _, it := range all.Data {
		if it.ID == a.ID {
			found = true
		}
	}
	if !found {
		t.Fatal("resolved alert missing from status=all listing")
	}
}
