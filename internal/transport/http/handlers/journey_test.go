package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"timetrack/internal/app/server"
	"timetrack/internal/platform/config"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := config.Config{
		Addr:         ":0",
		DataDir:      t.TempDir(),
		JWTSecret:    "test-secret",
		Environment:  "test",
		TokenTTL:     time.Hour,
		MaxBodyBytes: 1 << 20,
	}

	app, err := server.New(cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}

	ts := httptest.NewServer(app.Router)
	t.Cleanup(ts.Close)
	return ts
}

func TestTimeTrackingJourney(t *testing.T) {
	ts := newTestServer(t)
	client := ts.Client()

	// First account becomes the admin; a second bootstrap must be refused.
	doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/auth/bootstrap", "", map[string]any{
		"email":    "admin@test.local",
		"password": "ChangeMe123!",
		"fullName": "Test Admin",
	}, http.StatusCreated)
	doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/auth/bootstrap", "", map[string]any{
		"email":    "second@test.local",
		"password": "ChangeMe123!",
	}, http.StatusBadRequest)

	adminToken := login(t, client, ts.URL, "admin@test.local", "ChangeMe123!")

	employeeEmail := fmt.Sprintf("journey-%d@example.com", time.Now().UnixNano())
	employeeID := createEmployee(t, client, ts.URL, adminToken, employeeEmail)
	workerToken := login(t, client, ts.URL, employeeEmail, "WorkerPass1!")

	// Timer: start once, a second start conflicts, stop closes the entry.
	doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/timer/start", workerToken, nil, http.StatusCreated)
	doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/timer/start", workerToken, nil, http.StatusConflict)

	resp := doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/timer/stop", workerToken, nil, http.StatusOK)
	var stopped struct {
		Entry struct {
			ID    string `json:"id"`
			Date  string `json:"date"`
			EndAt *any   `json:"endAt"`
		} `json:"entry"`
	}
	if err := json.Unmarshal(resp.Data, &stopped); err != nil {
		t.Fatalf("failed to decode stop response: %v", err)
	}
	if stopped.Entry.EndAt == nil {
		t.Fatal("expected stopped entry to have an end")
	}

	doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/timer/stop", workerToken, nil, http.StatusConflict)

	// The day's entries are visible to the worker.
	resp = doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/time-entries?date="+stopped.Entry.Date, workerToken, nil, http.StatusOK)
	var day struct {
		Entries []map[string]any `json:"entries"`
	}
	if err := json.Unmarshal(resp.Data, &day); err != nil {
		t.Fatalf("failed to decode day entries: %v", err)
	}
	if len(day.Entries) != 1 {
		t.Fatalf("expected 1 entry for %s, got %d", stopped.Entry.Date, len(day.Entries))
	}

	// A correction request goes through the pending queue and, once
	// approved, rewrites the day's entry.
	resp = doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/requests", workerToken, map[string]any{
		"type": "timeCorrection",
		"payload": map[string]any{
			"date":      stopped.Entry.Date,
			"startTime": "09:00",
			"endTime":   "17:00",
		},
	}, http.StatusCreated)
	var created struct {
		Request struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"request"`
	}
	if err := json.Unmarshal(resp.Data, &created); err != nil {
		t.Fatalf("failed to decode request response: %v", err)
	}
	if created.Request.Status != "pending" {
		t.Fatalf("expected pending request, got %s", created.Request.Status)
	}

	resp = doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/requests", adminToken, nil, http.StatusOK)
	var queue struct {
		Requests []map[string]any `json:"requests"`
	}
	if err := json.Unmarshal(resp.Data, &queue); err != nil {
		t.Fatalf("failed to decode pending queue: %v", err)
	}
	if len(queue.Requests) != 1 {
		t.Fatalf("expected 1 pending request, got %d", len(queue.Requests))
	}

	// Only the admin may review.
	doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/requests/review", workerToken, map[string]any{
		"requestId": created.Request.ID,
		"action":    "approve",
	}, http.StatusForbidden)

	resp = doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/requests/review", adminToken, map[string]any{
		"requestId":     created.Request.ID,
		"action":        "approve",
		"reviewComment": "ok",
	}, http.StatusOK)
	var reviewed struct {
		Request struct {
			Status string `json:"status"`
		} `json:"request"`
	}
	if err := json.Unmarshal(resp.Data, &reviewed); err != nil {
		t.Fatalf("failed to decode review response: %v", err)
	}
	if reviewed.Request.Status != "approved" {
		t.Fatalf("expected approved, got %s", reviewed.Request.Status)
	}

	// A second review of the same request is refused.
	doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/requests/review", adminToken, map[string]any{
		"requestId": created.Request.ID,
		"action":    "reject",
	}, http.StatusBadRequest)

	// The approved correction rewrote the entry to 8 hours.
	resp = doJSON(t, client, http.MethodGet,
		ts.URL+"/api/v1/timesheets?from="+stopped.Entry.Date+"&to="+stopped.Entry.Date,
		workerToken, nil, http.StatusOK)
	var sheet struct {
		TotalSeconds int `json:"totalSeconds"`
		Rows         []struct {
			Status string `json:"status"`
		} `json:"rows"`
	}
	if err := json.Unmarshal(resp.Data, &sheet); err != nil {
		t.Fatalf("failed to decode timesheet: %v", err)
	}
	if sheet.TotalSeconds != 8*3600 {
		t.Fatalf("expected corrected total of %d, got %d", 8*3600, sheet.TotalSeconds)
	}
	if len(sheet.Rows) != 1 || sheet.Rows[0].Status != "approved" {
		t.Fatalf("expected one approved row, got %+v", sheet.Rows)
	}

	// Admin report covers the worker; employees may not read it.
	resp = doJSON(t, client, http.MethodGet,
		ts.URL+"/api/v1/reports/admin?from="+stopped.Entry.Date+"&to="+stopped.Entry.Date,
		adminToken, nil, http.StatusOK)
	var report struct {
		TotalWorkedSeconds int `json:"totalWorkedSeconds"`
		Rows               []struct {
			EmployeeID string `json:"employeeId"`
		} `json:"rows"`
	}
	if err := json.Unmarshal(resp.Data, &report); err != nil {
		t.Fatalf("failed to decode report: %v", err)
	}
	if len(report.Rows) != 1 || report.Rows[0].EmployeeID != employeeID {
		t.Fatalf("expected report row for %s, got %+v", employeeID, report.Rows)
	}
	if report.TotalWorkedSeconds != 8*3600 {
		t.Fatalf("expected total %d, got %d", 8*3600, report.TotalWorkedSeconds)
	}

	doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/reports/admin?from=2024-01-01&to=2024-01-31", workerToken, nil, http.StatusForbidden)
}

func TestAuthAndProfileEndpoints(t *testing.T) {
	ts := newTestServer(t)
	client := ts.Client()

	doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/auth/bootstrap", "", map[string]any{
		"email":    "admin@test.local",
		"password": "ChangeMe123!",
		"fullName": "Test Admin",
	}, http.StatusCreated)

	doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/auth/login", "", map[string]any{
		"email":    "admin@test.local",
		"password": "wrong-password",
	}, http.StatusUnauthorized)

	token := login(t, client, ts.URL, "admin@test.local", "ChangeMe123!")

	resp := doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/auth/me", token, nil, http.StatusOK)
	var me struct {
		User map[string]any `json:"user"`
	}
	if err := json.Unmarshal(resp.Data, &me); err != nil {
		t.Fatalf("failed to decode me response: %v", err)
	}
	if me.User["email"] != "admin@test.local" {
		t.Fatalf("unexpected account: %v", me.User)
	}
	if _, leaked := me.User["passwordHash"]; leaked {
		t.Fatal("password hash leaked through the API")
	}

	doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/auth/me", "", nil, http.StatusUnauthorized)
	doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/users", "", nil, http.StatusUnauthorized)

	// Lookups are admin-only.
	doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/lookups", token, map[string]any{
		"kind": "department",
		"name": "Engineering",
	}, http.StatusCreated)
	resp = doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/lookups", token, nil, http.StatusOK)
	var lists struct {
		Departments []map[string]any `json:"departments"`
	}
	if err := json.Unmarshal(resp.Data, &lists); err != nil {
		t.Fatalf("failed to decode lookups: %v", err)
	}
	if len(lists.Departments) != 1 {
		t.Fatalf("expected 1 department, got %d", len(lists.Departments))
	}
}

func TestEmployeeDeleteCascadeEndpoint(t *testing.T) {
	ts := newTestServer(t)
	client := ts.Client()

	doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/auth/bootstrap", "", map[string]any{
		"email":    "admin@test.local",
		"password": "ChangeMe123!",
	}, http.StatusCreated)
	adminToken := login(t, client, ts.URL, "admin@test.local", "ChangeMe123!")

	employeeEmail := fmt.Sprintf("cascade-%d@example.com", time.Now().UnixNano())
	employeeID := createEmployee(t, client, ts.URL, adminToken, employeeEmail)
	workerToken := login(t, client, ts.URL, employeeEmail, "WorkerPass1!")

	doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/timer/start", workerToken, nil, http.StatusCreated)

	doJSON(t, client, http.MethodDelete, ts.URL+"/api/v1/employees/"+employeeID, adminToken, nil, http.StatusOK)

	// The account is gone with the profile.
	doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/auth/login", "", map[string]any{
		"email":    employeeEmail,
		"password": "WorkerPass1!",
	}, http.StatusUnauthorized)
}

func login(t *testing.T, client *http.Client, baseURL, email, password string) string {
	t.Helper()
	resp := doJSON(t, client, http.MethodPost, baseURL+"/api/v1/auth/login", "", map[string]any{
		"email":    email,
		"password": password,
	}, http.StatusOK)
	var payload struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	if payload.Token == "" {
		t.Fatal("expected token")
	}
	return payload.Token
}

func createEmployee(t *testing.T, client *http.Client, baseURL, token, email string) string {
	t.Helper()
	resp := doJSON(t, client, http.MethodPost, baseURL+"/api/v1/employees", token, map[string]any{
		"email":               email,
		"password":            "WorkerPass1!",
		"fullName":            "Journey Tester",
		"position":            "Engineer",
		"department":          "Engineering",
		"standardHoursPerDay": 8,
		"employmentType":      "fullTime",
	}, http.StatusCreated)
	var payload struct {
		Employee struct {
			ID string `json:"id"`
		} `json:"employee"`
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode employee response: %v", err)
	}
	if payload.Employee.ID == "" {
		t.Fatal("expected employee id")
	}
	return payload.Employee.ID
}

func doJSON(t *testing.T, client *http.Client, method, url, token string, body any, wantStatus int) envelope {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response: %v", err)
	}
	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s: status %d, want %d (body %s)", method, url, resp.StatusCode, wantStatus, raw)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	return env
}
