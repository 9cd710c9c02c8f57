package handlers_test

import (
	"encoding/csv"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/coachpilot/coachpilot-golang/internal/models"
)

func createClient(t *testing.T, router *gin.Engine, token, body string) models.Client {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/v1/clients", token, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create client: status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Client models.Client `json:"client"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	return resp.Client
}

func TestClientStatusValidation(t *testing.T) {
	router, ms := newTestServer(t, &stubGenerator{})
	seedCoachDoc(t, ms, "c1", map[string]interface{}{"fullName": "Ada"})
	token := coachToken(t, "c1")

	rec := doJSON(t, router, http.MethodPost, "/v1/clients", token,
		`{"fullName":"Bo","email":"bo@example.com","status":"vanished"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid status accepted: %d", rec.Code)
	}

	client := createClient(t, router, token, `{"fullName":"Bo","email":"bo@example.com"}`)
	if client.Status != models.ClientStatusActive {
		t.Fatalf("default status = %q, want active", client.Status)
	}

	rec = doJSON(t, router, http.MethodPut, "/v1/clients/"+client.ID, token, `{"status":"paused"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status: %d, body %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, router, http.MethodPut, "/v1/clients/"+client.ID, token, `{"status":"gone"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid status transition accepted: %d", rec.Code)
	}
}

func TestClientRosterIsCoachScoped(t *testing.T) {
	router, ms := newTestServer(t, &stubGenerator{})
	seedCoachDoc(t, ms, "c1", map[string]interface{}{})
	seedCoachDoc(t, ms, "c2", map[string]interface{}{})

	client := createClient(t, router, coachToken(t, "c1"), `{"fullName":"Bo","email":"bo@example.com"}`)

	// Another coach cannot read it.
	rec := doJSON(t, router, http.MethodGet, "/v1/clients/"+client.ID, coachToken(t, "c2"), "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("cross-coach read: status = %d, want 404", rec.Code)
	}

	// And it never appears in their list.
	rec = doJSON(t, router, http.MethodGet, "/v1/clients", coachToken(t, "c2"), "")
	var resp struct {
		Clients []models.Client `json:"clients"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if len(resp.Clients) != 0 {
		t.Fatalf("cross-coach list leaked %d clients", len(resp.Clients))
	}
}

func TestExportClientsCSV(t *testing.T) {
	router, ms := newTestServer(t, &stubGenerator{})
	seedCoachDoc(t, ms, "c1", map[string]interface{}{})
	token := coachToken(t, "c1")

	createClient(t, router, token, `{"fullName":"Ada","email":"ada@example.com","goals":"strength"}`)
	createClient(t, router, token, `{"fullName":"Bo","email":"bo@example.com"}`)

	rec := doJSON(t, router, http.MethodGet, "/v1/clients/export", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("content type = %q, want text/csv", ct)
	}

	rows, err := csv.NewReader(rec.Body).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("csv rows = %d, want header + 2", len(rows))
	}
	if rows[0][0] != "id" || rows[0][1] != "fullName" {
		t.Fatalf("unexpected header row: %v", rows[0])
	}
	// Sorted by name: Ada before Bo.
	if rows[1][1] != "Ada" || rows[2][1] != "Bo" {
		t.Fatalf("rows out of order: %v / %v", rows[1], rows[2])
	}
}

func TestSessionStatusValidation(t *testing.T) {
	router, ms := newTestServer(t, &stubGenerator{})
	seedCoachDoc(t, ms, "c1", map[string]interface{}{})
	token := coachToken(t, "c1")

	client := createClient(t, router, token, `{"fullName":"Bo","email":"bo@example.com"}`)

	rec := doJSON(t, router, http.MethodPost, "/v1/sessions", token,
		`{"clientId":"`+client.ID+`","scheduledAt":"2026-09-01T10:00:00Z"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create session: %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Session models.Session `json:"session"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Session.Status != models.SessionStatusScheduled {
		t.Fatalf("new session status = %q", resp.Session.Status)
	}

	rec = doJSON(t, router, http.MethodPatch, "/v1/sessions/"+resp.Session.ID+"/status", token, `{"status":"finished"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid session status accepted: %d", rec.Code)
	}
	rec = doJSON(t, router, http.MethodPatch, "/v1/sessions/"+resp.Session.ID+"/status", token, `{"status":"completed"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("valid transition rejected: %d, body %s", rec.Code, rec.Body.String())
	}
}
