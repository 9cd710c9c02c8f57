package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/coachpilot/coachpilot-golang/internal/auth"
	"github.com/coachpilot/coachpilot-golang/internal/handlers"
	"github.com/coachpilot/coachpilot-golang/internal/insights"
	"github.com/coachpilot/coachpilot-golang/internal/ledger"
	"github.com/coachpilot/coachpilot-golang/internal/logger"
	"github.com/coachpilot/coachpilot-golang/internal/models"
	"github.com/coachpilot/coachpilot-golang/internal/routes"
	"github.com/coachpilot/coachpilot-golang/internal/store"
)

var testSecret = []byte("test-secret")

type stubGenerator struct {
	calls  int
	result string
	err    error
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.result, nil
}

// newTestServer wires a full router over the in-memory store with the given
// generator stub, the way main does for production.
func newTestServer(t *testing.T, gen *stubGenerator) (*gin.Engine, *store.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ms := store.NewMemoryStore()
	log := logger.NewNop()
	creditLedger := ledger.New(ms, log)

	h := &handlers.Handlers{
		Store:    ms,
		Ledger:   creditLedger,
		Insights: insights.NewService(creditLedger, gen, log),
		Cache:    nil, // nil cache is a no-op
		Log:      log,
	}
	return routes.SetupRouter(h, routes.Options{JWTSecret: testSecret}), ms
}

func coachToken(t *testing.T, coachID string) string {
	t.Helper()
	tok, err := auth.GenerateToken(testSecret, auth.Principal{CoachID: coachID, Role: auth.RoleCoach}, time.Hour)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

func adminToken(t *testing.T) string {
	t.Helper()
	tok, err := auth.GenerateToken(testSecret, auth.Principal{CoachID: "admin-1", Role: auth.RoleAdmin}, time.Hour)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func seedCoachDoc(t *testing.T, ms *store.MemoryStore, id string, fields map[string]interface{}) {
	t.Helper()
	if err := ms.Set(context.Background(), store.Coaches, id, fields); err != nil {
		t.Fatalf("seed coach: %v", err)
	}
}

func TestRefreshThenCoachData(t *testing.T) {
	gen := &stubGenerator{result: "new insight"}
	router, ms := newTestServer(t, gen)
	seedCoachDoc(t, ms, "c1", map[string]interface{}{
		models.FieldAIInsights:       "old",
		models.FieldAIRefreshCredits: 1,
	})
	token := coachToken(t, "c1")

	rec := doJSON(t, router, http.MethodPost, "/v1/ai-insights/refresh", token, `{"coachId":"c1","prompt":"p"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh status = %d, body %s", rec.Code, rec.Body.String())
	}
	var refreshed struct {
		Result  string `json:"result"`
		Credits int    `json:"credits"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &refreshed); err != nil {
		t.Fatalf("decode refresh response: %v", err)
	}
	if refreshed.Result != "new insight" || refreshed.Credits != 0 {
		t.Fatalf("refresh response = %+v", refreshed)
	}

	// The follow-up read must see the committed state.
	rec = doJSON(t, router, http.MethodGet, "/v1/coach-data?coachId=c1", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("coach-data status = %d", rec.Code)
	}
	var data models.CoachData
	if err := json.Unmarshal(rec.Body.Bytes(), &data); err != nil {
		t.Fatalf("decode coach-data: %v", err)
	}
	if data.AIInsights != "new insight" || data.AIRefreshCredits != 0 {
		t.Fatalf("coach-data after refresh = %+v", data)
	}
}

func TestRefreshExhaustedIs403AndStateUnchanged(t *testing.T) {
	gen := &stubGenerator{result: "x"}
	router, ms := newTestServer(t, gen)
	seedCoachDoc(t, ms, "c2", map[string]interface{}{
		models.FieldAIInsights:       "old",
		models.FieldAIRefreshCredits: 0,
	})
	token := coachToken(t, "c2")

	rec := doJSON(t, router, http.MethodPost, "/v1/ai-insights/refresh", token, `{"coachId":"c2","prompt":"p"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403; body %s", rec.Code, rec.Body.String())
	}
	if gen.calls != 0 {
		t.Fatalf("generator called despite exhausted credits")
	}

	rec = doJSON(t, router, http.MethodGet, "/v1/coach-data?coachId=c2", token, "")
	var data models.CoachData
	_ = json.Unmarshal(rec.Body.Bytes(), &data)
	if data.AIInsights != "old" || data.AIRefreshCredits != 0 {
		t.Fatalf("state changed by refused refresh: %+v", data)
	}
}

func TestRefreshEmptyCoachIDIs400(t *testing.T) {
	gen := &stubGenerator{result: "x"}
	router, _ := newTestServer(t, gen)
	token := coachToken(t, "c1")

	rec := doJSON(t, router, http.MethodPost, "/v1/ai-insights/refresh", token, `{"coachId":"","prompt":"p"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if gen.calls != 0 {
		t.Fatalf("collaborator called on invalid input")
	}
}

func TestRefreshMissingCoachIs404(t *testing.T) {
	router, _ := newTestServer(t, &stubGenerator{result: "x"})
	token := coachToken(t, "ghost")

	rec := doJSON(t, router, http.MethodPost, "/v1/ai-insights/refresh", token, `{"coachId":"ghost","prompt":"p"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestRefreshGeneratorErrorIs500AndLedgerUntouched(t *testing.T) {
	gen := &stubGenerator{err: errors.New("upstream exploded")}
	router, ms := newTestServer(t, gen)
	seedCoachDoc(t, ms, "c1", map[string]interface{}{
		models.FieldAIInsights:       "old",
		models.FieldAIRefreshCredits: 2,
	})
	token := coachToken(t, "c1")

	rec := doJSON(t, router, http.MethodPost, "/v1/ai-insights/refresh", token, `{"coachId":"c1","prompt":"p"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var body struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Error == "" {
		t.Fatalf("500 response carries no error message")
	}

	rec = doJSON(t, router, http.MethodGet, "/v1/coach-data?coachId=c1", token, "")
	var data models.CoachData
	_ = json.Unmarshal(rec.Body.Bytes(), &data)
	if data.AIInsights != "old" || data.AIRefreshCredits != 2 {
		t.Fatalf("ledger mutated by failed generation: %+v", data)
	}
}

func TestCoachDataValidation(t *testing.T) {
	router, ms := newTestServer(t, &stubGenerator{})
	token := coachToken(t, "c1")

	// Missing coachId query parameter.
	rec := doJSON(t, router, http.MethodGet, "/v1/coach-data", token, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing coachId: status = %d, want 400", rec.Code)
	}

	// Unknown coach.
	rec = doJSON(t, router, http.MethodGet, "/v1/coach-data?coachId=nope", token, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown coach: status = %d, want 404", rec.Code)
	}

	// Uninitialized credit field reads as the default, without writeback.
	seedCoachDoc(t, ms, "c3", map[string]interface{}{"fullName": "Ada"})
	rec = doJSON(t, router, http.MethodGet, "/v1/coach-data?coachId=c3", token, "")
	var data models.CoachData
	_ = json.Unmarshal(rec.Body.Bytes(), &data)
	if data.AIRefreshCredits != ledger.DefaultRefreshCredits {
		t.Fatalf("default credits = %d, want %d", data.AIRefreshCredits, ledger.DefaultRefreshCredits)
	}
	doc, _ := ms.Get(context.Background(), store.Coaches, "c3")
	if _, ok := doc[models.FieldAIRefreshCredits]; ok {
		t.Fatalf("GET wrote the default balance back to storage")
	}
}

func TestRefreshRequiresSession(t *testing.T) {
	router, _ := newTestServer(t, &stubGenerator{})
	rec := doJSON(t, router, http.MethodPost, "/v1/ai-insights/refresh", "", `{"coachId":"c1"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAdminGrantCredits(t *testing.T) {
	router, ms := newTestServer(t, &stubGenerator{})
	seedCoachDoc(t, ms, "c1", map[string]interface{}{models.FieldAIRefreshCredits: 0})

	// Coach tokens are rejected on the admin group.
	rec := doJSON(t, router, http.MethodPost, "/v1/admin/coaches/c1/credits", coachToken(t, "c1"), `{"credits":5}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("coach on admin route: status = %d, want 403", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/v1/admin/coaches/c1/credits", adminToken(t), `{"credits":5}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("grant status = %d, body %s", rec.Code, rec.Body.String())
	}

	doc, _ := ms.Get(context.Background(), store.Coaches, "c1")
	if got := models.AsInt(doc[models.FieldAIRefreshCredits]); got != 5 {
		t.Fatalf("balance after grant = %d, want 5", got)
	}

	// The grant leaves a notification on the coach's feed.
	docs, _ := ms.List(context.Background(), store.Notifications, "coachId", "c1")
	if len(docs) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(docs))
	}
}
