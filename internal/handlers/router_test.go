package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/berling9700/budget-tracker/internal/blobstore"
	"github.com/berling9700/budget-tracker/internal/quotes"
	"github.com/berling9700/budget-tracker/internal/services"
	"github.com/berling9700/budget-tracker/internal/store"
	"github.com/berling9700/budget-tracker/internal/testutil"
)

// newTestRouter wires the real services over an in-memory store.
func newTestRouter(t *testing.T, apiKey string) *gin.Engine {
	t.Helper()
	s := store.New(blobstore.NewMemory(),
		store.WithClock(func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }))
	testutil.AssertNoError(t, s.Load())

	noProvider := func(string) quotes.Provider { return nil }
	return NewRouter(Services{
		Budgets:     services.NewBudgetService(s),
		Expenses:    services.NewExpenseService(s, nil),
		Assets:      services.NewAssetService(s, noProvider, services.QuoteOptions{}),
		Liabilities: services.NewLiabilityService(s),
		NetWorth:    services.NewNetWorthService(s),
		Data:        services.NewDataService(s),
		Advisor:     services.NewAdvisorService(s, nil),
	}, RouterConfig{APIKey: apiKey, RequestTimeout: 5 * time.Second})
}

func TestRouter_Health(t *testing.T) {
	r := newTestRouter(t, "secret")
	rec := doRequest(r, "GET", "/api/health", "")
	if rec.Code != http.StatusOK || parseJSON(t, rec)["status"] != "ok" {
		t.Errorf("unexpected health response %d %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected request id header")
	}
}

func TestRouter_Swagger(t *testing.T) {
	r := newTestRouter(t, "secret")

	rec := doRequest(r, "GET", "/swagger/index.html", "")
	if rec.Code != http.StatusOK {
		t.Errorf("expected swagger UI without an API key, got %d", rec.Code)
	}

	rec = doRequest(r, "GET", "/swagger/doc.json", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected swagger doc, got %d", rec.Code)
	}
	doc := rec.Body.String()
	for _, want := range []string{`"/budgets/{id}/summary"`, `"/assets/refresh-prices"`, `"ApiKeyAuth"`, `"basePath": "/api/v1"`} {
		if !strings.Contains(doc, want) {
			t.Errorf("swagger doc missing %s", want)
		}
	}
}

func TestRouter_APIKey(t *testing.T) {
	r := newTestRouter(t, "secret")

	rec := doRequest(r, "GET", "/api/v1/state", "")
	assertErrorCode(t, rec, http.StatusUnauthorized, "UNAUTHORIZED")

	req := httptest.NewRequest("GET", "/api/v1/state", nil)
	req.Header.Set("X-API-Key", "secret")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 with key, got %d", rec.Code)
	}
}

func TestRouter_NetWorthFlow(t *testing.T) {
	r := newTestRouter(t, "")

	rec := doRequest(r, "POST", "/api/v1/assets", `{"name":"Savings","type":"Cash & Savings","value":1000}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create asset: %d %s", rec.Code, rec.Body.String())
	}
	rec = doRequest(r, "POST", "/api/v1/liabilities", `{"name":"Card","amount":300}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create liability: %d %s", rec.Code, rec.Body.String())
	}
	liabilityID := parseJSON(t, rec)["liability"].(map[string]interface{})["id"].(string)

	rec = doRequest(r, "GET", "/api/v1/net-worth", "")
	summary := parseJSON(t, rec)
	testutil.AssertFloat(t, "netWorth", summary["netWorth"].(float64), 700)

	rec = doRequest(r, "GET", "/api/v1/allocation", "")
	slices := parseJSON(t, rec)["allocation"].([]interface{})
	if len(slices) != 1 || slices[0].(map[string]interface{})["label"] != "Savings" {
		t.Errorf("unexpected allocation %v", slices)
	}

	rec = doRequest(r, "DELETE", "/api/v1/liabilities/"+liabilityID, "")
	assertErrorCode(t, rec, http.StatusPreconditionRequired, "CONFIRMATION_REQUIRED")
	rec = doRequest(r, "DELETE", "/api/v1/liabilities/"+liabilityID+"?confirm=true", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete liability: %d", rec.Code)
	}
	rec = doRequest(r, "DELETE", "/api/v1/liabilities/"+liabilityID+"?confirm=true", "")
	assertErrorCode(t, rec, http.StatusNotFound, "LIABILITY_NOT_FOUND")
}

func TestRouter_ExportImport(t *testing.T) {
	r := newTestRouter(t, "")

	rec := doRequest(r, "POST", "/api/v1/budgets", `{"name":"Home","year":2024,"categories":[{"name":"Food","budgeted":100}]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create budget: %d %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(r, "GET", "/api/v1/export", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("export: %d", rec.Code)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Errorf("unexpected Content-Disposition %q", cd)
	}
	exported := rec.Body.String()

	rec = doRequest(r, "POST", "/api/v1/import", exported)
	assertErrorCode(t, rec, http.StatusPreconditionRequired, "CONFIRMATION_REQUIRED")

	rec = doRequest(r, "POST", "/api/v1/import?confirm=true", `{"not":"a backup"}`)
	assertErrorCode(t, rec, http.StatusBadRequest, "INVALID_IMPORT")

	rec = doRequest(r, "POST", "/api/v1/import?confirm=true", exported)
	if rec.Code != http.StatusOK {
		t.Fatalf("import: %d %s", rec.Code, rec.Body.String())
	}
	state := parseJSON(t, rec)["state"].(map[string]interface{})
	if budgets := state["budgets"].([]interface{}); len(budgets) != 1 {
		t.Errorf("expected 1 budget after import, got %d", len(budgets))
	}
}

func TestRouter_Settings(t *testing.T) {
	r := newTestRouter(t, "")

	rec := doRequest(r, "PUT", "/api/v1/settings", `{"currency":"EUR"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update settings: %d %s", rec.Code, rec.Body.String())
	}
	rec = doRequest(r, "GET", "/api/v1/settings", "")
	if s := parseJSON(t, rec)["settings"].(map[string]interface{}); s["currency"] != "EUR" {
		t.Errorf("unexpected settings %v", s)
	}

	rec = doRequest(r, "PUT", "/api/v1/settings", `{"currency":"ABC"}`)
	assertErrorCode(t, rec, http.StatusBadRequest, "INVALID_INPUT")
}

func TestRouter_AssistantNotConfigured(t *testing.T) {
	r := newTestRouter(t, "")

	rec := doRequest(r, "POST", "/api/v1/advice", `{"query":"How am I doing?","page":"dashboard"}`)
	assertErrorCode(t, rec, http.StatusServiceUnavailable, "NOT_CONFIGURED")

	rec = doRequest(r, "POST", "/api/v1/expenses/csv", `{"csv":"a,b"}`)
	assertErrorCode(t, rec, http.StatusServiceUnavailable, "NOT_CONFIGURED")
}

func TestRouter_CORSPreflight(t *testing.T) {
	r := newTestRouter(t, "secret")
	rec := doRequest(r, "OPTIONS", "/api/v1/budgets", "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204 preflight, got %d", rec.Code)
	}
}
