package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"agencydash/backend/internal/cart"
	"agencydash/backend/internal/domain"
	"agencydash/backend/internal/kvstore"
	"agencydash/backend/internal/service"
	"agencydash/backend/internal/settings"
	"agencydash/backend/internal/store/memory"
	"agencydash/backend/internal/taskagent"
	"agencydash/backend/internal/webhook"
)

// newTestAPI builds a full API with an in-memory store, real AuthManager and
// real Service so handler tests exercise the complete request path.
func newTestAPI(t *testing.T) *API {
	t.Helper()

	repo := memory.NewSeeded()
	kv := kvstore.NewMemory()
	callLog := settings.NewCallLog(kv)
	svc := service.New(
		repo,
		cart.New(kv),
		taskagent.New(kv),
		settings.NewIntegration(kv),
		settings.NewAutomation(kv),
		settings.NewAutopilot(kv),
		callLog,
		webhook.NewSender(time.Second, callLog),
	)
	auth := NewAuthManager("test-secret-key", time.Hour, repo)

	return New(svc, auth, "*")
}

func TestHandleHealth(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["ok"] != true {
		t.Fatalf("expected ok:true, got %v", body["ok"])
	}
}

func TestHandleLogin_Success(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	payload, _ := json.Marshal(map[string]string{
		"username": "admin",
		"password": "admin123",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["access_token"] == "" || body["access_token"] == nil {
		t.Fatalf("expected access_token in response, got %v", body)
	}
}

func TestHandleLogin_InvalidCredentials(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	payload, _ := json.Marshal(map[string]string{
		"username": "admin",
		"password": "wrongpassword",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestHandleLeads_RequiresAuth(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/leads", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestHandleLeads_CreateAndList(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	token := loginAs(t, api, "member", "member123")
	csrf := fetchCSRFToken(t, api)

	payload, _ := json.Marshal(map[string]string{
		"name":  "Dana Founder",
		"email": "dana@startup.example",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/leads", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-CSRF-Token", csrf)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	var created map[string]domain.Lead
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created["lead"].Status != domain.LeadStatusNew {
		t.Fatalf("expected new lead status, got %q", created["lead"].Status)
	}

	listReq := httptest.NewRequest(http.MethodGet, "/api/v1/leads", nil)
	listReq.Header.Set("Authorization", "Bearer "+token)
	listRec := httptest.NewRecorder()

	handler.ServeHTTP(listRec, listReq)

	if listRec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", listRec.Code)
	}
	var listBody map[string][]domain.Lead
	if err := json.NewDecoder(listRec.Body).Decode(&listBody); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	found := false
	for _, lead := range listBody["leads"] {
		if lead.Name == "Dana Founder" {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("expected created lead in list, got %+v", listBody["leads"])
	}
}

func TestHandleLeads_CreateWithoutCSRFRejected(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	token := loginAs(t, api, "member", "member123")

	payload, _ := json.Marshal(map[string]string{"name": "Dana"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/leads", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without CSRF token, got %d", rec.Code)
	}
}

func TestHandleLeadDelete_RequiresAdminRole(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	memberToken := loginAs(t, api, "member", "member123")
	adminToken := loginAs(t, api, "admin", "admin123")
	csrf := fetchCSRFToken(t, api)

	payload, _ := json.Marshal(map[string]string{"name": "Short Lived"})
	createReq := httptest.NewRequest(http.MethodPost, "/api/v1/leads", bytes.NewReader(payload))
	createReq.Header.Set("Content-Type", "application/json")
	createReq.Header.Set("Authorization", "Bearer "+memberToken)
	createReq.Header.Set("X-CSRF-Token", csrf)
	createRec := httptest.NewRecorder()
	handler.ServeHTTP(createRec, createReq)
	if createRec.Code != http.StatusCreated {
		t.Fatalf("create lead failed: %d %s", createRec.Code, createRec.Body.String())
	}
	var created map[string]domain.Lead
	if err := json.NewDecoder(createRec.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	leadID := created["lead"].ID

	memberDel := httptest.NewRequest(http.MethodDelete, "/api/v1/leads/"+itoa(leadID), nil)
	memberDel.Header.Set("Authorization", "Bearer "+memberToken)
	memberRec := httptest.NewRecorder()
	handler.ServeHTTP(memberRec, memberDel)
	if memberRec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for member delete, got %d", memberRec.Code)
	}

	adminDel := httptest.NewRequest(http.MethodDelete, "/api/v1/leads/"+itoa(leadID), nil)
	adminDel.Header.Set("Authorization", "Bearer "+adminToken)
	adminRec := httptest.NewRecorder()
	handler.ServeHTTP(adminRec, adminDel)
	if adminRec.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin delete, got %d (body: %s)", adminRec.Code, adminRec.Body.String())
	}
}

func TestHandleWebhookReceive_NoAuthNeeded(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	payload, _ := json.Marshal(map[string]string{
		"tool_name": "zapier",
		"source":    "form-submission",
		"payload":   `{"email":"x@y.example"}`,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/receive", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 without auth, got %d (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestHandleExportDataset_UnknownName(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	token := loginAs(t, api, "member", "member123")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/export/invoices", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown dataset, got %d", rec.Code)
	}
}

func TestHandleExportDataset_CSVDownload(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	token := loginAs(t, api, "member", "member123")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/export/leads?format=csv", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv; charset=utf-8" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd == "" {
		t.Fatalf("expected attachment disposition header")
	}
}

func TestHandleMembers_RequiresAdminRole(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	memberToken := loginAs(t, api, "member", "member123")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/members", nil)
	req.Header.Set("Authorization", "Bearer "+memberToken)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for member role, got %d", rec.Code)
	}
}

func TestHandleGoalGenerate_ReturnsPlan(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	token := loginAs(t, api, "member", "member123")
	csrf := fetchCSRFToken(t, api)

	payload, _ := json.Marshal(map[string]string{"text": "improve our seo rankings"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/goals/generate", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-CSRF-Token", csrf)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	var body struct {
		Goal  domain.Goal   `json:"goal"`
		Tasks []domain.Task `json:"tasks"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Goal.ID == "" || len(body.Tasks) == 0 {
		t.Fatalf("expected goal with generated tasks, got %+v", body)
	}
	for _, task := range body.Tasks {
		if task.GoalID != body.Goal.ID {
			t.Fatalf("task %q not linked to goal", task.Text)
		}
	}
}

func TestHandleMetaLabels(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	token := loginAs(t, api, "member", "member123")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/meta/labels", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	var body map[string]map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if got := body["platform_labels"]["instagram"]; got != "Instagram" {
		t.Fatalf("expected Instagram label, got %q", got)
	}
	if got := body["lead_status_labels"][domain.LeadStatusNew]; got != "New" {
		t.Fatalf("expected New label, got %q", got)
	}
	if got := body["platform_colors"]["facebook"]; got == "" {
		t.Fatalf("expected facebook color, got empty string")
	}
	if got := body["lead_status_colors"][domain.LeadStatusWon]; got == "" {
		t.Fatalf("expected won status color, got empty string")
	}
}

func TestHandleMetaLabels_RequiresAuth(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/meta/labels", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestHandleProfile(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	token := loginAs(t, api, "admin", "admin123")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var profile domain.ProfileResponse
	if err := json.NewDecoder(rec.Body).Decode(&profile); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if profile.Username != "admin" || profile.Role != "admin" {
		t.Fatalf("unexpected profile %+v", profile)
	}
}
