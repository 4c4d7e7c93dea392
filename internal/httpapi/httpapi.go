package httpapi

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"sync"
	"time"

	"agencydash/backend/internal/domain"
	"agencydash/backend/internal/export"
	"agencydash/backend/internal/service"
	"agencydash/backend/internal/store"
)

type API struct {
	service       *service.Service
	auth          *AuthManager
	allowedOrigin string
	loginLimiter  *attemptLimiter
	csrfSecret    []byte
}

func New(svc *service.Service, auth *AuthManager, allowedOrigin string) *API {
	csrfSecret := make([]byte, 32)
	if _, err := rand.Read(csrfSecret); err != nil {
		// Fall back to a deterministic secret if crypto/rand fails (should not happen in practice).
		csrfSecret = []byte("csrf-fallback-secret-change-me!!")
	}
	return &API{
		service:       svc,
		auth:          auth,
		allowedOrigin: allowedOrigin,
		loginLimiter:  newAttemptLimiter(5, time.Minute),
		csrfSecret:    csrfSecret,
	}
}

// csrfTokenForHour computes an HMAC-SHA256 token for the given hour bucket
// (expressed as Unix time truncated to the hour). The token is hex-encoded.
func (a *API) csrfTokenForHour(hourBucket int64) string {
	h := hmac.New(sha256.New, a.csrfSecret)
	fmt.Fprintf(h, "%d", hourBucket)
	return hex.EncodeToString(h.Sum(nil))
}

// generateCSRFToken returns a token valid for the current hour bucket.
func (a *API) generateCSRFToken() string {
	now := time.Now().UTC()
	bucket := now.Truncate(time.Hour).Unix()
	return a.csrfTokenForHour(bucket)
}

// validateCSRFToken checks whether the provided token matches the current or
// previous hour bucket, giving a 2-hour validity window.
func (a *API) validateCSRFToken(token string) bool {
	if token == "" {
		return false
	}
	now := time.Now().UTC()
	currentBucket := now.Truncate(time.Hour).Unix()
	prevBucket := currentBucket - 3600

	expected1 := a.csrfTokenForHour(currentBucket)
	expected2 := a.csrfTokenForHour(prevBucket)

	return hmac.Equal([]byte(token), []byte(expected1)) ||
		hmac.Equal([]byte(token), []byte(expected2))
}

type attemptLimiter struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	entries map[string][]time.Time
}

func newAttemptLimiter(max int, window time.Duration) *attemptLimiter {
	if max < 1 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &attemptLimiter{max: max, window: window, entries: make(map[string][]time.Time)}
}

func (l *attemptLimiter) Allow(key string) bool {
	if l == nil {
		return true
	}
	now := time.Now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	history := l.entries[key]
	kept := make([]time.Time, 0, len(history)+1)
	for _, ts := range history {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	if len(kept) >= l.max {
		l.entries[key] = kept
		return false
	}
	kept = append(kept, now)
	l.entries[key] = kept
	return true
}

func clientKey(r *http.Request) string {
	host := strings.TrimSpace(r.RemoteAddr)
	if host == "" {
		return "unknown"
	}
	if addr, err := netip.ParseAddrPort(host); err == nil {
		return addr.Addr().String()
	}
	if idx := strings.LastIndex(host, ":"); idx > 0 {
		return host[:idx]
	}
	return host
}

func (a *API) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", a.handleHealth)
	mux.HandleFunc("/api/v1/auth/login", a.handleLogin)
	mux.HandleFunc("/api/v1/auth/csrf-token", a.handleCSRFToken)
	mux.HandleFunc("/api/v1/auth/profile", a.requireAuth(a.handleProfile, "member", "admin"))
	mux.HandleFunc("/api/v1/meta/labels", a.requireAuth(a.handleMetaLabels, "member", "admin"))

	// Inbound webhooks arrive from external marketing tools that have no
	// bearer token or CSRF token of ours.
	mux.HandleFunc("/api/v1/webhooks/receive", a.handleWebhookReceive)

	mux.HandleFunc("/api/v1/leads", a.requireAuth(a.handleLeads, "member", "admin"))
	mux.HandleFunc("/api/v1/leads/", a.requireAuth(a.handleLeadByID, "member", "admin"))
	mux.HandleFunc("/api/v1/services", a.requireAuth(a.handleServices, "member", "admin"))
	mux.HandleFunc("/api/v1/services/", a.requireAuth(a.handleServiceByID, "member", "admin"))
	mux.HandleFunc("/api/v1/posts", a.requireAuth(a.handlePosts, "member", "admin"))
	mux.HandleFunc("/api/v1/posts/", a.requireAuth(a.handlePostByID, "member", "admin"))
	mux.HandleFunc("/api/v1/metrics", a.requireAuth(a.handleMetrics, "member", "admin"))
	mux.HandleFunc("/api/v1/metrics/", a.requireAuth(a.handleMetricsByID, "admin"))
	mux.HandleFunc("/api/v1/ad-campaigns", a.requireAuth(a.handleAdCampaigns, "member", "admin"))
	mux.HandleFunc("/api/v1/ad-campaigns/", a.requireAuth(a.handleAdCampaignByID, "member", "admin"))
	mux.HandleFunc("/api/v1/email-campaigns", a.requireAuth(a.handleEmailCampaigns, "member", "admin"))
	mux.HandleFunc("/api/v1/email-campaigns/", a.requireAuth(a.handleEmailCampaignByID, "member", "admin"))
	mux.HandleFunc("/api/v1/landing-pages", a.requireAuth(a.handleLandingPages, "member", "admin"))
	mux.HandleFunc("/api/v1/landing-pages/", a.requireAuth(a.handleLandingPageByID, "member", "admin"))
	mux.HandleFunc("/api/v1/seo", a.requireAuth(a.handleSEOEntries, "member", "admin"))
	mux.HandleFunc("/api/v1/seo/", a.requireAuth(a.handleSEOEntryByID, "member", "admin"))

	mux.HandleFunc("/api/v1/webhooks/logs", a.requireAuth(a.handleWebhookLogs, "member", "admin"))
	mux.HandleFunc("/api/v1/export/data", a.requireAuth(a.handleExportData, "member", "admin"))
	mux.HandleFunc("/api/v1/export/", a.requireAuth(a.handleExportDataset, "member", "admin"))

	mux.HandleFunc("/api/v1/cart", a.requireAuth(a.handleCart, "member", "admin"))
	mux.HandleFunc("/api/v1/cart/items", a.requireAuth(a.handleCartItems, "member", "admin"))
	mux.HandleFunc("/api/v1/cart/items/", a.requireAuth(a.handleCartItemByID, "member", "admin"))
	mux.HandleFunc("/api/v1/cart/checkout", a.requireAuth(a.handleCheckout, "member", "admin"))

	mux.HandleFunc("/api/v1/settings/integrations", a.requireAuth(a.handleIntegrationSettings, "member", "admin"))
	mux.HandleFunc("/api/v1/settings/automation", a.requireAuth(a.handleAutomationSettings, "member", "admin"))
	mux.HandleFunc("/api/v1/settings/autopilot", a.requireAuth(a.handleAutopilotSettings, "member", "admin"))
	mux.HandleFunc("/api/v1/settings/autopilot/windows", a.requireAuth(a.handlePostingWindows, "member", "admin"))
	mux.HandleFunc("/api/v1/settings/autopilot/thresholds", a.requireAuth(a.handleHealthThresholds, "member", "admin"))
	mux.HandleFunc("/api/v1/settings/autopilot/schedule", a.requireAuth(a.handleSummarySchedule, "member", "admin"))

	mux.HandleFunc("/api/v1/goals", a.requireAuth(a.handleGoals, "member", "admin"))
	mux.HandleFunc("/api/v1/goals/generate", a.requireAuth(a.handleGoalGenerate, "member", "admin"))
	mux.HandleFunc("/api/v1/goals/", a.requireAuth(a.handleGoalByID, "member", "admin"))
	mux.HandleFunc("/api/v1/tasks", a.requireAuth(a.handleTasks, "member", "admin"))
	mux.HandleFunc("/api/v1/tasks/", a.requireAuth(a.handleTaskActions, "member", "admin"))

	mux.HandleFunc("/api/v1/autopilot/report", a.requireAuth(a.handleAutopilotReport, "member", "admin"))
	mux.HandleFunc("/api/v1/autopilot/summary", a.requireAuth(a.handleAutopilotSummary, "member", "admin"))
	mux.HandleFunc("/api/v1/call-log", a.requireAuth(a.handleCallLog, "member", "admin"))

	mux.HandleFunc("/api/v1/users/members", a.requireAuth(a.handleMembers, "admin"))

	return a.withMiddleware(mux)
}

func (a *API) requireAuth(next http.HandlerFunc, roles ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authorization := strings.TrimSpace(r.Header.Get("Authorization"))
		if !strings.HasPrefix(strings.ToLower(authorization), "bearer ") {
			writeError(w, http.StatusUnauthorized, errors.New("missing bearer token"))
			return
		}

		token := strings.TrimSpace(authorization[len("Bearer "):])
		actor, err := a.auth.ParseToken(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, err)
			return
		}

		if len(roles) > 0 && !isRoleAllowed(actor.Role, roles) {
			writeError(w, http.StatusForbidden, errors.New("forbidden role"))
			return
		}

		next(w, r.WithContext(service.WithActor(r.Context(), actor)))
	}
}

func isRoleAllowed(role string, allowed []string) bool {
	for _, allow := range allowed {
		if role == allow {
			return true
		}
	}
	return false
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok": true,
		"at": time.Now().UTC().Format(time.RFC3339),
	})
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}
	if !a.loginLimiter.Allow(clientKey(r)) {
		writeError(w, http.StatusTooManyRequests, errors.New("too many login attempts"))
		return
	}

	var req domain.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	resp, err := a.auth.Login(req)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleCSRFToken returns a stateless CSRF token valid for the current hour bucket.
// Clients must include this token in the X-CSRF-Token header for all mutating requests.
func (a *API) handleCSRFToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"csrf_token": a.generateCSRFToken(),
	})
}

func (a *API) handleProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	actor, ok := service.ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, errors.New("missing actor"))
		return
	}
	writeJSON(w, http.StatusOK, domain.ProfileResponse{Username: actor.Username, Role: actor.Role})
}

// handleMetaLabels serves the display labels and accent colors for platforms
// and lead statuses so every client renders them the same way.
func (a *API) handleMetaLabels(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"platform_labels":    domain.PlatformLabels,
		"platform_colors":    domain.PlatformColors,
		"lead_status_labels": domain.LeadStatusLabels,
		"lead_status_colors": domain.LeadStatusColors,
	})
}

// csrfExemptPaths lists paths that are exempt from CSRF validation.
// Login and inbound webhooks are excluded because they are called without a
// prior CSRF token fetch.
var csrfExemptPaths = []string{
	"/api/v1/auth/login",
	"/api/v1/webhooks/receive",
}

// checkCSRF enforces CSRF token validation for state-changing methods (POST/PUT/PATCH).
// Returns false and writes an error response if validation fails.
func (a *API) checkCSRF(w http.ResponseWriter, r *http.Request) bool {
	method := r.Method
	if method != http.MethodPost && method != http.MethodPut && method != http.MethodPatch {
		return true
	}
	for _, exempt := range csrfExemptPaths {
		if r.URL.Path == exempt {
			return true
		}
	}
	token := strings.TrimSpace(r.Header.Get("X-CSRF-Token"))
	if !a.validateCSRFToken(token) {
		writeError(w, http.StatusForbidden, errors.New("missing or invalid CSRF token"))
		return false
	}
	return true
}

func (a *API) handleLeads(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		leads, err := a.service.ListLeads(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"leads": leads})
	case http.MethodPost:
		var req domain.LeadCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		lead, err := a.service.CreateLead(r.Context(), req)
		if err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"lead": lead})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleLeadByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "/api/v1/leads/")
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		lead, err := a.service.GetLead(r.Context(), id)
		if err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"lead": lead})
	case http.MethodPatch:
		var req domain.LeadUpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		lead, err := a.service.UpdateLead(r.Context(), id, req)
		if err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"lead": lead})
	case http.MethodDelete:
		if err := a.service.DeleteLead(r.Context(), id); err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleServices(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		offerings, err := a.service.ListServiceOfferings(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"services": offerings})
	case http.MethodPost:
		var req domain.ServiceOfferingCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		offering, err := a.service.CreateServiceOffering(r.Context(), req)
		if err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"service": offering})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleServiceByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "/api/v1/services/")
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		offering, err := a.service.GetServiceOffering(r.Context(), id)
		if err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"service": offering})
	case http.MethodPatch:
		var req domain.ServiceOfferingUpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		offering, err := a.service.UpdateServiceOffering(r.Context(), id, req)
		if err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"service": offering})
	case http.MethodDelete:
		if err := a.service.DeleteServiceOffering(r.Context(), id); err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handlePosts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		posts, err := a.service.ListPosts(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"posts": posts})
	case http.MethodPost:
		var req domain.SocialMediaPostCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		post, err := a.service.CreatePost(r.Context(), req)
		if err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"post": post})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handlePostByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "/api/v1/posts/")
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		post, err := a.service.GetPost(r.Context(), id)
		if err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"post": post})
	case http.MethodPatch:
		var req domain.SocialMediaPostUpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		post, err := a.service.UpdatePost(r.Context(), id, req)
		if err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"post": post})
	case http.MethodDelete:
		if err := a.service.DeletePost(r.Context(), id); err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleMetrics(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		metrics, err := a.service.ListMetrics(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"metrics": metrics})
	case http.MethodPost:
		var req domain.SocialMediaMetricsCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		metrics, err := a.service.CreateMetrics(r.Context(), req)
		if err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"metrics": metrics})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleMetricsByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "/api/v1/metrics/")
	if !ok {
		return
	}
	if r.Method != http.MethodDelete {
		writeMethodNotAllowed(w)
		return
	}
	if err := a.service.DeleteMetrics(r.Context(), id); err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (a *API) handleAdCampaigns(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		campaigns, err := a.service.ListAdCampaigns(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"campaigns": campaigns})
	case http.MethodPost:
		var req domain.AdCampaignCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		campaign, err := a.service.CreateAdCampaign(r.Context(), req)
		if err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"campaign": campaign})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleAdCampaignByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "/api/v1/ad-campaigns/")
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		campaign, err := a.service.GetAdCampaign(r.Context(), id)
		if err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"campaign": campaign})
	case http.MethodPatch:
		var req domain.AdCampaignUpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		campaign, err := a.service.UpdateAdCampaign(r.Context(), id, req)
		if err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"campaign": campaign})
	case http.MethodDelete:
		if err := a.service.DeleteAdCampaign(r.Context(), id); err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleEmailCampaigns(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		campaigns, err := a.service.ListEmailCampaigns(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"campaigns": campaigns})
	case http.MethodPost:
		var req domain.EmailCampaignCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		campaign, err := a.service.CreateEmailCampaign(r.Context(), req)
		if err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"campaign": campaign})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleEmailCampaignByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "/api/v1/email-campaigns/")
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		campaign, err := a.service.GetEmailCampaign(r.Context(), id)
		if err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"campaign": campaign})
	case http.MethodPatch:
		var req domain.EmailCampaignUpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		campaign, err := a.service.UpdateEmailCampaign(r.Context(), id, req)
		if err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"campaign": campaign})
	case http.MethodDelete:
		if err := a.service.DeleteEmailCampaign(r.Context(), id); err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleLandingPages(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		pages, err := a.service.ListLandingPages(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"pages": pages})
	case http.MethodPost:
		var req domain.LandingPageCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		page, err := a.service.CreateLandingPage(r.Context(), req)
		if err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"page": page})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleLandingPageByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "/api/v1/landing-pages/")
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		page, err := a.service.GetLandingPage(r.Context(), id)
		if err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"page": page})
	case http.MethodPatch:
		var req domain.LandingPageUpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		page, err := a.service.UpdateLandingPage(r.Context(), id, req)
		if err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"page": page})
	case http.MethodDelete:
		if err := a.service.DeleteLandingPage(r.Context(), id); err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleSEOEntries(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		entries, err := a.service.ListSEOEntries(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
	case http.MethodPost:
		var req domain.SEOEntryCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		entry, err := a.service.CreateSEOEntry(r.Context(), req)
		if err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"entry": entry})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleSEOEntryByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "/api/v1/seo/")
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		entry, err := a.service.GetSEOEntry(r.Context(), id)
		if err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"entry": entry})
	case http.MethodPatch:
		var req domain.SEOEntryUpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		entry, err := a.service.UpdateSEOEntry(r.Context(), id, req)
		if err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"entry": entry})
	case http.MethodDelete:
		if err := a.service.DeleteSEOEntry(r.Context(), id); err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleWebhookReceive(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	var req domain.ReceiveWebhookRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	entry, err := a.service.ReceiveExternalWebhook(r.Context(), req)
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"log": entry})
}

func (a *API) handleWebhookLogs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		limit := parsePositiveLimit(r.URL.Query().Get("limit"), 100, 500)
		logs, err := a.service.ListWebhookLogs(r.Context(), limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"logs": logs})
	case http.MethodDelete:
		if err := a.service.ClearWebhookLogs(r.Context()); err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleExportData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	bundle, err := a.service.ExportData(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, bundle)
}

func (a *API) handleExportDataset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	prefix := "/api/v1/export/"
	dataset := strings.TrimSpace(strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/"))
	if dataset == "" {
		writeError(w, http.StatusBadRequest, errors.New("dataset required"))
		return
	}

	table, err := a.service.ExportTable(r.Context(), dataset)
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}

	now := time.Now().UTC()
	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(dataset, "csv", now)))
		_, _ = w.Write(export.CSV(table))
	case "excel":
		w.Header().Set("Content-Type", "application/vnd.ms-excel")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(dataset, "xls", now)))
		_, _ = w.Write(export.Excel(table))
	case "html":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(export.PrintableHTML(table))
	case "", "json":
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(dataset, "json", now)))
		_, _ = w.Write(export.JSON(table))
	default:
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown export format %q", format))
	}
}

type cartQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (a *API) handleCart(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, a.service.CartView(r.Context()))
	case http.MethodDelete:
		a.service.ClearCart(r.Context())
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleCartItems(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	var item domain.CartItem
	if err := decodeJSON(r, &item); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	added, err := a.service.AddToCart(r.Context(), item)
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"item": added, "cart": a.service.CartView(r.Context())})
}

func (a *API) handleCartItemByID(w http.ResponseWriter, r *http.Request) {
	prefix := "/api/v1/cart/items/"
	id := strings.TrimSpace(strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/"))
	if id == "" {
		writeError(w, http.StatusBadRequest, errors.New("cart item id required"))
		return
	}

	switch r.Method {
	case http.MethodPatch:
		var req cartQuantityRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		a.service.UpdateCartQuantity(r.Context(), id, req.Quantity)
		writeJSON(w, http.StatusOK, a.service.CartView(r.Context()))
	case http.MethodDelete:
		a.service.RemoveFromCart(r.Context(), id)
		writeJSON(w, http.StatusOK, a.service.CartView(r.Context()))
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleCheckout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	result, err := a.service.Checkout(r.Context())
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *API) handleIntegrationSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, a.service.GetIntegrationConfig(r.Context()))
	case http.MethodPost:
		var cfg domain.IntegrationConfig
		if err := decodeJSON(r, &cfg); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeJSON(w, http.StatusOK, a.service.SaveIntegrationConfig(r.Context(), cfg))
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleAutomationSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, a.service.GetAutomationToggles(r.Context()))
	case http.MethodPost:
		var toggles domain.AutomationToggles
		if err := decodeJSON(r, &toggles); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeJSON(w, http.StatusOK, a.service.SaveAutomationToggles(r.Context(), toggles))
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleAutopilotSettings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, a.service.GetAutopilotConfig(r.Context()))
}

func (a *API) handlePostingWindows(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var window domain.PostingWindow
		if err := decodeJSON(r, &window); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		cfg, err := a.service.AddPostingWindow(r.Context(), window)
		if err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusOK, cfg)
	case http.MethodDelete:
		raw := strings.TrimSpace(r.URL.Query().Get("index"))
		index, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, errors.New("window index required"))
			return
		}
		writeJSON(w, http.StatusOK, a.service.RemovePostingWindow(r.Context(), index))
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleHealthThresholds(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	var thresholds domain.HealthThresholds
	if err := decodeJSON(r, &thresholds); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	cfg, err := a.service.UpdateHealthThresholds(r.Context(), thresholds)
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

type summaryScheduleRequest struct {
	Schedule string `json:"schedule"`
}

func (a *API) handleSummarySchedule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	var req summaryScheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	cfg, err := a.service.UpdateSummarySchedule(r.Context(), req.Schedule)
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

type goalCreateRequest struct {
	Text string `json:"text"`
}

func (a *API) handleGoals(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"goals": a.service.ListGoals(r.Context())})
	case http.MethodPost:
		var req goalCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		goal, err := a.service.CreateGoal(r.Context(), req.Text)
		if err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"goal": goal})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleGoalGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	var req goalCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	goal, tasks, err := a.service.GenerateGoalPlan(r.Context(), req.Text)
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"goal": goal, "tasks": tasks})
}

func (a *API) handleGoalByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeMethodNotAllowed(w)
		return
	}

	prefix := "/api/v1/goals/"
	id := strings.TrimSpace(strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/"))
	if id == "" {
		writeError(w, http.StatusBadRequest, errors.New("goal id required"))
		return
	}
	a.service.DeleteGoal(r.Context(), id)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (a *API) handleTasks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": a.service.ListTasks(r.Context())})
}

func (a *API) handleTaskActions(w http.ResponseWriter, r *http.Request) {
	prefix := "/api/v1/tasks/"
	tail := strings.TrimSpace(strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/"))
	if tail == "" {
		writeError(w, http.StatusBadRequest, errors.New("task id required"))
		return
	}

	if strings.HasSuffix(tail, "/complete") {
		if r.Method != http.MethodPost {
			writeMethodNotAllowed(w)
			return
		}
		id := strings.Trim(strings.TrimSuffix(tail, "/complete"), "/")
		next, err := a.service.CompleteTask(r.Context(), id)
		if err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "next_task": next})
		return
	}

	switch r.Method {
	case http.MethodPatch:
		var req domain.TaskUpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		task, err := a.service.UpdateTask(r.Context(), tail, req)
		if err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"task": task})
	case http.MethodDelete:
		a.service.DeleteTask(r.Context(), tail)
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleAutopilotReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	summary, err := a.service.AutopilotReport(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (a *API) handleAutopilotSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	summary, err := a.service.GenerateAutopilotSummary(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (a *API) handleCallLog(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"entries": a.service.ListCallLog(r.Context())})
	case http.MethodDelete:
		if err := a.service.ClearCallLog(r.Context()); err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleMembers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		members := a.auth.ListMembers()
		writeJSON(w, http.StatusOK, map[string]any{"members": members})
	case http.MethodPost:
		var req domain.MemberCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		member, err := a.auth.CreateMember(req)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		writeJSON(w, http.StatusCreated, map[string]any{"member": member})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
		w.Header().Set("Access-Control-Allow-Origin", a.allowedOrigin)
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-CSRF-Token")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PATCH,DELETE,OPTIONS")
		w.Header().Set("Vary", "Origin")

		if (r.Method == http.MethodPost || r.Method == http.MethodPatch || r.Method == http.MethodPut) && strings.Contains(strings.ToLower(r.Header.Get("Content-Type")), "application/json") {
			r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		// Enforce CSRF protection for all state-changing requests.
		if !a.checkCSRF(w, r) {
			return
		}

		startedAt := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(startedAt))
	})
}

// pathID extracts the trailing numeric id from the request path. On failure a
// 400 has already been written and ok is false.
func pathID(w http.ResponseWriter, r *http.Request, prefix string) (int64, bool) {
	raw := strings.TrimSpace(strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/"))
	if raw == "" {
		writeError(w, http.StatusBadRequest, errors.New("id required"))
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, errors.New("invalid id"))
		return 0, false
	}
	return id, true
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusUnprocessableEntity
	}
}

func decodeJSON(r *http.Request, dest any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return err
	}
	return nil
}

func parsePositiveLimit(raw string, fallback int, max int) int {
	limit := fallback
	trimmed := strings.TrimSpace(raw)
	if trimmed != "" {
		if parsed, err := strconv.Atoi(trimmed); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if max > 0 && limit > max {
		return max
	}
	return limit
}

func writeMethodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
}

func writeError(w http.ResponseWriter, status int, err error) {
	// For 5xx responses, return a generic message to avoid leaking internal
	// implementation details (stack traces, SQL errors, file paths, etc.).
	// 4xx responses are user-facing so we return the original error message.
	msg := err.Error()
	if status >= 500 {
		log.Printf("internal error (status %d): %v", status, err)
		msg = "internal server error"
	}
	writeJSON(w, status, map[string]any{
		"error": msg,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
