package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"agencydash/backend/internal/autopilot"
	"agencydash/backend/internal/cart"
	"agencydash/backend/internal/domain"
	"agencydash/backend/internal/export"
	"agencydash/backend/internal/settings"
	"agencydash/backend/internal/store"
	"agencydash/backend/internal/taskagent"
	"agencydash/backend/internal/webhook"
)

type actorContextKey struct{}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

type Service struct {
	repo         store.Repository
	cart         *cart.Store
	tasks        *taskagent.Store
	integrations *settings.Integration
	automation   *settings.Automation
	autopilotCfg *settings.Autopilot
	callLog      *settings.CallLog
	sender       *webhook.Sender
}

func New(repo store.Repository, cartStore *cart.Store, taskStore *taskagent.Store, integrations *settings.Integration, automation *settings.Automation, autopilotCfg *settings.Autopilot, callLog *settings.CallLog, sender *webhook.Sender) *Service {
	return &Service{
		repo:         repo,
		cart:         cartStore,
		tasks:        taskStore,
		integrations: integrations,
		automation:   automation,
		autopilotCfg: autopilotCfg,
		callLog:      callLog,
		sender:       sender,
	}
}

// trigger fires an outbound webhook when the credential is active. The call is
// fire-and-forget: the outcome lands in the call log, never in the caller's
// error path, and a failed delivery is not retried.
func (s *Service) trigger(tool string, cred domain.Credential, enabled bool, payload any) {
	if !enabled || !cred.Active() {
		return
	}
	go s.sender.Send(context.Background(), tool, cred.Value, payload)
}

func (s *Service) ListLeads(ctx context.Context) ([]domain.Lead, error) {
	return s.repo.ListLeads(ctx)
}

func (s *Service) CreateLead(ctx context.Context, req domain.LeadCreateRequest) (domain.Lead, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return domain.Lead{}, store.ErrInvalidInput
	}

	now := time.Now().UTC().UnixNano()
	lead := domain.Lead{
		Name:      req.Name,
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		Company:   strings.TrimSpace(req.Company),
		Source:    strings.TrimSpace(req.Source),
		Status:    domain.LeadStatusNew,
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.repo.CreateLead(ctx, lead)
	if err != nil {
		return domain.Lead{}, err
	}

	cfg := s.integrations.Get(ctx)
	toggles := s.automation.Get(ctx)
	s.trigger("crm", cfg.CRMWebhookURL, toggles.LeadAlerts, map[string]any{
		"event": "lead.created",
		"lead":  created,
	})

	return *created, nil
}

func (s *Service) GetLead(ctx context.Context, id int64) (domain.Lead, error) {
	lead, err := s.repo.GetLeadByID(ctx, id)
	if err != nil {
		return domain.Lead{}, err
	}
	return *lead, nil
}

func (s *Service) UpdateLead(ctx context.Context, id int64, req domain.LeadUpdateRequest) (domain.Lead, error) {
	existing, err := s.repo.GetLeadByID(ctx, id)
	if err != nil {
		return domain.Lead{}, err
	}

	updated := *existing
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Lead{}, store.ErrInvalidInput
		}
		updated.Name = name
	}
	if req.Email != nil {
		updated.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		updated.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Company != nil {
		updated.Company = strings.TrimSpace(*req.Company)
	}
	if req.Source != nil {
		updated.Source = strings.TrimSpace(*req.Source)
	}
	if req.Status != nil {
		if !isLeadStatus(*req.Status) {
			return domain.Lead{}, store.ErrInvalidInput
		}
		updated.Status = *req.Status
	}
	if req.Notes != nil {
		updated.Notes = *req.Notes
	}
	updated.UpdatedAt = time.Now().UTC().UnixNano()

	saved, err := s.repo.UpdateLead(ctx, updated)
	if err != nil {
		return domain.Lead{}, err
	}
	return *saved, nil
}

func (s *Service) DeleteLead(ctx context.Context, id int64) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	return s.repo.DeleteLead(ctx, id)
}

func (s *Service) ListServiceOfferings(ctx context.Context) ([]domain.ServiceOffering, error) {
	return s.repo.ListServiceOfferings(ctx)
}

func (s *Service) CreateServiceOffering(ctx context.Context, req domain.ServiceOfferingCreateRequest) (domain.ServiceOffering, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.ServiceOffering{}, err
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Category = strings.ToLower(strings.TrimSpace(req.Category))
	if req.Name == "" || req.Category == "" {
		return domain.ServiceOffering{}, store.ErrInvalidInput
	}
	for _, tier := range req.Tiers {
		if strings.TrimSpace(tier.Name) == "" || tier.PriceCents < 0 {
			return domain.ServiceOffering{}, store.ErrInvalidInput
		}
	}

	offering := domain.ServiceOffering{
		Name:        req.Name,
		Category:    req.Category,
		Description: strings.TrimSpace(req.Description),
		Tiers:       req.Tiers,
		Addons:      req.Addons,
		Active:      true,
		CreatedAt:   time.Now().UTC().UnixNano(),
	}
	created, err := s.repo.CreateServiceOffering(ctx, offering)
	if err != nil {
		return domain.ServiceOffering{}, err
	}
	return *created, nil
}

func (s *Service) GetServiceOffering(ctx context.Context, id int64) (domain.ServiceOffering, error) {
	offering, err := s.repo.GetServiceOfferingByID(ctx, id)
	if err != nil {
		return domain.ServiceOffering{}, err
	}
	return *offering, nil
}

func (s *Service) UpdateServiceOffering(ctx context.Context, id int64, req domain.ServiceOfferingUpdateRequest) (domain.ServiceOffering, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.ServiceOffering{}, err
	}

	existing, err := s.repo.GetServiceOfferingByID(ctx, id)
	if err != nil {
		return domain.ServiceOffering{}, err
	}

	updated := *existing
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.ServiceOffering{}, store.ErrInvalidInput
		}
		updated.Name = name
	}
	if req.Category != nil {
		category := strings.ToLower(strings.TrimSpace(*req.Category))
		if category == "" {
			return domain.ServiceOffering{}, store.ErrInvalidInput
		}
		updated.Category = category
	}
	if req.Description != nil {
		updated.Description = strings.TrimSpace(*req.Description)
	}
	if req.Tiers != nil {
		updated.Tiers = *req.Tiers
	}
	if req.Addons != nil {
		updated.Addons = *req.Addons
	}
	if req.Active != nil {
		updated.Active = *req.Active
	}

	saved, err := s.repo.UpdateServiceOffering(ctx, updated)
	if err != nil {
		return domain.ServiceOffering{}, err
	}
	return *saved, nil
}

func (s *Service) DeleteServiceOffering(ctx context.Context, id int64) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	return s.repo.DeleteServiceOffering(ctx, id)
}

func (s *Service) ListPosts(ctx context.Context) ([]domain.SocialMediaPost, error) {
	return s.repo.ListPosts(ctx)
}

func (s *Service) CreatePost(ctx context.Context, req domain.SocialMediaPostCreateRequest) (domain.SocialMediaPost, error) {
	req.Platform = strings.ToLower(strings.TrimSpace(req.Platform))
	req.Content = strings.TrimSpace(req.Content)
	if req.Platform == "" || req.Content == "" {
		return domain.SocialMediaPost{}, store.ErrInvalidInput
	}
	if req.Status == "" {
		req.Status = domain.PostStatusDraft
	}
	if !isPostStatus(req.Status) {
		return domain.SocialMediaPost{}, store.ErrInvalidInput
	}

	now := time.Now().UTC().UnixNano()
	post := domain.SocialMediaPost{
		Platform:    req.Platform,
		Title:       strings.TrimSpace(req.Title),
		Content:     req.Content,
		MediaURL:    strings.TrimSpace(req.MediaURL),
		Status:      req.Status,
		ScheduledAt: req.ScheduledAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	created, err := s.repo.CreatePost(ctx, post)
	if err != nil {
		return domain.SocialMediaPost{}, err
	}

	if created.Status == domain.PostStatusScheduled {
		cfg := s.integrations.Get(ctx)
		toggles := s.automation.Get(ctx)
		s.trigger("automation", cfg.AutomationWebhookURL, toggles.PostReminders, map[string]any{
			"event": "post.scheduled",
			"post":  created,
		})
	}

	return *created, nil
}

func (s *Service) GetPost(ctx context.Context, id int64) (domain.SocialMediaPost, error) {
	post, err := s.repo.GetPostByID(ctx, id)
	if err != nil {
		return domain.SocialMediaPost{}, err
	}
	return *post, nil
}

func (s *Service) UpdatePost(ctx context.Context, id int64, req domain.SocialMediaPostUpdateRequest) (domain.SocialMediaPost, error) {
	existing, err := s.repo.GetPostByID(ctx, id)
	if err != nil {
		return domain.SocialMediaPost{}, err
	}

	updated := *existing
	if req.Platform != nil {
		platform := strings.ToLower(strings.TrimSpace(*req.Platform))
		if platform == "" {
			return domain.SocialMediaPost{}, store.ErrInvalidInput
		}
		updated.Platform = platform
	}
	if req.Title != nil {
		updated.Title = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		content := strings.TrimSpace(*req.Content)
		if content == "" {
			return domain.SocialMediaPost{}, store.ErrInvalidInput
		}
		updated.Content = content
	}
	if req.MediaURL != nil {
		updated.MediaURL = strings.TrimSpace(*req.MediaURL)
	}
	if req.Status != nil {
		if !isPostStatus(*req.Status) {
			return domain.SocialMediaPost{}, store.ErrInvalidInput
		}
		updated.Status = *req.Status
	}
	if req.ScheduledAt != nil {
		updated.ScheduledAt = *req.ScheduledAt
	}
	updated.UpdatedAt = time.Now().UTC().UnixNano()

	saved, err := s.repo.UpdatePost(ctx, updated)
	if err != nil {
		return domain.SocialMediaPost{}, err
	}
	return *saved, nil
}

func (s *Service) DeletePost(ctx context.Context, id int64) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	return s.repo.DeletePost(ctx, id)
}

func (s *Service) ListMetrics(ctx context.Context) ([]domain.SocialMediaMetrics, error) {
	return s.repo.ListMetrics(ctx)
}

func (s *Service) CreateMetrics(ctx context.Context, req domain.SocialMediaMetricsCreateRequest) (domain.SocialMediaMetrics, error) {
	req.Platform = strings.ToLower(strings.TrimSpace(req.Platform))
	if req.Platform == "" {
		return domain.SocialMediaMetrics{}, store.ErrInvalidInput
	}
	if req.Impressions < 0 || req.Clicks < 0 || req.Likes < 0 || req.Shares < 0 || req.Comments < 0 {
		return domain.SocialMediaMetrics{}, store.ErrInvalidInput
	}

	metrics := domain.SocialMediaMetrics{
		PostID:      req.PostID,
		Platform:    req.Platform,
		Impressions: req.Impressions,
		Clicks:      req.Clicks,
		Likes:       req.Likes,
		Shares:      req.Shares,
		Comments:    req.Comments,
		RecordedAt:  time.Now().UTC().UnixNano(),
	}
	created, err := s.repo.CreateMetrics(ctx, metrics)
	if err != nil {
		return domain.SocialMediaMetrics{}, err
	}
	return *created, nil
}

func (s *Service) DeleteMetrics(ctx context.Context, id int64) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	return s.repo.DeleteMetrics(ctx, id)
}

func (s *Service) ListAdCampaigns(ctx context.Context) ([]domain.AdCampaign, error) {
	return s.repo.ListAdCampaigns(ctx)
}

func (s *Service) CreateAdCampaign(ctx context.Context, req domain.AdCampaignCreateRequest) (domain.AdCampaign, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Platform = strings.ToLower(strings.TrimSpace(req.Platform))
	if req.Name == "" || req.Platform == "" || req.BudgetCents < 0 {
		return domain.AdCampaign{}, store.ErrInvalidInput
	}

	campaign := domain.AdCampaign{
		Name:        req.Name,
		Platform:    req.Platform,
		Status:      domain.CampaignStatusDraft,
		BudgetCents: req.BudgetCents,
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
		CreatedAt:   time.Now().UTC().UnixNano(),
	}
	created, err := s.repo.CreateAdCampaign(ctx, campaign)
	if err != nil {
		return domain.AdCampaign{}, err
	}
	return *created, nil
}

func (s *Service) GetAdCampaign(ctx context.Context, id int64) (domain.AdCampaign, error) {
	campaign, err := s.repo.GetAdCampaignByID(ctx, id)
	if err != nil {
		return domain.AdCampaign{}, err
	}
	return *campaign, nil
}

func (s *Service) UpdateAdCampaign(ctx context.Context, id int64, req domain.AdCampaignUpdateRequest) (domain.AdCampaign, error) {
	existing, err := s.repo.GetAdCampaignByID(ctx, id)
	if err != nil {
		return domain.AdCampaign{}, err
	}

	updated := *existing
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.AdCampaign{}, store.ErrInvalidInput
		}
		updated.Name = name
	}
	if req.Platform != nil {
		platform := strings.ToLower(strings.TrimSpace(*req.Platform))
		if platform == "" {
			return domain.AdCampaign{}, store.ErrInvalidInput
		}
		updated.Platform = platform
	}
	if req.Status != nil {
		if !isCampaignStatus(*req.Status) {
			return domain.AdCampaign{}, store.ErrInvalidInput
		}
		updated.Status = *req.Status
	}
	if req.BudgetCents != nil {
		if *req.BudgetCents < 0 {
			return domain.AdCampaign{}, store.ErrInvalidInput
		}
		updated.BudgetCents = *req.BudgetCents
	}
	if req.SpendCents != nil {
		updated.SpendCents = *req.SpendCents
	}
	if req.Impressions != nil {
		updated.Impressions = *req.Impressions
	}
	if req.Clicks != nil {
		updated.Clicks = *req.Clicks
	}
	if req.Conversions != nil {
		updated.Conversions = *req.Conversions
	}
	if req.StartAt != nil {
		updated.StartAt = *req.StartAt
	}
	if req.EndAt != nil {
		updated.EndAt = *req.EndAt
	}

	saved, err := s.repo.UpdateAdCampaign(ctx, updated)
	if err != nil {
		return domain.AdCampaign{}, err
	}
	return *saved, nil
}

func (s *Service) DeleteAdCampaign(ctx context.Context, id int64) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	return s.repo.DeleteAdCampaign(ctx, id)
}

func (s *Service) ListEmailCampaigns(ctx context.Context) ([]domain.EmailCampaign, error) {
	return s.repo.ListEmailCampaigns(ctx)
}

func (s *Service) CreateEmailCampaign(ctx context.Context, req domain.EmailCampaignCreateRequest) (domain.EmailCampaign, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Subject = strings.TrimSpace(req.Subject)
	if req.Name == "" || req.Subject == "" || req.Recipients < 0 {
		return domain.EmailCampaign{}, store.ErrInvalidInput
	}

	campaign := domain.EmailCampaign{
		Name:       req.Name,
		Subject:    req.Subject,
		Status:     domain.CampaignStatusDraft,
		Recipients: req.Recipients,
		CreatedAt:  time.Now().UTC().UnixNano(),
	}
	created, err := s.repo.CreateEmailCampaign(ctx, campaign)
	if err != nil {
		return domain.EmailCampaign{}, err
	}
	return *created, nil
}

func (s *Service) GetEmailCampaign(ctx context.Context, id int64) (domain.EmailCampaign, error) {
	campaign, err := s.repo.GetEmailCampaignByID(ctx, id)
	if err != nil {
		return domain.EmailCampaign{}, err
	}
	return *campaign, nil
}

func (s *Service) UpdateEmailCampaign(ctx context.Context, id int64, req domain.EmailCampaignUpdateRequest) (domain.EmailCampaign, error) {
	existing, err := s.repo.GetEmailCampaignByID(ctx, id)
	if err != nil {
		return domain.EmailCampaign{}, err
	}

	updated := *existing
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.EmailCampaign{}, store.ErrInvalidInput
		}
		updated.Name = name
	}
	if req.Subject != nil {
		subject := strings.TrimSpace(*req.Subject)
		if subject == "" {
			return domain.EmailCampaign{}, store.ErrInvalidInput
		}
		updated.Subject = subject
	}
	if req.Status != nil {
		if !isCampaignStatus(*req.Status) {
			return domain.EmailCampaign{}, store.ErrInvalidInput
		}
		updated.Status = *req.Status
	}
	if req.Recipients != nil {
		updated.Recipients = *req.Recipients
	}
	if req.Opens != nil {
		updated.Opens = *req.Opens
	}
	if req.Clicks != nil {
		updated.Clicks = *req.Clicks
	}
	if req.SentAt != nil {
		updated.SentAt = *req.SentAt
	}

	saved, err := s.repo.UpdateEmailCampaign(ctx, updated)
	if err != nil {
		return domain.EmailCampaign{}, err
	}
	return *saved, nil
}

func (s *Service) DeleteEmailCampaign(ctx context.Context, id int64) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	return s.repo.DeleteEmailCampaign(ctx, id)
}

func (s *Service) ListLandingPages(ctx context.Context) ([]domain.LandingPage, error) {
	return s.repo.ListLandingPages(ctx)
}

func (s *Service) CreateLandingPage(ctx context.Context, req domain.LandingPageCreateRequest) (domain.LandingPage, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Slug = normalizeSlug(req.Slug)
	if req.Name == "" || req.Slug == "" {
		return domain.LandingPage{}, store.ErrInvalidInput
	}

	now := time.Now().UTC().UnixNano()
	page := domain.LandingPage{
		Name:      req.Name,
		Slug:      req.Slug,
		URL:       strings.TrimSpace(req.URL),
		Status:    domain.PageStatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	created, err := s.repo.CreateLandingPage(ctx, page)
	if err != nil {
		return domain.LandingPage{}, err
	}
	return *created, nil
}

func (s *Service) GetLandingPage(ctx context.Context, id int64) (domain.LandingPage, error) {
	page, err := s.repo.GetLandingPageByID(ctx, id)
	if err != nil {
		return domain.LandingPage{}, err
	}
	return *page, nil
}

func (s *Service) UpdateLandingPage(ctx context.Context, id int64, req domain.LandingPageUpdateRequest) (domain.LandingPage, error) {
	existing, err := s.repo.GetLandingPageByID(ctx, id)
	if err != nil {
		return domain.LandingPage{}, err
	}

	updated := *existing
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.LandingPage{}, store.ErrInvalidInput
		}
		updated.Name = name
	}
	if req.Slug != nil {
		slug := normalizeSlug(*req.Slug)
		if slug == "" {
			return domain.LandingPage{}, store.ErrInvalidInput
		}
		updated.Slug = slug
	}
	if req.URL != nil {
		updated.URL = strings.TrimSpace(*req.URL)
	}
	if req.Status != nil {
		if *req.Status != domain.PageStatusDraft && *req.Status != domain.PageStatusPublished {
			return domain.LandingPage{}, store.ErrInvalidInput
		}
		updated.Status = *req.Status
	}
	if req.Visits != nil {
		updated.Visits = *req.Visits
	}
	if req.Conversions != nil {
		updated.Conversions = *req.Conversions
	}
	updated.UpdatedAt = time.Now().UTC().UnixNano()

	saved, err := s.repo.UpdateLandingPage(ctx, updated)
	if err != nil {
		return domain.LandingPage{}, err
	}
	return *saved, nil
}

func (s *Service) DeleteLandingPage(ctx context.Context, id int64) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	return s.repo.DeleteLandingPage(ctx, id)
}

func (s *Service) ListSEOEntries(ctx context.Context) ([]domain.SEOEntry, error) {
	return s.repo.ListSEOEntries(ctx)
}

func (s *Service) CreateSEOEntry(ctx context.Context, req domain.SEOEntryCreateRequest) (domain.SEOEntry, error) {
	req.Keyword = strings.ToLower(strings.TrimSpace(req.Keyword))
	if req.Keyword == "" {
		return domain.SEOEntry{}, store.ErrInvalidInput
	}
	if req.Position < 0 || req.SearchVolume < 0 || req.Difficulty < 0 || req.Difficulty > 100 {
		return domain.SEOEntry{}, store.ErrInvalidInput
	}

	now := time.Now().UTC().UnixNano()
	entry := domain.SEOEntry{
		Keyword:      req.Keyword,
		TargetURL:    strings.TrimSpace(req.TargetURL),
		Position:     req.Position,
		SearchVolume: req.SearchVolume,
		Difficulty:   req.Difficulty,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	created, err := s.repo.CreateSEOEntry(ctx, entry)
	if err != nil {
		return domain.SEOEntry{}, err
	}
	return *created, nil
}

func (s *Service) GetSEOEntry(ctx context.Context, id int64) (domain.SEOEntry, error) {
	entry, err := s.repo.GetSEOEntryByID(ctx, id)
	if err != nil {
		return domain.SEOEntry{}, err
	}
	return *entry, nil
}

func (s *Service) UpdateSEOEntry(ctx context.Context, id int64, req domain.SEOEntryUpdateRequest) (domain.SEOEntry, error) {
	existing, err := s.repo.GetSEOEntryByID(ctx, id)
	if err != nil {
		return domain.SEOEntry{}, err
	}

	updated := *existing
	if req.Keyword != nil {
		keyword := strings.ToLower(strings.TrimSpace(*req.Keyword))
		if keyword == "" {
			return domain.SEOEntry{}, store.ErrInvalidInput
		}
		updated.Keyword = keyword
	}
	if req.TargetURL != nil {
		updated.TargetURL = strings.TrimSpace(*req.TargetURL)
	}
	if req.Position != nil {
		if *req.Position < 0 {
			return domain.SEOEntry{}, store.ErrInvalidInput
		}
		updated.Position = *req.Position
	}
	if req.SearchVolume != nil {
		updated.SearchVolume = *req.SearchVolume
	}
	if req.Difficulty != nil {
		if *req.Difficulty < 0 || *req.Difficulty > 100 {
			return domain.SEOEntry{}, store.ErrInvalidInput
		}
		updated.Difficulty = *req.Difficulty
	}
	updated.UpdatedAt = time.Now().UTC().UnixNano()

	saved, err := s.repo.UpdateSEOEntry(ctx, updated)
	if err != nil {
		return domain.SEOEntry{}, err
	}
	return *saved, nil
}

func (s *Service) DeleteSEOEntry(ctx context.Context, id int64) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	return s.repo.DeleteSEOEntry(ctx, id)
}

// ReceiveExternalWebhook records an inbound webhook from a marketing tool.
func (s *Service) ReceiveExternalWebhook(ctx context.Context, req domain.ReceiveWebhookRequest) (domain.WebhookLog, error) {
	req.ToolName = strings.TrimSpace(req.ToolName)
	if req.ToolName == "" {
		return domain.WebhookLog{}, store.ErrInvalidInput
	}

	entry := domain.WebhookLog{
		ToolName:   req.ToolName,
		Source:     strings.TrimSpace(req.Source),
		Payload:    req.Payload,
		ReceivedAt: time.Now().UTC().UnixNano(),
	}
	created, err := s.repo.CreateWebhookLog(ctx, entry)
	if err != nil {
		return domain.WebhookLog{}, err
	}
	return *created, nil
}

func (s *Service) ListWebhookLogs(ctx context.Context, limit int) ([]domain.WebhookLog, error) {
	return s.repo.ListWebhookLogs(ctx, limit)
}

func (s *Service) ClearWebhookLogs(ctx context.Context) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	return s.repo.ClearWebhookLogs(ctx)
}

// ExportData returns the bulk export bundle: posts, metrics and received
// webhook logs together.
func (s *Service) ExportData(ctx context.Context) (domain.ExportBundle, error) {
	posts, err := s.repo.ListPosts(ctx)
	if err != nil {
		return domain.ExportBundle{}, err
	}
	metrics, err := s.repo.ListMetrics(ctx)
	if err != nil {
		return domain.ExportBundle{}, err
	}
	logs, err := s.repo.ListWebhookLogs(ctx, 0)
	if err != nil {
		return domain.ExportBundle{}, err
	}
	return domain.ExportBundle{Posts: posts, Metrics: metrics, WebhookLogs: logs}, nil
}

// ExportTable builds the download table for one dataset name.
func (s *Service) ExportTable(ctx context.Context, dataset string) (export.Table, error) {
	switch strings.ToLower(strings.TrimSpace(dataset)) {
	case "leads":
		leads, err := s.repo.ListLeads(ctx)
		if err != nil {
			return export.Table{}, err
		}
		return export.LeadsTable(leads), nil
	case "posts":
		posts, err := s.repo.ListPosts(ctx)
		if err != nil {
			return export.Table{}, err
		}
		return export.PostsTable(posts), nil
	case "metrics":
		metrics, err := s.repo.ListMetrics(ctx)
		if err != nil {
			return export.Table{}, err
		}
		return export.MetricsTable(metrics), nil
	case "ad-campaigns":
		campaigns, err := s.repo.ListAdCampaigns(ctx)
		if err != nil {
			return export.Table{}, err
		}
		return export.AdCampaignsTable(campaigns), nil
	case "email-campaigns":
		campaigns, err := s.repo.ListEmailCampaigns(ctx)
		if err != nil {
			return export.Table{}, err
		}
		return export.EmailCampaignsTable(campaigns), nil
	case "landing-pages":
		pages, err := s.repo.ListLandingPages(ctx)
		if err != nil {
			return export.Table{}, err
		}
		return export.LandingPagesTable(pages), nil
	case "seo":
		entries, err := s.repo.ListSEOEntries(ctx)
		if err != nil {
			return export.Table{}, err
		}
		return export.SEOEntriesTable(entries), nil
	case "webhook-logs":
		logs, err := s.repo.ListWebhookLogs(ctx, 0)
		if err != nil {
			return export.Table{}, err
		}
		return export.WebhookLogsTable(logs), nil
	case "cart":
		return export.CartTable(s.cart.Items(ctx)), nil
	case "call-log":
		return export.CallLogTable(s.callLog.List(ctx)), nil
	default:
		return export.Table{}, fmt.Errorf("%w: unknown dataset %q", store.ErrInvalidInput, dataset)
	}
}

func (s *Service) CartView(ctx context.Context) domain.CartView {
	return domain.CartView{
		Items:           s.cart.Items(ctx),
		TotalItems:      s.cart.TotalItems(ctx),
		GrandTotalCents: s.cart.GrandTotal(ctx),
	}
}

// AddToCart fills the service name from the catalog when the caller omitted
// it, then delegates to the cart store.
func (s *Service) AddToCart(ctx context.Context, item domain.CartItem) (domain.CartItem, error) {
	if item.ServiceID < 1 {
		return domain.CartItem{}, store.ErrInvalidInput
	}
	item.ServiceName = strings.TrimSpace(item.ServiceName)
	item.SelectedTier = strings.TrimSpace(item.SelectedTier)
	if item.UnitPriceCents < 0 {
		return domain.CartItem{}, store.ErrInvalidInput
	}

	if item.ServiceName == "" {
		offering, err := s.repo.GetServiceOfferingByID(ctx, item.ServiceID)
		if err != nil {
			return domain.CartItem{}, err
		}
		item.ServiceName = offering.Name
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	return s.cart.Add(ctx, item), nil
}

func (s *Service) RemoveFromCart(ctx context.Context, id string) {
	s.cart.Remove(ctx, id)
}

// UpdateCartQuantity clamps the quantity to at least 1; the cart store itself
// does not clamp.
func (s *Service) UpdateCartQuantity(ctx context.Context, id string, qty int) {
	if qty < 1 {
		qty = 1
	}
	s.cart.UpdateQuantity(ctx, id, qty)
}

func (s *Service) ClearCart(ctx context.Context) {
	s.cart.Clear(ctx)
}

// Checkout snapshots the cart, fires the payment notification webhook when
// configured, and empties the cart. Payment capture itself happens in an
// external checkout flow; this records the handoff.
func (s *Service) Checkout(ctx context.Context) (domain.CheckoutResult, error) {
	items := s.cart.Items(ctx)
	if len(items) == 0 {
		return domain.CheckoutResult{}, store.ErrInvalidInput
	}

	result := domain.CheckoutResult{
		Items:           items,
		TotalItems:      s.cart.TotalItems(ctx),
		GrandTotalCents: s.cart.GrandTotal(ctx),
		CompletedAt:     time.Now().UTC().Format(time.RFC3339),
	}

	cfg := s.integrations.Get(ctx)
	toggles := s.automation.Get(ctx)
	enabled := toggles.PaymentNotifications && cfg.PaymentKey.Active()
	s.trigger("payment", cfg.AutomationWebhookURL, enabled, map[string]any{
		"event":             "checkout.completed",
		"total_items":       result.TotalItems,
		"grand_total_cents": result.GrandTotalCents,
		"items":             result.Items,
	})

	s.cart.Clear(ctx)
	return result, nil
}

func (s *Service) GetIntegrationConfig(ctx context.Context) domain.IntegrationConfig {
	return s.integrations.Get(ctx)
}

func (s *Service) SaveIntegrationConfig(ctx context.Context, cfg domain.IntegrationConfig) domain.IntegrationConfig {
	s.integrations.Save(ctx, cfg)
	return s.integrations.Get(ctx)
}

func (s *Service) GetAutomationToggles(ctx context.Context) domain.AutomationToggles {
	return s.automation.Get(ctx)
}

func (s *Service) SaveAutomationToggles(ctx context.Context, toggles domain.AutomationToggles) domain.AutomationToggles {
	s.automation.Save(ctx, toggles)
	return s.automation.Get(ctx)
}

func (s *Service) GetAutopilotConfig(ctx context.Context) domain.AutopilotConfig {
	return s.autopilotCfg.Get(ctx)
}

func (s *Service) AddPostingWindow(ctx context.Context, window domain.PostingWindow) (domain.AutopilotConfig, error) {
	window.Platform = strings.ToLower(strings.TrimSpace(window.Platform))
	window.Day = strings.ToLower(strings.TrimSpace(window.Day))
	window.Time = strings.TrimSpace(window.Time)
	if window.Platform == "" || window.Day == "" || window.Time == "" {
		return domain.AutopilotConfig{}, store.ErrInvalidInput
	}
	return s.autopilotCfg.AddPostingWindow(ctx, window), nil
}

func (s *Service) RemovePostingWindow(ctx context.Context, index int) domain.AutopilotConfig {
	return s.autopilotCfg.RemovePostingWindow(ctx, index)
}

func (s *Service) UpdateHealthThresholds(ctx context.Context, thresholds domain.HealthThresholds) (domain.AutopilotConfig, error) {
	if thresholds.MinCTR < 0 || thresholds.MinConversions < 0 {
		return domain.AutopilotConfig{}, store.ErrInvalidInput
	}
	return s.autopilotCfg.UpdateHealthThresholds(ctx, thresholds), nil
}

func (s *Service) UpdateSummarySchedule(ctx context.Context, schedule string) (domain.AutopilotConfig, error) {
	switch schedule {
	case domain.SummaryScheduleNone, domain.SummaryScheduleDaily, domain.SummaryScheduleWeekly:
	default:
		return domain.AutopilotConfig{}, store.ErrInvalidInput
	}
	return s.autopilotCfg.UpdateSummarySchedule(ctx, schedule), nil
}

// AutopilotReport grades current campaigns and orders scheduled posts without
// recording a summary generation.
func (s *Service) AutopilotReport(ctx context.Context) (autopilot.Summary, error) {
	campaigns, err := s.repo.ListAdCampaigns(ctx)
	if err != nil {
		return autopilot.Summary{}, err
	}
	posts, err := s.repo.ListPosts(ctx)
	if err != nil {
		return autopilot.Summary{}, err
	}
	cfg := s.autopilotCfg.Get(ctx)
	return autopilot.BuildSummary(campaigns, posts, cfg, time.Now().UTC().UnixNano()), nil
}

// GenerateAutopilotSummary builds the campaign summary, stamps the generation
// time, and fires the campaign report webhook when configured. The scheduler
// calls this on its due ticks.
func (s *Service) GenerateAutopilotSummary(ctx context.Context) (autopilot.Summary, error) {
	summary, err := s.AutopilotReport(ctx)
	if err != nil {
		return autopilot.Summary{}, err
	}
	s.autopilotCfg.RecordSummaryGeneration(ctx)

	cfg := s.integrations.Get(ctx)
	toggles := s.automation.Get(ctx)
	s.trigger("automation", cfg.AutomationWebhookURL, toggles.CampaignReports, map[string]any{
		"event":   "campaign.summary",
		"summary": summary,
	})

	return summary, nil
}

func (s *Service) ListGoals(ctx context.Context) []domain.Goal {
	return s.tasks.Goals(ctx)
}

func (s *Service) ListTasks(ctx context.Context) []domain.Task {
	return s.tasks.Tasks(ctx)
}

func (s *Service) CreateGoal(ctx context.Context, text string) (domain.Goal, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Goal{}, store.ErrInvalidInput
	}
	return s.tasks.AddGoal(ctx, text), nil
}

// GenerateGoalPlan creates the goal and expands it into template tasks in one
// step.
func (s *Service) GenerateGoalPlan(ctx context.Context, text string) (domain.Goal, []domain.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Goal{}, nil, store.ErrInvalidInput
	}

	goal := s.tasks.AddGoal(ctx, text)
	generated := taskagent.GenerateTasksFromGoal(text)
	for i := range generated {
		generated[i].GoalID = goal.ID
	}
	added := s.tasks.AddTasks(ctx, generated)
	return goal, added, nil
}

func (s *Service) AddTasks(ctx context.Context, goalID string, tasks []domain.Task) ([]domain.Task, error) {
	if len(tasks) == 0 {
		return nil, store.ErrInvalidInput
	}
	for i := range tasks {
		if strings.TrimSpace(tasks[i].Text) == "" {
			return nil, store.ErrInvalidInput
		}
		if tasks[i].GoalID == "" {
			tasks[i].GoalID = goalID
		}
		if tasks[i].Priority == "" {
			tasks[i].Priority = domain.PriorityMedium
		}
	}
	return s.tasks.AddTasks(ctx, tasks), nil
}

func (s *Service) UpdateTask(ctx context.Context, id string, req domain.TaskUpdateRequest) (domain.Task, error) {
	if req.Text != nil && strings.TrimSpace(*req.Text) == "" {
		return domain.Task{}, store.ErrInvalidInput
	}
	if req.Priority != nil {
		switch *req.Priority {
		case domain.PriorityHigh, domain.PriorityMedium, domain.PriorityLow:
		default:
			return domain.Task{}, store.ErrInvalidInput
		}
	}
	updated := s.tasks.UpdateTask(ctx, id, req)
	if updated == nil {
		return domain.Task{}, store.ErrNotFound
	}
	return *updated, nil
}

// ToggleTask flips the completed flag by direct overwrite, bypassing the
// next-suggestion derivation.
func (s *Service) ToggleTask(ctx context.Context, id string, completed bool) (domain.Task, error) {
	return s.UpdateTask(ctx, id, domain.TaskUpdateRequest{Completed: &completed})
}

// CompleteTask marks the task done and returns the next suggested sibling, if
// any.
func (s *Service) CompleteTask(ctx context.Context, id string) (*domain.Task, error) {
	next, found := s.tasks.MarkTaskComplete(ctx, id)
	if !found {
		return nil, store.ErrNotFound
	}
	return next, nil
}

func (s *Service) DeleteTask(ctx context.Context, id string) {
	s.tasks.DeleteTask(ctx, id)
}

func (s *Service) DeleteGoal(ctx context.Context, id string) {
	s.tasks.DeleteGoal(ctx, id)
}

func (s *Service) ListCallLog(ctx context.Context) []domain.WebhookCallEntry {
	return s.callLog.List(ctx)
}

func (s *Service) ClearCallLog(ctx context.Context) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	s.callLog.Clear(ctx)
	return nil
}

func requireAdmin(ctx context.Context) error {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return store.ErrForbidden
	}
	return nil
}

func isLeadStatus(status string) bool {
	switch status {
	case domain.LeadStatusNew, domain.LeadStatusContacted, domain.LeadStatusQualified, domain.LeadStatusWon, domain.LeadStatusLost:
		return true
	}
	return false
}

func isPostStatus(status string) bool {
	switch status {
	case domain.PostStatusDraft, domain.PostStatusScheduled, domain.PostStatusPublished:
		return true
	}
	return false
}

func isCampaignStatus(status string) bool {
	switch status {
	case domain.CampaignStatusDraft, domain.CampaignStatusActive, domain.CampaignStatusPaused, domain.CampaignStatusEnded:
		return true
	}
	return false
}

func normalizeSlug(slug string) string {
	slug = strings.ToLower(strings.TrimSpace(slug))
	slug = strings.ReplaceAll(slug, " ", "-")
	return strings.Trim(slug, "-/")
}
