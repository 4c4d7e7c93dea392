package memory

import (
	"context"
	"log"
	"os"
	"slices"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"agencydash/backend/internal/domain"
	"agencydash/backend/internal/store"
)

type Store struct {
	mu              sync.RWMutex
	nextID          int64
	leads           map[int64]domain.Lead
	offerings       map[int64]domain.ServiceOffering
	posts           map[int64]domain.SocialMediaPost
	metrics         map[int64]domain.SocialMediaMetrics
	adCampaigns     map[int64]domain.AdCampaign
	emailCampaigns  map[int64]domain.EmailCampaign
	landingPages    map[int64]domain.LandingPage
	seoEntries      map[int64]domain.SEOEntry
	webhookLogs     []domain.WebhookLog
	usersByUsername map[string]domain.UserAccount
}

// seedUsers builds the initial in-memory user accounts for dev/demo mode.
// Credentials are read from SEED_ADMIN_PASSWORD and SEED_MEMBER_PASSWORD
// environment variables. If unset, hardcoded dev defaults are used with a
// warning printed to stdout. These credentials are never used in production
// (the backend uses PostgreSQL when DATABASE_URL is set).
func seedUsers() map[string]domain.UserAccount {
	adminPwd := envOr("SEED_ADMIN_PASSWORD", "admin123")
	memberPwd := envOr("SEED_MEMBER_PASSWORD", "member123")
	if os.Getenv("SEED_ADMIN_PASSWORD") == "" || os.Getenv("SEED_MEMBER_PASSWORD") == "" {
		log.Println("[memory-store] WARNING: using default dev credentials. Set SEED_ADMIN_PASSWORD and SEED_MEMBER_PASSWORD to override.")
	}

	now := time.Now().UTC()
	users := map[string]domain.UserAccount{}
	for _, u := range []struct {
		username string
		password string
		role     string
	}{
		{"admin", adminPwd, "admin"},
		{"member", memberPwd, "member"},
	} {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("[memory-store] failed to hash seed password for %s: %v", u.username, err)
		}
		users[u.username] = domain.UserAccount{
			Username:  u.username,
			Password:  string(hash),
			Role:      u.role,
			Active:    true,
			CreatedAt: now,
		}
	}
	return users
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func New() *Store {
	return &Store{
		nextID:          1,
		leads:           make(map[int64]domain.Lead),
		offerings:       make(map[int64]domain.ServiceOffering),
		posts:           make(map[int64]domain.SocialMediaPost),
		metrics:         make(map[int64]domain.SocialMediaMetrics),
		adCampaigns:     make(map[int64]domain.AdCampaign),
		emailCampaigns:  make(map[int64]domain.EmailCampaign),
		landingPages:    make(map[int64]domain.LandingPage),
		seoEntries:      make(map[int64]domain.SEOEntry),
		webhookLogs:     make([]domain.WebhookLog, 0, 64),
		usersByUsername: seedUsers(),
	}
}

// NewSeeded returns a store preloaded with a small services catalog and
// sample campaign data for dev/demo mode.
func NewSeeded() *Store {
	s := New()
	now := time.Now().UTC().UnixNano()

	offerings := []domain.ServiceOffering{
		{
			Name:        "Social Media Management",
			Category:    "social",
			Description: "Content planning, publishing and community management.",
			Tiers: []domain.ServiceTier{
				{Name: "Starter", PriceCents: 49900},
				{Name: "Growth", PriceCents: 99900},
				{Name: "Scale", PriceCents: 199900},
			},
			Addons: []domain.ServiceAddon{
				{Name: "Extra platform", PriceCents: 19900},
				{Name: "Monthly strategy call", PriceCents: 14900},
			},
			Active:    true,
			CreatedAt: now,
		},
		{
			Name:        "SEO Optimization",
			Category:    "seo",
			Description: "Technical audits, keyword research and on-page fixes.",
			Tiers: []domain.ServiceTier{
				{Name: "Audit", PriceCents: 79900},
				{Name: "Ongoing", PriceCents: 149900},
			},
			Addons: []domain.ServiceAddon{
				{Name: "Competitor analysis", PriceCents: 29900},
			},
			Active:    true,
			CreatedAt: now,
		},
		{
			Name:        "Paid Ads Management",
			Category:    "ads",
			Description: "Campaign setup, optimization and reporting across ad platforms.",
			Tiers: []domain.ServiceTier{
				{Name: "Single platform", PriceCents: 89900},
				{Name: "Multi platform", PriceCents: 159900},
			},
			Addons: []domain.ServiceAddon{
				{Name: "Landing page build", PriceCents: 59900},
			},
			Active:    true,
			CreatedAt: now,
		},
		{
			Name:        "Email Marketing",
			Category:    "email",
			Description: "Newsletter and drip campaign production.",
			Tiers: []domain.ServiceTier{
				{Name: "Monthly", PriceCents: 39900},
				{Name: "Weekly", PriceCents: 89900},
			},
			Addons:    []domain.ServiceAddon{},
			Active:    true,
			CreatedAt: now,
		},
	}
	for _, offering := range offerings {
		offering.ID = s.allocateID()
		s.offerings[offering.ID] = offering
	}

	leads := []domain.Lead{
		{Name: "Dana Whitfield", Email: "dana@brightline.example", Company: "Brightline Goods", Source: "referral", Status: domain.LeadStatusNew, CreatedAt: now, UpdatedAt: now},
		{Name: "Marcus Oyelaran", Email: "marcus@fernandpine.example", Company: "Fern & Pine Studio", Source: "website", Status: domain.LeadStatusContacted, CreatedAt: now, UpdatedAt: now},
	}
	for _, lead := range leads {
		lead.ID = s.allocateID()
		s.leads[lead.ID] = lead
	}

	campaigns := []domain.AdCampaign{
		{Name: "Spring Promo", Platform: "facebook", Status: domain.CampaignStatusActive, BudgetCents: 500000, SpendCents: 182000, Impressions: 124000, Clicks: 3600, Conversions: 85, CreatedAt: now},
		{Name: "Brand Search", Platform: "google", Status: domain.CampaignStatusActive, BudgetCents: 300000, SpendCents: 96000, Impressions: 41000, Clicks: 520, Conversions: 2, CreatedAt: now},
	}
	for _, campaign := range campaigns {
		campaign.ID = s.allocateID()
		s.adCampaigns[campaign.ID] = campaign
	}

	return s
}

// allocateID must be called with the write lock held or before the store is
// shared.
func (s *Store) allocateID() int64 {
	id := s.nextID
	s.nextID++
	return id
}

func (s *Store) ListLeads(_ context.Context) ([]domain.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	leads := make([]domain.Lead, 0, len(s.leads))
	for _, lead := range s.leads {
		leads = append(leads, lead)
	}
	slices.SortFunc(leads, func(a, b domain.Lead) int {
		return int(b.CreatedAt - a.CreatedAt)
	})
	return leads, nil
}

func (s *Store) CreateLead(_ context.Context, lead domain.Lead) (*domain.Lead, error) {
	if lead.Name == "" {
		return nil, store.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lead.ID = s.allocateID()
	s.leads[lead.ID] = lead
	created := lead
	return &created, nil
}

func (s *Store) GetLeadByID(_ context.Context, id int64) (*domain.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lead, exists := s.leads[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	copyLead := lead
	return &copyLead, nil
}

func (s *Store) UpdateLead(_ context.Context, lead domain.Lead) (*domain.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.leads[lead.ID]; !exists {
		return nil, store.ErrNotFound
	}
	s.leads[lead.ID] = lead
	updated := lead
	return &updated, nil
}

func (s *Store) DeleteLead(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.leads[id]; !exists {
		return store.ErrNotFound
	}
	delete(s.leads, id)
	return nil
}

func (s *Store) ListServiceOfferings(_ context.Context) ([]domain.ServiceOffering, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	offerings := make([]domain.ServiceOffering, 0, len(s.offerings))
	for _, offering := range s.offerings {
		if !offering.Active {
			continue
		}
		offerings = append(offerings, offering)
	}
	slices.SortFunc(offerings, func(a, b domain.ServiceOffering) int {
		if a.Category == b.Category {
			return cmpString(a.Name, b.Name)
		}
		return cmpString(a.Category, b.Category)
	})
	return offerings, nil
}

func (s *Store) CreateServiceOffering(_ context.Context, offering domain.ServiceOffering) (*domain.ServiceOffering, error) {
	if offering.Name == "" || offering.Category == "" {
		return nil, store.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	offering.ID = s.allocateID()
	offering.Active = true
	s.offerings[offering.ID] = offering
	created := offering
	return &created, nil
}

func (s *Store) GetServiceOfferingByID(_ context.Context, id int64) (*domain.ServiceOffering, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	offering, exists := s.offerings[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	copyOffering := offering
	return &copyOffering, nil
}

func (s *Store) UpdateServiceOffering(_ context.Context, offering domain.ServiceOffering) (*domain.ServiceOffering, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.offerings[offering.ID]; !exists {
		return nil, store.ErrNotFound
	}
	s.offerings[offering.ID] = offering
	updated := offering
	return &updated, nil
}

func (s *Store) DeleteServiceOffering(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.offerings[id]; !exists {
		return store.ErrNotFound
	}
	delete(s.offerings, id)
	return nil
}

func (s *Store) ListPosts(_ context.Context) ([]domain.SocialMediaPost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := make([]domain.SocialMediaPost, 0, len(s.posts))
	for _, post := range s.posts {
		posts = append(posts, post)
	}
	slices.SortFunc(posts, func(a, b domain.SocialMediaPost) int {
		return int(b.CreatedAt - a.CreatedAt)
	})
	return posts, nil
}

func (s *Store) CreatePost(_ context.Context, post domain.SocialMediaPost) (*domain.SocialMediaPost, error) {
	if post.Platform == "" || post.Content == "" {
		return nil, store.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	post.ID = s.allocateID()
	s.posts[post.ID] = post
	created := post
	return &created, nil
}

func (s *Store) GetPostByID(_ context.Context, id int64) (*domain.SocialMediaPost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, exists := s.posts[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	copyPost := post
	return &copyPost, nil
}

func (s *Store) UpdatePost(_ context.Context, post domain.SocialMediaPost) (*domain.SocialMediaPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.posts[post.ID]; !exists {
		return nil, store.ErrNotFound
	}
	s.posts[post.ID] = post
	updated := post
	return &updated, nil
}

func (s *Store) DeletePost(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.posts[id]; !exists {
		return store.ErrNotFound
	}
	delete(s.posts, id)
	return nil
}

func (s *Store) ListMetrics(_ context.Context) ([]domain.SocialMediaMetrics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	metrics := make([]domain.SocialMediaMetrics, 0, len(s.metrics))
	for _, m := range s.metrics {
		metrics = append(metrics, m)
	}
	slices.SortFunc(metrics, func(a, b domain.SocialMediaMetrics) int {
		return int(b.RecordedAt - a.RecordedAt)
	})
	return metrics, nil
}

func (s *Store) CreateMetrics(_ context.Context, metrics domain.SocialMediaMetrics) (*domain.SocialMediaMetrics, error) {
	if metrics.Platform == "" {
		return nil, store.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	metrics.ID = s.allocateID()
	s.metrics[metrics.ID] = metrics
	created := metrics
	return &created, nil
}

func (s *Store) DeleteMetrics(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.metrics[id]; !exists {
		return store.ErrNotFound
	}
	delete(s.metrics, id)
	return nil
}

func (s *Store) ListAdCampaigns(_ context.Context) ([]domain.AdCampaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	campaigns := make([]domain.AdCampaign, 0, len(s.adCampaigns))
	for _, campaign := range s.adCampaigns {
		campaigns = append(campaigns, campaign)
	}
	slices.SortFunc(campaigns, func(a, b domain.AdCampaign) int {
		return int(b.CreatedAt - a.CreatedAt)
	})
	return campaigns, nil
}

func (s *Store) CreateAdCampaign(_ context.Context, campaign domain.AdCampaign) (*domain.AdCampaign, error) {
	if campaign.Name == "" || campaign.Platform == "" {
		return nil, store.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	campaign.ID = s.allocateID()
	s.adCampaigns[campaign.ID] = campaign
	created := campaign
	return &created, nil
}

func (s *Store) GetAdCampaignByID(_ context.Context, id int64) (*domain.AdCampaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	campaign, exists := s.adCampaigns[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	copyCampaign := campaign
	return &copyCampaign, nil
}

func (s *Store) UpdateAdCampaign(_ context.Context, campaign domain.AdCampaign) (*domain.AdCampaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.adCampaigns[campaign.ID]; !exists {
		return nil, store.ErrNotFound
	}
	s.adCampaigns[campaign.ID] = campaign
	updated := campaign
	return &updated, nil
}

func (s *Store) DeleteAdCampaign(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.adCampaigns[id]; !exists {
		return store.ErrNotFound
	}
	delete(s.adCampaigns, id)
	return nil
}

func (s *Store) ListEmailCampaigns(_ context.Context) ([]domain.EmailCampaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	campaigns := make([]domain.EmailCampaign, 0, len(s.emailCampaigns))
	for _, campaign := range s.emailCampaigns {
		campaigns = append(campaigns, campaign)
	}
	slices.SortFunc(campaigns, func(a, b domain.EmailCampaign) int {
		return int(b.CreatedAt - a.CreatedAt)
	})
	return campaigns, nil
}

func (s *Store) CreateEmailCampaign(_ context.Context, campaign domain.EmailCampaign) (*domain.EmailCampaign, error) {
	if campaign.Name == "" || campaign.Subject == "" {
		return nil, store.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	campaign.ID = s.allocateID()
	s.emailCampaigns[campaign.ID] = campaign
	created := campaign
	return &created, nil
}

func (s *Store) GetEmailCampaignByID(_ context.Context, id int64) (*domain.EmailCampaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	campaign, exists := s.emailCampaigns[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	copyCampaign := campaign
	return &copyCampaign, nil
}

func (s *Store) UpdateEmailCampaign(_ context.Context, campaign domain.EmailCampaign) (*domain.EmailCampaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.emailCampaigns[campaign.ID]; !exists {
		return nil, store.ErrNotFound
	}
	s.emailCampaigns[campaign.ID] = campaign
	updated := campaign
	return &updated, nil
}

func (s *Store) DeleteEmailCampaign(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.emailCampaigns[id]; !exists {
		return store.ErrNotFound
	}
	delete(s.emailCampaigns, id)
	return nil
}

func (s *Store) ListLandingPages(_ context.Context) ([]domain.LandingPage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pages := make([]domain.LandingPage, 0, len(s.landingPages))
	for _, page := range s.landingPages {
		pages = append(pages, page)
	}
	slices.SortFunc(pages, func(a, b domain.LandingPage) int {
		return int(b.CreatedAt - a.CreatedAt)
	})
	return pages, nil
}

func (s *Store) CreateLandingPage(_ context.Context, page domain.LandingPage) (*domain.LandingPage, error) {
	if page.Name == "" || page.Slug == "" {
		return nil, store.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.landingPages {
		if existing.Slug == page.Slug {
			return nil, store.ErrInvalidInput
		}
	}

	page.ID = s.allocateID()
	s.landingPages[page.ID] = page
	created := page
	return &created, nil
}

func (s *Store) GetLandingPageByID(_ context.Context, id int64) (*domain.LandingPage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	page, exists := s.landingPages[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	copyPage := page
	return &copyPage, nil
}

func (s *Store) UpdateLandingPage(_ context.Context, page domain.LandingPage) (*domain.LandingPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.landingPages[page.ID]; !exists {
		return nil, store.ErrNotFound
	}
	s.landingPages[page.ID] = page
	updated := page
	return &updated, nil
}

func (s *Store) DeleteLandingPage(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.landingPages[id]; !exists {
		return store.ErrNotFound
	}
	delete(s.landingPages, id)
	return nil
}

func (s *Store) ListSEOEntries(_ context.Context) ([]domain.SEOEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]domain.SEOEntry, 0, len(s.seoEntries))
	for _, entry := range s.seoEntries {
		entries = append(entries, entry)
	}
	slices.SortFunc(entries, func(a, b domain.SEOEntry) int {
		return cmpString(a.Keyword, b.Keyword)
	})
	return entries, nil
}

func (s *Store) CreateSEOEntry(_ context.Context, entry domain.SEOEntry) (*domain.SEOEntry, error) {
	if entry.Keyword == "" {
		return nil, store.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry.ID = s.allocateID()
	s.seoEntries[entry.ID] = entry
	created := entry
	return &created, nil
}

func (s *Store) GetSEOEntryByID(_ context.Context, id int64) (*domain.SEOEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, exists := s.seoEntries[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	copyEntry := entry
	return &copyEntry, nil
}

func (s *Store) UpdateSEOEntry(_ context.Context, entry domain.SEOEntry) (*domain.SEOEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.seoEntries[entry.ID]; !exists {
		return nil, store.ErrNotFound
	}
	s.seoEntries[entry.ID] = entry
	updated := entry
	return &updated, nil
}

func (s *Store) DeleteSEOEntry(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.seoEntries[id]; !exists {
		return store.ErrNotFound
	}
	delete(s.seoEntries, id)
	return nil
}

func (s *Store) CreateWebhookLog(_ context.Context, entry domain.WebhookLog) (*domain.WebhookLog, error) {
	if entry.ToolName == "" {
		return nil, store.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry.ID = s.allocateID()
	s.webhookLogs = append(s.webhookLogs, entry)
	created := entry
	return &created, nil
}

func (s *Store) ListWebhookLogs(_ context.Context, limit int) ([]domain.WebhookLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	logs := make([]domain.WebhookLog, len(s.webhookLogs))
	copy(logs, s.webhookLogs)
	slices.SortFunc(logs, func(a, b domain.WebhookLog) int {
		return int(b.ReceivedAt - a.ReceivedAt)
	})
	if limit > 0 && len(logs) > limit {
		logs = logs[:limit]
	}
	return logs, nil
}

func (s *Store) ClearWebhookLogs(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.webhookLogs = s.webhookLogs[:0]
	return nil
}

func (s *Store) CreateUser(_ context.Context, user domain.UserAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user.Username == "" {
		return store.ErrInvalidInput
	}
	if _, exists := s.usersByUsername[user.Username]; exists {
		return store.ErrInvalidInput
	}
	s.usersByUsername[user.Username] = user
	return nil
}

func (s *Store) ListUsers(_ context.Context) ([]domain.UserAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]domain.UserAccount, 0, len(s.usersByUsername))
	for _, user := range s.usersByUsername {
		users = append(users, user)
	}
	slices.SortFunc(users, func(a, b domain.UserAccount) int {
		return cmpString(a.Username, b.Username)
	})
	return users, nil
}

func (s *Store) UpdateUserPassword(_ context.Context, username string, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.usersByUsername[username]
	if !exists {
		return store.ErrNotFound
	}
	user.Password = password
	s.usersByUsername[username] = user
	return nil
}

func cmpString(a string, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
