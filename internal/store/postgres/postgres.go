package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"agencydash/backend/internal/domain"
	"agencydash/backend/internal/store"
)

// Store is the PostgreSQL-backed repository. Timestamps on dashboard entities
// are stored as BIGINT nanoseconds since epoch, matching the wire format.
type Store struct {
	db *sql.DB
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(8)
	db.SetMaxOpenConns(30)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ListLeads(ctx context.Context) ([]domain.Lead, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, phone, company, source, status, notes, created_at, updated_at
		FROM leads
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := make([]domain.Lead, 0, 64)
	for rows.Next() {
		var lead domain.Lead
		if err := rows.Scan(&lead.ID, &lead.Name, &lead.Email, &lead.Phone, &lead.Company, &lead.Source, &lead.Status, &lead.Notes, &lead.CreatedAt, &lead.UpdatedAt); err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return leads, nil
}

func (s *Store) CreateLead(ctx context.Context, lead domain.Lead) (*domain.Lead, error) {
	if lead.Name == "" {
		return nil, store.ErrInvalidInput
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO leads (name, email, phone, company, source, status, notes, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id
	`, lead.Name, lead.Email, lead.Phone, lead.Company, lead.Source, lead.Status, lead.Notes, lead.CreatedAt, lead.UpdatedAt).Scan(&lead.ID)
	if err != nil {
		return nil, err
	}
	created := lead
	return &created, nil
}

func (s *Store) GetLeadByID(ctx context.Context, id int64) (*domain.Lead, error) {
	var lead domain.Lead
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, phone, company, source, status, notes, created_at, updated_at
		FROM leads
		WHERE id = $1
	`, id).Scan(&lead.ID, &lead.Name, &lead.Email, &lead.Phone, &lead.Company, &lead.Source, &lead.Status, &lead.Notes, &lead.CreatedAt, &lead.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &lead, nil
}

func (s *Store) UpdateLead(ctx context.Context, lead domain.Lead) (*domain.Lead, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE leads
		SET name = $2, email = $3, phone = $4, company = $5, source = $6, status = $7, notes = $8, updated_at = $9
		WHERE id = $1
	`, lead.ID, lead.Name, lead.Email, lead.Phone, lead.Company, lead.Source, lead.Status, lead.Notes, lead.UpdatedAt)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}

	updated := lead
	return &updated, nil
}

func (s *Store) DeleteLead(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "leads", id)
}

func (s *Store) ListServiceOfferings(ctx context.Context) ([]domain.ServiceOffering, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, category, description, tiers, addons, active, created_at
		FROM service_offerings
		WHERE active = true
		ORDER BY category, name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	offerings := make([]domain.ServiceOffering, 0, 16)
	for rows.Next() {
		offering, err := scanOffering(rows)
		if err != nil {
			return nil, err
		}
		offerings = append(offerings, *offering)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return offerings, nil
}

func (s *Store) CreateServiceOffering(ctx context.Context, offering domain.ServiceOffering) (*domain.ServiceOffering, error) {
	if offering.Name == "" || offering.Category == "" {
		return nil, store.ErrInvalidInput
	}

	tiersJSON, addonsJSON, err := marshalOfferingParts(offering)
	if err != nil {
		return nil, store.ErrInvalidInput
	}

	offering.Active = true
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO service_offerings (name, category, description, tiers, addons, active, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id
	`, offering.Name, offering.Category, offering.Description, tiersJSON, addonsJSON, offering.Active, offering.CreatedAt).Scan(&offering.ID)
	if err != nil {
		return nil, err
	}
	created := offering
	return &created, nil
}

func (s *Store) GetServiceOfferingByID(ctx context.Context, id int64) (*domain.ServiceOffering, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, category, description, tiers, addons, active, created_at
		FROM service_offerings
		WHERE id = $1
	`, id)
	offering, err := scanOffering(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return offering, nil
}

func (s *Store) UpdateServiceOffering(ctx context.Context, offering domain.ServiceOffering) (*domain.ServiceOffering, error) {
	if offering.Name == "" || offering.Category == "" {
		return nil, store.ErrInvalidInput
	}

	tiersJSON, addonsJSON, err := marshalOfferingParts(offering)
	if err != nil {
		return nil, store.ErrInvalidInput
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE service_offerings
		SET name = $2, category = $3, description = $4, tiers = $5, addons = $6, active = $7
		WHERE id = $1
	`, offering.ID, offering.Name, offering.Category, offering.Description, tiersJSON, addonsJSON, offering.Active)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}

	updated := offering
	return &updated, nil
}

func (s *Store) DeleteServiceOffering(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "service_offerings", id)
}

func (s *Store) ListPosts(ctx context.Context) ([]domain.SocialMediaPost, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, platform, title, content, media_url, status, scheduled_at, created_at, updated_at
		FROM social_media_posts
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]domain.SocialMediaPost, 0, 64)
	for rows.Next() {
		var post domain.SocialMediaPost
		if err := rows.Scan(&post.ID, &post.Platform, &post.Title, &post.Content, &post.MediaURL, &post.Status, &post.ScheduledAt, &post.CreatedAt, &post.UpdatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *Store) CreatePost(ctx context.Context, post domain.SocialMediaPost) (*domain.SocialMediaPost, error) {
	if post.Platform == "" || post.Content == "" {
		return nil, store.ErrInvalidInput
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO social_media_posts (platform, title, content, media_url, status, scheduled_at, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id
	`, post.Platform, post.Title, post.Content, post.MediaURL, post.Status, post.ScheduledAt, post.CreatedAt, post.UpdatedAt).Scan(&post.ID)
	if err != nil {
		return nil, err
	}
	created := post
	return &created, nil
}

func (s *Store) GetPostByID(ctx context.Context, id int64) (*domain.SocialMediaPost, error) {
	var post domain.SocialMediaPost
	err := s.db.QueryRowContext(ctx, `
		SELECT id, platform, title, content, media_url, status, scheduled_at, created_at, updated_at
		FROM social_media_posts
		WHERE id = $1
	`, id).Scan(&post.ID, &post.Platform, &post.Title, &post.Content, &post.MediaURL, &post.Status, &post.ScheduledAt, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (s *Store) UpdatePost(ctx context.Context, post domain.SocialMediaPost) (*domain.SocialMediaPost, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE social_media_posts
		SET platform = $2, title = $3, content = $4, media_url = $5, status = $6, scheduled_at = $7, updated_at = $8
		WHERE id = $1
	`, post.ID, post.Platform, post.Title, post.Content, post.MediaURL, post.Status, post.ScheduledAt, post.UpdatedAt)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}

	updated := post
	return &updated, nil
}

func (s *Store) DeletePost(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "social_media_posts", id)
}

func (s *Store) ListMetrics(ctx context.Context) ([]domain.SocialMediaMetrics, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, post_id, platform, impressions, clicks, likes, shares, comments, recorded_at
		FROM social_media_metrics
		ORDER BY recorded_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	metrics := make([]domain.SocialMediaMetrics, 0, 64)
	for rows.Next() {
		var m domain.SocialMediaMetrics
		if err := rows.Scan(&m.ID, &m.PostID, &m.Platform, &m.Impressions, &m.Clicks, &m.Likes, &m.Shares, &m.Comments, &m.RecordedAt); err != nil {
			return nil, err
		}
		metrics = append(metrics, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return metrics, nil
}

func (s *Store) CreateMetrics(ctx context.Context, metrics domain.SocialMediaMetrics) (*domain.SocialMediaMetrics, error) {
	if metrics.Platform == "" {
		return nil, store.ErrInvalidInput
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO social_media_metrics (post_id, platform, impressions, clicks, likes, shares, comments, recorded_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id
	`, metrics.PostID, metrics.Platform, metrics.Impressions, metrics.Clicks, metrics.Likes, metrics.Shares, metrics.Comments, metrics.RecordedAt).Scan(&metrics.ID)
	if err != nil {
		return nil, err
	}
	created := metrics
	return &created, nil
}

func (s *Store) DeleteMetrics(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "social_media_metrics", id)
}

func (s *Store) ListAdCampaigns(ctx context.Context) ([]domain.AdCampaign, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, platform, status, budget_cents, spend_cents, impressions, clicks, conversions, start_at, end_at, created_at
		FROM ad_campaigns
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	campaigns := make([]domain.AdCampaign, 0, 32)
	for rows.Next() {
		var c domain.AdCampaign
		if err := rows.Scan(&c.ID, &c.Name, &c.Platform, &c.Status, &c.BudgetCents, &c.SpendCents, &c.Impressions, &c.Clicks, &c.Conversions, &c.StartAt, &c.EndAt, &c.CreatedAt); err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return campaigns, nil
}

func (s *Store) CreateAdCampaign(ctx context.Context, campaign domain.AdCampaign) (*domain.AdCampaign, error) {
	if campaign.Name == "" || campaign.Platform == "" {
		return nil, store.ErrInvalidInput
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO ad_campaigns (name, platform, status, budget_cents, spend_cents, impressions, clicks, conversions, start_at, end_at, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id
	`, campaign.Name, campaign.Platform, campaign.Status, campaign.BudgetCents, campaign.SpendCents, campaign.Impressions, campaign.Clicks, campaign.Conversions, campaign.StartAt, campaign.EndAt, campaign.CreatedAt).Scan(&campaign.ID)
	if err != nil {
		return nil, err
	}
	created := campaign
	return &created, nil
}

func (s *Store) GetAdCampaignByID(ctx context.Context, id int64) (*domain.AdCampaign, error) {
	var c domain.AdCampaign
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, platform, status, budget_cents, spend_cents, impressions, clicks, conversions, start_at, end_at, created_at
		FROM ad_campaigns
		WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Platform, &c.Status, &c.BudgetCents, &c.SpendCents, &c.Impressions, &c.Clicks, &c.Conversions, &c.StartAt, &c.EndAt, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *Store) UpdateAdCampaign(ctx context.Context, campaign domain.AdCampaign) (*domain.AdCampaign, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE ad_campaigns
		SET name = $2, platform = $3, status = $4, budget_cents = $5, spend_cents = $6,
			impressions = $7, clicks = $8, conversions = $9, start_at = $10, end_at = $11
		WHERE id = $1
	`, campaign.ID, campaign.Name, campaign.Platform, campaign.Status, campaign.BudgetCents, campaign.SpendCents, campaign.Impressions, campaign.Clicks, campaign.Conversions, campaign.StartAt, campaign.EndAt)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}

	updated := campaign
	return &updated, nil
}

func (s *Store) DeleteAdCampaign(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "ad_campaigns", id)
}

func (s *Store) ListEmailCampaigns(ctx context.Context) ([]domain.EmailCampaign, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, subject, status, recipients, opens, clicks, sent_at, created_at
		FROM email_campaigns
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	campaigns := make([]domain.EmailCampaign, 0, 32)
	for rows.Next() {
		var c domain.EmailCampaign
		if err := rows.Scan(&c.ID, &c.Name, &c.Subject, &c.Status, &c.Recipients, &c.Opens, &c.Clicks, &c.SentAt, &c.CreatedAt); err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return campaigns, nil
}

func (s *Store) CreateEmailCampaign(ctx context.Context, campaign domain.EmailCampaign) (*domain.EmailCampaign, error) {
	if campaign.Name == "" || campaign.Subject == "" {
		return nil, store.ErrInvalidInput
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO email_campaigns (name, subject, status, recipients, opens, clicks, sent_at, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id
	`, campaign.Name, campaign.Subject, campaign.Status, campaign.Recipients, campaign.Opens, campaign.Clicks, campaign.SentAt, campaign.CreatedAt).Scan(&campaign.ID)
	if err != nil {
		return nil, err
	}
	created := campaign
	return &created, nil
}

func (s *Store) GetEmailCampaignByID(ctx context.Context, id int64) (*domain.EmailCampaign, error) {
	var c domain.EmailCampaign
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, subject, status, recipients, opens, clicks, sent_at, created_at
		FROM email_campaigns
		WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Subject, &c.Status, &c.Recipients, &c.Opens, &c.Clicks, &c.SentAt, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *Store) UpdateEmailCampaign(ctx context.Context, campaign domain.EmailCampaign) (*domain.EmailCampaign, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE email_campaigns
		SET name = $2, subject = $3, status = $4, recipients = $5, opens = $6, clicks = $7, sent_at = $8
		WHERE id = $1
	`, campaign.ID, campaign.Name, campaign.Subject, campaign.Status, campaign.Recipients, campaign.Opens, campaign.Clicks, campaign.SentAt)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}

	updated := campaign
	return &updated, nil
}

func (s *Store) DeleteEmailCampaign(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "email_campaigns", id)
}

func (s *Store) ListLandingPages(ctx context.Context) ([]domain.LandingPage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, slug, url, status, visits, conversions, created_at, updated_at
		FROM landing_pages
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pages := make([]domain.LandingPage, 0, 32)
	for rows.Next() {
		var p domain.LandingPage
		if err := rows.Scan(&p.ID, &p.Name, &p.Slug, &p.URL, &p.Status, &p.Visits, &p.Conversions, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return pages, nil
}

func (s *Store) CreateLandingPage(ctx context.Context, page domain.LandingPage) (*domain.LandingPage, error) {
	if page.Name == "" || page.Slug == "" {
		return nil, store.ErrInvalidInput
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO landing_pages (name, slug, url, status, visits, conversions, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id
	`, page.Name, page.Slug, page.URL, page.Status, page.Visits, page.Conversions, page.CreatedAt, page.UpdatedAt).Scan(&page.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrInvalidInput
		}
		return nil, err
	}
	created := page
	return &created, nil
}

func (s *Store) GetLandingPageByID(ctx context.Context, id int64) (*domain.LandingPage, error) {
	var p domain.LandingPage
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, slug, url, status, visits, conversions, created_at, updated_at
		FROM landing_pages
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.Slug, &p.URL, &p.Status, &p.Visits, &p.Conversions, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Store) UpdateLandingPage(ctx context.Context, page domain.LandingPage) (*domain.LandingPage, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE landing_pages
		SET name = $2, slug = $3, url = $4, status = $5, visits = $6, conversions = $7, updated_at = $8
		WHERE id = $1
	`, page.ID, page.Name, page.Slug, page.URL, page.Status, page.Visits, page.Conversions, page.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrInvalidInput
		}
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}

	updated := page
	return &updated, nil
}

func (s *Store) DeleteLandingPage(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "landing_pages", id)
}

func (s *Store) ListSEOEntries(ctx context.Context) ([]domain.SEOEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, keyword, target_url, position, search_volume, difficulty, created_at, updated_at
		FROM seo_entries
		ORDER BY keyword ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]domain.SEOEntry, 0, 64)
	for rows.Next() {
		var e domain.SEOEntry
		if err := rows.Scan(&e.ID, &e.Keyword, &e.TargetURL, &e.Position, &e.SearchVolume, &e.Difficulty, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *Store) CreateSEOEntry(ctx context.Context, entry domain.SEOEntry) (*domain.SEOEntry, error) {
	if entry.Keyword == "" {
		return nil, store.ErrInvalidInput
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO seo_entries (keyword, target_url, position, search_volume, difficulty, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id
	`, entry.Keyword, entry.TargetURL, entry.Position, entry.SearchVolume, entry.Difficulty, entry.CreatedAt, entry.UpdatedAt).Scan(&entry.ID)
	if err != nil {
		return nil, err
	}
	created := entry
	return &created, nil
}

func (s *Store) GetSEOEntryByID(ctx context.Context, id int64) (*domain.SEOEntry, error) {
	var e domain.SEOEntry
	err := s.db.QueryRowContext(ctx, `
		SELECT id, keyword, target_url, position, search_volume, difficulty, created_at, updated_at
		FROM seo_entries
		WHERE id = $1
	`, id).Scan(&e.ID, &e.Keyword, &e.TargetURL, &e.Position, &e.SearchVolume, &e.Difficulty, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (s *Store) UpdateSEOEntry(ctx context.Context, entry domain.SEOEntry) (*domain.SEOEntry, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE seo_entries
		SET keyword = $2, target_url = $3, position = $4, search_volume = $5, difficulty = $6, updated_at = $7
		WHERE id = $1
	`, entry.ID, entry.Keyword, entry.TargetURL, entry.Position, entry.SearchVolume, entry.Difficulty, entry.UpdatedAt)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}

	updated := entry
	return &updated, nil
}

func (s *Store) DeleteSEOEntry(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "seo_entries", id)
}

func (s *Store) CreateWebhookLog(ctx context.Context, entry domain.WebhookLog) (*domain.WebhookLog, error) {
	if entry.ToolName == "" {
		return nil, store.ErrInvalidInput
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO webhook_logs (tool_name, source, payload, received_at)
		VALUES ($1,$2,$3,$4)
		RETURNING id
	`, entry.ToolName, entry.Source, entry.Payload, entry.ReceivedAt).Scan(&entry.ID)
	if err != nil {
		return nil, err
	}
	created := entry
	return &created, nil
}

func (s *Store) ListWebhookLogs(ctx context.Context, limit int) ([]domain.WebhookLog, error) {
	if limit < 1 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, tool_name, source, payload, received_at
		FROM webhook_logs
		ORDER BY received_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]domain.WebhookLog, 0, limit)
	for rows.Next() {
		var entry domain.WebhookLog
		if err := rows.Scan(&entry.ID, &entry.ToolName, &entry.Source, &entry.Payload, &entry.ReceivedAt); err != nil {
			return nil, err
		}
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}

func (s *Store) ClearWebhookLogs(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM webhook_logs`)
	return err
}

func (s *Store) CreateUser(ctx context.Context, user domain.UserAccount) error {
	user.Username = strings.ToLower(strings.TrimSpace(user.Username))
	if user.Username == "" || strings.TrimSpace(user.Password) == "" {
		return store.ErrInvalidInput
	}
	if user.Role == "" {
		user.Role = "member"
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO app_users (username, password, role, active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,now())
	`, user.Username, user.Password, user.Role, user.Active, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrInvalidInput
		}
		return err
	}
	return nil
}

func (s *Store) ListUsers(ctx context.Context) ([]domain.UserAccount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT username, password, role, active, created_at
		FROM app_users
		ORDER BY username ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.UserAccount, 0, 16)
	for rows.Next() {
		var user domain.UserAccount
		if err := rows.Scan(&user.Username, &user.Password, &user.Role, &user.Active, &user.CreatedAt); err != nil {
			return nil, err
		}
		user.CreatedAt = user.CreatedAt.UTC()
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) UpdateUserPassword(ctx context.Context, username string, password string) error {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || strings.TrimSpace(password) == "" {
		return store.ErrInvalidInput
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE app_users
		SET password = $2, updated_at = now()
		WHERE username = $1
	`, username, password)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// deleteByID covers the uniform delete path shared by all dashboard tables.
// Table names are compile-time constants at every call site.
func (s *Store) deleteByID(ctx context.Context, table string, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOffering(row rowScanner) (*domain.ServiceOffering, error) {
	var offering domain.ServiceOffering
	var tiersJSON, addonsJSON []byte
	if err := row.Scan(&offering.ID, &offering.Name, &offering.Category, &offering.Description, &tiersJSON, &addonsJSON, &offering.Active, &offering.CreatedAt); err != nil {
		return nil, err
	}
	if len(tiersJSON) > 0 {
		if err := json.Unmarshal(tiersJSON, &offering.Tiers); err != nil {
			return nil, err
		}
	}
	if len(addonsJSON) > 0 {
		if err := json.Unmarshal(addonsJSON, &offering.Addons); err != nil {
			return nil, err
		}
	}
	return &offering, nil
}

func marshalOfferingParts(offering domain.ServiceOffering) ([]byte, []byte, error) {
	if offering.Tiers == nil {
		offering.Tiers = []domain.ServiceTier{}
	}
	if offering.Addons == nil {
		offering.Addons = []domain.ServiceAddon{}
	}
	tiersJSON, err := json.Marshal(offering.Tiers)
	if err != nil {
		return nil, nil, err
	}
	addonsJSON, err := json.Marshal(offering.Addons)
	if err != nil {
		return nil, nil, err
	}
	return tiersJSON, addonsJSON, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
