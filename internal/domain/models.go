package domain

import (
	"strings"
	"time"
)

type Lead struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Company   string `json:"company"`
	Source    string `json:"source"`
	Status    string `json:"status"`
	Notes     string `json:"notes"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

type LeadCreateRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Source  string `json:"source"`
	Notes   string `json:"notes"`
}

type LeadUpdateRequest struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Company *string `json:"company,omitempty"`
	Source  *string `json:"source,omitempty"`
	Status  *string `json:"status,omitempty"`
	Notes   *string `json:"notes,omitempty"`
}

type ServiceTier struct {
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
}

type ServiceAddon struct {
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
}

type ServiceOffering struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Category    string         `json:"category"`
	Description string         `json:"description"`
	Tiers       []ServiceTier  `json:"tiers"`
	Addons      []ServiceAddon `json:"addons"`
	Active      bool           `json:"active"`
	CreatedAt   int64          `json:"created_at"`
}

type ServiceOfferingCreateRequest struct {
	Name        string         `json:"name"`
	Category    string         `json:"category"`
	Description string         `json:"description"`
	Tiers       []ServiceTier  `json:"tiers"`
	Addons      []ServiceAddon `json:"addons"`
}

type ServiceOfferingUpdateRequest struct {
	Name        *string         `json:"name,omitempty"`
	Category    *string         `json:"category,omitempty"`
	Description *string         `json:"description,omitempty"`
	Tiers       *[]ServiceTier  `json:"tiers,omitempty"`
	Addons      *[]ServiceAddon `json:"addons,omitempty"`
	Active      *bool           `json:"active,omitempty"`
}

type SocialMediaPost struct {
	ID          int64  `json:"id"`
	Platform    string `json:"platform"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	MediaURL    string `json:"media_url"`
	Status      string `json:"status"`
	ScheduledAt int64  `json:"scheduled_at"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
}

type SocialMediaPostCreateRequest struct {
	Platform    string `json:"platform"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	MediaURL    string `json:"media_url"`
	Status      string `json:"status"`
	ScheduledAt int64  `json:"scheduled_at"`
}

type SocialMediaPostUpdateRequest struct {
	Platform    *string `json:"platform,omitempty"`
	Title       *string `json:"title,omitempty"`
	Content     *string `json:"content,omitempty"`
	MediaURL    *string `json:"media_url,omitempty"`
	Status      *string `json:"status,omitempty"`
	ScheduledAt *int64  `json:"scheduled_at,omitempty"`
}

type SocialMediaMetrics struct {
	ID          int64  `json:"id"`
	PostID      int64  `json:"post_id"`
	Platform    string `json:"platform"`
	Impressions int64  `json:"impressions"`
	Clicks      int64  `json:"clicks"`
	Likes       int64  `json:"likes"`
	Shares      int64  `json:"shares"`
	Comments    int64  `json:"comments"`
	RecordedAt  int64  `json:"recorded_at"`
}

type SocialMediaMetricsCreateRequest struct {
	PostID      int64  `json:"post_id"`
	Platform    string `json:"platform"`
	Impressions int64  `json:"impressions"`
	Clicks      int64  `json:"clicks"`
	Likes       int64  `json:"likes"`
	Shares      int64  `json:"shares"`
	Comments    int64  `json:"comments"`
}

type AdCampaign struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Platform    string `json:"platform"`
	Status      string `json:"status"`
	BudgetCents int64  `json:"budget_cents"`
	SpendCents  int64  `json:"spend_cents"`
	Impressions int64  `json:"impressions"`
	Clicks      int64  `json:"clicks"`
	Conversions int64  `json:"conversions"`
	StartAt     int64  `json:"start_at"`
	EndAt       int64  `json:"end_at"`
	CreatedAt   int64  `json:"created_at"`
}

type AdCampaignCreateRequest struct {
	Name        string `json:"name"`
	Platform    string `json:"platform"`
	BudgetCents int64  `json:"budget_cents"`
	StartAt     int64  `json:"start_at"`
	EndAt       int64  `json:"end_at"`
}

type AdCampaignUpdateRequest struct {
	Name        *string `json:"name,omitempty"`
	Platform    *string `json:"platform,omitempty"`
	Status      *string `json:"status,omitempty"`
	BudgetCents *int64  `json:"budget_cents,omitempty"`
	SpendCents  *int64  `json:"spend_cents,omitempty"`
	Impressions *int64  `json:"impressions,omitempty"`
	Clicks      *int64  `json:"clicks,omitempty"`
	Conversions *int64  `json:"conversions,omitempty"`
	StartAt     *int64  `json:"start_at,omitempty"`
	EndAt       *int64  `json:"end_at,omitempty"`
}

type EmailCampaign struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Subject    string `json:"subject"`
	Status     string `json:"status"`
	Recipients int64  `json:"recipients"`
	Opens      int64  `json:"opens"`
	Clicks     int64  `json:"clicks"`
	SentAt     int64  `json:"sent_at"`
	CreatedAt  int64  `json:"created_at"`
}

type EmailCampaignCreateRequest struct {
	Name       string `json:"name"`
	Subject    string `json:"subject"`
	Recipients int64  `json:"recipients"`
}

type EmailCampaignUpdateRequest struct {
	Name       *string `json:"name,omitempty"`
	Subject    *string `json:"subject,omitempty"`
	Status     *string `json:"status,omitempty"`
	Recipients *int64  `json:"recipients,omitempty"`
	Opens      *int64  `json:"opens,omitempty"`
	Clicks     *int64  `json:"clicks,omitempty"`
	SentAt     *int64  `json:"sent_at,omitempty"`
}

type LandingPage struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	URL         string `json:"url"`
	Status      string `json:"status"`
	Visits      int64  `json:"visits"`
	Conversions int64  `json:"conversions"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
}

type LandingPageCreateRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
	URL  string `json:"url"`
}

type LandingPageUpdateRequest struct {
	Name        *string `json:"name,omitempty"`
	Slug        *string `json:"slug,omitempty"`
	URL         *string `json:"url,omitempty"`
	Status      *string `json:"status,omitempty"`
	Visits      *int64  `json:"visits,omitempty"`
	Conversions *int64  `json:"conversions,omitempty"`
}

type SEOEntry struct {
	ID           int64  `json:"id"`
	Keyword      string `json:"keyword"`
	TargetURL    string `json:"target_url"`
	Position     int64  `json:"position"`
	SearchVolume int64  `json:"search_volume"`
	Difficulty   int64  `json:"difficulty"`
	CreatedAt    int64  `json:"created_at"`
	UpdatedAt    int64  `json:"updated_at"`
}

type SEOEntryCreateRequest struct {
	Keyword      string `json:"keyword"`
	TargetURL    string `json:"target_url"`
	Position     int64  `json:"position"`
	SearchVolume int64  `json:"search_volume"`
	Difficulty   int64  `json:"difficulty"`
}

type SEOEntryUpdateRequest struct {
	Keyword      *string `json:"keyword,omitempty"`
	TargetURL    *string `json:"target_url,omitempty"`
	Position     *int64  `json:"position,omitempty"`
	SearchVolume *int64  `json:"search_volume,omitempty"`
	Difficulty   *int64  `json:"difficulty,omitempty"`
}

// WebhookLog records a webhook received from an external tool.
type WebhookLog struct {
	ID         int64  `json:"id"`
	ToolName   string `json:"tool_name"`
	Source     string `json:"source"`
	Payload    string `json:"payload"`
	ReceivedAt int64  `json:"received_at"`
}

type ReceiveWebhookRequest struct {
	ToolName string `json:"tool_name"`
	Payload  string `json:"payload"`
	Source   string `json:"source"`
}

type ExportBundle struct {
	Posts       []SocialMediaPost    `json:"posts"`
	Metrics     []SocialMediaMetrics `json:"metrics"`
	WebhookLogs []WebhookLog         `json:"webhook_logs"`
}

// CartItem is a persisted cart line. TotalPriceCents must always equal
// UnitPriceCents * Quantity; only the quantity-update path recomputes it.
type CartItem struct {
	ID              string   `json:"id"`
	ServiceID       int64    `json:"service_id"`
	ServiceName     string   `json:"service_name"`
	SelectedTier    string   `json:"selected_tier"`
	SelectedAddons  []string `json:"selected_addons"`
	Quantity        int      `json:"quantity"`
	UnitPriceCents  int64    `json:"unit_price_cents"`
	TotalPriceCents int64    `json:"total_price_cents"`
}

// CartView bundles the cart lines with their derived totals; totals are
// recomputed on every read.
type CartView struct {
	Items           []CartItem `json:"items"`
	TotalItems      int        `json:"total_items"`
	GrandTotalCents int64      `json:"grand_total_cents"`
}

type CheckoutResult struct {
	Items           []CartItem `json:"items"`
	TotalItems      int        `json:"total_items"`
	GrandTotalCents int64      `json:"grand_total_cents"`
	CompletedAt     string     `json:"completed_at"`
}

// Credential pairs a stored value with an enabled flag. A credential only
// gates outbound calls when the value is non-empty and the flag is on.
type Credential struct {
	Value   string `json:"value"`
	Enabled bool   `json:"enabled"`
}

func (c Credential) Active() bool {
	return c.Enabled && strings.TrimSpace(c.Value) != ""
}

type IntegrationConfig struct {
	APIEndpoint          Credential `json:"api_endpoint"`
	APIKey               Credential `json:"api_key"`
	MessagingToken       Credential `json:"messaging_token"`
	PaymentKey           Credential `json:"payment_key"`
	PaymentSecret        Credential `json:"payment_secret"`
	EmailAPIKey          Credential `json:"email_api_key"`
	CRMWebhookURL        Credential `json:"crm_webhook_url"`
	AutomationWebhookURL Credential `json:"automation_webhook_url"`
	SchedulingURL        Credential `json:"scheduling_url"`
}

type AutomationToggles struct {
	LeadAlerts           bool `json:"lead_alerts"`
	CampaignReports      bool `json:"campaign_reports"`
	PostReminders        bool `json:"post_reminders"`
	PaymentNotifications bool `json:"payment_notifications"`
	WeeklyDigest         bool `json:"weekly_digest"`
}

// PostingWindow orders already-scheduled posts for display. It does not
// itself schedule or publish anything.
type PostingWindow struct {
	Platform string `json:"platform"`
	Day      string `json:"day"`
	Time     string `json:"time"`
}

type HealthThresholds struct {
	MinCTR         float64 `json:"min_ctr"`
	MinConversions int64   `json:"min_conversions"`
}

type AutopilotConfig struct {
	PostingWindows  []PostingWindow  `json:"posting_windows"`
	Thresholds      HealthThresholds `json:"thresholds"`
	SummarySchedule string           `json:"summary_schedule"`
	LastSummaryAt   *int64           `json:"last_summary_at,omitempty"`
}

type Goal struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	CreatedAt int64  `json:"created_at"`
}

type Task struct {
	ID        string `json:"id"`
	GoalID    string `json:"goal_id"`
	Text      string `json:"text"`
	Priority  string `json:"priority"`
	DueDate   string `json:"due_date,omitempty"`
	Completed bool   `json:"completed"`
	Order     int    `json:"order"`
	CreatedAt int64  `json:"created_at"`
}

type TaskUpdateRequest struct {
	Text      *string `json:"text,omitempty"`
	Priority  *string `json:"priority,omitempty"`
	DueDate   *string `json:"due_date,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
	Order     *int    `json:"order,omitempty"`
}

// WebhookCallEntry records one outbound HTTP call made for an automation or
// payment trigger. PayloadSummary keeps only the first 100 characters of the
// serialized payload.
type WebhookCallEntry struct {
	ID             string `json:"id"`
	Timestamp      string `json:"timestamp"`
	Tool           string `json:"tool"`
	URL            string `json:"url"`
	PayloadSummary string `json:"payload_summary"`
	StatusCode     int    `json:"status_code"`
	Success        bool   `json:"success"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
	ExpiresAt   string `json:"expires_at"`
}

type Actor struct {
	Username string
	Role     string
}

type ProfileResponse struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// UserAccount is an internal persistence model for auth credentials.
type UserAccount struct {
	Username  string
	Password  string
	Role      string
	Active    bool
	CreatedAt time.Time
}

type MemberCreateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type MemberUser struct {
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	LeadStatusNew       = "new"
	LeadStatusContacted = "contacted"
	LeadStatusQualified = "qualified"
	LeadStatusWon       = "won"
	LeadStatusLost      = "lost"
)

const (
	PostStatusDraft     = "draft"
	PostStatusScheduled = "scheduled"
	PostStatusPublished = "published"
)

const (
	CampaignStatusDraft  = "draft"
	CampaignStatusActive = "active"
	CampaignStatusPaused = "paused"
	CampaignStatusEnded  = "ended"
)

const (
	PageStatusDraft     = "draft"
	PageStatusPublished = "published"
)

const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

const (
	HealthHealthy         = "Healthy"
	HealthAtRisk          = "At Risk"
	HealthUnderperforming = "Underperforming"
)

const (
	SummaryScheduleNone   = "none"
	SummaryScheduleDaily  = "daily"
	SummaryScheduleWeekly = "weekly"
)

// PlatformLabels maps platform keys to display labels used by dashboard views.
var PlatformLabels = map[string]string{
	"facebook":  "Facebook",
	"instagram": "Instagram",
	"twitter":   "X (Twitter)",
	"linkedin":  "LinkedIn",
	"tiktok":    "TikTok",
	"youtube":   "YouTube",
	"google":    "Google Ads",
}

var PlatformColors = map[string]string{
	"facebook":  "#1877F2",
	"instagram": "#E4405F",
	"twitter":   "#14171A",
	"linkedin":  "#0A66C2",
	"tiktok":    "#010101",
	"youtube":   "#FF0000",
	"google":    "#4285F4",
}

var LeadStatusLabels = map[string]string{
	LeadStatusNew:       "New",
	LeadStatusContacted: "Contacted",
	LeadStatusQualified: "Qualified",
	LeadStatusWon:       "Won",
	LeadStatusLost:      "Lost",
}

var LeadStatusColors = map[string]string{
	LeadStatusNew:       "#6B7280",
	LeadStatusContacted: "#3B82F6",
	LeadStatusQualified: "#F59E0B",
	LeadStatusWon:       "#10B981",
	LeadStatusLost:      "#EF4444",
}
