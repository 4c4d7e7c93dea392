package export

import (
	"strings"

	"agencydash/backend/internal/domain"
)

func LeadsTable(leads []domain.Lead) Table {
	table := Table{
		Name:    "Leads",
		Headers: []string{"id", "name", "email", "phone", "company", "source", "status", "notes", "created_at", "updated_at"},
		Rows:    make([][]string, 0, len(leads)),
	}
	for _, lead := range leads {
		table.Rows = append(table.Rows, []string{
			formatInt(lead.ID), lead.Name, lead.Email, lead.Phone, lead.Company,
			lead.Source, lead.Status, lead.Notes,
			formatInt(lead.CreatedAt), formatInt(lead.UpdatedAt),
		})
	}
	return table
}

func PostsTable(posts []domain.SocialMediaPost) Table {
	table := Table{
		Name:    "Social Media Posts",
		Headers: []string{"id", "platform", "title", "content", "media_url", "status", "scheduled_at", "created_at", "updated_at"},
		Rows:    make([][]string, 0, len(posts)),
	}
	for _, post := range posts {
		table.Rows = append(table.Rows, []string{
			formatInt(post.ID), post.Platform, post.Title, post.Content, post.MediaURL,
			post.Status, formatInt(post.ScheduledAt), formatInt(post.CreatedAt), formatInt(post.UpdatedAt),
		})
	}
	return table
}

func MetricsTable(metrics []domain.SocialMediaMetrics) Table {
	table := Table{
		Name:    "Social Media Metrics",
		Headers: []string{"id", "post_id", "platform", "impressions", "clicks", "likes", "shares", "comments", "recorded_at"},
		Rows:    make([][]string, 0, len(metrics)),
	}
	for _, m := range metrics {
		table.Rows = append(table.Rows, []string{
			formatInt(m.ID), formatInt(m.PostID), m.Platform,
			formatInt(m.Impressions), formatInt(m.Clicks), formatInt(m.Likes),
			formatInt(m.Shares), formatInt(m.Comments), formatInt(m.RecordedAt),
		})
	}
	return table
}

func AdCampaignsTable(campaigns []domain.AdCampaign) Table {
	table := Table{
		Name:    "Ad Campaigns",
		Headers: []string{"id", "name", "platform", "status", "budget_cents", "spend_cents", "impressions", "clicks", "conversions", "start_at", "end_at", "created_at"},
		Rows:    make([][]string, 0, len(campaigns)),
	}
	for _, c := range campaigns {
		table.Rows = append(table.Rows, []string{
			formatInt(c.ID), c.Name, c.Platform, c.Status,
			formatInt(c.BudgetCents), formatInt(c.SpendCents),
			formatInt(c.Impressions), formatInt(c.Clicks), formatInt(c.Conversions),
			formatInt(c.StartAt), formatInt(c.EndAt), formatInt(c.CreatedAt),
		})
	}
	return table
}

func EmailCampaignsTable(campaigns []domain.EmailCampaign) Table {
	table := Table{
		Name:    "Email Campaigns",
		Headers: []string{"id", "name", "subject", "status", "recipients", "opens", "clicks", "sent_at", "created_at"},
		Rows:    make([][]string, 0, len(campaigns)),
	}
	for _, c := range campaigns {
		table.Rows = append(table.Rows, []string{
			formatInt(c.ID), c.Name, c.Subject, c.Status,
			formatInt(c.Recipients), formatInt(c.Opens), formatInt(c.Clicks),
			formatInt(c.SentAt), formatInt(c.CreatedAt),
		})
	}
	return table
}

func LandingPagesTable(pages []domain.LandingPage) Table {
	table := Table{
		Name:    "Landing Pages",
		Headers: []string{"id", "name", "slug", "url", "status", "visits", "conversions", "created_at", "updated_at"},
		Rows:    make([][]string, 0, len(pages)),
	}
	for _, p := range pages {
		table.Rows = append(table.Rows, []string{
			formatInt(p.ID), p.Name, p.Slug, p.URL, p.Status,
			formatInt(p.Visits), formatInt(p.Conversions),
			formatInt(p.CreatedAt), formatInt(p.UpdatedAt),
		})
	}
	return table
}

func SEOEntriesTable(entries []domain.SEOEntry) Table {
	table := Table{
		Name:    "SEO Entries",
		Headers: []string{"id", "keyword", "target_url", "position", "search_volume", "difficulty", "created_at", "updated_at"},
		Rows:    make([][]string, 0, len(entries)),
	}
	for _, e := range entries {
		table.Rows = append(table.Rows, []string{
			formatInt(e.ID), e.Keyword, e.TargetURL,
			formatInt(e.Position), formatInt(e.SearchVolume), formatInt(e.Difficulty),
			formatInt(e.CreatedAt), formatInt(e.UpdatedAt),
		})
	}
	return table
}

func WebhookLogsTable(logs []domain.WebhookLog) Table {
	table := Table{
		Name:    "Webhook Logs",
		Headers: []string{"id", "tool_name", "source", "payload", "received_at"},
		Rows:    make([][]string, 0, len(logs)),
	}
	for _, l := range logs {
		table.Rows = append(table.Rows, []string{
			formatInt(l.ID), l.ToolName, l.Source, l.Payload, formatInt(l.ReceivedAt),
		})
	}
	return table
}

func CartTable(items []domain.CartItem) Table {
	table := Table{
		Name:    "Cart",
		Headers: []string{"id", "service_id", "service_name", "selected_tier", "selected_addons", "quantity", "unit_price_cents", "total_price_cents"},
		Rows:    make([][]string, 0, len(items)),
	}
	for _, item := range items {
		table.Rows = append(table.Rows, []string{
			item.ID, formatInt(item.ServiceID), item.ServiceName, item.SelectedTier,
			strings.Join(item.SelectedAddons, ";"),
			formatInt(int64(item.Quantity)), formatInt(item.UnitPriceCents), formatInt(item.TotalPriceCents),
		})
	}
	return table
}

func CallLogTable(entries []domain.WebhookCallEntry) Table {
	table := Table{
		Name:    "Outbound Webhook Calls",
		Headers: []string{"id", "timestamp", "tool", "url", "payload_summary", "status_code", "success"},
		Rows:    make([][]string, 0, len(entries)),
	}
	for _, e := range entries {
		table.Rows = append(table.Rows, []string{
			e.ID, e.Timestamp, e.Tool, e.URL, e.PayloadSummary,
			formatInt(int64(e.StatusCode)), formatBool(e.Success),
		})
	}
	return table
}
