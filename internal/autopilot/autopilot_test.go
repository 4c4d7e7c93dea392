package autopilot

import (
	"context"
	"testing"
	"time"

	"agencydash/backend/internal/domain"
	"agencydash/backend/internal/kvstore"
	"agencydash/backend/internal/settings"
)

func TestCTR(t *testing.T) {
	if got := CTR(0, 10); got != 0 {
		t.Fatalf("expected 0 CTR with no impressions, got %f", got)
	}
	if got := CTR(1000, 30); got != 3 {
		t.Fatalf("expected 3%% CTR, got %f", got)
	}
}

func TestHealthStatusHealthy(t *testing.T) {
	campaign := domain.AdCampaign{Impressions: 1000, Clicks: 30, Conversions: 10}
	thresholds := domain.HealthThresholds{MinCTR: 2, MinConversions: 5}

	if got := HealthStatus(campaign, thresholds); got != domain.HealthHealthy {
		t.Fatalf("expected %q, got %q", domain.HealthHealthy, got)
	}
}

func TestHealthStatusAtRiskOnHalfThreshold(t *testing.T) {
	campaign := domain.AdCampaign{Impressions: 1000, Clicks: 30, Conversions: 10}

	// CTR 3 reaches half of MinCTR 5, so the campaign is at risk even though
	// conversions miss their minimum.
	atRisk := domain.HealthThresholds{MinCTR: 5, MinConversions: 50}
	if got := HealthStatus(campaign, atRisk); got != domain.HealthAtRisk {
		t.Fatalf("expected %q, got %q", domain.HealthAtRisk, got)
	}

	// Against stricter thresholds neither metric reaches half its minimum
	// (CTR 3 < 5, conversions 10 < 25), so the campaign is underperforming.
	strict := domain.HealthThresholds{MinCTR: 10, MinConversions: 50}
	if got := HealthStatus(campaign, strict); got != domain.HealthUnderperforming {
		t.Fatalf("expected %q, got %q", domain.HealthUnderperforming, got)
	}
}

func TestHealthStatusUnderperforming(t *testing.T) {
	campaign := domain.AdCampaign{Impressions: 10000, Clicks: 10, Conversions: 1}
	thresholds := domain.HealthThresholds{MinCTR: 5, MinConversions: 20}

	if got := HealthStatus(campaign, thresholds); got != domain.HealthUnderperforming {
		t.Fatalf("expected %q, got %q", domain.HealthUnderperforming, got)
	}
}

func TestSortPostsByPostingWindows(t *testing.T) {
	posts := []domain.SocialMediaPost{
		{ID: 1, Platform: "tiktok"},
		{ID: 2, Platform: "facebook"},
		{ID: 3, Platform: "instagram"},
	}
	windows := []domain.PostingWindow{
		{Platform: "instagram", Day: "monday", Time: "09:00"},
		{Platform: "facebook", Day: "wednesday", Time: "14:00"},
	}

	sorted := SortPostsByPostingWindows(posts, windows)
	if sorted[0].ID != 3 || sorted[1].ID != 2 || sorted[2].ID != 1 {
		t.Fatalf("unexpected order: %d %d %d", sorted[0].ID, sorted[1].ID, sorted[2].ID)
	}
	// Input slice must be untouched.
	if posts[0].ID != 1 {
		t.Fatalf("input slice was mutated")
	}
}

func TestSortPostsFirstMatchingWindowWins(t *testing.T) {
	posts := []domain.SocialMediaPost{
		{ID: 1, Platform: "instagram"},
		{ID: 2, Platform: "facebook"},
	}
	// The earlier instagram window (friday) ranks the platform, not the later
	// monday one.
	windows := []domain.PostingWindow{
		{Platform: "instagram", Day: "friday", Time: "09:00"},
		{Platform: "instagram", Day: "monday", Time: "08:00"},
		{Platform: "facebook", Day: "tuesday", Time: "10:00"},
	}

	sorted := SortPostsByPostingWindows(posts, windows)
	if sorted[0].ID != 2 {
		t.Fatalf("expected facebook (tuesday) before instagram (friday), got %d first", sorted[0].ID)
	}
}

func TestSortPostsSameDayOrdersByTime(t *testing.T) {
	posts := []domain.SocialMediaPost{
		{ID: 1, Platform: "facebook"},
		{ID: 2, Platform: "instagram"},
	}
	windows := []domain.PostingWindow{
		{Platform: "facebook", Day: "monday", Time: "15:00"},
		{Platform: "instagram", Day: "monday", Time: "09:00"},
	}

	sorted := SortPostsByPostingWindows(posts, windows)
	if sorted[0].ID != 2 {
		t.Fatalf("expected 09:00 window first, got post %d", sorted[0].ID)
	}
}

func TestBuildSummaryCounts(t *testing.T) {
	campaigns := []domain.AdCampaign{
		{Name: "healthy", Impressions: 1000, Clicks: 30, Conversions: 10},
		{Name: "at-risk", Impressions: 1000, Clicks: 15, Conversions: 3},
		{Name: "bad", Impressions: 10000, Clicks: 10, Conversions: 0},
	}
	cfg := domain.AutopilotConfig{Thresholds: domain.HealthThresholds{MinCTR: 2, MinConversions: 5}}

	summary := BuildSummary(campaigns, nil, cfg, 42)
	if summary.GeneratedAt != 42 {
		t.Fatalf("expected generated_at 42, got %d", summary.GeneratedAt)
	}
	if summary.Healthy != 1 || summary.AtRisk != 1 || summary.Underperforming != 1 {
		t.Fatalf("unexpected counts: healthy=%d at_risk=%d under=%d", summary.Healthy, summary.AtRisk, summary.Underperforming)
	}
	if len(summary.Campaigns) != 3 {
		t.Fatalf("expected 3 graded campaigns, got %d", len(summary.Campaigns))
	}
}

func TestSchedulerNotDueWhenScheduleNone(t *testing.T) {
	cfg := settings.NewAutopilot(kvstore.NewMemory())
	s := NewScheduler(cfg, func(ctx context.Context) error { return nil }, time.Minute)

	if s.due(context.Background(), time.Now().UTC()) {
		t.Fatalf("schedule none must never be due")
	}
}

func TestSchedulerDueOnFirstDailyRun(t *testing.T) {
	ctx := context.Background()
	cfg := settings.NewAutopilot(kvstore.NewMemory())
	cfg.UpdateSummarySchedule(ctx, domain.SummaryScheduleDaily)

	s := NewScheduler(cfg, func(ctx context.Context) error { return nil }, time.Minute)
	if !s.due(ctx, time.Now().UTC()) {
		t.Fatalf("daily schedule with no prior run must be due")
	}

	cfg.RecordSummaryGeneration(ctx)
	if s.due(ctx, time.Now().UTC()) {
		t.Fatalf("daily schedule must not be due right after a run")
	}
	if !s.due(ctx, time.Now().UTC().Add(25*time.Hour)) {
		t.Fatalf("daily schedule must be due 25h after a run")
	}
}

func TestSchedulerStartAndStopAreIdempotent(t *testing.T) {
	cfg := settings.NewAutopilot(kvstore.NewMemory())
	s := NewScheduler(cfg, func(ctx context.Context) error { return nil }, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// A second Start must not spawn a second loop, and a second Stop must not
	// close the stop channel again.
	s.Start(ctx)
	s.Start(ctx)
	s.Stop()
	s.Stop()

	if s.running {
		t.Fatalf("scheduler still marked running after stop")
	}
}

func TestSchedulerWeeklyPeriod(t *testing.T) {
	ctx := context.Background()
	cfg := settings.NewAutopilot(kvstore.NewMemory())
	cfg.UpdateSummarySchedule(ctx, domain.SummaryScheduleWeekly)
	cfg.RecordSummaryGeneration(ctx)

	s := NewScheduler(cfg, func(ctx context.Context) error { return nil }, time.Minute)
	if s.due(ctx, time.Now().UTC().Add(3*24*time.Hour)) {
		t.Fatalf("weekly schedule must not be due after 3 days")
	}
	if !s.due(ctx, time.Now().UTC().Add(8*24*time.Hour)) {
		t.Fatalf("weekly schedule must be due after 8 days")
	}
}
