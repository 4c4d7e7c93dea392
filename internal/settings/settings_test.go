package settings

import (
	"context"
	"fmt"
	"testing"

	"agencydash/backend/internal/domain"
	"agencydash/backend/internal/kvstore"
)

func TestAutomationDefaults(t *testing.T) {
	s := NewAutomation(kvstore.NewMemory())
	toggles := s.Get(context.Background())

	if !toggles.LeadAlerts || !toggles.CampaignReports {
		t.Fatalf("expected lead alerts and campaign reports enabled by default, got %+v", toggles)
	}
	if toggles.PostReminders || toggles.PaymentNotifications || toggles.WeeklyDigest {
		t.Fatalf("expected remaining toggles disabled by default, got %+v", toggles)
	}
}

func TestAutomationSaveRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewAutomation(kvstore.NewMemory())

	s.Save(ctx, domain.AutomationToggles{PostReminders: true})
	toggles := s.Get(ctx)
	if !toggles.PostReminders {
		t.Fatalf("expected saved toggle to persist")
	}
	if toggles.LeadAlerts {
		t.Fatalf("full overwrite must clear unset toggles, got %+v", toggles)
	}
}

func TestIntegrationCredentialActive(t *testing.T) {
	cred := domain.Credential{Value: "sk-123", Enabled: true}
	if !cred.Active() {
		t.Fatalf("credential with value and enabled must be active")
	}
	if (domain.Credential{Value: "sk-123"}).Active() {
		t.Fatalf("disabled credential must not be active")
	}
	if (domain.Credential{Enabled: true}).Active() {
		t.Fatalf("empty credential must not be active")
	}
}

func TestIntegrationSaveRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewIntegration(kvstore.NewMemory())

	cfg := s.Get(ctx)
	cfg.CRMWebhookURL = domain.Credential{Value: "https://hooks.example.com/crm", Enabled: true}
	s.Save(ctx, cfg)

	got := s.Get(ctx)
	if !got.CRMWebhookURL.Active() {
		t.Fatalf("expected persisted crm webhook credential, got %+v", got.CRMWebhookURL)
	}
}

func TestAutopilotDefaults(t *testing.T) {
	s := NewAutopilot(kvstore.NewMemory())
	cfg := s.Get(context.Background())

	if cfg.Thresholds.MinCTR != 2 || cfg.Thresholds.MinConversions != 5 {
		t.Fatalf("unexpected default thresholds: %+v", cfg.Thresholds)
	}
	if cfg.SummarySchedule != domain.SummaryScheduleNone {
		t.Fatalf("expected schedule %q, got %q", domain.SummaryScheduleNone, cfg.SummarySchedule)
	}
	if cfg.LastSummaryAt != nil {
		t.Fatalf("expected no prior summary timestamp")
	}
}

func TestAutopilotWindowMutations(t *testing.T) {
	ctx := context.Background()
	s := NewAutopilot(kvstore.NewMemory())

	cfg := s.AddPostingWindow(ctx, domain.PostingWindow{Platform: "instagram", Day: "monday", Time: "09:00"})
	cfg = s.AddPostingWindow(ctx, domain.PostingWindow{Platform: "facebook", Day: "friday", Time: "14:00"})
	if len(cfg.PostingWindows) != 2 {
		t.Fatalf("expected 2 windows, got %d", len(cfg.PostingWindows))
	}

	cfg = s.RemovePostingWindow(ctx, 0)
	if len(cfg.PostingWindows) != 1 || cfg.PostingWindows[0].Platform != "facebook" {
		t.Fatalf("unexpected windows after removal: %+v", cfg.PostingWindows)
	}

	// Out-of-range removal is a no-op.
	cfg = s.RemovePostingWindow(ctx, 9)
	if len(cfg.PostingWindows) != 1 {
		t.Fatalf("out-of-range removal must not change windows, got %+v", cfg.PostingWindows)
	}
}

func TestAutopilotRecordSummaryGeneration(t *testing.T) {
	ctx := context.Background()
	s := NewAutopilot(kvstore.NewMemory())

	cfg := s.RecordSummaryGeneration(ctx)
	if cfg.LastSummaryAt == nil || *cfg.LastSummaryAt == 0 {
		t.Fatalf("expected recorded summary timestamp")
	}
}

func TestCallLogCapEvictsOldest(t *testing.T) {
	ctx := context.Background()
	s := NewCallLog(kvstore.NewMemory())

	for i := 0; i < maxCallLogEntries+10; i++ {
		s.Append(ctx, domain.WebhookCallEntry{ID: fmt.Sprintf("call-%d", i)})
	}

	entries := s.List(ctx)
	if len(entries) != maxCallLogEntries {
		t.Fatalf("expected %d entries, got %d", maxCallLogEntries, len(entries))
	}
	if entries[0].ID != "call-10" {
		t.Fatalf("expected oldest entries evicted, first is %q", entries[0].ID)
	}
	if entries[len(entries)-1].ID != fmt.Sprintf("call-%d", maxCallLogEntries+9) {
		t.Fatalf("unexpected newest entry %q", entries[len(entries)-1].ID)
	}
}

func TestCallLogClear(t *testing.T) {
	ctx := context.Background()
	s := NewCallLog(kvstore.NewMemory())

	s.Append(ctx, domain.WebhookCallEntry{ID: "one"})
	s.Clear(ctx)
	if got := len(s.List(ctx)); got != 0 {
		t.Fatalf("expected empty call log, got %d entries", got)
	}
}
