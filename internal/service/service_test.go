package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"agencydash/backend/internal/cart"
	"agencydash/backend/internal/domain"
	"agencydash/backend/internal/kvstore"
	"agencydash/backend/internal/settings"
	"agencydash/backend/internal/store"
	"agencydash/backend/internal/store/memory"
	"agencydash/backend/internal/taskagent"
	"agencydash/backend/internal/webhook"
)

func newTestService() *Service {
	kv := kvstore.NewMemory()
	callLog := settings.NewCallLog(kv)
	return New(
		memory.New(),
		cart.New(kv),
		taskagent.New(kv),
		settings.NewIntegration(kv),
		settings.NewAutomation(kv),
		settings.NewAutopilot(kv),
		callLog,
		webhook.NewSender(time.Second, callLog),
	)
}

func adminCtx() context.Context {
	return WithActor(context.Background(), domain.Actor{Username: "boss", Role: "admin"})
}

func memberCtx() context.Context {
	return WithActor(context.Background(), domain.Actor{Username: "sam", Role: "member"})
}

func TestCreateLeadDefaultsAndNormalizes(t *testing.T) {
	svc := newTestService()

	lead, err := svc.CreateLead(memberCtx(), domain.LeadCreateRequest{Name: "  Dana  ", Email: " dana@x.example "})
	if err != nil {
		t.Fatalf("CreateLead: %v", err)
	}
	if lead.Name != "Dana" || lead.Email != "dana@x.example" {
		t.Fatalf("expected trimmed fields, got %+v", lead)
	}
	if lead.Status != domain.LeadStatusNew {
		t.Fatalf("expected status %q, got %q", domain.LeadStatusNew, lead.Status)
	}
	if lead.CreatedAt == 0 || lead.UpdatedAt == 0 {
		t.Fatalf("expected timestamps set, got %+v", lead)
	}
}

func TestCreateLeadRequiresName(t *testing.T) {
	svc := newTestService()
	if _, err := svc.CreateLead(memberCtx(), domain.LeadCreateRequest{Name: "  "}); !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestUpdateLeadRejectsUnknownStatus(t *testing.T) {
	svc := newTestService()
	lead, err := svc.CreateLead(memberCtx(), domain.LeadCreateRequest{Name: "Dana"})
	if err != nil {
		t.Fatalf("CreateLead: %v", err)
	}

	bad := "archived"
	if _, err := svc.UpdateLead(memberCtx(), lead.ID, domain.LeadUpdateRequest{Status: &bad}); !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for status %q, got %v", bad, err)
	}

	good := domain.LeadStatusWon
	updated, err := svc.UpdateLead(memberCtx(), lead.ID, domain.LeadUpdateRequest{Status: &good})
	if err != nil {
		t.Fatalf("UpdateLead: %v", err)
	}
	if updated.Status != domain.LeadStatusWon {
		t.Fatalf("expected won status, got %q", updated.Status)
	}
}

func TestDeleteLeadRequiresAdmin(t *testing.T) {
	svc := newTestService()
	lead, err := svc.CreateLead(memberCtx(), domain.LeadCreateRequest{Name: "Dana"})
	if err != nil {
		t.Fatalf("CreateLead: %v", err)
	}

	err = svc.DeleteLead(memberCtx(), lead.ID)
	if !errors.Is(err, store.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	if err := svc.DeleteLead(adminCtx(), lead.ID); err != nil {
		t.Fatalf("DeleteLead as admin: %v", err)
	}
}

func TestCreateServiceOfferingRequiresAdmin(t *testing.T) {
	svc := newTestService()

	_, err := svc.CreateServiceOffering(memberCtx(), domain.ServiceOfferingCreateRequest{Name: "SEO", Category: "seo"})
	if !errors.Is(err, store.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	offering, err := svc.CreateServiceOffering(adminCtx(), domain.ServiceOfferingCreateRequest{
		Name:     "SEO Optimization",
		Category: " SEO ",
		Tiers:    []domain.ServiceTier{{Name: "Audit", PriceCents: 79900}},
	})
	if err != nil {
		t.Fatalf("CreateServiceOffering: %v", err)
	}
	if offering.Category != "seo" {
		t.Fatalf("expected lowercased category, got %q", offering.Category)
	}
	if !offering.Active {
		t.Fatalf("new offerings must start active")
	}
}

func TestCreateServiceOfferingRejectsNegativeTierPrice(t *testing.T) {
	svc := newTestService()
	_, err := svc.CreateServiceOffering(adminCtx(), domain.ServiceOfferingCreateRequest{
		Name:     "Ads",
		Category: "ads",
		Tiers:    []domain.ServiceTier{{Name: "Basic", PriceCents: -1}},
	})
	if !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCreatePostDefaultsDraft(t *testing.T) {
	svc := newTestService()

	post, err := svc.CreatePost(memberCtx(), domain.SocialMediaPostCreateRequest{Platform: "Instagram", Content: "hello"})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if post.Status != domain.PostStatusDraft {
		t.Fatalf("expected draft status, got %q", post.Status)
	}
	if post.Platform != "instagram" {
		t.Fatalf("expected lowercased platform, got %q", post.Platform)
	}
}

func TestCreatePostRejectsUnknownStatus(t *testing.T) {
	svc := newTestService()
	_, err := svc.CreatePost(memberCtx(), domain.SocialMediaPostCreateRequest{Platform: "x", Content: "y", Status: "queued"})
	if !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCreateMetricsRejectsNegativeCounts(t *testing.T) {
	svc := newTestService()
	_, err := svc.CreateMetrics(memberCtx(), domain.SocialMediaMetricsCreateRequest{Platform: "instagram", Clicks: -1})
	if !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAddToCartFillsServiceName(t *testing.T) {
	svc := newTestService()

	offering, err := svc.CreateServiceOffering(adminCtx(), domain.ServiceOfferingCreateRequest{Name: "Email Marketing", Category: "email"})
	if err != nil {
		t.Fatalf("CreateServiceOffering: %v", err)
	}

	item, err := svc.AddToCart(memberCtx(), domain.CartItem{ServiceID: offering.ID, SelectedTier: "Monthly", UnitPriceCents: 39900})
	if err != nil {
		t.Fatalf("AddToCart: %v", err)
	}
	if item.ServiceName != "Email Marketing" {
		t.Fatalf("expected catalog name filled in, got %q", item.ServiceName)
	}
	if item.Quantity != 1 {
		t.Fatalf("expected quantity clamped to 1, got %d", item.Quantity)
	}
}

func TestAddToCartUnknownServiceWithoutName(t *testing.T) {
	svc := newTestService()
	_, err := svc.AddToCart(memberCtx(), domain.CartItem{ServiceID: 999, UnitPriceCents: 100})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown service, got %v", err)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	svc := newTestService()
	if _, err := svc.Checkout(memberCtx()); !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty cart, got %v", err)
	}
}

func TestCheckoutSnapshotsAndClears(t *testing.T) {
	svc := newTestService()
	ctx := memberCtx()

	if _, err := svc.AddToCart(ctx, domain.CartItem{ServiceID: 1, ServiceName: "Ads", Quantity: 2, UnitPriceCents: 10000}); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}

	result, err := svc.Checkout(ctx)
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if result.TotalItems != 2 || result.GrandTotalCents != 20000 {
		t.Fatalf("unexpected totals: %+v", result)
	}
	if result.CompletedAt == "" {
		t.Fatalf("expected completion timestamp")
	}

	view := svc.CartView(ctx)
	if len(view.Items) != 0 {
		t.Fatalf("expected cart cleared after checkout, got %+v", view.Items)
	}
}

func TestUpdateCartQuantityClamps(t *testing.T) {
	svc := newTestService()
	ctx := memberCtx()

	item, err := svc.AddToCart(ctx, domain.CartItem{ServiceID: 1, ServiceName: "Ads", Quantity: 3, UnitPriceCents: 100})
	if err != nil {
		t.Fatalf("AddToCart: %v", err)
	}

	svc.UpdateCartQuantity(ctx, item.ID, -5)
	view := svc.CartView(ctx)
	if view.Items[0].Quantity != 1 {
		t.Fatalf("expected quantity clamped to 1, got %d", view.Items[0].Quantity)
	}
}

func TestUpdateSummaryScheduleValidation(t *testing.T) {
	svc := newTestService()
	ctx := memberCtx()

	if _, err := svc.UpdateSummarySchedule(ctx, "hourly"); !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown schedule, got %v", err)
	}

	cfg, err := svc.UpdateSummarySchedule(ctx, domain.SummaryScheduleWeekly)
	if err != nil {
		t.Fatalf("UpdateSummarySchedule: %v", err)
	}
	if cfg.SummarySchedule != domain.SummaryScheduleWeekly {
		t.Fatalf("expected weekly schedule, got %q", cfg.SummarySchedule)
	}
}

func TestAddPostingWindowValidation(t *testing.T) {
	svc := newTestService()
	ctx := memberCtx()

	if _, err := svc.AddPostingWindow(ctx, domain.PostingWindow{Platform: "instagram"}); !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing day/time, got %v", err)
	}

	cfg, err := svc.AddPostingWindow(ctx, domain.PostingWindow{Platform: " Instagram ", Day: "Monday", Time: "09:00"})
	if err != nil {
		t.Fatalf("AddPostingWindow: %v", err)
	}
	if cfg.PostingWindows[0].Platform != "instagram" || cfg.PostingWindows[0].Day != "monday" {
		t.Fatalf("expected normalized window, got %+v", cfg.PostingWindows[0])
	}
}

func TestExportTableUnknownDataset(t *testing.T) {
	svc := newTestService()
	if _, err := svc.ExportTable(memberCtx(), "invoices"); !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestExportTableKnownDatasets(t *testing.T) {
	svc := newTestService()
	ctx := memberCtx()

	for _, dataset := range []string{"leads", "posts", "metrics", "ad-campaigns", "email-campaigns", "landing-pages", "seo", "webhook-logs", "cart", "call-log"} {
		table, err := svc.ExportTable(ctx, dataset)
		if err != nil {
			t.Fatalf("ExportTable(%q): %v", dataset, err)
		}
		if len(table.Headers) == 0 {
			t.Fatalf("ExportTable(%q): empty headers", dataset)
		}
	}
}

func TestGenerateGoalPlanAttachesGoalID(t *testing.T) {
	svc := newTestService()
	ctx := memberCtx()

	goal, tasks, err := svc.GenerateGoalPlan(ctx, "plan a marketing campaign")
	if err != nil {
		t.Fatalf("GenerateGoalPlan: %v", err)
	}
	if len(tasks) != 7 {
		t.Fatalf("expected 7 marketing tasks, got %d", len(tasks))
	}
	for _, task := range tasks {
		if task.GoalID != goal.ID {
			t.Fatalf("task %q not attached to goal", task.Text)
		}
	}

	if got := len(svc.ListTasks(ctx)); got != 7 {
		t.Fatalf("expected tasks persisted, got %d", got)
	}
}

func TestToggleTask(t *testing.T) {
	svc := newTestService()
	ctx := memberCtx()

	_, tasks, err := svc.GenerateGoalPlan(ctx, "grow the newsletter")
	if err != nil {
		t.Fatalf("GenerateGoalPlan: %v", err)
	}

	task, err := svc.ToggleTask(ctx, tasks[0].ID, true)
	if err != nil {
		t.Fatalf("ToggleTask: %v", err)
	}
	if !task.Completed {
		t.Fatalf("expected task completed")
	}

	task, err = svc.ToggleTask(ctx, tasks[0].ID, false)
	if err != nil {
		t.Fatalf("ToggleTask: %v", err)
	}
	if task.Completed {
		t.Fatalf("expected task reopened")
	}
}

func TestGenerateAutopilotSummaryRecordsTimestamp(t *testing.T) {
	svc := newTestService()
	ctx := memberCtx()

	if _, err := svc.CreateAdCampaign(ctx, domain.AdCampaignCreateRequest{Name: "Spring", Platform: "facebook", BudgetCents: 1000}); err != nil {
		t.Fatalf("CreateAdCampaign: %v", err)
	}

	summary, err := svc.GenerateAutopilotSummary(ctx)
	if err != nil {
		t.Fatalf("GenerateAutopilotSummary: %v", err)
	}
	if len(summary.Campaigns) != 1 {
		t.Fatalf("expected 1 graded campaign, got %d", len(summary.Campaigns))
	}

	cfg := svc.GetAutopilotConfig(ctx)
	if cfg.LastSummaryAt == nil {
		t.Fatalf("expected summary generation recorded")
	}
}

func TestClearCallLogRequiresAdmin(t *testing.T) {
	svc := newTestService()

	err := svc.ClearCallLog(memberCtx())
	if !errors.Is(err, store.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.ClearCallLog(adminCtx()); err != nil {
		t.Fatalf("ClearCallLog as admin: %v", err)
	}
}

func TestReceiveExternalWebhookRequiresToolName(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.ReceiveExternalWebhook(ctx, domain.ReceiveWebhookRequest{}); !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	entry, err := svc.ReceiveExternalWebhook(ctx, domain.ReceiveWebhookRequest{ToolName: "zapier", Payload: `{"a":1}`})
	if err != nil {
		t.Fatalf("ReceiveExternalWebhook: %v", err)
	}
	if entry.ID < 1 || entry.ReceivedAt == 0 {
		t.Fatalf("expected assigned id and timestamp, got %+v", entry)
	}
}
