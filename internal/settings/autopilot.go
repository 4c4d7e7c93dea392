package settings

import (
	"context"
	"time"

	"agencydash/backend/internal/domain"
	"agencydash/backend/internal/kvstore"
)

const autopilotKey = "agency.autopilot"

// Autopilot stores the campaign-autopilot configuration. The narrow mutators
// each perform a full read-modify-write cycle; they are not atomic across
// concurrent callers.
type Autopilot struct {
	kv kvstore.Store
}

func NewAutopilot(kv kvstore.Store) *Autopilot {
	return &Autopilot{kv: kv}
}

func DefaultAutopilotConfig() domain.AutopilotConfig {
	return domain.AutopilotConfig{
		PostingWindows: []domain.PostingWindow{},
		Thresholds: domain.HealthThresholds{
			MinCTR:         2,
			MinConversions: 5,
		},
		SummarySchedule: domain.SummaryScheduleNone,
	}
}

func (s *Autopilot) Get(ctx context.Context) domain.AutopilotConfig {
	cfg := DefaultAutopilotConfig()
	s.kv.Load(ctx, autopilotKey, &cfg)
	return cfg
}

func (s *Autopilot) Save(ctx context.Context, cfg domain.AutopilotConfig) {
	s.kv.Save(ctx, autopilotKey, cfg)
}

func (s *Autopilot) AddPostingWindow(ctx context.Context, window domain.PostingWindow) domain.AutopilotConfig {
	cfg := s.Get(ctx)
	cfg.PostingWindows = append(cfg.PostingWindows, window)
	s.Save(ctx, cfg)
	return cfg
}

// RemovePostingWindow removes the window at index; out-of-range indexes are a
// no-op.
func (s *Autopilot) RemovePostingWindow(ctx context.Context, index int) domain.AutopilotConfig {
	cfg := s.Get(ctx)
	if index < 0 || index >= len(cfg.PostingWindows) {
		return cfg
	}
	cfg.PostingWindows = append(cfg.PostingWindows[:index], cfg.PostingWindows[index+1:]...)
	s.Save(ctx, cfg)
	return cfg
}

func (s *Autopilot) UpdateHealthThresholds(ctx context.Context, thresholds domain.HealthThresholds) domain.AutopilotConfig {
	cfg := s.Get(ctx)
	cfg.Thresholds = thresholds
	s.Save(ctx, cfg)
	return cfg
}

func (s *Autopilot) UpdateSummarySchedule(ctx context.Context, schedule string) domain.AutopilotConfig {
	cfg := s.Get(ctx)
	cfg.SummarySchedule = schedule
	s.Save(ctx, cfg)
	return cfg
}

func (s *Autopilot) RecordSummaryGeneration(ctx context.Context) domain.AutopilotConfig {
	cfg := s.Get(ctx)
	now := time.Now().UTC().UnixNano()
	cfg.LastSummaryAt = &now
	s.Save(ctx, cfg)
	return cfg
}
