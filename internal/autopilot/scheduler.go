package autopilot

import (
	"context"
	"log"
	"sync"
	"time"

	"agencydash/backend/internal/domain"
	"agencydash/backend/internal/settings"
)

// Scheduler fires the periodic campaign summary according to the configured
// SummarySchedule. Each tick re-reads the config, so schedule changes take
// effect without a restart.
type Scheduler struct {
	cfg      *settings.Autopilot
	generate func(ctx context.Context) error
	interval time.Duration

	mu      sync.Mutex
	running bool
	stop    chan struct{}
}

func NewScheduler(cfg *settings.Autopilot, generate func(ctx context.Context) error, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{
		cfg:      cfg,
		generate: generate,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Start runs the scheduler loop in a goroutine. Call Stop to halt it.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	go s.loop(ctx)
}

func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	close(s.stop)
	s.running = false
}

func (s *Scheduler) loop(ctx context.Context) {
	tick := time.NewTicker(s.interval)
	defer tick.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ctx.Done():
			return
		case <-tick.C:
			if !s.due(ctx, time.Now().UTC()) {
				continue
			}
			if err := s.generate(ctx); err != nil {
				// Log and continue; a failed summary is terminal for this
				// cycle and will be retried on the next due tick.
				log.Printf("[autopilot] summary generation error: %v", err)
			}
		}
	}
}

func (s *Scheduler) due(ctx context.Context, now time.Time) bool {
	cfg := s.cfg.Get(ctx)

	var period time.Duration
	switch cfg.SummarySchedule {
	case domain.SummaryScheduleDaily:
		period = 24 * time.Hour
	case domain.SummaryScheduleWeekly:
		period = 7 * 24 * time.Hour
	default:
		return false
	}

	if cfg.LastSummaryAt == nil {
		return true
	}
	last := time.Unix(0, *cfg.LastSummaryAt)
	return now.Sub(last) >= period
}
