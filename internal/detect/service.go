package detect

import (
	"context"
	"log"
	"sync"
	"time"

	"kitchen-ops-backend/config"
	"kitchen-ops-backend/internal/load"
	"kitchen-ops-backend/internal/remake"
	"kitchen-ops-backend/internal/store"
)

// Service runs the detection cycle: every interval it re-scans the ticket
// store for bottlenecks and re-mines the remake log for recurring mistakes,
// publishing the latest results for the API to read. Detection itself is
// pure; the service only supplies inputs and stores outputs.
type Service struct {
	cfg     *config.Config
	store   store.Store
	load    *load.State
	remakes *remake.Log

	// Now is replaceable so tests can drive cycles with a synthetic clock.
	Now func() time.Time

	mu       sync.RWMutex
	alerts   []Alert
	insights []remake.Insight
}

// NewService creates a detection service.
func NewService(cfg *config.Config, s store.Store, l *load.State, r *remake.Log) *Service {
	return &Service{
		cfg:     cfg,
		store:   s,
		load:    l,
		remakes: r,
		Now:     time.Now,
	}
}

// Run executes detection cycles until the context is cancelled. The first
// cycle runs immediately.
func (s *Service) Run(ctx context.Context) {
	if !s.cfg.Detector.Enabled {
		log.Println("Detector is disabled. Not starting.")
		return
	}
	log.Println("Starting detection service...")

	s.RunOnce()

	timer := time.NewTimer(s.cfg.Detector.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Detection service shutting down.")
			return
		case <-timer.C:
			s.RunOnce()
			timer.Reset(s.cfg.Detector.Interval)
		}
	}
}

// RunOnce performs a single detection cycle against fresh snapshots.
func (s *Service) RunOnce() {
	now := s.Now().UTC()
	snap := s.load.Snapshot()

	alerts := DetectBottlenecks(s.store.Snapshot(), snap, now, BottleneckConfig{
		BaseBacklogThreshold: s.cfg.Detector.BaseBacklogThreshold,
	})

	insights := remake.DetectPatterns(s.remakes.Entries(), now, remake.MiningConfig{
		Window:         s.cfg.Detector.MiningWindow,
		MinOccurrences: s.cfg.Detector.MinOccurrences,
		CriticalCount:  s.cfg.Detector.CriticalOccurrences,
	})

	s.mu.Lock()
	s.alerts = alerts
	s.insights = insights
	s.mu.Unlock()

	if len(alerts) > 0 {
		log.Printf("Detection cycle: %d bottleneck alert(s), worst: %s", len(alerts), alerts[0].Message)
	}
}

// Alerts returns the latest bottleneck alert set, worst first.
func (s *Service) Alerts() []Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Alert(nil), s.alerts...)
}

// Insights returns the latest mistake insight set.
func (s *Service) Insights() []remake.Insight {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]remake.Insight(nil), s.insights...)
}
