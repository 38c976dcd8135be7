package usecase

import (
	"context"
	"log/slog"
	"time"

	"ArticleMiner/internal/ports"
)

// CrawlSpec is one recurring crawl: which source, which query, how deep.
type CrawlSpec struct {
	SourceID string
	Keywords []string
	MaxPages int
}

// Scheduler wires the cron-like driver with the orchestrator.
type Scheduler struct {
	driver       ports.Scheduler
	orchestrator *Orchestrator
	specs        []CrawlSpec
	logger       *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring crawls.
func NewScheduler(driver ports.Scheduler, orchestrator *Orchestrator, specs []CrawlSpec, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		driver:       driver,
		orchestrator: orchestrator,
		specs:        specs,
		logger:       logger.With("component", "scheduler"),
	}
}

// Start registers the crawl round with the provided scheduler driver. Each
// trigger submits one job per configured source; submission failures on one
// source do not block the others.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.orchestrator == nil {
		return nil
	}

	job := func(trigger time.Time) {
		for _, spec := range s.specs {
			id, err := s.orchestrator.Submit(ctx, spec.SourceID, spec.Keywords, spec.MaxPages)
			if err != nil {
				s.logger.Error("scheduled submit failed",
					"source", spec.SourceID, "trigger", trigger, "error", err)
				continue
			}
			s.logger.Info("scheduled crawl", "source", spec.SourceID, "job", id)
		}
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}
	return s.driver.Stop(ctx)
}
