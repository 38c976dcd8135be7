package usecase

import (
	"context"
	"testing"
	"time"

	"ArticleMiner/internal/adapter"
)

// manualDriver triggers the registered job on demand.
type manualDriver struct {
	job func(time.Time)
}

func (d *manualDriver) Start(ctx context.Context, job func(time.Time)) error {
	d.job = job
	return nil
}

func (d *manualDriver) Stop(ctx context.Context) error { return nil }

func TestSchedulerSubmitsAllConfiguredSources(t *testing.T) {
	t.Parallel()

	fake := newFakeAdapter(func(int, int) (adapter.Page, error) { return adapter.Page{}, nil })
	o := newTestOrchestrator(t, fake, &memStore{})

	driver := &manualDriver{}
	s := NewScheduler(driver, o, []CrawlSpec{
		{SourceID: "fake", Keywords: []string{"管理"}, MaxPages: 1},
		{SourceID: "unknown", MaxPages: 1},
		{SourceID: "fake", Keywords: []string{"心理"}, MaxPages: 1},
	}, nil)

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if driver.job == nil {
		t.Fatal("driver did not receive a job")
	}

	driver.job(time.Now())
	o.Shutdown()

	// The unknown source fails to submit but must not block the others.
	if got := len(o.List()); got != 2 {
		t.Fatalf("submitted %d jobs, want 2", got)
	}
}
