package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"ArticleMiner/internal/adapter"
	"ArticleMiner/internal/domain"
)

// ErrJobNotFound is returned for lookups of unknown job identifiers.
var ErrJobNotFound = errors.New("job not found")

// SourcePolicy paces requests against one platform. MinDelay sets the hard
// floor between requests; MaxDelay-MinDelay is the jitter window that keeps
// the access pattern irregular.
type SourcePolicy struct {
	MinDelay    time.Duration
	MaxDelay    time.Duration
	MaxRetries  int // total fetch attempts per page
	MaxInFlight int // concurrent requests against the source
}

func (p SourcePolicy) normalized() SourcePolicy {
	if p.MaxRetries < 1 {
		p.MaxRetries = 1
	}
	if p.MaxDelay < p.MinDelay {
		p.MaxDelay = p.MinDelay
	}
	if p.MaxInFlight < 1 {
		p.MaxInFlight = 1
	}
	return p
}

// OrchestratorOptions configure job dispatch.
type OrchestratorOptions struct {
	// MaxConcurrentJobs caps jobs fetching at the same time. Zero means 4.
	MaxConcurrentJobs int
	DefaultPolicy     SourcePolicy
	// Policies override DefaultPolicy per source identifier.
	Policies map[string]SourcePolicy
	// NewBackOff supplies the retry wait strategy per page. Nil selects
	// exponential backoff.
	NewBackOff func() backoff.BackOff
}

// Orchestrator owns crawl jobs: one job covers one source, paging
// sequentially under that source's politeness policy. Items flow into the
// shared pipeline; sources never interfere with each other's pacing.
type Orchestrator struct {
	registry *adapter.Registry
	pipeline *Pipeline
	opts     OrchestratorOptions
	logger   *slog.Logger

	sem chan struct{}

	mu       sync.Mutex
	jobs     map[string]*jobHandle
	limiters map[string]*rate.Limiter
	slots    map[string]chan struct{}
	wg       sync.WaitGroup
}

type jobHandle struct {
	job    domain.CrawlJob
	cancel context.CancelFunc
	done   chan struct{}
}

// NewOrchestrator constructs the job dispatcher.
func NewOrchestrator(registry *adapter.Registry, pipeline *Pipeline, opts OrchestratorOptions, logger *slog.Logger) *Orchestrator {
	if opts.MaxConcurrentJobs < 1 {
		opts.MaxConcurrentJobs = 4
	}
	if opts.NewBackOff == nil {
		opts.NewBackOff = func() backoff.BackOff {
			bo := backoff.NewExponentialBackOff()
			bo.InitialInterval = 2 * time.Second
			bo.MaxElapsedTime = 0
			return bo
		}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		registry: registry,
		pipeline: pipeline,
		opts:     opts,
		logger:   logger.With("component", "orchestrator"),
		sem:      make(chan struct{}, opts.MaxConcurrentJobs),
		jobs:     map[string]*jobHandle{},
		limiters: map[string]*rate.Limiter{},
		slots:    map[string]chan struct{}{},
	}
}

// Submit registers a crawl job and starts it asynchronously. The returned
// identifier is valid for Status, Wait and Cancel immediately.
func (o *Orchestrator) Submit(ctx context.Context, sourceID string, keywords []string, maxPages int) (string, error) {
	src, err := o.registry.Resolve(sourceID)
	if err != nil {
		return "", err
	}
	if maxPages < 1 {
		return "", fmt.Errorf("job for %s: maxPages must be positive, got %d", sourceID, maxPages)
	}

	jobCtx, cancel := context.WithCancel(ctx)
	handle := &jobHandle{
		job: domain.CrawlJob{
			ID:        uuid.NewString(),
			SourceID:  sourceID,
			Keywords:  append([]string(nil), keywords...),
			MaxPages:  maxPages,
			State:     domain.JobPending,
			CreatedAt: time.Now(),
		},
		cancel: cancel,
		done:   make(chan struct{}),
	}

	o.mu.Lock()
	o.jobs[handle.job.ID] = handle
	o.mu.Unlock()

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		defer close(handle.done)
		defer cancel()
		o.run(jobCtx, handle, src)
	}()

	o.logger.Info("job submitted", "job", handle.job.ID, "source", sourceID, "pages", maxPages)
	return handle.job.ID, nil
}

// Status returns a snapshot of the job.
func (o *Orchestrator) Status(jobID string) (domain.CrawlJob, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	handle, ok := o.jobs[jobID]
	if !ok {
		return domain.CrawlJob{}, ErrJobNotFound
	}
	return handle.job, nil
}

// Cancel requests cooperative termination. The job finishes its current item
// and lands in the failed state with whatever counts it accumulated.
func (o *Orchestrator) Cancel(jobID string) error {
	o.mu.Lock()
	handle, ok := o.jobs[jobID]
	o.mu.Unlock()
	if !ok {
		return ErrJobNotFound
	}
	handle.cancel()
	return nil
}

// Wait blocks until the job reaches a terminal state or ctx expires.
func (o *Orchestrator) Wait(ctx context.Context, jobID string) (domain.CrawlJob, error) {
	o.mu.Lock()
	handle, ok := o.jobs[jobID]
	o.mu.Unlock()
	if !ok {
		return domain.CrawlJob{}, ErrJobNotFound
	}
	select {
	case <-handle.done:
		return o.Status(jobID)
	case <-ctx.Done():
		return domain.CrawlJob{}, ctx.Err()
	}
}

// List returns all known jobs ordered by creation time.
func (o *Orchestrator) List() []domain.CrawlJob {
	o.mu.Lock()
	defer o.mu.Unlock()
	jobs := make([]domain.CrawlJob, 0, len(o.jobs))
	for _, h := range o.jobs {
		jobs = append(jobs, h.job)
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].CreatedAt.Before(jobs[j].CreatedAt) })
	return jobs
}

// Shutdown waits for in-flight jobs to finish. Pair with cancelling their
// parent context for a bounded stop.
func (o *Orchestrator) Shutdown() {
	o.wg.Wait()
}

func (o *Orchestrator) run(ctx context.Context, handle *jobHandle, src adapter.SourceAdapter) {
	select {
	case o.sem <- struct{}{}:
	case <-ctx.Done():
		o.finish(handle, domain.JobFailed, "cancelled before start")
		return
	}
	defer func() { <-o.sem }()

	o.transition(handle, domain.JobRunning)
	o.mu.Lock()
	handle.job.StartedAt = time.Now()
	job := handle.job
	o.mu.Unlock()

	policy := o.policy(job.SourceID)
	limiter := o.limiter(job.SourceID, policy)
	slot := o.slot(job.SourceID, policy)

	failedPages := 0
	for page := 1; page <= job.MaxPages; page++ {
		if err := limiter.Wait(ctx); err != nil {
			o.finish(handle, domain.JobFailed, "cancelled")
			return
		}
		if err := o.jitter(ctx, policy); err != nil {
			o.finish(handle, domain.JobFailed, "cancelled")
			return
		}

		select {
		case slot <- struct{}{}:
		case <-ctx.Done():
			o.finish(handle, domain.JobFailed, "cancelled")
			return
		}
		pg, err := o.fetchPage(ctx, handle, src, job.Keywords, page, policy)
		<-slot
		if err != nil {
			if ctx.Err() != nil {
				o.finish(handle, domain.JobFailed, "cancelled")
				return
			}
			failedPages++
			o.addResult(handle, domain.JobResult{Failed: 1})
			o.logger.Warn("page failed", "job", job.ID, "source", job.SourceID, "page", page, "error", err)
			continue
		}

		o.addResult(handle, domain.JobResult{Skipped: pg.Skipped})

		for _, item := range pg.Items {
			outcome, perr := o.pipeline.ProcessItem(ctx, item)
			if ctx.Err() != nil {
				o.finish(handle, domain.JobFailed, "cancelled")
				return
			}
			switch outcome {
			case OutcomeStored:
				o.addResult(handle, domain.JobResult{Success: 1})
			case OutcomeDuplicate:
				o.addResult(handle, domain.JobResult{Duplicate: 1})
			case OutcomeSkipped:
				o.addResult(handle, domain.JobResult{Skipped: 1})
				o.logger.Debug("item skipped", "job", job.ID, "error", perr)
			case OutcomeFailed:
				o.addResult(handle, domain.JobResult{Failed: 1})
				o.logger.Warn("item failed", "job", job.ID, "error", perr)
			}
		}
	}

	summary := ""
	if failedPages > 0 {
		summary = fmt.Sprintf("%d of %d pages failed", failedPages, job.MaxPages)
	}
	o.finish(handle, domain.JobCompleted, summary)
}

// fetchPage retries blocked and timed-out fetches with backoff up to the
// policy ceiling. Unparseable pages are terminal: a layout change will not
// heal within a retry window.
func (o *Orchestrator) fetchPage(ctx context.Context, handle *jobHandle, src adapter.SourceAdapter, keywords []string, page int, policy SourcePolicy) (adapter.Page, error) {
	bo := o.opts.NewBackOff()

	var lastErr error
	for attempt := 1; attempt <= policy.MaxRetries; attempt++ {
		pg, err := src.FetchPage(ctx, keywords, page)
		if err == nil {
			return pg, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return adapter.Page{}, err
		}
		if errors.Is(err, adapter.ErrParse) {
			return adapter.Page{}, err
		}
		if attempt == policy.MaxRetries {
			break
		}

		wait := bo.NextBackOff()
		if wait == backoff.Stop {
			break
		}

		o.transition(handle, domain.JobRetrying)
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			o.transition(handle, domain.JobRunning)
			return adapter.Page{}, ctx.Err()
		}
		o.transition(handle, domain.JobRunning)
	}

	return adapter.Page{}, fmt.Errorf("page %d after %d attempts: %w", page, policy.MaxRetries, lastErr)
}

func (o *Orchestrator) jitter(ctx context.Context, policy SourcePolicy) error {
	window := policy.MaxDelay - policy.MinDelay
	if window <= 0 {
		return nil
	}
	select {
	case <-time.After(time.Duration(rand.Int63n(int64(window)))):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (o *Orchestrator) policy(sourceID string) SourcePolicy {
	if p, ok := o.opts.Policies[sourceID]; ok {
		return p.normalized()
	}
	return o.opts.DefaultPolicy.normalized()
}

// limiter returns the shared per-source limiter so overlapping jobs on the
// same source still respect one combined request floor.
func (o *Orchestrator) limiter(sourceID string, policy SourcePolicy) *rate.Limiter {
	o.mu.Lock()
	defer o.mu.Unlock()
	if l, ok := o.limiters[sourceID]; ok {
		return l
	}
	limit := rate.Inf
	if policy.MinDelay > 0 {
		limit = rate.Every(policy.MinDelay)
	}
	l := rate.NewLimiter(limit, 1)
	o.limiters[sourceID] = l
	return l
}

// slot returns the shared per-source in-flight semaphore.
func (o *Orchestrator) slot(sourceID string, policy SourcePolicy) chan struct{} {
	o.mu.Lock()
	defer o.mu.Unlock()
	if s, ok := o.slots[sourceID]; ok {
		return s
	}
	s := make(chan struct{}, policy.MaxInFlight)
	o.slots[sourceID] = s
	return s
}

func (o *Orchestrator) transition(handle *jobHandle, to domain.JobState) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if handle.job.State == to {
		return
	}
	if err := domain.ValidateTransition(handle.job.State, to); err != nil {
		o.logger.Error("illegal job transition", "job", handle.job.ID, "error", err)
		return
	}
	handle.job.State = to
}

func (o *Orchestrator) addResult(handle *jobHandle, delta domain.JobResult) {
	o.mu.Lock()
	defer o.mu.Unlock()
	handle.job.Result.Success += delta.Success
	handle.job.Result.Failed += delta.Failed
	handle.job.Result.Duplicate += delta.Duplicate
	handle.job.Result.Skipped += delta.Skipped
}

func (o *Orchestrator) finish(handle *jobHandle, state domain.JobState, message string) {
	o.transition(handle, state)
	o.mu.Lock()
	handle.job.EndedAt = time.Now()
	if message != "" {
		handle.job.Error = message
	}
	o.mu.Unlock()
	o.logger.Info("job finished",
		"job", handle.job.ID, "source", handle.job.SourceID,
		"state", state, "result", fmt.Sprintf("%+v", handle.job.Result))
}
