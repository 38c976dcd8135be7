package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"

	"ArticleMiner/internal/adapter"
	"ArticleMiner/internal/classify"
	"ArticleMiner/internal/dedup"
	"ArticleMiner/internal/domain"
	"ArticleMiner/internal/normalize"
	"ArticleMiner/internal/ports"
	"ArticleMiner/internal/quality"
	"ArticleMiner/internal/taxonomy"
)

// fakeAdapter scripts FetchPage responses keyed by page number and call
// count, so retry behavior can be asserted exactly.
type fakeAdapter struct {
	mu     sync.Mutex
	calls  map[int]int
	script func(page, call int) (adapter.Page, error)
}

func newFakeAdapter(script func(page, call int) (adapter.Page, error)) *fakeAdapter {
	return &fakeAdapter{calls: map[int]int{}, script: script}
}

func (f *fakeAdapter) SourceID() string { return "fake" }

func (f *fakeAdapter) DefaultContentType() domain.ContentType { return domain.ContentTypeArticle }

func (f *fakeAdapter) FetchPage(ctx context.Context, keywords []string, page int) (adapter.Page, error) {
	f.mu.Lock()
	f.calls[page]++
	call := f.calls[page]
	f.mu.Unlock()
	return f.script(page, call)
}

func (f *fakeAdapter) pageCalls(page int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[page]
}

// memStore is an in-memory RecordStore with fingerprint uniqueness.
type memStore struct {
	mu      sync.Mutex
	records []domain.Record
	saveErr error
}

var _ ports.RecordStore = (*memStore)(nil)

func (m *memStore) Save(ctx context.Context, record domain.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	for _, r := range m.records {
		if r.Fingerprint == record.Fingerprint {
			return ports.ErrDuplicateRecord
		}
	}
	m.records = append(m.records, record)
	return nil
}

func (m *memStore) Query(ctx context.Context, filter ports.Filter) ([]domain.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Record(nil), m.records...), nil
}

func (m *memStore) AggregateStatistics(ctx context.Context) (ports.Statistics, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return ports.Statistics{Total: len(m.records)}, nil
}

func (m *memStore) Fingerprints(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fps := make([]string, 0, len(m.records))
	for _, r := range m.records {
		fps = append(fps, r.Fingerprint)
	}
	return fps, nil
}

func (m *memStore) setSaveErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

func (m *memStore) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

func newTestPipeline(store ports.RecordStore, kb ports.KnowledgeBase) *Pipeline {
	return NewPipeline(PipelineDeps{
		Normalizer:    normalize.New(10),
		Dedup:         dedup.NewStore(),
		Scorer:        quality.New(10, 50000, 0.5, nil),
		Classifier:    classify.New(taxonomy.Default(), classify.DefaultOptions(), nil, nil),
		Store:         store,
		KnowledgeBase: kb,
	})
}

func newTestOrchestrator(t *testing.T, fake *fakeAdapter, store ports.RecordStore) *Orchestrator {
	t.Helper()
	registry := adapter.NewRegistry()
	registry.Register(fake)
	return NewOrchestrator(registry, newTestPipeline(store, nil), OrchestratorOptions{
		MaxConcurrentJobs: 2,
		DefaultPolicy:     SourcePolicy{MaxRetries: 3},
		NewBackOff:        func() backoff.BackOff { return &backoff.ZeroBackOff{} },
	}, nil)
}

func testItem(id, text string) domain.RawItem {
	return domain.RawItem{
		SourceID:    "fake",
		ExternalID:  id,
		Title:       "测试标题" + id,
		RawContent:  text,
		ContentType: domain.ContentTypeArticle,
	}
}

func waitForJob(t *testing.T, o *Orchestrator, jobID string) domain.CrawlJob {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	job, err := o.Wait(ctx, jobID)
	if err != nil {
		t.Fatalf("wait for job %s: %v", jobID, err)
	}
	return job
}

func TestSubmitUnknownSource(t *testing.T) {
	t.Parallel()

	o := newTestOrchestrator(t, newFakeAdapter(nil), &memStore{})
	if _, err := o.Submit(context.Background(), "nope", nil, 1); err == nil {
		t.Fatal("expected error for unregistered source")
	}
}

func TestJobCompletesWithCounts(t *testing.T) {
	t.Parallel()

	fake := newFakeAdapter(func(page, call int) (adapter.Page, error) {
		switch page {
		case 1:
			return adapter.Page{Items: []domain.RawItem{
				testItem("a", "第一篇内容，关于企业管理与绩效考核的讨论。"),
				testItem("b", "第二篇内容，讲焦虑症的认知行为疗法实践。"),
			}, Skipped: 1}, nil
		default:
			return adapter.Page{Items: []domain.RawItem{
				testItem("c", "第三篇内容，增值税申报的常见问题汇总。"),
			}}, nil
		}
	})
	store := &memStore{}
	o := newTestOrchestrator(t, fake, store)

	id, err := o.Submit(context.Background(), "fake", []string{"管理"}, 2)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	job := waitForJob(t, o, id)

	if job.State != domain.JobCompleted {
		t.Fatalf("state = %s, want completed", job.State)
	}
	want := domain.JobResult{Success: 3, Skipped: 1}
	if job.Result != want {
		t.Fatalf("result = %+v, want %+v", job.Result, want)
	}
	if store.len() != 3 {
		t.Fatalf("stored %d records, want 3", store.len())
	}
}

func TestRetryCeilingStopsAfterConfiguredAttempts(t *testing.T) {
	t.Parallel()

	fake := newFakeAdapter(func(page, call int) (adapter.Page, error) {
		return adapter.Page{}, adapter.ErrSourceTimeout
	})
	o := newTestOrchestrator(t, fake, &memStore{})

	id, err := o.Submit(context.Background(), "fake", nil, 1)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	job := waitForJob(t, o, id)

	if got := fake.pageCalls(1); got != 3 {
		t.Fatalf("page fetched %d times, want exactly 3", got)
	}
	if job.State != domain.JobCompleted {
		t.Fatalf("state = %s, want completed despite failed page", job.State)
	}
	if job.Result.Failed != 1 {
		t.Fatalf("failed = %d, want the exhausted page counted", job.Result.Failed)
	}
	if !strings.Contains(job.Error, "1 of 1 pages failed") {
		t.Fatalf("error summary = %q", job.Error)
	}
}

func TestBlockedPageRetriedUpToCeiling(t *testing.T) {
	t.Parallel()

	// Page 1 is blocked twice and recovers within the ceiling; page 2 stays
	// blocked and exhausts it.
	fake := newFakeAdapter(func(page, call int) (adapter.Page, error) {
		if page == 1 {
			if call < 3 {
				return adapter.Page{}, adapter.ErrSourceBlocked
			}
			return adapter.Page{Items: []domain.RawItem{
				testItem("x", "拦截解除之后成功抓取的内容。"),
			}}, nil
		}
		return adapter.Page{}, adapter.ErrSourceBlocked
	})
	o := newTestOrchestrator(t, fake, &memStore{})

	id, err := o.Submit(context.Background(), "fake", nil, 2)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	job := waitForJob(t, o, id)

	if got := fake.pageCalls(1); got != 3 {
		t.Fatalf("recovering page fetched %d times, want 3", got)
	}
	if got := fake.pageCalls(2); got != 3 {
		t.Fatalf("blocked page fetched %d times, want the full ceiling of 3", got)
	}
	if job.Result.Success != 1 || job.Result.Failed != 1 {
		t.Fatalf("result = %+v, want success 1 and failed 1", job.Result)
	}
	if job.State != domain.JobCompleted {
		t.Fatalf("state = %s, want completed", job.State)
	}
	if !strings.Contains(job.Error, "1 of 2 pages failed") {
		t.Fatalf("error summary = %q", job.Error)
	}
}

func TestParseErrorNotRetried(t *testing.T) {
	t.Parallel()

	fake := newFakeAdapter(func(page, call int) (adapter.Page, error) {
		return adapter.Page{}, fmt.Errorf("layout changed: %w", adapter.ErrParse)
	})
	o := newTestOrchestrator(t, fake, &memStore{})

	id, err := o.Submit(context.Background(), "fake", nil, 1)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	waitForJob(t, o, id)

	if got := fake.pageCalls(1); got != 1 {
		t.Fatalf("unparseable page fetched %d times, want 1", got)
	}
}

func TestRepeatedRunsAreIdempotent(t *testing.T) {
	t.Parallel()

	page := adapter.Page{Items: []domain.RawItem{
		testItem("same", "完全相同的内容只应入库一次，重复计为 duplicate。"),
	}}
	fake := newFakeAdapter(func(int, int) (adapter.Page, error) { return page, nil })
	store := &memStore{}
	o := newTestOrchestrator(t, fake, store)

	first, err := o.Submit(context.Background(), "fake", nil, 1)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	firstJob := waitForJob(t, o, first)

	second, err := o.Submit(context.Background(), "fake", nil, 1)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	secondJob := waitForJob(t, o, second)

	if firstJob.Result.Success != 1 || firstJob.Result.Duplicate != 0 {
		t.Fatalf("first run result = %+v", firstJob.Result)
	}
	if secondJob.Result.Success != 0 || secondJob.Result.Duplicate != 1 {
		t.Fatalf("second run result = %+v", secondJob.Result)
	}
	if store.len() != 1 {
		t.Fatalf("stored %d records, want 1", store.len())
	}
}

func TestCancelStopsJobWithPartialCounts(t *testing.T) {
	t.Parallel()

	fake := newFakeAdapter(nil)
	fake.script = func(page, call int) (adapter.Page, error) {
		if page == 1 {
			return adapter.Page{Items: []domain.RawItem{
				testItem("p1", "取消前已经处理完成的第一页内容。"),
			}}, nil
		}
		// Later pages hang until the job context is cancelled.
		time.Sleep(50 * time.Millisecond)
		return adapter.Page{}, context.Canceled
	}
	o := newTestOrchestrator(t, fake, &memStore{})

	id, err := o.Submit(context.Background(), "fake", nil, 100)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	// Let the first page land, then cancel.
	deadline := time.Now().Add(2 * time.Second)
	for {
		job, err := o.Status(id)
		if err != nil {
			t.Fatalf("status: %v", err)
		}
		if job.Result.Success >= 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("first page never processed")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if err := o.Cancel(id); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	job := waitForJob(t, o, id)
	if job.State != domain.JobFailed {
		t.Fatalf("state = %s, want failed after cancel", job.State)
	}
	if job.Result.Success != 1 {
		t.Fatalf("partial result lost: %+v", job.Result)
	}
	if job.Error == "" {
		t.Fatal("cancelled job should carry an error summary")
	}
}

func TestListOrdersByCreation(t *testing.T) {
	t.Parallel()

	fake := newFakeAdapter(func(int, int) (adapter.Page, error) { return adapter.Page{}, nil })
	o := newTestOrchestrator(t, fake, &memStore{})

	var ids []string
	for i := 0; i < 3; i++ {
		id, err := o.Submit(context.Background(), "fake", nil, 1)
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		ids = append(ids, id)
		waitForJob(t, o, id)
	}

	jobs := o.List()
	if len(jobs) != 3 {
		t.Fatalf("listed %d jobs, want 3", len(jobs))
	}
	for i, job := range jobs {
		if job.ID != ids[i] {
			t.Fatalf("job order mismatch at %d: %s != %s", i, job.ID, ids[i])
		}
	}
}
