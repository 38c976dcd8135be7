package ports

import (
	"context"
	"errors"
	"time"

	"ArticleMiner/internal/domain"
)

// ErrDuplicateRecord is returned by RecordStore.Save when the fingerprint is
// already persisted. Callers count it as a duplicate, not a failure.
var ErrDuplicateRecord = errors.New("record already stored")

// Filter narrows Query results. Zero values mean "no constraint".
type Filter struct {
	SourceID    string
	Category    string // matches any level of the classification path
	ContentType domain.ContentType
	Sentiment   string
	MinQuality  float64
	TextSearch  string // substring match over title and content
	Limit       int
	Offset      int
}

// Statistics aggregates the stored corpus for reporting.
type Statistics struct {
	Total         int
	BySource      map[string]int
	ByCategory    map[string]int // level-1 keys
	ByContentType map[string]int
	BySentiment   map[string]int
	ByDay         map[string]int // YYYY-MM-DD of FetchedAt
	AverageScore  float64
}

// RecordStore persists processed records and answers queries over them.
type RecordStore interface {
	Save(ctx context.Context, record domain.Record) error
	Query(ctx context.Context, filter Filter) ([]domain.Record, error)
	AggregateStatistics(ctx context.Context) (Statistics, error)
	// Fingerprints returns every stored fingerprint so the in-memory
	// deduplication set survives restarts.
	Fingerprints(ctx context.Context) ([]string, error)
}

// KnowledgeBase receives validated records rendered as documents.
type KnowledgeBase interface {
	Push(ctx context.Context, record domain.Record) error
}

// Scheduler controls when per-source crawl jobs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
