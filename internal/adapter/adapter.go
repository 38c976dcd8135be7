// Package adapter defines the per-source fetch contract and the registry
// that maps source identifiers to their implementations.
package adapter

import (
	"context"
	"errors"
	"fmt"

	"ArticleMiner/internal/domain"
)

// Sentinel errors adapters return so the orchestrator can tell transient
// failures from terminal ones.
var (
	// ErrSourceBlocked signals an anti-bot rejection (captcha, 403). The
	// orchestrator backs off instead of hammering the source.
	ErrSourceBlocked = errors.New("source blocked the request")
	// ErrSourceTimeout signals that the upstream did not answer in time.
	ErrSourceTimeout = errors.New("source request timed out")
	// ErrParse signals that the page structure was unrecognizable. Retrying
	// the same payload cannot help.
	ErrParse = errors.New("page could not be parsed")
)

// Page is one fetched result page. Skipped counts items the adapter dropped
// because individual entries were malformed; a page-level structural failure
// is reported through ErrParse instead.
type Page struct {
	Items   []domain.RawItem
	Skipped int
}

// SourceAdapter is a single platform strategy (Zhihu search, WeChat via
// Sogou, ...). FetchPage is called sequentially per source with page numbers
// starting at 1; pacing and retries belong to the caller.
type SourceAdapter interface {
	SourceID() string
	DefaultContentType() domain.ContentType
	FetchPage(ctx context.Context, keywords []string, page int) (Page, error)
}

// Registry keeps a mapping from source identifiers to their adapters.
type Registry struct {
	adapters map[string]SourceAdapter
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{adapters: map[string]SourceAdapter{}}
}

// Register adds or replaces an adapter implementation.
func (r *Registry) Register(a SourceAdapter) {
	if r.adapters == nil {
		r.adapters = map[string]SourceAdapter{}
	}
	r.adapters[a.SourceID()] = a
}

// Resolve returns an adapter by source identifier or an error if it is
// absent.
func (r *Registry) Resolve(sourceID string) (SourceAdapter, error) {
	if a, ok := r.adapters[sourceID]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("source %s is not registered", sourceID)
}

// SourceIDs lists the registered identifiers in registration-independent
// map order; callers needing stable order must sort.
func (r *Registry) SourceIDs() []string {
	ids := make([]string, 0, len(r.adapters))
	for id := range r.adapters {
		ids = append(ids, id)
	}
	return ids
}
