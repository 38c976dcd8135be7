package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ArticleMiner/internal/classify"
	"ArticleMiner/internal/dedup"
	"ArticleMiner/internal/domain"
	"ArticleMiner/internal/normalize"
	"ArticleMiner/internal/ports"
	"ArticleMiner/internal/quality"
)

// Outcome tells the orchestrator which job counter an item lands in.
type Outcome int

const (
	OutcomeStored Outcome = iota
	OutcomeDuplicate
	OutcomeSkipped
	OutcomeFailed
)

// PipelineDeps wires the processing stages and driven adapters into the
// per-item pipeline.
type PipelineDeps struct {
	Normalizer    *normalize.Normalizer
	Dedup         *dedup.Store
	Scorer        *quality.Scorer
	Classifier    *classify.Engine
	Store         ports.RecordStore
	KnowledgeBase ports.KnowledgeBase
	Logger        *slog.Logger
	Now           func() time.Time
}

// Pipeline runs one raw item through normalize, dedup, score, classify and
// persist. It is stateless between items and safe for concurrent use.
type Pipeline struct {
	normalizer    *normalize.Normalizer
	dedup         *dedup.Store
	scorer        *quality.Scorer
	classifier    *classify.Engine
	store         ports.RecordStore
	knowledgeBase ports.KnowledgeBase
	logger        *slog.Logger
	now           func() time.Time
}

// NewPipeline constructs the per-item processing component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Pipeline{
		normalizer:    deps.Normalizer,
		dedup:         deps.Dedup,
		scorer:        deps.Scorer,
		classifier:    deps.Classifier,
		store:         deps.Store,
		knowledgeBase: deps.KnowledgeBase,
		logger:        logger.With("component", "pipeline"),
		now:           now,
	}
}

// ProcessItem consumes one raw item exactly once. Malformed items are
// skipped, repeated content is counted as duplicate, persistence failures as
// failed. The returned error carries detail for logging; the Outcome alone
// decides the job counters.
func (p *Pipeline) ProcessItem(ctx context.Context, item domain.RawItem) (Outcome, error) {
	if err := item.Validate(); err != nil {
		return OutcomeSkipped, fmt.Errorf("validate: %w", err)
	}

	res := p.normalizer.Normalize(item.Body())
	content := domain.NormalizedContent{
		Text:        res.Text,
		Fingerprint: res.Fingerprint,
		CharLength:  res.CharLength,
		TooShort:    res.TooShort,
	}

	if !p.dedup.CheckAndRecord(content.Fingerprint) {
		return OutcomeDuplicate, nil
	}

	report := p.scorer.Score(item.Title, content)

	var classification domain.Classification
	if content.TooShort {
		classification = domain.Classification{Method: domain.MethodRule}
	} else {
		classification = p.classifier.Classify(ctx, item.Title, content.Text)
	}

	record := domain.Record{
		SourceID:       item.SourceID,
		ExternalID:     item.ExternalID,
		Title:          item.Title,
		Content:        content.Text,
		Author:         item.Author,
		PublishTime:    item.PublishTime,
		URL:            item.URL,
		ContentType:    item.ContentType,
		SentimentLabel: item.SentimentLabel,
		Fingerprint:    content.Fingerprint,
		ContentLength:  content.CharLength,
		Quality:        report,
		Classification: classification,
		FetchedAt:      p.now(),
	}

	if err := p.store.Save(ctx, record); err != nil {
		if errors.Is(err, ports.ErrDuplicateRecord) {
			return OutcomeDuplicate, nil
		}
		// Release the fingerprint so a later crawl can retry the item.
		p.dedup.Forget(content.Fingerprint)
		return OutcomeFailed, fmt.Errorf("save %s/%s: %w", item.SourceID, item.ExternalID, err)
	}

	if p.knowledgeBase != nil && report.IsValid {
		if err := p.knowledgeBase.Push(ctx, record); err != nil {
			// The record is persisted; export can be replayed later.
			p.logger.Warn("knowledge base push failed",
				"source", item.SourceID, "external_id", item.ExternalID, "error", err)
		}
	}

	return OutcomeStored, nil
}
