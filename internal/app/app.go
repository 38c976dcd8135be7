// Package app assembles configuration, infrastructure and use cases into a
// runnable service.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"

	"ArticleMiner/internal/adapter"
	"ArticleMiner/internal/classify"
	"ArticleMiner/internal/config"
	"ArticleMiner/internal/dedup"
	"ArticleMiner/internal/infrastructure/crawler"
	"ArticleMiner/internal/infrastructure/kb"
	"ArticleMiner/internal/infrastructure/llm"
	"ArticleMiner/internal/infrastructure/scheduler"
	"ArticleMiner/internal/infrastructure/storage"
	"ArticleMiner/internal/logging"
	"ArticleMiner/internal/normalize"
	"ArticleMiner/internal/ports"
	"ArticleMiner/internal/quality"
	"ArticleMiner/internal/taxonomy"
	"ArticleMiner/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg          config.Config
	logger       *slog.Logger
	db           *sql.DB
	store        *storage.PostgresRepository
	dedup        *dedup.Store
	orchestrator *usecase.Orchestrator
	schedulers   []*usecase.Scheduler
}

// New builds the full object graph. The returned application owns the
// database handle; call Close when done.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	tree := taxonomy.Default()
	baseLogger.Info("taxonomy loaded", "categories", len(tree.Roots()), "leaves", tree.LeafCount())

	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	store := storage.NewPostgresRepository(db)

	var secondary classify.Secondary
	if cfg.DeepSeek.APIKey != "" {
		secondary = llm.NewDeepSeekClient(cfg.DeepSeek.Endpoint, cfg.DeepSeek.Model, cfg.DeepSeek.APIKey, tree)
	}

	classifierOpts := classify.DefaultOptions()
	classifierOpts.LowConfidenceThreshold = cfg.Classifier.ConfidenceThreshold
	classifierOpts.SecondaryMinLength = cfg.Classifier.SecondaryMinLength
	classifier := classify.New(tree, classifierOpts, secondary, baseLogger.With("component", "classifier"))

	var knowledgeBase ports.KnowledgeBase
	if cfg.Dify.APIKey != "" && cfg.Dify.DatasetID != "" {
		knowledgeBase = kb.NewDifyClient(cfg.Dify.BaseURL, cfg.Dify.APIKey, cfg.Dify.DatasetID, tree)
	}

	dedupStore := dedup.NewStore()
	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Normalizer:    normalize.New(cfg.Content.MinLength),
		Dedup:         dedupStore,
		Scorer:        quality.New(cfg.Content.MinLength, cfg.Content.MaxLength, cfg.Content.QualityThreshold, cfg.Content.BannedPatterns),
		Classifier:    classifier,
		Store:         store,
		KnowledgeBase: knowledgeBase,
		Logger:        baseLogger,
	})

	registry := adapter.NewRegistry()
	registry.Register(crawler.NewZhihuAdapter(nil, ""))
	registry.Register(crawler.NewWechatAdapter(nil, ""))

	orchestrator := usecase.NewOrchestrator(registry, pipeline, usecase.OrchestratorOptions{
		MaxConcurrentJobs: cfg.Crawler.MaxConcurrentJobs,
		DefaultPolicy:     usecase.SourcePolicy{MaxRetries: 3},
		Policies:          sourcePolicies(cfg.Crawler.Sources),
	}, baseLogger)

	// Sources may carry their own cron expression; one driver per distinct
	// schedule keeps each platform on its configured hours.
	var schedulers []*usecase.Scheduler
	for _, group := range groupSchedules(cfg.Scheduler.CronExpression, cfg.Crawler.Sources) {
		driver := scheduler.NewCronScheduler(group.cron, cfg.Scheduler.Location())
		schedulers = append(schedulers, usecase.NewScheduler(driver, orchestrator, crawlSpecs(group.sources), baseLogger))
	}

	return &Application{
		cfg:          cfg,
		logger:       baseLogger.With("component", "app"),
		db:           db,
		store:        store,
		dedup:        dedupStore,
		orchestrator: orchestrator,
		schedulers:   schedulers,
	}, nil
}

// Orchestrator exposes job control for callers embedding the application.
func (a *Application) Orchestrator() *usecase.Orchestrator {
	return a.orchestrator
}

// Run prepares storage, preloads the dedup set and serves scheduled crawls
// until ctx is cancelled.
func (a *Application) Run(ctx context.Context) error {
	if err := a.store.EnsureSchema(ctx); err != nil {
		return err
	}

	fingerprints, err := a.store.Fingerprints(ctx)
	if err != nil {
		return fmt.Errorf("preload fingerprints: %w", err)
	}
	a.dedup.Preload(fingerprints)
	a.logger.Info("dedup preloaded", "fingerprints", len(fingerprints))

	for _, s := range a.schedulers {
		if err := s.Start(ctx); err != nil {
			return fmt.Errorf("start scheduler: %w", err)
		}
	}

	<-ctx.Done()

	for _, s := range a.schedulers {
		if err := s.Stop(context.Background()); err != nil {
			a.logger.Warn("scheduler stop", "error", err)
		}
	}
	a.orchestrator.Shutdown()
	return nil
}

// Close releases the database handle.
func (a *Application) Close() error {
	return a.db.Close()
}

// scheduleGroup couples one cron expression with the sources it drives.
type scheduleGroup struct {
	cron    string
	sources []config.SourceConfig
}

// groupSchedules buckets sources by effective cron expression, preserving
// configuration order. Sources without an override share the global one.
func groupSchedules(defaultExpr string, sources []config.SourceConfig) []scheduleGroup {
	var groups []scheduleGroup
	index := map[string]int{}
	for _, src := range sources {
		expr := src.CronExpression
		if expr == "" {
			expr = defaultExpr
		}
		i, ok := index[expr]
		if !ok {
			i = len(groups)
			index[expr] = i
			groups = append(groups, scheduleGroup{cron: expr})
		}
		groups[i].sources = append(groups[i].sources, src)
	}
	return groups
}

func sourcePolicies(sources []config.SourceConfig) map[string]usecase.SourcePolicy {
	policies := make(map[string]usecase.SourcePolicy, len(sources))
	for _, src := range sources {
		policies[src.Name] = usecase.SourcePolicy{
			MinDelay:    src.MinDelay(),
			MaxDelay:    src.MaxDelay(),
			MaxRetries:  src.MaxRetries,
			MaxInFlight: src.MaxInFlight,
		}
	}
	return policies
}

func crawlSpecs(sources []config.SourceConfig) []usecase.CrawlSpec {
	specs := make([]usecase.CrawlSpec, 0, len(sources))
	for _, src := range sources {
		specs = append(specs, usecase.CrawlSpec{
			SourceID: src.Name,
			Keywords: src.Keywords,
			MaxPages: src.MaxPages,
		})
	}
	return specs
}
