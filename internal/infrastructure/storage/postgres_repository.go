// Package storage persists processed records into Postgres.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"ArticleMiner/internal/domain"
	"ArticleMiner/internal/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS records (
    id             BIGSERIAL PRIMARY KEY,
    source_id      TEXT NOT NULL,
    external_id    TEXT NOT NULL,
    title          TEXT NOT NULL DEFAULT '',
    content        TEXT NOT NULL,
    author         TEXT NOT NULL DEFAULT '',
    publish_time   TIMESTAMPTZ,
    url            TEXT NOT NULL DEFAULT '',
    content_type   TEXT NOT NULL,
    sentiment      TEXT NOT NULL DEFAULT '',
    fingerprint    TEXT NOT NULL UNIQUE,
    content_length INTEGER NOT NULL,
    quality_score  DOUBLE PRECISION NOT NULL,
    is_valid       BOOLEAN NOT NULL,
    is_spam        BOOLEAN NOT NULL,
    spam_matches   TEXT[] NOT NULL DEFAULT '{}',
    category_l1    TEXT NOT NULL DEFAULT '',
    category_l2    TEXT NOT NULL DEFAULT '',
    category_l3    TEXT NOT NULL DEFAULT '',
    confidence_l1  DOUBLE PRECISION NOT NULL DEFAULT 0,
    confidence_l2  DOUBLE PRECISION NOT NULL DEFAULT 0,
    confidence_l3  DOUBLE PRECISION NOT NULL DEFAULT 0,
    method         TEXT NOT NULL DEFAULT '',
    fetched_at     TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS records_source_idx ON records (source_id);
CREATE INDEX IF NOT EXISTS records_category_idx ON records (category_l1);
`

var recordColumns = []string{
	"source_id", "external_id", "title", "content", "author", "publish_time",
	"url", "content_type", "sentiment", "fingerprint", "content_length",
	"quality_score", "is_valid", "is_spam", "spam_matches",
	"category_l1", "category_l2", "category_l3",
	"confidence_l1", "confidence_l2", "confidence_l3",
	"method", "fetched_at",
}

// PostgresRepository implements ports.RecordStore on Postgres.
type PostgresRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.RecordStore = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// EnsureSchema creates the records table and its indexes if absent.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Save inserts the record. A fingerprint collision reports
// ports.ErrDuplicateRecord without touching the stored row.
func (r *PostgresRepository) Save(ctx context.Context, record domain.Record) error {
	query, args, err := r.builder.
		Insert("records").
		Columns(recordColumns...).
		Values(
			record.SourceID,
			record.ExternalID,
			record.Title,
			record.Content,
			record.Author,
			nullableTime(record.PublishTime),
			record.URL,
			string(record.ContentType),
			record.SentimentLabel,
			record.Fingerprint,
			record.ContentLength,
			record.Quality.Score,
			record.Quality.IsValid,
			record.Quality.IsSpam,
			pq.StringArray(record.Quality.SpamMatches),
			record.Classification.Path[0],
			record.Classification.Path[1],
			record.Classification.Path[2],
			record.Classification.Confidence[0],
			record.Classification.Confidence[1],
			record.Classification.Confidence[2],
			record.Classification.Method,
			record.FetchedAt,
		).
		Suffix("ON CONFLICT (fingerprint) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ports.ErrDuplicateRecord
	}
	return nil
}

// Query returns records matching the filter, newest first.
func (r *PostgresRepository) Query(ctx context.Context, filter ports.Filter) ([]domain.Record, error) {
	builder := r.builder.
		Select(recordColumns...).
		From("records").
		OrderBy("fetched_at DESC, id DESC")

	if filter.SourceID != "" {
		builder = builder.Where(sq.Eq{"source_id": filter.SourceID})
	}
	if filter.Category != "" {
		builder = builder.Where(sq.Or{
			sq.Eq{"category_l1": filter.Category},
			sq.Eq{"category_l2": filter.Category},
			sq.Eq{"category_l3": filter.Category},
		})
	}
	if filter.ContentType != "" {
		builder = builder.Where(sq.Eq{"content_type": string(filter.ContentType)})
	}
	if filter.Sentiment != "" {
		builder = builder.Where(sq.Eq{"sentiment": filter.Sentiment})
	}
	if filter.MinQuality > 0 {
		builder = builder.Where(sq.GtOrEq{"quality_score": filter.MinQuality})
	}
	if filter.TextSearch != "" {
		pattern := "%" + filter.TextSearch + "%"
		builder = builder.Where(sq.Or{
			sq.ILike{"title": pattern},
			sq.ILike{"content": pattern},
		})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []domain.Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return records, nil
}

// AggregateStatistics summarizes the stored corpus in a handful of grouped
// queries.
func (r *PostgresRepository) AggregateStatistics(ctx context.Context) (ports.Statistics, error) {
	stats := ports.Statistics{
		BySource:      map[string]int{},
		ByCategory:    map[string]int{},
		ByContentType: map[string]int{},
		BySentiment:   map[string]int{},
		ByDay:         map[string]int{},
	}

	row := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(AVG(quality_score), 0) FROM records`)
	if err := row.Scan(&stats.Total, &stats.AverageScore); err != nil {
		return ports.Statistics{}, fmt.Errorf("totals: %w", err)
	}

	groups := []struct {
		expr string
		into map[string]int
	}{
		{"source_id", stats.BySource},
		{"category_l1", stats.ByCategory},
		{"content_type", stats.ByContentType},
		{"sentiment", stats.BySentiment},
		{"to_char(fetched_at, 'YYYY-MM-DD')", stats.ByDay},
	}
	for _, g := range groups {
		if err := r.countBy(ctx, g.expr, g.into); err != nil {
			return ports.Statistics{}, err
		}
	}

	delete(stats.ByCategory, "")
	delete(stats.BySentiment, "")
	return stats, nil
}

func (r *PostgresRepository) countBy(ctx context.Context, expr string, into map[string]int) error {
	query := fmt.Sprintf(`SELECT %s, COUNT(*) FROM records GROUP BY 1`, expr)
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("group by %s: %w", expr, err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return fmt.Errorf("scan group %s: %w", expr, err)
		}
		into[key] = count
	}
	return rows.Err()
}

// Fingerprints loads every stored fingerprint for dedup preload at startup.
func (r *PostgresRepository) Fingerprints(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT fingerprint FROM records`)
	if err != nil {
		return nil, fmt.Errorf("query fingerprints: %w", err)
	}
	defer rows.Close()

	var fps []string
	for rows.Next() {
		var fp string
		if err := rows.Scan(&fp); err != nil {
			return nil, fmt.Errorf("scan fingerprint: %w", err)
		}
		fps = append(fps, fp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return fps, nil
}

func scanRecord(rows *sql.Rows) (domain.Record, error) {
	var (
		record      domain.Record
		publishTime sql.NullTime
		contentType string
		matches     pq.StringArray
	)
	err := rows.Scan(
		&record.SourceID,
		&record.ExternalID,
		&record.Title,
		&record.Content,
		&record.Author,
		&publishTime,
		&record.URL,
		&contentType,
		&record.SentimentLabel,
		&record.Fingerprint,
		&record.ContentLength,
		&record.Quality.Score,
		&record.Quality.IsValid,
		&record.Quality.IsSpam,
		&matches,
		&record.Classification.Path[0],
		&record.Classification.Path[1],
		&record.Classification.Path[2],
		&record.Classification.Confidence[0],
		&record.Classification.Confidence[1],
		&record.Classification.Confidence[2],
		&record.Classification.Method,
		&record.FetchedAt,
	)
	if err != nil {
		return domain.Record{}, fmt.Errorf("scan record: %w", err)
	}
	if publishTime.Valid {
		record.PublishTime = publishTime.Time
	}
	record.ContentType = domain.ContentType(contentType)
	record.Quality.SpamMatches = matches
	return record, nil
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
