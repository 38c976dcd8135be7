package domain

import (
	"fmt"
	"strings"
	"time"
)

// ContentType selects which optional structured fields of a RawItem are populated.
type ContentType string

const (
	ContentTypeArticle ContentType = "article"
	ContentTypeNews    ContentType = "news"
	ContentTypeReview  ContentType = "review"
	ContentTypeQA      ContentType = "qa"
	ContentTypeSocial  ContentType = "social"
)

// Valid reports whether the content type is one of the known variants.
func (t ContentType) Valid() bool {
	switch t {
	case ContentTypeArticle, ContentTypeNews, ContentTypeReview, ContentTypeQA, ContentTypeSocial:
		return true
	}
	return false
}

// RawItem is a source-specific payload produced by a source adapter and
// consumed exactly once by the pipeline.
type RawItem struct {
	SourceID    string
	ExternalID  string
	Title       string
	RawContent  string
	Author      string
	PublishTime time.Time
	URL         string

	ContentType ContentType
	// Populated only when ContentType is qa.
	Question string
	Answer   string
	// Populated only when ContentType is review.
	SentimentLabel string
}

// Validate checks the tagged-variant rules at the adapter boundary so that
// downstream stages never re-check which optional fields are set.
func (it RawItem) Validate() error {
	if it.SourceID == "" {
		return fmt.Errorf("raw item: empty source id")
	}
	if it.ExternalID == "" {
		return fmt.Errorf("raw item %s: empty external id", it.SourceID)
	}
	if !it.ContentType.Valid() {
		return fmt.Errorf("raw item %s/%s: unknown content type %q", it.SourceID, it.ExternalID, it.ContentType)
	}
	if it.ContentType != ContentTypeQA && (it.Question != "" || it.Answer != "") {
		return fmt.Errorf("raw item %s/%s: question/answer set on %s content", it.SourceID, it.ExternalID, it.ContentType)
	}
	if it.ContentType != ContentTypeReview && it.SentimentLabel != "" {
		return fmt.Errorf("raw item %s/%s: sentiment set on %s content", it.SourceID, it.ExternalID, it.ContentType)
	}
	return nil
}

// Body assembles the text to be normalized. QA items carry their content in the
// question/answer pair rather than RawContent.
func (it RawItem) Body() string {
	if it.ContentType == ContentTypeQA && it.RawContent == "" {
		return strings.TrimSpace(it.Question + "\n" + it.Answer)
	}
	return it.RawContent
}

// NormalizedContent is derived from raw text and always travels attached to the
// record being built; it is never persisted on its own.
type NormalizedContent struct {
	Text        string
	Fingerprint string
	CharLength  int
	TooShort    bool
}

// Classification methods.
const (
	MethodRule          = "rule"
	MethodRuleSecondary = "rule+secondary"
)

// Classification holds the taxonomy path assigned to an item. Any suffix of
// Path may be empty when classification could not reach that depth; Confidence
// entries are meaningful only for non-empty path segments.
type Classification struct {
	Path       [3]string
	Confidence [3]float64
	Method     string
}

// Depth returns the number of non-empty leading path segments.
func (c Classification) Depth() int {
	for i, seg := range c.Path {
		if seg == "" {
			return i
		}
	}
	return len(c.Path)
}

// QualityReport carries the heuristic quality assessment of normalized text.
type QualityReport struct {
	Score       float64
	IsValid     bool
	IsSpam      bool
	SpamMatches []string
}

// Record is the final enriched unit handed to the persistence sink. Ownership
// transfers on save; the pipeline keeps no reference afterwards.
type Record struct {
	SourceID       string
	ExternalID     string
	Title          string
	Content        string
	Author         string
	PublishTime    time.Time
	URL            string
	ContentType    ContentType
	SentimentLabel string

	Fingerprint    string
	ContentLength  int
	Quality        QualityReport
	Classification Classification
	FetchedAt      time.Time
}
