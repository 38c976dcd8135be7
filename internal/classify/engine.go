// Package classify assigns three-level taxonomy paths to normalized text
// using specificity-weighted keyword scoring, with an optional
// confidence-gated secondary classifier.
package classify

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	ahocorasick "github.com/cloudflare/ahocorasick"

	"ArticleMiner/internal/domain"
	"ArticleMiner/internal/taxonomy"
)

// Secondary is the external best-effort classifier consulted when rule-based
// confidence is low. Implementations must honor the context deadline.
type Secondary interface {
	Classify(ctx context.Context, title, text string) (domain.Classification, error)
}

// Options tune the rule engine and the secondary gate.
type Options struct {
	// MinMatchScore is the floor below which a level stays unclassified.
	MinMatchScore float64
	// Smoothing shapes the saturating confidence transform
	// score/(score+Smoothing).
	Smoothing float64
	// LowConfidenceThreshold gates the secondary classifier on level-1
	// confidence.
	LowConfidenceThreshold float64
	// SecondaryMinLength is the minimum rune count for a reliable secondary
	// analysis.
	SecondaryMinLength int
	// SecondaryTimeout bounds each secondary call.
	SecondaryTimeout time.Duration
}

// DefaultOptions mirror the production thresholds.
func DefaultOptions() Options {
	return Options{
		MinMatchScore:          0.15,
		Smoothing:              0.5,
		LowConfidenceThreshold: 0.7,
		SecondaryMinLength:     50,
		SecondaryTimeout:       30 * time.Second,
	}
}

// Engine performs the three-level traversal. Matchers are built once at
// construction from an immutable taxonomy; the engine is safe for concurrent
// use.
type Engine struct {
	tree      *taxonomy.Tree
	opts      Options
	secondary Secondary
	logger    *slog.Logger

	rootScope  *scope
	childScope map[*taxonomy.Node]*scope
}

// New builds an engine over the given tree. secondary may be nil to disable
// the low-confidence fallback.
func New(tree *taxonomy.Tree, opts Options, secondary Secondary, logger *slog.Logger) *Engine {
	e := &Engine{
		tree:       tree,
		opts:       opts,
		secondary:  secondary,
		logger:     logger,
		childScope: make(map[*taxonomy.Node]*scope),
	}

	e.rootScope = newScope(tree.Roots())
	for _, root := range tree.Roots() {
		e.childScope[root] = newScope(root.Children)
		for _, sub := range root.Children {
			e.childScope[sub] = newScope(sub.Children)
		}
	}

	return e
}

// Classify assigns the best-matching taxonomy path. Malformed or empty text
// yields an all-empty path with zero confidence, never an error. When a
// secondary classifier is configured and the level-1 confidence falls below
// the low-confidence threshold on sufficiently long text, its result
// overrides the rule-based path wholesale; secondary unavailability is
// logged and the rule-based result stands.
func (e *Engine) Classify(ctx context.Context, title, text string) domain.Classification {
	rule := e.classifyByRules(title, text)

	if e.secondary == nil {
		return rule
	}
	if rule.Confidence[0] >= e.opts.LowConfidenceThreshold && rule.Path[0] != "" {
		return rule
	}
	if utf8.RuneCountInString(text) < e.opts.SecondaryMinLength {
		return rule
	}

	secCtx, cancel := context.WithTimeout(ctx, e.opts.SecondaryTimeout)
	defer cancel()

	secondary, err := e.secondary.Classify(secCtx, title, text)
	if err != nil {
		e.warn("secondary classifier unavailable", "error", err)
		return rule
	}
	if secondary.Path[0] == "" {
		return rule
	}

	secondary = e.sanitize(secondary)
	secondary.Method = domain.MethodRuleSecondary
	return secondary
}

// classifyByRules walks the tree one level at a time. Keywords matched
// inside the title count double, since titles carry the strongest topical
// signal.
func (e *Engine) classifyByRules(title, text string) domain.Classification {
	result := domain.Classification{Method: domain.MethodRule}

	combined := strings.TrimSpace(title + " " + text)
	if combined == "" {
		return result
	}

	lengthNorm := math.Log(float64(utf8.RuneCountInString(combined)) + math.E)

	scopes := [taxonomy.MaxDepth]*scope{e.rootScope}
	var chosen *taxonomy.Node

	for level := 0; level < taxonomy.MaxDepth; level++ {
		sc := scopes[level]
		if sc == nil || sc.empty() {
			break
		}

		node, score := sc.best(combined, title, lengthNorm)
		if node == nil || score < e.opts.MinMatchScore {
			break
		}

		result.Path[level] = node.Key
		result.Confidence[level] = score / (score + e.opts.Smoothing)

		chosen = node
		if level+1 < taxonomy.MaxDepth {
			scopes[level+1] = e.childScope[chosen]
		}
	}

	return result
}

// sanitize truncates a secondary path at the first segment that violates
// taxonomy containment, zeroing the corresponding confidences.
func (e *Engine) sanitize(c domain.Classification) domain.Classification {
	var node *taxonomy.Node
	for i, seg := range c.Path {
		if seg == "" {
			for j := i; j < taxonomy.MaxDepth; j++ {
				c.Path[j] = ""
				c.Confidence[j] = 0
			}
			return c
		}
		if i == 0 {
			node = e.tree.Root(seg)
		} else {
			node = node.Child(seg)
		}
		if node == nil {
			for j := i; j < taxonomy.MaxDepth; j++ {
				c.Path[j] = ""
				c.Confidence[j] = 0
			}
			return c
		}
	}
	return c
}

func (e *Engine) warn(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Warn(msg, args...)
	}
}

// scope scores one set of sibling candidates with a shared Aho-Corasick
// automaton over the union of their subtree keywords.
type scope struct {
	matcher    *ahocorasick.Matcher
	candidates []*taxonomy.Node
	owners     [][]owner // automaton index -> owning candidates
}

type owner struct {
	node   *taxonomy.Node
	weight float64
}

func newScope(candidates []*taxonomy.Node) *scope {
	sc := &scope{candidates: candidates}

	index := map[string]int{}
	var keywords []string

	for _, cand := range candidates {
		seen := map[string]bool{}
		for _, kw := range cand.SubtreeKeywords() {
			if kw == "" || seen[kw] {
				continue
			}
			seen[kw] = true

			idx, ok := index[kw]
			if !ok {
				idx = len(keywords)
				index[kw] = idx
				keywords = append(keywords, kw)
				sc.owners = append(sc.owners, nil)
			}
			sc.owners[idx] = append(sc.owners[idx], owner{node: cand, weight: keywordWeight(kw)})
		}
	}

	if len(keywords) > 0 {
		sc.matcher = ahocorasick.NewStringMatcher(keywords)
	}
	return sc
}

func (sc *scope) empty() bool {
	return len(sc.candidates) == 0 || sc.matcher == nil
}

// best returns the highest-scoring candidate. Equal scores break toward the
// lexicographically lower key so classification stays reproducible.
func (sc *scope) best(text, title string, lengthNorm float64) (*taxonomy.Node, float64) {
	hits := sc.matcher.MatchThreadSafe([]byte(text))
	if len(hits) == 0 {
		return nil, 0
	}

	inTitle := map[int]bool{}
	if title != "" {
		for _, idx := range sc.matcher.MatchThreadSafe([]byte(title)) {
			inTitle[idx] = true
		}
	}

	raw := map[*taxonomy.Node]float64{}
	for _, idx := range hits {
		if idx >= len(sc.owners) {
			continue
		}
		weight := 1.0
		if inTitle[idx] {
			weight = 2.0
		}
		for _, o := range sc.owners[idx] {
			raw[o.node] += o.weight * weight
		}
	}

	var bestNode *taxonomy.Node
	var bestScore float64
	for _, cand := range sc.candidates {
		score, ok := raw[cand]
		if !ok {
			continue
		}
		score /= lengthNorm
		if bestNode == nil || score > bestScore || (score == bestScore && cand.Key < bestNode.Key) {
			bestNode = cand
			bestScore = score
		}
	}

	return bestNode, bestScore
}

// keywordWeight makes longer, more specific keywords count for more:
// 1 + ln(runes). Monotonic and deterministic.
func keywordWeight(kw string) float64 {
	return 1 + math.Log(float64(utf8.RuneCountInString(kw)))
}
