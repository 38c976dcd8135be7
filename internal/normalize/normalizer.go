// Package normalize turns raw, possibly HTML-laden source content into the
// canonical text form the rest of the pipeline operates on.
package normalize

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// DefaultMinLength mirrors the minimum character floor for valid content.
const DefaultMinLength = 200

var whitespaceExpr = regexp.MustCompile(`\s+`)

// Normalizer produces deterministic NormalizedContent from raw text.
// The zero value is not usable; construct with New.
type Normalizer struct {
	minLength int
}

// New builds a normalizer with the given minimum character floor; values
// below 1 fall back to DefaultMinLength.
func New(minLength int) *Normalizer {
	if minLength < 1 {
		minLength = DefaultMinLength
	}
	return &Normalizer{minLength: minLength}
}

// Result is the normalized form of one raw input.
type Result struct {
	Text        string
	Fingerprint string
	CharLength  int
	TooShort    bool
}

// Normalize strips markup and boilerplate, collapses whitespace runs to
// single spaces, trims, and fingerprints the outcome. Two inputs that differ
// only in markup or whitespace produce identical results. Content below the
// configured floor is signalled via TooShort rather than an error.
func (n *Normalizer) Normalize(raw string) Result {
	text := raw
	if looksLikeHTML(text) {
		text = stripHTML(text)
	}

	text = whitespaceExpr.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	length := utf8.RuneCountInString(text)

	return Result{
		Text:        text,
		Fingerprint: Fingerprint(text),
		CharLength:  length,
		TooShort:    length < n.minLength,
	}
}

// Fingerprint returns the hex-encoded SHA-256 of the normalized text.
func Fingerprint(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func looksLikeHTML(s string) bool {
	open := strings.IndexByte(s, '<')
	return open >= 0 && strings.IndexByte(s[open:], '>') > 0
}

// stripHTML drops script/style blocks and navigation boilerplate, then
// returns the document text. Falls back to a tag-stripping regexp when the
// input cannot be parsed as a document.
func stripHTML(raw string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return tagExpr.ReplaceAllString(raw, " ")
	}
	doc.Find("script, style, nav, footer, header").Remove()
	return doc.Text()
}

var tagExpr = regexp.MustCompile(`<[^>]*>`)
