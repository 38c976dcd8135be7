// Package quality scores normalized text with structural and length
// heuristics. Low-quality items are flagged downstream, never dropped here.
package quality

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"ArticleMiner/internal/domain"
)

// Heuristic weights. They sum to 1.0 before the spam penalty is applied.
const (
	lengthWeight      = 0.3
	titleWeight       = 0.1
	structureWeight   = 0.2
	richnessWeight    = 0.2
	punctuationWeight = 0.2

	spamPenalty = 0.4

	// maxIdenticalRun flags texts padded with repeated characters.
	maxIdenticalRun = 8
)

var sentenceBoundaries = "。！？.!?"
var punctuation = "，。！？；：、\"\"''《》（）,.!?;:()"

// Scorer computes QualityReports. Construct with New; the zero value scores
// everything as invalid.
type Scorer struct {
	minLength      int
	maxLength      int
	validThreshold float64
	bannedPatterns []string
}

// New builds a scorer. bannedPatterns are literal substrings (ad boilerplate,
// known spam phrases) whose presence marks the text as spam.
func New(minLength, maxLength int, validThreshold float64, bannedPatterns []string) *Scorer {
	return &Scorer{
		minLength:      minLength,
		maxLength:      maxLength,
		validThreshold: validThreshold,
		bannedPatterns: bannedPatterns,
	}
}

// Score rates normalized content in [0,1]. Empty or sub-minimum-length text
// scores 0. The result is deterministic for identical input.
func (s *Scorer) Score(title string, content domain.NormalizedContent) domain.QualityReport {
	text := content.Text
	length := content.CharLength

	isSpam, matches := s.spamMatches(title, text)

	if length == 0 || length < s.minLength {
		return domain.QualityReport{Score: 0, IsValid: false, IsSpam: isSpam, SpamMatches: matches}
	}

	score := s.lengthScore(length) * lengthWeight

	if utf8.RuneCountInString(strings.TrimSpace(title)) >= 10 {
		score += titleWeight
	}

	score += structureScore(text) * structureWeight
	score += richnessScore(text) * richnessWeight
	score += punctuationScore(text, length) * punctuationWeight

	if isSpam {
		score -= spamPenalty
	}

	score = clamp01(score)

	valid := !isSpam && length <= s.maxLength && score >= s.validThreshold

	return domain.QualityReport{
		Score:       score,
		IsValid:     valid,
		IsSpam:      isSpam,
		SpamMatches: matches,
	}
}

// lengthScore saturates at 1.0 inside the configured window and decays for
// oversized texts, never below 0.5.
func (s *Scorer) lengthScore(length int) float64 {
	if length <= s.maxLength {
		return 1.0
	}
	decayed := 1.0 - float64(length-s.maxLength)/float64(s.maxLength)
	if decayed < 0.5 {
		return 0.5
	}
	return decayed
}

func structureScore(text string) float64 {
	boundaries := 0
	for _, r := range text {
		if strings.ContainsRune(sentenceBoundaries, r) {
			boundaries++
		}
	}
	switch {
	case boundaries >= 3:
		return 1.0
	case boundaries >= 1:
		return 0.5
	}
	return 0
}

func richnessScore(text string) float64 {
	var han, latin, digit int
	for _, r := range text {
		switch {
		case unicode.Is(unicode.Han, r):
			han++
		case unicode.IsLetter(r):
			latin++
		case unicode.IsDigit(r):
			digit++
		}
	}

	score := 0.0
	if han > 100 {
		score += 0.5
	}
	if latin > 10 || digit > 5 {
		score += 0.5
	}
	return score
}

func punctuationScore(text string, length int) float64 {
	count := 0
	for _, r := range text {
		if strings.ContainsRune(punctuation, r) {
			count++
		}
	}
	switch {
	case count*50 > length:
		return 1.0
	case count*100 > length:
		return 0.5
	}
	return 0
}

func (s *Scorer) spamMatches(title, text string) (bool, []string) {
	combined := title + " " + text

	var matches []string
	for _, pattern := range s.bannedPatterns {
		if pattern != "" && strings.Contains(combined, pattern) {
			matches = append(matches, pattern)
		}
	}

	if run := longestIdenticalRun(text); run >= maxIdenticalRun {
		matches = append(matches, "repeated-characters")
	}

	return len(matches) > 0, matches
}

func longestIdenticalRun(text string) int {
	var prev rune
	run, longest := 0, 0
	for _, r := range text {
		if r == prev {
			run++
		} else {
			prev, run = r, 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
