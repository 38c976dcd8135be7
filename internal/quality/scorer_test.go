package quality

import (
	"strings"
	"testing"
	"unicode/utf8"

	"ArticleMiner/internal/domain"
)

func normalized(text string) domain.NormalizedContent {
	return domain.NormalizedContent{
		Text:       text,
		CharLength: utf8.RuneCountInString(text),
	}
}

func TestScoreEmptyIsZero(t *testing.T) {
	t.Parallel()

	s := New(200, 50000, 0.5, nil)
	report := s.Score("任意标题内容不影响空文本", normalized(""))

	if report.Score != 0 {
		t.Fatalf("empty text score = %v, want 0", report.Score)
	}
	if report.IsValid {
		t.Fatal("empty text must be invalid")
	}
}

func TestScoreBelowMinimumIsZero(t *testing.T) {
	t.Parallel()

	s := New(200, 50000, 0.5, nil)
	report := s.Score("", normalized("内容太短。"))

	if report.Score != 0 {
		t.Fatalf("sub-minimum score = %v, want 0", report.Score)
	}
}

func TestScoreBounds(t *testing.T) {
	t.Parallel()

	s := New(20, 100, 0.5, []string{"立即购买"})

	inputs := []struct {
		title string
		text  string
	}{
		{"", ""},
		{"标题", "x"},
		{"一个足够长的标题用于加分", strings.Repeat("企业管理与战略规划实践，包含标点。数字2024与English。", 4)},
		{"", strings.Repeat("立即购买", 30)},
		{"", strings.Repeat("啊", 5000)},
	}

	for _, in := range inputs {
		report := s.Score(in.title, normalized(in.text))
		if report.Score < 0 || report.Score > 1 {
			t.Fatalf("score %v out of [0,1] for %q", report.Score, in.text[:min(20, len(in.text))])
		}
	}
}

func TestRichTextScoresWell(t *testing.T) {
	t.Parallel()

	s := New(50, 50000, 0.5, nil)

	text := strings.Repeat("企业管理需要关注组织架构、人才发展与绩效考核。2024年研究显示，KPI体系与OKR方法各有适用场景！", 5)
	report := s.Score("企业管理体系建设的十个关键问题", normalized(text))

	if report.Score < 0.8 {
		t.Fatalf("rich text score = %v, want >= 0.8", report.Score)
	}
	if !report.IsValid {
		t.Fatal("rich text should be valid")
	}
	if report.IsSpam {
		t.Fatal("rich text is not spam")
	}
}

func TestSpamPenalty(t *testing.T) {
	t.Parallel()

	s := New(20, 50000, 0.5, []string{"加微信", "立即购买"})

	text := strings.Repeat("好机会不要错过，加微信咨询详情。", 10)
	report := s.Score("", normalized(text))

	if !report.IsSpam {
		t.Fatal("expected spam flag")
	}
	if len(report.SpamMatches) == 0 {
		t.Fatal("expected matched patterns")
	}
	if report.IsValid {
		t.Fatal("spam must be invalid")
	}

	clean := s.Score("", normalized(strings.Repeat("正常的管理内容，没有广告词。", 10)))
	if clean.Score <= report.Score {
		t.Fatalf("spam penalty missing: spam %v >= clean %v", report.Score, clean.Score)
	}
}

func TestRepeatedCharacterRunFlagged(t *testing.T) {
	t.Parallel()

	s := New(10, 50000, 0.5, nil)
	report := s.Score("", normalized("正常开头"+strings.Repeat("！", 30)+"正常结尾"))

	if !report.IsSpam {
		t.Fatal("expected repeated-character spam flag")
	}
}

func TestScoreDeterministic(t *testing.T) {
	t.Parallel()

	s := New(20, 50000, 0.5, []string{"促销"})
	nc := normalized(strings.Repeat("战略执行与落地，需要管理层持续投入。", 8))

	first := s.Score("标题", nc)
	second := s.Score("标题", nc)
	if first.Score != second.Score || first.IsValid != second.IsValid {
		t.Fatalf("score not deterministic: %+v vs %+v", first, second)
	}
}
