package domain

import "testing"

func TestValidateTransition(t *testing.T) {
	t.Parallel()

	allowed := []struct{ from, to JobState }{
		{JobPending, JobRunning},
		{JobPending, JobFailed},
		{JobRunning, JobRetrying},
		{JobRunning, JobCompleted},
		{JobRunning, JobFailed},
		{JobRetrying, JobRunning},
		{JobRetrying, JobFailed},
	}
	for _, tr := range allowed {
		if err := ValidateTransition(tr.from, tr.to); err != nil {
			t.Fatalf("%s -> %s should be allowed: %v", tr.from, tr.to, err)
		}
	}

	denied := []struct{ from, to JobState }{
		{JobPending, JobCompleted},
		{JobPending, JobRetrying},
		{JobCompleted, JobRunning},
		{JobFailed, JobRunning},
		{JobRetrying, JobCompleted},
	}
	for _, tr := range denied {
		if err := ValidateTransition(tr.from, tr.to); err == nil {
			t.Fatalf("%s -> %s should be rejected", tr.from, tr.to)
		}
	}

	if err := ValidateTransition(JobState("bogus"), JobRunning); err == nil {
		t.Fatal("unknown state should be rejected")
	}
}

func TestTerminalStates(t *testing.T) {
	t.Parallel()

	if !JobCompleted.IsTerminal() || !JobFailed.IsTerminal() {
		t.Fatal("completed and failed are terminal")
	}
	if JobPending.IsTerminal() || JobRunning.IsTerminal() || JobRetrying.IsTerminal() {
		t.Fatal("non-terminal state reported terminal")
	}
}

func TestRawItemValidate(t *testing.T) {
	t.Parallel()

	valid := RawItem{
		SourceID:    "zhihu",
		ExternalID:  "1",
		ContentType: ContentTypeQA,
		Question:    "问",
		Answer:      "答",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid qa item rejected: %v", err)
	}

	cases := []RawItem{
		{ExternalID: "1", ContentType: ContentTypeArticle},
		{SourceID: "s", ContentType: ContentTypeArticle},
		{SourceID: "s", ExternalID: "1", ContentType: "video"},
		{SourceID: "s", ExternalID: "1", ContentType: ContentTypeArticle, Question: "问"},
		{SourceID: "s", ExternalID: "1", ContentType: ContentTypeArticle, SentimentLabel: "positive"},
	}
	for i, item := range cases {
		if err := item.Validate(); err == nil {
			t.Fatalf("case %d should fail validation: %+v", i, item)
		}
	}
}

func TestBodyAssemblesQA(t *testing.T) {
	t.Parallel()

	item := RawItem{ContentType: ContentTypeQA, Question: "问题", Answer: "回答"}
	if got := item.Body(); got != "问题\n回答" {
		t.Fatalf("qa body = %q", got)
	}

	article := RawItem{ContentType: ContentTypeArticle, RawContent: "正文"}
	if got := article.Body(); got != "正文" {
		t.Fatalf("article body = %q", got)
	}
}
