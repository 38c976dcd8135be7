package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ArticleMiner/internal/taxonomy"
)

func chatBody(content string) string {
	raw, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
	return string(raw)
}

func newTestClient(serverURL string) *DeepSeekClient {
	c := NewDeepSeekClient(serverURL, "deepseek-chat", "test-key", taxonomy.Default())
	return c
}

func TestClassifyMapsDisplayNamesToKeys(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization = %q", got)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Messages) != 2 || !strings.Contains(req.Messages[0].Content, "心理咨询") {
			t.Errorf("system prompt missing category list")
		}
		_, _ = w.Write([]byte(chatBody("```json\n" +
			`{"level1":"心理咨询","level2":"临床心理","level3":"抑郁障碍","confidence":0.85}` +
			"\n```")))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	got, err := c.Classify(context.Background(), "长期情绪低落怎么办", "一段描述抑郁情绪的长文。")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}

	if got.Path != [3]string{"psychology", "clinical", "depression"} {
		t.Fatalf("path = %v", got.Path)
	}
	for i := 0; i < 3; i++ {
		if got.Confidence[i] != 0.85 {
			t.Fatalf("confidence[%d] = %v", i, got.Confidence[i])
		}
	}
}

func TestClassifyTruncatesAtUnknownLevel(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(chatBody(
			`{"level1":"企业管理","level2":"不存在的分类","level3":"战略执行","confidence":0.9}`)))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	got, err := c.Classify(context.Background(), "t", "正文")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}

	if got.Path != [3]string{"management", "", ""} {
		t.Fatalf("path = %v, want truncation below level 1", got.Path)
	}
}

func TestClassifyServerErrorSurfaces(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	if _, err := c.Classify(context.Background(), "t", "正文"); err == nil {
		t.Fatal("expected error on 429")
	}
}

func TestClassifyGarbageAnswerIsError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(chatBody("抱歉，我无法完成分类。")))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	if _, err := c.Classify(context.Background(), "t", "正文"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestClassifyMisconfiguredClient(t *testing.T) {
	t.Parallel()

	c := NewDeepSeekClient("", "", "", taxonomy.Default())
	if _, err := c.Classify(context.Background(), "t", "正文"); err == nil {
		t.Fatal("expected misconfiguration error")
	}
}
