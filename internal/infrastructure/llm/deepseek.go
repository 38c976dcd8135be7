// Package llm integrates OpenAI-compatible chat APIs as the secondary,
// low-confidence classifier.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"ArticleMiner/internal/classify"
	"ArticleMiner/internal/domain"
	"ArticleMiner/internal/taxonomy"
)

// maxPromptRunes bounds the content sent per request; classification does
// not improve past a few thousand characters.
const maxPromptRunes = 3000

// DeepSeekClient asks a DeepSeek chat model for a taxonomy path when the
// rule engine is unsure.
type DeepSeekClient struct {
	endpoint   string
	model      string
	apiKey     string
	tree       *taxonomy.Tree
	httpClient *http.Client
}

var _ classify.Secondary = (*DeepSeekClient)(nil)

// NewDeepSeekClient builds a client. The tree is used both to describe the
// allowed categories in the prompt and to map the answer back onto keys.
func NewDeepSeekClient(endpoint, model, apiKey string, tree *taxonomy.Tree) *DeepSeekClient {
	return &DeepSeekClient{
		endpoint: endpoint,
		model:    model,
		apiKey:   apiKey,
		tree:     tree,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type classifyAnswer struct {
	Level1     string  `json:"level1"`
	Level2     string  `json:"level2"`
	Level3     string  `json:"level3"`
	Confidence float64 `json:"confidence"`
}

// Classify sends title and content to the model and maps its answer onto
// the taxonomy. The caller decides whether to adopt the result.
func (c *DeepSeekClient) Classify(ctx context.Context, title, text string) (domain.Classification, error) {
	if c.apiKey == "" || c.endpoint == "" || c.model == "" {
		return domain.Classification{}, fmt.Errorf("deepseek client misconfigured")
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: c.systemPrompt()},
			{Role: "user", Content: c.userPrompt(title, text)},
		},
		Temperature: 0.1,
	})
	if err != nil {
		return domain.Classification{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.Classification{}, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Classification{}, fmt.Errorf("call deepseek: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return domain.Classification{}, fmt.Errorf("deepseek error %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return domain.Classification{}, fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return domain.Classification{}, fmt.Errorf("deepseek returned no choices")
	}

	answer, err := parseAnswer(parsed.Choices[0].Message.Content)
	if err != nil {
		return domain.Classification{}, err
	}

	return c.resolve(answer), nil
}

func (c *DeepSeekClient) systemPrompt() string {
	var b strings.Builder
	b.WriteString("你是一个内容分类助手。将文章归入下列三级分类体系，只输出 JSON，格式为 ")
	b.WriteString(`{"level1":"一级分类","level2":"二级分类","level3":"三级分类","confidence":0.0}`)
	b.WriteString("。无法判断的层级填空字符串。可选分类:\n")
	for _, root := range c.tree.Roots() {
		fmt.Fprintf(&b, "- %s\n", root.DisplayName)
		for _, sub := range root.Children {
			fmt.Fprintf(&b, "  - %s\n", sub.DisplayName)
			for _, leaf := range sub.Children {
				fmt.Fprintf(&b, "    - %s\n", leaf.DisplayName)
			}
		}
	}
	return b.String()
}

func (c *DeepSeekClient) userPrompt(title, text string) string {
	if utf8.RuneCountInString(text) > maxPromptRunes {
		runes := []rune(text)
		text = string(runes[:maxPromptRunes])
	}
	return fmt.Sprintf("标题: %s\n正文: %s", title, text)
}

// parseAnswer tolerates markdown fences around the JSON object.
func parseAnswer(content string) (classifyAnswer, error) {
	content = strings.TrimSpace(content)
	if start := strings.IndexByte(content, '{'); start >= 0 {
		if end := strings.LastIndexByte(content, '}'); end > start {
			content = content[start : end+1]
		}
	}

	var answer classifyAnswer
	if err := json.Unmarshal([]byte(content), &answer); err != nil {
		return classifyAnswer{}, fmt.Errorf("parse model answer: %w", err)
	}
	return answer, nil
}

// resolve maps display names (or raw keys) onto taxonomy keys, walking the
// tree so each level must be a child of the previous one.
func (c *DeepSeekClient) resolve(answer classifyAnswer) domain.Classification {
	confidence := answer.Confidence
	if confidence <= 0 || confidence > 1 {
		confidence = 0.8
	}

	result := domain.Classification{Method: domain.MethodRuleSecondary}

	root := findNode(c.tree.Roots(), answer.Level1)
	if root == nil {
		return result
	}
	result.Path[0] = root.Key
	result.Confidence[0] = confidence

	sub := findNode(root.Children, answer.Level2)
	if sub == nil {
		return result
	}
	result.Path[1] = sub.Key
	result.Confidence[1] = confidence

	leaf := findNode(sub.Children, answer.Level3)
	if leaf == nil {
		return result
	}
	result.Path[2] = leaf.Key
	result.Confidence[2] = confidence

	return result
}

func findNode(nodes []*taxonomy.Node, name string) *taxonomy.Node {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	for _, n := range nodes {
		if n.DisplayName == name || n.Key == name {
			return n
		}
	}
	return nil
}
