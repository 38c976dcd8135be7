// Package crawler hosts the per-platform source adapters.
package crawler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"ArticleMiner/internal/adapter"
	"ArticleMiner/internal/domain"
)

const (
	zhihuDefaultBaseURL = "https://www.zhihu.com/api/v4/search_v3"
	defaultUserAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// ZhihuAdapter searches Zhihu answers through the public search API.
type ZhihuAdapter struct {
	client   *http.Client
	baseURL  string
	pageSize int
}

var _ adapter.SourceAdapter = (*ZhihuAdapter)(nil)

// NewZhihuAdapter wires an HTTP client; baseURL is overridable for tests.
func NewZhihuAdapter(client *http.Client, baseURL string) *ZhihuAdapter {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if baseURL == "" {
		baseURL = zhihuDefaultBaseURL
	}
	return &ZhihuAdapter{client: client, baseURL: baseURL, pageSize: 20}
}

// SourceID identifies the adapter inside the registry.
func (z *ZhihuAdapter) SourceID() string {
	return "zhihu"
}

// DefaultContentType marks Zhihu results as question/answer content.
func (z *ZhihuAdapter) DefaultContentType() domain.ContentType {
	return domain.ContentTypeQA
}

type zhihuSearchResponse struct {
	Data []struct {
		Type   string `json:"type"`
		Object struct {
			ID       json.Number `json:"id"`
			Excerpt  string      `json:"excerpt"`
			Content  string      `json:"content"`
			URL      string      `json:"url"`
			Created  int64       `json:"created_time"`
			Author   struct {
				Name string `json:"name"`
			} `json:"author"`
			Question struct {
				Name string `json:"name"`
			} `json:"question"`
		} `json:"object"`
	} `json:"data"`
}

// FetchPage requests one result page. Pages are numbered from 1; the caller
// owns pacing and retries.
func (z *ZhihuAdapter) FetchPage(ctx context.Context, keywords []string, page int) (adapter.Page, error) {
	pageURL, err := z.buildSearchURL(keywords, page)
	if err != nil {
		return adapter.Page{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return adapter.Page{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := z.client.Do(req)
	if err != nil {
		return adapter.Page{}, classifyTransportError(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests:
		return adapter.Page{}, fmt.Errorf("zhihu returned %s: %w", resp.Status, adapter.ErrSourceBlocked)
	case resp.StatusCode != http.StatusOK:
		return adapter.Page{}, fmt.Errorf("zhihu returned %s", resp.Status)
	}

	var payload zhihuSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return adapter.Page{}, fmt.Errorf("decode search response: %w", adapter.ErrParse)
	}

	result := adapter.Page{}
	for _, entry := range payload.Data {
		if entry.Type != "search_result" && entry.Type != "" {
			continue
		}
		obj := entry.Object

		answer := obj.Content
		if answer == "" {
			answer = obj.Excerpt
		}
		if obj.ID.String() == "" || answer == "" {
			result.Skipped++
			continue
		}

		item := domain.RawItem{
			SourceID:    z.SourceID(),
			ExternalID:  obj.ID.String(),
			Title:       obj.Question.Name,
			Author:      obj.Author.Name,
			URL:         obj.URL,
			ContentType: domain.ContentTypeQA,
			Question:    obj.Question.Name,
			Answer:      answer,
		}
		if obj.Created > 0 {
			item.PublishTime = time.Unix(obj.Created, 0).UTC()
		}
		result.Items = append(result.Items, item)
	}

	return result, nil
}

func (z *ZhihuAdapter) buildSearchURL(keywords []string, page int) (string, error) {
	parsed, err := url.Parse(z.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base url %s: %w", z.baseURL, err)
	}

	query := parsed.Query()
	query.Set("t", "general")
	query.Set("q", strings.Join(keywords, " "))
	query.Set("limit", strconv.Itoa(z.pageSize))
	query.Set("offset", strconv.Itoa((page-1)*z.pageSize))
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}

// classifyTransportError maps network timeouts onto the adapter sentinel so
// the orchestrator can retry them.
func classifyTransportError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%v: %w", err, adapter.ErrSourceTimeout)
	}
	return fmt.Errorf("request page: %w", err)
}
