package kb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ArticleMiner/internal/domain"
	"ArticleMiner/internal/ports"
	"ArticleMiner/internal/taxonomy"
)

// DifyClient pushes rendered documents into a Dify dataset through its
// create-by-text endpoint.
type DifyClient struct {
	baseURL   string
	apiKey    string
	datasetID string
	tree      *taxonomy.Tree
	http      *http.Client
}

var _ ports.KnowledgeBase = (*DifyClient)(nil)

// NewDifyClient creates a reusable client for one dataset.
func NewDifyClient(baseURL, apiKey, datasetID string, tree *taxonomy.Tree) *DifyClient {
	return &DifyClient{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		apiKey:    apiKey,
		datasetID: datasetID,
		tree:      tree,
		http:      &http.Client{Timeout: 30 * time.Second},
	}
}

// Push uploads one record as a text document.
func (c *DifyClient) Push(ctx context.Context, record domain.Record) error {
	if c.apiKey == "" || c.baseURL == "" || c.datasetID == "" {
		return fmt.Errorf("dify client misconfigured")
	}

	payload := map[string]any{
		"name":               DocumentName(record),
		"text":               RenderDocument(c.tree, record),
		"indexing_technique": "high_quality",
		"process_rule":       map[string]any{"mode": "automatic"},
	}

	path := fmt.Sprintf("/v1/datasets/%s/document/create-by-text", c.datasetID)
	return c.post(ctx, path, payload)
}

func (c *DifyClient) post(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("dify error %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	return nil
}
