package crawler

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"ArticleMiner/internal/adapter"
	"ArticleMiner/internal/domain"
)

const wechatDefaultBaseURL = "https://weixin.sogou.com/weixin"

// WechatAdapter finds WeChat official-account articles through the Sogou
// search frontend, the only public index of that content.
type WechatAdapter struct {
	client  *http.Client
	baseURL string
}

var _ adapter.SourceAdapter = (*WechatAdapter)(nil)

// NewWechatAdapter wires an HTTP client; baseURL is overridable for tests.
func NewWechatAdapter(client *http.Client, baseURL string) *WechatAdapter {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if baseURL == "" {
		baseURL = wechatDefaultBaseURL
	}
	return &WechatAdapter{client: client, baseURL: baseURL}
}

// SourceID identifies the adapter inside the registry.
func (w *WechatAdapter) SourceID() string {
	return "wechat"
}

// DefaultContentType marks WeChat results as articles.
func (w *WechatAdapter) DefaultContentType() domain.ContentType {
	return domain.ContentTypeArticle
}

// FetchPage requests one Sogou result page and extracts article entries.
func (w *WechatAdapter) FetchPage(ctx context.Context, keywords []string, page int) (adapter.Page, error) {
	pageURL, err := w.buildSearchURL(keywords, page)
	if err != nil {
		return adapter.Page{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return adapter.Page{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := w.client.Do(req)
	if err != nil {
		return adapter.Page{}, classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests {
		return adapter.Page{}, fmt.Errorf("sogou returned %s: %w", resp.Status, adapter.ErrSourceBlocked)
	}
	if resp.StatusCode != http.StatusOK {
		return adapter.Page{}, fmt.Errorf("sogou returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return adapter.Page{}, fmt.Errorf("parse document: %w", adapter.ErrParse)
	}

	// Sogou answers captcha walls with a regular 200 page.
	if doc.Find("#seccodeImage").Length() > 0 || strings.Contains(doc.Find("title").Text(), "验证") {
		return adapter.Page{}, fmt.Errorf("captcha challenge: %w", adapter.ErrSourceBlocked)
	}

	list := doc.Find("ul.news-list > li")
	if list.Length() == 0 {
		return adapter.Page{}, fmt.Errorf("result list missing: %w", adapter.ErrParse)
	}

	result := adapter.Page{}
	list.Each(func(i int, entry *goquery.Selection) {
		item, ok := w.parseEntry(entry)
		if !ok {
			result.Skipped++
			return
		}
		result.Items = append(result.Items, item)
	})

	return result, nil
}

func (w *WechatAdapter) parseEntry(entry *goquery.Selection) (domain.RawItem, bool) {
	link := entry.Find("div.txt-box h3 a").First()
	title := strings.TrimSpace(link.Text())
	href, _ := link.Attr("href")
	if title == "" || href == "" {
		return domain.RawItem{}, false
	}
	if strings.HasPrefix(href, "/") {
		href = "https://weixin.sogou.com" + href
	}

	summary := strings.TrimSpace(entry.Find("p.txt-info").First().Text())
	if summary == "" {
		return domain.RawItem{}, false
	}

	author := strings.TrimSpace(entry.Find("div.s-p a.account").First().Text())

	item := domain.RawItem{
		SourceID:    w.SourceID(),
		ExternalID:  externalIDFromURL(href),
		Title:       title,
		RawContent:  summary,
		Author:      author,
		URL:         href,
		ContentType: domain.ContentTypeArticle,
	}

	if ts, ok := entry.Find("div.s-p").First().Attr("t"); ok {
		if unix, err := strconv.ParseInt(ts, 10, 64); err == nil && unix > 0 {
			item.PublishTime = time.Unix(unix, 0).UTC()
		}
	}

	return item, true
}

// externalIDFromURL keys Sogou entries by their redirect target, which stays
// stable across result pages while tracking parameters do not.
func externalIDFromURL(href string) string {
	parsed, err := url.Parse(href)
	if err != nil {
		return href
	}
	if u := parsed.Query().Get("url"); u != "" {
		return u
	}
	return parsed.Path
}

func (w *WechatAdapter) buildSearchURL(keywords []string, page int) (string, error) {
	parsed, err := url.Parse(w.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base url %s: %w", w.baseURL, err)
	}

	query := parsed.Query()
	query.Set("type", "2")
	query.Set("query", strings.Join(keywords, " "))
	query.Set("page", strconv.Itoa(page))
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}
