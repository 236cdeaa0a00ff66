package news

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/0yeonnnn0/kimitter-sub000/internal/core/domain"
	"github.com/0yeonnnn0/kimitter-sub000/internal/core/ports"
)

const (
	DefaultDisplay = 20
	recentHours    = 24
	maxHeadlines   = 10
	politicalQuery = "정치"
	generalQuery   = "오늘 주요 뉴스"
)

// generalBlocklist filters politics/stock headlines out of the general
// feed by title keyword.
var generalBlocklist = []string{
	"정치", "대통령", "국회", "선거", "여당", "야당",
	"코스피", "코스닥", "주식", "증시",
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// Client는 네이버 검색 API 스타일의 무상태 뉴스 게이트웨이입니다.
type Client struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	HTTPClient   *http.Client

	now func() time.Time
}

func NewClient(baseURL, clientID, clientSecret string) *Client {
	return &Client{
		BaseURL:      baseURL,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		HTTPClient:   &http.Client{},
		now:          time.Now,
	}
}

// Ensure Client implements News interface
var _ ports.News = (*Client)(nil)

// StripHTMLTags removes <...> markup and unescapes HTML entities.
func StripHTMLTags(s string) string {
	return html.UnescapeString(tagPattern.ReplaceAllString(s, ""))
}

type searchResponse struct {
	Items []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Link        string `json:"link"`
		PubDate     string `json:"pubDate"`
	} `json:"items"`
}

// SearchNews queries the search API sorted by date and maps each result
// through tag stripping. On any failure it logs and returns an empty
// slice.
func (c *Client) SearchNews(ctx context.Context, query string, display int) []domain.NewsItem {
	if display <= 0 {
		display = DefaultDisplay
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("display", fmt.Sprintf("%d", display))
	params.Set("sort", "date")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/v1/search/news.json?"+params.Encode(), nil)
	if err != nil {
		log.Error().Err(err).Str("query", query).Msg("news search request failed")
		return []domain.NewsItem{}
	}
	req.Header.Set("X-Naver-Client-Id", c.ClientID)
	req.Header.Set("X-Naver-Client-Secret", c.ClientSecret)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		log.Error().Err(err).Str("query", query).Msg("news search failed")
		return []domain.NewsItem{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Error().Int("status", resp.StatusCode).Str("query", query).Msg("news search failed")
		return []domain.NewsItem{}
	}

	var res searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		log.Error().Err(err).Str("query", query).Msg("news search response malformed")
		return []domain.NewsItem{}
	}

	items := make([]domain.NewsItem, 0, len(res.Items))
	for _, it := range res.Items {
		published, _ := time.Parse(time.RFC1123Z, it.PubDate)
		items = append(items, domain.NewsItem{
			Title:       StripHTMLTags(it.Title),
			Description: StripHTMLTags(it.Description),
			Link:        it.Link,
			PublishedAt: published,
		})
	}
	return items
}

// FilterRecentNews keeps items published at or after now - hoursAgo.
func (c *Client) FilterRecentNews(items []domain.NewsItem, hoursAgo int) []domain.NewsItem {
	cutoff := c.now().Add(-time.Duration(hoursAgo) * time.Hour)
	var recent []domain.NewsItem
	for _, it := range items {
		if !it.PublishedAt.Before(cutoff) {
			recent = append(recent, it)
		}
	}
	return recent
}

// GetPoliticalNews returns up to 10 political headlines from the last
// 24 hours.
func (c *Client) GetPoliticalNews(ctx context.Context) []domain.NewsItem {
	items := c.FilterRecentNews(c.SearchNews(ctx, politicalQuery, DefaultDisplay), recentHours)
	if len(items) > maxHeadlines {
		items = items[:maxHeadlines]
	}
	return items
}

// GetGeneralNews returns up to 10 recent headlines with politics/stock
// titles filtered out.
func (c *Client) GetGeneralNews(ctx context.Context) []domain.NewsItem {
	items := c.FilterRecentNews(c.SearchNews(ctx, generalQuery, 50), recentHours)

	var filtered []domain.NewsItem
	for _, it := range items {
		if containsBlockedKeyword(it.Title) {
			continue
		}
		filtered = append(filtered, it)
		if len(filtered) == maxHeadlines {
			break
		}
	}
	return filtered
}

func containsBlockedKeyword(title string) bool {
	for _, kw := range generalBlocklist {
		if strings.Contains(title, kw) {
			return true
		}
	}
	return false
}
