package connectors

import (
	"context"
	"encoding/xml"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// rssFeed describes one job board feed. All feeds share the "rss" source
// family so that the same posting syndicated to several boards dedups to a
// single canonical record.
type rssFeed struct {
	name string
	url  string
	// params maps query parameter names to "keywords" or "location".
	params map[string]string
}

var defaultFeeds = []rssFeed{
	{
		name:   "indeed_india",
		url:    "https://www.indeed.co.in/rss",
		params: map[string]string{"q": "keywords", "l": "location"},
	},
	{
		name:   "timesjobs",
		url:    "https://www.timesjobs.com/candidate/rss-feed-jobs.html",
		params: map[string]string{"txtKeywords": "keywords"},
	},
}

// RSSConnector aggregates postings from job-board RSS feeds. A single feed
// failing is logged and skipped; the adapter only errors when every feed
// fails, so one dead board does not sink the run.
type RSSConnector struct {
	feeds  []rssFeed
	client *http.Client
	retry  RetryConfig
	log    *zap.Logger
}

// NewRSSConnector builds the RSS adapter over the default feed list.
func NewRSSConnector(log *zap.Logger) *RSSConnector {
	return &RSSConnector{
		feeds:  defaultFeeds,
		client: &http.Client{Timeout: 15 * time.Second},
		retry:  DefaultRetryConfig,
		log:    log.Named("rss"),
	}
}

func (c *RSSConnector) SourceID() string     { return "rss" }
func (c *RSSConnector) SourceFamily() string { return "rss" }
func (c *RSSConnector) IsMock() bool         { return false }

// rssDocument mirrors the RSS 2.0 channel/item structure.
type rssDocument struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
}

// Fetch pulls every configured feed and flattens the entries.
func (c *RSSConnector) Fetch(ctx context.Context, q Query) ([]RawJob, error) {
	var jobs []RawJob
	var lastErr error

	for _, feed := range c.feeds {
		entries, err := c.fetchFeed(ctx, feed, q)
		if err != nil {
			lastErr = err
			c.log.Warn("feed fetch failed", zap.String("feed", feed.name), zap.Error(err))
			continue
		}
		jobs = append(jobs, entries...)
		c.log.Info("fetched feed", zap.String("feed", feed.name), zap.Int("count", len(entries)))
	}

	if len(jobs) == 0 && lastErr != nil {
		return nil, &Error{Source: c.SourceID(), Message: "all feeds failed", Cause: lastErr}
	}
	return jobs, nil
}

func (c *RSSConnector) fetchFeed(ctx context.Context, feed rssFeed, q Query) ([]RawJob, error) {
	params := url.Values{}
	for key, field := range feed.params {
		switch field {
		case "keywords":
			params.Set(key, q.Keywords)
		case "location":
			params.Set(key, q.Location)
		}
	}

	body, err := retryDo(ctx, c.retry, c.log, func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, feed.url+"?"+params.Encode(), nil)
		if err != nil {
			return nil, err
		}
		resp, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode != http.StatusOK {
			return nil, &httpStatusError{code: resp.StatusCode}
		}
		return io.ReadAll(resp.Body)
	}, func(err error) bool {
		var statusErr *httpStatusError
		if errors.As(err, &statusErr) {
			return retryableStatus(statusErr.code)
		}
		return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
	})
	if err != nil {
		return nil, err
	}

	var doc rssDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, err
	}

	jobs := make([]RawJob, 0, len(doc.Channel.Items))
	for _, item := range doc.Channel.Items {
		job, ok := parseRSSItem(item)
		if !ok {
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// parseRSSItem converts one feed entry. Job board feeds conventionally pack
// "Title - Company - Location" into the entry title.
func parseRSSItem(item rssItem) (RawJob, bool) {
	if item.Title == "" || item.Link == "" {
		return RawJob{}, false
	}

	title := strings.TrimSpace(item.Title)
	company := "Unknown"
	location := "India"
	if parts := strings.Split(item.Title, " - "); len(parts) > 1 {
		title = strings.TrimSpace(parts[0])
		company = strings.TrimSpace(parts[1])
		if len(parts) > 2 {
			location = strings.TrimSpace(parts[2])
		}
	}

	posted, err := time.Parse(time.RFC1123Z, item.PubDate)
	if err != nil {
		posted, _ = time.Parse(time.RFC1123, item.PubDate)
	}

	return RawJob{
		Title:    title,
		Company:  company,
		Location: location,
		Excerpt:  stripHTML(item.Description),
		URL:      item.Link,
		Posted:   posted,
	}, true
}

// stripHTML extracts plain text from feed descriptions, which routinely
// carry markup.
func stripHTML(s string) string {
	if !strings.ContainsRune(s, '<') {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(strings.Join(strings.Fields(doc.Text()), " "))
}
