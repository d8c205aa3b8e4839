package ingest

import (
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/couchcryptid/hazard-fusion/internal/domain"
)

// rssDoc models just enough of RSS 2.0 for headline extraction.
type rssDoc struct {
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title string    `xml:"title"`
	Items []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Description string `xml:"description"`
	Link        string `xml:"link"`
}

// maxItemsPerFeed caps how many entries each feed contributes, keeping the
// corpus to recent headlines.
const maxItemsPerFeed = 10

// RSSFetcher collects free-text items from a set of news RSS feeds. A feed
// that fails to fetch or parse is logged and skipped; the corpus is
// best-effort by design.
type RSSFetcher struct {
	feeds  []string
	client *http.Client
	logger *slog.Logger
}

func NewRSSFetcher(feeds []string, logger *slog.Logger) *RSSFetcher {
	return &RSSFetcher{feeds: feeds, client: newHTTPClient(), logger: logger}
}

// FetchItems downloads every configured feed and flattens the entries into
// text items in feed order. Origin is the channel title, falling back to
// the feed's host.
func (f *RSSFetcher) FetchItems(ctx context.Context) ([]domain.TextItem, error) {
	var items []domain.TextItem
	for _, feedURL := range f.feeds {
		feedItems, err := f.fetchFeed(ctx, feedURL)
		if err != nil {
			f.logger.Warn("rss feed skipped", "feed", feedURL, "error", err)
			continue
		}
		items = append(items, feedItems...)
	}
	return items, nil
}

func (f *RSSFetcher) fetchFeed(ctx context.Context, feedURL string) ([]domain.TextItem, error) {
	body, err := get(ctx, f.client, feedURL)
	if err != nil {
		return nil, fmt.Errorf("rss fetch: %w", err)
	}
	defer body.Close()

	var doc rssDoc
	if err := xml.NewDecoder(body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("rss decode: %w", err)
	}

	origin := doc.Channel.Title
	if origin == "" {
		if u, err := url.Parse(feedURL); err == nil {
			origin = u.Host
		}
	}

	entries := doc.Channel.Items
	if len(entries) > maxItemsPerFeed {
		entries = entries[:maxItemsPerFeed]
	}

	items := make([]domain.TextItem, 0, len(entries))
	for _, it := range entries {
		items = append(items, domain.TextItem{
			Title:  it.Title,
			Body:   it.Description,
			Origin: origin,
			URL:    it.Link,
		})
	}
	return items, nil
}
