package sources

import (
	"context"
	"encoding/xml"
	"sort"
	"sync"
	"time"
)

const maxNewsItems = 30

// NewsItem is a normalized headline from one of the tracked feeds.
type NewsItem struct {
	Source    string    `json:"source"`
	Title     string    `json:"title"`
	Link      string    `json:"link"`
	Published time.Time `json:"published"`
}

// Feed is one RSS endpoint.
type Feed struct {
	Name string
	URL  string
}

var defaultFeeds = []Feed{
	{Name: "CoinDesk", URL: "https://www.coindesk.com/arc/outboundfeeds/rss/"},
	{Name: "Cointelegraph", URL: "https://cointelegraph.com/rss"},
	{Name: "The Defiant", URL: "https://thedefiant.io/api/feed"},
	{Name: "SEC Press", URL: "https://www.sec.gov/news/pressreleases.rss"},
}

type rssDoc struct {
	Channel struct {
		Items []struct {
			Title   string `xml:"title"`
			Link    string `xml:"link"`
			PubDate string `xml:"pubDate"`
		} `xml:"item"`
	} `xml:"channel"`
}

// News fetches every tracked feed concurrently. A single feed failing is
// logged and skipped so the others still come through. Results are merged,
// sorted newest first, and truncated.
func (c *Client) News(ctx context.Context) ([]NewsItem, error) {
	var (
		mu    sync.Mutex
		items []NewsItem
		wg    sync.WaitGroup
	)

	for _, feed := range c.feeds {
		wg.Add(1)
		go func(feed Feed) {
			defer wg.Done()
			got, err := c.fetchFeed(ctx, feed)
			if err != nil {
				c.logger.Warn("news feed failed", "feed", feed.Name, "error", err)
				return
			}
			mu.Lock()
			items = append(items, got...)
			mu.Unlock()
		}(feed)
	}
	wg.Wait()

	sort.Slice(items, func(i, j int) bool {
		return items[i].Published.After(items[j].Published)
	})
	if len(items) > maxNewsItems {
		items = items[:maxNewsItems]
	}
	return items, nil
}

func (c *Client) fetchFeed(ctx context.Context, feed Feed) ([]NewsItem, error) {
	body, err := c.f.Get(ctx, feed.URL)
	if err != nil {
		return nil, err
	}

	var doc rssDoc
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, err
	}

	out := make([]NewsItem, 0, len(doc.Channel.Items))
	for _, it := range doc.Channel.Items {
		if it.Title == "" {
			continue
		}
		out = append(out, NewsItem{
			Source:    feed.Name,
			Title:     it.Title,
			Link:      it.Link,
			Published: parsePubDate(it.PubDate),
		})
	}
	return out, nil
}

var pubDateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	time.RFC3339,
	"2006-01-02T15:04:05Z",
}

func parsePubDate(s string) time.Time {
	for _, layout := range pubDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
