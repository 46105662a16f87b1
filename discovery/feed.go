package discovery

import (
	"context"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"
)

// FeedEntry is one item of an RSS or Atom feed.
type FeedEntry struct {
	Title       string
	Link        string
	PublishedAt *time.Time
}

// FetchFeed fetches and parses an RSS or Atom feed. gofeed detects the
// format.
func FetchFeed(ctx context.Context, client *Client, feedURL string) (*gofeed.Feed, error) {
	fp := gofeed.NewParser()
	fp.Client = client.httpClient()
	fp.UserAgent = client.UserAgent

	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}
	return feed, nil
}

// FeedEntries returns the feed's items that carry a link, in feed order.
// Repeated links are kept once.
func FeedEntries(ctx context.Context, client *Client, feedURL string) ([]FeedEntry, error) {
	feed, err := FetchFeed(ctx, client, feedURL)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(feed.Items))
	entries := make([]FeedEntry, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item.Link == "" || seen[item.Link] {
			continue
		}
		seen[item.Link] = true

		// Atom feeds may only carry <updated>
		published := item.PublishedParsed
		if published == nil {
			published = item.UpdatedParsed
		}

		entries = append(entries, FeedEntry{
			Title:       item.Title,
			Link:        item.Link,
			PublishedAt: published,
		})
	}
	return entries, nil
}

// FeedLinks returns the article links of a feed.
func FeedLinks(ctx context.Context, client *Client, feedURL string) ([]string, error) {
	entries, err := FeedEntries(ctx, client, feedURL)
	if err != nil {
		return nil, err
	}

	links := make([]string, 0, len(entries))
	for _, e := range entries {
		links = append(links, e.Link)
	}
	return links, nil
}
