package feed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/nao1215/newsfilter/internal/fetch"
)

// ErrNoLinks is returned when a feed contains no item links.
var ErrNoLinks = errors.New("feed contains no article links")

// Reader downloads feeds through a fetch.Fetcher and extracts item links.
type Reader struct {
	fetcher fetch.Fetcher
}

// NewReader creates a Reader.
func NewReader(fetcher fetch.Fetcher) *Reader {
	return &Reader{fetcher: fetcher}
}

// Links returns up to limit item links from the feed at feedURL, in feed
// order with duplicates removed. limit <= 0 returns every link.
func (r *Reader) Links(ctx context.Context, feedURL string, limit int) ([]string, error) {
	body, err := r.fetcher.Fetch(ctx, feedURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed %s: %w", feedURL, err)
	}

	parsed, err := gofeed.NewParser().ParseString(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed %s: %w", feedURL, err)
	}

	links := ItemLinks(parsed, limit)
	if len(links) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoLinks, feedURL)
	}
	return links, nil
}

// ItemLinks extracts non-empty, unique item links from f.
func ItemLinks(f *gofeed.Feed, limit int) []string {
	if f == nil {
		return []string{}
	}

	seen := make(map[string]struct{}, len(f.Items))
	links := make([]string, 0, len(f.Items))
	for _, item := range f.Items {
		if item == nil {
			continue
		}
		link := strings.TrimSpace(item.Link)
		if link == "" {
			continue
		}
		if _, ok := seen[link]; ok {
			continue
		}
		seen[link] = struct{}{}
		links = append(links, link)
		if limit > 0 && len(links) == limit {
			break
		}
	}
	return links
}
