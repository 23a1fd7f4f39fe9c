package datasource

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/stockalert/internal/logger"
	"github.com/seenimoa/stockalert/pkg/models"
)

// defaultRSSWorkers bounds how many feeds are fetched at once.
const defaultRSSWorkers = 4

// RSS implements NewsSource by scanning a fixed list of RSS/Atom feeds.
type RSS struct {
	feeds   []string
	client  *http.Client
	workers int
}

// NewRSS creates an RSS news source over the given feed URLs.
func NewRSS(feeds []string, timeout time.Duration) *RSS {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &RSS{
		feeds:   feeds,
		client:  &http.Client{Timeout: timeout},
		workers: defaultRSSWorkers,
	}
}

// Name returns the data source name.
func (r *RSS) Name() string { return "RSS" }

// Search fetches every feed, keeps items whose title contains query
// (case-insensitive) and returns the newest limit of them. Failed feeds are
// skipped; the search fails only when every feed fails.
func (r *RSS) Search(ctx context.Context, query string, limit int) ([]models.Article, error) {
	if len(r.feeds) == 0 {
		return nil, fmt.Errorf("rss: no feeds: %w", ErrNotConfigured)
	}
	log := logger.For("datasource").WithField("source", r.Name())

	perFeed := make([][]models.Article, len(r.feeds))
	var failed atomic.Int32

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, feedURL := range r.feeds {
		i, feedURL := i, feedURL
		g.Go(func() error {
			articles, err := r.fetchFeed(gctx, feedURL)
			if err != nil {
				// Non-critical: skip failed feeds.
				failed.Add(1)
				log.WithField("feed", feedURL).Warnf("feed fetch failed: %v", err)
				return nil
			}
			perFeed[i] = articles
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if int(failed.Load()) == len(r.feeds) {
		return nil, fmt.Errorf("rss: all %d feeds failed: %w", len(r.feeds), ErrNoData)
	}

	var matched []models.Article
	for _, articles := range perFeed {
		for _, a := range articles {
			if titleMatches(a.Title, query) {
				matched = append(matched, a)
			}
		}
	}

	slices.SortStableFunc(matched, func(x, y models.Article) int {
		return y.PublishedAt.Compare(x.PublishedAt)
	})
	return capArticles(matched, limit), nil
}

// fetchFeed parses one feed. gofeed.Parser is not shared between goroutines.
func (r *RSS) fetchFeed(ctx context.Context, feedURL string) ([]models.Article, error) {
	parser := gofeed.NewParser()
	parser.Client = r.client
	parser.UserAgent = DefaultUserAgent

	feed, err := parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse RSS %s: %w", feedURL, err)
	}

	source := strings.TrimSpace(feed.Title)
	if source == "" {
		source = feedURL
	}

	articles := make([]models.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		a := models.Article{
			Title:       strings.TrimSpace(item.Title),
			Description: cleanHTML(item.Description),
			URL:         item.Link,
			Source:      source,
		}
		if item.PublishedParsed != nil {
			a.PublishedAt = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			a.PublishedAt = *item.UpdatedParsed
		}
		articles = append(articles, a)
	}
	return articles, nil
}

// titleMatches checks if title contains query (case-insensitive).
func titleMatches(title, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(title), q)
}
