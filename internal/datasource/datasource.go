// Package datasource fetches daily quotes and news headlines from external
// providers. Each provider returns plain errors; callers decide how a failure
// affects the run.
package datasource

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/seenimoa/stockalert/pkg/models"
)

// StockSource returns daily bars for a single symbol, newest first.
type StockSource interface {
	// Name returns the human-readable name of this data source.
	Name() string

	// DailySeries returns the provider's daily series for symbol ordered newest first.
	DailySeries(ctx context.Context, symbol string) ([]models.PriceRecord, error)
}

// NewsSource searches recent articles by title.
type NewsSource interface {
	// Name returns the human-readable name of this data source.
	Name() string

	// Search returns at most limit articles whose title matches query.
	// A limit <= 0 means no cap.
	Search(ctx context.Context, query string, limit int) ([]models.Article, error)
}

// --- Sentinel errors ---

// ErrNoData is returned when a response carries no usable records.
var ErrNoData = errors.New("no data returned by data source")

// ErrNotConfigured is returned when a source lacks credentials or endpoints.
var ErrNotConfigured = errors.New("data source not configured")

// ErrRateLimited is returned when a source rate-limits the request.
var ErrRateLimited = errors.New("rate limited by data source")

// IsNotConfigured reports whether err means the source had no credentials.
func IsNotConfigured(err error) bool {
	return errors.Is(err, ErrNotConfigured)
}

// ErrHTTP wraps an HTTP error with status code.
type ErrHTTP struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *ErrHTTP) Error() string {
	return fmt.Sprintf("HTTP %d %s: %s", e.StatusCode, e.Status, e.Body)
}

// --- Shared HTTP client helpers ---

// DefaultUserAgent is the user agent string used for HTTP requests.
const DefaultUserAgent = "stockalert/1.0 (+https://github.com/seenimoa/stockalert)"

// DefaultTimeout applies when a constructor is given a zero timeout.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of an error response is kept in ErrHTTP.
const maxErrorBody = 1024

func newRESTClient(baseURL string, timeout time.Duration) *resty.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeaders(map[string]string{
			"Accept":     "application/json",
			"User-Agent": DefaultUserAgent,
		})
}

// checkResponse converts a non-2xx response into *ErrHTTP.
func checkResponse(resp *resty.Response) error {
	if resp.IsSuccess() {
		return nil
	}
	body := resp.String()
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return &ErrHTTP{
		StatusCode: resp.StatusCode(),
		Status:     resp.Status(),
		Body:       body,
	}
}

// capArticles truncates articles to limit, keeping provider order.
func capArticles(articles []models.Article, limit int) []models.Article {
	if limit > 0 && len(articles) > limit {
		return articles[:limit]
	}
	return articles
}
