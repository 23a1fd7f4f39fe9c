package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/seenimoa/stockalert/pkg/models"
)

// NewsAPI implements NewsSource using the newsapi.org /v2/everything endpoint.
type NewsAPI struct {
	client *resty.Client
	apiKey string
}

// NewNewsAPI creates a NewsAPI source. baseURL is normally https://newsapi.org.
func NewNewsAPI(baseURL, apiKey string, timeout time.Duration) *NewsAPI {
	return &NewsAPI{
		client: newRESTClient(baseURL, timeout),
		apiKey: apiKey,
	}
}

// Name returns the data source name.
func (n *NewsAPI) Name() string { return "NewsAPI" }

type newsAPIResponse struct {
	Status       string           `json:"status"`
	Code         string           `json:"code"`
	Message      string           `json:"message"`
	TotalResults int              `json:"totalResults"`
	Articles     []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	URL         string  `json:"url"`
	PublishedAt string  `json:"publishedAt"`
}

// Search returns the first limit articles whose title matches query, in the
// order the provider ranked them.
func (n *NewsAPI) Search(ctx context.Context, query string, limit int) ([]models.Article, error) {
	if n.apiKey == "" {
		return nil, fmt.Errorf("newsapi: missing API key: %w", ErrNotConfigured)
	}

	resp, err := n.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"apiKey":   n.apiKey,
			"qInTitle": query,
		}).
		Get("/v2/everything")
	if err != nil {
		return nil, fmt.Errorf("newsapi search %q: %w", query, err)
	}

	var raw newsAPIResponse
	decodeErr := json.Unmarshal(resp.Body(), &raw)

	if err := checkResponse(resp); err != nil {
		if decodeErr == nil && raw.Message != "" {
			return nil, fmt.Errorf("newsapi search %q: %s: %s: %w", query, raw.Code, raw.Message, err)
		}
		return nil, fmt.Errorf("newsapi search %q: %w", query, err)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("newsapi decode: %w", decodeErr)
	}
	if raw.Status != "ok" {
		return nil, fmt.Errorf("newsapi search %q: status %q: %s", query, raw.Status, raw.Message)
	}

	return capArticles(toArticles(raw.Articles), limit), nil
}

func toArticles(items []newsAPIArticle) []models.Article {
	articles := make([]models.Article, 0, len(items))
	for _, item := range items {
		a := models.Article{
			Title:  item.Title,
			URL:    item.URL,
			Source: item.Source.Name,
		}
		if item.Description != nil {
			a.Description = cleanHTML(*item.Description)
		}
		if t, err := time.Parse(time.RFC3339, item.PublishedAt); err == nil {
			a.PublishedAt = t
		}
		articles = append(articles, a)
	}
	return articles
}
