package models

import "time"

// Article is a news headline returned by a news source.
type Article struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"` // empty when the provider has none
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
}
