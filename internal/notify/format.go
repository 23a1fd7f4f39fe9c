// Package notify formats alert messages and delivers them by SMS.
package notify

import (
	"strings"

	"github.com/seenimoa/stockalert/pkg/models"
	"github.com/seenimoa/stockalert/pkg/utils"
)

const (
	arrowUp   = "🔺"
	arrowDown = "🔻"
)

// FormatMessages builds one message per article:
//
//	SPY: 🔺6.00%
//	Headline: <title>
//	Brief: <description>
//
// The Brief line is left out when the article has no description.
func FormatMessages(symbol string, pct float64, dir models.Direction, articles []models.Article) []string {
	if len(articles) == 0 {
		return nil
	}

	arrow := arrowUp
	if dir == models.DirectionDown {
		arrow = arrowDown
	}
	header := symbol + ": " + arrow + utils.FormatAbsPct(pct)

	messages := make([]string, 0, len(articles))
	for _, a := range articles {
		var b strings.Builder
		b.WriteString(header)
		b.WriteString("\nHeadline: ")
		b.WriteString(a.Title)
		if brief := strings.TrimSpace(a.Description); brief != "" {
			b.WriteString("\nBrief: ")
			b.WriteString(brief)
		}
		messages = append(messages, b.String())
	}
	return messages
}
