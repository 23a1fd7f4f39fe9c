package utils

import (
	"strings"
)

// Common index names mapped to the ETF that tracks them. AlphaVantage has no
// daily series for the indices themselves.
var indexProxies = map[string]string{
	"S&P 500":      "SPY",
	"S&P500":       "SPY",
	"SP500":        "SPY",
	"NASDAQ 100":   "QQQ",
	"NASDAQ100":    "QQQ",
	"NDX":          "QQQ",
	"DOW":          "DIA",
	"DOW JONES":    "DIA",
	"DJIA":         "DIA",
	"RUSSELL":      "IWM",
	"RUSSELL 2000": "IWM",
}

// Share classes that are commonly typed with a dot.
var tickerAliases = map[string]string{
	"BRK.A": "BRK-A",
	"BRK.B": "BRK-B",
	"BF.B":  "BF-B",
}

// NormalizeTicker normalizes a user-input ticker to the symbol the quote API expects.
// It handles index names, aliases, uppercasing, and whitespace.
func NormalizeTicker(ticker string) string {
	ticker = strings.TrimSpace(strings.ToUpper(ticker))

	// Remove $ prefix if present (common in chat)
	ticker = strings.TrimPrefix(ticker, "$")

	if etf, ok := indexProxies[ticker]; ok {
		return etf
	}

	if canonical, ok := tickerAliases[ticker]; ok {
		return canonical
	}

	return ticker
}
