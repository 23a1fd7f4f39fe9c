package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seenimoa/stockalert/internal/alert"
	"github.com/seenimoa/stockalert/internal/config"
	"github.com/seenimoa/stockalert/internal/datasource"
)

const dailyBody = `{
  "Meta Data": {"2. Symbol": "SPY"},
  "Time Series (Daily)": {
    "2026-10-15": {"1. open": "99.00", "4. close": "100.00", "5. volume": "1000"},
    "2026-10-16": {"1. open": "98.00", "4. close": "94.00", "5. volume": "2000"}
  }
}`

const newsBody = `{
  "status": "ok",
  "totalResults": 4,
  "articles": [
    {"source": {"name": "A"}, "title": "S&P 500 slides", "description": "Stocks <b>fell</b>.", "url": "https://a.example/1", "publishedAt": "2026-10-16T20:00:00Z"},
    {"source": {"name": "B"}, "title": "S&P 500 volatility", "description": null, "url": "https://b.example/2", "publishedAt": "2026-10-16T19:00:00Z"},
    {"source": {"name": "C"}, "title": "S&P 500 outlook", "description": "Analysts weigh in", "url": "https://c.example/3", "publishedAt": "2026-10-16T18:00:00Z"},
    {"source": {"name": "D"}, "title": "S&P 500 extra", "description": "Never sent", "url": "https://d.example/4", "publishedAt": "2026-10-16T17:00:00Z"}
  ]
}`

func testConfig(stockURL, newsURL string) *config.Config {
	return &config.Config{
		Stock: config.StockConfig{Symbol: "spy", CompanyName: "S&P 500", BaseURL: stockURL, APIKey: "stock-key"},
		News:  config.NewsConfig{Provider: config.NewsProviderNewsAPI, BaseURL: newsURL, APIKey: "news-key", Limit: 3},
		SMS:   config.SMSConfig{From: "+15550000001", To: "+15550000002", DryRun: true},
		Alert: config.AlertConfig{ThresholdPct: 5},
		HTTP:  config.HTTPConfig{TimeoutSec: 5},
	}
}

func TestRunOnceNotifiesInDryRun(t *testing.T) {
	stock := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "SPY", r.URL.Query().Get("symbol"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(dailyBody))
	}))
	defer stock.Close()

	news := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "S&P 500", r.URL.Query().Get("qInTitle"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(newsBody))
	}))
	defer news.Close()

	res := runOnce(context.Background(), testConfig(stock.URL, news.URL))

	assert.Equal(t, alert.OutcomeNotified, res.Outcome)
	assert.InDelta(t, 6.3829, res.ChangePct, 0.001)
	assert.Equal(t, 3, res.Articles)
	assert.Equal(t, 3, res.Sent)
	assert.Zero(t, res.Failed)
}

func TestRunOnceBelowThresholdSkipsNews(t *testing.T) {
	stock := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Time Series (Daily)": {
			"2026-10-15": {"4. close": "100.00"},
			"2026-10-16": {"4. close": "101.00"}}}`))
	}))
	defer stock.Close()

	var newsCalls atomic.Int32
	news := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		newsCalls.Add(1)
		_, _ = w.Write([]byte(newsBody))
	}))
	defer news.Close()

	res := runOnce(context.Background(), testConfig(stock.URL, news.URL))

	assert.Equal(t, alert.OutcomeBelowThreshold, res.Outcome)
	assert.Zero(t, newsCalls.Load(), "news must not be fetched below the threshold")
}

func TestRunOnceRateLimitedStock(t *testing.T) {
	stock := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Note": "Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute."}`))
	}))
	defer stock.Close()

	res := runOnce(context.Background(), testConfig(stock.URL, "http://127.0.0.1:1"))
	assert.Equal(t, alert.OutcomeNoStockData, res.Outcome)
	assert.Zero(t, res.Sent)
}

func TestRunOncePushesMetrics(t *testing.T) {
	stock := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(dailyBody))
	}))
	defer stock.Close()

	news := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "ok", "totalResults": 0, "articles": []}`))
	}))
	defer news.Close()

	var pushedPath atomic.Value
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pushedPath.Store(r.Method + " " + r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer gateway.Close()

	cfg := testConfig(stock.URL, news.URL)
	cfg.Metrics = config.MetricsConfig{PushgatewayURL: gateway.URL, Job: "stockalert"}

	res := runOnce(context.Background(), cfg)
	assert.Equal(t, alert.OutcomeNoNews, res.Outcome)
	require.NotNil(t, pushedPath.Load())
	assert.Equal(t, "PUT /metrics/job/stockalert/symbol/SPY", pushedPath.Load())
}

func TestNewNewsSourceByProvider(t *testing.T) {
	cfg := testConfig("http://stock", "http://news")
	_, ok := newNewsSource(cfg).(*datasource.NewsAPI)
	assert.True(t, ok, "default provider should be NewsAPI")

	cfg.News.Provider = config.NewsProviderRSS
	cfg.News.RSSFeeds = []string{"https://example.com/feed.xml"}
	_, ok = newNewsSource(cfg).(*datasource.RSS)
	assert.True(t, ok, "rss provider should build an RSS source")
}

func TestSummary(t *testing.T) {
	tests := []struct {
		res  alert.Result
		want string
	}{
		{alert.Result{Outcome: alert.OutcomeNoStockData}, "SPY: no stock data, nothing sent"},
		{alert.Result{Outcome: alert.OutcomeBelowThreshold, ChangePct: 1}, "SPY: 1.00% move, below threshold"},
		{alert.Result{Outcome: alert.OutcomeNoNews, ChangePct: 7.5}, "SPY: 7.50% move, no news found"},
		{alert.Result{Outcome: alert.OutcomeNotified, ChangePct: 6, Articles: 3, Sent: 2, Failed: 1}, "SPY: 6.00% move, 2/3 message(s) sent, 1 failed"},
		{alert.Result{Outcome: alert.OutcomeNotified, ChangePct: 6, Articles: 3, Sent: 1, Skipped: 2}, "SPY: 6.00% move, 1/3 message(s) sent, 2 skipped (cancelled)"},
		{alert.Result{Outcome: alert.OutcomeNotified, ChangePct: 6, Articles: 3, Sent: 3}, "SPY: 6.00% move, 3/3 message(s) sent"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, summary("SPY", tc.res))
	}
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)
	assert.True(t, strings.HasPrefix(out.String(), "stockalert dev"), out.String())
}

func TestStatusCommand(t *testing.T) {
	prev := cfg
	t.Cleanup(func() { cfg = prev })
	cfg = testConfig("https://www.alphavantage.co", "https://newsapi.org")

	var out bytes.Buffer
	statusCmd.SetOut(&out)
	require.NoError(t, statusCmd.RunE(statusCmd, nil))

	got := out.String()
	assert.Contains(t, got, "Market Status:")
	assert.Contains(t, got, "Time (ET):")
	assert.Contains(t, got, "Symbol:        spy")
	assert.Contains(t, got, "Stock API Key:")
	assert.NotContains(t, got, "invalid")
}
