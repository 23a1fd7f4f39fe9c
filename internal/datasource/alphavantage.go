package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/seenimoa/stockalert/pkg/models"
	"github.com/seenimoa/stockalert/pkg/utils"
)

// AlphaVantage implements StockSource using the TIME_SERIES_DAILY endpoint.
type AlphaVantage struct {
	client *resty.Client
	apiKey string
}

// NewAlphaVantage creates an AlphaVantage source. baseURL is normally
// https://www.alphavantage.co.
func NewAlphaVantage(baseURL, apiKey string, timeout time.Duration) *AlphaVantage {
	return &AlphaVantage{
		client: newRESTClient(baseURL, timeout),
		apiKey: apiKey,
	}
}

// Name returns the data source name.
func (a *AlphaVantage) Name() string { return "AlphaVantage" }

// --- AlphaVantage API types ---

type avDailyResponse struct {
	ErrorMessage string                `json:"Error Message"`
	Note         string                `json:"Note"`
	Information  string                `json:"Information"`
	Series       map[string]avDailyBar `json:"Time Series (Daily)"`
}

type avDailyBar struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

// DailySeries fetches the compact daily series (last ~100 sessions) for symbol.
func (a *AlphaVantage) DailySeries(ctx context.Context, symbol string) ([]models.PriceRecord, error) {
	if a.apiKey == "" {
		return nil, fmt.Errorf("alphavantage: missing API key: %w", ErrNotConfigured)
	}

	resp, err := a.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"function": "TIME_SERIES_DAILY",
			"symbol":   symbol,
			"apikey":   a.apiKey,
		}).
		Get("/query")
	if err != nil {
		return nil, fmt.Errorf("alphavantage daily %s: %w", symbol, err)
	}
	if err := checkResponse(resp); err != nil {
		return nil, fmt.Errorf("alphavantage daily %s: %w", symbol, err)
	}

	var raw avDailyResponse
	if err := json.Unmarshal(resp.Body(), &raw); err != nil {
		return nil, fmt.Errorf("alphavantage decode: %w", err)
	}

	// The API answers 200 for bad symbols and throttling; the body says which.
	switch {
	case raw.ErrorMessage != "":
		return nil, fmt.Errorf("alphavantage daily %s: %s", symbol, raw.ErrorMessage)
	case raw.Note != "":
		return nil, fmt.Errorf("alphavantage daily %s: %w: %s", symbol, ErrRateLimited, raw.Note)
	case len(raw.Series) == 0 && raw.Information != "":
		return nil, fmt.Errorf("alphavantage daily %s: %w: %s", symbol, ErrRateLimited, raw.Information)
	case len(raw.Series) == 0:
		return nil, fmt.Errorf("alphavantage daily %s: %w", symbol, ErrNoData)
	}

	return parseDailySeries(raw.Series)
}

// parseDailySeries converts the date-keyed series into records ordered newest
// first. JSON object order is not preserved by encoding/json, so the dates are
// sorted explicitly.
func parseDailySeries(series map[string]avDailyBar) ([]models.PriceRecord, error) {
	records := make([]models.PriceRecord, 0, len(series))
	for day, bar := range series {
		date, err := utils.ParseTradingDate(day)
		if err != nil {
			return nil, fmt.Errorf("parse date %q: %w", day, err)
		}
		closePrice, err := decimal.NewFromString(strings.TrimSpace(bar.Close))
		if err != nil {
			return nil, fmt.Errorf("parse close for %s: %w", day, err)
		}
		records = append(records, models.PriceRecord{
			Date:   date,
			Open:   parseDecimalOrZero(bar.Open),
			High:   parseDecimalOrZero(bar.High),
			Low:    parseDecimalOrZero(bar.Low),
			Close:  closePrice,
			Volume: parseIntOrZero(bar.Volume),
		})
	}

	slices.SortFunc(records, func(x, y models.PriceRecord) int {
		return y.Date.Compare(x.Date)
	})
	return records, nil
}

func parseDecimalOrZero(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseIntOrZero(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
