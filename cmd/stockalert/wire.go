package main

import (
	"context"
	"time"

	"github.com/seenimoa/stockalert/internal/alert"
	"github.com/seenimoa/stockalert/internal/config"
	"github.com/seenimoa/stockalert/internal/datasource"
	"github.com/seenimoa/stockalert/internal/metrics"
	"github.com/seenimoa/stockalert/internal/notify"
	"github.com/seenimoa/stockalert/pkg/utils"
)

func newPipeline(cfg *config.Config) *alert.Pipeline {
	symbol := utils.NormalizeTicker(cfg.Stock.Symbol)
	opts := alert.Options{
		Symbol:       symbol,
		CompanyName:  cfg.Stock.CompanyName,
		ThresholdPct: cfg.Alert.ThresholdPct,
		NewsLimit:    cfg.News.Limit,
	}
	return alert.NewPipeline(opts, newStockSource(cfg), newNewsSource(cfg), newSender(cfg))
}

func newStockSource(cfg *config.Config) datasource.StockSource {
	return datasource.NewAlphaVantage(cfg.Stock.BaseURL, cfg.Stock.APIKey, cfg.HTTP.Timeout())
}

func newNewsSource(cfg *config.Config) datasource.NewsSource {
	if cfg.News.Provider == config.NewsProviderRSS {
		return datasource.NewRSS(cfg.News.RSSFeeds, cfg.HTTP.Timeout())
	}
	return datasource.NewNewsAPI(cfg.News.BaseURL, cfg.News.APIKey, cfg.HTTP.Timeout())
}

func newSender(cfg *config.Config) *notify.SMS {
	return notify.NewTwilioSMS(cfg.SMS.AccountSID, cfg.SMS.AuthToken, cfg.SMS.From, cfg.SMS.To).
		DryRun(cfg.SMS.DryRun)
}

func pushMetrics(ctx context.Context, cfg *config.Config, res alert.Result, finished time.Time) error {
	run := metrics.NewRun(utils.NormalizeTicker(cfg.Stock.Symbol))
	run.Record(metrics.Observation{
		Outcome:   string(res.Outcome),
		ChangePct: res.ChangePct,
		Articles:  res.Articles,
		Sent:      res.Sent,
		Failed:    res.Failed,
		Duration:  res.Duration,
		Finished:  finished,
	})
	return run.Push(ctx, cfg.Metrics.PushgatewayURL, cfg.Metrics.Job)
}
