// Package alert runs the notifier pipeline: fetch the daily series, compute
// the day-over-day move, and when it exceeds the threshold fetch headlines and
// text them out.
package alert

import (
	"context"
	"time"

	"github.com/seenimoa/stockalert/internal/analysis/change"
	"github.com/seenimoa/stockalert/internal/datasource"
	"github.com/seenimoa/stockalert/internal/logger"
	"github.com/seenimoa/stockalert/internal/notify"
	"github.com/seenimoa/stockalert/pkg/models"
	"github.com/seenimoa/stockalert/pkg/utils"
)

// Outcome is the state a run ended in.
type Outcome string

const (
	OutcomeNoStockData    Outcome = "no_stock_data"
	OutcomeBelowThreshold Outcome = "below_threshold"
	OutcomeNoNews         Outcome = "no_news"
	OutcomeNotified       Outcome = "notified"
)

// DefaultThresholdPct is the move, in percent, that triggers a notification.
const DefaultThresholdPct = 5.0

// DefaultNewsLimit is how many headlines are sent per alert.
const DefaultNewsLimit = 3

// Sender delivers formatted messages.
type Sender interface {
	SendAll(ctx context.Context, messages []string) notify.SendReport
}

// Options configures a Pipeline.
type Options struct {
	Symbol       string
	CompanyName  string
	ThresholdPct float64
	NewsLimit    int
}

// Result summarizes one run.
type Result struct {
	Outcome   Outcome
	ChangePct float64
	Direction models.Direction
	Articles  int
	Sent      int
	Failed    int
	Skipped   int
	Duration  time.Duration
}

// Pipeline wires the sources and the sender together.
type Pipeline struct {
	opts   Options
	stock  datasource.StockSource
	news   datasource.NewsSource
	sender Sender
	log    *logger.Entry
	now    func() time.Time
}

// NewPipeline creates a pipeline. A zero NewsLimit means DefaultNewsLimit.
func NewPipeline(opts Options, stock datasource.StockSource, news datasource.NewsSource, sender Sender) *Pipeline {
	if opts.NewsLimit <= 0 {
		opts.NewsLimit = DefaultNewsLimit
	}
	return &Pipeline{
		opts:   opts,
		stock:  stock,
		news:   news,
		sender: sender,
		log: logger.For("alert").WithFields(map[string]interface{}{
			"symbol":    opts.Symbol,
			"threshold": opts.ThresholdPct,
		}),
		now: time.Now,
	}
}

// Run makes one pass. Fetch failures never surface as errors: a missing
// series ends the run, missing news skips the notification, and failed sends
// are counted in the result.
func (p *Pipeline) Run(ctx context.Context) Result {
	start := time.Now()
	res := p.run(ctx)
	res.Duration = time.Since(start)
	return res
}

func (p *Pipeline) run(ctx context.Context) Result {
	records := p.fetchStock(ctx)
	if len(records) == 0 {
		return Result{Outcome: OutcomeNoStockData, Direction: models.DirectionFlat}
	}

	res := Result{
		ChangePct: change.PercentageChange(records),
		Direction: change.Direction(records),
	}
	log := p.log.WithFields(map[string]interface{}{
		"change_pct": res.ChangePct,
		"direction":  res.Direction,
		"as_of":      utils.FormatDateET(records[0].Date),
	})
	if p.barStillForming(records[0]) {
		log.Warn("Market is open; the latest daily close is an intraday price")
	}

	if !change.Exceeds(records, p.opts.ThresholdPct) {
		log.Info("Change within threshold, no alert")
		res.Outcome = OutcomeBelowThreshold
		return res
	}

	articles := p.fetchNews(ctx)
	res.Articles = len(articles)
	if len(articles) == 0 {
		log.Warn("Threshold exceeded but no news found, skipping notification")
		res.Outcome = OutcomeNoNews
		return res
	}

	messages := notify.FormatMessages(p.opts.Symbol, res.ChangePct, res.Direction, articles)
	report := p.sender.SendAll(ctx, messages)
	res.Sent, res.Failed, res.Skipped = report.Sent, report.Failed, report.Skipped
	res.Outcome = OutcomeNotified

	log.WithFields(map[string]interface{}{
		"articles": res.Articles,
		"sent":     res.Sent,
		"failed":   res.Failed,
		"skipped":  res.Skipped,
	}).Info("Alert dispatched")
	return res
}

// fetchStock returns nil on any error.
func (p *Pipeline) fetchStock(ctx context.Context) []models.PriceRecord {
	records, err := p.stock.DailySeries(ctx, p.opts.Symbol)
	if err != nil {
		log := p.log.WithField("source", p.stock.Name())
		if datasource.IsNotConfigured(err) {
			log.Warnf("Stock source not configured, skipping run: %v", err)
		} else {
			log.Errorf("Error fetching stock data: %v", err)
		}
		return nil
	}
	if len(records) < 2 {
		p.log.WithField("records", len(records)).Warn("Not enough daily records to compare")
	}
	return records
}

// fetchNews returns an empty slice on any error, capped at NewsLimit.
func (p *Pipeline) fetchNews(ctx context.Context) []models.Article {
	articles, err := p.news.Search(ctx, p.opts.CompanyName, p.opts.NewsLimit)
	if err != nil {
		log := p.log.WithFields(map[string]interface{}{
			"source": p.news.Name(),
			"query":  p.opts.CompanyName,
		})
		if datasource.IsNotConfigured(err) {
			log.Warnf("News source not configured: %v", err)
		} else {
			log.Errorf("Error fetching news: %v", err)
		}
		return []models.Article{}
	}
	if len(articles) > p.opts.NewsLimit {
		articles = articles[:p.opts.NewsLimit]
	}
	return articles
}

// barStillForming reports whether the latest bar is today's and the session is
// still open, in which case its close is not final.
func (p *Pipeline) barStillForming(latest models.PriceRecord) bool {
	now := p.now()
	return utils.FormatDateET(latest.Date) == utils.FormatDateET(now) && utils.IsMarketOpenAt(now)
}
