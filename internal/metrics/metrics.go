// Package metrics records the outcome of a run and pushes it to a Prometheus
// Pushgateway. A one-shot process exits before it could be scraped.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Run holds the gauges for a single pass over one symbol.
type Run struct {
	registry    *prometheus.Registry
	symbol      string
	outcome     *prometheus.GaugeVec
	changePct   prometheus.Gauge
	articles    prometheus.Gauge
	smsSent     prometheus.Gauge
	smsFailed   prometheus.Gauge
	lastSuccess prometheus.Gauge
	duration    prometheus.Gauge
}

// NewRun creates a fresh registry with the run gauges registered.
func NewRun(symbol string) *Run {
	r := &Run{
		registry: prometheus.NewRegistry(),
		symbol:   symbol,
		outcome: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "stockalert_run_outcome",
			Help: "1 for the outcome of the last run, 0 for the others.",
		}, []string{"outcome"}),
		changePct: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "stockalert_change_percent",
			Help: "Absolute day-over-day close change in percent.",
		}),
		articles: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "stockalert_articles",
			Help: "News articles attached to the last alert.",
		}),
		smsSent: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "stockalert_sms_sent",
			Help: "Messages delivered to the SMS provider in the last run.",
		}),
		smsFailed: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "stockalert_sms_failed",
			Help: "Messages the SMS provider rejected in the last run.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "stockalert_last_completion_timestamp_seconds",
			Help: "Unix time the last run completed.",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "stockalert_run_duration_seconds",
			Help: "Wall time of the last run.",
		}),
	}
	r.registry.MustRegister(r.outcome, r.changePct, r.articles, r.smsSent, r.smsFailed, r.lastSuccess, r.duration)
	return r
}

// Outcomes lists every outcome label so each gets a 0/1 series.
var Outcomes = []string{"no_stock_data", "below_threshold", "no_news", "notified"}

// Observation is what a finished run reports.
type Observation struct {
	Outcome   string
	ChangePct float64
	Articles  int
	Sent      int
	Failed    int
	Duration  time.Duration
	Finished  time.Time
}

// Record sets the gauges from a finished run.
func (r *Run) Record(o Observation) {
	for _, name := range Outcomes {
		r.outcome.WithLabelValues(name).Set(0)
	}
	r.outcome.WithLabelValues(o.Outcome).Set(1)
	r.changePct.Set(o.ChangePct)
	r.articles.Set(float64(o.Articles))
	r.smsSent.Set(float64(o.Sent))
	r.smsFailed.Set(float64(o.Failed))
	r.duration.Set(o.Duration.Seconds())
	r.lastSuccess.Set(float64(o.Finished.Unix()))
}

// Registry exposes the registry, mainly for tests.
func (r *Run) Registry() *prometheus.Registry {
	return r.registry
}

// Push replaces the metrics of job/symbol on the Pushgateway at url.
func (r *Run) Push(ctx context.Context, url, job string) error {
	err := push.New(url, job).
		Grouping("symbol", r.symbol).
		Gatherer(r.registry).
		PushContext(ctx)
	if err != nil {
		return fmt.Errorf("push metrics to %s: %w", url, err)
	}
	return nil
}
