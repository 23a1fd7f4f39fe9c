package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord(t *testing.T) {
	r := NewRun("SPY")
	r.Record(Observation{
		Outcome:   "notified",
		ChangePct: 6,
		Articles:  3,
		Sent:      2,
		Failed:    1,
		Duration:  1500 * time.Millisecond,
		Finished:  time.Unix(1773446400, 0),
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(r.outcome.WithLabelValues("notified")))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.outcome.WithLabelValues("no_news")))
	assert.Equal(t, 6.0, testutil.ToFloat64(r.changePct))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.articles))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.smsSent))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.smsFailed))
	assert.Equal(t, 1.5, testutil.ToFloat64(r.duration))
	assert.Equal(t, 1773446400.0, testutil.ToFloat64(r.lastSuccess))

	// A later run resets the previous outcome.
	r.Record(Observation{Outcome: "below_threshold", Finished: time.Unix(1773446500, 0)})
	assert.Equal(t, 0.0, testutil.ToFloat64(r.outcome.WithLabelValues("notified")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.outcome.WithLabelValues("below_threshold")))
}

func TestPush(t *testing.T) {
	var method, path, body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		method = req.Method
		path = req.URL.Path
		b, _ := io.ReadAll(req.Body)
		body = string(b)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	r := NewRun("SPY")
	r.Record(Observation{Outcome: "no_news", ChangePct: 7, Finished: time.Now()})

	require.NoError(t, r.Push(context.Background(), srv.URL, "stockalert"))
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/metrics/job/stockalert/symbol/SPY", path)
	assert.NotEmpty(t, body)
}

func TestPushError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	r := NewRun("SPY")
	err := r.Push(context.Background(), srv.URL, "stockalert")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), srv.URL))
}
