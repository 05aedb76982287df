package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Refresh outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeStale   = "stale"
	OutcomeNoToken = "no_refresh_token"
)

// Recorder is the port the auth client reports refresh activity through.
type Recorder interface {
	// RecordRefresh records a finished refresh cycle, with the number of queued waiters it settled.
	RecordRefresh(outcome string, waiters int, duration time.Duration)

	// RecordReplay records the status code of a request replayed after a refresh.
	RecordReplay(status int)
}

// Noop discards all metrics.
type Noop struct{}

// NewNoop creates a new no-op recorder.
func NewNoop() *Noop {
	return &Noop{}
}

func (Noop) RecordRefresh(string, int, time.Duration) {}

func (Noop) RecordReplay(int) {}

// Prometheus records metrics using Prometheus.
type Prometheus struct {
	refreshTotal    *prometheus.CounterVec
	refreshDuration prometheus.Histogram
	refreshWaiters  prometheus.Histogram
	replayTotal     *prometheus.CounterVec
}

// NewPrometheus registers the auth client metrics on reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	refreshTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_admin_token_refresh_total",
		Help: "Token refresh cycles by outcome",
	}, []string{"outcome"})

	refreshDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "storefront_admin_token_refresh_duration_seconds",
		Help:    "Duration of refresh endpoint calls",
		Buckets: prometheus.DefBuckets,
	})

	refreshWaiters := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "storefront_admin_token_refresh_waiters",
		Help:    "Requests queued behind a single refresh",
		Buckets: []float64{0, 1, 2, 5, 10, 25, 50},
	})

	replayTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_admin_request_replay_total",
		Help: "Requests replayed after a refresh, by response status",
	}, []string{"status"})

	reg.MustRegister(refreshTotal, refreshDuration, refreshWaiters, replayTotal)

	return &Prometheus{
		refreshTotal:    refreshTotal,
		refreshDuration: refreshDuration,
		refreshWaiters:  refreshWaiters,
		replayTotal:     replayTotal,
	}
}

func (p *Prometheus) RecordRefresh(outcome string, waiters int, duration time.Duration) {
	p.refreshTotal.WithLabelValues(outcome).Inc()
	if outcome == OutcomeSuccess || outcome == OutcomeFailure {
		p.refreshDuration.Observe(duration.Seconds())
		p.refreshWaiters.Observe(float64(waiters))
	}
}

func (p *Prometheus) RecordReplay(status int) {
	p.replayTotal.WithLabelValues(strconv.Itoa(status)).Inc()
}
