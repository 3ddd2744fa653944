package upstream

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records remote API call counts and latencies.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the upstream collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "beemine_admin",
			Name:      "upstream_requests_total",
			Help:      "Remote admin API calls by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "beemine_admin",
			Name:      "upstream_request_duration_seconds",
			Help:      "Remote admin API call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.duration)
	}
	return m
}

func (m *Metrics) observe(endpoint string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(endpoint, Kind(err)).Inc()
	m.duration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}
