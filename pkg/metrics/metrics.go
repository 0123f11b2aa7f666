// Package metrics instruments the orchestrator with Prometheus collectors.
//
// Unlike a server process, a library must not force registration onto the
// embedding application's default registry. Collectors are constructed
// by NewCollectors and handed to the caller to register (or ignore).
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collectors holds every metric the orchestrator updates.
type Collectors struct {
	RequestsTotal       *prometheus.CounterVec
	RequestDuration     *prometheus.HistogramVec
	MasterDiscoveries   prometheus.Counter
	MasterDiscoveryTime prometheus.Histogram
	Retries             *prometheus.CounterVec
	ConnectionsOpen     *prometheus.GaugeVec
}

// NewCollectors builds a fresh, unregistered set of collectors. Call
// Register to attach them to a prometheus.Registerer, or read them
// directly for tests.
func NewCollectors() *Collectors {
	return &Collectors{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arakoon_client_requests_total",
				Help: "Total number of requests dispatched, by message and outcome",
			},
			[]string{"message", "outcome"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "arakoon_client_request_duration_seconds",
				Help:    "Request round-trip duration in seconds, by message",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"message"},
		),
		MasterDiscoveries: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "arakoon_client_master_discoveries_total",
				Help: "Total number of times the client had to (re)discover the master",
			},
		),
		MasterDiscoveryTime: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "arakoon_client_master_discovery_seconds",
				Help:    "Time spent discovering the master node",
				Buckets: prometheus.DefBuckets,
			},
		),
		Retries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arakoon_client_retries_total",
				Help: "Total number of retry attempts, by reason",
			},
			[]string{"reason"},
		),
		ConnectionsOpen: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "arakoon_client_connections_open",
				Help: "Open connections per node, by state",
			},
			[]string{"node_id", "state"},
		),
	}
}

// Register attaches every collector to reg. It is the caller's
// responsibility to call this at most once per registry.
func (c *Collectors) Register(reg prometheus.Registerer) error {
	for _, collector := range []prometheus.Collector{
		c.RequestsTotal,
		c.RequestDuration,
		c.MasterDiscoveries,
		c.MasterDiscoveryTime,
		c.Retries,
		c.ConnectionsOpen,
	} {
		if err := reg.Register(collector); err != nil {
			return err
		}
	}
	return nil
}

// Timer is a helper for timing operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the duration to a histogram.
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	histogram.Observe(time.Since(t.start).Seconds())
}

// ObserveDurationVec records the duration to a histogram vec with labels.
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	histogram.WithLabelValues(labels...).Observe(time.Since(t.start).Seconds())
}

// Duration returns the elapsed time since the timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
