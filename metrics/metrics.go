// Package metrics registers the library's Prometheus instrumentation
// (grounded on internal/escrow/metrics.go's promauto.New*Vec pattern).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every Prometheus collector the gateway and REST engines
// report through.
type Metrics struct {
	GatewayState       *prometheus.GaugeVec
	GatewayReconnects  *prometheus.CounterVec
	HeartbeatLatency   *prometheus.HistogramVec
	DispatchedEvents   *prometheus.CounterVec

	RESTRequests    *prometheus.CounterVec
	RESTDuration    *prometheus.HistogramVec
	RESTRateLimited *prometheus.CounterVec
	RESTRetries     *prometheus.CounterVec
}

// New creates and registers every collector. Callers that run multiple
// Sessions in one process should supply a dedicated prometheus.Registerer
// via NewWithRegisterer to avoid duplicate-registration panics.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer is New but registers into reg instead of the global
// default registry.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		GatewayState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "dgo_gateway_state",
				Help: "Current gateway session state per shard (1 = active state, 0 otherwise)",
			},
			[]string{"shard", "state"},
		),
		GatewayReconnects: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dgo_gateway_reconnects_total",
				Help: "Total gateway reconnect attempts per shard",
			},
			[]string{"shard", "reason"},
		),
		HeartbeatLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dgo_gateway_heartbeat_latency_seconds",
				Help:    "Round-trip time between heartbeat send and ack",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"shard"},
		),
		DispatchedEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dgo_gateway_events_total",
				Help: "Total dispatch events received per event type",
			},
			[]string{"shard", "event"},
		),
		RESTRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dgo_rest_requests_total",
				Help: "Total REST requests by route bucket and outcome",
			},
			[]string{"bucket", "status"},
		),
		RESTDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dgo_rest_request_duration_seconds",
				Help:    "Duration of REST requests including rate-limit waits",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"bucket"},
		),
		RESTRateLimited: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dgo_rest_rate_limited_total",
				Help: "Total 429 responses observed by bucket",
			},
			[]string{"bucket", "global"},
		),
		RESTRetries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dgo_rest_retries_total",
				Help: "Total request retries by bucket",
			},
			[]string{"bucket"},
		),
	}
}
