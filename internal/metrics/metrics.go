// Package metrics defines the Prometheus collectors exported by the server.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server's collectors. A nil *Metrics records nothing.
type Metrics struct {
	rpcRequests *prometheus.CounterVec
	rpcDuration *prometheus.HistogramVec
	planSize    prometheus.Histogram
	planCache   *prometheus.CounterVec
	gatherer    prometheus.Gatherer
}

// New registers the collectors on a fresh registry so that tests can
// create as many instances as they like.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		rpcRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "settle_rpc_requests_total",
			Help: "Total RPC calls by procedure and result code",
		}, []string{"procedure", "code"}),
		rpcDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "settle_rpc_duration_seconds",
			Help:    "RPC handling latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"procedure"}),
		planSize: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "settle_plan_transfers",
			Help:    "Number of transfers in computed settlement plans",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 21, 34},
		}),
		planCache: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "settle_plan_cache_lookups_total",
			Help: "Settlement plan cache lookups by result",
		}, []string{"result"}),
		gatherer: reg,
	}
}

// ObserveRPC records one finished call.
func (m *Metrics) ObserveRPC(procedure, code string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.rpcRequests.WithLabelValues(procedure, code).Inc()
	m.rpcDuration.WithLabelValues(procedure).Observe(elapsed.Seconds())
}

// ObservePlan records the size of a freshly computed plan.
func (m *Metrics) ObservePlan(transfers int) {
	if m == nil {
		return
	}
	m.planSize.Observe(float64(transfers))
}

// ObserveCacheLookup records a plan cache hit or miss.
func (m *Metrics) ObserveCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.planCache.WithLabelValues(result).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
