// Package metrics exports store, cache and HTTP events as Prometheus
// metrics.
//
// A [Metrics] value implements every hook interface of the observability
// package. Register it at startup and serve [Metrics.Handler] on /metrics:
//
//	m := metrics.New(prometheus.NewRegistry())
//	m.Register()
//	defer observability.Reset()
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Takheer/mstroy-test/pkg/observability"
)

const namespace = "treestore"

// Metrics holds the Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	// buildDuration measures full index builds.
	// Labels: status (ok, error)
	buildDuration *prometheus.HistogramVec

	// storeRecords is the record count of the last successful build.
	storeRecords prometheus.Gauge

	// mutations counts mutations.
	// Labels: op (add, update, remove), status (ok, error)
	mutations *prometheus.CounterVec

	// mutationDuration measures mutations.
	// Labels: op
	mutationDuration *prometheus.HistogramVec

	// mutationAffected is the number of records touched per mutation.
	// Labels: op
	mutationAffected *prometheus.HistogramVec

	// cacheRequests counts cache lookups.
	// Labels: key_type, result (hit, miss)
	cacheRequests *prometheus.CounterVec

	// cacheWrittenBytes sums the size of cache writes.
	// Labels: key_type
	cacheWrittenBytes *prometheus.CounterVec

	// httpInFlight is the number of requests being served.
	httpInFlight prometheus.Gauge

	// httpRequests counts responses.
	// Labels: method, route, code
	httpRequests *prometheus.CounterVec

	// httpDuration measures request handling.
	// Labels: method, route
	httpDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them on reg.
func New(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,

		buildDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "build_duration_seconds",
			Help:      "Time to build all tree indices from the record list",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"status"}),

		storeRecords: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "records",
			Help:      "Number of records in the last successful build",
		}),

		mutations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "mutations_total",
			Help:      "Total store mutations by operation and outcome",
		}, []string{"op", "status"}),

		mutationDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "mutation_duration_seconds",
			Help:      "Time spent applying a store mutation",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}, []string{"op"}),

		mutationAffected: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "mutation_affected_records",
			Help:      "Records touched by a successful mutation",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}, []string{"op"}),

		cacheRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "requests_total",
			Help:      "Cache lookups by key type and result",
		}, []string{"key_type", "result"}),

		cacheWrittenBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "written_bytes_total",
			Help:      "Bytes written to the cache by key type",
		}, []string{"key_type"}),

		httpInFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Requests currently being served",
		}),

		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP responses by method, route and status code",
		}, []string{"method", "route", "code"}),

		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Register installs m as the store, cache and HTTP hooks.
func (m *Metrics) Register() {
	observability.SetStoreHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// OnBuild implements observability.StoreHooks.
func (m *Metrics) OnBuild(records int, d time.Duration, err error) {
	m.buildDuration.WithLabelValues(status(err)).Observe(d.Seconds())
	if err == nil {
		m.storeRecords.Set(float64(records))
	}
}

// OnMutation implements observability.StoreHooks.
func (m *Metrics) OnMutation(op string, affected int, d time.Duration, err error) {
	m.mutations.WithLabelValues(op, status(err)).Inc()
	m.mutationDuration.WithLabelValues(op).Observe(d.Seconds())
	if err == nil {
		m.mutationAffected.WithLabelValues(op).Observe(float64(affected))
	}
}

// OnCacheHit implements observability.CacheHooks.
func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheRequests.WithLabelValues(keyType, "hit").Inc()
}

// OnCacheMiss implements observability.CacheHooks.
func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheRequests.WithLabelValues(keyType, "miss").Inc()
}

// OnCacheSet implements observability.CacheHooks.
func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheWrittenBytes.WithLabelValues(keyType).Add(float64(size))
}

// OnRequest implements observability.HTTPHooks.
func (m *Metrics) OnRequest(context.Context, string, string) {
	m.httpInFlight.Inc()
}

// OnResponse implements observability.HTTPHooks.
func (m *Metrics) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	m.httpInFlight.Dec()
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ observability.StoreHooks = (*Metrics)(nil)
	_ observability.CacheHooks = (*Metrics)(nil)
	_ observability.HTTPHooks  = (*Metrics)(nil)
)
