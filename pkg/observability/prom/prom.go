// Package prom implements the observability hooks on top of Prometheus.
//
// All collectors are registered on a caller-supplied registry so tests and
// embedded servers never touch the global default registry.
package prom

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/searchlab/pkg/observability"
)

const namespace = "searchlab"

// Hooks implements SearchHooks, CacheHooks and HTTPHooks.
type Hooks struct {
	searches  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	expanded  *prometheus.HistogramVec
	cacheOps  *prometheus.CounterVec
	requests  *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	cacheSize *prometheus.CounterVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) (*Hooks, error) {
	h := &Hooks{
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Search runs by strategy and outcome.",
		}, []string{"strategy", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Wall time of a search run.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 16),
		}, []string{"strategy"}),
		expanded: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_expanded_states",
			Help:      "States expanded per search run.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 12),
		}, []string{"strategy"}),
		cacheOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "Cache lookups and writes.",
		}, []string{"key_type", "op"}),
		cacheSize: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache.",
		}, []string{"key_type"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "API requests by route and status.",
		}, []string{"method", "path", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "API request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}

	for _, c := range []prometheus.Collector{
		h.searches, h.duration, h.expanded, h.cacheOps, h.cacheSize, h.requests, h.latency,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// Install registers h as the process-wide search, cache and HTTP hooks.
func (h *Hooks) Install() {
	observability.SetSearchHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

func (h *Hooks) OnSearchStart(context.Context, string)                               {}
func (h *Hooks) OnSearchProgress(context.Context, string, observability.SearchStats) {}

func (h *Hooks) OnSearchComplete(_ context.Context, strategy string, stats observability.SearchStats, d time.Duration, err error) {
	outcome := "exhausted"
	switch {
	case err != nil:
		outcome = "error"
	case stats.Found:
		outcome = "found"
	}
	h.searches.WithLabelValues(strategy, outcome).Inc()
	h.duration.WithLabelValues(strategy).Observe(d.Seconds())
	h.expanded.WithLabelValues(strategy).Observe(float64(stats.Expanded))
}

func (h *Hooks) OnCacheHit(_ context.Context, keyType string) {
	h.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (h *Hooks) OnCacheMiss(_ context.Context, keyType string) {
	h.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (h *Hooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.cacheOps.WithLabelValues(keyType, "set").Inc()
	h.cacheSize.WithLabelValues(keyType).Add(float64(size))
}

func (h *Hooks) OnRequest(context.Context, string, string) {}

func (h *Hooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.requests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	h.latency.WithLabelValues(method, path).Observe(d.Seconds())
}

var (
	_ observability.SearchHooks = (*Hooks)(nil)
	_ observability.CacheHooks  = (*Hooks)(nil)
	_ observability.HTTPHooks   = (*Hooks)(nil)
)
