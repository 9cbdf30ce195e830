package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// DefaultRegistry returns the process-wide registry
func DefaultRegistry() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a registry with every metric registered
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r.initRunMetrics()
	r.initSubtreeMetrics()
	r.initBlobMetrics()
	r.initHTTPMetrics()
	return r
}

func (r *Registry) initRunMetrics() {
	r.RunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "netsim_plugin_runs_total",
			Help: "Total number of import and export runs",
		},
		[]string{"plugin", "status"},
	)

	r.RunDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "netsim_plugin_run_duration_seconds",
			Help:    "Plugin run duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		},
		[]string{"plugin"},
	)

	r.EdgesProcessedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "netsim_edges_processed_total",
			Help: "Edges written to or read from edge-list files",
		},
		[]string{"direction"},
	)
}

func (r *Registry) initSubtreeMetrics() {
	r.SubtreeNodesLoaded = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "netsim_subtree_nodes_loaded",
			Help:    "Nodes loaded per subtree traversal",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	r.SubtreeLoadDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "netsim_subtree_load_duration_seconds",
			Help:    "Subtree traversal duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		},
	)

	r.SubtreeLoadErrors = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "netsim_subtree_load_errors_total",
			Help: "Subtree traversals that failed",
		},
	)
}

func (r *Registry) initBlobMetrics() {
	r.AssetsStoredTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "netsim_blob_assets_stored_total",
			Help: "Assets uploaded to the blob store",
		},
	)

	r.ArtifactsSavedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "netsim_blob_artifacts_saved_total",
			Help: "Artifacts saved to the blob store",
		},
	)
}

func (r *Registry) initHTTPMetrics() {
	r.HTTPRequestsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "netsim_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	r.HTTPRequestDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "netsim_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
}
