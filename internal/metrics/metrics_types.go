package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the bridge
type Registry struct {
	// Plugin run metrics
	RunsTotal   *prometheus.CounterVec
	RunDuration *prometheus.HistogramVec

	// Traversal metrics
	SubtreeNodesLoaded  prometheus.Histogram
	SubtreeLoadDuration prometheus.Histogram
	SubtreeLoadErrors   prometheus.Counter

	// Edge metrics
	EdgesProcessedTotal *prometheus.CounterVec

	// Blob metrics
	AssetsStoredTotal   prometheus.Counter
	ArtifactsSavedTotal prometheus.Counter

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	registry *prometheus.Registry
}
