// Package metrics exposes Prometheus metrics for plugin runs, traversals,
// blob storage and the HTTP API.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Run status labels
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Edge direction labels
const (
	DirectionImport = "import"
	DirectionExport = "export"
)

// RecordRun records a finished plugin run
func (r *Registry) RecordRun(plugin string, success bool, duration time.Duration) {
	status := StatusSuccess
	if !success {
		status = StatusFailure
	}
	r.RunsTotal.WithLabelValues(plugin, status).Inc()
	r.RunDuration.WithLabelValues(plugin).Observe(duration.Seconds())
}

// RecordEdges counts edges moved in one direction
func (r *Registry) RecordEdges(direction string, n int) {
	r.EdgesProcessedTotal.WithLabelValues(direction).Add(float64(n))
}

// ObserveSubtreeLoad records one subtree traversal
func (r *Registry) ObserveSubtreeLoad(nodes int, elapsed time.Duration, err error) {
	r.SubtreeNodesLoaded.Observe(float64(nodes))
	r.SubtreeLoadDuration.Observe(elapsed.Seconds())
	if err != nil {
		r.SubtreeLoadErrors.Inc()
	}
}

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, route, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

// Gatherer exposes the underlying registry for tests and custom exporters
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Handler serves the registry in the Prometheus text format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
