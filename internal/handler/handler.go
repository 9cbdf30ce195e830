package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"netsimbridge/internal/blob"
	"netsimbridge/internal/domain"
	"netsimbridge/internal/model"
	"netsimbridge/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// maxUploadSize bounds the body of an asset upload
const maxUploadSize = 32 << 20

// NetworkFinder lists the instances of a meta type. Stores that cannot do
// this leave GET /api/networks unavailable.
type NetworkFinder interface {
	FindByBase(ctx context.Context, basePath string) ([]*model.Node, error)
}

// API serves the bridge over HTTP
type API struct {
	deps     service.Deps
	exporter *service.Exporter
	importer *service.Importer
	events   http.Handler
	logger   *zap.Logger

	// exports share the blob client's pending artifact list
	exportMu sync.Mutex

	// DefaultNetworkFile is used by imports that name no asset
	DefaultNetworkFile string
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// NewAPI creates the API. events, when non-nil, serves GET /api/events.
func NewAPI(deps service.Deps, events http.Handler) *API {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &API{
		deps:     deps,
		exporter: service.NewExporter(deps),
		importer: service.NewImporter(deps),
		events:   events,
		logger:   logger.Named("http"),
	}
}

// Routes builds the router
func (h *API) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(h.recoverer)
	r.Use(h.logRequests)
	if h.deps.Metrics != nil {
		r.Use(h.recordMetrics)
		r.Method(http.MethodGet, "/metrics", h.deps.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Post("/assets", h.UploadAsset)
		r.Get("/assets/{hash}", h.GetAsset)
		r.Get("/assets/{hash}/content", h.GetAssetContent)
		r.Get("/assets/{hash}/files/{name}", h.GetArtifactFile)

		r.Post("/export", h.Export)
		r.Post("/import", h.Import)

		r.Get("/networks", h.ListNetworks)
		r.Get("/networks/*", h.PreviewNetwork)

		if h.events != nil {
			r.Method(http.MethodGet, "/events", h.events)
		}
	})
	return r
}

// Health reports that the server is up
func (h *API) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// statusFor maps a run error to an HTTP status. A missing active node or
// asset is 404; a reference that does not resolve inside an existing
// Network is a broken model and reported as 422.
func statusFor(err error) int {
	var notFound *domain.NotFoundError
	switch {
	case errors.Is(err, domain.ErrNotNetwork):
		return http.StatusUnprocessableEntity
	case errors.Is(err, model.ErrNodeNotFound), errors.Is(err, blob.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &notFound):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrNoNetworkFile), domain.IsUserError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *API) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Warn("failed to encode JSON", zap.Error(err))
	}
}

func (h *API) writeError(w http.ResponseWriter, error, details string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   error,
		Details: details,
	}); err != nil {
		h.logger.Warn("failed to encode error response", zap.Error(err))
	}
}
