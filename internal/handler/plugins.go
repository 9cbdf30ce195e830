package handler

import (
	"net/http"

	"netsimbridge/internal/codec"
	"netsimbridge/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// NetworkSummary describes one Network in the model
type NetworkSummary struct {
	Path     string `json:"path"`
	Name     string `json:"name"`
	Children int    `json:"children"`
}

// Export runs the export plugin on the node named by the node query
// parameter. An optional format parameter selects the file format.
func (h *API) Export(w http.ResponseWriter, r *http.Request) {
	node := r.URL.Query().Get("node")
	if node == "" {
		h.writeError(w, "Missing node", "the node query parameter is required", http.StatusBadRequest)
		return
	}

	exporter := h.exporter
	if format := r.URL.Query().Get("format"); format != "" {
		c, err := codec.Lookup(format)
		if err != nil {
			h.writeError(w, "Unknown format", err.Error(), http.StatusBadRequest)
			return
		}
		exporter = exporter.WithCodec(c)
	}

	h.exportMu.Lock()
	res, err := exporter.Run(r.Context(), node)
	h.exportMu.Unlock()
	h.writeResult(w, res, err)
}

// Import runs the import plugin for the asset named by networkFile, or the
// configured default when the parameter is absent
func (h *API) Import(w http.ResponseWriter, r *http.Request) {
	node := r.URL.Query().Get("node")
	cfg := service.ImportConfig{NetworkFile: r.URL.Query().Get("networkFile")}
	if cfg.NetworkFile == "" {
		cfg.NetworkFile = h.DefaultNetworkFile
	}

	res, err := h.importer.Run(r.Context(), node, cfg)
	h.writeResult(w, res, err)
}

func (h *API) writeResult(w http.ResponseWriter, res *service.Result, err error) {
	if err != nil {
		h.writeJSON(w, res, statusFor(err))
		return
	}
	h.writeJSON(w, res, http.StatusOK)
}

// ListNetworks lists every Network directly derived from the Network meta type
func (h *API) ListNetworks(w http.ResponseWriter, r *http.Request) {
	finder, ok := h.deps.Store.(NetworkFinder)
	if !ok {
		h.writeError(w, "Listing networks is not supported by this store", "", http.StatusNotImplemented)
		return
	}

	meta, err := h.deps.Store.Meta(r.Context())
	if err != nil {
		h.logger.Error("failed to load meta types", zap.Error(err))
		h.writeError(w, "Failed to load meta types", err.Error(), http.StatusInternalServerError)
		return
	}
	nodes, err := finder.FindByBase(r.Context(), meta.Network.Path())
	if err != nil {
		h.logger.Error("failed to list networks", zap.Error(err))
		h.writeError(w, "Failed to list networks", err.Error(), http.StatusInternalServerError)
		return
	}

	out := make([]NetworkSummary, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, NetworkSummary{Path: n.Path(), Name: n.Name(), Children: len(n.ChildPaths())})
	}
	h.writeJSON(w, out, http.StatusOK)
}

// PreviewNetwork returns the edge list of a Network without saving an
// artifact. With format set the body is the encoded file instead of JSON.
func (h *API) PreviewNetwork(w http.ResponseWriter, r *http.Request) {
	path := "/" + chi.URLParam(r, "*")

	def, err := h.exporter.Preview(r.Context(), path)
	if err != nil {
		h.writeError(w, "Failed to extract network", err.Error(), statusFor(err))
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		h.writeJSON(w, def, http.StatusOK)
		return
	}
	c, err := codec.Lookup(format)
	if err != nil {
		h.writeError(w, "Unknown format", err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := c.Export(def, w); err != nil {
		h.logger.Warn("failed to encode preview", zap.String("path", path), zap.Error(err))
	}
}
