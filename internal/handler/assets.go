package handler

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"netsimbridge/internal/blob"
	"netsimbridge/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// UploadResponse is returned after an asset upload
type UploadResponse struct {
	Hash string `json:"hash"`
	Name string `json:"name"`
	Size int    `json:"size"`
}

// UploadAsset stores a network file. The body is either a multipart form
// with a "file" field or the raw file content with a name query parameter.
func (h *API) UploadAsset(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	name, content, err := readUpload(r)
	if err != nil {
		h.writeError(w, "Failed to read upload", err.Error(), http.StatusBadRequest)
		return
	}
	if name == "" {
		h.writeError(w, "Missing file name", "set the name query parameter or upload a multipart file", http.StatusBadRequest)
		return
	}

	hash, err := service.Upload(r.Context(), h.deps, name, content)
	if err != nil {
		h.logger.Error("failed to store asset", zap.String("name", name), zap.Error(err))
		h.writeError(w, "Failed to store asset", err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, UploadResponse{Hash: hash, Name: name, Size: len(content)}, http.StatusCreated)
}

func readUpload(r *http.Request) (string, []byte, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		content, err := io.ReadAll(r.Body)
		return r.URL.Query().Get("name"), content, err
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return "", nil, err
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return "", nil, err
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", nil, err
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		name = header.Filename
	}
	return name, content, nil
}

// GetAsset returns the metadata of an asset or artifact
func (h *API) GetAsset(w http.ResponseWriter, r *http.Request) {
	hash := chi.URLParam(r, "hash")
	meta, err := h.deps.Blobs.GetMetadata(r.Context(), hash)
	if err != nil {
		h.writeBlobError(w, err)
		return
	}
	h.writeJSON(w, meta, http.StatusOK)
}

// GetAssetContent streams the content of a single-file asset
func (h *API) GetAssetContent(w http.ResponseWriter, r *http.Request) {
	hash := chi.URLParam(r, "hash")
	meta, err := h.deps.Blobs.GetMetadata(r.Context(), hash)
	if err != nil {
		h.writeBlobError(w, err)
		return
	}
	if meta.IsArtifact() {
		h.writeError(w, "Asset is an artifact", "fetch its files individually", http.StatusBadRequest)
		return
	}
	content, err := h.deps.Blobs.GetObject(r.Context(), hash)
	if err != nil {
		h.writeBlobError(w, err)
		return
	}
	h.writeFile(w, meta.Name, meta.ContentType, content)
}

// GetArtifactFile streams one file of an artifact
func (h *API) GetArtifactFile(w http.ResponseWriter, r *http.Request) {
	hash := chi.URLParam(r, "hash")
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		h.writeError(w, "Invalid file name", err.Error(), http.StatusBadRequest)
		return
	}
	content, err := h.deps.Blobs.GetFile(r.Context(), hash, name)
	if err != nil {
		h.writeBlobError(w, err)
		return
	}
	h.writeFile(w, name, "", content)
}

func (h *API) writeFile(w http.ResponseWriter, name, contentType string, content []byte) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(content)))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(content); err != nil {
		h.logger.Debug("failed to write file", zap.String("name", name), zap.Error(err))
	}
}

func (h *API) writeBlobError(w http.ResponseWriter, err error) {
	if errors.Is(err, blob.ErrNotFound) {
		h.writeError(w, "Asset not found", err.Error(), http.StatusNotFound)
		return
	}
	h.logger.Error("failed to read asset", zap.Error(err))
	h.writeError(w, "Failed to read asset", err.Error(), http.StatusInternalServerError)
}
