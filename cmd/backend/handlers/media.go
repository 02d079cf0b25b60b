package handlers

import (
	"errors"
	"io"
	"net/http"
	"path"

	"github.com/gorilla/mux"
	"github.com/hairizuanbinnoorazman/wise-institute/logger"
	"github.com/hairizuanbinnoorazman/wise-institute/media"
	"github.com/hairizuanbinnoorazman/wise-institute/storage"
	"github.com/hairizuanbinnoorazman/wise-institute/thumbnail"
)

// MediaHandler serves media records and their assets.
type MediaHandler struct {
	store        media.ContentStore
	catalog      media.Catalog
	blobs        storage.BlobStorage
	expectedType string
	logger       logger.Logger
}

// NewMediaHandler creates a media handler. catalog and blobs are nil when
// the content store is hosted elsewhere; the endpoints needing them then
// answer 501.
func NewMediaHandler(
	store media.ContentStore,
	catalog media.Catalog,
	blobs storage.BlobStorage,
	expectedType string,
	log logger.Logger,
) *MediaHandler {
	return &MediaHandler{
		store:        store,
		catalog:      catalog,
		blobs:        blobs,
		expectedType: expectedType,
		logger:       log,
	}
}

// CreateMediaRequest represents a create media record request.
type CreateMediaRequest struct {
	ID    string `json:"id" validate:"omitempty,max=64,alphanum"`
	Title string `json:"title" validate:"required,max=255"`
}

// MediaResponse is a record with its thumbnail URLs resolved.
type MediaResponse struct {
	*media.Record
	ThumbnailURLs []string `json:"thumbnail_urls"`
}

func (h *MediaHandler) toResponse(r *http.Request, rec *media.Record) MediaResponse {
	resp := MediaResponse{Record: rec, ThumbnailURLs: []string{}}
	if h.catalog == nil {
		return resp
	}
	for _, link := range rec.Thumbnails {
		id := link.AssetID()
		if id == "" {
			continue
		}
		asset, err := h.catalog.GetAsset(r.Context(), id)
		if err != nil {
			h.logger.Warn(r.Context(), "thumbnail asset missing", map[string]interface{}{
				"record_id": rec.ID,
				"asset_id":  id,
			})
			continue
		}
		resp.ThumbnailURLs = append(resp.ThumbnailURLs, thumbnail.NormalizeAssetURL(asset.URL))
	}
	return resp
}

// Create handles creating a media record.
func (h *MediaHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		respondError(w, http.StatusNotImplemented, "records are managed by the content store")
		return
	}

	var req CreateMediaRequest
	if err := parseJSON(r, &req, h.logger); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateRequest(&req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	rec := &media.Record{
		ID:          req.ID,
		ContentType: h.expectedType,
		Title:       req.Title,
	}
	if err := h.catalog.CreateRecord(r.Context(), rec); err != nil {
		if errors.Is(err, media.ErrInvalidTitle) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to create record")
		return
	}

	respondJSON(w, http.StatusCreated, h.toResponse(r, rec))
}

// List handles listing media records with pagination.
func (h *MediaHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		respondError(w, http.StatusNotImplemented, "listing is not supported by the content store")
		return
	}

	limit, offset := parsePagination(r)
	records, total, err := h.catalog.ListRecords(r.Context(), h.expectedType, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list records")
		return
	}

	items := make([]MediaResponse, 0, len(records))
	for _, rec := range records {
		items = append(items, h.toResponse(r, rec))
	}

	respondJSON(w, http.StatusOK, NewPaginatedResponse(items, int(total), limit, offset))
}

// Get handles getting a single media record.
func (h *MediaHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	rec, err := h.store.GetRecord(r.Context(), id)
	if err != nil {
		if errors.Is(err, media.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, "record not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to get record")
		return
	}
	if rec.ContentType != h.expectedType {
		respondError(w, http.StatusNotFound, "record not found")
		return
	}

	respondJSON(w, http.StatusOK, h.toResponse(r, rec))
}

// ServeAsset streams an asset file from blob storage.
func (h *MediaHandler) ServeAsset(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil || h.blobs == nil {
		respondError(w, http.StatusNotImplemented, "assets are served by the content store")
		return
	}

	vars := mux.Vars(r)
	asset, err := h.catalog.GetAsset(r.Context(), vars["id"])
	if err != nil || path.Base(asset.Path) != vars["file"] {
		respondError(w, http.StatusNotFound, "asset not found")
		return
	}

	rc, err := h.blobs.Download(r.Context(), asset.Path)
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) {
			respondError(w, http.StatusNotFound, "asset not found")
			return
		}
		h.logger.Error(r.Context(), "failed to read asset", map[string]interface{}{
			"error":    err.Error(),
			"asset_id": asset.ID,
		})
		respondError(w, http.StatusInternalServerError, "failed to read asset")
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", asset.ContentType)
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Warn(r.Context(), "failed to stream asset", map[string]interface{}{
			"error":    err.Error(),
			"asset_id": asset.ID,
		})
	}
}
