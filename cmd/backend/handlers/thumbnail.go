package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/hairizuanbinnoorazman/wise-institute/logger"
	"github.com/hairizuanbinnoorazman/wise-institute/media"
	"github.com/hairizuanbinnoorazman/wise-institute/thumbnail"
)

// MaxThumbnailBodySize caps the save-thumbnail body. A full-HD JPEG poster
// encoded as a base64 data URL stays well below it.
const MaxThumbnailBodySize = 10 << 20

// ThumbnailHandler handles thumbnail uploads for media records.
type ThumbnailHandler struct {
	gateway *thumbnail.Gateway
	logger  logger.Logger
}

// NewThumbnailHandler creates a new thumbnail handler.
func NewThumbnailHandler(gateway *thumbnail.Gateway, log logger.Logger) *ThumbnailHandler {
	return &ThumbnailHandler{
		gateway: gateway,
		logger:  log,
	}
}

// SaveThumbnailRequest is the save-thumbnail body. ImageBase64 is left
// untyped so non-string values can be rejected explicitly.
type SaveThumbnailRequest struct {
	ImageBase64 interface{} `json:"imageBase64"`
}

// SaveThumbnailResponse is returned after a thumbnail is attached.
type SaveThumbnailResponse struct {
	Success      bool   `json:"success"`
	ThumbnailURL string `json:"thumbnailUrl"`
	AssetID      string `json:"assetId"`
}

// Save attaches the posted image to the record named in the path.
func (h *ThumbnailHandler) Save(w http.ResponseWriter, r *http.Request) {
	recordID := mux.Vars(r)["id"]

	r.Body = http.MaxBytesReader(w, r.Body, MaxThumbnailBodySize)

	var req SaveThumbnailRequest
	if err := parseJSON(r, &req, h.logger); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	image, ok := req.ImageBase64.(string)
	if !ok || image == "" {
		respondError(w, http.StatusBadRequest, thumbnail.ErrImageRequired.Error())
		return
	}

	result, err := h.gateway.SaveThumbnail(r.Context(), recordID, image)
	if err != nil {
		switch {
		case errors.Is(err, thumbnail.ErrImageRequired),
			errors.Is(err, thumbnail.ErrInvalidImage),
			errors.Is(err, thumbnail.ErrWrongRecordType):
			respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, media.ErrRecordNotFound):
			respondError(w, http.StatusNotFound, err.Error())
		default:
			h.logger.Error(r.Context(), "failed to save thumbnail", map[string]interface{}{
				"error":     err.Error(),
				"record_id": recordID,
			})
			respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	respondJSON(w, http.StatusOK, SaveThumbnailResponse{
		Success:      true,
		ThumbnailURL: result.ThumbnailURL,
		AssetID:      result.AssetID,
	})
}
