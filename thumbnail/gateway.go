// Package thumbnail attaches captured video thumbnails to media records.
package thumbnail

import (
	"context"
	"errors"
	"fmt"

	"github.com/hairizuanbinnoorazman/wise-institute/logger"
	"github.com/hairizuanbinnoorazman/wise-institute/media"
)

// ErrWrongRecordType is returned when the target record is not of the
// expected type.
var ErrWrongRecordType = errors.New("not a media item entry")

// Result describes a stored thumbnail.
type Result struct {
	AssetID      string
	ThumbnailURL string
	Record       *media.Record
}

// Gateway validates thumbnail uploads and attaches them to records.
type Gateway struct {
	store        media.ContentStore
	expectedType string
	logger       logger.Logger
}

// NewGateway creates a gateway that only accepts records of expectedType.
func NewGateway(store media.ContentStore, expectedType string, log logger.Logger) *Gateway {
	if expectedType == "" {
		expectedType = media.ContentTypeWiseInstitute
	}
	return &Gateway{
		store:        store,
		expectedType: expectedType,
		logger:       log,
	}
}

// SaveThumbnail decodes imageBase64, uploads it as a new asset and appends
// it to the record's thumbnail list before publishing the record.
//
// The steps are not transactional. If the record update fails after the
// upload, the asset stays in the store unlinked.
func (g *Gateway) SaveThumbnail(ctx context.Context, recordID, imageBase64 string) (*Result, error) {
	data, err := DecodeImage(imageBase64)
	if err != nil {
		SavesTotal.WithLabelValues(resultInvalid).Inc()
		return nil, err
	}

	rec, err := g.store.GetRecord(ctx, recordID)
	if err != nil {
		if errors.Is(err, media.ErrRecordNotFound) {
			SavesTotal.WithLabelValues(resultNotFound).Inc()
			return nil, err
		}
		SavesTotal.WithLabelValues(resultError).Inc()
		return nil, fmt.Errorf("get record: %w", err)
	}

	if rec.ContentType != g.expectedType {
		g.logger.Warn(ctx, "thumbnail rejected for record type", map[string]interface{}{
			"record_id":    recordID,
			"content_type": rec.ContentType,
		})
		SavesTotal.WithLabelValues(resultWrongType).Inc()
		return nil, fmt.Errorf("%w (expected %s)", ErrWrongRecordType, g.expectedType)
	}

	asset, err := g.store.UploadImage(ctx, data, FileName(rec.Title))
	if err != nil {
		SavesTotal.WithLabelValues(resultUploadFailed).Inc()
		return nil, fmt.Errorf("upload image: %w", err)
	}
	UploadBytes.Observe(float64(len(data)))

	rec.Thumbnails = media.AppendThumbnail(rec.Thumbnails, asset.ID)

	updated, err := g.store.UpdateAndPublish(ctx, rec)
	if err != nil {
		g.logger.Error(ctx, "record update failed after upload, asset left unlinked", map[string]interface{}{
			"error":     err.Error(),
			"record_id": recordID,
			"asset_id":  asset.ID,
		})
		SavesTotal.WithLabelValues(resultUpdateFailed).Inc()
		return nil, fmt.Errorf("update record: %w", err)
	}

	g.logger.Info(ctx, "thumbnail saved", map[string]interface{}{
		"record_id":  recordID,
		"asset_id":   asset.ID,
		"thumbnails": len(updated.Thumbnails),
	})
	SavesTotal.WithLabelValues(resultSaved).Inc()

	return &Result{
		AssetID:      asset.ID,
		ThumbnailURL: NormalizeAssetURL(asset.URL),
		Record:       updated,
	}, nil
}
