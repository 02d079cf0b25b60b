package media

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/hairizuanbinnoorazman/wise-institute/internal/uuidutil"
	"github.com/hairizuanbinnoorazman/wise-institute/logger"
	"github.com/hairizuanbinnoorazman/wise-institute/storage"
	"gorm.io/gorm"
)

// GormStore is a ContentStore and Catalog backed by a SQL database, with
// asset bytes kept in blob storage.
type GormStore struct {
	db           *gorm.DB
	blobs        storage.BlobStorage
	assetBaseURL string
	logger       logger.Logger
}

// NewGormStore creates a store. Asset URLs are assetBaseURL + "/" + the
// blob path, e.g. "//media.wise.edu/assets/<id>/thumbnail-x.jpg".
func NewGormStore(db *gorm.DB, blobs storage.BlobStorage, assetBaseURL string, log logger.Logger) *GormStore {
	return &GormStore{
		db:           db,
		blobs:        blobs,
		assetBaseURL: strings.TrimRight(assetBaseURL, "/"),
		logger:       log,
	}
}

// BlobName maps a file name onto a single path segment. Letters, digits,
// '.', '_' and '-' are kept and any other rune becomes '-'. Leading dots are
// dropped so the segment is never "." or "..".
func BlobName(fileName string) string {
	name := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '_' || r == '-' {
			return r
		}
		return '-'
	}, fileName)
	name = strings.TrimLeft(name, ".")
	if name == "" {
		return "asset"
	}
	return name
}

// AssetPath is the blob path of an asset file. The asset keeps its original
// file name; only the stored key is sanitized.
func AssetPath(assetID, fileName string) string {
	return "assets/" + assetID + "/" + BlobName(fileName)
}

func (s *GormStore) assetURL(assetID, fileName string) string {
	return s.assetBaseURL + "/assets/" + url.PathEscape(assetID) + "/" + url.PathEscape(BlobName(fileName))
}

// GetRecord fetches a record by id.
func (s *GormStore) GetRecord(ctx context.Context, id string) (*Record, error) {
	var rec Record
	err := s.db.WithContext(ctx).
		Where("id = ?", id).
		First(&rec).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		s.logger.Error(ctx, "failed to get record", map[string]interface{}{
			"error":     err.Error(),
			"record_id": id,
		})
		return nil, err
	}

	return &rec, nil
}

// UploadImage writes data to blob storage and registers it as an asset.
// If the asset row cannot be written the blob is removed again.
func (s *GormStore) UploadImage(ctx context.Context, data []byte, fileName string) (*Asset, error) {
	if fileName == "" {
		return nil, ErrInvalidFileName
	}
	if len(data) == 0 {
		return nil, ErrEmptyAsset
	}

	id := uuidutil.New()
	path := AssetPath(id, fileName)

	if err := s.blobs.Upload(ctx, path, bytes.NewReader(data)); err != nil {
		s.logger.Error(ctx, "failed to upload asset blob", map[string]interface{}{
			"error": err.Error(),
			"path":  path,
		})
		return nil, err
	}

	asset := &Asset{
		ID:          id,
		FileName:    fileName,
		ContentType: http.DetectContentType(data),
		Size:        int64(len(data)),
		Path:        path,
		URL:         s.assetURL(id, fileName),
	}

	if err := s.db.WithContext(ctx).Create(asset).Error; err != nil {
		s.logger.Error(ctx, "failed to create asset", map[string]interface{}{
			"error":    err.Error(),
			"asset_id": id,
		})
		if delErr := s.blobs.Delete(ctx, path); delErr != nil {
			s.logger.Warn(ctx, "failed to remove asset blob", map[string]interface{}{
				"error": delErr.Error(),
				"path":  path,
			})
		}
		return nil, err
	}

	s.logger.Info(ctx, "asset created", map[string]interface{}{
		"asset_id":  id,
		"file_name": fileName,
		"size":      asset.Size,
	})

	return asset, nil
}

// UpdateAndPublish saves the record's title and thumbnails as a new version
// and then publishes that version. There is no optimistic locking; the last
// writer wins.
func (s *GormStore) UpdateAndPublish(ctx context.Context, rec *Record) (*Record, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	updated := *rec
	updated.Version = rec.Version + 1
	updated.UpdatedAt = time.Now()

	result := s.db.WithContext(ctx).
		Model(&updated).
		Select("title", "thumbnails", "version", "updated_at").
		Updates(&updated)
	if result.Error != nil {
		s.logger.Error(ctx, "failed to update record", map[string]interface{}{
			"error":     result.Error.Error(),
			"record_id": rec.ID,
		})
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrRecordNotFound
	}

	if err := s.publish(ctx, &updated); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "record published", map[string]interface{}{
		"record_id":  updated.ID,
		"version":    updated.Version,
		"thumbnails": len(updated.Thumbnails),
	})

	return &updated, nil
}

func (s *GormStore) publish(ctx context.Context, rec *Record) error {
	now := time.Now()
	err := s.db.WithContext(ctx).
		Model(&Record{}).
		Where("id = ?", rec.ID).
		Updates(map[string]interface{}{
			"published_version": rec.Version,
			"published_at":      now,
		}).Error
	if err != nil {
		s.logger.Error(ctx, "failed to publish record", map[string]interface{}{
			"error":     err.Error(),
			"record_id": rec.ID,
		})
		return err
	}

	rec.PublishedVersion = rec.Version
	rec.PublishedAt = &now
	return nil
}

// CreateRecord creates a new unpublished record.
func (s *GormStore) CreateRecord(ctx context.Context, rec *Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		s.logger.Error(ctx, "failed to create record", map[string]interface{}{
			"error": err.Error(),
			"title": rec.Title,
		})
		return err
	}

	s.logger.Info(ctx, "record created", map[string]interface{}{
		"record_id":    rec.ID,
		"content_type": rec.ContentType,
	})

	return nil
}

// ListRecords returns records of contentType, newest first.
func (s *GormStore) ListRecords(ctx context.Context, contentType string, limit, offset int) ([]*Record, int64, error) {
	var total int64
	err := s.db.WithContext(ctx).
		Model(&Record{}).
		Where("content_type = ?", contentType).
		Count(&total).Error
	if err != nil {
		s.logger.Error(ctx, "failed to count records", map[string]interface{}{
			"error":        err.Error(),
			"content_type": contentType,
		})
		return nil, 0, err
	}

	var records []*Record
	err = s.db.WithContext(ctx).
		Where("content_type = ?", contentType).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&records).Error
	if err != nil {
		s.logger.Error(ctx, "failed to list records", map[string]interface{}{
			"error":        err.Error(),
			"content_type": contentType,
			"limit":        limit,
			"offset":       offset,
		})
		return nil, 0, err
	}

	return records, total, nil
}

// GetAsset fetches an asset by id.
func (s *GormStore) GetAsset(ctx context.Context, id string) (*Asset, error) {
	var asset Asset
	err := s.db.WithContext(ctx).
		Where("id = ?", id).
		First(&asset).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssetNotFound
		}
		s.logger.Error(ctx, "failed to get asset", map[string]interface{}{
			"error":    err.Error(),
			"asset_id": id,
		})
		return nil, err
	}

	return &asset, nil
}
