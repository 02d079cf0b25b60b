// Package contentful implements the media content store on top of the
// Contentful Content Management API.
package contentful

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hairizuanbinnoorazman/wise-institute/logger"
	"github.com/hairizuanbinnoorazman/wise-institute/media"
)

const (
	DefaultBaseURL   = "https://api.contentful.com"
	DefaultUploadURL = "https://upload.contentful.com"
	DefaultLocale    = "en-US"
)

// ErrProcessingTimeout is returned when an uploaded asset does not finish
// processing in time.
var ErrProcessingTimeout = errors.New("asset processing timed out")

// Config holds Management API settings.
type Config struct {
	SpaceID      string
	Environment  string
	AccessToken  string
	Locale       string
	BaseURL      string
	UploadURL    string
	Timeout      time.Duration
	PollInterval time.Duration
	PollTimeout  time.Duration
}

// Client is a media.ContentStore backed by a Contentful space.
type Client struct {
	api    *resty.Client
	upload *resty.Client
	cfg    Config
	logger logger.Logger
}

// NewClient creates a client for the configured space and environment.
func NewClient(cfg Config, log logger.Logger) (*Client, error) {
	if cfg.SpaceID == "" {
		return nil, errors.New("contentful space id is required")
	}
	if cfg.AccessToken == "" {
		return nil, errors.New("contentful access token is required")
	}
	if cfg.Environment == "" {
		cfg.Environment = "master"
	}
	if cfg.Locale == "" {
		cfg.Locale = DefaultLocale
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UploadURL == "" {
		cfg.UploadURL = DefaultUploadURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = 500 * time.Millisecond
	}
	if cfg.PollTimeout == 0 {
		cfg.PollTimeout = 30 * time.Second
	}

	newResty := func(baseURL string) *resty.Client {
		return resty.New().
			SetBaseURL(baseURL).
			SetTimeout(cfg.Timeout).
			SetAuthToken(cfg.AccessToken).
			SetHeader("Accept", "application/json").
			SetPathParams(map[string]string{
				"space":       cfg.SpaceID,
				"environment": cfg.Environment,
				"locale":      cfg.Locale,
			})
	}

	return &Client{
		api:    newResty(cfg.BaseURL).SetHeader("Content-Type", mediaType),
		upload: newResty(cfg.UploadURL).SetHeader("Content-Type", "application/octet-stream"),
		cfg:    cfg,
		logger: log,
	}, nil
}

const (
	entryPath        = "/spaces/{space}/environments/{environment}/entries/{id}"
	entryPublishPath = entryPath + "/published"
	assetsPath       = "/spaces/{space}/environments/{environment}/assets"
	assetPath        = assetsPath + "/{id}"
	assetProcessPath = assetPath + "/files/{locale}/process"
	assetPublishPath = assetPath + "/published"
	uploadsPath      = "/spaces/{space}/environments/{environment}/uploads"
)

func (c *Client) request(ctx context.Context, result interface{}) *resty.Request {
	return c.api.R().
		SetContext(ctx).
		SetResult(result).
		SetError(&APIError{})
}

func checkResponse(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if !resp.IsError() {
		return nil
	}
	apiErr, ok := resp.Error().(*APIError)
	if !ok || apiErr == nil {
		apiErr = &APIError{}
	}
	apiErr.StatusCode = resp.StatusCode()
	return apiErr
}

func isNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

func version(v int) string {
	return strconv.Itoa(v)
}

// GetRecord fetches an entry and maps it to a record.
func (c *Client) GetRecord(ctx context.Context, id string) (*media.Record, error) {
	var e entry
	err := checkResponse(c.request(ctx, &e).
		SetPathParam("id", id).
		Get(entryPath))
	if err != nil {
		if isNotFound(err) {
			return nil, media.ErrRecordNotFound
		}
		c.logger.Error(ctx, "failed to get entry", map[string]interface{}{
			"error":    err.Error(),
			"entry_id": id,
		})
		return nil, err
	}

	return c.toRecord(&e)
}

func (c *Client) toRecord(e *entry) (*media.Record, error) {
	rec := &media.Record{
		ID:               e.Sys.ID,
		Version:          e.Sys.Version,
		PublishedVersion: e.Sys.PublishedVersion,
		PublishedAt:      e.Sys.PublishedAt,
		Fields:           make(map[string]json.RawMessage, len(e.Fields)),
	}
	if e.Sys.ContentType != nil {
		rec.ContentType = e.Sys.ContentType.Sys.ID
	}
	if e.Sys.CreatedAt != nil {
		rec.CreatedAt = *e.Sys.CreatedAt
	}
	if e.Sys.UpdatedAt != nil {
		rec.UpdatedAt = *e.Sys.UpdatedAt
	}

	for name, values := range e.Fields {
		raw, err := json.Marshal(values)
		if err != nil {
			return nil, fmt.Errorf("encode field %s: %w", name, err)
		}
		rec.Fields[name] = raw
	}

	if raw, ok := e.Fields[fieldTitle][c.cfg.Locale]; ok {
		if err := json.Unmarshal(raw, &rec.Title); err != nil {
			return nil, fmt.Errorf("decode title: %w", err)
		}
	}
	if raw, ok := e.Fields[fieldThumbnail][c.cfg.Locale]; ok {
		if err := json.Unmarshal(raw, &rec.Thumbnails); err != nil {
			return nil, fmt.Errorf("decode thumbnails: %w", err)
		}
	}

	return rec, nil
}

// UpdateAndPublish writes the record's title and thumbnails back to the
// entry, keeping every other field and locale, then publishes the entry.
func (c *Client) UpdateAndPublish(ctx context.Context, rec *media.Record) (*media.Record, error) {
	fields := make(map[string]localized, len(rec.Fields)+2)
	for name, raw := range rec.Fields {
		var values localized
		if err := json.Unmarshal(raw, &values); err != nil {
			return nil, fmt.Errorf("decode field %s: %w", name, err)
		}
		fields[name] = values
	}

	// A title absent in this locale is left absent unless one was set.
	if _, ok := fields[fieldTitle][c.cfg.Locale]; ok || rec.Title != "" {
		if err := setLocalized(fields, fieldTitle, c.cfg.Locale, rec.Title); err != nil {
			return nil, err
		}
	}
	thumbnails := rec.Thumbnails
	if thumbnails == nil {
		thumbnails = []media.ThumbnailLink{}
	}
	if err := setLocalized(fields, fieldThumbnail, c.cfg.Locale, thumbnails); err != nil {
		return nil, err
	}

	var updated entry
	err := checkResponse(c.request(ctx, &updated).
		SetPathParam("id", rec.ID).
		SetHeader("X-Contentful-Version", version(rec.Version)).
		SetBody(map[string]interface{}{"fields": fields}).
		Put(entryPath))
	if err != nil {
		if isNotFound(err) {
			return nil, media.ErrRecordNotFound
		}
		c.logger.Error(ctx, "failed to update entry", map[string]interface{}{
			"error":    err.Error(),
			"entry_id": rec.ID,
			"version":  rec.Version,
		})
		return nil, err
	}

	var published entry
	err = checkResponse(c.request(ctx, &published).
		SetPathParam("id", rec.ID).
		SetHeader("X-Contentful-Version", version(updated.Sys.Version)).
		Put(entryPublishPath))
	if err != nil {
		c.logger.Error(ctx, "failed to publish entry", map[string]interface{}{
			"error":    err.Error(),
			"entry_id": rec.ID,
			"version":  updated.Sys.Version,
		})
		return nil, err
	}

	c.logger.Info(ctx, "entry published", map[string]interface{}{
		"entry_id": rec.ID,
		"version":  published.Sys.Version,
	})

	return c.toRecord(&published)
}

func setLocalized(fields map[string]localized, name, locale string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode field %s: %w", name, err)
	}
	if fields[name] == nil {
		fields[name] = localized{}
	}
	fields[name][locale] = raw
	return nil
}

// UploadImage uploads data, creates an asset from it, waits for processing
// and publishes the asset.
func (c *Client) UploadImage(ctx context.Context, data []byte, fileName string) (*media.Asset, error) {
	if fileName == "" {
		return nil, media.ErrInvalidFileName
	}
	if len(data) == 0 {
		return nil, media.ErrEmptyAsset
	}
	contentType := http.DetectContentType(data)

	var up upload
	err := checkResponse(c.upload.R().
		SetContext(ctx).
		SetBody(data).
		SetResult(&up).
		SetError(&APIError{}).
		Post(uploadsPath))
	if err != nil {
		c.logger.Error(ctx, "failed to upload file", map[string]interface{}{
			"error":     err.Error(),
			"file_name": fileName,
		})
		return nil, fmt.Errorf("upload file: %w", err)
	}

	body := map[string]interface{}{
		"fields": map[string]interface{}{
			"title": map[string]string{c.cfg.Locale: fileName},
			"file": map[string]fileValue{
				c.cfg.Locale: {
					ContentType: contentType,
					FileName:    fileName,
					UploadFrom:  &link{Sys: media.LinkSys{Type: "Link", LinkType: "Upload", ID: up.Sys.ID}},
				},
			},
		},
	}

	var created asset
	err = checkResponse(c.request(ctx, &created).
		SetBody(body).
		Post(assetsPath))
	if err != nil {
		return nil, fmt.Errorf("create asset: %w", err)
	}

	err = checkResponse(c.api.R().
		SetContext(ctx).
		SetError(&APIError{}).
		SetPathParam("id", created.Sys.ID).
		SetHeader("X-Contentful-Version", version(created.Sys.Version)).
		Put(assetProcessPath))
	if err != nil {
		return nil, fmt.Errorf("process asset: %w", err)
	}

	processed, err := c.waitForProcessing(ctx, created.Sys.ID)
	if err != nil {
		return nil, err
	}

	var published asset
	err = checkResponse(c.request(ctx, &published).
		SetPathParam("id", processed.Sys.ID).
		SetHeader("X-Contentful-Version", version(processed.Sys.Version)).
		Put(assetPublishPath))
	if err != nil {
		return nil, fmt.Errorf("publish asset: %w", err)
	}

	file := published.Fields.File[c.cfg.Locale]
	result := &media.Asset{
		ID:          published.Sys.ID,
		FileName:    fileName,
		ContentType: contentType,
		Size:        int64(len(data)),
		URL:         file.URL,
	}
	if file.Details != nil {
		result.Size = file.Details.Size
	}
	if published.Sys.CreatedAt != nil {
		result.CreatedAt = *published.Sys.CreatedAt
	}

	c.logger.Info(ctx, "asset published", map[string]interface{}{
		"asset_id":  result.ID,
		"file_name": fileName,
		"size":      result.Size,
	})

	return result, nil
}

func (c *Client) waitForProcessing(ctx context.Context, id string) (*asset, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.PollTimeout)
	defer cancel()

	ticker := time.NewTicker(c.cfg.PollInterval)
	defer ticker.Stop()

	for {
		var a asset
		err := checkResponse(c.request(ctx, &a).
			SetPathParam("id", id).
			Get(assetPath))
		if err != nil && ctx.Err() == nil {
			return nil, fmt.Errorf("get asset: %w", err)
		}
		if err == nil && a.Fields.File[c.cfg.Locale].URL != "" {
			return &a, nil
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil, ctx.Err()
			}
			c.logger.Warn(ctx, "asset processing did not finish", map[string]interface{}{
				"asset_id": id,
			})
			return nil, ErrProcessingTimeout
		case <-ticker.C:
		}
	}
}
