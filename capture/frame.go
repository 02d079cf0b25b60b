package capture

import (
	"context"
	"image"
)

// Metadata describes a video stream.
type Metadata struct {
	Width    int
	Height   int
	Duration float64
}

// FrameSource reads video metadata and frames.
type FrameSource interface {
	// LoadMetadata reads stream metadata without decoding the payload.
	LoadMetadata(ctx context.Context, src string) (Metadata, error)

	// FirstFrame seeks to time zero and decodes a single frame.
	FirstFrame(ctx context.Context, src string) (image.Image, error)
}

// SaveResult is the server's answer to a successful save.
type SaveResult struct {
	Success      bool   `json:"success"`
	ThumbnailURL string `json:"thumbnailUrl"`
	AssetID      string `json:"assetId"`
}

// Saver persists a captured thumbnail for a record.
type Saver interface {
	SaveThumbnail(ctx context.Context, recordID, imageBase64 string) (*SaveResult, error)
}
