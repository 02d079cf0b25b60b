package media

import "context"

// ContentStore is the content store the thumbnail flow depends on.
type ContentStore interface {
	// GetRecord fetches a record by id. Returns ErrRecordNotFound when absent.
	GetRecord(ctx context.Context, id string) (*Record, error)

	// UploadImage stores data as a new asset named fileName.
	UploadImage(ctx context.Context, data []byte, fileName string) (*Asset, error)

	// UpdateAndPublish persists rec and makes the new version visible.
	UpdateAndPublish(ctx context.Context, rec *Record) (*Record, error)
}

// Catalog manages records and assets for stores that own their data.
type Catalog interface {
	// CreateRecord creates a new record.
	CreateRecord(ctx context.Context, rec *Record) error

	// ListRecords returns records of the given type, newest first, and the total count.
	ListRecords(ctx context.Context, contentType string, limit, offset int) ([]*Record, int64, error)

	// GetAsset fetches an asset by id.
	GetAsset(ctx context.Context, id string) (*Asset, error)
}
