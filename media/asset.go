package media

import (
	"errors"
	"time"

	"github.com/hairizuanbinnoorazman/wise-institute/internal/uuidutil"
	"gorm.io/gorm"
)

var (
	// ErrAssetNotFound is returned when an asset does not exist.
	ErrAssetNotFound = errors.New("asset not found")

	// ErrInvalidFileName is returned when an asset has no file name.
	ErrInvalidFileName = errors.New("file_name is required")

	// ErrEmptyAsset is returned when an upload carries no bytes.
	ErrEmptyAsset = errors.New("asset data is empty")
)

// Asset is a stored binary with a retrievable URL. The URL may be
// protocol-relative.
type Asset struct {
	ID          string    `json:"id" gorm:"type:char(36);primaryKey"`
	FileName    string    `json:"file_name" gorm:"type:varchar(255);not null"`
	ContentType string    `json:"content_type" gorm:"type:varchar(128)"`
	Size        int64     `json:"size" gorm:"not null"`
	Path        string    `json:"path" gorm:"type:varchar(512);not null"`
	URL         string    `json:"url" gorm:"type:varchar(1024);not null"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName pins the table name used by the migrations.
func (Asset) TableName() string {
	return "media_assets"
}

// BeforeCreate assigns an ID to new assets.
func (a *Asset) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuidutil.New()
	}
	return nil
}
