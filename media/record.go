package media

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/hairizuanbinnoorazman/wise-institute/internal/uuidutil"
	"gorm.io/gorm"
)

// ContentTypeWiseInstitute is the type tag of media item records.
const ContentTypeWiseInstitute = "wiseInstitute"

var (
	// ErrRecordNotFound is returned when a record does not exist.
	ErrRecordNotFound = errors.New("record not found")

	// ErrInvalidTitle is returned when a record has no title.
	ErrInvalidTitle = errors.New("title is required")

	// ErrInvalidContentType is returned when a record has no type tag.
	ErrInvalidContentType = errors.New("content type is required")
)

// LinkSys identifies the target of a link.
type LinkSys struct {
	Type     string `json:"type"`
	LinkType string `json:"linkType"`
	ID       string `json:"id"`
}

// ThumbnailLink is a typed reference from a record to an asset.
type ThumbnailLink struct {
	Sys LinkSys `json:"sys"`
}

// AssetLink returns a link pointing at the asset with the given id.
func AssetLink(assetID string) ThumbnailLink {
	return ThumbnailLink{Sys: LinkSys{Type: "Link", LinkType: "Asset", ID: assetID}}
}

// AssetID returns the linked asset id, or "" when the link is not an asset link.
func (l ThumbnailLink) AssetID() string {
	if l.Sys.LinkType != "Asset" {
		return ""
	}
	return l.Sys.ID
}

// AppendThumbnail returns a new list holding every entry of links, in order,
// followed by a link to assetID. links itself is never modified.
func AppendThumbnail(links []ThumbnailLink, assetID string) []ThumbnailLink {
	out := make([]ThumbnailLink, len(links), len(links)+1)
	copy(out, links)
	return append(out, AssetLink(assetID))
}

// Record is a structured content item holding a title and an ordered list
// of thumbnail references.
type Record struct {
	ID               string          `json:"id" gorm:"type:varchar(64);primaryKey"`
	ContentType      string          `json:"content_type" gorm:"type:varchar(64);not null;index:idx_content_type"`
	Title            string          `json:"title" gorm:"type:varchar(255);not null"`
	Thumbnails       []ThumbnailLink `json:"thumbnails" gorm:"serializer:json;type:text"`
	Version          int             `json:"version" gorm:"not null;default:1"`
	PublishedVersion int             `json:"published_version" gorm:"not null;default:0"`
	PublishedAt      *time.Time      `json:"published_at,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`

	// Fields holds store-specific fields this package does not model so
	// they survive an update round trip.
	Fields map[string]json.RawMessage `json:"-" gorm:"-"`
}

// TableName pins the table name used by the migrations.
func (Record) TableName() string {
	return "media_records"
}

// BeforeCreate assigns an ID to new records.
func (r *Record) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuidutil.NewCompact()
	}
	if r.Version == 0 {
		r.Version = 1
	}
	return nil
}

// Validate checks required fields.
func (r *Record) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return ErrInvalidTitle
	}
	if r.ContentType == "" {
		return ErrInvalidContentType
	}
	return nil
}

// IsPublished reports whether the latest version has been published.
func (r *Record) IsPublished() bool {
	return r.PublishedVersion > 0 && r.PublishedVersion == r.Version
}
