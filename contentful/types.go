package contentful

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hairizuanbinnoorazman/wise-institute/media"
)

const (
	mediaType = "application/vnd.contentful.management.v1+json"

	fieldTitle     = "title"
	fieldThumbnail = "thumbnail"
	fieldFile      = "file"
)

type link struct {
	Sys media.LinkSys `json:"sys"`
}

type sys struct {
	ID               string     `json:"id"`
	Type             string     `json:"type"`
	Version          int        `json:"version"`
	PublishedVersion int        `json:"publishedVersion,omitempty"`
	ContentType      *link      `json:"contentType,omitempty"`
	CreatedAt        *time.Time `json:"createdAt,omitempty"`
	UpdatedAt        *time.Time `json:"updatedAt,omitempty"`
	PublishedAt      *time.Time `json:"publishedAt,omitempty"`
}

// localized maps locale codes to field values.
type localized map[string]json.RawMessage

type entry struct {
	Sys    sys                  `json:"sys"`
	Fields map[string]localized `json:"fields"`
}

type fileValue struct {
	ContentType string `json:"contentType"`
	FileName    string `json:"fileName"`
	URL         string `json:"url,omitempty"`
	UploadFrom  *link  `json:"uploadFrom,omitempty"`
	Details     *struct {
		Size int64 `json:"size"`
	} `json:"details,omitempty"`
}

type asset struct {
	Sys    sys `json:"sys"`
	Fields struct {
		Title map[string]string    `json:"title,omitempty"`
		File  map[string]fileValue `json:"file,omitempty"`
	} `json:"fields"`
}

type upload struct {
	Sys sys `json:"sys"`
}

// APIError is an error response from the Management API.
type APIError struct {
	StatusCode int    `json:"-"`
	Sys        sys    `json:"sys"`
	Message    string `json:"message"`
	RequestID  string `json:"requestId"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("contentful: status %d", e.StatusCode)
	}
	return fmt.Sprintf("contentful: %s (%s, status %d)", e.Message, e.Sys.ID, e.StatusCode)
}
