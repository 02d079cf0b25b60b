package capture

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	saveThumbnailPath = "/api/admin/media/{id}/save-thumbnail"

	// SessionCookieName is the admin session cookie sent with saves.
	SessionCookieName = "admin-session"
)

// SaveError is a save the server answered with an error status.
type SaveError struct {
	StatusCode int
	Message    string
}

func (e *SaveError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("save thumbnail: status %d", e.StatusCode)
	}
	return fmt.Sprintf("save thumbnail: %s (status %d)", e.Message, e.StatusCode)
}

type errorBody struct {
	Error string `json:"error"`
}

// HTTPSaver posts thumbnails to the backend's save endpoint.
type HTTPSaver struct {
	client *resty.Client
}

// NewHTTPSaver creates a saver for the backend at baseURL that authenticates
// with the given admin-session cookie value.
func NewHTTPSaver(baseURL, session string, timeout time.Duration) *HTTPSaver {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetCookie(&http.Cookie{Name: SessionCookieName, Value: session})

	return &HTTPSaver{client: client}
}

// SaveThumbnail sends imageBase64 for recordID. A response with an error
// status returns a *SaveError; transport failures return the underlying error.
func (s *HTTPSaver) SaveThumbnail(ctx context.Context, recordID, imageBase64 string) (*SaveResult, error) {
	var result SaveResult
	resp, err := s.client.R().
		SetContext(ctx).
		SetPathParam("id", recordID).
		SetBody(map[string]string{"imageBase64": imageBase64}).
		SetResult(&result).
		SetError(&errorBody{}).
		Post(saveThumbnailPath)
	if err != nil {
		return nil, err
	}

	if resp.IsError() {
		saveErr := &SaveError{StatusCode: resp.StatusCode()}
		if body, ok := resp.Error().(*errorBody); ok && body != nil {
			saveErr.Message = body.Error
		}
		return nil, saveErr
	}

	return &result, nil
}
