package thumbnail

import (
	"encoding/base64"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	// ErrImageRequired is returned when the request carries no image.
	ErrImageRequired = errors.New("imageBase64 is required")

	// ErrInvalidImage is returned when the image is not valid base64.
	ErrInvalidImage = errors.New("imageBase64 is not valid base64")
)

const (
	fileNamePrefix   = "thumbnail-"
	fileNameSuffix   = ".jpg"
	fileNameMaxTitle = 30
	defaultTitle     = "media"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// DecodeImage decodes a base64 image payload. Both bare base64 and
// "data:<mime>;base64,<data>" URLs are accepted, with or without padding.
func DecodeImage(encoded string) ([]byte, error) {
	encoded = strings.TrimSpace(encoded)
	if strings.HasPrefix(encoded, "data:") {
		idx := strings.Index(encoded, ",")
		if idx < 0 || !strings.HasSuffix(encoded[:idx], ";base64") {
			return nil, ErrInvalidImage
		}
		encoded = encoded[idx+1:]
	}
	if encoded == "" {
		return nil, ErrImageRequired
	}

	data, err := base64.RawStdEncoding.DecodeString(strings.TrimRight(encoded, "="))
	if err != nil {
		return nil, ErrInvalidImage
	}
	if len(data) == 0 {
		return nil, ErrImageRequired
	}
	return data, nil
}

// FileName derives the asset file name from a record title: whitespace runs
// become hyphens and the result is cut to 30 characters.
func FileName(title string) string {
	if title == "" {
		title = defaultTitle
	}
	slug := whitespaceRun.ReplaceAllString(title, "-")
	if utf8.RuneCountInString(slug) > fileNameMaxTitle {
		slug = string([]rune(slug)[:fileNameMaxTitle])
	}
	return fileNamePrefix + slug + fileNameSuffix
}

// NormalizeAssetURL rewrites protocol-relative URLs to https. Other values
// are returned unchanged.
func NormalizeAssetURL(url string) string {
	if strings.HasPrefix(url, "//") {
		return "https:" + url
	}
	return url
}
