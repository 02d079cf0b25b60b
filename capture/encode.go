package capture

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

const (
	// JPEGQuality is the encoder quality used for posters.
	JPEGQuality = 80

	dataURLPrefix = "data:image/jpeg;base64,"
)

// ErrEmptyFrame is returned for frames without pixels.
var ErrEmptyFrame = errors.New("frame has no pixels")

// EncodeJPEG draws img onto a width x height surface and returns it as a
// JPEG data URL. A zero width or height uses the frame's own size. When the
// frame and the requested size disagree on orientation the size is swapped.
func EncodeJPEG(img image.Image, width, height int) (string, error) {
	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return "", ErrEmptyFrame
	}
	if width <= 0 || height <= 0 {
		width, height = bounds.Dx(), bounds.Dy()
	}
	// A rotated frame keeps its displayed orientation.
	if (bounds.Dx() > bounds.Dy()) != (width > height) && bounds.Dx() != bounds.Dy() && width != height {
		width, height = height, width
	}

	if bounds.Dx() != width || bounds.Dy() != height {
		img = imaging.Resize(img, width, height, imaging.Lanczos)
	}
	surface := imaging.Paste(imaging.New(width, height, color.Black), img, image.Pt(0, 0))

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, surface, imaging.JPEG, imaging.JPEGQuality(JPEGQuality)); err != nil {
		return "", err
	}
	return dataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
