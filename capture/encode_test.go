package capture

import (
	"bytes"
	"encoding/base64"
	"image"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeDataURL(t *testing.T, dataURL string) image.Image {
	t.Helper()
	require.True(t, strings.HasPrefix(dataURL, dataURLPrefix))
	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(dataURL, dataURLPrefix))
	require.NoError(t, err)
	img, err := imaging.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func TestEncodeJPEG(t *testing.T) {
	frame := newFakeFrames(64, 36).frame

	t.Run("native size", func(t *testing.T) {
		out, err := EncodeJPEG(frame, 64, 36)
		require.NoError(t, err)
		img := decodeDataURL(t, out)
		assert.Equal(t, 64, img.Bounds().Dx())
		assert.Equal(t, 36, img.Bounds().Dy())

		r, g, b, _ := img.At(10, 10).RGBA()
		assert.InDelta(t, 200, r>>8, 12)
		assert.InDelta(t, 40, g>>8, 12)
		assert.InDelta(t, 40, b>>8, 12)
	})

	t.Run("scaled to metadata size", func(t *testing.T) {
		out, err := EncodeJPEG(frame, 128, 72)
		require.NoError(t, err)
		img := decodeDataURL(t, out)
		assert.Equal(t, 128, img.Bounds().Dx())
		assert.Equal(t, 72, img.Bounds().Dy())
	})

	t.Run("missing dimensions use frame size", func(t *testing.T) {
		out, err := EncodeJPEG(frame, 0, 0)
		require.NoError(t, err)
		img := decodeDataURL(t, out)
		assert.Equal(t, 64, img.Bounds().Dx())
	})

	t.Run("portrait frame with landscape size", func(t *testing.T) {
		portrait := newFakeFrames(36, 64).frame
		out, err := EncodeJPEG(portrait, 64, 36)
		require.NoError(t, err)
		img := decodeDataURL(t, out)
		assert.Equal(t, 36, img.Bounds().Dx())
		assert.Equal(t, 64, img.Bounds().Dy())
	})

	t.Run("empty frame", func(t *testing.T) {
		_, err := EncodeJPEG(image.NewRGBA(image.Rect(0, 0, 0, 0)), 10, 10)
		assert.ErrorIs(t, err, ErrEmptyFrame)
	})
}
