package storage

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestTranscodeJPEG(t *testing.T) {
	result, err := TranscodeJPEG(pngBytes(t, 40, 30))

	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", result.MimeType)
	assert.Equal(t, 40, result.Width)
	assert.Equal(t, 30, result.Height)

	// JPEG SOI marker
	require.True(t, len(result.Data) > 2)
	assert.Equal(t, []byte{0xFF, 0xD8}, result.Data[:2])
}

func TestTranscodeJPEGRejectsGarbage(t *testing.T) {
	_, err := TranscodeJPEG([]byte("not an image"))
	assert.Error(t, err)
}
