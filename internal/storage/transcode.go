package storage

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

// TranscodeResult holds the re-encoded image and its final properties
type TranscodeResult struct {
	Data     []byte
	MimeType string
	Width    int
	Height   int
}

const jpegQuality = 85

// TranscodeJPEG decodes an image in any supported format and re-encodes
// it as JPEG, the standard web format stored by the asset pipeline.
func TranscodeJPEG(data []byte) (*TranscodeResult, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	bounds := img.Bounds()
	return &TranscodeResult{
		Data:     buf.Bytes(),
		MimeType: "image/jpeg",
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
	}, nil
}
