package media

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// ImageMeta holds the pixel dimensions of an uploaded image.
type ImageMeta struct {
	Width  int
	Height int
}

// InspectImage decodes just enough of an uploaded image to capture its
// dimensions. WebP goes through its dedicated decoder; everything else
// through the generic one.
func InspectImage(payload []byte, contentType string) (*ImageMeta, error) {
	if strings.EqualFold(contentType, "image/webp") {
		img, err := webp.Decode(bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("failed to decode webp image: %w", err)
		}
		bounds := img.Bounds()
		return &ImageMeta{Width: bounds.Dx(), Height: bounds.Dy()}, nil
	}

	img, err := imaging.Decode(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	bounds := img.Bounds()
	return &ImageMeta{Width: bounds.Dx(), Height: bounds.Dy()}, nil
}
