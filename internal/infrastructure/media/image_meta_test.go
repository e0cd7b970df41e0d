package media

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestInspectImagePNG(t *testing.T) {
	meta, err := InspectImage(encodePNG(t, 12, 8), "image/png")
	require.NoError(t, err)
	assert.Equal(t, 12, meta.Width)
	assert.Equal(t, 8, meta.Height)
}

func TestInspectImageGIF(t *testing.T) {
	img := image.NewPaletted(image.Rect(0, 0, 6, 4), color.Palette{color.White, color.Black})
	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, img, nil))

	meta, err := InspectImage(buf.Bytes(), "image/gif")
	require.NoError(t, err)
	assert.Equal(t, 6, meta.Width)
	assert.Equal(t, 4, meta.Height)
}

func TestInspectImageGarbage(t *testing.T) {
	_, err := InspectImage([]byte("definitely not an image"), "image/png")
	assert.Error(t, err)
}

func TestInspectImageGarbageWebP(t *testing.T) {
	_, err := InspectImage([]byte("not webp either"), "image/webp")
	assert.Error(t, err)
}
