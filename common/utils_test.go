package common

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoalesce(t *testing.T) {
	assert.Equal(t, 3, Coalesce(0, 0, 3, 4))
	assert.Equal(t, "b", Coalesce("", "b"))
	assert.Equal(t, 0, Coalesce(0, 0))
	assert.Equal(t, float32(1.5), Coalesce[float32](0, 1.5))
}

func encodeTestPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestImportedTextureDecodeEmbedded(t *testing.T) {
	tex := &ImportedTexture{
		Name: "diffuse",
		Data: encodeTestPNG(t, 4, 2),
	}

	pixels, w, h, err := tex.Decode()
	require.NoError(t, err)
	assert.Equal(t, uint32(4), w)
	assert.Equal(t, uint32(2), h)
	assert.Len(t, pixels, 4*2*4)
	assert.Equal(t, 4, tex.Width)
	assert.Equal(t, 2, tex.Height)

	// RGBA, row-major: pixel (1, 0) starts at byte 4.
	assert.Equal(t, uint8(1), pixels[4])
	assert.Equal(t, uint8(255), pixels[7])
}

func TestImportedTextureDecodeErrors(t *testing.T) {
	var nilTex *ImportedTexture
	_, _, _, err := nilTex.Decode()
	assert.Error(t, err)

	_, _, _, err = (&ImportedTexture{}).Decode()
	assert.Error(t, err, "neither data nor path")

	_, _, _, err = (&ImportedTexture{Data: []byte("not an image")}).Decode()
	assert.Error(t, err)

	_, _, _, err = (&ImportedTexture{Path: "/nonexistent/texture.png"}).Decode()
	assert.Error(t, err)
}
