package img

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidImage(w, h int) image.Image {
	m := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	return m
}

func TestHandleRoundTrip(t *testing.T) {
	src := solidImage(100, 50)
	handle, err := EncodeHandle(src)
	require.NoError(t, err)
	assert.Contains(t, handle, "data:image/jpeg;base64,")

	got, err := DecodeHandle(handle)
	require.NoError(t, err)
	assert.Equal(t, 100, got.Bounds().Dx())
	assert.Equal(t, 50, got.Bounds().Dy())
}

func TestDecodeHandleTolerantOfOtherDataURIs(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solidImage(8, 8)))
	handle := "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())

	got, err := DecodeHandle(handle)
	require.NoError(t, err)
	assert.Equal(t, 8, got.Bounds().Dx())
}

func TestDecodeHandleRejectsGarbage(t *testing.T) {
	_, err := DecodeHandle("plain text")
	assert.Error(t, err)

	_, err = DecodeHandle("data:image/jpeg;base64,!!!not base64!!!")
	assert.Error(t, err)
}

func TestDownscaleShrinksPreservingAspect(t *testing.T) {
	got := Downscale(solidImage(2400, 1200), 1200, 900)
	assert.Equal(t, 1200, got.Bounds().Dx())
	assert.Equal(t, 600, got.Bounds().Dy())
}

func TestDownscaleNeverUpscales(t *testing.T) {
	src := solidImage(100, 50)
	got := Downscale(src, 1200, 900)
	assert.Equal(t, src, got, "images inside the bound pass through unchanged")
}

func TestDecodeRejectsNonImage(t *testing.T) {
	_, err := Decode([]byte("definitely not pixels"))
	assert.Error(t, err)
}
