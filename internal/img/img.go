// Package img is the image collaborator behind the scene model's opaque
// image handle: it decodes picked files, fits them for display, and
// downscales stored pixel data in the background. The scene itself only
// ever sees the handle string.
package img

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"strings"

	_ "image/gif"
	_ "image/png"

	xdraw "golang.org/x/image/draw"
)

const handlePrefix = "data:image/jpeg;base64,"

// Decode parses picked file bytes into an image.
func Decode(data []byte) (image.Image, error) {
	m, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return m, nil
}

// EncodeHandle re-encodes an image as the opaque handle stored on image
// shapes. JPEG keeps serialized scenes reasonably small.
func EncodeHandle(m image.Image) (string, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, m, &jpeg.Options{Quality: 80}); err != nil {
		return "", fmt.Errorf("encode image: %w", err)
	}
	return handlePrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodeHandle turns a stored handle back into pixels for rendering.
func DecodeHandle(handle string) (image.Image, error) {
	b64, ok := strings.CutPrefix(handle, handlePrefix)
	if !ok {
		// Tolerate other data URI flavors from imported scenes.
		_, b64, ok = strings.Cut(handle, ";base64,")
		if !ok {
			return nil, fmt.Errorf("unrecognized image handle")
		}
	}
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("decode image handle: %w", err)
	}
	return Decode(data)
}

// Downscale shrinks an image to fit maxW x maxH, preserving aspect
// ratio. Images already inside the bound are returned unchanged.
func Downscale(m image.Image, maxW, maxH int) image.Image {
	b := m.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxW && h <= maxH {
		return m
	}
	scale := float64(maxW) / float64(w)
	if s := float64(maxH) / float64(h); s < scale {
		scale = s
	}
	tw := int(float64(w) * scale)
	th := int(float64(h) * scale)
	if tw < 1 {
		tw = 1
	}
	if th < 1 {
		th = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, tw, th))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), m, b, xdraw.Over, nil)
	return dst
}
