package encoder

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"

	"golang.org/x/image/draw"
)

// JPEGEncoder encodes frames as JPEG, downscaling anything wider than
// maxWidth first.
type JPEGEncoder struct {
	quality  int
	maxWidth int
}

// NewJPEGEncoder creates a JPEG encoder with the given quality (1-100).
// maxWidth <= 0 disables downscaling.
func NewJPEGEncoder(quality, maxWidth int) *JPEGEncoder {
	e := &JPEGEncoder{maxWidth: maxWidth}
	e.SetQuality(quality)
	return e
}

// SetQuality clamps quality to 1-100.
func (e *JPEGEncoder) SetQuality(quality int) {
	if quality < 1 {
		quality = 1
	}
	if quality > 100 {
		quality = 100
	}
	e.quality = quality
}

func (e *JPEGEncoder) Encode(img image.Image) ([]byte, error) {
	if img == nil {
		return nil, errors.New("encode: nil image")
	}
	var buf bytes.Buffer
	buf.Grow(64 * 1024)
	if err := jpeg.Encode(&buf, e.fit(img), &jpeg.Options{Quality: e.quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// fit scales img down to maxWidth, keeping the aspect ratio.
func (e *JPEGEncoder) fit(img image.Image) image.Image {
	b := img.Bounds()
	if e.maxWidth <= 0 || b.Dx() <= e.maxWidth {
		return img
	}
	h := b.Dy() * e.maxWidth / b.Dx()
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, e.maxWidth, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
