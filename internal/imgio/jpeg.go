package imgio

import (
	"bytes"
	"image"
	"image/jpeg"
)

// JPEGEncoder encodes images as JPEG with the given quality (1-100).
type JPEGEncoder struct {
	Quality int
}

func (e *JPEGEncoder) Encode(img image.Image) ([]byte, error) {
	q := e.Quality
	if q <= 0 {
		q = 85
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: q}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *JPEGEncoder) Format() string        { return "jpeg" }
func (e *JPEGEncoder) FileExtension() string { return ".jpg" }
