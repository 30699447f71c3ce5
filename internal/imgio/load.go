package imgio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	xdraw "golang.org/x/image/draw"

	"github.com/pspoerri/pyrblend/internal/raster"
)

// ErrSourceLoad wraps any failure to read or decode a source image. It is
// distinct from the core's precondition errors: loading failures happen
// before the blending core is ever invoked.
var ErrSourceLoad = errors.New("loading source image")

// Load decodes the image at path into a raster. If the longer side exceeds
// maxDim the image is first downscaled (aspect-preserving) with a
// Catmull-Rom filter; the bound keeps pyramid memory and blend latency
// predictable for arbitrarily large inputs. maxDim <= 0 disables the
// bound.
//
// The downscale happens in 8-bit image space, before float conversion -
// it is part of the loading collaborator, not of the unclamped pipeline.
func Load(path string, maxDim int) (*raster.Raster, error) {
	img, err := DecodeFile(path)
	if err != nil {
		return nil, err
	}
	return raster.FromImage(BoundImage(img, maxDim)), nil
}

// DecodeFile decodes a png, jpeg, or webp file, dispatching on the file
// extension with a sniffing fallback for everything else.
func DecodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceLoad, err)
	}
	defer f.Close()

	var img image.Image
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		img, err = png.Decode(f)
	case ".jpg", ".jpeg":
		img, err = jpeg.Decode(f)
	case ".webp":
		img, err = decodeWebP(f)
	default:
		img, _, err = image.Decode(f)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSourceLoad, path, err)
	}
	return img, nil
}

// DecodeBytes decodes image bytes in the specified format back to an
// image.Image. Supported formats: "png", "jpeg"/"jpg", "webp".
func DecodeBytes(data []byte, format string) (image.Image, error) {
	r := bytes.NewReader(data)
	switch format {
	case "png":
		return png.Decode(r)
	case "jpeg", "jpg":
		return jpeg.Decode(r)
	case "webp":
		return decodeWebP(r)
	default:
		return nil, fmt.Errorf("unsupported decode format: %q", format)
	}
}

// BoundImage downscales img so its longer side is at most maxDim,
// preserving aspect ratio. Images already within the bound (or a
// non-positive bound) are returned unchanged.
func BoundImage(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	longer := max(w, h)
	if maxDim <= 0 || longer <= maxDim {
		return img
	}

	var nw, nh int
	if w >= h {
		nw = maxDim
		nh = max(1, h*maxDim/w)
	} else {
		nh = maxDim
		nw = max(1, w*maxDim/h)
	}
	return ScaleTo(img, nw, nh)
}

// ScaleTo resamples img to exactly (w, h) with a Catmull-Rom filter, a
// deterministic scaler with good sharpness for photographic content.
func ScaleTo(img image.Image, w, h int) image.Image {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst
}
