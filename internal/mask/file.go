package mask

import (
	"fmt"

	"github.com/anthonynsimon/bild/blur"

	"github.com/pspoerri/pyrblend/internal/imgio"
	"github.com/pspoerri/pyrblend/internal/raster"
)

// FromFile loads an externally supplied mask image, resizes it to exactly
// (w, h), the working resolution of the two source images, and converts
// it to a mask raster. feather > 0 applies a Gaussian blur of that radius
// before conversion, softening hard-edged masks; 0 keeps the mask as
// supplied (the pyramid itself widens the transition per band either
// way).
func FromFile(path string, w, h int, feather float64) (*raster.Raster, error) {
	img, err := imgio.DecodeFile(path)
	if err != nil {
		return nil, fmt.Errorf("mask: %w", err)
	}
	if b := img.Bounds(); b.Dx() != w || b.Dy() != h {
		img = imgio.ScaleTo(img, w, h)
	}
	if feather > 0 {
		img = blur.Gaussian(img, feather)
	}
	return raster.FromImage(img), nil
}
