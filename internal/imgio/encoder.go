// Package imgio is the image-loading and persistence collaborator around
// the blending core: it decodes external images into rasters at a bounded
// maximum dimension and encodes rasters back to files. The core itself
// performs no I/O.
package imgio

import (
	"fmt"
	"image"
	"os"

	"github.com/pspoerri/pyrblend/internal/raster"
)

// Encoder encodes an image into file bytes.
type Encoder interface {
	// Encode encodes an image to bytes in the output format.
	Encode(img image.Image) ([]byte, error)

	// Format returns the format name (e.g. "jpeg", "png", "webp").
	Format() string

	// FileExtension returns the appropriate file extension.
	FileExtension() string
}

// NewEncoder creates an encoder for the given format and quality.
// Quality applies to jpeg and webp; png ignores it.
func NewEncoder(format string, quality int) (Encoder, error) {
	switch format {
	case "jpeg", "jpg":
		return &JPEGEncoder{Quality: quality}, nil
	case "png":
		return &PNGEncoder{}, nil
	case "webp":
		return newWebPEncoder(quality)
	default:
		return nil, fmt.Errorf("unsupported output format: %q (supported: jpeg, png, webp)", format)
	}
}

// Save encodes r (clamped to displayable range) and writes it to path.
func Save(path string, r *raster.Raster, enc Encoder) error {
	data, err := enc.Encode(r.ToImage())
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// SaveImage encodes an already-converted image and writes it to path.
// Used for band visualizations, which need the offset conversion rather
// than the plain clamp.
func SaveImage(path string, img image.Image, enc Encoder) error {
	data, err := enc.Encode(img)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
