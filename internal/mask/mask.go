// Package mask constructs blend-mask rasters: per-pixel weight maps in
// [0, 255] that select the blend ratio between the two source images.
// Mask construction is a collaborator of the blending core; the core
// consumes any raster with 8-bit-range samples and does not care where it
// came from.
package mask

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/pspoerri/pyrblend/internal/raster"
)

// Shape identifies a generated mask gradient.
type Shape int

const (
	// ShapeHGradient ramps 0 -> 255 left to right.
	ShapeHGradient Shape = iota
	// ShapeVGradient ramps 0 -> 255 top to bottom.
	ShapeVGradient
	// ShapeRadial is 255 at the center falling to 0 at the nearest edge.
	ShapeRadial
	// ShapeHSplit is a hard step: 0 on the left half, 255 on the right.
	ShapeHSplit
	// ShapeVSplit is a hard step: 0 on the top half, 255 on the bottom.
	ShapeVSplit
)

func (s Shape) String() string {
	switch s {
	case ShapeHGradient:
		return "hgrad"
	case ShapeVGradient:
		return "vgrad"
	case ShapeRadial:
		return "radial"
	case ShapeHSplit:
		return "hsplit"
	case ShapeVSplit:
		return "vsplit"
	default:
		return "unknown"
	}
}

// ParseShape resolves a shape name from the command line.
func ParseShape(s string) (Shape, error) {
	switch s {
	case "hgrad", "horizontal":
		return ShapeHGradient, nil
	case "vgrad", "vertical":
		return ShapeVGradient, nil
	case "radial":
		return ShapeRadial, nil
	case "hsplit":
		return ShapeHSplit, nil
	case "vsplit":
		return ShapeVSplit, nil
	default:
		return 0, fmt.Errorf("unknown mask shape: %q (supported: hgrad, vgrad, radial, hsplit, vsplit)", s)
	}
}

// Generate builds a wxh mask raster for the given shape. All samples lie
// in [0, 255] and the three channels are identical.
func Generate(shape Shape, w, h int) *raster.Raster {
	out := raster.New(w, h)
	set := func(i int, v float64) {
		out.R[i] = v
		out.G[i] = v
		out.B[i] = v
	}

	switch shape {
	case ShapeHGradient:
		for y := 0; y < h; y++ {
			row := y * w
			for x := 0; x < w; x++ {
				set(row+x, ramp(x, w))
			}
		}
	case ShapeVGradient:
		for y := 0; y < h; y++ {
			v := ramp(y, h)
			row := y * w
			for x := 0; x < w; x++ {
				set(row+x, v)
			}
		}
	case ShapeRadial:
		cx := float64(w-1) / 2
		cy := float64(h-1) / 2
		// Full weight at the center, zero where the nearest edge is.
		reach := math.Min(cx, cy)
		if reach <= 0 {
			reach = 1
		}
		for y := 0; y < h; y++ {
			row := y * w
			for x := 0; x < w; x++ {
				d := math.Hypot(float64(x)-cx, float64(y)-cy)
				v := 255 * (1 - d/reach)
				if v < 0 {
					v = 0
				}
				set(row+x, v)
			}
		}
	case ShapeHSplit:
		for y := 0; y < h; y++ {
			row := y * w
			for x := 0; x < w; x++ {
				if x >= w/2 {
					set(row+x, 255)
				}
			}
		}
	case ShapeVSplit:
		for y := h / 2; y < h; y++ {
			row := y * w
			for x := 0; x < w; x++ {
				set(row+x, 255)
			}
		}
	}
	return out
}

// ramp maps index i in [0, n) to [0, 255] linearly.
func ramp(i, n int) float64 {
	if n <= 1 {
		return 255
	}
	return 255 * float64(i) / float64(n-1)
}

// Solid returns a wxh raster uniformly filled with the given hex color
// (e.g. "#ff0000"). Used for uniform masks and for synthesizing solid
// test inputs on the command line.
func Solid(hex string, w, h int) (*raster.Raster, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return nil, fmt.Errorf("invalid hex color: %w", err)
	}
	return raster.NewUniform(w, h, c.R*255, c.G*255, c.B*255), nil
}
