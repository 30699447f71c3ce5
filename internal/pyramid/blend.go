package pyramid

import (
	"errors"
	"fmt"

	"github.com/pspoerri/pyrblend/internal/raster"
)

// Blend precondition violations. Both are detected before any raster is
// allocated, so a failed call does no pixel work.
var (
	// ErrDimensionMismatch means the two images and the mask do not share
	// identical dimensions. Resizing inputs to a common size is the
	// loading collaborator's job, not the core's.
	ErrDimensionMismatch = errors.New("input dimensions differ")

	// ErrInvalidLevels means a negative pyramid depth was requested.
	ErrInvalidLevels = errors.New("levels must be >= 0")

	// ErrSuperseded means a newer request replaced this computation
	// before it finished (see Runner).
	ErrSuperseded = errors.New("blend superseded by a newer request")
)

// Result holds the output of a blend.
type Result struct {
	// Result is the reconstructed composite, same dimensions as the
	// inputs. Samples may still lie slightly outside [0, 255]; clamping
	// happens in ToImage.
	Result *raster.Raster

	// Bands is the blended Laplacian pyramid, levels+1 entries ordered
	// finest to coarsest. Each is a signed detail raster suitable for
	// inspection via ToBandImage.
	Bands []*raster.Raster
}

// Blend combines imageA and imageB along mask using a Laplacian pyramid of
// the requested depth. Where the mask is 255 the output follows imageA,
// where 0 it follows imageB; the per-level Gaussian-smoothed mask gives
// low-frequency bands a wide transition and high-frequency bands a narrow
// one, which is what makes the seam invisible compared to flat alpha
// compositing.
func Blend(imageA, imageB, mask *raster.Raster, levels int) (*Result, error) {
	return blend(imageA, imageB, mask, levels, nil)
}

// blend is the level-checked implementation behind Blend and Runner. If
// keepGoing is non-nil it is consulted at level boundaries only (never
// mid-pixel-loop, so each level's output stays atomic); a false return
// abandons the computation with ErrSuperseded.
func blend(imageA, imageB, mask *raster.Raster, levels int, keepGoing func() bool) (*Result, error) {
	if levels < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidLevels, levels)
	}
	if !imageA.SameSize(imageB) || !imageA.SameSize(mask) {
		return nil, fmt.Errorf("%w: a=%v b=%v mask=%v", ErrDimensionMismatch, imageA, imageB, mask)
	}

	gpA := BuildGaussian(imageA, levels)
	gpB := BuildGaussian(imageB, levels)
	gpM := BuildGaussian(mask, levels)
	lpA := BuildLaplacian(gpA)
	lpB := BuildLaplacian(gpB)

	// Return intermediate levels to the channel pool. Level 0 of each
	// Gaussian pyramid is the caller's input and the top Laplacian band
	// aliases the top Gaussian level, so those are skipped or released
	// exactly once. Runs on both the success and the superseded path.
	releaseIntermediates := func() {
		for i := 1; i <= levels; i++ {
			gpA[i].Release()
			gpB[i].Release()
			gpM[i].Release()
		}
		for i := 0; i < levels; i++ {
			lpA[i].Release()
			lpB[i].Release()
		}
	}

	blended := make(Pyramid, levels+1)
	for i := 0; i <= levels; i++ {
		if keepGoing != nil && !keepGoing() {
			releaseIntermediates()
			for j := 0; j < i; j++ {
				blended[j].Release()
			}
			return nil, ErrSuperseded
		}
		blended[i] = blendLevel(lpA[i], lpB[i], gpM[i])
	}

	out := Reconstruct(blended)
	releaseIntermediates()

	return &Result{Result: out, Bands: blended}, nil
}

// blendLevel combines one band of the two Laplacian pyramids, weighted per
// pixel and per channel by the corresponding Gaussian mask level:
//
//	alpha = mask/255 (clamped to [0,1])
//	out   = la*alpha + lb*(1-alpha)
//
// All three rasters share dimensions by construction; the mask pyramid is
// built with the same depth and the same Reduce operator as the image
// pyramids. Alpha is clamped so an out-of-range mask sample interpolates
// instead of extrapolating the two bands.
func blendLevel(la, lb, gm *raster.Raster) *raster.Raster {
	out := raster.New(la.W, la.H)
	for c := 0; c < 3; c++ {
		a := la.Channel(c)
		b := lb.Channel(c)
		m := gm.Channel(c)
		dst := out.Channel(c)
		for i := range dst {
			alpha := m[i] / 255
			if alpha < 0 {
				alpha = 0
			} else if alpha > 1 {
				alpha = 1
			}
			dst[i] = a[i]*alpha + b[i]*(1-alpha)
		}
	}
	return out
}
