// Package pyramid implements Laplacian-pyramid image blending: Gaussian
// pyramids for two source rasters and a blend mask, band-pass (Laplacian)
// decomposition, per-band mask-weighted blending, and reconstruction of
// the blended bands into a single output raster.
package pyramid

import (
	"github.com/pspoerri/pyrblend/internal/raster"
	"github.com/pspoerri/pyrblend/internal/resample"
)

// Pyramid is an ordered sequence of rasters, index 0 the finest (full
// resolution), the last entry the coarsest. A pyramid built for a
// requested depth `levels` has exactly levels+1 entries.
type Pyramid []*raster.Raster

// Levels returns the requested depth this pyramid was built for
// (one less than the number of entries).
func (p Pyramid) Levels() int {
	return len(p) - 1
}

// BuildGaussian constructs the Gaussian pyramid of r: level 0 is r itself,
// each following level the blurred-and-halved copy of the previous one.
//
// A depth larger than the raster supports is accepted: once a dimension
// reaches 1 the remaining levels degenerate to 1 in that axis rather than
// failing. Callers that need strict depth must validate the image size
// against the requested depth themselves.
func BuildGaussian(r *raster.Raster, levels int) Pyramid {
	p := make(Pyramid, levels+1)
	p[0] = r
	for i := 0; i < levels; i++ {
		p[i+1] = resample.Reduce(p[i])
	}
	return p
}

// BuildLaplacian derives the band-pass pyramid from a Gaussian pyramid.
// For every level below the top, the band is the signed, unclamped
// difference between the Gaussian level and the expanded next-coarser
// level. The top band is the coarsest Gaussian level carried through
// unchanged; the residual low-frequency base, not further decomposed.
func BuildLaplacian(gp Pyramid) Pyramid {
	levels := gp.Levels()
	lp := make(Pyramid, levels+1)
	for i := 0; i < levels; i++ {
		expanded := resample.Expand(gp[i+1], gp[i].W, gp[i].H)
		lp[i] = raster.Sub(gp[i], expanded)
		expanded.Release()
	}
	lp[levels] = gp[levels]
	return lp
}

// Reconstruct collapses a (blended) Laplacian pyramid back into a single
// raster by cumulative expand-and-add from the coarsest band down to the
// finest. For a pyramid that was decomposed and never blended this is the
// algebraic inverse of BuildLaplacian: the expansion of each partial sum
// reproduces the term subtracted during decomposition, so the original
// raster comes back up to float roundoff.
func Reconstruct(lp Pyramid) *raster.Raster {
	levels := lp.Levels()
	if levels == 0 {
		// Depth 0: no bands to add, the base is the image.
		return raster.Clone(lp[0])
	}
	current := lp[levels]
	for i := levels - 1; i >= 0; i-- {
		expanded := resample.Expand(current, lp[i].W, lp[i].H)
		if current != lp[levels] {
			current.Release()
		}
		current = raster.Add(lp[i], expanded)
		expanded.Release()
	}
	return current
}
