// Package resample implements the two operators that move a raster one
// pyramid level down or up: Reduce (smooth + halve) and Expand
// (interpolate up + smooth).
//
// Both operators share one fixed smoothing kernel, the classical 5-tap
// Burt-Adelson generating kernel with a=0.4:
//
//	w = [0.25-a/2, 0.25, a, 0.25, 0.25-a/2] = [0.05, 0.25, 0.4, 0.25, 0.05]
//
// applied separably (one horizontal pass, one vertical pass) with mirrored
// borders. Both operators are pure and deterministic: the same input
// produces bit-identical output regardless of worker count, because every
// output sample is written exactly once from the same arithmetic.
package resample

import "github.com/pspoerri/pyrblend/internal/raster"

// smoothKernel is the 1D generating kernel. The weights sum to 1, so
// smoothing preserves flat regions.
var smoothKernel = [5]float64{0.05, 0.25, 0.4, 0.25, 0.05}

// Reduce smooths r and resamples it to half resolution. Each output
// dimension is floor(d/2), except that once a dimension reaches 1 it
// stays 1 for all coarser levels.
func Reduce(r *raster.Raster) *raster.Raster {
	smoothed := Smooth(r)
	defer smoothed.Release()

	dw := halfDim(r.W)
	dh := halfDim(r.H)
	out := raster.New(dw, dh)

	for c := 0; c < 3; c++ {
		src := smoothed.Channel(c)
		dst := out.Channel(c)
		parallelRows(dh, func(y0, y1 int) {
			for y := y0; y < y1; y++ {
				// With the dimension-1 clamp, 2*y (or 2*x) can only
				// exceed the source extent when that extent is 1, in
				// which case min() pins it back to the lone sample.
				sy := min(2*y, r.H-1)
				srcRow := sy * r.W
				dstRow := y * dw
				for x := 0; x < dw; x++ {
					sx := min(2*x, r.W-1)
					dst[dstRow+x] = src[srcRow+sx]
				}
			}
		})
	}
	return out
}

// Expand resamples r up to exactly (targetW, targetH) with bilinear
// interpolation, then applies the same fixed smoothing pass to suppress
// the blocking artifacts upsampling introduces. The caller supplies the
// exact target dimensions (taken from the corresponding finer pyramid
// level) because levels are not exact powers of two of each other once
// the dimension-1 clamp has triggered.
func Expand(r *raster.Raster, targetW, targetH int) *raster.Raster {
	up := raster.New(targetW, targetH)

	// Map each destination pixel center to source coordinates. The
	// half-pixel offset keeps the mapping centered, matching how the
	// reduce step samples even source positions.
	scaleX := float64(r.W) / float64(targetW)
	scaleY := float64(r.H) / float64(targetH)

	for c := 0; c < 3; c++ {
		src := r.Channel(c)
		dst := up.Channel(c)
		parallelRows(targetH, func(y0, y1 int) {
			for y := y0; y < y1; y++ {
				fy := (float64(y)+0.5)*scaleY - 0.5
				sy0, sy1, wy := bilinearAxis(fy, r.H)
				row0 := sy0 * r.W
				row1 := sy1 * r.W
				dstRow := y * targetW
				for x := 0; x < targetW; x++ {
					fx := (float64(x)+0.5)*scaleX - 0.5
					sx0, sx1, wx := bilinearAxis(fx, r.W)
					top := src[row0+sx0]*(1-wx) + src[row0+sx1]*wx
					bot := src[row1+sx0]*(1-wx) + src[row1+sx1]*wx
					dst[dstRow+x] = top*(1-wy) + bot*wy
				}
			}
		})
	}

	out := Smooth(up)
	up.Release()
	return out
}

// Smooth applies the separable 5-tap kernel with mirrored borders and
// returns a new raster. Exposed for tests; Reduce and Expand are the real
// callers.
func Smooth(r *raster.Raster) *raster.Raster {
	tmp := raster.New(r.W, r.H)
	out := raster.New(r.W, r.H)
	for c := 0; c < 3; c++ {
		convolveRows(tmp.Channel(c), r.Channel(c), r.W, r.H)
		convolveCols(out.Channel(c), tmp.Channel(c), r.W, r.H)
	}
	tmp.Release()
	return out
}

func convolveRows(dst, src []float64, w, h int) {
	parallelRows(h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			row := y * w
			for x := 0; x < w; x++ {
				var sum float64
				for k := -2; k <= 2; k++ {
					sum += smoothKernel[k+2] * src[row+mirror(x+k, w)]
				}
				dst[row+x] = sum
			}
		}
	})
}

func convolveCols(dst, src []float64, w, h int) {
	parallelRows(h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			row := y * w
			for x := 0; x < w; x++ {
				var sum float64
				for k := -2; k <= 2; k++ {
					sum += smoothKernel[k+2] * src[mirror(y+k, h)*w+x]
				}
				dst[row+x] = sum
			}
		}
	})
}

// mirror reflects an out-of-range index back into [0, n). For n == 1 every
// index maps to 0, so degenerate levels stay well-defined.
func mirror(i, n int) int {
	if i < 0 {
		i = -i
	}
	if i >= n {
		i = 2*n - i - 2
		if i < 0 { // n == 1
			i = 0
		}
	}
	return i
}

// bilinearAxis resolves a fractional source coordinate into the two
// neighboring sample indices and the weight of the upper one, clamping at
// the borders.
func bilinearAxis(f float64, n int) (i0, i1 int, w float64) {
	if f <= 0 {
		return 0, 0, 0
	}
	if f >= float64(n-1) {
		return n - 1, n - 1, 0
	}
	i0 = int(f)
	return i0, i0 + 1, f - float64(i0)
}

// halfDim floors d/2 with the degenerate clamp: a dimension of 1 stays 1
// (and an empty dimension stays empty) rather than flooring to 0.
func halfDim(d int) int {
	if d <= 1 {
		return d
	}
	return d / 2
}
