package raster

import (
	"fmt"
	"image"
	"image/color"

	"gonum.org/v1/gonum/floats"
)

// Raster is an in-memory per-channel floating-point image. Each channel is
// a row-major WxH sample array. Samples are unconstrained: intermediate
// pyramid math produces values outside [0, 255] (band-pass detail is
// signed), and clamping happens only when converting back to a displayable
// 8-bit image. This is the key difference to image.RGBA; a clamped 8-bit
// container would destroy negative detail.
type Raster struct {
	W, H    int
	R, G, B []float64
}

// New returns a zero-filled raster of the given dimensions.
// Channel buffers come from a shared pool (see pool.go).
func New(w, h int) *Raster {
	n := w * h
	return &Raster{
		W: w, H: h,
		R: getChannel(n),
		G: getChannel(n),
		B: getChannel(n),
	}
}

// NewUniform returns a raster with every pixel set to (r, g, b).
func NewUniform(w, h int, r, g, b float64) *Raster {
	out := New(w, h)
	for i := range out.R {
		out.R[i] = r
		out.G[i] = g
		out.B[i] = b
	}
	return out
}

// Release returns the raster's channel buffers to the pool. The raster
// must not be used afterwards. Releasing is optional; it only matters for
// the short-lived intermediates inside pyramid construction.
func (r *Raster) Release() {
	if r == nil {
		return
	}
	putChannel(r.R)
	putChannel(r.G)
	putChannel(r.B)
	r.R, r.G, r.B = nil, nil, nil
}

// Channel returns the sample array for channel index c (0=R, 1=G, 2=B).
func (r *Raster) Channel(c int) []float64 {
	switch c {
	case 0:
		return r.R
	case 1:
		return r.G
	default:
		return r.B
	}
}

// SameSize reports whether r and o have identical dimensions.
func (r *Raster) SameSize(o *Raster) bool {
	return r.W == o.W && r.H == o.H
}

func (r *Raster) String() string {
	return fmt.Sprintf("%dx%d", r.W, r.H)
}

// FromImage extracts the 8-bit samples of img into a float64 raster.
// Alpha is dropped; the blending pipeline is opaque-RGB only.
func FromImage(img image.Image) *Raster {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := New(w, h)

	// Fast path for the common decoder output types: read the Pix slice
	// directly instead of going through the color.Color interface.
	switch src := img.(type) {
	case *image.RGBA:
		fromPix(out, src.Pix, src.Stride, bounds)
	case *image.NRGBA:
		fromPix(out, src.Pix, src.Stride, bounds)
	default:
		i := 0
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				r16, g16, b16, _ := img.At(x, y).RGBA()
				out.R[i] = float64(r16 >> 8)
				out.G[i] = float64(g16 >> 8)
				out.B[i] = float64(b16 >> 8)
				i++
			}
		}
	}
	return out
}

func fromPix(out *Raster, pix []uint8, stride int, bounds image.Rectangle) {
	i := 0
	for y := 0; y < out.H; y++ {
		off := (bounds.Min.Y+y)*stride + bounds.Min.X*4
		for x := 0; x < out.W; x++ {
			out.R[i] = float64(pix[off])
			out.G[i] = float64(pix[off+1])
			out.B[i] = float64(pix[off+2])
			off += 4
			i++
		}
	}
}

// ToImage converts the raster to a displayable image, clamping each sample
// to [0, 255] and rounding. The result is fully opaque.
func (r *Raster) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.W, r.H))
	i := 0
	for y := 0; y < r.H; y++ {
		off := y * img.Stride
		for x := 0; x < r.W; x++ {
			img.Pix[off] = clampByte(r.R[i])
			img.Pix[off+1] = clampByte(r.G[i])
			img.Pix[off+2] = clampByte(r.B[i])
			img.Pix[off+3] = 255
			off += 4
			i++
		}
	}
	return img
}

// ToBandImage maps a signed detail raster into a displayable image by
// adding a 128 offset before clamping: zero detail renders as neutral
// gray, positive detail lighter, negative darker. Inspection output only -
// never feed the result back into the arithmetic pipeline.
func (r *Raster) ToBandImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.W, r.H))
	i := 0
	for y := 0; y < r.H; y++ {
		off := y * img.Stride
		for x := 0; x < r.W; x++ {
			img.Pix[off] = clampByte(r.R[i] + 128)
			img.Pix[off+1] = clampByte(r.G[i] + 128)
			img.Pix[off+2] = clampByte(r.B[i] + 128)
			img.Pix[off+3] = 255
			off += 4
			i++
		}
	}
	return img
}

// At returns the clamped displayable color at (x, y). Test helper grade;
// the pyramid code reads channel slices directly.
func (r *Raster) At(x, y int) color.RGBA {
	i := y*r.W + x
	return color.RGBA{
		R: clampByte(r.R[i]),
		G: clampByte(r.G[i]),
		B: clampByte(r.B[i]),
		A: 255,
	}
}

// Clone returns an independent copy of r.
func Clone(r *Raster) *Raster {
	out := New(r.W, r.H)
	copy(out.R, r.R)
	copy(out.G, r.G)
	copy(out.B, r.B)
	return out
}

// Sub returns a-b per channel, per pixel. No clamping: the result is the
// signed band-pass detail of the Laplacian decomposition.
func Sub(a, b *Raster) *Raster {
	out := New(a.W, a.H)
	floats.SubTo(out.R, a.R, b.R)
	floats.SubTo(out.G, a.G, b.G)
	floats.SubTo(out.B, a.B, b.B)
	return out
}

// Add returns a+b per channel, per pixel.
func Add(a, b *Raster) *Raster {
	out := New(a.W, a.H)
	floats.AddTo(out.R, a.R, b.R)
	floats.AddTo(out.G, a.G, b.G)
	floats.AddTo(out.B, a.B, b.B)
	return out
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
