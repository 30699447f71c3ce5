package mask

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writeTestMask(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(0)
			if x >= w/2 {
				v = 255
			}
			img.SetRGBA(x, y, color.RGBA{v, v, v, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	path := filepath.Join(t.TempDir(), "mask.png")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestFromFile_ResizesToWorkingDims(t *testing.T) {
	path := writeTestMask(t, 128, 128)

	m, err := FromFile(path, 64, 32, 0)
	if err != nil {
		t.Fatalf("FromFile: %v", err)
	}
	if m.W != 64 || m.H != 32 {
		t.Fatalf("mask size = %dx%d, want 64x32", m.W, m.H)
	}
	// Halves survive the resize.
	if m.R[16*64+4] > 20 {
		t.Errorf("left side = %v, want ~0", m.R[16*64+4])
	}
	if m.R[16*64+60] < 235 {
		t.Errorf("right side = %v, want ~255", m.R[16*64+60])
	}
}

func TestFromFile_FeatherSoftensEdge(t *testing.T) {
	path := writeTestMask(t, 64, 64)

	hard, err := FromFile(path, 64, 64, 0)
	if err != nil {
		t.Fatalf("FromFile: %v", err)
	}
	soft, err := FromFile(path, 64, 64, 4)
	if err != nil {
		t.Fatalf("FromFile feathered: %v", err)
	}

	// The hard mask steps 0 -> 255 across the midline; after feathering
	// the same two columns must sit strictly inside the range.
	row := 32 * 64
	stepHard := hard.R[row+32] - hard.R[row+31]
	stepSoft := soft.R[row+32] - soft.R[row+31]
	if stepHard != 255 {
		t.Fatalf("unfeathered midline step = %v, want 255", stepHard)
	}
	if stepSoft >= stepHard {
		t.Errorf("feathered step (%v) should be smaller than hard step (%v)", stepSoft, stepHard)
	}
}

func TestFromFile_Missing(t *testing.T) {
	if _, err := FromFile(filepath.Join(t.TempDir(), "nope.png"), 8, 8, 0); err == nil {
		t.Error("expected error for missing mask file")
	}
}
