package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pspoerri/pyrblend/internal/imgio"
	"github.com/pspoerri/pyrblend/internal/mask"
	"github.com/pspoerri/pyrblend/internal/pyramid"
	"github.com/pspoerri/pyrblend/internal/raster"
)

// Set via -ldflags at build time.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	var (
		levels      int
		maskSpec    string
		feather     float64
		maxDim      int
		format      string
		quality     int
		size        string
		dumpBands   string
		verbose     bool
		showVersion bool
	)

	flag.IntVar(&levels, "levels", 4, "Pyramid depth (>= 0); deeper pyramids widen the blend transition")
	flag.StringVar(&maskSpec, "mask", "hgrad", "Blend mask: hgrad, vgrad, radial, hsplit, vsplit, solid:<hex>, or file:<path>")
	flag.Float64Var(&feather, "feather", 0, "Gaussian feather radius applied to file masks (0 = none)")
	flag.IntVar(&maxDim, "max-dim", 2048, "Bound the longer input side to this many pixels (0 = unbounded)")
	flag.StringVar(&format, "format", "", "Output encoding: png, jpeg, webp (default: from output extension)")
	flag.IntVar(&quality, "quality", 85, "JPEG/WebP quality 1-100")
	flag.StringVar(&size, "size", "512x512", "Dimensions for solid:<hex> synthetic inputs")
	flag.StringVar(&dumpBands, "dump-bands", "", "Directory to write visualized blended Laplacian bands to")
	flag.BoolVar(&verbose, "verbose", false, "Verbose progress output")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: pyrblend [flags] <imageA> <imageB> <output>\n\n")
		fmt.Fprintf(os.Stderr, "Blend two images along a mask with a Laplacian pyramid.\n")
		fmt.Fprintf(os.Stderr, "Where the mask is white the output follows imageA, where black imageB.\n")
		fmt.Fprintf(os.Stderr, "Inputs may be files (png/jpeg/webp) or solid:<hex> synthetic fills.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("pyrblend %s (commit %s, built %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) != 3 {
		flag.Usage()
		os.Exit(1)
	}
	pathA, pathB, outputPath := args[0], args[1], args[2]

	if format == "" {
		format = formatFromExtension(outputPath)
	}
	enc, err := imgio.NewEncoder(format, quality)
	if err != nil {
		log.Fatalf("Encoder: %v", err)
	}

	solidW, solidH, err := parseSize(size)
	if err != nil {
		log.Fatalf("Size: %v", err)
	}

	// Load both inputs. The first real image fixes the working
	// resolution; the second is resized to match, and solid fills adopt
	// it directly. Equal input dimensions are the core's precondition,
	// so the resize belongs here, not inside Blend.
	start := time.Now()
	imageA, imageB, err := loadInputs(pathA, pathB, maxDim, solidW, solidH)
	if err != nil {
		log.Fatalf("Loading inputs: %v", err)
	}
	if verbose {
		log.Printf("Loaded inputs (%s working resolution) in %v",
			imageA, time.Since(start).Round(time.Millisecond))
	}

	maskRaster, err := buildMask(maskSpec, imageA.W, imageA.H, feather)
	if err != nil {
		log.Fatalf("Mask: %v", err)
	}

	// Settings summary.
	fmt.Printf("pyrblend %s (commit %s, built %s)\n", version, commit, buildDate)
	fmt.Printf("  %-12s %s + %s\n", "Inputs:", pathA, pathB)
	fmt.Printf("  %-12s %s\n", "Resolution:", imageA)
	fmt.Printf("  %-12s %d\n", "Levels:", levels)
	fmt.Printf("  %-12s %s\n", "Mask:", maskSpec)
	switch format {
	case "jpeg", "webp":
		fmt.Printf("  %-12s %s (quality: %d)\n", "Format:", format, quality)
	default:
		fmt.Printf("  %-12s %s\n", "Format:", format)
	}
	fmt.Printf("  %-12s %s\n", "Output:", outputPath)

	blendStart := time.Now()
	res, err := pyramid.Blend(imageA, imageB, maskRaster, levels)
	if err != nil {
		log.Fatalf("Blend: %v", err)
	}
	if verbose {
		log.Printf("Blended %d+1 bands in %v", levels, time.Since(blendStart).Round(time.Millisecond))
	}

	if err := imgio.Save(outputPath, res.Result, enc); err != nil {
		log.Fatalf("Saving result: %v", err)
	}

	if dumpBands != "" {
		if err := writeBands(dumpBands, res.Bands); err != nil {
			log.Fatalf("Dumping bands: %v", err)
		}
		if verbose {
			log.Printf("Wrote %d band images to %s", len(res.Bands), dumpBands)
		}
	}

	fmt.Printf("Done: %s, %v -> %s\n", imageA, time.Since(start).Round(time.Millisecond), outputPath)
}

// loadInputs resolves the two input specs to equal-sized rasters.
func loadInputs(pathA, pathB string, maxDim, solidW, solidH int) (*raster.Raster, *raster.Raster, error) {
	imgA, solidA, err := decodeInput(pathA, maxDim)
	if err != nil {
		return nil, nil, err
	}
	imgB, solidB, err := decodeInput(pathB, maxDim)
	if err != nil {
		return nil, nil, err
	}

	// Working resolution: first real image wins; two solids use -size.
	var w, h int
	switch {
	case imgA != nil:
		w, h = imgA.Bounds().Dx(), imgA.Bounds().Dy()
	case imgB != nil:
		w, h = imgB.Bounds().Dx(), imgB.Bounds().Dy()
	default:
		w, h = solidW, solidH
	}

	a, err := toWorkingRaster(imgA, solidA, w, h)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", pathA, err)
	}
	b, err := toWorkingRaster(imgB, solidB, w, h)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", pathB, err)
	}
	return a, b, nil
}

// decodeInput returns either a decoded (bounded) image or a solid hex spec.
func decodeInput(spec string, maxDim int) (image.Image, string, error) {
	if hex, ok := strings.CutPrefix(spec, "solid:"); ok {
		return nil, hex, nil
	}
	img, err := imgio.DecodeFile(spec)
	if err != nil {
		return nil, "", err
	}
	return imgio.BoundImage(img, maxDim), "", nil
}

func toWorkingRaster(img image.Image, solidHex string, w, h int) (*raster.Raster, error) {
	if img == nil {
		return mask.Solid("#"+strings.TrimPrefix(solidHex, "#"), w, h)
	}
	if b := img.Bounds(); b.Dx() != w || b.Dy() != h {
		img = imgio.ScaleTo(img, w, h)
	}
	return raster.FromImage(img), nil
}

func buildMask(spec string, w, h int, feather float64) (*raster.Raster, error) {
	if path, ok := strings.CutPrefix(spec, "file:"); ok {
		return mask.FromFile(path, w, h, feather)
	}
	if hex, ok := strings.CutPrefix(spec, "solid:"); ok {
		return mask.Solid("#"+strings.TrimPrefix(hex, "#"), w, h)
	}
	shape, err := mask.ParseShape(spec)
	if err != nil {
		return nil, err
	}
	return mask.Generate(shape, w, h), nil
}

func writeBands(dir string, bands []*raster.Raster) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	enc := &imgio.PNGEncoder{}
	for i, band := range bands {
		name := filepath.Join(dir, fmt.Sprintf("band_%02d.png", i))
		var img image.Image
		if i == len(bands)-1 {
			// Top band is the Gaussian base, not signed detail.
			img = band.ToImage()
		} else {
			img = band.ToBandImage()
		}
		if err := imgio.SaveImage(name, img, enc); err != nil {
			return err
		}
	}
	return nil
}

func formatFromExtension(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".webp":
		return "webp"
	default:
		return "png"
	}
}

func parseSize(s string) (int, int, error) {
	var w, h int
	if _, err := fmt.Sscanf(s, "%dx%d", &w, &h); err != nil {
		return 0, 0, fmt.Errorf("invalid size %q (want WxH)", s)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("invalid size %q (dimensions must be positive)", s)
	}
	return w, h, nil
}
