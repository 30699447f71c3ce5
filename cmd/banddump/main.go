// banddump decomposes a single image into its Laplacian pyramid and writes
// every band as a PNG for inspection. Detail bands use the gray-centered
// visualization (zero detail renders as 128); the top band is the coarsest
// Gaussian level and is written as a plain image.
package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/pspoerri/pyrblend/internal/imgio"
	"github.com/pspoerri/pyrblend/internal/pyramid"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	var (
		levels      int
		maxDim      int
		verbose     bool
		showVersion bool
	)

	flag.IntVar(&levels, "levels", 4, "Pyramid depth (>= 0)")
	flag.IntVar(&maxDim, "max-dim", 2048, "Bound the longer input side to this many pixels (0 = unbounded)")
	flag.BoolVar(&verbose, "verbose", false, "Verbose progress output")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: banddump [flags] <image> <output-dir>\n\n")
		fmt.Fprintf(os.Stderr, "Write the Laplacian pyramid bands of an image as PNGs.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("banddump %s (commit %s, built %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) != 2 {
		flag.Usage()
		os.Exit(1)
	}
	inputPath, outDir := args[0], args[1]

	if levels < 0 {
		log.Fatalf("Levels must be >= 0, got %d", levels)
	}

	start := time.Now()
	src, err := imgio.Load(inputPath, maxDim)
	if err != nil {
		log.Fatalf("Loading %s: %v", inputPath, err)
	}
	if verbose {
		log.Printf("Loaded %s (%s) in %v", inputPath, src, time.Since(start).Round(time.Millisecond))
	}

	gp := pyramid.BuildGaussian(src, levels)
	lp := pyramid.BuildLaplacian(gp)

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		log.Fatalf("Creating %s: %v", outDir, err)
	}

	enc := &imgio.PNGEncoder{}
	for i, band := range lp {
		name := filepath.Join(outDir, fmt.Sprintf("band_%02d.png", i))
		var img image.Image
		if i == lp.Levels() {
			// Top band is the Gaussian base, not signed detail.
			img = band.ToImage()
		} else {
			img = band.ToBandImage()
		}
		if err := imgio.SaveImage(name, img, enc); err != nil {
			log.Fatalf("Writing %s: %v", name, err)
		}
		if verbose {
			log.Printf("band %d: %s -> %s", i, band, name)
		}
	}

	fmt.Printf("Done: %d bands, %v -> %s\n", len(lp), time.Since(start).Round(time.Millisecond), outDir)
}
