// Command flipkit converts a PDF into a password-gated flipbook HTML
// file without going through the HTTP server. It can also dump a single
// rendered frame of the page-turn engine to PNG for inspection.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/wudi/flipkit/artifact"
	"github.com/wudi/flipkit/curl"
	"github.com/wudi/flipkit/layout"
	"github.com/wudi/flipkit/observability"
	"github.com/wudi/flipkit/pagestore"
	"github.com/wudi/flipkit/raster"
)

type options struct {
	pdfPath  string
	outPath  string
	password string
	title    string
	dpi      int
	snapshot string
	progress float64
	verbose  bool
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "flipkit: %v\n", err)
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "flipkit: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() (options, error) {
	var opts options
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: flipkit [flags] <pdf>\n")
		flag.PrintDefaults()
	}
	out := flag.String("out", "", "Output HTML path (default <pdf>_flipbook.html next to the input)")
	password := flag.String("password", "", "Password required to open the flipbook")
	title := flag.String("title", "", "Flipbook title (default the PDF file name)")
	dpi := flag.Int("dpi", 0, fmt.Sprintf("Rasterization DPI (default %d)", raster.DefaultDPI))
	snapshot := flag.String("snapshot", "", "Write one rendered engine frame to this PNG instead of building the flipbook")
	progress := flag.Float64("progress", 0.5, "Turn progress for -snapshot, 0 to 1")
	verbose := flag.Bool("v", false, "Log progress to stderr")
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return options{}, fmt.Errorf("missing pdf path")
	}
	opts.pdfPath = flag.Arg(0)
	opts.outPath = *out
	opts.password = *password
	opts.title = *title
	opts.dpi = *dpi
	opts.snapshot = *snapshot
	opts.progress = *progress
	opts.verbose = *verbose

	if opts.snapshot == "" && opts.password == "" {
		return options{}, fmt.Errorf("-password is required")
	}
	if opts.progress < 0 || opts.progress > 1 {
		return options{}, fmt.Errorf("-progress must be within [0, 1]")
	}
	return opts, nil
}

func run(opts options) error {
	var log observability.Logger = observability.NopLogger{}
	if opts.verbose {
		log = observability.NewStderrLogger()
	}

	doc, err := os.ReadFile(opts.pdfPath)
	if err != nil {
		return err
	}
	pages, err := raster.NewFitz(log).Rasterize(context.Background(), doc, raster.Options{DPI: opts.dpi})
	if err != nil {
		return err
	}

	if opts.snapshot != "" {
		return writeSnapshot(opts, pages)
	}

	title := opts.title
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(opts.pdfPath), filepath.Ext(opts.pdfPath))
	}
	b := &artifact.Builder{
		Title:          title,
		PassphraseHash: artifact.HashPassphrase(opts.password),
		Pages:          pages,
		Logger:         log,
	}
	out, err := b.Build(context.Background())
	if err != nil {
		return err
	}

	outPath := opts.outPath
	if outPath == "" {
		outPath = filepath.Join(filepath.Dir(opts.pdfPath), artifact.Filename(filepath.Base(opts.pdfPath)))
	}
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return err
	}
	fmt.Printf("%s: %d pages, %d bytes\n", outPath, len(pages), len(out))
	return nil
}

// writeSnapshot renders a mid-turn frame of the first page turning onto
// the second at the requested progress, using a phone-sized viewport.
func writeSnapshot(opts options, pages [][]byte) error {
	store, err := pagestore.New(pages)
	if err != nil {
		return err
	}
	front, err := store.Get(0)
	if err != nil {
		return err
	}
	var back image.Image
	if store.Count() > 1 {
		p, err := store.Get(1)
		if err != nil {
			return err
		}
		back = p.Image
	}

	r := curl.NewRenderer(layout.Recompute(560, 900, 2))
	if back != nil {
		r.Render(front.Image, back, opts.progress, curl.Forward, curl.EaseInOut)
	} else {
		r.Render(front.Image, nil, 0, curl.Forward, nil)
	}
	frame := r.Frame()
	if frame == nil {
		return fmt.Errorf("renderer produced no frame")
	}

	f, err := os.Create(opts.snapshot)
	if err != nil {
		return err
	}
	if err := png.Encode(f, frame); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
