// Command flipview opens a PDF in a native window running the
// page-turn engine: drag from the page edges with the mouse to turn
// pages. The passphrase gate is disabled for local preview.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wudi/flipkit/anim"
	"github.com/wudi/flipkit/observability"
	"github.com/wudi/flipkit/pagestore"
	"github.com/wudi/flipkit/preview"
	"github.com/wudi/flipkit/raster"
	"github.com/wudi/flipkit/viewer"
)

type options struct {
	pdfPath string
	title   string
	dpi     int
	width   int
	height  int
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "flipview: %v\n", err)
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "flipview: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() (options, error) {
	var opts options
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: flipview [flags] <pdf>\n")
		flag.PrintDefaults()
	}
	title := flag.String("title", "", "Window title (default the PDF file name)")
	dpi := flag.Int("dpi", 0, fmt.Sprintf("Rasterization DPI (default %d)", raster.DefaultDPI))
	width := flag.Int("width", 600, "Initial window width")
	height := flag.Int("height", 860, "Initial window height")
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return options{}, fmt.Errorf("missing pdf path")
	}
	opts.pdfPath = flag.Arg(0)
	opts.title = *title
	opts.dpi = *dpi
	opts.width = *width
	opts.height = *height
	if opts.title == "" {
		opts.title = strings.TrimSuffix(filepath.Base(opts.pdfPath), filepath.Ext(opts.pdfPath))
	}
	return opts, nil
}

func run(opts options) error {
	log := observability.NewStderrLogger()

	doc, err := os.ReadFile(opts.pdfPath)
	if err != nil {
		return err
	}
	pages, err := raster.NewFitz(log).Rasterize(context.Background(), doc, raster.Options{DPI: opts.dpi})
	if err != nil {
		return err
	}
	store, err := pagestore.New(pages)
	if err != nil {
		return err
	}

	frames := preview.NewFrames()
	v := viewer.New(store, anim.SystemClock(), frames, viewer.Config{
		Title:  opts.title,
		Logger: log,
	})
	return preview.Run(v, frames, opts.title, opts.width, opts.height)
}
