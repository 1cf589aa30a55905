// Package raster turns an uploaded document into the ordered page-image
// sequence the rest of the toolkit consumes. Rendering PDFs to pixels is
// delegated to MuPDF via go-fitz.
package raster

import (
	"context"
	"errors"
)

var (
	ErrNoPages     = errors.New("raster: document has no pages")
	ErrUnsupported = errors.New("raster: unsupported document")
)

const (
	DefaultDPI = 180
	MinDPI     = 36
	MaxDPI     = 400

	// DefaultMaxPixels bounds a single page's decoded area so a poster-
	// sized page cannot exhaust memory. Pages over the budget are
	// downscaled before encoding.
	DefaultMaxPixels = 4_000_000
)

type Options struct {
	// DPI is the render resolution; zero means DefaultDPI, out-of-range
	// values are clamped.
	DPI int

	// MaxPixels caps a page's pixel area; zero means DefaultMaxPixels.
	MaxPixels int
}

func (o Options) withDefaults() Options {
	if o.DPI == 0 {
		o.DPI = DefaultDPI
	}
	if o.DPI < MinDPI {
		o.DPI = MinDPI
	}
	if o.DPI > MaxDPI {
		o.DPI = MaxDPI
	}
	if o.MaxPixels <= 0 {
		o.MaxPixels = DefaultMaxPixels
	}
	return o
}

// Rasterizer converts an encoded document into PNG page images in
// document order. Implementations must return ErrNoPages for documents
// with an empty page sequence.
type Rasterizer interface {
	Rasterize(ctx context.Context, doc []byte, opts Options) ([][]byte, error)
}
