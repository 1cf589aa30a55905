package raster

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"time"

	"github.com/gen2brain/go-fitz"

	"github.com/wudi/flipkit/observability"
)

// FitzRasterizer renders PDF pages through MuPDF.
type FitzRasterizer struct {
	log observability.Logger
}

func NewFitz(log observability.Logger) *FitzRasterizer {
	if log == nil {
		log = observability.NopLogger{}
	}
	return &FitzRasterizer{log: log}
}

func (r *FitzRasterizer) Rasterize(ctx context.Context, doc []byte, opts Options) ([][]byte, error) {
	opts = opts.withDefaults()
	start := time.Now()

	f, err := fitz.NewFromMemory(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	defer f.Close()

	n := f.NumPage()
	if n == 0 {
		return nil, ErrNoPages
	}

	pages := make([][]byte, 0, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := f.ImageDPI(i, float64(opts.DPI))
		if err != nil {
			return nil, fmt.Errorf("raster: render page %d: %w", i, err)
		}
		bounded := FitPixels(img, opts.MaxPixels)
		var buf bytes.Buffer
		if err := png.Encode(&buf, bounded); err != nil {
			return nil, fmt.Errorf("raster: encode page %d: %w", i, err)
		}
		pages = append(pages, buf.Bytes())
	}

	r.log.Info("document rasterized",
		observability.Int(observability.MetricPageCount, n),
		observability.Int("dpi", opts.DPI),
		observability.Float64(observability.MetricRasterizeTime, time.Since(start).Seconds()))
	return pages, nil
}
