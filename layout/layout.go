// Package layout derives the drawable surface geometry from the host
// viewport. Pages keep A-series portrait proportions regardless of the
// viewport shape.
package layout

import "math"

const (
	// AspectRatio is height/width, matching A-series paper.
	AspectRatio = math.Sqrt2

	// MaxWidthFraction caps the page width relative to the viewport.
	MaxWidthFraction = 0.92

	// MaxWidthDIP caps the page width in device-independent pixels.
	MaxWidthDIP = 520.0

	// MaxPixelScale bounds backing-store cost on high-density displays.
	MaxPixelScale = 2.0
)

// Geometry is the surface description consumed by the renderer.
// Width and Height are device-independent pixels; the backing store is
// scaled by PixelScale.
type Geometry struct {
	Width      float64
	Height     float64
	PixelScale float64
}

func (g Geometry) DeviceWidth() int  { return int(math.Floor(g.Width * g.PixelScale)) }
func (g Geometry) DeviceHeight() int { return int(math.Floor(g.Height * g.PixelScale)) }

// Zero reports whether the surface has nothing useful to draw.
func (g Geometry) Zero() bool { return g.Width < 1 || g.Height < 1 }

// Recompute derives the surface geometry for a viewport. It is a pure
// function: identical inputs yield identical geometry. A degenerate
// viewport yields a zero geometry rather than an error.
func Recompute(viewportWidth, viewportHeight, pixelScale float64) Geometry {
	if viewportWidth <= 0 || viewportHeight <= 0 {
		return Geometry{}
	}
	w := math.Min(viewportWidth*MaxWidthFraction, MaxWidthDIP)
	if w*AspectRatio > viewportHeight {
		w = viewportHeight / AspectRatio
	}
	if pixelScale <= 0 {
		pixelScale = 1
	}
	if pixelScale > MaxPixelScale {
		pixelScale = MaxPixelScale
	}
	return Geometry{Width: w, Height: w * AspectRatio, PixelScale: pixelScale}
}
