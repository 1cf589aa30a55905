package raster

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// FitPixels downscales img so its area does not exceed maxPixels,
// preserving aspect ratio. Images within budget are returned unchanged.
func FitPixels(img image.Image, maxPixels int) image.Image {
	if maxPixels <= 0 {
		return img
	}
	b := img.Bounds()
	area := b.Dx() * b.Dy()
	if area <= maxPixels {
		return img
	}
	f := math.Sqrt(float64(maxPixels) / float64(area))
	w := int(float64(b.Dx()) * f)
	h := int(float64(b.Dy()) * f)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
