package layout

import (
	"math"
	"testing"
)

func TestRecomputeIdempotent(t *testing.T) {
	a := Recompute(800, 1200, 1.5)
	b := Recompute(800, 1200, 1.5)
	if a != b {
		t.Fatalf("identical inputs gave %+v and %+v", a, b)
	}
}

func TestAspectRatio(t *testing.T) {
	g := Recompute(400, 2000, 1)
	if math.Abs(g.Height/g.Width-math.Sqrt2) > 1e-9 {
		t.Fatalf("ratio: got %f", g.Height/g.Width)
	}
}

func TestWidthCaps(t *testing.T) {
	// Narrow viewport: width bound by fraction.
	g := Recompute(300, 2000, 1)
	if g.Width != 300*MaxWidthFraction {
		t.Fatalf("fraction cap: got %f", g.Width)
	}
	// Wide viewport: width bound by the absolute cap.
	g = Recompute(5000, 5000, 1)
	if g.Width != MaxWidthDIP {
		t.Fatalf("absolute cap: got %f", g.Width)
	}
}

func TestShortViewportShrinksWidth(t *testing.T) {
	g := Recompute(1000, 400, 1)
	if math.Abs(g.Height-400) > 1e-9 {
		t.Fatalf("height should fill short viewport, got %f", g.Height)
	}
	if g.Width >= 400 {
		t.Fatalf("width should shrink, got %f", g.Width)
	}
}

func TestPixelScaleClamp(t *testing.T) {
	if g := Recompute(800, 1200, 3); g.PixelScale != MaxPixelScale {
		t.Fatalf("clamp high: got %f", g.PixelScale)
	}
	if g := Recompute(800, 1200, 0); g.PixelScale != 1 {
		t.Fatalf("default: got %f", g.PixelScale)
	}
	if g := Recompute(800, 1200, 1.25); g.PixelScale != 1.25 {
		t.Fatalf("pass-through: got %f", g.PixelScale)
	}
}

func TestZeroViewport(t *testing.T) {
	if g := Recompute(0, 600, 1); !g.Zero() {
		t.Fatalf("zero width viewport should yield zero geometry: %+v", g)
	}
	if g := Recompute(600, 0, 1); !g.Zero() {
		t.Fatalf("zero height viewport should yield zero geometry: %+v", g)
	}
}

func TestDevicePixels(t *testing.T) {
	g := Geometry{Width: 520, Height: 735.4, PixelScale: 2}
	if g.DeviceWidth() != 1040 || g.DeviceHeight() != 1470 {
		t.Fatalf("device size: %dx%d", g.DeviceWidth(), g.DeviceHeight())
	}
}
