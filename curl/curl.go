// Package curl draws the simulated page turn: the revealed page, the
// still-flat clipped region of the turning page, and the shading layers
// that sell the illusion of a lifted, curling sheet. Every layer is a
// pure function of (progress, direction, geometry), so re-rendering the
// same inputs produces identical pixels.
package curl

import (
	"image"
	"math"

	"github.com/gogpu/gg"

	"github.com/wudi/flipkit/geom"
	"github.com/wudi/flipkit/layout"
)

// Direction of a page turn. Forward reveals the next page, the fold
// sweeping from the right edge toward the left.
type Direction int

const (
	Forward  Direction = 1
	Backward Direction = -1
)

const (
	foldMax       = 0.92 // fraction of the cosine sweep applied to the fold
	ctrlFraction  = 0.18 // quadratic control-point offset, fraction of width
	shadowReach   = 60.0 // half-width of the soft fold shadow band, DIP
	ambientAlpha  = 0.16
	highlightPeak = 0.18
	thicknessPeak = 0.28
)

// FoldAmount maps eased progress to the fold's travel. The cosine sweep
// crosses the full width before t reaches 1, matching how a real turn
// accelerates past vertical.
func FoldAmount(eased float64) float64 {
	return (1 - math.Cos(eased*math.Pi)) * foldMax
}

// FoldX is the horizontal position of the crease for the given eased
// progress. It starts at the trailing edge and sweeps toward (and past)
// the leading edge.
func FoldX(eased float64, dir Direction, width float64) float64 {
	if dir == Forward {
		return geom.Lerp(width, 0, FoldAmount(eased))
	}
	return geom.Lerp(0, width, FoldAmount(eased))
}

// ControlOffset is the horizontal bow of the clip curve. The curve bows
// most at low progress and straightens as the page turns flat.
func ControlOffset(eased float64, width float64) float64 {
	return ctrlFraction * width * (0.6 + 0.4*(1-eased))
}

// CurlWidth is the extent of the specular highlight band, shrinking as
// the page approaches flat.
func CurlWidth(eased float64, width float64) float64 {
	return math.Max(18, 0.14*width*(1-eased+0.2))
}

// ShadowIntensity scales the soft fold shadow with progress.
func ShadowIntensity(eased float64) float64 {
	return 0.35 * (0.3 + 0.7*eased)
}

// Renderer composites page-turn frames onto a software canvas sized per
// the surface geometry.
type Renderer struct {
	dc   *gg.Context
	g    layout.Geometry
	bufs map[image.Image]*gg.ImageBuf
}

func NewRenderer(g layout.Geometry) *Renderer {
	r := &Renderer{bufs: make(map[image.Image]*gg.ImageBuf)}
	r.SetGeometry(g)
	return r
}

// SetGeometry resizes the backing canvas. A zero geometry leaves the
// renderer in a degraded state where Render is a no-op.
func (r *Renderer) SetGeometry(g layout.Geometry) {
	if g.Zero() {
		r.g = g
		r.dc = nil
		return
	}
	if r.dc == nil || g.DeviceWidth() != r.dc.Width() || g.DeviceHeight() != r.dc.Height() {
		r.dc = gg.NewContext(g.DeviceWidth(), g.DeviceHeight())
	}
	r.g = g
}

func (r *Renderer) Geometry() layout.Geometry { return r.g }

// Frame returns the last rendered frame, nil when the surface is degraded.
func (r *Renderer) Frame() image.Image {
	if r.dc == nil {
		return nil
	}
	return r.dc.Image()
}

func (r *Renderer) buf(img image.Image) *gg.ImageBuf {
	b, ok := r.bufs[img]
	if !ok {
		b = gg.ImageBufFromImage(img)
		r.bufs[img] = b
	}
	return b
}

func (r *Renderer) drawPage(img image.Image) {
	r.dc.DrawImageEx(r.buf(img), gg.DrawImageOptions{
		DstWidth:      float64(r.dc.Width()),
		DstHeight:     float64(r.dc.Height()),
		Interpolation: gg.InterpBilinear,
		Opacity:       1,
		BlendMode:     gg.BlendNormal,
	})
}

func (r *Renderer) fillRect(b gg.Brush, x, y, w, h float64) {
	r.dc.SetFillBrush(b)
	r.dc.DrawRectangle(x, y, w, h)
	r.dc.Fill()
}

// Render draws one frame. With progress 0 (or no neighbor) only the
// front page is drawn, flat. Otherwise the back page is revealed behind
// the quadratic-clipped flat portion of the front page, and the shading
// layers are composited over the fold.
func (r *Renderer) Render(front, back image.Image, progress float64, dir Direction, easing Easing) {
	if r.dc == nil || front == nil {
		return
	}
	r.dc.Identity()
	r.dc.ResetClip()
	r.dc.ClearWithColor(gg.RGBA{R: 0.07, G: 0.07, B: 0.09, A: 1})

	if progress <= 0 || back == nil {
		r.drawPage(front)
		return
	}
	if easing == nil {
		easing = Linear
	}
	t := easing(geom.Clamp(progress, 0, 1))
	// Gradient brushes sample in device pixels, so all geometry below is
	// in device pixels too.
	s := r.g.PixelScale
	w, h := float64(r.dc.Width()), float64(r.dc.Height())
	foldX := FoldX(t, dir, w)
	ctrl := ControlOffset(t, w)
	reach := shadowReach * s

	// Revealed page, darkened toward top and bottom for depth.
	r.drawPage(back)
	ambient := gg.NewLinearGradientBrush(0, 0, 0, h).
		AddColorStop(0, gg.RGBA{A: ambientAlpha}).
		AddColorStop(0.5, gg.RGBA{}).
		AddColorStop(1, gg.RGBA{A: ambientAlpha})
	r.fillRect(ambient, 0, 0, w, h)

	// Still-flat portion of the turning page, bounded by the bowed crease.
	r.dc.Push()
	r.dc.ClearPath()
	if dir == Forward {
		r.dc.MoveTo(0, 0)
		r.dc.LineTo(foldX, 0)
		r.dc.QuadraticTo(foldX-ctrl, h*0.5, foldX, h)
		r.dc.LineTo(0, h)
	} else {
		r.dc.MoveTo(w, 0)
		r.dc.LineTo(foldX, 0)
		r.dc.QuadraticTo(foldX+ctrl, h*0.5, foldX, h)
		r.dc.LineTo(w, h)
	}
	r.dc.ClosePath()
	r.dc.Clip()
	r.drawPage(front)
	r.dc.Pop()

	// Soft shadow band centered on the crease.
	intensity := ShadowIntensity(t)
	band := gg.NewLinearGradientBrush(foldX-reach, 0, foldX+reach, 0).
		AddColorStop(0, gg.RGBA{}).
		AddColorStop(0.5, gg.RGBA{A: intensity}).
		AddColorStop(1, gg.RGBA{})
	r.fillRect(band, foldX-reach, 0, reach*2, h)

	// Elevation shadow the lifted page casts on the page beneath.
	spread := (0.25 + 0.35*t) * w
	elev := gg.NewRadialGradientBrush(foldX, h*0.5, 0, spread).
		AddColorStop(0, gg.RGBA{A: 0.22 * t}).
		AddColorStop(1, gg.RGBA{})
	if dir == Forward {
		r.fillRect(elev, foldX, 0, w-foldX, h)
	} else {
		r.fillRect(elev, 0, 0, foldX, h)
	}

	// Specular highlight where light catches the curling paper.
	curlW := CurlWidth(t, w)
	var hi *gg.LinearGradientBrush
	var hiX float64
	if dir == Forward {
		hi = gg.NewLinearGradientBrush(foldX-curlW, 0, foldX, 0)
		hiX = foldX - curlW
	} else {
		hi = gg.NewLinearGradientBrush(foldX+curlW, 0, foldX, 0)
		hiX = foldX
	}
	hi.AddColorStop(0, gg.RGBA{R: 1, G: 1, B: 1}).
		AddColorStop(1, gg.RGBA{R: 1, G: 1, B: 1, A: highlightPeak})
	r.fillRect(hi, hiX, 0, curlW, h)

	// Thin darkening on the trailing side of the crease: page thickness.
	thickW := math.Max(6*s, 0.35*curlW)
	var th *gg.LinearGradientBrush
	var thX float64
	if dir == Forward {
		th = gg.NewLinearGradientBrush(foldX, 0, foldX+thickW, 0)
		thX = foldX
	} else {
		th = gg.NewLinearGradientBrush(foldX, 0, foldX-thickW, 0)
		thX = foldX - thickW
	}
	th.AddColorStop(0, gg.RGBA{A: thicknessPeak}).
		AddColorStop(1, gg.RGBA{})
	r.fillRect(th, thX, 0, thickW, h)
}
