package curl

import "math"

// Easing remaps linear progress before it drives the fold geometry.
// Live dragging uses EaseOut so the page answers immediately to the
// pointer; committed animation uses EaseInOut for a settled motion.
type Easing func(t float64) float64

func Linear(t float64) float64 { return t }

func EaseOut(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u
}

func EaseInOut(t float64) float64 {
	return 0.5 * (1 - math.Cos(t*math.Pi))
}
