package geom

type Point struct{ X, Y float64 }

func Clamp(v, lo, hi float64) float64 { if v < lo { return lo }; if v > hi { return hi }; return v }
func Lerp(a, b, t float64) float64 { return a + (b-a)*t }
func Abs(v float64) float64 { if v < 0 { return -v }; return v }
