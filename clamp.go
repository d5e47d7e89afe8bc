package earthview

import "math"

// Clamp restricts x to the closed interval [lo, hi] (lo <= hi is assumed).
func Clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
