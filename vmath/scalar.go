package vmath

// Clamp bounds v to [lo,hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 bounds v to [0,1], NaN maps to 0
func Clamp01(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Lerp interpolates between a and b, t is not clamped
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
