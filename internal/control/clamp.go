package control

import "math"

// Clamp limits a throttle to [0, 1]. NaN becomes 0.
func Clamp(u float64) float64 {
	if math.IsNaN(u) || u <= 0 {
		return 0
	}
	if u >= 1 {
		return 1
	}
	return u
}
