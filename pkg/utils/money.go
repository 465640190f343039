package utils

import "math"

// Round2 rounds a USD amount to cents. All persisted and reported amounts
// go through this so per-part figures stay reproducible.
func Round2(amount float64) float64 {
	return math.Round(amount*100) / 100
}
