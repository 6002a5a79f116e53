//go:build !fastmath

package tape

import "math"

// mathPow computes x^y using the standard library.
func mathPow(x, y float64) float64 {
	return math.Pow(x, y)
}
