package core

import "math"

// IsFinite reports whether x is neither NaN nor infinite.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Sanitize returns candidate if it is finite and fallback otherwise.
// It is the stage-boundary guard for processors that must always emit a
// finite sample: when an internal solver diverges the caller substitutes a
// known-good value (usually the dry signal or zero) instead of propagating
// NaN/Inf downstream.
func Sanitize(candidate, fallback float64) float64 {
	if IsFinite(candidate) {
		return candidate
	}

	return fallback
}
