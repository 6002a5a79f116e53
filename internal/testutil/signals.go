// Package testutil provides deterministic test signals and numeric
// assertion helpers shared by the package tests.
package testutil

import "math"

// Sine generates n samples of a sine at freq (Hz) with the given amplitude.
func Sine(n int, freq, amplitude, sampleRate float64) []float64 {
	out := make([]float64, n)
	w := 2 * math.Pi * freq / sampleRate

	for i := range out {
		out[i] = amplitude * math.Sin(w*float64(i))
	}

	return out
}

// Impulse generates n samples with a single unit sample at index at.
func Impulse(n, at int) []float64 {
	out := make([]float64, n)
	if at >= 0 && at < n {
		out[at] = 1
	}

	return out
}

// DC generates n samples of the constant level.
func DC(n int, level float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = level
	}

	return out
}

// Noise generates n samples of deterministic white noise in [-amplitude,
// amplitude] from a fixed linear congruential generator, so runs are
// reproducible without seeding.
func Noise(n int, amplitude float64, seed uint64) []float64 {
	out := make([]float64, n)
	state := seed

	for i := range out {
		state = state*6364136223846793005 + 1442695040888963407
		// Top 53 bits to a float in [0, 1).
		u := float64(state>>11) / (1 << 53)
		out[i] = amplitude * (2*u - 1)
	}

	return out
}
