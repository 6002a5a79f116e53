package testutil

import (
	"math"
	"testing"

	"github.com/sandovalmusic/Ampex-ATR-102-Studer-A820/dsp/core"
)

// RequireFinite fails the test if any sample is NaN or infinite.
func RequireFinite(t *testing.T, samples []float64) {
	t.Helper()

	for i, v := range samples {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("sample %d is not finite: %v", i, v)
		}
	}
}

// RequireSliceNearlyEqual fails the test if the slices differ in length or
// any pair of samples falls outside core.NearlyEqual's eps.
func RequireSliceNearlyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}

	for i := range got {
		if !core.NearlyEqual(got[i], want[i], eps) {
			t.Fatalf("sample %d: got %v, want %v (eps %v)", i, got[i], want[i], eps)
		}
	}
}

// MaxAbsDiff returns the largest absolute per-sample difference between two
// equal-length slices.
func MaxAbsDiff(a, b []float64) float64 {
	var max float64

	for i := range a {
		if d := math.Abs(a[i] - b[i]); d > max {
			max = d
		}
	}

	return max
}

// RMS returns the root-mean-square level of the samples.
func RMS(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}

	var sum float64
	for _, v := range samples {
		sum += v * v
	}

	return math.Sqrt(sum / float64(len(samples)))
}
