package biquad

import (
	"math"
	"testing"
)

const eps = 1e-12

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestSection_ProcessSample_DifferenceEquation(t *testing.T) {
	c := Coefficients{B0: 0.2, B1: 0.3, B2: 0.1, A1: -0.4, A2: 0.05}
	s := NewSection(c)

	input := []float64{1, 0, 0.5, -0.25, 0, 1, -1, 0.125}

	// Direct Form I reference: y[n] = b0*x[n]+b1*x[n-1]+b2*x[n-2]-a1*y[n-1]-a2*y[n-2]
	var x1, x2, y1, y2 float64
	for i, x := range input {
		want := c.B0*x + c.B1*x1 + c.B2*x2 - c.A1*y1 - c.A2*y2
		x2, x1 = x1, x
		y2, y1 = y1, want

		got := s.ProcessSample(x)
		if !almostEqual(got, want, eps) {
			t.Fatalf("sample %d: got=%.15f, want=%.15f", i, got, want)
		}
	}
}

func TestSection_ProcessBlock_MatchesSample(t *testing.T) {
	c := Coefficients{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.2, A2: 0.04}

	s1 := NewSection(c)
	s2 := NewSection(c)

	input := []float64{1, 0.5, -0.3, 0.7, 0, -1, 0.2, 0.8, -0.6}

	want := make([]float64, len(input))
	for i, x := range input {
		want[i] = s1.ProcessSample(x)
	}

	got := make([]float64, len(input))
	copy(got, input)
	s2.ProcessBlock(got)

	for i := range got {
		if !almostEqual(got[i], want[i], eps) {
			t.Fatalf("sample %d: block=%.15f, sample=%.15f", i, got[i], want[i])
		}
	}
}

func TestSection_Reset(t *testing.T) {
	c := Coefficients{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.2, A2: 0.04}
	s := NewSection(c)

	s.ProcessSample(1)
	s.ProcessSample(-1)
	s.Reset()

	if st := s.State(); st[0] != 0 || st[1] != 0 {
		t.Fatalf("state after reset: got %v, want zeros", st)
	}
}

func TestSection_StateRoundTrip(t *testing.T) {
	c := Coefficients{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.2, A2: 0.04}
	s := NewSection(c)

	s.ProcessSample(1)
	s.ProcessSample(0.5)
	saved := s.State()

	next := s.ProcessSample(0.25)

	s.SetState(saved)
	if got := s.ProcessSample(0.25); !almostEqual(got, next, eps) {
		t.Fatalf("after SetState: got=%.15f, want=%.15f", got, next)
	}
}

func TestCoefficients_DCGain(t *testing.T) {
	// Identity filter passes DC at unity.
	identity := Coefficients{B0: 1}
	if got := identity.DCGain(); !almostEqual(got, 1, eps) {
		t.Fatalf("identity DC gain: got %v, want 1", got)
	}

	// Simple gain-of-two filter.
	double := Coefficients{B0: 2}
	if got := double.DCGain(); !almostEqual(got, 2, eps) {
		t.Fatalf("gain-of-two DC gain: got %v, want 2", got)
	}
}
