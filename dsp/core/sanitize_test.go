package core

import (
	"math"
	"testing"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name      string
		candidate float64
		fallback  float64
		expected  float64
	}{
		{name: "finite passes through", candidate: 0.5, fallback: 0, expected: 0.5},
		{name: "zero passes through", candidate: 0, fallback: 1, expected: 0},
		{name: "nan falls back", candidate: math.NaN(), fallback: 0.25, expected: 0.25},
		{name: "+inf falls back", candidate: math.Inf(1), fallback: -1, expected: -1},
		{name: "-inf falls back", candidate: math.Inf(-1), fallback: 0, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.candidate, tt.fallback)
			if got != tt.expected {
				t.Fatalf("Sanitize(%v, %v) = %v, want %v", tt.candidate, tt.fallback, got, tt.expected)
			}
		})
	}
}

func TestIsFinite(t *testing.T) {
	if !IsFinite(1.5) || !IsFinite(0) {
		t.Fatal("expected finite values to report true")
	}
	if IsFinite(math.NaN()) || IsFinite(math.Inf(1)) || IsFinite(math.Inf(-1)) {
		t.Fatal("expected non-finite values to report false")
	}
}
