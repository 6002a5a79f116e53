// Package harmonic measures per-harmonic amplitudes and distortion metrics
// of a test signal. It exists for calibration and regression tests; nothing
// here runs in the audio path.
package harmonic

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// hannCoherentGain is the amplitude scaling of a Hann window.
const hannCoherentGain = 0.5

// hannWindow returns Hann coefficients for n samples.
func hannWindow(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}

	return w
}

// Goertzel returns the amplitude of the component at freq (Hz) in the
// signal, measured over a Hann-windowed copy and normalized so a full-scale
// sine at freq reads as its peak amplitude.
func Goertzel(signal []float64, freq, sampleRate float64) float64 {
	n := len(signal)
	if n < 2 || sampleRate <= 0 || freq <= 0 || freq >= sampleRate/2 {
		return 0
	}

	windowed := make([]float64, n)
	copy(windowed, signal)
	vecmath.MulBlockInPlace(windowed, hannWindow(n))

	w := 2 * math.Pi * freq / sampleRate
	coeff := 2 * math.Cos(w)

	var s1, s2 float64
	for _, x := range windowed {
		s0 := x + coeff*s1 - s2
		s2 = s1
		s1 = s0
	}

	power := s1*s1 + s2*s2 - coeff*s1*s2
	if power < 0 {
		power = 0
	}

	mag := math.Sqrt(power)

	return 2 * mag / (float64(n) * hannCoherentGain)
}
