// Package allpass implements first-order phase-only filter stages: a
// static stage parameterized by corner frequency, and a Thiran stage used
// for fractional sample delay.
package allpass

import "math"

// Stage is a first-order allpass filter with unity magnitude response and a
// frequency-dependent phase shift of 90 degrees at the corner frequency.
// Cascades of stages with staggered corners produce the dispersive phase
// smear of a playback head gap.
type Stage struct {
	coeff float64
	z1    float64
}

// NewStage returns a stage tuned to the given corner frequency.
func NewStage(freq, sampleRate float64) *Stage {
	s := &Stage{}
	s.SetFrequency(freq, sampleRate)

	return s
}

// SetFrequency retunes the corner frequency. State is preserved.
func (s *Stage) SetFrequency(freq, sampleRate float64) {
	if sampleRate <= 0 || freq <= 0 || freq >= sampleRate/2 {
		s.coeff = 0
		return
	}

	t := math.Tan(math.Pi * freq / sampleRate)
	s.coeff = (1 - t) / (1 + t)
}

// Coefficient returns the current allpass coefficient.
func (s *Stage) Coefficient() float64 { return s.coeff }

// ProcessSample applies the allpass to one sample.
func (s *Stage) ProcessSample(x float64) float64 {
	y := s.coeff*x + s.z1
	s.z1 = x - s.coeff*y

	return y
}

// Reset clears the state register.
func (s *Stage) Reset() {
	s.z1 = 0
}

// Thiran is a first-order Thiran allpass interpolator providing a
// fractional sample delay d in [0, 1):
//
//	y[n] = a*x[n] + x[n-1] - a*y[n-1], a = (1-d)/(1+d)
//
// The caller supplies both the current and the one-sample-older input tap
// (typically read from a delay line); the stage keeps only its output
// history.
type Thiran struct {
	coeff float64
	y1    float64
}

// NewThiran returns a Thiran stage for the given fractional delay.
func NewThiran(fraction float64) *Thiran {
	t := &Thiran{}
	t.SetFraction(fraction)

	return t
}

// SetFraction sets the fractional delay in [0, 1). Values outside the range
// are clamped. State is preserved so the coefficient can track a changing
// delay without a discontinuity.
func (t *Thiran) SetFraction(fraction float64) {
	if fraction < 0 {
		fraction = 0
	}

	if fraction >= 1 {
		fraction = math.Nextafter(1, 0)
	}

	t.coeff = (1 - fraction) / (1 + fraction)
}

// Coefficient returns the current interpolation coefficient.
func (t *Thiran) Coefficient() float64 { return t.coeff }

// ProcessSample interpolates between the current tap x and the one-sample
// older tap xPrev.
func (t *Thiran) ProcessSample(x, xPrev float64) float64 {
	y := t.coeff*x + xPrev - t.coeff*t.y1
	t.y1 = y

	return y
}

// Reset clears the output history.
func (t *Thiran) Reset() {
	t.y1 = 0
}
