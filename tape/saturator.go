package tape

import "math"

// Saturator envelope and shaping constants.
const (
	satEnvRise  = 0.9
	satEnvFall  = 0.999
	satEnvFloor = 0.01

	defaultLowLevelThreshold = 0.5
	defaultCurvePower        = 2.0
)

// saturator is a level-adaptive cubic waveshaper. An asymmetric envelope
// follower over |x| scales the cubic coefficient so distortion rises faster
// than a static cubic would (THD slope 2+power on a log-log level sweep),
// and a DC bias before the cube controls the even/odd harmonic balance.
type saturator struct {
	a3       float64
	power    float64
	bias     float64
	lowScale float64

	// Calibration-only shaping hooks.
	lowThreshold  float64
	curvePower    float64
	kneeThreshold float64
	kneeAmount    float64

	env float64
}

func newSaturator() *saturator {
	return &saturator{
		lowThreshold: defaultLowLevelThreshold,
		curvePower:   defaultCurvePower,
	}
}

// configure sets the machine/formula tuned constants and restores the
// default shaping hooks.
func (s *saturator) configure(p params) {
	s.a3 = p.cubicA3
	s.power = p.cubicPower
	s.bias = p.inputBias
	s.lowScale = p.lowLevelScale
	s.lowThreshold = defaultLowLevelThreshold
	s.curvePower = defaultCurvePower
	s.kneeThreshold = 0
	s.kneeAmount = 0
}

func (s *saturator) reset() {
	s.env = 0
}

// processSample applies y = b - a3_eff*b^3 with b = x + bias, minus the
// quiescent output for zero input so silence maps to exactly zero; the bias
// still skews the curve for even harmonics, but its standing DC offset
// never enters the chain. Purely algebraic: finite input always yields
// finite output.
func (s *saturator) processSample(x float64) float64 {
	level := math.Abs(x)

	coeff := satEnvFall
	if level > s.env {
		coeff = satEnvRise
	}

	s.env = coeff*s.env + (1-coeff)*level

	env := s.env
	if env < satEnvFloor {
		env = satEnvFloor
	}

	a3 := s.a3 * mathPow(env, s.power)

	// Below the low-level threshold the coefficient is shaped further down,
	// concentrated at the quietest levels, to match tape's low-level
	// linearity.
	if env < s.lowThreshold {
		t := env / s.lowThreshold
		a3 *= s.lowScale + (1-s.lowScale)*mathPow(t, s.curvePower)
	}

	// Optional high-level knee flattens the curve at high drive. Disabled
	// until calibration sets a positive amount.
	if s.kneeAmount > 0 && env > s.kneeThreshold {
		a3 /= 1 + s.kneeAmount*(env-s.kneeThreshold)
	}

	b := x + s.bias
	quiescent := s.bias - a3*s.bias*s.bias*s.bias

	return b - a3*b*b*b - quiescent
}
