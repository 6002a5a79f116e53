package tape

import (
	"fmt"

	"github.com/sandovalmusic/Ampex-ATR-102-Studer-A820/dsp/core"
)

// Calibration overrides for offline parameter search. They bypass the
// derived profile constants, so apply them after SetProfile: any profile or
// sample-rate change re-derives the constants and overwrites them.

// SetCubicCoefficient overrides the base cubic coefficient a3.
func (p *Processor) SetCubicCoefficient(a3 float64) error {
	if !core.IsFinite(a3) || a3 < 0 {
		return fmt.Errorf("cubic coefficient must be finite and non-negative, got %v", a3)
	}

	p.sat.a3 = a3

	return nil
}

// SetCubicPower overrides the envelope exponent that sets the distortion
// versus level slope.
func (p *Processor) SetCubicPower(power float64) error {
	if !core.IsFinite(power) || power < 0 {
		return fmt.Errorf("cubic power must be finite and non-negative, got %v", power)
	}

	p.sat.power = power

	return nil
}

// SetInputBias overrides the DC bias added before the cubic, which controls
// the even/odd harmonic balance. Zero yields odd-only distortion.
func (p *Processor) SetInputBias(bias float64) error {
	if !core.IsFinite(bias) {
		return fmt.Errorf("input bias must be finite, got %v", bias)
	}

	p.sat.bias = bias

	return nil
}

// SetLowLevelScale overrides the coefficient floor applied at the quietest
// levels, in [0, 1].
func (p *Processor) SetLowLevelScale(scale float64) error {
	if !core.IsFinite(scale) || scale < 0 || scale > 1 {
		return fmt.Errorf("low-level scale must be in [0, 1], got %v", scale)
	}

	p.sat.lowScale = scale

	return nil
}

// SetLowLevelThreshold overrides the envelope level below which the
// low-level shaping engages.
func (p *Processor) SetLowLevelThreshold(threshold float64) error {
	if !core.IsFinite(threshold) || threshold <= 0 {
		return fmt.Errorf("low-level threshold must be positive, got %v", threshold)
	}

	p.sat.lowThreshold = threshold

	return nil
}

// SetCurvePower overrides the exponent of the low-level shaping curve.
func (p *Processor) SetCurvePower(power float64) error {
	if !core.IsFinite(power) || power <= 0 {
		return fmt.Errorf("curve power must be positive, got %v", power)
	}

	p.sat.curvePower = power

	return nil
}

// SetHighLevelKnee enables the optional high-drive knee: above threshold
// the cubic coefficient is divided by 1 + amount*(level-threshold). An
// amount of zero disables it.
func (p *Processor) SetHighLevelKnee(threshold, amount float64) error {
	if !core.IsFinite(threshold) || threshold < 0 {
		return fmt.Errorf("knee threshold must be finite and non-negative, got %v", threshold)
	}

	if !core.IsFinite(amount) || amount < 0 {
		return fmt.Errorf("knee amount must be finite and non-negative, got %v", amount)
	}

	p.sat.kneeThreshold = threshold
	p.sat.kneeAmount = amount

	return nil
}

// SetHysteresisBlend overrides the static blend ratio between the shielded
// signal and the scaled hysteresis output, in [0, 1].
func (p *Processor) SetHysteresisBlend(blend float64) error {
	if !core.IsFinite(blend) || blend < 0 || blend > 1 {
		return fmt.Errorf("hysteresis blend must be in [0, 1], got %v", blend)
	}

	p.prm.hysteresisBlend = blend

	return nil
}

// SetAzimuthDelay overrides the second-channel delay in samples.
func (p *Processor) SetAzimuthDelay(samples float64) error {
	if !core.IsFinite(samples) || samples < 0 {
		return fmt.Errorf("azimuth delay must be finite and non-negative, got %v", samples)
	}

	p.az.setDelay(samples)

	return nil
}
