package tape

import (
	"math"

	"github.com/sandovalmusic/Ampex-ATR-102-Studer-A820/dsp/core"
)

// Jiles-Atherton solver constants. The iteration count is a fixed budget:
// bounded per-sample cost is preferred over adaptive convergence.
const (
	hysteresisIterations    = 8
	nrStepLimitRatio        = 0.1
	langevinTaylorThreshold = 0.01
	langevinTanhFloor       = 1e-6
	slewLimitPerSecond      = 10000.0
	softCeilingRatio        = 1.1
	softCeilingEngage       = 0.9
)

// hysteresisParams are the Jiles-Atherton material parameters.
type hysteresisParams struct {
	saturationMagnetization float64 // M_s
	wallDensity             float64 // a
	coercivity              float64 // k
	reversibility           float64 // c
	meanField               float64 // alpha
}

// hysteresis integrates the Jiles-Atherton magnetization equation
//
//	dM/dH = (M_an - M) / (delta*k - alpha*(M_an - M)) + c * dM_an/dH
//
// one sample at a time with a backward-Euler step solved by fixed-iteration
// Newton-Raphson. State is the previous field and magnetization pair.
type hysteresis struct {
	p      hysteresisParams
	dt     float64
	invA   float64
	cAlpha float64

	mPrev float64
	hPrev float64
}

func (hy *hysteresis) setParameters(p hysteresisParams) {
	hy.p = p
	hy.invA = 1 / p.wallDensity
	hy.cAlpha = p.reversibility * p.meanField
}

func (hy *hysteresis) setSampleRate(fs float64) {
	hy.dt = 1 / fs
}

func (hy *hysteresis) reset() {
	hy.mPrev = 0
	hy.hPrev = 0
}

// process advances the magnetization for one field sample. It always
// returns a finite value: a diverged solve resets the state and yields 0
// for that sample.
func (hy *hysteresis) process(h float64) float64 {
	h = core.FlushDenormals(h)

	// Slew-limit the field derivative so a step input cannot destabilize
	// the solver.
	delta := core.Clamp(h-hy.hPrev, -slewLimitPerSecond*hy.dt, slewLimitPerSecond*hy.dt)
	hd := delta / hy.dt

	m := hy.solve(h, hd)

	if !core.IsFinite(m) {
		hy.mPrev = 0
		hy.hPrev = h

		return 0
	}

	hy.hPrev = h
	hy.mPrev = m

	// Soft-limit near the extended ceiling to suppress solver pops.
	ceiling := hy.p.saturationMagnetization * softCeilingRatio
	if math.Abs(m) > ceiling*softCeilingEngage {
		m = ceiling * fastTanh(m/ceiling)
	}

	return m
}

// solve performs the fixed-budget Newton-Raphson iteration for the implicit
// backward-Euler magnetization update.
func (hy *hysteresis) solve(h, hd float64) float64 {
	dir := 1.0
	if hd < 0 {
		dir = -1.0
	}

	m := hy.mPrev

	denom := 1 - hy.cAlpha
	if math.Abs(denom) < 1e-12 {
		denom = 1e-12
	}

	for i := 0; i < hysteresisIterations; i++ {
		hEff := h + hy.p.meanField*m
		x := hEff * hy.invA

		l, ld := langevinBoth(x)

		mAn := hy.p.saturationMagnetization * l
		dMAnDM := hy.p.saturationMagnetization * ld * hy.invA * hy.p.meanField
		mDiff := mAn - m
		deltaK := dir * hy.p.coercivity

		denomDiff := deltaK - hy.p.meanField*mDiff
		if math.Abs(denomDiff) < 1e-10 {
			if denomDiff >= 0 {
				denomDiff = 1e-10
			} else {
				denomDiff = -1e-10
			}
		}

		// Irreversible wall motion contributes only when the field pushes
		// the magnetization toward the anhysteretic curve.
		var dMdH float64
		if math.Abs(mDiff) > 1e-12 && dir*mDiff > 0 {
			dMdH = (mDiff/denomDiff + hy.p.reversibility*dMAnDM) / denom
		} else {
			dMdH = hy.p.reversibility * dMAnDM / denom
		}

		f := m - hy.mPrev - hy.dt*dMdH*hd

		var dfDM float64
		if math.Abs(denomDiff) > 1e-12 {
			dfDM = (dMAnDM - 1) / denomDiff / denom
		}

		fPrime := 1 - hy.dt*hd*dfDM

		if math.Abs(fPrime) > 1e-10 {
			step := f / fPrime
			limit := hy.p.saturationMagnetization * nrStepLimitRatio
			step = core.Clamp(step, -limit, limit)
			m -= step
		}

		m = core.Clamp(m, -hy.p.saturationMagnetization, hy.p.saturationMagnetization)
	}

	return m
}

// langevinBoth evaluates the Langevin function L(x) = coth(x) - 1/x and its
// derivative L'(x) = 1/x^2 - coth^2(x) + 1 in one pass. A Taylor series
// covers the removable singularity at x = 0, and a second series fallback
// protects the coth division when tanh underflows.
func langevinBoth(x float64) (l, ld float64) {
	if math.Abs(x) < langevinTaylorThreshold {
		x2 := x * x
		l = x * (1.0/3.0 - x2*(1.0/45.0-x2*(2.0/945.0)))
		ld = 1.0/3.0 - x2*(1.0/15.0-x2*(2.0/189.0))

		return l, ld
	}

	tanhX := fastTanh(x)
	if math.Abs(tanhX) < langevinTanhFloor {
		x2 := x * x
		l = x * (1.0/3.0 - x2*(1.0/45.0))
		ld = 1.0/3.0 - x2*(1.0/15.0)

		return l, ld
	}

	cothX := 1 / tanhX
	invX := 1 / x
	l = cothX - invX
	ld = invX*invX - cothX*cothX + 1

	// L is bounded by +/-1 and L' peaks at 1/3 near zero.
	l = core.Clamp(l, -1, 1)
	ld = core.Clamp(ld, 0, 1.0/3.0+0.01)

	return l, ld
}

// fastTanh is a Pade approximant of tanh, accurate to about 1e-6 for
// |x| < 4 and hard-saturated beyond.
func fastTanh(x float64) float64 {
	if x > 4 {
		return 1
	}

	if x < -4 {
		return -1
	}

	x2 := x * x
	num := x * (135135.0 + x2*(17325.0+x2*(378.0+x2)))
	den := 135135.0 + x2*(62370.0+x2*(3150.0+x2*28.0))

	return num / den
}
