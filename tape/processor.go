package tape

import (
	"fmt"
	"math"

	"github.com/sandovalmusic/Ampex-ATR-102-Studer-A820/dsp/core"
	"github.com/sandovalmusic/Ampex-ATR-102-Studer-A820/dsp/filter/allpass"
	"github.com/sandovalmusic/Ampex-ATR-102-Studer-A820/dsp/filter/biquad"
	"github.com/sandovalmusic/Ampex-ATR-102-Studer-A820/dsp/filter/design"
)

const (
	numDispersiveStages = 4

	// Blend envelope time constants.
	blendAttackSeconds  = 0.001
	blendReleaseSeconds = 0.050

	// The 4th-order DC blocker needs time to settle after a reset; the
	// fade-in covers its initialization transient.
	fadeInSeconds = 0.150

	// Hysteresis output soft limit: the output scaling can amplify solver
	// artifacts, so magnitudes beyond the threshold are folded into a tanh
	// knee.
	jaLimitThreshold = 1.5
	jaLimitRange     = 0.5
	jaLimitSlope     = 2.0

	dcBlockerFreq = 5.0
	dcBlockerQ    = 0.7071
)

// Processor is the per-channel saturation pipeline. Construct with New,
// reconfigure with SetSampleRate/SetProfile between processing blocks, and
// call ProcessSample once per sample from the audio thread.
type Processor struct {
	sampleRate float64
	cfg        config
	prm        params

	shield   shield
	hyst     hysteresis
	sat      *saturator
	eq       headbump
	smear    [numDispersiveStages]allpass.Stage
	dcBlock1 biquad.Section
	dcBlock2 biquad.Section
	az       *azimuth

	blendEnv   float64
	envAttack  float64
	envRelease float64

	fadeGain      float64
	fadeIncrement float64
}

// Option configures a Processor at construction time.
type Option func(*Processor) error

// WithMachineBias selects the machine from a continuous bias strength in
// [0, 1]; out-of-range values are clamped.
func WithMachineBias(bias float64) Option {
	return func(p *Processor) error {
		if !core.IsFinite(bias) {
			return fmt.Errorf("machine bias must be finite, got %v", bias)
		}

		p.cfg.machine = MachineForBias(core.Clamp(bias, 0, 1))

		return nil
	}
}

// WithInputGain sets the linear input gain.
func WithInputGain(gain float64) Option {
	return func(p *Processor) error {
		if !core.IsFinite(gain) {
			return fmt.Errorf("input gain must be finite, got %v", gain)
		}

		p.cfg.inputGain = gain

		return nil
	}
}

// WithFormula selects the tape stock.
func WithFormula(f Formula) Option {
	return func(p *Processor) error {
		if f != FormulaGP9 && f != FormulaSM900 {
			return fmt.Errorf("unknown tape formula %d", f)
		}

		p.cfg.formula = f

		return nil
	}
}

// New creates a Processor for one channel at the given sample rate. The
// default profile is the Ampex machine with GP9 tape at unity gain.
func New(sampleRate float64, opts ...Option) (*Processor, error) {
	p := &Processor{
		cfg: config{machine: MachineAmpex, formula: FormulaGP9, inputGain: 1},
		sat: newSaturator(),
		az:  newAzimuth(),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	if err := p.SetSampleRate(sampleRate); err != nil {
		return nil, err
	}

	p.Reset()

	return p, nil
}

// SetSampleRate recomputes every coefficient set, time constant, and delay
// scalar for the new rate. Filter state is preserved; call Reset afterwards
// when a clean start is wanted.
func (p *Processor) SetSampleRate(sampleRate float64) error {
	if !core.IsFinite(sampleRate) || sampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive and finite, got %v", sampleRate)
	}

	p.sampleRate = sampleRate

	p.envAttack = math.Exp(-1 / (blendAttackSeconds * sampleRate))
	p.envRelease = math.Exp(-1 / (blendReleaseSeconds * sampleRate))
	p.fadeIncrement = 1 / (fadeInSeconds * sampleRate)

	p.hyst.setSampleRate(sampleRate)

	dc := design.Highpass(dcBlockerFreq, dcBlockerQ, sampleRate)
	p.dcBlock1.SetCoefficients(dc)
	p.dcBlock2.SetCoefficients(dc)

	p.reconfigure()

	return nil
}

// SetProfile selects machine (from bias strength, threshold 0.74), input
// gain, and tape formula. Coefficients are re-derived only when the
// resulting configuration actually changes; a profile change overwrites any
// calibration overrides.
func (p *Processor) SetProfile(bias, inputGain float64, f Formula) error {
	if !core.IsFinite(bias) {
		return fmt.Errorf("bias strength must be finite, got %v", bias)
	}

	if !core.IsFinite(inputGain) {
		return fmt.Errorf("input gain must be finite, got %v", inputGain)
	}

	if f != FormulaGP9 && f != FormulaSM900 {
		return fmt.Errorf("unknown tape formula %d", f)
	}

	next := config{
		machine:   MachineForBias(core.Clamp(bias, 0, 1)),
		formula:   f,
		inputGain: inputGain,
	}

	if next == p.cfg {
		return nil
	}

	p.cfg = next
	p.reconfigure()

	return nil
}

// reconfigure derives the parameter set for the current config and pushes
// it into every sub-component.
func (p *Processor) reconfigure() {
	p.prm = deriveParams(p.cfg)

	p.hyst.setParameters(hysteresisParams{
		saturationMagnetization: p.prm.saturationMagnetization,
		wallDensity:             jaWallDensity,
		coercivity:              jaCoercivity,
		reversibility:           jaReversibility,
		meanField:               jaMeanField,
	})

	p.sat.configure(p.prm)
	p.shield.configure(p.cfg.machine, p.sampleRate)
	p.eq.configure(p.cfg.machine, p.sampleRate)

	for i := range p.smear {
		freq := p.prm.dispersiveCorner * math.Pow(2, float64(i)*0.5)
		p.smear[i].SetFrequency(freq, p.sampleRate)
	}

	p.az.setDelay(p.prm.azimuthMicros * 1e-6 * p.sampleRate)
}

// Reset zeroes all filter, solver, envelope, and delay state and restarts
// the fade-in ramp. Coefficients are untouched.
func (p *Processor) Reset() {
	p.shield.reset()
	p.hyst.reset()
	p.sat.reset()
	p.eq.reset()

	for i := range p.smear {
		p.smear[i].Reset()
	}

	p.dcBlock1.Reset()
	p.dcBlock2.Reset()
	p.az.reset()

	p.blendEnv = 0
	p.fadeGain = 0
}

// ProcessSample runs one input sample through the full pipeline.
func (p *Processor) ProcessSample(x float64) float64 {
	gained := x * p.cfg.inputGain

	// Parallel split: low frequencies enter the saturation path through the
	// bias shield, the complement bypasses it untouched.
	hf := p.shield.processSample(gained)
	cleanHF := gained - hf

	// Blend envelope over the shielded signal. The blend ratio itself is a
	// static machine constant; the envelope is tracked for dynamic blending
	// but does not modulate the ratio yet.
	level := math.Abs(hf)

	coeff := p.envRelease
	if level > p.blendEnv {
		coeff = p.envAttack
	}

	p.blendEnv = coeff*p.blendEnv + (1-coeff)*level

	jaOut := p.hyst.process(hf) * p.prm.outputScale

	if math.Abs(jaOut) > jaLimitThreshold {
		sign := 1.0
		if jaOut < 0 {
			sign = -1.0
		}

		excess := math.Abs(jaOut) - jaLimitThreshold
		jaOut = sign * (jaLimitThreshold + jaLimitRange*math.Tanh(jaLimitSlope*excess))
	}

	jaOut = core.Sanitize(jaOut, hf)

	blend := p.prm.hysteresisBlend
	blended := hf*(1-blend) + jaOut*blend

	out := p.sat.processSample(blended) + cleanHF

	out = p.eq.processSample(out)

	for i := range p.smear {
		out = p.smear[i].ProcessSample(out)
	}

	out = p.dcBlock1.ProcessSample(out)
	out = p.dcBlock2.ProcessSample(out)

	if p.fadeGain < 1 {
		out *= p.fadeGain

		p.fadeGain += p.fadeIncrement
		if p.fadeGain > 1 {
			p.fadeGain = 1
		}
	}

	return out
}

// ProcessSecondChannel runs the full pipeline and then the azimuth delay,
// modeling the channel that sits across the head gap skew.
func (p *Processor) ProcessSecondChannel(x float64) float64 {
	return p.az.processSample(p.ProcessSample(x))
}

// SampleRate returns the configured sample rate.
func (p *Processor) SampleRate() float64 { return p.sampleRate }

// Machine returns the currently selected machine.
func (p *Processor) Machine() Machine { return p.cfg.machine }

// Formula returns the currently selected tape formula.
func (p *Processor) Formula() Formula { return p.cfg.formula }

// InputGain returns the linear input gain.
func (p *Processor) InputGain() float64 { return p.cfg.inputGain }

// FadeInGain returns the current fade-in ramp value in [0, 1].
func (p *Processor) FadeInGain() float64 { return p.fadeGain }

// HysteresisBlend returns the active hysteresis blend ratio.
func (p *Processor) HysteresisBlend() float64 { return p.prm.hysteresisBlend }

// AzimuthDelay returns the second-channel delay in samples.
func (p *Processor) AzimuthDelay() float64 { return p.az.delaySamples }
