package tape

import (
	"math"
	"testing"

	"github.com/sandovalmusic/Ampex-ATR-102-Studer-A820/internal/testutil"
	"github.com/sandovalmusic/Ampex-ATR-102-Studer-A820/measure/harmonic"
)

func mustNew(t *testing.T, fs float64, opts ...Option) *Processor {
	t.Helper()

	p, err := New(fs, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	return p
}

func TestNew_Defaults(t *testing.T) {
	p := mustNew(t, 48000)

	if p.Machine() != MachineAmpex || p.Formula() != FormulaGP9 {
		t.Fatalf("default profile: got %v/%v", p.Machine(), p.Formula())
	}

	if p.InputGain() != 1 {
		t.Fatalf("default gain: got %v", p.InputGain())
	}

	if p.SampleRate() != 48000 {
		t.Fatalf("sample rate: got %v", p.SampleRate())
	}
}

func TestNew_InvalidInputs(t *testing.T) {
	if _, err := New(0); err == nil {
		t.Error("zero sample rate should fail")
	}

	if _, err := New(-48000); err == nil {
		t.Error("negative sample rate should fail")
	}

	if _, err := New(48000, WithInputGain(math.NaN())); err == nil {
		t.Error("NaN input gain should fail")
	}

	if _, err := New(48000, WithMachineBias(math.Inf(1))); err == nil {
		t.Error("infinite bias should fail")
	}

	if _, err := New(48000, WithFormula(Formula(7))); err == nil {
		t.Error("unknown formula should fail")
	}
}

func TestWithMachineBias_SelectsMachine(t *testing.T) {
	ampex := mustNew(t, 48000, WithMachineBias(0.5))
	studer := mustNew(t, 48000, WithMachineBias(0.9))

	if ampex.Machine() != MachineAmpex || studer.Machine() != MachineStuder {
		t.Fatalf("machines: got %v and %v", ampex.Machine(), studer.Machine())
	}

	// Out-of-range bias clamps rather than fails.
	clamped := mustNew(t, 48000, WithMachineBias(3.0))
	if clamped.Machine() != MachineStuder {
		t.Fatalf("clamped bias: got %v", clamped.Machine())
	}
}

func TestProcessor_FinitenessUnderHostileInput(t *testing.T) {
	const fs = 48000.0

	inputs := map[string][]float64{
		"impulse": testutil.Impulse(4000, 100),
		"step":    testutil.DC(4000, 10),
		"noise":   testutil.Noise(4000, 10, 0xdead),
	}

	modes := []struct {
		bias    float64
		formula Formula
	}{
		{0.5, FormulaGP9},
		{0.5, FormulaSM900},
		{0.8, FormulaGP9},
		{0.8, FormulaSM900},
	}

	for name, input := range inputs {
		for _, m := range modes {
			p := mustNew(t, fs, WithMachineBias(m.bias), WithFormula(m.formula))

			out := make([]float64, len(input))
			for i, x := range input {
				out[i] = p.ProcessSample(x)
			}

			for i, y := range out {
				if math.IsNaN(y) || math.IsInf(y, 0) {
					t.Fatalf("%s bias=%v formula=%v: non-finite at %d: %v",
						name, m.bias, m.formula, i, y)
				}
			}
		}
	}
}

func TestProcessor_SilenceConvergesToSilence(t *testing.T) {
	const fs = 48000.0

	p := mustNew(t, fs)

	n := int(2 * fs)
	out := make([]float64, n)

	for i := range out {
		out[i] = p.ProcessSample(0)
	}

	// After the fade-in and DC-blocker transients the output must settle
	// below 1e-9.
	for i := n - 1000; i < n; i++ {
		if math.Abs(out[i]) > 1e-9 {
			t.Fatalf("sample %d: residual %v, want < 1e-9", i, out[i])
		}
	}
}

func TestProcessor_FadeInMonotoneReachesOne(t *testing.T) {
	const fs = 48000.0

	p := mustNew(t, fs)

	prev := p.FadeInGain()
	if prev != 0 {
		t.Fatalf("fade-in after reset: got %v, want 0", prev)
	}

	fadeSamples := int(fadeInSeconds*fs) + 100
	for i := 0; i < fadeSamples; i++ {
		p.ProcessSample(0)

		g := p.FadeInGain()
		if g < prev {
			t.Fatalf("sample %d: fade-in decreased from %v to %v", i, prev, g)
		}

		if g > 1 {
			t.Fatalf("sample %d: fade-in exceeded 1: %v", i, g)
		}

		prev = g
	}

	if p.FadeInGain() != 1 {
		t.Fatalf("fade-in after ramp: got %v, want exactly 1", p.FadeInGain())
	}

	// Reset restarts the ramp.
	p.Reset()
	if p.FadeInGain() != 0 {
		t.Fatalf("fade-in after second reset: got %v, want 0", p.FadeInGain())
	}
}

func TestProcessor_BlendRatioStatic(t *testing.T) {
	// The blend envelope is tracked per sample, but the blend ratio itself
	// stays a fixed profile constant; dynamic modulation is deliberately
	// not wired in.
	const fs = 48000.0

	p := mustNew(t, fs, WithMachineBias(0.5), WithFormula(FormulaGP9))

	want := deriveParams(config{machine: MachineAmpex, formula: FormulaGP9, inputGain: 1}).hysteresisBlend
	if p.HysteresisBlend() != want {
		t.Fatalf("blend ratio: got %v, want %v", p.HysteresisBlend(), want)
	}

	for _, x := range testutil.Sine(4800, 1000, 1.0, fs) {
		p.ProcessSample(x)
	}

	if p.HysteresisBlend() != want {
		t.Fatalf("blend ratio drifted under signal: got %v, want %v", p.HysteresisBlend(), want)
	}
}

func TestProcessor_ProfileSwitchStability(t *testing.T) {
	const fs = 48000.0

	p := mustNew(t, fs, WithMachineBias(0.5), WithFormula(FormulaGP9))

	input := testutil.Sine(2000, 1000, 1.0, fs)
	for _, x := range input {
		p.ProcessSample(x)
	}

	if err := p.SetProfile(0.9, 1.0, FormulaSM900); err != nil {
		t.Fatalf("SetProfile: %v", err)
	}

	p.Reset()

	for i, x := range input[:100] {
		y := p.ProcessSample(x)
		if math.Abs(y) > 2 {
			t.Fatalf("sample %d after switch: |y|=%v exceeds 2", i, math.Abs(y))
		}
	}
}

func TestProcessor_SetProfileSkipsRecomputeWhenUnchanged(t *testing.T) {
	p := mustNew(t, 48000, WithMachineBias(0.5))

	if err := p.SetHysteresisBlend(0.5); err != nil {
		t.Fatalf("SetHysteresisBlend: %v", err)
	}

	// Same resulting config: calibration override must survive.
	if err := p.SetProfile(0.3, 1.0, FormulaGP9); err != nil {
		t.Fatalf("SetProfile: %v", err)
	}

	if p.HysteresisBlend() != 0.5 {
		t.Fatalf("override lost on no-op SetProfile: blend %v", p.HysteresisBlend())
	}

	// A real profile change overwrites it.
	if err := p.SetProfile(0.9, 1.0, FormulaGP9); err != nil {
		t.Fatalf("SetProfile: %v", err)
	}

	if p.HysteresisBlend() == 0.5 {
		t.Fatal("profile change should overwrite calibration override")
	}
}

func TestProcessor_THDOrdering(t *testing.T) {
	const (
		fs   = 96000.0
		freq = 1000.0
	)

	thdFor := func(bias float64, f Formula) float64 {
		p := mustNew(t, fs, WithMachineBias(bias), WithFormula(f))

		preroll := int(0.5 * fs)
		captured := make([]float64, int(0.5*fs))

		for i := 0; i < preroll+len(captured); i++ {
			x := math.Sin(2 * math.Pi * freq * float64(i) / fs)

			y := p.ProcessSample(x)
			if i >= preroll {
				captured[i-preroll] = y
			}
		}

		r := harmonic.Analyze(captured, harmonic.Config{SampleRate: fs, Fundamental: freq})

		return r.THD
	}

	ampexGP9 := thdFor(0.5, FormulaGP9)
	studerSM900 := thdFor(0.8, FormulaSM900)

	if ampexGP9 < 0.0005 || ampexGP9 > 0.0015 {
		t.Fatalf("Ampex GP9 THD: got %v, want within [0.0005, 0.0015]", ampexGP9)
	}

	if studerSM900 <= ampexGP9 {
		t.Fatalf("THD ordering: Studer SM900 %v should exceed Ampex GP9 %v",
			studerSM900, ampexGP9)
	}
}

func TestProcessor_Determinism(t *testing.T) {
	const fs = 48000.0

	a := mustNew(t, fs, WithMachineBias(0.8), WithFormula(FormulaSM900))
	b := mustNew(t, fs, WithMachineBias(0.8), WithFormula(FormulaSM900))

	input := testutil.Noise(10000, 1, 0xcafe)
	ya := make([]float64, len(input))
	yb := make([]float64, len(input))

	for i, x := range input {
		ya[i] = a.ProcessSample(x)
		yb[i] = b.ProcessSample(x)
	}

	testutil.RequireSliceNearlyEqual(t, ya, yb, 1e-12)
}

func TestProcessor_SecondChannelIsDelayedPrimary(t *testing.T) {
	const (
		fs    = 48000.0
		delay = 2
	)

	primary := mustNew(t, fs)
	second := mustNew(t, fs)

	if err := second.SetAzimuthDelay(delay); err != nil {
		t.Fatalf("SetAzimuthDelay: %v", err)
	}

	input := testutil.Noise(2000, 1, 0xf00d)

	ref := make([]float64, len(input))
	for i, x := range input {
		ref[i] = primary.ProcessSample(x)
	}

	for i, x := range input {
		y := second.ProcessSecondChannel(x)

		if i < delay {
			continue
		}

		if math.Abs(y-ref[i-delay]) > 1e-9 {
			t.Fatalf("sample %d: second channel %v, want delayed primary %v", i, y, ref[i-delay])
		}
	}
}

func TestProcessor_InputGainScalesDrive(t *testing.T) {
	const fs = 48000.0

	quiet := mustNew(t, fs, WithInputGain(0.1))
	loud := mustNew(t, fs, WithInputGain(1.0))

	input := testutil.Sine(24000, 1000, 1.0, fs)

	var rmsQuiet, rmsLoud float64
	for _, x := range input {
		yq := quiet.ProcessSample(x)
		yl := loud.ProcessSample(x)
		rmsQuiet += yq * yq
		rmsLoud += yl * yl
	}

	if rmsLoud <= rmsQuiet {
		t.Fatal("higher input gain should produce higher output level")
	}
}

func TestProcessor_CalibrationSetterValidation(t *testing.T) {
	p := mustNew(t, 48000)

	cases := []struct {
		name string
		err  error
	}{
		{"negative a3", p.SetCubicCoefficient(-1)},
		{"nan power", p.SetCubicPower(math.NaN())},
		{"scale above one", p.SetLowLevelScale(1.5)},
		{"zero threshold", p.SetLowLevelThreshold(0)},
		{"negative curve power", p.SetCurvePower(-2)},
		{"negative knee", p.SetHighLevelKnee(-1, 1)},
		{"inf knee amount", p.SetHighLevelKnee(0.5, math.Inf(1))},
		{"blend above one", p.SetHysteresisBlend(1.5)},
		{"negative azimuth", p.SetAzimuthDelay(-1)},
		{"nan bias", p.SetInputBias(math.NaN())},
	}

	for _, tc := range cases {
		if tc.err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestProcessor_CalibrationSettersApply(t *testing.T) {
	p := mustNew(t, 48000)

	if err := p.SetCubicCoefficient(0.01); err != nil {
		t.Fatalf("SetCubicCoefficient: %v", err)
	}

	if p.sat.a3 != 0.01 {
		t.Fatalf("a3 override: got %v", p.sat.a3)
	}

	if err := p.SetAzimuthDelay(3.25); err != nil {
		t.Fatalf("SetAzimuthDelay: %v", err)
	}

	if p.AzimuthDelay() != 3.25 {
		t.Fatalf("azimuth override: got %v", p.AzimuthDelay())
	}
}

func TestProcessor_SetSampleRateRescalesAzimuth(t *testing.T) {
	p := mustNew(t, 48000, WithMachineBias(0.8))

	// Studer delay is 12 us.
	want48 := 12e-6 * 48000
	if math.Abs(p.AzimuthDelay()-want48) > 1e-12 {
		t.Fatalf("azimuth at 48k: got %v, want %v", p.AzimuthDelay(), want48)
	}

	if err := p.SetSampleRate(96000); err != nil {
		t.Fatalf("SetSampleRate: %v", err)
	}

	want96 := 12e-6 * 96000
	if math.Abs(p.AzimuthDelay()-want96) > 1e-12 {
		t.Fatalf("azimuth at 96k: got %v, want %v", p.AzimuthDelay(), want96)
	}
}
