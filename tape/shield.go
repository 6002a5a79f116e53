package tape

import (
	"github.com/sandovalmusic/Ampex-ATR-102-Studer-A820/dsp/filter/biquad"
	"github.com/sandovalmusic/Ampex-ATR-102-Studer-A820/dsp/filter/design"
)

// shield models the frequency-dependent linearization of AC bias: a
// shelf-shelf-bell cascade that attenuates the high-frequency energy which
// should bypass the saturation path. The cascade is DC-normalized so low
// frequencies pass at unity; the orchestrator extracts the complementary
// clean-HF signal algebraically as input minus shield output.
type shield struct {
	shelf1 biquad.Section
	shelf2 biquad.Section
	bell   biquad.Section

	dcNormGain float64
}

// configure designs the machine-specific cascade. The 432 kHz Ampex bias
// linearizes more of the spectrum than the 153.6 kHz Studer bias, so Ampex
// gets the deeper cut.
func (sh *shield) configure(m Machine, sampleRate float64) {
	var c1, c2, cb biquad.Coefficients

	if m == MachineAmpex {
		c1 = design.HighShelf(clampCorner(7000, sampleRate), -7.0, 1.0, sampleRate)
		c2 = design.HighShelf(clampCorner(15000, sampleRate), -4.0, 1.0, sampleRate)
		cb = design.Peak(clampCorner(5000, sampleRate), -3.5, 2.0, sampleRate)
	} else {
		c1 = design.HighShelf(clampCorner(7500, sampleRate), -6.0, 0.8, sampleRate)
		c2 = design.HighShelf(clampCorner(16000, sampleRate), -3.0, 1.0, sampleRate)
		cb = design.Peak(clampCorner(6000, sampleRate), -2.0, 2.0, sampleRate)
	}

	sh.shelf1.SetCoefficients(c1)
	sh.shelf2.SetCoefficients(c2)
	sh.bell.SetCoefficients(cb)

	dc := c1.DCGain() * c2.DCGain() * cb.DCGain()
	if dc == 0 {
		sh.dcNormGain = 1
		return
	}

	sh.dcNormGain = 1 / dc
}

func (sh *shield) reset() {
	sh.shelf1.Reset()
	sh.shelf2.Reset()
	sh.bell.Reset()
}

func (sh *shield) processSample(x float64) float64 {
	y := sh.shelf1.ProcessSample(x)
	y = sh.shelf2.ProcessSample(y)
	y = sh.bell.ProcessSample(y)

	return y * sh.dcNormGain
}

// clampCorner keeps fixed analog-modeled corner frequencies below Nyquist
// at low sample rates, where the design functions would otherwise reject
// them.
func clampCorner(freq, sampleRate float64) float64 {
	limit := 0.47 * sampleRate
	if freq > limit {
		return limit
	}

	return freq
}
