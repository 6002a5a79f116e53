package tape

import (
	"github.com/sandovalmusic/Ampex-ATR-102-Studer-A820/dsp/delay"
	"github.com/sandovalmusic/Ampex-ATR-102-Studer-A820/dsp/filter/allpass"
)

// azimuthMinDelay is the delay below which the stage becomes a pass-through;
// Thiran coefficients degenerate as the delay approaches zero.
const azimuthMinDelay = 0.1

// azimuth models the inter-channel timing skew of head azimuth
// misalignment: an integer delay line plus a first-order Thiran allpass for
// the fractional remainder. Allpass interpolation keeps the magnitude
// response flat; only phase is affected.
type azimuth struct {
	line   *delay.Line
	thiran allpass.Thiran

	delaySamples float64
	intDelay     int
}

func newAzimuth() *azimuth {
	return &azimuth{line: delay.NewLine(8)}
}

// setDelay sets the total delay in samples and splits it into the integer
// read offset and the Thiran fraction. Grows the line if a calibration
// override asks for more than the default headroom.
func (az *azimuth) setDelay(samples float64) {
	if samples < 0 {
		samples = 0
	}

	az.delaySamples = samples
	az.intDelay = int(samples)

	if az.intDelay+2 > az.line.Len() {
		az.line = delay.NewLine(az.intDelay + 2)
	}

	az.thiran.SetFraction(samples - float64(az.intDelay))
}

func (az *azimuth) reset() {
	az.line.Reset()
	az.thiran.Reset()
}

// processSample delays one sample by the configured amount.
func (az *azimuth) processSample(x float64) float64 {
	az.line.Write(x)

	if az.delaySamples < azimuthMinDelay {
		return x
	}

	// Read(k) is the sample written k calls ago, so the integer-delayed tap
	// sits at intDelay+1 and the next-older tap at intDelay+2.
	curr := az.line.Read(az.intDelay + 1)
	prev := az.line.Read(az.intDelay + 2)

	return az.thiran.ProcessSample(curr, prev)
}
