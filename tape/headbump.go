package tape

import (
	"github.com/sandovalmusic/Ampex-ATR-102-Studer-A820/dsp/filter/biquad"
	"github.com/sandovalmusic/Ampex-ATR-102-Studer-A820/dsp/filter/design"
)

// headbump is the machine playback equalizer: a fixed cascade of high-pass,
// bell, and low-pass sections fitted to measured head-bump response curves.
// Both machine cascades are designed whenever the sample rate changes, so
// switching machines swaps a pointer instead of recomputing coefficients.
type headbump struct {
	ampex  *biquad.Chain
	studer *biquad.Chain
	active *biquad.Chain
}

// configure designs both machine cascades for the sample rate and keeps the
// current machine selection.
func (hb *headbump) configure(m Machine, sampleRate float64) {
	hb.ampex = biquad.NewChain(ampexResponse(sampleRate))
	hb.studer = biquad.NewChain(studerResponse(sampleRate))
	hb.setMachine(m)
}

func (hb *headbump) setMachine(m Machine) {
	if m == MachineAmpex {
		hb.active = hb.ampex
		return
	}

	hb.active = hb.studer
}

func (hb *headbump) reset() {
	hb.ampex.Reset()
	hb.studer.Reset()
}

func (hb *headbump) processSample(x float64) float64 {
	return hb.active.ProcessSample(x)
}

// ampexResponse fits the ATR-102 playback curve: 15 Hz -1.5 dB, head bump
// +1.1 dB at 40 Hz, near-flat mids, a shallow 5.5 kHz trough, and a 30 kHz
// rolloff. Zero-gain bells are placeholders kept from the fit.
func ampexResponse(fs float64) []biquad.Coefficients {
	return []biquad.Coefficients{
		design.Highpass(16.0, 0.7071, fs),
		design.Peak(15.0, 2.0, 6.0, fs),
		design.Peak(40.0, 1.2, 2.0, fs),
		design.Peak(75.0, -0.1, 2.0, fs),
		design.Peak(100.0, 0.3, 2.0, fs),
		design.Peak(150.0, 0.0, 2.0, fs),
		design.Peak(250.0, -0.1, 2.0, fs),
		design.Peak(1000.0, 0.1, 1.5, fs),
		design.Peak(5500.0, -0.25, 1.0, fs),
		design.Peak(10500.0, 0.0, 1.5, fs),
		design.Peak(clampCorner(18000.0, fs), 0.35, 1.0, fs),
		design.Lowpass(clampCorner(30000.0, fs), 0.7, fs),
	}
}

// studerResponse fits the A820 playback curve: steep 18 dB/oct low cut,
// twin head bumps at 46 and 110 Hz, and a gentle HF lift.
func studerResponse(fs float64) []biquad.Coefficients {
	return []biquad.Coefficients{
		design.Highpass(27.0, 1.0, fs),
		design.HighpassFirstOrder(30.5, fs),
		design.Peak(46.0, 1.10, 1.4, fs),
		design.Peak(70.0, -0.50, 2.0, fs),
		design.Peak(110.0, 1.20, 2.0, fs),
		design.Peak(160.0, 0.30, 1.5, fs),
		design.Peak(200.0, -0.30, 2.0, fs),
		design.Peak(600.0, 0.20, 1.5, fs),
		design.Peak(5000.0, 0.50, 1.0, fs),
		design.Peak(10000.0, -0.25, 1.5, fs),
		design.Peak(clampCorner(20000.0, fs), 0.50, 1.0, fs),
	}
}
