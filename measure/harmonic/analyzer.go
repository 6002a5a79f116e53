package harmonic

import (
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/sandovalmusic/Ampex-ATR-102-Studer-A820/dsp/core"
)

const defaultMaxHarmonics = 5

// Config describes one harmonic measurement.
type Config struct {
	// SampleRate of the signal in Hz.
	SampleRate float64

	// Fundamental frequency of the test tone in Hz.
	Fundamental float64

	// MaxHarmonics is the highest harmonic index measured, fundamental
	// included. Zero means 5 (fundamental plus harmonics 2..5).
	MaxHarmonics int
}

func (c Config) maxHarmonics() int {
	if c.MaxHarmonics < 2 {
		return defaultMaxHarmonics
	}

	return c.MaxHarmonics
}

// Result holds per-harmonic amplitudes and derived distortion metrics.
type Result struct {
	// Fundamental is the measured amplitude of the test tone.
	Fundamental float64

	// Harmonics holds the amplitudes of harmonics 2..MaxHarmonics, in
	// order. Harmonics above Nyquist read as zero.
	Harmonics []float64

	// THD is total harmonic distortion as a ratio
	// (sqrt of the harmonic power sum over the fundamental amplitude).
	THD float64

	// THDdB is THD expressed in dB (20*log10(THD)).
	THDdB float64

	// EvenHD and OddHD split the distortion into even (2, 4, ...) and odd
	// (3, 5, ...) harmonic contributions, each as a ratio to the
	// fundamental.
	EvenHD float64
	OddHD  float64

	// EvenOddRatio is EvenHD / OddHD, the tuning target for machine
	// character (odd-dominant below 1, even-dominant above).
	EvenOddRatio float64
}

// Analyze measures each harmonic with a separate Goertzel pass. Slower than
// the FFT path but exact on arbitrary (non-bin-centered) fundamentals.
func Analyze(signal []float64, cfg Config) Result {
	amplitudeAt := func(freq float64) float64 {
		return Goertzel(signal, freq, cfg.SampleRate)
	}

	return buildResult(amplitudeAt, cfg)
}

// AnalyzeSpectrum measures the harmonics from one Hann-windowed FFT,
// picking the peak bin near each harmonic frequency. Preferable when many
// harmonics are wanted from one capture.
func AnalyzeSpectrum(signal []float64, cfg Config) Result {
	n := len(signal)
	if n < 2 || cfg.SampleRate <= 0 || cfg.Fundamental <= 0 {
		return Result{}
	}

	fftSize := 1
	for fftSize < n {
		fftSize <<= 1
	}

	windowed := make([]float64, n)
	copy(windowed, signal)
	vecmath.MulBlockInPlace(windowed, hannWindow(n))

	in := make([]complex128, fftSize)
	for i, v := range windowed {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return Result{}
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return Result{}
	}

	binHz := cfg.SampleRate / float64(fftSize)
	maxBin := fftSize / 2

	amplitudeAt := func(freq float64) float64 {
		center := int(math.Round(freq / binHz))
		if center < 1 || center >= maxBin {
			return 0
		}

		// Spectral leakage spreads a non-bin-centered tone; take the peak
		// of the neighborhood.
		var peak float64

		for bin := center - 2; bin <= center+2; bin++ {
			if bin < 1 || bin >= maxBin {
				continue
			}

			if mag := cmplxAbs(out[bin]); mag > peak {
				peak = mag
			}
		}

		return 2 * peak / (float64(n) * hannCoherentGain)
	}

	return buildResult(amplitudeAt, cfg)
}

func cmplxAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}

// buildResult assembles the metric set from a per-frequency amplitude
// probe.
func buildResult(amplitudeAt func(freq float64) float64, cfg Config) Result {
	maxH := cfg.maxHarmonics()

	r := Result{
		Fundamental: amplitudeAt(cfg.Fundamental),
		Harmonics:   make([]float64, 0, maxH-1),
	}

	var harmonicPow, evenPow, oddPow float64

	for h := 2; h <= maxH; h++ {
		amp := amplitudeAt(float64(h) * cfg.Fundamental)
		r.Harmonics = append(r.Harmonics, amp)

		harmonicPow += amp * amp
		if h%2 == 0 {
			evenPow += amp * amp
		} else {
			oddPow += amp * amp
		}
	}

	if r.Fundamental <= 0 {
		return r
	}

	r.THD = math.Sqrt(harmonicPow) / r.Fundamental
	r.EvenHD = math.Sqrt(evenPow) / r.Fundamental
	r.OddHD = math.Sqrt(oddPow) / r.Fundamental

	r.THDdB = core.LinearToDB(r.THD)

	if r.OddHD > 0 {
		r.EvenOddRatio = r.EvenHD / r.OddHD
	}

	return r
}
