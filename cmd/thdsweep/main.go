// Command thdsweep measures harmonic distortion of the tape pipeline across
// the four machine/formula modes and a range of drive levels. It is an
// offline calibration tool; it renders test tones through the processor and
// tabulates THD, even/odd balance, and fundamental level.
package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"text/tabwriter"

	"github.com/alecthomas/kong"

	"github.com/sandovalmusic/Ampex-ATR-102-Studer-A820/measure/harmonic"
	"github.com/sandovalmusic/Ampex-ATR-102-Studer-A820/tape"
)

// CLI defines the command-line interface.
type CLI struct {
	SampleRate float64   `default:"96000" help:"Sample rate in Hz"`
	Freq       float64   `default:"1000" help:"Test tone frequency in Hz"`
	Levels     []float64 `default:"0.1,0.316,0.5,1.0" help:"Peak input levels to sweep"`
	Seconds    float64   `default:"1.0" help:"Tone length per measurement in seconds"`
	Harmonics  int       `default:"5" help:"Highest harmonic to measure"`
	Spectrum   bool      `help:"Use the FFT analyzer instead of per-harmonic Goertzel"`
}

type mode struct {
	name    string
	bias    float64
	formula tape.Formula
}

var modes = []mode{
	{"Ampex GP9", 0.5, tape.FormulaGP9},
	{"Ampex SM900", 0.5, tape.FormulaSM900},
	{"Studer GP9", 0.8, tape.FormulaGP9},
	{"Studer SM900", 0.8, tape.FormulaSM900},
}

func main() {
	cli := &CLI{}
	kong.Parse(cli,
		kong.Name("thdsweep"),
		kong.Description("THD sweep across tape machine/formula modes"),
		kong.UsageOnError(),
	)

	if err := run(cli, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "thdsweep:", err)
		os.Exit(1)
	}
}

func run(cli *CLI, out io.Writer) error {
	n := int(cli.Seconds * cli.SampleRate)
	if n < 1024 {
		return fmt.Errorf("tone too short: %d samples", n)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MODE\tLEVEL\tTHD %\tTHD dB\tE/O\tFUNDAMENTAL")

	for _, m := range modes {
		for _, level := range cli.Levels {
			r, err := measure(cli, m, level, n)
			if err != nil {
				return err
			}

			fmt.Fprintf(w, "%s\t%.3f\t%.4f\t%.1f\t%.2f\t%.4f\n",
				m.name, level, r.THD*100, r.THDdB, r.EvenOddRatio, r.Fundamental)
		}
	}

	return w.Flush()
}

func measure(cli *CLI, m mode, level float64, n int) (harmonic.Result, error) {
	p, err := tape.New(cli.SampleRate,
		tape.WithMachineBias(m.bias),
		tape.WithFormula(m.formula),
	)
	if err != nil {
		return harmonic.Result{}, err
	}

	// Pre-roll past the fade-in and envelope settling before capturing.
	preroll := int(0.3 * cli.SampleRate)
	captured := make([]float64, n)

	omega := 2 * math.Pi * cli.Freq / cli.SampleRate

	for i := 0; i < preroll+len(captured); i++ {
		x := level * math.Sin(omega*float64(i))

		y := p.ProcessSample(x)
		if i >= preroll {
			captured[i-preroll] = y
		}
	}

	cfg := harmonic.Config{
		SampleRate:   cli.SampleRate,
		Fundamental:  cli.Freq,
		MaxHarmonics: cli.Harmonics,
	}

	if cli.Spectrum {
		return harmonic.AnalyzeSpectrum(captured, cfg), nil
	}

	return harmonic.Analyze(captured, cfg), nil
}
