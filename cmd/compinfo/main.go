// Command compinfo prints the static transfer curve of the compressor and the
// harmonic distortion it adds to a sine tone.
//
// Usage:
//
//	compinfo [flags]
//
// Examples:
//
//	compinfo -threshold -18 -ratio 4
//	compinfo -threshold -30 -ratio 12 -tone 100 -level -3
//	compinfo -from -40 -to 0 -step 2 -detector rms
package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-comp/dsp/effects/dynamics"
	"github.com/cwbudde/algo-comp/internal/control"
	"github.com/cwbudde/algo-comp/measure/thd"
	vecmathcpu "github.com/cwbudde/algo-vecmath/cpu"
)

func main() {
	knobs := control.RegisterFlags(flag.CommandLine)
	from := flag.Float64("from", -60, "curve start in dBFS")
	to := flag.Float64("to", 6, "curve end in dBFS")
	step := flag.Float64("step", 6, "curve step in dB")
	tone := flag.Float64("tone", 1000, "test tone frequency in Hz (0 disables the distortion report)")
	level := flag.Float64("level", -6, "test tone peak level in dBFS")
	sampleRate := flag.Float64("sr", 48000, "sample rate in Hz")
	blockSize := flag.Int("block", 512, "host block size in samples")
	harmonics := flag.Int("harmonics", 5, "number of harmonics to list")
	showCPU := flag.Bool("cpu", false, "print the SIMD features used by the detector kernels")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: compinfo [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Prints the compressor transfer curve and tone distortion.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  compinfo -threshold -18 -ratio 4\n")
		fmt.Fprintf(os.Stderr, "  compinfo -threshold -30 -ratio 12 -tone 100 -level -3\n")
	}
	flag.Parse()

	if *showCPU {
		printCPU(os.Stdout)
		fmt.Println()
	}

	p, err := knobs.Parameters()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	points := transferCurve(p, *from, *to, *step)
	if len(points) == 0 {
		fmt.Fprintf(os.Stderr, "error: empty curve range %.1f..%.1f step %.1f\n", *from, *to, *step)
		os.Exit(2)
	}

	printCurve(os.Stdout, p, points)

	if *tone <= 0 {
		return
	}

	res, err := toneDistortion(p, *sampleRate, *tone, *level, *blockSize)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	printDistortion(os.Stdout, *tone, *level, res, *harmonics)
}

func printCurve(w io.Writer, p dynamics.Parameters, points []curvePoint) {
	fmt.Fprintf(w, "Threshold %.1f dB, ratio %g, in %+.1f dB, out %+.1f dB\n\n",
		p.ThresholdDB, p.Ratio, p.InputGainDB, p.OutputGainDB)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Input dB\tOutput dB\tGain dB\t")

	for _, pt := range points {
		fmt.Fprintf(tw, "%.1f\t%s\t%s\t\n", pt.InputDB, formatDB(pt.OutputDB), formatDB(pt.OutputDB-pt.InputDB))
	}

	tw.Flush()
}

func printDistortion(w io.Writer, freq, levelDB float64, res thd.Result, harmonics int) {
	fmt.Fprintf(w, "Tone %.0f Hz at %.1f dBFS\n", freq, levelDB)
	fmt.Fprintf(w, "  THD    %.4f%% (%s dB)\n", res.THD*100, formatDB(res.THD_dB))
	fmt.Fprintf(w, "  THD+N  %.4f%% (%s dB)\n", res.THDN*100, formatDB(res.THDN_dB))
	fmt.Fprintf(w, "  odd    %.4f%%\n", res.OddHD*100)
	fmt.Fprintf(w, "  even   %.4f%%\n", res.EvenHD*100)

	for i, h := range res.Harmonics {
		if i >= harmonics {
			break
		}

		fmt.Fprintf(w, "  H%-5d %s dB\n", i+2, formatDB(20*math.Log10(h)))
	}
}

func printCPU(w io.Writer) {
	f := vecmathcpu.DetectFeatures()
	fmt.Fprintf(w, "CPU %s: sse2=%t avx=%t avx2=%t avx512=%t neon=%t\n",
		f.Architecture, f.HasSSE2, f.HasAVX, f.HasAVX2, f.HasAVX512, f.HasNEON)
}

func formatDB(v float64) string {
	if math.IsInf(v, -1) {
		return "-inf"
	}

	return fmt.Sprintf("%.2f", v)
}
