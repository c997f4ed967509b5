package dynamics

import (
	"math"

	"github.com/cwbudde/algo-comp/dsp/core"
)

// gainStage holds the linear values derived from one Parameters snapshot.
type gainStage struct {
	threshold float64 // linear threshold
	ratio     float64 // linear multiplier applied to the overshoot
	outGain   float64 // linear output gain
	timing    Timing
}

func newGainStage(p Parameters, sampleRate float64) gainStage {
	return gainStage{
		threshold: dbToLinear(p.ThresholdDB),
		ratio:     1.0 / dbToLinear(p.Ratio),
		outGain:   dbToLinear(p.OutputGainDB),
		timing:    p.Timing(sampleRate),
	}
}

// compressed splits |x| at the threshold and scales the part above it.
func (g *gainStage) compressed(x float64) float64 {
	mag := math.Abs(x)
	base := math.Min(mag, g.threshold)
	remainder := math.Max(mag-g.threshold, 0)

	return core.Sign(x) * (base + remainder*g.ratio)
}

func (g *gainStage) process(x, level float64, st *EnvelopeState) float64 {
	y := st.Interpolate(level, x, g.compressed(x), g.threshold, g.timing)
	return y * g.outGain
}

// CompressSample maps one input sample to one output sample and advances st.
//
// The sample is expected to already include the input gain; level is the
// block magnitude computed by ComputeMagnitude on the gained block.
//
// Steps:
//  1. threshold and output gain are converted from dB to linear
//  2. |sample| is split into the part up to the threshold and the overshoot
//  3. the overshoot is scaled by 1/10^(Ratio/20)
//  4. the sign is restored
//  5. the envelope blends compressed and uncompressed values
//  6. the result is scaled by the output gain
//
// Given the same inputs and the same prior state the result is identical.
// It does not allocate.
func CompressSample(sample, level float64, p Parameters, st *EnvelopeState, sampleRate float64) float64 {
	g := newGainStage(p, sampleRate)
	return g.process(sample, level, st)
}

// StaticOutputLevel returns the steady-state output magnitude for a constant
// input magnitude while the envelope is active. Input gain is included, so
// the result describes the whole device.
func StaticOutputLevel(p Parameters, inputLevel float64) float64 {
	g := newGainStage(p, 1)
	x := math.Abs(inputLevel) * dbToLinear(p.InputGainDB)

	return g.compressed(x) * g.outGain
}

func dbToLinear(db float64) float64 {
	return mathPower10(db / 20.0)
}
