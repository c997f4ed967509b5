package main

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-comp/dsp/core"
	"github.com/cwbudde/algo-comp/dsp/effects/dynamics"
	"github.com/cwbudde/algo-comp/measure/thd"
)

const analysisFFTSize = 8192

type curvePoint struct {
	InputDB  float64
	OutputDB float64
}

// transferCurve samples StaticOutputLevel from fromDB to toDB inclusive.
func transferCurve(p dynamics.Parameters, fromDB, toDB, stepDB float64) []curvePoint {
	if stepDB <= 0 || toDB < fromDB {
		return nil
	}

	n := int(math.Floor((toDB-fromDB)/stepDB+1e-9)) + 1
	points := make([]curvePoint, 0, n)

	for i := range n {
		in := fromDB + float64(i)*stepDB
		out := dynamics.StaticOutputLevel(p, core.DBToLinear(in))
		points = append(points, curvePoint{InputDB: in, OutputDB: core.LinearToDB(out)})
	}

	return points
}

// toneDistortion runs a sine through the block processor and measures the
// settled second half.
func toneDistortion(p dynamics.Parameters, sampleRate, freq, levelDB float64, blockSize int) (thd.Result, error) {
	if blockSize < 1 {
		return thd.Result{}, fmt.Errorf("block size must be at least 1: %d", blockSize)
	}

	if freq <= 0 || freq >= sampleRate/2 {
		return thd.Result{}, fmt.Errorf("tone must be between 0 and %.0f Hz: %f", sampleRate/2, freq)
	}

	proc, err := dynamics.NewProcessor(sampleRate, 1)
	if err != nil {
		return thd.Result{}, err
	}

	// Snap to a bin so the window does not smear the harmonics.
	binHz := sampleRate / analysisFFTSize
	freq = math.Max(1, math.Round(freq/binHz)) * binHz

	amp := core.DBToLinear(levelDB)
	signal := make([]float64, 2*analysisFFTSize)

	for i := range signal {
		signal[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/sampleRate)
	}

	block := make([][]float64, 1)
	for pos := 0; pos < len(signal); pos += blockSize {
		block[0] = signal[pos:min(pos+blockSize, len(signal))]
		proc.ProcessBlock(block, p)
	}

	return thd.AnalyzeSignal(signal[analysisFFTSize:], thd.Config{
		SampleRate:      sampleRate,
		FFTSize:         analysisFFTSize,
		FundamentalFreq: freq,
		Window:          thd.WindowBlackman,
	})
}
