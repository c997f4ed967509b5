// Package thd measures harmonic distortion of a processed tone.
//
// The compressor is a static waveshaper while its envelope is active, so a
// sine driven above the threshold comes out with harmonics. compinfo uses
// this package to report how much.
package thd

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/cwbudde/algo-fft"
)

const (
	defaultRangeLowerHz = 20.0
	defaultRangeUpperHz = 20000.0
)

// ErrEmptySignal is returned when there is nothing to analyze.
var ErrEmptySignal = errors.New("thd: empty signal")

// Config holds analysis parameters. Zero values select defaults.
type Config struct {
	SampleRate      float64
	FFTSize         int     // 0: next power of two of the signal length
	FundamentalFreq float64 // 0: strongest bin in range
	RangeLowerFreq  float64
	RangeUpperFreq  float64
	CaptureBins     int // 0: main-lobe width of Window
	MaxHarmonics    int // 0: every harmonic in range
	Window          Window
}

// Result holds distortion figures relative to the fundamental.
//
//nolint:revive
type Result struct {
	FundamentalFreq  float64
	FundamentalLevel float64
	THD              float64
	THDN             float64
	THD_dB           float64
	THDN_dB          float64
	OddHD            float64
	EvenHD           float64
	Noise            float64
	SINAD            float64
	// Harmonics[i] is the level of harmonic i+2 relative to the fundamental.
	Harmonics []float64
}

// AnalyzeSignal windows signal, transforms it and evaluates the spectrum.
func AnalyzeSignal(signal []float64, cfg Config) (Result, error) {
	if len(signal) == 0 {
		return Result{}, ErrEmptySignal
	}

	if cfg.SampleRate <= 0 || math.IsNaN(cfg.SampleRate) || math.IsInf(cfg.SampleRate, 0) {
		return Result{}, fmt.Errorf("thd: sample rate must be positive and finite: %f", cfg.SampleRate)
	}

	fftSize := cfg.FFTSize
	if fftSize <= 0 {
		fftSize = nextPowerOf2(len(signal))
	}

	if fftSize < len(signal) {
		signal = signal[:fftSize]
	}

	windowed := append([]float64(nil), signal...)
	cfg.Window.apply(windowed)

	in := make([]complex128, fftSize)
	for i, v := range windowed {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return Result{}, fmt.Errorf("thd: fft plan (size %d): %w", fftSize, err)
	}

	out := make([]complex128, fftSize)

	err = plan.Forward(out, in)
	if err != nil {
		return Result{}, fmt.Errorf("thd: forward fft: %w", err)
	}

	magSquared := make([]float64, fftSize/2+1)
	for i := range magSquared {
		x := out[i]
		magSquared[i] = real(x)*real(x) + imag(x)*imag(x)
	}

	cfg.FFTSize = fftSize

	return FromMagnitude(magSquared, cfg), nil
}

// FromMagnitude evaluates a squared-magnitude spectrum holding bins
// [0..Nyquist]. cfg.FFTSize defaults to 2*(len-1) and cfg.SampleRate to the
// FFT size.
//
//nolint:funlen
func FromMagnitude(magSquared []float64, cfg Config) Result {
	if len(magSquared) <= 1 {
		return Result{}
	}

	cfg = normalizeConfig(cfg)
	if cfg.FFTSize <= 0 {
		cfg.FFTSize = 2 * (len(magSquared) - 1)
	}

	if cfg.SampleRate <= 0 {
		cfg.SampleRate = float64(cfg.FFTSize)
	}

	maxBin := len(magSquared) - 1
	binHz := cfg.SampleRate / float64(cfg.FFTSize)

	lowerBin := clampInt(int(math.Round(cfg.RangeLowerFreq/binHz)), 1, maxBin)
	upperBin := clampInt(int(math.Round(cfg.RangeUpperFreq/binHz)), lowerBin, maxBin)

	fundamentalBin := findFundamentalBin(magSquared, cfg.FundamentalFreq, binHz, lowerBin, upperBin)

	captureBins := cfg.CaptureBins
	if captureBins <= 0 {
		captureBins = cfg.Window.mainLobeBins()
	}

	if captureBins*2 > fundamentalBin {
		captureBins = fundamentalBin / 2
	}

	res := Result{FundamentalFreq: float64(fundamentalBin) * binHz}

	fundamental := binLevel(magSquared, fundamentalBin, captureBins)
	if fundamental <= 0 {
		return res
	}

	var harmonicSum, oddSum, evenSum float64

	for k := 2; ; k++ {
		if cfg.MaxHarmonics > 0 && k-1 > cfg.MaxHarmonics {
			break
		}

		bin := k * fundamentalBin
		if bin > upperBin {
			break
		}

		v := binLevel(magSquared, bin, captureBins)
		harmonicSum += v

		if k%2 == 0 {
			evenSum += v
		} else {
			oddSum += v
		}

		res.Harmonics = append(res.Harmonics, v/fundamental)
	}

	total := 0.0
	for i := lowerBin; i <= upperBin; i++ {
		total += sqrtPositive(magSquared[i])
	}

	residual := math.Max(total-fundamental, 0)
	noise := math.Max(residual-harmonicSum, 0)

	res.FundamentalLevel = fundamental
	res.THD = harmonicSum / fundamental
	res.THDN = residual / fundamental
	res.THD_dB = ratioToDB(res.THD)
	res.THDN_dB = ratioToDB(res.THDN)
	res.OddHD = oddSum / fundamental
	res.EvenHD = evenSum / fundamental
	res.Noise = noise / fundamental

	res.SINAD = math.Inf(1)
	if res.THDN > 0 {
		res.SINAD = -ratioToDB(res.THDN)
	}

	return res
}

func normalizeConfig(cfg Config) Config {
	if cfg.RangeLowerFreq <= 0 {
		cfg.RangeLowerFreq = defaultRangeLowerHz
	}

	if cfg.RangeUpperFreq <= 0 {
		cfg.RangeUpperFreq = defaultRangeUpperHz
	}

	if cfg.RangeUpperFreq < cfg.RangeLowerFreq {
		cfg.RangeUpperFreq = cfg.RangeLowerFreq
	}

	cfg.CaptureBins = max(cfg.CaptureBins, 0)
	cfg.MaxHarmonics = max(cfg.MaxHarmonics, 0)

	return cfg
}

func findFundamentalBin(magSquared []float64, freq, binHz float64, lowerBin, upperBin int) int {
	if freq > 0 {
		return clampInt(int(math.Round(freq/binHz)), lowerBin, upperBin)
	}

	best := lowerBin
	for i := lowerBin + 1; i <= upperBin; i++ {
		if magSquared[i] > magSquared[best] {
			best = i
		}
	}

	return best
}

// binLevel sums magnitudes of bin and captureBins neighbors on each side.
func binLevel(magSquared []float64, bin, captureBins int) float64 {
	if bin < 0 || bin >= len(magSquared) {
		return 0
	}

	lo := max(bin-captureBins, 0)
	hi := min(bin+captureBins, len(magSquared)-1)

	sum := 0.0
	for i := lo; i <= hi; i++ {
		sum += sqrtPositive(magSquared[i])
	}

	return sum
}

func sqrtPositive(v float64) float64 {
	if v <= 0 {
		return 0
	}

	return math.Sqrt(v)
}

func ratioToDB(v float64) float64 {
	if v <= 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(v)
}

func clampInt(val, lo, hi int) int {
	return min(max(val, lo), hi)
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
