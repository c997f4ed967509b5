package thd

import (
	"errors"
	"math"
	"testing"
)

func TestFromMagnitudeKnownSpectrum(t *testing.T) {
	cfg := Config{
		SampleRate:      48000,
		FFTSize:         48000,
		FundamentalFreq: 1000,
		RangeLowerFreq:  20,
		RangeUpperFreq:  10000,
		MaxHarmonics:    3,
		Window:          WindowRectangular,
	}

	mag := make([]float64, cfg.FFTSize/2+1)
	mag[1000] = 1.0
	mag[2000] = 0.1 * 0.1
	mag[3000] = 0.05 * 0.05
	mag[4500] = 0.02 * 0.02 // not a harmonic

	res := FromMagnitude(mag, cfg)

	checks := []struct {
		name      string
		got, want float64
	}{
		{"fundamental freq", res.FundamentalFreq, 1000},
		{"fundamental level", res.FundamentalLevel, 1},
		{"THD", res.THD, 0.15},
		{"THDN", res.THDN, 0.17},
		{"noise", res.Noise, 0.02},
		{"odd", res.OddHD, 0.05},
		{"even", res.EvenHD, 0.1},
		{"SINAD", res.SINAD, 20 * math.Log10(1/0.17)},
		{"THD dB", res.THD_dB, 20 * math.Log10(0.15)},
	}

	for _, c := range checks {
		if math.Abs(c.got-c.want) > 1e-12 {
			t.Errorf("%s = %.12f, want %.12f", c.name, c.got, c.want)
		}
	}

	want := []float64{0.1, 0.05, 0}
	if len(res.Harmonics) != len(want) {
		t.Fatalf("harmonics = %v, want %v", res.Harmonics, want)
	}

	for i := range want {
		if math.Abs(res.Harmonics[i]-want[i]) > 1e-12 {
			t.Fatalf("harmonics = %v, want %v", res.Harmonics, want)
		}
	}
}

func TestFromMagnitudeAutodetectFundamental(t *testing.T) {
	cfg := Config{
		SampleRate:     48000,
		FFTSize:        48000,
		RangeLowerFreq: 20,
		RangeUpperFreq: 5000,
		Window:         WindowRectangular,
	}

	mag := make([]float64, cfg.FFTSize/2+1)
	mag[1000] = 0.8 * 0.8
	mag[1200] = 1.2 * 1.2
	mag[2400] = 0.1 * 0.1

	res := FromMagnitude(mag, cfg)
	if math.Abs(res.FundamentalFreq-1200) > 1e-9 {
		t.Fatalf("fundamental = %f, want 1200", res.FundamentalFreq)
	}

	if len(res.Harmonics) == 0 || math.Abs(res.Harmonics[0]-0.1/1.2) > 1e-12 {
		t.Fatalf("harmonics = %v, want H2 = %f first", res.Harmonics, 0.1/1.2)
	}
}

func TestFromMagnitudeCaptureBins(t *testing.T) {
	cfg := Config{
		SampleRate:      48000,
		FFTSize:         48000,
		FundamentalFreq: 1000,
		RangeUpperFreq:  5000,
		CaptureBins:     1,
	}

	mag := make([]float64, cfg.FFTSize/2+1)
	mag[999] = 0.2 * 0.2
	mag[1000] = 1.0
	mag[1001] = 0.2 * 0.2
	mag[2000] = 0.1 * 0.1
	mag[2001] = 0.05 * 0.05

	res := FromMagnitude(mag, cfg)

	if math.Abs(res.FundamentalLevel-1.4) > 1e-12 {
		t.Fatalf("fundamental level = %.12f, want 1.4", res.FundamentalLevel)
	}

	if math.Abs(res.THD-0.15/1.4) > 1e-12 {
		t.Fatalf("THD = %.12f, want %.12f", res.THD, 0.15/1.4)
	}
}

func TestFromMagnitudeSilence(t *testing.T) {
	res := FromMagnitude(make([]float64, 513), Config{SampleRate: 1024, FundamentalFreq: 100})

	if res.THD != 0 || res.FundamentalLevel != 0 {
		t.Fatalf("silence result = %+v", res)
	}

	if res := FromMagnitude([]float64{1}, Config{}); res.FundamentalFreq != 0 {
		t.Fatalf("single bin result = %+v", res)
	}
}

func TestAnalyzeSignalPureTone(t *testing.T) {
	sr := 48000.0
	n := 4096
	freq := 64 * sr / float64(n)

	signal := make([]float64, n)
	for i := range signal {
		signal[i] = math.Sin(2 * math.Pi * freq * float64(i) / sr)
	}

	for _, w := range []Window{WindowHann, WindowBlackman, WindowRectangular} {
		t.Run(w.String(), func(t *testing.T) {
			res, err := AnalyzeSignal(signal, Config{SampleRate: sr, FundamentalFreq: freq, Window: w})
			if err != nil {
				t.Fatalf("AnalyzeSignal() error = %v", err)
			}

			if res.FundamentalLevel <= 0 {
				t.Fatal("expected positive fundamental level")
			}

			if res.THD > 1e-3 {
				t.Fatalf("THD = %g, want near zero", res.THD)
			}
		})
	}
}

func TestAnalyzeSignalClippedToneHasOddHarmonics(t *testing.T) {
	sr := 48000.0
	n := 8192
	freq := 128 * sr / float64(n)

	signal := make([]float64, n)
	for i := range signal {
		signal[i] = math.Max(-0.5, math.Min(0.5, math.Sin(2*math.Pi*freq*float64(i)/sr)))
	}

	res, err := AnalyzeSignal(signal, Config{SampleRate: sr, FundamentalFreq: freq})
	if err != nil {
		t.Fatalf("AnalyzeSignal() error = %v", err)
	}

	if res.THD < 0.05 {
		t.Fatalf("THD = %g, want clear distortion", res.THD)
	}

	if res.OddHD <= 10*res.EvenHD {
		t.Fatalf("symmetric clipping should be odd-dominant: odd %g even %g", res.OddHD, res.EvenHD)
	}
}

func TestAnalyzeSignalErrors(t *testing.T) {
	_, err := AnalyzeSignal(nil, Config{SampleRate: 48000})
	if !errors.Is(err, ErrEmptySignal) {
		t.Fatalf("error = %v, want ErrEmptySignal", err)
	}

	_, err = AnalyzeSignal([]float64{1, 0, -1, 0}, Config{SampleRate: math.NaN()})
	if err == nil {
		t.Fatal("expected error for NaN sample rate")
	}
}

func TestWindowCoefficients(t *testing.T) {
	w := WindowHann.coefficients(4)
	want := []float64{0, 0.75, 0.75, 0}

	for i := range want {
		if math.Abs(w[i]-want[i]) > 1e-12 {
			t.Fatalf("hann(4) = %v, want %v", w, want)
		}
	}

	if got := WindowBlackman.coefficients(1); len(got) != 1 || got[0] != 1 {
		t.Fatalf("blackman(1) = %v", got)
	}
}
