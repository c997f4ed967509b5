package thd

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Window selects the analysis window applied before the FFT.
type Window int

const (
	// WindowHann is the default analysis window.
	WindowHann Window = iota
	WindowRectangular
	WindowBlackman
)

// String returns the window name.
func (w Window) String() string {
	switch w {
	case WindowHann:
		return "hann"
	case WindowRectangular:
		return "rectangular"
	case WindowBlackman:
		return "blackman"
	default:
		return "unknown"
	}
}

// mainLobeBins is the distance from the peak to the first spectral minimum.
func (w Window) mainLobeBins() int {
	switch w {
	case WindowRectangular:
		return 1
	case WindowBlackman:
		return 3
	default:
		return 2
	}
}

func (w Window) coefficients(length int) []float64 {
	out := make([]float64, length)
	if length == 1 {
		out[0] = 1
		return out
	}

	denom := float64(length - 1)
	for i := range out {
		phase := 2 * math.Pi * float64(i) / denom

		switch w {
		case WindowRectangular:
			out[i] = 1
		case WindowBlackman:
			out[i] = 0.42 - 0.5*math.Cos(phase) + 0.08*math.Cos(2*phase)
		default:
			out[i] = 0.5 - 0.5*math.Cos(phase)
		}
	}

	return out
}

// apply multiplies buf by the window in place.
func (w Window) apply(buf []float64) {
	if len(buf) == 0 || w == WindowRectangular {
		return
	}

	vecmath.MulBlockInPlace(buf, w.coefficients(len(buf)))
}
