package dynamics

import (
	"github.com/cwbudde/algo-vecmath"
)

// ComputeMagnitude returns the block statistic selected by mode. Empty input
// yields 0. An unknown mode is treated as peak.
func ComputeMagnitude(samples []float64, mode DetectorMode) float64 {
	if mode == DetectorModeRMS {
		return RMS(samples)
	}

	return Peak(samples)
}

// Peak returns the largest absolute value in samples, or 0 when empty.
func Peak(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}

	return vecmath.MaxAbs(samples)
}

// RMS returns the root-mean-square of samples, or 0 when empty.
func RMS(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}

	mean := vecmath.DotProduct(samples, samples) / float64(len(samples))
	if mean <= 0 {
		return 0
	}

	return mathSqrt(mean)
}
