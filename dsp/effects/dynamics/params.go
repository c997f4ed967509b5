package dynamics

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-comp/dsp/core"
)

// Control ranges of the reference editor. The core never clamps on its own;
// control surfaces call Parameters.Clamp before publishing.
const (
	MinInputGainDB  = -12.0
	MaxInputGainDB  = 12.0
	MinOutputGainDB = -20.0
	MaxOutputGainDB = 12.0
	MinThresholdDB  = -60.0
	MaxThresholdDB  = 0.0
	MinRatio        = 1.0
	MaxRatio        = 40.0
	MinTimeSec      = 0.0
	MaxTimeSec      = 0.25
)

// DetectorMode selects the block statistic compared against the threshold.
type DetectorMode int

const (
	// DetectorModePeak uses the largest absolute sample of the block.
	DetectorModePeak DetectorMode = iota
	// DetectorModeRMS uses the root-mean-square of the block.
	DetectorModeRMS
)

// String returns the lower-case mode name.
func (m DetectorMode) String() string {
	switch m {
	case DetectorModePeak:
		return "peak"
	case DetectorModeRMS:
		return "rms"
	default:
		return fmt.Sprintf("DetectorMode(%d)", int(m))
	}
}

// ParseDetectorMode accepts "peak" or "rms" (case-insensitive).
func ParseDetectorMode(s string) (DetectorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "peak":
		return DetectorModePeak, nil
	case "rms":
		return DetectorModeRMS, nil
	default:
		return DetectorModePeak, fmt.Errorf("invalid detector mode %q (expected peak|rms)", s)
	}
}

// Parameters is one consistent set of compressor controls.
//
// Ratio is applied on a decibel scale: the part of a sample above the
// threshold is multiplied by 1/10^(Ratio/20). A ratio of 1 therefore still
// attenuates the overshoot by about 0.89.
type Parameters struct {
	InputGainDB  float64
	OutputGainDB float64
	ThresholdDB  float64
	Ratio        float64
	AttackSec    float64
	ReleaseSec   float64
	DetectorMode DetectorMode
}

// DefaultParameters returns the initial control positions: unity gains,
// 0 dB threshold, ratio 1, instantaneous attack/release, peak detection.
func DefaultParameters() Parameters {
	return Parameters{
		InputGainDB:  0,
		OutputGainDB: 0,
		ThresholdDB:  0,
		Ratio:        1,
		AttackSec:    0,
		ReleaseSec:   0,
		DetectorMode: DetectorModePeak,
	}
}

// Clamp returns a copy limited to the control ranges. Non-finite values fall
// back to the defaults and an unknown detector mode becomes peak.
func (p Parameters) Clamp() Parameters {
	def := DefaultParameters()

	return Parameters{
		InputGainDB:  clampOr(p.InputGainDB, def.InputGainDB, MinInputGainDB, MaxInputGainDB),
		OutputGainDB: clampOr(p.OutputGainDB, def.OutputGainDB, MinOutputGainDB, MaxOutputGainDB),
		ThresholdDB:  clampOr(p.ThresholdDB, def.ThresholdDB, MinThresholdDB, MaxThresholdDB),
		Ratio:        clampOr(p.Ratio, def.Ratio, MinRatio, MaxRatio),
		AttackSec:    clampOr(p.AttackSec, def.AttackSec, MinTimeSec, MaxTimeSec),
		ReleaseSec:   clampOr(p.ReleaseSec, def.ReleaseSec, MinTimeSec, MaxTimeSec),
		DetectorMode: validDetectorMode(p.DetectorMode),
	}
}

// Timing bundles the values the envelope needs at a given sample rate.
func (p Parameters) Timing(sampleRate float64) Timing {
	return Timing{
		AttackSec:  p.AttackSec,
		ReleaseSec: p.ReleaseSec,
		SampleRate: sampleRate,
	}
}

func clampOr(v, def, lo, hi float64) float64 {
	if !core.IsFinite(v) {
		return def
	}

	return core.Clamp(v, lo, hi)
}

func validDetectorMode(m DetectorMode) DetectorMode {
	if m != DetectorModePeak && m != DetectorModeRMS {
		return DetectorModePeak
	}

	return m
}
