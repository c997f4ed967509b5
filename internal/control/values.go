// Package control is the compressor's control surface. It reads knob
// positions from a JSON file, clamps them to the editor ranges and publishes
// them to a dynamics.ParamStore.
package control

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/cwbudde/algo-comp/dsp/effects/dynamics"
)

// Knob names in the "num" map. Times are given in milliseconds.
const (
	KeyInputGainDB  = "inputGainDB"
	KeyOutputGainDB = "outputGainDB"
	KeyThresholdDB  = "thresholdDB"
	KeyRatio        = "ratio"
	KeyAttackMs     = "attackMs"
	KeyReleaseMs    = "releaseMs"

	// KeyDetector in the "str" map holds "peak" or "rms".
	KeyDetector = "detector"
)

// Values is the decoded control file:
//
//	{"num": {"thresholdDB": -18, "ratio": 4, "releaseMs": 80}, "str": {"detector": "rms"}}
type Values struct {
	Num map[string]float64 `json:"num"`
	Str map[string]string  `json:"str"`
}

// Parse decodes a control file.
func Parse(data []byte) (Values, error) {
	var v Values

	err := json.Unmarshal(data, &v)
	if err != nil {
		return Values{}, fmt.Errorf("control: parse: %w", err)
	}

	return v, nil
}

// GetNum returns the numeric knob key, or def if missing or not finite.
func (v Values) GetNum(key string, def float64) float64 {
	if v.Num == nil {
		return def
	}

	x, ok := v.Num[key]
	if !ok || math.IsNaN(x) || math.IsInf(x, 0) {
		return def
	}

	return x
}

// GetStr returns the string knob key, or def if missing.
func (v Values) GetStr(key, def string) string {
	s, ok := v.Str[key]
	if !ok {
		return def
	}

	return s
}

// Parameters overlays the knobs present in v on base and clamps the result.
func (v Values) Parameters(base dynamics.Parameters) (dynamics.Parameters, error) {
	p := dynamics.Parameters{
		InputGainDB:  v.GetNum(KeyInputGainDB, base.InputGainDB),
		OutputGainDB: v.GetNum(KeyOutputGainDB, base.OutputGainDB),
		ThresholdDB:  v.GetNum(KeyThresholdDB, base.ThresholdDB),
		Ratio:        v.GetNum(KeyRatio, base.Ratio),
		AttackSec:    v.getSeconds(KeyAttackMs, base.AttackSec),
		ReleaseSec:   v.getSeconds(KeyReleaseMs, base.ReleaseSec),
		DetectorMode: base.DetectorMode,
	}

	if s, ok := v.Str[KeyDetector]; ok {
		mode, err := dynamics.ParseDetectorMode(s)
		if err != nil {
			return base, fmt.Errorf("control: %w", err)
		}

		p.DetectorMode = mode
	}

	return p.Clamp(), nil
}

// getSeconds reads a millisecond knob and returns seconds, or def unchanged.
func (v Values) getSeconds(key string, def float64) float64 {
	ms := v.GetNum(key, math.NaN())
	if math.IsNaN(ms) {
		return def
	}

	return ms / 1000
}
