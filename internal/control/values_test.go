package control

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-comp/dsp/effects/dynamics"
)

func TestGetNum(t *testing.T) {
	v := Values{Num: map[string]float64{
		"a":   1.5,
		"nan": math.NaN(),
		"inf": math.Inf(-1),
	}}

	tests := []struct {
		key  string
		want float64
	}{
		{"a", 1.5},
		{"missing", 7},
		{"nan", 7},
		{"inf", 7},
	}

	for _, tt := range tests {
		if got := v.GetNum(tt.key, 7); got != tt.want {
			t.Fatalf("GetNum(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}

	if got := (Values{}).GetNum("a", 3); got != 3 {
		t.Fatalf("nil map GetNum = %v, want 3", got)
	}

	if got := (Values{}).GetStr("detector", "peak"); got != "peak" {
		t.Fatalf("nil map GetStr = %q", got)
	}
}

func TestParseAndParameters(t *testing.T) {
	v, err := Parse([]byte(`{
		"num": {"inputGainDB": 3, "thresholdDB": -18, "ratio": 4, "attackMs": 5, "releaseMs": 80, "outputGainDB": -2},
		"str": {"detector": "RMS"}
	}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	got, err := v.Parameters(dynamics.DefaultParameters())
	if err != nil {
		t.Fatalf("Parameters() error = %v", err)
	}

	want := dynamics.Parameters{
		InputGainDB:  3,
		OutputGainDB: -2,
		ThresholdDB:  -18,
		Ratio:        4,
		AttackSec:    0.005,
		ReleaseSec:   0.08,
		DetectorMode: dynamics.DetectorModeRMS,
	}

	if got != want {
		t.Fatalf("Parameters() = %+v, want %+v", got, want)
	}
}

func TestParametersKeepsMissingKnobs(t *testing.T) {
	base := dynamics.Parameters{
		InputGainDB:  1,
		OutputGainDB: 2,
		ThresholdDB:  -30,
		Ratio:        10,
		AttackSec:    0.01,
		ReleaseSec:   0.2,
		DetectorMode: dynamics.DetectorModeRMS,
	}

	got, err := Values{Num: map[string]float64{KeyRatio: 3}}.Parameters(base)
	if err != nil {
		t.Fatalf("Parameters() error = %v", err)
	}

	want := base
	want.Ratio = 3

	if got != want {
		t.Fatalf("Parameters() = %+v, want %+v", got, want)
	}
}

func TestParametersClampsToEditorRanges(t *testing.T) {
	v := Values{Num: map[string]float64{
		KeyInputGainDB:  40,
		KeyOutputGainDB: -90,
		KeyThresholdDB:  10,
		KeyRatio:        0.5,
		KeyAttackMs:     1000,
		KeyReleaseMs:    -5,
	}}

	got, err := v.Parameters(dynamics.DefaultParameters())
	if err != nil {
		t.Fatalf("Parameters() error = %v", err)
	}

	want := dynamics.Parameters{
		InputGainDB:  12,
		OutputGainDB: -20,
		ThresholdDB:  0,
		Ratio:        1,
		AttackSec:    0.25,
		ReleaseSec:   0,
	}

	if got != want {
		t.Fatalf("Parameters() = %+v, want %+v", got, want)
	}
}

func TestParametersErrors(t *testing.T) {
	if _, err := Parse([]byte(`{"num": {"ratio": "four"}}`)); err == nil {
		t.Fatal("expected parse error for string ratio")
	}

	base := dynamics.DefaultParameters()

	got, err := Values{Str: map[string]string{KeyDetector: "loudness"}}.Parameters(base)
	if err == nil {
		t.Fatal("expected error for unknown detector")
	}

	if got != base {
		t.Fatalf("Parameters() on error = %+v, want base", got)
	}
}
