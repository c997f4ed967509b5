package control

import (
	"flag"

	"github.com/cwbudde/algo-comp/dsp/effects/dynamics"
)

// Flags holds command-line knobs in control-surface units.
type Flags struct {
	InputGainDB  float64
	OutputGainDB float64
	ThresholdDB  float64
	Ratio        float64
	AttackMs     float64
	ReleaseMs    float64
	Detector     string
}

// RegisterFlags adds the compressor knobs to fs with the editor defaults.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	def := dynamics.DefaultParameters()
	f := &Flags{}

	fs.Float64Var(&f.InputGainDB, "in-gain", def.InputGainDB, "input gain in dB [-12, 12]")
	fs.Float64Var(&f.OutputGainDB, "out-gain", def.OutputGainDB, "output gain in dB [-20, 12]")
	fs.Float64Var(&f.ThresholdDB, "threshold", def.ThresholdDB, "threshold in dB [-60, 0]")
	fs.Float64Var(&f.Ratio, "ratio", def.Ratio, "ratio [1, 40], applied as 10^(ratio/20)")
	fs.Float64Var(&f.AttackMs, "attack", def.AttackSec*1000, "attack in ms [0, 250]")
	fs.Float64Var(&f.ReleaseMs, "release", def.ReleaseSec*1000, "release in ms [0, 250]")
	fs.StringVar(&f.Detector, "detector", def.DetectorMode.String(), "level detector: peak or rms")

	return f
}

// Values converts the flags to a control file representation.
func (f *Flags) Values() Values {
	return Values{
		Num: map[string]float64{
			KeyInputGainDB:  f.InputGainDB,
			KeyOutputGainDB: f.OutputGainDB,
			KeyThresholdDB:  f.ThresholdDB,
			KeyRatio:        f.Ratio,
			KeyAttackMs:     f.AttackMs,
			KeyReleaseMs:    f.ReleaseMs,
		},
		Str: map[string]string{KeyDetector: f.Detector},
	}
}

// Parameters returns the clamped parameters selected on the command line.
func (f *Flags) Parameters() (dynamics.Parameters, error) {
	return f.Values().Parameters(dynamics.DefaultParameters())
}
