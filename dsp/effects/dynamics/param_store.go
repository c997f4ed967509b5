package dynamics

import (
	"math"
	"sync/atomic"
)

// ParamStore publishes Parameters from a control goroutine to the audio
// goroutine. Every field is an independent atomic word, so a reader may see
// a mix of old and new fields while a Store is in flight; it never sees a
// torn float.
type ParamStore struct {
	inputGainDB  atomic.Uint64
	outputGainDB atomic.Uint64
	thresholdDB  atomic.Uint64
	ratio        atomic.Uint64
	attackSec    atomic.Uint64
	releaseSec   atomic.Uint64
	detectorMode atomic.Int32
}

// NewParamStore returns a store holding p.
func NewParamStore(p Parameters) *ParamStore {
	s := &ParamStore{}
	s.Store(p)

	return s
}

// Store publishes all fields of p.
func (s *ParamStore) Store(p Parameters) {
	storeFloat(&s.inputGainDB, p.InputGainDB)
	storeFloat(&s.outputGainDB, p.OutputGainDB)
	storeFloat(&s.thresholdDB, p.ThresholdDB)
	storeFloat(&s.ratio, p.Ratio)
	storeFloat(&s.attackSec, p.AttackSec)
	storeFloat(&s.releaseSec, p.ReleaseSec)
	s.detectorMode.Store(int32(p.DetectorMode))
}

// Snapshot reads every field exactly once.
func (s *ParamStore) Snapshot() Parameters {
	return Parameters{
		InputGainDB:  loadFloat(&s.inputGainDB),
		OutputGainDB: loadFloat(&s.outputGainDB),
		ThresholdDB:  loadFloat(&s.thresholdDB),
		Ratio:        loadFloat(&s.ratio),
		AttackSec:    loadFloat(&s.attackSec),
		ReleaseSec:   loadFloat(&s.releaseSec),
		DetectorMode: DetectorMode(s.detectorMode.Load()),
	}
}

func (s *ParamStore) SetInputGain(dB float64)  { storeFloat(&s.inputGainDB, dB) }
func (s *ParamStore) SetOutputGain(dB float64) { storeFloat(&s.outputGainDB, dB) }
func (s *ParamStore) SetThreshold(dB float64)  { storeFloat(&s.thresholdDB, dB) }
func (s *ParamStore) SetRatio(ratio float64)   { storeFloat(&s.ratio, ratio) }
func (s *ParamStore) SetAttack(sec float64)    { storeFloat(&s.attackSec, sec) }
func (s *ParamStore) SetRelease(sec float64)   { storeFloat(&s.releaseSec, sec) }

func (s *ParamStore) SetDetectorMode(m DetectorMode) {
	s.detectorMode.Store(int32(m))
}

func storeFloat(dst *atomic.Uint64, v float64) {
	dst.Store(math.Float64bits(v))
}

func loadFloat(src *atomic.Uint64) float64 {
	return math.Float64frombits(src.Load())
}
