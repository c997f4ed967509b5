package dynamics

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-comp/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

// Processor runs the compressor over multi-channel blocks.
//
// Each channel owns one EnvelopeState. ProcessBlock must be called from a
// single goroutine (the audio thread). Level may be read from any goroutine.
type Processor struct {
	sampleRate float64
	envelopes  []EnvelopeState

	// Post-compression peak of the last processed channel, as float64 bits.
	level atomic.Uint64
}

// NewProcessor creates a processor prepared for sampleRate and channels.
//
// Sample rate must be positive and finite; channels must be at least 1.
func NewProcessor(sampleRate float64, channels int) (*Processor, error) {
	p := &Processor{}

	err := p.Prepare(sampleRate, channels)
	if err != nil {
		return nil, err
	}

	return p, nil
}

// Prepare (re)establishes the sample rate and channel count and resets every
// envelope to {PhaseOff, 0}. It is the only method that may allocate.
func (p *Processor) Prepare(sampleRate float64, channels int) error {
	err := core.ValidateSampleRate(sampleRate)
	if err != nil {
		return fmt.Errorf("compressor %w", err)
	}

	if channels < 1 {
		return fmt.Errorf("compressor channel count must be at least 1: %d", channels)
	}

	p.sampleRate = sampleRate

	if cap(p.envelopes) >= channels {
		p.envelopes = p.envelopes[:channels]
	} else {
		p.envelopes = make([]EnvelopeState, channels)
	}

	p.Reset()

	return nil
}

// Reset returns all envelopes to {PhaseOff, 0} and clears the meter.
func (p *Processor) Reset() {
	for i := range p.envelopes {
		p.envelopes[i].Reset()
	}

	p.level.Store(0)
}

// SampleRate returns the prepared sample rate in Hz.
func (p *Processor) SampleRate() float64 { return p.sampleRate }

// Channels returns the prepared channel count.
func (p *Processor) Channels() int { return len(p.envelopes) }

// Envelope returns a copy of the envelope state of channel ch.
func (p *Processor) Envelope(ch int) EnvelopeState { return p.envelopes[ch] }

// Level returns the most recently published meter value: the peak of the
// last processed channel after compression.
func (p *Processor) Level() float64 {
	return math.Float64frombits(p.level.Load())
}

// ProcessBlock compresses block in place using params.
//
// For each prepared channel the input gain is applied to the whole channel,
// the block magnitude is detected, and every sample is passed through the
// compressor. Channels beyond the prepared count are cleared. Channels may
// have different lengths.
func (p *Processor) ProcessBlock(block [][]float64, params Parameters) {
	stage := newGainStage(params, p.sampleRate)
	inGain := dbToLinear(params.InputGainDB)

	n := min(len(block), len(p.envelopes))

	for ch := 0; ch < n; ch++ {
		samples := block[ch]
		vecmath.ScaleBlockInPlace(samples, inGain)

		level := ComputeMagnitude(samples, params.DetectorMode)
		env := &p.envelopes[ch]

		for i, x := range samples {
			samples[i] = stage.process(x, level, env)
		}

		p.level.Store(math.Float64bits(Peak(samples)))
	}

	for ch := n; ch < len(block); ch++ {
		core.Zero(block[ch])
	}
}
