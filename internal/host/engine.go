// Package host drives the compressor the way a plugin host would: it splits
// audio into blocks, takes one parameter snapshot per block and exposes the
// meter level to other goroutines.
package host

import (
	"fmt"
	"sync/atomic"

	"github.com/cwbudde/algo-comp/dsp/core"
	"github.com/cwbudde/algo-comp/dsp/effects/dynamics"
	"github.com/sirupsen/logrus"
)

// Engine owns a dynamics.Processor and the parameter store feeding it.
type Engine struct {
	cfg    core.ProcessorConfig
	proc   *dynamics.Processor
	params *dynamics.ParamStore
	log    *logrus.Entry

	blocks atomic.Uint64
}

// New prepares an engine. A nil logger selects the logrus standard logger.
func New(params *dynamics.ParamStore, logger *logrus.Logger, opts ...core.ProcessorOption) (*Engine, error) {
	if params == nil {
		return nil, fmt.Errorf("host: nil parameter store")
	}

	if logger == nil {
		logger = logrus.StandardLogger()
	}

	cfg := core.ApplyProcessorOptions(opts...)

	proc, err := dynamics.NewProcessor(cfg.SampleRate, cfg.Channels)
	if err != nil {
		return nil, fmt.Errorf("host: %w", err)
	}

	e := &Engine{
		cfg:    cfg,
		proc:   proc,
		params: params,
		log:    logger.WithField("component", "host"),
	}

	e.log.WithFields(logrus.Fields{
		"sample_rate": cfg.SampleRate,
		"block_size":  cfg.BlockSize,
		"channels":    cfg.Channels,
	}).Info("compressor prepared")

	return e, nil
}

// Config returns the processing configuration.
func (e *Engine) Config() core.ProcessorConfig { return e.cfg }

// Params returns the store the engine snapshots from.
func (e *Engine) Params() *dynamics.ParamStore { return e.params }

// Level returns the meter value published by the last block.
func (e *Engine) Level() float64 { return e.proc.Level() }

// Blocks returns the number of blocks processed since the last Reset.
func (e *Engine) Blocks() uint64 { return e.blocks.Load() }

// Envelope returns the envelope state of channel ch.
func (e *Engine) Envelope(ch int) dynamics.EnvelopeState { return e.proc.Envelope(ch) }

// Reset returns every envelope to its initial state.
func (e *Engine) Reset() {
	e.proc.Reset()
	e.blocks.Store(0)
	e.log.Debug("compressor reset")
}

// ProcessBlock processes one host block in place with a fresh snapshot.
// It does not allocate and must only be called from one goroutine.
func (e *Engine) ProcessBlock(block [][]float64) {
	e.proc.ProcessBlock(block, e.params.Snapshot())
	e.blocks.Add(1)
}

// Render processes whole channels in place, BlockSize frames at a time.
func (e *Engine) Render(channels [][]float64) error {
	if len(channels) == 0 {
		return nil
	}

	frames := len(channels[0])
	for ch, samples := range channels {
		if len(samples) != frames {
			return fmt.Errorf("host: channel %d has %d frames, want %d", ch, len(samples), frames)
		}
	}

	views := make([][]float64, len(channels))
	start := e.blocks.Load()

	for pos := 0; pos < frames; pos += e.cfg.BlockSize {
		end := min(pos+e.cfg.BlockSize, frames)
		for ch := range channels {
			views[ch] = channels[ch][pos:end]
		}

		e.ProcessBlock(views)
	}

	e.log.WithFields(logrus.Fields{
		"frames":   frames,
		"channels": len(channels),
		"blocks":   e.blocks.Load() - start,
		"seconds":  float64(frames) / e.cfg.SampleRate,
		"level":    e.Level(),
	}).Debug("render finished")

	return nil
}
