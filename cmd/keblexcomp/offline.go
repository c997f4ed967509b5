package main

import (
	"github.com/cwbudde/algo-comp/dsp/core"
	"github.com/cwbudde/algo-comp/dsp/effects/dynamics"
	"github.com/cwbudde/algo-comp/internal/control"
	"github.com/cwbudde/algo-comp/internal/host"
	"github.com/cwbudde/algo-comp/internal/wavio"
	"github.com/sirupsen/logrus"
)

// newEngine prepares a host engine for clip, applying the control file once.
func newEngine(logger *logrus.Logger, params dynamics.Parameters, clip *wavio.Clip, opts options) (*host.Engine, *control.Surface, error) {
	store := dynamics.NewParamStore(params)

	var surface *control.Surface
	if opts.controlFile != "" {
		surface = control.NewSurface(opts.controlFile, store, logger)

		_, err := surface.Apply()
		if err != nil {
			return nil, nil, err
		}
	}

	engine, err := host.New(store, logger,
		core.WithSampleRate(float64(clip.SampleRate)),
		core.WithChannels(len(clip.Channels)),
		core.WithBlockSize(opts.blockSize),
	)
	if err != nil {
		return nil, nil, err
	}

	return engine, surface, nil
}

func runOffline(logger *logrus.Logger, params dynamics.Parameters, opts options) error {
	clip, err := wavio.ReadFile(opts.in)
	if err != nil {
		return err
	}

	engine, _, err := newEngine(logger, params, clip, opts)
	if err != nil {
		return err
	}

	err = engine.Render(clip.Channels)
	if err != nil {
		return err
	}

	err = wavio.WriteFile(opts.out, clip)
	if err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"in":       opts.in,
		"out":      opts.out,
		"seconds":  clip.Duration(),
		"channels": len(clip.Channels),
	}).Info("wrote compressed file")

	return nil
}
