package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cwbudde/algo-comp/dsp/core"
	"github.com/cwbudde/algo-comp/dsp/effects/dynamics"
	"github.com/cwbudde/algo-comp/internal/host"
	"github.com/cwbudde/algo-comp/internal/playback"
	"github.com/cwbudde/algo-comp/internal/wavio"
	"github.com/sirupsen/logrus"
)

const (
	meterInterval = 10 * time.Millisecond
	meterMax      = 2.0
	meterWidth    = 40
)

func runPlay(ctx context.Context, logger *logrus.Logger, params dynamics.Parameters, opts options) error {
	clip, err := wavio.ReadFile(opts.in)
	if err != nil {
		return err
	}

	engine, surface, err := newEngine(logger, params, clip, opts)
	if err != nil {
		return err
	}

	if opts.watch && surface != nil {
		go func() {
			err := surface.Watch(ctx)
			if err != nil {
				logger.WithError(err).Error("control file watch stopped")
			}
		}()
	}

	stream := host.NewStream(engine, clip.Channels, opts.loop)

	player, err := playback.NewPlayer(clip.SampleRate, stream)
	if err != nil {
		return err
	}
	defer player.Close()

	player.Play()

	ticker := time.NewTicker(meterInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			clearMeter(opts.meter)
			logger.Info("playback interrupted")

			return nil

		case <-ticker.C:
			if opts.meter {
				fmt.Fprint(os.Stderr, "\r"+meterBar(engine.Level()))
			}

			if stream.Finished() && !player.IsPlaying() {
				clearMeter(opts.meter)
				logger.WithField("blocks", engine.Blocks()).Info("playback finished")

				return nil
			}
		}
	}
}

// meterBar renders level on the 0..2 meter scale.
func meterBar(level float64) string {
	filled := int(core.Clamp(level/meterMax, 0, 1)*meterWidth + 0.5)

	return fmt.Sprintf("[%s%s] %6.3f", strings.Repeat("#", filled), strings.Repeat(" ", meterWidth-filled), level)
}

func clearMeter(enabled bool) {
	if enabled {
		fmt.Fprint(os.Stderr, "\r"+strings.Repeat(" ", meterWidth+9)+"\r")
	}
}
