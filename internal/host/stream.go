package host

import (
	"sync/atomic"

	"github.com/cwbudde/algo-comp/dsp/core"
	"github.com/sirupsen/logrus"
)

// Stream feeds source audio through an Engine block by block and renders
// interleaved stereo float32. Mono engines are duplicated to both sides;
// engines with more channels contribute their first two.
type Stream struct {
	engine *Engine
	source [][]float64
	loop   bool

	pos      int
	scratch  [][]float64
	views    [][]float64
	stereo   [2][]float64
	finished atomic.Bool
}

// NewStream creates a stream over source, which must hold one slice per
// engine channel. With loop set the source repeats forever.
func NewStream(e *Engine, source [][]float64, loop bool) *Stream {
	cfg := e.Config()

	s := &Stream{
		engine:  e,
		source:  source,
		loop:    loop,
		scratch: make([][]float64, cfg.Channels),
		views:   make([][]float64, cfg.Channels),
	}

	for ch := range s.scratch {
		s.scratch[ch] = make([]float64, cfg.BlockSize)
	}

	e.log.WithFields(logrus.Fields{
		"frames": s.frames(),
		"loop":   loop,
	}).Info("stream opened")

	return s
}

func (s *Stream) frames() int {
	if len(s.source) == 0 {
		return 0
	}

	return len(s.source[0])
}

// Process fills dst with len(dst)/2 stereo frames.
func (s *Stream) Process(dst []float32) {
	frames := len(dst) / 2
	blockSize := len(s.scratch[0])

	for done := 0; done < frames; {
		n := min(blockSize, frames-done)
		s.fill(n)

		for ch := range s.scratch {
			s.views[ch] = s.scratch[ch][:n]
		}

		s.engine.ProcessBlock(s.views)

		s.stereo[0] = s.views[0]
		s.stereo[1] = s.views[0]
		if len(s.views) > 1 {
			s.stereo[1] = s.views[1]
		}

		core.Interleave(dst[done*2:(done+n)*2], s.stereo[:], n)

		done += n
	}
}

// fill copies the next n source frames into scratch, padding with silence.
func (s *Stream) fill(n int) {
	total := s.frames()

	for i := range n {
		if s.pos >= total {
			if s.loop && total > 0 {
				s.pos = 0
			} else {
				for ch := range s.scratch {
					core.Zero(s.scratch[ch][i:n])
				}

				s.finished.Store(true)

				return
			}
		}

		for ch := range s.scratch {
			if ch < len(s.source) {
				s.scratch[ch][i] = s.source[ch][s.pos]
			} else {
				s.scratch[ch][i] = 0
			}
		}

		s.pos++
	}

	if !s.loop && s.pos >= total {
		s.finished.Store(true)
	}
}

// Finished reports whether a non-looping source has been fully rendered.
func (s *Stream) Finished() bool { return s.finished.Load() }

// Position returns the next source frame to be read.
func (s *Stream) Position() int { return s.pos }
