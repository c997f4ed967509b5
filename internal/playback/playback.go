// Package playback plays a host stream on the default audio device through
// ebiten's audio context.
package playback

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	ebitaudio "github.com/hajimehoshi/ebiten/v2/audio"
)

// bytesPerFrame is two float32 samples.
const bytesPerFrame = 8

// Source renders interleaved stereo float32 frames into dst.
type Source interface {
	Process(dst []float32)
}

// FinishingSource is a Source that knows when it has run out. The reader
// returns io.EOF after the block in which Finished first reports true.
type FinishingSource interface {
	Source
	Finished() bool
}

// Reader adapts a Source to the little-endian float32 byte stream expected
// by ebiten's NewPlayerF32.
type Reader struct {
	mu     sync.Mutex
	source Source
	buf    []float32
}

// NewReader wraps source.
func NewReader(source Source) *Reader {
	return &Reader{source: source}
}

// Read fills p with whole frames. Trailing bytes of a partial frame are left
// untouched.
func (r *Reader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	frames := len(p) / bytesPerFrame
	if frames == 0 {
		return 0, nil
	}

	need := frames * 2
	if cap(r.buf) < need {
		r.buf = make([]float32, need)
	}

	r.buf = r.buf[:need]
	r.source.Process(r.buf)

	for i, v := range r.buf {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(v))
	}

	n := frames * bytesPerFrame
	if fs, ok := r.source.(FinishingSource); ok && fs.Finished() {
		return n, io.EOF
	}

	return n, nil
}

// Close implements io.Closer.
func (r *Reader) Close() error { return nil }

var (
	contextOnce       sync.Once
	sharedContext     *ebitaudio.Context
	sharedContextRate int
)

// ebiten allows one audio context per process.
func audioContext(sampleRate int) (*ebitaudio.Context, error) {
	contextOnce.Do(func() {
		sharedContextRate = sampleRate
		sharedContext = ebitaudio.NewContext(sampleRate)
	})

	if sharedContextRate != sampleRate {
		return nil, fmt.Errorf("playback: audio context already running at %d Hz (requested %d Hz)", sharedContextRate, sampleRate)
	}

	return sharedContext, nil
}

// Player is a started or paused output stream.
type Player struct {
	player *ebitaudio.Player
	reader *Reader
}

// NewPlayer opens an output stream at sampleRate pulling from source.
func NewPlayer(sampleRate int, source Source) (*Player, error) {
	ctx, err := audioContext(sampleRate)
	if err != nil {
		return nil, err
	}

	reader := NewReader(source)

	pl, err := ctx.NewPlayerF32(reader)
	if err != nil {
		return nil, fmt.Errorf("playback: %w", err)
	}

	return &Player{player: pl, reader: reader}, nil
}

func (p *Player) Play() { p.player.Play() }
func (p *Player) Pause() { p.player.Pause() }
func (p *Player) IsPlaying() bool { return p.player.IsPlaying() }
func (p *Player) SetBufferSize(d time.Duration) { p.player.SetBufferSize(d) }

// Position returns what the listener currently hears.
func (p *Player) Position() time.Duration { return p.player.Position() }

// Close stops playback and releases the player.
func (p *Player) Close() error {
	p.player.Pause()

	err := p.player.Close()
	if err != nil {
		return fmt.Errorf("playback: %w", err)
	}

	return p.reader.Close()
}
