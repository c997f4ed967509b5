// Package wavio reads and writes PCM WAV files as per-channel float64 slices.
package wavio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/cwbudde/algo-comp/dsp/core"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const wavFormatPCM = 1

// ErrInvalidFile is returned for input that is not a readable PCM WAV.
var ErrInvalidFile = errors.New("wavio: not a valid PCM wav file")

// Clip is decoded audio. Channels[ch][i] is a linear sample in [-1, 1].
type Clip struct {
	SampleRate int
	BitDepth   int
	Channels   [][]float64
}

// Frames returns the number of samples per channel.
func (c *Clip) Frames() int {
	if len(c.Channels) == 0 {
		return 0
	}

	return len(c.Channels[0])
}

// Duration returns the clip length in seconds.
func (c *Clip) Duration() float64 {
	if c.SampleRate <= 0 {
		return 0
	}

	return float64(c.Frames()) / float64(c.SampleRate)
}

// ReadFile decodes the WAV file at path.
func ReadFile(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wavio: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode reads an integer PCM WAV stream (8, 16, 24 or 32 bit).
func Decode(r io.ReadSeeker) (*Clip, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, ErrInvalidFile
	}

	if dec.WavAudioFormat != wavFormatPCM {
		return nil, fmt.Errorf("%w: audio format %d", ErrInvalidFile, dec.WavAudioFormat)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wavio: decode pcm: %w", err)
	}

	numChans := int(dec.NumChans)
	bitDepth := int(dec.BitDepth)

	if numChans < 1 {
		return nil, fmt.Errorf("%w: %d channels", ErrInvalidFile, numChans)
	}

	frames := len(buf.Data) / numChans
	clip := &Clip{
		SampleRate: int(dec.SampleRate),
		BitDepth:   bitDepth,
		Channels:   make([][]float64, numChans),
	}

	for ch := range clip.Channels {
		clip.Channels[ch] = make([]float64, frames)
	}

	scale := 1.0 / float64(int(1)<<(bitDepth-1))

	for i := range frames {
		for ch := range numChans {
			v := buf.Data[i*numChans+ch]
			if bitDepth == 8 {
				v -= 128
			}

			clip.Channels[ch][i] = float64(v) * scale
		}
	}

	return clip, nil
}

// WriteFile encodes clip to path, replacing any existing file.
func WriteFile(path string, clip *Clip) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wavio: %w", err)
	}

	err = Encode(f, clip)
	if err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}

// Encode writes clip as integer PCM with clip.BitDepth (16, 24 or 32; 0
// selects 16). Samples are clipped to [-1, 1].
func Encode(w io.WriteSeeker, clip *Clip) error {
	bitDepth := clip.BitDepth
	if bitDepth == 0 {
		bitDepth = 16
	}

	maxValue := audio.IntMaxSignedValue(bitDepth)
	if bitDepth == 8 || maxValue == 0 {
		return fmt.Errorf("wavio: unsupported bit depth for writing: %d (expected 16, 24 or 32)", bitDepth)
	}

	numChans := len(clip.Channels)
	if numChans < 1 {
		return errors.New("wavio: clip has no channels")
	}

	if clip.SampleRate <= 0 {
		return fmt.Errorf("wavio: sample rate must be positive: %d", clip.SampleRate)
	}

	frames := clip.Frames()
	for ch, samples := range clip.Channels {
		if len(samples) != frames {
			return fmt.Errorf("wavio: channel %d has %d frames, want %d", ch, len(samples), frames)
		}
	}

	data := make([]int, frames*numChans)
	for i := range frames {
		for ch := range numChans {
			x := core.Clamp(clip.Channels[ch][i], -1, 1)
			data[i*numChans+ch] = int(math.Round(x * float64(maxValue)))
		}
	}

	enc := wav.NewEncoder(w, clip.SampleRate, bitDepth, numChans, wavFormatPCM)

	err := enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: numChans, SampleRate: clip.SampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	})
	if err != nil {
		return fmt.Errorf("wavio: encode: %w", err)
	}

	err = enc.Close()
	if err != nil {
		return fmt.Errorf("wavio: finalize: %w", err)
	}

	return nil
}
