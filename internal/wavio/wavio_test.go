package wavio

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/cwbudde/algo-comp/internal/testutil"
)

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		bitDepth int
		eps      float64
	}{
		{"16 bit", 16, 2.0 / 32767},
		{"24 bit", 24, 2.0 / 8388607},
		{"32 bit", 32, 1e-9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clip := &Clip{
				SampleRate: 44100,
				BitDepth:   tt.bitDepth,
				Channels: [][]float64{
					testutil.DeterministicSine(440, 44100, 0.8, 1000),
					testutil.DeterministicNoise(3, 0.5, 1000),
				},
			}

			path := filepath.Join(t.TempDir(), "clip.wav")

			err := WriteFile(path, clip)
			if err != nil {
				t.Fatalf("WriteFile() error = %v", err)
			}

			got, err := ReadFile(path)
			if err != nil {
				t.Fatalf("ReadFile() error = %v", err)
			}

			if got.SampleRate != 44100 || got.BitDepth != tt.bitDepth || len(got.Channels) != 2 {
				t.Fatalf("header = %d Hz %d bit %d ch", got.SampleRate, got.BitDepth, len(got.Channels))
			}

			if got.Frames() != 1000 {
				t.Fatalf("frames = %d, want 1000", got.Frames())
			}

			for ch := range clip.Channels {
				testutil.RequireSliceNearlyEqual(t, got.Channels[ch], clip.Channels[ch], tt.eps)
			}
		})
	}
}

func TestEncodeClipsOutOfRange(t *testing.T) {
	clip := &Clip{SampleRate: 8000, Channels: [][]float64{{1.5, -2, 0.25}}}
	path := filepath.Join(t.TempDir(), "hot.wav")

	err := WriteFile(path, clip)
	if err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	if got.BitDepth != 16 {
		t.Fatalf("default bit depth = %d, want 16", got.BitDepth)
	}

	want := []float64{32767.0 / 32768, -32767.0 / 32768, 8192.0 / 32768}
	testutil.RequireSliceNearlyEqual(t, got.Channels[0], want, 1e-12)
}

func TestEncodeErrors(t *testing.T) {
	tests := []struct {
		name string
		clip *Clip
	}{
		{"no channels", &Clip{SampleRate: 48000}},
		{"zero sample rate", &Clip{Channels: [][]float64{{0}}}},
		{"ragged channels", &Clip{SampleRate: 48000, Channels: [][]float64{{0, 0}, {0}}}},
		{"8 bit", &Clip{SampleRate: 48000, BitDepth: 8, Channels: [][]float64{{0}}}},
		{"12 bit", &Clip{SampleRate: 48000, BitDepth: 12, Channels: [][]float64{{0}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.wav")
			if err := WriteFile(path, tt.clip); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("definitely not a riff header")))
	if !errors.Is(err, ErrInvalidFile) {
		t.Fatalf("error = %v, want ErrInvalidFile", err)
	}

	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.wav")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestClipDuration(t *testing.T) {
	clip := &Clip{SampleRate: 1000, Channels: [][]float64{make([]float64, 250)}}
	if clip.Duration() != 0.25 {
		t.Fatalf("Duration() = %v, want 0.25", clip.Duration())
	}

	if (&Clip{}).Duration() != 0 || (&Clip{}).Frames() != 0 {
		t.Fatal("empty clip should have zero duration")
	}
}
