package playback

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"testing"
)

type rampSource struct {
	next     float32
	calls    int
	finishAt int
}

func (s *rampSource) Process(dst []float32) {
	s.calls++
	for i := range dst {
		dst[i] = s.next
		s.next += 0.25
	}
}

func (s *rampSource) Finished() bool { return s.finishAt > 0 && s.calls >= s.finishAt }

type plainSource struct{}

func (plainSource) Process(dst []float32) {
	for i := range dst {
		dst[i] = -1
	}
}

func decode(p []byte) []float32 {
	out := make([]float32, len(p)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(p[i*4:]))
	}

	return out
}

func TestReaderEncodesLittleEndianFloat32(t *testing.T) {
	r := NewReader(&rampSource{})

	p := make([]byte, 3*bytesPerFrame+5)

	n, err := r.Read(p)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if n != 3*bytesPerFrame {
		t.Fatalf("Read() n = %d, want %d", n, 3*bytesPerFrame)
	}

	got := decode(p[:n])
	want := []float32{0, 0.25, 0.5, 0.75, 1, 1.25}

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestReaderShortBuffer(t *testing.T) {
	src := &rampSource{}
	r := NewReader(src)

	n, err := r.Read(make([]byte, bytesPerFrame-1))
	if n != 0 || err != nil {
		t.Fatalf("Read() = %d, %v; want 0, nil", n, err)
	}

	if src.calls != 0 {
		t.Fatal("source should not be pulled for a partial frame")
	}
}

func TestReaderEOFWhenSourceFinishes(t *testing.T) {
	r := NewReader(&rampSource{finishAt: 2})
	p := make([]byte, 4*bytesPerFrame)

	if _, err := r.Read(p); err != nil {
		t.Fatalf("first Read() error = %v", err)
	}

	n, err := r.Read(p)
	if !errors.Is(err, io.EOF) {
		t.Fatalf("second Read() error = %v, want io.EOF", err)
	}

	if n != len(p) {
		t.Fatalf("final Read() n = %d, want %d", n, len(p))
	}
}

func TestReaderPlainSourceNeverEnds(t *testing.T) {
	r := NewReader(plainSource{})
	p := make([]byte, 2*bytesPerFrame)

	for range 3 {
		if _, err := r.Read(p); err != nil {
			t.Fatalf("Read() error = %v", err)
		}
	}

	for _, v := range decode(p) {
		if v != -1 {
			t.Fatalf("sample = %v, want -1", v)
		}
	}

	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
}
