package testutil

import (
	"math"
	"testing"
)

func TestDeterministicSine(t *testing.T) {
	s := DeterministicSine(1000, 48000, 1.0, 48)
	if len(s) != 48 {
		t.Fatalf("len = %d, want 48", len(s))
	}
	// First sample of a sine at phase 0 should be 0.
	if math.Abs(s[0]) > 1e-15 {
		t.Fatalf("s[0] = %v, want 0", s[0])
	}
	for i, v := range s {
		if v < -1 || v > 1 {
			t.Fatalf("s[%d] = %v out of range", i, v)
		}
	}
}

func TestDeterministicNoise(t *testing.T) {
	a := DeterministicNoise(42, 1.0, 64)
	b := DeterministicNoise(42, 1.0, 64)
	if len(a) != 64 {
		t.Fatalf("len = %d, want 64", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("noise not deterministic at index %d", i)
		}
	}
}

func TestStep(t *testing.T) {
	s := Step(0.9, 0.1, 3, 5)
	want := []float64{0.9, 0.9, 0.9, 0.1, 0.1}
	RequireSliceNearlyEqual(t, s, want, 0)
}

func TestBlocks(t *testing.T) {
	sig := DC(1, 10)
	blocks := Blocks(sig, 4)
	if len(blocks) != 3 {
		t.Fatalf("blocks = %d, want 3", len(blocks))
	}
	if len(blocks[2]) != 2 {
		t.Fatalf("last block len = %d, want 2", len(blocks[2]))
	}

	blocks[1][0] = 5
	if sig[4] != 5 {
		t.Fatal("blocks must alias the source signal")
	}

	if Blocks(sig, 0) != nil {
		t.Fatal("expected nil for non-positive block size")
	}
}
