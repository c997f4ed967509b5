package dynamics

import "fmt"

// Phase is the envelope state machine phase.
type Phase int

const (
	// PhaseOff passes samples through unchanged. It is the reset state.
	PhaseOff Phase = iota
	// PhaseAttack fades from uncompressed toward compressed over AttackSec.
	// The machine never enters it on its own; see EnvelopeState.SetPhase.
	PhaseAttack
	// PhaseActive outputs compressed values for samples above threshold.
	PhaseActive
	// PhaseRelease fades from compressed toward uncompressed over ReleaseSec.
	PhaseRelease
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseOff:
		return "off"
	case PhaseAttack:
		return "attack"
	case PhaseActive:
		return "active"
	case PhaseRelease:
		return "release"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Timing carries the phase durations and the sample rate used to advance
// elapsed time.
type Timing struct {
	AttackSec  float64
	ReleaseSec float64
	SampleRate float64
}

// EnvelopeState is the per-channel state of the envelope machine.
// The zero value is the reset state {PhaseOff, 0}.
type EnvelopeState struct {
	Phase      Phase
	ElapsedSec float64
}

// Reset returns the state to {PhaseOff, 0}.
func (s *EnvelopeState) Reset() {
	s.Phase = PhaseOff
	s.ElapsedSec = 0
}

// SetPhase moves the machine to p and restarts the phase clock. It is the
// only way to reach PhaseAttack.
func (s *EnvelopeState) SetPhase(p Phase) {
	s.Phase = p
	s.ElapsedSec = 0
}

// Interpolate returns the value to output for one sample and advances the
// machine.
//
// level is the block magnitude, uncompressed the signed input sample and
// compressed its compressed counterpart. Only positive samples above
// threshold are blended during attack and release; the comparison is done on
// the signed value. The blend weights are scaled by 0.5, so the output of a
// fade is at most half of the weighted sum.
//
// Elapsed time advances before the blend is evaluated. A phase duration of
// zero (or less) ends the phase on its first call without dividing.
//
// Interpolate panics if s.Phase is not one of the declared phases.
func (s *EnvelopeState) Interpolate(level, uncompressed, compressed, threshold float64, t Timing) float64 {
	switch s.Phase {
	case PhaseOff:
		if level > threshold {
			s.SetPhase(PhaseActive)
		}

		return uncompressed

	case PhaseAttack:
		if s.ElapsedSec >= t.AttackSec {
			s.SetPhase(PhaseActive)
			return compressed
		}

		s.ElapsedSec += 1 / t.SampleRate
		if uncompressed <= threshold {
			return uncompressed
		}

		return (s.ElapsedSec*compressed + (t.AttackSec-s.ElapsedSec)*uncompressed) * 0.5 / t.AttackSec

	case PhaseActive:
		if level <= threshold {
			s.SetPhase(PhaseRelease)
		}

		if uncompressed > threshold {
			return compressed
		}

		return uncompressed

	case PhaseRelease:
		if s.ElapsedSec >= t.ReleaseSec {
			s.SetPhase(PhaseOff)
			return uncompressed
		}

		s.ElapsedSec += 1 / t.SampleRate
		if uncompressed <= threshold {
			return uncompressed
		}

		return ((t.ReleaseSec-s.ElapsedSec)*compressed + s.ElapsedSec*uncompressed) * 0.5 / t.ReleaseSec

	default:
		panic(fmt.Sprintf("dynamics: invalid envelope phase %d", int(s.Phase)))
	}
}
