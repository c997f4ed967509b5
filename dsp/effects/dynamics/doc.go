// Package dynamics implements a per-channel dynamic range compressor built
// around a block-level detector and a four-phase envelope state machine.
//
// Processing is split into three pure or near-pure stages:
//   - ComputeMagnitude: one peak or RMS statistic per channel per block.
//   - CompressSample: threshold/ratio gain staging for a single sample.
//   - EnvelopeState.Interpolate: blends compressed and uncompressed values
//     and drives the Off → Active → Release → Off phase sequence.
//
// Processor ties the stages together for multi-channel blocks. Channels are
// processed independently; nothing is shared between them except the
// read-only Parameters snapshot. ParamStore hands parameters from a control
// goroutine to the audio goroutine without locks.
package dynamics
