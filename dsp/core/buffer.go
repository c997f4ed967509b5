package core

// Zero sets all values in buf to 0.
func Zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}

// Interleave writes frames from per-channel slices into dst. It returns the
// number of frames written.
func Interleave(dst []float32, src [][]float64, frames int) int {
	channels := len(src)
	if channels == 0 {
		return 0
	}

	frames = min(frames, len(dst)/channels)
	for _, ch := range src {
		frames = min(frames, len(ch))
	}

	for f := 0; f < frames; f++ {
		base := f * channels
		for c := range src {
			dst[base+c] = float32(src[c][f])
		}
	}

	return frames
}
