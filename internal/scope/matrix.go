package scope

import "iter"

// Matrix holds one sample buffer per channel, indexed by channel id.
type Matrix [][]float64

// NewMatrix returns a zero-filled matrix.
func NewMatrix(channels, length int) Matrix {
	m := make(Matrix, channels)
	for i := range m {
		m[i] = make([]float64, length)
	}
	return m
}

// Channels returns the channel count.
func (m Matrix) Channels() int { return len(m) }

// Len returns the length of the first channel, or 0 for an empty matrix.
func (m Matrix) Len() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// Padded returns a copy whose channels all have exactly length samples,
// right-padded with zero or truncated from the front so the newest samples
// are kept.
func (m Matrix) Padded(length int) Matrix {
	out := NewMatrix(len(m), length)
	for i, ch := range m {
		if len(ch) > length {
			ch = ch[len(ch)-length:]
		}
		copy(out[i], ch)
	}
	return out
}

// StreamToMatrix de-interleaves samples round-robin into channels buffers,
// dividing every value by divisor. Each channel ends up ⌈L/channels⌉ long;
// when L is not a multiple of channels the trailing channels are one short.
func StreamToMatrix(samples iter.Seq[float64], channels int, divisor float64) Matrix {
	if channels < 1 {
		channels = 1
	}
	if divisor == 0 {
		divisor = 1
	}
	m := make(Matrix, channels)
	i := 0
	for s := range samples {
		ch := i % channels
		m[ch] = append(m[ch], s/divisor)
		i++
	}
	for ch := range m {
		if m[ch] == nil {
			m[ch] = []float64{}
		}
	}
	return m
}
