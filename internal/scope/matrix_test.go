package scope

import (
	"slices"
	"testing"
)

func TestStreamToMatrixRoundRobin(t *testing.T) {
	m := StreamToMatrix(slices.Values([]float64{1, 2, 3, 4, 5}), 2, 1)
	if m.Channels() != 2 {
		t.Fatalf("expected 2 channels, got %d", m.Channels())
	}
	if !slices.Equal(m[0], []float64{1, 3, 5}) {
		t.Fatalf("expected channel 0 [1 3 5], got %v", m[0])
	}
	if !slices.Equal(m[1], []float64{2, 4}) {
		t.Fatalf("expected channel 1 [2 4], got %v", m[1])
	}
	if m.Len() != 3 {
		t.Fatalf("expected length 3, got %d", m.Len())
	}
}

func TestStreamToMatrixDivisor(t *testing.T) {
	raw := []byte{0x00, 0x80, 0x00, 0x40}
	m := StreamToMatrix(Samples(raw, RawSigned16PCM{}), 1, 32768)
	if !slices.Equal(m[0], []float64{-1, 0.5}) {
		t.Fatalf("expected [-1 0.5], got %v", m[0])
	}
}

func TestStreamToMatrixEmpty(t *testing.T) {
	m := StreamToMatrix(slices.Values([]float64(nil)), 3, 1)
	if m.Channels() != 3 {
		t.Fatalf("expected 3 channels, got %d", m.Channels())
	}
	for i, ch := range m {
		if ch == nil || len(ch) != 0 {
			t.Fatalf("expected empty non-nil channel %d, got %v", i, ch)
		}
	}
}

func TestStreamToMatrixClampsChannels(t *testing.T) {
	m := StreamToMatrix(slices.Values([]float64{1, 2}), 0, 0)
	if m.Channels() != 1 || m.Len() != 2 {
		t.Fatalf("expected 1x2 matrix, got %dx%d", m.Channels(), m.Len())
	}
}

func TestMatrixPadded(t *testing.T) {
	m := Matrix{{1, 2}, {1, 2, 3, 4, 5}}
	p := m.Padded(4)
	if !slices.Equal(p[0], []float64{1, 2, 0, 0}) {
		t.Fatalf("expected right padding, got %v", p[0])
	}
	if !slices.Equal(p[1], []float64{2, 3, 4, 5}) {
		t.Fatalf("expected newest samples kept, got %v", p[1])
	}
	m[0][0] = 9
	if p[0][0] != 1 {
		t.Fatal("expected Padded to copy")
	}
}
