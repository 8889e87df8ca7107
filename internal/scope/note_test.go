package scope

import (
	"errors"
	"math"
	"testing"
)

func TestParseNote(t *testing.T) {
	tests := []struct {
		in   string
		want Note
	}{
		{"A4", Note{A, 4}},
		{"c#3", Note{CSharp, 3}},
		{"Bb2", Note{ASharp, 2}},
		{"F♯5", Note{FSharp, 5}},
		{"E♭1", Note{DSharp, 1}},
		{"B#3", Note{C, 4}},
		{"Cb4", Note{B, 3}},
		{"G-1", Note{G, -1}},
		{"C-1", Note{C, -1}},
		{"B9", Note{B, 9}},
	}
	for _, tt := range tests {
		got, err := ParseNote(tt.in)
		if err != nil {
			t.Fatalf("ParseNote(%q) returned error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseNote(%q): expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestParseNoteRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "H2", "A", "A#x", "  ", "C-40", "C-20", "A10", "B#9", "Cb-1"} {
		if _, err := ParseNote(in); !errors.Is(err, ErrInvalidNote) {
			t.Fatalf("ParseNote(%q): expected ErrInvalidNote, got %v", in, err)
		}
	}
}

func TestNoteFrequency(t *testing.T) {
	if got := (Note{A, 4}).Frequency(); got != 440 {
		t.Fatalf("expected 440, got %v", got)
	}
	if got := (Note{A, 3}).Frequency(); math.Abs(got-220) > 1e-9 {
		t.Fatalf("expected 220, got %v", got)
	}
	if got := (Note{C, 4}).Frequency(); math.Abs(got-261.6256) > 1e-3 {
		t.Fatalf("expected ~261.626, got %v", got)
	}
}

func TestTuneBufferSizeA4(t *testing.T) {
	n := Note{A, 4}
	if p := n.Period(48000); math.Abs(p-109.0909) > 1e-3 {
		t.Fatalf("expected period ~109.09, got %v", p)
	}
	if got := n.TuneBufferSize(48000, 2); got != 109 {
		t.Fatalf("expected 109, got %d", got)
	}
}

func TestTuneBufferSizeBumpsAlignedPeriod(t *testing.T) {
	// 44000 / 440 = 100, which divides by 2 channels * 2.
	if got := (Note{A, 4}).TuneBufferSize(44000, 2); got != 101 {
		t.Fatalf("expected 101, got %d", got)
	}
}

func TestTuneBufferSizeProperties(t *testing.T) {
	notes := []string{"C-1", "A0", "E2", "A4", "C#5", "Bb6", "B9"}
	rates := []uint32{8000, 22050, 44000, 44100, 48000, 96000, 192000}
	for _, name := range notes {
		n, err := ParseNote(name)
		if err != nil {
			t.Fatalf("ParseNote(%q) returned error: %v", name, err)
		}
		for _, rate := range rates {
			for _, channels := range []int{1, 2, 3, 6} {
				guard := uint32(channels * 2)
				period := uint32(math.Round(n.Period(rate)))
				size := n.TuneBufferSize(rate, channels)
				if size%guard == 0 {
					t.Fatalf("%s at %d Hz, %d ch: size %d divisible by %d", name, rate, channels, size, guard)
				}
				if period%guard != 0 && size%period != 0 {
					t.Fatalf("%s at %d Hz, %d ch: size %d not a multiple of period %d", name, rate, channels, size, period)
				}
				if size < period {
					t.Fatalf("%s at %d Hz, %d ch: size %d below period %d", name, rate, channels, size, period)
				}
			}
		}
	}
}

func TestNoteString(t *testing.T) {
	if got := (Note{GSharp, 2}).String(); got != "G#2" {
		t.Fatalf("expected G#2, got %q", got)
	}
}
