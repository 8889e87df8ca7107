package scope

import (
	"math"
	"slices"
	"testing"
)

func TestSigned16PCMParse(t *testing.T) {
	p := Signed16PCM{}
	if got := p.Parse([]byte{0x00, 0x80}); got != -1.0 {
		t.Fatalf("expected -1.0, got %v", got)
	}
	got := p.Parse([]byte{0xFF, 0x7F})
	if math.Abs(got-0.999969) > 1e-6 {
		t.Fatalf("expected ~0.999969, got %v", got)
	}
	if got := p.Parse([]byte{0x00, 0x00}); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}

func TestParsersStayNormalized(t *testing.T) {
	tests := []struct {
		name string
		p    SampleParser
		raw  []byte
		want float64
	}{
		{"u8 low", Unsigned8PCM{}, []byte{0x00}, -1},
		{"u8 centre", Unsigned8PCM{}, []byte{0x80}, 0},
		{"s24 min", Signed24PCM{}, []byte{0x00, 0x00, 0x80}, -1},
		{"s24 zero", Signed24PCM{}, []byte{0x00, 0x00, 0x00}, 0},
		{"s32 min", Signed32PCM{}, []byte{0x00, 0x00, 0x00, 0x80}, -1},
		{"f32 half", Float32PCM{}, []byte{0x00, 0x00, 0x00, 0x3F}, 0.5},
		{"raw s16", RawSigned16PCM{}, []byte{0x00, 0x80}, -32768},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if len(tt.raw) != tt.p.Width() {
				t.Fatalf("expected %d bytes, got %d", tt.p.Width(), len(tt.raw))
			}
			if got := tt.p.Parse(tt.raw); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestParserFor(t *testing.T) {
	p, ok := ParserFor("S16LE")
	if !ok {
		t.Fatal("expected s16le to be registered")
	}
	if p.Width() != 2 {
		t.Fatalf("expected width 2, got %d", p.Width())
	}
	if _, ok := ParserFor("mulaw"); ok {
		t.Fatal("expected unknown format to be rejected")
	}
}

func TestSamplesDropsPartialChunk(t *testing.T) {
	raw := []byte{0x00, 0x80, 0x00, 0x00, 0xFF}
	got := slices.Collect(Samples(raw, Signed16PCM{}))
	if len(got) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(got))
	}
	if got[0] != -1 || got[1] != 0 {
		t.Fatalf("expected [-1 0], got %v", got)
	}
}

func TestSamplesStopsEarly(t *testing.T) {
	raw := make([]byte, 16)
	n := 0
	for range Samples(raw, Signed16PCM{}) {
		n++
		if n == 3 {
			break
		}
	}
	if n != 3 {
		t.Fatalf("expected to stop after 3 samples, got %d", n)
	}
}
