package player

import (
	"encoding/binary"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

func writeWAV(t *testing.T, bitDepth, channels int, data []int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create fixture: %v", err)
	}
	enc := wav.NewEncoder(f, 8000, bitDepth, channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: 8000},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close encoder: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close fixture: %v", err)
	}
	return path
}

func openDecoder(t *testing.T, path string) audioDecoder {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	dec, err := newDecoder(f)
	if err != nil {
		t.Fatalf("newDecoder returned error: %v", err)
	}
	return dec
}

func samples16(raw []byte) []int16 {
	out := make([]int16, len(raw)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(raw[i*2:]))
	}
	return out
}

func TestWAVDecoder16Bit(t *testing.T) {
	path := writeWAV(t, 16, 2, []int{100, -100, 200, -200, 300, -300})
	dec := openDecoder(t, path)

	if dec.SampleRate() != 8000 || dec.ChannelCount() != 2 {
		t.Fatalf("expected 8000 Hz stereo, got %d Hz %d ch", dec.SampleRate(), dec.ChannelCount())
	}
	if dec.Length() != 12 {
		t.Fatalf("expected 12 output bytes, got %d", dec.Length())
	}
	raw, err := io.ReadAll(dec)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	got := samples16(raw)
	want := []int16{100, -100, 200, -200, 300, -300}
	if len(got) != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample %d: expected %d, got %d", i, want[i], got[i])
		}
	}
}

func TestWAVDecoder8BitIsUnsigned(t *testing.T) {
	path := writeWAV(t, 8, 1, []int{128, 0, 255, 128})
	raw, err := io.ReadAll(openDecoder(t, path))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	got := samples16(raw)
	if len(got) != 4 || got[0] != 0 || got[1] != -32768 || got[2] != 127<<8 || got[3] != 0 {
		t.Fatalf("expected [0 -32768 32512 0], got %v", got)
	}
}

func TestWAVDecoderSeek(t *testing.T) {
	path := writeWAV(t, 16, 1, []int{1, 2, 3, 4, 5})
	dec := openDecoder(t, path)

	pos, err := dec.Seek(5, io.SeekStart)
	if err != nil {
		t.Fatalf("seek: %v", err)
	}
	if pos != 4 {
		t.Fatalf("expected frame-aligned position 4, got %d", pos)
	}
	raw, _ := io.ReadAll(dec)
	got := samples16(raw)
	if len(got) != 3 || got[0] != 3 {
		t.Fatalf("expected [3 4 5] after seek, got %v", got)
	}

	if pos, _ := dec.Seek(100, io.SeekStart); pos != dec.Length() {
		t.Fatalf("expected seek past end to clamp to %d, got %d", dec.Length(), pos)
	}
}

func TestNewDecoderRejectsUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	if _, err := newDecoder(f); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestTo16(t *testing.T) {
	tests := []struct {
		v, depth int
		unsigned bool
		want     int
	}{
		{0x7FFFFF, 24, false, 0x7FFF},
		{-0x800000, 24, false, -0x8000},
		{0x7F, 8, false, 0x7F00},
		{255, 8, true, 0x7F00},
		{1234, 16, false, 1234},
	}
	for _, tt := range tests {
		if got := to16(tt.v, tt.depth, tt.unsigned); got != tt.want {
			t.Fatalf("to16(%d, %d): expected %d, got %d", tt.v, tt.depth, tt.want, got)
		}
	}
}
