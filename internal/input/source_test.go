package input

import (
	"bytes"
	"errors"
	"io"
	"slices"
	"testing"
	"testing/iotest"
	"time"

	"github.com/olivier-w/scope/internal/scope"
)

func s16(vals ...int16) []byte {
	out := make([]byte, 0, len(vals)*2)
	for _, v := range vals {
		out = append(out, byte(uint16(v)), byte(uint16(v)>>8))
	}
	return out
}

func TestReadWithPaddingZeroFills(t *testing.T) {
	buf := []byte{9, 9, 9, 9}
	n, err := ReadWithPadding(bytes.NewReader([]byte{1, 2}), buf)
	if err != nil {
		t.Fatalf("ReadWithPadding returned error: %v", err)
	}
	if n != 2 || !bytes.Equal(buf, []byte{1, 2, 0, 0}) {
		t.Fatalf("expected [1 2 0 0] after 2 bytes, got %v after %d", buf, n)
	}
}

func TestReadWithPaddingHandlesShortReads(t *testing.T) {
	buf := make([]byte, 4)
	r := iotest.OneByteReader(bytes.NewReader([]byte{1, 2, 3, 4, 5}))
	if n, err := ReadWithPadding(r, buf); err != nil || n != 4 {
		t.Fatalf("expected full read, got %d, %v", n, err)
	}
}

func TestReadWithPaddingNoData(t *testing.T) {
	_, err := ReadWithPadding(bytes.NewReader(nil), make([]byte, 4))
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestReadWithPaddingPassesErrors(t *testing.T) {
	boom := errors.New("boom")
	_, err := ReadWithPadding(iotest.ErrReader(boom), make([]byte, 4))
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestFileSourceRecv(t *testing.T) {
	data := s16(-32768, 16384, 0, -16384, 16384)
	opts := Options{Channels: 2, Buffer: 2, Parser: scope.Signed16PCM{}}
	src := NewFileSource(bytes.NewReader(data), nil, opts, false)

	m, err := src.Recv()
	if err != nil {
		t.Fatalf("Recv returned error: %v", err)
	}
	if !slices.Equal(m[0], []float64{-1, 0}) || !slices.Equal(m[1], []float64{0.5, -0.5}) {
		t.Fatalf("unexpected first frame %v", m)
	}

	m, err = src.Recv()
	if err != nil {
		t.Fatalf("Recv returned error: %v", err)
	}
	if m.Len() != 2 || !slices.Equal(m[0], []float64{0.5, 0}) || !slices.Equal(m[1], []float64{0, 0}) {
		t.Fatalf("expected padded second frame, got %v", m)
	}

	if _, err := src.Recv(); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestFileSourcePacesReads(t *testing.T) {
	opts := Options{Channels: 1, Buffer: 480, SampleRate: 48000}
	src := NewFileSource(bytes.NewReader(make([]byte, 480*2*3)), nil, opts, true)

	now := time.Unix(0, 0)
	var slept []time.Duration
	src.now = func() time.Time { return now }
	src.sleep = func(d time.Duration) { slept = append(slept, d) }

	for range 3 {
		if _, err := src.Recv(); err != nil {
			t.Fatalf("Recv returned error: %v", err)
		}
	}
	if len(slept) != 2 || slept[0] != 10*time.Millisecond || slept[1] != 20*time.Millisecond {
		t.Fatalf("expected waits of 10ms and 20ms, got %v", slept)
	}
}

type closeRecorder struct {
	io.Reader
	closed bool
}

func (c *closeRecorder) Close() error {
	c.closed = true
	return nil
}

func TestFileSourceClose(t *testing.T) {
	rc := &closeRecorder{Reader: bytes.NewReader(nil)}
	src := NewFileSource(rc, rc, Options{}, false)
	if err := src.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if !rc.closed {
		t.Fatal("expected underlying closer to be called")
	}
}
