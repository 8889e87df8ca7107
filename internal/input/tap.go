package input

import (
	"sync"

	"github.com/olivier-w/scope/internal/scope"
)

// TapSource reads the newest frame's worth of samples from a RingBuffer
// filled by someone else, a player or a capture device. It zero-pads while
// the ring is still filling.
type TapSource struct {
	ring *RingBuffer
	opts Options
	buf  []byte
	done <-chan struct{}

	closeOnce sync.Once
	onClose   func() error
	closeErr  error
}

// NewTapSource reads from ring. Once done is closed Recv returns ErrNoData;
// a nil done never ends. onClose, if set, runs once on Close.
func NewTapSource(ring *RingBuffer, opts Options, done <-chan struct{}, onClose func() error) *TapSource {
	opts = opts.withDefaults()
	return &TapSource{
		ring:    ring,
		opts:    opts,
		buf:     make([]byte, opts.frameBytes()),
		done:    done,
		onClose: onClose,
	}
}

// RingSize is the ring capacity a tap with opts needs: a few frames so the
// writer can run ahead of the reader.
func RingSize(opts Options) int {
	return opts.withDefaults().frameBytes() * 4
}

func (t *TapSource) Recv() (scope.Matrix, error) {
	select {
	case <-t.done:
		return nil, ErrNoData
	default:
	}
	frame := t.opts.Channels * t.opts.Parser.Width()
	n := t.ring.Latest(t.buf, frame)
	clear(t.buf[n:])
	return t.opts.decode(t.buf), nil
}

func (t *TapSource) Close() error {
	t.closeOnce.Do(func() {
		if t.onClose != nil {
			t.closeErr = t.onClose()
		}
	})
	return t.closeErr
}
