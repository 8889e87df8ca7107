// Package input provides the sample sources that feed the scope engine.
package input

import (
	"errors"
	"io"

	"github.com/olivier-w/scope/internal/scope"
)

// ErrNoData is returned by Recv once a source has nothing more to give.
var ErrNoData = errors.New("input: no data")

// Source produces one Matrix per frame. Every Matrix has Options.Channels
// channels of exactly Options.Buffer samples.
type Source interface {
	Recv() (scope.Matrix, error)
	Close() error
}

// Options describe the sample stream a source reads.
type Options struct {
	Channels   int
	Buffer     int // samples per channel per frame
	SampleRate uint32
	Parser     scope.SampleParser
}

func (o Options) withDefaults() Options {
	if o.Channels < 1 {
		o.Channels = 1
	}
	if o.Buffer < 1 {
		o.Buffer = 1
	}
	if o.Parser == nil {
		o.Parser = scope.Signed16PCM{}
	}
	return o
}

// frameBytes is the size of one Recv worth of interleaved samples.
func (o Options) frameBytes() int {
	return o.Buffer * o.Channels * o.Parser.Width()
}

// decode turns interleaved bytes into a padded matrix.
func (o Options) decode(raw []byte) scope.Matrix {
	return scope.StreamToMatrix(scope.Samples(raw, o.Parser), o.Channels, 1).Padded(o.Buffer)
}

// ReadWithPadding fills buf from r, zero-filling whatever is left when r
// runs dry. It returns the number of bytes actually read and ErrNoData when
// that number is zero.
func ReadWithPadding(r io.Reader, buf []byte) (int, error) {
	n, err := io.ReadFull(r, buf)
	switch {
	case err == nil:
		return n, nil
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		clear(buf[n:])
		if n == 0 {
			return 0, ErrNoData
		}
		return n, nil
	default:
		return n, err
	}
}
