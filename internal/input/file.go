package input

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/olivier-w/scope/internal/log"
	"github.com/olivier-w/scope/internal/scope"
)

// FileSource reads raw interleaved PCM from a file, a named pipe or stdin.
type FileSource struct {
	r    io.Reader
	c    io.Closer
	opts Options
	buf  []byte

	// pacing, zero when disabled
	period time.Duration
	next   time.Time
	now    func() time.Time
	sleep  func(time.Duration)
}

// OpenFile opens path ("-" for stdin). With limitRate set, Recv is paced to
// real time so a regular file plays back at its sample rate instead of
// being drained at once. Pipes should leave it off since they block anyway.
func OpenFile(path string, opts Options, limitRate bool) (*FileSource, error) {
	if path == "-" {
		return NewFileSource(os.Stdin, nil, opts, limitRate), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	log.Debugf("reading raw samples from %s", path)
	return NewFileSource(f, f, opts, limitRate), nil
}

// NewFileSource reads from r. c may be nil when r needs no closing.
func NewFileSource(r io.Reader, c io.Closer, opts Options, limitRate bool) *FileSource {
	opts = opts.withDefaults()
	s := &FileSource{
		r:     r,
		c:     c,
		opts:  opts,
		buf:   make([]byte, opts.frameBytes()),
		now:   time.Now,
		sleep: time.Sleep,
	}
	if limitRate && opts.SampleRate > 0 {
		s.period = time.Duration(opts.Buffer) * time.Second / time.Duration(opts.SampleRate)
	}
	return s
}

func (s *FileSource) Recv() (scope.Matrix, error) {
	s.pace()
	n, err := ReadWithPadding(s.r, s.buf)
	if err != nil {
		return nil, err
	}
	if n < len(s.buf) {
		log.Debugf("short read: %d of %d bytes, zero-padded", n, len(s.buf))
	}
	return s.opts.decode(s.buf), nil
}

func (s *FileSource) pace() {
	if s.period == 0 {
		return
	}
	now := s.now()
	if s.next.IsZero() || now.Sub(s.next) > 4*s.period {
		s.next = now
	}
	if wait := s.next.Sub(now); wait > 0 {
		s.sleep(wait)
	}
	s.next = s.next.Add(s.period)
}

func (s *FileSource) Close() error {
	if s.c == nil {
		return nil
	}
	return s.c.Close()
}
