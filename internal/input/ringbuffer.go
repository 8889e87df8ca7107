package input

import "sync"

// RingBuffer is a thread-safe circular byte buffer holding the most recent
// bytes written to it. Writers never block.
type RingBuffer struct {
	mu    sync.Mutex
	buf   []byte
	w     int   // write position
	len   int   // current fill level
	total int64 // bytes ever written, for frame alignment
}

// NewRingBuffer creates a ring buffer with the given capacity in bytes.
func NewRingBuffer(size int) *RingBuffer {
	return &RingBuffer{buf: make([]byte, max(size, 1))}
}

// Write appends p, overwriting the oldest data when full. It always reports
// the full length written.
func (rb *RingBuffer) Write(p []byte) (int, error) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	n := len(p)
	size := len(rb.buf)
	if len(p) > size {
		rb.w = (rb.w + len(p) - size) % size
		p = p[len(p)-size:]
	}
	for len(p) > 0 {
		c := copy(rb.buf[rb.w:], p)
		rb.w = (rb.w + c) % size
		p = p[c:]
	}
	rb.len = min(rb.len+n, size)
	rb.total += int64(n)
	return n, nil
}

// Latest copies the newest bytes into dst and returns how many were copied.
// The copied region ends on a multiple of align bytes counted from the first
// write, so interleaved frames never come out split. Bytes of a frame still
// being written are left out.
func (rb *RingBuffer) Latest(dst []byte, align int) int {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	if align < 1 {
		align = 1
	}
	size := len(rb.buf)
	partial := int(rb.total % int64(align))
	n := min(len(dst), rb.len-partial)
	n -= n % align
	if n <= 0 {
		return 0
	}
	start := ((rb.w-partial-n)%size + size) % size
	c := copy(dst[:n], rb.buf[start:])
	if c < n {
		copy(dst[c:n], rb.buf)
	}
	return n
}

// Grow raises the capacity to size, keeping the buffered bytes and the frame
// alignment. It never shrinks.
func (rb *RingBuffer) Grow(size int) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	old := len(rb.buf)
	if size <= old {
		return
	}
	buf := make([]byte, size)
	start := ((rb.w-rb.len)%old + old) % old
	c := copy(buf[:rb.len], rb.buf[start:])
	if c < rb.len {
		copy(buf[c:rb.len], rb.buf)
	}
	rb.buf = buf
	rb.w = rb.len
}

// Len returns the number of buffered bytes.
func (rb *RingBuffer) Len() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.len
}

// Clear resets the buffer.
func (rb *RingBuffer) Clear() {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	rb.w = 0
	rb.len = 0
	rb.total = 0
}
