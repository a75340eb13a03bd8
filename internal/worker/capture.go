package worker

import (
	"sync"
)

// cappedBuffer accumulates at most limit bytes and reports whether a
// write tried to exceed it, so the caller can kill the child on overflow
// instead of growing without bound (spec.md §4.4 step 7, §5 "bounded
// memory").
type cappedBuffer struct {
	mu        sync.Mutex
	buf       []byte
	limit     int
	overflowed bool
}

func newCappedBuffer(limit int) *cappedBuffer {
	return &cappedBuffer{buf: make([]byte, 0, limit), limit: limit}
}

// Write implements io.Writer. Once the cap is hit, further bytes are
// dropped but the overflow flag stays set so the caller can act on it.
func (c *cappedBuffer) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room := c.limit - len(c.buf)
	if room <= 0 {
		c.overflowed = true
		return len(p), nil
	}
	if len(p) > room {
		c.buf = append(c.buf, p[:room]...)
		c.overflowed = true
		return len(p), nil
	}
	c.buf = append(c.buf, p...)
	return len(p), nil
}

func (c *cappedBuffer) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return string(c.buf)
}

func (c *cappedBuffer) Overflowed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.overflowed
}
