package generate

import (
	"io"
	"sync"
	"time"
)

// firstReadReader calls onFirst after the first read that returns bytes.
type firstReadReader struct {
	r       io.Reader
	onFirst func()
	seen    bool
}

func (f *firstReadReader) Read(p []byte) (int, error) {
	n, err := f.r.Read(p)
	if n > 0 && !f.seen {
		f.seen = true
		f.onFirst()
	}
	return n, err
}

// idleReader calls expire when no read completes within timeout.
type idleReader struct {
	r       io.Reader
	timeout time.Duration
	once    sync.Once
	timer   *time.Timer
}

func newIdleReader(r io.Reader, timeout time.Duration, expire func()) *idleReader {
	ir := &idleReader{r: r, timeout: timeout}
	ir.timer = time.AfterFunc(timeout, expire)
	return ir
}

func (ir *idleReader) Read(p []byte) (int, error) {
	n, err := ir.r.Read(p)
	if n > 0 {
		ir.timer.Reset(ir.timeout)
	}
	return n, err
}

func (ir *idleReader) stop() {
	ir.once.Do(func() { ir.timer.Stop() })
}
