package mock

import (
	"io"
	"sync"
)

// Stream is a test double for a streaming response body. Bytes passed to
// Send are delivered to the reader in order; Send returns once the reader
// has consumed them.
type Stream struct {
	pr     *io.PipeReader
	pw     *io.PipeWriter
	once   sync.Once
	closed chan struct{}
}

// NewStream returns an open Stream.
func NewStream() *Stream {
	pr, pw := io.Pipe()
	return &Stream{pr: pr, pw: pw, closed: make(chan struct{})}
}

// Read implements io.Reader.
func (s *Stream) Read(p []byte) (int, error) {
	return s.pr.Read(p)
}

// Close releases the stream. Pending and later Sends fail.
func (s *Stream) Close() error {
	s.once.Do(func() { close(s.closed) })
	return s.pr.Close()
}

// Send writes text to the reader. It returns an error once the reader has
// closed the stream.
func (s *Stream) Send(text string) error {
	_, err := io.WriteString(s.pw, text)
	return err
}

// End signals a clean end of stream.
func (s *Stream) End() error {
	return s.pw.Close()
}

// Fail makes the next read return err.
func (s *Stream) Fail(err error) error {
	return s.pw.CloseWithError(err)
}

// Closed is closed once the reader closes the stream.
func (s *Stream) Closed() <-chan struct{} {
	return s.closed
}
