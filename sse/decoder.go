package sse

import (
	"errors"
	"fmt"
	"io"
)

const defaultChunkSize = 4096

// Decoder reads frames from a byte stream.
type Decoder struct {
	r       io.Reader
	chunk   []byte
	lines   LineSplitter
	parser  FrameParser
	pending []Frame
	err     error
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r, chunk: make([]byte, defaultChunkSize)}
}

// Next returns the next frame in arrival order. It returns io.EOF once the
// stream has ended and every complete frame has been returned. A frame
// left undelimited at end of stream is discarded. Any other read error is
// returned wrapped, after the frames that preceded it.
func (d *Decoder) Next() (Frame, error) {
	for {
		if len(d.pending) > 0 {
			f := d.pending[0]
			d.pending = d.pending[1:]
			return f, nil
		}
		if d.err != nil {
			return Frame{}, d.err
		}
		n, err := d.r.Read(d.chunk)
		if n > 0 {
			d.feed(d.lines.Write(d.chunk[:n]))
		}
		switch {
		case errors.Is(err, io.EOF):
			if line, ok := d.lines.Flush(); ok {
				d.feed([]string{line})
			}
			d.err = io.EOF
		case err != nil:
			d.err = fmt.Errorf("sse: %w", err)
		}
	}
}

// Incomplete reports whether bytes or a partial frame were left over when
// the stream ended.
func (d *Decoder) Incomplete() bool {
	return d.lines.Buffered() > 0 || d.parser.Pending()
}

func (d *Decoder) feed(lines []string) {
	for _, line := range lines {
		if f, ok := d.parser.Line(line); ok {
			d.pending = append(d.pending, f)
		}
	}
}
