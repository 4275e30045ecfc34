package sse

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// LineSplitter accumulates byte chunks and emits complete lines. The
// trailing partial line is held back until its newline arrives.
//
// Lines are returned without the "\n" terminator or a preceding "\r".
// Invalid UTF-8 is replaced with U+FFFD per line; since a newline byte
// never occurs inside a multi-byte sequence, a character split across
// chunks is reassembled before it is decoded.
type LineSplitter struct {
	buf []byte
}

// Write appends chunk and returns the lines it completed, in order.
func (s *LineSplitter) Write(chunk []byte) []string {
	s.buf = append(s.buf, chunk...)
	var lines []string
	start := 0
	for {
		i := bytes.IndexByte(s.buf[start:], '\n')
		if i < 0 {
			break
		}
		lines = append(lines, decodeLine(s.buf[start:start+i]))
		start += i + 1
	}
	if start > 0 {
		n := copy(s.buf, s.buf[start:])
		s.buf = s.buf[:n]
	}
	return lines
}

// Flush returns the held-back partial line, if any, and empties the
// buffer. Call it once the underlying stream has ended.
func (s *LineSplitter) Flush() (string, bool) {
	if len(s.buf) == 0 {
		return "", false
	}
	line := decodeLine(s.buf)
	s.buf = s.buf[:0]
	return line, true
}

// Buffered reports the number of bytes held back.
func (s *LineSplitter) Buffered() int {
	return len(s.buf)
}

func decodeLine(b []byte) string {
	b = bytes.TrimSuffix(b, []byte("\r"))
	if utf8.Valid(b) {
		return string(b)
	}
	return strings.ToValidUTF8(string(b), "\uFFFD")
}
