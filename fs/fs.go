// Package fs replays and records generation streams as transcript files.
//
// A transcript is the raw response body of one generation request, stored
// with the .sse extension. Replaying a transcript drives a Generator
// through exactly the code path a live stream takes.
package fs

import (
	"context"
	"fmt"
	"io"
	iofs "io/fs"

	"github.com/samarthsinh2660/fluentify"
)

// Interface compliance check.
var _ fluentify.Opener = (*Opener)(nil)

// Ext is the transcript file extension.
const Ext = ".sse"

// Opener implements [fluentify.Opener] by reading a transcript. Params are
// ignored.
type Opener struct {
	fsys      iofs.FS
	path      string
	chunkSize int
}

// OpenerOption configures an [Opener].
type OpenerOption func(*Opener)

// WithChunkSize limits every read to n bytes, simulating a network that
// delivers the stream in small pieces.
func WithChunkSize(n int) OpenerOption {
	return func(o *Opener) { o.chunkSize = n }
}

// NewOpener returns an Opener for the transcript at path in fsys.
func NewOpener(fsys iofs.FS, path string, opts ...OpenerOption) *Opener {
	o := &Opener{fsys: fsys, path: path}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Open opens the transcript.
func (o *Opener) Open(ctx context.Context, _ fluentify.Params) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := o.fsys.Open(o.path)
	if err != nil {
		return nil, fmt.Errorf("fs: %w", err)
	}
	if o.chunkSize <= 0 {
		return f, nil
	}
	return &chunkedFile{File: f, n: o.chunkSize}, nil
}

type chunkedFile struct {
	iofs.File
	n int
}

func (c *chunkedFile) Read(p []byte) (int, error) {
	if len(p) > c.n {
		p = p[:c.n]
	}
	return c.File.Read(p)
}
