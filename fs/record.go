package fs

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/samarthsinh2660/fluentify"
)

// Recorder wraps an Opener and copies every stream it opens into a new
// transcript file in dir. A transcript that cannot be created is skipped;
// the stream itself is never failed by recording.
type Recorder struct {
	next   fluentify.Opener
	dir    string
	now    func() time.Time
	logger *slog.Logger
}

// RecorderOption configures a [Recorder].
type RecorderOption func(*Recorder)

// WithLogger sets the logger that reports skipped transcripts.
func WithLogger(l *slog.Logger) RecorderOption {
	return func(r *Recorder) { r.logger = l }
}

// NewRecorder returns a Recorder writing transcripts into dir.
func NewRecorder(next fluentify.Opener, dir string, opts ...RecorderOption) *Recorder {
	r := &Recorder{next: next, dir: dir, now: time.Now, logger: slog.New(slog.DiscardHandler)}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Open opens the underlying stream and starts recording it. The
// transcript holds exactly the bytes the caller read.
func (r *Recorder) Open(ctx context.Context, params fluentify.Params) (io.ReadCloser, error) {
	body, err := r.next.Open(ctx, params)
	if err != nil {
		return nil, err
	}
	path := filepath.Join(r.dir, transcriptName(r.now(), params.Language))
	f, err := r.create(path)
	if err != nil {
		r.logger.WarnContext(ctx, "recording skipped", "path", path, "error", err)
		return body, nil
	}
	return &recording{body: body, file: f, tee: io.TeeReader(body, f)}, nil
}

func (r *Recorder) create(path string) (*os.File, error) {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
}

// transcriptName builds "<timestamp>-<language>.sse". The language is
// reduced to letters, digits, '-' and '_' so it cannot name another
// directory; nothing usable leaves only the timestamp.
func transcriptName(t time.Time, language string) string {
	stamp := t.UTC().Format("20060102T150405.000000000")
	lang := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ' || r == '/' || r == '.':
			return '_'
		default:
			return -1
		}
	}, language)
	lang = strings.Trim(lang, "_")
	if lang == "" {
		return stamp + Ext
	}
	return stamp + "-" + lang + Ext
}

type recording struct {
	body io.ReadCloser
	file *os.File
	tee  io.Reader
}

func (r *recording) Read(p []byte) (int, error) {
	return r.tee.Read(p)
}

func (r *recording) Close() error {
	err := r.body.Close()
	if ferr := r.file.Close(); err == nil {
		err = ferr
	}
	return err
}
