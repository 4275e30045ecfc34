package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	iofs "io/fs"
	"os"

	"github.com/samarthsinh2660/fluentify"
	fluentifyfs "github.com/samarthsinh2660/fluentify/fs"
	"github.com/samarthsinh2660/fluentify/generate"
)

// replayParams stand in for the learner's choices, which a transcript
// does not record.
var replayParams = fluentify.Params{Language: "Replay", ExpectedDuration: "replay", Expertise: "replay"}

func runReplay(ctx context.Context, args []string, env envConfig, stdout io.Writer) error {
	var fl flagConfig
	fs := flag.NewFlagSet("replay", flag.ContinueOnError)
	addCommonFlags(fs, &fl)
	var (
		dir     = fs.String("dir", ".", "Directory the glob is matched in")
		chunk   = fs.Int("chunk", 0, "Deliver each transcript in reads of at most this many bytes")
		verbose = fs.Bool("v", false, "Print every progress line, not just the outcome")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: fluentify replay [flags] <glob>")
	}
	cfg, err := resolveConfig(fl, env)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(cfg.logFile, cfg.logFormat)
	if err != nil {
		return err
	}
	defer closeLog.Close()

	fsys := os.DirFS(*dir)
	names, err := fluentifyfs.Transcripts(fsys, fs.Arg(0))
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return fmt.Errorf("no transcripts match %q", fs.Arg(0))
	}

	failed := 0
	for _, name := range names {
		out := io.Discard
		if *verbose {
			out = stdout
		}
		st := replayTranscript(ctx, fsys, name, *chunk, out, generate.WithLogger(logger.With("transcript", name)))
		fmt.Fprintf(stdout, "%s: %s\n", name, summarize(st))
		if !st.IsComplete {
			failed++
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d transcripts did not complete", failed, len(names))
	}
	return nil
}

// replayTranscript runs one transcript through a fresh Generator and
// returns the final snapshot.
func replayTranscript(ctx context.Context, fsys iofs.FS, name string, chunk int, w io.Writer, opts ...generate.Option) fluentify.State {
	gen := generate.New(fluentifyfs.NewOpener(fsys, name, fluentifyfs.WithChunkSize(chunk)), opts...)
	defer gen.Close()
	return runPlain(ctx, gen, replayParams, w)
}
