// Command fluentify generates a language course from the terminal and
// follows the units as the server streams them in.
//
// Usage:
//
//	fluentify [generate] [flags]      Generate a course (TUI, or -plain)
//	fluentify replay [flags] <glob>   Replay recorded .sse transcripts
//	fluentify serve [flags]           Run a scripted stand-in API server
//	fluentify courses [flags] [id]    List courses, or show one
//
// Configuration is read from flags, then FLUENTIFY_API_URL and
// FLUENTIFY_TOKEN, then ~/.fluentify/config.yaml (or -config).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/samarthsinh2660/fluentify"
	bt "github.com/samarthsinh2660/fluentify/bubbletea"
	fluentifyfs "github.com/samarthsinh2660/fluentify/fs"
	"github.com/samarthsinh2660/fluentify/generate"
	"github.com/samarthsinh2660/fluentify/gocache"
	fluentifyhttp "github.com/samarthsinh2660/fluentify/http"
	fluentifyjson "github.com/samarthsinh2660/fluentify/json"
	"github.com/samarthsinh2660/fluentify/jwt"
	fluentifyprom "github.com/samarthsinh2660/fluentify/prometheus"
)

func main() {
	env := envConfig{
		apiURL: os.Getenv("FLUENTIFY_API_URL"),
		token:  os.Getenv("FLUENTIFY_TOKEN"),
	}
	env.home, _ = os.UserHomeDir()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], env, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "fluentify: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, env envConfig, stdout io.Writer) error {
	cmd := "generate"
	if len(args) > 0 {
		switch args[0] {
		case "generate", "replay", "serve", "courses":
			cmd, args = args[0], args[1:]
		}
	}
	switch cmd {
	case "replay":
		return runReplay(ctx, args, env, stdout)
	case "serve":
		return runServe(ctx, args, env)
	case "courses":
		return runCourses(ctx, args, env, stdout)
	default:
		return runGenerate(ctx, args, env, stdout)
	}
}

// addCommonFlags registers the flags every subcommand shares.
func addCommonFlags(fs *flag.FlagSet, fl *flagConfig) {
	fs.StringVar(&fl.configPath, "config", "", "Path to config file (default ~/.fluentify/config.yaml)")
	fs.StringVar(&fl.baseURL, "api-url", "", "API base URL (default "+fluentifyhttp.DefaultBaseURL+")")
	fs.StringVar(&fl.tokenFile, "token-file", "", "Path to a file holding the bearer token")
	fs.StringVar(&fl.logFile, "log", "", "Path to log file (logging is off when empty)")
	fs.StringVar(&fl.logFormat, "log-format", "", "Log format: text, json")
}

// addParamFlags registers the course parameter flags.
func addParamFlags(fs *flag.FlagSet, fl *flagConfig) {
	fs.StringVar(&fl.language, "language", "", "Course language, by name or code (e.g. Spanish, ES)")
	fs.StringVar(&fl.duration, "duration", "", "Expected duration (e.g. \"3 months\")")
	fs.StringVar(&fl.expertise, "expertise", "", "Expertise: Beginner, Intermediate, Advanced")
	fs.DurationVar(&fl.idleTimeout, "idle-timeout", 0, "Fail a session after this long without data (0 disables)")
}

func runGenerate(ctx context.Context, args []string, env envConfig, stdout io.Writer) error {
	var fl flagConfig
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	addCommonFlags(fs, &fl)
	addParamFlags(fs, &fl)
	var (
		plain       = fs.Bool("plain", false, "Print progress lines instead of running the TUI")
		savePath    = fs.String("save", "", "Write the final snapshot to this JSON file")
		recordDir   = fs.String("record", "", "Record the raw stream into this directory")
		metricsAddr = fs.String("metrics-addr", "", "Serve Prometheus metrics on this address")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := resolveConfig(fl, env)
	if err != nil {
		return err
	}
	if err := cfg.params.Validate(); err != nil {
		return fmt.Errorf("%w (use -language, -duration and -expertise, or the config file)", err)
	}
	logger, closeLog, err := newLogger(cfg.logFile, cfg.logFormat)
	if err != nil {
		return err
	}
	defer closeLog.Close()

	creds, err := credentials(cfg, time.Now())
	if err != nil {
		return err
	}
	logger.Info("signed in", "user", creds.UserID, "role", creds.Role)

	client := fluentifyhttp.New(cfg.baseURL, creds)
	var opener fluentify.Opener = client
	if *recordDir != "" {
		opener = fluentifyfs.NewRecorder(opener, *recordDir, fluentifyfs.WithLogger(logger))
	}
	cache := gocache.New(gocache.DefaultTTL, gocache.DefaultCleanupInterval, logger)
	courses := gocache.NewCourseService(cache, client)

	opts := []generate.Option{
		generate.WithInvalidator(cache),
		generate.WithLogger(logger),
		generate.WithIdleTimeout(cfg.idleTimeout),
	}
	if *metricsAddr != "" {
		collector, shutdown, err := serveMetrics(*metricsAddr, logger)
		if err != nil {
			return err
		}
		defer shutdown()
		opts = append(opts, generate.WithObserver(collector))
	}
	gen := generate.New(opener, opts...)
	defer gen.Close()

	var final fluentify.State
	if *plain {
		final = runPlain(ctx, gen, cfg.params, stdout)
		if c, ok := completedCourse(ctx, courses, final, logger); ok {
			fmt.Fprintf(stdout, "Saved as %q (course #%d)\n", bt.SanitizeLine(c.Title), c.ID)
		}
	} else {
		m := bt.New(gen, cfg.params, fluentify.DefaultTheme(),
			bt.WithAutoStart(), bt.WithCourseLister(courses))
		fm, err := bt.Run(ctx, m)
		if err != nil && ctx.Err() == nil {
			return fmt.Errorf("TUI: %w", err)
		}
		final = fm.State()
	}

	if *savePath != "" {
		snap := fluentifyjson.Snapshot{Params: cfg.params, State: final, SavedAt: time.Now()}
		if err := fluentifyjson.Save(*savePath, snap); err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Snapshot saved to %s\n", *savePath)
	}
	if final.Error != nil {
		return errors.New(*final.Error)
	}
	return nil
}

// completedCourse looks up the course a finished session created. The
// session invalidated its cache entry on completion, so the lookup reaches
// the server.
func completedCourse(ctx context.Context, courses fluentify.CourseLister, st fluentify.State, logger *slog.Logger) (fluentify.CourseSummary, bool) {
	if !st.IsComplete || st.CourseID == nil {
		return fluentify.CourseSummary{}, false
	}
	c, err := courses.Course(ctx, *st.CourseID)
	if err != nil {
		logger.Warn("course lookup failed", "course", *st.CourseID, "error", err)
		return fluentify.CourseSummary{}, false
	}
	return c, true
}

// credentials loads the bearer token and rejects it when expired.
func credentials(cfg config, now time.Time) (*jwt.Credentials, error) {
	var (
		creds *jwt.Credentials
		err   error
	)
	switch {
	case cfg.tokenFile != "":
		creds, err = jwt.LoadFile(cfg.tokenFile)
	case cfg.token != "":
		creds, err = jwt.Parse(cfg.token)
	default:
		return nil, errors.New("no token: set FLUENTIFY_TOKEN, -token-file, or token_file in the config file")
	}
	if err != nil {
		return nil, err
	}
	if err := creds.Valid(now); err != nil {
		if errors.Is(err, fluentify.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: sign in again to get a new token", err)
		}
		return nil, err
	}
	return creds, nil
}

// serveMetrics starts a metrics endpoint and returns the collector feeding
// it along with a function that stops the server.
func serveMetrics(addr string, logger *slog.Logger) (*fluentifyprom.Collector, func(), error) {
	collector, err := fluentifyprom.New(prometheus.NewRegistry())
	if err != nil {
		return nil, nil, err
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("metrics: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "err", err)
		}
	}()
	return collector, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
