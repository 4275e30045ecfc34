package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	fluentifychi "github.com/samarthsinh2660/fluentify/chi"
)

func runServe(ctx context.Context, args []string, env envConfig) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	var (
		addr       = fs.String("addr", "localhost:5000", "Listen address")
		scriptPath = fs.String("script", "", "YAML script to play (default: a successful demo course)")
		token      = fs.String("token", "", "Require this bearer token (default FLUENTIFY_TOKEN; empty accepts any)")
		units      = fs.Int("units", 6, "Units in the demo course")
		delay      = fs.Duration("delay", 300*time.Millisecond, "Pause before each demo frame")
		logFormat  = fs.String("log-format", "text", "Log format: text, json")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *units <= 0 {
		return fmt.Errorf("units must be positive, got %d", *units)
	}

	script := fluentifychi.DemoScript(1, *units, *delay)
	if *scriptPath != "" {
		data, err := os.ReadFile(*scriptPath)
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		if script, err = fluentifychi.ParseScript(data); err != nil {
			return err
		}
	}

	logger := slog.New(newHandler(os.Stderr, *logFormat, slog.LevelInfo))
	opts := []fluentifychi.Option{fluentifychi.WithLogger(logger)}
	if tok := first(*token, env.token); tok != "" {
		opts = append(opts, fluentifychi.WithToken(tok))
	}

	ln, err := net.Listen("tcp", *addr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           fluentifychi.NewServer(script, opts...),
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Info("serving", "addr", ln.Addr().String(), "frames", len(script.Frames))

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
