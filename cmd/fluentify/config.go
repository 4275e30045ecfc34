package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/samarthsinh2660/fluentify"
	fluentifyhttp "github.com/samarthsinh2660/fluentify/http"
	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML config file.
type fileConfig struct {
	BaseURL     string        `yaml:"base_url"`
	TokenFile   string        `yaml:"token_file"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
	LogFile     string        `yaml:"log_file"`
	LogFormat   string        `yaml:"log_format"`
	Language    string        `yaml:"language"`
	Duration    string        `yaml:"duration"`
	Expertise   string        `yaml:"expertise"`
}

// flagConfig holds the command-line values shared by subcommands. Empty
// and zero values mean "not set".
type flagConfig struct {
	configPath  string
	baseURL     string
	tokenFile   string
	idleTimeout time.Duration
	logFile     string
	logFormat   string
	language    string
	duration    string
	expertise   string
}

// envConfig holds the environment values read in main.
type envConfig struct {
	apiURL string
	token  string
	home   string
}

// config is the resolved configuration.
type config struct {
	baseURL     string
	token       string // raw token from the environment
	tokenFile   string
	idleTimeout time.Duration
	logFile     string
	logFormat   string
	params      fluentify.Params
}

func defaultConfigPath(home string) string {
	if home == "" {
		return ""
	}
	return filepath.Join(home, ".fluentify", "config.yaml")
}

// loadFileConfig reads the config file. A missing file at the default
// location is not an error; a missing explicit file is.
func loadFileConfig(path string, explicit bool) (fileConfig, error) {
	var fc fileConfig
	if path == "" {
		return fc, nil
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist) && !explicit:
		return fc, nil
	default:
		return fc, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("parse config %s: %w", path, err)
	}
	return fc, nil
}

// resolveConfig merges flags, environment, config file and defaults, in
// that order of precedence.
func resolveConfig(fl flagConfig, env envConfig) (config, error) {
	path, explicit := fl.configPath, fl.configPath != ""
	if !explicit {
		path = defaultConfigPath(env.home)
	}
	fc, err := loadFileConfig(path, explicit)
	if err != nil {
		return config{}, err
	}

	cfg := config{
		baseURL:     first(fl.baseURL, env.apiURL, fc.BaseURL, fluentifyhttp.DefaultBaseURL),
		idleTimeout: fc.IdleTimeout,
		logFile:     first(fl.logFile, fc.LogFile),
		logFormat:   first(fl.logFormat, fc.LogFormat, "text"),
		params: fluentify.Params{
			Language:         languageName(first(fl.language, fc.Language)),
			ExpectedDuration: first(fl.duration, fc.Duration),
			Expertise:        first(fl.expertise, fc.Expertise),
		},
	}
	if fl.idleTimeout > 0 {
		cfg.idleTimeout = fl.idleTimeout
	}
	if cfg.idleTimeout < 0 {
		return config{}, fmt.Errorf("idle timeout must not be negative")
	}

	// A token file flag beats the token env var, which beats the file
	// named in the config.
	switch {
	case fl.tokenFile != "":
		cfg.tokenFile = expandHome(fl.tokenFile, env.home)
	case env.token != "":
		cfg.token = env.token
	case fc.TokenFile != "":
		cfg.tokenFile = expandHome(fc.TokenFile, env.home)
	}

	switch cfg.logFormat {
	case "text", "json":
	default:
		return config{}, fmt.Errorf("unknown log format %q: must be \"text\" or \"json\"", cfg.logFormat)
	}
	cfg.logFile = expandHome(cfg.logFile, env.home)
	return cfg, nil
}

// languageName maps a known language code to its name. Unknown values
// pass through unchanged.
func languageName(s string) string {
	if l, ok := fluentify.LookupLanguage(s); ok {
		return l.Name
	}
	return s
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func expandHome(path, home string) string {
	if home == "" {
		return path
	}
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		return filepath.Join(home, rest)
	}
	return path
}

// newLogger returns a logger writing to path in the given format. An
// empty path discards all output, since the TUI owns the terminal.
func newLogger(path, format string) (*slog.Logger, io.Closer, error) {
	if path == "" {
		return slog.New(slog.DiscardHandler), io.NopCloser(nil), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}
	return slog.New(newHandler(f, format, slog.LevelDebug)), f, nil
}

func newHandler(w io.Writer, format string, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}
