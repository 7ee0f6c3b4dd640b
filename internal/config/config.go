// Package config loads runtime settings from the environment.
//
// Everything is optional and carries a working default, so the tool runs with
// no setup. Outside production an optional .env file is loaded first.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/ferdiebergado/gopherkit/env"
)

const (
	envAppEnv    = "CSPKIT_ENV"
	envLogLevel  = "CSPKIT_LOG_LEVEL"
	envMaxDepth  = "CSPKIT_MAX_DEPTH"
	envMaxStates = "CSPKIT_MAX_STATES"
)

const (
	DefaultMaxDepth  = 64
	DefaultMaxStates = 10000
)

// Config holds the tool's runtime settings.
type Config struct {
	AppEnv    string
	LogLevel  string
	MaxDepth  int
	MaxStates int
}

// Load reads configuration from the environment. Outside production a .env
// file in the working directory is loaded first when one exists.
func Load() (*Config, error) {
	appEnv := getenv(envAppEnv, "development")
	if appEnv != "production" {
		if _, statErr := os.Stat(".env"); statErr == nil {
			if err := env.Load(".env"); err != nil {
				return nil, fmt.Errorf("load env: %w", err)
			}
		}
	}

	cfg := &Config{
		AppEnv:    appEnv,
		LogLevel:  getenv(envLogLevel, "INFO"),
		MaxDepth:  DefaultMaxDepth,
		MaxStates: DefaultMaxStates,
	}

	var err error
	if cfg.MaxDepth, err = getint(envMaxDepth, DefaultMaxDepth); err != nil {
		return nil, err
	}
	if cfg.MaxStates, err = getint(envMaxStates, DefaultMaxStates); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetupLogger installs the default slog logger: text for humans, JSON in
// production.
func (c *Config) SetupLogger(out io.Writer) {
	opts := &slog.HandlerOptions{
		Level: stringToLogLevel(c.LogLevel),
	}

	var handler slog.Handler = slog.NewTextHandler(out, opts)
	if c.AppEnv == "production" {
		handler = slog.NewJSONHandler(out, opts)
	}

	slog.SetDefault(slog.New(handler))
}

func getenv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func getint(key string, fallback int) (int, error) {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("%s: expected an integer, got %q", key, val)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s: must be positive, got %d", key, n)
	}
	return n, nil
}

func stringToLogLevel(levelStr string) slog.Level {
	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARNING", "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
