// Package config loads service configuration from a YAML file with
// environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the root service configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Elements ElementsConfig `yaml:"elements"`
	Stream   StreamConfig   `yaml:"stream"`
	Trail    TrailConfig    `yaml:"trail"`
	Auth     AuthConfig     `yaml:"auth"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr string `yaml:"addr" validate:"required"`
}

// ElementsConfig configures element-set fetching and caching.
type ElementsConfig struct {
	SourceURL    string `yaml:"source_url" validate:"required,url"`
	TTLSeconds   int    `yaml:"ttl_seconds" validate:"min=1"`
	SnapshotPath string `yaml:"snapshot_path"`
}

// StreamConfig configures the push endpoints.
type StreamConfig struct {
	IntervalSeconds    int `yaml:"interval_seconds" validate:"min=1"`
	MaxConcurrentPerIP int `yaml:"max_concurrent_per_ip" validate:"min=1"`
}

// TrailConfig configures the default ground-track window.
type TrailConfig struct {
	PastSeconds   int `yaml:"past_seconds" validate:"min=0"`
	FutureSeconds int `yaml:"future_seconds" validate:"min=0"`
	StepSeconds   int `yaml:"step_seconds" validate:"min=1"`
}

// AuthConfig configures optional bearer-token protection.
type AuthConfig struct {
	Token string `yaml:"token"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{Addr: ":8080"},
		Elements: ElementsConfig{
			SourceURL:    "https://celestrak.org/NORAD/elements/gp.php?CATNR=25544&FORMAT=TLE",
			TTLSeconds:   3600,
			SnapshotPath: "",
		},
		Stream: StreamConfig{
			IntervalSeconds:    2,
			MaxConcurrentPerIP: 10,
		},
		Trail: TrailConfig{
			PastSeconds:   1800,
			FutureSeconds: 1800,
			StepSeconds:   30,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads the config file at path (optional), applies ORBITCAST_*
// environment overrides, and validates the result. An empty path loads
// defaults plus overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config: %w", err)
		}
	}

	applyEnv(&cfg)

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// applyEnv layers ORBITCAST_* variables over the file values. Only the
// knobs an operator plausibly flips per deployment get an override.
func applyEnv(cfg *Config) {
	envString("ORBITCAST_ADDR", &cfg.Server.Addr)
	envString("ORBITCAST_SOURCE_URL", &cfg.Elements.SourceURL)
	envInt("ORBITCAST_TTL_SECONDS", &cfg.Elements.TTLSeconds)
	envString("ORBITCAST_SNAPSHOT_PATH", &cfg.Elements.SnapshotPath)
	envInt("ORBITCAST_STREAM_INTERVAL_SECONDS", &cfg.Stream.IntervalSeconds)
	envInt("ORBITCAST_STREAM_MAX_PER_IP", &cfg.Stream.MaxConcurrentPerIP)
	envString("ORBITCAST_AUTH_TOKEN", &cfg.Auth.Token)
	envString("ORBITCAST_LOG_LEVEL", &cfg.Log.Level)
}

func envString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// TTL returns the element cache lifetime as a duration.
func (c ElementsConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// Interval returns the push cadence as a duration.
func (c StreamConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

// Window returns the trail configuration as durations.
func (c TrailConfig) Window() (past, future, step time.Duration) {
	return time.Duration(c.PastSeconds) * time.Second,
		time.Duration(c.FutureSeconds) * time.Second,
		time.Duration(c.StepSeconds) * time.Second
}
