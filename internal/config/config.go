// Package config provides centralized configuration management for the pipeline.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import "time"

// Config holds all pipeline configuration.
// All settings can be configured via environment variables.
type Config struct {
	Source  SourceConfig
	Fetch   FetchConfig
	Output  OutputConfig
	Logging LoggingConfig
	Metrics MetricsConfig
}

// SourceConfig holds the reference table locations.
type SourceConfig struct {
	// RegistryPath is a cruise registry file, .csv or .yaml (default: bundled registry)
	RegistryPath string `env:"SOURCE_REGISTRY_PATH" envAlt:"REGISTRY_PATH"`

	// HeaderMapPath is a summary header map CSV (default: bundled header map)
	HeaderMapPath string `env:"SOURCE_HEADER_MAP_PATH" envAlt:"HEADER_MAP_PATH"`
}

// FetchConfig holds remote retrieval settings.
type FetchConfig struct {
	// Timeout is the maximum duration of a single request (default: 60s)
	Timeout time.Duration `env:"FETCH_TIMEOUT" default:"60s"`

	// RatePerSecond is the request rate against the document store; 0 is unlimited (default: 2)
	RatePerSecond float64 `env:"FETCH_RATE_PER_SECOND" default:"2"`

	// Burst is the number of requests allowed at once above the rate (default: 4)
	Burst int `env:"FETCH_BURST" default:"4"`

	// Concurrency is the number of cruises fetched in parallel (default: 4)
	Concurrency int `env:"FETCH_CONCURRENCY" default:"4"`

	// MaxFileSize is the maximum download size in bytes (default: 50MB)
	MaxFileSize int64 `env:"FETCH_MAX_FILE_SIZE" default:"52428800"`

	// UserAgent is sent with every request
	UserAgent string `env:"FETCH_USER_AGENT" default:"discrete-summary/1.0"`

	// RunTimeout is the maximum duration of a full pipeline run (default: 30m)
	RunTimeout time.Duration `env:"FETCH_RUN_TIMEOUT" default:"30m"`
}

// OutputConfig holds result file settings.
type OutputConfig struct {
	// Dir receives profile.csv and discrete.csv (default: current directory)
	Dir string `env:"OUTPUT_DIR" default:"."`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// MetricsConfig holds Prometheus settings.
type MetricsConfig struct {
	// Enabled controls whether pipeline counters are collected (default: true)
	Enabled bool `env:"METRICS_ENABLED" default:"true"`

	// Namespace prefixes every metric name (default: discrete_summary)
	Namespace string `env:"METRICS_NAMESPACE" default:"discrete_summary"`

	// TextfilePath receives the metrics in text format after a run; empty disables it
	TextfilePath string `env:"METRICS_TEXTFILE_PATH"`
}
