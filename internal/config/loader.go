package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Load reads configuration from environment variables.
// It applies defaults for unset values and validates the result.
// Returns an error if required values are missing or validation fails.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := loadStruct(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration and panics on error.
// Use this only in main() where early termination is desired.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

// loadStruct recursively populates struct fields from environment variables.
func loadStruct(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		// Skip unexported fields
		if !fieldVal.CanSet() {
			continue
		}

		// Recurse into nested structs
		if field.Type.Kind() == reflect.Struct && field.Type != reflect.TypeOf(time.Time{}) {
			if err := loadStruct(fieldVal); err != nil {
				return err
			}
			continue
		}

		// Get tags
		envName := field.Tag.Get("env")
		envAlt := field.Tag.Get("envAlt")
		defaultVal := field.Tag.Get("default")
		required := field.Tag.Get("required") == "true"

		if envName == "" {
			continue
		}

		// Try primary env var, then alternate
		value := os.Getenv(envName)
		if value == "" && envAlt != "" {
			value = os.Getenv(envAlt)
		}

		// Apply default if not set
		if value == "" {
			if required {
				return fmt.Errorf("required environment variable %s is not set", envName)
			}
			value = defaultVal
		}

		if value == "" {
			continue
		}

		// Set the field value
		if err := setField(fieldVal, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", envName, value, err)
		}
	}

	return nil
}

// setField sets a reflect.Value from a string based on its type.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int64:
		// Handle time.Duration specially
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid duration: %w", err)
			}
			field.Set(reflect.ValueOf(d))
		} else {
			i, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer: %w", err)
			}
			field.SetInt(i)
		}

	case reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid float: %w", err)
		}
		field.SetFloat(f)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)

	case reflect.Slice:
		if field.Type().Elem().Kind() == reflect.String {
			// Split comma-separated values, trim whitespace
			parts := strings.Split(value, ",")
			result := make([]string, 0, len(parts))
			for _, p := range parts {
				p = strings.TrimSpace(p)
				if p != "" {
					result = append(result, p)
				}
			}
			field.Set(reflect.ValueOf(result))
		} else {
			return fmt.Errorf("unsupported slice type: %s", field.Type().Elem().Kind())
		}

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	// Fetch validation
	if c.Fetch.Timeout < 0 {
		errs = append(errs, "FETCH_TIMEOUT must be non-negative")
	}
	if c.Fetch.RatePerSecond < 0 {
		errs = append(errs, "FETCH_RATE_PER_SECOND must be non-negative")
	}
	if c.Fetch.Burst <= 0 {
		errs = append(errs, "FETCH_BURST must be positive")
	}
	if c.Fetch.Concurrency <= 0 {
		errs = append(errs, "FETCH_CONCURRENCY must be positive")
	}
	if c.Fetch.MaxFileSize <= 0 {
		errs = append(errs, "FETCH_MAX_FILE_SIZE must be positive")
	}
	if c.Fetch.RunTimeout <= 0 {
		errs = append(errs, "FETCH_RUN_TIMEOUT must be positive")
	}

	// Source validation
	if p := c.Source.RegistryPath; p != "" {
		switch strings.ToLower(filepath.Ext(p)) {
		case ".csv", ".yaml", ".yml":
		default:
			errs = append(errs, fmt.Sprintf("SOURCE_REGISTRY_PATH (%q) must be a .csv, .yaml, or .yml file", p))
		}
	}

	// Output validation
	if c.Output.Dir == "" {
		errs = append(errs, "OUTPUT_DIR must not be empty")
	}

	// Metrics validation
	if c.Metrics.Enabled && c.Metrics.Namespace == "" {
		errs = append(errs, "METRICS_NAMESPACE is required when metrics are enabled")
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// String returns a readable representation of the config for logging.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Source: {RegistryPath: %q, HeaderMapPath: %q}, ",
		c.Source.RegistryPath, c.Source.HeaderMapPath))
	b.WriteString(fmt.Sprintf("Fetch: {Timeout: %s, RatePerSecond: %g, Burst: %d, Concurrency: %d, MaxFileSize: %d}, ",
		c.Fetch.Timeout, c.Fetch.RatePerSecond, c.Fetch.Burst, c.Fetch.Concurrency, c.Fetch.MaxFileSize))
	b.WriteString(fmt.Sprintf("Output: {Dir: %q}, ", c.Output.Dir))
	b.WriteString(fmt.Sprintf("Metrics: {Enabled: %v, Namespace: %q}, ",
		c.Metrics.Enabled, c.Metrics.Namespace))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q}",
		c.Logging.Level, c.Logging.Format))
	b.WriteString("}")
	return b.String()
}
