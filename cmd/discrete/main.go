package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/discrete-summary/internal/config"
	"github.com/JonMunkholm/discrete-summary/internal/contents"
	"github.com/JonMunkholm/discrete-summary/internal/core"
	"github.com/JonMunkholm/discrete-summary/internal/logging"
	"github.com/JonMunkholm/discrete-summary/internal/metrics"
	"github.com/JonMunkholm/discrete-summary/internal/registry"
	"github.com/JonMunkholm/discrete-summary/internal/schema"
	"github.com/JonMunkholm/discrete-summary/internal/table"
)

func main() {
	// Load .env file if it exists; real environment variables take precedence
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("configuration loaded", "config", cfg.String())

	if err := run(cfg); err != nil {
		slog.Error("pipeline failed", "error", err)
		if core.IsUserFacing(err) {
			fmt.Fprintln(os.Stderr, core.FormatUserError(err))
		} else {
			fmt.Fprintf(os.Stderr, "pipeline failed: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	reg, err := registry.Load(cfg.Source.RegistryPath)
	if err != nil {
		return fmt.Errorf("load registry: %w", err)
	}
	headers, err := schema.LoadHeaderMap(cfg.Source.HeaderMapPath)
	if err != nil {
		return fmt.Errorf("load header map: %w", err)
	}

	client := contents.NewClient(contents.Options{
		Timeout:       cfg.Fetch.Timeout,
		RatePerSecond: cfg.Fetch.RatePerSecond,
		Burst:         cfg.Fetch.Burst,
		MaxFileSize:   cfg.Fetch.MaxFileSize,
		UserAgent:     cfg.Fetch.UserAgent,
	})

	opts := []core.Option{
		core.WithConcurrency(cfg.Fetch.Concurrency),
		core.WithRunTimeout(cfg.Fetch.RunTimeout),
	}
	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector(cfg.Metrics.Namespace)
		opts = append(opts, core.WithMetrics(collector))
	}

	svc, err := core.NewService(reg, headers, client, opts...)
	if err != nil {
		return err
	}

	// Cancel in-flight fetches on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := svc.Run(ctx)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	outputs := []struct {
		name string
		t    *table.Table
	}{
		{"profile.csv", res.Profile},
		{"discrete.csv", res.Discrete},
	}
	for _, o := range outputs {
		path := filepath.Join(cfg.Output.Dir, o.name)
		if err := writeTable(path, o.t); err != nil {
			return err
		}
		slog.Info("wrote output", "path", path, "rows", o.t.Len(), "columns", len(o.t.Names()))
	}

	if collector != nil && cfg.Metrics.TextfilePath != "" {
		if err := collector.WriteTextfile(cfg.Metrics.TextfilePath); err != nil {
			slog.Warn("failed to write metrics textfile", "path", cfg.Metrics.TextfilePath, "error", err)
		}
	}
	return nil
}

func writeTable(path string, t *table.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := table.WriteCSV(f, t); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
