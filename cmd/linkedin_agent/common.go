package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jonathan/linkedin-snapshot/internal/brightdata"
	"github.com/jonathan/linkedin-snapshot/internal/config"
	"github.com/jonathan/linkedin-snapshot/internal/db"
	"github.com/jonathan/linkedin-snapshot/internal/linkedin"
	"github.com/jonathan/linkedin-snapshot/internal/observability"
	"github.com/jonathan/linkedin-snapshot/internal/types"
	"github.com/spf13/cobra"
)

var (
	configPath          string
	verbose             bool
	databaseURL         string
	skipCache           bool
	validateOutput      bool
	pollIntervalSeconds int
	pollMaxAttempts     int
	pollTimeoutSeconds  int
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Path to a JSON config file (environment fills unset fields)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log pipeline progress to stderr")
	flags.StringVar(&databaseURL, "db-url", "", "PostgreSQL URL for the result cache (overrides DATABASE_URL)")
	flags.BoolVar(&skipCache, "skip-cache", false, "Ignore cached results and collect a fresh snapshot")
	flags.BoolVar(&validateOutput, "validate", false, "Validate filtered output against the embedded JSON Schemas")
	flags.IntVar(&pollIntervalSeconds, "poll-interval", 0, "Seconds between snapshot status checks (overrides POLL_INTERVAL_SECONDS)")
	flags.IntVar(&pollMaxAttempts, "max-attempts", 0, "Maximum status checks per snapshot (overrides POLL_MAX_ATTEMPTS)")
	flags.IntVar(&pollTimeoutSeconds, "timeout", 0, "Maximum seconds to wait for a snapshot, 0 for no limit (overrides POLL_TIMEOUT_SECONDS)")
}

// loadConfig builds the configuration from the environment, an optional config
// file, and finally any persistent flags the user set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if configPath != "" {
		fileCfg, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		merged := fileCfg.MergeWithDefaults(*cfg)
		cfg = &merged
	}

	flags := cmd.Flags()
	if flags.Changed("db-url") {
		cfg.DatabaseURL = databaseURL
	}
	if flags.Changed("poll-interval") {
		cfg.PollIntervalSeconds = pollIntervalSeconds
	}
	if flags.Changed("max-attempts") {
		cfg.PollMaxAttempts = pollMaxAttempts
	}
	if flags.Changed("timeout") {
		cfg.PollTimeoutSeconds = pollTimeoutSeconds
	}
	if verbose {
		cfg.Verbose = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openStore connects to the result cache when a database is configured. It returns
// nil when none is.
func openStore(ctx context.Context, cfg *config.Config) (*db.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, nil
	}
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return database, nil
}

// pipeline bundles a ready-to-use Service with the resources it holds.
type pipeline struct {
	cfg     *config.Config
	service *linkedin.Service
	store   *db.DB
	printer *observability.Printer
}

func (p *pipeline) Close() {
	p.store.Close()
}

// newPipeline wires config, the Bright Data client, the optional store, and the
// verbose printer into a Service.
func newPipeline(ctx context.Context, cmd *cobra.Command) (*pipeline, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	p := &pipeline{cfg: cfg, store: store}

	client := brightdata.NewClient(brightdata.Options{
		BaseURL:  cfg.APIBaseURL(),
		APIToken: cfg.APIToken,
		Timeout:  cfg.HTTPTimeout(),
		Verbose:  cfg.Verbose,
	})

	opts := linkedin.Options{
		SkipCache: skipCache,
		Validate:  validateOutput,
		Verbose:   cfg.Verbose,
	}
	if store != nil {
		opts.Store = store
	}
	if cfg.Verbose {
		p.printer = observability.NewPrinter(cmd.ErrOrStderr())
		opts.OnPoll = p.printer.PrintPollStatus
	}

	p.service = linkedin.NewService(cfg, client, opts)
	return p, nil
}

// writeJSON prints v as indented JSON followed by a newline.
func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	if _, err := fmt.Fprintln(w, string(data)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// writeOutput writes v as JSON to outPath, or to the command's stdout when outPath is empty.
func writeOutput(cmd *cobra.Command, outPath string, v any) error {
	if outPath == "" {
		return writeJSON(cmd.OutOrStdout(), v)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()
	if err := writeJSON(f, v); err != nil {
		return err
	}
	if verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", outPath)
	}
	return nil
}

// commandContext returns the command's context, or a background context when
// the command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// recordsOrEmpty keeps JSON output a list even when nothing was found.
func recordsOrEmpty(records []types.Record) []types.Record {
	if records == nil {
		return []types.Record{}
	}
	return records
}

// writeCompactJSON prints v as a single JSON line.
func writeCompactJSON(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	if _, err := fmt.Fprintln(w, string(data)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
