package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/linkedin-snapshot/internal/db"
	"github.com/jonathan/linkedin-snapshot/internal/types"
	"github.com/spf13/cobra"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Inspect and invalidate cached snapshot results",
	Long:  "List or invalidate the snapshot results and watched jobs stored in the database. Requires DATABASE_URL or --db-url.",
}

var resultsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored snapshot results, newest first",
	Args:  cobra.NoArgs,
	RunE:  runResultsList,
}

var resultsInvalidateCmd = &cobra.Command{
	Use:   "invalidate KIND URL",
	Short: "Mark a stored result stale so the next request collects it again",
	Args:  cobra.ExactArgs(2),
	RunE:  runResultsInvalidate,
}

var resultsWatchedCmd = &cobra.Command{
	Use:   "watched KEYWORD",
	Short: "List jobs recorded by watch-jobs for a keyword",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runResultsWatched,
}

var (
	resultsKind  string
	resultsLimit int
)

func init() {
	resultsListCmd.Flags().StringVar(&resultsKind, "kind", "", "Only list this dataset kind ("+kindNames()+")")
	resultsCmd.PersistentFlags().IntVar(&resultsLimit, "limit", db.DefaultListLimit, "Maximum rows to print")

	resultsCmd.AddCommand(resultsListCmd, resultsInvalidateCmd, resultsWatchedCmd)
	rootCmd.AddCommand(resultsCmd)
}

// resultSummary is a stored result without its payload.
type resultSummary struct {
	ID          uuid.UUID  `json:"id"`
	DatasetKind string     `json:"dataset_kind"`
	TargetURL   string     `json:"target_url"`
	RecordCount int        `json:"record_count"`
	FetchedAt   time.Time  `json:"fetched_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	Expired     bool       `json:"expired"`
}

func summarizeResult(r db.SnapshotResult) resultSummary {
	return resultSummary{
		ID:          r.ID,
		DatasetKind: r.DatasetKind,
		TargetURL:   r.TargetURL,
		RecordCount: r.RecordCount,
		FetchedAt:   r.FetchedAt,
		ExpiresAt:   r.ExpiresAt,
		Expired:     r.IsExpired(),
	}
}

func kindNames() string {
	kinds := types.AllDatasetKinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

func parseKind(s string) (types.DatasetKind, error) {
	kind, err := types.ParseDatasetKind(s)
	if err != nil {
		return "", fmt.Errorf("%w (expected one of: %s)", err, kindNames())
	}
	return kind, nil
}

// requireStore opens the configured database, failing when none is configured.
func requireStore(ctx context.Context, cmd *cobra.Command) (*db.DB, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("%s requires a database (set DATABASE_URL or --db-url)", cmd.CommandPath())
	}
	return openStore(ctx, cfg)
}

func runResultsList(cmd *cobra.Command, _ []string) error {
	var kind types.DatasetKind
	if resultsKind != "" {
		var err error
		if kind, err = parseKind(resultsKind); err != nil {
			return err
		}
	}

	ctx := commandContext(cmd)
	store, err := requireStore(ctx, cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := store.ListResults(ctx, string(kind), resultsLimit)
	if err != nil {
		return err
	}

	summaries := make([]resultSummary, len(results))
	for i, r := range results {
		summaries[i] = summarizeResult(r)
	}
	return writeJSON(cmd.OutOrStdout(), summaries)
}

func runResultsInvalidate(cmd *cobra.Command, args []string) error {
	kind, err := parseKind(args[0])
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	store, err := requireStore(ctx, cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.InvalidateResult(ctx, string(kind), args[1]); err != nil {
		return err
	}
	if verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "Invalidated %s result for %s\n", kind, args[1])
	}
	return nil
}

func runResultsWatched(cmd *cobra.Command, args []string) error {
	keyword := strings.TrimSpace(strings.Join(args, " "))

	ctx := commandContext(cmd)
	store, err := requireStore(ctx, cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	jobs, err := store.ListWatchedJobs(ctx, keyword, resultsLimit)
	if err != nil {
		return err
	}
	if jobs == nil {
		jobs = []db.WatchedJob{}
	}
	return writeJSON(cmd.OutOrStdout(), jobs)
}
