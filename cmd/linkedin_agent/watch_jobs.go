package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonathan/linkedin-snapshot/internal/types"
	"github.com/jonathan/linkedin-snapshot/internal/watch"
	"github.com/spf13/cobra"
)

var watchJobsCmd = &cobra.Command{
	Use:   "watch-jobs KEYWORD [KEYWORD...]",
	Short: "Periodically search jobs and report new postings",
	Long: `Re-run a LinkedIn job search for every keyword on a schedule and print postings
that were not seen before, one JSON line per job. Seen postings are tracked in redis
when REDIS_URL is set and in memory otherwise. New postings are stored in the
database when one is configured.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatchJobs,
}

var (
	watchEvery string
	watchOnce  bool
)

func init() {
	watchJobsCmd.Flags().StringVar(&watchEvery, "every", watch.DefaultInterval.String(), `Interval ("6h") or cron expression ("0 */4 * * *")`)
	watchJobsCmd.Flags().BoolVar(&watchOnce, "once", false, "Run a single cycle and exit")
	rootCmd.AddCommand(watchJobsCmd)
}

func runWatchJobs(cmd *cobra.Command, args []string) error {
	// A signal cancels the cycle in flight, including any snapshot still polling.
	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return watchJobs(ctx, cmd, args)
}

// watchJobs runs the watcher until ctx is done, or for a single cycle with --once.
func watchJobs(ctx context.Context, cmd *cobra.Command, args []string) error {
	p, err := newPipeline(ctx, cmd)
	if err != nil {
		return err
	}
	defer p.Close()

	seen, closeSeen, err := newSeenStore(ctx, p.cfg.RedisURL)
	if err != nil {
		return err
	}
	defer closeSeen()

	out := cmd.OutOrStdout()
	opts := watch.Options{
		Seen: seen,
		OnNew: func(keyword string, jobs []types.Record) {
			if p.printer != nil {
				p.printer.PrintNewJobs(keyword, jobs)
			}
			for _, job := range jobs {
				line := types.Record{"keyword": keyword, "job": job}
				if err := writeCompactJSON(out, line); err != nil {
					log.Printf("[watch] %v", err)
				}
			}
		},
	}
	if p.store != nil {
		opts.Sink = p.store
	}

	watcher, err := watch.NewWatcher(p.service, args, opts)
	if err != nil {
		return err
	}

	if watchOnce {
		for _, res := range watcher.RunOnce(ctx) {
			if res.Err != nil {
				return fmt.Errorf("keyword %q: %w", res.Keyword, res.Err)
			}
		}
		return nil
	}

	scheduler, err := watch.NewScheduler(watcher, watchEvery)
	if err != nil {
		return err
	}
	if err := scheduler.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	log.Printf("[watch] Shutting down: %v", context.Cause(ctx))
	scheduler.Stop()
	return nil
}

// newSeenStore returns a redis-backed store when redisURL is set, otherwise an
// in-memory one. The returned func releases the connection.
func newSeenStore(ctx context.Context, redisURL string) (watch.SeenStore, func(), error) {
	if redisURL == "" {
		return watch.NewMemorySeenStore(), func() {}, nil
	}
	client, err := watch.NewRedisClient(ctx, redisURL)
	if err != nil {
		return nil, nil, err
	}
	return watch.NewRedisSeenStore(client, ""), func() { _ = client.Close() }, nil
}
