// Package linkedin runs the snapshot pipelines for LinkedIn profiles, job listings
// and job searches, with an optional result cache in front of them.
package linkedin

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jonathan/linkedin-snapshot/internal/brightdata"
	"github.com/jonathan/linkedin-snapshot/internal/config"
	"github.com/jonathan/linkedin-snapshot/internal/db"
	"github.com/jonathan/linkedin-snapshot/internal/types"
)

// Collector runs one trigger, poll and download cycle. *brightdata.Client satisfies it.
type Collector interface {
	Collect(ctx context.Context, req types.CollectionRequest, datasetID string, policy brightdata.PollPolicy) ([]types.Record, error)
}

// Store persists filtered results between runs. *db.DB satisfies it.
type Store interface {
	GetFreshResult(ctx context.Context, kind, targetURL string, ttl time.Duration) (*db.SnapshotResult, error)
	SaveResult(ctx context.Context, result *db.SnapshotResult) error
}

// Options configures a Service.
type Options struct {
	// Store enables the result cache. Nil disables it.
	Store Store
	// SkipCache forces fresh collection even when a stored result is still fresh.
	// Fresh results are still saved.
	SkipCache bool
	// Validate checks filtered output against the embedded JSON Schemas.
	Validate bool
	// OnPoll observes every status check of every pipeline.
	OnPoll func(kind types.DatasetKind, attempt int, snapshot *types.Snapshot)
	Verbose bool
}

// Service runs the per-kind pipelines. It holds no mutable state, so one Service
// can serve concurrent requests.
type Service struct {
	cfg       *config.Config
	collector Collector
	opts      Options
}

// NewService creates a Service. cfg is read, never modified.
func NewService(cfg *config.Config, collector Collector, opts Options) *Service {
	return &Service{cfg: cfg, collector: collector, opts: opts}
}

// Fresh returns a copy of s that skips cached results but still stores new ones.
func (s *Service) Fresh() *Service {
	fresh := *s
	fresh.opts.SkipCache = true
	return &fresh
}

// pollPolicy builds the polling bounds for kind from configuration.
func (s *Service) pollPolicy(kind types.DatasetKind) brightdata.PollPolicy {
	policy := brightdata.PollPolicy{
		Interval:    s.cfg.PollInterval(),
		MaxAttempts: s.cfg.MaxPollAttempts(),
		Timeout:     s.cfg.PollTimeout(),
		// Only profile snapshots report completion through a named record.
		NamedRecordIsReady: kind == types.KindProfile,
	}
	if s.opts.OnPoll != nil {
		onPoll := s.opts.OnPoll
		policy.OnPoll = func(attempt int, snap *types.Snapshot) {
			onPoll(kind, attempt, snap)
		}
	}
	return policy
}

// collect resolves credentials for the request's kind and runs the remote pipeline.
func (s *Service) collect(ctx context.Context, req types.CollectionRequest) ([]types.Record, error) {
	creds, err := s.cfg.Credentials(req.Kind)
	if err != nil {
		return nil, err
	}
	s.logf("[LINKEDIN] Collecting %s for %s", req.Kind, req.TargetURL)
	return s.collector.Collect(ctx, req, creds.DatasetID, s.pollPolicy(req.Kind))
}

// cachedRetrieve serves a fresh stored result when one exists, otherwise runs
// retrieve and stores what it returns. Store failures on save are logged only.
func cachedRetrieve[T any](ctx context.Context, s *Service, req types.CollectionRequest, retrieve func(context.Context) (T, int, error)) (T, error) {
	var zero T

	// Credentials are checked before the cache so a misconfigured process fails
	// the same way whether or not a result is stored.
	if _, err := s.cfg.Credentials(req.Kind); err != nil {
		return zero, err
	}

	if s.opts.Store != nil && !s.opts.SkipCache {
		stored, err := s.opts.Store.GetFreshResult(ctx, string(req.Kind), req.TargetURL, s.cfg.CacheTTL())
		if err != nil {
			return zero, fmt.Errorf("failed to check result cache: %w", err)
		}
		if stored != nil {
			var value T
			if err := stored.Decode(&value); err == nil {
				s.logf("[LINKEDIN] Serving cached %s for %s (fetched %s)", req.Kind, req.TargetURL, stored.FetchedAt.Format(time.RFC3339))
				return value, nil
			}
			s.logf("[LINKEDIN] Ignoring undecodable cached %s for %s", req.Kind, req.TargetURL)
		}
	}

	value, count, err := retrieve(ctx)
	if err != nil {
		return zero, err
	}

	if s.opts.Store != nil {
		result, err := db.NewSnapshotResult(string(req.Kind), req.TargetURL, value, count, s.cfg.CacheTTL())
		if err == nil {
			err = s.opts.Store.SaveResult(ctx, result)
		}
		if err != nil {
			log.Printf("[LINKEDIN] Warning: failed to store %s result for %s: %v", req.Kind, req.TargetURL, err)
		}
	}
	return value, nil
}

func (s *Service) logf(format string, args ...any) {
	if s.opts.Verbose {
		log.Printf(format, args...)
	}
}
