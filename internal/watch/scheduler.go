package watch

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultInterval is how often the watcher searches when no schedule is given.
const DefaultInterval = 6 * time.Hour

// Scheduler wraps robfig/cron and runs the watcher on a schedule.
type Scheduler struct {
	cron    *cron.Cron
	watcher *Watcher
	spec    string
	wg      sync.WaitGroup
}

// CronSpec turns a schedule into a cron spec. A Go duration such as "6h" becomes
// "@every 6h"; anything else is taken as a cron expression or descriptor.
func CronSpec(schedule string) (string, error) {
	schedule = strings.TrimSpace(schedule)
	if schedule == "" {
		return "@every " + DefaultInterval.String(), nil
	}
	if d, err := time.ParseDuration(schedule); err == nil {
		if d <= 0 {
			return "", fmt.Errorf("schedule interval must be positive, got %s", schedule)
		}
		return "@every " + d.String(), nil
	}
	if _, err := cron.ParseStandard(schedule); err != nil {
		return "", fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}
	return schedule, nil
}

// NewScheduler creates a Scheduler for schedule (see CronSpec).
func NewScheduler(watcher *Watcher, schedule string) (*Scheduler, error) {
	spec, err := CronSpec(schedule)
	if err != nil {
		return nil, err
	}
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cron.DefaultLogger),
			cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
		),
		watcher: watcher,
		spec:    spec,
	}, nil
}

// Spec returns the cron spec in use.
func (s *Scheduler) Spec() string {
	return s.spec
}

// Start registers the job and starts the scheduler. It also runs one cycle
// immediately so results arrive without waiting for the first tick. The first
// cycle goes through the same job chain as the ticks, so cycles never overlap.
// Cancelling ctx aborts the cycle in flight.
func (s *Scheduler) Start(ctx context.Context) error {
	id, err := s.cron.AddFunc(s.spec, func() {
		s.watcher.RunOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}
	first := s.cron.Entry(id).WrappedJob

	s.cron.Start()
	log.Printf("[watch] Cron started, spec: %s", s.spec)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		first.Run()
	}()

	return nil
}

// Stop stops the scheduler and waits for running cycles to finish. Cancel the
// context passed to Start first to cut a running cycle short.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.wg.Wait()
	log.Println("[watch] Cron stopped")
}
