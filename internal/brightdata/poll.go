package brightdata

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonathan/linkedin-snapshot/internal/types"
)

// Poll defaults.
const (
	DefaultPollInterval    = 5 * time.Second
	DefaultPollMaxAttempts = 120
)

// PollPolicy bounds how long WaitReady keeps checking a pending snapshot.
type PollPolicy struct {
	// Interval is the fixed delay between status checks. There is no backoff.
	Interval time.Duration
	// MaxAttempts caps the number of status checks. Zero uses DefaultPollMaxAttempts.
	MaxAttempts int
	// Timeout caps total polling time. Zero means only MaxAttempts applies.
	Timeout time.Duration
	// NamedRecordIsReady treats a status payload with no status but a populated
	// "name" key as ready. Profile snapshots answer that way once they are done.
	NamedRecordIsReady bool
	// OnPoll, when set, observes every status check.
	OnPoll func(attempt int, snapshot *types.Snapshot)
}

// DefaultPollPolicy returns the policy used when callers don't supply one.
func DefaultPollPolicy() PollPolicy {
	return PollPolicy{
		Interval:    DefaultPollInterval,
		MaxAttempts: DefaultPollMaxAttempts,
	}
}

func (p PollPolicy) normalized() PollPolicy {
	if p.Interval < 0 {
		p.Interval = 0
	}
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = DefaultPollMaxAttempts
	}
	return p
}

// resolve applies the policy's quirk handling to an observed snapshot.
func (p PollPolicy) resolve(snap *types.Snapshot) types.SnapshotStatus {
	if snap.Status != types.SnapshotPending || !p.NamedRecordIsReady {
		return snap.Status
	}
	if status, ok := snap.Raw["status"]; ok && status != nil {
		return snap.Status
	}
	if name, ok := snap.Raw["name"]; ok && name != nil && name != "" {
		return types.SnapshotReady
	}
	return snap.Status
}

// WaitReady polls a snapshot until it is ready. The first check happens immediately,
// so a snapshot that is already ready costs exactly one status request.
//
// A failed snapshot returns RemoteProcessingError. Running out of attempts, exceeding
// the policy timeout, or hitting the context deadline returns TimeoutError.
func (c *Client) WaitReady(ctx context.Context, snapshotID string, policy PollPolicy) (*types.Snapshot, error) {
	policy = policy.normalized()

	if policy.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, policy.Timeout)
		defer cancel()
	}

	c.logf("[BRIGHTDATA] Polling snapshot %s every %s (max %d checks)", snapshotID, policy.Interval, policy.MaxAttempts)

	start := time.Now()
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		snap, err := c.Status(ctx, snapshotID)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, pollContextError(snapshotID, attempt, start, ctxErr)
			}
			return nil, fmt.Errorf("status check %d for snapshot %s: %w", attempt, snapshotID, err)
		}

		snap.Status = policy.resolve(snap)
		if policy.OnPoll != nil {
			policy.OnPoll(attempt, snap)
		}
		c.logf("[BRIGHTDATA] Polling status: %s (check %d)", snap.Status, attempt)

		if snap.Status.Terminal() {
			if snap.Status == types.SnapshotFailed {
				return snap, &RemoteProcessingError{SnapshotID: snapshotID, Payload: snap.Raw}
			}
			return snap, nil
		}

		if attempt == policy.MaxAttempts {
			break
		}
		if err := sleep(ctx, policy.Interval); err != nil {
			return nil, pollContextError(snapshotID, attempt, start, err)
		}
	}

	return nil, &TimeoutError{
		SnapshotID: snapshotID,
		Attempts:   policy.MaxAttempts,
		Elapsed:    time.Since(start),
	}
}

// pollContextError converts an expired deadline into TimeoutError; a plain
// cancellation is returned as is.
func pollContextError(snapshotID string, attempts int, start time.Time, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{
			SnapshotID: snapshotID,
			Attempts:   attempts,
			Elapsed:    time.Since(start),
			Cause:      err,
		}
	}
	return fmt.Errorf("polling snapshot %s: %w", snapshotID, err)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
