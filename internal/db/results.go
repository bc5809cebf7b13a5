package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// -----------------------------------------------------------------------------
// Snapshot Result Methods
// -----------------------------------------------------------------------------

// SaveResult creates or replaces the stored result for (dataset_kind, target_url).
// The ID and timestamps assigned by the database are written back to result.
func (db *DB) SaveResult(ctx context.Context, result *SnapshotResult) error {
	if result == nil {
		return fmt.Errorf("snapshot result is nil")
	}
	if result.FetchedAt.IsZero() {
		result.FetchedAt = time.Now()
	}

	err := db.pool.QueryRow(ctx,
		`INSERT INTO snapshot_results (dataset_kind, target_url, payload, record_count, fetched_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (dataset_kind, target_url) DO UPDATE SET
		     payload = EXCLUDED.payload,
		     record_count = EXCLUDED.record_count,
		     fetched_at = EXCLUDED.fetched_at,
		     expires_at = EXCLUDED.expires_at,
		     updated_at = NOW()
		 RETURNING id, created_at, updated_at`,
		result.DatasetKind, result.TargetURL, []byte(result.Payload), result.RecordCount,
		result.FetchedAt, result.ExpiresAt,
	).Scan(&result.ID, &result.CreatedAt, &result.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save snapshot result: %w", err)
	}
	return nil
}

// GetResult retrieves the stored result for a dataset kind and target URL, fresh or not.
func (db *DB) GetResult(ctx context.Context, kind, targetURL string) (*SnapshotResult, error) {
	var r SnapshotResult
	var payload []byte

	err := db.pool.QueryRow(ctx,
		`SELECT id, dataset_kind, target_url, payload, record_count, fetched_at, expires_at,
		        created_at, updated_at
		 FROM snapshot_results WHERE dataset_kind = $1 AND target_url = $2`,
		kind, targetURL,
	).Scan(&r.ID, &r.DatasetKind, &r.TargetURL, &payload, &r.RecordCount, &r.FetchedAt,
		&r.ExpiresAt, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get snapshot result: %w", err)
	}
	r.Payload = payload
	return &r, nil
}

// GetFreshResult returns the stored result only if it was fetched within ttl and has not
// expired. It returns nil, nil when there is nothing usable.
func (db *DB) GetFreshResult(ctx context.Context, kind, targetURL string, ttl time.Duration) (*SnapshotResult, error) {
	result, err := db.GetResult(ctx, kind, targetURL)
	if err != nil || result == nil {
		return nil, err
	}
	if !IsFresh(result, ttl, time.Now()) {
		return nil, nil
	}
	return result, nil
}

// IsFresh reports whether a result can still be served at now.
func IsFresh(result *SnapshotResult, ttl time.Duration, now time.Time) bool {
	if result == nil {
		return false
	}
	if result.ExpiresAt != nil && !now.Before(*result.ExpiresAt) {
		return false
	}
	if ttl > 0 && now.Sub(result.FetchedAt) > ttl {
		return false
	}
	return true
}

// InvalidateResult marks a stored result as stale, forcing a re-collect on next request.
func (db *DB) InvalidateResult(ctx context.Context, kind, targetURL string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE snapshot_results SET expires_at = NOW() - INTERVAL '1 hour', updated_at = NOW()
		 WHERE dataset_kind = $1 AND target_url = $2`,
		kind, targetURL,
	)
	if err != nil {
		return fmt.Errorf("failed to invalidate snapshot result: %w", err)
	}
	return nil
}

// ListResults returns the most recently fetched results, optionally restricted to one kind.
func (db *DB) ListResults(ctx context.Context, kind string, limit int) ([]SnapshotResult, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, dataset_kind, target_url, payload, record_count, fetched_at, expires_at,
		        created_at, updated_at
		 FROM snapshot_results
		 WHERE ($1 = '' OR dataset_kind = $1)
		 ORDER BY fetched_at DESC
		 LIMIT $2`,
		kind, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshot results: %w", err)
	}
	defer rows.Close()

	var results []SnapshotResult
	for rows.Next() {
		var r SnapshotResult
		var payload []byte
		if err := rows.Scan(&r.ID, &r.DatasetKind, &r.TargetURL, &payload, &r.RecordCount,
			&r.FetchedAt, &r.ExpiresAt, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot result: %w", err)
		}
		r.Payload = payload
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snapshot results: %w", err)
	}
	return results, nil
}
