package db

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultResultCacheTTL is how long a stored snapshot result is served before re-collecting
const DefaultResultCacheTTL = 24 * time.Hour

// DefaultListLimit caps ListResults when no limit is given
const DefaultListLimit = 50

// SnapshotResult is the filtered outcome of one collection, keyed by dataset kind and target URL
type SnapshotResult struct {
	ID          uuid.UUID       `json:"id"`
	DatasetKind string          `json:"dataset_kind"`
	TargetURL   string          `json:"target_url"`
	Payload     json.RawMessage `json:"payload"`
	RecordCount int             `json:"record_count"`
	FetchedAt   time.Time       `json:"fetched_at"`
	ExpiresAt   *time.Time      `json:"expires_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NewSnapshotResult marshals a payload into a result ready to save.
func NewSnapshotResult(kind, targetURL string, payload any, recordCount int, ttl time.Duration) (*SnapshotResult, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot payload: %w", err)
	}

	now := time.Now()
	result := &SnapshotResult{
		DatasetKind: kind,
		TargetURL:   targetURL,
		Payload:     raw,
		RecordCount: recordCount,
		FetchedAt:   now,
	}
	if ttl > 0 {
		expires := now.Add(ttl)
		result.ExpiresAt = &expires
	}
	return result, nil
}

// IsExpired returns true if the result has passed its expiration time
func (r *SnapshotResult) IsExpired() bool {
	if r.ExpiresAt == nil {
		return false
	}
	return time.Now().After(*r.ExpiresAt)
}

// Decode unmarshals the stored payload into v.
func (r *SnapshotResult) Decode(v any) error {
	if len(r.Payload) == 0 {
		return fmt.Errorf("snapshot result %s has no payload", r.ID)
	}
	if err := json.Unmarshal(r.Payload, v); err != nil {
		return fmt.Errorf("failed to decode snapshot payload: %w", err)
	}
	return nil
}

// WatchedJob is a job search hit recorded by the watcher
type WatchedJob struct {
	ID          uuid.UUID       `json:"id"`
	Keyword     string          `json:"keyword"`
	JobURL      string          `json:"job_url"`
	JobTitle    *string         `json:"job_title,omitempty"`
	CompanyName *string         `json:"company_name,omitempty"`
	Payload     json.RawMessage `json:"payload"`
	FirstSeenAt time.Time       `json:"first_seen_at"`
}
