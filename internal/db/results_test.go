package db

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSnapshotResult(t *testing.T) {
	payload := map[string]any{"name": "Jane"}

	result, err := NewSnapshotResult("profile", "https://www.linkedin.com/in/jane", payload, 1, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, "profile", result.DatasetKind)
	assert.Equal(t, 1, result.RecordCount)
	assert.JSONEq(t, `{"name":"Jane"}`, string(result.Payload))
	require.NotNil(t, result.ExpiresAt)
	assert.WithinDuration(t, result.FetchedAt.Add(time.Hour), *result.ExpiresAt, time.Second)
}

func TestNewSnapshotResult_NoTTL(t *testing.T) {
	result, err := NewSnapshotResult("job_search", "https://x", []any{}, 0, 0)
	require.NoError(t, err)
	assert.Nil(t, result.ExpiresAt)
	assert.Equal(t, "[]", string(result.Payload))
}

func TestNewSnapshotResult_Unmarshalable(t *testing.T) {
	_, err := NewSnapshotResult("profile", "https://x", map[string]any{"ch": make(chan int)}, 1, 0)
	assert.Error(t, err)
}

func TestSnapshotResult_Decode(t *testing.T) {
	result := &SnapshotResult{Payload: json.RawMessage(`[{"job_title":"Go Developer"}]`)}

	var jobs []map[string]any
	require.NoError(t, result.Decode(&jobs))
	require.Len(t, jobs, 1)
	assert.Equal(t, "Go Developer", jobs[0]["job_title"])

	empty := &SnapshotResult{}
	assert.Error(t, empty.Decode(&jobs))
}

func TestSnapshotResult_IsExpired(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	tests := []struct {
		name      string
		expiresAt *time.Time
		expected  bool
	}{
		{"nil expires_at", nil, false},
		{"expired", &past, true},
		{"not expired", &future, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &SnapshotResult{ExpiresAt: tt.expiresAt}
			assert.Equal(t, tt.expected, r.IsExpired())
		})
	}
}

func TestIsFresh(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)

	tests := []struct {
		name     string
		result   *SnapshotResult
		ttl      time.Duration
		expected bool
	}{
		{"nil result", nil, time.Hour, false},
		{"recent, no expiry", &SnapshotResult{FetchedAt: now.Add(-time.Minute)}, time.Hour, true},
		{"older than ttl", &SnapshotResult{FetchedAt: now.Add(-2 * time.Hour)}, time.Hour, false},
		{"zero ttl ignores age", &SnapshotResult{FetchedAt: now.Add(-48 * time.Hour)}, 0, true},
		{"expired", &SnapshotResult{FetchedAt: now, ExpiresAt: &past}, time.Hour, false},
		{"not yet expired", &SnapshotResult{FetchedAt: now, ExpiresAt: &future}, time.Hour, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsFresh(tt.result, tt.ttl, now))
		})
	}
}
