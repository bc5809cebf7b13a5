package linkedin

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonathan/linkedin-snapshot/internal/brightdata"
	"github.com/jonathan/linkedin-snapshot/internal/config"
	"github.com/jonathan/linkedin-snapshot/internal/db"
	"github.com/jonathan/linkedin-snapshot/internal/types"
)

type collectCall struct {
	req       types.CollectionRequest
	datasetID string
	policy    brightdata.PollPolicy
}

// fakeCollector returns canned records per target URL.
type fakeCollector struct {
	mu      sync.Mutex
	records map[string][]types.Record
	errs    map[string]error
	calls   []collectCall
}

func newFakeCollector() *fakeCollector {
	return &fakeCollector{
		records: make(map[string][]types.Record),
		errs:    make(map[string]error),
	}
}

func (f *fakeCollector) Collect(_ context.Context, req types.CollectionRequest, datasetID string, policy brightdata.PollPolicy) ([]types.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, collectCall{req: req, datasetID: datasetID, policy: policy})
	if err := f.errs[req.TargetURL]; err != nil {
		return nil, err
	}
	return f.records[req.TargetURL], nil
}

func (f *fakeCollector) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeCollector) lastCall() collectCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

// memoryStore is an in-memory Store.
type memoryStore struct {
	mu      sync.Mutex
	results map[string]*db.SnapshotResult
	saveErr error
	getErr  error
	saves   int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{results: make(map[string]*db.SnapshotResult)}
}

func (m *memoryStore) GetFreshResult(_ context.Context, kind, targetURL string, ttl time.Duration) (*db.SnapshotResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	result := m.results[kind+"|"+targetURL]
	if !db.IsFresh(result, ttl, time.Now()) {
		return nil, nil
	}
	return result, nil
}

func (m *memoryStore) SaveResult(_ context.Context, result *db.SnapshotResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.results[result.DatasetKind+"|"+result.TargetURL] = result
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		APIToken:            "token",
		JobDatasetID:        "gd_jobs",
		ProfileDatasetID:    "gd_profiles",
		PollIntervalSeconds: 1,
		PollMaxAttempts:     3,
	}
}

var errUpstream = errors.New("upstream exploded")
