package linkedin

import (
	"context"
	"errors"
	"testing"

	"github.com/jonathan/linkedin-snapshot/internal/brightdata"
	"github.com/jonathan/linkedin-snapshot/internal/config"
	"github.com/jonathan/linkedin-snapshot/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const profileURL = "https://www.linkedin.com/in/jane-doe/"

func TestService_MissingCredentialsFailBeforeCollecting(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		call    func(*Service) error
		wantKey string
	}{
		{
			name:    "profile without dataset",
			mutate:  func(c *config.Config) { c.ProfileDatasetID = "" },
			call:    func(s *Service) error { _, err := s.GetProfile(context.Background(), profileURL); return err },
			wantKey: "PROFILE_DATASET_ID",
		},
		{
			name:    "search without token",
			mutate:  func(c *config.Config) { c.APIToken = "" },
			call:    func(s *Service) error { _, err := s.SearchJobs(context.Background(), "golang"); return err },
			wantKey: "API_TOKEN",
		},
		{
			name:    "job listing without dataset",
			mutate:  func(c *config.Config) { c.JobDatasetID = "" },
			call:    func(s *Service) error { _, err := s.GetJobListing(context.Background(), "https://x"); return err },
			wantKey: "JOB_DATASET_ID",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(cfg)
			collector := newFakeCollector()
			svc := NewService(cfg, collector, Options{Store: newMemoryStore()})

			err := tt.call(svc)

			var cfgErr *config.ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.wantKey, cfgErr.Key)
			assert.Zero(t, collector.callCount())
		})
	}
}

func TestService_PollPolicyFromConfig(t *testing.T) {
	cfg := testConfig()
	cfg.PollTimeoutSeconds = 30
	collector := newFakeCollector()
	svc := NewService(cfg, collector, Options{})

	_, err := svc.GetProfile(context.Background(), profileURL)
	require.NoError(t, err)
	profileCall := collector.lastCall()
	assert.Equal(t, "gd_profiles", profileCall.datasetID)
	assert.Equal(t, types.KindProfile, profileCall.req.Kind)
	assert.Equal(t, 3, profileCall.policy.MaxAttempts)
	assert.Equal(t, cfg.PollTimeout(), profileCall.policy.Timeout)
	assert.True(t, profileCall.policy.NamedRecordIsReady)

	_, err = svc.SearchJobs(context.Background(), "golang")
	require.NoError(t, err)
	searchCall := collector.lastCall()
	assert.Equal(t, "gd_jobs", searchCall.datasetID)
	assert.False(t, searchCall.policy.NamedRecordIsReady)
}

func TestService_OnPollIsTaggedWithKind(t *testing.T) {
	collector := newFakeCollector()
	var seen []types.DatasetKind
	svc := NewService(testConfig(), collector, Options{
		OnPoll: func(kind types.DatasetKind, _ int, _ *types.Snapshot) { seen = append(seen, kind) },
	})

	_, err := svc.GetJobListing(context.Background(), "https://x")
	require.NoError(t, err)

	policy := collector.lastCall().policy
	require.NotNil(t, policy.OnPoll)
	policy.OnPoll(1, &types.Snapshot{ID: "s_1", Status: types.SnapshotPending})
	assert.Equal(t, []types.DatasetKind{types.KindJobListing}, seen)
}

func TestService_CachedResultSkipsCollection(t *testing.T) {
	collector := newFakeCollector()
	collector.records[profileURL] = []types.Record{{"name": "Jane", "followers": 10}}
	store := newMemoryStore()
	svc := NewService(testConfig(), collector, Options{Store: store})

	first, err := svc.GetProfile(context.Background(), profileURL)
	require.NoError(t, err)
	second, err := svc.GetProfile(context.Background(), profileURL)
	require.NoError(t, err)

	assert.Equal(t, 1, collector.callCount())
	assert.Equal(t, 1, store.saves)
	assert.Equal(t, first, second)
	assert.Equal(t, types.Record{"name": "Jane"}, second)
}

func TestService_SkipCacheForcesCollection(t *testing.T) {
	collector := newFakeCollector()
	collector.records[profileURL] = []types.Record{{"name": "Jane"}}
	store := newMemoryStore()

	warm := NewService(testConfig(), collector, Options{Store: store})
	_, err := warm.GetProfile(context.Background(), profileURL)
	require.NoError(t, err)

	fresh := NewService(testConfig(), collector, Options{Store: store, SkipCache: true})
	_, err = fresh.GetProfile(context.Background(), profileURL)
	require.NoError(t, err)

	assert.Equal(t, 2, collector.callCount())
	assert.Equal(t, 2, store.saves)
}

func TestService_StoreSaveFailureIsNotFatal(t *testing.T) {
	collector := newFakeCollector()
	collector.records[profileURL] = []types.Record{{"name": "Jane"}}
	store := newMemoryStore()
	store.saveErr = errors.New("disk full")
	svc := NewService(testConfig(), collector, Options{Store: store})

	profile, err := svc.GetProfile(context.Background(), profileURL)
	require.NoError(t, err)
	assert.Equal(t, "Jane", profile["name"])
}

func TestService_StoreReadFailureIsFatal(t *testing.T) {
	store := newMemoryStore()
	store.getErr = errors.New("connection reset")
	collector := newFakeCollector()
	svc := NewService(testConfig(), collector, Options{Store: store})

	_, err := svc.GetProfile(context.Background(), profileURL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "result cache")
	assert.Zero(t, collector.callCount())
}

func TestService_CollectorErrorsPropagate(t *testing.T) {
	collector := newFakeCollector()
	remote := &brightdata.RemoteProcessingError{SnapshotID: "s_1", Payload: map[string]any{"status": "failed"}}
	collector.errs[profileURL] = remote
	store := newMemoryStore()
	svc := NewService(testConfig(), collector, Options{Store: store})

	_, err := svc.GetProfile(context.Background(), profileURL)

	var remoteErr *brightdata.RemoteProcessingError
	require.True(t, errors.As(err, &remoteErr))
	assert.Zero(t, store.saves)
}

func TestService_Fresh(t *testing.T) {
	collector := newFakeCollector()
	collector.records[profileURL] = []types.Record{{"name": "Jane"}}
	svc := NewService(testConfig(), collector, Options{Store: newMemoryStore()})

	_, err := svc.GetProfile(context.Background(), profileURL)
	require.NoError(t, err)
	_, err = svc.Fresh().GetProfile(context.Background(), profileURL)
	require.NoError(t, err)
	_, err = svc.GetProfile(context.Background(), profileURL)
	require.NoError(t, err)

	assert.Equal(t, 2, collector.callCount())
	assert.False(t, svc.opts.SkipCache)
}
