package brightdata

import (
	"context"
	"errors"
	"testing"

	"github.com/jonathan/linkedin-snapshot/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollect_ReadyImmediately(t *testing.T) {
	api := newFakeAPI()
	server := api.start(t)

	req := types.CollectionRequest{TargetURL: "https://www.linkedin.com/jobs/view/123", Kind: types.KindJobListing}
	records, err := newTestClient(server).Collect(context.Background(), req, "fake_job_id", fastPolicy())
	require.NoError(t, err)

	assert.Equal(t, []types.Record{{"job_title": "Software Engineer"}}, records)
	assert.Equal(t, []string{"trigger", "status", "download"}, api.recorded().events)
}

func TestCollect_MissingSnapshotIDStopsBeforePolling(t *testing.T) {
	api := newFakeAPI()
	api.triggerBody = `{}`
	server := api.start(t)

	req := types.CollectionRequest{TargetURL: "https://x", Kind: types.KindProfile}
	_, err := newTestClient(server).Collect(context.Background(), req, "ds", fastPolicy())
	require.Error(t, err)

	var protoErr *ProtocolError
	assert.True(t, errors.As(err, &protoErr))

	trigger, status, download := api.counts()
	assert.Equal(t, 1, trigger)
	assert.Equal(t, 0, status)
	assert.Equal(t, 0, download)
}

func TestCollect_FailedSnapshotSkipsDownload(t *testing.T) {
	api := newFakeAPI()
	api.statusBodies = []string{`{"status":"failed"}`}
	server := api.start(t)

	req := types.CollectionRequest{TargetURL: "https://x", Kind: types.KindJobSearch}
	_, err := newTestClient(server).Collect(context.Background(), req, "ds", fastPolicy())

	var remoteErr *RemoteProcessingError
	require.True(t, errors.As(err, &remoteErr))

	_, _, download := api.counts()
	assert.Equal(t, 0, download)
}
