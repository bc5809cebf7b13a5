package brightdata

import (
	"context"
	"fmt"

	"github.com/jonathan/linkedin-snapshot/internal/types"
)

// Collect runs one full retrieval: trigger, wait until ready, download.
// The steps run strictly in sequence; nothing is retried except pending polls.
func (c *Client) Collect(ctx context.Context, req types.CollectionRequest, datasetID string, policy PollPolicy) ([]types.Record, error) {
	snapshotID, err := c.Trigger(ctx, datasetID, req.TargetURL)
	if err != nil {
		return nil, fmt.Errorf("trigger %s collection: %w", req.Kind, err)
	}

	if _, err := c.WaitReady(ctx, snapshotID, policy); err != nil {
		return nil, err
	}

	records, err := c.Download(ctx, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("download snapshot %s: %w", snapshotID, err)
	}
	return records, nil
}
