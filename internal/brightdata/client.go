// Package brightdata implements the Bright Data dataset snapshot protocol:
// trigger a collection, poll its status, and download the result.
package brightdata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jonathan/linkedin-snapshot/internal/types"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of a failed response body is kept on a TransportError.
const maxErrorBody = 4096

// Options configures the client.
type Options struct {
	BaseURL    string
	APIToken   string
	Timeout    time.Duration
	HTTPClient *http.Client
	Verbose    bool
}

// Client talks to the dataset API. It holds no per-request state and is safe for
// concurrent use by independent pipelines.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	verbose bool
}

// NewClient creates a client for the given API root and bearer token.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		token:   opts.APIToken,
		http:    httpClient,
		verbose: opts.Verbose,
	}
}

type triggerItem struct {
	URL string `json:"url"`
}

type triggerResponse struct {
	SnapshotID string `json:"snapshot_id"`
}

// Trigger submits a one-element collection request for targetURL and returns the
// snapshot id assigned by the remote service. The URL is not validated locally.
func (c *Client) Trigger(ctx context.Context, datasetID, targetURL string) (string, error) {
	endpoint := c.baseURL + "/trigger?" + url.Values{"dataset_id": {datasetID}}.Encode()

	payload, err := json.Marshal([]triggerItem{{URL: targetURL}})
	if err != nil {
		return "", fmt.Errorf("failed to marshal trigger payload: %w", err)
	}

	c.logf("[BRIGHTDATA] Triggering collection for %s (dataset %s)", targetURL, datasetID)

	body, err := c.do(ctx, http.MethodPost, endpoint, payload)
	if err != nil {
		return "", err
	}

	var resp triggerResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", &ProtocolError{Message: "missing snapshot_id", Raw: string(body), Cause: err}
	}
	if resp.SnapshotID == "" {
		return "", &ProtocolError{Message: "missing snapshot_id", Raw: string(body)}
	}

	c.logf("[BRIGHTDATA] Snapshot ID: %s", resp.SnapshotID)
	return resp.SnapshotID, nil
}

// Status performs a single status check. The returned snapshot carries the mapped
// status and the raw payload; interpretation of quirks is left to the poller.
func (c *Client) Status(ctx context.Context, snapshotID string) (*types.Snapshot, error) {
	body, err := c.do(ctx, http.MethodGet, c.snapshotURL(snapshotID), nil)
	if err != nil {
		return nil, err
	}

	var info map[string]any
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, &ProtocolError{Message: "status response is not a JSON object", Raw: string(body), Cause: err}
	}
	if info == nil {
		info = map[string]any{}
	}

	return &types.Snapshot{
		ID:     snapshotID,
		Status: mapStatus(info),
		Raw:    info,
	}, nil
}

// Download fetches a ready snapshot's data set as JSON. A single object is wrapped
// into a one-element list and an empty or null body yields an empty list.
func (c *Client) Download(ctx context.Context, snapshotID string) ([]types.Record, error) {
	endpoint := c.snapshotURL(snapshotID) + "?" + url.Values{"format": {"json"}}.Encode()

	c.logf("[BRIGHTDATA] Downloading snapshot %s", snapshotID)

	body, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	records, err := decodeRecords(body)
	if err != nil {
		return nil, err
	}

	c.logf("[BRIGHTDATA] Downloaded %d record(s)", len(records))
	return records, nil
}

// First returns the first record, or an empty record when there is none.
// Single-entity lookups use it; searches keep the whole list.
func First(records []types.Record) types.Record {
	if len(records) == 0 {
		return types.Record{}
	}
	return records[0]
}

func (c *Client) snapshotURL(snapshotID string) string {
	return c.baseURL + "/snapshot/" + url.PathEscape(snapshotID)
}

// do executes a request and returns the body of a 2xx response.
func (c *Client) do(ctx context.Context, method, endpoint string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{URL: endpoint, Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: endpoint, StatusCode: resp.StatusCode, Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text := string(body)
		if len(text) > maxErrorBody {
			text = text[:maxErrorBody] + "..."
		}
		return nil, &TransportError{URL: endpoint, StatusCode: resp.StatusCode, Body: text}
	}

	return body, nil
}

func (c *Client) logf(format string, args ...any) {
	if c.verbose {
		log.Printf(format, args...)
	}
}

// mapStatus converts the remote status string into the local state. Anything other
// than "ready" or "failed", including a missing status, counts as pending.
func mapStatus(info map[string]any) types.SnapshotStatus {
	status, _ := info["status"].(string)
	switch status {
	case "ready":
		return types.SnapshotReady
	case "failed":
		return types.SnapshotFailed
	default:
		return types.SnapshotPending
	}
}

func decodeRecords(body []byte) ([]types.Record, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return []types.Record{}, nil
	}

	var raw any
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, &ProtocolError{Message: "download is not valid JSON", Raw: truncate(string(trimmed)), Cause: err}
	}

	switch data := raw.(type) {
	case nil:
		return []types.Record{}, nil
	case map[string]any:
		if len(data) == 0 {
			return []types.Record{}, nil
		}
		return []types.Record{data}, nil
	case []any:
		records := make([]types.Record, 0, len(data))
		for _, item := range data {
			if obj, ok := item.(map[string]any); ok {
				records = append(records, obj)
			}
		}
		return records, nil
	default:
		return nil, &ProtocolError{Message: "download is neither a JSON array nor an object", Raw: truncate(string(trimmed))}
	}
}

func truncate(s string) string {
	if len(s) > maxErrorBody {
		return s[:maxErrorBody] + "..."
	}
	return s
}
