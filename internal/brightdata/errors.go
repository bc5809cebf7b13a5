package brightdata

import (
	"fmt"
	"time"
)

// TransportError is a non-2xx response or a failed round trip to the remote service.
// StatusCode is zero when no response was received.
type TransportError struct {
	URL        string
	StatusCode int
	Body       string
	Cause      error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("transport error for %s: %v", e.URL, e.Cause)
	}
	return fmt.Sprintf("transport error for %s: HTTP status %d: %s", e.URL, e.StatusCode, e.Body)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// ProtocolError is a successful response whose shape is not what the protocol expects.
type ProtocolError struct {
	Message string
	// Raw is the response body, kept for diagnostics.
	Raw   string
	Cause error
}

func (e *ProtocolError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("protocol error: %s: %v (response: %s)", e.Message, e.Cause, e.Raw)
	}
	return fmt.Sprintf("protocol error: %s (response: %s)", e.Message, e.Raw)
}

func (e *ProtocolError) Unwrap() error {
	return e.Cause
}

// RemoteProcessingError means the remote service marked the snapshot as failed.
type RemoteProcessingError struct {
	SnapshotID string
	Payload    map[string]any
}

func (e *RemoteProcessingError) Error() string {
	return fmt.Sprintf("snapshot %s failed: %v", e.SnapshotID, e.Payload)
}

// TimeoutError means a snapshot did not reach a terminal state within the poll budget.
type TimeoutError struct {
	SnapshotID string
	Attempts   int
	Elapsed    time.Duration
	Cause      error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("snapshot %s still pending after %d status checks (%s)",
		e.SnapshotID, e.Attempts, e.Elapsed.Round(time.Millisecond))
}

func (e *TimeoutError) Unwrap() error {
	return e.Cause
}
