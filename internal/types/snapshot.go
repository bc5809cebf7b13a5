//nolint:revive // types is a standard Go package name pattern
package types

// SnapshotStatus is the local view of a remote snapshot's lifecycle.
type SnapshotStatus string

const (
	// SnapshotPending means the remote job is still collecting
	SnapshotPending SnapshotStatus = "pending"
	// SnapshotReady means the data set can be downloaded
	SnapshotReady SnapshotStatus = "ready"
	// SnapshotFailed means the remote job gave up
	SnapshotFailed SnapshotStatus = "failed"
)

// Terminal reports whether no further transition can happen from s.
func (s SnapshotStatus) Terminal() bool {
	return s == SnapshotReady || s == SnapshotFailed
}

// Snapshot is a remote asynchronous data-collection job.
type Snapshot struct {
	ID     string         `json:"id"`
	Status SnapshotStatus `json:"status"`
	// Raw is the last status payload returned by the remote service.
	Raw map[string]any `json:"raw,omitempty"`
}
