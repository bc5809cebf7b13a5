// Package types provides type definitions for structured data used throughout the linkedin-snapshot system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "fmt"

// DatasetKind selects which remote collection configuration and which output filter applies.
type DatasetKind string

const (
	// KindProfile is a single LinkedIn profile lookup
	KindProfile DatasetKind = "profile"
	// KindJobListing is a single LinkedIn job posting lookup
	KindJobListing DatasetKind = "job_listing"
	// KindJobSearch is a keyword search over LinkedIn job postings
	KindJobSearch DatasetKind = "job_search"
)

// AllDatasetKinds returns every supported dataset kind.
func AllDatasetKinds() []DatasetKind {
	return []DatasetKind{KindProfile, KindJobListing, KindJobSearch}
}

// Valid reports whether k is a known dataset kind.
func (k DatasetKind) Valid() bool {
	switch k {
	case KindProfile, KindJobListing, KindJobSearch:
		return true
	default:
		return false
	}
}

// ParseDatasetKind converts a string into a DatasetKind.
func ParseDatasetKind(s string) (DatasetKind, error) {
	k := DatasetKind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown dataset kind: %q", s)
	}
	return k, nil
}

// Record is an untyped record as returned by the remote service.
// Its shape varies by dataset kind and is not validated against a fixed schema.
type Record map[string]any

// Clone returns a deep copy of the record. Nested maps and slices are copied so that
// callers can mutate the result without touching the original.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = CloneValue(v)
	}
	return out
}

// CloneValue deep-copies a decoded JSON value.
func CloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return map[string]any(Record(val).Clone())
	case Record:
		return val.Clone()
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = CloneValue(item)
		}
		return out
	default:
		return val
	}
}

// CollectionRequest asks the remote service to collect a single target URL.
// It is a value type; once submitted it is never modified.
type CollectionRequest struct {
	TargetURL string      `json:"target_url"`
	Kind      DatasetKind `json:"dataset_kind"`
}
