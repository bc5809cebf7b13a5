package normalize

import (
	embedded "github.com/jonathan/linkedin-snapshot/schemas"

	"github.com/jonathan/linkedin-snapshot/internal/schemas"
	"github.com/jonathan/linkedin-snapshot/internal/types"
)

// ValidateProfile checks a filtered profile against the profile schema.
func ValidateProfile(profile types.Record) error {
	if profile == nil {
		profile = types.Record{}
	}
	return schemas.ValidateDocument(embedded.Profile, profile)
}

// ValidateJobs checks filtered job search results against the job search schema.
func ValidateJobs(jobs []types.Record) error {
	if jobs == nil {
		jobs = []types.Record{}
	}
	return schemas.ValidateDocument(embedded.JobSearch, jobs)
}
