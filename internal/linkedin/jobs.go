package linkedin

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/jonathan/linkedin-snapshot/internal/brightdata"
	"github.com/jonathan/linkedin-snapshot/internal/normalize"
	"github.com/jonathan/linkedin-snapshot/internal/types"
)

// jobSearchBaseURL is the LinkedIn search page the job dataset is pointed at.
const jobSearchBaseURL = "https://www.linkedin.com/jobs/search/?keywords="

// SearchURL builds the LinkedIn job search URL for keyword. Spaces become "+".
func SearchURL(keyword string) string {
	return jobSearchBaseURL + url.QueryEscape(keyword)
}

// GetJobListing retrieves a single job posting. The record is returned as the
// remote service sent it, with no filtering. No records yields an empty record.
func (s *Service) GetJobListing(ctx context.Context, jobURL string) (types.Record, error) {
	if strings.TrimSpace(jobURL) == "" {
		return nil, &InputError{Field: "url", Message: "job URL is required"}
	}
	req := types.CollectionRequest{TargetURL: jobURL, Kind: types.KindJobListing}

	return cachedRetrieve(ctx, s, req, func(ctx context.Context) (types.Record, int, error) {
		records, err := s.collect(ctx, req)
		if err != nil {
			return nil, 0, err
		}
		return brightdata.First(records), len(records), nil
	})
}

// SearchJobs runs a LinkedIn job search for keyword and returns every result
// reduced with normalize.FilterJobs. No results yields an empty, non-nil slice.
func (s *Service) SearchJobs(ctx context.Context, keyword string) ([]types.Record, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, &InputError{Field: "keyword", Message: "search keyword is required"}
	}
	req := types.CollectionRequest{TargetURL: SearchURL(keyword), Kind: types.KindJobSearch}

	jobs, err := cachedRetrieve(ctx, s, req, func(ctx context.Context) ([]types.Record, int, error) {
		records, err := s.collect(ctx, req)
		if err != nil {
			return nil, 0, err
		}
		jobs := normalize.FilterJobs(records)
		if s.opts.Validate {
			if err := normalize.ValidateJobs(jobs); err != nil {
				return nil, 0, fmt.Errorf("filtered job search failed validation: %w", err)
			}
		}
		return jobs, len(jobs), nil
	})
	if err != nil {
		return nil, err
	}
	if jobs == nil {
		jobs = []types.Record{}
	}
	return jobs, nil
}
