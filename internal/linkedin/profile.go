package linkedin

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/linkedin-snapshot/internal/brightdata"
	"github.com/jonathan/linkedin-snapshot/internal/normalize"
	"github.com/jonathan/linkedin-snapshot/internal/types"
	"golang.org/x/sync/errgroup"
)

// DefaultProfileConcurrency is the number of profile pipelines GetProfiles runs at once.
const DefaultProfileConcurrency = 4

// GetProfile retrieves one profile and reduces it with normalize.FilterProfile.
// A snapshot with no records yields an empty profile.
func (s *Service) GetProfile(ctx context.Context, profileURL string) (types.Record, error) {
	if strings.TrimSpace(profileURL) == "" {
		return nil, &InputError{Field: "url", Message: "profile URL is required"}
	}
	req := types.CollectionRequest{TargetURL: profileURL, Kind: types.KindProfile}

	return cachedRetrieve(ctx, s, req, func(ctx context.Context) (types.Record, int, error) {
		records, err := s.collect(ctx, req)
		if err != nil {
			return nil, 0, err
		}
		profile := normalize.FilterProfile(brightdata.First(records))
		if s.opts.Validate {
			if err := normalize.ValidateProfile(profile); err != nil {
				return nil, 0, fmt.Errorf("filtered profile failed validation: %w", err)
			}
		}
		return profile, len(records), nil
	})
}

// GetProfiles retrieves several profiles, running up to concurrency pipelines at
// once. Results follow the order of urls. The first failure cancels the rest.
func (s *Service) GetProfiles(ctx context.Context, urls []string, concurrency int) ([]types.Record, error) {
	if concurrency <= 0 {
		concurrency = DefaultProfileConcurrency
	}

	profiles := make([]types.Record, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, profileURL := range urls {
		g.Go(func() error {
			profile, err := s.GetProfile(gctx, profileURL)
			if err != nil {
				return fmt.Errorf("profile %s: %w", profileURL, err)
			}
			profiles[i] = profile
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return profiles, nil
}

// ApplyExperienceOverride replaces the profile's experience with the experience
// key of a staged JSON document. The profile dataset does not include work
// history, so it is kept in a separate file. The input profile is not modified.
func ApplyExperienceOverride(profile types.Record, overrideJSON []byte) (types.Record, error) {
	var override map[string]any
	if err := json.Unmarshal(overrideJSON, &override); err != nil {
		return nil, &InputError{Field: "experience override", Message: fmt.Sprintf("not a JSON object: %v", err)}
	}

	experience, ok := override["experience"]
	if !ok || experience == nil {
		return nil, &InputError{Field: "experience override", Message: "document has no experience key"}
	}

	merged := profile.Clone()
	if merged == nil {
		merged = types.Record{}
	}
	merged["experience"] = experience
	return merged, nil
}
