//nolint:revive // types is a standard Go package name pattern
package types

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// ProfileRequest is the REST request body for a profile lookup.
type ProfileRequest struct {
	URL       string `json:"url" validate:"required,url"`
	SkipCache bool   `json:"skip_cache,omitempty"`
}

// Validate validates the ProfileRequest using the validator.
func (r *ProfileRequest) Validate() error {
	return validate.Struct(r)
}

// JobListingRequest is the REST request body for a single job posting lookup.
type JobListingRequest struct {
	URL       string `json:"url" validate:"required,url"`
	SkipCache bool   `json:"skip_cache,omitempty"`
}

// Validate validates the JobListingRequest using the validator.
func (r *JobListingRequest) Validate() error {
	return validate.Struct(r)
}

// JobSearchRequest is the REST request body for a keyword job search.
type JobSearchRequest struct {
	Keyword   string `json:"keyword" validate:"required,min=1,max=200"`
	SkipCache bool   `json:"skip_cache,omitempty"`
}

// Validate validates the JobSearchRequest using the validator.
func (r *JobSearchRequest) Validate() error {
	return validate.Struct(r)
}

// JobSearchResponse wraps a list of filtered job records.
type JobSearchResponse struct {
	Keyword string   `json:"keyword"`
	Count   int      `json:"count"`
	Jobs    []Record `json:"jobs"`
}

// TokenResponse is returned when an API token is issued.
type TokenResponse struct {
	Token     string `json:"token"`
	Subject   string `json:"subject"`
	ExpiresIn int    `json:"expires_in_hours"`
}
