package normalize

import (
	"errors"
	"testing"

	"github.com/jonathan/linkedin-snapshot/internal/schemas"
	"github.com/jonathan/linkedin-snapshot/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestValidateProfile_FilteredOutputPasses(t *testing.T) {
	assert.NoError(t, ValidateProfile(FilterProfile(rawProfile())))
	assert.NoError(t, ValidateProfile(nil))
}

func TestValidateProfile_RawInputFails(t *testing.T) {
	err := ValidateProfile(rawProfile())

	var validationErr *schemas.ValidationError
	assert.True(t, errors.As(err, &validationErr))
}

func TestValidateJobs(t *testing.T) {
	raw := []types.Record{{"job_title": "Go Developer", "extra_field": "drop"}}

	assert.NoError(t, ValidateJobs(FilterJobs(raw)))
	assert.NoError(t, ValidateJobs(nil))

	var validationErr *schemas.ValidationError
	assert.True(t, errors.As(ValidateJobs(raw), &validationErr))
}
