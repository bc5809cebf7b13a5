package schemas

import (
	"errors"
	"testing"

	embedded "github.com/jonathan/linkedin-snapshot/schemas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const personSchema = `{
	"type": "object",
	"required": ["name"],
	"properties": {"name": {"type": "string"}, "age": {"type": "integer"}}
}`

func TestValidateJSONString_Valid(t *testing.T) {
	assert.NoError(t, ValidateJSONString(personSchema, `{"name":"Jane","age":30}`))
}

func TestValidateJSONString_MissingField(t *testing.T) {
	err := ValidateJSONString(personSchema, `{"age":30}`)
	require.Error(t, err)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.NotEmpty(t, validationErr.Errors)
	assert.Contains(t, err.Error(), "name")
}

func TestValidateJSONString_WrongType(t *testing.T) {
	err := ValidateJSONString(personSchema, `{"name":"Jane","age":"thirty"}`)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "age", validationErr.Errors[0].Field)
}

func TestValidateJSONString_BadSchema(t *testing.T) {
	err := ValidateJSONString(`{ not json`, `{}`)

	var loadErr *SchemaLoadError
	assert.True(t, errors.As(err, &loadErr))
}

func TestValidateDocument_Profile(t *testing.T) {
	valid := map[string]any{
		"name":           "Jane",
		"education":      []any{map[string]any{"title": "MIT"}},
		"certifications": []any{map[string]any{"title": "CKA", "issuer": "CNCF"}},
	}
	assert.NoError(t, ValidateDocument(embedded.Profile, valid))

	tests := []struct {
		name string
		doc  map[string]any
	}{
		{"unknown key", map[string]any{"name": "Jane", "followers": 10}},
		{"two education entries", map[string]any{"education": []any{map[string]any{}, map[string]any{}}}},
		{"education description", map[string]any{"education": []any{map[string]any{"description": "x"}}}},
		{"empty projects", map[string]any{"projects": []any{}}},
		{"null project", map[string]any{"projects": []any{nil}}},
		{"credential id kept", map[string]any{"certifications": []any{map[string]any{"credential_id": "1"}}}},
		{"membership number kept", map[string]any{"organizations": []any{map[string]any{"membership_number": "1"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocument(embedded.Profile, tt.doc)
			var validationErr *ValidationError
			assert.True(t, errors.As(err, &validationErr), "expected validation error, got %v", err)
		})
	}
}

func TestValidateDocument_JobSearch(t *testing.T) {
	assert.NoError(t, ValidateDocument(embedded.JobSearch, []any{
		map[string]any{"job_title": "Python Developer", "company_name": "Acme Corp"},
	}))
	assert.NoError(t, ValidateDocument(embedded.JobSearch, []any{}))

	err := ValidateDocument(embedded.JobSearch, []any{map[string]any{"extra_field": "drop"}})
	var validationErr *ValidationError
	assert.True(t, errors.As(err, &validationErr))

	err = ValidateDocument(embedded.JobSearch, []any{map[string]any{}})
	assert.True(t, errors.As(err, &validationErr))
}

func TestValidateDocument_UnknownSchema(t *testing.T) {
	err := ValidateDocument("missing.schema.json", map[string]any{})
	var loadErr *SchemaLoadError
	assert.True(t, errors.As(err, &loadErr))
}
