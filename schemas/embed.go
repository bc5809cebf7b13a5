// Package schemas embeds the JSON Schemas that filtered records must satisfy.
package schemas

import "embed"

// FS holds every *.schema.json file in this directory.
//
//go:embed *.schema.json
var FS embed.FS

// Schema file names.
const (
	Profile   = "profile.schema.json"
	JobSearch = "job_search.schema.json"
)
