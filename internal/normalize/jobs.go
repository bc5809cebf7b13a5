// Package normalize reduces raw snapshot records to the fields callers consume.
package normalize

import "github.com/jonathan/linkedin-snapshot/internal/types"

// JobFields is the keep-list applied to every job search record.
var JobFields = []string{
	"job_title",
	"company_name",
	"job_location",
	"job_url",
	"job_summary",
	"job_seniority_level",
	"job_employment_type",
	"job_industries",
	"job_base_pay_range",
	"base_salary",
}

// FilterJobs keeps only JobFields on each record. Records left with no field are
// dropped; surviving records keep their input order. The input is not modified.
func FilterJobs(records []types.Record) []types.Record {
	filtered := make([]types.Record, 0, len(records))
	for _, record := range records {
		kept := make(types.Record, len(JobFields))
		for _, key := range JobFields {
			if value, ok := record[key]; ok {
				kept[key] = types.CloneValue(value)
			}
		}
		if len(kept) == 0 {
			continue
		}
		filtered = append(filtered, kept)
	}
	return filtered
}
