package normalize

import "github.com/jonathan/linkedin-snapshot/internal/types"

// ProfileFields is the top-level allow-list for profile records.
var ProfileFields = []string{
	"name",
	"city",
	"country_code",
	"about",
	"educations_details",
	"languages",
	"recommendations",
	"current_company_name",
	"publications",
	"organizations",
	"honors_and_awards",
	"bio_links",
	"first_name",
	"last_name",
	"education",
	"certifications",
	"projects",
	"experience",
}

var (
	educationDropped     = []string{"description", "description_html", "institute_logo_url"}
	certificationDropped = []string{"credential_url", "credential_id"}
	certificationRenames = [][2]string{{"subtitle", "issuer"}, {"meta", "notes"}}
)

// FilterProfile returns a reduced copy of a raw profile record:
//
//   - only ProfileFields survive at the top level
//   - education keeps its first entry, without description, description_html and institute_logo_url
//   - certifications lose credential_url and credential_id; subtitle becomes issuer and meta becomes notes
//   - projects lose null entries
//   - organizations lose membership_number
//
// Any of the four collections that ends up empty or null is omitted. Values of
// those keys that are not lists are kept as they are. Applying FilterProfile to
// its own output returns an equal record.
func FilterProfile(raw types.Record) types.Record {
	if len(raw) == 0 {
		return types.Record{}
	}

	profile := make(types.Record, len(ProfileFields))
	for _, key := range ProfileFields {
		if value, ok := raw[key]; ok {
			profile[key] = types.CloneValue(value)
		}
	}

	applyCollectionRule(profile, "education", filterEducation)
	applyCollectionRule(profile, "certifications", filterCertifications)
	applyCollectionRule(profile, "projects", filterProjects)
	applyCollectionRule(profile, "organizations", filterOrganizations)

	return profile
}

// applyCollectionRule rewrites a list-valued key, removing it when the rule
// leaves nothing behind.
func applyCollectionRule(profile types.Record, key string, rule func([]any) []any) {
	value, ok := profile[key]
	if !ok {
		return
	}
	if value == nil {
		delete(profile, key)
		return
	}
	items, ok := value.([]any)
	if !ok {
		return
	}

	items = rule(items)
	if len(items) == 0 {
		delete(profile, key)
		return
	}
	profile[key] = items
}

func filterEducation(items []any) []any {
	if len(items) == 0 || items[0] == nil {
		return nil
	}
	first := items[0]
	if entry, ok := asMap(first); ok {
		for _, key := range educationDropped {
			delete(entry, key)
		}
		first = entry
	}
	return []any{first}
}

func filterCertifications(items []any) []any {
	kept := make([]any, 0, len(items))
	for _, item := range items {
		cert, ok := asMap(item)
		if !ok {
			continue
		}
		for _, key := range certificationDropped {
			delete(cert, key)
		}
		for _, rename := range certificationRenames {
			if value, exists := cert[rename[0]]; exists {
				cert[rename[1]] = value
				delete(cert, rename[0])
			}
		}
		kept = append(kept, cert)
	}
	return kept
}

func filterProjects(items []any) []any {
	kept := make([]any, 0, len(items))
	for _, item := range items {
		if item != nil {
			kept = append(kept, item)
		}
	}
	return kept
}

func filterOrganizations(items []any) []any {
	for i, item := range items {
		if org, ok := asMap(item); ok {
			delete(org, "membership_number")
			items[i] = org
		}
	}
	return items
}

// asMap views a JSON object as a plain map. The profile has already been cloned,
// so callers may edit the result in place.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case types.Record:
		return map[string]any(m), true
	default:
		return nil, false
	}
}
