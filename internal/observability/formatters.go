// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/linkedin-snapshot/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintPollStatus writes one line per status check.
//
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) PrintPollStatus(kind types.DatasetKind, attempt int, snapshot *types.Snapshot) {
	if snapshot == nil {
		return
	}
	fmt.Fprintf(p.out, "  [%s] snapshot %s: %s (check %d)\n", kind, snapshot.ID, snapshot.Status, attempt)
}

// PrintProfile outputs a human-readable summary of a filtered profile.
func (p *Printer) PrintProfile(profile types.Record) {
	if len(profile) == 0 {
		p.printBox("LINKEDIN PROFILE", "(no profile data returned)")
		return
	}

	var sb strings.Builder
	name := text(profile["name"])
	if name == "" {
		name = strings.TrimSpace(text(profile["first_name"]) + " " + text(profile["last_name"]))
	}
	sb.WriteString(fmt.Sprintf("Name:     %s\n", name))
	if location := joinNonEmpty(", ", text(profile["city"]), text(profile["country_code"])); location != "" {
		sb.WriteString(fmt.Sprintf("Location: %s\n", location))
	}
	if company := text(profile["current_company_name"]); company != "" {
		sb.WriteString(fmt.Sprintf("Company:  %s\n", company))
	}

	counts := make([]string, 0, 4)
	for _, key := range []string{"education", "certifications", "projects", "experience", "organizations"} {
		if items, ok := profile[key].([]any); ok {
			counts = append(counts, fmt.Sprintf("%s: %d", key, len(items)))
		}
	}
	if len(counts) > 0 {
		sb.WriteString("\n")
		sb.WriteString(strings.Join(counts, "\n"))
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("\nFields: %s", strings.Join(sortedKeys(profile), ", ")))

	p.printBox("LINKEDIN PROFILE", sb.String())
}

// PrintJobListing outputs the headline fields of a raw job posting.
func (p *Printer) PrintJobListing(job types.Record) {
	if len(job) == 0 {
		p.printBox("JOB LISTING", "(no job data returned)")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Title:    %s\n", text(job["job_title"])))
	sb.WriteString(fmt.Sprintf("Company:  %s\n", text(job["company_name"])))
	if location := text(job["job_location"]); location != "" {
		sb.WriteString(fmt.Sprintf("Location: %s\n", location))
	}
	sb.WriteString(fmt.Sprintf("\n%d raw fields", len(job)))

	p.printBox("JOB LISTING", sb.String())
}

// PrintJobs outputs the first few search results.
func (p *Printer) PrintJobs(keyword string, jobs []types.Record) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Keyword: %s\n", keyword))
	sb.WriteString(fmt.Sprintf("Results: %d\n", len(jobs)))

	count := min(len(jobs), maxItemsToShow)
	for i := 0; i < count; i++ {
		job := jobs[i]
		sb.WriteString(fmt.Sprintf("\n#%d  %s\n", i+1, text(job["job_title"])))
		if line := joinNonEmpty(" · ", text(job["company_name"]), text(job["job_location"])); line != "" {
			sb.WriteString(fmt.Sprintf("    %s\n", line))
		}
	}
	if len(jobs) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more jobs", len(jobs)-maxItemsToShow))
	}

	p.printBox("JOB SEARCH RESULTS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintNewJobs summarizes one watcher cycle for a keyword.
func (p *Printer) PrintNewJobs(keyword string, jobs []types.Record) {
	if len(jobs) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d new job(s) for %q\n", len(jobs), keyword))
	count := min(len(jobs), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", joinNonEmpty(" at ", text(jobs[i]["job_title"]), text(jobs[i]["company_name"]))))
	}
	if len(jobs) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(jobs)-maxItemsToShow))
	}

	p.printBox("NEW JOBS", strings.TrimSuffix(sb.String(), "\n"))
}

func text(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	default:
		return fmt.Sprint(val)
	}
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, part := range parts {
		if part != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, sep)
}

func sortedKeys(record types.Record) []string {
	keys := make([]string, 0, len(record))
	for key := range record {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
