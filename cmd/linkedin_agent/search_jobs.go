package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var searchJobsCmd = &cobra.Command{
	Use:   "search-jobs KEYWORD",
	Short: "Search LinkedIn jobs by keyword",
	Long: `Run a LinkedIn job search through a Bright Data snapshot and print the filtered
job list JSON. Multiple arguments are joined into one keyword.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearchJobs,
}

var searchOutputFile string

func init() {
	searchJobsCmd.Flags().StringVarP(&searchOutputFile, "out", "o", "", "Write JSON to this file instead of stdout")
	rootCmd.AddCommand(searchJobsCmd)
}

func runSearchJobs(cmd *cobra.Command, args []string) error {
	keyword := strings.Join(args, " ")

	ctx := commandContext(cmd)
	p, err := newPipeline(ctx, cmd)
	if err != nil {
		return err
	}
	defer p.Close()

	jobs, err := p.service.SearchJobs(ctx, keyword)
	if err != nil {
		return err
	}
	if p.printer != nil {
		p.printer.PrintJobs(keyword, jobs)
	}
	return writeOutput(cmd, searchOutputFile, recordsOrEmpty(jobs))
}
