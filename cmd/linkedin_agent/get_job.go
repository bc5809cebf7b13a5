package main

import (
	"github.com/spf13/cobra"
)

var getJobCmd = &cobra.Command{
	Use:   "get-job URL",
	Short: "Retrieve a single LinkedIn job posting",
	Long:  "Retrieve one LinkedIn job posting through a Bright Data snapshot and print the raw record JSON.",
	Args:  cobra.ExactArgs(1),
	RunE:  runGetJob,
}

var getJobOutputFile string

func init() {
	getJobCmd.Flags().StringVarP(&getJobOutputFile, "out", "o", "", "Write JSON to this file instead of stdout")
	rootCmd.AddCommand(getJobCmd)
}

func runGetJob(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	p, err := newPipeline(ctx, cmd)
	if err != nil {
		return err
	}
	defer p.Close()

	job, err := p.service.GetJobListing(ctx, args[0])
	if err != nil {
		return err
	}
	if p.printer != nil {
		p.printer.PrintJobListing(job)
	}
	return writeOutput(cmd, getJobOutputFile, job)
}
