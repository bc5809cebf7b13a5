// Package main provides the linkedin_agent CLI for retrieving LinkedIn profiles and
// jobs through Bright Data snapshots.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "linkedin_agent",
	Short: "LinkedIn data retrieval through Bright Data snapshots",
	Long: `linkedin_agent triggers Bright Data dataset collections for LinkedIn profiles,
job postings and job searches, waits for the snapshot to become ready, and prints
the filtered result as JSON. It can also serve the same pipelines over HTTP, watch
searches for new postings, and print local HTML documents to PDF.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
