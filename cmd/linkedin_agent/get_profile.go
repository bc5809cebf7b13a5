package main

import (
	"fmt"
	"os"

	"github.com/jonathan/linkedin-snapshot/internal/linkedin"
	"github.com/spf13/cobra"
)

var getProfileCmd = &cobra.Command{
	Use:   "get-profile URL [URL...]",
	Short: "Retrieve filtered LinkedIn profiles",
	Long: `Retrieve one or more LinkedIn profiles through a Bright Data snapshot and print the
filtered profile JSON. Several URLs are collected in parallel and printed as a list in
the order given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGetProfile,
}

var (
	profileConcurrency        int
	profileExperienceOverride string
	profileOutputFile         string
)

func init() {
	getProfileCmd.Flags().IntVar(&profileConcurrency, "concurrency", linkedin.DefaultProfileConcurrency, "Profiles to collect at once")
	getProfileCmd.Flags().StringVar(&profileExperienceOverride, "experience-override", "", "JSON file whose experience key replaces the fetched experience")
	getProfileCmd.Flags().StringVarP(&profileOutputFile, "out", "o", "", "Write JSON to this file instead of stdout")

	rootCmd.AddCommand(getProfileCmd)
}

func runGetProfile(cmd *cobra.Command, args []string) error {
	var override []byte
	if profileExperienceOverride != "" {
		data, err := os.ReadFile(profileExperienceOverride)
		if err != nil {
			return fmt.Errorf("failed to read experience override: %w", err)
		}
		override = data
	}

	ctx := commandContext(cmd)
	p, err := newPipeline(ctx, cmd)
	if err != nil {
		return err
	}
	defer p.Close()

	profiles, err := p.service.GetProfiles(ctx, args, profileConcurrency)
	if err != nil {
		return err
	}

	if override != nil {
		for i, profile := range profiles {
			if profiles[i], err = linkedin.ApplyExperienceOverride(profile, override); err != nil {
				return err
			}
		}
	}

	if p.printer != nil {
		for _, profile := range profiles {
			p.printer.PrintProfile(profile)
		}
	}

	var out any = profiles
	if len(profiles) == 1 {
		out = profiles[0]
	}
	return writeOutput(cmd, profileOutputFile, out)
}
