package main

import (
	"fmt"
	"time"

	"github.com/jonathan/linkedin-snapshot/internal/rendering"
	"github.com/spf13/cobra"
)

var renderPDFCmd = &cobra.Command{
	Use:   "render-pdf",
	Short: "Print a local HTML file to PDF",
	Long:  "Load a local HTML document in headless Chrome and print it to a PDF file. Requires Chrome or Chromium.",
	RunE:  runRenderPDF,
}

var (
	renderInputFile    string
	renderOutputFile   string
	renderLandscape    bool
	renderNoBackground bool
	renderTimeout      time.Duration
)

func init() {
	renderPDFCmd.Flags().StringVarP(&renderInputFile, "in", "i", "", "Path to the HTML file (required)")
	renderPDFCmd.Flags().StringVarP(&renderOutputFile, "out", "o", "", "Path to the output PDF (required)")
	renderPDFCmd.Flags().BoolVar(&renderLandscape, "landscape", false, "Print in landscape orientation")
	renderPDFCmd.Flags().BoolVar(&renderNoBackground, "no-background", false, "Skip background colors and images")
	renderPDFCmd.Flags().DurationVar(&renderTimeout, "render-timeout", rendering.DefaultRenderTimeout, "Maximum time for the conversion")

	if err := renderPDFCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark flag as required: %v", err))
	}
	if err := renderPDFCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark flag as required: %v", err))
	}

	rootCmd.AddCommand(renderPDFCmd)
}

func runRenderPDF(cmd *cobra.Command, _ []string) error {
	pageCfg := rendering.DefaultPageConfig()
	pageCfg.Landscape = renderLandscape
	pageCfg.PrintBackground = !renderNoBackground
	pageCfg.Timeout = renderTimeout
	pageCfg.Verbose = verbose

	result, err := rendering.HTMLFileToPDF(commandContext(cmd), renderInputFile, renderOutputFile, pageCfg)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), result)
}
