package rendering

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// A4 paper size in inches.
const (
	A4WidthInches  = 8.27
	A4HeightInches = 11.69
)

// DefaultRenderTimeout bounds a single conversion, browser start included.
const DefaultRenderTimeout = 60 * time.Second

// PageConfig controls the printed page.
type PageConfig struct {
	PaperWidthInches  float64
	PaperHeightInches float64
	Landscape         bool
	PrintBackground   bool
	Timeout           time.Duration
	Verbose           bool
}

// DefaultPageConfig returns A4 portrait with backgrounds printed.
func DefaultPageConfig() *PageConfig {
	return &PageConfig{
		PaperWidthInches:  A4WidthInches,
		PaperHeightInches: A4HeightInches,
		PrintBackground:   true,
		Timeout:           DefaultRenderTimeout,
	}
}

// Result describes a written PDF.
type Result struct {
	HTMLPath string `json:"html_path"`
	PDFPath  string `json:"pdf_path"`
	Title    string `json:"title,omitempty"`
	Bytes    int    `json:"bytes"`
}

// HTMLFileToPDF loads a local HTML file in headless Chrome and prints it to pdfPath.
// Requires Chrome/Chromium to be installed on the system.
func HTMLFileToPDF(ctx context.Context, htmlPath, pdfPath string, cfg *PageConfig) (*Result, error) {
	cfg = normalizePageConfig(cfg)

	htmlAbs, err := filepath.Abs(htmlPath)
	if err != nil {
		return nil, &RenderError{Path: htmlPath, Message: "invalid HTML path", Cause: err}
	}
	pdfAbs, err := filepath.Abs(pdfPath)
	if err != nil {
		return nil, &RenderError{Path: pdfPath, Message: "invalid PDF path", Cause: err}
	}

	content, err := os.ReadFile(htmlAbs)
	if err != nil {
		return nil, &RenderError{Path: htmlAbs, Message: "HTML file not found", Cause: err}
	}
	info, err := InspectHTML(string(content))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", htmlAbs, err)
	}

	if cfg.Verbose {
		log.Printf("[BROWSER] Printing %s (%q, %d chars) to %s", htmlAbs, info.Title, info.TextLength, pdfAbs)
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, cfg.Timeout)
	defer cancel()

	var pdf []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate(fileURL(htmlAbs)),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPaperWidth(cfg.PaperWidthInches).
				WithPaperHeight(cfg.PaperHeightInches).
				WithLandscape(cfg.Landscape).
				WithPrintBackground(cfg.PrintBackground).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = data
			return nil
		}),
	)
	if err != nil {
		return nil, &RenderError{Path: htmlAbs, Message: "browser printing failed", Cause: err}
	}

	if err := os.MkdirAll(filepath.Dir(pdfAbs), 0o755); err != nil {
		return nil, &RenderError{Path: pdfAbs, Message: "failed to create output directory", Cause: err}
	}
	if err := os.WriteFile(pdfAbs, pdf, 0o644); err != nil {
		return nil, &RenderError{Path: pdfAbs, Message: "failed to write PDF", Cause: err}
	}

	if cfg.Verbose {
		log.Printf("[BROWSER] Wrote PDF: %d bytes", len(pdf))
	}

	return &Result{
		HTMLPath: htmlAbs,
		PDFPath:  pdfAbs,
		Title:    info.Title,
		Bytes:    len(pdf),
	}, nil
}

func normalizePageConfig(cfg *PageConfig) *PageConfig {
	defaults := DefaultPageConfig()
	if cfg == nil {
		return defaults
	}
	out := *cfg
	if out.PaperWidthInches <= 0 {
		out.PaperWidthInches = defaults.PaperWidthInches
	}
	if out.PaperHeightInches <= 0 {
		out.PaperHeightInches = defaults.PaperHeightInches
	}
	if out.Timeout <= 0 {
		out.Timeout = defaults.Timeout
	}
	return &out
}

// fileURL turns an absolute path into a file:// URL.
func fileURL(absPath string) string {
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(absPath)}).String()
}
