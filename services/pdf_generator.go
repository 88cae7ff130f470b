package services

import (
	"context"
	"fmt"
	"os"
	"time"

	"law_desk_app_go/models"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// getChromePath returns the Chrome executable path from environment variable
func getChromePath() string {
	return os.Getenv("CHROME_PATH")
}

// PDFOptions contains options for PDF generation
type PDFOptions struct {
	PageOrientation string // portrait, landscape
	PageSize        string // A4, letter, legal
	MarginTop       int    // points (72 = 1 inch)
	MarginBottom    int
	MarginLeft      int
	MarginRight     int
	ChromePath      string // overrides CHROME_PATH
}

// DefaultPDFOptions returns the print settings of the office: A4 portrait, ~1.5cm margins
func DefaultPDFOptions() PDFOptions {
	return PDFOptions{
		PageOrientation: models.OrientationPortrait,
		PageSize:        models.PageSizeA4,
		MarginTop:       42,
		MarginBottom:    42,
		MarginLeft:      42,
		MarginRight:     42,
	}
}

// TemplatePDFOptions applies a template's page settings over the defaults
func TemplatePDFOptions(t *models.Template) PDFOptions {
	opts := DefaultPDFOptions()
	if models.IsValidOrientation(t.PageOrientation) {
		opts.PageOrientation = t.PageOrientation
	}
	if models.IsValidPageSize(t.PageSize) {
		opts.PageSize = t.PageSize
	}
	return opts
}

// paperSize returns width and height in inches
func paperSize(options PDFOptions) (float64, float64) {
	var w, h float64
	switch options.PageSize {
	case models.PageSizeLegal:
		w, h = 8.5, 14.0
	case models.PageSizeLetter:
		w, h = 8.5, 11.0
	default: // A4
		w, h = 8.27, 11.69
	}
	if options.PageOrientation == models.OrientationLandscape {
		w, h = h, w
	}
	return w, h
}

// GeneratePDF renders HTML content to PDF using headless Chrome
func GeneratePDF(ctx context.Context, htmlContent string, options PDFOptions) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
	)

	// Check for custom Chrome path (for headless-shell in Docker)
	chromePath := options.ChromePath
	if chromePath == "" {
		chromePath = getChromePath()
	}
	if chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	paperWidth, paperHeight := paperSize(options)

	// Convert points to inches for margins
	marginTop := float64(options.MarginTop) / 72.0
	marginBottom := float64(options.MarginBottom) / 72.0
	marginLeft := float64(options.MarginLeft) / 72.0
	marginRight := float64(options.MarginRight) / 72.0

	var pdfBuf []byte

	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		// fonts are linked, give them a moment
		chromedp.Sleep(300*time.Millisecond),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPaperWidth(paperWidth).
				WithPaperHeight(paperHeight).
				WithMarginTop(marginTop).
				WithMarginBottom(marginBottom).
				WithMarginLeft(marginLeft).
				WithMarginRight(marginRight).
				WithPrintBackground(true).
				WithDisplayHeaderFooter(false).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfBuf = buf
			return nil
		}),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return pdfBuf, nil
}
