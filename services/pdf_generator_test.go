package services

import (
	"context"
	"os"
	"testing"
	"time"

	"law_desk_app_go/models"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPDFOptions(t *testing.T) {
	opts := DefaultPDFOptions()
	assert.Equal(t, "portrait", opts.PageOrientation)
	assert.Equal(t, "A4", opts.PageSize)
	assert.Equal(t, 42, opts.MarginTop)
	assert.Equal(t, 42, opts.MarginRight)
}

func TestTemplatePDFOptions(t *testing.T) {
	tpl := &models.Template{PageOrientation: models.OrientationLandscape, PageSize: models.PageSizeLegal}
	opts := TemplatePDFOptions(tpl)
	assert.Equal(t, "landscape", opts.PageOrientation)
	assert.Equal(t, "legal", opts.PageSize)

	opts = TemplatePDFOptions(&models.Template{PageOrientation: "diagonal", PageSize: "B9"})
	assert.Equal(t, DefaultPDFOptions(), opts)
}

func TestPaperSize(t *testing.T) {
	tests := []struct {
		size, orientation string
		w, h              float64
	}{
		{"A4", "portrait", 8.27, 11.69},
		{"A4", "landscape", 11.69, 8.27},
		{"letter", "portrait", 8.5, 11.0},
		{"legal", "landscape", 14.0, 8.5},
		{"", "", 8.27, 11.69},
	}
	for _, tt := range tests {
		w, h := paperSize(PDFOptions{PageSize: tt.size, PageOrientation: tt.orientation})
		assert.Equal(t, tt.w, w, tt.size+"/"+tt.orientation)
		assert.Equal(t, tt.h, h, tt.size+"/"+tt.orientation)
	}
}

func TestGeneratePDFSmoke(t *testing.T) {
	chromePath := os.Getenv("CHROME_PATH")
	if chromePath == "" {
		t.Skip("Skipping PDF generation test: CHROME_PATH not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pdf, err := GeneratePDF(ctx, `<html dir="rtl"><body><h1>مرحبا</h1></body></html>`, DefaultPDFOptions())
	if err != nil {
		if os.IsNotExist(err) {
			t.Skipf("Skipping: Chrome not found at %s", chromePath)
		}
		t.Errorf("GeneratePDF failed: %v", err)
		return
	}

	assert.NotEmpty(t, pdf)
	assert.Contains(t, string(pdf[:5]), "%PDF-")
}
