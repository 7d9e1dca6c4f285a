// Package ocr extracts text content from annual report PDFs.
package ocr

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/dxpulse/plct-cli/internal/config"
)

// Extractor extracts the full text of a PDF document, pages concatenated in
// order. Extraction is a cheap local operation and is never retried; the
// caller decides how to react to a failure.
type Extractor interface {
	ExtractText(ctx context.Context, pdfPath string) (string, error)
}

// NewExtractor creates an Extractor based on config.
func NewExtractor(cfg config.OCRConfig) (Extractor, error) {
	switch cfg.Provider {
	case "local", "":
		return NewPdfToText(cfg.PdfToTextPath), nil
	default:
		return nil, eris.Errorf("ocr: unknown provider %q", cfg.Provider)
	}
}
