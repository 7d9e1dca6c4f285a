package ocr

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dxpulse/plct-cli/internal/config"
)

func TestNewExtractor_Local(t *testing.T) {
	ext, err := NewExtractor(config.OCRConfig{Provider: "local", PdfToTextPath: "/usr/bin/pdftotext"})
	require.NoError(t, err)
	assert.IsType(t, &PdfToText{}, ext)
}

func TestNewExtractor_DefaultProvider(t *testing.T) {
	ext, err := NewExtractor(config.OCRConfig{})
	require.NoError(t, err)
	assert.Equal(t, "pdftotext", ext.(*PdfToText).binPath)
}

func TestNewExtractor_Unknown(t *testing.T) {
	_, err := NewExtractor(config.OCRConfig{Provider: "tesseract"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}

func TestPdfToText_MissingBinary(t *testing.T) {
	ext := NewPdfToText("/nonexistent/pdftotext")
	_, err := ext.ExtractText(context.Background(), "report.pdf")
	require.Error(t, err)
}
