package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "annual_reports", cfg.Reports.Dir)
	assert.Equal(t, "processed_files.json", cfg.Reports.LedgerPath)
	assert.Equal(t, 3, cfg.Extract.MaxAttempts)
	assert.Equal(t, 2000, cfg.Extract.InitialBackoffMs)
	assert.Equal(t, "local", cfg.OCR.Provider)
	assert.Equal(t, "pdftotext", cfg.OCR.PdfToTextPath)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("PLCT_ANTHROPIC_KEY", "sk-test")
	t.Setenv("PLCT_STORE_DATABASE_URL", "postgres://localhost/plct")
	t.Setenv("PLCT_LOG_FORMAT", "console")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.Anthropic.Key)
	assert.Equal(t, "postgres://localhost/plct", cfg.Store.DatabaseURL)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.NoError(t, cfg.Validate())
}

func TestValidate_MissingCredentials(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PLCT_ANTHROPIC_KEY")

	cfg.Anthropic.Key = "sk-test"
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PLCT_STORE_DATABASE_URL")
}

func TestInitLogger_BadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "nope", Format: "json"})
	assert.Error(t, err)
}
