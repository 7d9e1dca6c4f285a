package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/dxpulse/plct-cli/internal/extract"
	"github.com/dxpulse/plct-cli/internal/ledger"
	"github.com/dxpulse/plct-cli/internal/ocr"
	"github.com/dxpulse/plct-cli/internal/pipeline"
	"github.com/dxpulse/plct-cli/internal/sector"
	"github.com/dxpulse/plct-cli/internal/store"
	"github.com/dxpulse/plct-cli/pkg/anthropic"
)

// initStore opens the configured database backend.
func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "postgres", "":
		return store.NewPostgres(ctx, cfg.Store)
	case "sqlite":
		return store.NewSQLite(cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// pipelineEnv holds the initialized store and pipeline for the ingest and
// serve commands.
type pipelineEnv struct {
	Store    store.Store
	Ledger   *ledger.Ledger
	Pipeline *pipeline.Pipeline
}

// Close releases resources held by the pipeline environment.
func (pe *pipelineEnv) Close() {
	if pe.Store != nil {
		_ = pe.Store.Close()
	}
}

// initPipeline sets up the store, text extraction, the Anthropic client, and
// the run ledger, then builds the Pipeline. Callers should defer env.Close().
func initPipeline(ctx context.Context) (*pipelineEnv, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	ocrExtractor, err := ocr.NewExtractor(cfg.OCR)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	anthropicClient := anthropic.NewClient(cfg.Anthropic.Key)
	initiativeExtractor := extract.New(anthropicClient, cfg.Anthropic, cfg.Extract)
	runLedger := ledger.New(cfg.Reports.LedgerPath)

	p := pipeline.New(cfg, st, ocrExtractor, initiativeExtractor, runLedger, sector.SectorFor)

	return &pipelineEnv{
		Store:    st,
		Ledger:   runLedger,
		Pipeline: p,
	}, nil
}
