// Package pipeline orchestrates the batch flow: list annual report PDFs,
// extract text, run LLM initiative extraction, normalize scores, persist, and
// record completion in the run ledger.
package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/dxpulse/plct-cli/internal/config"
	"github.com/dxpulse/plct-cli/internal/ledger"
	"github.com/dxpulse/plct-cli/internal/model"
	"github.com/dxpulse/plct-cli/internal/ocr"
	"github.com/dxpulse/plct-cli/internal/scorer"
	"github.com/dxpulse/plct-cli/internal/store"
)

// InitiativeExtractor produces structured company records from report text.
// A nil, nil return means the document yielded nothing usable and was
// already logged; a non-nil error aborts the batch.
type InitiativeExtractor interface {
	Extract(ctx context.Context, text, filename string) ([]model.Company, error)
}

// Pipeline processes a directory of annual report PDFs sequentially. Each
// document is isolated: a failure is logged and the batch moves on.
type Pipeline struct {
	cfg       *config.Config
	store     store.Store
	ocr       ocr.Extractor
	extractor InitiativeExtractor
	ledger    *ledger.Ledger
	lookup    scorer.SectorLookup
}

// Summary reports the outcome of a batch run.
type Summary struct {
	RunID     string `json:"run_id"`
	Total     int    `json:"total"`
	Skipped   int    `json:"skipped"`
	Processed int    `json:"processed"`
	Empty     int    `json:"empty"`
	Failed    int    `json:"failed"`
}

// New creates a Pipeline with all dependencies.
func New(
	cfg *config.Config,
	st store.Store,
	ocrExtractor ocr.Extractor,
	initiativeExtractor InitiativeExtractor,
	runLedger *ledger.Ledger,
	lookup scorer.SectorLookup,
) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		store:     st,
		ocr:       ocrExtractor,
		extractor: initiativeExtractor,
		ledger:    runLedger,
		lookup:    lookup,
	}
}

// Run executes one batch over the configured reports directory. Documents
// already recorded in the ledger are skipped, so an interrupted batch resumes
// where it left off. The returned Summary is valid even when err is non-nil.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{RunID: uuid.NewString()}
	log := zap.L().With(zap.String("run_id", summary.RunID))

	files, err := listPDFs(p.cfg.Reports.Dir)
	if err != nil {
		return summary, err
	}
	summary.Total = len(files)

	log.Info("pipeline: starting batch",
		zap.String("dir", p.cfg.Reports.Dir),
		zap.Int("documents", len(files)),
	)

	for _, filename := range files {
		if ctx.Err() != nil {
			return summary, eris.Wrap(ctx.Err(), "pipeline: batch interrupted")
		}

		done, err := p.ledger.IsProcessed(filename)
		if err != nil {
			// A broken ledger voids the exactly-once guarantee, so the
			// whole batch stops rather than risking duplicate inserts.
			return summary, eris.Wrap(err, "pipeline: check ledger")
		}
		if done {
			summary.Skipped++
			log.Debug("pipeline: already processed", zap.String("file", filename))
			continue
		}

		outcome, err := p.processDocument(ctx, filename)
		if err != nil {
			return summary, err
		}
		switch outcome {
		case outcomeProcessed:
			summary.Processed++
		case outcomeEmpty:
			summary.Empty++
		case outcomeFailed:
			summary.Failed++
		}
	}

	log.Info("pipeline: batch complete",
		zap.Int("total", summary.Total),
		zap.Int("processed", summary.Processed),
		zap.Int("skipped", summary.Skipped),
		zap.Int("empty", summary.Empty),
		zap.Int("failed", summary.Failed),
	)

	return summary, nil
}

type outcome int

const (
	outcomeProcessed outcome = iota
	outcomeEmpty
	outcomeFailed
)

// processDocument runs a single report through extract, score, and persist.
// Document-level failures are logged and reported as an outcome; only errors
// that invalidate the whole batch propagate.
func (p *Pipeline) processDocument(ctx context.Context, filename string) (outcome, error) {
	log := zap.L().With(zap.String("file", filename))
	log.Info("pipeline: processing document")

	text, err := p.ocr.ExtractText(ctx, filepath.Join(p.cfg.Reports.Dir, filename))
	if err != nil {
		log.Error("pipeline: text extraction failed", zap.Error(err))
		return outcomeFailed, nil
	}

	companies, err := p.extractor.Extract(ctx, text, filename)
	if err != nil {
		return outcomeFailed, eris.Wrap(err, "pipeline: extract")
	}
	if len(companies) == 0 {
		// Nothing usable came back; leave the document unmarked so a
		// later run retries it.
		log.Warn("pipeline: no initiatives extracted")
		return outcomeEmpty, nil
	}

	var rows []model.CompanyRow
	var initiatives, corrections int
	for _, company := range companies {
		row, warnings := scorer.Normalize(company, p.lookup)
		if len(row.Initiatives) == 0 {
			log.Warn("pipeline: company has no scorable initiatives",
				zap.String("company", row.CompanyName),
			)
			continue
		}
		rows = append(rows, *row)
		initiatives += len(row.Initiatives)
		corrections += len(warnings)
	}

	// All of a document's companies go into one transaction so a failure
	// leaves nothing behind and the unmarked document can be retried whole.
	if len(rows) > 0 {
		if err := p.store.PersistExtraction(ctx, rows, filename); err != nil {
			log.Error("pipeline: persist failed", zap.Error(err))
			return outcomeFailed, nil
		}
		log.Info("pipeline: document persisted",
			zap.Int("companies", len(rows)),
			zap.Int("initiatives", initiatives),
			zap.Int("corrections", corrections),
		)
	}

	if err := p.ledger.MarkProcessed(filename); err != nil {
		// Data is in the store but the ledger missed the write; the next
		// run will re-extract and append duplicate initiatives.
		log.Error("pipeline: mark processed failed", zap.Error(err))
	}

	return outcomeProcessed, nil
}

// listPDFs returns the PDF filenames in dir in lexical order.
func listPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "pipeline: read reports dir %s", dir)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			files = append(files, entry.Name())
		}
	}
	return files, nil
}
