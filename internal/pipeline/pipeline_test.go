package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dxpulse/plct-cli/internal/config"
	"github.com/dxpulse/plct-cli/internal/ledger"
	"github.com/dxpulse/plct-cli/internal/model"
	"github.com/dxpulse/plct-cli/internal/store"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

type fakeOCR struct {
	failFor map[string]bool
	calls   []string
}

func (f *fakeOCR) ExtractText(_ context.Context, pdfPath string) (string, error) {
	name := filepath.Base(pdfPath)
	f.calls = append(f.calls, name)
	if f.failFor[name] {
		return "", eris.New("pdftotext exited 1")
	}
	return "report text for " + name, nil
}

type fakeExtractor struct {
	results map[string][]model.Company
	err     error
	calls   []string
}

func (f *fakeExtractor) Extract(_ context.Context, _, filename string) ([]model.Company, error) {
	f.calls = append(f.calls, filename)
	if f.err != nil {
		return nil, f.err
	}
	return f.results[filename], nil
}

func extractedCompany(name string) model.Company {
	return model.Company{
		CompanyName:   model.FlexString(name),
		CompanySector: "TECHNOLOGY",
		Initiatives: []model.Initiative{{
			Category: "Automation",
			PLCTScoring: model.PLCTScoring{
				CustomerExperienceScore:    model.Num(40),
				PeopleEmpowermentScore:     model.Num(20),
				OperationalEfficiencyScore: model.Num(70),
				NewBusinessModelsScore:     model.Num(10),
			},
		}},
	}
}

type fixture struct {
	pipeline *Pipeline
	store    *store.SQLiteStore
	ledger   *ledger.Ledger
	ocr      *fakeOCR
	ext      *fakeExtractor
	dir      string
}

func newFixture(t *testing.T, pdfs ...string) *fixture {
	t.Helper()

	dir := t.TempDir()
	for _, name := range pdfs {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("%PDF-1.4"), 0o644))
	}

	s, err := store.NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))

	l := ledger.New(filepath.Join(dir, "processed_files.json"))
	o := &fakeOCR{failFor: map[string]bool{}}
	e := &fakeExtractor{results: map[string][]model.Company{}}

	cfg := &config.Config{Reports: config.ReportsConfig{Dir: dir}}
	noLookup := func(string) (string, bool) { return "", false }

	return &fixture{
		pipeline: New(cfg, s, o, e, l, noLookup),
		store:    s,
		ledger:   l,
		ocr:      o,
		ext:      e,
		dir:      dir,
	}
}

func TestPipeline_Run_ProcessesAllDocuments(t *testing.T) {
	f := newFixture(t, "alpha_2023.pdf", "beta_2023.pdf")
	f.ext.results["alpha_2023.pdf"] = []model.Company{extractedCompany("Alpha Bhd")}
	f.ext.results["beta_2023.pdf"] = []model.Company{extractedCompany("Beta Bhd")}

	summary, err := f.pipeline.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 2, summary.Processed)
	assert.Zero(t, summary.Skipped)
	assert.Zero(t, summary.Failed)
	assert.NotEmpty(t, summary.RunID)

	// Documents are visited in lexical order.
	assert.Equal(t, []string{"alpha_2023.pdf", "beta_2023.pdf"}, f.ext.calls)

	counts, err := f.store.GetCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts.Companies)
	assert.Equal(t, int64(2), counts.Initiatives)

	for _, name := range []string{"alpha_2023.pdf", "beta_2023.pdf"} {
		done, err := f.ledger.IsProcessed(name)
		require.NoError(t, err)
		assert.True(t, done, name)
	}
}

func TestPipeline_Run_IgnoresNonPDFFiles(t *testing.T) {
	f := newFixture(t, "alpha_2023.pdf")
	require.NoError(t, os.WriteFile(filepath.Join(f.dir, "notes.txt"), []byte("x"), 0o644))
	f.ext.results["alpha_2023.pdf"] = []model.Company{extractedCompany("Alpha Bhd")}

	summary, err := f.pipeline.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Total)
	assert.Equal(t, []string{"alpha_2023.pdf"}, f.ocr.calls)
}

func TestPipeline_Run_SkipsProcessedDocuments(t *testing.T) {
	f := newFixture(t, "alpha_2023.pdf", "beta_2023.pdf")
	require.NoError(t, f.ledger.MarkProcessed("alpha_2023.pdf"))
	f.ext.results["beta_2023.pdf"] = []model.Company{extractedCompany("Beta Bhd")}

	summary, err := f.pipeline.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, []string{"beta_2023.pdf"}, f.ext.calls)
}

func TestPipeline_Run_OCRFailureIsolatesDocument(t *testing.T) {
	f := newFixture(t, "alpha_2023.pdf", "beta_2023.pdf")
	f.ocr.failFor["alpha_2023.pdf"] = true
	f.ext.results["beta_2023.pdf"] = []model.Company{extractedCompany("Beta Bhd")}

	summary, err := f.pipeline.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Processed)

	// The failed document stays unmarked so a later run retries it.
	done, err := f.ledger.IsProcessed("alpha_2023.pdf")
	require.NoError(t, err)
	assert.False(t, done)
}

func TestPipeline_Run_EmptyExtractionLeftUnmarked(t *testing.T) {
	f := newFixture(t, "alpha_2023.pdf")

	summary, err := f.pipeline.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Empty)
	assert.Zero(t, summary.Processed)

	done, err := f.ledger.IsProcessed("alpha_2023.pdf")
	require.NoError(t, err)
	assert.False(t, done)
}

func TestPipeline_Run_ExtractorErrorAbortsBatch(t *testing.T) {
	f := newFixture(t, "alpha_2023.pdf", "beta_2023.pdf")
	f.ext.err = eris.New("context canceled")

	_, err := f.pipeline.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pipeline: extract")
	assert.Equal(t, []string{"alpha_2023.pdf"}, f.ext.calls)
}

func TestPipeline_Run_CanceledContext(t *testing.T) {
	f := newFixture(t, "alpha_2023.pdf")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.pipeline.Run(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch interrupted")
	assert.Empty(t, f.ocr.calls)
}

func TestPipeline_Run_CorruptLedgerAbortsBatch(t *testing.T) {
	f := newFixture(t, "alpha_2023.pdf")
	require.NoError(t, os.WriteFile(filepath.Join(f.dir, "processed_files.json"), []byte("{bad"), 0o644))

	_, err := f.pipeline.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "check ledger")
}

func TestPipeline_Run_MissingReportsDir(t *testing.T) {
	f := newFixture(t)
	f.pipeline.cfg.Reports.Dir = filepath.Join(f.dir, "nope")

	_, err := f.pipeline.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read reports dir")
}

// flakyStore fails whole-document persists until its failure budget is spent,
// then delegates to the real store.
type flakyStore struct {
	store.Store
	failures int
}

func (f *flakyStore) PersistExtraction(ctx context.Context, rows []model.CompanyRow, sourceFile string) error {
	if f.failures > 0 {
		f.failures--
		return eris.New("connection reset")
	}
	return f.Store.PersistExtraction(ctx, rows, sourceFile)
}

func TestPipeline_Run_PartialDocumentFailureLeavesNoRows(t *testing.T) {
	f := newFixture(t, "group_2023.pdf")
	f.ext.results["group_2023.pdf"] = []model.Company{
		extractedCompany("Alpha Bhd"),
		extractedCompany("Beta Bhd"),
	}

	flaky := &flakyStore{Store: f.store, failures: 1}
	noLookup := func(string) (string, bool) { return "", false }
	p := New(f.pipeline.cfg, flaky, f.ocr, f.ext, f.ledger, noLookup)

	summary, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Failed)

	// The failed document commits nothing and stays unmarked.
	counts, err := f.store.GetCounts(context.Background())
	require.NoError(t, err)
	assert.Zero(t, counts.Companies)
	assert.Zero(t, counts.Initiatives)

	done, err := f.ledger.IsProcessed("group_2023.pdf")
	require.NoError(t, err)
	assert.False(t, done)

	// The retry run persists each company exactly once.
	summary, err = p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Processed)

	counts, err = f.store.GetCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts.Companies)
	assert.Equal(t, int64(2), counts.Initiatives)

	for _, name := range []string{"Alpha Bhd", "Beta Bhd"} {
		c, err := f.store.GetCompany(context.Background(), name)
		require.NoError(t, err)
		require.NotNil(t, c, name)
		inits, err := f.store.ListInitiatives(context.Background(), c.ID)
		require.NoError(t, err)
		assert.Len(t, inits, 1, name)
	}
}

func TestPipeline_Run_MultipleCompaniesPerDocument(t *testing.T) {
	f := newFixture(t, "group_2023.pdf")
	f.ext.results["group_2023.pdf"] = []model.Company{
		extractedCompany("Alpha Bhd"),
		extractedCompany("Beta Bhd"),
	}

	summary, err := f.pipeline.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Processed)

	counts, err := f.store.GetCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts.Companies)
	assert.Equal(t, int64(2), counts.Initiatives)
}
