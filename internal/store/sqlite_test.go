package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dxpulse/plct-cli/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func strptr(s string) *string { return &s }

func TestSQLiteStore_PersistAndReadBack(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	row := testCompanyRow()
	row.TechnologyUsed = strptr(`["AI","RPA"]`)
	row.Initiatives[0].Timeline = strptr(`{"start":"2024 Q1","duration":"18 months"}`)

	require.NoError(t, s.PersistExtraction(ctx, []model.CompanyRow{row}, "acme_2023.pdf"))

	c, err := s.GetCompany(ctx, "Acme Bhd")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "TECHNOLOGY", c.CompanySector)
	require.NotNil(t, c.TechnologyUsed)
	assert.JSONEq(t, `["AI","RPA"]`, *c.TechnologyUsed)

	inits, err := s.ListInitiatives(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, inits, 1)
	assert.Equal(t, 140, inits[0].TotalScore)
	assert.Equal(t, "OperationalEfficiency", inits[0].DominantDimension)
	assert.Equal(t, "acme_2023.pdf", inits[0].SourceFile)
	require.NotNil(t, inits[0].Timeline)
	assert.JSONEq(t, `{"start":"2024 Q1","duration":"18 months"}`, *inits[0].Timeline)

	counts, err := s.GetCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts.Companies)
	assert.Equal(t, int64(1), counts.Initiatives)
}

func TestSQLiteStore_UpsertRefreshesCompanyAndAppendsInitiatives(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	first := testCompanyRow()
	require.NoError(t, s.PersistExtraction(ctx, []model.CompanyRow{first}, "acme_2022.pdf"))

	second := testCompanyRow()
	second.CompanySector = "FINANCIAL SERVICES"
	second.Initiatives = append(second.Initiatives, model.InitiativeRow{
		Category:          "AI",
		TotalScore:        200,
		DominantDimension: "CustomerExperience",
		DisclosureTier:    "Good",
		ConfidenceLevel:   "Medium",
	})
	require.NoError(t, s.PersistExtraction(ctx, []model.CompanyRow{second}, "acme_2023.pdf"))

	companies, err := s.ListCompanies(ctx)
	require.NoError(t, err)
	require.Len(t, companies, 1)
	assert.Equal(t, "FINANCIAL SERVICES", companies[0].CompanySector)

	inits, err := s.ListInitiatives(ctx, companies[0].ID)
	require.NoError(t, err)
	// Initiatives are append-only across re-extractions.
	assert.Len(t, inits, 3)

	counts, err := s.GetCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts.Companies)
	assert.Equal(t, int64(3), counts.Initiatives)
}

func TestSQLiteStore_PersistExtraction_MultiCompanyDocument(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	first := testCompanyRow()
	second := testCompanyRow()
	second.CompanyName = "Beta Bhd"

	require.NoError(t, s.PersistExtraction(ctx, []model.CompanyRow{first, second}, "group_2023.pdf"))

	counts, err := s.GetCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts.Companies)
	assert.Equal(t, int64(2), counts.Initiatives)

	for _, name := range []string{"Acme Bhd", "Beta Bhd"} {
		c, err := s.GetCompany(ctx, name)
		require.NoError(t, err)
		require.NotNil(t, c, name)
	}
}

func TestSQLiteStore_GetCompany_NotFound(t *testing.T) {
	s := newTestSQLite(t)

	c, err := s.GetCompany(context.Background(), "Nobody Bhd")
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestQuestionPlaceholders(t *testing.T) {
	assert.Equal(t, "VALUES (?, ?, ?)", questionPlaceholders("VALUES ($1, $2, $13)"))
	assert.Equal(t, "no placeholders", questionPlaceholders("no placeholders"))
}
