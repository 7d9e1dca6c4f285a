package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/dxpulse/plct-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite for zero-dependency
// local analysis.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	sdb, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := sdb.Exec(pragma); err != nil {
			sdb.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: sdb}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS companies (
	id                     INTEGER PRIMARY KEY AUTOINCREMENT,
	company_name           TEXT NOT NULL UNIQUE,
	company_sector         TEXT,
	year_mentioned         TEXT,
	report_type            TEXT,
	technology_used        TEXT,
	department             TEXT,
	digital_investment     TEXT,
	digital_maturity_level TEXT,
	plct_dimensions        TEXT,
	strategic_priority     TEXT,
	created_at             DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at             DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS initiatives (
	id                                  INTEGER PRIMARY KEY AUTOINCREMENT,
	company_id                          INTEGER NOT NULL REFERENCES companies(id),
	category                            TEXT,
	initiative                          TEXT,
	plct_alignment                      TEXT,
	expected_impact                     TEXT,
	investment_amount                   TEXT,
	timeline                            TEXT,
	success_metrics                     TEXT,
	business_rationale                  TEXT,
	implementation_approach             TEXT,
	workforce_impact                    TEXT,
	technology_partners                 TEXT,
	innovation_level                    TEXT,
	risk_factors                        TEXT,
	competitive_advantage               TEXT,
	policy_implications                 TEXT,
	governance_structure                TEXT,
	data_strategy                       TEXT,
	security_considerations             TEXT,
	sustainability_impact               TEXT,
	plct_customer_experience_score      INTEGER NOT NULL,
	plct_customer_experience_rationale  TEXT,
	plct_people_empowerment_score       INTEGER NOT NULL,
	plct_people_empowerment_rationale   TEXT,
	plct_operational_efficiency_score   INTEGER NOT NULL,
	plct_operational_efficiency_rationale TEXT,
	plct_new_business_models_score      INTEGER NOT NULL,
	plct_new_business_models_rationale  TEXT,
	plct_total_score                    INTEGER NOT NULL,
	plct_dominant_dimension             TEXT NOT NULL,
	plct_adjustment_factors             TEXT,
	plct_investor_weighted_score        REAL NOT NULL,
	plct_policy_weighted_score          REAL NOT NULL,
	plct_strategic_weighted_score       REAL NOT NULL,
	disclosure_quality_investment_score INTEGER NOT NULL,
	disclosure_quality_timeline_score   INTEGER NOT NULL,
	disclosure_quality_metrics_score    INTEGER NOT NULL,
	disclosure_quality_technical_score  INTEGER NOT NULL,
	disclosure_quality_rationale_score  INTEGER NOT NULL,
	disclosure_quality_total_score      INTEGER NOT NULL,
	disclosure_quality_tier             TEXT NOT NULL,
	confidence_level                    TEXT NOT NULL,
	confidence_justification            TEXT,
	confidence_flagged_for_verification BOOLEAN NOT NULL DEFAULT 0,
	confidence_verification_notes       TEXT,
	source_file                         TEXT,
	created_at                          DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_companies_sector ON companies(company_sector);
CREATE INDEX IF NOT EXISTS idx_initiatives_company_id ON initiatives(company_id);
CREATE INDEX IF NOT EXISTS idx_initiatives_dominant ON initiatives(plct_dominant_dimension);
`

// Migrate creates the schema if it does not exist.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteMigration); err != nil {
		return eris.Wrap(err, "sqlite: migrate")
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const sqliteUpsertCompanySQL = `
INSERT INTO companies
	(company_name, company_sector, year_mentioned, report_type, technology_used,
	 department, digital_investment, digital_maturity_level, plct_dimensions, strategic_priority)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (company_name) DO UPDATE SET
	company_sector = excluded.company_sector,
	year_mentioned = excluded.year_mentioned,
	report_type = excluded.report_type,
	technology_used = excluded.technology_used,
	department = excluded.department,
	digital_investment = excluded.digital_investment,
	digital_maturity_level = excluded.digital_maturity_level,
	plct_dimensions = excluded.plct_dimensions,
	strategic_priority = excluded.strategic_priority,
	updated_at = datetime('now')
RETURNING id`

// PersistExtraction writes every company of one document and their
// initiatives in a single transaction.
func (s *SQLiteStore) PersistExtraction(ctx context.Context, rows []model.CompanyRow, sourceFile string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin")
	}
	defer func() { _ = tx.Rollback() }()

	insertSQL := questionPlaceholders(insertInitiativeSQL)

	var initiatives int
	for i := range rows {
		row := &rows[i]

		var companyID int64
		err = tx.QueryRowContext(ctx, sqliteUpsertCompanySQL,
			row.CompanyName, row.CompanySector, row.YearMentioned, row.ReportType,
			row.TechnologyUsed, row.Department, row.DigitalInvestment,
			row.DigitalMaturityLevel, row.PLCTDimensions, row.StrategicPriority,
		).Scan(&companyID)
		if err != nil {
			return eris.Wrapf(err, "sqlite: upsert company %s", row.CompanyName)
		}

		for j := range row.Initiatives {
			ir := &row.Initiatives[j]
			_, err = tx.ExecContext(ctx, insertSQL, initiativeArgs(companyID, ir, sourceFile)...)
			if err != nil {
				return eris.Wrapf(err, "sqlite: insert initiative for %s", row.CompanyName)
			}
		}
		initiatives += len(row.Initiatives)
	}

	if err := tx.Commit(); err != nil {
		return eris.Wrap(err, "sqlite: commit")
	}

	zap.L().Info("persisted extraction",
		zap.String("source_file", sourceFile),
		zap.Int("companies", len(rows)),
		zap.Int("initiatives", initiatives),
	)
	return nil
}

// GetCompany fetches one company by exact name. Returns nil when absent.
func (s *SQLiteStore) GetCompany(ctx context.Context, name string) (*model.CompanyRow, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+selectCompanyColumns+` FROM companies WHERE company_name = ?`, name)

	var c model.CompanyRow
	err := scanCompanySQL(row, &c)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get company %s", name)
	}
	return &c, nil
}

// ListCompanies returns all companies ordered by name.
func (s *SQLiteStore) ListCompanies(ctx context.Context) ([]model.CompanyRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectCompanyColumns+` FROM companies ORDER BY company_name`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list companies")
	}
	defer rows.Close()

	var out []model.CompanyRow
	for rows.Next() {
		var c model.CompanyRow
		if err := scanCompanySQL(rows, &c); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan company")
		}
		out = append(out, c)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list companies rows")
}

// ListInitiatives returns the initiatives for a company ordered by insertion.
func (s *SQLiteStore) ListInitiatives(ctx context.Context, companyID int64) ([]model.InitiativeRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectInitiativeColumns+` FROM initiatives WHERE company_id = ? ORDER BY id`, companyID)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list initiatives")
	}
	defer rows.Close()

	var out []model.InitiativeRow
	for rows.Next() {
		var ir model.InitiativeRow
		if err := scanInitiativeSQL(rows, &ir); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan initiative")
		}
		out = append(out, ir)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list initiatives rows")
}

// GetCounts reports corpus size.
func (s *SQLiteStore) GetCounts(ctx context.Context) (*Counts, error) {
	var c Counts
	err := s.db.QueryRowContext(ctx,
		`SELECT (SELECT count(*) FROM companies), (SELECT count(*) FROM initiatives)`,
	).Scan(&c.Companies, &c.Initiatives)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get counts")
	}
	return &c, nil
}

// sqlScanner is satisfied by *sql.Row and *sql.Rows.
type sqlScanner interface {
	Scan(dest ...any) error
}

func scanCompanySQL(row sqlScanner, c *model.CompanyRow) error {
	return row.Scan(
		&c.ID, &c.CompanyName, &c.CompanySector, &c.YearMentioned, &c.ReportType,
		&c.TechnologyUsed, &c.Department, &c.DigitalInvestment,
		&c.DigitalMaturityLevel, &c.PLCTDimensions, &c.StrategicPriority,
		&c.CreatedAt, &c.UpdatedAt,
	)
}

func scanInitiativeSQL(row sqlScanner, ir *model.InitiativeRow) error {
	var sourceFile sql.NullString
	err := row.Scan(
		&ir.ID, &ir.CompanyID, &ir.Category, &ir.Initiative, &ir.PLCTAlignment,
		&ir.ExpectedImpact, &ir.InvestmentAmount, &ir.Timeline, &ir.SuccessMetrics,
		&ir.BusinessRationale, &ir.ImplementationApproach, &ir.WorkforceImpact,
		&ir.TechnologyPartners, &ir.InnovationLevel, &ir.RiskFactors,
		&ir.CompetitiveAdvantage, &ir.PolicyImplications, &ir.GovernanceStructure,
		&ir.DataStrategy, &ir.SecurityConsiderations, &ir.SustainabilityImpact,
		&ir.CustomerExperienceScore, &ir.CustomerExperienceRationale,
		&ir.PeopleEmpowermentScore, &ir.PeopleEmpowermentRationale,
		&ir.OperationalEfficiencyScore, &ir.OperationalEfficiencyRationale,
		&ir.NewBusinessModelsScore, &ir.NewBusinessModelsRationale,
		&ir.TotalScore, &ir.DominantDimension, &ir.AdjustmentFactors,
		&ir.InvestorWeightedScore, &ir.PolicyWeightedScore, &ir.StrategicWeightedScore,
		&ir.DisclosureInvestmentScore, &ir.DisclosureTimelineScore,
		&ir.DisclosureMetricsScore, &ir.DisclosureTechnicalScore,
		&ir.DisclosureRationaleScore, &ir.DisclosureTotalScore,
		&ir.DisclosureTier,
		&ir.ConfidenceLevel, &ir.ConfidenceJustification, &ir.FlaggedForVerification,
		&ir.VerificationNotes, &sourceFile, &ir.CreatedAt,
	)
	if sourceFile.Valid {
		ir.SourceFile = sourceFile.String
	}
	return err
}

// questionPlaceholders rewrites $N positional placeholders to SQLite's ?.
func questionPlaceholders(query string) string {
	out := make([]byte, 0, len(query))
	for i := 0; i < len(query); i++ {
		if query[i] == '$' {
			out = append(out, '?')
			for i+1 < len(query) && query[i+1] >= '0' && query[i+1] <= '9' {
				i++
			}
			continue
		}
		out = append(out, query[i])
	}
	return string(out)
}
