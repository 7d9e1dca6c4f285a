package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/dxpulse/plct-cli/internal/config"
	"github.com/dxpulse/plct-cli/internal/db"
	"github.com/dxpulse/plct-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, cfg config.StoreConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if cfg.MaxConns > 0 {
		maxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		minConns = cfg.MinConns
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS companies (
	id                     BIGSERIAL PRIMARY KEY,
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
	created_at             TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at             TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS initiatives (
	id                                  BIGSERIAL PRIMARY KEY,
	company_id                          BIGINT NOT NULL REFERENCES companies(id),
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
	plct_customer_experience_score      INT NOT NULL,
	plct_customer_experience_rationale  TEXT,
	plct_people_empowerment_score       INT NOT NULL,
	plct_people_empowerment_rationale   TEXT,
	plct_operational_efficiency_score   INT NOT NULL,
	plct_operational_efficiency_rationale TEXT,
	plct_new_business_models_score      INT NOT NULL,
	plct_new_business_models_rationale  TEXT,
	plct_total_score                    INT NOT NULL,
	plct_dominant_dimension             TEXT NOT NULL,
	plct_adjustment_factors             TEXT,
	plct_investor_weighted_score        DOUBLE PRECISION NOT NULL,
	plct_policy_weighted_score          DOUBLE PRECISION NOT NULL,
	plct_strategic_weighted_score       DOUBLE PRECISION NOT NULL,
	disclosure_quality_investment_score INT NOT NULL,
	disclosure_quality_timeline_score   INT NOT NULL,
	disclosure_quality_metrics_score    INT NOT NULL,
	disclosure_quality_technical_score  INT NOT NULL,
	disclosure_quality_rationale_score  INT NOT NULL,
	disclosure_quality_total_score      INT NOT NULL,
	disclosure_quality_tier             TEXT NOT NULL,
	confidence_level                    TEXT NOT NULL,
	confidence_justification            TEXT,
	confidence_flagged_for_verification BOOLEAN NOT NULL DEFAULT false,
	confidence_verification_notes       TEXT,
	source_file                         TEXT,
	created_at                          TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_companies_sector ON companies(company_sector);
CREATE INDEX IF NOT EXISTS idx_initiatives_company_id ON initiatives(company_id);
CREATE INDEX IF NOT EXISTS idx_initiatives_dominant ON initiatives(plct_dominant_dimension);
CREATE INDEX IF NOT EXISTS idx_initiatives_total_score ON initiatives(plct_total_score);
`

// Migrate creates the schema if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresMigration); err != nil {
		return eris.Wrap(err, "postgres: migrate")
	}
	zap.L().Info("postgres: schema ready")
	return nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

const upsertCompanySQL = `
INSERT INTO companies
	(company_name, company_sector, year_mentioned, report_type, technology_used,
	 department, digital_investment, digital_maturity_level, plct_dimensions, strategic_priority)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (company_name) DO UPDATE SET
	company_sector = EXCLUDED.company_sector,
	year_mentioned = EXCLUDED.year_mentioned,
	report_type = EXCLUDED.report_type,
	technology_used = EXCLUDED.technology_used,
	department = EXCLUDED.department,
	digital_investment = EXCLUDED.digital_investment,
	digital_maturity_level = EXCLUDED.digital_maturity_level,
	plct_dimensions = EXCLUDED.plct_dimensions,
	strategic_priority = EXCLUDED.strategic_priority,
	updated_at = now()
RETURNING id`

const insertInitiativeSQL = `
INSERT INTO initiatives
	(company_id, category, initiative, plct_alignment, expected_impact, investment_amount,
	 timeline, success_metrics, business_rationale, implementation_approach, workforce_impact,
	 technology_partners, innovation_level, risk_factors, competitive_advantage,
	 policy_implications, governance_structure, data_strategy, security_considerations,
	 sustainability_impact,
	 plct_customer_experience_score, plct_customer_experience_rationale,
	 plct_people_empowerment_score, plct_people_empowerment_rationale,
	 plct_operational_efficiency_score, plct_operational_efficiency_rationale,
	 plct_new_business_models_score, plct_new_business_models_rationale,
	 plct_total_score, plct_dominant_dimension, plct_adjustment_factors,
	 plct_investor_weighted_score, plct_policy_weighted_score, plct_strategic_weighted_score,
	 disclosure_quality_investment_score, disclosure_quality_timeline_score,
	 disclosure_quality_metrics_score, disclosure_quality_technical_score,
	 disclosure_quality_rationale_score, disclosure_quality_total_score,
	 disclosure_quality_tier,
	 confidence_level, confidence_justification, confidence_flagged_for_verification,
	 confidence_verification_notes, source_file)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
	$21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32, $33, $34, $35, $36, $37, $38,
	$39, $40, $41, $42, $43, $44, $45, $46)`

// PersistExtraction writes every company of one document and their
// initiatives in a single transaction. The company upsert keys on
// company_name, so re-extracting a newer report refreshes company attributes
// in place; initiatives append.
func (s *PostgresStore) PersistExtraction(ctx context.Context, rows []model.CompanyRow, sourceFile string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var initiatives int
	for i := range rows {
		row := &rows[i]

		var companyID int64
		err = tx.QueryRow(ctx, upsertCompanySQL,
			row.CompanyName, row.CompanySector, row.YearMentioned, row.ReportType,
			row.TechnologyUsed, row.Department, row.DigitalInvestment,
			row.DigitalMaturityLevel, row.PLCTDimensions, row.StrategicPriority,
		).Scan(&companyID)
		if err != nil {
			return eris.Wrapf(err, "postgres: upsert company %s", row.CompanyName)
		}

		for j := range row.Initiatives {
			ir := &row.Initiatives[j]
			_, err = tx.Exec(ctx, insertInitiativeSQL, initiativeArgs(companyID, ir, sourceFile)...)
			if err != nil {
				return eris.Wrapf(err, "postgres: insert initiative for %s", row.CompanyName)
			}
		}
		initiatives += len(row.Initiatives)
	}

	if err := tx.Commit(ctx); err != nil {
		return eris.Wrap(err, "postgres: commit")
	}

	zap.L().Info("persisted extraction",
		zap.String("source_file", sourceFile),
		zap.Int("companies", len(rows)),
		zap.Int("initiatives", initiatives),
	)
	return nil
}

// initiativeArgs flattens an InitiativeRow into the positional argument list
// of insertInitiativeSQL. Shared by both backends, which use the same column
// order.
func initiativeArgs(companyID int64, ir *model.InitiativeRow, sourceFile string) []any {
	return []any{
		companyID, ir.Category, ir.Initiative, ir.PLCTAlignment, ir.ExpectedImpact,
		ir.InvestmentAmount, ir.Timeline, ir.SuccessMetrics, ir.BusinessRationale,
		ir.ImplementationApproach, ir.WorkforceImpact, ir.TechnologyPartners,
		ir.InnovationLevel, ir.RiskFactors, ir.CompetitiveAdvantage,
		ir.PolicyImplications, ir.GovernanceStructure, ir.DataStrategy,
		ir.SecurityConsiderations, ir.SustainabilityImpact,
		ir.CustomerExperienceScore, ir.CustomerExperienceRationale,
		ir.PeopleEmpowermentScore, ir.PeopleEmpowermentRationale,
		ir.OperationalEfficiencyScore, ir.OperationalEfficiencyRationale,
		ir.NewBusinessModelsScore, ir.NewBusinessModelsRationale,
		ir.TotalScore, ir.DominantDimension, ir.AdjustmentFactors,
		ir.InvestorWeightedScore, ir.PolicyWeightedScore, ir.StrategicWeightedScore,
		ir.DisclosureInvestmentScore, ir.DisclosureTimelineScore,
		ir.DisclosureMetricsScore, ir.DisclosureTechnicalScore,
		ir.DisclosureRationaleScore, ir.DisclosureTotalScore,
		ir.DisclosureTier,
		ir.ConfidenceLevel, ir.ConfidenceJustification, ir.FlaggedForVerification,
		ir.VerificationNotes, sourceFile,
	}
}

const selectCompanyColumns = `id, company_name, company_sector, year_mentioned, report_type,
	technology_used, department, digital_investment, digital_maturity_level,
	plct_dimensions, strategic_priority, created_at, updated_at`

// GetCompany fetches one company by exact name. Returns nil when absent.
func (s *PostgresStore) GetCompany(ctx context.Context, name string) (*model.CompanyRow, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+selectCompanyColumns+` FROM companies WHERE company_name = $1`, name)

	var c model.CompanyRow
	err := scanCompany(row, &c)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get company %s", name)
	}
	return &c, nil
}

// ListCompanies returns all companies ordered by name.
func (s *PostgresStore) ListCompanies(ctx context.Context) ([]model.CompanyRow, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+selectCompanyColumns+` FROM companies ORDER BY company_name`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list companies")
	}
	defer rows.Close()

	var out []model.CompanyRow
	for rows.Next() {
		var c model.CompanyRow
		if err := scanCompany(rows, &c); err != nil {
			return nil, eris.Wrap(err, "postgres: scan company")
		}
		out = append(out, c)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list companies rows")
}

func scanCompany(row pgx.Row, c *model.CompanyRow) error {
	return row.Scan(
		&c.ID, &c.CompanyName, &c.CompanySector, &c.YearMentioned, &c.ReportType,
		&c.TechnologyUsed, &c.Department, &c.DigitalInvestment,
		&c.DigitalMaturityLevel, &c.PLCTDimensions, &c.StrategicPriority,
		&c.CreatedAt, &c.UpdatedAt,
	)
}

const selectInitiativeColumns = `id, company_id, category, initiative, plct_alignment,
	expected_impact, investment_amount, timeline, success_metrics, business_rationale,
	implementation_approach, workforce_impact, technology_partners, innovation_level,
	risk_factors, competitive_advantage, policy_implications, governance_structure,
	data_strategy, security_considerations, sustainability_impact,
	plct_customer_experience_score, plct_customer_experience_rationale,
	plct_people_empowerment_score, plct_people_empowerment_rationale,
	plct_operational_efficiency_score, plct_operational_efficiency_rationale,
	plct_new_business_models_score, plct_new_business_models_rationale,
	plct_total_score, plct_dominant_dimension, plct_adjustment_factors,
	plct_investor_weighted_score, plct_policy_weighted_score, plct_strategic_weighted_score,
	disclosure_quality_investment_score, disclosure_quality_timeline_score,
	disclosure_quality_metrics_score, disclosure_quality_technical_score,
	disclosure_quality_rationale_score, disclosure_quality_total_score,
	disclosure_quality_tier,
	confidence_level, confidence_justification, confidence_flagged_for_verification,
	confidence_verification_notes, source_file, created_at`

// ListInitiatives returns the initiatives for a company ordered by insertion.
func (s *PostgresStore) ListInitiatives(ctx context.Context, companyID int64) ([]model.InitiativeRow, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+selectInitiativeColumns+` FROM initiatives WHERE company_id = $1 ORDER BY id`, companyID)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list initiatives")
	}
	defer rows.Close()

	var out []model.InitiativeRow
	for rows.Next() {
		var ir model.InitiativeRow
		if err := scanInitiative(rows, &ir); err != nil {
			return nil, eris.Wrap(err, "postgres: scan initiative")
		}
		out = append(out, ir)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list initiatives rows")
}

func scanInitiative(row pgx.Row, ir *model.InitiativeRow) error {
	var sourceFile *string
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
	if sourceFile != nil {
		ir.SourceFile = *sourceFile
	}
	return err
}

// GetCounts reports corpus size.
func (s *PostgresStore) GetCounts(ctx context.Context) (*Counts, error) {
	var c Counts
	err := s.pool.QueryRow(ctx,
		`SELECT (SELECT count(*) FROM companies), (SELECT count(*) FROM initiatives)`,
	).Scan(&c.Companies, &c.Initiatives)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get counts")
	}
	return &c, nil
}
