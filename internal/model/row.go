package model

import "time"

// CompanyRow is the persisted form of a company, produced by the scoring
// engine after validation. List and map attributes are encoded as JSON text.
type CompanyRow struct {
	ID                   int64
	CompanyName          string
	CompanySector        string
	YearMentioned        string
	ReportType           string
	TechnologyUsed       *string
	Department           *string
	DigitalInvestment    string
	DigitalMaturityLevel string
	PLCTDimensions       *string
	StrategicPriority    string
	CreatedAt            time.Time
	UpdatedAt            time.Time

	Initiatives []InitiativeRow
}

// InitiativeRow is the persisted form of an initiative. Every scoring and
// derived column is guaranteed populated by the scoring engine; downstream
// dashboards rely on these never being null.
type InitiativeRow struct {
	ID        int64
	CompanyID int64

	Category               string
	Initiative             string
	PLCTAlignment          string
	ExpectedImpact         string
	InvestmentAmount       string
	Timeline               *string
	SuccessMetrics         *string
	BusinessRationale      string
	ImplementationApproach string
	WorkforceImpact        *string
	TechnologyPartners     string
	InnovationLevel        string
	RiskFactors            *string
	CompetitiveAdvantage   *string
	PolicyImplications     *string
	GovernanceStructure    string
	DataStrategy           string
	SecurityConsiderations string
	SustainabilityImpact   string

	CustomerExperienceScore        int
	CustomerExperienceRationale    string
	PeopleEmpowermentScore         int
	PeopleEmpowermentRationale     string
	OperationalEfficiencyScore     int
	OperationalEfficiencyRationale string
	NewBusinessModelsScore         int
	NewBusinessModelsRationale     string
	TotalScore                     int
	DominantDimension              string
	AdjustmentFactors              *string

	InvestorWeightedScore  float64
	PolicyWeightedScore    float64
	StrategicWeightedScore float64

	DisclosureInvestmentScore int
	DisclosureTimelineScore   int
	DisclosureMetricsScore    int
	DisclosureTechnicalScore  int
	DisclosureRationaleScore  int
	DisclosureTotalScore      int
	DisclosureTier            string

	ConfidenceLevel         string
	ConfidenceJustification string
	FlaggedForVerification  bool
	VerificationNotes       string

	SourceFile string
	CreatedAt  time.Time
}
