// Package model defines the wire shapes returned by the extraction service
// and the flattened rows persisted to the relational store.
package model

import (
	"encoding/json"

	"github.com/rotisserie/eris"
)

// Company is one reporting entity as extracted from an annual report.
type Company struct {
	CompanyName          FlexString     `json:"CompanyName"`
	CompanySector        FlexString     `json:"CompanySector"`
	YearMentioned        FlexString     `json:"YearMentioned"`
	ReportType           FlexString     `json:"ReportType"`
	TechnologyUsed       FlexStringList `json:"TechnologyUsed"`
	Department           FlexStringList `json:"Department"`
	DigitalInvestment    FlexString     `json:"DigitalInvestment"`
	DigitalMaturityLevel FlexString     `json:"DigitalMaturityLevel"`
	PLCTDimensions       JSONText       `json:"PLCTDimensions"`
	StrategicPriority    FlexString     `json:"StrategicPriority"`
	Initiatives          []Initiative   `json:"Initiatives"`
}

// Initiative is one distinct transformation effort within a company's report.
type Initiative struct {
	Category               FlexString `json:"Category"`
	Initiative             FlexString `json:"Initiative"`
	PLCTAlignment          FlexString `json:"PLCTAlignment"`
	ExpectedImpact         FlexString `json:"ExpectedImpact"`
	InvestmentAmount       FlexString `json:"InvestmentAmount"`
	Timeline               JSONText   `json:"Timeline"`
	SuccessMetrics         JSONText   `json:"SuccessMetrics"`
	BusinessRationale      FlexString `json:"BusinessRationale"`
	ImplementationApproach FlexString `json:"ImplementationApproach"`
	WorkforceImpact        JSONText   `json:"WorkforceImpact"`
	TechnologyPartners     FlexString `json:"TechnologyPartners"`
	InnovationLevel        FlexString `json:"InnovationLevel"`
	RiskFactors            JSONText   `json:"RiskFactors"`
	CompetitiveAdvantage   JSONText   `json:"CompetitiveAdvantage"`
	PolicyImplications     JSONText   `json:"PolicyImplications"`
	GovernanceStructure    FlexString `json:"GovernanceStructure"`
	DataStrategy           FlexString `json:"DataStrategy"`
	SecurityConsiderations FlexString `json:"SecurityConsiderations"`
	SustainabilityImpact   FlexString `json:"SustainabilityImpact"`

	PLCTScoring               PLCTScoring       `json:"PLCTScoring"`
	StakeholderWeightedScores StakeholderScores `json:"StakeholderWeightedScores"`
	DisclosureQualityScore    DisclosureQuality `json:"DisclosureQualityScore"`
	ConfidenceLevel           ConfidenceLevel   `json:"ConfidenceLevel"`
}

// PLCTScoring holds the four dimension scores, rationales, and derived
// totals as supplied by the upstream generator. The scoring engine is the
// authority on the derived values, not this struct.
type PLCTScoring struct {
	CustomerExperienceScore        FlexFloat  `json:"CustomerExperienceScore"`
	CustomerExperienceRationale    FlexString `json:"CustomerExperienceRationale"`
	PeopleEmpowermentScore         FlexFloat  `json:"PeopleEmpowermentScore"`
	PeopleEmpowermentRationale     FlexString `json:"PeopleEmpowermentRationale"`
	OperationalEfficiencyScore     FlexFloat  `json:"OperationalEfficiencyScore"`
	OperationalEfficiencyRationale FlexString `json:"OperationalEfficiencyRationale"`
	NewBusinessModelsScore         FlexFloat  `json:"NewBusinessModelsScore"`
	NewBusinessModelsRationale     FlexString `json:"NewBusinessModelsRationale"`
	TotalPLCTScore                 FlexFloat  `json:"TotalPLCTScore"`
	DominantDimension              FlexString `json:"DominantDimension"`
	AdjustmentFactors              JSONText   `json:"AdjustmentFactors"`
}

// StakeholderScores holds the three fixed-weight stakeholder views. The
// weighted values frequently arrive as formula strings; FlexFloat recovers
// the leading numeric token when one exists.
type StakeholderScores struct {
	InvestorWeighted         FlexFloat  `json:"InvestorWeighted"`
	InvestorWeightedFormula  FlexString `json:"InvestorWeightedFormula"`
	PolicyWeighted           FlexFloat  `json:"PolicyWeighted"`
	PolicyWeightedFormula    FlexString `json:"PolicyWeightedFormula"`
	StrategicWeighted        FlexFloat  `json:"StrategicWeighted"`
	StrategicWeightedFormula FlexString `json:"StrategicWeightedFormula"`
}

// DisclosureQuality holds the five-component disclosure assessment.
type DisclosureQuality struct {
	InvestmentDisclosure FlexFloat  `json:"investmentDisclosure"`
	TimelineDisclosure   FlexFloat  `json:"timelineDisclosure"`
	MetricsAndKpis       FlexFloat  `json:"metricsAndKpis"`
	TechnicalDetail      FlexFloat  `json:"technicalDetail"`
	BusinessRationale    FlexFloat  `json:"businessRationale"`
	TotalScore           FlexFloat  `json:"totalScore"`
	QualityTier          FlexString `json:"qualityTier"`
}

// ConfidenceLevel holds the qualitative reliability judgment.
type ConfidenceLevel struct {
	Level                  FlexString `json:"level"`
	Justification          FlexString `json:"justification"`
	FlaggedForVerification FlexBool   `json:"flaggedForVerification"`
	VerificationNotes      FlexString `json:"verificationNotes"`
}

// ParseCompanies decodes the extraction payload. The top-level value must be
// a JSON array of company objects; anything else is a malformed response.
func ParseCompanies(data []byte) ([]Company, error) {
	var companies []Company
	if err := json.Unmarshal(data, &companies); err != nil {
		return nil, eris.Wrap(err, "model: parse companies")
	}
	return companies, nil
}
