// Package scorer validates extracted companies against the PLCT scoring
// contract and produces the flattened rows the store persists. The generative
// service is treated as an untrusted upstream: every derived value is either
// verified or recomputed here.
package scorer

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/dxpulse/plct-cli/internal/model"
)

// Stakeholder weight vectors, in CX, PE, OE, BM order.
var (
	investorWeights  = [4]float64{0.3, 0.1, 0.3, 0.3}
	policyWeights    = [4]float64{0.2, 0.4, 0.2, 0.2}
	strategicWeights = [4]float64{0.25, 0.25, 0.25, 0.25}
)

// Disclosure component caps, in rubric order: investment, timeline, metrics,
// technical, rationale.
var disclosureCaps = [5]int{30, 20, 25, 15, 10}

// dimensionNames index-aligns with the weight vectors.
var dimensionNames = [4]string{
	"CustomerExperience",
	"PeopleEmpowerment",
	"OperationalEfficiency",
	"NewBusinessModels",
}

// SectorLookup resolves a company name to a canonical sector. Returns false
// when the company is not in the catalog.
type SectorLookup func(companyName string) (string, bool)

// Normalize validates one extracted company and returns its persisted form
// plus human-readable warnings for every correction applied. Initiatives with
// no dimension scores at all are dropped; everything else is corrected in
// place and kept.
func Normalize(c model.Company, lookup SectorLookup) (*model.CompanyRow, []string) {
	var warnings []string
	warn := func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}

	name := strings.TrimSpace(c.CompanyName.String())
	if name == "" {
		name = "Unknown"
		warn("company name missing, stored as Unknown")
	}

	sectorName := strings.TrimSpace(c.CompanySector.String())
	if sectorName == "" && lookup != nil {
		if s, ok := lookup(name); ok {
			sectorName = s
			warn("company sector missing, resolved %q from catalog", s)
		}
	}

	row := &model.CompanyRow{
		CompanyName:          name,
		CompanySector:        sectorName,
		YearMentioned:        c.YearMentioned.String(),
		ReportType:           c.ReportType.String(),
		TechnologyUsed:       listText(c.TechnologyUsed),
		Department:           listText(c.Department),
		DigitalInvestment:    c.DigitalInvestment.String(),
		DigitalMaturityLevel: c.DigitalMaturityLevel.String(),
		PLCTDimensions:       c.PLCTDimensions.StorageText(),
		StrategicPriority:    c.StrategicPriority.String(),
	}

	for i, init := range c.Initiatives {
		ir, ok := normalizeInitiative(init, i, warn)
		if !ok {
			continue
		}
		row.Initiatives = append(row.Initiatives, *ir)
	}

	if len(warnings) > 0 {
		zap.L().Warn("scorer: corrections applied",
			zap.String("company", name),
			zap.Strings("warnings", warnings),
		)
	}
	return row, warnings
}

func normalizeInitiative(init model.Initiative, idx int, warn func(string, ...any)) (*model.InitiativeRow, bool) {
	s := init.PLCTScoring

	dims := [4]model.FlexFloat{
		s.CustomerExperienceScore,
		s.PeopleEmpowermentScore,
		s.OperationalEfficiencyScore,
		s.NewBusinessModelsScore,
	}

	var scores [4]int
	missing := 0
	flagged := false
	for i, d := range dims {
		v, present := dimensionScore(d)
		if !present {
			missing++
			flagged = true
			warn("initiative %d: %s score missing, scored 0 and flagged", idx, dimensionNames[i])
		}
		scores[i] = v
	}
	if missing == 4 {
		warn("initiative %d: no dimension scores, dropped", idx)
		return nil, false
	}

	total := scores[0] + scores[1] + scores[2] + scores[3]
	if s.TotalPLCTScore.Valid && int(s.TotalPLCTScore.Val) != total {
		warn("initiative %d: total %v inconsistent with dimension sum %d, recomputed",
			idx, s.TotalPLCTScore.Val, total)
	}

	dominant := strings.TrimSpace(s.DominantDimension.String())
	if dominant == "" {
		dominant = dominantOf(scores)
	} else if !isDominant(dominant, scores) {
		warn("initiative %d: dominant dimension %q disagrees with score argmax %s",
			idx, dominant, dominantOf(scores))
	}

	investor := weightedScore(init.StakeholderWeightedScores.InvestorWeighted, scores, investorWeights, "investor", idx, warn)
	policy := weightedScore(init.StakeholderWeightedScores.PolicyWeighted, scores, policyWeights, "policy", idx, warn)
	strategic := weightedScore(init.StakeholderWeightedScores.StrategicWeighted, scores, strategicWeights, "strategic", idx, warn)

	d := init.DisclosureQualityScore
	components := [5]int{
		disclosureComponent(d.InvestmentDisclosure, disclosureCaps[0]),
		disclosureComponent(d.TimelineDisclosure, disclosureCaps[1]),
		disclosureComponent(d.MetricsAndKpis, disclosureCaps[2]),
		disclosureComponent(d.TechnicalDetail, disclosureCaps[3]),
		disclosureComponent(d.BusinessRationale, disclosureCaps[4]),
	}
	disclosureTotal := components[0] + components[1] + components[2] + components[3] + components[4]
	if d.TotalScore.Valid && int(d.TotalScore.Val) != disclosureTotal {
		warn("initiative %d: disclosure total %v inconsistent with component sum %d, recomputed",
			idx, d.TotalScore.Val, disclosureTotal)
	}
	tier := tierFor(disclosureTotal)

	conf := init.ConfidenceLevel
	level := canonicalConfidence(conf.Level.String())
	if level == "" {
		level = inferConfidence(disclosureTotal)
		if strings.TrimSpace(conf.Level.String()) != "" {
			warn("initiative %d: confidence level %q invalid, inferred %s from disclosure total",
				idx, conf.Level.String(), level)
		}
	}

	return &model.InitiativeRow{
		Category:               init.Category.String(),
		Initiative:             init.Initiative.String(),
		PLCTAlignment:          init.PLCTAlignment.String(),
		ExpectedImpact:         init.ExpectedImpact.String(),
		InvestmentAmount:       init.InvestmentAmount.String(),
		Timeline:               init.Timeline.StorageText(),
		SuccessMetrics:         init.SuccessMetrics.StorageText(),
		BusinessRationale:      init.BusinessRationale.String(),
		ImplementationApproach: init.ImplementationApproach.String(),
		WorkforceImpact:        init.WorkforceImpact.StorageText(),
		TechnologyPartners:     init.TechnologyPartners.String(),
		InnovationLevel:        init.InnovationLevel.String(),
		RiskFactors:            init.RiskFactors.StorageText(),
		CompetitiveAdvantage:   init.CompetitiveAdvantage.StorageText(),
		PolicyImplications:     init.PolicyImplications.StorageText(),
		GovernanceStructure:    init.GovernanceStructure.String(),
		DataStrategy:           init.DataStrategy.String(),
		SecurityConsiderations: init.SecurityConsiderations.String(),
		SustainabilityImpact:   init.SustainabilityImpact.String(),

		CustomerExperienceScore:        scores[0],
		CustomerExperienceRationale:    s.CustomerExperienceRationale.String(),
		PeopleEmpowermentScore:         scores[1],
		PeopleEmpowermentRationale:     s.PeopleEmpowermentRationale.String(),
		OperationalEfficiencyScore:     scores[2],
		OperationalEfficiencyRationale: s.OperationalEfficiencyRationale.String(),
		NewBusinessModelsScore:         scores[3],
		NewBusinessModelsRationale:     s.NewBusinessModelsRationale.String(),
		TotalScore:                     total,
		DominantDimension:              dominant,
		AdjustmentFactors:              s.AdjustmentFactors.StorageText(),

		InvestorWeightedScore:  investor,
		PolicyWeightedScore:    policy,
		StrategicWeightedScore: strategic,

		DisclosureInvestmentScore: components[0],
		DisclosureTimelineScore:   components[1],
		DisclosureMetricsScore:    components[2],
		DisclosureTechnicalScore:  components[3],
		DisclosureRationaleScore:  components[4],
		DisclosureTotalScore:      disclosureTotal,
		DisclosureTier:            tier,

		ConfidenceLevel:         level,
		ConfidenceJustification: conf.Justification.String(),
		FlaggedForVerification:  bool(conf.FlaggedForVerification) || flagged,
		VerificationNotes:       conf.VerificationNotes.String(),
	}, true
}

// dimensionScore clamps a dimension score to [0,100]. The second return is
// false when the upstream value is absent or unparseable.
func dimensionScore(f model.FlexFloat) (int, bool) {
	if !f.Valid {
		return 0, false
	}
	v := int(f.Val)
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	return v, true
}

// dominantOf returns the name of the highest-scoring dimension. Ties resolve
// to the earlier dimension in CX, PE, OE, BM order.
func dominantOf(scores [4]int) string {
	best := 0
	for i := 1; i < 4; i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	return dimensionNames[best]
}

// isDominant reports whether name is a dimension holding the maximum
// corrected score. On ties any of the tied dimensions counts as dominant.
func isDominant(name string, scores [4]int) bool {
	max := scores[0]
	for _, v := range scores[1:] {
		if v > max {
			max = v
		}
	}
	for i, n := range dimensionNames {
		if n == name {
			return scores[i] == max
		}
	}
	return false
}

// weightedScore prefers the upstream numeric value (FlexFloat already
// recovers the leading token of formula strings); when that is unusable, the
// score is computed from the fixed weight vector.
func weightedScore(f model.FlexFloat, scores [4]int, weights [4]float64, stakeholder string, idx int, warn func(string, ...any)) float64 {
	if f.Valid {
		return f.Val
	}
	var sum float64
	for i := range scores {
		sum += float64(scores[i]) * weights[i]
	}
	if f.Raw != "" {
		warn("initiative %d: %s weighted score %q unparseable, computed %.2f from formula",
			idx, stakeholder, f.Raw, sum)
	}
	return sum
}

// disclosureComponent clamps a rubric component to [0, max]. Absent values
// score 0.
func disclosureComponent(f model.FlexFloat, max int) int {
	if !f.Valid {
		return 0
	}
	v := int(f.Val)
	if v < 0 {
		v = 0
	}
	if v > max {
		v = max
	}
	return v
}

// tierFor maps a disclosure total to its rubric tier.
func tierFor(total int) string {
	switch {
	case total >= 80:
		return "Comprehensive"
	case total >= 60:
		return "Good"
	case total >= 40:
		return "Moderate"
	default:
		return "Limited"
	}
}

// canonicalConfidence normalizes the confidence level to High/Medium/Low, or
// "" when the upstream value is not one of the three.
func canonicalConfidence(level string) string {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "high":
		return "High"
	case "medium":
		return "Medium"
	case "low":
		return "Low"
	default:
		return ""
	}
}

// inferConfidence derives a confidence level from the corrected disclosure
// total, mirroring the thresholds in the assessment rubric.
func inferConfidence(disclosureTotal int) string {
	switch {
	case disclosureTotal > 75:
		return "High"
	case disclosureTotal >= 50:
		return "Medium"
	default:
		return "Low"
	}
}

// listText encodes a list attribute for storage. Empty lists store SQL NULL.
func listText(l model.FlexStringList) *string {
	if len(l) == 0 {
		return nil
	}
	return model.JSONTextOf([]string(l)).StorageText()
}
