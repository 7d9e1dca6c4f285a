// Package export writes the scored extraction results to an XLSX workbook
// for analysts who work outside the database.
package export

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dxpulse/plct-cli/internal/model"
	"github.com/dxpulse/plct-cli/internal/store"
)

var companyHeader = []string{
	"Company", "Sector", "Year", "Report Type", "Technology Used",
	"Department", "Digital Investment", "Digital Maturity", "Strategic Priority",
}

var initiativeHeader = []string{
	"Company", "Category", "Initiative",
	"Customer Experience", "People Empowerment", "Operational Efficiency", "New Business Models",
	"Total Score", "Dominant Dimension",
	"Investor Weighted", "Policy Weighted", "Strategic Weighted",
	"Disclosure Total", "Disclosure Tier",
	"Confidence", "Flagged",
	"Timeline Start", "Timeline Duration",
	"Success Target", "KPIs", "Jobs Affected",
	"Investment Amount", "Source File",
}

// Exporter renders store contents into a two-sheet workbook: one row per
// company, one row per initiative.
type Exporter struct {
	store store.Store
}

// New creates an Exporter.
func New(st store.Store) *Exporter {
	return &Exporter{store: st}
}

// WriteWorkbook writes all companies and their initiatives to path.
func (e *Exporter) WriteWorkbook(ctx context.Context, path string) error {
	companies, err := e.store.ListCompanies(ctx)
	if err != nil {
		return eris.Wrap(err, "export: list companies")
	}

	file := xlsx.NewFile()

	companySheet, err := file.AddSheet("Companies")
	if err != nil {
		return eris.Wrap(err, "export: add companies sheet")
	}
	initiativeSheet, err := file.AddSheet("Initiatives")
	if err != nil {
		return eris.Wrap(err, "export: add initiatives sheet")
	}

	writeHeader(companySheet, companyHeader)
	writeHeader(initiativeSheet, initiativeHeader)

	var initiativeCount int
	for _, c := range companies {
		writeCompanyRow(companySheet, c)

		initiatives, err := e.store.ListInitiatives(ctx, c.ID)
		if err != nil {
			return eris.Wrapf(err, "export: list initiatives for %s", c.CompanyName)
		}
		for _, ir := range initiatives {
			writeInitiativeRow(initiativeSheet, c, ir)
		}
		initiativeCount += len(initiatives)
	}

	if err := file.Save(path); err != nil {
		return eris.Wrapf(err, "export: save workbook %s", path)
	}

	zap.L().Info("export: workbook written",
		zap.String("path", path),
		zap.Int("companies", len(companies)),
		zap.Int("initiatives", initiativeCount),
	)

	return nil
}

func writeHeader(sheet *xlsx.Sheet, header []string) {
	row := sheet.AddRow()
	for _, h := range header {
		row.AddCell().SetString(h)
	}
}

func writeCompanyRow(sheet *xlsx.Sheet, c model.CompanyRow) {
	row := sheet.AddRow()
	row.AddCell().SetString(c.CompanyName)
	row.AddCell().SetString(DisplaySector(c.CompanySector))
	row.AddCell().SetString(c.YearMentioned)
	row.AddCell().SetString(c.ReportType)
	row.AddCell().SetString(listCell(c.TechnologyUsed))
	row.AddCell().SetString(listCell(c.Department))
	row.AddCell().SetString(c.DigitalInvestment)
	row.AddCell().SetString(c.DigitalMaturityLevel)
	row.AddCell().SetString(c.StrategicPriority)
}

func writeInitiativeRow(sheet *xlsx.Sheet, c model.CompanyRow, ir model.InitiativeRow) {
	timeline := model.ParseTimeline(model.ParseJSONText(ir.Timeline))
	metrics := model.ParseSuccessMetrics(model.ParseJSONText(ir.SuccessMetrics))
	workforce := model.ParseWorkforceImpact(model.ParseJSONText(ir.WorkforceImpact))

	row := sheet.AddRow()
	row.AddCell().SetString(c.CompanyName)
	row.AddCell().SetString(ir.Category)
	row.AddCell().SetString(ir.Initiative)
	row.AddCell().SetInt(ir.CustomerExperienceScore)
	row.AddCell().SetInt(ir.PeopleEmpowermentScore)
	row.AddCell().SetInt(ir.OperationalEfficiencyScore)
	row.AddCell().SetInt(ir.NewBusinessModelsScore)
	row.AddCell().SetInt(ir.TotalScore)
	row.AddCell().SetString(DisplayDimension(ir.DominantDimension))
	row.AddCell().SetFloatWithFormat(ir.InvestorWeightedScore, "0.00")
	row.AddCell().SetFloatWithFormat(ir.PolicyWeightedScore, "0.00")
	row.AddCell().SetFloatWithFormat(ir.StrategicWeightedScore, "0.00")
	row.AddCell().SetInt(ir.DisclosureTotalScore)
	row.AddCell().SetString(ir.DisclosureTier)
	row.AddCell().SetString(ir.ConfidenceLevel)
	row.AddCell().SetBool(ir.FlaggedForVerification)
	row.AddCell().SetString(timeline.Start.String())
	row.AddCell().SetString(timeline.Duration.String())
	row.AddCell().SetString(metrics.Target.String())
	row.AddCell().SetString(strings.Join(metrics.KPIs, ", "))
	row.AddCell().SetString(workforce.JobsAffected.String())
	row.AddCell().SetString(ir.InvestmentAmount)
	row.AddCell().SetString(ir.SourceFile)
}

var titleCaser = cases.Title(language.English)

// DisplaySector renders a canonical upper-case sector name in title case.
func DisplaySector(sector string) string {
	if sector == "" {
		return ""
	}
	return titleCaser.String(strings.ToLower(sector))
}

var dimensionDisplay = map[string]string{
	"CustomerExperience":    "Customer Experience",
	"PeopleEmpowerment":     "People Empowerment",
	"OperationalEfficiency": "Operational Efficiency",
	"NewBusinessModels":     "New Business Models",
}

// DisplayDimension renders a dimension identifier with spaces. Unknown
// values pass through unchanged.
func DisplayDimension(dim string) string {
	if d, ok := dimensionDisplay[dim]; ok {
		return d
	}
	return dim
}

// listCell renders a JSON-encoded string list as a comma-separated cell.
// Values that are not a JSON list pass through as stored.
func listCell(raw *string) string {
	if raw == nil {
		return ""
	}
	var items []string
	if err := json.Unmarshal([]byte(*raw), &items); err != nil {
		return *raw
	}
	return strings.Join(items, ", ")
}

