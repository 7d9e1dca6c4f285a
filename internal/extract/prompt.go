package extract

import "strings"

// maxDocumentChars caps the report text included in a prompt. Annual reports
// routinely exceed the model context; the front of the document carries the
// strategy and technology sections the extraction cares about.
const maxDocumentChars = 80000

// systemText steers the model toward bare-JSON output.
const systemText = "You are a digital economy research analyst extracting data for investor, policy, corporate strategy, and academic analysis. Respond with ONLY a valid JSON array - no explanations, no markdown, no extra text."

const promptIntro = `Analyze the following complete company report and extract ALL digital transformation initiatives with comprehensive metadata for multi-stakeholder analysis using the PLCT Framework.

Source File: `

const promptFramework = `

PLCT FRAMEWORK OVERVIEW
======================
PLCT stands for the four foundational transformation dimensions:
1. Customer Experience (CX): Digital initiatives improving customer interactions, omnichannel platforms, personalization engines, customer analytics, customer service automation.
2. People Empowerment (PE): Workforce development, digital skills training, learning platforms, collaboration tools, HR digitalization, remote work enablement.
3. Operational Efficiency (OE): Process optimization, automation, predictive maintenance, supply chain digitalization, ERP modernization, data analytics for operations.
4. New Business Models (BM): Platform ecosystems, subscription/recurring revenue, data monetization, digital products/services, ecosystem partnerships.

EXTRACTION REQUIREMENTS:
- Company Name, Industry Sector, Year, Report Type
- ALL digital initiatives, AI projects, automation, digitization efforts, technology investments
- Investment amounts, timelines, success metrics where mentioned
- Strategic rationale and business context
- Implementation approaches and methodologies
- Skills/workforce impact and policy implications
- PLCT Framework scoring and analysis (dimension scores, PLCT total, dominant dimension)
- Disclosure quality assessment and confidence levels
- Respond with ONLY valid JSON - no explanations, no markdown, no extra text
- Your response must start with [ and end with ]

REQUIRED JSON FORMAT:
[
  {
    "CompanyName": "Exact company name from report",
    "CompanySector": "Primary industry sector - Technology, Manufacturing, Financial Services, Healthcare, Retail, Energy, Telecommunications, Construction, Transportation, Real Estate, Agriculture, Business Services, etc.",
    "YearMentioned": "2023",
    "ReportType": "Annual Report",
    "TechnologyUsed": ["AI", "Machine Learning", "Cloud Computing"],
    "Department": ["IT", "Operations", "Finance"],
    "DigitalInvestment": "$X million or percentage or description",
    "DigitalMaturityLevel": "Basic/Developing/Advanced/Leading",
    "PLCTDimensions": {
      "CustomerExperience": "Company-level CX focus: omnichannel platforms, customer analytics, digital touchpoints mentioned",
      "PeopleEmpowerment": "Company-level PE focus: workforce transformation, digital skills programs, culture change mentioned",
      "OperationalEfficiency": "Company-level OE focus: automation, process optimization, supply chain digital transformation",
      "NewBusinessModels": "Company-level BM focus: platform strategies, new revenue models, ecosystem partnerships"
    },
    "StrategicPriority": "High/Medium/Low",
    "Initiatives": [
      {
        "Category": "Process Automation",
        "Initiative": "Specific initiative description",
        "PLCTAlignment": "Primary PLCT dimension(s) - CustomerExperience, PeopleEmpowerment, OperationalEfficiency, NewBusinessModels, or combination like 'OperationalEfficiency + CustomerExperience'",
        "ExpectedImpact": "Expected outcome or benefit - NEVER leave empty, always infer from context",
        "InvestmentAmount": "Specific amount if mentioned, otherwise estimate scale: Minor/Moderate/Major/Strategic with estimated range",
        "Timeline": {
          "start": "2024 Q1 or estimated year",
          "duration": "18 months or estimated duration",
          "end": "2025 Q2 or estimated",
          "phases": ["Planning: Q1 2024", "Implementation: Q2-Q4 2024"]
        },
        "SuccessMetrics": {
          "baseline": "current state or estimated baseline",
          "target": "specific improvement target or estimated improvement",
          "measurement": "how success will be measured or estimated measurement approach",
          "kpis": ["specific KPIs mentioned or estimated relevant KPIs"]
        },
        "BusinessRationale": "Strategic reasoning and business case - NEVER empty, infer from strategic context",
        "ImplementationApproach": "How they plan to execute - extract or infer: phased rollout, pilot-then-scale, agile, waterfall, etc.",
        "WorkforceImpact": {
          "skillsDevelopment": "specific skills or infer from technology: digital skills, technical training, etc.",
          "trainingHours": "quantified commitment or estimate: 20-40 hours for basic, 40-80 for advanced",
          "jobsAffected": "number of roles or estimate scope: department-wide, company-wide, specific teams",
          "upskilling": "programs mentioned or infer: reskilling program, continuous learning, certification",
          "redundancyRisk": "potential displacement or estimate: minimal, moderate automation, transformation"
        },
        "TechnologyPartners": "Vendors, consultants, or technology partners mentioned",
        "InnovationLevel": "Incremental/Moderate/Transformational",
        "RiskFactors": {
          "technicalRisks": "technology-related challenges",
          "financialRisks": "budget or ROI concerns",
          "changeManagementRisks": "people and culture challenges",
          "mitigationStrategies": "how risks are being addressed"
        },
        "CompetitiveAdvantage": {
          "description": "how this creates differentiation",
          "quantifiedBenefit": "measurable advantage gained",
          "marketPosition": "impact on competitive position"
        },
        "PolicyImplications": {
          "regulatoryRequirements": "compliance needs",
          "infrastructureNeeds": "government infrastructure required",
          "skillsPolicy": "implications for national skills development",
          "economicImpact": "broader economic implications"
        },
        "GovernanceStructure": "oversight and governance approach mentioned",
        "DataStrategy": "data management and analytics approach",
        "SecurityConsiderations": "cybersecurity and data protection measures",
        "SustainabilityImpact": "environmental or ESG implications",

        "PLCTScoring": {
          "CustomerExperienceScore": 45,
          "CustomerExperienceRationale": "Detailed rationale citing specific scoring rubric criteria and the band the score falls in",
          "PeopleEmpowermentScore": 35,
          "PeopleEmpowermentRationale": "Detailed rationale citing specific scoring rubric criteria and the band the score falls in",
          "OperationalEfficiencyScore": 70,
          "OperationalEfficiencyRationale": "Detailed rationale citing specific scoring rubric criteria and the band the score falls in",
          "NewBusinessModelsScore": 15,
          "NewBusinessModelsRationale": "Detailed rationale citing specific scoring rubric criteria and the band the score falls in",
          "TotalPLCTScore": 165,
          "DominantDimension": "OperationalEfficiency",
          "AdjustmentFactors": {
            "evidenceQuality": "Evidence-based adjustments applied with point values",
            "sectorContext": "Sector expectations and how the initiative compares",
            "adjustmentApplied": "Net adjustment and the final dimension score it produced"
          }
        },

        "StakeholderWeightedScores": {
          "InvestorWeighted": 51.5,
          "InvestorWeightedFormula": "(CX x 0.3) + (PE x 0.1) + (OE x 0.3) + (BM x 0.3) with the actual arithmetic shown",
          "PolicyWeighted": 38.0,
          "PolicyWeightedFormula": "(CX x 0.2) + (PE x 0.4) + (OE x 0.2) + (BM x 0.2) with the actual arithmetic shown",
          "StrategicWeighted": 41.25,
          "StrategicWeightedFormula": "(CX x 0.25) + (PE x 0.25) + (OE x 0.25) + (BM x 0.25) with the actual arithmetic shown"
        },

        "DisclosureQualityScore": {
          "investmentDisclosure": 10,
          "investmentDisclosureExplanation": "Which rubric line the component score matches",
          "timelineDisclosure": 15,
          "timelineDisclosureExplanation": "Which rubric line the component score matches",
          "metricsAndKpis": 15,
          "metricsAndKpisExplanation": "Which rubric line the component score matches",
          "technicalDetail": 10,
          "technicalDetailExplanation": "Which rubric line the component score matches",
          "businessRationale": 10,
          "businessRationaleExplanation": "Which rubric line the component score matches",
          "totalScore": 60,
          "totalScoreCalculation": "Sum of the five components",
          "qualityTier": "Good (60-79) - Suitable for benchmarking and trend analysis"
        },

        "ConfidenceLevel": {
          "level": "Medium",
          "justification": "Why the extraction merits this confidence level per the assessment criteria",
          "flaggedForVerification": true,
          "verificationNotes": "Specific items an analyst should verify independently"
        }
      }
    ]
  }
]

COMPANY-LEVEL FIELD EXTRACTION GUIDELINES
==========================================

TECHNOLOGY USED:
- Extract ALL technology categories mentioned across ALL initiatives in the report
- Look for: AI, Machine Learning, Cloud Computing, Blockchain, IoT, RPA, Big Data, Analytics, ERP Systems, CRM, Mobile Apps, E-commerce Platforms, Cybersecurity, Digital Payments, etc.
- Consolidate technologies from all initiatives into a single comprehensive list at company level
- Include both explicitly named technologies AND technology categories mentioned
- NEVER leave empty - if no specific technologies mentioned, infer from initiative descriptions: ["Digital Technologies", "Information Systems", "Automation Tools"]

DEPARTMENT:
- Extract ALL departments mentioned as being involved in digital initiatives across the entire report
- Look for: IT, Operations, Finance, HR, Marketing, Sales, Customer Service, Supply Chain, Manufacturing, R&D, Strategy, Risk Management, Compliance, etc.
- Consolidate departments from all initiatives into a single comprehensive list at company level
- NEVER leave empty - if no departments mentioned, infer from initiative context: ["Operations"] for automation, ["IT"] for technology projects, ["Multiple Departments"] for transformation

PLCT DIMENSIONS (Company Level):
- Provide a company-wide summary of PLCT focus based on ALL initiatives in the report
- For each dimension, write 1-2 sentences describing the company's overall strategy and focus
- If a dimension has NO initiatives, state: "No company-level [dimension] focus mentioned in this report"
- ALWAYS provide content for all 4 dimensions - never leave empty

PLCT DIMENSION SCORING RUBRIC (0-100 Scale)
============================================

CUSTOMER EXPERIENCE (CX) - Key Indicators:
- Omnichannel platforms (mobile apps, web portals, self-service)
- Personalization engines (recommendation systems, tailored offers)
- Customer analytics (journey mapping, sentiment analysis, behavioral insights)
- Digital marketing and engagement (social media, content platforms)
- Customer service automation (chatbots, AI assistants, ticketing systems)

Scoring Scale:
81-100 (Transformational): Multi-channel integration, personalization at scale, measurable customer metrics, enterprise-wide CX transformation, industry-leading capabilities
61-80 (High): Significant multi-channel improvements, clear personalization strategy, integrated systems, quantified customer satisfaction targets
41-60 (Moderate): Clear but incremental impact, multi-function efforts, some quantified objectives, medium investment
21-40 (Low): Single-channel improvements, basic analytics, limited personalization, minor impact, no quantified metrics
0-20 (Minimal): Backend only, no customer impact, generic description, infrastructure only

PEOPLE EMPOWERMENT (PE) - Key Indicators:
- Digital skills training (coding, data analytics, digital literacy programs)
- Learning platforms (LMS, e-learning, certification programs)
- Collaboration tools (Microsoft Teams, Slack, digital workplaces)
- HR digitalization (talent management, performance tracking, recruitment)
- Remote work enablement (VPN, cloud access, virtual meeting tools)

Scoring Scale:
81-100 (Transformational): Comprehensive training programs, measurable skills development, culture change initiatives, 500+ employees trained, certification pathways, 40-80+ training hours
61-80 (High): Significant training programs, clear upskilling strategy, multi-level capability building, quantified employee targets
41-60 (Moderate): Clear workforce impact, limited training scope, basic collaboration tools, some upskilling mentioned
21-40 (Low): Minimal training programs, technology deployment only, indirect workforce impact, no training mentioned
0-20 (Minimal): Technology only, no training or development, generic HR mentions

OPERATIONAL EFFICIENCY (OE) - Key Indicators:
- Process automation (RPA, workflow automation, document processing)
- Predictive maintenance (IoT sensors, ML models, asset optimization)
- Supply chain digitalization (tracking, optimization, supplier integration)
- ERP/Core system modernization (cloud ERP, integrated systems)
- Data analytics for operations (dashboards, performance monitoring, optimization)

Scoring Scale:
81-100 (Transformational): End-to-end automation, measurable efficiency gains (30%+ improvements), cross-functional integration, enterprise-wide impact, 40%+ cost reduction
61-80 (High): Significant automation, clear efficiency targets, integrated systems, quantified benefits (20-30% improvements)
41-60 (Moderate): Clear but incremental impact, point solutions, some automation, limited integration, 10-20% improvements
21-40 (Low): Minimal efficiency impact, isolated improvements, no quantified benefits, pilot projects
0-20 (Minimal): Isolated efforts, no clear efficiency gains, backend only, generic efficiency mentions

NEW BUSINESS MODELS (BM) - Key Indicators:
- Platform business models (marketplaces, ecosystems, API monetization)
- Subscription/recurring revenue models (SaaS, membership programs)
- Data monetization (analytics services, insights products)
- Digital products/services (complementary to physical offerings)
- Ecosystem partnerships (co-creation, revenue sharing, network effects)

Scoring Scale:
81-100 (Transformational): New revenue streams, platform economics, ecosystem participation (100+ partners), transformational business model change, RM 50M+ annual revenue potential
61-80 (High): Clear new business models, revenue generation planned, platform strategy, moderate ecosystem development
41-60 (Moderate): Incremental revenue opportunities, digital extensions, limited transformation, pilot monetization efforts
21-40 (Low): Minor new revenue potential, operational improvements only, no clear business model change
0-20 (Minimal): No new business model, traditional improvements, no revenue impact

SECTOR-SPECIFIC ADJUSTMENTS:
Banking/Financial Services: High CX expected (digital banking), moderate OE (core banking), lower BM (regulatory)
Manufacturing: High OE expected (automation, IoT), moderate PE (skills), lower CX (B2B)
Retail: High CX expected (e-commerce), moderate OE (supply chain), moderate BM (platforms)
Technology: High across all dimensions (digital-native)
Healthcare: High CX (patient experience), high PE (staff training), moderate OE, lower BM
Energy/Utilities: High OE (grid optimization, predictive maintenance), moderate PE, lower CX

EVIDENCE-BASED SCORE ADJUSTMENTS:
Increase score if present (+5-10 points per factor):
- Specific investment amount (shows commitment)
- Quantified KPIs/metrics (shows measurability)
- Timeline with milestones (shows planning rigor)
- Technology partners named (shows execution readiness)
- Expected ROI or impact quantified (shows business case)
- Risk mitigation strategies (shows sophistication)

Decrease score if absent (-5-10 points per factor):
- Vague language ("exploring", "considering", "planning to")
- No quantified outcomes
- No investment amount disclosed
- No timeline or milestones
- Generic technology descriptions
- No risk mitigation mentioned

DISCLOSURE QUALITY SCORING
===========================
Investment Disclosure (30 points):
30: Specific amount in specific currency (RM 15M, $5M, etc.)
20: Range provided (RM 5-10 million)
10: Scale only (major investment, significant capex)
0: No investment information

Timeline Disclosure (20 points):
20: Start date, duration, AND milestones
15: Start date AND duration
10: Year or general timeframe
0: No timeline

Metrics & KPIs (25 points):
25: Quantified success metrics with specific targets
15: Qualitative success indicators described
5: Generic benefits mentioned
0: No success metrics

Technical Detail (15 points):
15: Specific technologies AND vendors named
10: Technology category mentioned
5: Generic "digital" or "technology" reference
0: No technical detail

Business Rationale (10 points):
10: Clear strategic rationale WITH competitive context
5: Generic rationale mentioned
0: No rationale provided

Quality Tiers:
80-100: Comprehensive (suitable for detailed analysis, investment research)
60-79: Good (ideal for benchmarking, trend analysis)
40-59: Moderate (suitable only for high-level insights)
0-39: Limited (insufficient for analysis)

CONFIDENCE LEVEL ASSESSMENT
============================
High Confidence:
- Specific quantified data extracted
- Clear initiative description
- Detailed disclosure (quality score >75)
- Cross-validated from multiple report sections
- No ambiguity in interpretation

Medium Confidence:
- Some quantified data
- Adequate description
- Moderate disclosure (quality score 50-75)
- Single source in report
- Minor interpretation required

Low Confidence:
- Minimal quantified data
- Vague description
- Limited disclosure (quality score <50)
- Interpretation heavily required
- Conflicting information in report

SECTOR IDENTIFICATION GUIDELINES:
- Extract from business description, nature of operations, or industry classification
- Choose the PRIMARY sector based on revenue

EXTRACTION GUIDELINES:
INVESTMENT AMOUNT EXTRACTION:
- Priority 1: Extract EXACT amounts mentioned in text (e.g., "RM 5 million", "$2M", "15% of revenue")
- Priority 2: Extract ranges if mentioned: "between $1-5M" becomes "RM 1-5 million estimated"
- Priority 3: Extract contextual indicators and estimate scale:
   "pilot", "trial" - "Minor investment (estimated < RM 500K)"
   "significant investment" - "Moderate (estimated RM 500K - 5M)"
   "major capital expenditure" - "Major (estimated RM 5M - 20M)"
   "strategic transformation" - "Strategic (estimated > RM 20M)"
- Priority 4: If NO direct financial clues, estimate from initiative scope
- NEVER use "Not specified" - always provide an estimated scale with qualifier

TIMELINE - STRUCTURED FORMAT:
- If explicit dates exist, populate start, duration, end, and phases
- If partial information, populate what is known plus a status field
- If no timeline mentioned, estimate based on complexity: pilot (6-12 months), implementation (12-24 months), transformation (24-36 months), using the report year as the likely start

SUCCESS METRICS - ALWAYS PROVIDE:
- If quantified targets exist, populate baseline, target, measurement, and kpis
- If qualitative only, describe the expected improvement with industry-benchmark ranges
- Based on initiative type, always include estimated impact

WORKFORCE IMPACT - ALWAYS ESTIMATE:
- Extract any mention of training, skills, hiring, restructuring
- If not mentioned, infer from the initiative type and scale

CRITICAL EXTRACTION RULES - MANDATORY:
- Extract ONLY initiatives explicitly mentioned in the text
- Include ALL digital initiatives, regardless of size
- ALWAYS provide meaningful values - avoid "Not mentioned" or "Not specified" whenever possible
- MANDATORY - Score EACH initiative across ALL FOUR PLCT dimensions independently (0-100 scale each)
- MANDATORY - For EACH dimension score, provide detailed rationale citing specific scoring rubric criteria
- MANDATORY - Calculate total PLCT score (sum of 4 dimensions, 0-400 scale) and identify dominant dimension
- MANDATORY - Apply adjustment factors (+/- 5-10 points) based on evidence quality and sector context
- MANDATORY - Calculate ALL THREE stakeholder-weighted scores with actual numeric results:
    InvestorWeighted = (CX x 0.3) + (PE x 0.1) + (OE x 0.3) + (BM x 0.3) - MUST be a numeric value
    PolicyWeighted = (CX x 0.2) + (PE x 0.4) + (OE x 0.2) + (BM x 0.2) - MUST be a numeric value
    StrategicWeighted = (CX x 0.25) + (PE x 0.25) + (OE x 0.25) + (BM x 0.25) - MUST be a numeric value
- MANDATORY - Assess disclosure quality using the rubric with numeric scores for each component
- MANDATORY - Assign confidence level (High/Medium/Low) with detailed justification
- MANDATORY - Include all PLCTScoring, StakeholderWeightedScores, DisclosureQualityScore, and ConfidenceLevel objects
- NO NULL VALUES - Every field in these objects must have an actual value, not null
- Use contextual clues from the entire report: budget discussions, strategic priorities, operational metrics, industry benchmarks
- Provide specific, detailed responses even when inferring
- Use qualifiers when estimating: "estimated", "projected", "likely", "approximately"
- DO NOT fabricate: specific dollar amounts, exact dates, actual partner names, precise percentages
- DO estimate: ranges, scales, durations, qualitative impacts, strategic alignment

Full Report Text:
`

// BuildPrompt assembles the extraction prompt for one report. The document
// text is truncated to maxDocumentChars; everything before it is fixed
// instruction text so prompts are byte-identical across runs of the same
// input.
func BuildPrompt(text, filename string) string {
	if len(text) > maxDocumentChars {
		text = text[:maxDocumentChars]
	}

	var b strings.Builder
	b.Grow(len(promptIntro) + len(filename) + len(promptFramework) + len(text))
	b.WriteString(promptIntro)
	b.WriteString(filename)
	b.WriteString(promptFramework)
	b.WriteString(text)
	return b.String()
}
