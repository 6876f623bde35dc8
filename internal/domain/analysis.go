// internal/domain/analysis.go
package domain

import "github.com/shopspring/decimal"

// Category is one of the six fixed budget buckets.
type Category string

const (
	EmergencyFund  Category = "Emergency Fund"
	SavingsBucket  Category = "Savings"
	Investments    Category = "Investments"
	DebtPayment    Category = "Debt Payment"
	LivingExpenses Category = "Living Expenses"
	Insurance      Category = "Insurance"
)

// AllocationResult maps each category to a fraction of income; fractions sum to 1.
type AllocationResult struct {
	Allocations map[Category]float64 `json:"allocations"`
}

// PlannedAmount is a category share converted to a monthly amount.
type PlannedAmount struct {
	Category Category        `json:"category"`
	Fraction float64         `json:"fraction"`
	Monthly  decimal.Decimal `json:"monthly"`
}

type ClusterAnalysis struct {
	ClusterID       int      `json:"cluster_id"`
	ProfileName     string   `json:"profile_name"`
	Characteristics []string `json:"characteristics"`
	Advice          string   `json:"advice"`
	SimilarityScore float64  `json:"similarity_score"`
}

type DebtAnalysis struct {
	RiskScore       float64         `json:"risk_score"`
	RiskCategory    string          `json:"risk_category"`
	DebtCapacity    float64         `json:"debt_capacity"`
	RecommendedEMI  float64         `json:"recommended_emi"`
	FinancialHealth string          `json:"financial_health"`
	Recommendations []string        `json:"recommendations"`
	ClusterAnalysis ClusterAnalysis `json:"cluster_analysis"`
	ConfidenceScore float64         `json:"confidence_score"`
}

type PortfolioLine struct {
	Instrument string `json:"instrument"`
	Percentage int    `json:"percentage"`
	Rationale  string `json:"rationale"`
}

type PortfolioRecommendation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Allocation  int    `json:"allocation"`
}

type InvestmentAnalysis struct {
	InvestorCluster            int                       `json:"investor_cluster"`
	PortfolioType              string                    `json:"portfolio_type"`
	Confidence                 float64                   `json:"confidence"`
	RiskProfileDescription     string                    `json:"risk_profile_description"`
	InvestmentStyleDescription string                    `json:"investment_style_description"`
	TimeHorizonAnalysis        string                    `json:"time_horizon_analysis"`
	Recommendations            []PortfolioRecommendation `json:"recommendations"`
	PortfolioAllocation        []PortfolioLine           `json:"portfolio_allocation"`
}

type GoalPriority struct {
	Score           float64  `json:"score"`
	NormalizedScore float64  `json:"normalizedScore"`
	Goals           []string `json:"goals"`
}

type GoalRecommendation struct {
	Type       string  `json:"type"`
	Category   string  `json:"category"`
	Title      string  `json:"title"`
	Message    string  `json:"message"`
	Action     string  `json:"action"`
	Priority   string  `json:"priority"`
	Confidence float64 `json:"confidence"`
}

type GoalAnalysis struct {
	Goals                map[string][]string     `json:"goals"`
	Priorities           map[string]GoalPriority `json:"priorities"`
	TimelineAnalysis     map[string][]string     `json:"timelineAnalysis"`
	FeasibilityScores    map[string]float64      `json:"feasibilityScores"`
	Recommendations      []GoalRecommendation    `json:"recommendations"`
	InvestmentAllocation map[string]int          `json:"investmentAllocation"`
	ConfidenceScore      float64                 `json:"confidenceScore"`
}

// Analysis is the scored outcome of a submission. Exactly the fields relevant
// to the questionnaire are set.
type Analysis struct {
	Allocation *AllocationResult   `json:"allocation,omitempty"`
	Plan       []PlannedAmount     `json:"plan,omitempty"`
	Debt       *DebtAnalysis       `json:"debt,omitempty"`
	Investment *InvestmentAnalysis `json:"investment,omitempty"`
	Goals      *GoalAnalysis       `json:"goals,omitempty"`
	// Notice is set when the scoring service failed and local rules were used.
	Notice string `json:"notice,omitempty"`
}

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// Insight is one card on the results view.
type Insight struct {
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	Severity Severity `json:"severity"`
	Priority int      `json:"priority"`
}
