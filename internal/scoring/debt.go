// internal/scoring/debt.go
package scoring

import (
	"math"

	"planora/internal/domain"
	"planora/internal/numeric"
)

const (
	RiskHigh   = "High Risk"
	RiskMedium = "Medium Risk"
	RiskLow    = "Low Risk"

	HealthGood    = "Good"
	HealthAverage = "Average"
	HealthPoor    = "Poor"
)

// Risk weights. They sum to 1 so the score stays in [0, 1].
const (
	weightEMI       = 0.40
	weightDebt      = 0.25
	weightSavings   = 0.20
	weightEmergency = 0.15
)

type cluster struct {
	name            string
	characteristics []string
	advice          string
	center          float64
}

var clusters = []cluster{
	{
		name:            "Conservative Savers",
		characteristics: []string{"Low debt", "High savings rate", "Risk-averse"},
		advice:          "Consider diversifying investments while maintaining financial discipline",
		center:          0.2,
	},
	{
		name:            "Balanced Borrowers",
		characteristics: []string{"Moderate debt", "Average savings", "Balanced approach"},
		advice:          "Focus on optimizing debt-to-income ratio and increasing savings",
		center:          0.55,
	},
	{
		name:            "High-Risk Borrowers",
		characteristics: []string{"High debt burden", "Low savings", "High EMI ratio"},
		advice:          "Urgent debt restructuring needed. Consider professional financial counseling",
		center:          0.85,
	},
}

type debtRatios struct {
	debt, emi, savings, coverMonths float64
}

func ratiosOf(p domain.DebtProfile) debtRatios {
	r := debtRatios{
		debt:    numeric.Ratio(p.DebtAmount, p.MonthlyIncome),
		emi:     numeric.Ratio(p.MonthlyEMI, p.MonthlyIncome),
		savings: numeric.Ratio(p.Savings, p.MonthlyIncome),
	}
	if p.Expenses == 0 {
		// Nothing to cover: any fund counts as full coverage.
		if p.EmergencyFund > 0 {
			r.coverMonths = 6
		}
	} else {
		r.coverMonths = p.EmergencyFund / p.Expenses
	}
	return r
}

// RiskScore is a weighted sum of the EMI burden, outstanding debt measured in
// months of income (saturating at two years), a savings shortfall against a
// 20% rate, and an emergency-fund shortfall against six months.
func RiskScore(p domain.DebtProfile) float64 {
	r := ratiosOf(p)
	score := weightEMI*numeric.Clamp01(r.emi/0.6) +
		weightDebt*numeric.Clamp01(r.debt/24) +
		weightSavings*(1-numeric.Clamp01(r.savings/0.2)) +
		weightEmergency*(1-numeric.Clamp01(r.coverMonths/6))
	return numeric.Clamp01(score)
}

func riskCategory(score float64) string {
	switch {
	case score > 0.7:
		return RiskHigh
	case score > 0.4:
		return RiskMedium
	default:
		return RiskLow
	}
}

func financialHealth(score float64) string {
	switch {
	case score <= 0.35:
		return HealthGood
	case score <= 0.65:
		return HealthAverage
	default:
		return HealthPoor
	}
}

// debtCapacity is how much more could be borrowed over five years if EMIs
// were allowed to reach 40% of income.
func debtCapacity(p domain.DebtProfile) float64 {
	return math.Max(0, 0.4*p.MonthlyIncome-p.MonthlyEMI) * 60
}

func debtRecommendations(score float64, r debtRatios, p domain.DebtProfile) []string {
	var recs []string
	if score > 0.7 {
		recs = append(recs, "High Risk Alert: Consider immediate debt consolidation or financial counseling")
	}
	if r.emi > 0.5 {
		recs = append(recs, "Your EMI burden is very high. Consider refinancing loans for lower rates")
	}
	if r.emi > 0.4 {
		recs = append(recs, "EMI to income ratio is concerning. Focus on debt reduction strategies")
	}
	if r.debt > 0.8 {
		recs = append(recs, "High debt-to-income ratio. Prioritize debt repayment over new investments")
	}
	if p.Savings < p.MonthlyIncome*0.1 {
		recs = append(recs, "Build an emergency fund of at least 3-6 months of expenses")
	}
	if p.DebtAmount > 0 && p.Savings > p.DebtAmount*0.1 {
		recs = append(recs, "Consider using part of savings for debt prepayment to save on interest")
	}
	if len(recs) == 0 {
		recs = append(recs, "Your debt levels appear manageable. Continue monitoring and avoid taking on additional debt")
	}
	return recs
}

func clusterFor(score float64) domain.ClusterAnalysis {
	id := 1
	switch {
	case score < 0.4:
		id = 0
	case score > 0.7:
		id = 2
	}
	c := clusters[id]
	similarity := 0.95 - 0.5*math.Abs(score-c.center)
	return domain.ClusterAnalysis{
		ClusterID:       id,
		ProfileName:     c.name,
		Characteristics: append([]string(nil), c.characteristics...),
		Advice:          c.advice,
		SimilarityScore: math.Max(0.7, math.Min(0.95, similarity)),
	}
}

func debtConfidence(score float64, r debtRatios) float64 {
	confidence := 1.0
	switch {
	case r.debt > 1.0 || r.emi > 1.0:
		confidence *= 0.7
	case r.debt > 0.8 || r.emi > 0.5:
		confidence *= 0.85
	}
	if score >= 0.3 && score <= 0.7 {
		confidence *= 0.9
	}
	return math.Min(confidence, 1.0)
}

// AnalyzeDebt scores a debt profile with fixed, explainable rules.
func AnalyzeDebt(p domain.DebtProfile) domain.DebtAnalysis {
	r := ratiosOf(p)
	score := RiskScore(p)
	capacity := debtCapacity(p)

	return domain.DebtAnalysis{
		RiskScore:       score,
		RiskCategory:    riskCategory(score),
		DebtCapacity:    capacity,
		RecommendedEMI:  math.Min(p.MonthlyIncome*0.30, capacity*0.05),
		FinancialHealth: financialHealth(score),
		Recommendations: debtRecommendations(score, r, p),
		ClusterAnalysis: clusterFor(score),
		ConfidenceScore: debtConfidence(score, r),
	}
}
