// internal/insights/insights.go
package insights

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"planora/internal/domain"
	"planora/internal/numeric"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Action is a navigation hint shown with a report.
type Action struct {
	Label  string `json:"label"`
	Target string `json:"target"`
}

// Report is what the results view renders.
type Report struct {
	Questionnaire domain.QuestionnaireID `json:"questionnaire,omitempty"`
	Empty         bool                   `json:"empty"`
	Insights      []domain.Insight       `json:"insights"`
	Action        *Action                `json:"action,omitempty"`
}

// Ratio cutoffs.
const (
	savingsGood    = 0.20
	savingsFair    = 0.10
	expensesGood   = 0.50
	expensesFair   = 0.70
	emiComfortable = 0.30
	emiStretched   = 0.40
)

var printer = message.NewPrinter(language.MustParse("en-IN"))

func money(v float64) string {
	return printer.Sprintf("₹%d", int64(math.Round(v)))
}

func percent(r float64) string {
	return printer.Sprintf("%.1f%%", r*100)
}

// priorityOf orders insights so the most urgent are shown first.
func priorityOf(s domain.Severity) int {
	switch s {
	case domain.SeverityDanger:
		return 1
	case domain.SeverityWarning:
		return 2
	case domain.SeveritySuccess:
		return 3
	default:
		return 4
	}
}

func insight(sev domain.Severity, title, body string) domain.Insight {
	return domain.Insight{Title: title, Body: body, Severity: sev, Priority: priorityOf(sev)}
}

// Empty is the placeholder report for a questionnaire with no submission. An
// empty id points back to the list of questionnaires.
func Empty(id domain.QuestionnaireID) Report {
	target := "/questionnaires"
	label := "Choose a questionnaire"
	if id != "" {
		target += "/" + string(id)
		label = "Start the questionnaire"
	}
	return Report{
		Questionnaire: id,
		Empty:         true,
		Insights: []domain.Insight{
			insight(domain.SeverityInfo, "No results yet", "Complete the questionnaire to see your personalised insights."),
		},
		Action: &Action{Label: label, Target: target},
	}
}

// Render derives insights from a finalized submission and its analysis. A nil
// submission yields the placeholder report.
func Render(sub domain.Submission, analysis *domain.Analysis) Report {
	if sub == nil {
		return Empty("")
	}

	var out []domain.Insight
	if analysis != nil && analysis.Notice != "" {
		out = append(out, insight(domain.SeverityDanger, "Analysis unavailable", analysis.Notice))
	}

	switch p := sub.(type) {
	case domain.FinancialProfile:
		out = append(out, cashflow(p)...)
		out = append(out, plan(analysis)...)
	case domain.SavingsProfile:
		out = append(out, cashflow(p.FinancialProfile)...)
		out = append(out, target(p)...)
		out = append(out, plan(analysis)...)
	case domain.DebtProfile:
		out = append(out, debt(p, analysis)...)
	case domain.InvestmentProfile:
		out = append(out, investment(analysis)...)
	case domain.GoalPlan:
		out = append(out, goals(analysis)...)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return Report{Questionnaire: sub.Questionnaire(), Insights: out}
}

func savingsRate(rate float64) domain.Insight {
	body := fmt.Sprintf("You save %s of your income.", percent(rate))
	switch {
	case rate >= savingsGood:
		return insight(domain.SeveritySuccess, "Healthy savings rate", body+" Keep it up.")
	case rate >= savingsFair:
		return insight(domain.SeverityWarning, "Savings rate could be higher", body+" Aim for at least 20%.")
	default:
		return insight(domain.SeverityDanger, "Low savings rate", body+" Try to set aside at least 10% every month.")
	}
}

func expenseRatio(ratio float64) domain.Insight {
	body := fmt.Sprintf("Expenses take %s of your income.", percent(ratio))
	switch {
	case ratio <= expensesGood:
		return insight(domain.SeveritySuccess, "Expenses under control", body)
	case ratio <= expensesFair:
		return insight(domain.SeverityWarning, "Expenses are on the high side", body+" Look for costs you can trim.")
	default:
		return insight(domain.SeverityDanger, "Expenses are too high", body+" Review your budget before taking on new commitments.")
	}
}

func emiRatio(ratio float64) domain.Insight {
	body := fmt.Sprintf("Loan repayments take %s of your income.", percent(ratio))
	switch {
	case ratio <= emiComfortable:
		return insight(domain.SeveritySuccess, "Manageable EMIs", body)
	case ratio <= emiStretched:
		return insight(domain.SeverityWarning, "EMIs are stretching your budget", body+" Avoid new loans until this drops below 30%.")
	default:
		return insight(domain.SeverityDanger, "EMI burden is high", body+" Consider prepaying or refinancing your costliest loan.")
	}
}

func coverage(c domain.EmergencyFundCoverage) []domain.Insight {
	switch c {
	case domain.CoverageUnderThree:
		return []domain.Insight{insight(domain.SeverityWarning, "Thin emergency fund",
			"Your savings cover less than 3 months of expenses. Build this up to 3-6 months first.")}
	case domain.CoverageThreeToSix:
		return []domain.Insight{insight(domain.SeverityInfo, "Emergency fund in range",
			"Your savings cover 3-6 months of expenses.")}
	case domain.CoverageSixPlus:
		return []domain.Insight{insight(domain.SeveritySuccess, "Strong emergency fund",
			"Your savings cover more than 6 months of expenses.")}
	}
	return nil
}

func cashflow(p domain.FinancialProfile) []domain.Insight {
	out := []domain.Insight{
		savingsRate(numeric.Ratio(p.MonthlySavings, p.MonthlyIncome)),
		expenseRatio(numeric.Ratio(p.MonthlyExpenses, p.MonthlyIncome)),
	}
	if p.DebtPayments > 0 {
		out = append(out, emiRatio(numeric.Ratio(p.DebtPayments, p.MonthlyIncome)))
	}
	return append(out, coverage(p.EmergencyFundMonths)...)
}

func plan(a *domain.Analysis) []domain.Insight {
	if a == nil || len(a.Plan) == 0 {
		return nil
	}
	lines := make([]string, 0, len(a.Plan))
	for _, pa := range a.Plan {
		lines = append(lines, fmt.Sprintf("%s: %s (%s)", pa.Category, money(pa.Monthly.InexactFloat64()), percent(pa.Fraction)))
	}
	return []domain.Insight{insight(domain.SeverityInfo, "Suggested monthly budget", strings.Join(lines, "\n"))}
}

func target(p domain.SavingsProfile) []domain.Insight {
	if p.TargetAmount <= 0 {
		return nil
	}
	goal := p.Goal
	if goal == "" {
		goal = "your goal"
	}
	if p.MonthlySavings <= 0 {
		return []domain.Insight{insight(domain.SeverityDanger, "No monthly savings towards "+goal,
			fmt.Sprintf("You need %s but are not saving every month yet.", money(p.TargetAmount)))}
	}
	months := math.Ceil(p.TargetAmount / p.MonthlySavings)
	body := fmt.Sprintf("At %s a month you will reach %s in %.0f months.", money(p.MonthlySavings), money(p.TargetAmount), months)
	if p.TargetMonths > 0 && months > p.TargetMonths {
		need := p.TargetAmount / p.TargetMonths
		return []domain.Insight{insight(domain.SeverityWarning, "Behind schedule for "+goal,
			body+fmt.Sprintf(" To finish in %.0f months save %s a month.", p.TargetMonths, money(need)))}
	}
	return []domain.Insight{insight(domain.SeveritySuccess, "On track for "+goal, body)}
}

func debt(p domain.DebtProfile, a *domain.Analysis) []domain.Insight {
	out := []domain.Insight{savingsRate(numeric.Ratio(p.Savings, p.MonthlyIncome))}
	if p.MonthlyEMI > 0 {
		out = append(out, emiRatio(numeric.Ratio(p.MonthlyEMI, p.MonthlyIncome)))
	}
	if a == nil || a.Debt == nil {
		return out
	}

	d := a.Debt
	sev := domain.SeveritySuccess
	switch {
	case strings.HasPrefix(d.RiskCategory, "High"):
		sev = domain.SeverityDanger
	case strings.HasPrefix(d.RiskCategory, "Medium"):
		sev = domain.SeverityWarning
	}
	out = append(out, insight(sev, d.RiskCategory,
		fmt.Sprintf("Risk score %.2f, financial health %s. You fit the %q profile: %s",
			d.RiskScore, d.FinancialHealth, d.ClusterAnalysis.ProfileName, d.ClusterAnalysis.Advice)))
	if d.RecommendedEMI > 0 {
		out = append(out, insight(domain.SeverityInfo, "Comfortable EMI",
			fmt.Sprintf("Keep total EMIs under %s a month.", money(d.RecommendedEMI))))
	}
	for _, r := range d.Recommendations {
		out = append(out, insight(domain.SeverityInfo, "Recommendation", r))
	}
	return out
}

func investment(a *domain.Analysis) []domain.Insight {
	if a == nil || a.Investment == nil {
		return nil
	}
	inv := a.Investment
	lines := make([]string, 0, len(inv.PortfolioAllocation))
	for _, l := range inv.PortfolioAllocation {
		lines = append(lines, fmt.Sprintf("%s: %d%% (%s)", l.Instrument, l.Percentage, l.Rationale))
	}
	return []domain.Insight{
		insight(domain.SeverityInfo, inv.PortfolioType+" portfolio", inv.RiskProfileDescription+". "+inv.InvestmentStyleDescription+"."),
		insight(domain.SeverityInfo, "Suggested allocation", strings.Join(lines, "\n")),
		insight(domain.SeverityInfo, "Time horizon", inv.TimeHorizonAnalysis),
	}
}

func goals(a *domain.Analysis) []domain.Insight {
	if a == nil || a.Goals == nil {
		return nil
	}
	var out []domain.Insight
	for _, r := range a.Goals.Recommendations {
		sev := domain.SeverityInfo
		switch {
		case r.Type == "missing_emergency_fund":
			sev = domain.SeverityWarning
		case r.Type == "review_adjust":
			sev = domain.SeverityWarning
		case r.Priority == "high":
			sev = domain.SeveritySuccess
		}
		out = append(out, insight(sev, r.Title, r.Message+" "+r.Action+"."))
	}
	if len(a.Goals.Goals) == 0 {
		out = append(out, insight(domain.SeverityWarning, "No goals listed", "Add at least one goal to get a plan."))
	}
	return out
}
