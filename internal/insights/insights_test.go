package insights

import (
	"strings"
	"testing"

	"planora/internal/allocation"
	"planora/internal/domain"
	"planora/internal/scoring"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func find(t *testing.T, r Report, title string) domain.Insight {
	t.Helper()
	for _, in := range r.Insights {
		if in.Title == title {
			return in
		}
	}
	require.Failf(t, "insight not found", "%q in %+v", title, r.Insights)
	return domain.Insight{}
}

func TestRender_NoSubmission(t *testing.T) {
	r := Render(nil, nil)

	assert.True(t, r.Empty)
	require.Len(t, r.Insights, 1)
	assert.Equal(t, "No results yet", r.Insights[0].Title)
	require.NotNil(t, r.Action)
	assert.Equal(t, "/questionnaires", r.Action.Target)
}

func TestEmpty_PointsAtQuestionnaire(t *testing.T) {
	r := Empty(domain.Debt)
	assert.True(t, r.Empty)
	assert.Len(t, r.Insights, 1)
	assert.Equal(t, "/questionnaires/debt", r.Action.Target)
}

func TestRender_SavingsRateThresholds(t *testing.T) {
	tests := []struct {
		savings float64
		sev     domain.Severity
	}{
		{20000, domain.SeveritySuccess},
		{10000, domain.SeverityWarning},
		{19999, domain.SeverityWarning},
		{9999, domain.SeverityDanger},
		{0, domain.SeverityDanger},
	}
	for _, tt := range tests {
		r := Render(domain.FinancialProfile{MonthlyIncome: 100000, MonthlySavings: tt.savings}, nil)
		var got domain.Severity
		for _, in := range r.Insights {
			if strings.HasPrefix(in.Body, "You save") {
				got = in.Severity
			}
		}
		assert.Equal(t, tt.sev, got, "savings %v", tt.savings)
	}
}

func TestRender_ExpenseAndEMIThresholds(t *testing.T) {
	r := Render(domain.FinancialProfile{
		MonthlyIncome:   100000,
		MonthlyExpenses: 70000,
		MonthlySavings:  25000,
		DebtPayments:    41000,
	}, nil)

	assert.Equal(t, domain.SeverityWarning, find(t, r, "Expenses are on the high side").Severity)
	assert.Equal(t, domain.SeverityDanger, find(t, r, "EMI burden is high").Severity)
	assert.Equal(t, domain.SeveritySuccess, find(t, r, "Healthy savings rate").Severity)

	r = Render(domain.FinancialProfile{MonthlyIncome: 100000, MonthlyExpenses: 50000, DebtPayments: 30000}, nil)
	find(t, r, "Expenses under control")
	find(t, r, "Manageable EMIs")
}

func TestRender_ZeroIncome(t *testing.T) {
	r := Render(domain.FinancialProfile{MonthlyExpenses: 20000}, nil)
	assert.False(t, r.Empty)
	find(t, r, "Low savings rate")
	find(t, r, "Expenses under control")
}

func TestRender_SortedByPriority(t *testing.T) {
	p := domain.FinancialProfile{
		MonthlyIncome:       50000,
		MonthlyExpenses:     45000,
		MonthlySavings:      2000,
		EmergencyFundMonths: domain.CoverageSixPlus,
	}
	res := allocation.Allocate(p)
	a := &domain.Analysis{Allocation: &res, Plan: allocation.Plan(res, p.MonthlyIncome), Notice: scoring.UnavailableNotice}

	r := Render(p, a)
	require.NotEmpty(t, r.Insights)
	assert.Equal(t, "Analysis unavailable", r.Insights[0].Title)
	for i := 1; i < len(r.Insights); i++ {
		assert.LessOrEqual(t, r.Insights[i-1].Priority, r.Insights[i].Priority)
	}
	assert.Contains(t, find(t, r, "Suggested monthly budget").Body, "Living Expenses")
}

func TestRender_SavingsTarget(t *testing.T) {
	base := domain.FinancialProfile{MonthlyIncome: 60000, MonthlySavings: 10000}

	r := Render(domain.SavingsProfile{FinancialProfile: base, Goal: "a car", TargetAmount: 300000, TargetMonths: 24}, nil)
	in := find(t, r, "Behind schedule for a car")
	assert.Contains(t, in.Body, "30 months")

	r = Render(domain.SavingsProfile{FinancialProfile: base, Goal: "a car", TargetAmount: 300000, TargetMonths: 36}, nil)
	find(t, r, "On track for a car")

	r = Render(domain.SavingsProfile{FinancialProfile: domain.FinancialProfile{MonthlyIncome: 1}, TargetAmount: 5000}, nil)
	assert.Equal(t, domain.SeverityDanger, find(t, r, "No monthly savings towards your goal").Severity)
}

func TestRender_Debt(t *testing.T) {
	p := domain.DebtProfile{MonthlyIncome: 50000, Expenses: 40000, DebtAmount: 2000000, MonthlyEMI: 35000}
	d := scoring.AnalyzeDebt(p)

	r := Render(p, &domain.Analysis{Debt: &d})
	assert.Equal(t, domain.SeverityDanger, find(t, r, scoring.RiskHigh).Severity)
	assert.Equal(t, domain.SeverityDanger, r.Insights[0].Severity)
}

func TestRender_InvestmentAndGoals(t *testing.T) {
	ip := domain.InvestmentProfile{RiskAppetite: "Low (Prefer safety over returns)", ExperienceLevel: 3}
	inv := scoring.AnalyzeInvestment(ip)
	r := Render(ip, &domain.Analysis{Investment: &inv})
	find(t, r, "Conservative portfolio")
	assert.Contains(t, find(t, r, "Suggested allocation").Body, "Fixed Deposits: 40%")

	gp := domain.GoalPlan{ShortTermGoals: "Bike"}
	g := scoring.AnalyzeGoals(gp)
	r = Render(gp, &domain.Analysis{Goals: &g})
	assert.Equal(t, domain.SeverityWarning, find(t, r, "Consider Emergency Fund").Severity)
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "₹60,000", money(60000))
	assert.Equal(t, "₹999", money(999.4))
}
