package questionnaire

import (
	"testing"

	"planora/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_IncomeExpense(t *testing.T) {
	sub, err := Decode(domain.IncomeExpense, Answers{
		"monthlyIncome":       domain.Text("₹60,000"),
		"monthlyExpenses":     domain.Text("30000"),
		"saveMonthly":         domain.Text("No"),
		"emergencyFundMonths": domain.Text("3-6 months"),
		"hasLoans":            domain.Text("No"),
	})
	require.NoError(t, err)

	p, ok := sub.(domain.FinancialProfile)
	require.True(t, ok)
	assert.Equal(t, domain.FinancialProfile{
		MonthlyIncome:       60000,
		MonthlyExpenses:     30000,
		EmergencyFundMonths: domain.CoverageThreeToSix,
		SaveMonthly:         domain.No,
	}, p)
}

func TestDecode_RejectsUnparseableNumbers(t *testing.T) {
	_, err := Decode(domain.Debt, Answers{
		"monthlyIncome": domain.Text("forty thousand"),
		"expenses":      domain.Text("20000"),
	})

	var fe FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe, "monthlyIncome")
	assert.NotContains(t, fe, "expenses")
}

func TestDecode_AbsentAmountsAreZero(t *testing.T) {
	sub, err := Decode(domain.Debt, Answers{
		"monthlyIncome": domain.Text("50000"),
		"savings":       domain.Text("  "),
	})
	require.NoError(t, err)

	p := sub.(domain.DebtProfile)
	assert.Equal(t, 50000.0, p.MonthlyIncome)
	assert.Zero(t, p.Savings)
	assert.Zero(t, p.MonthlyEMI)
}

func TestDecode_RejectsUnknownCoverage(t *testing.T) {
	_, err := Decode(domain.Savings, Answers{
		"emergencyFundMonths": domain.Text("forever"),
	})
	var fe FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe, "emergencyFundMonths")
}

func TestDecode_Debt(t *testing.T) {
	sub, err := Decode(domain.Debt, Answers{
		"monthlyIncome": domain.Text("50000"),
		"expenses":      domain.Text("25000"),
		"savings":       domain.Text("5000"),
		"emergencyFund": domain.Text("100000"),
		"hasLoans":      domain.Text("Yes"),
		"debtAmount":    domain.Text("400000"),
		"monthlyEmi":    domain.Text("12,500"),
		"age":           domain.Text("34.6"),
		"occupation":    domain.Text("Salaried"),
	})
	require.NoError(t, err)

	p := sub.(domain.DebtProfile)
	assert.True(t, p.HasLoans)
	assert.Equal(t, 12500.0, p.MonthlyEMI)
	assert.Equal(t, 35, p.Age)
	assert.Equal(t, domain.Debt, p.Questionnaire())
}

func TestDecode_Investment(t *testing.T) {
	sub, err := Decode(domain.Investment, Answers{
		"riskAppetite":       domain.Text("Moderate (Balance between safety and returns)"),
		"lossTolerance":      domain.Text("3"),
		"experienceLevel":    domain.Text("2"),
		"currentInvestments": domain.Choices("Mutual Funds", " ", "Gold"),
	})
	require.NoError(t, err)

	p := sub.(domain.InvestmentProfile)
	assert.Equal(t, 3, p.LossTolerance)
	assert.Equal(t, 2, p.ExperienceLevel)
	assert.Equal(t, []string{"Mutual Funds", "Gold"}, p.CurrentInvestments)
}

func TestDecode_Goals(t *testing.T) {
	sub, err := Decode(domain.Goals, Answers{
		"shortTermGoals": domain.Text(" Laptop, Trip "),
		"goalPriorities": domain.Text("Retirement first"),
	})
	require.NoError(t, err)

	p := sub.(domain.GoalPlan)
	assert.Equal(t, "Laptop, Trip", p.ShortTermGoals)
	assert.Equal(t, "Retirement first", p.GoalPriorities)
	assert.Empty(t, p.RetirementPlan)
}

func TestDecode_UnknownQuestionnaire(t *testing.T) {
	_, err := Decode("pension", Answers{})
	assert.ErrorIs(t, err, ErrUnknownQuestionnaire)
}
