package allocation

import (
	"math"
	"testing"

	"planora/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sum(r domain.AllocationResult) float64 {
	var s float64
	for _, v := range r.Allocations {
		s += v
	}
	return s
}

func TestAllocate_SumsToOne(t *testing.T) {
	incomes := []float64{0, 1000, 50000, 250000}
	expenses := []float64{0, 800, 30000}
	savings := []float64{0, 2000, 60000}
	payments := []float64{0, 5000, 15000, 40000}
	coverage := []domain.EmergencyFundCoverage{"", domain.CoverageUnderThree, domain.CoverageThreeToSix, domain.CoverageSixPlus}
	saves := []domain.YesNo{domain.Yes, domain.No}

	for _, inc := range incomes {
		for _, exp := range expenses {
			for _, sav := range savings {
				for _, pay := range payments {
					for _, cov := range coverage {
						for _, sm := range saves {
							r := Allocate(domain.FinancialProfile{
								MonthlyIncome:       inc,
								MonthlyExpenses:     exp,
								MonthlySavings:      sav,
								DebtPayments:        pay,
								EmergencyFundMonths: cov,
								SaveMonthly:         sm,
							})
							require.Len(t, r.Allocations, len(Categories))
							assert.InDelta(t, 1.0, sum(r), 1e-6)
						}
					}
				}
			}
		}
	}
}

func TestAllocate_NoDebtKeepsDebtShareZero(t *testing.T) {
	r := Allocate(domain.FinancialProfile{
		MonthlyIncome:       80000,
		MonthlyExpenses:     40000,
		MonthlySavings:      20000,
		EmergencyFundMonths: domain.CoverageSixPlus,
		SaveMonthly:         domain.Yes,
	})
	assert.Zero(t, r.Allocations[domain.DebtPayment])
	// No nudges fire, so the base table is returned unchanged.
	assert.InDelta(t, 0.60, r.Allocations[domain.LivingExpenses], 1e-9)
	assert.InDelta(t, 0.15, r.Allocations[domain.SavingsBucket], 1e-9)
}

func TestAllocate_ZeroIncomeDoesNotDivideByZero(t *testing.T) {
	r := Allocate(domain.FinancialProfile{
		MonthlyExpenses: 1000,
		MonthlySavings:  500,
		DebtPayments:    700,
	})
	for c, v := range r.Allocations {
		assert.False(t, math.IsNaN(v), "category %s is NaN", c)
	}
	assert.Zero(t, r.Allocations[domain.DebtPayment])
	assert.InDelta(t, 1.0, sum(r), 1e-6)
}

func TestAllocate_DebtRatioOnUpperBoundaryUsesMiddleBranch(t *testing.T) {
	r := Allocate(domain.FinancialProfile{
		MonthlyIncome:       50000,
		MonthlyExpenses:     30000,
		MonthlySavings:      10000,
		DebtPayments:        20000,
		EmergencyFundMonths: domain.CoverageSixPlus,
		SaveMonthly:         domain.Yes,
	})

	const total = 1.27
	want := map[domain.Category]float64{
		domain.EmergencyFund:  0.08 / total,
		domain.SavingsBucket:  0.12 / total,
		domain.Investments:    0.10 / total,
		domain.DebtPayment:    0.32 / total,
		domain.LivingExpenses: 0.60 / total,
		domain.Insurance:      0.05 / total,
	}
	for c, w := range want {
		assert.InDelta(t, w, r.Allocations[c], 1e-9, "category %s", c)
	}
}

func TestAllocate_DebtBranches(t *testing.T) {
	tests := []struct {
		name     string
		payments float64
		wantDebt float64
		wantEF   float64
		wantSav  float64
	}{
		{"heavy debt is capped", 30000, 0.25, 0.05, 0.05},
		{"light debt passes through", 5000, 0.10, 0.10, 0.15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Allocate(domain.FinancialProfile{
				MonthlyIncome:       50000,
				MonthlyExpenses:     10000,
				MonthlySavings:      10000,
				DebtPayments:        tt.payments,
				EmergencyFundMonths: domain.CoverageSixPlus,
				SaveMonthly:         domain.Yes,
			})
			total := tt.wantEF + tt.wantSav + 0.10 + tt.wantDebt + 0.60 + 0.05
			assert.InDelta(t, tt.wantDebt/total, r.Allocations[domain.DebtPayment], 1e-9)
			assert.InDelta(t, tt.wantEF/total, r.Allocations[domain.EmergencyFund], 1e-9)
			assert.InDelta(t, tt.wantSav/total, r.Allocations[domain.SavingsBucket], 1e-9)
		})
	}
}

func TestAllocate_LowEmergencyFundBoost(t *testing.T) {
	r := Allocate(domain.FinancialProfile{
		MonthlyIncome:       100000,
		MonthlyExpenses:     20000,
		MonthlySavings:      20000,
		EmergencyFundMonths: domain.CoverageUnderThree,
		SaveMonthly:         domain.Yes,
	})
	// 1.5 * 20000 = 30000 < 60000, so +0.05 / -0.03 / -0.02; total stays 1.00.
	assert.InDelta(t, 0.15, r.Allocations[domain.EmergencyFund], 1e-9)
	assert.InDelta(t, 0.12, r.Allocations[domain.SavingsBucket], 1e-9)
	assert.InDelta(t, 0.08, r.Allocations[domain.Investments], 1e-9)
}

func TestAllocate_SavingsNudges(t *testing.T) {
	r := Allocate(domain.FinancialProfile{
		MonthlyIncome:       100000,
		MonthlyExpenses:     20000,
		MonthlySavings:      5000,
		EmergencyFundMonths: domain.CoverageSixPlus,
		SaveMonthly:         domain.No,
	})
	// savings rate 5% and no monthly saving: Savings 0.15+0.05+0.05, Living 0.60-0.03-0.05.
	assert.InDelta(t, 0.25, r.Allocations[domain.SavingsBucket], 1e-9)
	assert.InDelta(t, 0.52, r.Allocations[domain.LivingExpenses], 1e-9)
	assert.InDelta(t, 0.08, r.Allocations[domain.Investments], 1e-9)
}

func TestPlan(t *testing.T) {
	r := Allocate(domain.FinancialProfile{
		MonthlyIncome:       80000,
		MonthlyExpenses:     40000,
		MonthlySavings:      20000,
		EmergencyFundMonths: domain.CoverageSixPlus,
		SaveMonthly:         domain.Yes,
	})
	plan := Plan(r, 80000)
	require.Len(t, plan, 6)
	assert.Equal(t, domain.EmergencyFund, plan[0].Category)
	assert.Equal(t, "8000", plan[0].Monthly.String())
	assert.Equal(t, "48000", plan[4].Monthly.String())
}

func TestNormalize_KeepsNegativeShares(t *testing.T) {
	out := normalize(map[domain.Category]float64{
		domain.EmergencyFund:  0.5,
		domain.SavingsBucket:  -0.1,
		domain.LivingExpenses: 0.6,
	})
	assert.InDelta(t, -0.1, out[domain.SavingsBucket], 1e-9)
	assert.InDelta(t, 0.5, out[domain.EmergencyFund], 1e-9)
	assert.InDelta(t, 0.0, out[domain.Investments], 1e-9)
}

func TestNormalize_ZeroTotalFallsBackToBase(t *testing.T) {
	assert.Equal(t, baseTable(), normalize(map[domain.Category]float64{}))
}

func TestCheck(t *testing.T) {
	full := func() map[domain.Category]float64 {
		return map[domain.Category]float64{
			domain.EmergencyFund:  1,
			domain.SavingsBucket:  1,
			domain.Investments:    1,
			domain.DebtPayment:    0,
			domain.LivingExpenses: 6,
			domain.Insurance:      1,
		}
	}

	r, err := Check(domain.AllocationResult{Allocations: full()})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, sum(r), 1e-9)
	assert.InDelta(t, 0.6, r.Allocations[domain.LivingExpenses], 1e-9)

	missing := full()
	delete(missing, domain.Insurance)
	_, err = Check(domain.AllocationResult{Allocations: missing})
	assert.ErrorIs(t, err, ErrInvalid)

	renamed := full()
	delete(renamed, domain.Insurance)
	renamed["Pets"] = 1
	_, err = Check(domain.AllocationResult{Allocations: renamed})
	assert.ErrorIs(t, err, ErrInvalid)

	nan := full()
	nan[domain.Investments] = math.NaN()
	_, err = Check(domain.AllocationResult{Allocations: nan})
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = Check(domain.AllocationResult{Allocations: map[domain.Category]float64{
		domain.EmergencyFund:  0,
		domain.SavingsBucket:  0,
		domain.Investments:    0,
		domain.DebtPayment:    0,
		domain.LivingExpenses: 0,
		domain.Insurance:      0,
	}})
	assert.ErrorIs(t, err, ErrInvalid)
}
