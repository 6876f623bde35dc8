// internal/allocation/allocation.go
package allocation

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"planora/internal/domain"
	"planora/internal/numeric"

	"github.com/shopspring/decimal"
)

// Categories is the fixed presentation order of the budget buckets.
var Categories = []domain.Category{
	domain.EmergencyFund,
	domain.SavingsBucket,
	domain.Investments,
	domain.DebtPayment,
	domain.LivingExpenses,
	domain.Insurance,
}

func baseTable() map[domain.Category]float64 {
	return map[domain.Category]float64{
		domain.EmergencyFund:  0.10,
		domain.SavingsBucket:  0.15,
		domain.Investments:    0.10,
		domain.DebtPayment:    0.00,
		domain.LivingExpenses: 0.60,
		domain.Insurance:      0.05,
	}
}

// Allocate splits income across the budget categories. The adjustments run in
// a fixed order and the result is renormalized to sum to 1. Negative
// intermediate shares are kept as is.
func Allocate(p domain.FinancialProfile) domain.AllocationResult {
	a := baseTable()

	if p.DebtPayments > 0 {
		debtRatio := numeric.Ratio(p.DebtPayments, p.MonthlyIncome)
		switch {
		case debtRatio > 0.4:
			a[domain.DebtPayment] = min(0.25, debtRatio)
			a[domain.EmergencyFund] = 0.05
			a[domain.SavingsBucket] = 0.05
		case debtRatio > 0.2:
			a[domain.DebtPayment] = debtRatio * 0.8
			a[domain.EmergencyFund] = 0.08
			a[domain.SavingsBucket] = 0.12
		default:
			a[domain.DebtPayment] = debtRatio
		}
	}

	estimatedFund := p.EmergencyFundMonths.MidpointMonths() * p.MonthlyExpenses
	if estimatedFund < 3*p.MonthlyExpenses {
		a[domain.EmergencyFund] += 0.05
		a[domain.SavingsBucket] -= 0.03
		a[domain.Investments] -= 0.02
	}

	if numeric.Ratio(p.MonthlySavings, p.MonthlyIncome) < 0.10 {
		a[domain.SavingsBucket] += 0.05
		a[domain.LivingExpenses] -= 0.03
		a[domain.Investments] -= 0.02
	}

	if p.SaveMonthly == domain.No {
		a[domain.SavingsBucket] += 0.05
		a[domain.LivingExpenses] -= 0.05
	}

	return domain.AllocationResult{Allocations: normalize(a)}
}

func normalize(a map[domain.Category]float64) map[domain.Category]float64 {
	var total float64
	for _, c := range Categories {
		total += a[c]
	}
	if total == 0 {
		slog.Warn("allocation total is zero, falling back to base table")
		return baseTable()
	}
	out := make(map[domain.Category]float64, len(Categories))
	for _, c := range Categories {
		out[c] = a[c] / total
	}
	return out
}

var ErrInvalid = errors.New("invalid allocation")

// Check verifies that r covers exactly the budget categories with finite
// shares and a positive total, and returns it renormalized to sum to 1.
func Check(r domain.AllocationResult) (domain.AllocationResult, error) {
	if len(r.Allocations) != len(Categories) {
		return domain.AllocationResult{}, fmt.Errorf("%w: got %d categories, want %d", ErrInvalid, len(r.Allocations), len(Categories))
	}
	var total float64
	for _, c := range Categories {
		v, ok := r.Allocations[c]
		if !ok {
			return domain.AllocationResult{}, fmt.Errorf("%w: missing %q", ErrInvalid, c)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return domain.AllocationResult{}, fmt.Errorf("%w: %q is not a finite number", ErrInvalid, c)
		}
		total += v
	}
	if total <= 0 {
		return domain.AllocationResult{}, fmt.Errorf("%w: shares sum to %v", ErrInvalid, total)
	}
	out := make(map[domain.Category]float64, len(Categories))
	for _, c := range Categories {
		out[c] = r.Allocations[c] / total
	}
	return domain.AllocationResult{Allocations: out}, nil
}

// Plan converts the fractions into monthly amounts of income, in category order.
func Plan(r domain.AllocationResult, income float64) []domain.PlannedAmount {
	base := decimal.NewFromFloat(income)
	plan := make([]domain.PlannedAmount, 0, len(Categories))
	for _, c := range Categories {
		f := r.Allocations[c]
		plan = append(plan, domain.PlannedAmount{
			Category: c,
			Fraction: f,
			Monthly:  base.Mul(decimal.NewFromFloat(f)).Round(2),
		})
	}
	return plan
}
