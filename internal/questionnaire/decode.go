// internal/questionnaire/decode.go
package questionnaire

import (
	"fmt"
	"math"
	"strings"

	"planora/internal/domain"
	"planora/internal/numeric"
)

// decoder collects field errors while reading typed values out of Answers.
type decoder struct {
	a    Answers
	errs FieldErrors
}

// amount reads a non-negative number. A missing answer (optional or hidden)
// coerces to 0; a present but unparseable one is an error.
func (d *decoder) amount(id string) float64 {
	v, ok := d.a[id]
	if !ok || v.Empty() {
		return numeric.OrZero(v.Text)
	}
	f, err := numeric.NonNegative(v.Text)
	if err != nil {
		d.errs[id] = fmt.Sprintf("%s: %v", id, err)
		return 0
	}
	return f
}

func (d *decoder) integer(id string) int {
	return int(math.Round(d.amount(id)))
}

func (d *decoder) text(id string) string {
	return d.a.Text(id)
}

func (d *decoder) yes(id string) bool {
	return d.a.Text(id) == string(domain.Yes)
}

func (d *decoder) choices(id string) []string {
	var out []string
	for _, c := range d.a[id].Choices {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

func (d *decoder) financial() domain.FinancialProfile {
	p := domain.FinancialProfile{
		MonthlyIncome:       d.amount("monthlyIncome"),
		MonthlyExpenses:     d.amount("monthlyExpenses"),
		MonthlySavings:      d.amount("monthlySavings"),
		DebtAmount:          d.amount("debtAmount"),
		DebtPayments:        d.amount("debtPayments"),
		EmergencyFundMonths: domain.EmergencyFundCoverage(d.text("emergencyFundMonths")),
		SaveMonthly:         domain.YesNo(d.text("saveMonthly")),
	}
	if p.EmergencyFundMonths != "" && !p.EmergencyFundMonths.Valid() {
		d.errs["emergencyFundMonths"] = fmt.Sprintf("emergencyFundMonths: unknown bucket %q", p.EmergencyFundMonths)
	}
	return p
}

// Decode parses finalized answers into the typed record of questionnaire id.
func Decode(id domain.QuestionnaireID, a Answers) (domain.Submission, error) {
	d := &decoder{a: a, errs: FieldErrors{}}
	var sub domain.Submission

	switch id {
	case domain.IncomeExpense:
		sub = d.financial()
	case domain.Savings:
		sub = domain.SavingsProfile{
			FinancialProfile: d.financial(),
			Goal:             d.text("savingsGoal"),
			TargetAmount:     d.amount("targetAmount"),
			TargetMonths:     d.amount("targetMonths"),
		}
	case domain.Debt:
		sub = domain.DebtProfile{
			MonthlyIncome: d.amount("monthlyIncome"),
			Expenses:      d.amount("expenses"),
			Savings:       d.amount("savings"),
			EmergencyFund: d.amount("emergencyFund"),
			DebtAmount:    d.amount("debtAmount"),
			MonthlyEMI:    d.amount("monthlyEmi"),
			Age:           d.integer("age"),
			Occupation:    d.text("occupation"),
			HasLoans:      d.yes("hasLoans"),
		}
	case domain.Investment:
		sub = domain.InvestmentProfile{
			RiskAppetite:       d.text("riskAppetite"),
			Timeframe:          d.text("investmentTimeframe"),
			MonthlyInvestment:  d.amount("monthlyInvestment"),
			ExperienceLevel:    d.integer("experienceLevel"),
			LossTolerance:      d.integer("lossTolerance"),
			CurrentInvestments: d.choices("currentInvestments"),
			ExpectedReturns:    d.integer("expectedReturns"),
			ManagementStyle:    d.text("managementStyle"),
		}
	case domain.Goals:
		sub = domain.GoalPlan{
			ShortTermGoals:           d.text("shortTermGoals"),
			MediumTermGoals:          d.text("mediumTermGoals"),
			LongTermGoals:            d.text("longTermGoals"),
			RetirementPlan:           d.text("retirementPlan"),
			HouseCarPurchase:         d.text("houseCarPurchase"),
			ChildrenEducationWedding: d.text("childrenEducationWedding"),
			StartBusiness:            d.text("startBusiness"),
			TravelLifestyleGoals:     d.text("travelLifestyleGoals"),
			GoalPriorities:           d.text("goalPriorities"),
			GoalTimelines:            d.text("goalTimelines"),
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownQuestionnaire, id)
	}

	if len(d.errs) > 0 {
		return nil, d.errs
	}
	return sub, nil
}
