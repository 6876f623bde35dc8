// internal/domain/models.go
package domain

// QuestionnaireID names one of the guided questionnaires.
type QuestionnaireID string

const (
	IncomeExpense QuestionnaireID = "income-expense"
	Savings       QuestionnaireID = "savings"
	Debt          QuestionnaireID = "debt"
	Investment    QuestionnaireID = "investment"
	Goals         QuestionnaireID = "goals"
)

// EmergencyFundCoverage is the categorical answer to "how many months could your savings cover?".
type EmergencyFundCoverage string

const (
	CoverageUnderThree EmergencyFundCoverage = "Less than 3 months"
	CoverageThreeToSix EmergencyFundCoverage = "3-6 months"
	CoverageSixPlus    EmergencyFundCoverage = "6+ months"
)

// MidpointMonths is the bucket midpoint used to estimate current coverage.
func (c EmergencyFundCoverage) MidpointMonths() float64 {
	switch c {
	case CoverageThreeToSix:
		return 4.5
	case CoverageSixPlus:
		return 9
	default:
		return 1.5
	}
}

func (c EmergencyFundCoverage) Valid() bool {
	switch c {
	case CoverageUnderThree, CoverageThreeToSix, CoverageSixPlus:
		return true
	}
	return false
}

type YesNo string

const (
	Yes YesNo = "Yes"
	No  YesNo = "No"
)

// Submission is a finalized questionnaire, decoded into its typed record.
type Submission interface {
	Questionnaire() QuestionnaireID
}

// FinancialProfile is the income/expense snapshot the allocation engine scores.
type FinancialProfile struct {
	MonthlyIncome       float64               `json:"monthly_income" validate:"gte=0"`
	MonthlyExpenses     float64               `json:"monthly_expenses" validate:"gte=0"`
	MonthlySavings      float64               `json:"monthly_savings" validate:"gte=0"`
	DebtAmount          float64               `json:"debt_amount" validate:"gte=0"`
	DebtPayments        float64               `json:"debt_payments" validate:"gte=0"`
	EmergencyFundMonths EmergencyFundCoverage `json:"emergency_fund_months" validate:"omitempty,oneof='Less than 3 months' '3-6 months' '6+ months'"`
	SaveMonthly         YesNo                 `json:"save_monthly" validate:"omitempty,oneof=Yes No"`
}

func (FinancialProfile) Questionnaire() QuestionnaireID { return IncomeExpense }

// SavingsProfile extends the financial snapshot with a savings target.
type SavingsProfile struct {
	FinancialProfile
	Goal         string  `json:"goal"`
	TargetAmount float64 `json:"target_amount"`
	TargetMonths float64 `json:"target_months"`
}

func (SavingsProfile) Questionnaire() QuestionnaireID { return Savings }

type DebtProfile struct {
	MonthlyIncome float64 `json:"monthly_income" validate:"gte=0"`
	Expenses      float64 `json:"expenses" validate:"gte=0"`
	Savings       float64 `json:"savings" validate:"gte=0"`
	EmergencyFund float64 `json:"emergency_fund" validate:"gte=0"`
	DebtAmount    float64 `json:"debt_amount" validate:"gte=0"`
	MonthlyEMI    float64 `json:"monthly_emi" validate:"gte=0"`
	Age           int     `json:"age" validate:"omitempty,gte=16,lte=120"`
	Occupation    string  `json:"occupation"`
	HasLoans      bool    `json:"has_loans"`
}

func (DebtProfile) Questionnaire() QuestionnaireID { return Debt }

type InvestmentProfile struct {
	RiskAppetite       string   `json:"risk_appetite" validate:"required,notblank"`
	Timeframe          string   `json:"investment_timeframe"`
	MonthlyInvestment  float64  `json:"monthly_investment" validate:"gte=0"`
	ExperienceLevel    int      `json:"experience_level" validate:"omitempty,gte=1,lte=5"`
	LossTolerance      int      `json:"loss_tolerance" validate:"omitempty,gte=1,lte=5"`
	CurrentInvestments []string `json:"current_investments"`
	ExpectedReturns    int      `json:"expected_returns" validate:"gte=0"`
	ManagementStyle    string   `json:"management_style"`
}

func (InvestmentProfile) Questionnaire() QuestionnaireID { return Investment }

type GoalPlan struct {
	ShortTermGoals           string `json:"shortTermGoals"`
	MediumTermGoals          string `json:"mediumTermGoals"`
	LongTermGoals            string `json:"longTermGoals"`
	RetirementPlan           string `json:"retirementPlan"`
	HouseCarPurchase         string `json:"houseCarPurchase"`
	ChildrenEducationWedding string `json:"childrenEducationWedding"`
	StartBusiness            string `json:"startBusiness"`
	TravelLifestyleGoals     string `json:"travelLifestyleGoals"`
	GoalPriorities           string `json:"goalPriorities"`
	GoalTimelines            string `json:"goalTimelines"`
}

func (GoalPlan) Questionnaire() QuestionnaireID { return Goals }
