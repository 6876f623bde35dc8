// internal/scoring/investment.go
package scoring

import (
	"fmt"
	"strings"

	"planora/internal/domain"
)

const (
	PortfolioConservative = "Conservative"
	PortfolioBalanced     = "Balanced"
	PortfolioAggressive   = "Aggressive"
)

var portfolios = map[string][]domain.PortfolioLine{
	PortfolioConservative: {
		{Instrument: "Fixed Deposits", Percentage: 40, Rationale: "Stable returns with minimal risk"},
		{Instrument: "Government Bonds", Percentage: 30, Rationale: "Safe investment with steady returns"},
		{Instrument: "Blue Chip Stocks", Percentage: 20, Rationale: "Stable companies with good dividend history"},
		{Instrument: "Gold", Percentage: 10, Rationale: "Hedge against market volatility"},
	},
	PortfolioBalanced: {
		{Instrument: "Equity Mutual Funds", Percentage: 40, Rationale: "Balanced mix of equity and debt"},
		{Instrument: "Blue Chip Stocks", Percentage: 30, Rationale: "Stable growth potential"},
		{Instrument: "Fixed Deposits", Percentage: 20, Rationale: "Safety net component"},
		{Instrument: "Gold", Percentage: 10, Rationale: "Market hedge"},
	},
	PortfolioAggressive: {
		{Instrument: "Direct Equity", Percentage: 50, Rationale: "High growth potential with individual stock selection"},
		{Instrument: "Aggressive Equity Funds", Percentage: 30, Rationale: "High-risk, high-return mutual funds"},
		{Instrument: "Small Cap Funds", Percentage: 15, Rationale: "Higher volatility but potential for significant growth"},
		{Instrument: "Crypto/Alternative Investments", Percentage: 5, Rationale: "High-risk alternative investments for diversification"},
	},
}

var portfolioDescriptions = map[string]map[string]string{
	PortfolioConservative: {
		"Fixed Deposits":   "Stable returns with minimal risk. Perfect for capital preservation.",
		"Government Bonds": "Safe investment with steady returns and government backing.",
		"Blue Chip Stocks": "Stable companies with good dividend history and lower volatility.",
		"Gold":             "Hedge against market volatility and inflation protection.",
	},
	PortfolioBalanced: {
		"Equity Mutual Funds": "Balanced mix of equity and debt for moderate growth.",
		"Blue Chip Stocks":    "Stable growth potential with established companies.",
		"Fixed Deposits":      "Safety net component for stability.",
		"Gold":                "Market hedge and diversification.",
	},
	PortfolioAggressive: {
		"Direct Equity":                  "High growth potential with individual stock selection.",
		"Aggressive Equity Funds":        "High-risk, high-return mutual funds.",
		"Small Cap Funds":                "Higher volatility but potential for significant growth.",
		"Crypto/Alternative Investments": "High-risk alternative investments for diversification.",
	},
}

var riskProfiles = map[int]string{
	0: "Conservative Investor - Prefers safety over returns, focuses on capital preservation",
	1: "Moderate Investor - Balances risk and return, seeks steady growth",
	2: "Growth Investor - Willing to take calculated risks for higher returns",
	3: "Aggressive Investor - High risk tolerance, seeks maximum returns",
}

var investmentStyles = map[string]string{
	PortfolioConservative: "Capital preservation focused with minimal risk exposure",
	PortfolioBalanced:     "Balanced approach between growth and stability",
	PortfolioAggressive:   "Growth focused with high risk tolerance",
}

var timeHorizons = map[string]string{
	"Short-term (Less than 1 year)": "Short-term investments focus on liquidity and capital preservation. Consider money market funds, short-term FDs, and liquid mutual funds.",
	"Medium-term (1-3 years)":       "Medium-term investments balance growth and stability. Consider balanced mutual funds, corporate bonds, and hybrid funds.",
	"Long-term (More than 3 years)": "Long-term investments can focus on growth. Consider equity mutual funds, SIPs, and diversified equity portfolios.",
	"Mix of timeframes":             "Diversified approach across different time horizons. Allocate based on specific goals and risk tolerance.",
}

const defaultTimeHorizon = "Medium-term investment approach recommended for balanced growth and stability."

// portfolioFor maps the stated risk appetite to a portfolio type and investor
// cluster. "Low" is checked before "High".
func portfolioFor(p domain.InvestmentProfile) (string, int) {
	switch {
	case strings.Contains(p.RiskAppetite, "Low"):
		return PortfolioConservative, 0
	case strings.Contains(p.RiskAppetite, "High"):
		return PortfolioAggressive, 3
	default:
		return PortfolioBalanced, 1
	}
}

// AnalyzeInvestment recommends a model portfolio for an investment profile.
func AnalyzeInvestment(p domain.InvestmentProfile) domain.InvestmentAnalysis {
	kind, cluster := portfolioFor(p)

	lines := append([]domain.PortfolioLine(nil), portfolios[kind]...)
	recs := make([]domain.PortfolioRecommendation, 0, len(lines))
	for _, l := range lines {
		recs = append(recs, domain.PortfolioRecommendation{
			Title:       fmt.Sprintf("%s (%d%%)", l.Instrument, l.Percentage),
			Description: portfolioDescriptions[kind][l.Instrument],
			Allocation:  l.Percentage,
		})
	}

	horizon, ok := timeHorizons[p.Timeframe]
	if !ok {
		horizon = defaultTimeHorizon
	}

	return domain.InvestmentAnalysis{
		InvestorCluster:            cluster,
		PortfolioType:              kind,
		Confidence:                 0.8,
		RiskProfileDescription:     riskProfiles[cluster],
		InvestmentStyleDescription: investmentStyles[kind],
		TimeHorizonAnalysis:        horizon,
		Recommendations:            recs,
		PortfolioAllocation:        lines,
	}
}
