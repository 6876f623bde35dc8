// internal/handler/scoring.go
package handler

import (
	"log/slog"
	"net/http"

	"planora/internal/domain"
	"planora/internal/insights"
	"planora/internal/questionnaire"
	val "planora/internal/validator"

	"github.com/gin-gonic/gin"
)

// ScoringHandler scores profiles posted directly, without a questionnaire.
type ScoringHandler struct {
	analyzer questionnaire.Analyzer
}

func NewScoringHandler(a questionnaire.Analyzer) *ScoringHandler {
	return &ScoringHandler{analyzer: a}
}

func analyze[T domain.Submission](h *ScoringHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req T
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
			return
		}
		if err := val.Struct(req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		a, err := h.analyzer.Analyze(c.Request.Context(), req)
		if err != nil {
			slog.Error("Analyze failed", "error", err, "questionnaire", req.Questionnaire())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to analyze"})
			return
		}
		c.JSON(http.StatusOK, AnalysisResponse{Analysis: a, Report: insights.Render(req, &a)})
	}
}

// Allocation godoc
// @Summary Budget allocation for an income/expense profile
// @Param request body domain.FinancialProfile true "Profile"
// @Success 200 {object} AnalysisResponse
// @Router /api/v1/analyze/allocation [post]
func (h *ScoringHandler) Allocation() gin.HandlerFunc { return analyze[domain.FinancialProfile](h) }

// Debt godoc
// @Summary Debt risk analysis
// @Param request body domain.DebtProfile true "Profile"
// @Success 200 {object} AnalysisResponse
// @Router /api/v1/analyze/debt [post]
func (h *ScoringHandler) Debt() gin.HandlerFunc { return analyze[domain.DebtProfile](h) }

// Investment godoc
// @Summary Portfolio recommendation
// @Param request body domain.InvestmentProfile true "Profile"
// @Success 200 {object} AnalysisResponse
// @Router /api/v1/analyze/investment [post]
func (h *ScoringHandler) Investment() gin.HandlerFunc { return analyze[domain.InvestmentProfile](h) }

// Goals godoc
// @Summary Goal prioritization
// @Param request body domain.GoalPlan true "Goals"
// @Success 200 {object} AnalysisResponse
// @Router /api/v1/analyze/goals [post]
func (h *ScoringHandler) Goals() gin.HandlerFunc { return analyze[domain.GoalPlan](h) }
