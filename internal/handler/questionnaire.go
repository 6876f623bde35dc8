// internal/handler/questionnaire.go
package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"planora/internal/domain"
	"planora/internal/insights"
	"planora/internal/middleware"
	"planora/internal/questionnaire"
	"planora/internal/storage"
	val "planora/internal/validator"

	"github.com/gin-gonic/gin"
)

type QuestionnaireHandler struct {
	svc *questionnaire.Service
}

func NewQuestionnaireHandler(svc *questionnaire.Service) *QuestionnaireHandler {
	return &QuestionnaireHandler{svc: svc}
}

func questionnaireID(c *gin.Context) domain.QuestionnaireID {
	return domain.QuestionnaireID(c.Param("id"))
}

// fail maps service errors to responses.
func (h *QuestionnaireHandler) fail(c *gin.Context, op string, err error) {
	var fe questionnaire.FieldErrors
	switch {
	case errors.Is(err, questionnaire.ErrUnknownQuestionnaire):
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown questionnaire"})
	case errors.Is(err, questionnaire.ErrUnknownQuestion):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, questionnaire.ErrNotAtReview):
		c.JSON(http.StatusConflict, gin.H{"error": "Questionnaire is not complete"})
	case errors.As(err, &fe):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": fe})
	default:
		slog.Error(op+" failed", "error", err, "session_id", middleware.Session(c), "questionnaire", c.Param("id"))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}

// List godoc
// @Summary List questionnaires
// @Success 200 {array} DefinitionSummary
// @Router /api/v1/questionnaires [get]
func (h *QuestionnaireHandler) List(c *gin.Context) {
	defs := h.svc.Registry().List()
	out := make([]DefinitionSummary, 0, len(defs))
	for _, d := range defs {
		out = append(out, summaryOf(d))
	}
	c.JSON(http.StatusOK, out)
}

// Get godoc
// @Summary Get a questionnaire definition
// @Param id path string true "Questionnaire id"
// @Success 200 {object} questionnaire.Definition
// @Failure 404 {object} map[string]string
// @Router /api/v1/questionnaires/{id} [get]
func (h *QuestionnaireHandler) Get(c *gin.Context) {
	def, err := h.svc.Registry().Get(questionnaireID(c))
	if err != nil {
		h.fail(c, "Get", err)
		return
	}
	c.JSON(http.StatusOK, def)
}

// Draft godoc
// @Summary Resume the session's draft, or start one
// @Success 200 {object} StateResponse
// @Router /api/v1/questionnaires/{id}/draft [get]
func (h *QuestionnaireHandler) Draft(c *gin.Context) {
	m, err := h.svc.Resume(c.Request.Context(), middleware.Session(c), questionnaireID(c))
	if err != nil {
		h.fail(c, "Draft", err)
		return
	}
	c.JSON(http.StatusOK, stateOf(m, nil))
}

// Answer godoc
// @Summary Record answers; an empty value clears an answer
// @Param request body AnswersRequest true "Answers by question id"
// @Success 200 {object} StateResponse
// @Failure 400 {object} map[string]string
// @Router /api/v1/questionnaires/{id}/answers [put]
func (h *QuestionnaireHandler) Answer(c *gin.Context) {
	var req AnswersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := val.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	m, err := h.svc.Answer(c.Request.Context(), middleware.Session(c), questionnaireID(c), req.Answers)
	if err != nil {
		h.fail(c, "Answer", err)
		return
	}
	c.JSON(http.StatusOK, stateOf(m, nil))
}

// Next godoc
// @Summary Advance one step; declined moves answer 422 with field errors
// @Success 200 {object} StateResponse
// @Failure 422 {object} StateResponse
// @Router /api/v1/questionnaires/{id}/next [post]
func (h *QuestionnaireHandler) Next(c *gin.Context) {
	m, errs, err := h.svc.Next(c.Request.Context(), middleware.Session(c), questionnaireID(c))
	if err != nil {
		h.fail(c, "Next", err)
		return
	}
	if len(errs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, stateOf(m, errs))
		return
	}
	c.JSON(http.StatusOK, stateOf(m, nil))
}

// Previous godoc
// @Summary Go back one visible step
// @Success 200 {object} StateResponse
// @Router /api/v1/questionnaires/{id}/previous [post]
func (h *QuestionnaireHandler) Previous(c *gin.Context) {
	m, err := h.svc.Previous(c.Request.Context(), middleware.Session(c), questionnaireID(c))
	if err != nil {
		h.fail(c, "Previous", err)
		return
	}
	c.JSON(http.StatusOK, stateOf(m, nil))
}

// Submit godoc
// @Summary Finalize, score and record the draft
// @Success 201 {object} ResultsResponse
// @Failure 409 {object} map[string]string
// @Failure 422 {object} StateResponse
// @Router /api/v1/questionnaires/{id}/submit [post]
func (h *QuestionnaireHandler) Submit(c *gin.Context) {
	out, m, err := h.svc.Submit(c.Request.Context(), middleware.Session(c), questionnaireID(c))
	if err != nil {
		var fe questionnaire.FieldErrors
		if errors.As(err, &fe) && m != nil {
			c.JSON(http.StatusUnprocessableEntity, stateOf(m, fe))
			return
		}
		h.fail(c, "Submit", err)
		return
	}
	c.JSON(http.StatusCreated, resultsOf(out))
}

// Discard godoc
// @Summary Delete the session's draft
// @Success 200 {object} map[string]string{"status":"ok"}
// @Router /api/v1/questionnaires/{id}/draft [delete]
func (h *QuestionnaireHandler) Discard(c *gin.Context) {
	if err := h.svc.Discard(c.Request.Context(), middleware.Session(c), questionnaireID(c)); err != nil {
		h.fail(c, "Discard", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Results godoc
// @Summary Latest results; a placeholder report when nothing was submitted
// @Success 200 {object} ResultsResponse
// @Router /api/v1/questionnaires/{id}/results [get]
func (h *QuestionnaireHandler) Results(c *gin.Context) {
	id := questionnaireID(c)
	out, err := h.svc.Results(c.Request.Context(), middleware.Session(c), id)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusOK, ResultsResponse{Report: insights.Empty(id)})
		return
	}
	if err != nil {
		h.fail(c, "Results", err)
		return
	}
	c.JSON(http.StatusOK, resultsOf(out))
}

func resultsOf(out *questionnaire.Outcome) ResultsResponse {
	sub := out.Stored
	return ResultsResponse{
		Submission: &SubmissionResponse{
			ID:        sub.ID,
			CreatedAt: sub.CreatedAt,
			Answers:   sub.Answers,
			Analysis:  sub.Analysis,
		},
		Report: insights.Render(out.Record, &sub.Analysis),
	}
}
