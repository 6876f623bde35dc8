// internal/handler/router.go
package handler

import (
	"net/http"

	"planora/internal/auth"
	"planora/internal/middleware"
	"planora/internal/questionnaire"

	"github.com/gin-gonic/gin"
)

type RouterDeps struct {
	Questionnaires *questionnaire.Service
	Analyzer       questionnaire.Analyzer
	Tokens         *auth.TokenService
	CORSOrigins    []string
}

// NewRouter wires every HTTP route onto a fresh gin engine.
func NewRouter(d RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), middleware.CORS(d.CORSOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	qh := NewQuestionnaireHandler(d.Questionnaires)
	sh := NewScoringHandler(d.Analyzer)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/session", func(c *gin.Context) {
			id, token, exp, err := d.Tokens.NewSession()
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
				return
			}
			c.JSON(http.StatusCreated, SessionResponse{SessionID: id, Token: token, ExpiresAt: exp})
		})

		v1.GET("/questionnaires", qh.List)
		v1.GET("/questionnaires/:id", qh.Get)

		v1.POST("/analyze/allocation", sh.Allocation())
		v1.POST("/analyze/debt", sh.Debt())
		v1.POST("/analyze/investment", sh.Investment())
		v1.POST("/analyze/goals", sh.Goals())
	}

	session := v1.Group("/questionnaires/:id")
	session.Use(middleware.NewAuthMiddleware(d.Tokens).RequireSession())
	{
		session.GET("/draft", qh.Draft)
		session.DELETE("/draft", qh.Discard)
		session.PUT("/answers", qh.Answer)
		session.POST("/next", qh.Next)
		session.POST("/previous", qh.Previous)
		session.POST("/submit", qh.Submit)
		session.GET("/results", qh.Results)
	}

	return router
}
