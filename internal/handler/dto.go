// internal/handler/dto.go
package handler

import (
	"time"

	"planora/internal/domain"
	"planora/internal/insights"
	"planora/internal/questionnaire"
)

// === DTO ===

type AnswersRequest struct {
	Answers map[string]domain.Value `json:"answers" validate:"required,min=1"`
}

type SessionResponse struct {
	SessionID string    `json:"session_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type DefinitionSummary struct {
	ID      domain.QuestionnaireID `json:"id"`
	Title   string                 `json:"title"`
	Version int                    `json:"version"`
	Steps   int                    `json:"steps"`
}

type StepResponse struct {
	Index     int                      `json:"index"`
	ID        string                   `json:"id"`
	Title     string                   `json:"title"`
	Questions []questionnaire.Question `json:"questions"`
}

// StateResponse is a questionnaire in progress as the client renders it.
type StateResponse struct {
	Questionnaire domain.QuestionnaireID    `json:"questionnaire"`
	Title         string                    `json:"title"`
	Version       int                       `json:"version"`
	Review        bool                      `json:"review"`
	Current       *StepResponse             `json:"current,omitempty"`
	VisibleSteps  []string                  `json:"visible_steps"`
	Answers       domain.Answers            `json:"answers"`
	Errors        questionnaire.FieldErrors `json:"errors,omitempty"`
}

type SubmissionResponse struct {
	ID        int64           `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	Answers   domain.Answers  `json:"answers"`
	Analysis  domain.Analysis `json:"analysis"`
}

type ResultsResponse struct {
	Submission *SubmissionResponse `json:"submission"`
	Report     insights.Report     `json:"report"`
}

type AnalysisResponse struct {
	Analysis domain.Analysis `json:"analysis"`
	Report   insights.Report `json:"report"`
}

func stateOf(m *questionnaire.Machine, errs questionnaire.FieldErrors) StateResponse {
	def := m.Definition()
	st := StateResponse{
		Questionnaire: def.ID,
		Title:         def.Title,
		Version:       def.Version,
		Review:        m.AtReview(),
		VisibleSteps:  []string{},
		Answers:       m.Answers(),
		Errors:        errs,
	}
	for i, s := range def.Steps {
		if m.StepVisible(i) {
			st.VisibleSteps = append(st.VisibleSteps, s.ID)
		}
	}
	if cur := m.Current(); cur != nil {
		st.Current = &StepResponse{
			Index:     m.Position(),
			ID:        cur.ID,
			Title:     cur.Title,
			Questions: m.VisibleQuestions(m.Position()),
		}
	}
	if st.Answers == nil {
		st.Answers = domain.Answers{}
	}
	return st
}

func summaryOf(d *questionnaire.Definition) DefinitionSummary {
	return DefinitionSummary{ID: d.ID, Title: d.Title, Version: d.Version, Steps: len(d.Steps)}
}
