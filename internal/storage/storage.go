// internal/storage/storage.go
package storage

import (
	"context"
	"errors"
	"time"

	"planora/internal/domain"
)

var ErrNotFound = errors.New("not found")

// DraftKey addresses one in-progress questionnaire of one session.
type DraftKey struct {
	Session       string
	Questionnaire domain.QuestionnaireID
}

// DraftSchemaVersion is bumped whenever the stored draft layout changes.
const DraftSchemaVersion = 1

// Draft is a resumable snapshot of a questionnaire in progress.
type Draft struct {
	Key               DraftKey
	SchemaVersion     int
	DefinitionVersion int
	Step              int
	Answers           domain.Answers
	UpdatedAt         time.Time
}

// Submission is a finalized questionnaire together with its analysis.
type Submission struct {
	ID            int64
	Session       string
	Questionnaire domain.QuestionnaireID
	Answers       domain.Answers
	Analysis      domain.Analysis
	CreatedAt     time.Time
}

type DraftStorage interface {
	LoadDraft(ctx context.Context, key DraftKey) (*Draft, error)
	SaveDraft(ctx context.Context, d Draft) error
	DeleteDraft(ctx context.Context, key DraftKey) error
	PurgeDraftsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type SubmissionStorage interface {
	SaveSubmission(ctx context.Context, s *Submission) error
	LatestSubmission(ctx context.Context, session string, q domain.QuestionnaireID) (*Submission, error)
}

// Storage is everything the questionnaire service persists.
type Storage interface {
	DraftStorage
	SubmissionStorage
}
