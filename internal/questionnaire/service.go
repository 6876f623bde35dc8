// internal/questionnaire/service.go
package questionnaire

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"planora/internal/domain"
	"planora/internal/storage"
)

// Analyzer scores a decoded submission.
type Analyzer interface {
	Analyze(ctx context.Context, sub domain.Submission) (domain.Analysis, error)
}

// Outcome is a stored submission together with its typed record.
type Outcome struct {
	Stored *storage.Submission
	Record domain.Submission
}

// Service runs questionnaires for sessions, saving the whole answer set after
// every change so a session can resume where it left off.
type Service struct {
	store    storage.Storage
	registry *Registry
	analyzer Analyzer
	now      func() time.Time
}

func NewService(store storage.Storage, registry *Registry, analyzer Analyzer) *Service {
	return &Service{
		store:    store,
		registry: registry,
		analyzer: analyzer,
		now:      time.Now,
	}
}

func (s *Service) Registry() *Registry { return s.registry }

// Resume restores the session's draft of questionnaire id, or starts a new
// one. Drafts written under another schema or definition version are dropped.
func (s *Service) Resume(ctx context.Context, session string, id domain.QuestionnaireID) (*Machine, error) {
	def, err := s.registry.Get(id)
	if err != nil {
		return nil, err
	}
	key := storage.DraftKey{Session: session, Questionnaire: id}

	d, err := s.store.LoadDraft(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return Start(def), nil
	}
	if err != nil {
		return nil, fmt.Errorf("resume %s: %w", id, err)
	}

	if d.SchemaVersion != storage.DraftSchemaVersion || d.DefinitionVersion != def.Version {
		slog.Warn("discarding stale draft",
			"session_id", session,
			"questionnaire", id,
			"schema_version", d.SchemaVersion,
			"definition_version", d.DefinitionVersion)
		if err := s.store.DeleteDraft(ctx, key); err != nil {
			return nil, fmt.Errorf("discard stale draft: %w", err)
		}
		return Start(def), nil
	}
	return NewMachine(def, d.Answers, d.Step), nil
}

func (s *Service) save(ctx context.Context, session string, m *Machine) error {
	def := m.Definition()
	err := s.store.SaveDraft(ctx, storage.Draft{
		Key:               storage.DraftKey{Session: session, Questionnaire: def.ID},
		SchemaVersion:     storage.DraftSchemaVersion,
		DefinitionVersion: def.Version,
		Step:              m.Position(),
		Answers:           m.Answers(),
		UpdatedAt:         s.now(),
	})
	if err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

// Answer records answers and saves the draft. Nothing is saved when any id is
// unknown.
func (s *Service) Answer(ctx context.Context, session string, id domain.QuestionnaireID, values map[string]Value) (*Machine, error) {
	m, err := s.Resume(ctx, session, id)
	if err != nil {
		return nil, err
	}
	for qid, v := range values {
		if err := m.Set(qid, v); err != nil {
			return nil, err
		}
	}
	if err := s.save(ctx, session, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Next advances the draft one visible step. Declined moves return the field
// errors and leave the draft where it was.
func (s *Service) Next(ctx context.Context, session string, id domain.QuestionnaireID) (*Machine, FieldErrors, error) {
	m, err := s.Resume(ctx, session, id)
	if err != nil {
		return nil, nil, err
	}
	errs, moved := m.Next()
	if !moved {
		return m, errs, nil
	}
	if err := s.save(ctx, session, m); err != nil {
		return nil, nil, err
	}
	return m, nil, nil
}

func (s *Service) Previous(ctx context.Context, session string, id domain.QuestionnaireID) (*Machine, error) {
	m, err := s.Resume(ctx, session, id)
	if err != nil {
		return nil, err
	}
	if !m.Previous() {
		return m, nil
	}
	if err := s.save(ctx, session, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Submit finalizes the draft from review, scores it and records the
// submission. The draft is removed once the submission is stored. If a step
// turns out to be incomplete the draft is moved there and its errors returned.
func (s *Service) Submit(ctx context.Context, session string, id domain.QuestionnaireID) (*Outcome, *Machine, error) {
	m, err := s.Resume(ctx, session, id)
	if err != nil {
		return nil, nil, err
	}

	final, err := m.Finalize()
	if err != nil {
		var fe FieldErrors
		if errors.As(err, &fe) {
			if serr := s.save(ctx, session, m); serr != nil {
				return nil, nil, serr
			}
		}
		return nil, m, err
	}

	record, err := Decode(id, final)
	if err != nil {
		return nil, m, err
	}

	analysis, err := s.analyzer.Analyze(ctx, record)
	if err != nil {
		return nil, m, fmt.Errorf("score %s: %w", id, err)
	}

	sub := &storage.Submission{
		Session:       session,
		Questionnaire: id,
		Answers:       final,
		Analysis:      analysis,
	}
	if err := s.store.SaveSubmission(ctx, sub); err != nil {
		return nil, m, fmt.Errorf("record submission: %w", err)
	}
	if err := s.store.DeleteDraft(ctx, storage.DraftKey{Session: session, Questionnaire: id}); err != nil {
		// The submission is already stored; a leftover draft is purged later.
		slog.Error("failed to clear draft after submit", "session_id", session, "questionnaire", id, "error", err)
	}

	slog.Info("questionnaire submitted", "session_id", session, "questionnaire", id, "submission_id", sub.ID)
	return &Outcome{Stored: sub, Record: record}, m, nil
}

// Discard drops the session's draft of questionnaire id.
func (s *Service) Discard(ctx context.Context, session string, id domain.QuestionnaireID) error {
	if _, err := s.registry.Get(id); err != nil {
		return err
	}
	if err := s.store.DeleteDraft(ctx, storage.DraftKey{Session: session, Questionnaire: id}); err != nil {
		return fmt.Errorf("discard draft: %w", err)
	}
	return nil
}

// Results returns the session's latest submission of questionnaire id, or
// storage.ErrNotFound.
func (s *Service) Results(ctx context.Context, session string, id domain.QuestionnaireID) (*Outcome, error) {
	if _, err := s.registry.Get(id); err != nil {
		return nil, err
	}
	sub, err := s.store.LatestSubmission(ctx, session, id)
	if err != nil {
		return nil, err
	}
	record, err := Decode(id, sub.Answers)
	if err != nil {
		return nil, fmt.Errorf("decode stored submission %d: %w", sub.ID, err)
	}
	return &Outcome{Stored: sub, Record: record}, nil
}
