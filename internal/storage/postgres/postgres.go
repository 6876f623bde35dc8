// internal/storage/postgres/postgres.go
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"planora/internal/domain"
	"planora/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Storage struct {
	db *pgxpool.Pool
}

func NewStorage(db *pgxpool.Pool) *Storage {
	return &Storage{db: db}
}

// === DraftStorage ===

func (s *Storage) LoadDraft(ctx context.Context, key storage.DraftKey) (*storage.Draft, error) {
	var (
		d   = storage.Draft{Key: key}
		raw []byte
	)
	err := s.db.QueryRow(ctx, `
		SELECT schema_version, definition_version, step, answers, updated_at
		FROM drafts
		WHERE session_id = $1 AND questionnaire = $2
	`, key.Session, string(key.Questionnaire)).Scan(&d.SchemaVersion, &d.DefinitionVersion, &d.Step, &raw, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("load draft: %w", err)
	}
	if err := json.Unmarshal(raw, &d.Answers); err != nil {
		return nil, fmt.Errorf("decode draft answers: %w", err)
	}
	return &d, nil
}

func (s *Storage) SaveDraft(ctx context.Context, d storage.Draft) error {
	raw, err := json.Marshal(d.Answers)
	if err != nil {
		return fmt.Errorf("encode draft answers: %w", err)
	}
	if d.UpdatedAt.IsZero() {
		d.UpdatedAt = time.Now()
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO drafts (session_id, questionnaire, schema_version, definition_version, step, answers, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (session_id, questionnaire)
		DO UPDATE SET schema_version = EXCLUDED.schema_version,
		              definition_version = EXCLUDED.definition_version,
		              step = EXCLUDED.step,
		              answers = EXCLUDED.answers,
		              updated_at = EXCLUDED.updated_at
	`, d.Key.Session, string(d.Key.Questionnaire), d.SchemaVersion, d.DefinitionVersion, d.Step, raw, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

func (s *Storage) DeleteDraft(ctx context.Context, key storage.DraftKey) error {
	_, err := s.db.Exec(ctx, `
		DELETE FROM drafts WHERE session_id = $1 AND questionnaire = $2
	`, key.Session, string(key.Questionnaire))
	if err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}

func (s *Storage) PurgeDraftsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.Exec(ctx, `DELETE FROM drafts WHERE updated_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge drafts: %w", err)
	}
	slog.Debug("PurgeDraftsBefore completed", "cutoff", cutoff, "deleted", result.RowsAffected())
	return result.RowsAffected(), nil
}

// === SubmissionStorage ===

func (s *Storage) SaveSubmission(ctx context.Context, sub *storage.Submission) error {
	answers, err := json.Marshal(sub.Answers)
	if err != nil {
		return fmt.Errorf("encode submission answers: %w", err)
	}
	analysis, err := json.Marshal(sub.Analysis)
	if err != nil {
		return fmt.Errorf("encode submission analysis: %w", err)
	}

	err = s.db.QueryRow(ctx, `
		INSERT INTO submissions (session_id, questionnaire, answers, analysis)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, sub.Session, string(sub.Questionnaire), answers, analysis).Scan(&sub.ID, &sub.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

func (s *Storage) LatestSubmission(ctx context.Context, session string, q domain.QuestionnaireID) (*storage.Submission, error) {
	sub := storage.Submission{Session: session, Questionnaire: q}
	var answers, analysis []byte
	err := s.db.QueryRow(ctx, `
		SELECT id, answers, analysis, created_at
		FROM submissions
		WHERE session_id = $1 AND questionnaire = $2
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, session, string(q)).Scan(&sub.ID, &answers, &analysis, &sub.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("find submission: %w", err)
	}
	if err := json.Unmarshal(answers, &sub.Answers); err != nil {
		return nil, fmt.Errorf("decode submission answers: %w", err)
	}
	if err := json.Unmarshal(analysis, &sub.Analysis); err != nil {
		return nil, fmt.Errorf("decode submission analysis: %w", err)
	}
	return &sub, nil
}
