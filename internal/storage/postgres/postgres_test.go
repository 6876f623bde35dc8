package postgres

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"planora/internal/domain"
	"planora/internal/storage"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStorage migrates the database at DATABASE_URL and returns a storage
// on it. Tests are skipped when the variable is unset.
func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, goose.SetDialect("postgres"))
	require.NoError(t, goose.Up(db, "../../../migrations"))

	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return NewStorage(pool)
}

func TestDrafts(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	key := storage.DraftKey{Session: uuid.NewString(), Questionnaire: domain.Investment}

	_, err := s.LoadDraft(ctx, key)
	require.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, s.SaveDraft(ctx, storage.Draft{
		Key:               key,
		SchemaVersion:     storage.DraftSchemaVersion,
		DefinitionVersion: 1,
		Step:              1,
		Answers:           domain.Answers{"riskAppetite": domain.Text("Medium")},
	}))

	// A second save for the same key replaces the first.
	require.NoError(t, s.SaveDraft(ctx, storage.Draft{
		Key:               key,
		SchemaVersion:     storage.DraftSchemaVersion,
		DefinitionVersion: 2,
		Step:              3,
		Answers: domain.Answers{
			"riskAppetite":       domain.Text("High"),
			"currentInvestments": domain.Choices("Stocks", "Gold"),
		},
	}))

	d, err := s.LoadDraft(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 2, d.DefinitionVersion)
	assert.Equal(t, 3, d.Step)
	assert.Equal(t, "High", d.Answers.Text("riskAppetite"))
	assert.Equal(t, []string{"Stocks", "Gold"}, d.Answers["currentInvestments"].Choices)
	assert.WithinDuration(t, time.Now(), d.UpdatedAt, time.Minute)

	require.NoError(t, s.DeleteDraft(ctx, key))
	_, err = s.LoadDraft(ctx, key)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestPurgeDraftsBefore(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	old := storage.DraftKey{Session: uuid.NewString(), Questionnaire: domain.Goals}
	fresh := storage.DraftKey{Session: uuid.NewString(), Questionnaire: domain.Goals}

	stale := time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveDraft(ctx, storage.Draft{Key: old, SchemaVersion: 1, DefinitionVersion: 1, UpdatedAt: stale}))
	require.NoError(t, s.SaveDraft(ctx, storage.Draft{Key: fresh, SchemaVersion: 1, DefinitionVersion: 1}))
	t.Cleanup(func() { _ = s.DeleteDraft(ctx, fresh) })

	n, err := s.PurgeDraftsBefore(ctx, stale.Add(time.Hour))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, int64(1))

	_, err = s.LoadDraft(ctx, old)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = s.LoadDraft(ctx, fresh)
	assert.NoError(t, err)
}

func TestSubmissions(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	session := uuid.NewString()

	_, err := s.LatestSubmission(ctx, session, domain.Debt)
	require.ErrorIs(t, err, storage.ErrNotFound)

	first := &storage.Submission{
		Session:       session,
		Questionnaire: domain.Debt,
		Answers:       domain.Answers{"monthlyIncome": domain.Text("50000")},
		Analysis:      domain.Analysis{Notice: "first"},
	}
	require.NoError(t, s.SaveSubmission(ctx, first))
	assert.NotZero(t, first.ID)
	assert.False(t, first.CreatedAt.IsZero())

	second := &storage.Submission{
		Session:       session,
		Questionnaire: domain.Debt,
		Answers:       domain.Answers{"monthlyIncome": domain.Text("60000")},
		Analysis:      domain.Analysis{Notice: "second"},
	}
	require.NoError(t, s.SaveSubmission(ctx, second))

	got, err := s.LatestSubmission(ctx, session, domain.Debt)
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)
	assert.Equal(t, "60000", got.Answers.Text("monthlyIncome"))
	assert.Equal(t, "second", got.Analysis.Notice)

	_, err = s.LatestSubmission(ctx, session, domain.Goals)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
