// internal/app/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"planora/internal/config"
	"planora/internal/questionnaire"
	"planora/internal/scoring"
	"planora/internal/scoring/client"
	"planora/internal/storage"
	"planora/internal/storage/memory"
	"planora/internal/storage/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"
)

// App holds the services shared by the HTTP API and the bot.
type App struct {
	Config         config.Config
	Store          storage.Storage
	Analyzer       *scoring.Service
	Questionnaires *questionnaire.Service

	pool *pgxpool.Pool
	now  func() time.Time
}

// New opens storage and builds the services described by cfg.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	registry, err := questionnaire.LoadRegistry()
	if err != nil {
		return nil, fmt.Errorf("load questionnaires: %w", err)
	}

	a := &App{Config: cfg, now: time.Now}

	switch cfg.StorageDriver {
	case config.DriverMemory:
		slog.Warn("using in-memory storage, drafts are lost on restart")
		a.Store = memory.NewStorage()
	default:
		pool, err := pgxpool.New(ctx, cfg.DBConn)
		if err != nil {
			return nil, fmt.Errorf("connect to db: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ping db: %w", err)
		}
		a.pool = pool
		a.Store = postgres.NewStorage(pool)
	}

	var remote scoring.Scorer
	if cfg.ScoringURL != "" {
		c := client.New(cfg.ScoringURL, cfg.ScoringTimeout)
		if err := c.Health(ctx); err != nil {
			slog.Warn("scoring service not reachable, local rules will answer until it is", "url", cfg.ScoringURL, "error", err)
		}
		remote = c
	}
	a.Analyzer = scoring.NewService(remote)
	a.Questionnaires = questionnaire.NewService(a.Store, registry, a.Analyzer)
	return a, nil
}

func (a *App) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}

// StartPurge schedules removal of drafts idle for longer than DraftTTL.
func (a *App) StartPurge() (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(a.Config.DraftPurgeSchedule, func() { a.PurgeDrafts(context.Background()) }); err != nil {
		return nil, fmt.Errorf("schedule draft purge %q: %w", a.Config.DraftPurgeSchedule, err)
	}
	c.Start()
	return c, nil
}

// PurgeDrafts deletes stale drafts once and reports how many went.
func (a *App) PurgeDrafts(ctx context.Context) int64 {
	cutoff := a.now().Add(-a.Config.DraftTTL)
	n, err := a.Store.PurgeDraftsBefore(ctx, cutoff)
	if err != nil {
		slog.Error("draft purge failed", "error", err)
		return 0
	}
	if n > 0 {
		slog.Info("purged stale drafts", "count", n, "cutoff", cutoff)
	}
	return n
}
