package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMustLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "STORAGE_DRIVER", "JWT_EXPIRES_IN", "DRAFT_TTL", "SCORING_URL", "LOG_LEVEL", "CORS_ORIGINS"} {
		t.Setenv(k, "")
	}

	cfg := MustLoad()
	assert.Equal(t, ":8080", cfg.ServerPort)
	assert.Equal(t, DriverPostgres, cfg.StorageDriver)
	assert.Equal(t, 72*time.Hour, cfg.JWTExpiresIn)
	assert.Equal(t, 72*time.Hour, cfg.DraftTTL)
	assert.Equal(t, 10*time.Second, cfg.ScoringTimeout)
	assert.Empty(t, cfg.ScoringURL)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.CORSOrigins)
}

func TestMustLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("DRAFT_TTL", "30m")
	t.Setenv("SCORING_TIMEOUT", "not-a-duration")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ORIGINS", " https://planora.app , ,https://www.planora.app")

	cfg := MustLoad()
	assert.Equal(t, ":9090", cfg.ServerPort)
	assert.Equal(t, DriverMemory, cfg.StorageDriver)
	assert.Equal(t, 30*time.Minute, cfg.DraftTTL)
	assert.Equal(t, 10*time.Second, cfg.ScoringTimeout)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, []string{"https://planora.app", "https://www.planora.app"}, cfg.CORSOrigins)
}
