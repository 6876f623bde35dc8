// cmd/migrate/main.go
package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"

	"planora/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Usage: migrate [up|down|status|version|redo|reset] (default up)
func main() {
	cfg := config.MustLoad()

	command := "up"
	var args []string
	if len(os.Args) > 1 {
		command, args = os.Args[1], os.Args[2:]
	}

	db, err := sql.Open("pgx", cfg.DBConn)
	if err != nil {
		slog.Error("failed to open db", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	wd, err := os.Getwd()
	if err != nil {
		slog.Error("failed to get working directory", "error", err)
		os.Exit(1)
	}
	migrationsDir := filepath.Join(wd, "migrations")

	if err := goose.SetDialect("postgres"); err != nil {
		slog.Error("failed to set dialect", "error", err)
		os.Exit(1)
	}

	slog.Info("running migrations", "command", command, "dir", migrationsDir)
	if err := goose.RunContext(context.Background(), command, db, migrationsDir, args...); err != nil {
		slog.Error("migrations failed", "error", err)
		os.Exit(1)
	}
	slog.Info("✅ migrations done")
}
