// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"planora/internal/app"
	"planora/internal/auth"
	"planora/internal/bot"
	"planora/internal/config"
	"planora/internal/handler"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func main() {
	cfg := config.MustLoad()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	purge, err := a.StartPurge()
	if err != nil {
		slog.Error("failed to schedule draft purge", "error", err)
		os.Exit(1)
	}
	defer purge.Stop()

	gin.SetMode(gin.ReleaseMode)
	router := handler.NewRouter(handler.RouterDeps{
		Questionnaires: a.Questionnaires,
		Analyzer:       a.Analyzer,
		Tokens:         auth.NewTokenService(cfg),
		CORSOrigins:    cfg.CORSOrigins,
	})

	// Telegram webhook
	if cfg.TelegramToken != "" && cfg.TelegramWebhookURL != "" {
		api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
		if err != nil {
			slog.Error("failed to initialise telegram bot", "error", err)
			os.Exit(1)
		}
		webhookURL := cfg.TelegramWebhookURL + "/telegram"
		if _, err := api.MakeRequest("setWebhook", tgbotapi.Params{"url": webhookURL}); err != nil {
			slog.Error("failed to set telegram webhook", "error", err)
			os.Exit(1)
		}
		slog.Info("telegram webhook set", "url", webhookURL)
		router.POST("/telegram", bot.New(a.Questionnaires).Webhook(api))
	}

	srv := &http.Server{Addr: cfg.ServerPort, Handler: router}
	go func() {
		slog.Info("server starting", "port", cfg.ServerPort, "storage", cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
	slog.Info("server stopped")
}
