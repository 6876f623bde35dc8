// cmd/bot/main.go
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"planora/internal/app"
	"planora/internal/bot"
	"planora/internal/config"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func main() {
	cfg := config.MustLoad()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	if cfg.TelegramToken == "" {
		slog.Error("TELEGRAM_BOT_TOKEN not set")
		os.Exit(1)
	}

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

	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		slog.Error("failed to initialise telegram bot", "error", err)
		os.Exit(1)
	}
	// Long polling does not work while a webhook is set.
	if _, err := api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		slog.Warn("failed to delete telegram webhook", "error", err)
	}

	slog.Info("bot started", "username", api.Self.UserName)
	bot.New(a.Questionnaires).Run(ctx, api)
	slog.Info("bot stopped")
}
