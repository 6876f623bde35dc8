// internal/bot/webhook.go
package bot

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Webhook serves Telegram updates pushed to the HTTP API instead of polled.
func (b *Bot) Webhook(api API) gin.HandlerFunc {
	return func(c *gin.Context) {
		var update tgbotapi.Update
		if err := c.ShouldBindJSON(&update); err != nil {
			slog.Error("failed to parse telegram update", "error", err)
			c.Status(http.StatusBadRequest)
			return
		}
		if update.Message == nil {
			c.Status(http.StatusOK)
			return
		}

		chatID := update.Message.Chat.ID
		reply := b.Handle(c.Request.Context(), chatID, update.Message.Text)
		if _, err := api.Send(tgbotapi.NewMessage(chatID, reply)); err != nil {
			slog.Error("send failed", "error", err, "chat_id", chatID)
		}
		c.Status(http.StatusOK)
	}
}
