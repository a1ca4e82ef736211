package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewStartHandler returns a handler for the /start command.
func NewStartHandler(deps HandlerDeps) bot.HandlerFunc {
	return staticHandler{deps: deps, name: "start", text: deps.Config.Messages.Welcome}.Handle
}

// NewHelpHandler returns a handler for the /help command.
func NewHelpHandler(deps HandlerDeps) bot.HandlerFunc {
	return staticHandler{deps: deps, name: "help", text: deps.Config.Messages.Help}.Handle
}

// staticHandler replies with a fixed configured text.
type staticHandler struct {
	deps HandlerDeps
	name string
	text string
}

func (h staticHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", h.name)

	msg, from := sender(update)
	if msg == nil {
		log.WarnContext(ctx, "Received update with nil message or sender")
		return
	}

	log.InfoContext(ctx, "Handling command", "chat_id", msg.Chat.ID, "user_id", from.ID)
	text := h.text
	if info := h.deps.Config.Telegram.BotInfo; info != nil && info.Username != "" {
		text = strings.ReplaceAll(text, "@botname", "@"+info.Username)
	}
	sendText(ctx, b, h.deps, msg.Chat.ID, text)
}
