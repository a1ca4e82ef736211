package handlers

import (
	"context"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewResetHandler returns a handler for /reset, which forgets the sender's
// conversation in this chat.
func NewResetHandler(deps HandlerDeps) bot.HandlerFunc {
	return resetHandler{deps}.Handle
}

type resetHandler struct {
	deps HandlerDeps
}

func (h resetHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "reset")

	msg, from := sender(update)
	if msg == nil {
		log.ErrorContext(ctx, "Reset handler called with nil Message or From")
		return
	}
	chatID := msg.Chat.ID

	timeoutCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	deleted, err := h.deps.Store.DeleteConversation(timeoutCtx, ConversationID(chatID, from.ID), UserID(from.ID))
	if err != nil {
		log.ErrorContext(ctx, "Failed to reset conversation", "error", err, "chat_id", chatID)
		sendText(ctx, b, h.deps, chatID, h.deps.Config.Messages.GeneralError)
		return
	}

	log.InfoContext(ctx, "Conversation reset", "chat_id", chatID, "user_id", from.ID, "existed", deleted)
	sendText(ctx, b, h.deps, chatID, h.deps.Config.Messages.ConversationDone)
}
