package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/counsellor/internal/counsellor"
	"github.com/edgard/counsellor/internal/database"
	"github.com/edgard/counsellor/internal/text"
)

const modelTimeout = 2 * time.Minute

// NewChatHandler returns the default handler: any plain message is a
// question for the counsellor, answered with the sender's profile and the
// recent turns of their conversation in this chat. In groups only messages
// that mention the bot or reply to it are answered.
func NewChatHandler(deps HandlerDeps) bot.HandlerFunc {
	return chatHandler{deps}.Handle
}

type chatHandler struct {
	deps HandlerDeps
}

func (h chatHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "chat")

	msg, from := sender(update)
	if msg == nil || strings.TrimSpace(msg.Text) == "" {
		log.DebugContext(ctx, "Ignoring update without text")
		return
	}
	chatID := msg.Chat.ID
	private := msg.Chat.Type == models.ChatTypePrivate

	if name, target, ok := ParseCommand(msg.Text); ok {
		if !forThisBot(h.deps.Config, target) || (target == "" && !private) {
			log.DebugContext(ctx, "Ignoring command not addressed to the bot", "chat_id", chatID, "command", name)
			return
		}
		log.DebugContext(ctx, "Unknown command", "chat_id", chatID, "command", name)
		sendText(ctx, b, h.deps, chatID, h.deps.Config.Messages.Help)
		return
	}

	message, ok := addressed(h.deps.Config, msg)
	if !ok {
		log.DebugContext(ctx, "Ignoring group message not addressed to the bot", "chat_id", chatID)
		return
	}
	if message == "" {
		sendText(ctx, b, h.deps, chatID, h.deps.Config.Messages.Help)
		return
	}

	userID := UserID(from.ID)

	reply, ok := h.answer(ctx, b, chatID, userID, ConversationID(chatID, from.ID), message)
	if !ok {
		sendText(ctx, b, h.deps, chatID, h.deps.Config.Messages.GeneralError)
		return
	}
	sendText(ctx, b, h.deps, chatID, text.Plain(reply))
}

// answer stores the user turn, asks the counsellor and stores the reply
// unless it is the fallback text.
func (h chatHandler) answer(ctx context.Context, b *bot.Bot, chatID int64, userID, convID, message string) (string, bool) {
	log := h.deps.Logger.With("handler", "chat", "chat_id", chatID, "user_id", userID)

	conv, err := h.deps.Store.EnsureConversation(ctx, convID, userID, conversationTitle)
	if err != nil {
		log.ErrorContext(ctx, "Failed to load conversation", "error", err)
		return "", false
	}
	history, err := h.deps.Store.ListRecentMessages(ctx, conv.ID, counsellor.HistoryWindow)
	if err != nil {
		log.ErrorContext(ctx, "Failed to load history", "error", err)
		return "", false
	}
	profile, err := h.deps.Store.GetUserProfile(ctx, userID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to load profile", "error", err)
		return "", false
	}
	if _, err := h.deps.Store.AddMessage(ctx, conv.ID, database.RoleUser, message); err != nil {
		log.ErrorContext(ctx, "Failed to store message", "error", err)
		return "", false
	}

	stopTyping := keepTyping(ctx, b, h.deps, chatID)
	modelCtx, cancel := context.WithTimeout(ctx, modelTimeout)
	reply, status := h.deps.Counsellor.Chat(modelCtx, message, counsellor.ProfileFromRecord(profile), counsellor.TurnsFromMessages(history))
	cancel()
	stopTyping()

	if status == counsellor.StatusOK {
		if _, err := h.deps.Store.AddMessage(ctx, conv.ID, database.RoleAssistant, reply); err != nil {
			log.WarnContext(ctx, "Failed to store reply", "error", err)
		}
	}
	log.InfoContext(ctx, "Chat answered", "status", status, "history", len(history))
	return reply, true
}
