package handlers

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"

	"github.com/edgard/counsellor/internal/config"
)

const (
	// maxMessageLength is Telegram's limit for one text message.
	maxMessageLength = 4096
	typingInterval   = 4 * time.Second
	sendTimeout      = 10 * time.Second
	// conversationTitle names the conversation backing a Telegram chat.
	conversationTitle = "Telegram chat"
)

// UserID is the opaque user id of a Telegram account.
func UserID(telegramID int64) string {
	return "telegram:" + strconv.FormatInt(telegramID, 10)
}

// ConversationID is the stable conversation id of one user in one chat.
func ConversationID(chatID, telegramID int64) string {
	name := "telegram:" + strconv.FormatInt(chatID, 10) + ":" + strconv.FormatInt(telegramID, 10)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}

// ParseCommand splits "/name@bot args" into the command name and the bot
// it addresses. target is empty for a bare "/name".
func ParseCommand(text string) (name, target string, ok bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", "", false
	}
	word := text[1:]
	if i := strings.IndexAny(word, " \t\n"); i >= 0 {
		word = word[:i]
	}
	name, target, _ = strings.Cut(word, "@")
	return name, target, name != ""
}

// MatchCommand matches text messages invoking command, either bare or as
// /command@BotName for this bot. Groups send the suffixed form.
func MatchCommand(cfg *config.Config, command string) bot.MatchFunc {
	return func(update *models.Update) bool {
		if update == nil || update.Message == nil {
			return false
		}
		name, target, ok := ParseCommand(update.Message.Text)
		return ok && strings.EqualFold(name, command) && forThisBot(cfg, target)
	}
}

func botInfo(cfg *config.Config) *models.User {
	if cfg == nil {
		return nil
	}
	return cfg.Telegram.BotInfo
}

// forThisBot reports whether a command suffix names this bot. An empty
// suffix addresses every bot in the chat.
func forThisBot(cfg *config.Config, target string) bool {
	if target == "" {
		return true
	}
	me := botInfo(cfg)
	return me != nil && me.Username != "" && strings.EqualFold(target, me.Username)
}

// addressed returns the text of msg meant for the bot. Private chats always
// are; in groups the bot must be mentioned or replied to, and the mention is
// removed from the text.
func addressed(cfg *config.Config, msg *models.Message) (string, bool) {
	text := strings.TrimSpace(msg.Text)
	if msg.Chat.Type == models.ChatTypePrivate {
		return text, true
	}
	me := botInfo(cfg)
	if me == nil {
		return "", false
	}
	if reply := msg.ReplyToMessage; reply != nil && reply.From != nil && reply.From.ID == me.ID {
		return text, true
	}
	if me.Username == "" {
		return "", false
	}
	mention := regexp.MustCompile(`(?i)(^|\s)@` + regexp.QuoteMeta(me.Username) + `\b`)
	if !mention.MatchString(text) {
		return "", false
	}
	return strings.TrimSpace(mention.ReplaceAllString(text, "$1")), true
}

// CommandArgument returns the text after the command word, trimmed.
func CommandArgument(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.IndexFunc(text, func(r rune) bool { return r == ' ' || r == '\n' }); i >= 0 {
		return strings.TrimSpace(text[i+1:])
	}
	return ""
}

// SplitMessage cuts text into chunks Telegram accepts, preferring line
// breaks and never splitting a rune.
func SplitMessage(text string, limit int) []string {
	if limit <= 0 {
		limit = maxMessageLength
	}
	var chunks []string
	for utf8.RuneCountInString(text) > limit {
		cut := byteOffset(text, limit)
		if nl := strings.LastIndexByte(text[:cut], '\n'); nl > 0 {
			cut = nl
		}
		chunks = append(chunks, text[:cut])
		text = strings.TrimLeft(text[cut:], "\n")
	}
	if text != "" || len(chunks) == 0 {
		chunks = append(chunks, text)
	}
	return chunks
}

func byteOffset(s string, runes int) int {
	i := 0
	for n := 0; n < runes && i < len(s); n++ {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return i
}

// sendText replies in chatID, splitting long texts.
func sendText(ctx context.Context, b *bot.Bot, deps HandlerDeps, chatID int64, text string) {
	for _, chunk := range SplitMessage(text, maxMessageLength) {
		sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
		_, err := b.SendMessage(sendCtx, &bot.SendMessageParams{ChatID: chatID, Text: chunk})
		cancel()
		if err != nil {
			deps.Logger.ErrorContext(ctx, "Failed to send message", "error", err, "chat_id", chatID)
			return
		}
	}
}

// keepTyping shows the typing indicator until the returned stop is called.
func keepTyping(ctx context.Context, b *bot.Bot, deps HandlerDeps, chatID int64) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(typingInterval)
		defer ticker.Stop()
		for {
			_, err := b.SendChatAction(ctx, &bot.SendChatActionParams{ChatID: chatID, Action: models.ChatActionTyping})
			if err != nil && ctx.Err() == nil {
				deps.Logger.DebugContext(ctx, "Typing action failed", "error", err, "chat_id", chatID)
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	return func() {
		cancel()
		<-done
	}
}

// sender returns the message and its author, or nil when the update is not
// a message from a user.
func sender(update *models.Update) (*models.Message, *models.User) {
	if update == nil || update.Message == nil || update.Message.From == nil {
		return nil, nil
	}
	return update.Message, update.Message.From
}
