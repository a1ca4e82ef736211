package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/counsellor/internal/counsellor"
)

// universitiesLimit is how many entries /universities lists.
const universitiesLimit = 10

// NewCareersHandler returns a handler for /careers [field].
func NewCareersHandler(deps HandlerDeps) bot.HandlerFunc {
	return careersHandler{deps}.Handle
}

type careersHandler struct {
	deps HandlerDeps
}

func (h careersHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg, from := sender(update)
	if msg == nil {
		return
	}
	log := h.deps.Logger.With("handler", "careers", "chat_id", msg.Chat.ID)

	profile, ok := loadProfile(ctx, h.deps, from.ID)
	if !ok {
		sendText(ctx, b, h.deps, msg.Chat.ID, h.deps.Config.Messages.GeneralError)
		return
	}

	stopTyping := keepTyping(ctx, b, h.deps, msg.Chat.ID)
	careers, status := h.deps.Counsellor.SuggestCareerPaths(ctx, profile, CommandArgument(msg.Text))
	stopTyping()

	log.InfoContext(ctx, "Careers suggested", "status", status, "count", len(careers))
	sendText(ctx, b, h.deps, msg.Chat.ID, listReply(h.deps, status, len(careers), func() string { return FormatCareers(careers) }))
}

// NewCoursesHandler returns a handler for /courses [goal].
func NewCoursesHandler(deps HandlerDeps) bot.HandlerFunc {
	return coursesHandler{deps}.Handle
}

type coursesHandler struct {
	deps HandlerDeps
}

func (h coursesHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg, from := sender(update)
	if msg == nil {
		return
	}
	log := h.deps.Logger.With("handler", "courses", "chat_id", msg.Chat.ID)

	profile, ok := loadProfile(ctx, h.deps, from.ID)
	if !ok {
		sendText(ctx, b, h.deps, msg.Chat.ID, h.deps.Config.Messages.GeneralError)
		return
	}

	stopTyping := keepTyping(ctx, b, h.deps, msg.Chat.ID)
	courses, status := h.deps.Counsellor.RecommendCourses(ctx, profile, CommandArgument(msg.Text))
	stopTyping()

	log.InfoContext(ctx, "Courses recommended", "status", status, "count", len(courses))
	sendText(ctx, b, h.deps, msg.Chat.ID, listReply(h.deps, status, len(courses), func() string { return FormatCourses(courses) }))
}

// NewUniversitiesHandler returns a handler for /universities <country>.
func NewUniversitiesHandler(deps HandlerDeps) bot.HandlerFunc {
	return universitiesHandler{deps}.Handle
}

type universitiesHandler struct {
	deps HandlerDeps
}

func (h universitiesHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg, _ := sender(update)
	if msg == nil {
		return
	}
	country := CommandArgument(msg.Text)
	if country == "" {
		sendText(ctx, b, h.deps, msg.Chat.ID, h.deps.Config.Messages.ProvideArgument)
		return
	}

	unis := h.deps.Directory.SearchUniversities(ctx, country, "", universitiesLimit)
	h.deps.Logger.InfoContext(ctx, "Universities listed", "handler", "universities", "country", country, "count", len(unis))
	if len(unis) == 0 {
		sendText(ctx, b, h.deps, msg.Chat.ID, h.deps.Config.Messages.NoResults)
		return
	}
	sendText(ctx, b, h.deps, msg.Chat.ID, FormatUniversities(country, unis))
}

func loadProfile(ctx context.Context, deps HandlerDeps, telegramID int64) (*counsellor.Profile, bool) {
	rec, err := deps.Store.GetUserProfile(ctx, UserID(telegramID))
	if err != nil {
		deps.Logger.ErrorContext(ctx, "Failed to load profile", "error", err, "telegram_user_id", telegramID)
		return nil, false
	}
	return counsellor.ProfileFromRecord(rec), true
}

// listReply picks the configured text for failed or empty results.
func listReply(deps HandlerDeps, status counsellor.Status, n int, render func() string) string {
	switch {
	case status == counsellor.StatusModelUnavailable:
		return deps.Config.Messages.GeneralError
	case n == 0:
		return deps.Config.Messages.NoResults
	default:
		return render()
	}
}
