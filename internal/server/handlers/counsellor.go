package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edgard/counsellor/internal/apierr"
	"github.com/edgard/counsellor/internal/counsellor"
	"github.com/edgard/counsellor/internal/database"
	"github.com/edgard/counsellor/internal/server/middleware"
)

// ChatRequest is a message to the counsellor. With a conversation ID the
// history is loaded from the store and the exchange is persisted; otherwise
// the caller supplies the history.
type ChatRequest struct {
	Message             string            `json:"message" binding:"required,max=4000"`
	ConversationHistory []counsellor.Turn `json:"conversation_history" binding:"max=100"`
	ConversationID      string            `json:"conversation_id"`
}

// ChatResponse carries the counsellor's reply.
type ChatResponse struct {
	Response       string            `json:"response"`
	Status         counsellor.Status `json:"status"`
	ConversationID string            `json:"conversation_id,omitempty"`
	Timestamp      string            `json:"timestamp"`
}

// CareersRequest narrows career suggestions to a field.
type CareersRequest struct {
	FieldOfInterest string `json:"field_of_interest" binding:"max=200"`
}

// CoursesRequest narrows course recommendations to a goal.
type CoursesRequest struct {
	CareerGoal string `json:"career_goal" binding:"max=200"`
}

// DocumentRequest is a document submitted for feedback.
type DocumentRequest struct {
	Text         string `json:"text" binding:"required,max=50000"`
	DocumentType string `json:"document_type" binding:"max=50"`
}

// CounsellorHandler exposes the counselling operations.
type CounsellorHandler struct {
	deps Deps
}

// NewCounsellorHandler creates the counsellor handler.
func NewCounsellorHandler(deps Deps) *CounsellorHandler { return &CounsellorHandler{deps: deps} }

// Chat answers a message using the caller's profile as context.
func (h *CounsellorHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := bindJSON(c, &req); err != nil {
		RespondError(c, h.deps.Logger, err)
		return
	}
	ctx := c.Request.Context()
	userID := middleware.UserID(c)

	profile, err := h.profile(c)
	if err != nil {
		RespondError(c, h.deps.Logger, err)
		return
	}

	history := req.ConversationHistory
	if req.ConversationID != "" {
		conv, err := h.deps.Store.GetConversation(ctx, req.ConversationID, userID)
		if err != nil {
			RespondError(c, h.deps.Logger, err)
			return
		}
		if conv == nil {
			RespondError(c, h.deps.Logger, apierr.NotFound("Conversation not found"))
			return
		}
		msgs, err := h.deps.Store.ListRecentMessages(ctx, conv.ID, counsellor.HistoryWindow)
		if err != nil {
			RespondError(c, h.deps.Logger, err)
			return
		}
		history = counsellor.TurnsFromMessages(msgs)
		if _, err := h.deps.Store.AddMessage(ctx, conv.ID, database.RoleUser, req.Message); err != nil {
			RespondError(c, h.deps.Logger, err)
			return
		}
	}

	reply, status := h.deps.Counsellor.Chat(ctx, req.Message, profile, history)

	// Fallback replies are not part of the conversation.
	if req.ConversationID != "" && status == counsellor.StatusOK {
		if _, err := h.deps.Store.AddMessage(ctx, req.ConversationID, database.RoleAssistant, reply); err != nil {
			h.deps.Logger.WarnContext(ctx, "Failed to store assistant reply",
				"conversation_id", req.ConversationID, "error", err)
		}
	}

	RespondOK(c, ChatResponse{
		Response:       reply,
		Status:         status,
		ConversationID: req.ConversationID,
		Timestamp:      now().Format(time.RFC3339),
	})
}

// Careers suggests career paths.
func (h *CounsellorHandler) Careers(c *gin.Context) {
	var req CareersRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		RespondError(c, h.deps.Logger, err)
		return
	}
	profile, err := h.profile(c)
	if err != nil {
		RespondError(c, h.deps.Logger, err)
		return
	}
	careers, status := h.deps.Counsellor.SuggestCareerPaths(c.Request.Context(), profile, req.FieldOfInterest)
	RespondOK(c, gin.H{"count": len(careers), "career_paths": careers, "status": status})
}

// Courses recommends courses and degree programs.
func (h *CounsellorHandler) Courses(c *gin.Context) {
	var req CoursesRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		RespondError(c, h.deps.Logger, err)
		return
	}
	profile, err := h.profile(c)
	if err != nil {
		RespondError(c, h.deps.Logger, err)
		return
	}
	courses, status := h.deps.Counsellor.RecommendCourses(c.Request.Context(), profile, req.CareerGoal)
	RespondOK(c, gin.H{"count": len(courses), "courses": courses, "status": status})
}

// AnalyzeDocument returns feedback on a submitted document.
func (h *CounsellorHandler) AnalyzeDocument(c *gin.Context) {
	var req DocumentRequest
	if err := bindJSON(c, &req); err != nil {
		RespondError(c, h.deps.Logger, err)
		return
	}
	analysis, status := h.deps.Counsellor.AnalyzeDocument(c.Request.Context(), req.Text, req.DocumentType)
	RespondOK(c, gin.H{
		"analysis":     analysis.Analysis,
		"strengths":    analysis.Strengths,
		"improvements": analysis.Improvements,
		"suggestions":  analysis.Suggestions,
		"status":       status,
	})
}

// profile loads the caller's profile; a missing profile is not an error.
func (h *CounsellorHandler) profile(c *gin.Context) (*counsellor.Profile, error) {
	rec, err := h.deps.Store.GetUserProfile(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		return nil, err
	}
	return counsellor.ProfileFromRecord(rec), nil
}

// bindOptionalJSON accepts an empty body as the zero request.
func bindOptionalJSON(c *gin.Context, dst any) error {
	if c.Request.ContentLength == 0 {
		return nil
	}
	return bindJSON(c, dst)
}
