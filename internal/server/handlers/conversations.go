package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edgard/counsellor/internal/apierr"
	"github.com/edgard/counsellor/internal/database"
	"github.com/edgard/counsellor/internal/server/middleware"
)

// ConversationResponse describes one conversation.
type ConversationResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MessageResponse describes one stored message.
type MessageResponse struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// ConversationRequest creates or renames a conversation.
type ConversationRequest struct {
	Title string `json:"title" binding:"max=200"`
}

// MessageRequest appends a message to a conversation.
type MessageRequest struct {
	Role    string `json:"role" binding:"required,oneof=user assistant"`
	Content string `json:"content" binding:"required,max=20000"`
}

func conversationResponse(c *database.Conversation) ConversationResponse {
	return ConversationResponse{ID: c.ID, Title: c.Title, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
}

func messageResponse(m *database.Message) MessageResponse {
	return MessageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		Role:           m.Role,
		Content:        m.Content,
		CreatedAt:      m.CreatedAt,
	}
}

// ConversationHandler manages stored conversations. Every operation is
// scoped to the conversations of the caller.
type ConversationHandler struct {
	deps Deps
}

// NewConversationHandler creates the conversation handler.
func NewConversationHandler(deps Deps) *ConversationHandler {
	return &ConversationHandler{deps: deps}
}

// List returns the caller's most recent conversations.
func (h *ConversationHandler) List(c *gin.Context) {
	limit, err := queryLimit(c, "limit", 20, 1, 100)
	if err != nil {
		RespondError(c, h.deps.Logger, err)
		return
	}
	convs, err := h.deps.Store.ListConversations(c.Request.Context(), middleware.UserID(c), limit)
	if err != nil {
		RespondError(c, h.deps.Logger, err)
		return
	}
	out := make([]ConversationResponse, 0, len(convs))
	for i := range convs {
		out = append(out, conversationResponse(&convs[i]))
	}
	RespondOK(c, gin.H{"conversations": out})
}

// Create starts a conversation. The title may come from the body or the
// title query parameter.
func (h *ConversationHandler) Create(c *gin.Context) {
	var req ConversationRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		RespondError(c, h.deps.Logger, err)
		return
	}
	if req.Title == "" {
		req.Title = c.Query("title")
	}
	conv, err := h.deps.Store.CreateConversation(c.Request.Context(), middleware.UserID(c), req.Title)
	if err != nil {
		RespondError(c, h.deps.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, conversationResponse(conv))
}

// Rename changes a conversation's title.
func (h *ConversationHandler) Rename(c *gin.Context) {
	var req ConversationRequest
	if err := bindJSON(c, &req); err != nil {
		RespondError(c, h.deps.Logger, err)
		return
	}
	if req.Title == "" {
		RespondError(c, h.deps.Logger, apierr.BadRequest(errTitleRequired))
		return
	}
	conv, err := h.deps.Store.UpdateConversationTitle(c.Request.Context(), c.Param("id"), middleware.UserID(c), req.Title)
	if err != nil {
		RespondError(c, h.deps.Logger, err)
		return
	}
	RespondOK(c, conversationResponse(conv))
}

// Delete removes a conversation and its messages.
func (h *ConversationHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	deleted, err := h.deps.Store.DeleteConversation(c.Request.Context(), id, middleware.UserID(c))
	if err != nil {
		RespondError(c, h.deps.Logger, err)
		return
	}
	if !deleted {
		RespondError(c, h.deps.Logger, apierr.NotFound("Conversation not found"))
		return
	}
	RespondOK(c, gin.H{"message": "Conversation deleted", "id": id})
}

// Messages returns a conversation's messages in chronological order.
func (h *ConversationHandler) Messages(c *gin.Context) {
	limit, err := queryLimit(c, "limit", 100, 1, 500)
	if err != nil {
		RespondError(c, h.deps.Logger, err)
		return
	}
	conv, ok := h.owned(c)
	if !ok {
		return
	}
	msgs, err := h.deps.Store.ListMessages(c.Request.Context(), conv.ID, limit)
	if err != nil {
		RespondError(c, h.deps.Logger, err)
		return
	}
	out := make([]MessageResponse, 0, len(msgs))
	for i := range msgs {
		out = append(out, messageResponse(&msgs[i]))
	}
	RespondOK(c, gin.H{"conversation_id": conv.ID, "messages": out})
}

// AddMessage appends a message without invoking the counsellor.
func (h *ConversationHandler) AddMessage(c *gin.Context) {
	var req MessageRequest
	if err := bindJSON(c, &req); err != nil {
		RespondError(c, h.deps.Logger, err)
		return
	}
	conv, ok := h.owned(c)
	if !ok {
		return
	}
	msg, err := h.deps.Store.AddMessage(c.Request.Context(), conv.ID, req.Role, req.Content)
	if err != nil {
		RespondError(c, h.deps.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, messageResponse(msg))
}

// owned loads the conversation named in the path and renders 404 when the
// caller does not own it.
func (h *ConversationHandler) owned(c *gin.Context) (*database.Conversation, bool) {
	conv, err := h.deps.Store.GetConversation(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		RespondError(c, h.deps.Logger, err)
		return nil, false
	}
	if conv == nil {
		RespondError(c, h.deps.Logger, apierr.NotFound("Conversation not found"))
		return nil, false
	}
	return conv, true
}
