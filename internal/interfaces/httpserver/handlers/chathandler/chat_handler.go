// Package chathandler exposes conversation orchestration to the
// presentation layer.
package chathandler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"obrolan/chat-client/internal/config"
	"obrolan/chat-client/internal/domain/chat"
	"obrolan/chat-client/internal/interfaces/httpserver/middlewares"
	"obrolan/chat-client/internal/utils/platformerrors"
)

// ChatHandler handles conversation and message endpoints. Each request gets
// its own Thread seeded from the gateway, mirroring a view mount.
type ChatHandler struct {
	data       chat.DataGateway
	completion chat.CompletionGateway
	cfg        *config.Config
	logger     zerolog.Logger
}

func NewChatHandler(data chat.DataGateway, completion chat.CompletionGateway, cfg *config.Config, logger zerolog.Logger) *ChatHandler {
	return &ChatHandler{data: data, completion: completion, cfg: cfg, logger: logger}
}

type submitRequest struct {
	Message string `json:"message" binding:"required"`
}

type renameRequest struct {
	Alias string `json:"alias" binding:"required"`
}

type pinRequest struct {
	Pinned bool `json:"pinned"`
}

func (h *ChatHandler) thread(session *chat.Session, chatID string) *chat.Thread {
	return chat.NewThread(chat.ThreadConfig{
		Data:         h.data,
		Completion:   h.completion,
		Session:      session,
		ChatID:       chatID,
		DefaultTitle: h.cfg.DefaultTitle,
		TitleMaxLen:  h.cfg.TitleMaxLength,
	})
}

func (h *ChatHandler) handleError(c *gin.Context, err error, fallback string) {
	status := platformerrors.HTTPStatus(err)
	h.logger.Warn().Err(err).Int("status", status).Msg(fallback)
	c.JSON(status, gin.H{"error": fallback})
}

// ListChats returns the caller's conversations, pinned first then newest.
func (h *ChatHandler) ListChats(c *gin.Context) {
	session, _ := middlewares.SessionFromContext(c)

	conversations, err := h.data.ListConversations(c.Request.Context(), session, session.UserID)
	if err != nil {
		h.handleError(c, err, "failed to list conversations")
		return
	}
	chat.SortConversations(conversations)
	c.JSON(http.StatusOK, conversations)
}

// StartChat creates a new conversation from the first user message and runs
// the full submission cycle. Responds with the new conversation id so the
// client can navigate to its view.
func (h *ChatHandler) StartChat(c *gin.Context) {
	session, _ := middlewares.SessionFromContext(c)

	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	thread := h.thread(session, "")
	chatID, err := thread.Start(c.Request.Context(), req.Message)
	if err != nil && chatID == "" {
		h.handleError(c, err, "failed to start chat")
		return
	}
	snapshot := thread.Snapshot()
	c.JSON(http.StatusCreated, gin.H{
		"id":       chatID,
		"messages": snapshot.Messages,
		"error":    snapshot.Err,
	})
}

// GetMessages returns the authoritative ordered message list.
func (h *ChatHandler) GetMessages(c *gin.Context) {
	session, _ := middlewares.SessionFromContext(c)

	messages, err := h.data.ListMessages(c.Request.Context(), session, c.Param("id"))
	if err != nil {
		h.handleError(c, err, "failed to list messages")
		return
	}
	c.JSON(http.StatusOK, messages)
}

// ContinueChat submits a message to an existing conversation.
func (h *ChatHandler) ContinueChat(c *gin.Context) {
	session, _ := middlewares.SessionFromContext(c)

	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	thread := h.thread(session, c.Param("id"))
	if err := thread.LoadHistory(c.Request.Context()); err != nil {
		h.handleError(c, err, "failed to load messages")
		return
	}
	if err := thread.Submit(c.Request.Context(), req.Message); err != nil {
		h.handleError(c, err, "failed to send message")
		return
	}
	snapshot := thread.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"messages": snapshot.Messages,
		"error":    snapshot.Err,
	})
}

// TogglePin flips the pinned flag and returns the mutated conversation.
func (h *ChatHandler) TogglePin(c *gin.Context) {
	session, _ := middlewares.SessionFromContext(c)

	var req pinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pinned is required"})
		return
	}

	conv, err := h.data.TogglePin(c.Request.Context(), session, c.Param("id"), req.Pinned)
	if err != nil {
		h.handleError(c, err, "failed to toggle pin")
		return
	}
	c.JSON(http.StatusOK, conv)
}

// RenameChat updates the conversation alias.
func (h *ChatHandler) RenameChat(c *gin.Context) {
	session, _ := middlewares.SessionFromContext(c)

	var req renameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "alias is required"})
		return
	}

	conv, err := h.data.RenameConversation(c.Request.Context(), session, c.Param("id"), req.Alias)
	if err != nil {
		h.handleError(c, err, "failed to rename conversation")
		return
	}
	c.JSON(http.StatusOK, conv)
}

// DeleteChat removes a conversation. Passthrough to the data gateway.
func (h *ChatHandler) DeleteChat(c *gin.Context) {
	session, _ := middlewares.SessionFromContext(c)

	if err := h.data.DeleteConversation(c.Request.Context(), session, c.Param("id")); err != nil {
		h.handleError(c, err, "failed to delete conversation")
		return
	}
	c.Status(http.StatusNoContent)
}
