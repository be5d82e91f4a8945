// Package completionhandler exposes the chat-completion passthrough route
// the web client calls directly.
package completionhandler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"obrolan/chat-client/internal/domain/chat"
)

// CompletionHandler proxies role-tagged histories to the completion gateway.
type CompletionHandler struct {
	completion chat.CompletionGateway
	logger     zerolog.Logger
}

func NewCompletionHandler(completion chat.CompletionGateway, logger zerolog.Logger) *CompletionHandler {
	return &CompletionHandler{completion: completion, logger: logger}
}

type completionRequest struct {
	Messages []chat.Turn `json:"messages" binding:"required"`
}

// ChatCompletion handles POST /api/chat-completion. The response carries
// the completion text at a single known field.
func (h *CompletionHandler) ChatCompletion(c *gin.Context) {
	var req completionRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Messages) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "messages is required"})
		return
	}

	for _, turn := range req.Messages {
		if !chat.ValidateRole(string(turn.Role)) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message role"})
			return
		}
	}

	content, err := h.completion.RequestCompletion(c.Request.Context(), req.Messages)
	if err != nil {
		h.logger.Error().Err(err).Msg("chat completion failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch response"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"response": content})
}
