package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"relay_chat/internal/service"
)

// MessageHandler exposes the persisted history over REST, for clients that
// want to page through it outside the websocket.
type MessageHandler struct {
	messageService *service.MessageService
	historyLimit   int
}

func NewMessageHandler(messageService *service.MessageService, historyLimit int) *MessageHandler {
	return &MessageHandler{messageService: messageService, historyLimit: historyLimit}
}

// Recent returns the latest messages oldest-first. An optional limit query
// parameter trims the default page size; it never raises it.
func (h *MessageHandler) Recent(c *gin.Context) {
	limit := h.historyLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		if parsed < limit {
			limit = parsed
		}
	}

	messages, err := h.messageService.Recent(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}
