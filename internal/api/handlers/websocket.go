package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"relay_chat/internal/service"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // origin should be checked in production
	},
}

// WebSocketHandler upgrades HTTP requests to websocket sessions and hands
// them to the session manager.
type WebSocketHandler struct {
	wsManager *service.WebSocketManager
}

func NewWebSocketHandler(wsManager *service.WebSocketManager) *WebSocketHandler {
	return &WebSocketHandler{wsManager: wsManager}
}

// HandleWebSocket upgrades the connection and runs the session. The bearer
// token travels in the handshake's token query parameter; verification
// happens inside the session manager, which closes rejected connections
// without a payload.
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "websocket upgrade failed"})
		return
	}

	h.wsManager.HandleConnection(conn, c.Query("token"))
}
