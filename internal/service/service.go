package service

import (
	"time"

	"relay_chat/internal/repository"
)

type Services struct {
	User      *UserService
	Message   *MessageService
	WebSocket *WebSocketManager
	Hub       *Hub
}

// NewServices wires the relay's service layer. historyLimit is the backlog
// size replayed on join; deliveryDelay is the gap between the Sent and
// Delivered broadcasts.
func NewServices(repos *repository.Repositories, historyLimit int, deliveryDelay time.Duration) *Services {
	hub := NewHub()
	messageService := NewMessageService(repos.Message, hub, deliveryDelay)

	return &Services{
		User:      NewUserService(repos.User),
		Message:   messageService,
		WebSocket: NewWebSocketManager(hub, messageService, historyLimit),
		Hub:       hub,
	}
}
