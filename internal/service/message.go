package service

import (
	"errors"
	"log"
	"strings"
	"time"

	"relay_chat/internal/models"
	"relay_chat/internal/repository"
)

// MessageService runs the delivery pipeline: a submitted message is
// persisted with status Sent and broadcast immediately, then after a fixed
// delay its status advances to Delivered and the update is broadcast too.
// Each message's delivered transition is an independent timer, so the
// pipeline never blocks on one message while ingesting the next.
type MessageService struct {
	messageRepo   repository.MessageRepository
	hub           *Hub
	deliveryDelay time.Duration
}

func NewMessageService(messageRepo repository.MessageRepository, hub *Hub, deliveryDelay time.Duration) *MessageService {
	return &MessageService{
		messageRepo:   messageRepo,
		hub:           hub,
		deliveryDelay: deliveryDelay,
	}
}

// Ingest takes a raw submission from an authenticated session. The author
// comes from the session's verified identity, never from the payload.
// Invalid submissions are dropped without a response, matching the relay's
// client contract.
func (s *MessageService) Ingest(author, rawBody string) {
	body := strings.TrimSpace(rawBody)
	if author == "" || body == "" {
		return
	}

	message := models.NewMessage(author, body)
	if err := s.messageRepo.Save(message); err != nil {
		// An unpersisted message must never be broadcast.
		log.Printf("message save failed for %s: %v", author, err)
		return
	}

	s.hub.Broadcast(EventReceiveMessage, message)
	s.scheduleDelivered(message.ID)
}

// scheduleDelivered arms the Delivered transition for one message. The timer
// fires regardless of whether the sender is still connected.
func (s *MessageService) scheduleDelivered(id uint) {
	time.AfterFunc(s.deliveryDelay, func() {
		updated, err := s.messageRepo.UpdateStatus(id, models.StatusDelivered)
		if err != nil {
			if errors.Is(err, repository.ErrMessageNotFound) {
				log.Printf("message %d vanished before delivery", id)
			} else {
				log.Printf("delivery update failed for message %d: %v", id, err)
			}
			return
		}
		s.hub.Broadcast(EventMessageDelivered, updated)
	})
}

// Recent returns the latest messages oldest-first for display, capped at
// limit (callers pass the configured backlog size).
func (s *MessageService) Recent(limit int) ([]models.Message, error) {
	return s.messageRepo.Recent(limit)
}
