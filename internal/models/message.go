package models

import (
	"time"
)

// MessageStatus tracks a message's delivery progress.
type MessageStatus string

const (
	StatusSent      MessageStatus = "Sent"      // persisted and broadcast to live sessions
	StatusDelivered MessageStatus = "Delivered" // delivery confirmation (simulated)
)

// Message is the unified chat message structure, shared between the websocket
// payloads and database storage. Once persisted, the only mutation a message
// ever sees is the single Sent -> Delivered status transition.
type Message struct {
	ID        uint          `json:"id" gorm:"primaryKey"`
	Username  string        `json:"username" gorm:"type:varchar(50);not null"`
	Body      string        `json:"message" gorm:"type:text;not null"`
	CreatedAt time.Time     `json:"timestamp" gorm:"index"`
	Status    MessageStatus `json:"status" gorm:"type:varchar(20);not null"`
}

// NewMessage creates a chat message in its initial Sent state. The id is
// assigned by the store on save.
func NewMessage(username, body string) *Message {
	return &Message{
		Username:  username,
		Body:      body,
		CreatedAt: time.Now(),
		Status:    StatusSent,
	}
}
