package repository

import (
	"errors"

	"gorm.io/gorm"

	"relay_chat/internal/models"
	"relay_chat/internal/storage"
)

// ErrMessageNotFound is returned by UpdateStatus when the target message was
// deleted or never existed. Callers log it and skip the delivered broadcast.
var ErrMessageNotFound = errors.New("message not found")

type MessageRepository interface {
	// Save persists the message and assigns its id.
	Save(message *models.Message) error
	// UpdateStatus advances the message's delivery status and returns the
	// updated row. The status never regresses: updating an already-Delivered
	// message is a no-op that returns the current row.
	UpdateStatus(id uint, status models.MessageStatus) (*models.Message, error)
	// Recent returns the newest limit messages ordered oldest-first,
	// ready for direct display.
	Recent(limit int) ([]models.Message, error)
}

type messageRepository struct {
	db *storage.PostgresDB
}

func NewMessageRepository(db *storage.PostgresDB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Save(message *models.Message) error {
	return r.db.Create(message).Error
}

func (r *messageRepository) UpdateStatus(id uint, status models.MessageStatus) (*models.Message, error) {
	var message models.Message
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&message, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMessageNotFound
			}
			return err
		}
		// Delivered is terminal; re-delivery attempts are a no-op.
		if message.Status == models.StatusDelivered {
			return nil
		}
		message.Status = status
		return tx.Model(&message).Update("status", status).Error
	})
	if err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *messageRepository) Recent(limit int) ([]models.Message, error) {
	var messages []models.Message
	// The created_at index serves this query; newest first, then reversed
	// so clients can render the slice as-is.
	err := r.db.Order("created_at DESC").Limit(limit).Find(&messages).Error
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
