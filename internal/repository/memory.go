package repository

import (
	"sync"

	"gorm.io/gorm"

	"relay_chat/internal/models"
)

// MemoryMessageRepository is an in-memory MessageRepository. It backs the
// test suites and any deployment that runs without a database.
type MemoryMessageRepository struct {
	mu       sync.RWMutex
	nextID   uint
	messages []models.Message
}

func NewMemoryMessageRepository() *MemoryMessageRepository {
	return &MemoryMessageRepository{nextID: 1}
}

func (r *MemoryMessageRepository) Save(message *models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	message.ID = r.nextID
	r.nextID++
	r.messages = append(r.messages, *message)
	return nil
}

func (r *MemoryMessageRepository) UpdateStatus(id uint, status models.MessageStatus) (*models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.messages {
		if r.messages[i].ID != id {
			continue
		}
		// Delivered is terminal; never regress.
		if r.messages[i].Status != models.StatusDelivered {
			r.messages[i].Status = status
		}
		updated := r.messages[i]
		return &updated, nil
	}
	return nil, ErrMessageNotFound
}

func (r *MemoryMessageRepository) Recent(limit int) ([]models.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// messages is already in creation order
	start := len(r.messages) - limit
	if start < 0 {
		start = 0
	}
	recent := make([]models.Message, len(r.messages)-start)
	copy(recent, r.messages[start:])
	return recent, nil
}

// MemoryUserRepository is an in-memory UserRepository counterpart.
type MemoryUserRepository struct {
	mu     sync.RWMutex
	nextID uint
	users  map[string]*models.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{nextID: 1, users: make(map[string]*models.User)}
}

func (r *MemoryUserRepository) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.Username]; exists {
		return gorm.ErrDuplicatedKey
	}
	user.ID = r.nextID
	r.nextID++
	stored := *user
	r.users[user.Username] = &stored
	return nil
}

func (r *MemoryUserRepository) FindByUsername(username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[username]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	found := *user
	return &found, nil
}
