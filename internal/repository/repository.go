package repository

import "relay_chat/internal/storage"

type Repositories struct {
	User    UserRepository
	Message MessageRepository
}

func NewRepositories(db *storage.PostgresDB) *Repositories {
	return &Repositories{
		User:    NewUserRepository(db),
		Message: NewMessageRepository(db),
	}
}
