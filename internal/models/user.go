package models

import (
	"gorm.io/gorm"
)

// User is a registered account, only relevant to the signup/login endpoints.
// The relay itself identifies sessions by the username carried in the token.
type User struct {
	gorm.Model        // provides ID, CreatedAt, UpdatedAt, DeletedAt
	Username   string `gorm:"uniqueIndex;not null" json:"username"`
	Password   string `gorm:"not null" json:"-"` // bcrypt hash, never serialized
}
