package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account
type User struct {
	ID                 uuid.UUID  `json:"id" gorm:"type:text;primaryKey;column:id"`
	Name               string     `json:"name" gorm:"type:text;not null;column:name" validate:"required"`
	Email              string     `json:"email" gorm:"type:text;not null;uniqueIndex;column:email" validate:"required,email"`
	HashedPassword     string     `json:"-" gorm:"type:text;not null;column:hashed_password"`
	IsVerified         bool       `json:"is_verified" gorm:"type:integer;not null;default:0;column:is_verified"`
	IsSubscribed       bool       `json:"is_subscribed" gorm:"type:integer;not null;default:0;column:is_subscribed"`
	HashedRefreshToken *string    `json:"-" gorm:"type:text;index;column:hashed_refresh_token"`
	RefreshTokenExpiry *time.Time `json:"-" gorm:"type:datetime;column:refresh_token_expiry"`
	PasswordChangedAt  *time.Time `json:"-" gorm:"type:datetime;column:password_changed_at"`
	CreatedAt          time.Time  `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`
	UpdatedAt          time.Time  `json:"updated_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:updated_at"`
}

// NewUser creates a new unverified User with generated UUID and timestamps
func NewUser(name, email, hashedPassword string) *User {
	now := time.Now().UTC()
	return &User{
		ID:                uuid.New(),
		Name:              name,
		Email:             email,
		HashedPassword:    hashedPassword,
		PasswordChangedAt: &now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}
