package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PasswordResetToken is a single-use token mailed to a staff member who
// requested a password reset. Tokens expire after a short TTL and are
// invalidated in bulk when a new reset is requested for the same email.
type PasswordResetToken struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Email     string    `gorm:"size:255;not null;index" json:"email"`
	Token     string    `gorm:"size:255;not null;uniqueIndex" json:"token"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Used      bool      `gorm:"default:false" json:"used"`
	CreatedAt time.Time `json:"created_at"`
}

// NewPasswordResetToken builds an unused token for the given staff email,
// valid for the given TTL from now.
func NewPasswordResetToken(email, token string, ttl time.Duration) *PasswordResetToken {
	return &PasswordResetToken{
		Email:     email,
		Token:     token,
		ExpiresAt: time.Now().Add(ttl),
	}
}

// BeforeCreate generates a UUID before creating a new token
func (t *PasswordResetToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PasswordResetToken model
func (PasswordResetToken) TableName() string {
	return "password_reset_tokens"
}

// IsExpired checks if the token has expired
func (t *PasswordResetToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}

// IsValid reports whether the token can still redeem a reset: not expired
// and not already used.
func (t *PasswordResetToken) IsValid() bool {
	return !t.IsExpired() && !t.Used
}
