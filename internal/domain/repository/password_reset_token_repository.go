package repository

import (
	"context"

	"github.com/pawmark/vetcare-api/internal/domain/entity"
)

// PasswordResetTokenRepository defines the interface for reset token operations
type PasswordResetTokenRepository interface {
	Create(ctx context.Context, token *entity.PasswordResetToken) error
	GetByToken(ctx context.Context, token string) (*entity.PasswordResetToken, error)
	MarkUsed(ctx context.Context, token string) error
	DeleteByEmail(ctx context.Context, email string) error
}
