package repositories

import (
	"context"
	"time"

	"workbench/internal/domain/models"
)

// UserRepository defines data access for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// ListOthers returns every user except excludeID, for the share
	// dialog.
	ListOthers(ctx context.Context, excludeID string) ([]models.UserSummary, error)

	// SetResetToken stores the hashed reset token and its expiry.
	SetResetToken(ctx context.Context, userID, tokenHash string, expires time.Time) error

	// GetByResetToken finds the user holding an unexpired reset token.
	GetByResetToken(ctx context.Context, tokenHash string) (*models.User, error)

	// UpdatePassword replaces the hash and clears any reset token.
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}
