package services

import (
	"context"

	"workbench/internal/domain/models"
)

// AuthService owns registration, login and password reset. Token issuing
// and verification live in internal/auth; everything here hands the HTTP
// layer a verified user id and nothing more.
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error)

	// RequestPasswordReset issues a one-time token valid for a short
	// window. Delivery is the caller's concern; the plain token is
	// returned for it.
	RequestPasswordReset(ctx context.Context, email string) (string, error)

	// ResetPassword consumes an unexpired token and replaces the hash.
	ResetPassword(ctx context.Context, token, newPassword string) error

	// GetProfile returns the public shape for an authenticated user.
	GetProfile(ctx context.Context, userID string) (*models.UserSummary, error)
}
