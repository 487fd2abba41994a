package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"workbench/internal/auth"
	"workbench/internal/domain"
	"workbench/internal/domain/models"
	"workbench/internal/domain/services"
)

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	users map[string]*models.User
	seq   int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return domain.ErrConflict
		}
	}
	f.seq++
	user.ID = fmt.Sprintf("user-%d", f.seq)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) ListOthers(ctx context.Context, excludeID string) ([]models.UserSummary, error) {
	var out []models.UserSummary
	for _, user := range f.users {
		if user.ID != excludeID {
			out = append(out, models.UserSummary{ID: user.ID, Email: user.Email})
		}
	}
	return out, nil
}

func (f *fakeUserRepo) SetResetToken(ctx context.Context, userID, tokenHash string, expires time.Time) error {
	user, ok := f.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	user.ResetTokenHash = &tokenHash
	user.ResetTokenExpires = &expires
	return nil
}

func (f *fakeUserRepo) GetByResetToken(ctx context.Context, tokenHash string) (*models.User, error) {
	for _, user := range f.users {
		if user.ResetTokenHash != nil && *user.ResetTokenHash == tokenHash &&
			user.ResetTokenExpires != nil && user.ResetTokenExpires.After(time.Now()) {
			cp := *user
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	user, ok := f.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	user.PasswordHash = passwordHash
	user.ResetTokenHash = nil
	user.ResetTokenExpires = nil
	return nil
}

func newTestService(t *testing.T) (services.AuthService, *fakeUserRepo) {
	t.Helper()
	repo := newFakeUserRepo()
	tokens, err := auth.NewTokenManager("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAuthService(repo, tokens, logger), repo
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, &models.RegisterRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "Ada@Example.COM",
		Password:  "correct horse",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if resp.Token == "" {
		t.Error("register issued no token")
	}
	if resp.User.Email != "ada@example.com" {
		t.Errorf("email = %q, want lowercased", resp.User.Email)
	}

	t.Run("login with normalized email", func(t *testing.T) {
		got, err := svc.Login(ctx, &models.LoginRequest{
			Email:    "ADA@example.com",
			Password: "correct horse",
		})
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		if got.User.ID != resp.User.ID {
			t.Error("login resolved a different user")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, &models.LoginRequest{
			Email:    "ada@example.com",
			Password: "wrong",
		})
		if !errors.Is(err, domain.ErrUnauthorized) {
			t.Errorf("err = %v, want ErrUnauthorized", err)
		}
	})

	t.Run("unknown email reads the same as wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, &models.LoginRequest{
			Email:    "nobody@example.com",
			Password: "whatever",
		})
		if !errors.Is(err, domain.ErrUnauthorized) {
			t.Errorf("err = %v, want ErrUnauthorized", err)
		}
	})

	t.Run("short password rejected", func(t *testing.T) {
		_, err := svc.Register(ctx, &models.RegisterRequest{
			FirstName: "Bob",
			LastName:  "Short",
			Email:     "bob@example.com",
			Password:  "tiny",
		})
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("err = %v, want ErrValidation", err)
		}
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		_, err := svc.Register(ctx, &models.RegisterRequest{
			FirstName: "Ada",
			LastName:  "Again",
			Email:     "ada@example.com",
			Password:  "another pass",
		})
		if !errors.Is(err, domain.ErrConflict) {
			t.Errorf("err = %v, want ErrConflict", err)
		}
	})
}

func TestAuthService_PasswordReset(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, &models.RegisterRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Password:  "first password",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	token, err := svc.RequestPasswordReset(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("RequestPasswordReset: %v", err)
	}
	if token == "" {
		t.Fatal("empty reset token")
	}

	// The stored hash must differ from the token handed out.
	stored := repo.users[resp.User.ID]
	if stored.ResetTokenHash == nil || *stored.ResetTokenHash == token {
		t.Error("reset token stored in plain text")
	}

	t.Run("wrong token rejected", func(t *testing.T) {
		err := svc.ResetPassword(ctx, "bogus-token", "replacement pass")
		if !errors.Is(err, domain.ErrUnauthorized) {
			t.Errorf("err = %v, want ErrUnauthorized", err)
		}
	})

	t.Run("reset replaces password and consumes token", func(t *testing.T) {
		if err := svc.ResetPassword(ctx, token, "replacement pass"); err != nil {
			t.Fatalf("ResetPassword: %v", err)
		}

		user := repo.users[resp.User.ID]
		if user.ResetTokenHash != nil {
			t.Error("reset token not cleared")
		}
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("replacement pass")) != nil {
			t.Error("new password does not verify")
		}

		if _, err := svc.Login(ctx, &models.LoginRequest{
			Email:    "ada@example.com",
			Password: "first password",
		}); !errors.Is(err, domain.ErrUnauthorized) {
			t.Error("old password still works")
		}
	})

	t.Run("expired token rejected", func(t *testing.T) {
		token, err := svc.RequestPasswordReset(ctx, "ada@example.com")
		if err != nil {
			t.Fatalf("RequestPasswordReset: %v", err)
		}
		past := time.Now().Add(-time.Minute)
		repo.users[resp.User.ID].ResetTokenExpires = &past

		if err := svc.ResetPassword(ctx, token, "another pass"); !errors.Is(err, domain.ErrUnauthorized) {
			t.Errorf("err = %v, want ErrUnauthorized", err)
		}
	})
}
