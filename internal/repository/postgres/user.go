package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"workbench/internal/domain"
	"workbench/internal/domain/models"
	"workbench/internal/domain/repositories"
)

const userColumns = "id, first_name, last_name, email, password_hash, role, reset_token_hash, reset_token_expires, created_at, updated_at"

// PostgresUserRepository implements UserRepository.
type PostgresUserRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewUserRepository creates a new user repository.
func NewUserRepository(config *RepositoryConfig) repositories.UserRepository {
	return &PostgresUserRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.ResetTokenHash,
		&u.ResetTokenExpires,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts an account.
func (r *PostgresUserRepository) Create(ctx context.Context, user *models.User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (first_name, last_name, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, r.tables.Users)

	role := user.Role
	if role == "" {
		role = models.RoleUser
	}

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		user.FirstName,
		user.LastName,
		user.Email,
		user.PasswordHash,
		role,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("email %s: %w", user.Email, domain.ErrConflict)
		}
		return fmt.Errorf("create user: %w", err)
	}

	user.Role = role
	return nil
}

// GetByID retrieves a user by id.
func (r *PostgresUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, userColumns, r.tables.Users)

	u, err := scanUser(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return u, nil
}

// GetByEmail retrieves a user by email.
func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE email = $1`, userColumns, r.tables.Users)

	u, err := scanUser(GetExecutor(ctx, r.pool).QueryRow(ctx, query, email))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("user %s: %w", email, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return u, nil
}

// ListOthers returns every user except excludeID.
func (r *PostgresUserRepository) ListOthers(ctx context.Context, excludeID string) ([]models.UserSummary, error) {
	query := fmt.Sprintf(`
		SELECT id, first_name, last_name, email
		FROM %s
		WHERE id <> $1
		ORDER BY email ASC
	`, r.tables.Users)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, excludeID)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []models.UserSummary
	for rows.Next() {
		var u models.UserSummary
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}

// SetResetToken stores the hashed reset token and its expiry.
func (r *PostgresUserRepository) SetResetToken(ctx context.Context, userID, tokenHash string, expires time.Time) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET reset_token_hash = $1, reset_token_expires = $2, updated_at = now()
		WHERE id = $3
	`, r.tables.Users)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, tokenHash, expires, userID)
	if err != nil {
		return fmt.Errorf("set reset token: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}

	return nil
}

// GetByResetToken finds the user holding an unexpired reset token.
func (r *PostgresUserRepository) GetByResetToken(ctx context.Context, tokenHash string) (*models.User, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE reset_token_hash = $1 AND reset_token_expires > now()
	`, userColumns, r.tables.Users)

	u, err := scanUser(GetExecutor(ctx, r.pool).QueryRow(ctx, query, tokenHash))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("reset token: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get user by reset token: %w", err)
	}

	return u, nil
}

// UpdatePassword replaces the hash and clears any reset token.
func (r *PostgresUserRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET password_hash = $1, reset_token_hash = NULL, reset_token_expires = NULL, updated_at = now()
		WHERE id = $2
	`, r.tables.Users)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, passwordHash, userID)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}

	return nil
}
