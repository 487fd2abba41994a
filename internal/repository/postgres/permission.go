package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"workbench/internal/domain/models"
	"workbench/internal/domain/repositories"
)

// PostgresPermissionRepository implements PermissionRepository.
type PostgresPermissionRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewPermissionRepository creates a new permission repository.
func NewPermissionRepository(config *RepositoryConfig) repositories.PermissionRepository {
	return &PostgresPermissionRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Upsert inserts or replaces the grant for (item, user). The unique key on
// (item_id, user_id) makes the second grant an update, never a duplicate.
func (r *PostgresPermissionRepository) Upsert(ctx context.Context, perm *models.Permission) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (item_id, user_id, can_view, can_create, can_upload, can_edit, can_delete)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (item_id, user_id) DO UPDATE SET
			can_view = EXCLUDED.can_view,
			can_create = EXCLUDED.can_create,
			can_upload = EXCLUDED.can_upload,
			can_edit = EXCLUDED.can_edit,
			can_delete = EXCLUDED.can_delete,
			updated_at = now()
		RETURNING id, created_at, updated_at
	`, r.tables.Permissions)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		perm.ItemID,
		perm.UserID,
		perm.CanView,
		perm.CanCreate,
		perm.CanUpload,
		perm.CanEdit,
		perm.CanDelete,
	).Scan(&perm.ID, &perm.CreatedAt, &perm.UpdatedAt)

	if err != nil {
		return fmt.Errorf("upsert permission: %w", err)
	}

	return nil
}

// Get returns the direct grant for (item, user), or nil if none exists.
func (r *PostgresPermissionRepository) Get(ctx context.Context, itemID, userID string) (*models.Permission, error) {
	query := fmt.Sprintf(`
		SELECT id, item_id, user_id, can_view, can_create, can_upload, can_edit, can_delete, created_at, updated_at
		FROM %s
		WHERE item_id = $1 AND user_id = $2
	`, r.tables.Permissions)

	var perm models.Permission
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, itemID, userID).Scan(
		&perm.ID,
		&perm.ItemID,
		&perm.UserID,
		&perm.CanView,
		&perm.CanCreate,
		&perm.CanUpload,
		&perm.CanEdit,
		&perm.CanDelete,
		&perm.CreatedAt,
		&perm.UpdatedAt,
	)

	if err != nil {
		if isPgNoRowsError(err) {
			return nil, nil // no grant, not an error
		}
		return nil, fmt.Errorf("get permission: %w", err)
	}

	return &perm, nil
}

// Delete removes the grant for (item, user). Missing rows are not an error;
// revoking an absent grant is a no-op.
func (r *PostgresPermissionRepository) Delete(ctx context.Context, itemID, userID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE item_id = $1 AND user_id = $2`, r.tables.Permissions)

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, itemID, userID); err != nil {
		return fmt.Errorf("delete permission: %w", err)
	}

	return nil
}

// ListForItem returns all grants on an item joined with grantee identity.
func (r *PostgresPermissionRepository) ListForItem(ctx context.Context, itemID string) ([]models.PermissionGrant, error) {
	query := fmt.Sprintf(`
		SELECT p.user_id, u.first_name, u.last_name, u.email,
		       p.can_view, p.can_create, p.can_upload, p.can_edit, p.can_delete
		FROM %s p
		JOIN %s u ON p.user_id = u.id
		WHERE p.item_id = $1
		ORDER BY u.email ASC
	`, r.tables.Permissions, r.tables.Users)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	defer rows.Close()

	var grants []models.PermissionGrant
	for rows.Next() {
		var g models.PermissionGrant
		err := rows.Scan(
			&g.UserID,
			&g.FirstName,
			&g.LastName,
			&g.Email,
			&g.CanView,
			&g.CanCreate,
			&g.CanUpload,
			&g.CanEdit,
			&g.CanDelete,
		)
		if err != nil {
			return nil, fmt.Errorf("scan permission grant: %w", err)
		}
		grants = append(grants, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate permission grants: %w", err)
	}

	return grants, nil
}

// SubtreeHasViewGrant reports whether the item or any descendant carries a
// can_view grant for userID. EXISTS stops the recursive scan at the first
// qualifying row.
func (r *PostgresPermissionRepository) SubtreeHasViewGrant(ctx context.Context, itemID, userID string) (bool, error) {
	query := fmt.Sprintf(`
		WITH RECURSIVE subtree AS (
			SELECT id FROM %s WHERE id = $1
			UNION ALL
			SELECT i.id FROM %s i JOIN subtree s ON i.parent_id = s.id
		)
		SELECT EXISTS (
			SELECT 1
			FROM %s p
			JOIN subtree s ON p.item_id = s.id
			WHERE p.user_id = $2 AND p.can_view
		)
	`, r.tables.Items, r.tables.Items, r.tables.Permissions)

	var found bool
	if err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, itemID, userID).Scan(&found); err != nil {
		return false, fmt.Errorf("check subtree grants: %w", err)
	}

	return found, nil
}
