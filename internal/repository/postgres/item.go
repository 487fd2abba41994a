package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"workbench/internal/domain"
	"workbench/internal/domain/models"
	"workbench/internal/domain/repositories"
)

const itemColumns = "id, name, kind, owner_id, parent_id, extension, created_at, updated_at"

// PostgresItemRepository implements ItemRepository.
type PostgresItemRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewItemRepository creates a new item repository.
func NewItemRepository(config *RepositoryConfig) repositories.ItemRepository {
	return &PostgresItemRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

func scanItem(row pgx.Row) (*models.Item, error) {
	var item models.Item
	err := row.Scan(
		&item.ID,
		&item.Name,
		&item.Kind,
		&item.OwnerID,
		&item.ParentID,
		&item.Extension,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func scanItems(rows pgx.Rows) ([]models.Item, error) {
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}

	return items, nil
}

// Create creates a new item.
func (r *PostgresItemRepository) Create(ctx context.Context, item *models.Item) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, kind, owner_id, parent_id, extension)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, r.tables.Items)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		item.Name,
		item.Kind,
		item.OwnerID,
		item.ParentID,
		item.Extension,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)

	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("parent of item '%s': %w", item.Name, domain.ErrNotFound)
		}
		return fmt.Errorf("create item: %w", err)
	}

	return nil
}

// GetByID retrieves an item by ID regardless of owner.
func (r *PostgresItemRepository) GetByID(ctx context.Context, id string) (*models.Item, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, itemColumns, r.tables.Items)

	item, err := scanItem(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get item: %w", err)
	}

	return item, nil
}

// Update persists name, extension and updated_at.
func (r *PostgresItemRepository) Update(ctx context.Context, item *models.Item) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, extension = $2, updated_at = now()
		WHERE id = $3
		RETURNING updated_at
	`, r.tables.Items)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		item.Name,
		item.Extension,
		item.ID,
	).Scan(&item.UpdatedAt)

	if err != nil {
		if isPgNoRowsError(err) {
			return fmt.Errorf("item %s: %w", item.ID, domain.ErrNotFound)
		}
		return fmt.Errorf("update item: %w", err)
	}

	return nil
}

// Delete removes a single item row.
func (r *PostgresItemRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Items)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// DeleteByIDs removes a set of item rows in one statement. The self-FK
// cascades, so ordering within the set does not matter.
func (r *PostgresItemRepository) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ANY($1)`, r.tables.Items)

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, ids); err != nil {
		return fmt.Errorf("delete items: %w", err)
	}

	return nil
}

// ListChildren lists items owned by ownerID under parentID (nil = root),
// folders before files, then lexicographically by name.
func (r *PostgresItemRepository) ListChildren(ctx context.Context, ownerID string, parentID *string) ([]models.Item, error) {
	var query string
	var args []interface{}

	if parentID == nil {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE owner_id = $1 AND parent_id IS NULL
			ORDER BY kind DESC, name ASC
		`, itemColumns, r.tables.Items)
		args = append(args, ownerID)
	} else {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE owner_id = $1 AND parent_id = $2
			ORDER BY kind DESC, name ASC
		`, itemColumns, r.tables.Items)
		args = append(args, ownerID, *parentID)
	}

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}

	return scanItems(rows)
}

// SubtreeIDs returns the ids of the item and every descendant, using a
// recursive CTE so depth is handled storage-side.
func (r *PostgresItemRepository) SubtreeIDs(ctx context.Context, rootID string) ([]string, error) {
	query := fmt.Sprintf(`
		WITH RECURSIVE subtree AS (
			SELECT id FROM %s WHERE id = $1
			UNION ALL
			SELECT i.id FROM %s i JOIN subtree s ON i.parent_id = s.id
		)
		SELECT id FROM subtree
	`, r.tables.Items, r.tables.Items)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, rootID)
	if err != nil {
		return nil, fmt.Errorf("collect subtree: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan subtree id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subtree: %w", err)
	}

	return ids, nil
}

// ListSharedRoots returns root items owned by others that viewerID can reach
// through a view grant on the item itself or any of its descendants. The
// walk starts at every granted item and follows parent links upward.
func (r *PostgresItemRepository) ListSharedRoots(ctx context.Context, viewerID string) ([]models.Item, error) {
	query := fmt.Sprintf(`
		WITH RECURSIVE reachable AS (
			SELECT i.id, i.parent_id
			FROM %s i
			JOIN %s p ON p.item_id = i.id
			WHERE p.user_id = $1 AND p.can_view
			UNION
			SELECT i.id, i.parent_id
			FROM %s i
			JOIN reachable r ON r.parent_id = i.id
		)
		SELECT %s
		FROM %s
		WHERE id IN (SELECT id FROM reachable)
		  AND parent_id IS NULL
		  AND owner_id <> $1
		ORDER BY kind DESC, name ASC
	`, r.tables.Items, r.tables.Permissions, r.tables.Items, itemColumns, r.tables.Items)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, viewerID)
	if err != nil {
		return nil, fmt.Errorf("list shared roots: %w", err)
	}

	return scanItems(rows)
}

// ListVisiblePathChildren returns the children of parentID that lie on a
// path down to an item carrying a view grant for viewerID.
func (r *PostgresItemRepository) ListVisiblePathChildren(ctx context.Context, viewerID, parentID string) ([]models.Item, error) {
	query := fmt.Sprintf(`
		WITH RECURSIVE reachable AS (
			SELECT i.id, i.parent_id
			FROM %s i
			JOIN %s p ON p.item_id = i.id
			WHERE p.user_id = $1 AND p.can_view
			UNION
			SELECT i.id, i.parent_id
			FROM %s i
			JOIN reachable r ON r.parent_id = i.id
		)
		SELECT %s
		FROM %s
		WHERE parent_id = $2
		  AND id IN (SELECT id FROM reachable)
		ORDER BY kind DESC, name ASC
	`, r.tables.Items, r.tables.Permissions, r.tables.Items, itemColumns, r.tables.Items)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, viewerID, parentID)
	if err != nil {
		return nil, fmt.Errorf("list visible path children: %w", err)
	}

	return scanItems(rows)
}
