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

const todoColumns = "id, todo, description, due, status, owner_id, created_at, updated_at"

// PostgresTodoRepository implements TodoRepository.
type PostgresTodoRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewTodoRepository creates a new todo repository.
func NewTodoRepository(config *RepositoryConfig) repositories.TodoRepository {
	return &PostgresTodoRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

func scanTodo(row pgx.Row) (*models.Todo, error) {
	var t models.Todo
	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.Due,
		&t.Status,
		&t.OwnerID,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts a todo.
func (r *PostgresTodoRepository) Create(ctx context.Context, todo *models.Todo) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (todo, description, due, status, owner_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, r.tables.Todos)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		todo.Title,
		todo.Description,
		todo.Due,
		todo.Status,
		todo.OwnerID,
	).Scan(&todo.ID, &todo.CreatedAt, &todo.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create todo: %w", err)
	}

	return nil
}

// GetByID retrieves a todo scoped to its owner.
func (r *PostgresTodoRepository) GetByID(ctx context.Context, id, ownerID string) (*models.Todo, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND owner_id = $2
	`, todoColumns, r.tables.Todos)

	t, err := scanTodo(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("todo %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get todo: %w", err)
	}

	return t, nil
}

// Update persists the mutable fields.
func (r *PostgresTodoRepository) Update(ctx context.Context, todo *models.Todo) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET todo = $1, description = $2, due = $3, status = $4, updated_at = now()
		WHERE id = $5 AND owner_id = $6
		RETURNING updated_at
	`, r.tables.Todos)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		todo.Title,
		todo.Description,
		todo.Due,
		todo.Status,
		todo.ID,
		todo.OwnerID,
	).Scan(&todo.UpdatedAt)

	if err != nil {
		if isPgNoRowsError(err) {
			return fmt.Errorf("todo %s: %w", todo.ID, domain.ErrNotFound)
		}
		return fmt.Errorf("update todo: %w", err)
	}

	return nil
}

// Delete removes a todo scoped to its owner.
func (r *PostgresTodoRepository) Delete(ctx context.Context, id, ownerID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND owner_id = $2`, r.tables.Todos)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("todo %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ListByOwner lists a user's todos, newest first.
func (r *PostgresTodoRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Todo, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`, todoColumns, r.tables.Todos)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	var todos []models.Todo
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		todos = append(todos, *t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate todos: %w", err)
	}

	return todos, nil
}
