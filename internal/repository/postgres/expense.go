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

const expenseColumns = "id, amount, date, description, category, owner_id, created_at, updated_at"

// PostgresExpenseRepository implements ExpenseRepository.
type PostgresExpenseRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewExpenseRepository creates a new expense repository.
func NewExpenseRepository(config *RepositoryConfig) repositories.ExpenseRepository {
	return &PostgresExpenseRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

func scanExpense(row pgx.Row) (*models.Expense, error) {
	var e models.Expense
	err := row.Scan(
		&e.ID,
		&e.Amount,
		&e.Date,
		&e.Description,
		&e.Category,
		&e.OwnerID,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts an expense.
func (r *PostgresExpenseRepository) Create(ctx context.Context, expense *models.Expense) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (amount, date, description, category, owner_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, r.tables.Expenses)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		expense.Amount,
		expense.Date,
		expense.Description,
		expense.Category,
		expense.OwnerID,
	).Scan(&expense.ID, &expense.CreatedAt, &expense.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create expense: %w", err)
	}

	return nil
}

// GetByID retrieves an expense scoped to its owner.
func (r *PostgresExpenseRepository) GetByID(ctx context.Context, id, ownerID string) (*models.Expense, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND owner_id = $2
	`, expenseColumns, r.tables.Expenses)

	e, err := scanExpense(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("expense %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get expense: %w", err)
	}

	return e, nil
}

// Update persists the mutable fields.
func (r *PostgresExpenseRepository) Update(ctx context.Context, expense *models.Expense) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET amount = $1, date = $2, description = $3, category = $4, updated_at = now()
		WHERE id = $5 AND owner_id = $6
		RETURNING updated_at
	`, r.tables.Expenses)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		expense.Amount,
		expense.Date,
		expense.Description,
		expense.Category,
		expense.ID,
		expense.OwnerID,
	).Scan(&expense.UpdatedAt)

	if err != nil {
		if isPgNoRowsError(err) {
			return fmt.Errorf("expense %s: %w", expense.ID, domain.ErrNotFound)
		}
		return fmt.Errorf("update expense: %w", err)
	}

	return nil
}

// Delete removes an expense scoped to its owner.
func (r *PostgresExpenseRepository) Delete(ctx context.Context, id, ownerID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND owner_id = $2`, r.tables.Expenses)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("expense %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ListByOwner lists a user's expenses, newest first.
func (r *PostgresExpenseRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Expense, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`, expenseColumns, r.tables.Expenses)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, *e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}

	return expenses, nil
}
