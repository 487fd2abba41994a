package repositories

import (
	"context"

	"workbench/internal/domain/models"
)

// ExpenseRepository defines data access for expenses, scoped to the owner.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *models.Expense) error
	GetByID(ctx context.Context, id, ownerID string) (*models.Expense, error)
	Update(ctx context.Context, expense *models.Expense) error
	Delete(ctx context.Context, id, ownerID string) error
	ListByOwner(ctx context.Context, ownerID string) ([]models.Expense, error)
}
