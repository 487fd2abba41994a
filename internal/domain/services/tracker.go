package services

import (
	"context"

	"workbench/internal/domain/models"
)

// TodoService manages a user's todo list.
type TodoService interface {
	Create(ctx context.Context, ownerID string, req *models.CreateTodoRequest) (*models.Todo, error)
	Update(ctx context.Context, ownerID, id string, req *models.UpdateTodoRequest) (*models.Todo, error)
	Delete(ctx context.Context, ownerID, id string) error
	List(ctx context.Context, ownerID string) ([]models.Todo, error)
}

// ExpenseService manages a user's expenses.
type ExpenseService interface {
	Create(ctx context.Context, ownerID string, req *models.CreateExpenseRequest) (*models.Expense, error)
	Update(ctx context.Context, ownerID, id string, req *models.UpdateExpenseRequest) (*models.Expense, error)
	Delete(ctx context.Context, ownerID, id string) error
	List(ctx context.Context, ownerID string) (*models.ExpenseReport, error)
}
