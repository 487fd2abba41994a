package repositories

import (
	"context"

	"workbench/internal/domain/models"
)

// TodoRepository defines data access for todos. All reads are scoped to the
// owning user.
type TodoRepository interface {
	Create(ctx context.Context, todo *models.Todo) error
	GetByID(ctx context.Context, id, ownerID string) (*models.Todo, error)
	Update(ctx context.Context, todo *models.Todo) error
	Delete(ctx context.Context, id, ownerID string) error
	ListByOwner(ctx context.Context, ownerID string) ([]models.Todo, error)
}
