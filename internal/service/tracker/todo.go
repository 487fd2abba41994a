package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"workbench/internal/config"
	"workbench/internal/domain"
	"workbench/internal/domain/models"
	"workbench/internal/domain/repositories"
	"workbench/internal/domain/services"
)

type todoService struct {
	todoRepo repositories.TodoRepository
	logger   *slog.Logger
}

// NewTodoService creates a new todo service.
func NewTodoService(todoRepo repositories.TodoRepository, logger *slog.Logger) services.TodoService {
	return &todoService{todoRepo: todoRepo, logger: logger}
}

func (s *todoService) Create(ctx context.Context, ownerID string, req *models.CreateTodoRequest) (*models.Todo, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Title,
			validation.Required,
			validation.Length(1, config.MaxTodoTitleLength),
		),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	due := time.Now()
	if req.Due != nil {
		due = *req.Due
	}

	todo := &models.Todo{
		Title:       req.Title,
		Description: req.Description,
		Due:         due,
		Status:      models.TodoPending,
		OwnerID:     ownerID,
	}
	if err := s.todoRepo.Create(ctx, todo); err != nil {
		return nil, err
	}
	return todo, nil
}

func (s *todoService) Update(ctx context.Context, ownerID, id string, req *models.UpdateTodoRequest) (*models.Todo, error) {
	todo, err := s.todoRepo.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" || len(title) > config.MaxTodoTitleLength {
			return nil, fmt.Errorf("%w: invalid title", domain.ErrValidation)
		}
		todo.Title = title
	}
	if req.Description != nil {
		todo.Description = *req.Description
	}
	if req.Due != nil {
		todo.Due = *req.Due
	}
	if req.Status != nil {
		if *req.Status != models.TodoPending && *req.Status != models.TodoCompleted {
			return nil, fmt.Errorf("%w: invalid status %q", domain.ErrValidation, *req.Status)
		}
		todo.Status = *req.Status
	}

	if err := s.todoRepo.Update(ctx, todo); err != nil {
		return nil, err
	}
	return todo, nil
}

func (s *todoService) Delete(ctx context.Context, ownerID, id string) error {
	return s.todoRepo.Delete(ctx, id, ownerID)
}

func (s *todoService) List(ctx context.Context, ownerID string) ([]models.Todo, error) {
	return s.todoRepo.ListByOwner(ctx, ownerID)
}
