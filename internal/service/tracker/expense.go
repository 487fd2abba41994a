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

type expenseService struct {
	expenseRepo repositories.ExpenseRepository
	logger      *slog.Logger
}

// NewExpenseService creates a new expense service.
func NewExpenseService(expenseRepo repositories.ExpenseRepository, logger *slog.Logger) services.ExpenseService {
	return &expenseService{expenseRepo: expenseRepo, logger: logger}
}

func (s *expenseService) Create(ctx context.Context, ownerID string, req *models.CreateExpenseRequest) (*models.Expense, error) {
	req.Description = strings.TrimSpace(req.Description)
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Amount, validation.Required, validation.Min(0.01)),
		validation.Field(&req.Description,
			validation.Required,
			validation.Length(1, config.MaxExpenseNameLength),
		),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	expense := &models.Expense{
		Amount:      req.Amount,
		Date:        date,
		Description: req.Description,
		Category:    req.Category,
		OwnerID:     ownerID,
	}
	if err := s.expenseRepo.Create(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

func (s *expenseService) Update(ctx context.Context, ownerID, id string, req *models.UpdateExpenseRequest) (*models.Expense, error) {
	expense, err := s.expenseRepo.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if req.Amount != nil {
		if *req.Amount <= 0 {
			return nil, fmt.Errorf("%w: amount must be positive", domain.ErrValidation)
		}
		expense.Amount = *req.Amount
	}
	if req.Date != nil {
		expense.Date = *req.Date
	}
	if req.Description != nil {
		desc := strings.TrimSpace(*req.Description)
		if desc == "" {
			return nil, fmt.Errorf("%w: description is required", domain.ErrValidation)
		}
		expense.Description = desc
	}
	if req.Category != nil {
		expense.Category = *req.Category
	}

	if err := s.expenseRepo.Update(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

func (s *expenseService) Delete(ctx context.Context, ownerID, id string) error {
	return s.expenseRepo.Delete(ctx, id, ownerID)
}

// List returns the user's expenses with the running total the dashboard
// shows.
func (s *expenseService) List(ctx context.Context, ownerID string) (*models.ExpenseReport, error) {
	expenses, err := s.expenseRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	report := &models.ExpenseReport{Expenses: expenses}
	for _, e := range expenses {
		report.TotalAmount += e.Amount
	}
	return report, nil
}
