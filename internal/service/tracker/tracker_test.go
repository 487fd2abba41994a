package tracker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"workbench/internal/domain"
	"workbench/internal/domain/models"
)

type fakeTodoRepo struct {
	todos map[string]*models.Todo
	seq   int
}

func (f *fakeTodoRepo) Create(ctx context.Context, todo *models.Todo) error {
	f.seq++
	todo.ID = fmt.Sprintf("todo-%d", f.seq)
	todo.CreatedAt = time.Now()
	todo.UpdatedAt = todo.CreatedAt
	cp := *todo
	f.todos[todo.ID] = &cp
	return nil
}

func (f *fakeTodoRepo) GetByID(ctx context.Context, id, ownerID string) (*models.Todo, error) {
	todo, ok := f.todos[id]
	if !ok || todo.OwnerID != ownerID {
		return nil, domain.ErrNotFound
	}
	cp := *todo
	return &cp, nil
}

func (f *fakeTodoRepo) Update(ctx context.Context, todo *models.Todo) error {
	if _, ok := f.todos[todo.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *todo
	f.todos[todo.ID] = &cp
	return nil
}

func (f *fakeTodoRepo) Delete(ctx context.Context, id, ownerID string) error {
	todo, ok := f.todos[id]
	if !ok || todo.OwnerID != ownerID {
		return domain.ErrNotFound
	}
	delete(f.todos, id)
	return nil
}

func (f *fakeTodoRepo) ListByOwner(ctx context.Context, ownerID string) ([]models.Todo, error) {
	var out []models.Todo
	for _, todo := range f.todos {
		if todo.OwnerID == ownerID {
			out = append(out, *todo)
		}
	}
	return out, nil
}

type fakeExpenseRepo struct {
	expenses map[string]*models.Expense
	seq      int
}

func (f *fakeExpenseRepo) Create(ctx context.Context, expense *models.Expense) error {
	f.seq++
	expense.ID = fmt.Sprintf("expense-%d", f.seq)
	expense.CreatedAt = time.Now()
	expense.UpdatedAt = expense.CreatedAt
	cp := *expense
	f.expenses[expense.ID] = &cp
	return nil
}

func (f *fakeExpenseRepo) GetByID(ctx context.Context, id, ownerID string) (*models.Expense, error) {
	expense, ok := f.expenses[id]
	if !ok || expense.OwnerID != ownerID {
		return nil, domain.ErrNotFound
	}
	cp := *expense
	return &cp, nil
}

func (f *fakeExpenseRepo) Update(ctx context.Context, expense *models.Expense) error {
	if _, ok := f.expenses[expense.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *expense
	f.expenses[expense.ID] = &cp
	return nil
}

func (f *fakeExpenseRepo) Delete(ctx context.Context, id, ownerID string) error {
	expense, ok := f.expenses[id]
	if !ok || expense.OwnerID != ownerID {
		return domain.ErrNotFound
	}
	delete(f.expenses, id)
	return nil
}

func (f *fakeExpenseRepo) ListByOwner(ctx context.Context, ownerID string) ([]models.Expense, error) {
	var out []models.Expense
	for _, expense := range f.expenses {
		if expense.OwnerID == ownerID {
			out = append(out, *expense)
		}
	}
	return out, nil
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestTodoService(t *testing.T) {
	repo := &fakeTodoRepo{todos: make(map[string]*models.Todo)}
	svc := NewTodoService(repo, discard())
	ctx := context.Background()

	todo, err := svc.Create(ctx, "alice", &models.CreateTodoRequest{Title: "  write tests  "})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if todo.Title != "write tests" {
		t.Errorf("title = %q, want trimmed", todo.Title)
	}
	if todo.Status != models.TodoPending {
		t.Errorf("status = %q, want pending", todo.Status)
	}

	t.Run("blank title rejected", func(t *testing.T) {
		_, err := svc.Create(ctx, "alice", &models.CreateTodoRequest{Title: "  "})
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("err = %v, want ErrValidation", err)
		}
	})

	t.Run("partial update", func(t *testing.T) {
		status := models.TodoCompleted
		updated, err := svc.Update(ctx, "alice", todo.ID, &models.UpdateTodoRequest{Status: &status})
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
		if updated.Status != models.TodoCompleted {
			t.Errorf("status = %q, want completed", updated.Status)
		}
		if updated.Title != "write tests" {
			t.Error("untouched field changed")
		}
	})

	t.Run("bad status rejected", func(t *testing.T) {
		status := models.TodoStatus("paused")
		_, err := svc.Update(ctx, "alice", todo.ID, &models.UpdateTodoRequest{Status: &status})
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("err = %v, want ErrValidation", err)
		}
	})

	t.Run("other user sees nothing", func(t *testing.T) {
		if _, err := svc.Update(ctx, "bob", todo.ID, &models.UpdateTodoRequest{}); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
		if err := svc.Delete(ctx, "bob", todo.ID); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})
}

func TestExpenseService(t *testing.T) {
	repo := &fakeExpenseRepo{expenses: make(map[string]*models.Expense)}
	svc := NewExpenseService(repo, discard())
	ctx := context.Background()

	for _, amount := range []float64{10.50, 4.25} {
		_, err := svc.Create(ctx, "alice", &models.CreateExpenseRequest{
			Amount:      amount,
			Description: "groceries",
			Category:    "food",
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	// Another user's expense must not leak into the report.
	if _, err := svc.Create(ctx, "bob", &models.CreateExpenseRequest{
		Amount:      99,
		Description: "rent",
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	report, err := svc.List(ctx, "alice")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(report.Expenses) != 2 {
		t.Fatalf("expenses = %d, want 2", len(report.Expenses))
	}
	if report.TotalAmount != 14.75 {
		t.Errorf("total = %v, want 14.75", report.TotalAmount)
	}

	t.Run("non-positive amount rejected", func(t *testing.T) {
		_, err := svc.Create(ctx, "alice", &models.CreateExpenseRequest{
			Amount:      0,
			Description: "free lunch",
		})
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("err = %v, want ErrValidation", err)
		}
	})
}
