package models

import "time"

type TodoStatus string

const (
	TodoPending   TodoStatus = "pending"
	TodoCompleted TodoStatus = "completed"
)

type Todo struct {
	ID          string     `json:"id"`
	Title       string     `json:"todo"`
	Description string     `json:"description"`
	Due         time.Time  `json:"date"`
	Status      TodoStatus `json:"status"`
	OwnerID     string     `json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type CreateTodoRequest struct {
	Title       string     `json:"todo"`
	Description string     `json:"description"`
	Due         *time.Time `json:"date"`
}

type UpdateTodoRequest struct {
	Title       *string     `json:"todo"`
	Description *string     `json:"description"`
	Due         *time.Time  `json:"date"`
	Status      *TodoStatus `json:"status"`
}
