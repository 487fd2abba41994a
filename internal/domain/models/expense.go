package models

import "time"

type Expense struct {
	ID          string    `json:"id"`
	Amount      float64   `json:"amount"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	OwnerID     string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateExpenseRequest struct {
	Amount      float64    `json:"amount"`
	Date        *time.Time `json:"date"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
}

type UpdateExpenseRequest struct {
	Amount      *float64   `json:"amount"`
	Date        *time.Time `json:"date"`
	Description *string    `json:"description"`
	Category    *string    `json:"category"`
}

// ExpenseReport is the list response shape; the total is computed per
// request, matching the dashboard summary.
type ExpenseReport struct {
	Expenses    []Expense `json:"expenses"`
	TotalAmount float64   `json:"total_amount"`
}
