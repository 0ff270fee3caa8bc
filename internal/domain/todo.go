package domain

import (
	"context"
	"time"
)

// Todo is a task item owned by exactly one user. UserID is fixed at creation.
type Todo struct {
	ID        int64
	UserID    int64
	Title     string
	Done      bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TodoRepository defines persistence operations for todos.
type TodoRepository interface {
	Create(ctx context.Context, todo *Todo) error
	GetByID(ctx context.Context, id int64) (*Todo, error)
	ListByUser(ctx context.Context, userID int64) ([]Todo, error)
	Update(ctx context.Context, todo *Todo) error
	Delete(ctx context.Context, id int64) error
}
