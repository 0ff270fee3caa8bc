package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/todo-api/internal/domain"
)

// TodoRepository implements domain.TodoRepository using SQLite.
type TodoRepository struct {
	db *sql.DB
}

// NewTodoRepository creates a new SQLite-backed TodoRepository.
func NewTodoRepository(db *DB) *TodoRepository {
	return &TodoRepository{db: db.SqlDB}
}

func (r *TodoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO todos (user_id, title, done, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		todo.UserID, todo.Title, todo.Done, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert todo: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	todo.ID = id
	todo.CreatedAt = now
	todo.UpdatedAt = now
	return nil
}

func (r *TodoRepository) GetByID(ctx context.Context, id int64) (*domain.Todo, error) {
	t := &domain.Todo{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, done, created_at, updated_at
		 FROM todos WHERE id = ?`, id,
	).Scan(&t.ID, &t.UserID, &t.Title, &t.Done, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get todo by id: %w", err)
	}
	return t, nil
}

func (r *TodoRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Todo, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, title, done, created_at, updated_at
		 FROM todos WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list user todos: %w", err)
	}
	defer rows.Close()

	var todos []domain.Todo
	for rows.Next() {
		var t domain.Todo
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Done, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

// Update overwrites title and done. UserID is never reassigned.
func (r *TodoRepository) Update(ctx context.Context, todo *domain.Todo) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE todos SET title = ?, done = ?, updated_at = ? WHERE id = ?`,
		todo.Title, todo.Done, now, todo.ID,
	)
	if err != nil {
		return fmt.Errorf("update todo: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	todo.UpdatedAt = now
	return nil
}

func (r *TodoRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM todos WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
