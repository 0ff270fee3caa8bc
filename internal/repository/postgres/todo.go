package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/msomdec/todo-api/internal/domain"
)

// TodoRepository implements domain.TodoRepository using PostgreSQL.
type TodoRepository struct {
	pool *pgxpool.Pool
}

func (r *TodoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO todos (user_id, title, done)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		todo.UserID, todo.Title, todo.Done,
	).Scan(&todo.ID, &todo.CreatedAt, &todo.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert todo: %w", err)
	}
	return nil
}

func (r *TodoRepository) GetByID(ctx context.Context, id int64) (*domain.Todo, error) {
	t := &domain.Todo{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, title, done, created_at, updated_at
		 FROM todos WHERE id = $1`, id,
	).Scan(&t.ID, &t.UserID, &t.Title, &t.Done, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get todo by id: %w", err)
	}
	return t, nil
}

func (r *TodoRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Todo, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, title, done, created_at, updated_at
		 FROM todos WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list user todos: %w", err)
	}

	todos, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Todo, error) {
		var t domain.Todo
		err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Done, &t.CreatedAt, &t.UpdatedAt)
		return t, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan todos: %w", err)
	}
	return todos, nil
}

func (r *TodoRepository) Update(ctx context.Context, todo *domain.Todo) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE todos SET title = $1, done = $2, updated_at = now()
		 WHERE id = $3
		 RETURNING updated_at`,
		todo.Title, todo.Done, todo.ID,
	).Scan(&todo.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update todo: %w", err)
	}
	return nil
}

func (r *TodoRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM todos WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
