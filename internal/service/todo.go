package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/msomdec/todo-api/internal/domain"
)

const maxTitleLength = 500

// TodoService handles todo operations scoped to the calling user.
type TodoService struct {
	todos domain.TodoRepository
}

// NewTodoService creates a new TodoService.
func NewTodoService(todos domain.TodoRepository) *TodoService {
	return &TodoService{todos: todos}
}

// List returns every todo owned by the caller.
func (s *TodoService) List(ctx context.Context, caller *domain.User) ([]domain.Todo, error) {
	if caller == nil {
		return nil, domain.ErrUnauthorized
	}
	return s.todos.ListByUser(ctx, caller.ID)
}

// Create adds a not-yet-done todo owned by the caller.
func (s *TodoService) Create(ctx context.Context, caller *domain.User, title string) (*domain.Todo, error) {
	if caller == nil {
		return nil, domain.ErrUnauthorized
	}
	title, err := validateTitle(title)
	if err != nil {
		return nil, err
	}

	todo := &domain.Todo{
		UserID: caller.ID,
		Title:  title,
	}
	if err := s.todos.Create(ctx, todo); err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}
	return todo, nil
}

// Update overwrites title and done on a todo the caller owns. done is a
// pointer so that an absent value can be told apart from false.
func (s *TodoService) Update(ctx context.Context, caller *domain.User, id int64, title string, done *bool) (*domain.Todo, error) {
	if caller == nil {
		return nil, domain.ErrUnauthorized
	}
	if id <= 0 || done == nil {
		return nil, fmt.Errorf("%w: id, title, and done are required", domain.ErrInvalidInput)
	}
	title, err := validateTitle(title)
	if err != nil {
		return nil, err
	}

	todo, err := s.ownedTodo(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	todo.Title = title
	todo.Done = *done
	if err := s.todos.Update(ctx, todo); err != nil {
		return nil, fmt.Errorf("update todo: %w", err)
	}
	return todo, nil
}

// Delete removes a todo the caller owns and returns it as it was before removal.
func (s *TodoService) Delete(ctx context.Context, caller *domain.User, id int64) (*domain.Todo, error) {
	if caller == nil {
		return nil, domain.ErrUnauthorized
	}
	if id <= 0 {
		return nil, fmt.Errorf("%w: id is required", domain.ErrInvalidInput)
	}

	todo, err := s.ownedTodo(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	if err := s.todos.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("delete todo: %w", err)
	}
	return todo, nil
}

func (s *TodoService) ownedTodo(ctx context.Context, caller *domain.User, id int64) (*domain.Todo, error) {
	todo, err := s.todos.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: todo with that id does not exist", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get todo: %w", err)
	}
	if todo.UserID != caller.ID {
		return nil, domain.ErrForbidden
	}
	return todo, nil
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return "", fmt.Errorf("%w: title must be %d characters or fewer", domain.ErrInvalidInput, maxTitleLength)
	}
	return title, nil
}
