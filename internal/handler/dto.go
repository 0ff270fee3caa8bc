package handler

import (
	"time"

	"github.com/msomdec/todo-api/internal/domain"
)

// UserDTO is the JSON representation of a user. It never carries the password hash.
type UserDTO struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.Format(time.RFC3339),
	}
}

// TodoDTO is the JSON representation of a todo.
type TodoDTO struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Done      bool   `json:"done"`
	UserID    int64  `json:"userId"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func toTodoDTO(t *domain.Todo) TodoDTO {
	return TodoDTO{
		ID:        t.ID,
		Title:     t.Title,
		Done:      t.Done,
		UserID:    t.UserID,
		CreatedAt: t.CreatedAt.Format(time.RFC3339),
		UpdatedAt: t.UpdatedAt.Format(time.RFC3339),
	}
}

// toTodoDTOs always returns a non-nil slice so an empty list encodes as [].
func toTodoDTOs(todos []domain.Todo) []TodoDTO {
	dtos := make([]TodoDTO, len(todos))
	for i := range todos {
		dtos[i] = toTodoDTO(&todos[i])
	}
	return dtos
}
