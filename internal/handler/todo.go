package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/msomdec/todo-api/internal/domain"
	"github.com/msomdec/todo-api/internal/service"
)

// TodoHandler handles todo HTTP requests. Every route requires a session.
type TodoHandler struct {
	todos *service.TodoService
}

// NewTodoHandler creates a new TodoHandler.
func NewTodoHandler(todos *service.TodoService) *TodoHandler {
	return &TodoHandler{todos: todos}
}

// HandleList returns the caller's todos.
// GET /api/todos
func (h *TodoHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	todos, err := h.todos.List(r.Context(), UserFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"todos": toTodoDTOs(todos),
	})
}

// HandleCreate adds a todo for the caller.
// POST /api/todos
// Request: {"title":"..."}
func (h *TodoHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeServiceError(w, domain.ErrUnauthorized)
		return
	}

	var req struct {
		Title string `json:"title"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	todo, err := h.todos.Create(r.Context(), user, req.Title)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"todo": toTodoDTO(todo),
	})
}

// HandleUpdate overwrites title and done.
// PUT /api/todos/{id}
// Request: {"title":"...","done":true}
func (h *TodoHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeServiceError(w, domain.ErrUnauthorized)
		return
	}

	id, err := todoID(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var req struct {
		Title string `json:"title"`
		Done  *bool  `json:"done"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	todo, err := h.todos.Update(r.Context(), user, id, req.Title, req.Done)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"todo": toTodoDTO(todo),
	})
}

// HandleDelete removes a todo and returns it as it was before removal.
// DELETE /api/todos/{id}
func (h *TodoHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeServiceError(w, domain.ErrUnauthorized)
		return
	}

	id, err := todoID(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	todo, err := h.todos.Delete(r.Context(), user, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"todo": toTodoDTO(todo),
	})
}

// todoID reads the {id} path parameter. A non-numeric id is the same kind of
// input error as a non-positive one.
func todoID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: todo id must be a positive integer", domain.ErrInvalidInput)
	}
	return id, nil
}
