package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/msomdec/todo-api/internal/domain"
	"github.com/msomdec/todo-api/internal/service"
)

// operation is one named entry of the query/mutation surface.
type operation struct {
	requiresAuth bool
	rateLimited  bool
	run          func(ctx context.Context, caller *domain.User, vars json.RawMessage) (any, error)
}

// OperationsHandler serves the named-operation endpoint. It dispatches
// {"operation": name, "variables": {...}} to the same services the REST
// routes use.
type OperationsHandler struct {
	auth    *service.AuthService
	todos   *service.TodoService
	limiter *service.TokenBucket
	ops     map[string]operation
}

// NewOperationsHandler creates an OperationsHandler.
func NewOperationsHandler(auth *service.AuthService, todos *service.TodoService, limiter *service.TokenBucket) *OperationsHandler {
	h := &OperationsHandler{auth: auth, todos: todos, limiter: limiter}
	h.ops = map[string]operation{
		"signup":     {rateLimited: true, run: h.signup},
		"login":      {rateLimited: true, run: h.login},
		"me":         {requiresAuth: true, run: h.me},
		"todos":      {requiresAuth: true, run: h.listTodos},
		"createTodo": {requiresAuth: true, run: h.createTodo},
		"updateTodo": {requiresAuth: true, run: h.updateTodo},
		"deleteTodo": {requiresAuth: true, run: h.deleteTodo},
	}
	return h
}

// Operations returns the names of every supported operation, sorted.
func (h *OperationsHandler) Operations() []string {
	names := make([]string, 0, len(h.ops))
	for name := range h.ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Handle executes one named operation.
// POST /api/operations
// Request:  {"operation":"createTodo","variables":{"title":"Buy milk"}}
// Response: {"data": ...} or {"error": "..."}
func (h *OperationsHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Operation string          `json:"operation"`
		Variables json.RawMessage `json:"variables"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	op, ok := h.ops[req.Operation]
	if !ok {
		writeServiceError(w, fmt.Errorf("%w: unknown operation %q (expected one of %s)",
			domain.ErrInvalidInput, req.Operation, strings.Join(h.Operations(), ", ")))
		return
	}

	if op.rateLimited && !h.limiter.Allow(clientKey(r)) {
		writeError(w, http.StatusTooManyRequests, "Too many attempts. Please wait a moment and try again.")
		return
	}

	caller := UserFromContext(r.Context())
	if op.requiresAuth && caller == nil {
		writeServiceError(w, domain.ErrUnauthorized)
		return
	}

	data, err := op.run(r.Context(), caller, req.Variables)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"data": data})
}

// decodeVariables unmarshals vars into dst. Absent variables leave dst at its
// zero value so that the service reports which arguments are missing.
func decodeVariables(vars json.RawMessage, dst any) error {
	if len(vars) == 0 || string(vars) == "null" {
		return nil
	}
	if err := json.Unmarshal(vars, dst); err != nil {
		return fmt.Errorf("%w: malformed variables: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

func (h *OperationsHandler) signup(ctx context.Context, _ *domain.User, vars json.RawMessage) (any, error) {
	var v struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeVariables(vars, &v); err != nil {
		return nil, err
	}
	return h.auth.Signup(ctx, v.Name, v.Email, v.Password)
}

func (h *OperationsHandler) login(ctx context.Context, _ *domain.User, vars json.RawMessage) (any, error) {
	var v struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeVariables(vars, &v); err != nil {
		return nil, err
	}
	return h.auth.Login(ctx, v.Email, v.Password)
}

func (h *OperationsHandler) me(_ context.Context, caller *domain.User, _ json.RawMessage) (any, error) {
	user, err := h.auth.Me(caller)
	if err != nil {
		return nil, err
	}
	return toUserDTO(user), nil
}

func (h *OperationsHandler) listTodos(ctx context.Context, caller *domain.User, _ json.RawMessage) (any, error) {
	todos, err := h.todos.List(ctx, caller)
	if err != nil {
		return nil, err
	}
	return toTodoDTOs(todos), nil
}

func (h *OperationsHandler) createTodo(ctx context.Context, caller *domain.User, vars json.RawMessage) (any, error) {
	var v struct {
		Title string `json:"title"`
	}
	if err := decodeVariables(vars, &v); err != nil {
		return nil, err
	}
	todo, err := h.todos.Create(ctx, caller, v.Title)
	if err != nil {
		return nil, err
	}
	return toTodoDTO(todo), nil
}

func (h *OperationsHandler) updateTodo(ctx context.Context, caller *domain.User, vars json.RawMessage) (any, error) {
	var v struct {
		ID    int64  `json:"id"`
		Title string `json:"title"`
		Done  *bool  `json:"done"`
	}
	if err := decodeVariables(vars, &v); err != nil {
		return nil, err
	}
	todo, err := h.todos.Update(ctx, caller, v.ID, v.Title, v.Done)
	if err != nil {
		return nil, err
	}
	return toTodoDTO(todo), nil
}

func (h *OperationsHandler) deleteTodo(ctx context.Context, caller *domain.User, vars json.RawMessage) (any, error) {
	var v struct {
		ID int64 `json:"id"`
	}
	if err := decodeVariables(vars, &v); err != nil {
		return nil, err
	}
	todo, err := h.todos.Delete(ctx, caller, v.ID)
	if err != nil {
		return nil, err
	}
	return toTodoDTO(todo), nil
}
