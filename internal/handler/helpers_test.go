package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/msomdec/todo-api/internal/handler"
	"github.com/msomdec/todo-api/internal/repository/sqlite"
	"github.com/msomdec/todo-api/internal/service"
)

const testJWTSecret = "test-secret-for-handler-tests-0123456789"

type testApp struct {
	auth  *service.AuthService
	todos *service.TodoService
	srv   *httptest.Server
}

func newTestServices(t *testing.T) (*service.AuthService, *service.TodoService) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return service.NewAuthService(db.Users(), testJWTSecret, 4, time.Hour),
		service.NewTodoService(db.Todos())
}

// newTestApp starts a server for the full router. authPerMinute bounds
// signup/login attempts per client.
func newTestApp(t *testing.T, authPerMinute int) *testApp {
	t.Helper()
	return newTestAppWithProxy(t, authPerMinute, false)
}

func newTestAppWithProxy(t *testing.T, authPerMinute int, trustProxy bool) *testApp {
	t.Helper()
	auth, todos := newTestServices(t)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	limiter := service.PerMinute(ctx, authPerMinute)

	srv := httptest.NewServer(handler.NewRouter(auth, todos, limiter, trustProxy))
	t.Cleanup(srv.Close)
	return &testApp{auth: auth, todos: todos, srv: srv}
}

// do sends a JSON request and decodes the JSON response into out (if non-nil).
func (a *testApp) do(t *testing.T, method, path, token string, body any, out any) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, a.srv.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s response: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func (a *testApp) signup(t *testing.T, name, email string) string {
	t.Helper()
	var resp struct {
		Token string `json:"token"`
	}
	status := a.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name": name, "email": email, "password": "password123",
	}, &resp)
	if status != http.StatusCreated {
		t.Fatalf("signup %s: expected 201, got %d", email, status)
	}
	if resp.Token == "" {
		t.Fatalf("signup %s: expected token", email)
	}
	return resp.Token
}

type errorBody struct {
	Error string `json:"error"`
}

type todoBody struct {
	Todo handler.TodoDTO `json:"todo"`
}

type todosBody struct {
	Todos []handler.TodoDTO `json:"todos"`
}
