package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/msomdec/todo-api/internal/service"
)

// NewRouter builds the full HTTP surface with its middleware chain. When
// trustProxy is set, forwarded-for headers replace the socket address as the
// client identity used for logging and rate limiting.
func NewRouter(auth *service.AuthService, todos *service.TodoService, limiter *service.TokenBucket, trustProxy bool) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if trustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(
		LogRequests,
		middleware.Recoverer,
		SecurityHeaders,
		ResolveSession(auth),
	)

	authHandler := NewAuthHandler(auth)
	todoHandler := NewTodoHandler(todos)
	opsHandler := NewOperationsHandler(auth, todos, limiter)

	r.Get("/healthz", HandleHealthz)

	r.Route("/api", func(r chi.Router) {
		r.With(RateLimit(limiter)).Post("/auth/signup", authHandler.HandleSignup)
		r.With(RateLimit(limiter)).Post("/auth/login", authHandler.HandleLogin)
		r.Get("/me", authHandler.HandleMe)

		r.Get("/todos", todoHandler.HandleList)
		r.Post("/todos", todoHandler.HandleCreate)
		r.Put("/todos/{id}", todoHandler.HandleUpdate)
		r.Delete("/todos/{id}", todoHandler.HandleDelete)

		r.Post("/operations", opsHandler.Handle)
	})

	return r
}
