package postgres_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/msomdec/todo-api/internal/domain"
	"github.com/msomdec/todo-api/internal/repository/postgres"
)

var _ domain.Database = (*postgres.DB)(nil)

// newTestDB connects to TODO_TEST_POSTGRES_URL, migrates, and empties both
// tables. Tests are skipped when the variable is unset.
func newTestDB(t *testing.T) *postgres.DB {
	t.Helper()
	url := os.Getenv("TODO_TEST_POSTGRES_URL")
	if url == "" {
		t.Skip("TODO_TEST_POSTGRES_URL not set")
	}

	ctx := context.Background()
	db, err := postgres.New(ctx, url)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if _, err := db.Pool.Exec(ctx, "TRUNCATE todos, users RESTART IDENTITY CASCADE"); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return db
}

func TestMigrateIdempotent(t *testing.T) {
	db := newTestDB(t)

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
}

func TestUserRepository(t *testing.T) {
	db := newTestDB(t)
	repo := db.Users()
	ctx := context.Background()

	user := &domain.User{Name: "Pg User", Email: "pg@example.com", PasswordHash: "hash"}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if user.ID == 0 || user.CreatedAt.IsZero() {
		t.Fatalf("expected id and timestamps, got %+v", user)
	}

	dup := &domain.User{Name: "Other", Email: "pg@example.com", PasswordHash: "hash"}
	if err := repo.Create(ctx, dup); !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	byEmail, err := repo.GetByEmail(ctx, "pg@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if byEmail.ID != user.ID {
		t.Fatalf("expected id %d, got %d", user.ID, byEmail.ID)
	}

	if _, err := repo.GetByID(ctx, user.ID+1000); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTodoRepository(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	owner := &domain.User{Name: "Owner", Email: "owner@example.com", PasswordHash: "hash"}
	if err := db.Users().Create(ctx, owner); err != nil {
		t.Fatalf("Create user: %v", err)
	}

	repo := db.Todos()
	todo := &domain.Todo{UserID: owner.ID, Title: "Buy milk"}
	if err := repo.Create(ctx, todo); err != nil {
		t.Fatalf("Create: %v", err)
	}

	todo.Title = "Buy oat milk"
	todo.Done = true
	if err := repo.Update(ctx, todo); err != nil {
		t.Fatalf("Update: %v", err)
	}

	list, err := repo.ListByUser(ctx, owner.ID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(list) != 1 || list[0].Title != "Buy oat milk" || !list[0].Done {
		t.Fatalf("unexpected list: %+v", list)
	}

	if err := repo.Delete(ctx, todo.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, todo.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.Update(ctx, todo); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound updating deleted todo, got %v", err)
	}
}
