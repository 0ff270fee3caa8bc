// Package postgres implements domain.Database on PostgreSQL using a pgx
// connection pool. Schema changes are applied with golang-migrate.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/msomdec/todo-api/internal/domain"
	"github.com/msomdec/todo-api/internal/repository/postgres/migrations"
)

const uniqueViolation = "23505"

// DB wraps a pgx pool and implements domain.Database.
type DB struct {
	Pool *pgxpool.Pool

	url   string
	users *UserRepository
	todos *TodoRepository
}

// New connects to the database at url and verifies the connection.
func New(ctx context.Context, url string) (*DB, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	db := &DB{Pool: pool, url: url}
	db.users = &UserRepository{pool: pool}
	db.todos = &TodoRepository{pool: pool}
	return db, nil
}

// Migrate brings the schema up to the latest embedded version. It uses a
// short-lived database/sql handle because golang-migrate drives its own
// connection and advisory lock.
func (db *DB) Migrate(ctx context.Context) error {
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("open migration source: %w", err)
	}

	sqlDB, err := sql.Open("pgx", db.url)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return fmt.Errorf("ping migration connection: %w", err)
	}

	driver, err := migratepgx.WithInstance(sqlDB, &migratepgx.Config{})
	if err != nil {
		sqlDB.Close()
		return fmt.Errorf("create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "pgx5", driver)
	if err != nil {
		sqlDB.Close()
		return fmt.Errorf("create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// Close releases all pooled connections.
func (db *DB) Close() error {
	db.Pool.Close()
	return nil
}

func (db *DB) Users() domain.UserRepository { return db.users }

func (db *DB) Todos() domain.TodoRepository { return db.todos }

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
