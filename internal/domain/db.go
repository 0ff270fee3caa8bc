package domain

import "context"

// Database defines lifecycle operations for the underlying database and
// hands out the repositories bound to it. Each implementation (SQLite,
// Postgres) owns its own migration files and strategy, so the whole
// storage backend is swappable.
type Database interface {
	Migrate(ctx context.Context) error
	Close() error
	Users() UserRepository
	Todos() TodoRepository
}
