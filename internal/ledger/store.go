package ledger

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Store is an in-memory SQLite ledger tracking the items of the current run.
// Nothing is persisted: the database lives and dies with the process.
type Store struct {
	db *sql.DB
}

// Open creates a fresh in-memory ledger and applies the schema.
func Open(ctx context.Context) (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	// Each pooled connection would get its own private memory database, so
	// the pool must stay at exactly one connection.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.initSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
