package store

import (
	"database/sql"
	"testing"
)

// NewTestDB opens an in-memory database. Only intended for use in tests.
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("opening in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return &DB{DB: db}
}
