package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tordrt/dbtomodel/internal/schema"
)

// SQLiteClient manages the connection to SQLite
type SQLiteClient struct {
	db *sql.DB
}

// NewSQLiteClient creates a new SQLite client
func NewSQLiteClient(ctx context.Context, path string) (*SQLiteClient, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db, err = openSQL(ctx, db)
	if err != nil {
		return nil, err
	}
	return &SQLiteClient{db: db}, nil
}

// Dialect reports SQLite
func (c *SQLiteClient) Dialect() schema.Dialect {
	return schema.SQLite
}

// Query runs a metadata query and returns its rows
func (c *SQLiteClient) Query(ctx context.Context, query string, args ...any) ([]schema.Row, error) {
	return queryRows(ctx, c.db, query, args...)
}

// Close closes the database connection
func (c *SQLiteClient) Close() error {
	return c.db.Close()
}

// GetDB returns the underlying database connection
func (c *SQLiteClient) GetDB() *sql.DB {
	return c.db
}
