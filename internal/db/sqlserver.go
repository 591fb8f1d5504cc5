package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/microsoft/go-mssqldb"

	"github.com/tordrt/dbtomodel/internal/schema"
)

// SQLServerClient manages the connection to Microsoft SQL Server
type SQLServerClient struct {
	db *sql.DB
}

// NewSQLServerClient creates a new SQL Server client from a sqlserver:// URL
func NewSQLServerClient(ctx context.Context, connString string) (*SQLServerClient, error) {
	db, err := sql.Open("sqlserver", connString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db, err = openSQL(ctx, db)
	if err != nil {
		return nil, err
	}
	return &SQLServerClient{db: db}, nil
}

// Dialect reports SQL Server
func (c *SQLServerClient) Dialect() schema.Dialect {
	return schema.SQLServer
}

// Query runs a metadata query and returns its rows
func (c *SQLServerClient) Query(ctx context.Context, query string, args ...any) ([]schema.Row, error) {
	return queryRows(ctx, c.db, query, args...)
}

// Close closes the database connection
func (c *SQLServerClient) Close() error {
	return c.db.Close()
}
