package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/tordrt/dbtomodel/internal/schema"
)

// MySQLClient manages the connection to MySQL
type MySQLClient struct {
	db *sql.DB
}

// NewMySQLClient creates a new MySQL client from a driver DSN
// (user:pass@tcp(host:port)/database)
func NewMySQLClient(ctx context.Context, dsn string) (*MySQLClient, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid MySQL DSN: %w", err)
	}
	if cfg.DBName == "" {
		return nil, fmt.Errorf("MySQL DSN must name a database")
	}

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db, err := openSQL(ctx, sql.OpenDB(connector))
	if err != nil {
		return nil, err
	}
	return &MySQLClient{db: db}, nil
}

// Dialect reports MySQL
func (c *MySQLClient) Dialect() schema.Dialect {
	return schema.MySQL
}

// Query runs a metadata query and returns its rows
func (c *MySQLClient) Query(ctx context.Context, query string, args ...any) ([]schema.Row, error) {
	return queryRows(ctx, c.db, query, args...)
}

// Close closes the database connection
func (c *MySQLClient) Close() error {
	return c.db.Close()
}

// ParseDatabaseName extracts the database name from a MySQL DSN
func ParseDatabaseName(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", err
	}
	if cfg.DBName == "" {
		return "", fmt.Errorf("no database name in DSN")
	}
	return cfg.DBName, nil
}
