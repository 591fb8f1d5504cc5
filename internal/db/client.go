package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/tordrt/dbtomodel/internal/schema"
)

// Client is an open connection that answers metadata queries
type Client interface {
	schema.Source
	Close() error
}

// Connect opens a client for the given dialect
func Connect(ctx context.Context, dialect schema.Dialect, connString string) (Client, error) {
	switch dialect {
	case schema.Postgres:
		return NewPostgresClient(ctx, connString)
	case schema.MySQL:
		return NewMySQLClient(ctx, connString)
	case schema.SQLite:
		return NewSQLiteClient(ctx, connString)
	case schema.SQLServer:
		return NewSQLServerClient(ctx, connString)
	default:
		return nil, fmt.Errorf("no client for dialect %q", dialect)
	}
}

// openSQL opens and pings a database/sql handle
func openSQL(ctx context.Context, db *sql.DB) (*sql.DB, error) {
	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// queryRows runs a query through database/sql and collects every row as a map
func queryRows(ctx context.Context, db *sql.DB, query string, args ...any) ([]schema.Row, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var result []schema.Row
	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		row := make(schema.Row, len(columns))
		for i, name := range columns {
			row[strings.ToLower(name)] = normalizeValue(values[i])
		}
		result = append(result, row)
	}

	return result, rows.Err()
}

// toRows lower-cases the keys of driver-native maps
func toRows(maps []map[string]any) []schema.Row {
	result := make([]schema.Row, 0, len(maps))
	for _, m := range maps {
		row := make(schema.Row, len(m))
		for k, v := range m {
			row[strings.ToLower(k)] = normalizeValue(v)
		}
		result = append(result, row)
	}
	return result
}

// normalizeValue turns driver byte slices into strings so adapters see text uniformly
func normalizeValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
