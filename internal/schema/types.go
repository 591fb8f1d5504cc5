package schema

import "context"

// Dialect identifies a database engine family
type Dialect string

// Supported dialects
const (
	MySQL     Dialect = "mysql"
	Postgres  Dialect = "postgres"
	SQLite    Dialect = "sqlite"
	SQLServer Dialect = "sqlserver"
)

// Row is one result row keyed by lower-cased column label
type Row map[string]any

// Source is the connectivity capability the generator consumes.
// Every metadata lookup is expressed as one or more Query calls.
type Source interface {
	Dialect() Dialect
	Query(ctx context.Context, query string, args ...any) ([]Row, error)
}

// Column represents a table column as reported by the database
type Column struct {
	Name            string
	Type            string // raw, dialect-native type
	Nullable        bool
	DefaultValue    *string // normalized default, nil when the column has none
	IsPrimaryKey    bool
	IsAutoIncrement bool
	IsUnique        bool
}

// ForeignKey represents a foreign key edge: FromTable depends on ToTable
type ForeignKey struct {
	FromTable  string
	FromColumn string
	ToTable    string
	ToColumn   string
}

// Table groups the metadata fetched for a single table
type Table struct {
	Name       string
	Columns    []Column
	PrimaryKey []string
}

// Column returns the named column, or false if the table has no such column
func (t *Table) Column(name string) (Column, bool) {
	for _, col := range t.Columns {
		if col.Name == name {
			return col, true
		}
	}
	return Column{}, false
}

// ColumnNames returns the column names in declaration order
func (t *Table) ColumnNames() []string {
	names := make([]string, 0, len(t.Columns))
	for _, col := range t.Columns {
		names = append(names, col.Name)
	}
	return names
}
