package metadata

import (
	"context"
	"strings"

	"github.com/tordrt/dbtomodel/internal/schema"
)

// mysqlAdapter reads information_schema of the connection's current database
type mysqlAdapter struct {
	src schema.Source
}

func (a *mysqlAdapter) tables(ctx context.Context) ([]string, error) {
	query := `
		SELECT table_name AS table_name
		FROM information_schema.tables
		WHERE table_schema = DATABASE() AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`

	rows, err := a.src.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return stringColumn(rows, "table_name"), nil
}

func (a *mysqlAdapter) columns(ctx context.Context, table string) ([]rawColumn, error) {
	query := `
		SELECT
			column_name AS column_name,
			column_type AS column_type,
			is_nullable AS is_nullable,
			column_default AS column_default,
			extra AS extra
		FROM information_schema.columns
		WHERE table_schema = DATABASE() AND table_name = ?
		ORDER BY ordinal_position
	`

	rows, err := a.src.Query(ctx, query, table)
	if err != nil {
		return nil, err
	}

	columns := make([]rawColumn, 0, len(rows))
	for _, row := range rows {
		columns = append(columns, rawColumn{
			name:          rowString(row, "column_name"),
			dataType:      rowString(row, "column_type"),
			nullable:      rowBool(row, "is_nullable"),
			rawDefault:    rowNullString(row, "column_default"),
			autoIncrement: strings.Contains(strings.ToLower(rowString(row, "extra")), "auto_increment"),
		})
	}
	return columns, nil
}

func (a *mysqlAdapter) primaryKey(ctx context.Context, table string) ([]string, error) {
	query := `
		SELECT column_name AS column_name
		FROM information_schema.key_column_usage
		WHERE table_schema = DATABASE()
			AND table_name = ?
			AND constraint_name = 'PRIMARY'
		ORDER BY ordinal_position
	`

	rows, err := a.src.Query(ctx, query, table)
	if err != nil {
		return nil, err
	}
	return stringColumn(rows, "column_name"), nil
}

func (a *mysqlAdapter) uniqueColumns(ctx context.Context, table string) ([]string, error) {
	query := `
		SELECT MIN(column_name) AS column_name
		FROM information_schema.statistics
		WHERE table_schema = DATABASE()
			AND table_name = ?
			AND non_unique = 0
			AND index_name <> 'PRIMARY'
		GROUP BY index_name
		HAVING COUNT(*) = 1
	`

	rows, err := a.src.Query(ctx, query, table)
	if err != nil {
		return nil, err
	}
	return stringColumn(rows, "column_name"), nil
}

func (a *mysqlAdapter) foreignKeys(ctx context.Context, table string) ([]schema.ForeignKey, error) {
	query := `
		SELECT
			table_name AS from_table,
			column_name AS from_column,
			referenced_table_name AS to_table,
			referenced_column_name AS to_column
		FROM information_schema.key_column_usage
		WHERE table_schema = DATABASE()
			AND table_name = ?
			AND referenced_table_name IS NOT NULL
		ORDER BY constraint_name, ordinal_position
	`

	rows, err := a.src.Query(ctx, query, table)
	if err != nil {
		return nil, err
	}
	return foreignKeyRows(rows), nil
}

func (a *mysqlAdapter) referencingTables(ctx context.Context, table string) ([]schema.ForeignKey, error) {
	query := `
		SELECT
			table_name AS from_table,
			column_name AS from_column,
			referenced_table_name AS to_table,
			referenced_column_name AS to_column
		FROM information_schema.key_column_usage
		WHERE referenced_table_schema = DATABASE()
			AND referenced_table_name = ?
		ORDER BY table_name, constraint_name, ordinal_position
	`

	rows, err := a.src.Query(ctx, query, table)
	if err != nil {
		return nil, err
	}
	return foreignKeyRows(rows), nil
}

func (a *mysqlAdapter) normalizeDefault(raw string) *string {
	return normalizeWith(raw)
}

// stringColumn collects one text column from every row
func stringColumn(rows []schema.Row, key string) []string {
	values := make([]string, 0, len(rows))
	for _, row := range rows {
		values = append(values, rowString(row, key))
	}
	return values
}

// foreignKeyRows reads from_table/from_column/to_table/to_column rows
func foreignKeyRows(rows []schema.Row) []schema.ForeignKey {
	fks := make([]schema.ForeignKey, 0, len(rows))
	for _, row := range rows {
		fks = append(fks, schema.ForeignKey{
			FromTable:  rowString(row, "from_table"),
			FromColumn: rowString(row, "from_column"),
			ToTable:    rowString(row, "to_table"),
			ToColumn:   rowString(row, "to_column"),
		})
	}
	return fks
}
