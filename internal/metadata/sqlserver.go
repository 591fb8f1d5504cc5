package metadata

import (
	"context"
	"fmt"
	"strings"

	"github.com/tordrt/dbtomodel/internal/schema"
)

// sqlServerAdapter reads INFORMATION_SCHEMA and the sys catalog views for SCHEMA_NAME()
type sqlServerAdapter struct {
	src schema.Source
}

func (a *sqlServerAdapter) tables(ctx context.Context) ([]string, error) {
	query := `
		SELECT TABLE_NAME AS table_name
		FROM INFORMATION_SCHEMA.TABLES
		WHERE TABLE_SCHEMA = SCHEMA_NAME() AND TABLE_TYPE = 'BASE TABLE'
		ORDER BY TABLE_NAME
	`

	rows, err := a.src.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return stringColumn(rows, "table_name"), nil
}

func (a *sqlServerAdapter) columns(ctx context.Context, table string) ([]rawColumn, error) {
	query := `
		SELECT
			c.COLUMN_NAME AS column_name,
			c.DATA_TYPE AS data_type,
			c.CHARACTER_MAXIMUM_LENGTH AS char_max_length,
			c.NUMERIC_PRECISION AS numeric_precision,
			c.NUMERIC_SCALE AS numeric_scale,
			c.IS_NULLABLE AS is_nullable,
			c.COLUMN_DEFAULT AS column_default,
			COLUMNPROPERTY(OBJECT_ID(QUOTENAME(c.TABLE_SCHEMA) + '.' + QUOTENAME(c.TABLE_NAME)), c.COLUMN_NAME, 'IsIdentity') AS is_identity
		FROM INFORMATION_SCHEMA.COLUMNS c
		WHERE c.TABLE_SCHEMA = SCHEMA_NAME() AND c.TABLE_NAME = @p1
		ORDER BY c.ORDINAL_POSITION
	`

	rows, err := a.src.Query(ctx, query, table)
	if err != nil {
		return nil, err
	}

	columns := make([]rawColumn, 0, len(rows))
	for _, row := range rows {
		columns = append(columns, rawColumn{
			name:          rowString(row, "column_name"),
			dataType:      sqlServerType(row),
			nullable:      rowBool(row, "is_nullable"),
			rawDefault:    rowNullString(row, "column_default"),
			autoIncrement: rowBool(row, "is_identity"),
		})
	}
	return columns, nil
}

// sqlServerType appends length or precision to the bare DATA_TYPE
func sqlServerType(row schema.Row) string {
	dataType := strings.ToLower(rowString(row, "data_type"))

	switch dataType {
	case "varchar", "nvarchar", "char", "nchar", "varbinary", "binary":
		switch n := rowInt(row, "char_max_length"); {
		case n == -1:
			return dataType + "(max)"
		case n > 0:
			return fmt.Sprintf("%s(%d)", dataType, n)
		}
	case "decimal", "numeric":
		if p := rowInt(row, "numeric_precision"); p > 0 {
			return fmt.Sprintf("%s(%d,%d)", dataType, p, rowInt(row, "numeric_scale"))
		}
	}
	return dataType
}

func (a *sqlServerAdapter) primaryKey(ctx context.Context, table string) ([]string, error) {
	query := `
		SELECT kcu.COLUMN_NAME AS column_name
		FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS tc
		JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE kcu
			ON tc.CONSTRAINT_NAME = kcu.CONSTRAINT_NAME
			AND tc.TABLE_SCHEMA = kcu.TABLE_SCHEMA
			AND tc.TABLE_NAME = kcu.TABLE_NAME
		WHERE tc.CONSTRAINT_TYPE = 'PRIMARY KEY'
			AND tc.TABLE_SCHEMA = SCHEMA_NAME()
			AND tc.TABLE_NAME = @p1
		ORDER BY kcu.ORDINAL_POSITION
	`

	rows, err := a.src.Query(ctx, query, table)
	if err != nil {
		return nil, err
	}
	return stringColumn(rows, "column_name"), nil
}

func (a *sqlServerAdapter) uniqueColumns(ctx context.Context, table string) ([]string, error) {
	query := `
		SELECT MIN(c.name) AS column_name
		FROM sys.indexes i
		JOIN sys.index_columns ic ON ic.object_id = i.object_id AND ic.index_id = i.index_id
		JOIN sys.columns c ON c.object_id = ic.object_id AND c.column_id = ic.column_id
		WHERE i.object_id = OBJECT_ID(QUOTENAME(SCHEMA_NAME()) + '.' + QUOTENAME(@p1))
			AND i.is_unique = 1
			AND i.is_primary_key = 0
		GROUP BY i.index_id
		HAVING COUNT(*) = 1
	`

	rows, err := a.src.Query(ctx, query, table)
	if err != nil {
		return nil, err
	}
	return stringColumn(rows, "column_name"), nil
}

const sqlServerForeignKeyQuery = `
	SELECT
		OBJECT_NAME(fkc.parent_object_id) AS from_table,
		pc.name AS from_column,
		OBJECT_NAME(fkc.referenced_object_id) AS to_table,
		rc.name AS to_column
	FROM sys.foreign_key_columns fkc
	JOIN sys.columns pc ON pc.object_id = fkc.parent_object_id AND pc.column_id = fkc.parent_column_id
	JOIN sys.columns rc ON rc.object_id = fkc.referenced_object_id AND rc.column_id = fkc.referenced_column_id
`

func (a *sqlServerAdapter) foreignKeys(ctx context.Context, table string) ([]schema.ForeignKey, error) {
	query := sqlServerForeignKeyQuery + `
	WHERE fkc.parent_object_id = OBJECT_ID(QUOTENAME(SCHEMA_NAME()) + '.' + QUOTENAME(@p1))
	ORDER BY fkc.constraint_object_id, fkc.constraint_column_id
	`

	rows, err := a.src.Query(ctx, query, table)
	if err != nil {
		return nil, err
	}
	return foreignKeyRows(rows), nil
}

func (a *sqlServerAdapter) referencingTables(ctx context.Context, table string) ([]schema.ForeignKey, error) {
	query := sqlServerForeignKeyQuery + `
	WHERE fkc.referenced_object_id = OBJECT_ID(QUOTENAME(SCHEMA_NAME()) + '.' + QUOTENAME(@p1))
	ORDER BY OBJECT_NAME(fkc.parent_object_id), fkc.constraint_object_id, fkc.constraint_column_id
	`

	rows, err := a.src.Query(ctx, query, table)
	if err != nil {
		return nil, err
	}
	return foreignKeyRows(rows), nil
}

// normalizeDefault relies on the generic passes: SQL Server wraps every
// default in parentheses, ((0)) and ('text') alike
func (a *sqlServerAdapter) normalizeDefault(raw string) *string {
	return normalizeWith(raw)
}
