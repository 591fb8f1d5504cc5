package metadata

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/tordrt/dbtomodel/internal/schema"
)

const varcharType = "varchar"

// postgresAdapter reads information_schema and pg_catalog for current_schema()
type postgresAdapter struct {
	src schema.Source
}

func (a *postgresAdapter) tables(ctx context.Context) ([]string, error) {
	query := `
		SELECT table_name::text AS table_name
		FROM information_schema.tables
		WHERE table_schema = current_schema() AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`

	rows, err := a.src.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return stringColumn(rows, "table_name"), nil
}

func (a *postgresAdapter) columns(ctx context.Context, table string) ([]rawColumn, error) {
	query := `
		SELECT
			c.column_name::text AS column_name,
			c.data_type::text AS data_type,
			c.udt_name::text AS udt_name,
			c.character_maximum_length::int AS char_max_length,
			c.numeric_precision::int AS numeric_precision,
			c.numeric_scale::int AS numeric_scale,
			c.is_nullable::text AS is_nullable,
			c.column_default::text AS column_default,
			c.is_identity::text AS is_identity
		FROM information_schema.columns c
		WHERE c.table_schema = current_schema() AND c.table_name = $1
		ORDER BY c.ordinal_position
	`

	rows, err := a.src.Query(ctx, query, table)
	if err != nil {
		return nil, err
	}

	columns := make([]rawColumn, 0, len(rows))
	for _, row := range rows {
		def := rowNullString(row, "column_default")
		serial := def != nil && strings.HasPrefix(*def, "nextval(")

		columns = append(columns, rawColumn{
			name:          rowString(row, "column_name"),
			dataType:      normalizePostgresType(row),
			nullable:      rowBool(row, "is_nullable"),
			rawDefault:    def,
			autoIncrement: serial || rowBool(row, "is_identity"),
		})
	}
	return columns, nil
}

// normalizePostgresType maps verbose SQL type names to commonly-used PostgreSQL equivalents
func normalizePostgresType(row schema.Row) string {
	dataType := rowString(row, "data_type")
	udtName := rowString(row, "udt_name")
	charMaxLength := rowInt(row, "char_max_length")

	switch dataType {
	case "timestamp with time zone":
		return "timestamptz"
	case "timestamp without time zone":
		return "timestamp"
	case "time with time zone":
		return "timetz"
	case "time without time zone":
		return "time"
	case "character varying":
		if charMaxLength > 0 {
			return fmt.Sprintf("varchar(%d)", charMaxLength)
		}
		return varcharType
	case "character":
		if charMaxLength > 0 {
			return fmt.Sprintf("char(%d)", charMaxLength)
		}
		return "char"
	case "numeric":
		if precision := rowInt(row, "numeric_precision"); precision > 0 {
			return fmt.Sprintf("numeric(%d,%d)", precision, rowInt(row, "numeric_scale"))
		}
		return "numeric"
	case "ARRAY":
		// udt_name has underscore prefix for arrays (e.g., "_text" for text[], "_int4" for integer[])
		if len(udtName) > 0 && udtName[0] == '_' {
			return fmt.Sprintf("%s[]", normalizeUdtName(udtName[1:]))
		}
		return "array"
	case "USER-DEFINED":
		return udtName
	default:
		return dataType
	}
}

// normalizeUdtName converts PostgreSQL internal type names to more readable forms
func normalizeUdtName(udtName string) string {
	switch udtName {
	case "int4":
		return "integer"
	case "int8":
		return "bigint"
	case "int2":
		return "smallint"
	case "float4":
		return "real"
	case "float8":
		return "double precision"
	case "bool":
		return "boolean"
	default:
		return udtName
	}
}

func (a *postgresAdapter) primaryKey(ctx context.Context, table string) ([]string, error) {
	query := `
		SELECT kcu.column_name::text AS column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
			AND tc.table_name = kcu.table_name
		WHERE tc.table_schema = current_schema()
			AND tc.table_name = $1
			AND tc.constraint_type = 'PRIMARY KEY'
		ORDER BY kcu.ordinal_position
	`

	rows, err := a.src.Query(ctx, query, table)
	if err != nil {
		return nil, err
	}
	return stringColumn(rows, "column_name"), nil
}

func (a *postgresAdapter) uniqueColumns(ctx context.Context, table string) ([]string, error) {
	query := `
		SELECT a.attname::text AS column_name
		FROM pg_class t
		JOIN pg_namespace n ON n.oid = t.relnamespace
		JOIN pg_index ix ON t.oid = ix.indrelid
		JOIN pg_attribute a ON a.attrelid = t.oid AND a.attnum = ix.indkey[0]
		WHERE t.relkind = 'r'
			AND n.nspname = current_schema()
			AND t.relname = $1
			AND ix.indisunique
			AND NOT ix.indisprimary
			AND ix.indnatts = 1
	`

	rows, err := a.src.Query(ctx, query, table)
	if err != nil {
		return nil, err
	}
	return stringColumn(rows, "column_name"), nil
}

const postgresForeignKeyQuery = `
	SELECT
		tc.table_name::text AS from_table,
		kcu.column_name::text AS from_column,
		ccu.table_name::text AS to_table,
		ccu.column_name::text AS to_column
	FROM information_schema.table_constraints AS tc
	JOIN information_schema.key_column_usage AS kcu
		ON tc.constraint_name = kcu.constraint_name
		AND tc.table_schema = kcu.table_schema
	JOIN information_schema.constraint_column_usage AS ccu
		ON ccu.constraint_name = tc.constraint_name
		AND ccu.table_schema = tc.table_schema
	WHERE tc.constraint_type = 'FOREIGN KEY'
		AND tc.table_schema = current_schema()
`

func (a *postgresAdapter) foreignKeys(ctx context.Context, table string) ([]schema.ForeignKey, error) {
	query := postgresForeignKeyQuery + `
		AND tc.table_name = $1
	ORDER BY tc.constraint_name, kcu.ordinal_position
	`

	rows, err := a.src.Query(ctx, query, table)
	if err != nil {
		return nil, err
	}
	return foreignKeyRows(rows), nil
}

func (a *postgresAdapter) referencingTables(ctx context.Context, table string) ([]schema.ForeignKey, error) {
	query := postgresForeignKeyQuery + `
		AND ccu.table_name = $1
	ORDER BY tc.table_name, tc.constraint_name, kcu.ordinal_position
	`

	rows, err := a.src.Query(ctx, query, table)
	if err != nil {
		return nil, err
	}
	return foreignKeyRows(rows), nil
}

var postgresCast = regexp.MustCompile(`::[A-Za-z_][\w\s"]*(\[\])?$`)

// normalizeDefault drops sequence defaults and trailing type casts
// ('draft'::character varying) before the generic passes
func (a *postgresAdapter) normalizeDefault(raw string) *string {
	v := strings.TrimSpace(raw)
	if strings.HasPrefix(v, "nextval(") {
		return nil
	}
	for postgresCast.MatchString(v) {
		v = strings.TrimSpace(postgresCast.ReplaceAllString(v, ""))
	}
	return normalizeWith(v)
}
