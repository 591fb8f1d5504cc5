package metadata

import (
	"context"
	"sort"
	"strings"

	"github.com/tordrt/dbtomodel/internal/schema"
)

// sqliteAdapter reads sqlite_master and the table-valued PRAGMA functions.
// SQLite has no reverse foreign key lookup, so it does not implement reverseLookup.
type sqliteAdapter struct {
	src schema.Source
}

func (a *sqliteAdapter) tables(ctx context.Context) ([]string, error) {
	query := `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`

	rows, err := a.src.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return stringColumn(rows, "name"), nil
}

func (a *sqliteAdapter) tableInfo(ctx context.Context, table string) ([]schema.Row, error) {
	return a.src.Query(ctx, `SELECT cid, name, type, "notnull", dflt_value, pk FROM pragma_table_info(?) ORDER BY cid`, table)
}

func (a *sqliteAdapter) columns(ctx context.Context, table string) ([]rawColumn, error) {
	rows, err := a.tableInfo(ctx, table)
	if err != nil {
		return nil, err
	}

	pkCount := 0
	for _, row := range rows {
		if rowInt(row, "pk") > 0 {
			pkCount++
		}
	}

	columns := make([]rawColumn, 0, len(rows))
	for _, row := range rows {
		colType := rowString(row, "type")
		// A lone INTEGER PRIMARY KEY aliases the rowid and is assigned automatically
		rowid := pkCount == 1 && rowInt(row, "pk") > 0 && strings.EqualFold(colType, "integer")

		columns = append(columns, rawColumn{
			name:          rowString(row, "name"),
			dataType:      colType,
			nullable:      !rowBool(row, "notnull"),
			rawDefault:    rowNullString(row, "dflt_value"),
			autoIncrement: rowid,
		})
	}
	return columns, nil
}

func (a *sqliteAdapter) primaryKey(ctx context.Context, table string) ([]string, error) {
	rows, err := a.tableInfo(ctx, table)
	if err != nil {
		return nil, err
	}

	var keyed []schema.Row
	for _, row := range rows {
		if rowInt(row, "pk") > 0 {
			keyed = append(keyed, row)
		}
	}
	// pk holds the 1-based position within the primary key
	sort.SliceStable(keyed, func(i, j int) bool {
		return rowInt(keyed[i], "pk") < rowInt(keyed[j], "pk")
	})
	return stringColumn(keyed, "name"), nil
}

func (a *sqliteAdapter) uniqueColumns(ctx context.Context, table string) ([]string, error) {
	indexes, err := a.src.Query(ctx, `SELECT name, "unique", origin FROM pragma_index_list(?)`, table)
	if err != nil {
		return nil, err
	}

	var unique []string
	for _, idx := range indexes {
		if !rowBool(idx, "unique") || rowString(idx, "origin") == "pk" {
			continue
		}

		cols, err := a.src.Query(ctx, `SELECT name FROM pragma_index_info(?) ORDER BY seqno`, rowString(idx, "name"))
		if err != nil {
			return nil, err
		}

		// Only single-column unique indexes make a column unique on its own
		if len(cols) == 1 && cols[0]["name"] != nil {
			unique = append(unique, rowString(cols[0], "name"))
		}
	}
	return unique, nil
}

func (a *sqliteAdapter) foreignKeys(ctx context.Context, table string) ([]schema.ForeignKey, error) {
	rows, err := a.src.Query(ctx, `SELECT id, seq, "table", "from", "to" FROM pragma_foreign_key_list(?) ORDER BY id DESC, seq`, table)
	if err != nil {
		return nil, err
	}

	fks := make([]schema.ForeignKey, 0, len(rows))
	for _, row := range rows {
		fks = append(fks, schema.ForeignKey{
			FromTable:  table,
			FromColumn: rowString(row, "from"),
			ToTable:    rowString(row, "table"),
			ToColumn:   rowString(row, "to"),
		})
	}
	return fks, nil
}

func (a *sqliteAdapter) normalizeDefault(raw string) *string {
	return normalizeWith(raw)
}
