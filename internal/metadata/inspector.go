// Package metadata answers normalized questions about tables and columns
// against a live database, whatever its dialect.
//
// An Inspector is built once per generation run from a schema.Source and a
// run-scoped Cache. It picks the dialect adapter from Source.Dialect(); every
// lookup after that is memoized in the Cache, so each table is queried once.
package metadata

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tordrt/dbtomodel/internal/schema"
)

// DefaultPrimaryKey is assumed when a table declares no primary key
const DefaultPrimaryKey = "id"

// rawColumn is one column as an adapter reads it, before default normalization
type rawColumn struct {
	name          string
	dataType      string
	nullable      bool
	rawDefault    *string
	autoIncrement bool
}

// adapter issues the dialect-specific metadata queries
type adapter interface {
	tables(ctx context.Context) ([]string, error)
	columns(ctx context.Context, table string) ([]rawColumn, error)
	primaryKey(ctx context.Context, table string) ([]string, error)
	uniqueColumns(ctx context.Context, table string) ([]string, error)
	foreignKeys(ctx context.Context, table string) ([]schema.ForeignKey, error)
	normalizeDefault(raw string) *string
}

// reverseLookup is implemented by adapters that can query incoming foreign keys directly
type reverseLookup interface {
	referencingTables(ctx context.Context, table string) ([]schema.ForeignKey, error)
}

// Inspector is the uniform metadata capability over one connection
type Inspector struct {
	dialect schema.Dialect
	adapter adapter
	cache   *Cache
	logger  *slog.Logger
}

// New selects the adapter for the source's dialect.
// A nil cache gets a fresh one; a nil logger uses slog.Default().
func New(source schema.Source, cache *Cache, logger *slog.Logger) (*Inspector, error) {
	var a adapter
	switch source.Dialect() {
	case schema.MySQL:
		a = &mysqlAdapter{src: source}
	case schema.Postgres:
		a = &postgresAdapter{src: source}
	case schema.SQLite:
		a = &sqliteAdapter{src: source}
	case schema.SQLServer:
		a = &sqlServerAdapter{src: source}
	default:
		return nil, &UnsupportedDialectError{Dialect: source.Dialect()}
	}

	if cache == nil {
		cache = NewCache()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Inspector{
		dialect: source.Dialect(),
		adapter: a,
		cache:   cache,
		logger:  logger,
	}, nil
}

// Dialect returns the dialect of the inspected connection
func (i *Inspector) Dialect() schema.Dialect {
	return i.dialect
}

// ListTables returns the tables in discovery order, without the ignored ones
func (i *Inspector) ListTables(ctx context.Context, ignore []string) ([]string, error) {
	all, err := i.allTables(ctx)
	if err != nil {
		return nil, err
	}

	ignored := make(map[string]bool, len(ignore))
	for _, name := range ignore {
		ignored[name] = true
	}

	tables := make([]string, 0, len(all))
	for _, name := range all {
		if !ignored[name] {
			tables = append(tables, name)
		}
	}
	return tables, nil
}

func (i *Inspector) allTables(ctx context.Context) ([]string, error) {
	if i.cache.tables != nil {
		return i.cache.tables, nil
	}

	tables, err := i.adapter.tables(ctx)
	if err != nil {
		return nil, queryError("list tables", "", err)
	}
	if tables == nil {
		tables = []string{}
	}
	i.cache.tables = tables
	return tables, nil
}

// Table returns the described table: columns with their flags and the primary key
func (i *Inspector) Table(ctx context.Context, name string) (*schema.Table, error) {
	if t, ok := i.cache.described[name]; ok {
		return t, nil
	}

	raw, err := i.adapter.columns(ctx, name)
	if err != nil {
		return nil, queryError("list columns", name, err)
	}
	if len(raw) == 0 {
		return nil, queryError("list columns", name, ErrTableNotFound)
	}

	pk, err := i.adapter.primaryKey(ctx, name)
	if err != nil {
		return nil, queryError("read primary key", name, err)
	}

	unique, err := i.adapter.uniqueColumns(ctx, name)
	if err != nil {
		return nil, queryError("read unique constraints", name, err)
	}

	primary := toSet(pk)
	uniq := toSet(unique)

	table := &schema.Table{Name: name, PrimaryKey: pk}
	for _, rc := range raw {
		col := schema.Column{
			Name:            rc.name,
			Type:            rc.dataType,
			Nullable:        rc.nullable,
			IsPrimaryKey:    primary[rc.name],
			IsAutoIncrement: rc.autoIncrement,
			IsUnique:        uniq[rc.name],
		}
		if rc.rawDefault != nil {
			col.DefaultValue = i.adapter.normalizeDefault(*rc.rawDefault)
		}
		table.Columns = append(table.Columns, col)
	}

	i.cache.described[name] = table
	return table, nil
}

// ListColumns returns the column names in declaration order
func (i *Inspector) ListColumns(ctx context.Context, table string) ([]string, error) {
	t, err := i.Table(ctx, table)
	if err != nil {
		return nil, err
	}
	return t.ColumnNames(), nil
}

// ColumnInfo returns the descriptor of one column
func (i *Inspector) ColumnInfo(ctx context.Context, table, column string) (schema.Column, error) {
	key := columnKey{table: table, column: column}
	if col, ok := i.cache.columns[key]; ok {
		return col, nil
	}

	t, err := i.Table(ctx, table)
	if err != nil {
		return schema.Column{}, err
	}

	col, ok := t.Column(column)
	if !ok {
		return schema.Column{}, queryError("read column info", table, fmt.Errorf("%w: %s", ErrColumnNotFound, column))
	}

	i.cache.columns[key] = col
	return col, nil
}

// DefaultValue returns the normalized default of a column, or nil if it has none
func (i *Inspector) DefaultValue(ctx context.Context, table, column string) (*string, error) {
	col, err := i.ColumnInfo(ctx, table, column)
	if err != nil {
		return nil, err
	}
	return col.DefaultValue, nil
}

// IsPrimaryKey reports whether the column is part of the primary key
func (i *Inspector) IsPrimaryKey(ctx context.Context, table, column string) (bool, error) {
	col, err := i.ColumnInfo(ctx, table, column)
	if err != nil {
		return false, err
	}
	return col.IsPrimaryKey, nil
}

// IsUnique reports whether the column carries a single-column unique constraint
func (i *Inspector) IsUnique(ctx context.Context, table, column string) (bool, error) {
	col, err := i.ColumnInfo(ctx, table, column)
	if err != nil {
		return false, err
	}
	return col.IsUnique, nil
}

// IsAutoIncrement reports whether the database generates the column's values
func (i *Inspector) IsAutoIncrement(ctx context.Context, table, column string) (bool, error) {
	col, err := i.ColumnInfo(ctx, table, column)
	if err != nil {
		return false, err
	}
	return col.IsAutoIncrement, nil
}

// PrimaryKeyColumn returns the first primary key column in key order.
// It falls back to "id" when the table has no primary key or the lookup fails.
func (i *Inspector) PrimaryKeyColumn(ctx context.Context, table string) string {
	if pk, ok := i.cache.primaryKeys[table]; ok {
		return pk
	}

	pk := DefaultPrimaryKey
	t, err := i.Table(ctx, table)
	switch {
	case err != nil:
		i.logger.Warn("primary key lookup failed, assuming id", "table", table, "error", err)
	case len(t.PrimaryKey) > 0:
		pk = t.PrimaryKey[0]
	}

	i.cache.primaryKeys[table] = pk
	return pk
}

// ForeignKeys returns the foreign keys declared by a table
func (i *Inspector) ForeignKeys(ctx context.Context, table string) ([]schema.ForeignKey, error) {
	if fks, ok := i.cache.foreignKeys[table]; ok {
		return fks, nil
	}

	fks, err := i.adapter.foreignKeys(ctx, table)
	if err != nil {
		return nil, queryError("read foreign keys", table, err)
	}

	for j := range fks {
		if fks[j].FromTable == "" {
			fks[j].FromTable = table
		}
		// SQLite may omit the referenced column when it is the primary key
		if fks[j].ToColumn == "" {
			fks[j].ToColumn = i.PrimaryKeyColumn(ctx, fks[j].ToTable)
		}
	}

	i.cache.foreignKeys[table] = fks
	return fks, nil
}

// ReferencingTables returns the foreign keys of any table that point at this one
func (i *Inspector) ReferencingTables(ctx context.Context, table string) ([]schema.ForeignKey, error) {
	if refs, ok := i.cache.referencing[table]; ok {
		return refs, nil
	}

	var refs []schema.ForeignKey
	if rl, ok := i.adapter.(reverseLookup); ok {
		found, err := rl.referencingTables(ctx, table)
		if err != nil {
			return nil, queryError("read referencing tables", table, err)
		}
		refs = found
	} else {
		// No reverse query for this dialect: scan every table's foreign keys
		all, err := i.allTables(ctx)
		if err != nil {
			return nil, err
		}
		for _, other := range all {
			fks, err := i.ForeignKeys(ctx, other)
			if err != nil {
				return nil, err
			}
			for _, fk := range fks {
				if fk.ToTable == table {
					refs = append(refs, fk)
				}
			}
		}
	}

	i.cache.referencing[table] = refs
	return refs, nil
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
