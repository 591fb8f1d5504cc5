package generator

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/tordrt/dbtomodel/internal/schema"
	"github.com/tordrt/dbtomodel/internal/translate"
)

// TimestampLayout prefixes migration names so that name order is creation order
const TimestampLayout = "2006_01_02_150405"

// OnDeleteCascade is the delete rule of every generated foreign key
const OnDeleteCascade = "cascade"

// Clock hands out migration timestamps one second apart
type Clock struct {
	next time.Time
}

// NewClock starts a clock at the given time, truncated to the second
func NewClock(start time.Time) *Clock {
	return &Clock{next: start.Truncate(time.Second)}
}

// Next returns the current timestamp and advances the clock
func (c *Clock) Next() string {
	stamp := c.next.Format(TimestampLayout)
	c.next = c.next.Add(time.Second)
	return stamp
}

// SplitColumns partitions column names into migration chunks.
//
// Nothing is split when limit <= 0 or there are at most limit columns. Otherwise
// the first chunk holds the first limit columns plus the primary key, the
// timestamp pair (when both exist) and deleted_at; the remaining columns
// follow in chunks of limit. Every chunk keeps table order.
func SplitColumns(names []string, primaryKey string, limit int) [][]string {
	if limit <= 0 || len(names) <= limit {
		return [][]string{slices.Clone(names)}
	}

	first := make(map[string]bool, limit+4)
	for _, n := range names[:limit] {
		first[n] = true
	}
	if slices.Contains(names, primaryKey) {
		first[primaryKey] = true
	}
	if translate.HasTimestamps(names) {
		first[translate.CreatedAt] = true
		first[translate.UpdatedAt] = true
	}
	if slices.Contains(names, translate.DeletedAt) {
		first[translate.DeletedAt] = true
	}

	var head, rest []string
	for _, n := range names {
		if first[n] {
			head = append(head, n)
		} else {
			rest = append(rest, n)
		}
	}

	chunks := [][]string{head}
	for chunk := range slices.Chunk(rest, limit) {
		chunks = append(chunks, chunk)
	}
	return chunks
}

// BuildMigrations creates the base migrations of one table: a CreateTable
// migration and, when the table is split, one AddColumns migration per
// further chunk.
func BuildMigrations(ctx context.Context, md Metadata, tr *translate.Translator, table string, maxColumns int, clock *Clock) ([]schema.Migration, error) {
	t, err := md.Table(ctx, table)
	if err != nil {
		return nil, err
	}

	names := t.ColumnNames()
	timestamps := translate.HasTimestamps(names)
	chunks := SplitColumns(names, md.PrimaryKeyColumn(ctx, table), maxColumns)

	migrations := make([]schema.Migration, 0, len(chunks))
	for i, chunk := range chunks {
		cols := make([]schema.Column, 0, len(chunk))
		for _, name := range chunk {
			col, _ := t.Column(name)
			cols = append(cols, col)
		}
		decls := tr.Declarations(table, cols, timestamps)

		if i == 0 {
			migrations = append(migrations, schema.Migration{
				Name:         fmt.Sprintf("%s_create_%s_table", clock.Next(), table),
				Kind:         schema.CreateTable,
				Table:        table,
				Declarations: decls,
			})
			continue
		}

		migrations = append(migrations, schema.Migration{
			Name:         fmt.Sprintf("%s_add_part_%d_columns_to_%s_table", clock.Next(), i, table),
			Kind:         schema.AddColumns,
			Table:        table,
			Part:         i,
			Declarations: decls,
			DropColumns:  chunk,
		})
	}
	return migrations, nil
}

// BuildForeignKeyMigration collects the foreign keys of every ordered table
// whose target is also ordered. Constraints are grouped by table in order;
// the drops are grouped in reverse order.
func BuildForeignKeyMigration(ctx context.Context, md Metadata, order []string, clock *Clock) (schema.Migration, error) {
	m := schema.Migration{
		Name: clock.Next() + "_add_foreign_keys_to_tables",
		Kind: schema.AddForeignKeys,
	}

	for _, table := range order {
		fks, err := md.ForeignKeys(ctx, table)
		if err != nil {
			return schema.Migration{}, err
		}

		var kept []schema.ForeignKey
		for _, fk := range fks {
			if slices.Contains(order, fk.ToTable) {
				kept = append(kept, fk)
			}
		}
		if len(kept) > 0 {
			m.Constraints = append(m.Constraints, schema.ConstraintGroup{
				Table:       table,
				ForeignKeys: kept,
				OnDelete:    OnDeleteCascade,
			})
		}
	}

	m.DropConstraints = slices.Clone(m.Constraints)
	slices.Reverse(m.DropConstraints)
	return m, nil
}
