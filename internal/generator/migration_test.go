package generator

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/dbtomodel/internal/schema"
	"github.com/tordrt/dbtomodel/internal/translate"
)

var start = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func columnNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("c%02d", i)
	}
	return names
}

func TestClock(t *testing.T) {
	c := NewClock(start.Add(400 * time.Millisecond))
	assert.Equal(t, "2024_05_01_093000", c.Next())
	assert.Equal(t, "2024_05_01_093001", c.Next())
	assert.Equal(t, "2024_05_01_093002", c.Next())
}

func TestSplitColumnsThreshold(t *testing.T) {
	exact := SplitColumns(columnNames(15), "id", 15)
	assert.Len(t, exact, 1)

	over := SplitColumns(columnNames(16), "id", 15)
	require.Len(t, over, 2)
	assert.Len(t, over[0], 15)
	assert.Equal(t, []string{"c15"}, over[1])

	assert.Len(t, SplitColumns(columnNames(100), "id", 0), 1)
	assert.Len(t, SplitColumns(columnNames(100), "id", -1), 1)
}

func TestSplitColumnsEssentialsFirst(t *testing.T) {
	names := []string{"a", "b", "c", "created_at", "d", "e", "id", "f", "updated_at", "deleted_at", "g"}

	chunks := SplitColumns(names, "id", 3)
	assert.Equal(t, [][]string{
		{"a", "b", "c", "created_at", "id", "updated_at", "deleted_at"},
		{"d", "e", "f"},
		{"g"},
	}, chunks)
}

func TestSplitColumnsSingleTimestampIsOrdinary(t *testing.T) {
	names := []string{"id", "a", "b", "c", "created_at"}

	chunks := SplitColumns(names, "id", 2)
	assert.Equal(t, [][]string{{"id", "a"}, {"b", "c"}, {"created_at"}}, chunks)
}

func TestSplitColumnsInvariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	specials := []string{"id", "created_at", "updated_at", "deleted_at"}

	for round := range 300 {
		names := columnNames(1 + rng.IntN(40))
		for _, s := range specials {
			if rng.IntN(2) == 0 {
				names = slices.Insert(names, rng.IntN(len(names)+1), s)
			}
		}
		limit := 1 + rng.IntN(20)

		chunks := SplitColumns(names, "id", limit)

		var union []string
		for _, chunk := range chunks {
			require.NotEmpty(t, chunk, "round %d", round)
			union = append(union, chunk...)
		}
		require.ElementsMatch(t, names, union, "round %d: every column exactly once", round)

		if len(names) <= limit {
			require.Len(t, chunks, 1, "round %d", round)
			continue
		}
		essentials := []string{"deleted_at"}
		if slices.Contains(names, "id") {
			essentials = append(essentials, "id")
		}
		if translate.HasTimestamps(names) {
			essentials = append(essentials, "created_at", "updated_at")
		}
		for _, e := range essentials {
			if slices.Contains(names, e) {
				assert.Contains(t, chunks[0], e, "round %d", round)
			}
		}
		for _, chunk := range chunks[1:] {
			assert.LessOrEqual(t, len(chunk), limit, "round %d", round)
		}
	}
}

func TestBuildMigrations(t *testing.T) {
	ctx := context.Background()
	md := newFakeMetadata()
	md.add("products", "id", "sku", "name", "price", "stock", "created_at", "updated_at", "deleted_at", "color")
	tr := translate.New(schema.MySQL, nil)

	t.Run("single create", func(t *testing.T) {
		migrations, err := BuildMigrations(ctx, md, tr, "products", 15, NewClock(start))
		require.NoError(t, err)
		require.Len(t, migrations, 1)

		m := migrations[0]
		assert.Equal(t, "2024_05_01_093000_create_products_table", m.Name)
		assert.Equal(t, schema.CreateTable, m.Kind)
		methods := make([]string, 0, len(m.Declarations))
		for _, d := range m.Declarations {
			methods = append(methods, d.Method)
		}
		assert.Equal(t, []string{"bigIncrements", "string", "string", "string", "string", "timestamps", "softDeletes", "string"}, methods)
	})

	t.Run("split", func(t *testing.T) {
		migrations, err := BuildMigrations(ctx, md, tr, "products", 2, NewClock(start))
		require.NoError(t, err)
		require.Len(t, migrations, 3)

		assert.Equal(t, "2024_05_01_093000_create_products_table", migrations[0].Name)
		assert.Equal(t, "2024_05_01_093001_add_part_1_columns_to_products_table", migrations[1].Name)
		assert.Equal(t, "2024_05_01_093002_add_part_2_columns_to_products_table", migrations[2].Name)

		methods := make([]string, 0, len(migrations[0].Declarations))
		for _, d := range migrations[0].Declarations {
			methods = append(methods, d.Method)
		}
		assert.Equal(t, []string{"bigIncrements", "string", "timestamps", "softDeletes"}, methods)

		assert.Equal(t, schema.AddColumns, migrations[1].Kind)
		assert.Equal(t, 1, migrations[1].Part)
		assert.Equal(t, []string{"name", "price"}, migrations[1].DropColumns)
		assert.Equal(t, []string{"stock", "color"}, migrations[2].DropColumns)
	})
}

func TestBuildMigrationsDropExactlyAdded(t *testing.T) {
	md := newFakeMetadata()
	md.add("wide", append([]string{"id"}, columnNames(33)...)...)

	migrations, err := BuildMigrations(context.Background(), md, translate.New(schema.Postgres, nil), "wide", 10, NewClock(start))
	require.NoError(t, err)
	require.Len(t, migrations, 4)

	for _, m := range migrations[1:] {
		declared := make([]string, 0, len(m.Declarations))
		for _, d := range m.Declarations {
			declared = append(declared, d.Column)
		}
		assert.Equal(t, m.DropColumns, declared, m.Name)
	}
}

func TestBuildForeignKeyMigration(t *testing.T) {
	md := newFakeMetadata()
	md.link("orders", "customer_id", "customers")
	md.link("orders", "warehouse_id", "warehouses")
	md.link("order_items", "order_id", "orders")
	md.link("order_items", "product_id", "products")

	order := []string{"customers", "products", "orders", "order_items"}
	m, err := BuildForeignKeyMigration(context.Background(), md, order, NewClock(start))
	require.NoError(t, err)

	assert.Equal(t, "2024_05_01_093000_add_foreign_keys_to_tables", m.Name)
	assert.Equal(t, schema.AddForeignKeys, m.Kind)
	require.Len(t, m.Constraints, 2)

	assert.Equal(t, "orders", m.Constraints[0].Table)
	assert.Equal(t, OnDeleteCascade, m.Constraints[0].OnDelete)
	require.Len(t, m.Constraints[0].ForeignKeys, 1, "warehouses is outside the order")
	assert.Equal(t, "customer_id", m.Constraints[0].ForeignKeys[0].FromColumn)

	assert.Equal(t, "order_items", m.Constraints[1].Table)
	assert.Len(t, m.Constraints[1].ForeignKeys, 2)

	require.Len(t, m.DropConstraints, 2)
	assert.Equal(t, "order_items", m.DropConstraints[0].Table)
	assert.Equal(t, "orders", m.DropConstraints[1].Table)
}

func TestBuildForeignKeyMigrationWithoutKeys(t *testing.T) {
	m, err := BuildForeignKeyMigration(context.Background(), newFakeMetadata(), []string{"a"}, NewClock(start))
	require.NoError(t, err)
	assert.Empty(t, m.Constraints)
	assert.Empty(t, m.DropConstraints)
}
