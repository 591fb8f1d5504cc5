package graph

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/dbtomodel/internal/schema"
)

type fakeLister map[string][]schema.ForeignKey

func (f fakeLister) ForeignKeys(_ context.Context, table string) ([]schema.ForeignKey, error) {
	if table == "broken" {
		return nil, errors.New("lookup failed")
	}
	return f[table], nil
}

func fk(from, to string) schema.ForeignKey {
	return schema.ForeignKey{FromTable: from, FromColumn: to + "_id", ToTable: to, ToColumn: "id"}
}

func TestOrder(t *testing.T) {
	tests := []struct {
		name   string
		tables []string
		deps   [][2]string
		want   []string
		broken []Edge
	}{
		{
			name:   "dependency first",
			tables: []string{"orders", "customers"},
			deps:   [][2]string{{"orders", "customers"}},
			want:   []string{"customers", "orders"},
		},
		{
			name:   "independent tables keep requested order",
			tables: []string{"c", "a", "b"},
			want:   []string{"c", "a", "b"},
		},
		{
			name:   "chain",
			tables: []string{"a", "b", "c"},
			deps:   [][2]string{{"a", "b"}, {"b", "c"}},
			want:   []string{"c", "b", "a"},
		},
		{
			name:   "unrelated tables stay in place",
			tables: []string{"x", "orders", "customers", "y"},
			deps:   [][2]string{{"orders", "customers"}},
			want:   []string{"x", "customers", "orders", "y"},
		},
		{
			name:   "self reference is ignored",
			tables: []string{"categories"},
			deps:   [][2]string{{"categories", "categories"}},
			want:   []string{"categories"},
		},
		{
			name:   "mutual reference is broken",
			tables: []string{"a", "b"},
			deps:   [][2]string{{"a", "b"}, {"b", "a"}},
			want:   []string{"b", "a"},
			broken: []Edge{{From: "b", To: "a"}},
		},
		{
			name:   "dependency outside the set is ignored",
			tables: []string{"orders"},
			deps:   [][2]string{{"orders", "customers"}},
			want:   []string{"orders"},
		},
		{
			name:   "duplicate tables collapse",
			tables: []string{"a", "b", "a"},
			want:   []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(tt.tables...)
			for _, d := range tt.deps {
				g.AddDependency(d[0], d[1])
			}

			order, broken := g.Order()
			assert.Equal(t, tt.want, order)
			assert.Equal(t, tt.broken, broken)
		})
	}
}

func TestBuild(t *testing.T) {
	lister := fakeLister{
		"orders":      {fk("orders", "customers"), fk("orders", "customers"), fk("orders", "warehouses")},
		"order_items": {fk("order_items", "orders")},
		"categories":  {fk("categories", "categories")},
	}

	g, err := Build(context.Background(), lister, []string{"order_items", "categories", "orders", "customers"})
	require.NoError(t, err)

	assert.Equal(t, []string{"customers"}, g.Dependencies("orders"))
	assert.Empty(t, g.Dependencies("categories"))
	assert.False(t, g.Has("warehouses"))

	order, broken := g.Order()
	assert.Equal(t, []string{"categories", "customers", "orders", "order_items"}, order)
	assert.Empty(t, broken)
}

func TestBuildPropagatesErrors(t *testing.T) {
	_, err := Build(context.Background(), fakeLister{}, []string{"a", "broken"})
	require.Error(t, err)
}

func TestOrderIsDeterministic(t *testing.T) {
	g := New("a", "b", "c", "d", "e")
	g.AddDependency("a", "b")
	g.AddDependency("b", "c")
	g.AddDependency("c", "a")
	g.AddDependency("e", "d")

	first, firstBroken := g.Order()
	for range 20 {
		order, broken := g.Order()
		require.Equal(t, first, order)
		require.Equal(t, firstBroken, broken)
	}
}

func TestOrderProperties(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))

	for round := range 200 {
		n := 1 + rng.IntN(12)
		tables := make([]string, n)
		for i := range tables {
			tables[i] = fmt.Sprintf("t%02d", i)
		}

		// rank fixes a hidden topological order so the graph is acyclic
		rank := rng.Perm(n)
		g := New(tables...)
		var edges [][2]string
		for i := range n {
			for j := range n {
				if rank[i] > rank[j] && rng.IntN(4) == 0 {
					g.AddDependency(tables[i], tables[j])
					edges = append(edges, [2]string{tables[i], tables[j]})
				}
			}
		}

		order, broken := g.Order()
		require.Len(t, order, n, "round %d", round)
		require.ElementsMatch(t, tables, order, "round %d", round)
		require.Empty(t, broken, "round %d", round)

		for _, e := range edges {
			assert.Less(t, slices.Index(order, e[1]), slices.Index(order, e[0]),
				"round %d: %s depends on %s", round, e[0], e[1])
		}
	}
}

func TestOrderCompleteWithCycles(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))

	for round := range 200 {
		n := 1 + rng.IntN(10)
		tables := make([]string, n)
		for i := range tables {
			tables[i] = fmt.Sprintf("t%02d", i)
		}

		g := New(tables...)
		for i := range n {
			for j := range n {
				if rng.IntN(3) == 0 {
					g.AddDependency(tables[i], tables[j])
				}
			}
		}

		order, _ := g.Order()
		require.Len(t, order, n, "round %d", round)
		require.ElementsMatch(t, tables, order, "round %d", round)
	}
}
