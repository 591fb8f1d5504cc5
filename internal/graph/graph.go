// Package graph orders tables so that referenced tables come before the
// tables that reference them.
package graph

import (
	"context"
	"slices"

	"github.com/tordrt/dbtomodel/internal/schema"
)

// ForeignKeyLister is the part of the metadata inspector the graph needs
type ForeignKeyLister interface {
	ForeignKeys(ctx context.Context, table string) ([]schema.ForeignKey, error)
}

// Edge is a dependency that was skipped to break a cycle: From depends on To
type Edge struct {
	From string
	To   string
}

// Graph holds the dependencies among a requested set of tables
type Graph struct {
	tables []string
	deps   map[string][]string
}

// Build reads the foreign keys of every table in the set. Keys pointing
// outside the set and self-references are not dependencies.
func Build(ctx context.Context, lister ForeignKeyLister, tables []string) (*Graph, error) {
	g := &Graph{deps: make(map[string][]string)}

	requested := make(map[string]bool, len(tables))
	for _, t := range tables {
		if !requested[t] {
			requested[t] = true
			g.tables = append(g.tables, t)
		}
	}

	for _, t := range g.tables {
		fks, err := lister.ForeignKeys(ctx, t)
		if err != nil {
			return nil, err
		}
		for _, fk := range fks {
			g.AddDependency(t, fk.ToTable)
		}
	}
	return g, nil
}

// New returns a graph over tables with no dependencies yet
func New(tables ...string) *Graph {
	g := &Graph{deps: make(map[string][]string)}
	for _, t := range tables {
		if !slices.Contains(g.tables, t) {
			g.tables = append(g.tables, t)
		}
	}
	return g
}

// AddDependency records that table depends on target. It is a no-op when
// either table is outside the graph, the edge is a self-reference, or the
// edge is already known.
func (g *Graph) AddDependency(table, target string) {
	if table == target || !g.Has(table) || !g.Has(target) {
		return
	}
	if slices.Contains(g.deps[table], target) {
		return
	}
	g.deps[table] = append(g.deps[table], target)
}

// Has reports whether the table is part of the graph
func (g *Graph) Has(table string) bool {
	return slices.Contains(g.tables, table)
}

// Tables returns the node set in requested order
func (g *Graph) Tables() []string {
	return slices.Clone(g.tables)
}

// Dependencies returns the tables the given table directly depends on
func (g *Graph) Dependencies(table string) []string {
	return slices.Clone(g.deps[table])
}

const (
	unvisited = iota
	inProgress
	done
)

// Order returns every table exactly once, dependencies before dependents.
//
// Tables with no ordering constraint between them keep their requested
// order. A dependency that would close a cycle is skipped and returned in
// the second result; across a cycle the order is not dependency-correct.
func (g *Graph) Order() ([]string, []Edge) {
	// dependents[b] lists the tables that depend on b, in requested order
	dependents := make(map[string][]string, len(g.tables))
	for _, t := range g.tables {
		for _, dep := range g.deps[t] {
			dependents[dep] = append(dependents[dep], t)
		}
	}

	state := make(map[string]int, len(g.tables))
	post := make([]string, 0, len(g.tables))
	var broken []Edge

	var visit func(string)
	visit = func(table string) {
		state[table] = inProgress
		next := dependents[table]
		for i := len(next) - 1; i >= 0; i-- {
			dependent := next[i]
			switch state[dependent] {
			case inProgress:
				broken = append(broken, Edge{From: dependent, To: table})
			case unvisited:
				visit(dependent)
			}
		}
		state[table] = done
		post = append(post, table)
	}

	for i := len(g.tables) - 1; i >= 0; i-- {
		if state[g.tables[i]] == unvisited {
			visit(g.tables[i])
		}
	}

	slices.Reverse(post)

	seen := make(map[string]bool, len(post))
	order := make([]string, 0, len(post))
	for _, t := range post {
		if !seen[t] {
			seen[t] = true
			order = append(order, t)
		}
	}
	return order, broken
}
