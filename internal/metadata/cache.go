package metadata

import "github.com/tordrt/dbtomodel/internal/schema"

type columnKey struct {
	table  string
	column string
}

// Cache memoizes metadata lookups for a single generation run.
// It is not safe for concurrent use; a run is sequential.
type Cache struct {
	tables      []string
	described   map[string]*schema.Table
	columns     map[columnKey]schema.Column
	primaryKeys map[string]string
	foreignKeys map[string][]schema.ForeignKey
	referencing map[string][]schema.ForeignKey
}

// NewCache returns an empty run cache
func NewCache() *Cache {
	c := &Cache{}
	c.Reset()
	return c
}

// Reset discards everything memoized so far
func (c *Cache) Reset() {
	c.tables = nil
	c.described = make(map[string]*schema.Table)
	c.columns = make(map[columnKey]schema.Column)
	c.primaryKeys = make(map[string]string)
	c.foreignKeys = make(map[string][]schema.ForeignKey)
	c.referencing = make(map[string][]schema.ForeignKey)
}
