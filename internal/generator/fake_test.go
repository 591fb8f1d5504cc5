package generator

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tordrt/dbtomodel/internal/schema"
)

var errBoom = errors.New("query failed")

// fakeMetadata serves tables built in memory
type fakeMetadata struct {
	tables   map[string]*schema.Table
	fks      map[string][]schema.ForeignKey
	failRefs map[string]bool
}

func newFakeMetadata() *fakeMetadata {
	return &fakeMetadata{
		tables:   make(map[string]*schema.Table),
		fks:      make(map[string][]schema.ForeignKey),
		failRefs: make(map[string]bool),
	}
}

// add registers a table whose "id" column, if any, is an auto-incrementing key
func (f *fakeMetadata) add(name string, columns ...string) {
	t := &schema.Table{Name: name}
	for _, c := range columns {
		col := schema.Column{Name: c, Type: "varchar(255)"}
		if c == "id" {
			col.Type = "bigint"
			col.IsPrimaryKey = true
			col.IsAutoIncrement = true
			t.PrimaryKey = []string{"id"}
		}
		if strings.HasSuffix(c, "_at") {
			col.Type = "timestamp"
			col.Nullable = true
		}
		t.Columns = append(t.Columns, col)
	}
	f.tables[name] = t
}

func (f *fakeMetadata) link(from, column, to string) {
	f.fks[from] = append(f.fks[from], schema.ForeignKey{FromTable: from, FromColumn: column, ToTable: to, ToColumn: "id"})
}

func (f *fakeMetadata) Table(_ context.Context, name string) (*schema.Table, error) {
	t, ok := f.tables[name]
	if !ok {
		return nil, fmt.Errorf("table %s: %w", name, errBoom)
	}
	return t, nil
}

func (f *fakeMetadata) PrimaryKeyColumn(_ context.Context, table string) string {
	if t, ok := f.tables[table]; ok && len(t.PrimaryKey) > 0 {
		return t.PrimaryKey[0]
	}
	return "id"
}

func (f *fakeMetadata) ForeignKeys(_ context.Context, table string) ([]schema.ForeignKey, error) {
	return f.fks[table], nil
}

func (f *fakeMetadata) ReferencingTables(_ context.Context, table string) ([]schema.ForeignKey, error) {
	if f.failRefs[table] {
		return nil, errBoom
	}

	names := make([]string, 0, len(f.fks))
	for name := range f.fks {
		names = append(names, name)
	}
	sort.Strings(names)

	var refs []schema.ForeignKey
	for _, name := range names {
		for _, fk := range f.fks[name] {
			if fk.ToTable == table {
				refs = append(refs, fk)
			}
		}
	}
	return refs, nil
}

// plainRenderer renders artifacts as their names
type plainRenderer struct{}

func (plainRenderer) RenderEntity(e schema.Entity) (string, []byte, error) {
	return e.Name + ".txt", []byte(e.Table), nil
}

func (plainRenderer) RenderMigration(m schema.Migration) (string, []byte, error) {
	return m.Name + ".txt", []byte(m.Kind.String()), nil
}

// memSink records writes in order
type memSink struct {
	names []string
	files map[string][]byte
}

func (s *memSink) Write(name string, content []byte) error {
	if s.files == nil {
		s.files = make(map[string][]byte)
	}
	s.names = append(s.names, name)
	s.files[name] = content
	return nil
}
