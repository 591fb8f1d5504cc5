package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/dbtomodel/internal/generator"
	"github.com/tordrt/dbtomodel/internal/schema"
)

// TextFormatter summarises a run as compact text
type TextFormatter struct {
	writer io.Writer
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(w io.Writer) *TextFormatter {
	return &TextFormatter{writer: w}
}

// Format writes the processing order, the entities and the written artifacts
func (f *TextFormatter) Format(r *generator.Report) error {
	_, _ = fmt.Fprintln(f.writer, "ORDER")
	for i, table := range r.Order {
		_, _ = fmt.Fprintf(f.writer, "  %d. %s\n", i+1, table)
	}

	if len(r.BrokenEdges) > 0 {
		_, _ = fmt.Fprintln(f.writer)
		_, _ = fmt.Fprintln(f.writer, "CYCLES:")
		for _, e := range r.BrokenEdges {
			_, _ = fmt.Fprintf(f.writer, "  %s → %s (not guaranteed)\n", e.From, e.To)
		}
	}

	for _, e := range r.Entities {
		_, _ = fmt.Fprintln(f.writer)
		f.formatEntity(e)
	}

	_, _ = fmt.Fprintln(f.writer)
	_, _ = fmt.Fprintf(f.writer, "WRITTEN %d\n", len(r.Written))
	for _, name := range r.Written {
		_, _ = fmt.Fprintf(f.writer, "  %s\n", name)
	}
	return nil
}

func (f *TextFormatter) formatEntity(e schema.Entity) {
	// Entity header with primary key override
	pkStr := ""
	if e.PrimaryKey != "" {
		pkStr = fmt.Sprintf(" (PK: %s)", e.PrimaryKey)
	}
	_, _ = fmt.Fprintf(f.writer, "ENTITY %s %s%s\n", e.Name, e.Table, pkStr)

	for _, field := range e.Fields {
		_, _ = fmt.Fprintf(f.writer, "  %s\n", formatField(field))
	}

	if len(e.Relations) > 0 {
		_, _ = fmt.Fprintln(f.writer)
		_, _ = fmt.Fprintln(f.writer, "  RELATIONS:")
		for _, rel := range e.Relations {
			_, _ = fmt.Fprintf(f.writer, "    %s() → %s.%s (%s)\n", rel.Accessor, rel.TargetTable, rel.ForeignColumn, rel.Kind.Cardinality())
		}
	}
}

func formatField(field schema.Field) string {
	parts := []string{field.Column + ":", field.Type}
	if !field.Nullable {
		parts = append(parts, "NOT NULL")
	}
	return strings.Join(parts, " ")
}
