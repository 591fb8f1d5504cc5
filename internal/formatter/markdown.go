package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/dbtomodel/internal/generator"
	"github.com/tordrt/dbtomodel/internal/schema"
)

// MarkdownFormatter summarises a run as markdown
type MarkdownFormatter struct {
	writer io.Writer
}

// NewMarkdownFormatter creates a new markdown formatter
func NewMarkdownFormatter(w io.Writer) *MarkdownFormatter {
	return &MarkdownFormatter{writer: w}
}

// Format writes the processing order, the entities and the written artifacts
func (f *MarkdownFormatter) Format(r *generator.Report) error {
	_, _ = fmt.Fprintln(f.writer, "# Generated Models")
	_, _ = fmt.Fprintln(f.writer)

	_, _ = fmt.Fprintln(f.writer, "## Processing Order")
	_, _ = fmt.Fprintln(f.writer)
	for i, table := range r.Order {
		_, _ = fmt.Fprintf(f.writer, "%d. %s\n", i+1, table)
	}
	_, _ = fmt.Fprintln(f.writer)

	if len(r.BrokenEdges) > 0 {
		_, _ = fmt.Fprintln(f.writer, "Circular references (order not guaranteed):")
		_, _ = fmt.Fprintln(f.writer)
		for _, e := range r.BrokenEdges {
			_, _ = fmt.Fprintf(f.writer, "- %s → %s\n", e.From, e.To)
		}
		_, _ = fmt.Fprintln(f.writer)
	}

	for _, e := range r.Entities {
		f.formatEntity(e)
	}

	_, _ = fmt.Fprintln(f.writer, "## Artifacts")
	_, _ = fmt.Fprintln(f.writer)
	for _, name := range r.Written {
		_, _ = fmt.Fprintf(f.writer, "- `%s`\n", name)
	}
	return nil
}

func (f *MarkdownFormatter) formatEntity(e schema.Entity) {
	_, _ = fmt.Fprintf(f.writer, "## %s\n\n", e.Name)
	_, _ = fmt.Fprintf(f.writer, "Table `%s`", e.Table)
	if e.PrimaryKey != "" {
		_, _ = fmt.Fprintf(f.writer, ", primary key `%s`", e.PrimaryKey)
	}
	if e.SoftDeletes {
		_, _ = fmt.Fprint(f.writer, ", soft deletes")
	}
	_, _ = fmt.Fprintln(f.writer)
	_, _ = fmt.Fprintln(f.writer)

	_, _ = fmt.Fprintln(f.writer, "### Fields")
	_, _ = fmt.Fprintln(f.writer)
	for _, field := range e.Fields {
		if constraints := formatConstraints(field, e.Fillable); constraints != "" {
			_, _ = fmt.Fprintf(f.writer, "- **%s:** %s, %s\n", field.Column, field.Type, constraints)
		} else {
			_, _ = fmt.Fprintf(f.writer, "- **%s:** %s\n", field.Column, field.Type)
		}
	}
	_, _ = fmt.Fprintln(f.writer)

	if len(e.Relations) > 0 {
		_, _ = fmt.Fprintln(f.writer, "### Relations")
		_, _ = fmt.Fprintln(f.writer)
		for _, rel := range e.Relations {
			_, _ = fmt.Fprintf(f.writer, "- `%s()` %s → %s.%s (%s)\n",
				rel.Accessor,
				rel.LocalColumn,
				rel.TargetTable,
				rel.ForeignColumn,
				rel.Kind.Cardinality())
		}
		_, _ = fmt.Fprintln(f.writer)
	}
}

func formatConstraints(field schema.Field, fillable []string) string {
	var constraints []string

	isFillable := false
	for _, col := range fillable {
		if col == field.Column {
			isFillable = true
			break
		}
	}

	if isFillable {
		constraints = append(constraints, "fillable")
	}

	if !field.Nullable {
		constraints = append(constraints, "NOT NULL")
	}

	return strings.Join(constraints, ", ")
}
