package formatter

import (
	"fmt"
	"strings"

	"github.com/tordrt/dbtomodel/internal/schema"
	"github.com/tordrt/dbtomodel/internal/translate"
)

const columnIndent = "            "

// MigrationRenderer renders migrations as Laravel anonymous-class migrations
type MigrationRenderer struct {
	stubs *Stubs
}

// NewMigrationRenderer creates a migration renderer
func NewMigrationRenderer(stubs *Stubs) *MigrationRenderer {
	return &MigrationRenderer{stubs: stubs}
}

// RenderMigration renders <name>.php
func (r *MigrationRenderer) RenderMigration(m schema.Migration) (string, []byte, error) {
	var content string
	switch m.Kind {
	case schema.CreateTable:
		content = r.stubs.Fill(CreateMigrationStub,
			"table", m.Table,
			"columns", formatDeclarations(m.Declarations),
		)
	case schema.AddColumns:
		content = r.stubs.Fill(AddMigrationStub,
			"table", m.Table,
			"columns", formatDeclarations(m.Declarations),
			"dropColumns", quoteList(m.DropColumns),
		)
	case schema.AddForeignKeys:
		content = r.stubs.Fill(ForeignMigrationStub,
			"up", formatConstraintGroups(m.Constraints, addForeignKey),
			"down", formatConstraintGroups(m.DropConstraints, dropForeignKey),
		)
	default:
		return "", nil, fmt.Errorf("unknown migration kind %d", m.Kind)
	}
	return m.Name + ".php", []byte(content), nil
}

// FormatDeclaration renders one Blueprint call without indentation
func FormatDeclaration(d schema.Declaration) string {
	args := make([]string, 0, len(d.Args)+1)
	if d.Column != "" {
		args = append(args, translate.Quote(d.Column))
	}
	args = append(args, d.Args...)

	var b strings.Builder
	fmt.Fprintf(&b, "$table->%s(%s)", d.Method, strings.Join(args, ", "))
	for _, m := range d.Modifiers {
		fmt.Fprintf(&b, "->%s(%s)", m.Name, strings.Join(m.Args, ", "))
	}
	b.WriteString(";")
	return b.String()
}

func formatDeclarations(decls []schema.Declaration) string {
	lines := make([]string, 0, len(decls))
	for _, d := range decls {
		lines = append(lines, columnIndent+FormatDeclaration(d))
	}
	return strings.Join(lines, "\n")
}

func quoteList(values []string) string {
	quoted := make([]string, 0, len(values))
	for _, v := range values {
		quoted = append(quoted, translate.Quote(v))
	}
	return strings.Join(quoted, ", ")
}

func addForeignKey(fk schema.ForeignKey, onDelete string) string {
	line := fmt.Sprintf("$table->foreign(%s)->references(%s)->on(%s)",
		translate.Quote(fk.FromColumn), translate.Quote(fk.ToColumn), translate.Quote(fk.ToTable))
	if onDelete != "" {
		line += fmt.Sprintf("->onDelete(%s)", translate.Quote(onDelete))
	}
	return line + ";"
}

func dropForeignKey(fk schema.ForeignKey, _ string) string {
	return fmt.Sprintf("$table->dropForeign([%s]);", translate.Quote(fk.FromColumn))
}

func formatConstraintGroups(groups []schema.ConstraintGroup, line func(schema.ForeignKey, string) string) string {
	blocks := make([]string, 0, len(groups))
	for _, g := range groups {
		var b strings.Builder
		fmt.Fprintf(&b, "        Schema::table(%s, function (Blueprint $table) {\n", translate.Quote(g.Table))
		for _, fk := range g.ForeignKeys {
			b.WriteString(columnIndent + line(fk, g.OnDelete) + "\n")
		}
		b.WriteString("        });")
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n")
}
