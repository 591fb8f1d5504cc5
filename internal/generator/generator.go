// Package generator turns introspected tables into entity and migration
// artifacts.
//
// A run orders the requested tables, then for each table builds its entity
// and base migrations, renders them, and only then writes them. A trailing
// migration adds every foreign key once all tables exist.
package generator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tordrt/dbtomodel/internal/graph"
	"github.com/tordrt/dbtomodel/internal/schema"
	"github.com/tordrt/dbtomodel/internal/translate"
)

// Metadata is the table metadata a run reads
type Metadata interface {
	Table(ctx context.Context, name string) (*schema.Table, error)
	PrimaryKeyColumn(ctx context.Context, table string) string
	ForeignKeys(ctx context.Context, table string) ([]schema.ForeignKey, error)
	ReferencingTables(ctx context.Context, table string) ([]schema.ForeignKey, error)
}

// EntityRenderer renders an entity to a file name and content
type EntityRenderer interface {
	RenderEntity(e schema.Entity) (string, []byte, error)
}

// MigrationRenderer renders a migration to a file name and content
type MigrationRenderer interface {
	RenderMigration(m schema.Migration) (string, []byte, error)
}

// Sink receives rendered artifacts
type Sink interface {
	Write(name string, content []byte) error
}

// Config wires a run
type Config struct {
	MaxColumnsPerMigration int
	Now                    time.Time
	Entities               EntityRenderer
	Migrations             MigrationRenderer
	EntitySink             Sink
	MigrationSink          Sink
	Logger                 *slog.Logger
}

// Report summarises a run
type Report struct {
	Order       []string
	BrokenEdges []graph.Edge
	Entities    []schema.Entity
	Written     []string
}

// Generator runs the generation pipeline over one metadata source
type Generator struct {
	md         Metadata
	translator *translate.Translator
	cfg        Config
	logger     *slog.Logger
}

// New creates a generator
func New(md Metadata, tr *translate.Translator, cfg Config) *Generator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Now.IsZero() {
		cfg.Now = time.Now()
	}
	return &Generator{md: md, translator: tr, cfg: cfg, logger: logger}
}

type artifact struct {
	name    string
	content []byte
	sink    Sink
}

// Run generates artifacts for the given tables.
// A failure aborts the run; artifacts of earlier tables stay written.
func (g *Generator) Run(ctx context.Context, tables []string) (*Report, error) {
	gr, err := graph.Build(ctx, g.md, tables)
	if err != nil {
		return nil, fmt.Errorf("failed to build dependency graph: %w", err)
	}

	order, broken := gr.Order()
	report := &Report{Order: order, BrokenEdges: broken}

	g.logger.Info("tables will be processed in the following order", "count", len(order))
	for i, table := range order {
		g.logger.Info("processing order", "position", i+1, "table", table)
	}
	for _, e := range broken {
		g.logger.Warn("circular foreign key, order not guaranteed", "table", e.From, "references", e.To)
	}

	clock := NewClock(g.cfg.Now)
	for _, table := range order {
		entity, artifacts, err := g.table(ctx, table, clock)
		if err != nil {
			return report, fmt.Errorf("failed to generate table %s: %w", table, err)
		}
		report.Entities = append(report.Entities, entity)

		if err := g.write(report, artifacts); err != nil {
			return report, err
		}
	}

	fkMigration, err := BuildForeignKeyMigration(ctx, g.md, order, clock)
	if err != nil {
		return report, fmt.Errorf("failed to generate foreign key migration: %w", err)
	}
	fk, err := g.renderMigration(fkMigration)
	if err != nil {
		return report, err
	}
	if err := g.write(report, []artifact{fk}); err != nil {
		return report, err
	}

	return report, nil
}

// table builds and renders every artifact of one table without writing any
func (g *Generator) table(ctx context.Context, table string, clock *Clock) (schema.Entity, []artifact, error) {
	entity, err := BuildEntity(ctx, g.md, g.translator, table)
	if err != nil {
		return schema.Entity{}, nil, err
	}

	migrations, err := BuildMigrations(ctx, g.md, g.translator, table, g.cfg.MaxColumnsPerMigration, clock)
	if err != nil {
		return schema.Entity{}, nil, err
	}

	name, content, err := g.cfg.Entities.RenderEntity(entity)
	if err != nil {
		return schema.Entity{}, nil, fmt.Errorf("failed to render entity %s: %w", entity.Name, err)
	}
	artifacts := []artifact{{name: name, content: content, sink: g.cfg.EntitySink}}

	for _, m := range migrations {
		a, err := g.renderMigration(m)
		if err != nil {
			return schema.Entity{}, nil, err
		}
		artifacts = append(artifacts, a)
	}
	return entity, artifacts, nil
}

func (g *Generator) renderMigration(m schema.Migration) (artifact, error) {
	name, content, err := g.cfg.Migrations.RenderMigration(m)
	if err != nil {
		return artifact{}, fmt.Errorf("failed to render migration %s: %w", m.Name, err)
	}
	return artifact{name: name, content: content, sink: g.cfg.MigrationSink}, nil
}

func (g *Generator) write(report *Report, artifacts []artifact) error {
	for _, a := range artifacts {
		if err := a.sink.Write(a.name, a.content); err != nil {
			return fmt.Errorf("failed to write %s: %w", a.name, err)
		}
		report.Written = append(report.Written, a.name)
		g.logger.Info("created", "artifact", a.name)
	}
	return nil
}
