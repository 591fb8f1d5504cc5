package generator

import (
	"context"

	"github.com/tordrt/dbtomodel/internal/metadata"
	"github.com/tordrt/dbtomodel/internal/naming"
	"github.com/tordrt/dbtomodel/internal/schema"
	"github.com/tordrt/dbtomodel/internal/translate"
)

// notFillable are the columns the framework manages itself
var notFillable = map[string]bool{
	metadata.DefaultPrimaryKey: true,
	translate.CreatedAt:        true,
	translate.UpdatedAt:        true,
}

// BuildEntity describes one table as an entity with its relationship accessors.
// Owning accessors come first in foreign key order, then owned accessors in
// discovery order.
func BuildEntity(ctx context.Context, md Metadata, tr *translate.Translator, table string) (schema.Entity, error) {
	t, err := md.Table(ctx, table)
	if err != nil {
		return schema.Entity{}, err
	}

	entity := schema.Entity{
		Name:  naming.Entity(table),
		Table: table,
	}

	if pk := md.PrimaryKeyColumn(ctx, table); pk != metadata.DefaultPrimaryKey {
		entity.PrimaryKey = pk
	}

	for _, col := range t.Columns {
		if !notFillable[col.Name] {
			entity.Fillable = append(entity.Fillable, col.Name)
		}
		if col.Name == translate.DeletedAt {
			entity.SoftDeletes = true
		}

		method, _ := tr.TargetType(col.Type)
		entity.Fields = append(entity.Fields, schema.Field{
			Column:   col.Name,
			Type:     method,
			Nullable: col.Nullable,
		})
	}

	fks, err := md.ForeignKeys(ctx, table)
	if err != nil {
		return schema.Entity{}, err
	}
	for _, fk := range fks {
		entity.Relations = append(entity.Relations, schema.Relation{
			Kind:          schema.Owning,
			Accessor:      naming.Camel(naming.Singular(fk.ToTable)),
			Target:        naming.Entity(fk.ToTable),
			TargetTable:   fk.ToTable,
			LocalColumn:   fk.FromColumn,
			ForeignColumn: fk.ToColumn,
		})
	}

	refs, err := md.ReferencingTables(ctx, table)
	if err != nil {
		return schema.Entity{}, err
	}
	for _, ref := range refs {
		entity.Relations = append(entity.Relations, schema.Relation{
			Kind:          schema.Owned,
			Accessor:      naming.Camel(naming.Plural(ref.FromTable)),
			Target:        naming.Entity(ref.FromTable),
			TargetTable:   ref.FromTable,
			LocalColumn:   ref.ToColumn,
			ForeignColumn: ref.FromColumn,
		})
	}

	return entity, nil
}
