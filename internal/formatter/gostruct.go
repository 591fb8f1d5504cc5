package formatter

import (
	"bytes"
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/tordrt/dbtomodel/internal/naming"
	"github.com/tordrt/dbtomodel/internal/schema"
	"github.com/tordrt/dbtomodel/internal/translate"
)

// DefaultGoPackage is the package name of generated Go entities
const DefaultGoPackage = "models"

// GoRenderer renders entities as Go structs, one file per table
type GoRenderer struct {
	Package string
}

// NewGoRenderer creates a Go struct renderer
func NewGoRenderer(pkg string) *GoRenderer {
	if pkg == "" {
		pkg = DefaultGoPackage
	}
	return &GoRenderer{Package: pkg}
}

// RenderEntity renders <snake singular table>.go
func (r *GoRenderer) RenderEntity(e schema.Entity) (string, []byte, error) {
	f := jen.NewFile(r.Package)
	f.HeaderComment("Code generated by dbtomodel. DO NOT EDIT.")

	fields := make([]jen.Code, 0, len(e.Fields)+len(e.Relations))
	for _, field := range e.Fields {
		fields = append(fields, jen.Id(naming.GoName(field.Column)).Add(goType(field)).Tag(map[string]string{
			"db":   field.Column,
			"json": field.Column,
		}))
	}

	for _, rel := range e.Relations {
		name := naming.GoName(rel.Accessor)
		tag := map[string]string{"db": "-", "json": naming.Snake(rel.Accessor) + ",omitempty"}
		if rel.Kind == schema.Owning {
			fields = append(fields, jen.Id(name).Op("*").Id(rel.Target).Tag(tag))
		} else {
			fields = append(fields, jen.Id(name).Index().Id(rel.Target).Tag(tag))
		}
	}

	f.Commentf("%s is a row of the %s table.", e.Name, e.Table)
	f.Type().Id(e.Name).Struct(fields...)

	f.Comment("TableName returns the table the entity is stored in.")
	f.Func().Params(jen.Id(e.Name)).Id("TableName").Params().String().Block(
		jen.Return(jen.Lit(e.Table)),
	)

	if e.PrimaryKey != "" {
		f.Comment("PrimaryKey returns the primary key column.")
		f.Func().Params(jen.Id(e.Name)).Id("PrimaryKey").Params().String().Block(
			jen.Return(jen.Lit(e.PrimaryKey)),
		)
	}

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return "", nil, fmt.Errorf("failed to render %s: %w", e.Name, err)
	}
	return naming.Snake(naming.Singular(e.Table)) + ".go", buf.Bytes(), nil
}

// goType maps a column method to a Go type; nullable columns become pointers
func goType(field schema.Field) *jen.Statement {
	var t *jen.Statement
	pointer := field.Nullable

	switch field.Type {
	case translate.TinyInteger:
		t = jen.Int8()
	case translate.SmallInteger, translate.Year:
		t = jen.Int16()
	case translate.MediumInteger, translate.Integer:
		t = jen.Int32()
	case translate.BigInteger:
		t = jen.Int64()
	case translate.Float:
		t = jen.Float32()
	case translate.Double:
		t = jen.Float64()
	case translate.Boolean:
		t = jen.Bool()
	case translate.Date, translate.DateTime, translate.Timestamp, translate.Time:
		t = jen.Qual("time", "Time")
	case translate.Binary:
		t, pointer = jen.Index().Byte(), false
	case translate.JSON, translate.JSONB:
		t, pointer = jen.Qual("encoding/json", "RawMessage"), false
	default:
		t = jen.String()
	}

	if pointer {
		return jen.Op("*").Add(t)
	}
	return t
}
