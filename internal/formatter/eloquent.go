package formatter

import (
	"fmt"
	"strings"

	"github.com/tordrt/dbtomodel/internal/schema"
	"github.com/tordrt/dbtomodel/internal/translate"
)

// DefaultNamespace is the namespace of generated models
const DefaultNamespace = `App\Models`

// EloquentRenderer renders entities as Laravel Eloquent models
type EloquentRenderer struct {
	Namespace string
	stubs     *Stubs
}

// NewEloquentRenderer creates an Eloquent renderer
func NewEloquentRenderer(stubs *Stubs, namespace string) *EloquentRenderer {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &EloquentRenderer{Namespace: namespace, stubs: stubs}
}

// RenderEntity renders <Name>.php
func (r *EloquentRenderer) RenderEntity(e schema.Entity) (string, []byte, error) {
	var imports, traits, primaryKey string
	if e.SoftDeletes {
		imports = "\nuse Illuminate\\Database\\Eloquent\\SoftDeletes;"
		traits = "    use SoftDeletes;\n\n"
	}
	if e.PrimaryKey != "" {
		primaryKey = fmt.Sprintf("\n    protected $primaryKey = %s;", translate.Quote(e.PrimaryKey))
	}

	content := r.stubs.Fill(ModelStub,
		"namespace", r.Namespace,
		"imports", imports,
		"modelName", e.Name,
		"traits", traits,
		"table", e.Table,
		"primaryKey", primaryKey,
		"fillable", formatFillable(e.Fillable),
		"relationships", formatRelationships(e.Relations),
	)
	return e.Name + ".php", []byte(content), nil
}

func formatFillable(columns []string) string {
	var b strings.Builder
	b.WriteString("    protected $fillable = [\n")
	for _, col := range columns {
		fmt.Fprintf(&b, "        %s,\n", translate.Quote(col))
	}
	b.WriteString("    ];")
	return b.String()
}

func formatRelationships(relations []schema.Relation) string {
	var b strings.Builder
	for _, rel := range relations {
		call := "hasMany"
		if rel.Kind == schema.Owning {
			call = "belongsTo"
		}

		// belongsTo takes (foreign key, owner key), hasMany takes (foreign key, local key)
		fmt.Fprintf(&b, "\n    public function %s()\n    {\n", rel.Accessor)
		fmt.Fprintf(&b, "        return $this->%s(%s::class, %s, %s);\n",
			call, rel.Target, translate.Quote(firstKey(rel)), translate.Quote(secondKey(rel)))
		b.WriteString("    }\n")
	}
	return b.String()
}

func firstKey(rel schema.Relation) string {
	if rel.Kind == schema.Owning {
		return rel.LocalColumn
	}
	return rel.ForeignColumn
}

func secondKey(rel schema.Relation) string {
	if rel.Kind == schema.Owning {
		return rel.ForeignColumn
	}
	return rel.LocalColumn
}
